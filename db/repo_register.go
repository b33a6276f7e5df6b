package db

import (
	"context"
	"errors"
	"regexp"
	"sort"
	"strings"
	"time"
	"unicode"

	"lending_register/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrNotIssued   = errors.New("transaction is not issued")
	ErrNotReturned = errors.New("transaction is not returned")
)

const dateLayout = "2006-01-02"

var phoneRe = regexp.MustCompile(`^\d{10}$`)

// ValidationError maps field names to messages. When a repo operation
// returns one, no writes have happened.
type ValidationError map[string]string

func (e ValidationError) Error() string {
	fields := make([]string, 0, len(e))
	for f := range e {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return "invalid input: " + strings.Join(fields, ", ")
}

// EntryInput carries the issue/edit form fields.
type EntryInput struct {
	Name      string   `json:"name"`
	Place     string   `json:"place"`
	Phone     string   `json:"phone"`
	InCareOf  string   `json:"inCareOf"`
	Items     []string `json:"items"`
	IssueDate string   `json:"issueDate"`
}

// Normalize trims fields and word-capitalizes name, place and inCareOf
// before storage.
func (in *EntryInput) Normalize() {
	in.Name = capitalizeWords(in.Name)
	in.Place = capitalizeWords(in.Place)
	in.InCareOf = capitalizeWords(in.InCareOf)
	in.Phone = strings.TrimSpace(in.Phone)
	in.IssueDate = strings.TrimSpace(in.IssueDate)
}

// Validate returns per-field error messages; empty means valid.
func (in EntryInput) Validate(now time.Time) ValidationError {
	errs := ValidationError{}
	if in.Name == "" {
		errs["name"] = "Name is required"
	}
	if in.Place == "" {
		errs["place"] = "Place is required"
	}
	if in.Phone == "" {
		errs["phone"] = "Phone is required"
	} else if !phoneRe.MatchString(in.Phone) {
		errs["phone"] = "Phone must be 10 digits"
	}
	if len(in.ItemNames()) == 0 {
		errs["selectedItems"] = "Please select at least one item"
	}
	if in.IssueDate == "" {
		errs["issueDate"] = "Issue date is required"
	} else if d, err := time.Parse(dateLayout, in.IssueDate); err != nil {
		errs["issueDate"] = "Issue date must be a valid YYYY-MM-DD date"
	} else if d.After(now) {
		errs["issueDate"] = "Issue date cannot be in the future"
	}
	return errs
}

// ItemNames returns the requested item names with blanks dropped.
// Duplicates are kept: asking for the same item twice issues two units.
func (in EntryInput) ItemNames() []string {
	return trimNames(in.Items)
}

func trimNames(names []string) []string {
	var out []string
	for _, n := range names {
		if s := strings.TrimSpace(n); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func capitalizeWords(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		r := []rune(strings.ToLower(w))
		r[0] = unicode.ToUpper(r[0])
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}

// countNames builds the per-name multiset of occurrences.
func countNames(names []string) map[string]int {
	counts := make(map[string]int, len(names))
	for _, n := range names {
		counts[n]++
	}
	return counts
}

// IssueItems creates one single-item transaction per requested name and
// bumps each item's issued count, all inside one database transaction.
func (r *Repo) IssueItems(ctx context.Context, in EntryInput) ([]models.Transaction, error) {
	in.Normalize()
	if errs := in.Validate(time.Now()); len(errs) > 0 {
		return nil, errs
	}

	names := in.ItemNames()
	txs := make([]models.Transaction, 0, len(names))
	for _, name := range names {
		txs = append(txs, models.Transaction{
			ID: uuid.NewString(),
			Details: models.BorrowerDetails{
				Name:  in.Name,
				Place: in.Place,
				Phone: in.Phone,
			},
			IssuedItems:   models.StringList{name},
			ReturnedItems: models.StringList{},
			DealerName:    in.Name,
			InCareOf:      in.InCareOf,
			IssueDate:     in.IssueDate,
			Status:        models.StatusIssued,
		})
	}

	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for name, n := range countNames(names) {
			if err := applyDelta(tx, name, n); err != nil {
				return err
			}
		}
		for i := range txs {
			if err := tx.Create(&txs[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	r.changed(ctx, CollectionItems, CollectionTransactions)
	return txs, nil
}

// ReturnTransaction closes an outstanding transaction and gives the
// returned units back to stock, once per occurrence of each name.
func (r *Repo) ReturnTransaction(ctx context.Context, id string, returnedNames []string, returnDate string) (*models.Transaction, error) {
	names := trimNames(returnedNames)
	errs := ValidationError{}
	if len(names) == 0 {
		errs["returnedItems"] = "Please select at least one item"
	}
	if strings.TrimSpace(returnDate) == "" {
		errs["returnDate"] = "Return date is required"
	}
	if len(errs) > 0 {
		return nil, errs
	}

	var t models.Transaction
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&t, "id = ?", id).Error; err != nil {
			return err
		}
		if t.Status != models.StatusIssued {
			return ErrNotIssued
		}
		for name, n := range countNames(names) {
			if err := applyDelta(tx, name, -n); err != nil {
				return err
			}
		}
		t.ReturnedItems = models.StringList(names)
		t.ReturnDate = strings.TrimSpace(returnDate)
		t.Status = models.StatusReturned
		return tx.Save(&t).Error
	})
	if err != nil {
		return nil, err
	}
	r.changed(ctx, CollectionItems, CollectionTransactions)
	return &t, nil
}

// UndoReturn reopens a returned transaction, re-issuing every unit the
// return gave back. Transactions created before returns were recorded
// carry no returnedItems; those fall back to the issued set.
func (r *Repo) UndoReturn(ctx context.Context, id string) (*models.Transaction, error) {
	var t models.Transaction
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&t, "id = ?", id).Error; err != nil {
			return err
		}
		if !t.Returned() {
			return ErrNotReturned
		}
		names := []string(t.ReturnedItems)
		if len(names) == 0 {
			names = t.IssuedItems
		}
		for name, n := range countNames(names) {
			if err := applyDelta(tx, name, n); err != nil {
				return err
			}
		}
		t.ReturnDate = ""
		t.Status = models.StatusIssued
		return tx.Save(&t).Error
	})
	if err != nil {
		return nil, err
	}
	r.changed(ctx, CollectionItems, CollectionTransactions)
	return &t, nil
}

// EditTransaction replaces the borrower details, item set and issue date.
// Stock deltas are multiset differences between the old and new item
// sets, so duplicate names on one transaction stay balanced. Status and
// returnDate are never touched by an edit.
func (r *Repo) EditTransaction(ctx context.Context, id string, in EntryInput) (*models.Transaction, error) {
	in.Normalize()
	if errs := in.Validate(time.Now()); len(errs) > 0 {
		return nil, errs
	}
	newNames := in.ItemNames()

	var t models.Transaction
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&t, "id = ?", id).Error; err != nil {
			return err
		}

		oldCounts := countNames(t.IssuedItems)
		newCounts := countNames(newNames)
		for name, n := range newCounts {
			if d := n - oldCounts[name]; d != 0 {
				if err := applyDelta(tx, name, d); err != nil {
					return err
				}
			}
		}
		for name, n := range oldCounts {
			if _, ok := newCounts[name]; !ok {
				if err := applyDelta(tx, name, -n); err != nil {
					return err
				}
			}
		}

		t.Details = models.BorrowerDetails{
			Name:  in.Name,
			Place: in.Place,
			Phone: in.Phone,
		}
		t.DealerName = in.Name
		t.InCareOf = in.InCareOf
		t.IssuedItems = models.StringList(newNames)
		t.IssueDate = in.IssueDate
		return tx.Save(&t).Error
	})
	if err != nil {
		return nil, err
	}
	r.changed(ctx, CollectionItems, CollectionTransactions)
	return &t, nil
}

// DeleteTransaction removes the record permanently. Stock is reversed
// only while the transaction is still out; a returned transaction already
// gave its units back, so deleting it must not touch the counters again.
func (r *Repo) DeleteTransaction(ctx context.Context, id string) error {
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var t models.Transaction
		if err := tx.First(&t, "id = ?", id).Error; err != nil {
			return err
		}
		if t.Status == models.StatusIssued {
			for name, n := range countNames(t.IssuedItems) {
				if err := applyDelta(tx, name, -n); err != nil {
					return err
				}
			}
		}
		return tx.Delete(&t).Error
	})
	if err != nil {
		return err
	}
	r.changed(ctx, CollectionItems, CollectionTransactions)
	return nil
}

func (r *Repo) FindTransactionByID(ctx context.Context, id string) (*models.Transaction, error) {
	var t models.Transaction
	if err := r.DB.WithContext(ctx).First(&t, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

// ListTransactions returns transactions newest first, optionally filtered
// by status ("issued"/"returned") and a free-text search term matching
// borrower name, place, phone, item names or inCareOf.
func (r *Repo) ListTransactions(ctx context.Context, q, status string) ([]models.Transaction, error) {
	dbq := r.DB.WithContext(ctx).Model(&models.Transaction{}).
		Order("issue_date DESC").Order("created_at DESC")

	switch status {
	case "issued":
		dbq = dbq.Where("status = ?", models.StatusIssued)
	case "returned":
		dbq = dbq.Where("status = ?", models.StatusReturned)
	}

	if q = strings.TrimSpace(q); q != "" {
		like := "%" + strings.ToLower(q) + "%"
		dbq = dbq.Where(
			"LOWER(borrower_name) LIKE ? OR LOWER(borrower_place) LIKE ? OR borrower_phone LIKE ? OR LOWER(issued_items) LIKE ? OR LOWER(in_care_of) LIKE ?",
			like, like, "%"+q+"%", like, like,
		)
	}

	var txs []models.Transaction
	if err := dbq.Find(&txs).Error; err != nil {
		return nil, err
	}
	return txs, nil
}
