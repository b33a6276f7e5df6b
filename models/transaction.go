// models/transaction.go
package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

const TransactionTable = "register_transactions"

// Transaction status values. A transaction is Returned iff ReturnDate is set.
const (
	StatusIssued   = "Issued"
	StatusReturned = "Returned"
)

// StringList stores item names as a JSON text column.
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		l = StringList{}
	}
	b, err := json.Marshal(l)
	return string(b), err
}

func (l *StringList) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*l = StringList{}
		return nil
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	}
	return errors.New("unsupported source type for StringList")
}

// BorrowerDetails is the borrower snapshot captured at issue time.
// Edits update this snapshot, there is no separate borrower entity.
type BorrowerDetails struct {
	Name  string `gorm:"size:200;not null" json:"name"`
	Place string `gorm:"size:200;not null" json:"place"`
	Phone string `gorm:"size:20;not null" json:"phone"`
}

// Transaction records one issue (and optional return) of items to a borrower.
// Items are referenced by name; resync is the backstop for renamed items.
type Transaction struct {
	ID            string          `gorm:"type:uuid;primaryKey" json:"id"`
	Details       BorrowerDetails `gorm:"embedded;embeddedPrefix:borrower_" json:"details"`
	IssuedItems   StringList      `gorm:"type:text;not null" json:"issuedItems"`
	ReturnedItems StringList      `gorm:"type:text;not null" json:"returnedItems"`
	DealerName    string          `gorm:"size:200" json:"dealerName"`
	InCareOf      string          `gorm:"size:200" json:"inCareOf"`
	IssueDate     string          `gorm:"size:10;index;not null" json:"issueDate"` // YYYY-MM-DD
	ReturnDate    string          `gorm:"size:10" json:"returnDate"`
	Status        string          `gorm:"size:20;index;not null" json:"status"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

func (Transaction) TableName() string { return TransactionTable }

// Returned reports whether the transaction has been closed by a return.
func (t *Transaction) Returned() bool { return t.ReturnDate != "" }
