package db

import (
	"context"

	"lending_register/models"

	"github.com/rs/zerolog/log"
)

// ResyncItemCounts recomputes every item's issued/available from the full
// transaction log, ignoring the stored counters, and writes back only the
// items that drifted. It returns how many items were corrected; running it
// twice in a row corrects nothing the second time.
//
// This is the authoritative repair for any drift left behind by failed or
// racing lifecycle operations and is safe to run at any time.
func (r *Repo) ResyncItemCounts(ctx context.Context) (int, error) {
	var items []models.Item
	if err := r.DB.WithContext(ctx).Find(&items).Error; err != nil {
		return 0, err
	}
	var txs []models.Transaction
	if err := r.DB.WithContext(ctx).Find(&txs).Error; err != nil {
		return 0, err
	}

	issuedCounts := map[string]int{}
	for _, t := range txs {
		if t.Status != models.StatusIssued {
			continue
		}
		for _, name := range t.IssuedItems {
			issuedCounts[name]++
		}
	}

	updated := 0
	for _, it := range items {
		correctIssued := issuedCounts[it.Name]
		correctAvailable := it.Total - correctIssued
		if it.Issued == correctIssued && it.Available == correctAvailable {
			continue
		}
		err := r.DB.WithContext(ctx).Model(&models.Item{}).
			Where("id = ?", it.ID).
			Updates(map[string]interface{}{
				"issued":    correctIssued,
				"available": correctAvailable,
			}).Error
		if err != nil {
			return updated, err
		}
		log.Info().
			Str("item", it.Name).
			Int("issued", correctIssued).
			Int("available", correctAvailable).
			Msg("resynced item counts")
		updated++
	}

	if updated > 0 {
		r.changed(ctx, CollectionItems)
	}
	return updated, nil
}
