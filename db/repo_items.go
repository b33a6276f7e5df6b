package db

import (
	"context"
	"errors"

	"lending_register/models"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// Items

func (r *Repo) CreateItem(ctx context.Context, it *models.Item) error {
	if it.Total < 0 {
		it.Total = 0
	}
	it.Issued = 0
	it.Available = it.Total
	if err := r.DB.WithContext(ctx).Create(it).Error; err != nil {
		return err
	}
	r.changed(ctx, CollectionItems)
	return nil
}

func (r *Repo) FindItemByID(ctx context.Context, id string) (*models.Item, error) {
	var it models.Item
	if err := r.DB.WithContext(ctx).First(&it, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &it, nil
}

func (r *Repo) FindItemByName(ctx context.Context, name string) (*models.Item, error) {
	var it models.Item
	if err := r.DB.WithContext(ctx).First(&it, "name = ?", name).Error; err != nil {
		return nil, err
	}
	return &it, nil
}

func (r *Repo) ListItems(ctx context.Context) ([]models.Item, error) {
	var items []models.Item
	err := r.DB.WithContext(ctx).Order("name ASC").Find(&items).Error
	return items, err
}

// UpdateItemCounts is the administrative stock edit. Available is always
// derived from total - issued, whatever the caller sends.
func (r *Repo) UpdateItemCounts(ctx context.Context, id string, total, issued int) (*models.Item, error) {
	var it models.Item
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&it, "id = ?", id).Error; err != nil {
			return err
		}
		if total < 0 {
			total = 0
		}
		if issued < 0 {
			issued = 0
		}
		it.Total = total
		it.Issued = issued
		it.Available = total - issued
		return tx.Save(&it).Error
	})
	if err != nil {
		return nil, err
	}
	r.changed(ctx, CollectionItems)
	return &it, nil
}

// DeleteItem removes the item record only. Transactions referencing the
// name keep it as a dangling reference; applyDelta skips it from then on.
func (r *Repo) DeleteItem(ctx context.Context, id string) error {
	res := r.DB.WithContext(ctx).Delete(&models.Item{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	r.changed(ctx, CollectionItems)
	return nil
}

// applyDelta adjusts one item's issued count by a signed delta inside tx,
// clamping issued at zero and keeping available = total - issued.
// Unknown names are skipped: a stale or renamed item name is not fatal,
// resync repairs the counts later.
func applyDelta(tx *gorm.DB, itemName string, delta int) error {
	if delta == 0 {
		return nil
	}
	var it models.Item
	err := tx.First(&it, "name = ?", itemName).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		log.Debug().Str("item", itemName).Int("delta", delta).Msg("no such item, delta skipped")
		return nil
	}
	if err != nil {
		return err
	}
	it.Issued += delta
	if it.Issued < 0 {
		it.Issued = 0
	}
	it.Available = it.Total - it.Issued
	return tx.Save(&it).Error
}
