package db

import (
	"context"
	"testing"

	"lending_register/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestCreateItemStartsWithFullAvailability(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	it := &models.Item{ID: uuid.NewString(), Name: "Tarpaulin", Total: 10, Issued: 3}
	require.NoError(t, r.CreateItem(ctx, it))

	assert.Equal(t, 0, it.Issued, "a new item has nothing out")
	assert.Equal(t, 10, it.Available)
}

func TestUpdateItemCountsDerivesAvailable(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	it := seedItem(t, r, "Tent", 5)

	got, err := r.UpdateItemCounts(ctx, it.ID, 8, 3)
	require.NoError(t, err)
	assert.Equal(t, 8, got.Total)
	assert.Equal(t, 3, got.Issued)
	assert.Equal(t, 5, got.Available)

	// Negative inputs clamp to zero.
	got, err = r.UpdateItemCounts(ctx, it.ID, -1, -4)
	require.NoError(t, err)
	assert.Zero(t, got.Total)
	assert.Zero(t, got.Issued)
	assert.Zero(t, got.Available)
}

func TestUpdateItemCountsUnknownID(t *testing.T) {
	r := newTestRepo(t)
	_, err := r.UpdateItemCounts(context.Background(), uuid.NewString(), 1, 0)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestDeleteItem(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	it := seedItem(t, r, "Tent", 5)

	require.NoError(t, r.DeleteItem(ctx, it.ID))
	assert.ErrorIs(t, r.DeleteItem(ctx, it.ID), gorm.ErrRecordNotFound)
}

func TestListItemsSortedByName(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	seedItem(t, r, "Tent", 5)
	seedItem(t, r, "Chair", 20)
	seedItem(t, r, "Tarpaulin", 10)

	items, err := r.ListItems(ctx)
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, "Chair", items[0].Name)
	assert.Equal(t, "Tarpaulin", items[1].Name)
	assert.Equal(t, "Tent", items[2].Name)
}
