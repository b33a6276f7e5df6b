package db

import (
	"context"
	"testing"

	"lending_register/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResyncCorrectsDrift(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	// Two items both claiming to be fully issued, but only one is backed
	// by an outstanding transaction.
	a := seedItem(t, r, "Tarpaulin", 5)
	b := seedItem(t, r, "Tent", 5)
	_, err := r.UpdateItemCounts(ctx, a.ID, 5, 5)
	require.NoError(t, err)
	_, err = r.UpdateItemCounts(ctx, b.ID, 5, 5)
	require.NoError(t, err)

	seedTransaction(t, r, []string{"Tarpaulin"}, models.StatusIssued, "")

	updated, err := r.ResyncItemCounts(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, updated)

	got := getItem(t, r, "Tarpaulin")
	assert.Equal(t, 1, got.Issued)
	assert.Equal(t, 4, got.Available)

	got = getItem(t, r, "Tent")
	assert.Equal(t, 0, got.Issued)
	assert.Equal(t, 5, got.Available)
}

func TestResyncIsIdempotent(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	it := seedItem(t, r, "Tarpaulin", 10)
	_, err := r.UpdateItemCounts(ctx, it.ID, 10, 7)
	require.NoError(t, err)
	seedTransaction(t, r, []string{"Tarpaulin"}, models.StatusIssued, "")

	first, err := r.ResyncItemCounts(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, first)

	second, err := r.ResyncItemCounts(ctx)
	require.NoError(t, err)
	assert.Zero(t, second, "repeated resync must write nothing")
}

func TestResyncCountsPerOccurrence(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	seedItem(t, r, "Chair", 20)
	seedTransaction(t, r, []string{"Chair", "Chair"}, models.StatusIssued, "")
	seedTransaction(t, r, []string{"Chair"}, models.StatusReturned, "2024-01-10")

	_, err := r.ResyncItemCounts(ctx)
	require.NoError(t, err)

	got := getItem(t, r, "Chair")
	assert.Equal(t, 2, got.Issued, "returned transactions do not count")
	assert.Equal(t, 18, got.Available)
}

// The ledger invariant holds after any lifecycle sequence plus a resync.
func TestResyncRestoresInvariantAfterLifecycle(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	seedItem(t, r, "Tarpaulin", 10)
	seedItem(t, r, "Tent", 5)
	seedItem(t, r, "Chair", 20)

	txs, err := r.IssueItems(ctx, validInput("Tarpaulin", "Tent", "Chair", "Chair"))
	require.NoError(t, err)
	_, err = r.ReturnTransaction(ctx, txs[1].ID, []string{"Tent"}, "2024-01-10")
	require.NoError(t, err)
	_, err = r.EditTransaction(ctx, txs[0].ID, validInput("Chair"))
	require.NoError(t, err)
	require.NoError(t, r.DeleteTransaction(ctx, txs[2].ID))

	// Inject drift the way a crashed client would.
	require.NoError(t, r.DB.Model(&models.Item{}).Where("name = ?", "Chair").
		Update("issued", 11).Error)

	_, err = r.ResyncItemCounts(ctx)
	require.NoError(t, err)

	items, err := r.ListItems(ctx)
	require.NoError(t, err)
	outstanding := map[string]int{}
	all, err := r.ListTransactions(ctx, "", "issued")
	require.NoError(t, err)
	for _, tx := range all {
		for _, name := range tx.IssuedItems {
			outstanding[name]++
		}
	}
	for _, it := range items {
		assert.Equal(t, it.Total-it.Issued, it.Available, "%s available", it.Name)
		assert.GreaterOrEqual(t, it.Issued, 0, "%s issued", it.Name)
		assert.Equal(t, outstanding[it.Name], it.Issued, "%s issued vs transaction log", it.Name)
	}
}
