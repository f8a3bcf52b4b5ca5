package store_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/navadmin/navmenu/pkg/models"
	"github.com/navadmin/navmenu/pkg/store"
	"github.com/navadmin/navmenu/pkg/store/memory"
)

func TestReadOnlyStoreBlocksWrites(t *testing.T) {
	ctx := context.Background()
	backing := memory.NewMemoryStore()

	menu := &models.Menu{Name: "Footer", Slug: "footer"}
	require.NoError(t, backing.CreateMenu(ctx, menu))
	item := &models.MenuItem{MenuID: menu.ID, Order: 1, Class: "url", Name: "a", Value: "x"}
	require.NoError(t, backing.CreateItem(ctx, item))

	readOnly := true
	wrapped := store.NewReadOnlyStore(backing, func() bool { return readOnly })

	// Writes are rejected.
	assert.Error(t, wrapped.CreateMenu(ctx, &models.Menu{Name: "x", Slug: "x"}))
	assert.Error(t, wrapped.UpdateMenu(ctx, menu))
	assert.Error(t, wrapped.DeleteMenu(ctx, menu.ID))
	assert.Error(t, wrapped.CreateItem(ctx, &models.MenuItem{MenuID: menu.ID}))
	assert.Error(t, wrapped.UpdateItem(ctx, item))
	assert.Error(t, wrapped.DeleteItem(ctx, item.ID))
	assert.Error(t, wrapped.ShiftSiblingOrders(ctx, menu.ID, nil, 0, item.ID))
	assert.Error(t, wrapped.PlaceItem(ctx, item.ID, nil, 2))

	// Reads still work.
	got, err := wrapped.GetMenu(ctx, menu.ID)
	require.NoError(t, err)
	assert.Equal(t, menu.ID, got.ID)

	items, err := wrapped.ListChildren(ctx, menu.ID, nil)
	require.NoError(t, err)
	assert.Len(t, items, 1)

	max, err := wrapped.MaxItemOrder(ctx, menu.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, max)

	// Toggling the mode re-enables writes.
	readOnly = false
	assert.NoError(t, wrapped.PlaceItem(ctx, item.ID, nil, 2))
}

func TestReadOnlyStoreUnwrap(t *testing.T) {
	backing := memory.NewMemoryStore()
	wrapped := store.NewReadOnlyStore(backing, func() bool { return true })

	ro, ok := wrapped.(*store.ReadOnlyStore)
	require.True(t, ok)
	assert.Equal(t, store.Store(backing), ro.Unwrap())
}

func TestReadOnlyStoreCarriesTransactions(t *testing.T) {
	ctx := context.Background()
	backing := memory.NewMemoryStore()

	menu := &models.Menu{Name: "Sidebar", Slug: "sidebar"}
	require.NoError(t, backing.CreateMenu(ctx, menu))
	item := &models.MenuItem{MenuID: menu.ID, Order: 1, Class: "url", Name: "a", Value: "x"}
	require.NoError(t, backing.CreateItem(ctx, item))

	readOnly := false
	wrapped := store.NewReadOnlyStore(backing, func() bool { return readOnly })

	tx, ok := wrapped.(store.Transactor)
	require.True(t, ok, "wrapper must satisfy Transactor when the backing store does")

	// A failing transaction rolls back writes made through it.
	err := tx.WithTransaction(ctx, func(s store.Store) error {
		require.NoError(t, s.PlaceItem(ctx, item.ID, nil, 5))
		return assert.AnError
	})
	require.ErrorIs(t, err, assert.AnError)

	stored, err := backing.GetItem(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, stored.Order)

	// The store handed to the transaction still enforces read-only mode.
	readOnly = true
	err = tx.WithTransaction(ctx, func(s store.Store) error {
		return s.PlaceItem(ctx, item.ID, nil, 5)
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read-only")
}
