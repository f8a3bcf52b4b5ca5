package store

import (
	"context"
	"fmt"

	"github.com/navadmin/navmenu/pkg/models"
)

// ReadOnlyStore wraps a Store and rejects write operations while in
// read-only mode.
//
// Administrators use it to freeze menu editing during maintenance
// windows (schema migrations, bulk imports) without tearing down the
// server. The read-only state is determined dynamically by the
// isReadOnly function so the application can toggle modes without
// recreating the store instance.
//
// All write operations (Create, Update, Delete, shift, placement)
// return an error when in read-only mode; read operations continue to
// work normally.
type ReadOnlyStore struct {
	Store
	isReadOnly func() bool
}

// NewReadOnlyStore creates a new read-only wrapper for a store
func NewReadOnlyStore(store Store, isReadOnly func() bool) Store {
	return &ReadOnlyStore{
		Store:      store,
		isReadOnly: isReadOnly,
	}
}

// Unwrap returns the underlying store
func (r *ReadOnlyStore) Unwrap() Store {
	return r.Store
}

// checkReadOnly returns an error if the store is in read-only mode
func (r *ReadOnlyStore) checkReadOnly() error {
	if r.isReadOnly() {
		return fmt.Errorf("operation denied: menu editing is in read-only mode")
	}
	return nil
}

// Write operations check read-only mode first.

func (r *ReadOnlyStore) CreateMenu(ctx context.Context, menu *models.Menu) error {
	if err := r.checkReadOnly(); err != nil {
		return err
	}
	return r.Store.CreateMenu(ctx, menu)
}

func (r *ReadOnlyStore) UpdateMenu(ctx context.Context, menu *models.Menu) error {
	if err := r.checkReadOnly(); err != nil {
		return err
	}
	return r.Store.UpdateMenu(ctx, menu)
}

func (r *ReadOnlyStore) DeleteMenu(ctx context.Context, id models.MenuID) error {
	if err := r.checkReadOnly(); err != nil {
		return err
	}
	return r.Store.DeleteMenu(ctx, id)
}

func (r *ReadOnlyStore) CreateItem(ctx context.Context, item *models.MenuItem) error {
	if err := r.checkReadOnly(); err != nil {
		return err
	}
	return r.Store.CreateItem(ctx, item)
}

func (r *ReadOnlyStore) UpdateItem(ctx context.Context, item *models.MenuItem) error {
	if err := r.checkReadOnly(); err != nil {
		return err
	}
	return r.Store.UpdateItem(ctx, item)
}

func (r *ReadOnlyStore) DeleteItem(ctx context.Context, id models.ItemID) error {
	if err := r.checkReadOnly(); err != nil {
		return err
	}
	return r.Store.DeleteItem(ctx, id)
}

func (r *ReadOnlyStore) ShiftSiblingOrders(ctx context.Context, menuID models.MenuID, parentID *models.ItemID, above int, exclude models.ItemID) error {
	if err := r.checkReadOnly(); err != nil {
		return err
	}
	return r.Store.ShiftSiblingOrders(ctx, menuID, parentID, above, exclude)
}

func (r *ReadOnlyStore) PlaceItem(ctx context.Context, id models.ItemID, parentID *models.ItemID, order int) error {
	if err := r.checkReadOnly(); err != nil {
		return err
	}
	return r.Store.PlaceItem(ctx, id, parentID, order)
}

// WithTransaction carries the wrapped store's transaction support
// through the wrapper. Embedding hides the wrapped store's methods
// beyond the Store interface, so without this override the wrapper
// would not satisfy Transactor even when the backend does. The store
// handed to fn is wrapped again so read-only mode applies inside the
// transaction too; backends without transaction support run fn
// directly against the wrapper, keeping the per-operation checks.
func (r *ReadOnlyStore) WithTransaction(ctx context.Context, fn func(tx Store) error) error {
	t, ok := r.Store.(Transactor)
	if !ok {
		return fn(r)
	}
	return t.WithTransaction(ctx, func(tx Store) error {
		return fn(&ReadOnlyStore{Store: tx, isReadOnly: r.isReadOnly})
	})
}
