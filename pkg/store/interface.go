// Package store provides the data persistence layer abstraction for the
// navmenu application.
//
// This package defines the [Store] interface which lets the menu engine
// work against different database backends behind a unified API. Two
// production implementations exist alongside an in-memory store used by
// tests:
//
//   - [github.com/navadmin/navmenu/pkg/store/postgres.PostgresStore]: GORM
//     over PostgreSQL with ACID transactions
//   - [github.com/navadmin/navmenu/pkg/store/surreal.SurrealStore]: native
//     SurrealQL over the CBOR protocol, no ORM
//   - [github.com/navadmin/navmenu/pkg/store/memory.MemoryStore]: mutex
//     guarded maps, for tests and local experimentation
//
// # Conventions
//
// Get methods return nil without error for missing records; callers use
// the nil value to detect absence. List methods return empty slices for
// no results, never nil. Create methods auto-generate an ID when the
// entity's ID is zero. Update methods replace the whole record. All
// methods accept a context.Context and respect its cancellation.
package store

import (
	"context"

	"github.com/navadmin/navmenu/pkg/models"
)

// Store defines the persistence interface for menus and menu items.
type Store interface {
	// Menu Operations

	// CreateMenu persists a new menu. A zero ID is replaced with a
	// generated one.
	CreateMenu(ctx context.Context, menu *models.Menu) error

	// GetMenu retrieves a menu by ID, or nil if no such menu exists.
	GetMenu(ctx context.Context, id models.MenuID) (*models.Menu, error)

	// ListMenus returns all menus ordered by name.
	ListMenus(ctx context.Context) ([]*models.Menu, error)

	// UpdateMenu replaces an existing menu.
	UpdateMenu(ctx context.Context, menu *models.Menu) error

	// DeleteMenu removes a menu. Items are not cascaded here; the
	// application deletes the item forest first.
	DeleteMenu(ctx context.Context, id models.MenuID) error

	// Item Operations

	// CreateItem persists a new menu item. A zero ID is replaced with
	// a generated one.
	CreateItem(ctx context.Context, item *models.MenuItem) error

	// GetItem retrieves an item by ID, or nil if no such item exists.
	GetItem(ctx context.Context, id models.ItemID) (*models.MenuItem, error)

	// ListItems returns every item of a menu ordered by parent then
	// sibling order.
	ListItems(ctx context.Context, menuID models.MenuID) ([]*models.MenuItem, error)

	// ListChildren returns the sibling group under parentID within a
	// menu, ordered by sibling order. A nil parentID selects the root
	// group.
	ListChildren(ctx context.Context, menuID models.MenuID, parentID *models.ItemID) ([]*models.MenuItem, error)

	// UpdateItem replaces an existing item.
	UpdateItem(ctx context.Context, item *models.MenuItem) error

	// DeleteItem removes a single item. Descendants are not cascaded
	// here; the tree engine walks and deletes children first.
	DeleteItem(ctx context.Context, id models.ItemID) error

	// Ordering Operations

	// MaxItemOrder returns the largest order value among a menu's
	// items, or 0 when the menu has no items.
	MaxItemOrder(ctx context.Context, menuID models.MenuID) (int, error)

	// ShiftSiblingOrders increments the order of every item in the
	// (menuID, parentID) sibling group whose order is strictly greater
	// than above, excluding the item identified by exclude. The shift
	// must execute as one atomic bulk update so concurrent readers
	// never observe a transient collision. Afterwards above+1 is free
	// within the group.
	ShiftSiblingOrders(ctx context.Context, menuID models.MenuID, parentID *models.ItemID, above int, exclude models.ItemID) error

	// PlaceItem rewrites only the parent and order of an existing
	// item, leaving payload fields untouched.
	PlaceItem(ctx context.Context, id models.ItemID, parentID *models.ItemID, order int) error
}

// Transactor is an optional capability: stores that can run a function
// inside a single transaction implement it in addition to Store. The
// tree engine uses it to make a full normalization pass atomic so a
// failure partway never leaves a sibling group with duplicate or
// gapped orders.
type Transactor interface {
	WithTransaction(ctx context.Context, fn func(tx Store) error) error
}
