// Package menutree implements the menu-item tree engine: order
// assignment, bulk tree normalization, recursive subtree duplication,
// and cascading deletion. It operates on any store.Store and contains
// all the ordering invariants; the HTTP layer above it is thin.
package menutree

import (
	"context"
	"fmt"
	"sort"

	"github.com/rs/zerolog"

	"github.com/navadmin/navmenu/pkg/linktype"
	"github.com/navadmin/navmenu/pkg/models"
	"github.com/navadmin/navmenu/pkg/store"
)

// Engine coordinates tree mutations against a store. The optional
// link-type registry is used to filter listings down to items whose
// class still resolves; a nil registry disables the filter.
type Engine struct {
	store store.Store
	types *linktype.Registry
	log   zerolog.Logger
}

// NewEngine creates a tree engine over the given store.
func NewEngine(st store.Store, types *linktype.Registry, log zerolog.Logger) *Engine {
	return &Engine{store: st, types: types, log: log}
}

func (e *Engine) resolvable(class string) bool {
	if e.types == nil {
		return true
	}
	_, ok := e.types.Resolve(class)
	return ok
}

// requireMenu returns store.ErrMenuNotFound when the menu is absent.
func (e *Engine) requireMenu(ctx context.Context, menuID models.MenuID) error {
	menu, err := e.store.GetMenu(ctx, menuID)
	if err != nil {
		return fmt.Errorf("looking up menu %s: %w", menuID, err)
	}
	if menu == nil {
		return store.ErrMenuNotFound
	}
	return nil
}

// ListRootItems returns a menu's root sibling group ordered by sibling
// order. Items whose class no longer resolves to a registered link
// type are skipped silently.
func (e *Engine) ListRootItems(ctx context.Context, menuID models.MenuID) ([]*models.MenuItem, error) {
	if err := e.requireMenu(ctx, menuID); err != nil {
		return nil, err
	}
	roots, err := e.store.ListChildren(ctx, menuID, nil)
	if err != nil {
		return nil, err
	}
	filtered := make([]*models.MenuItem, 0, len(roots))
	for _, item := range roots {
		if !e.resolvable(item.Class) {
			e.log.Debug().
				Str("item_id", item.ID.String()).
				Str("class", item.Class).
				Msg("skipping item with unregistered link type")
			continue
		}
		filtered = append(filtered, item)
	}
	return filtered, nil
}

// BuildForest loads a menu's full item tree with Children populated,
// siblings ordered, and unresolvable classes filtered out of every
// level.
func (e *Engine) BuildForest(ctx context.Context, menuID models.MenuID) ([]*models.MenuItem, error) {
	if err := e.requireMenu(ctx, menuID); err != nil {
		return nil, err
	}
	items, err := e.store.ListItems(ctx, menuID)
	if err != nil {
		return nil, err
	}

	byParent := make(map[models.ItemID][]*models.MenuItem)
	roots := make([]*models.MenuItem, 0)
	for _, item := range items {
		if !e.resolvable(item.Class) {
			continue
		}
		if item.ParentID == nil {
			roots = append(roots, item)
		} else {
			byParent[*item.ParentID] = append(byParent[*item.ParentID], item)
		}
	}

	var attach func(parent *models.MenuItem)
	attach = func(parent *models.MenuItem) {
		children := byParent[parent.ID]
		sortByOrder(children)
		parent.Children = children
		for _, child := range children {
			attach(child)
		}
	}
	sortByOrder(roots)
	for _, root := range roots {
		attach(root)
	}
	return roots, nil
}

// CreateItem validates required fields, normalizes empty parameters to
// null, assigns the next free order (current menu-wide maximum plus
// one, which cannot collide inside any sibling group) and persists the
// item.
func (e *Engine) CreateItem(ctx context.Context, item *models.MenuItem) error {
	if err := validateItem(item); err != nil {
		return err
	}
	if err := e.requireMenu(ctx, item.MenuID); err != nil {
		return err
	}
	item.NormalizeParameters()

	max, err := e.store.MaxItemOrder(ctx, item.MenuID)
	if err != nil {
		return fmt.Errorf("computing next order: %w", err)
	}
	item.Order = max + 1

	if err := e.store.CreateItem(ctx, item); err != nil {
		return err
	}
	e.log.Info().
		Str("item_id", item.ID.String()).
		Str("menu_id", item.MenuID.String()).
		Int("order", item.Order).
		Msg("menu item created")
	return nil
}

// GetItem retrieves one item, or store.ErrItemNotFound.
func (e *Engine) GetItem(ctx context.Context, id models.ItemID) (*models.MenuItem, error) {
	item, err := e.store.GetItem(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, store.ErrItemNotFound
	}
	return item, nil
}

// UpdateItem overwrites an existing item's payload fields. MenuID,
// ParentID and Order are taken from the stored record: placement only
// changes through SaveTree and Duplicate.
func (e *Engine) UpdateItem(ctx context.Context, item *models.MenuItem) error {
	if err := validateItem(item); err != nil {
		return err
	}
	current, err := e.store.GetItem(ctx, item.ID)
	if err != nil {
		return err
	}
	if current == nil {
		return store.ErrItemNotFound
	}
	item.MenuID = current.MenuID
	item.ParentID = current.ParentID
	item.Order = current.Order
	item.CreatedAt = current.CreatedAt
	item.NormalizeParameters()
	return e.store.UpdateItem(ctx, item)
}

// ValidationError reports a missing required field on item creation or
// update.
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("missing required field %q", e.Field)
}

func validateItem(item *models.MenuItem) error {
	if item.Class == "" {
		return &ValidationError{Field: "class"}
	}
	if item.Name == "" {
		return &ValidationError{Field: "name"}
	}
	if item.Value == "" {
		return &ValidationError{Field: "value"}
	}
	return nil
}

func sortByOrder(items []*models.MenuItem) {
	sort.Slice(items, func(i, j int) bool { return items[i].Order < items[j].Order })
}
