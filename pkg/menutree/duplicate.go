package menutree

import (
	"context"
	"fmt"

	"github.com/navadmin/navmenu/pkg/models"
	"github.com/navadmin/navmenu/pkg/store"
)

// Duplicate deep-copies an item and its whole descendant chain. The
// clone lands next to the original: siblings with a higher order are
// shifted up by one in a single atomic update, then the clone is
// created at original.Order+1 under the original's parent. Descendants
// keep their order values verbatim, which stay unique because each
// cloned sibling group is a fresh copy of a group that was already
// unique.
//
// Returns the cloned root, or store.ErrItemNotFound when no item
// exists with the given ID.
func (e *Engine) Duplicate(ctx context.Context, id models.ItemID) (*models.MenuItem, error) {
	original, err := e.store.GetItem(ctx, id)
	if err != nil {
		return nil, err
	}
	if original == nil {
		return nil, store.ErrItemNotFound
	}

	if err := e.store.ShiftSiblingOrders(ctx, original.MenuID, original.ParentID, original.Order, original.ID); err != nil {
		return nil, fmt.Errorf("reserving order slot: %w", err)
	}

	order := original.Order + 1
	clone, err := e.cloneSubtree(ctx, original, original.ParentID, &order)
	if err != nil {
		return nil, err
	}

	e.log.Info().
		Str("source_id", original.ID.String()).
		Str("clone_id", clone.ID.String()).
		Int("order", clone.Order).
		Msg("menu item duplicated")
	return clone, nil
}

// cloneSubtree copies one item as a new record and recurses over the
// original's children. parentID overrides the clone's parent; a
// non-nil order overrides its order, while children pass nil and keep
// their original values.
func (e *Engine) cloneSubtree(ctx context.Context, original *models.MenuItem, parentID *models.ItemID, order *int) (*models.MenuItem, error) {
	clone := &models.MenuItem{
		MenuID:     original.MenuID,
		ParentID:   parentID,
		Order:      original.Order,
		Class:      original.Class,
		Name:       original.Name,
		Value:      original.Value,
		Enabled:    original.Enabled,
		Parameters: original.Parameters,
	}
	if order != nil {
		clone.Order = *order
	}
	if err := e.store.CreateItem(ctx, clone); err != nil {
		return nil, fmt.Errorf("cloning item %s: %w", original.ID, err)
	}

	children, err := e.store.ListChildren(ctx, original.MenuID, &original.ID)
	if err != nil {
		return nil, fmt.Errorf("listing children of %s: %w", original.ID, err)
	}
	for _, child := range children {
		if _, err := e.cloneSubtree(ctx, child, &clone.ID, nil); err != nil {
			return nil, err
		}
	}
	return clone, nil
}
