package menutree

import (
	"context"
	"fmt"

	"github.com/navadmin/navmenu/pkg/models"
	"github.com/navadmin/navmenu/pkg/store"
)

// DeleteSubtree removes an item and every transitive descendant,
// children first, so no record ever dangles off a deleted parent.
// Returns store.ErrItemNotFound when no item exists with the given ID.
func (e *Engine) DeleteSubtree(ctx context.Context, id models.ItemID) error {
	item, err := e.store.GetItem(ctx, id)
	if err != nil {
		return err
	}
	if item == nil {
		return store.ErrItemNotFound
	}
	if err := e.deleteRecursive(ctx, item); err != nil {
		return err
	}
	e.log.Info().
		Str("item_id", id.String()).
		Str("menu_id", item.MenuID.String()).
		Msg("menu subtree deleted")
	return nil
}

// DeleteMenu removes a menu together with its entire item forest.
func (e *Engine) DeleteMenu(ctx context.Context, menuID models.MenuID) error {
	if err := e.requireMenu(ctx, menuID); err != nil {
		return err
	}
	roots, err := e.store.ListChildren(ctx, menuID, nil)
	if err != nil {
		return err
	}
	for _, root := range roots {
		if err := e.deleteRecursive(ctx, root); err != nil {
			return err
		}
	}
	return e.store.DeleteMenu(ctx, menuID)
}

func (e *Engine) deleteRecursive(ctx context.Context, item *models.MenuItem) error {
	children, err := e.store.ListChildren(ctx, item.MenuID, &item.ID)
	if err != nil {
		return fmt.Errorf("listing children of %s: %w", item.ID, err)
	}
	for _, child := range children {
		if err := e.deleteRecursive(ctx, child); err != nil {
			return err
		}
	}
	if err := e.store.DeleteItem(ctx, item.ID); err != nil {
		return fmt.Errorf("deleting item %s: %w", item.ID, err)
	}
	return nil
}
