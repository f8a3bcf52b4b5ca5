package menutree

import (
	"context"
	"fmt"

	"github.com/navadmin/navmenu/pkg/models"
	"github.com/navadmin/navmenu/pkg/store"
)

// SaveTree rewrites order and parent for every item named in the
// submitted forest. Each node's order becomes its 1-based position in
// its sibling list and its parent becomes the enclosing node, so after
// the pass every touched sibling group holds the dense sequence 1..N.
//
// Writes follow descriptor traversal order exactly: a node is written
// before its own children, and a node's subtree is fully written
// before the next sibling. When the store supports transactions the
// whole pass runs in one, so a failure partway never leaves a sibling
// group with duplicate or gapped orders.
func (e *Engine) SaveTree(ctx context.Context, menuID models.MenuID, forest []models.TreeNode) error {
	if err := e.requireMenu(ctx, menuID); err != nil {
		return err
	}

	pass := func(st store.Store) error {
		return normalize(ctx, st, forest, nil)
	}

	var err error
	if tx, ok := e.store.(store.Transactor); ok {
		err = tx.WithTransaction(ctx, pass)
	} else {
		err = pass(e.store)
	}
	if err != nil {
		return err
	}

	e.log.Info().
		Str("menu_id", menuID.String()).
		Int("roots", len(forest)).
		Msg("menu tree saved")
	return nil
}

// normalize walks one sibling list. Each child is visited exactly
// once: placed at its 1-based position, then recursed into with its
// own ID as the parent of its children.
func normalize(ctx context.Context, st store.Store, nodes []models.TreeNode, parentID *models.ItemID) error {
	for i, node := range nodes {
		item, err := st.GetItem(ctx, node.ID)
		if err != nil {
			return fmt.Errorf("looking up item %s: %w", node.ID, err)
		}
		if item == nil {
			return fmt.Errorf("item %s: %w", node.ID, store.ErrItemNotFound)
		}
		if err := st.PlaceItem(ctx, node.ID, parentID, i+1); err != nil {
			return fmt.Errorf("placing item %s: %w", node.ID, err)
		}
		if len(node.Children) == 0 {
			continue
		}
		id := node.ID
		if err := normalize(ctx, st, node.Children, &id); err != nil {
			return err
		}
	}
	return nil
}
