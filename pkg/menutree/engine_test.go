package menutree

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/navadmin/navmenu/pkg/linktype"
	"github.com/navadmin/navmenu/pkg/models"
	"github.com/navadmin/navmenu/pkg/store"
	"github.com/navadmin/navmenu/pkg/store/memory"
)

func newTestEngine(t *testing.T) (*Engine, *memory.MemoryStore, models.MenuID) {
	t.Helper()
	st := memory.NewMemoryStore()
	engine := NewEngine(st, linktype.NewDefaultRegistry(), zerolog.Nop())

	menu := &models.Menu{Name: "Main navigation", Slug: "main"}
	require.NoError(t, st.CreateMenu(context.Background(), menu))
	return engine, st, menu.ID
}

func seedItem(t *testing.T, st store.Store, menuID models.MenuID, parentID *models.ItemID, order int, name string) *models.MenuItem {
	t.Helper()
	item := &models.MenuItem{
		MenuID:   menuID,
		ParentID: parentID,
		Order:    order,
		Class:    "url",
		Name:     name,
		Value:    "https://example.com/" + name,
		Enabled:  true,
	}
	require.NoError(t, st.CreateItem(context.Background(), item))
	return item
}

func TestCreateItemAssignsNextOrder(t *testing.T) {
	engine, st, menuID := newTestEngine(t)
	ctx := context.Background()

	seedItem(t, st, menuID, nil, 1, "a")
	seedItem(t, st, menuID, nil, 2, "b")

	item := &models.MenuItem{
		MenuID:  menuID,
		Class:   "url",
		Name:    "c",
		Value:   "https://example.com/c",
		Enabled: true,
	}
	require.NoError(t, engine.CreateItem(ctx, item))
	assert.Equal(t, 3, item.Order)
	assert.False(t, item.ID.IsZero())
}

func TestCreateItemNormalizesEmptyParameters(t *testing.T) {
	engine, _, menuID := newTestEngine(t)
	ctx := context.Background()

	item := &models.MenuItem{
		MenuID:     menuID,
		Class:      "url",
		Name:       "home",
		Value:      "https://example.com",
		Enabled:    true,
		Parameters: models.JSONMap{},
	}
	require.NoError(t, engine.CreateItem(ctx, item))

	stored, err := engine.GetItem(ctx, item.ID)
	require.NoError(t, err)
	assert.Nil(t, stored.Parameters)
}

func TestCreateItemValidation(t *testing.T) {
	engine, _, menuID := newTestEngine(t)
	ctx := context.Background()

	tests := []struct {
		name  string
		item  *models.MenuItem
		field string
	}{
		{"missing class", &models.MenuItem{MenuID: menuID, Name: "x", Value: "y"}, "class"},
		{"missing name", &models.MenuItem{MenuID: menuID, Class: "url", Value: "y"}, "name"},
		{"missing value", &models.MenuItem{MenuID: menuID, Class: "url", Name: "x"}, "value"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := engine.CreateItem(ctx, tt.item)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Field)
		})
	}
}

func TestSaveTreeAssignsDenseOrders(t *testing.T) {
	engine, st, menuID := newTestEngine(t)
	ctx := context.Background()

	a := seedItem(t, st, menuID, nil, 7, "a")
	b := seedItem(t, st, menuID, nil, 3, "b")
	c := seedItem(t, st, menuID, nil, 12, "c")

	// Submit in the order c, a, b with b nested under a.
	forest := []models.TreeNode{
		{ID: c.ID},
		{ID: a.ID, Children: []models.TreeNode{{ID: b.ID}}},
	}
	require.NoError(t, engine.SaveTree(ctx, menuID, forest))

	roots, err := st.ListChildren(ctx, menuID, nil)
	require.NoError(t, err)
	require.Len(t, roots, 2)
	assert.Equal(t, c.ID, roots[0].ID)
	assert.Equal(t, 1, roots[0].Order)
	assert.Equal(t, a.ID, roots[1].ID)
	assert.Equal(t, 2, roots[1].Order)

	children, err := st.ListChildren(ctx, menuID, &a.ID)
	require.NoError(t, err)
	require.Len(t, children, 1)
	assert.Equal(t, b.ID, children[0].ID)
	assert.Equal(t, 1, children[0].Order)
}

func TestSaveTreeIdempotent(t *testing.T) {
	engine, st, menuID := newTestEngine(t)
	ctx := context.Background()

	a := seedItem(t, st, menuID, nil, 1, "a")
	b := seedItem(t, st, menuID, nil, 2, "b")
	c := seedItem(t, st, menuID, &a.ID, 1, "c")

	forest := []models.TreeNode{
		{ID: b.ID, Children: []models.TreeNode{{ID: c.ID}}},
		{ID: a.ID},
	}
	require.NoError(t, engine.SaveTree(ctx, menuID, forest))

	first, err := st.ListItems(ctx, menuID)
	require.NoError(t, err)

	require.NoError(t, engine.SaveTree(ctx, menuID, forest))
	second, err := st.ListItems(ctx, menuID)
	require.NoError(t, err)

	require.Equal(t, len(first), len(second))
	for i := range first {
		assert.Equal(t, first[i].ID, second[i].ID)
		assert.Equal(t, first[i].Order, second[i].Order)
		assert.Equal(t, first[i].ParentID, second[i].ParentID)
	}
}

func TestSaveTreeUnknownItemRollsBack(t *testing.T) {
	engine, st, menuID := newTestEngine(t)
	ctx := context.Background()

	a := seedItem(t, st, menuID, nil, 1, "a")
	b := seedItem(t, st, menuID, nil, 2, "b")

	forest := []models.TreeNode{
		{ID: b.ID},
		{ID: models.NewItemID()}, // does not exist
		{ID: a.ID},
	}
	err := engine.SaveTree(ctx, menuID, forest)
	require.ErrorIs(t, err, store.ErrItemNotFound)

	// The memory store is transactional, so b's placement at order 1
	// must have been rolled back.
	stored, err := st.GetItem(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, stored.Order)
}

func TestSaveTreeRollsBackThroughReadOnlyWrapper(t *testing.T) {
	// The engine sees the read-only wrapper, not the backing store, in
	// the application wiring. The wrapper must carry the backing
	// store's transaction support through so a failed pass still rolls
	// back.
	ctx := context.Background()
	st := memory.NewMemoryStore()
	wrapped := store.NewReadOnlyStore(st, func() bool { return false })
	engine := NewEngine(wrapped, linktype.NewDefaultRegistry(), zerolog.Nop())

	menu := &models.Menu{Name: "Main navigation", Slug: "main"}
	require.NoError(t, st.CreateMenu(ctx, menu))
	a := seedItem(t, st, menu.ID, nil, 1, "a")
	b := seedItem(t, st, menu.ID, nil, 2, "b")

	_, ok := wrapped.(store.Transactor)
	require.True(t, ok, "wrapper must expose the backing store's transaction support")

	forest := []models.TreeNode{
		{ID: b.ID},
		{ID: models.NewItemID()}, // does not exist
		{ID: a.ID},
	}
	err := engine.SaveTree(ctx, menu.ID, forest)
	require.ErrorIs(t, err, store.ErrItemNotFound)

	stored, err := st.GetItem(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, stored.Order)
}

func TestSaveTreeMenuNotFound(t *testing.T) {
	engine, _, _ := newTestEngine(t)
	err := engine.SaveTree(context.Background(), models.NewMenuID(), nil)
	require.ErrorIs(t, err, store.ErrMenuNotFound)
}

func TestDuplicateShiftsSiblings(t *testing.T) {
	engine, st, menuID := newTestEngine(t)
	ctx := context.Background()

	a := seedItem(t, st, menuID, nil, 1, "a")
	b := seedItem(t, st, menuID, nil, 2, "b")
	c := seedItem(t, st, menuID, nil, 3, "c")

	clone, err := engine.Duplicate(ctx, b.ID)
	require.NoError(t, err)
	require.NotEqual(t, b.ID, clone.ID)

	roots, err := st.ListChildren(ctx, menuID, nil)
	require.NoError(t, err)
	require.Len(t, roots, 4)

	// Final root order: a=1, b=2, clone=3, c=4.
	assert.Equal(t, a.ID, roots[0].ID)
	assert.Equal(t, 1, roots[0].Order)
	assert.Equal(t, b.ID, roots[1].ID)
	assert.Equal(t, 2, roots[1].Order)
	assert.Equal(t, clone.ID, roots[2].ID)
	assert.Equal(t, 3, roots[2].Order)
	assert.Equal(t, c.ID, roots[3].ID)
	assert.Equal(t, 4, roots[3].Order)

	assert.Equal(t, b.Name, clone.Name)
	assert.Equal(t, b.Value, clone.Value)
	assert.Nil(t, clone.ParentID)
}

func TestDuplicateCopiesDescendants(t *testing.T) {
	engine, st, menuID := newTestEngine(t)
	ctx := context.Background()

	root := seedItem(t, st, menuID, nil, 1, "root")
	child1 := seedItem(t, st, menuID, &root.ID, 1, "child1")
	seedItem(t, st, menuID, &root.ID, 2, "child2")
	seedItem(t, st, menuID, &child1.ID, 1, "grandchild")

	clone, err := engine.Duplicate(ctx, root.ID)
	require.NoError(t, err)

	cloneChildren, err := st.ListChildren(ctx, menuID, &clone.ID)
	require.NoError(t, err)
	require.Len(t, cloneChildren, 2)
	assert.Equal(t, "child1", cloneChildren[0].Name)
	assert.Equal(t, 1, cloneChildren[0].Order)
	assert.Equal(t, "child2", cloneChildren[1].Name)
	assert.Equal(t, 2, cloneChildren[1].Order)

	grand, err := st.ListChildren(ctx, menuID, &cloneChildren[0].ID)
	require.NoError(t, err)
	require.Len(t, grand, 1)
	assert.Equal(t, "grandchild", grand[0].Name)
	assert.Equal(t, 1, grand[0].Order)

	// The original subtree is untouched.
	origChildren, err := st.ListChildren(ctx, menuID, &root.ID)
	require.NoError(t, err)
	require.Len(t, origChildren, 2)
}

func TestDuplicateNotFound(t *testing.T) {
	engine, _, _ := newTestEngine(t)
	_, err := engine.Duplicate(context.Background(), models.NewItemID())
	require.ErrorIs(t, err, store.ErrItemNotFound)
}

func TestDeleteSubtreeCascades(t *testing.T) {
	engine, st, menuID := newTestEngine(t)
	ctx := context.Background()

	root := seedItem(t, st, menuID, nil, 1, "root")
	child := seedItem(t, st, menuID, &root.ID, 1, "child")
	grand := seedItem(t, st, menuID, &child.ID, 1, "grandchild")
	keep := seedItem(t, st, menuID, nil, 2, "keep")

	require.NoError(t, engine.DeleteSubtree(ctx, root.ID))

	for _, id := range []models.ItemID{root.ID, child.ID, grand.ID} {
		got, err := st.GetItem(ctx, id)
		require.NoError(t, err)
		assert.Nil(t, got)
	}

	remaining, err := st.ListItems(ctx, menuID)
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, keep.ID, remaining[0].ID)
	// No dangling parent references.
	assert.Nil(t, remaining[0].ParentID)
}

func TestDeleteSubtreeNotFound(t *testing.T) {
	engine, _, _ := newTestEngine(t)
	err := engine.DeleteSubtree(context.Background(), models.NewItemID())
	require.ErrorIs(t, err, store.ErrItemNotFound)
}

func TestDeleteMenuRemovesForest(t *testing.T) {
	engine, st, menuID := newTestEngine(t)
	ctx := context.Background()

	root := seedItem(t, st, menuID, nil, 1, "root")
	seedItem(t, st, menuID, &root.ID, 1, "child")

	require.NoError(t, engine.DeleteMenu(ctx, menuID))

	menu, err := st.GetMenu(ctx, menuID)
	require.NoError(t, err)
	assert.Nil(t, menu)

	items, err := st.ListItems(ctx, menuID)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestListRootItemsFiltersUnregisteredClasses(t *testing.T) {
	engine, st, menuID := newTestEngine(t)
	ctx := context.Background()

	seedItem(t, st, menuID, nil, 1, "a")
	stale := &models.MenuItem{
		MenuID:  menuID,
		Order:   2,
		Class:   "legacy-widget",
		Name:    "stale",
		Value:   "x",
		Enabled: true,
	}
	require.NoError(t, st.CreateItem(ctx, stale))

	roots, err := engine.ListRootItems(ctx, menuID)
	require.NoError(t, err)
	require.Len(t, roots, 1)
	assert.Equal(t, "a", roots[0].Name)
}

func TestListRootItemsMenuNotFound(t *testing.T) {
	engine, _, _ := newTestEngine(t)
	_, err := engine.ListRootItems(context.Background(), models.NewMenuID())
	require.ErrorIs(t, err, store.ErrMenuNotFound)
}

func TestBuildForestNestsChildren(t *testing.T) {
	engine, st, menuID := newTestEngine(t)
	ctx := context.Background()

	a := seedItem(t, st, menuID, nil, 1, "a")
	b := seedItem(t, st, menuID, nil, 2, "b")
	seedItem(t, st, menuID, &a.ID, 2, "a2")
	seedItem(t, st, menuID, &a.ID, 1, "a1")

	forest, err := engine.BuildForest(ctx, menuID)
	require.NoError(t, err)
	require.Len(t, forest, 2)
	assert.Equal(t, a.ID, forest[0].ID)
	assert.Equal(t, b.ID, forest[1].ID)

	require.Len(t, forest[0].Children, 2)
	assert.Equal(t, "a1", forest[0].Children[0].Name)
	assert.Equal(t, "a2", forest[0].Children[1].Name)
	assert.Empty(t, forest[1].Children)
}

func TestUpdateItemKeepsPlacement(t *testing.T) {
	engine, st, menuID := newTestEngine(t)
	ctx := context.Background()

	parent := seedItem(t, st, menuID, nil, 1, "parent")
	item := seedItem(t, st, menuID, &parent.ID, 3, "old")

	update := &models.MenuItem{
		ID:      item.ID,
		MenuID:  models.NewMenuID(), // must be ignored
		Order:   99,                 // must be ignored
		Class:   "url",
		Name:    "new",
		Value:   "https://example.com/new",
		Enabled: false,
	}
	require.NoError(t, engine.UpdateItem(ctx, update))

	stored, err := engine.GetItem(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, "new", stored.Name)
	assert.False(t, stored.Enabled)
	assert.Equal(t, menuID, stored.MenuID)
	assert.Equal(t, 3, stored.Order)
	require.NotNil(t, stored.ParentID)
	assert.Equal(t, parent.ID, *stored.ParentID)
}

func TestUpdateItemNotFound(t *testing.T) {
	engine, _, _ := newTestEngine(t)
	err := engine.UpdateItem(context.Background(), &models.MenuItem{
		ID:    models.NewItemID(),
		Class: "url",
		Name:  "x",
		Value: "y",
	})
	require.ErrorIs(t, err, store.ErrItemNotFound)
}
