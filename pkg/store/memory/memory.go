// Package memory provides an in-memory Store implementation backed by
// mutex-guarded maps. It exists for tests and local experimentation
// and mirrors the semantics of the database-backed stores, including
// snapshot-based transactions.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/navadmin/navmenu/pkg/models"
	"github.com/navadmin/navmenu/pkg/store"
)

// MemoryStore keeps menus and items in maps keyed by ID. Values are
// copied on the way in and out so callers never share memory with the
// store's own records.
type MemoryStore struct {
	mu    sync.RWMutex
	menus map[models.MenuID]models.Menu
	items map[models.ItemID]models.MenuItem
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		menus: make(map[models.MenuID]models.Menu),
		items: make(map[models.ItemID]models.MenuItem),
	}
}

func copyItem(item models.MenuItem) models.MenuItem {
	c := item
	c.Children = nil
	if item.ParentID != nil {
		p := *item.ParentID
		c.ParentID = &p
	}
	if item.Parameters != nil {
		params := make(models.JSONMap, len(item.Parameters))
		for k, v := range item.Parameters {
			params[k] = v
		}
		c.Parameters = params
	}
	return c
}

func (s *MemoryStore) CreateMenu(ctx context.Context, menu *models.Menu) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if menu.ID.IsZero() {
		menu.ID = models.NewMenuID()
	}
	s.menus[menu.ID] = *menu
	return nil
}

func (s *MemoryStore) GetMenu(ctx context.Context, id models.MenuID) (*models.Menu, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	menu, ok := s.menus[id]
	if !ok {
		return nil, nil
	}
	return &menu, nil
}

func (s *MemoryStore) ListMenus(ctx context.Context) ([]*models.Menu, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	menus := make([]*models.Menu, 0, len(s.menus))
	for _, m := range s.menus {
		menu := m
		menus = append(menus, &menu)
	}
	sort.Slice(menus, func(i, j int) bool { return menus[i].Name < menus[j].Name })
	return menus, nil
}

func (s *MemoryStore) UpdateMenu(ctx context.Context, menu *models.Menu) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.menus[menu.ID]; !ok {
		return store.ErrMenuNotFound
	}
	s.menus[menu.ID] = *menu
	return nil
}

func (s *MemoryStore) DeleteMenu(ctx context.Context, id models.MenuID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.menus[id]; !ok {
		return store.ErrMenuNotFound
	}
	delete(s.menus, id)
	return nil
}

func (s *MemoryStore) CreateItem(ctx context.Context, item *models.MenuItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if item.ID.IsZero() {
		item.ID = models.NewItemID()
	}
	s.items[item.ID] = copyItem(*item)
	return nil
}

func (s *MemoryStore) GetItem(ctx context.Context, id models.ItemID) (*models.MenuItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	item, ok := s.items[id]
	if !ok {
		return nil, nil
	}
	c := copyItem(item)
	return &c, nil
}

func (s *MemoryStore) ListItems(ctx context.Context, menuID models.MenuID) ([]*models.MenuItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]*models.MenuItem, 0)
	for _, it := range s.items {
		if it.MenuID != menuID {
			continue
		}
		c := copyItem(it)
		items = append(items, &c)
	}
	sort.Slice(items, func(i, j int) bool {
		pi, pj := "", ""
		if items[i].ParentID != nil {
			pi = items[i].ParentID.String()
		}
		if items[j].ParentID != nil {
			pj = items[j].ParentID.String()
		}
		if pi != pj {
			return pi < pj
		}
		return items[i].Order < items[j].Order
	})
	return items, nil
}

func (s *MemoryStore) ListChildren(ctx context.Context, menuID models.MenuID, parentID *models.ItemID) ([]*models.MenuItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]*models.MenuItem, 0)
	for _, it := range s.items {
		if it.MenuID != menuID || !sameParent(it.ParentID, parentID) {
			continue
		}
		c := copyItem(it)
		items = append(items, &c)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Order < items[j].Order })
	return items, nil
}

func (s *MemoryStore) UpdateItem(ctx context.Context, item *models.MenuItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[item.ID]; !ok {
		return store.ErrItemNotFound
	}
	s.items[item.ID] = copyItem(*item)
	return nil
}

func (s *MemoryStore) DeleteItem(ctx context.Context, id models.ItemID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[id]; !ok {
		return store.ErrItemNotFound
	}
	delete(s.items, id)
	return nil
}

func (s *MemoryStore) MaxItemOrder(ctx context.Context, menuID models.MenuID) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	max := 0
	for _, it := range s.items {
		if it.MenuID == menuID && it.Order > max {
			max = it.Order
		}
	}
	return max, nil
}

func (s *MemoryStore) ShiftSiblingOrders(ctx context.Context, menuID models.MenuID, parentID *models.ItemID, above int, exclude models.ItemID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, it := range s.items {
		if it.MenuID != menuID || id == exclude || !sameParent(it.ParentID, parentID) {
			continue
		}
		if it.Order > above {
			it.Order++
			s.items[id] = it
		}
	}
	return nil
}

func (s *MemoryStore) PlaceItem(ctx context.Context, id models.ItemID, parentID *models.ItemID, order int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.items[id]
	if !ok {
		return store.ErrItemNotFound
	}
	if parentID != nil {
		p := *parentID
		item.ParentID = &p
	} else {
		item.ParentID = nil
	}
	item.Order = order
	s.items[id] = item
	return nil
}

// WithTransaction implements store.Transactor by snapshotting the maps
// and restoring them if fn fails. Serialization comes from the single
// process lock, so the callback receives the store itself.
func (s *MemoryStore) WithTransaction(ctx context.Context, fn func(tx store.Store) error) error {
	s.mu.Lock()
	menus := make(map[models.MenuID]models.Menu, len(s.menus))
	for k, v := range s.menus {
		menus[k] = v
	}
	items := make(map[models.ItemID]models.MenuItem, len(s.items))
	for k, v := range s.items {
		items[k] = copyItem(v)
	}
	s.mu.Unlock()

	if err := fn(s); err != nil {
		s.mu.Lock()
		s.menus = menus
		s.items = items
		s.mu.Unlock()
		return err
	}
	return nil
}

func sameParent(a, b *models.ItemID) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
