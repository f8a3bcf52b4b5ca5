// Package surreal provides the SurrealDB implementation of the
// [github.com/navadmin/navmenu/pkg/store.Store] interface using native
// SurrealQL over the CBOR protocol.
//
// The connection is configured with the surrealcbor codec so that
// time.Time values and the typed menu and item IDs marshal to the
// formats SurrealDB expects: IDs become tagged RecordIDs rather than
// plain strings, which keeps them usable in parameterized queries.
//
// All queries use $param placeholders, never string interpolation, so
// user-provided values cannot inject SurrealQL. `order` is a reserved
// word in SurrealQL and is backtick-escaped wherever it appears as a
// field name.
//
// The order-shift executes as a single UPDATE query. SurrealDB runs
// each query call atomically, which gives the shift the same no
// transient-collision guarantee the PostgreSQL store gets from a
// single UPDATE statement.
package surreal

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/surrealdb/surrealdb.go"
	"github.com/surrealdb/surrealdb.go/pkg/connection"
	"github.com/surrealdb/surrealdb.go/pkg/connection/gorillaws"
	"github.com/surrealdb/surrealdb.go/surrealcbor"

	"github.com/navadmin/navmenu/pkg/models"
)

// SurrealStore implements the Store interface against SurrealDB.
type SurrealStore struct {
	db       *surrealdb.DB
	ns       string
	database string
}

// NewSurrealStore connects to SurrealDB over WebSocket with the
// surrealcbor codec, signs in when credentials are given, and selects
// the namespace and database.
func NewSurrealStore(wsURL, namespace, database, username, password string) (*SurrealStore, error) {
	ctx := context.Background()

	u, err := url.Parse(wsURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse URL: %w", err)
	}

	conf := connection.NewConfig(u)

	// The custom codec is required for correct time.Time and RecordID
	// marshaling; the default codec produces values SurrealDB rejects.
	codec := surrealcbor.New()
	conf.Marshaler = codec
	conf.Unmarshaler = codec

	conn := gorillaws.New(conf)

	db, err := surrealdb.FromConnection(ctx, conn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to SurrealDB: %w", err)
	}

	if username != "" && password != "" {
		if _, err := db.SignIn(ctx, map[string]any{
			"user": username,
			"pass": password,
		}); err != nil {
			return nil, fmt.Errorf("failed to authenticate: %w", err)
		}
	}

	if err := db.Use(ctx, namespace, database); err != nil {
		return nil, fmt.Errorf("failed to use namespace/database: %w", err)
	}

	return &SurrealStore{
		db:       db,
		ns:       namespace,
		database: database,
	}, nil
}

// Migrate is a no-op: SurrealDB creates tables implicitly when the
// first record is inserted.
func (s *SurrealStore) Migrate(ctx context.Context) error {
	return nil
}

// Close closes the database connection
func (s *SurrealStore) Close() error {
	return s.db.Close(context.Background())
}

// handleNotFound maps SurrealDB's empty-result errors to nil so Get
// methods can keep the nil-for-missing convention.
func handleNotFound(err error) error {
	if err != nil {
		errStr := err.Error()
		if strings.Contains(errStr, "Expected a single or multiple results but got 0") ||
			strings.Contains(errStr, "cannot unmarshal array into Go value") {
			return nil
		}
	}
	return err
}

// Menu operations

func (s *SurrealStore) CreateMenu(ctx context.Context, menu *models.Menu) error {
	if menu.ID.IsZero() {
		menu.ID = models.NewMenuID()
	}
	if menu.CreatedAt.IsZero() {
		menu.CreatedAt = time.Now()
	}
	if menu.UpdatedAt.IsZero() {
		menu.UpdatedAt = time.Now()
	}
	_, err := surrealdb.Create[models.Menu](ctx, s.db, "menus", menu)
	if err != nil {
		return fmt.Errorf("failed to create menu: %w", err)
	}
	return nil
}

func (s *SurrealStore) GetMenu(ctx context.Context, id models.MenuID) (*models.Menu, error) {
	rid := id.RecordID()
	menu, err := surrealdb.Select[models.Menu](ctx, s.db, rid)
	if err != nil {
		if handleNotFound(err) == nil {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get menu: %w", err)
	}
	return menu, nil
}

func (s *SurrealStore) ListMenus(ctx context.Context) ([]*models.Menu, error) {
	query := "SELECT * FROM menus ORDER BY name"
	result, err := surrealdb.Query[[]models.Menu](ctx, s.db, query, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list menus: %w", err)
	}
	menus := make([]*models.Menu, 0)
	if result != nil && len(*result) > 0 {
		for i := range (*result)[0].Result {
			menus = append(menus, &(*result)[0].Result[i])
		}
	}
	return menus, nil
}

func (s *SurrealStore) UpdateMenu(ctx context.Context, menu *models.Menu) error {
	rid := menu.ID.RecordID()
	menu.UpdatedAt = time.Now()
	_, err := surrealdb.Update[models.Menu](ctx, s.db, rid, menu)
	if err != nil {
		return fmt.Errorf("failed to update menu: %w", err)
	}
	return nil
}

func (s *SurrealStore) DeleteMenu(ctx context.Context, id models.MenuID) error {
	rid := id.RecordID()
	_, err := surrealdb.Delete[models.Menu](ctx, s.db, rid)
	return err
}

// Item operations

func (s *SurrealStore) CreateItem(ctx context.Context, item *models.MenuItem) error {
	if item.ID.IsZero() {
		item.ID = models.NewItemID()
	}
	if item.CreatedAt.IsZero() {
		item.CreatedAt = time.Now()
	}
	if item.UpdatedAt.IsZero() {
		item.UpdatedAt = time.Now()
	}
	_, err := surrealdb.Create[models.MenuItem](ctx, s.db, "menu_items", item)
	if err != nil {
		return fmt.Errorf("failed to create menu item: %w", err)
	}
	return nil
}

func (s *SurrealStore) GetItem(ctx context.Context, id models.ItemID) (*models.MenuItem, error) {
	rid := id.RecordID()
	item, err := surrealdb.Select[models.MenuItem](ctx, s.db, rid)
	if err != nil {
		if handleNotFound(err) == nil {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get menu item: %w", err)
	}
	return item, nil
}

func (s *SurrealStore) ListItems(ctx context.Context, menuID models.MenuID) ([]*models.MenuItem, error) {
	query := "SELECT * FROM menu_items WHERE menu_id = $menu_id ORDER BY parent_id, `order`"
	params := map[string]any{
		"menu_id": menuID,
	}
	result, err := surrealdb.Query[[]models.MenuItem](ctx, s.db, query, params)
	if err != nil {
		return nil, fmt.Errorf("failed to list menu items: %w", err)
	}
	items := make([]*models.MenuItem, 0)
	if result != nil && len(*result) > 0 {
		for i := range (*result)[0].Result {
			items = append(items, &(*result)[0].Result[i])
		}
	}
	return items, nil
}

func (s *SurrealStore) ListChildren(ctx context.Context, menuID models.MenuID, parentID *models.ItemID) ([]*models.MenuItem, error) {
	query := "SELECT * FROM menu_items WHERE menu_id = $menu_id AND parent_id IS NONE ORDER BY `order`"
	params := map[string]any{
		"menu_id": menuID,
	}
	if parentID != nil {
		query = "SELECT * FROM menu_items WHERE menu_id = $menu_id AND parent_id = $parent_id ORDER BY `order`"
		params["parent_id"] = *parentID
	}
	result, err := surrealdb.Query[[]models.MenuItem](ctx, s.db, query, params)
	if err != nil {
		return nil, fmt.Errorf("failed to list children: %w", err)
	}
	items := make([]*models.MenuItem, 0)
	if result != nil && len(*result) > 0 {
		for i := range (*result)[0].Result {
			items = append(items, &(*result)[0].Result[i])
		}
	}
	return items, nil
}

func (s *SurrealStore) UpdateItem(ctx context.Context, item *models.MenuItem) error {
	rid := item.ID.RecordID()
	item.UpdatedAt = time.Now()
	_, err := surrealdb.Update[models.MenuItem](ctx, s.db, rid, item)
	if err != nil {
		return fmt.Errorf("failed to update menu item: %w", err)
	}
	return nil
}

func (s *SurrealStore) DeleteItem(ctx context.Context, id models.ItemID) error {
	rid := id.RecordID()
	_, err := surrealdb.Delete[models.MenuItem](ctx, s.db, rid)
	return err
}

// Ordering operations

func (s *SurrealStore) MaxItemOrder(ctx context.Context, menuID models.MenuID) (int, error) {
	query := "SELECT math::max(`order`) AS max_order FROM menu_items WHERE menu_id = $menu_id GROUP ALL"
	params := map[string]any{
		"menu_id": menuID,
	}
	type row struct {
		MaxOrder int `json:"max_order"`
	}
	result, err := surrealdb.Query[[]row](ctx, s.db, query, params)
	if err != nil {
		return 0, fmt.Errorf("failed to compute max order: %w", err)
	}
	if result != nil && len(*result) > 0 && len((*result)[0].Result) > 0 {
		return (*result)[0].Result[0].MaxOrder, nil
	}
	return 0, nil
}

// ShiftSiblingOrders runs as one UPDATE query; SurrealDB applies each
// query call atomically.
func (s *SurrealStore) ShiftSiblingOrders(ctx context.Context, menuID models.MenuID, parentID *models.ItemID, above int, exclude models.ItemID) error {
	query := "UPDATE menu_items SET `order` += 1 WHERE menu_id = $menu_id AND parent_id IS NONE AND `order` > $above AND id != $exclude"
	params := map[string]any{
		"menu_id": menuID,
		"above":   above,
		"exclude": exclude.RecordID(),
	}
	if parentID != nil {
		query = "UPDATE menu_items SET `order` += 1 WHERE menu_id = $menu_id AND parent_id = $parent_id AND `order` > $above AND id != $exclude"
		params["parent_id"] = *parentID
	}
	if _, err := surrealdb.Query[any](ctx, s.db, query, params); err != nil {
		return fmt.Errorf("failed to shift sibling orders: %w", err)
	}
	return nil
}

func (s *SurrealStore) PlaceItem(ctx context.Context, id models.ItemID, parentID *models.ItemID, order int) error {
	query := "UPDATE $item SET parent_id = $parent_id, `order` = $order, updated_at = time::now()"
	params := map[string]any{
		"item":  id.RecordID(),
		"order": order,
	}
	if parentID != nil {
		params["parent_id"] = *parentID
	} else {
		params["parent_id"] = nil
	}
	if _, err := surrealdb.Query[any](ctx, s.db, query, params); err != nil {
		return fmt.Errorf("failed to place menu item: %w", err)
	}
	return nil
}
