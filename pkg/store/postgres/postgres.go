// Package postgres provides the PostgreSQL implementation of the
// [github.com/navadmin/navmenu/pkg/store.Store] interface using GORM.
//
// GORM handles SQL generation, the uuid column mapping of the typed
// IDs, and JSONB storage of item parameters. Schema management goes
// through [PostgresStore.Migrate], which uses GORM's AutoMigrate and
// is safe to run repeatedly.
//
// The order-shift is issued as a single UPDATE statement so concurrent
// readers never observe two siblings sharing an order value. Note that
// "order" is a reserved word in SQL and is quoted in every literal
// fragment below.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/navadmin/navmenu/pkg/models"
	"github.com/navadmin/navmenu/pkg/store"
)

// PostgresStore implements the Store interface using PostgreSQL with GORM.
type PostgresStore struct {
	db *gorm.DB
}

// NewPostgresStore creates a new PostgreSQL store.
func NewPostgresStore(dsn string) (*PostgresStore, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return &PostgresStore{db: db}, nil
}

// getDB returns the database connection
func (s *PostgresStore) getDB() *gorm.DB {
	return s.db
}

// Migrate creates or updates the menus and menu_items tables. It only
// adds missing schema elements and never drops data.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	return s.db.WithContext(ctx).AutoMigrate(
		&models.Menu{},
		&models.MenuItem{},
	)
}

// Close closes the database connection
func (s *PostgresStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Menu operations

func (s *PostgresStore) CreateMenu(ctx context.Context, menu *models.Menu) error {
	return s.getDB().WithContext(ctx).Create(menu).Error
}

func (s *PostgresStore) GetMenu(ctx context.Context, id models.MenuID) (*models.Menu, error) {
	var menu models.Menu
	err := s.getDB().WithContext(ctx).First(&menu, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &menu, nil
}

func (s *PostgresStore) ListMenus(ctx context.Context) ([]*models.Menu, error) {
	menus := make([]*models.Menu, 0)
	err := s.getDB().WithContext(ctx).Order("name").Find(&menus).Error
	return menus, err
}

func (s *PostgresStore) UpdateMenu(ctx context.Context, menu *models.Menu) error {
	return s.getDB().WithContext(ctx).Save(menu).Error
}

func (s *PostgresStore) DeleteMenu(ctx context.Context, id models.MenuID) error {
	return s.getDB().WithContext(ctx).Delete(&models.Menu{}, "id = ?", id).Error
}

// Item operations

func (s *PostgresStore) CreateItem(ctx context.Context, item *models.MenuItem) error {
	return s.getDB().WithContext(ctx).Create(item).Error
}

func (s *PostgresStore) GetItem(ctx context.Context, id models.ItemID) (*models.MenuItem, error) {
	var item models.MenuItem
	err := s.getDB().WithContext(ctx).First(&item, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

func (s *PostgresStore) ListItems(ctx context.Context, menuID models.MenuID) ([]*models.MenuItem, error) {
	items := make([]*models.MenuItem, 0)
	err := s.getDB().WithContext(ctx).
		Where("menu_id = ?", menuID).
		Order("parent_id NULLS FIRST, \"order\"").
		Find(&items).Error
	return items, err
}

func (s *PostgresStore) ListChildren(ctx context.Context, menuID models.MenuID, parentID *models.ItemID) ([]*models.MenuItem, error) {
	items := make([]*models.MenuItem, 0)
	q := s.getDB().WithContext(ctx).Where("menu_id = ?", menuID)
	if parentID == nil {
		q = q.Where("parent_id IS NULL")
	} else {
		q = q.Where("parent_id = ?", *parentID)
	}
	err := q.Order("\"order\"").Find(&items).Error
	return items, err
}

func (s *PostgresStore) UpdateItem(ctx context.Context, item *models.MenuItem) error {
	return s.getDB().WithContext(ctx).Save(item).Error
}

func (s *PostgresStore) DeleteItem(ctx context.Context, id models.ItemID) error {
	return s.getDB().WithContext(ctx).Delete(&models.MenuItem{}, "id = ?", id).Error
}

// Ordering operations

func (s *PostgresStore) MaxItemOrder(ctx context.Context, menuID models.MenuID) (int, error) {
	var max *int
	err := s.getDB().WithContext(ctx).
		Model(&models.MenuItem{}).
		Where("menu_id = ?", menuID).
		Select("MAX(\"order\")").
		Scan(&max).Error
	if err != nil {
		return 0, err
	}
	if max == nil {
		return 0, nil
	}
	return *max, nil
}

// ShiftSiblingOrders runs as one UPDATE statement; PostgreSQL applies
// it atomically, so no intermediate state with colliding orders is
// ever visible.
func (s *PostgresStore) ShiftSiblingOrders(ctx context.Context, menuID models.MenuID, parentID *models.ItemID, above int, exclude models.ItemID) error {
	q := s.getDB().WithContext(ctx).
		Model(&models.MenuItem{}).
		Where("menu_id = ? AND \"order\" > ? AND id <> ?", menuID, above, exclude)
	if parentID == nil {
		q = q.Where("parent_id IS NULL")
	} else {
		q = q.Where("parent_id = ?", *parentID)
	}
	return q.Update("order", gorm.Expr("\"order\" + 1")).Error
}

func (s *PostgresStore) PlaceItem(ctx context.Context, id models.ItemID, parentID *models.ItemID, order int) error {
	updates := map[string]any{
		"parent_id": nil,
		"order":     order,
	}
	if parentID != nil {
		updates["parent_id"] = *parentID
	}
	res := s.getDB().WithContext(ctx).
		Model(&models.MenuItem{}).
		Where("id = ?", id).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return store.ErrItemNotFound
	}
	return nil
}

// WithTransaction implements store.Transactor on top of GORM's
// transaction callback. The store handed to fn shares this store's
// configuration but runs every operation on the transaction handle.
func (s *PostgresStore) WithTransaction(ctx context.Context, fn func(tx store.Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&PostgresStore{db: tx})
	})
}
