package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"gorm.io/gorm"
)

// JSONMap holds the link-type-specific parameters of a menu item. The
// structure varies by item class (a URL item might carry "target" and
// "rel", an internal page item a "page_id"), so it is stored as a
// flexible map rather than fixed columns: PostgreSQL keeps it as JSONB,
// SurrealDB as a native object.
type JSONMap map[string]any

// Value implements the driver.Valuer interface for database storage
func (j JSONMap) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return json.Marshal(j)
}

// Scan implements the sql.Scanner interface for database retrieval
func (j *JSONMap) Scan(value any) error {
	if value == nil {
		*j = nil
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		bytes = []byte(value.(string))
	}
	return json.Unmarshal(bytes, j)
}

// Menu is a top-level named container owning a forest of menu items.
type Menu struct {
	ID        MenuID    `gorm:"type:uuid;primary_key" json:"id"`
	Name      string    `gorm:"not null" json:"name"`
	Slug      string    `gorm:"uniqueIndex;not null" json:"slug"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Menu) TableName() string { return "menus" }

// BeforeCreate hook to generate ID if not set
func (m *Menu) BeforeCreate(tx *gorm.DB) error {
	if m.ID.IsZero() {
		m.ID = NewMenuID()
	}
	return nil
}

// MenuItem is one node in a menu's tree. ParentID is nil for root
// items. Order defines the sibling sequence and is unique within a
// (menu, parent) sibling group between operations. MenuID never
// changes after creation; only parent, order, and payload fields do.
type MenuItem struct {
	ID       ItemID  `gorm:"type:uuid;primary_key" json:"id"`
	MenuID   MenuID  `gorm:"type:uuid;not null;index" json:"menu_id"`
	Menu     *Menu   `gorm:"foreignKey:MenuID" json:"menu,omitempty"`
	ParentID *ItemID `gorm:"type:uuid;index" json:"parent_id,omitempty"`
	Order    int     `gorm:"column:order;not null" json:"order"`
	// Class names the link-type implementation governing this item's
	// target, e.g. "url" or "page".
	Class      string    `gorm:"not null" json:"class"`
	Name       string    `gorm:"not null" json:"name"`
	Value      string    `json:"value"`
	Enabled    bool      `json:"enabled"`
	Parameters JSONMap   `gorm:"type:jsonb" json:"parameters,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`

	// Children is derived, never persisted directly: all items whose
	// ParentID equals this item's ID, ordered by Order.
	Children []*MenuItem `gorm:"-" json:"children,omitempty"`
}

func (MenuItem) TableName() string { return "menu_items" }

// BeforeCreate hook to generate ID if not set
func (i *MenuItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID.IsZero() {
		i.ID = NewItemID()
	}
	return nil
}

// NormalizeParameters collapses empty parameter payloads to nil so an
// item created with no parameters stores an explicit null rather than
// an empty string or empty object.
func (i *MenuItem) NormalizeParameters() {
	if len(i.Parameters) == 0 {
		i.Parameters = nil
	}
}

// TreeNode is one descriptor in a submitted item forest: an existing
// item identifier plus an ordered list of child descriptors.
type TreeNode struct {
	ID       ItemID     `json:"id"`
	Children []TreeNode `json:"children,omitempty"`
}
