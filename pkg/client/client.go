// Package client provides a Go HTTP client for programmatic access to
// the navmenu API.
//
// The client mirrors the server's endpoint structure with
// strongly-typed methods: menu CRUD, item CRUD, tree retrieval and
// save, subtree duplication, and link-type enumeration. Request and
// response bodies use the same [github.com/navadmin/navmenu/pkg/models]
// entities as the server.
//
// Errors from the API carry the HTTP status and response body. A
// bearer token set with [Client.SetAuthToken] is attached to every
// request.
//
// Client instances are safe for concurrent use by multiple goroutines.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/navadmin/navmenu/pkg/linktype"
	"github.com/navadmin/navmenu/pkg/models"
)

// Client is a typed HTTP client for the navmenu API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	authToken  string
}

// NewClient creates a new navmenu API client. The baseURL should
// include protocol and host (e.g. "http://localhost:8080") without a
// trailing slash or API prefix.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// SetAuthToken sets the authentication token for the client
func (c *Client) SetAuthToken(token string) {
	c.authToken = token
}

// doRequest performs an HTTP request with proper headers
func (c *Client) doRequest(ctx context.Context, method, path string, body any) (*http.Response, error) {
	var bodyReader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if c.authToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.authToken)
	}

	return c.httpClient.Do(req)
}

// decodeResponse decodes the JSON response into the target struct
func decodeResponse(resp *http.Response, target any) error {
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("API error: status=%d, body=%s", resp.StatusCode, string(body))
	}

	if target != nil && resp.StatusCode != http.StatusNoContent {
		if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

// Health checks the health status of the server
func (c *Client) Health(ctx context.Context) (map[string]any, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/health", nil)
	if err != nil {
		return nil, err
	}

	var result map[string]any
	if err := decodeResponse(resp, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// Menu management

// CreateMenu creates a new menu
func (c *Client) CreateMenu(ctx context.Context, menu *models.Menu) (*models.Menu, error) {
	resp, err := c.doRequest(ctx, http.MethodPost, "/api/menus", menu)
	if err != nil {
		return nil, err
	}

	var result models.Menu
	if err := decodeResponse(resp, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetMenu retrieves a menu by ID
func (c *Client) GetMenu(ctx context.Context, id models.MenuID) (*models.Menu, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, fmt.Sprintf("/api/menus/%s", id), nil)
	if err != nil {
		return nil, err
	}

	var result models.Menu
	if err := decodeResponse(resp, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ListMenus lists all menus
func (c *Client) ListMenus(ctx context.Context) ([]*models.Menu, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/api/menus", nil)
	if err != nil {
		return nil, err
	}

	var result []*models.Menu
	if err := decodeResponse(resp, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// UpdateMenu updates an existing menu
func (c *Client) UpdateMenu(ctx context.Context, menu *models.Menu) (*models.Menu, error) {
	resp, err := c.doRequest(ctx, http.MethodPut, fmt.Sprintf("/api/menus/%s", menu.ID), menu)
	if err != nil {
		return nil, err
	}

	var result models.Menu
	if err := decodeResponse(resp, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// DeleteMenu deletes a menu and its entire item forest
func (c *Client) DeleteMenu(ctx context.Context, id models.MenuID) error {
	resp, err := c.doRequest(ctx, http.MethodDelete, fmt.Sprintf("/api/menus/%s", id), nil)
	if err != nil {
		return err
	}
	return decodeResponse(resp, nil)
}

// Item management

// CreateItem creates a new menu item; the server assigns its order
func (c *Client) CreateItem(ctx context.Context, item *models.MenuItem) (*models.MenuItem, error) {
	resp, err := c.doRequest(ctx, http.MethodPost, "/api/items", item)
	if err != nil {
		return nil, err
	}

	var result models.MenuItem
	if err := decodeResponse(resp, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetItem retrieves a menu item by ID
func (c *Client) GetItem(ctx context.Context, id models.ItemID) (*models.MenuItem, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, fmt.Sprintf("/api/items/%s", id), nil)
	if err != nil {
		return nil, err
	}

	var result models.MenuItem
	if err := decodeResponse(resp, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// UpdateItem updates a menu item's payload fields
func (c *Client) UpdateItem(ctx context.Context, item *models.MenuItem) (*models.MenuItem, error) {
	resp, err := c.doRequest(ctx, http.MethodPut, fmt.Sprintf("/api/items/%s", item.ID), item)
	if err != nil {
		return nil, err
	}

	var result models.MenuItem
	if err := decodeResponse(resp, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// DeleteItem deletes a menu item and its descendants
func (c *Client) DeleteItem(ctx context.Context, id models.ItemID) error {
	resp, err := c.doRequest(ctx, http.MethodDelete, fmt.Sprintf("/api/items/%s", id), nil)
	if err != nil {
		return err
	}
	return decodeResponse(resp, nil)
}

// DuplicateItem clones an item subtree next to the original and
// returns the cloned root
func (c *Client) DuplicateItem(ctx context.Context, id models.ItemID) (*models.MenuItem, error) {
	resp, err := c.doRequest(ctx, http.MethodPost, fmt.Sprintf("/api/items/%s/duplicate", id), nil)
	if err != nil {
		return nil, err
	}

	var result models.MenuItem
	if err := decodeResponse(resp, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Tree operations

// ListRootItems lists a menu's root items
func (c *Client) ListRootItems(ctx context.Context, menuID models.MenuID) ([]*models.MenuItem, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, fmt.Sprintf("/api/menus/%s/items", menuID), nil)
	if err != nil {
		return nil, err
	}

	var result []*models.MenuItem
	if err := decodeResponse(resp, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// GetTree retrieves a menu's full item tree with nested children
func (c *Client) GetTree(ctx context.Context, menuID models.MenuID) ([]*models.MenuItem, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, fmt.Sprintf("/api/menus/%s/tree", menuID), nil)
	if err != nil {
		return nil, err
	}

	var result []*models.MenuItem
	if err := decodeResponse(resp, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// SaveTree submits a forest of item descriptors; the server rewrites
// order and parent for every named item
func (c *Client) SaveTree(ctx context.Context, menuID models.MenuID, forest []models.TreeNode) error {
	resp, err := c.doRequest(ctx, http.MethodPut, fmt.Sprintf("/api/menus/%s/tree", menuID), forest)
	if err != nil {
		return err
	}
	return decodeResponse(resp, nil)
}

// Link types

// ListItemTypes lists registered link types with locale-specific options
func (c *Client) ListItemTypes(ctx context.Context, locale string) ([]linktype.Descriptor, error) {
	path := "/api/item-types"
	if locale != "" {
		path += "?locale=" + locale
	}
	resp, err := c.doRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}

	var result []linktype.Descriptor
	if err := decodeResponse(resp, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// Administration

// SetReadOnly toggles the server's read-only mode
func (c *Client) SetReadOnly(ctx context.Context, readOnly bool) error {
	body := map[string]bool{"read_only": readOnly}
	resp, err := c.doRequest(ctx, http.MethodPost, "/api/admin/readonly", body)
	if err != nil {
		return err
	}
	return decodeResponse(resp, nil)
}
