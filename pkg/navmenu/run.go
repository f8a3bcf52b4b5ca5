package navmenu

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
)

// Run starts the HTTP server for the menu administration API.
//
// # API Endpoints
//
// Health check:
//
//	GET  /api/health                       - Service health status
//
// Menus:
//
//	POST   /api/menus                      - Create menu
//	GET    /api/menus                      - List menus
//	GET    /api/menus/{id}                 - Get menu by ID
//	PUT    /api/menus/{id}                 - Update menu
//	DELETE /api/menus/{id}                 - Delete menu and its item forest
//	GET    /api/menus/{id}/items           - List root items (registered types only)
//	GET    /api/menus/{id}/tree            - Full item tree with nested children
//	PUT    /api/menus/{id}/tree            - Save submitted tree (rewrites order/parent)
//
// Items:
//
//	POST   /api/items                      - Create item (order assigned automatically)
//	GET    /api/items/{id}                 - Get item by ID
//	PUT    /api/items/{id}                 - Update item payload fields
//	DELETE /api/items/{id}                 - Delete item and its descendants
//	POST   /api/items/{id}/duplicate       - Clone item subtree next to the original
//
// Link types:
//
//	GET    /api/item-types                 - Registered link types, ?locale= selects options
//
// Administration:
//
//	GET    /api/admin/readonly             - Current read-only state
//	POST   /api/admin/readonly             - Toggle read-only state
//
// The server blocks until the context is cancelled or a fatal error
// occurs. On cancellation it allows up to 5 seconds for in-flight
// requests to complete.
func (a *App) Run(ctx context.Context, cmd *RunCommand) error {
	router := a.router()

	addr := fmt.Sprintf(":%s", a.config.ServerPort)
	a.log.Logger.Info().
		Str("addr", addr).
		Str("backend", string(a.config.Backend)).
		Msg("starting navmenu server")

	server := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	select {
	case <-ctx.Done():
		a.log.Logger.Info().Msg("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	case err := <-serverErr:
		return err
	}
}

// router builds the full route table. Split out of Run so tests can
// serve the handlers through httptest.
func (a *App) router() *mux.Router {
	router := mux.NewRouter()

	api := router.PathPrefix("/api").Subrouter()

	api.HandleFunc("/health", a.handleHealth).Methods("GET")

	// Menu routes
	api.HandleFunc("/menus", a.handleCreateMenu).Methods("POST")
	api.HandleFunc("/menus", a.handleListMenus).Methods("GET")
	api.HandleFunc("/menus/{id}", a.handleGetMenu).Methods("GET")
	api.HandleFunc("/menus/{id}", a.handleUpdateMenu).Methods("PUT")
	api.HandleFunc("/menus/{id}", a.handleDeleteMenu).Methods("DELETE")
	api.HandleFunc("/menus/{id}/items", a.handleListRootItems).Methods("GET")
	api.HandleFunc("/menus/{id}/tree", a.handleGetTree).Methods("GET")
	api.HandleFunc("/menus/{id}/tree", a.handleSaveTree).Methods("PUT")

	// Item routes
	api.HandleFunc("/items", a.handleCreateItem).Methods("POST")
	api.HandleFunc("/items/{id}", a.handleGetItem).Methods("GET")
	api.HandleFunc("/items/{id}", a.handleUpdateItem).Methods("PUT")
	api.HandleFunc("/items/{id}", a.handleDeleteItem).Methods("DELETE")
	api.HandleFunc("/items/{id}/duplicate", a.handleDuplicateItem).Methods("POST")

	// Link type routes
	api.HandleFunc("/item-types", a.handleListItemTypes).Methods("GET")

	// Admin routes
	api.HandleFunc("/admin/readonly", a.handleGetReadOnly).Methods("GET")
	api.HandleFunc("/admin/readonly", a.handleSetReadOnly).Methods("POST")

	// Health check route (outside of /api prefix)
	router.HandleFunc("/health", a.handleHealth).Methods("GET")

	return router
}
