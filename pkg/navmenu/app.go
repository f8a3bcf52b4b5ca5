// Package navmenu wires the menu engine, the link-type registry, and a
// pluggable store into an HTTP application for managing hierarchical
// navigation menus.
package navmenu

import (
	"fmt"
	"os"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/navadmin/navmenu/pkg/linktype"
	"github.com/navadmin/navmenu/pkg/logger"
	"github.com/navadmin/navmenu/pkg/menutree"
	"github.com/navadmin/navmenu/pkg/store"
	"github.com/navadmin/navmenu/pkg/store/memory"
	"github.com/navadmin/navmenu/pkg/store/postgres"
	"github.com/navadmin/navmenu/pkg/store/surreal"
)

// Backend selects the persistence implementation.
type Backend string

const (
	BackendPostgres Backend = "postgres"
	BackendSurreal  Backend = "surreal"
	BackendMemory   Backend = "memory"
)

// Config holds application configuration.
type Config struct {
	// Database configuration
	Backend       Backend
	PostgresDSN   string
	SurrealDBURL  string
	SurrealDBNS   string
	SurrealDBDB   string
	SurrealDBUser string
	SurrealDBPass string

	// ReadOnly rejects all write operations when true. Used for
	// maintenance windows.
	ReadOnly bool

	// Server configuration
	ServerPort    string
	DefaultLocale string

	// Logging configuration
	LogPath  string
	LogLevel string
}

// closer is implemented by stores holding external connections.
type closer interface {
	Close() error
}

// App holds the application state.
type App struct {
	store    store.Store
	backing  store.Store // unwrapped store, for Close and Migrate
	engine   *menutree.Engine
	types    *linktype.Registry
	config   *Config
	log      *logger.Log
	readOnly atomic.Bool
}

// New creates a new application instance: it connects the configured
// backend, builds the logger, registers the built-in link types, and
// wires the tree engine.
func New(config *Config) (*App, error) {
	level, err := zerolog.ParseLevel(config.LogLevel)
	if err != nil || config.LogLevel == "" {
		level = zerolog.InfoLevel
	}
	log, err := logger.New().FromPath(config.LogPath).WithLevel(level).Make()
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}

	var backing store.Store
	switch config.Backend {
	case BackendSurreal:
		backing, err = surreal.NewSurrealStore(
			config.SurrealDBURL,
			config.SurrealDBNS,
			config.SurrealDBDB,
			config.SurrealDBUser,
			config.SurrealDBPass,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to SurrealDB: %w", err)
		}
		log.Logger.Info().Str("url", config.SurrealDBURL).Msg("connected to SurrealDB")
	case BackendMemory:
		backing = memory.NewMemoryStore()
		log.Logger.Info().Msg("using in-memory store")
	default:
		backing, err = postgres.NewPostgresStore(config.PostgresDSN)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
		}
		log.Logger.Info().Msg("connected to PostgreSQL")
	}

	types := linktype.NewDefaultRegistry()

	app := &App{
		backing: backing,
		types:   types,
		config:  config,
		log:     log,
	}
	app.readOnly.Store(config.ReadOnly)
	app.store = store.NewReadOnlyStore(backing, app.IsReadOnly)
	app.engine = menutree.NewEngine(app.store, types, log.Logger)

	return app, nil
}

// Close closes the application and its resources
func (a *App) Close() error {
	if c, ok := a.backing.(closer); ok {
		if err := c.Close(); err != nil {
			return err
		}
	}
	return a.log.Close()
}

// Store returns the store the handlers use (useful for testing)
func (a *App) Store() store.Store {
	return a.store
}

// Engine returns the tree engine (useful for testing)
func (a *App) Engine() *menutree.Engine {
	return a.engine
}

// Types returns the link-type registry so callers can register
// additional link types before the server starts.
func (a *App) Types() *linktype.Registry {
	return a.types
}

// SetReadOnly toggles the application's read-only mode at runtime.
// While enabled, all write operations are rejected at the store
// wrapper; reads keep working. The flag is atomic because the admin
// handler flips it while request goroutines read it.
func (a *App) SetReadOnly(readOnly bool) {
	a.readOnly.Store(readOnly)
	a.log.Logger.Info().Bool("read_only", readOnly).Msg("read-only mode changed")
}

// IsReadOnly reports whether the application is in read-only mode. It
// is checked by the store wrapper on every write, so it stays cheap.
func (a *App) IsReadOnly() bool {
	return a.readOnly.Load()
}

// getEnv retrieves an environment variable value with a fallback
// default. Empty values count as unset.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
