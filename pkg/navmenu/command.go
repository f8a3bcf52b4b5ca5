package navmenu

// Command represents a discrete application operation with its
// specific configuration. Commands are produced by Parse from the
// command line and dispatched by Main to the matching App method.
type Command interface {
	// Name returns the command identifier used for routing.
	Name() string
}

// MigrateCommand creates or updates the database schema. It is safe
// to run repeatedly: only missing schema elements are added. The
// SurrealDB backend needs no schema, so migrating it is a no-op.
type MigrateCommand struct{}

func (c *MigrateCommand) Name() string {
	return "migrate"
}

// RunCommand starts the HTTP server. The server runs until the
// context is cancelled or a fatal error occurs; on cancellation it
// shuts down gracefully, letting in-flight requests finish.
type RunCommand struct{}

func (c *RunCommand) Name() string {
	return "run"
}
