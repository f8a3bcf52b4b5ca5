package navmenu

import "context"

// schemaMigrator is implemented by stores that manage their own schema.
type schemaMigrator interface {
	Migrate(ctx context.Context) error
}

// Migrate creates or updates the schema of the configured backend.
// Safe to run repeatedly; only missing schema elements are added.
func (a *App) Migrate(ctx context.Context, cmd *MigrateCommand) error {
	m, ok := a.backing.(schemaMigrator)
	if !ok {
		a.log.Logger.Info().Msg("backend needs no schema migration")
		return nil
	}
	if err := m.Migrate(ctx); err != nil {
		return err
	}
	a.log.Logger.Info().Str("backend", string(a.config.Backend)).Msg("schema migrated")
	return nil
}
