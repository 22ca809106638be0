package database

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"time"

	"github.com/deppfellow/movie-catalog/internal/config"
	"github.com/jackc/pgx/v5"
	tern "github.com/jackc/tern/v2/migrate"
	"github.com/rs/zerolog"
)

// MigrationTimeout bounds a full migration run.
const MigrationTimeout = 2 * time.Minute

//go:embed migrations/*.sql
var migrations embed.FS

// versionTable records the applied catalog schema version.
const versionTable = "schema_version"

// Migrate brings the catalog schema to the latest version with tern,
// logging every migration it applies.
func Migrate(ctx context.Context, logger *zerolog.Logger, cfg *config.Config) error {
	ctx, cancel := context.WithTimeout(ctx, MigrationTimeout)
	defer cancel()

	conn, err := pgx.Connect(ctx, DSN(&cfg.Database))
	if err != nil {
		return fmt.Errorf("connecting for migrations: %w", err)
	}
	defer conn.Close(ctx)

	m, err := newMigrator(ctx, conn)
	if err != nil {
		return err
	}

	m.OnStart = func(sequence int32, name, direction, _ string) {
		logger.Info().
			Int32("sequence", sequence).
			Str("migration", name).
			Str("direction", direction).
			Msg("applying migration")
	}

	from, err := m.GetCurrentVersion(ctx)
	if err != nil {
		return fmt.Errorf("retrieving current database migration version: %w", err)
	}

	latest := int32(len(m.Migrations))
	if from == latest {
		logger.Info().Int32("version", latest).Msg("database schema up to date")
		return nil
	}

	if err := m.Migrate(ctx); err != nil {
		return fmt.Errorf("migrating from version %d: %w", from, err)
	}

	logger.Info().
		Int32("from", from).
		Int32("to", latest).
		Msg("migrated database schema")
	return nil
}

func newMigrator(ctx context.Context, conn *pgx.Conn) (*tern.Migrator, error) {
	m, err := tern.NewMigrator(ctx, conn, versionTable)
	if err != nil {
		return nil, fmt.Errorf("constructing database migrator: %w", err)
	}

	subtree, err := fs.Sub(migrations, "migrations")
	if err != nil {
		return nil, fmt.Errorf("retrieving database migrations subtree: %w", err)
	}

	if err := m.LoadMigrations(subtree); err != nil {
		return nil, fmt.Errorf("loading database migrations: %w", err)
	}

	return m, nil
}
