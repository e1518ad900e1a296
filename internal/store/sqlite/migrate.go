package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	"github.com/spendlog/spendlog/internal/log"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// ErrDirtySchema is returned when an earlier migration stopped halfway. The
// schema has to be repaired by hand before spendlog opens it again.
var ErrDirtySchema = errors.New("database schema is dirty")

// RunMigrations brings the schema at dbPath up to date and returns the
// resulting schema version. The migrator gets its own connection because
// closing it closes the underlying handle.
func RunMigrations(ctx context.Context, dbPath string, logger *log.Logger) (uint, error) {
	if logger == nil {
		logger = log.Nop()
	}

	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return 0, fmt.Errorf("open migration database: %w", err)
	}
	defer conn.Close()

	driver, err := migratesqlite.WithInstance(conn, &migratesqlite.Config{})
	if err != nil {
		return 0, fmt.Errorf("create sqlite driver: %w", err)
	}
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return 0, fmt.Errorf("read embedded migrations: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", src, "sqlite", driver)
	if err != nil {
		return 0, fmt.Errorf("create migrator: %w", err)
	}
	defer m.Close()

	from, err := schemaVersion(m)
	if err != nil {
		return 0, err
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return 0, fmt.Errorf("apply migrations from version %d: %w", from, err)
	}

	to, err := schemaVersion(m)
	if err != nil {
		return 0, err
	}
	if to != from {
		logger.InfoContext(ctx, "schema migrated",
			log.FieldOperation, log.OpMigrate, log.FieldDBPath, dbPath, "from", from, "to", to)
	}
	return to, nil
}

// schemaVersion returns the applied version, 0 for a fresh database.
func schemaVersion(m *migrate.Migrate) (uint, error) {
	v, dirty, err := m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("read schema version: %w", err)
	}
	if dirty {
		return v, fmt.Errorf("%w at version %d", ErrDirtySchema, v)
	}
	return v, nil
}
