package database

import (
	"context"
	"embed"
	"errors"
	"fmt"

	"shareit/internal/config"

	"github.com/golang-migrate/migrate/v4"
	migratedb "github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations
var migrationsFS embed.FS

func (db *DB) migrate(ctx context.Context, table string) error {
	var (
		dir string
		drv migratedb.Driver
		err error
	)

	switch db.driver {
	case config.DriverSQLite:
		dir = "migrations/sqlite"
		// the driver's Close would close the shared pool, so it is never called
		drv, err = migratesqlite.WithInstance(db.conn.DB, &migratesqlite.Config{MigrationsTable: table})
	case config.DriverPostgres:
		dir = "migrations/postgres"
		conn, cerr := db.conn.Conn(ctx)
		if cerr != nil {
			return fmt.Errorf("failed to get migration connection: %w", cerr)
		}
		defer conn.Close()
		drv, err = postgres.WithConnection(ctx, conn, &postgres.Config{MigrationsTable: table})
	default:
		return fmt.Errorf("unsupported database driver %q", db.driver)
	}
	if err != nil {
		return fmt.Errorf("failed to init migration driver: %w", err)
	}

	src, err := iofs.New(migrationsFS, dir)
	if err != nil {
		return fmt.Errorf("failed to open migrations: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, db.driver, drv)
	if err != nil {
		return fmt.Errorf("failed to init migrations: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	version, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("failed to read schema version: %w", err)
	}
	db.logger.Debug().Uint("schema_version", version).Bool("dirty", dirty).Msg("migrations applied")
	return nil
}
