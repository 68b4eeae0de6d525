// Package migrate applies the embedded schema migrations. The catalog,
// cart, and booking tables each live in their own numbered pair so partial
// environments (catalog-only importers) stay diffable.
package migrate

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
)

//go:embed sql/*.sql
var migrationsFS embed.FS

// Apply runs all pending migrations up.
func Apply(ctx context.Context, pool *pgxpool.Pool) error {
	m, cleanup, err := instance(ctx, pool)
	if err != nil {
		return err
	}
	defer cleanup()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migrate up: %w", err)
	}
	return nil
}

// Status reports the current schema version and whether a migration was
// left half-applied. A fresh database reports version 0.
func Status(ctx context.Context, pool *pgxpool.Pool) (version uint, dirty bool, err error) {
	m, cleanup, err := instance(ctx, pool)
	if err != nil {
		return 0, false, err
	}
	defer cleanup()

	version, dirty, err = m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("migrate version: %w", err)
	}
	return version, dirty, nil
}

// instance builds a migrate.Migrate over the embedded sources and a
// database/sql handle borrowed from the pool's connection string. golang-
// migrate needs database/sql, so the pgx stdlib driver bridges the two.
func instance(ctx context.Context, pool *pgxpool.Pool) (*migrate.Migrate, func(), error) {
	srcDriver, err := iofs.New(migrationsFS, "sql")
	if err != nil {
		return nil, nil, fmt.Errorf("init iofs: %w", err)
	}

	sqlDB, err := sql.Open("pgx", pool.Config().ConnString())
	if err != nil {
		return nil, nil, fmt.Errorf("open sql db: %w", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		sqlDB.Close()
		return nil, nil, fmt.Errorf("ping sql db: %w", err)
	}

	dbDriver, err := postgres.WithInstance(sqlDB, &postgres.Config{})
	if err != nil {
		sqlDB.Close()
		return nil, nil, fmt.Errorf("init db driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", srcDriver, "pgx", dbDriver)
	if err != nil {
		sqlDB.Close()
		return nil, nil, fmt.Errorf("init migrate: %w", err)
	}
	cleanup := func() {
		m.Close()
		sqlDB.Close()
	}
	return m, cleanup, nil
}
