package storage

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	"bling/internal/store"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// runMigrations brings the schema of an already-open database up to
// date. It reuses the caller's connection; the migrate instance is not
// closed because that would close the shared connection with it.
func runMigrations(db *sql.DB) error {
	driver, err := sqlite.WithInstance(db, &sqlite.Config{})
	if err != nil {
		return fmt.Errorf("%w: migration driver: %v", store.ErrStorage, err)
	}

	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("%w: migration source: %v", store.ErrStorage, err)
	}
	defer src.Close()

	m, err := migrate.NewWithInstance("iofs", src, "sqlite", driver)
	if err != nil {
		return fmt.Errorf("%w: migration setup: %v", store.ErrStorage, err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("%w: apply migrations: %v", store.ErrStorage, err)
	}
	return nil
}
