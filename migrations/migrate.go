// Package migrations embeds and applies the goose migrations of the hosted
// PostgreSQL schema and of the local SQLite storage.
package migrations

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"sync"

	"github.com/pressly/goose/v3"
)

//go:embed postgres/*.sql
var postgresMigrations embed.FS

//go:embed sqlite/*.sql
var sqliteMigrations embed.FS

// ErrNilDB is returned when a migration is requested without a connection.
var ErrNilDB = errors.New("migration error: db is nil")

// goose keeps its base FS and dialect in package state.
var gooseMu sync.Mutex

// MigratePostgres applies the hosted schema migrations.
func MigratePostgres(db *sql.DB) error {
	return migrate(db, postgresMigrations, "postgres", "pgx")
}

// MigrateSQLite applies the local storage migrations.
func MigrateSQLite(db *sql.DB) error {
	return migrate(db, sqliteMigrations, "sqlite", "sqlite3")
}

func migrate(db *sql.DB, fsys embed.FS, dir, dialect string) error {
	if db == nil {
		return ErrNilDB
	}

	gooseMu.Lock()
	defer gooseMu.Unlock()

	goose.SetBaseFS(fsys)
	goose.SetLogger(goose.NopLogger())

	if err := goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("migration error setting dialect for db: %w", err)
	}

	if err := goose.Up(db, dir); err != nil {
		return fmt.Errorf("migration error: %w", err)
	}

	return nil
}
