package store

import (
	"database/sql"
	"fmt"

	"github.com/marzhmallo/baranex-community-connect-sub002/internal/logger"
	"github.com/marzhmallo/baranex-community-connect-sub002/migrations"
)

// dialect selects the migration set applied by [DB.Migrate].
type dialect int

const (
	dialectPostgres dialect = iota
	dialectSQLite
)

// DB wraps a *sql.DB with the classifier used to tag driver errors.
type DB struct {
	*sql.DB
	dialect            dialect
	errorClassificator ErrorClassificator
	logger             *logger.Logger
}

// Migrate applies the embedded migrations for the database dialect.
func (db *DB) Migrate() error {
	switch db.dialect {
	case dialectSQLite:
		return migrations.MigrateSQLite(db.DB)
	default:
		return migrations.MigratePostgres(db.DB)
	}
}

// wrapDBError wraps err with kind and, when the classifier deems it
// retryable, with [ErrTransient].
func (db *DB) wrapDBError(kind, err error) error {
	if db.errorClassificator != nil && db.errorClassificator.Classify(err) == Retryable {
		return fmt.Errorf("%w: %w: %w", kind, ErrTransient, err)
	}
	return fmt.Errorf("%w: %w", kind, err)
}
