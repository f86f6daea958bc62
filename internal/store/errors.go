package store

import "errors"

// Sentinel errors returned by repository methods to signal well-known failure
// conditions. Callers should use [errors.Is] to match against these values.
var (
	// ErrProfileNotFound is returned when no profile row exists for a user id.
	ErrProfileNotFound = errors.New("profile was not found")

	// ErrBarangayNotFound is returned when no barangay row exists for an id.
	ErrBarangayNotFound = errors.New("barangay was not found")

	// ErrNothingWritten is returned when a write completes without error
	// but affects no rows.
	ErrNothingWritten = errors.New("no rows were written")

	// ErrTransient marks failures that PostgreSQL classifies as retryable
	// (connection loss, serialization failure, deadlock).
	ErrTransient = errors.New("transient database error")
)

// Low-level database operation errors. These are returned (or wrapped) by
// repository methods when a SQL-level operation fails before any domain logic
// can be applied.
var (
	// ErrBuildingSQLQuery is returned when constructing a parameterised SQL
	// query fails.
	ErrBuildingSQLQuery = errors.New("error building sql query")

	// ErrExecutingQuery is returned when executing a SELECT fails.
	ErrExecutingQuery = errors.New("error executing sql query")

	// ErrExecutingStatement is returned when executing an INSERT, UPDATE or
	// DELETE fails.
	ErrExecutingStatement = errors.New("failed to executing statement")

	// ErrScanningRow is returned when scanning a single result row fails.
	ErrScanningRow = errors.New("failed to scan row")

	// ErrScanningRows is returned when scanning fails during multi-row
	// iteration.
	ErrScanningRows = errors.New("failed to scan rows")
)
