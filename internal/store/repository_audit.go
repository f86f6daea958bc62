package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgerrcode"

	"github.com/marzhmallo/baranex-community-connect-sub002/internal/logger"
	"github.com/marzhmallo/baranex-community-connect-sub002/models"
)

// auditRepository appends rows to the "activity_logs" table.
type auditRepository struct {
	*DB
	logger *logger.Logger
}

// NewAuditRepository constructs an [AuditRepository].
func NewAuditRepository(db *DB, logger *logger.Logger) AuditRepository {
	logger.Debug().Msg("creating audit repository")
	return &auditRepository{
		DB:     db,
		logger: logger,
	}
}

// Insert writes record. A foreign key violation means the actor's profile
// no longer exists and is reported as [ErrProfileNotFound].
func (r *auditRepository) Insert(ctx context.Context, record models.AuditRecord) error {
	log := logger.FromContext(ctx)

	query, args, err := buildInsertAuditQuery(record)
	if err != nil {
		log.Err(err).Str("func", "*auditRepository.Insert").Msg("failed to build query")
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	res, err := r.DB.ExecContext(ctx, query, args...)
	if err != nil {
		if postgresError(err) == pgerrcode.ForeignKeyViolation {
			return ErrProfileNotFound
		}
		log.Err(err).Str("func", "*auditRepository.Insert").Str("user_id", record.UserID).Msg("error inserting audit record")
		return r.wrapDBError(ErrExecutingStatement, err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return ErrNothingWritten
	}

	return nil
}
