package store

import (
	"context"
	"fmt"

	"github.com/marzhmallo/baranex-community-connect-sub002/internal/logger"
	"github.com/marzhmallo/baranex-community-connect-sub002/models"
)

// settingsRepository is the PostgreSQL-backed implementation of
// [SettingsRepository] over the generic "user_settings" key/value table.
type settingsRepository struct {
	*DB
	logger *logger.Logger
}

// NewSettingsRepository constructs a [SettingsRepository].
func NewSettingsRepository(db *DB, logger *logger.Logger) SettingsRepository {
	logger.Debug().Msg("creating settings repository")
	return &settingsRepository{
		DB:     db,
		logger: logger,
	}
}

// GetByKeys returns the rows of userID whose key is in keys. An empty keys
// slice yields no rows without touching the database.
func (r *settingsRepository) GetByKeys(ctx context.Context, userID string, keys []string) ([]models.SettingRow, error) {
	if len(keys) == 0 {
		return nil, nil
	}

	log := logger.FromContext(ctx)

	query, args, err := buildGetSettingsQuery(userID, keys)
	if err != nil {
		log.Err(err).Str("func", "*settingsRepository.GetByKeys").Msg("failed to build query")
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", "*settingsRepository.GetByKeys").Str("user_id", userID).Msg("error reading settings")
		return nil, r.wrapDBError(ErrExecutingQuery, err)
	}
	defer rows.Close()

	result := make([]models.SettingRow, 0, len(keys))
	for rows.Next() {
		var row models.SettingRow
		if err = rows.Scan(&row.UserID, &row.Key, &row.Value); err != nil {
			log.Err(err).Str("func", "*settingsRepository.GetByKeys").Msg("error scanning settings row")
			return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
		}
		result = append(result, row)
	}
	if err = rows.Err(); err != nil {
		return nil, r.wrapDBError(ErrScanningRows, err)
	}

	return result, nil
}

// Upsert writes a single settings row, replacing the value of an existing
// (user_id, key) pair.
func (r *settingsRepository) Upsert(ctx context.Context, row models.SettingRow) error {
	log := logger.FromContext(ctx)

	query, args, err := buildUpsertSettingQuery(row)
	if err != nil {
		log.Err(err).Str("func", "*settingsRepository.Upsert").Msg("failed to build query")
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	res, err := r.DB.ExecContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", "*settingsRepository.Upsert").Str("user_id", row.UserID).Str("key", row.Key).Msg("error writing setting")
		return r.wrapDBError(ErrExecutingStatement, err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return ErrNothingWritten
	}

	return nil
}
