package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"

	"github.com/marzhmallo/baranex-community-connect-sub002/internal/logger"
	"github.com/marzhmallo/baranex-community-connect-sub002/models"
)

// barangayRepository is the PostgreSQL-backed implementation of
// [BarangayRepository] over the "barangays" table.
type barangayRepository struct {
	*DB
	logger *logger.Logger
}

// NewBarangayRepository constructs a [BarangayRepository] backed by the
// provided database connection and logger.
func NewBarangayRepository(db *DB, logger *logger.Logger) BarangayRepository {
	logger.Debug().Msg("creating barangay repository")
	return &barangayRepository{
		DB:     db,
		logger: logger,
	}
}

// FindApproval returns the is_custom flag of barangayID.
func (r *barangayRepository) FindApproval(ctx context.Context, barangayID string) (bool, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildFindBarangayApprovalQuery(barangayID)
	if err != nil {
		log.Err(err).Str("func", "*barangayRepository.FindApproval").Msg("failed to build query")
		return false, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var isCustom sql.NullBool
	if err = r.DB.QueryRowContext(ctx, query, args...).Scan(&isCustom); err != nil {
		if isMissingRow(err) {
			return false, ErrBarangayNotFound
		}
		log.Err(err).Str("func", "*barangayRepository.FindApproval").Str("barangay_id", barangayID).Msg("error reading approval flag")
		return false, r.wrapDBError(ErrExecutingQuery, err)
	}

	return isCustom.Bool, nil
}

// FindByID returns the barangay row of barangayID.
func (r *barangayRepository) FindByID(ctx context.Context, barangayID string) (models.Barangay, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildFindBarangayQuery(barangayID)
	if err != nil {
		log.Err(err).Str("func", "*barangayRepository.FindByID").Msg("failed to build query")
		return models.Barangay{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var (
		b                                       models.Barangay
		municipality, province, region, country sql.NullString
		email, phone, logo                      sql.NullString
		createdAt                               sql.NullTime
		isCustom                                sql.NullBool
	)
	err = r.DB.QueryRowContext(ctx, query, args...).Scan(
		&b.ID,
		&b.Name,
		&municipality,
		&province,
		&region,
		&country,
		&email,
		&phone,
		&logo,
		&createdAt,
		&isCustom,
	)
	if err != nil {
		if isMissingRow(err) {
			return models.Barangay{}, ErrBarangayNotFound
		}
		log.Err(err).Str("func", "*barangayRepository.FindByID").Str("barangay_id", barangayID).Msg("error finding barangay")
		return models.Barangay{}, r.wrapDBError(ErrExecutingQuery, err)
	}

	b.Municipality = municipality.String
	b.Province = province.String
	b.Region = region.String
	b.Country = country.String
	b.Email = email.String
	b.Phone = phone.String
	b.Logo = logo.String
	b.CreatedAt = createdAt.Time
	b.IsCustom = isCustom.Bool

	return b, nil
}

func isMissingRow(err error) bool {
	return errors.Is(err, sql.ErrNoRows) || postgresError(err) == pgerrcode.InvalidTextRepresentation
}
