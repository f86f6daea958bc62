package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jackc/pgerrcode"

	"github.com/marzhmallo/baranex-community-connect-sub002/internal/logger"
	"github.com/marzhmallo/baranex-community-connect-sub002/models"
)

// profileRepository is the PostgreSQL-backed implementation of
// [ProfileRepository] over the "profiles" table.
type profileRepository struct {
	*DB
	logger *logger.Logger
}

// NewProfileRepository constructs a [ProfileRepository] backed by the provided
// database connection and logger.
func NewProfileRepository(db *DB, logger *logger.Logger) ProfileRepository {
	logger.Debug().Msg("creating profile repository")
	return &profileRepository{
		DB:     db,
		logger: logger,
	}
}

// FindByID returns the profile row of userID.
//
// Error handling:
//   - no row, or an id PostgreSQL cannot parse as uuid (22P02) → [ErrProfileNotFound].
//   - any other driver error → [ErrExecutingQuery] (plus [ErrTransient] when retryable).
func (r *profileRepository) FindByID(ctx context.Context, userID string) (models.UserProfile, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildFindProfileQuery(userID)
	if err != nil {
		log.Err(err).Str("func", "*profileRepository.FindByID").Msg("failed to build query")
		return models.UserProfile{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var (
		p                                           models.UserProfile
		barangayID, email, username, firstName      sql.NullString
		middleName, lastName, phone, adminID, purok sql.NullString
		profilePicture                              sql.NullString
		role, status                                string
		createdAt, lastLogin                        sql.NullTime
		superiorAdmin, online                       sql.NullBool
	)

	err = r.DB.QueryRowContext(ctx, query, args...).Scan(
		&p.ID,
		&barangayID,
		&email,
		&role,
		&username,
		&firstName,
		&middleName,
		&lastName,
		&phone,
		&status,
		&adminID,
		&createdAt,
		&superiorAdmin,
		&purok,
		&online,
		&lastLogin,
		&profilePicture,
		&p.ChatbotPreferences,
	)
	if err != nil {
		if isMissingRow(err) {
			return models.UserProfile{}, ErrProfileNotFound
		}
		log.Err(err).Str("func", "*profileRepository.FindByID").Str("user_id", userID).Msg("error finding profile")
		return models.UserProfile{}, r.wrapDBError(ErrExecutingQuery, err)
	}

	p.BarangayID = barangayID.String
	p.Email = email.String
	p.Role = models.Role(role)
	p.Username = username.String
	p.FirstName = firstName.String
	p.MiddleName = middleName.String
	p.LastName = lastName.String
	p.Phone = phone.String
	p.Status = models.Status(status)
	p.AdminID = adminID.String
	p.CreatedAt = createdAt.Time
	p.SuperiorAdmin = superiorAdmin.Bool
	p.Purok = purok.String
	p.Online = online.Bool
	if lastLogin.Valid {
		stamp := lastLogin.Time
		p.LastLogin = &stamp
	}
	p.ProfilePicture = profilePicture.String

	return p, nil
}

// UpdatePresence writes the online flag and, when lastLogin is non-nil, the
// last_login stamp of userID.
func (r *profileRepository) UpdatePresence(ctx context.Context, userID string, online bool, lastLogin *time.Time) error {
	log := logger.FromContext(ctx)

	query, args, err := buildUpdatePresenceQuery(userID, online, lastLogin)
	if err != nil {
		log.Err(err).Str("func", "*profileRepository.UpdatePresence").Msg("failed to build query")
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	res, err := r.DB.ExecContext(ctx, query, args...)
	if err != nil {
		if postgresError(err) == pgerrcode.InvalidTextRepresentation {
			return ErrProfileNotFound
		}
		log.Err(err).Str("func", "*profileRepository.UpdatePresence").Str("user_id", userID).Msg("error updating presence")
		return r.wrapDBError(ErrExecutingStatement, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return r.wrapDBError(ErrExecutingStatement, err)
	}
	if affected == 0 {
		return ErrProfileNotFound
	}

	return nil
}
