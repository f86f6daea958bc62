package store

import (
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/marzhmallo/baranex-community-connect-sub002/models"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

var profileColumns = []string{
	"id",
	"brgyid",
	"email",
	"role",
	"username",
	"firstname",
	"middlename",
	"lastname",
	"phone",
	"status",
	"adminid",
	"created_at",
	"superior_admin",
	"purok",
	"online",
	"last_login",
	"profile_picture",
	"chatbot_preferences",
}

var barangayColumns = []string{
	"id",
	"barangayname",
	"municipality",
	"province",
	"region",
	"country",
	"email",
	"phone",
	"logo_url",
	"created_at",
	"is_custom",
}

func buildFindProfileQuery(userID string) (string, []any, error) {
	return psql.
		Select(profileColumns...).
		From(models.UserProfile{}.TableName()).
		Where(sq.Eq{"id": userID}).
		ToSql()
}

// buildUpdatePresenceQuery sets the online flag and, when lastLogin is
// non-nil, the last_login stamp.
func buildUpdatePresenceQuery(userID string, online bool, lastLogin *time.Time) (string, []any, error) {
	q := psql.
		Update(models.UserProfile{}.TableName()).
		Set("online", online)
	if lastLogin != nil {
		q = q.Set("last_login", *lastLogin)
	}

	return q.Where(sq.Eq{"id": userID}).ToSql()
}

func buildFindBarangayApprovalQuery(barangayID string) (string, []any, error) {
	return psql.
		Select("is_custom").
		From(models.Barangay{}.TableName()).
		Where(sq.Eq{"id": barangayID}).
		ToSql()
}

func buildFindBarangayQuery(barangayID string) (string, []any, error) {
	return psql.
		Select(barangayColumns...).
		From(models.Barangay{}.TableName()).
		Where(sq.Eq{"id": barangayID}).
		ToSql()
}

// buildGetSettingsQuery selects the rows of userID restricted to keys.
// squirrel renders the slice as key IN ($2,$3,...).
func buildGetSettingsQuery(userID string, keys []string) (string, []any, error) {
	return psql.
		Select("user_id", "key", "value").
		From("user_settings").
		Where(sq.Eq{"user_id": userID}).
		Where(sq.Eq{"key": keys}).
		OrderBy("key").
		ToSql()
}

func buildUpsertSettingQuery(row models.SettingRow) (string, []any, error) {
	return psql.
		Insert("user_settings").
		Columns("user_id", "key", "value").
		Values(row.UserID, row.Key, row.Value).
		Suffix("ON CONFLICT (user_id, key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()").
		ToSql()
}

func buildInsertAuditQuery(record models.AuditRecord) (string, []any, error) {
	var barangayID any
	if record.BarangayID != "" {
		barangayID = record.BarangayID
	}
	var details any
	if len(record.Details) > 0 {
		details = []byte(record.Details)
	}

	return psql.
		Insert("activity_logs").
		Columns("id", "user_id", "brgyid", "action", "details", "created_at").
		Values(record.ID, record.UserID, barangayID, string(record.Action), details, record.CreatedAt).
		ToSql()
}

// SQLite statements for local and per-tab session storage.
const (
	getLocalItem    = `SELECT value FROM local_storage WHERE key = ?;`
	setLocalItem    = `INSERT INTO local_storage (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value;`
	removeLocalItem = `DELETE FROM local_storage WHERE key = ?;`
	clearLocal      = `DELETE FROM local_storage;`

	getSessionItem    = `SELECT value FROM session_storage WHERE tab_id = ? AND key = ?;`
	setSessionItem    = `INSERT INTO session_storage (tab_id, key, value) VALUES (?, ?, ?) ON CONFLICT(tab_id, key) DO UPDATE SET value = excluded.value;`
	removeSessionItem = `DELETE FROM session_storage WHERE tab_id = ? AND key = ?;`
	clearSession      = `DELETE FROM session_storage WHERE tab_id = ?;`
)
