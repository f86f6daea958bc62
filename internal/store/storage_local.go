package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/marzhmallo/baranex-community-connect-sub002/internal/logger"
)

// localStorage is a SQLite-backed [KeyValueStorage] shared by every tab of
// the same client installation, like a browser's localStorage.
type localStorage struct {
	*DB
	logger *logger.Logger
}

// NewLocalStorage constructs the installation-wide [KeyValueStorage].
func NewLocalStorage(db *DB, logger *logger.Logger) KeyValueStorage {
	return &localStorage{DB: db, logger: logger}
}

func (s *localStorage) GetItem(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.DB.QueryRowContext(ctx, getLocalItem, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "*localStorage.GetItem").Str("key", key).Msg("error reading local item")
		return "", false, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return value, true, nil
}

func (s *localStorage) SetItem(ctx context.Context, key, value string) error {
	if _, err := s.DB.ExecContext(ctx, setLocalItem, key, value); err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "*localStorage.SetItem").Str("key", key).Msg("error writing local item")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	return nil
}

func (s *localStorage) RemoveItem(ctx context.Context, key string) error {
	if _, err := s.DB.ExecContext(ctx, removeLocalItem, key); err != nil {
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	return nil
}

// Clear removes every item, including a persisted auth session.
func (s *localStorage) Clear(ctx context.Context) error {
	if _, err := s.DB.ExecContext(ctx, clearLocal); err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "*localStorage.Clear").Msg("error clearing local storage")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	return nil
}

// tabStorage is a SQLite-backed [KeyValueStorage] scoped to one tab id,
// like a browser's sessionStorage.
type tabStorage struct {
	*DB
	tabID  string
	logger *logger.Logger
}

// NewTabStorage constructs the [KeyValueStorage] of tabID. Processes started
// with the same tab id share it; a fresh id starts empty.
func NewTabStorage(db *DB, tabID string, logger *logger.Logger) KeyValueStorage {
	return &tabStorage{DB: db, tabID: tabID, logger: logger}
}

func (s *tabStorage) GetItem(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.DB.QueryRowContext(ctx, getSessionItem, s.tabID, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "*tabStorage.GetItem").Str("tab_id", s.tabID).Str("key", key).Msg("error reading session item")
		return "", false, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return value, true, nil
}

func (s *tabStorage) SetItem(ctx context.Context, key, value string) error {
	if _, err := s.DB.ExecContext(ctx, setSessionItem, s.tabID, key, value); err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "*tabStorage.SetItem").Str("tab_id", s.tabID).Str("key", key).Msg("error writing session item")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	return nil
}

func (s *tabStorage) RemoveItem(ctx context.Context, key string) error {
	if _, err := s.DB.ExecContext(ctx, removeSessionItem, s.tabID, key); err != nil {
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	return nil
}

func (s *tabStorage) Clear(ctx context.Context) error {
	if _, err := s.DB.ExecContext(ctx, clearSession, s.tabID); err != nil {
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	return nil
}
