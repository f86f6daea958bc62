package service

import (
	"context"
	"time"

	"github.com/marzhmallo/baranex-community-connect-sub002/internal/logger"
	"github.com/marzhmallo/baranex-community-connect-sub002/internal/store"
)

type presenceService struct {
	repo   store.ProfileRepository
	now    func() time.Time
	logger *logger.Logger
}

// NewPresenceService builds a [PresenceService] over repo.
func NewPresenceService(repo store.ProfileRepository, log *logger.Logger) PresenceService {
	return &presenceService{repo: repo, now: time.Now, logger: log}
}

func (s *presenceService) UpdateOnlineStatus(ctx context.Context, userID string, online bool) {
	var lastLogin *time.Time
	if online {
		stamp := s.now().UTC()
		lastLogin = &stamp
	}

	if err := s.repo.UpdatePresence(ctx, userID, online, lastLogin); err != nil {
		s.logger.Warn().Err(err).
			Str("func", "*presenceService.UpdateOnlineStatus").
			Str("user_id", userID).
			Bool("online", online).
			Msg("error updating online status")
	}
}
