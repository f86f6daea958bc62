package service

import (
	"context"
	"time"

	"github.com/marzhmallo/baranex-community-connect-sub002/internal/logger"
	"github.com/marzhmallo/baranex-community-connect-sub002/internal/store"
	"github.com/marzhmallo/baranex-community-connect-sub002/internal/utils"
	"github.com/marzhmallo/baranex-community-connect-sub002/models"
)

type auditService struct {
	repo   store.AuditRepository
	ids    utils.IDGenerator
	now    func() time.Time
	logger *logger.Logger
}

// NewAuditService builds an [AuditService] over repo. Record ids come from
// ids.
func NewAuditService(repo store.AuditRepository, ids utils.IDGenerator, log *logger.Logger) AuditService {
	return &auditService{repo: repo, ids: ids, now: time.Now, logger: log}
}

func (s *auditService) Record(ctx context.Context, record models.AuditRecord) {
	if record.ID == "" {
		record.ID = s.ids.Generate()
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = s.now().UTC()
	}

	if err := s.repo.Insert(ctx, record); err != nil {
		s.logger.Warn().Err(err).
			Str("func", "*auditService.Record").
			Str("user_id", record.UserID).
			Str("action", string(record.Action)).
			Msg("error writing audit record")
		return
	}

	s.logger.Debug().Str("user_id", record.UserID).Str("action", string(record.Action)).Msg("audit record written")
}
