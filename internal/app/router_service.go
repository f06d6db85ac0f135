package app

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"recruitflow/internal/common"
	"recruitflow/internal/domain/recruiter"
)

// RouterService resolves which recruiter owns a direction. Routing always
// answers: when no active mapping exists (or the lookup fails) it falls
// back to the configured default recruiter instead of blocking finalize.
type RouterService struct {
	repo     recruiter.Repository
	fallback recruiter.Mapping
	logger   *zap.Logger
}

func NewRouterService(repo recruiter.Repository, defaultTgID int64, defaultUsername string, logger *zap.Logger) *RouterService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RouterService{
		repo: repo,
		fallback: recruiter.Mapping{
			Direction: "",
			TgID:      defaultTgID,
			Username:  defaultUsername,
			IsActive:  true,
		},
		logger: logger,
	}
}

func (s *RouterService) Resolve(ctx context.Context, direction string) recruiter.Mapping {
	normalized := strings.ToLower(strings.TrimSpace(direction))
	mapping, err := s.repo.FindActiveByDirection(ctx, normalized)
	if err != nil {
		if !common.Is(err, common.CodeNotFound) {
			s.logger.Warn("recruiter lookup failed, using default", zap.String("direction", normalized), zap.Error(err))
		}
		fallback := s.fallback
		fallback.Direction = normalized
		return fallback
	}
	return *mapping
}

func (s *RouterService) Upsert(ctx context.Context, direction string, tgID int64, username string, active bool) (*recruiter.Mapping, error) {
	normalized := strings.ToLower(strings.TrimSpace(direction))
	if normalized == "" {
		return nil, common.NewValidationError("direction is required", map[string]string{"direction": "value is required"})
	}
	if tgID <= 0 {
		return nil, common.NewValidationError("recruiter id is required", map[string]string{"recruiter_tg_id": "must be positive"})
	}
	return s.repo.Upsert(ctx, recruiter.Mapping{
		Direction: normalized,
		TgID:      tgID,
		Username:  strings.TrimSpace(username),
		IsActive:  active,
	})
}
