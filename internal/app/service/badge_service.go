package service

import (
	"context"
	"fmt"

	"code_arena/internal/badge"
	"code_arena/internal/domain/model"
	"code_arena/internal/domain/repository"
)

type BadgeService struct {
	badgeRepo repository.BadgeRepository
	statsRepo repository.StatsRepository
	engine    *badge.Engine
}

func NewBadgeService(badgeRepo repository.BadgeRepository, statsRepo repository.StatsRepository, engine *badge.Engine) *BadgeService {
	return &BadgeService{badgeRepo: badgeRepo, statsRepo: statsRepo, engine: engine}
}

// SeedCatalog upserts the built-in badge definitions. Run at startup.
func (s *BadgeService) SeedCatalog(ctx context.Context) error {
	return s.badgeRepo.SeedCatalog(ctx, badge.Catalog())
}

func (s *BadgeService) ListCatalog(ctx context.Context) ([]model.BadgeDefinition, error) {
	return s.badgeRepo.ListActive(ctx)
}

// EvaluateAndAward runs the rule engine for one account against an
// already-updated stats snapshot. Individual award failures are reported in
// the result's outcomes, not as an error.
func (s *BadgeService) EvaluateAndAward(ctx context.Context, st model.AccountStats) (badge.EvalResult, error) {
	catalog, err := s.badgeRepo.ListActive(ctx)
	if err != nil {
		return badge.EvalResult{}, fmt.Errorf("failed to load badge catalog: %w", err)
	}
	earned, err := s.badgeRepo.ListEarnedBadgeIDs(ctx, st.AccountID)
	if err != nil {
		return badge.EvalResult{}, fmt.Errorf("failed to load earned badges: %w", err)
	}
	return s.engine.Evaluate(ctx, st, catalog, earned), nil
}

func (s *BadgeService) GetProgress(ctx context.Context, accountID string) (*model.ProgressReport, error) {
	st, err := s.statsRepo.Get(ctx, accountID)
	if err != nil {
		return nil, err
	}
	catalog, err := s.badgeRepo.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load badge catalog: %w", err)
	}
	earned, err := s.badgeRepo.ListEarnedBadgeIDs(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to load earned badges: %w", err)
	}
	report := s.engine.ProgressReport(ctx, *st, catalog, earned)
	return &report, nil
}
