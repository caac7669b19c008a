package service

import (
	"context"

	"code_arena/internal/domain/model"
	"code_arena/internal/domain/repository"
)

// AccountService serves the read side of an account: the stats snapshot and
// the submission history.
type AccountService struct {
	statsRepo      repository.StatsRepository
	submissionRepo repository.SubmissionRepository
	userRepo       repository.UserRepository
}

func NewAccountService(
	statsRepo repository.StatsRepository,
	submissionRepo repository.SubmissionRepository,
	userRepo repository.UserRepository,
) *AccountService {
	return &AccountService{statsRepo: statsRepo, submissionRepo: submissionRepo, userRepo: userRepo}
}

func (s *AccountService) GetProfile(ctx context.Context, accountID string) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	user.HashedPassword = ""
	return user, nil
}

// GetStats returns the current snapshot, empty if no attempt was ever graded.
func (s *AccountService) GetStats(ctx context.Context, accountID string) (*model.AccountStats, error) {
	return s.statsRepo.Get(ctx, accountID)
}

func (s *AccountService) ListSubmissions(ctx context.Context, accountID string, page, pageSize int) ([]model.Submission, int, error) {
	limit := pageSize
	offset := (page - 1) * pageSize
	if offset < 0 {
		offset = 0
	}
	return s.submissionRepo.ListByAccount(ctx, accountID, limit, offset)
}
