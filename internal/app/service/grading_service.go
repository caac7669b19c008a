package service

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	"code_arena/internal/common"
	"code_arena/internal/domain/model"
	"code_arena/internal/domain/repository"
	"code_arena/internal/judge"
	"code_arena/internal/stats"

	"github.com/google/uuid"
)

// Locker serializes the stats-update section per account.
type Locker interface {
	Acquire(ctx context.Context, accountID string) (func(), error)
}

// GradingService runs the full submission pipeline: validate, grade against
// the problem's ordered test cases, persist the attempt, fold it into the
// account's stats, then evaluate badges. The verdict is authoritative once
// grading finishes; storage and badge failures after that point are logged
// and never change the response.
type GradingService struct {
	problemRepo    repository.ProblemRepository
	submissionRepo repository.SubmissionRepository
	statsRepo      repository.StatsRepository
	engine         *judge.Engine
	badges         *BadgeService
	lock           Locker
	db             *sql.DB
	maxCodeSize    int
	now            func() time.Time
}

func NewGradingService(
	problemRepo repository.ProblemRepository,
	submissionRepo repository.SubmissionRepository,
	statsRepo repository.StatsRepository,
	engine *judge.Engine,
	badges *BadgeService,
	lock Locker,
	db *sql.DB,
	maxCodeSize int,
) *GradingService {
	return &GradingService{
		problemRepo:    problemRepo,
		submissionRepo: submissionRepo,
		statsRepo:      statsRepo,
		engine:         engine,
		badges:         badges,
		lock:           lock,
		db:             db,
		maxCodeSize:    maxCodeSize,
		now:            time.Now,
	}
}

type SubmitRequest struct {
	ProblemSlug string `json:"problem_slug" validate:"required"`
	Language    string `json:"language" validate:"required"`
	Code        string `json:"code" validate:"required"`
}

type SubmitResult struct {
	Submission *model.Submission   `json:"submission"`
	Stats      *model.AccountStats `json:"stats,omitempty"`
	NewBadges  []model.EarnedBadge `json:"new_badges"`

	// Diagnostic detail for the terminal verdict, when available.
	CompileMessage string `json:"compile_message,omitempty"`
	ErrorOutput    string `json:"error_output,omitempty"`
	Expected       string `json:"expected,omitempty"`
	Actual         string `json:"actual,omitempty"`
}

// SubmitSolution grades one attempt. Validation failures return before any
// sandbox call or database write, so a rejected request leaves no trace.
func (s *GradingService) SubmitSolution(ctx context.Context, accountID string, req SubmitRequest) (*SubmitResult, error) {
	if err := validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%v: %w", err, common.ErrValidation)
	}
	if len(req.Code) > s.maxCodeSize {
		return nil, fmt.Errorf("submission exceeds %d bytes: %w", s.maxCodeSize, common.ErrValidation)
	}
	if !model.IsValidLanguage(req.Language) {
		return nil, fmt.Errorf("unsupported language %q: %w", req.Language, common.ErrBadRequest)
	}

	problem, err := s.problemRepo.FindBySlug(ctx, req.ProblemSlug)
	if err != nil {
		return nil, err // common.ErrNotFound or other errors
	}
	testCases, err := s.problemRepo.GetTestCasesByProblemID(ctx, problem.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load test cases: %w", err)
	}
	if len(testCases) == 0 {
		return nil, fmt.Errorf("problem %s has no test cases: %w", problem.Slug, common.ErrInternalServer)
	}

	report, gradeErr := s.engine.Grade(ctx, req.Language, req.Code, testCases)
	if gradeErr != nil {
		// Verdict is InfrastructureError; the attempt is still recorded.
		log.Printf("ERROR: Executor failure grading problem %s for account %s: %v", problem.Slug, accountID, gradeErr)
	}

	submission := &model.Submission{
		ID:              uuid.NewString(),
		AccountID:       accountID,
		ProblemID:       problem.ID,
		ProblemSlug:     problem.Slug,
		ProblemTitle:    problem.Title,
		Code:            req.Code,
		Language:        req.Language,
		Verdict:         report.Verdict,
		TestsPassed:     report.TestsPassed,
		TotalTests:      report.TotalTests,
		ExecutionTimeMs: report.ExecutionTimeMs,
		MemoryScore:     judge.EstimateMemoryScore(req.Code),
		Difficulty:      problem.Difficulty,
		SubmittedAt:     s.now(),
	}

	result := &SubmitResult{
		Submission:     submission,
		NewBadges:      []model.EarnedBadge{},
		CompileMessage: report.CompileMessage,
		ErrorOutput:    report.ErrorOutput,
		Expected:       report.Expected,
		Actual:         report.Actual,
	}

	release, err := s.lock.Acquire(ctx, accountID)
	if err != nil {
		// The row lock in recordAttempt still serializes the per-account
		// update; losing the Redis lock costs contention, not correctness.
		log.Printf("WARN: Account lock unavailable for %s, relying on row lock: %v", accountID, err)
	} else {
		defer release()
	}

	next, err := s.recordAttempt(ctx, submission)
	if err != nil {
		log.Printf("ERROR: Failed to record submission %s for account %s: %v", submission.ID, accountID, err)
		return result, nil
	}

	evalResult, err := s.badges.EvaluateAndAward(ctx, next)
	if err != nil {
		log.Printf("ERROR: Badge evaluation failed for account %s: %v", accountID, err)
		result.Stats = &next
		return result, nil
	}
	result.NewBadges = evalResult.NewBadges

	if len(evalResult.NewBadges) > 0 {
		next.TotalBadges = evalResult.TotalBadges
		if err := s.statsRepo.SetTotalBadges(ctx, accountID, evalResult.TotalBadges); err != nil {
			log.Printf("WARN: Failed to update badge count for account %s: %v", accountID, err)
		}
	}
	result.Stats = &next
	return result, nil
}

// recordAttempt persists the submission and the updated stats snapshot in one
// transaction. The prior-attempt count is read before the insert so the
// first-try check never sees the attempt it is grading.
func (s *GradingService) recordAttempt(ctx context.Context, submission *model.Submission) (model.AccountStats, error) {
	priorAttempts, err := s.submissionRepo.CountForAccountProblem(ctx, submission.AccountID, submission.ProblemSlug)
	if err != nil {
		return model.AccountStats{}, fmt.Errorf("failed to count prior attempts: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return model.AccountStats{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := s.submissionRepo.Create(ctx, tx, submission); err != nil {
		return model.AccountStats{}, err
	}

	cur, err := s.statsRepo.GetForUpdate(ctx, tx, submission.AccountID)
	if err != nil {
		return model.AccountStats{}, err
	}

	next := stats.Apply(*cur, submission.Verdict, priorAttempts, submission.SubmittedAt)
	if err := s.statsRepo.Save(ctx, tx, &next); err != nil {
		return model.AccountStats{}, err
	}

	if err := tx.Commit(); err != nil {
		return model.AccountStats{}, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return next, nil
}
