package service

import (
	"context"
	"database/sql"
	"log"

	"code_arena/internal/common"
	"code_arena/internal/domain/model"
	"code_arena/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

type ProblemService struct {
	problemRepo repository.ProblemRepository
	db          *sql.DB // For transactions
}

func NewProblemService(problemRepo repository.ProblemRepository, db *sql.DB) *ProblemService {
	return &ProblemService{problemRepo: problemRepo, db: db}
}

type CreateProblemRequest struct {
	Title       string                  `json:"title" validate:"required,min=3,max=200"`
	Description string                  `json:"description" validate:"required"`
	Difficulty  model.ProblemDifficulty `json:"difficulty" validate:"required,oneof=Easy Medium Hard"`
	Examples    []model.Example         `json:"examples"`
	TestCases   []model.TestCase        `json:"test_cases" validate:"required,min=1"` // Hidden ones
}

func (s *ProblemService) CreateProblem(ctx context.Context, userID string, req CreateProblemRequest) (*model.Problem, error) {
	if err := validate.Struct(req); err != nil {
		return nil, common.Errorf("%v: %w", err, common.ErrValidation)
	}

	problem := &model.Problem{
		ID:          uuid.NewString(),
		Title:       req.Title,
		Slug:        slug.Make(req.Title),
		Description: req.Description,
		Difficulty:  req.Difficulty,
		CreatedByID: &userID,
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, common.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() // Rollback if not committed

	if err := s.problemRepo.CreateProblem(ctx, tx, problem); err != nil {
		return nil, err // Repo maps slug conflicts to common.ErrConflict
	}

	for i := range req.Examples {
		if req.Examples[i].ID == "" {
			req.Examples[i].ID = uuid.NewString()
		}
	}
	if err := s.problemRepo.AddExamples(ctx, tx, problem.ID, req.Examples); err != nil {
		return nil, common.Errorf("failed to add examples to problem: %w", err)
	}

	for i := range req.TestCases {
		if req.TestCases[i].ID == "" {
			req.TestCases[i].ID = uuid.NewString()
		}
	}
	if err := s.problemRepo.AddTestCases(ctx, tx, problem.ID, req.TestCases); err != nil {
		return nil, common.Errorf("failed to add test cases to problem: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, common.Errorf("failed to commit transaction: %w", err)
	}

	problem.Examples = req.Examples
	problem.TestCases = req.TestCases // Admin view only
	return problem, nil
}

func (s *ProblemService) GetProblemDetails(ctx context.Context, problemSlug, userRole string) (*model.Problem, error) {
	problem, err := s.problemRepo.FindBySlug(ctx, problemSlug)
	if err != nil {
		return nil, err // common.ErrNotFound or other errors
	}

	examples, err := s.problemRepo.GetExamplesByProblemID(ctx, problem.ID)
	if err != nil {
		log.Printf("WARN: Failed to fetch examples for problem %s: %v", problem.ID, err)
		// Continue, but examples will be missing
	}
	problem.Examples = examples

	if userRole == model.RoleAdmin {
		testCases, err := s.problemRepo.GetTestCasesByProblemID(ctx, problem.ID)
		if err != nil {
			log.Printf("WARN: Failed to fetch test cases for problem %s: %v", problem.ID, err)
		}
		problem.TestCases = testCases
	} else {
		// Hidden test cases stay hidden
		problem.TestCases = nil
	}
	return problem, nil
}

func (s *ProblemService) ListProblems(ctx context.Context, page, pageSize int, difficulty model.ProblemDifficulty) ([]model.Problem, int, error) {
	limit := pageSize
	offset := (page - 1) * pageSize
	if offset < 0 {
		offset = 0
	}

	if difficulty != "" {
		switch difficulty {
		case model.DifficultyEasy, model.DifficultyMedium, model.DifficultyHard:
		default:
			return nil, 0, common.Errorf("unknown difficulty %q: %w", difficulty, common.ErrBadRequest)
		}
	}

	return s.problemRepo.ListProblems(ctx, limit, offset, difficulty)
}
