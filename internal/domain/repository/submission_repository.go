package repository

import (
	"context"
	"database/sql"
	"fmt"

	"code_arena/internal/domain/model"
)

// SubmissionRepository is the append-only submission store plus the history
// reads the badge engine needs. Submissions are never updated after grading.
type SubmissionRepository interface {
	Create(ctx context.Context, tx *sql.Tx, sub *model.Submission) error
	CountForAccountProblem(ctx context.Context, accountID, problemSlug string) (int, error)
	ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]model.Submission, int, error)

	// History queries backing performance / hidden badge criteria. All are
	// O(history) reads, not derivable from the per-account snapshot.
	ConsecutiveAcceptedCount(ctx context.Context, accountID string) (int, error)
	TotalFailuresBeforeFirstAccept(ctx context.Context, accountID string) (int, error)
	CountSolvedByDifficulty(ctx context.Context, accountID string) (map[model.ProblemDifficulty]int, error)
	FastestSolutionCount(ctx context.Context, accountID string) (int, error)
	OptimizedSolutionCount(ctx context.Context, accountID string) (int, error)
}

// Cap history scans the same way the grading path caps them: enough depth for
// every catalog criterion without unbounded reads.
const consecutiveScanLimit = 100

type pgSubmissionRepository struct {
	db *sql.DB
}

func NewPgSubmissionRepository(db *sql.DB) SubmissionRepository {
	return &pgSubmissionRepository{db: db}
}

func (r *pgSubmissionRepository) Create(ctx context.Context, tx *sql.Tx, sub *model.Submission) error {
	query := `INSERT INTO submissions
	          (id, account_id, problem_id, problem_slug, problem_title, code, language,
	           verdict, tests_passed, total_tests, execution_time_ms, memory_score, difficulty, submitted_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`

	var err error
	if tx != nil {
		_, err = tx.ExecContext(ctx, query, sub.ID, sub.AccountID, sub.ProblemID, sub.ProblemSlug, sub.ProblemTitle,
			sub.Code, sub.Language, sub.Verdict, sub.TestsPassed, sub.TotalTests, sub.ExecutionTimeMs, sub.MemoryScore,
			sub.Difficulty, sub.SubmittedAt)
	} else {
		_, err = r.db.ExecContext(ctx, query, sub.ID, sub.AccountID, sub.ProblemID, sub.ProblemSlug, sub.ProblemTitle,
			sub.Code, sub.Language, sub.Verdict, sub.TestsPassed, sub.TotalTests, sub.ExecutionTimeMs, sub.MemoryScore,
			sub.Difficulty, sub.SubmittedAt)
	}
	if err != nil {
		return fmt.Errorf("pgSubmissionRepository.Create: %w", err)
	}
	return nil
}

func (r *pgSubmissionRepository) CountForAccountProblem(ctx context.Context, accountID, problemSlug string) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM submissions WHERE account_id = $1 AND problem_slug = $2`
	if err := r.db.QueryRowContext(ctx, query, accountID, problemSlug).Scan(&count); err != nil {
		return 0, fmt.Errorf("pgSubmissionRepository.CountForAccountProblem: %w", err)
	}
	return count, nil
}

func (r *pgSubmissionRepository) ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]model.Submission, int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM submissions WHERE account_id = $1`, accountID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("pgSubmissionRepository.ListByAccount count: %w", err)
	}

	query := `SELECT id, account_id, problem_id, problem_slug, problem_title, language,
	                 verdict, tests_passed, total_tests, execution_time_ms, memory_score, difficulty, submitted_at
	          FROM submissions WHERE account_id = $1
	          ORDER BY submitted_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.db.QueryContext(ctx, query, accountID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("pgSubmissionRepository.ListByAccount query: %w", err)
	}
	defer rows.Close()

	subs := []model.Submission{}
	for rows.Next() {
		var s model.Submission
		if err := rows.Scan(&s.ID, &s.AccountID, &s.ProblemID, &s.ProblemSlug, &s.ProblemTitle, &s.Language,
			&s.Verdict, &s.TestsPassed, &s.TotalTests, &s.ExecutionTimeMs, &s.MemoryScore, &s.Difficulty, &s.SubmittedAt); err != nil {
			return nil, 0, fmt.Errorf("pgSubmissionRepository.ListByAccount scan: %w", err)
		}
		subs = append(subs, s)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("pgSubmissionRepository.ListByAccount rows.Err: %w", err)
	}
	return subs, total, nil
}

// ConsecutiveAcceptedCount walks the most recent submissions newest-first and
// counts the unbroken accepted run at the head of the history.
func (r *pgSubmissionRepository) ConsecutiveAcceptedCount(ctx context.Context, accountID string) (int, error) {
	query := `SELECT verdict FROM submissions WHERE account_id = $1
	          ORDER BY submitted_at DESC LIMIT $2`
	rows, err := r.db.QueryContext(ctx, query, accountID, consecutiveScanLimit)
	if err != nil {
		return 0, fmt.Errorf("pgSubmissionRepository.ConsecutiveAcceptedCount query: %w", err)
	}
	defer rows.Close()

	count := 0
	for rows.Next() {
		var verdict model.Verdict
		if err := rows.Scan(&verdict); err != nil {
			return 0, fmt.Errorf("pgSubmissionRepository.ConsecutiveAcceptedCount scan: %w", err)
		}
		if verdict != model.VerdictAccepted {
			break
		}
		count++
	}
	if err = rows.Err(); err != nil {
		return 0, fmt.Errorf("pgSubmissionRepository.ConsecutiveAcceptedCount rows.Err: %w", err)
	}
	return count, nil
}

// TotalFailuresBeforeFirstAccept sums, across problems, the failing attempts
// that preceded the problem's first accepted submission.
func (r *pgSubmissionRepository) TotalFailuresBeforeFirstAccept(ctx context.Context, accountID string) (int, error) {
	query := `
        SELECT COUNT(*)
        FROM submissions s
        JOIN (
            SELECT problem_slug, MIN(submitted_at) AS first_accepted_at
            FROM submissions
            WHERE account_id = $1 AND verdict = 'Accepted'
            GROUP BY problem_slug
        ) f ON s.problem_slug = f.problem_slug
        WHERE s.account_id = $1
          AND s.verdict <> 'Accepted'
          AND s.submitted_at < f.first_accepted_at`

	var count int
	if err := r.db.QueryRowContext(ctx, query, accountID).Scan(&count); err != nil {
		return 0, fmt.Errorf("pgSubmissionRepository.TotalFailuresBeforeFirstAccept: %w", err)
	}
	return count, nil
}

func (r *pgSubmissionRepository) CountSolvedByDifficulty(ctx context.Context, accountID string) (map[model.ProblemDifficulty]int, error) {
	query := `SELECT difficulty, COUNT(DISTINCT problem_slug)
	          FROM submissions
	          WHERE account_id = $1 AND verdict = 'Accepted'
	          GROUP BY difficulty`
	rows, err := r.db.QueryContext(ctx, query, accountID)
	if err != nil {
		return nil, fmt.Errorf("pgSubmissionRepository.CountSolvedByDifficulty query: %w", err)
	}
	defer rows.Close()

	counts := map[model.ProblemDifficulty]int{}
	for rows.Next() {
		var difficulty model.ProblemDifficulty
		var count int
		if err := rows.Scan(&difficulty, &count); err != nil {
			return nil, fmt.Errorf("pgSubmissionRepository.CountSolvedByDifficulty scan: %w", err)
		}
		counts[difficulty] = count
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("pgSubmissionRepository.CountSolvedByDifficulty rows.Err: %w", err)
	}
	return counts, nil
}

// FastestSolutionCount counts problems where this account holds the fastest
// accepted solution. Ties break toward the earlier submission, so an equal
// later time never steals the record.
func (r *pgSubmissionRepository) FastestSolutionCount(ctx context.Context, accountID string) (int, error) {
	return r.recordHolderCount(ctx, accountID, false)
}

// OptimizedSolutionCount is FastestSolutionCount restricted to record-holding
// submissions that are also memory optimized (heuristic score >= 60).
func (r *pgSubmissionRepository) OptimizedSolutionCount(ctx context.Context, accountID string) (int, error) {
	return r.recordHolderCount(ctx, accountID, true)
}

func (r *pgSubmissionRepository) recordHolderCount(ctx context.Context, accountID string, requireOptimized bool) (int, error) {
	query := `
        SELECT COUNT(*)
        FROM (
            SELECT DISTINCT ON (problem_slug) problem_slug, account_id, memory_score
            FROM submissions
            WHERE verdict = 'Accepted'
            ORDER BY problem_slug, execution_time_ms ASC, submitted_at ASC
        ) fastest
        WHERE fastest.account_id = $1`
	if requireOptimized {
		query += ` AND fastest.memory_score >= 60`
	}

	var count int
	if err := r.db.QueryRowContext(ctx, query, accountID).Scan(&count); err != nil {
		return 0, fmt.Errorf("pgSubmissionRepository.recordHolderCount: %w", err)
	}
	return count, nil
}
