package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"code_arena/internal/common"
	"code_arena/internal/domain/model"
)

// StatsRepository owns the one mutable AccountStats row per account. The
// update path is a row-locked read-modify-write: GetForUpdate inside a
// transaction takes a row lock, so two submissions for the same account
// serialize at the database even if the Redis lock ever lapses.
type StatsRepository interface {
	Get(ctx context.Context, accountID string) (*model.AccountStats, error)
	GetForUpdate(ctx context.Context, tx *sql.Tx, accountID string) (*model.AccountStats, error)
	Save(ctx context.Context, tx *sql.Tx, stats *model.AccountStats) error
	SetTotalBadges(ctx context.Context, accountID string, totalBadges int) error
}

type pgStatsRepository struct {
	db *sql.DB
}

func NewPgStatsRepository(db *sql.DB) StatsRepository {
	return &pgStatsRepository{db: db}
}

const statsColumns = `account_id, total_submissions, total_accepted, streak_count, longest_streak,
	last_submission_date, acceptance_rate, perfect_acceptance_count, total_badges, updated_at`

func (r *pgStatsRepository) Get(ctx context.Context, accountID string) (*model.AccountStats, error) {
	query := `SELECT ` + statsColumns + ` FROM account_stats WHERE account_id = $1`
	st, err := scanStats(r.db.QueryRowContext(ctx, query, accountID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// No graded attempt yet; an empty snapshot is the correct answer.
			return &model.AccountStats{AccountID: accountID}, nil
		}
		return nil, fmt.Errorf("pgStatsRepository.Get: %w", err)
	}
	return st, nil
}

// GetForUpdate ensures the row exists, then locks it for the duration of the
// transaction.
func (r *pgStatsRepository) GetForUpdate(ctx context.Context, tx *sql.Tx, accountID string) (*model.AccountStats, error) {
	insert := `INSERT INTO account_stats (account_id) VALUES ($1) ON CONFLICT (account_id) DO NOTHING`
	if _, err := tx.ExecContext(ctx, insert, accountID); err != nil {
		return nil, fmt.Errorf("pgStatsRepository.GetForUpdate ensure row: %w", err)
	}

	query := `SELECT ` + statsColumns + ` FROM account_stats WHERE account_id = $1 FOR UPDATE`
	st, err := scanStats(tx.QueryRowContext(ctx, query, accountID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgStatsRepository.GetForUpdate: %w", err)
	}
	return st, nil
}

func (r *pgStatsRepository) Save(ctx context.Context, tx *sql.Tx, st *model.AccountStats) error {
	query := `UPDATE account_stats SET
	            total_submissions = $1, total_accepted = $2, streak_count = $3, longest_streak = $4,
	            last_submission_date = $5, acceptance_rate = $6, perfect_acceptance_count = $7,
	            total_badges = $8, updated_at = CURRENT_TIMESTAMP
	          WHERE account_id = $9`
	_, err := tx.ExecContext(ctx, query,
		st.TotalSubmissions, st.TotalAccepted, st.StreakCount, st.LongestStreak,
		st.LastSubmissionDate, st.AcceptanceRate, st.PerfectAcceptanceCount,
		st.TotalBadges, st.AccountID)
	if err != nil {
		return fmt.Errorf("pgStatsRepository.Save: %w", err)
	}
	return nil
}

func (r *pgStatsRepository) SetTotalBadges(ctx context.Context, accountID string, totalBadges int) error {
	query := `UPDATE account_stats SET total_badges = $1, updated_at = CURRENT_TIMESTAMP WHERE account_id = $2`
	if _, err := r.db.ExecContext(ctx, query, totalBadges, accountID); err != nil {
		return fmt.Errorf("pgStatsRepository.SetTotalBadges: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanStats(row rowScanner) (*model.AccountStats, error) {
	st := &model.AccountStats{}
	err := row.Scan(
		&st.AccountID, &st.TotalSubmissions, &st.TotalAccepted, &st.StreakCount, &st.LongestStreak,
		&st.LastSubmissionDate, &st.AcceptanceRate, &st.PerfectAcceptanceCount, &st.TotalBadges, &st.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return st, nil
}
