package model

import "time"

// AccountStats is the per-account aggregate, mutated exactly once per graded
// submission. Invariants: LongestStreak >= StreakCount, 0 <= AcceptanceRate <= 100.
type AccountStats struct {
	AccountID              string     `json:"account_id"`
	TotalSubmissions       int        `json:"total_submissions"`
	TotalAccepted          int        `json:"total_accepted"`
	StreakCount            int        `json:"streak_count"`
	LongestStreak          int        `json:"longest_streak"`
	LastSubmissionDate     *time.Time `json:"last_submission_date,omitempty"` // Date-only granularity
	AcceptanceRate         int        `json:"acceptance_rate"`                // Percentage, 0-100
	PerfectAcceptanceCount int        `json:"perfect_acceptance_count"`       // Problems solved on the first attempt
	TotalBadges            int        `json:"total_badges"`
	UpdatedAt              time.Time  `json:"updated_at"`
}
