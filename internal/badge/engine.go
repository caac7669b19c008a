// Package badge evaluates declarative badge criteria against account
// statistics and awards badges at most once per (account, badge) pair.
package badge

import (
	"context"
	"log"
	"math"
	"time"

	"code_arena/internal/domain/model"
)

// History answers the criteria that cannot be derived from the per-account
// snapshot alone. Each call is an O(history) read against the submission
// store.
type History interface {
	ConsecutiveAcceptedCount(ctx context.Context, accountID string) (int, error)
	TotalFailuresBeforeFirstAccept(ctx context.Context, accountID string) (int, error)
	CountSolvedByDifficulty(ctx context.Context, accountID string) (map[model.ProblemDifficulty]int, error)
	FastestSolutionCount(ctx context.Context, accountID string) (int, error)
	OptimizedSolutionCount(ctx context.Context, accountID string) (int, error)
}

// AwardStore persists awards. InsertAward returns false when the record
// already exists — the uniqueness constraint lives in storage, not in-process,
// because evaluation may run in more than one process.
type AwardStore interface {
	InsertAward(ctx context.Context, award model.AwardRecord) (bool, error)
	IncrementAwardedCount(ctx context.Context, badgeID string) error
}

type AwardStatus string

const (
	AwardStatusAwarded       AwardStatus = "awarded"
	AwardStatusAlreadyEarned AwardStatus = "already_earned"
	AwardStatusFailed        AwardStatus = "failed"
)

// AwardOutcome distinguishes "badge awarded", "badge already earned" and
// "award write failed" without relying on log output.
type AwardOutcome struct {
	BadgeID string
	Status  AwardStatus
	Err     error
}

type EvalResult struct {
	NewBadges []model.EarnedBadge
	Outcomes  []AwardOutcome
	// TotalBadges is earned-count-before plus successfully-newly-awarded.
	TotalBadges int
}

type Engine struct {
	history History
	awards  AwardStore
	now     func() time.Time
}

func NewEngine(history History, awards AwardStore) *Engine {
	return &Engine{history: history, awards: awards, now: time.Now}
}

// Evaluate checks every active, unearned badge against the stats snapshot and
// attempts to award the satisfied ones. A failure on one badge is recorded in
// its outcome and never blocks the rest; a concurrent award of the same badge
// is treated as "not newly earned", which makes repeated evaluation
// idempotent.
func (e *Engine) Evaluate(ctx context.Context, st model.AccountStats, catalog []model.BadgeDefinition, earned map[string]bool) EvalResult {
	result := EvalResult{NewBadges: []model.EarnedBadge{}}

	for _, def := range catalog {
		if !def.IsActive || earned[def.ID] {
			continue
		}

		ok, err := e.satisfied(ctx, def.Criteria, st)
		if err != nil {
			log.Printf("ERROR: Badge %s criteria evaluation failed for account %s: %v", def.ID, st.AccountID, err)
			result.Outcomes = append(result.Outcomes, AwardOutcome{BadgeID: def.ID, Status: AwardStatusFailed, Err: err})
			continue
		}
		if !ok {
			continue
		}

		progress, err := e.progressValue(ctx, def.Criteria, st)
		if err != nil {
			// Satisfied but the progress read failed; award with the target
			// value rather than dropping the badge.
			progress = def.Criteria.Target()
		}

		inserted, err := e.awards.InsertAward(ctx, model.AwardRecord{
			AccountID:     st.AccountID,
			BadgeID:       def.ID,
			AwardedAt:     e.now(),
			ProgressValue: progress,
		})
		if err != nil {
			log.Printf("ERROR: Failed to save award %s for account %s: %v", def.ID, st.AccountID, err)
			result.Outcomes = append(result.Outcomes, AwardOutcome{BadgeID: def.ID, Status: AwardStatusFailed, Err: err})
			continue
		}
		if !inserted {
			result.Outcomes = append(result.Outcomes, AwardOutcome{BadgeID: def.ID, Status: AwardStatusAlreadyEarned})
			continue
		}

		if err := e.awards.IncrementAwardedCount(ctx, def.ID); err != nil {
			log.Printf("WARN: Failed to bump awarded count for badge %s: %v", def.ID, err)
		}

		result.NewBadges = append(result.NewBadges, model.EarnedBadge{
			BadgeID: def.ID,
			Name:    def.Name,
			Emoji:   def.Emoji,
			Rarity:  def.Rarity,
		})
		result.Outcomes = append(result.Outcomes, AwardOutcome{BadgeID: def.ID, Status: AwardStatusAwarded})
	}

	result.TotalBadges = len(earned) + len(result.NewBadges)
	return result
}

// ProgressReport builds the per-badge progress view for the UI. Earned badges
// report 100%; unearned ones report the same fields evaluation reads.
// Inactive catalog entries are excluded from every counter, so an award for a
// since-retired badge never inflates the earned count.
func (e *Engine) ProgressReport(ctx context.Context, st model.AccountStats, catalog []model.BadgeDefinition, earned map[string]bool) model.ProgressReport {
	report := model.ProgressReport{
		Progress: make([]model.BadgeProgress, 0, len(catalog)),
	}

	for _, def := range catalog {
		if !def.IsActive {
			continue
		}
		report.TotalBadges++
		if earned[def.ID] {
			report.EarnedCount++
		}
		target := def.Criteria.Target()
		entry := model.BadgeProgress{
			BadgeID:        def.ID,
			Name:           def.Name,
			Emoji:          def.Emoji,
			IsEarned:       earned[def.ID],
			TargetProgress: target,
		}
		if entry.IsEarned {
			entry.CurrentProgress = target
			entry.ProgressPercentage = 100
		} else {
			current, err := e.progressValue(ctx, def.Criteria, st)
			if err != nil {
				log.Printf("WARN: Progress read failed for badge %s, account %s: %v", def.ID, st.AccountID, err)
				current = 0
			}
			entry.CurrentProgress = current
			entry.ProgressPercentage = ProgressPercentage(current, target)
		}
		report.Progress = append(report.Progress, entry)
	}
	return report
}

// ProgressPercentage is min(100, round(100 * current / target)).
func ProgressPercentage(current, target int) int {
	if target <= 0 {
		return 100
	}
	pct := int(math.Round(100 * float64(current) / float64(target)))
	if pct > 100 {
		return 100
	}
	if pct < 0 {
		return 0
	}
	return pct
}

func (e *Engine) satisfied(ctx context.Context, c model.Criteria, st model.AccountStats) (bool, error) {
	switch v := c.(type) {
	case model.MilestoneCriteria:
		return st.TotalAccepted >= v.TargetAccepted, nil

	case model.StreakCriteria:
		return st.StreakCount >= v.TargetStreak, nil

	case model.AccuracyCriteria:
		return st.AcceptanceRate >= v.RateTarget && st.TotalSubmissions >= v.MinSamples, nil

	case model.FirstTryCriteria:
		return st.PerfectAcceptanceCount >= v.TargetCount, nil

	case model.ConsecutiveAcceptedCriteria:
		run, err := e.history.ConsecutiveAcceptedCount(ctx, st.AccountID)
		if err != nil {
			return false, err
		}
		return run >= v.TargetRun, nil

	case model.DifficultySpreadCriteria:
		counts, err := e.history.CountSolvedByDifficulty(ctx, st.AccountID)
		if err != nil {
			return false, err
		}
		return counts[model.DifficultyEasy] >= v.MinPerDifficulty &&
			counts[model.DifficultyMedium] >= v.MinPerDifficulty &&
			counts[model.DifficultyHard] >= v.MinPerDifficulty, nil

	case model.PerformanceCriteria:
		var count int
		var err error
		if v.RequireOptimized {
			count, err = e.history.OptimizedSolutionCount(ctx, st.AccountID)
		} else {
			count, err = e.history.FastestSolutionCount(ctx, st.AccountID)
		}
		if err != nil {
			return false, err
		}
		return count >= v.TargetCount, nil

	case model.DebugGrindCriteria:
		failures, err := e.history.TotalFailuresBeforeFirstAccept(ctx, st.AccountID)
		if err != nil {
			return false, err
		}
		return failures >= v.TargetFailures, nil
	}
	return false, nil
}

func (e *Engine) progressValue(ctx context.Context, c model.Criteria, st model.AccountStats) (int, error) {
	switch v := c.(type) {
	case model.MilestoneCriteria:
		return st.TotalAccepted, nil

	case model.StreakCriteria:
		return st.StreakCount, nil

	case model.AccuracyCriteria:
		return st.AcceptanceRate, nil

	case model.FirstTryCriteria:
		return st.PerfectAcceptanceCount, nil

	case model.ConsecutiveAcceptedCriteria:
		return e.history.ConsecutiveAcceptedCount(ctx, st.AccountID)

	case model.DifficultySpreadCriteria:
		counts, err := e.history.CountSolvedByDifficulty(ctx, st.AccountID)
		if err != nil {
			return 0, err
		}
		// Progress is the total across levels, capped per level at the
		// requirement so one difficulty cannot carry the others.
		total := 0
		for _, d := range []model.ProblemDifficulty{model.DifficultyEasy, model.DifficultyMedium, model.DifficultyHard} {
			n := counts[d]
			if n > v.MinPerDifficulty {
				n = v.MinPerDifficulty
			}
			total += n
		}
		return total, nil

	case model.PerformanceCriteria:
		if v.RequireOptimized {
			return e.history.OptimizedSolutionCount(ctx, st.AccountID)
		}
		return e.history.FastestSolutionCount(ctx, st.AccountID)

	case model.DebugGrindCriteria:
		return e.history.TotalFailuresBeforeFirstAccept(ctx, st.AccountID)
	}
	return 0, nil
}
