// Package stats turns one graded attempt plus the account's current snapshot
// into the next snapshot. Pure computation; callers are responsible for
// applying the result atomically per account.
package stats

import (
	"math"
	"time"

	"code_arena/internal/domain/model"
)

// Apply folds one graded attempt into the snapshot. Rules, in order:
// every attempt counts toward total submissions; accepted attempts bump the
// accepted counter and, when the problem had no prior attempts, the first-try
// counter; the streak advances on a one-day gap, holds on a same-day
// submission, and reseeds to 1 otherwise; the acceptance rate is recomputed
// last. A snapshot with no recorded prior date always seeds the streak to 1 —
// substituting "now" for the missing date would compute a zero gap and
// silently leave the streak at its initial value.
func Apply(cur model.AccountStats, verdict model.Verdict, priorAttemptsForProblem int, today time.Time) model.AccountStats {
	next := cur

	next.TotalSubmissions++

	if verdict == model.VerdictAccepted {
		next.TotalAccepted++
		if priorAttemptsForProblem == 0 {
			next.PerfectAcceptanceCount++
		}
	}

	switch {
	case cur.LastSubmissionDate == nil:
		next.StreakCount = 1
	default:
		switch DayGap(*cur.LastSubmissionDate, today) {
		case 0:
			// Same calendar date, streak unchanged.
		case 1:
			next.StreakCount = cur.StreakCount + 1
		default:
			next.StreakCount = 1
		}
	}
	if next.StreakCount > next.LongestStreak {
		next.LongestStreak = next.StreakCount
	}

	day := today
	next.LastSubmissionDate = &day

	if next.TotalSubmissions > 0 {
		next.AcceptanceRate = int(math.Round(100 * float64(next.TotalAccepted) / float64(next.TotalSubmissions)))
	} else {
		next.AcceptanceRate = 0
	}

	next.UpdatedAt = today
	return next
}

// DayGap counts whole calendar days between two instants, ignoring the time
// of day. Both dates are read in the earlier instant's location, then diffed
// in UTC: a DST transition makes a local day 23 or 25 wall-clock hours, and
// dividing local spans by 24h would misclassify the gap around it.
func DayGap(from, to time.Time) int {
	fy, fm, fd := from.Date()
	ty, tm, td := to.In(from.Location()).Date()
	fromDay := time.Date(fy, fm, fd, 0, 0, 0, 0, time.UTC)
	toDay := time.Date(ty, tm, td, 0, 0, 0, 0, time.UTC)
	return int(toDay.Sub(fromDay) / (24 * time.Hour))
}
