package badge

import (
	"context"
	"errors"
	"testing"

	"code_arena/internal/domain/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeHistory struct {
	consecutiveAccepted int
	failuresBeforeFirst int
	solvedByDifficulty  map[model.ProblemDifficulty]int
	fastestCount        int
	optimizedCount      int
	err                 error
}

func (f *fakeHistory) ConsecutiveAcceptedCount(ctx context.Context, accountID string) (int, error) {
	return f.consecutiveAccepted, f.err
}

func (f *fakeHistory) TotalFailuresBeforeFirstAccept(ctx context.Context, accountID string) (int, error) {
	return f.failuresBeforeFirst, f.err
}

func (f *fakeHistory) CountSolvedByDifficulty(ctx context.Context, accountID string) (map[model.ProblemDifficulty]int, error) {
	return f.solvedByDifficulty, f.err
}

func (f *fakeHistory) FastestSolutionCount(ctx context.Context, accountID string) (int, error) {
	return f.fastestCount, f.err
}

func (f *fakeHistory) OptimizedSolutionCount(ctx context.Context, accountID string) (int, error) {
	return f.optimizedCount, f.err
}

// fakeAwardStore keeps awards in a map keyed by account+badge, mirroring the
// unique constraint the real store relies on.
type fakeAwardStore struct {
	awards    map[string]model.AwardRecord
	insertErr error
	counts    map[string]int
}

func newFakeAwardStore() *fakeAwardStore {
	return &fakeAwardStore{awards: map[string]model.AwardRecord{}, counts: map[string]int{}}
}

func (f *fakeAwardStore) InsertAward(ctx context.Context, award model.AwardRecord) (bool, error) {
	if f.insertErr != nil {
		return false, f.insertErr
	}
	key := award.AccountID + "/" + award.BadgeID
	if _, exists := f.awards[key]; exists {
		return false, nil
	}
	f.awards[key] = award
	return true, nil
}

func (f *fakeAwardStore) IncrementAwardedCount(ctx context.Context, badgeID string) error {
	f.counts[badgeID]++
	return nil
}

func milestoneBadge(id string, target int) model.BadgeDefinition {
	return model.BadgeDefinition{
		ID:       id,
		Name:     id,
		Criteria: model.MilestoneCriteria{TargetAccepted: target},
		IsActive: true,
	}
}

func TestEvaluateAwardsFirstSolveOnce(t *testing.T) {
	store := newFakeAwardStore()
	engine := NewEngine(&fakeHistory{}, store)
	catalog := []model.BadgeDefinition{milestoneBadge("first-solve", 1)}
	st := model.AccountStats{AccountID: "acct", TotalAccepted: 1}

	result := engine.Evaluate(context.Background(), st, catalog, map[string]bool{})

	require.Len(t, result.NewBadges, 1)
	assert.Equal(t, "first-solve", result.NewBadges[0].BadgeID)
	assert.Equal(t, 1, result.TotalBadges)
	assert.Equal(t, 1, store.counts["first-solve"])

	// A second evaluation with the badge now earned awards nothing.
	result = engine.Evaluate(context.Background(), st, catalog, map[string]bool{"first-solve": true})
	assert.Empty(t, result.NewBadges)
	assert.Equal(t, 1, result.TotalBadges)
	assert.Equal(t, 1, store.counts["first-solve"])
}

func TestEvaluateConcurrentDuplicateIsNotNewlyEarned(t *testing.T) {
	// The earned set is stale: another process already inserted the award.
	store := newFakeAwardStore()
	store.awards["acct/first-solve"] = model.AwardRecord{AccountID: "acct", BadgeID: "first-solve"}

	engine := NewEngine(&fakeHistory{}, store)
	catalog := []model.BadgeDefinition{milestoneBadge("first-solve", 1)}
	st := model.AccountStats{AccountID: "acct", TotalAccepted: 1}

	result := engine.Evaluate(context.Background(), st, catalog, map[string]bool{})

	assert.Empty(t, result.NewBadges)
	require.Len(t, result.Outcomes, 1)
	assert.Equal(t, AwardStatusAlreadyEarned, result.Outcomes[0].Status)
	assert.Equal(t, 0, store.counts["first-solve"])
}

func TestEvaluateUnsatisfiedCriteriaAwardNothing(t *testing.T) {
	store := newFakeAwardStore()
	engine := NewEngine(&fakeHistory{}, store)
	catalog := []model.BadgeDefinition{
		milestoneBadge("problem-solver", 10),
		{ID: "streak-7", Name: "streak-7", Criteria: model.StreakCriteria{TargetStreak: 7}, IsActive: true},
	}
	st := model.AccountStats{AccountID: "acct", TotalAccepted: 3, StreakCount: 2}

	result := engine.Evaluate(context.Background(), st, catalog, map[string]bool{})

	assert.Empty(t, result.NewBadges)
	assert.Empty(t, result.Outcomes)
}

func TestEvaluateInactiveBadgeSkipped(t *testing.T) {
	store := newFakeAwardStore()
	engine := NewEngine(&fakeHistory{}, store)
	def := milestoneBadge("retired", 1)
	def.IsActive = false
	st := model.AccountStats{AccountID: "acct", TotalAccepted: 5}

	result := engine.Evaluate(context.Background(), st, []model.BadgeDefinition{def}, map[string]bool{})

	assert.Empty(t, result.NewBadges)
}

func TestEvaluateStoreFailureRecordedAndSkipped(t *testing.T) {
	store := newFakeAwardStore()
	store.insertErr = errors.New("connection reset")
	engine := NewEngine(&fakeHistory{}, store)
	catalog := []model.BadgeDefinition{milestoneBadge("first-solve", 1)}
	st := model.AccountStats{AccountID: "acct", TotalAccepted: 1}

	result := engine.Evaluate(context.Background(), st, catalog, map[string]bool{})

	assert.Empty(t, result.NewBadges)
	require.Len(t, result.Outcomes, 1)
	assert.Equal(t, AwardStatusFailed, result.Outcomes[0].Status)
	assert.Error(t, result.Outcomes[0].Err)
	// No award recorded means no badge counted.
	assert.Equal(t, 0, result.TotalBadges)
}

func TestEvaluateHistoryBackedCriteria(t *testing.T) {
	history := &fakeHistory{
		consecutiveAccepted: 5,
		failuresBeforeFirst: 10,
		solvedByDifficulty: map[model.ProblemDifficulty]int{
			model.DifficultyEasy:   2,
			model.DifficultyMedium: 1,
			model.DifficultyHard:   1,
		},
		fastestCount:   1,
		optimizedCount: 0,
	}
	store := newFakeAwardStore()
	engine := NewEngine(history, store)

	catalog := []model.BadgeDefinition{
		{ID: "no-errors", Name: "no-errors", Criteria: model.ConsecutiveAcceptedCriteria{TargetRun: 5}, IsActive: true},
		{ID: "debug-master", Name: "debug-master", Criteria: model.DebugGrindCriteria{TargetFailures: 10}, IsActive: true},
		{ID: "difficulty-conqueror", Name: "difficulty-conqueror", Criteria: model.DifficultySpreadCriteria{MinPerDifficulty: 1}, IsActive: true},
		{ID: "speed-demon", Name: "speed-demon", Criteria: model.PerformanceCriteria{TargetCount: 1}, IsActive: true},
		{ID: "rocket-code", Name: "rocket-code", Criteria: model.PerformanceCriteria{TargetCount: 1, RequireOptimized: true}, IsActive: true},
	}
	st := model.AccountStats{AccountID: "acct"}

	result := engine.Evaluate(context.Background(), st, catalog, map[string]bool{})

	awarded := make([]string, 0, len(result.NewBadges))
	for _, b := range result.NewBadges {
		awarded = append(awarded, b.BadgeID)
	}
	assert.ElementsMatch(t, []string{"no-errors", "debug-master", "difficulty-conqueror", "speed-demon"}, awarded)
}

func TestEvaluateAccuracyNeedsMinimumSamples(t *testing.T) {
	store := newFakeAwardStore()
	engine := NewEngine(&fakeHistory{}, store)
	catalog := []model.BadgeDefinition{
		{ID: "accuracy-ace", Name: "accuracy-ace", Criteria: model.AccuracyCriteria{RateTarget: 90, MinSamples: 10}, IsActive: true},
	}

	// One lucky submission: 100% rate but below the sample floor.
	st := model.AccountStats{AccountID: "acct", TotalSubmissions: 1, TotalAccepted: 1, AcceptanceRate: 100}
	result := engine.Evaluate(context.Background(), st, catalog, map[string]bool{})
	assert.Empty(t, result.NewBadges)

	st = model.AccountStats{AccountID: "acct", TotalSubmissions: 10, TotalAccepted: 9, AcceptanceRate: 90}
	result = engine.Evaluate(context.Background(), st, catalog, map[string]bool{})
	require.Len(t, result.NewBadges, 1)
}

func TestProgressReport(t *testing.T) {
	store := newFakeAwardStore()
	engine := NewEngine(&fakeHistory{}, store)
	catalog := []model.BadgeDefinition{
		milestoneBadge("first-solve", 1),
		milestoneBadge("problem-solver", 10),
	}
	st := model.AccountStats{AccountID: "acct", TotalAccepted: 3}

	report := engine.ProgressReport(context.Background(), st, catalog, map[string]bool{"first-solve": true})

	assert.Equal(t, 1, report.EarnedCount)
	assert.Equal(t, 2, report.TotalBadges)
	require.Len(t, report.Progress, 2)

	assert.True(t, report.Progress[0].IsEarned)
	assert.Equal(t, 100, report.Progress[0].ProgressPercentage)

	assert.False(t, report.Progress[1].IsEarned)
	assert.Equal(t, 3, report.Progress[1].CurrentProgress)
	assert.Equal(t, 10, report.Progress[1].TargetProgress)
	assert.Equal(t, 30, report.Progress[1].ProgressPercentage)
}

func TestProgressReportExcludesInactiveBadges(t *testing.T) {
	store := newFakeAwardStore()
	engine := NewEngine(&fakeHistory{}, store)

	retired := milestoneBadge("retired", 1)
	retired.IsActive = false
	catalog := []model.BadgeDefinition{milestoneBadge("first-solve", 1), retired}

	// The retired badge was earned before deactivation; it must not count.
	st := model.AccountStats{AccountID: "acct", TotalAccepted: 1}
	report := engine.ProgressReport(context.Background(), st, catalog, map[string]bool{"retired": true})

	assert.Equal(t, 1, report.TotalBadges)
	assert.Equal(t, 0, report.EarnedCount)
	require.Len(t, report.Progress, 1)
	assert.Equal(t, "first-solve", report.Progress[0].BadgeID)
}

func TestProgressPercentageBounds(t *testing.T) {
	assert.Equal(t, 0, ProgressPercentage(0, 10))
	assert.Equal(t, 50, ProgressPercentage(5, 10))
	assert.Equal(t, 100, ProgressPercentage(15, 10))
	assert.Equal(t, 100, ProgressPercentage(3, 0))
	assert.Equal(t, 33, ProgressPercentage(1, 3))
}
