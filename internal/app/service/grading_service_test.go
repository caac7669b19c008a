package service

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"strings"
	"sync"
	"testing"

	"code_arena/internal/badge"
	"code_arena/internal/common"
	"code_arena/internal/domain/model"
	"code_arena/internal/judge"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeProblemRepo serves one problem by slug.
type fakeProblemRepo struct {
	problem   *model.Problem
	testCases []model.TestCase
}

func (f *fakeProblemRepo) CreateProblem(ctx context.Context, tx *sql.Tx, p *model.Problem) error {
	return nil
}

func (f *fakeProblemRepo) AddExamples(ctx context.Context, tx *sql.Tx, problemID string, examples []model.Example) error {
	return nil
}

func (f *fakeProblemRepo) AddTestCases(ctx context.Context, tx *sql.Tx, problemID string, testCases []model.TestCase) error {
	return nil
}

func (f *fakeProblemRepo) FindBySlug(ctx context.Context, slug string) (*model.Problem, error) {
	if f.problem == nil || f.problem.Slug != slug {
		return nil, common.ErrNotFound
	}
	return f.problem, nil
}

func (f *fakeProblemRepo) GetExamplesByProblemID(ctx context.Context, problemID string) ([]model.Example, error) {
	return nil, nil
}

func (f *fakeProblemRepo) GetTestCasesByProblemID(ctx context.Context, problemID string) ([]model.TestCase, error) {
	return f.testCases, nil
}

func (f *fakeProblemRepo) ListProblems(ctx context.Context, limit, offset int, difficulty model.ProblemDifficulty) ([]model.Problem, int, error) {
	return nil, 0, nil
}

// fakeSubmissionRepo stores submissions in memory and logs the order of
// count/create calls, which is load-bearing for the first-try check.
type fakeSubmissionRepo struct {
	submissions []model.Submission
	callLog     []string
}

func (f *fakeSubmissionRepo) Create(ctx context.Context, tx *sql.Tx, sub *model.Submission) error {
	f.callLog = append(f.callLog, "create")
	f.submissions = append(f.submissions, *sub)
	return nil
}

func (f *fakeSubmissionRepo) CountForAccountProblem(ctx context.Context, accountID, problemSlug string) (int, error) {
	f.callLog = append(f.callLog, "count")
	n := 0
	for _, s := range f.submissions {
		if s.AccountID == accountID && s.ProblemSlug == problemSlug {
			n++
		}
	}
	return n, nil
}

func (f *fakeSubmissionRepo) ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]model.Submission, int, error) {
	return f.submissions, len(f.submissions), nil
}

func (f *fakeSubmissionRepo) ConsecutiveAcceptedCount(ctx context.Context, accountID string) (int, error) {
	n := 0
	for i := len(f.submissions) - 1; i >= 0; i-- {
		if f.submissions[i].Verdict != model.VerdictAccepted {
			break
		}
		n++
	}
	return n, nil
}

func (f *fakeSubmissionRepo) TotalFailuresBeforeFirstAccept(ctx context.Context, accountID string) (int, error) {
	return 0, nil
}

func (f *fakeSubmissionRepo) CountSolvedByDifficulty(ctx context.Context, accountID string) (map[model.ProblemDifficulty]int, error) {
	counts := map[model.ProblemDifficulty]int{}
	seen := map[string]bool{}
	for _, s := range f.submissions {
		if s.Verdict == model.VerdictAccepted && !seen[s.ProblemSlug] {
			seen[s.ProblemSlug] = true
			counts[s.Difficulty]++
		}
	}
	return counts, nil
}

func (f *fakeSubmissionRepo) FastestSolutionCount(ctx context.Context, accountID string) (int, error) {
	return 0, nil
}

func (f *fakeSubmissionRepo) OptimizedSolutionCount(ctx context.Context, accountID string) (int, error) {
	return 0, nil
}

type fakeStatsRepo struct {
	stats map[string]model.AccountStats
}

func newFakeStatsRepo() *fakeStatsRepo {
	return &fakeStatsRepo{stats: map[string]model.AccountStats{}}
}

func (f *fakeStatsRepo) Get(ctx context.Context, accountID string) (*model.AccountStats, error) {
	st := f.stats[accountID]
	st.AccountID = accountID
	return &st, nil
}

func (f *fakeStatsRepo) GetForUpdate(ctx context.Context, tx *sql.Tx, accountID string) (*model.AccountStats, error) {
	return f.Get(ctx, accountID)
}

func (f *fakeStatsRepo) Save(ctx context.Context, tx *sql.Tx, st *model.AccountStats) error {
	f.stats[st.AccountID] = *st
	return nil
}

func (f *fakeStatsRepo) SetTotalBadges(ctx context.Context, accountID string, totalBadges int) error {
	st := f.stats[accountID]
	st.TotalBadges = totalBadges
	f.stats[accountID] = st
	return nil
}

type fakeBadgeRepo struct {
	catalog []model.BadgeDefinition
	awards  map[string]map[string]bool
	counts  map[string]int
}

func newFakeBadgeRepo(catalog ...model.BadgeDefinition) *fakeBadgeRepo {
	return &fakeBadgeRepo{
		catalog: catalog,
		awards:  map[string]map[string]bool{},
		counts:  map[string]int{},
	}
}

func (f *fakeBadgeRepo) SeedCatalog(ctx context.Context, defs []model.BadgeDefinition) error {
	f.catalog = defs
	return nil
}

func (f *fakeBadgeRepo) ListActive(ctx context.Context) ([]model.BadgeDefinition, error) {
	return f.catalog, nil
}

func (f *fakeBadgeRepo) ListEarnedBadgeIDs(ctx context.Context, accountID string) (map[string]bool, error) {
	earned := map[string]bool{}
	for badgeID := range f.awards[accountID] {
		earned[badgeID] = true
	}
	return earned, nil
}

func (f *fakeBadgeRepo) InsertAward(ctx context.Context, award model.AwardRecord) (bool, error) {
	if f.awards[award.AccountID] == nil {
		f.awards[award.AccountID] = map[string]bool{}
	}
	if f.awards[award.AccountID][award.BadgeID] {
		return false, nil
	}
	f.awards[award.AccountID][award.BadgeID] = true
	return true, nil
}

func (f *fakeBadgeRepo) IncrementAwardedCount(ctx context.Context, badgeID string) error {
	f.counts[badgeID]++
	return nil
}

type fakeLocker struct {
	err      error
	acquired int
	released int
}

func (f *fakeLocker) Acquire(ctx context.Context, accountID string) (func(), error) {
	if f.err != nil {
		return nil, f.err
	}
	f.acquired++
	return func() { f.released++ }, nil
}

// stubSandbox replies with a fixed stdout for every test case.
type stubSandbox struct {
	stdout string
	calls  int
}

func (s *stubSandbox) Execute(ctx context.Context, language, source, stdin string) (*judge.ExecResult, error) {
	s.calls++
	return &judge.ExecResult{Stdout: s.stdout}, nil
}

// The repository fakes never touch the transaction handle, so the pipeline
// only needs a driver whose begin/commit are no-ops.
type noopDriver struct{}

func (noopDriver) Open(name string) (driver.Conn, error) { return noopConn{}, nil }

type noopConn struct{}

func (noopConn) Prepare(query string) (driver.Stmt, error) { return nil, errors.New("not supported") }
func (noopConn) Close() error                              { return nil }
func (noopConn) Begin() (driver.Tx, error)                 { return noopTx{}, nil }

type noopTx struct{}

func (noopTx) Commit() error   { return nil }
func (noopTx) Rollback() error { return nil }

var registerNoopDriver sync.Once

func noopDB(t *testing.T) *sql.DB {
	registerNoopDriver.Do(func() { sql.Register("noop", noopDriver{}) })
	db, err := sql.Open("noop", "")
	require.NoError(t, err)
	return db
}

type pipelineFixture struct {
	problems *fakeProblemRepo
	subs     *fakeSubmissionRepo
	stats    *fakeStatsRepo
	badges   *fakeBadgeRepo
	sandbox  *stubSandbox
	locker   *fakeLocker
	svc      *GradingService
}

func newPipelineFixture(t *testing.T) *pipelineFixture {
	f := &pipelineFixture{
		problems: &fakeProblemRepo{
			problem:   &model.Problem{ID: "p1", Slug: "two-sum", Title: "Two Sum", Difficulty: model.DifficultyEasy},
			testCases: []model.TestCase{{ID: "t1", Input: "in", ExpectedOutput: "42"}},
		},
		subs:    &fakeSubmissionRepo{},
		stats:   newFakeStatsRepo(),
		sandbox: &stubSandbox{stdout: "42"},
		locker:  &fakeLocker{},
	}
	f.badges = newFakeBadgeRepo(model.BadgeDefinition{
		ID:       "first-solve",
		Name:     "First Solve",
		Criteria: model.MilestoneCriteria{TargetAccepted: 1},
		IsActive: true,
	})
	badgeSvc := NewBadgeService(f.badges, f.stats, badge.NewEngine(f.subs, f.badges))
	f.svc = NewGradingService(f.problems, f.subs, f.stats, judge.NewEngine(f.sandbox), badgeSvc, f.locker, noopDB(t), 1024)
	return f
}

func submit(f *pipelineFixture, code string) (*SubmitResult, error) {
	return f.svc.SubmitSolution(context.Background(), "acct", SubmitRequest{
		ProblemSlug: "two-sum",
		Language:    model.LangPython,
		Code:        code,
	})
}

func newTestGradingService(problems *fakeProblemRepo, lock Locker, sandbox judge.Sandbox) *GradingService {
	// Storage collaborators stay nil: these tests cover the paths that reject
	// before any write.
	return NewGradingService(problems, nil, nil, judge.NewEngine(sandbox), nil, lock, nil, 1024)
}

type acceptAllSandbox struct {
	calls int
}

func (s *acceptAllSandbox) Execute(ctx context.Context, language, source, stdin string) (*judge.ExecResult, error) {
	s.calls++
	return &judge.ExecResult{Stdout: "42"}, nil
}

func TestSubmitSolutionRejectsEmptyCode(t *testing.T) {
	sandbox := &acceptAllSandbox{}
	svc := newTestGradingService(&fakeProblemRepo{}, &fakeLocker{}, sandbox)

	_, err := svc.SubmitSolution(context.Background(), "acct", SubmitRequest{
		ProblemSlug: "two-sum",
		Language:    model.LangPython,
		Code:        "",
	})

	require.ErrorIs(t, err, common.ErrValidation)
	assert.Equal(t, 0, sandbox.calls)
}

func TestSubmitSolutionRejectsOversizedCode(t *testing.T) {
	sandbox := &acceptAllSandbox{}
	svc := newTestGradingService(&fakeProblemRepo{}, &fakeLocker{}, sandbox)

	_, err := svc.SubmitSolution(context.Background(), "acct", SubmitRequest{
		ProblemSlug: "two-sum",
		Language:    model.LangPython,
		Code:        strings.Repeat("x", 2048),
	})

	require.ErrorIs(t, err, common.ErrValidation)
	assert.Equal(t, 0, sandbox.calls)
}

func TestSubmitSolutionRejectsUnknownLanguage(t *testing.T) {
	sandbox := &acceptAllSandbox{}
	svc := newTestGradingService(&fakeProblemRepo{}, &fakeLocker{}, sandbox)

	_, err := svc.SubmitSolution(context.Background(), "acct", SubmitRequest{
		ProblemSlug: "two-sum",
		Language:    "brainfuck",
		Code:        "print(42)",
	})

	require.ErrorIs(t, err, common.ErrBadRequest)
	assert.Equal(t, 0, sandbox.calls)
}

func TestSubmitSolutionRejectsUnknownProblem(t *testing.T) {
	sandbox := &acceptAllSandbox{}
	svc := newTestGradingService(&fakeProblemRepo{}, &fakeLocker{}, sandbox)

	_, err := svc.SubmitSolution(context.Background(), "acct", SubmitRequest{
		ProblemSlug: "no-such-problem",
		Language:    model.LangPython,
		Code:        "print(42)",
	})

	require.ErrorIs(t, err, common.ErrNotFound)
	assert.Equal(t, 0, sandbox.calls)
}

func TestSubmitSolutionPipelineFirstSolve(t *testing.T) {
	f := newPipelineFixture(t)

	result, err := submit(f, "print(42)")

	require.NoError(t, err)
	assert.Equal(t, model.VerdictAccepted, result.Submission.Verdict)
	assert.Equal(t, 1, result.Submission.TestsPassed)
	assert.Equal(t, 1, result.Submission.TotalTests)

	// The prior-attempt count must be read before the insert, or the attempt
	// being graded would count against its own first-try check.
	require.GreaterOrEqual(t, len(f.subs.callLog), 2)
	assert.Equal(t, []string{"count", "create"}, f.subs.callLog[:2])

	st := f.stats.stats["acct"]
	assert.Equal(t, 1, st.TotalSubmissions)
	assert.Equal(t, 1, st.TotalAccepted)
	assert.Equal(t, 1, st.PerfectAcceptanceCount)
	assert.Equal(t, 1, st.StreakCount)
	assert.Equal(t, 100, st.AcceptanceRate)
	assert.Equal(t, 1, st.TotalBadges)

	require.Len(t, result.NewBadges, 1)
	assert.Equal(t, "first-solve", result.NewBadges[0].BadgeID)
	assert.Equal(t, 1, f.badges.counts["first-solve"])
	assert.Equal(t, 1, f.locker.acquired)
	assert.Equal(t, 1, f.locker.released)
}

func TestSubmitSolutionPipelineRepeatSolveEarnsNothingTwice(t *testing.T) {
	f := newPipelineFixture(t)

	_, err := submit(f, "print(42)")
	require.NoError(t, err)

	result, err := submit(f, "print(42)")
	require.NoError(t, err)

	st := f.stats.stats["acct"]
	assert.Equal(t, 2, st.TotalSubmissions)
	assert.Equal(t, 2, st.TotalAccepted)
	// Prior attempts exist now, so no new first-try credit.
	assert.Equal(t, 1, st.PerfectAcceptanceCount)

	assert.Empty(t, result.NewBadges)
	assert.Equal(t, 1, f.badges.counts["first-solve"])
	assert.Equal(t, 1, st.TotalBadges)
}

func TestSubmitSolutionPipelineFailureThenSolveIsNotFirstTry(t *testing.T) {
	f := newPipelineFixture(t)

	f.sandbox.stdout = "wrong"
	result, err := submit(f, "print(41)")
	require.NoError(t, err)
	assert.Equal(t, model.VerdictWrongAnswer, result.Submission.Verdict)
	assert.Empty(t, result.NewBadges)

	f.sandbox.stdout = "42"
	result, err = submit(f, "print(42)")
	require.NoError(t, err)
	assert.Equal(t, model.VerdictAccepted, result.Submission.Verdict)

	st := f.stats.stats["acct"]
	assert.Equal(t, 2, st.TotalSubmissions)
	assert.Equal(t, 1, st.TotalAccepted)
	assert.Equal(t, 0, st.PerfectAcceptanceCount)
	assert.Equal(t, 50, st.AcceptanceRate)

	// The milestone badge still lands on the eventual solve.
	require.Len(t, result.NewBadges, 1)
	assert.Equal(t, "first-solve", result.NewBadges[0].BadgeID)
}

func TestSubmitSolutionProceedsWhenLockUnavailable(t *testing.T) {
	f := newPipelineFixture(t)
	f.locker.err = common.ErrLockFailed

	result, err := submit(f, "print(42)")

	// The row lock serializes the update on its own; the caller still gets
	// the verdict and the attempt is recorded.
	require.NoError(t, err)
	assert.Equal(t, model.VerdictAccepted, result.Submission.Verdict)
	require.Len(t, f.subs.submissions, 1)
	st := f.stats.stats["acct"]
	assert.Equal(t, 1, st.TotalSubmissions)
	require.NotNil(t, result.Stats)
	assert.Equal(t, 0, f.locker.released)
}
