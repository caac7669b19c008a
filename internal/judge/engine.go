package judge

import (
	"context"
	"time"

	"code_arena/internal/domain/model"
)

// ExecResult is one sandbox reply: compile outcome plus the run of the
// candidate program against a single stdin payload.
type ExecResult struct {
	CompileFailed  bool
	CompileMessage string
	Stdout         string
	Stderr         string
	ExitCode       int
}

// Sandbox compiles and runs candidate code against one input. A returned
// error means the executor itself failed (transport, timeout, malformed
// reply) and is never attributed to the submitter.
type Sandbox interface {
	Execute(ctx context.Context, language, source, stdin string) (*ExecResult, error)
}

// Report is the engine's only output. The engine persists nothing.
type Report struct {
	Verdict         model.Verdict
	TestsPassed     int
	TotalTests      int
	ExecutionTimeMs int

	// Diagnostic detail for the terminal state, when available.
	CompileMessage string
	ErrorOutput    string
	Expected       string
	Actual         string
}

type Engine struct {
	sandbox Sandbox
	now     func() time.Time
}

func NewEngine(sandbox Sandbox) *Engine {
	return &Engine{sandbox: sandbox, now: time.Now}
}

// Grade runs one submission through the verdict state machine: each test case
// is one sandbox call, in order, stopping at the first failure. The returned
// error is non-nil only alongside an InfrastructureError verdict and carries
// the executor fault for logging; every other terminal state reports err == nil.
func (e *Engine) Grade(ctx context.Context, language, source string, tests []model.TestCase) (*Report, error) {
	report := &Report{TotalTests: len(tests)}
	start := e.now()

	for i, tc := range tests {
		res, err := e.sandbox.Execute(ctx, language, source, tc.Input)
		if err != nil {
			report.Verdict = model.VerdictInfrastructureError
			report.ExecutionTimeMs = e.elapsedMs(start)
			return report, err
		}

		if res.CompileFailed {
			// The sandbox compiles per call, so a compile failure surfaces on
			// the first test. No test is considered run.
			report.Verdict = model.VerdictCompilationError
			report.CompileMessage = res.CompileMessage
			report.ExecutionTimeMs = e.elapsedMs(start)
			return report, nil
		}

		if res.ExitCode != 0 {
			report.Verdict = model.VerdictRuntimeError
			report.ErrorOutput = res.Stderr
			report.ExecutionTimeMs = e.elapsedMs(start)
			return report, nil
		}

		if !Equal(tc.ExpectedOutput, res.Stdout) {
			report.Verdict = model.VerdictWrongAnswer
			report.Expected = tc.ExpectedOutput
			report.Actual = res.Stdout
			report.ExecutionTimeMs = e.elapsedMs(start)
			return report, nil
		}

		report.TestsPassed = i + 1
	}

	report.Verdict = model.VerdictAccepted
	report.ExecutionTimeMs = e.elapsedMs(start)
	return report, nil
}

func (e *Engine) elapsedMs(start time.Time) int {
	return int(e.now().Sub(start) / time.Millisecond)
}
