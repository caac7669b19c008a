package model

import "time"

type Verdict string

const (
	VerdictAccepted            Verdict = "Accepted"
	VerdictWrongAnswer         Verdict = "WrongAnswer"
	VerdictRuntimeError        Verdict = "RuntimeError"
	VerdictCompilationError    Verdict = "CompilationError"
	VerdictInfrastructureError Verdict = "InfrastructureError"
)

// Submission is one graded attempt. Immutable once grading completes;
// owned exclusively by the account that created it.
type Submission struct {
	ID              string            `json:"id"`
	AccountID       string            `json:"account_id"`
	ProblemID       string            `json:"problem_id"`
	ProblemSlug     string            `json:"problem_slug"`
	ProblemTitle    string            `json:"problem_title,omitempty"`
	Code            string            `json:"code,omitempty"` // Omitted from listings
	Language        string            `json:"language"`
	Verdict         Verdict           `json:"verdict"`
	TestsPassed     int               `json:"tests_passed"`
	TotalTests      int               `json:"total_tests"`
	ExecutionTimeMs int               `json:"execution_time_ms"`
	MemoryScore     int               `json:"memory_score"` // Heuristic estimate, 0-100
	Difficulty      ProblemDifficulty `json:"difficulty"`   // Copied from the problem at grading time
	SubmittedAt     time.Time         `json:"submitted_at"`
}
