package model

import (
	"time"
)

type ProblemDifficulty string

const (
	DifficultyEasy   ProblemDifficulty = "Easy"
	DifficultyMedium ProblemDifficulty = "Medium"
	DifficultyHard   ProblemDifficulty = "Hard"
)

// Supported submission languages. The executor maps each tag to a concrete
// runtime version; anything outside this list is rejected before grading.
const (
	LangJavaScript = "javascript"
	LangPython     = "python"
	LangJava       = "java"
	LangCpp        = "cpp"
	LangGo         = "go"
)

func IsValidLanguage(lang string) bool {
	switch lang {
	case LangJavaScript, LangPython, LangJava, LangCpp, LangGo:
		return true
	}
	return false
}

type Problem struct {
	ID                string            `json:"id"`
	Title             string            `json:"title"`
	Slug              string            `json:"slug"`
	Description       string            `json:"description"`
	Difficulty        ProblemDifficulty `json:"difficulty"`
	CreatedByID       *string           `json:"created_by_id,omitempty"`
	CreatedAt         time.Time         `json:"created_at"`
	UpdatedAt         time.Time         `json:"updated_at"`
	Examples          []Example         `json:"examples,omitempty"`   // Public, shown on the problem page
	TestCases         []TestCase        `json:"test_cases,omitempty"` // Hidden, used for grading (admin only view)
	CreatedByUsername *string           `json:"created_by_username,omitempty"`
}

type Example struct {
	ID          string    `json:"id"`
	ProblemID   string    `json:"problem_id"`
	Input       string    `json:"input"`
	Output      string    `json:"output"`
	Explanation *string   `json:"explanation,omitempty"`
	SortOrder   int       `json:"sort_order"`
	CreatedAt   time.Time `json:"created_at"`
}

type TestCase struct { // Hidden test cases
	ID             string    `json:"id"`
	ProblemID      string    `json:"problem_id"`
	Input          string    `json:"input"`
	ExpectedOutput string    `json:"expected_output"`
	SortOrder      int       `json:"sort_order"`
	CreatedAt      time.Time `json:"created_at"`
}
