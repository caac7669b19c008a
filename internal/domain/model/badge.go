package model

import (
	"encoding/json"
	"fmt"
	"time"
)

type BadgeCategory string

const (
	CategoryAchievement BadgeCategory = "achievement"
	CategoryDifficulty  BadgeCategory = "difficulty"
	CategoryStreak      BadgeCategory = "streak"
	CategoryPerformance BadgeCategory = "performance"
	CategoryAccuracy    BadgeCategory = "accuracy"
	CategoryLanguage    BadgeCategory = "language"
	CategoryTime        BadgeCategory = "time"
	CategoryCommunity   BadgeCategory = "community"
	CategorySpecial     BadgeCategory = "special"
)

type BadgeRarity string

const (
	RarityCommon    BadgeRarity = "common"
	RarityUncommon  BadgeRarity = "uncommon"
	RarityRare      BadgeRarity = "rare"
	RarityLegendary BadgeRarity = "legendary"
)

type CriteriaType string

const (
	CriteriaMilestone   CriteriaType = "milestone"
	CriteriaStreak      CriteriaType = "streak"
	CriteriaAccuracy    CriteriaType = "accuracy"
	CriteriaFirstTry    CriteriaType = "first-try"
	CriteriaPerformance CriteriaType = "performance"
	CriteriaHidden      CriteriaType = "hidden"
)

// Criteria is a closed set of badge conditions. The rule engine dispatches on
// the concrete variant with a type switch; no condition strings are parsed.
type Criteria interface {
	Type() CriteriaType
	Target() int
}

// MilestoneCriteria: total accepted submissions reach a threshold.
type MilestoneCriteria struct {
	TargetAccepted int
}

func (c MilestoneCriteria) Type() CriteriaType { return CriteriaMilestone }
func (c MilestoneCriteria) Target() int        { return c.TargetAccepted }

// DifficultySpreadCriteria: at least MinPerDifficulty distinct problems solved
// at every difficulty level.
type DifficultySpreadCriteria struct {
	MinPerDifficulty int
}

func (c DifficultySpreadCriteria) Type() CriteriaType { return CriteriaMilestone }
func (c DifficultySpreadCriteria) Target() int        { return c.MinPerDifficulty * 3 }

// StreakCriteria: consecutive-day submission streak reaches a threshold.
type StreakCriteria struct {
	TargetStreak int
}

func (c StreakCriteria) Type() CriteriaType { return CriteriaStreak }
func (c StreakCriteria) Target() int        { return c.TargetStreak }

// AccuracyCriteria: acceptance rate threshold with a minimum-sample floor so a
// single lucky submission never qualifies.
type AccuracyCriteria struct {
	RateTarget int
	MinSamples int
}

func (c AccuracyCriteria) Type() CriteriaType { return CriteriaAccuracy }
func (c AccuracyCriteria) Target() int        { return c.RateTarget }

// ConsecutiveAcceptedCriteria: an unbroken run of accepted submissions,
// measured against submission history rather than the stats snapshot.
type ConsecutiveAcceptedCriteria struct {
	TargetRun int
}

func (c ConsecutiveAcceptedCriteria) Type() CriteriaType { return CriteriaAccuracy }
func (c ConsecutiveAcceptedCriteria) Target() int        { return c.TargetRun }

// FirstTryCriteria: problems solved on the very first attempt.
type FirstTryCriteria struct {
	TargetCount int
}

func (c FirstTryCriteria) Type() CriteriaType { return CriteriaFirstTry }
func (c FirstTryCriteria) Target() int        { return c.TargetCount }

// PerformanceCriteria: number of problems where the account holds the fastest
// accepted solution. RequireOptimized additionally demands a memory-optimized
// submission (heuristic score >= 60).
type PerformanceCriteria struct {
	TargetCount      int
	RequireOptimized bool
}

func (c PerformanceCriteria) Type() CriteriaType { return CriteriaPerformance }
func (c PerformanceCriteria) Target() int        { return c.TargetCount }

// DebugGrindCriteria: accumulated failing attempts before an eventual accepted
// attempt, summed across problems.
type DebugGrindCriteria struct {
	TargetFailures int
}

func (c DebugGrindCriteria) Type() CriteriaType { return CriteriaHidden }
func (c DebugGrindCriteria) Target() int        { return c.TargetFailures }

const (
	criteriaKindMilestone           = "milestone"
	criteriaKindDifficultySpread    = "difficulty-spread"
	criteriaKindStreak              = "streak"
	criteriaKindAccuracy            = "accuracy"
	criteriaKindConsecutiveAccepted = "consecutive-accepted"
	criteriaKindFirstTry            = "first-try"
	criteriaKindPerformance         = "performance"
	criteriaKindDebugGrind          = "debug-grind"
)

type criteriaWire struct {
	Kind             string `json:"kind"`
	Target           int    `json:"target,omitempty"`
	MinSamples       int    `json:"min_samples,omitempty"`
	MinPerDifficulty int    `json:"min_per_difficulty,omitempty"`
	RequireOptimized bool   `json:"require_optimized,omitempty"`
}

// EncodeCriteria serializes a criteria variant for storage in the badge catalog.
func EncodeCriteria(c Criteria) ([]byte, error) {
	var w criteriaWire
	switch v := c.(type) {
	case MilestoneCriteria:
		w = criteriaWire{Kind: criteriaKindMilestone, Target: v.TargetAccepted}
	case DifficultySpreadCriteria:
		w = criteriaWire{Kind: criteriaKindDifficultySpread, MinPerDifficulty: v.MinPerDifficulty}
	case StreakCriteria:
		w = criteriaWire{Kind: criteriaKindStreak, Target: v.TargetStreak}
	case AccuracyCriteria:
		w = criteriaWire{Kind: criteriaKindAccuracy, Target: v.RateTarget, MinSamples: v.MinSamples}
	case ConsecutiveAcceptedCriteria:
		w = criteriaWire{Kind: criteriaKindConsecutiveAccepted, Target: v.TargetRun}
	case FirstTryCriteria:
		w = criteriaWire{Kind: criteriaKindFirstTry, Target: v.TargetCount}
	case PerformanceCriteria:
		w = criteriaWire{Kind: criteriaKindPerformance, Target: v.TargetCount, RequireOptimized: v.RequireOptimized}
	case DebugGrindCriteria:
		w = criteriaWire{Kind: criteriaKindDebugGrind, Target: v.TargetFailures}
	default:
		return nil, fmt.Errorf("unknown criteria variant %T", c)
	}
	return json.Marshal(w)
}

// DecodeCriteria is the inverse of EncodeCriteria.
func DecodeCriteria(data []byte) (Criteria, error) {
	var w criteriaWire
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("decode criteria: %w", err)
	}
	switch w.Kind {
	case criteriaKindMilestone:
		return MilestoneCriteria{TargetAccepted: w.Target}, nil
	case criteriaKindDifficultySpread:
		return DifficultySpreadCriteria{MinPerDifficulty: w.MinPerDifficulty}, nil
	case criteriaKindStreak:
		return StreakCriteria{TargetStreak: w.Target}, nil
	case criteriaKindAccuracy:
		return AccuracyCriteria{RateTarget: w.Target, MinSamples: w.MinSamples}, nil
	case criteriaKindConsecutiveAccepted:
		return ConsecutiveAcceptedCriteria{TargetRun: w.Target}, nil
	case criteriaKindFirstTry:
		return FirstTryCriteria{TargetCount: w.Target}, nil
	case criteriaKindPerformance:
		return PerformanceCriteria{TargetCount: w.Target, RequireOptimized: w.RequireOptimized}, nil
	case criteriaKindDebugGrind:
		return DebugGrindCriteria{TargetFailures: w.Target}, nil
	}
	return nil, fmt.Errorf("unknown criteria kind %q", w.Kind)
}

// BadgeDefinition is a catalog entry. Effectively immutable configuration;
// only AwardedCount changes after seeding.
type BadgeDefinition struct {
	ID           string        `json:"badge_id"`
	Name         string        `json:"name"`
	Description  string        `json:"description"`
	Icon         string        `json:"icon"` // Lucide icon name
	Emoji        string        `json:"emoji"`
	Category     BadgeCategory `json:"category"`
	Rarity       BadgeRarity   `json:"rarity"`
	Color        string        `json:"color"`
	Criteria     Criteria      `json:"-"`
	AwardedCount int           `json:"awarded_count"`
	IsActive     bool          `json:"is_active"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

// AwardRecord is the fact "this account has earned this badge". At most one
// per (account, badge) pair, enforced by the award store.
type AwardRecord struct {
	AccountID     string    `json:"account_id"`
	BadgeID       string    `json:"badge_id"`
	AwardedAt     time.Time `json:"awarded_at"`
	ProgressValue int       `json:"progress_value"`
}

// EarnedBadge is the response shape for a freshly awarded badge.
type EarnedBadge struct {
	BadgeID string      `json:"badge_id"`
	Name    string      `json:"name"`
	Emoji   string      `json:"emoji"`
	Rarity  BadgeRarity `json:"rarity"`
}

type BadgeProgress struct {
	BadgeID            string `json:"badge_id"`
	Name               string `json:"name"`
	Emoji              string `json:"emoji"`
	IsEarned           bool   `json:"is_earned"`
	CurrentProgress    int    `json:"current_progress"`
	TargetProgress     int    `json:"target_progress"`
	ProgressPercentage int    `json:"progress_percentage"`
}

type ProgressReport struct {
	EarnedCount int             `json:"earned_count"`
	TotalBadges int             `json:"total_badges"`
	Progress    []BadgeProgress `json:"progress"`
}
