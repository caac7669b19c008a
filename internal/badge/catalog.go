package badge

import (
	"code_arena/internal/domain/model"
)

// Catalog returns the seed badge definitions. Persisted into the badge store
// at startup; the store's awarded counters survive re-seeding.
func Catalog() []model.BadgeDefinition {
	return []model.BadgeDefinition{
		{
			ID:          "first-solve",
			Name:        "First Solve",
			Description: "Solved your first problem",
			Icon:        "Trophy",
			Emoji:       "🏆",
			Category:    model.CategoryAchievement,
			Rarity:      model.RarityCommon,
			Color:       "#FFD700",
			Criteria:    model.MilestoneCriteria{TargetAccepted: 1},
			IsActive:    true,
		},
		{
			ID:          "problem-solver-1",
			Name:        "Problem Solver I",
			Description: "Solved 10 problems",
			Icon:        "Gem",
			Emoji:       "💎",
			Category:    model.CategoryAchievement,
			Rarity:      model.RarityCommon,
			Color:       "#A78BFA",
			Criteria:    model.MilestoneCriteria{TargetAccepted: 10},
			IsActive:    true,
		},
		{
			ID:          "problem-solver-2",
			Name:        "Problem Solver II",
			Description: "Solved 25 problems",
			Icon:        "Gem",
			Emoji:       "💎",
			Category:    model.CategoryAchievement,
			Rarity:      model.RarityUncommon,
			Color:       "#A78BFA",
			Criteria:    model.MilestoneCriteria{TargetAccepted: 25},
			IsActive:    true,
		},
		{
			ID:          "problem-solver-3",
			Name:        "Problem Solver III",
			Description: "Solved 50 problems",
			Icon:        "Gem",
			Emoji:       "💎",
			Category:    model.CategoryAchievement,
			Rarity:      model.RarityRare,
			Color:       "#A78BFA",
			Criteria:    model.MilestoneCriteria{TargetAccepted: 50},
			IsActive:    true,
		},
		{
			ID:          "difficulty-conqueror",
			Name:        "Difficulty Conqueror",
			Description: "Solved problems across all difficulty levels",
			Icon:        "Crown",
			Emoji:       "👑",
			Category:    model.CategoryDifficulty,
			Rarity:      model.RarityRare,
			Color:       "#FBBF24",
			Criteria:    model.DifficultySpreadCriteria{MinPerDifficulty: 5},
			IsActive:    true,
		},
		{
			ID:          "streak-7-days",
			Name:        "7-Day Streak",
			Description: "Submitted code 7 days in a row",
			Icon:        "Flame",
			Emoji:       "🔥",
			Category:    model.CategoryStreak,
			Rarity:      model.RarityUncommon,
			Color:       "#F87171",
			Criteria:    model.StreakCriteria{TargetStreak: 7},
			IsActive:    true,
		},
		{
			ID:          "streak-30-days",
			Name:        "30-Day Streak",
			Description: "Submitted code 30 days in a row",
			Icon:        "Flame",
			Emoji:       "🔥",
			Category:    model.CategoryStreak,
			Rarity:      model.RarityRare,
			Color:       "#F87171",
			Criteria:    model.StreakCriteria{TargetStreak: 30},
			IsActive:    true,
		},
		{
			ID:          "speed-demon",
			Name:        "Speed Demon",
			Description: "Have the fastest solution for a problem",
			Icon:        "Zap",
			Emoji:       "⚡",
			Category:    model.CategoryPerformance,
			Rarity:      model.RarityUncommon,
			Color:       "#FBBF24",
			Criteria:    model.PerformanceCriteria{TargetCount: 1},
			IsActive:    true,
		},
		{
			ID:          "rocket-code",
			Name:        "Rocket Code",
			Description: "Both speed and memory optimized for a problem",
			Icon:        "Rocket",
			Emoji:       "🚀",
			Category:    model.CategoryPerformance,
			Rarity:      model.RarityRare,
			Color:       "#60A5FA",
			Criteria:    model.PerformanceCriteria{TargetCount: 1, RequireOptimized: true},
			IsActive:    true,
		},
		{
			ID:          "accuracy-ace",
			Name:        "Accuracy Ace",
			Description: "80% acceptance rate (10+ submissions)",
			Icon:        "Target",
			Emoji:       "🎯",
			Category:    model.CategoryAccuracy,
			Rarity:      model.RarityUncommon,
			Color:       "#34D399",
			Criteria:    model.AccuracyCriteria{RateTarget: 80, MinSamples: 10},
			IsActive:    true,
		},
		{
			ID:          "perfect-score",
			Name:        "Perfect Score",
			Description: "95% acceptance rate (20+ submissions)",
			Icon:        "100",
			Emoji:       "💯",
			Category:    model.CategoryAccuracy,
			Rarity:      model.RarityRare,
			Color:       "#34D399",
			Criteria:    model.AccuracyCriteria{RateTarget: 95, MinSamples: 20},
			IsActive:    true,
		},
		{
			ID:          "first-try-master",
			Name:        "First Try Master",
			Description: "Solve 10 problems on first attempt",
			Icon:        "CheckCircle",
			Emoji:       "✅",
			Category:    model.CategoryAccuracy,
			Rarity:      model.RarityUncommon,
			Color:       "#34D399",
			Criteria:    model.FirstTryCriteria{TargetCount: 10},
			IsActive:    true,
		},
		{
			ID:          "no-errors",
			Name:        "No Errors",
			Description: "20+ consecutive successful submissions",
			Icon:        "Shield",
			Emoji:       "🛡️",
			Category:    model.CategoryAccuracy,
			Rarity:      model.RarityRare,
			Color:       "#34D399",
			Criteria:    model.ConsecutiveAcceptedCriteria{TargetRun: 20},
			IsActive:    true,
		},
		{
			ID:          "debug-master",
			Name:        "Debug Master",
			Description: "50+ wrong answers then get it right",
			Icon:        "Search",
			Emoji:       "🔍",
			Category:    model.CategorySpecial,
			Rarity:      model.RarityUncommon,
			Color:       "#8B5CF6",
			Criteria:    model.DebugGrindCriteria{TargetFailures: 50},
			IsActive:    true,
		},
		{
			ID:          "gamer",
			Name:        "Gamer",
			Description: "Solved 100 problems",
			Icon:        "Gamepad2",
			Emoji:       "🎮",
			Category:    model.CategorySpecial,
			Rarity:      model.RarityLegendary,
			Color:       "#EC4899",
			Criteria:    model.MilestoneCriteria{TargetAccepted: 100},
			IsActive:    true,
		},
		{
			ID:          "master-mind",
			Name:        "Master Mind",
			Description: "Solve problems across all difficulty levels",
			Icon:        "Brain",
			Emoji:       "🧠",
			Category:    model.CategoryDifficulty,
			Rarity:      model.RarityRare,
			Color:       "#6366F1",
			Criteria:    model.DifficultySpreadCriteria{MinPerDifficulty: 1},
			IsActive:    true,
		},
	}
}
