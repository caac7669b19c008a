package judge

import "strings"

// EstimateMemoryScore scores a submission's memory footprint from the shape
// of its source, 0 (heavy) to 100 (lean). A real measurement would come from
// the sandbox; until it reports one, this heuristic feeds the
// memory-optimized performance badge (score >= 60 counts as optimized).
func EstimateMemoryScore(code string) int {
	score := 50

	if strings.Contains(code, "[][]") || strings.Contains(code, "new Array") {
		score -= 15
	}
	if strings.Contains(code, "while (") && strings.Contains(code, "// Nested") {
		score -= 10
	}
	if strings.Contains(code, "Map") || strings.Contains(code, "Set") {
		score -= 5
	}

	if strings.Contains(code, "for (let") && !strings.Contains(code, "nested") {
		score += 10
	}
	if strings.Contains(code, "const result = ") {
		score += 5
	}

	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
