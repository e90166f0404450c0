package analyzer

import (
	"fmt"

	"github.com/yourorg/harscope/pkg/types"
)

// ComputeScore condenses the findings into a 0-100 score and a grade.
// Starts from 100 and deducts for slow averages, errors, problematic rows
// and wasted connection time.
func ComputeScore(stats types.Stats, conn types.ConnectionStats) types.Score {
	if stats.TotalRequests == 0 {
		return types.Score{Grade: "N/A", Summary: "no requests analyzed"}
	}
	score := 100.0

	switch {
	case stats.AvgResponseTime > 2000:
		score -= 35
	case stats.AvgResponseTime > 1000:
		score -= 25
	case stats.AvgResponseTime > 500:
		score -= 10
	}

	score -= stats.ErrorRate // one point per error percent
	if pct := float64(stats.ProblematicCount) / float64(stats.TotalRequests) * 100; pct > 0 {
		score -= pct / 4
	}
	if conn.ConnectPercentage > 15 {
		score -= 10
	}

	if score < 0 {
		score = 0
	}
	rounded := int(score + 0.5)
	return types.Score{
		Score: rounded,
		Grade: grade(rounded),
		Summary: fmt.Sprintf("%d requests, %.0f ms average, %.1f%% errors",
			stats.TotalRequests, stats.AvgResponseTime, stats.ErrorRate),
	}
}

func grade(score int) string {
	switch {
	case score >= 90:
		return "A"
	case score >= 80:
		return "B"
	case score >= 70:
		return "C"
	case score >= 60:
		return "D"
	default:
		return "F"
	}
}
