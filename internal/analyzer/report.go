package analyzer

import (
	"time"

	"github.com/yourorg/harscope/internal/har"
	"github.com/yourorg/harscope/pkg/types"
)

// Options controls report assembly.
type Options struct {
	Thresholds   Thresholds
	TopEndpoints int
}

// DefaultOptions returns the standard report options.
func DefaultOptions() Options {
	return Options{Thresholds: DefaultThresholds(), TopEndpoints: 10}
}

// BuildReport runs every analyzer over a parse result and assembles the
// full report document.
func BuildReport(file string, res *har.Result, opts Options) *types.Report {
	t := res.Table
	ann := Annotate(t, opts.Thresholds)
	stats := Stats(t, ann)
	conn := Connections(t)
	caching := Caching(t)

	var recs []types.Recommendation
	recs = append(recs, ConnectionRecommendations(conn)...)
	recs = append(recs, CachingRecommendations(caching)...)

	return &types.Report{
		File:             file,
		GeneratedAt:      time.Now().UTC(),
		Entries:          t.Len(),
		Skipped:          res.Skipped,
		Stats:            stats,
		Score:            ComputeScore(stats, conn),
		SlowestEndpoints: SlowestEndpoints(t, opts.TopEndpoints),
		Connections:      conn,
		Caching:          caching,
		Security:         Security(t),
		Resources:        Resources(t),
		Domains:          Domains(t),
		Recommendations:  recs,
	}
}

// Summarize condenses a report into a persistable run summary. The file
// hash ties the run back to the exact capture content.
func Summarize(rep *types.Report, fileHash string) *types.RunSummary {
	return &types.RunSummary{
		FilePath:        rep.File,
		FileHash:        fileHash,
		Entries:         rep.Entries,
		Skipped:         rep.Skipped,
		Score:           rep.Score.Score,
		Grade:           rep.Score.Grade,
		AvgResponseTime: rep.Stats.AvgResponseTime,
		ErrorRate:       rep.Stats.ErrorRate,
	}
}

// Compare diffs two run summaries.
func Compare(base, target types.RunSummary) types.Comparison {
	return types.Comparison{
		Base:        base,
		Target:      target,
		ScoreDelta:  target.Score - base.Score,
		Improvement: target.Score > base.Score,
		Metrics: map[string]float64{
			"avg_response_time": target.AvgResponseTime - base.AvgResponseTime,
			"error_rate":        target.ErrorRate - base.ErrorRate,
			"entries":           float64(target.Entries - base.Entries),
			"skipped":           float64(target.Skipped - base.Skipped),
		},
	}
}
