package analyzer

import (
	"sort"

	"github.com/yourorg/harscope/internal/har"
	"github.com/yourorg/harscope/pkg/types"
)

// Thresholds are the cutoffs used to tag problematic requests, in ms.
type Thresholds struct {
	SlowResponseMs    float64
	HighWaitMs        float64
	ConnectionDelayMs float64
	DNSDelayMs        float64
}

// DefaultThresholds returns the standard cutoffs.
func DefaultThresholds() Thresholds {
	return Thresholds{
		SlowResponseMs:    1000,
		HighWaitMs:        500,
		ConnectionDelayMs: 1000,
		DNSDelayMs:        100,
	}
}

// Annotation carries the derived per-row columns (problem tags and the
// problematic flag). These are layered on top of the parser's table, which
// never contains them.
type Annotation struct {
	Problems    []string
	Problematic bool
}

// Annotate tags every row with the performance problems it exhibits.
// The returned slice is index-aligned with the table's rows.
func Annotate(t *har.Table, th Thresholds) []Annotation {
	out := make([]Annotation, t.Len())
	for i, row := range t.Rows() {
		var problems []string
		if row.TotalTime > th.SlowResponseMs {
			problems = append(problems, "Slow Response")
		}
		if row.Wait > th.HighWaitMs {
			problems = append(problems, "High Server Wait")
		}
		if row.Status >= 400 {
			problems = append(problems, "Error Response")
		}
		if row.Connect > th.ConnectionDelayMs {
			problems = append(problems, "Connection Delay")
		}
		if row.DNS > th.DNSDelayMs {
			problems = append(problems, "DNS Delay")
		}
		out[i] = Annotation{Problems: problems, Problematic: len(problems) > 0}
	}
	return out
}

// Stats computes the capture-wide summary numbers.
func Stats(t *har.Table, ann []Annotation) types.Stats {
	if t.Len() == 0 {
		return types.Stats{}
	}
	endpoints := make(map[string]struct{})
	var errorCount, problematic int
	var sum, max float64
	min := t.Row(0).TotalTime
	var totalBytes int64
	for i, row := range t.Rows() {
		endpoints[row.Endpoint] = struct{}{}
		if row.Status >= 400 {
			errorCount++
		}
		if i < len(ann) && ann[i].Problematic {
			problematic++
		}
		sum += row.TotalTime
		if row.TotalTime > max {
			max = row.TotalTime
		}
		if row.TotalTime < min {
			min = row.TotalTime
		}
		totalBytes += row.ResponseSize
	}
	n := t.Len()
	return types.Stats{
		TotalRequests:    n,
		UniqueEndpoints:  len(endpoints),
		ErrorRate:        float64(errorCount) / float64(n) * 100,
		AvgResponseTime:  sum / float64(n),
		MaxResponseTime:  max,
		MinResponseTime:  min,
		ProblematicCount: problematic,
		TotalBytes:       totalBytes,
	}
}

// SlowestEndpoints groups rows by endpoint and returns the top limit
// endpoints by mean total time.
func SlowestEndpoints(t *har.Table, limit int) []types.EndpointStat {
	type agg struct {
		sum   float64
		count int
	}
	byEndpoint := make(map[string]*agg)
	for _, row := range t.Rows() {
		a := byEndpoint[row.Endpoint]
		if a == nil {
			a = &agg{}
			byEndpoint[row.Endpoint] = a
		}
		a.sum += row.TotalTime
		a.count++
	}
	stats := make([]types.EndpointStat, 0, len(byEndpoint))
	for endpoint, a := range byEndpoint {
		stats = append(stats, types.EndpointStat{
			Endpoint:        endpoint,
			AvgResponseTime: a.sum / float64(a.count),
			RequestCount:    a.count,
		})
	}
	sort.Slice(stats, func(i, j int) bool {
		if stats[i].AvgResponseTime != stats[j].AvgResponseTime {
			return stats[i].AvgResponseTime > stats[j].AvgResponseTime
		}
		return stats[i].Endpoint < stats[j].Endpoint
	})
	if limit > 0 && len(stats) > limit {
		stats = stats[:limit]
	}
	return stats
}
