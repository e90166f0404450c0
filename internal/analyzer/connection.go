package analyzer

import (
	"fmt"

	"github.com/yourorg/harscope/internal/har"
	"github.com/yourorg/harscope/pkg/types"
)

// Connections analyzes connection setup behavior. A request with a
// positive connect phase opened a new connection; connect == 0 means the
// connection was reused (or the phase was unknown, which the normalizer
// folds into 0 on purpose).
func Connections(t *har.Table) types.ConnectionStats {
	n := t.Len()
	if n == 0 {
		return types.ConnectionStats{}
	}
	var newConns int
	var connectSum, sslSum, sslOverhead, totalTime float64
	for _, row := range t.Rows() {
		if row.Connect > 0 {
			newConns++
		}
		connectSum += row.Connect
		sslSum += row.SSL
		if row.SSL > 0 {
			sslOverhead += row.SSL
		}
		totalTime += row.TotalTime
	}
	stats := types.ConnectionStats{
		TotalRequests:     n,
		NewConnections:    newConns,
		ReusedConnections: n - newConns,
		ReuseRatio:        float64(n-newConns) / float64(n) * 100,
		AvgConnectTime:    connectSum / float64(n),
		AvgSSLTime:        sslSum / float64(n),
		SSLOverheadMs:     sslOverhead,
	}
	if totalTime > 0 {
		stats.ConnectPercentage = connectSum / totalTime * 100
	}
	return stats
}

// ConnectionRecommendations derives tuning suggestions from connection
// stats.
func ConnectionRecommendations(cs types.ConnectionStats) []types.Recommendation {
	if cs.TotalRequests == 0 {
		return nil
	}
	var recs []types.Recommendation
	if cs.ReuseRatio < 50 {
		recs = append(recs, types.Recommendation{
			Priority: "High",
			Title:    "Low connection reuse",
			Description: fmt.Sprintf(
				"Only %.1f%% of connections are reused. Enable HTTP keep-alive and connection pooling.", cs.ReuseRatio),
		})
	}
	if cs.AvgConnectTime > 100 {
		recs = append(recs, types.Recommendation{
			Priority: "Medium",
			Title:    "High connection setup time",
			Description: fmt.Sprintf(
				"Average connection setup takes %.0f ms. Consider a CDN or servers closer to users.", cs.AvgConnectTime),
		})
	}
	if cs.ConnectPercentage > 15 {
		recs = append(recs, types.Recommendation{
			Priority: "Medium",
			Title:    "Connection overhead dominates",
			Description: fmt.Sprintf(
				"Connection setup accounts for %.1f%% of total time. Consolidate domains to reduce handshakes.", cs.ConnectPercentage),
		})
	}
	return recs
}
