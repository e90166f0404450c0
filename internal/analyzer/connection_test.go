package analyzer

import (
	"testing"

	"github.com/yourorg/harscope/internal/har"
)

func TestConnections(t *testing.T) {
	tbl := table(
		har.Entry{TotalTime: 100, Timings: har.Timings{Connect: 50, SSL: 20}},
		har.Entry{TotalTime: 100, Timings: har.Timings{Connect: 0}},
		har.Entry{TotalTime: 100, Timings: har.Timings{Connect: 0}},
		har.Entry{TotalTime: 100, Timings: har.Timings{Connect: 30}},
	)
	cs := Connections(tbl)
	if cs.NewConnections != 2 || cs.ReusedConnections != 2 {
		t.Fatalf("unexpected connection split: %+v", cs)
	}
	if cs.ReuseRatio != 50 {
		t.Fatalf("expected 50%% reuse, got %v", cs.ReuseRatio)
	}
	if cs.AvgConnectTime != 20 {
		t.Fatalf("expected avg connect 20, got %v", cs.AvgConnectTime)
	}
	if cs.SSLOverheadMs != 20 {
		t.Fatalf("expected ssl overhead 20, got %v", cs.SSLOverheadMs)
	}
	if cs.ConnectPercentage != 20 {
		t.Fatalf("expected connect share 20%%, got %v", cs.ConnectPercentage)
	}
}

func TestConnectionsEmpty(t *testing.T) {
	if cs := Connections(table()); cs.TotalRequests != 0 {
		t.Fatalf("expected zero stats, got %+v", cs)
	}
}

func TestConnectionRecommendations(t *testing.T) {
	cs := Connections(table(
		har.Entry{TotalTime: 1000, Timings: har.Timings{Connect: 300}},
		har.Entry{TotalTime: 1000, Timings: har.Timings{Connect: 250}},
	))
	recs := ConnectionRecommendations(cs)
	if len(recs) != 3 {
		t.Fatalf("expected reuse, setup time and overhead recommendations, got %d: %+v", len(recs), recs)
	}
	if recs[0].Priority != "High" {
		t.Fatalf("expected high priority first, got %+v", recs[0])
	}
}

func TestConnectionRecommendationsQuietWhenHealthy(t *testing.T) {
	cs := Connections(table(
		har.Entry{TotalTime: 1000},
		har.Entry{TotalTime: 1000},
		har.Entry{TotalTime: 1000, Timings: har.Timings{Connect: 20}},
	))
	if recs := ConnectionRecommendations(cs); len(recs) != 0 {
		t.Fatalf("expected no recommendations, got %+v", recs)
	}
}
