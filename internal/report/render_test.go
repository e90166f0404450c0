package report

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/yourorg/harscope/internal/analyzer"
	"github.com/yourorg/harscope/internal/har"
	"github.com/yourorg/harscope/pkg/types"
)

func sampleReport() *types.Report {
	return &types.Report{
		File:        "capture.har",
		GeneratedAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		Entries:     2,
		Skipped:     1,
		Stats: types.Stats{
			TotalRequests:   2,
			UniqueEndpoints: 2,
			AvgResponseTime: 350,
			MaxResponseTime: 600,
			MinResponseTime: 100,
			TotalBytes:      4096,
		},
		Score: types.Score{Score: 90, Grade: "A"},
		SlowestEndpoints: []types.EndpointStat{
			{Endpoint: "a.com/slow", AvgResponseTime: 600, RequestCount: 1},
		},
		Security: types.SecurityReport{Score: 100},
		Recommendations: []types.Recommendation{
			{Priority: "High", Title: "Enable keep-alive", Description: "Most requests open new connections."},
		},
	}
}

func TestWriteMarkdown(t *testing.T) {
	dir := t.TempDir()
	if err := WriteMarkdown(sampleReport(), dir); err != nil {
		t.Fatalf("WriteMarkdown: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(dir, "report.md"))
	if err != nil {
		t.Fatalf("read report.md: %v", err)
	}
	out := string(data)
	for _, want := range []string{
		"# Capture Analysis: capture.har",
		"Grade: **A** (90/100)",
		"a.com/slow",
		"Enable keep-alive",
		"4.1 kB",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("report.md missing %q:\n%s", want, out)
		}
	}
}

func TestWriteMarkdownNilReport(t *testing.T) {
	if err := WriteMarkdown(nil, t.TempDir()); err == nil {
		t.Fatal("expected error for nil report")
	}
}

func TestWriteJSON(t *testing.T) {
	dir := t.TempDir()
	if err := WriteJSON(sampleReport(), dir); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(dir, "report.json"))
	if err != nil {
		t.Fatalf("read report.json: %v", err)
	}
	var rep types.Report
	if err := json.Unmarshal(data, &rep); err != nil {
		t.Fatalf("report.json is not valid JSON: %v", err)
	}
	if rep.File != "capture.har" || rep.Score.Grade != "A" {
		t.Fatalf("round trip lost fields: %+v", rep)
	}
}

func TestWriteCSV(t *testing.T) {
	tbl := har.NewTable([]har.Entry{
		{
			URL: "https://a.com/x", Endpoint: "a.com/x", Method: "GET",
			Status: 200, StatusText: "OK", TotalTime: 120.5,
			Timings:         har.Timings{Wait: 50, Receive: 12.5},
			StartedDateTime: "2026-03-01T12:00:00Z",
			ResponseSize:    2048, MimeType: "application/json",
		},
		{
			URL: "https://a.com/slow", Endpoint: "a.com/slow", Method: "GET",
			Status: 500, TotalTime: 3000,
		},
	})
	ann := analyzer.Annotate(tbl, analyzer.DefaultThresholds())

	dir := t.TempDir()
	if err := WriteCSV(tbl, ann, dir); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}
	f, err := os.Open(filepath.Join(dir, "entries.csv"))
	if err != nil {
		t.Fatalf("open entries.csv: %v", err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("read entries.csv: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected header plus 2 rows, got %d records", len(records))
	}
	if got, want := len(records[0]), len(har.Columns)+2; got != want {
		t.Fatalf("expected %d columns, got %d", want, got)
	}
	if records[0][len(records[0])-2] != "problems" || records[0][len(records[0])-1] != "is_problematic" {
		t.Fatalf("unexpected derived header: %v", records[0])
	}
	if records[1][0] != "https://a.com/x" || records[1][len(records[1])-1] != "false" {
		t.Fatalf("unexpected first row: %v", records[1])
	}
	last := records[2]
	if last[len(last)-1] != "true" || !strings.Contains(last[len(last)-2], "Slow Response") {
		t.Fatalf("slow row must be flagged: %v", last)
	}
}
