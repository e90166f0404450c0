package report

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/goccy/go-json"

	"github.com/yourorg/harscope/internal/analyzer"
	"github.com/yourorg/harscope/internal/har"
	"github.com/yourorg/harscope/pkg/types"
)

// WriteMarkdown renders the report to outputDir/report.md.
func WriteMarkdown(rep *types.Report, outputDir string) error {
	if rep == nil {
		return fmt.Errorf("report is nil")
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return err
	}

	b := &strings.Builder{}
	fmt.Fprintf(b, "# Capture Analysis: %s\n\n", rep.File)
	fmt.Fprintf(b, "Generated %s\n\n", rep.GeneratedAt.Format("2006-01-02 15:04:05 MST"))

	fmt.Fprintln(b, "## Summary")
	fmt.Fprintf(b, "- Grade: **%s** (%d/100)\n", rep.Score.Grade, rep.Score.Score)
	if rep.Score.Summary != "" {
		fmt.Fprintf(b, "- %s\n", rep.Score.Summary)
	}
	fmt.Fprintf(b, "- Entries: %s analyzed, %s skipped\n",
		humanize.Comma(int64(rep.Entries)), humanize.Comma(int64(rep.Skipped)))
	fmt.Fprintf(b, "- Unique endpoints: %d\n", rep.Stats.UniqueEndpoints)
	fmt.Fprintf(b, "- Avg response time: %.1f ms (min %.1f, max %.1f)\n",
		rep.Stats.AvgResponseTime, rep.Stats.MinResponseTime, rep.Stats.MaxResponseTime)
	fmt.Fprintf(b, "- Error rate: %.1f%%\n", rep.Stats.ErrorRate)
	fmt.Fprintf(b, "- Problematic requests: %d\n", rep.Stats.ProblematicCount)
	fmt.Fprintf(b, "- Transferred: %s\n\n", humanize.Bytes(uint64(max64(rep.Stats.TotalBytes, 0))))

	if len(rep.SlowestEndpoints) > 0 {
		fmt.Fprintln(b, "## Slowest Endpoints")
		fmt.Fprintln(b, "| Endpoint | Avg (ms) | Requests |")
		fmt.Fprintln(b, "|---|---|---|")
		for _, ep := range rep.SlowestEndpoints {
			fmt.Fprintf(b, "| %s | %.1f | %d |\n", ep.Endpoint, ep.AvgResponseTime, ep.RequestCount)
		}
		fmt.Fprintln(b)
	}

	fmt.Fprintln(b, "## Connections")
	fmt.Fprintf(b, "- New: %d, reused: %d (%.1f%% reuse)\n",
		rep.Connections.NewConnections, rep.Connections.ReusedConnections, rep.Connections.ReuseRatio)
	fmt.Fprintf(b, "- Avg connect time: %.1f ms, SSL overhead: %.1f ms\n",
		rep.Connections.AvgConnectTime, rep.Connections.SSLOverheadMs)
	fmt.Fprintf(b, "- Connection setup share of total time: %.1f%%\n\n", rep.Connections.ConnectPercentage)

	fmt.Fprintln(b, "## Caching")
	fmt.Fprintf(b, "- Cacheable requests: %d of %d (%.1f%%)\n",
		rep.Caching.CacheableRequests, rep.Caching.TotalRequests, rep.Caching.CacheablePercentage)
	fmt.Fprintf(b, "- Potential savings: %s\n\n", humanize.Bytes(uint64(max64(rep.Caching.PotentialSavings, 0))))

	fmt.Fprintln(b, "## Security")
	fmt.Fprintf(b, "- Score: %d/100\n", rep.Security.Score)
	for _, issue := range rep.Security.Issues {
		fmt.Fprintf(b, "- **%s** [%s]: %s\n", issue.Category, issue.Severity, issue.Description)
	}
	fmt.Fprintln(b)

	if len(rep.Resources) > 0 {
		fmt.Fprintln(b, "## Resources")
		fmt.Fprintln(b, "| Type | Count | Total Size | Avg Size |")
		fmt.Fprintln(b, "|---|---|---|---|")
		for _, r := range rep.Resources {
			fmt.Fprintf(b, "| %s | %d | %s | %s |\n",
				r.Type, r.Count,
				humanize.Bytes(uint64(max64(r.TotalSize, 0))),
				humanize.Bytes(uint64(r.AvgSize)))
		}
		fmt.Fprintln(b)
	}

	if len(rep.Domains) > 0 {
		fmt.Fprintln(b, "## Domains")
		fmt.Fprintln(b, "| Domain | Requests | Time Share | Transferred |")
		fmt.Fprintln(b, "|---|---|---|---|")
		for _, d := range rep.Domains {
			fmt.Fprintf(b, "| %s | %d | %.1f%% | %s |\n",
				d.Domain, d.RequestCount, d.TimePercentage,
				humanize.Bytes(uint64(max64(d.TotalSize, 0))))
		}
		fmt.Fprintln(b)
	}

	if len(rep.Recommendations) > 0 {
		fmt.Fprintln(b, "## Recommendations")
		for _, rec := range rep.Recommendations {
			fmt.Fprintf(b, "- **%s** (%s): %s\n", rec.Title, rec.Priority, rec.Description)
		}
	}

	return os.WriteFile(filepath.Join(outputDir, "report.md"), []byte(b.String()), 0o644)
}

// WriteJSON renders the full report document to outputDir/report.json.
func WriteJSON(rep *types.Report, outputDir string) error {
	if rep == nil {
		return fmt.Errorf("report is nil")
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(rep, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(outputDir, "report.json"), data, 0o644)
}

// csvHeader is the tabular contract plus the two derived annotation
// columns exporters add on top of it.
var csvHeader = append(append([]string{}, har.Columns...), "problems", "is_problematic")

// WriteCSV exports the annotated table to outputDir/entries.csv, one row
// per entry in capture order.
func WriteCSV(t *har.Table, ann []analyzer.Annotation, outputDir string) error {
	if t == nil {
		return fmt.Errorf("table is nil")
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return err
	}
	f, err := os.Create(filepath.Join(outputDir, "entries.csv"))
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(csvHeader); err != nil {
		return err
	}
	for i, row := range t.Rows() {
		var a analyzer.Annotation
		if i < len(ann) {
			a = ann[i]
		}
		if err := w.Write(csvRecord(row, a)); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func csvRecord(e har.Entry, a analyzer.Annotation) []string {
	return []string{
		e.URL,
		e.Endpoint,
		e.Method,
		strconv.Itoa(e.Status),
		e.StatusText,
		formatMs(e.TotalTime),
		formatMs(e.Blocked),
		formatMs(e.DNS),
		formatMs(e.Connect),
		formatMs(e.Send),
		formatMs(e.Wait),
		formatMs(e.Receive),
		formatMs(e.SSL),
		e.StartedDateTime,
		strconv.FormatInt(e.ResponseSize, 10),
		e.MimeType,
		strings.Join(a.Problems, "; "),
		strconv.FormatBool(a.Problematic),
	}
}

func formatMs(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func max64(v, floor int64) int64 {
	if v < floor {
		return floor
	}
	return v
}
