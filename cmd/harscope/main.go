package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/yourorg/harscope/internal/analyzer"
	"github.com/yourorg/harscope/internal/config"
	"github.com/yourorg/harscope/internal/har"
	"github.com/yourorg/harscope/internal/logger"
	"github.com/yourorg/harscope/internal/report"
	"github.com/yourorg/harscope/internal/store"
	"github.com/yourorg/harscope/pkg/types"
)

const defaultConfigContent = `thresholds:
  slow_response_ms: 1000
  high_wait_ms: 500
  connection_delay_ms: 1000
  dns_delay_ms: 100

parser:
  chunk_threshold: 10000
  chunk_size: 1000
  max_file_size_mb: 50
  min_file_size_bytes: 100

output:
  dir: "./output"
  formats:
    - markdown
    - json
    - csv

report:
  top_endpoints: 10

log:
  level: "info"
  pretty: true
`

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var cfgPath string
	var verbose bool

	root := &cobra.Command{
		Use:   "harscope",
		Short: "HTTP capture analysis CLI",
	}

	root.PersistentFlags().StringVar(&cfgPath, "config", "", "config file path")
	root.PersistentFlags().BoolVar(&verbose, "verbose", false, "enable debug output")

	load := func() (*config.Config, error) {
		cfg, err := config.Load(cfgPath)
		if err != nil {
			return nil, err
		}
		level := cfg.Log.Level
		if verbose {
			level = "debug"
		}
		logger.Init(level, cfg.Log.Pretty)
		return cfg, nil
	}

	root.AddCommand(newInitCmd())
	root.AddCommand(newAnalyzeCmd(load))
	root.AddCommand(newReportCmd(load))
	root.AddCommand(newCompareCmd(load))
	root.AddCommand(newRunsCmd(load))
	root.AddCommand(newDeleteCmd(load))

	return root
}

type configLoader func() (*config.Config, error)

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize ~/.harscope directory and default config",
		RunE: func(cmd *cobra.Command, args []string) error {
			home, err := os.UserHomeDir()
			if err != nil {
				return err
			}
			baseDir := filepath.Join(home, ".harscope")
			if err := os.MkdirAll(baseDir, 0o755); err != nil {
				return err
			}

			cfgFile := filepath.Join(baseDir, "config.yaml")
			if _, err := os.Stat(cfgFile); errors.Is(err, os.ErrNotExist) {
				if err := os.WriteFile(cfgFile, []byte(defaultConfigContent), 0o644); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "created", cfgFile)
			} else if err == nil {
				fmt.Fprintln(cmd.OutOrStdout(), "exists", cfgFile)
			} else {
				return err
			}

			dbPath := filepath.Join(baseDir, "harscope.db")
			s, err := store.NewSQLiteStore(dbPath)
			if err != nil {
				return err
			}
			defer s.Close()
			fmt.Fprintln(cmd.OutOrStdout(), "database ready", dbPath)
			return nil
		},
	}
}

// filterFlags registers the row-filter flags shared by analyze and
// report. The returned Filter is zero-valued (matches everything) until
// the command runs.
func filterFlags(cmd *cobra.Command) *analyzer.Filter {
	f := &analyzer.Filter{}
	cmd.Flags().StringVar(&f.Method, "method", "", "only requests with this HTTP method")
	cmd.Flags().StringVar(&f.StatusClass, "status", "", "only this status class: 2xx, 3xx, 4xx, 5xx or error")
	cmd.Flags().StringVar(&f.EndpointContains, "endpoint", "", "only endpoints containing this substring")
	cmd.Flags().StringVar(&f.MimeContains, "mime", "", "only MIME types containing this substring")
	cmd.Flags().Float64Var(&f.MinTotalTime, "min-time", 0, "only requests at least this slow, in ms")
	cmd.Flags().BoolVar(&f.ProblematicOnly, "problematic-only", false, "only requests tagged with a problem")
	return f
}

func newAnalyzeCmd(load configLoader) *cobra.Command {
	var harPath, outDir string
	var formats []string
	var noSave bool
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Analyze a capture, write reports and record the run",
	}
	f := filterFlags(cmd)
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		cfg, err := load()
		if err != nil {
			return err
		}
		applyOutputFlags(cfg, outDir, formats)
		if err := cfg.Validate(); err != nil {
			return err
		}

		rep, res, hash, err := analyzeCapture(cfg, harPath, *f)
		if err != nil {
			return err
		}
		if err := writeReports(cfg, rep, res); err != nil {
			return err
		}
		printSummary(cmd, rep)

		if noSave {
			return nil
		}
		s, err := store.NewSQLiteStore(cfg.Store.Path)
		if err != nil {
			return err
		}
		defer s.Close()

		run := analyzer.Summarize(rep, hash)
		if prev, err := s.LatestRunForHash(hash); err == nil {
			delta := run.Score - prev.Score
			fmt.Fprintf(cmd.OutOrStdout(), "previous run %s scored %d (%+d)\n", prev.ID, prev.Score, delta)
		} else if !errors.Is(err, store.ErrNotFound) {
			return err
		}
		if err := s.SaveRun(run); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "run saved:", run.ID)
		return nil
	}
	cmd.Flags().StringVar(&harPath, "har", "", "capture file path (.har, optionally gzipped)")
	cmd.Flags().StringVar(&outDir, "out", "", "output directory (overrides config)")
	cmd.Flags().StringSliceVar(&formats, "format", nil, "output formats: markdown, json, csv")
	cmd.Flags().BoolVar(&noSave, "no-save", false, "do not record the run")
	_ = cmd.MarkFlagRequired("har")
	return cmd
}

func newReportCmd(load configLoader) *cobra.Command {
	var harPath, outDir string
	var formats []string
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Analyze a capture and write reports without recording a run",
	}
	f := filterFlags(cmd)
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		cfg, err := load()
		if err != nil {
			return err
		}
		applyOutputFlags(cfg, outDir, formats)
		if err := cfg.Validate(); err != nil {
			return err
		}
		rep, res, _, err := analyzeCapture(cfg, harPath, *f)
		if err != nil {
			return err
		}
		if err := writeReports(cfg, rep, res); err != nil {
			return err
		}
		printSummary(cmd, rep)
		return nil
	}
	cmd.Flags().StringVar(&harPath, "har", "", "capture file path (.har, optionally gzipped)")
	cmd.Flags().StringVar(&outDir, "out", "", "output directory (overrides config)")
	cmd.Flags().StringSliceVar(&formats, "format", nil, "output formats: markdown, json, csv")
	_ = cmd.MarkFlagRequired("har")
	return cmd
}

func newCompareCmd(load configLoader) *cobra.Command {
	var baseID, targetID, baseHar, targetHar string
	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Compare two recorded runs or two capture files",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			byRun := baseID != "" || targetID != ""
			byFile := baseHar != "" || targetHar != ""
			switch {
			case byRun && byFile:
				return errors.New("compare either run ids or capture files, not both")
			case byRun && (baseID == "" || targetID == ""):
				return errors.New("--base and --target must be given together")
			case byFile && (baseHar == "" || targetHar == ""):
				return errors.New("--base-har and --target-har must be given together")
			case !byRun && !byFile:
				return errors.New("nothing to compare: give --base/--target or --base-har/--target-har")
			}

			if byFile {
				return compareFiles(cmd, cfg, baseHar, targetHar)
			}

			s, err := store.NewSQLiteStore(cfg.Store.Path)
			if err != nil {
				return err
			}
			defer s.Close()

			base, err := s.GetRun(baseID)
			if err != nil {
				return fmt.Errorf("base run %s: %w", baseID, err)
			}
			target, err := s.GetRun(targetID)
			if err != nil {
				return fmt.Errorf("target run %s: %w", targetID, err)
			}
			printComparison(cmd, base, target)
			return nil
		},
	}
	cmd.Flags().StringVar(&baseID, "base", "", "base run id")
	cmd.Flags().StringVar(&targetID, "target", "", "target run id")
	cmd.Flags().StringVar(&baseHar, "base-har", "", "base capture file path")
	cmd.Flags().StringVar(&targetHar, "target-har", "", "target capture file path")
	return cmd
}

// compareFiles analyzes two capture files side by side. Both go through
// one memoizing cache, so comparing a file against itself (or against an
// identical export) parses the content once.
func compareFiles(cmd *cobra.Command, cfg *config.Config, basePath, targetPath string) error {
	cache := har.NewResultCache(newParser(cfg), time.Minute)
	base, err := summarizeFile(cfg, cache, basePath)
	if err != nil {
		return fmt.Errorf("base capture %s: %w", basePath, err)
	}
	target, err := summarizeFile(cfg, cache, targetPath)
	if err != nil {
		return fmt.Errorf("target capture %s: %w", targetPath, err)
	}
	printComparison(cmd, base, target)
	return nil
}

func summarizeFile(cfg *config.Config, cache *har.ResultCache, path string) (*types.RunSummary, error) {
	content, err := loadCapture(cfg, path)
	if err != nil {
		return nil, err
	}
	res, err := cache.Parse(content)
	if err != nil {
		return nil, err
	}
	rep := analyzer.BuildReport(path, res, reportOptions(cfg))
	return analyzer.Summarize(rep, har.ContentHash(content)), nil
}

func printComparison(cmd *cobra.Command, base, target *types.RunSummary) {
	diff := analyzer.Compare(*base, *target)
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "base:   %s  score %d (%s)\n", compareLabel(base), base.Score, base.Grade)
	fmt.Fprintf(out, "target: %s  score %d (%s)\n", compareLabel(target), target.Score, target.Grade)
	verdict := "regression"
	if diff.Improvement {
		verdict = "improvement"
	} else if diff.ScoreDelta == 0 {
		verdict = "no change"
	}
	fmt.Fprintf(out, "score delta: %+d (%s)\n", diff.ScoreDelta, verdict)
	fmt.Fprintf(out, "avg response time: %+.1f ms\n", diff.Metrics["avg_response_time"])
	fmt.Fprintf(out, "error rate: %+.1f%%\n", diff.Metrics["error_rate"])
}

func compareLabel(run *types.RunSummary) string {
	if run.ID != "" {
		return run.ID + "  " + run.FilePath
	}
	return run.FilePath
}

func newRunsCmd(load configLoader) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List recorded runs, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			s, err := store.NewSQLiteStore(cfg.Store.Path)
			if err != nil {
				return err
			}
			defer s.Close()

			runs, err := s.ListRuns(limit)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(runs) == 0 {
				fmt.Fprintln(out, "no runs recorded")
				return nil
			}
			for _, r := range runs {
				fmt.Fprintf(out, "%s  %s  score %3d (%s)  %d entries  %s\n",
					r.ID, r.CreatedAt.Format("2006-01-02 15:04"), r.Score, r.Grade, r.Entries, r.FilePath)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "max runs to list (0 = all)")
	return cmd
}

func newDeleteCmd(load configLoader) *cobra.Command {
	var runID string
	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Delete a recorded run",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			s, err := store.NewSQLiteStore(cfg.Store.Path)
			if err != nil {
				return err
			}
			defer s.Close()
			if err := s.DeleteRun(runID); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "deleted", runID)
			return nil
		},
	}
	cmd.Flags().StringVar(&runID, "run", "", "run id")
	_ = cmd.MarkFlagRequired("run")
	return cmd
}

func applyOutputFlags(cfg *config.Config, outDir string, formats []string) {
	if outDir != "" {
		cfg.Output.Dir = outDir
	}
	if len(formats) > 0 {
		cfg.Output.Formats = formats
	}
}

// analyzeCapture loads, parses, filters and analyzes one capture file.
// The returned Result holds the filtered table, so reports and CSV rows
// always agree on the same view.
func analyzeCapture(cfg *config.Config, path string, f analyzer.Filter) (*types.Report, *har.Result, string, error) {
	content, err := loadCapture(cfg, path)
	if err != nil {
		return nil, nil, "", err
	}

	res, err := newParser(cfg).Parse(content)
	if err != nil {
		return nil, nil, "", err
	}
	log.Info().
		Str("file", path).
		Int("entries", res.Table.Len()).
		Int("skipped", res.Skipped).
		Msg("capture parsed")

	res = filterResult(cfg, res, f)
	rep := analyzer.BuildReport(path, res, reportOptions(cfg))
	return rep, res, har.ContentHash(content), nil
}

// loadCapture reads a capture file with the size limits enforced, so
// oversized or truncated files never reach the parser.
func loadCapture(cfg *config.Config, path string) ([]byte, error) {
	content, err := har.Load(path)
	if err != nil {
		return nil, err
	}
	if err := checkFileSize(cfg, len(content)); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return content, nil
}

func newParser(cfg *config.Config) *har.Parser {
	p := har.NewParser()
	p.ChunkThreshold = cfg.Parser.ChunkThreshold
	p.ChunkSize = cfg.Parser.ChunkSize
	p.OnProgress = func(done, total int) {
		log.Debug().Int("done", done).Int("total", total).Msg("parsing capture")
	}
	return p
}

func thresholdsFrom(cfg *config.Config) analyzer.Thresholds {
	return analyzer.Thresholds{
		SlowResponseMs:    cfg.Thresholds.SlowResponseMs,
		HighWaitMs:        cfg.Thresholds.HighWaitMs,
		ConnectionDelayMs: cfg.Thresholds.ConnectionDelayMs,
		DNSDelayMs:        cfg.Thresholds.DNSDelayMs,
	}
}

func reportOptions(cfg *config.Config) analyzer.Options {
	return analyzer.Options{
		Thresholds:   thresholdsFrom(cfg),
		TopEndpoints: cfg.Report.TopEndpoints,
	}
}

// filterResult narrows the parsed table to the rows the filter matches.
// Skipped/Errors still describe the parse, not the filter.
func filterResult(cfg *config.Config, res *har.Result, f analyzer.Filter) *har.Result {
	if f == (analyzer.Filter{}) {
		return res
	}
	ann := analyzer.Annotate(res.Table, thresholdsFrom(cfg))
	filtered, _ := f.Apply(res.Table, ann)
	log.Info().
		Int("matched", filtered.Len()).
		Int("of", res.Table.Len()).
		Msg("filter applied")
	return &har.Result{Table: filtered, Skipped: res.Skipped, Errors: res.Errors}
}

func checkFileSize(cfg *config.Config, size int) error {
	if size < cfg.Parser.MinFileSizeBytes {
		return fmt.Errorf("file too small (%s): captures under %d bytes cannot be valid",
			humanize.Bytes(uint64(size)), cfg.Parser.MinFileSizeBytes)
	}
	if maxBytes := cfg.Parser.MaxFileSizeMB * 1024 * 1024; size > maxBytes {
		return fmt.Errorf("file too large (%s): limit is %d MB",
			humanize.Bytes(uint64(size)), cfg.Parser.MaxFileSizeMB)
	}
	return nil
}

func writeReports(cfg *config.Config, rep *types.Report, res *har.Result) error {
	ann := analyzer.Annotate(res.Table, thresholdsFrom(cfg))
	for _, f := range cfg.Output.Formats {
		var err error
		switch f {
		case "markdown":
			err = report.WriteMarkdown(rep, cfg.Output.Dir)
		case "json":
			err = report.WriteJSON(rep, cfg.Output.Dir)
		case "csv":
			err = report.WriteCSV(res.Table, ann, cfg.Output.Dir)
		default:
			err = fmt.Errorf("unknown output format %q", f)
		}
		if err != nil {
			return err
		}
		log.Debug().Str("format", f).Str("dir", cfg.Output.Dir).Msg("report written")
	}
	return nil
}

func printSummary(cmd *cobra.Command, rep *types.Report) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s: grade %s (%d/100)\n", rep.File, rep.Score.Grade, rep.Score.Score)
	fmt.Fprintf(out, "  %d entries analyzed, %d skipped\n", rep.Entries, rep.Skipped)
	fmt.Fprintf(out, "  avg response %.1f ms, error rate %.1f%%, %d problematic\n",
		rep.Stats.AvgResponseTime, rep.Stats.ErrorRate, rep.Stats.ProblematicCount)
	fmt.Fprintf(out, "  %s transferred across %d endpoints\n",
		humanize.Bytes(uint64(maxInt64(rep.Stats.TotalBytes, 0))), rep.Stats.UniqueEndpoints)
	if len(rep.Recommendations) > 0 {
		fmt.Fprintf(out, "  %d recommendations (see report output)\n", len(rep.Recommendations))
	}
	if strings.TrimSpace(rep.Score.Summary) != "" {
		fmt.Fprintf(out, "  %s\n", rep.Score.Summary)
	}
}

func maxInt64(v, floor int64) int64 {
	if v < floor {
		return floor
	}
	return v
}
