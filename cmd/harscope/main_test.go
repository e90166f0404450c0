package main

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const testCapture = `{"log":{"entries":[
	{"request":{"url":"https://api.test/users","method":"GET"},"response":{"status":200,"content":{"size":500,"mimeType":"application/json"}},"timings":{"wait":40},"time":120},
	{"request":{"url":"https://api.test/orders","method":"POST"},"response":{"status":500,"content":{"size":200,"mimeType":"application/json"}},"timings":{"wait":2000},"time":2500},
	{"request":{"url":"https://cdn.test/app.js","method":"GET"},"response":{"status":200,"content":{"size":9000,"mimeType":"application/javascript"}},"timings":{"wait":30},"time":80}
]}}`

func writeTestFiles(t *testing.T) (harPath, cfgPath string) {
	t.Helper()
	dir := t.TempDir()
	harPath = filepath.Join(dir, "capture.har")
	if err := os.WriteFile(harPath, []byte(testCapture), 0o644); err != nil {
		t.Fatal(err)
	}
	cfgPath = filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(cfgPath, []byte("log:\n  level: \"error\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	return harPath, cfgPath
}

func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	buf := &bytes.Buffer{}
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	err := root.Execute()
	return buf.String(), err
}

func TestReportCommandAppliesFilter(t *testing.T) {
	harPath, cfgPath := writeTestFiles(t)
	outDir := t.TempDir()

	_, err := runCommand(t, "report",
		"--config", cfgPath, "--har", harPath, "--out", outDir,
		"--format", "csv", "--method", "POST")
	if err != nil {
		t.Fatalf("report failed: %v", err)
	}

	f, err := os.Open(filepath.Join(outDir, "entries.csv"))
	if err != nil {
		t.Fatalf("open entries.csv: %v", err)
	}
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("read entries.csv: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected header plus 1 filtered row, got %d records", len(records))
	}
	if records[1][2] != "POST" {
		t.Fatalf("surviving row must be the POST request: %v", records[1])
	}
}

func TestReportCommandProblematicOnly(t *testing.T) {
	harPath, cfgPath := writeTestFiles(t)
	outDir := t.TempDir()

	out, err := runCommand(t, "report",
		"--config", cfgPath, "--har", harPath, "--out", outDir,
		"--format", "csv", "--problematic-only")
	if err != nil {
		t.Fatalf("report failed: %v", err)
	}
	if !strings.Contains(out, "1 entries analyzed") {
		t.Fatalf("only the slow erroring request should survive:\n%s", out)
	}
}

func TestCompareCommandCaptureFiles(t *testing.T) {
	harPath, cfgPath := writeTestFiles(t)

	out, err := runCommand(t, "compare",
		"--config", cfgPath, "--base-har", harPath, "--target-har", harPath)
	if err != nil {
		t.Fatalf("compare failed: %v", err)
	}
	if !strings.Contains(out, "score delta: +0 (no change)") {
		t.Fatalf("identical captures must compare equal:\n%s", out)
	}
	if !strings.Contains(out, "capture.har") {
		t.Fatalf("output must name the compared files:\n%s", out)
	}
}

func TestCompareCommandFlagValidation(t *testing.T) {
	_, cfgPath := writeTestFiles(t)

	if _, err := runCommand(t, "compare", "--config", cfgPath); err == nil {
		t.Fatal("expected error when nothing is given to compare")
	}
	if _, err := runCommand(t, "compare", "--config", cfgPath,
		"--base", "x", "--base-har", "y.har"); err == nil {
		t.Fatal("expected error when mixing run ids and capture files")
	}
}
