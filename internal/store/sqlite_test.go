package store

import (
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/yourorg/harscope/pkg/types"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "harscope.db"))
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestRunCRUD(t *testing.T) {
	s := newTestStore(t)
	defer s.Close()

	run := &types.RunSummary{
		FilePath:        "captures/login.har",
		FileHash:        "deadbeef",
		Entries:         120,
		Skipped:         3,
		Score:           85,
		Grade:           "B",
		AvgResponseTime: 412.5,
		ErrorRate:       2.5,
	}
	if err := s.SaveRun(run); err != nil {
		t.Fatal(err)
	}
	if run.ID == "" || run.CreatedAt.IsZero() {
		t.Fatalf("SaveRun must assign id and timestamp: %+v", run)
	}

	got, err := s.GetRun(run.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.FilePath != run.FilePath || got.Score != 85 || got.AvgResponseTime != 412.5 {
		t.Fatalf("round trip lost fields: %+v", got)
	}

	if err := s.DeleteRun(run.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := s.GetRun(run.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestDeleteMissingRun(t *testing.T) {
	s := newTestStore(t)
	defer s.Close()
	if err := s.DeleteRun("nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestListRunsOrderAndLimit(t *testing.T) {
	s := newTestStore(t)
	defer s.Close()

	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		run := &types.RunSummary{
			FilePath:  fmt.Sprintf("captures/%d.har", i),
			FileHash:  fmt.Sprintf("h%d", i),
			Score:     70 + i,
			Grade:     "C",
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}
		if err := s.SaveRun(run); err != nil {
			t.Fatal(err)
		}
	}

	runs, err := s.ListRuns(0)
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 5 || runs[0].FilePath != "captures/4.har" {
		t.Fatalf("expected newest first, got %+v", runs)
	}

	limited, err := s.ListRuns(2)
	if err != nil {
		t.Fatal(err)
	}
	if len(limited) != 2 || limited[1].FilePath != "captures/3.har" {
		t.Fatalf("unexpected limited list: %+v", limited)
	}
}

func TestLatestRunForHash(t *testing.T) {
	s := newTestStore(t)
	defer s.Close()

	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		_ = s.SaveRun(&types.RunSummary{
			FilePath:  "captures/app.har",
			FileHash:  "samehash",
			Score:     60 + i*10,
			Grade:     "C",
			CreatedAt: base.Add(time.Duration(i) * time.Hour),
		})
	}

	got, err := s.LatestRunForHash("samehash")
	if err != nil {
		t.Fatal(err)
	}
	if got.Score != 80 {
		t.Fatalf("expected newest run, got %+v", got)
	}
	if _, err := s.LatestRunForHash("unknown"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestConcurrentSaves(t *testing.T) {
	s := newTestStore(t)
	defer s.Close()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = s.SaveRun(&types.RunSummary{FilePath: fmt.Sprintf("captures/%d.har", i), FileHash: "h", Grade: "A"})
		}(i)
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = s.ListRuns(0)
		}()
	}
	wg.Wait()

	runs, err := s.ListRuns(0)
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 10 {
		t.Fatalf("expected 10 runs, got %d", len(runs))
	}
}
