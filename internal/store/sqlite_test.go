package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/amishk599/hunter/internal/model"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "nested", "test.db")
	s, err := NewSQLiteStore(dbPath)
	if err != nil {
		t.Fatalf("NewSQLiteStore: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestRecordRunThenRecentRuns(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	req := model.SearchRequest{Keywords: "golang", Location: "Lagos", JobType: "fulltime", MaxResultsPerSource: 10}
	res := model.AggregationResult{TotalFound: 12, UniqueFound: 9, Elapsed: 1500 * time.Millisecond, SlowGroupSkipped: true}
	if err := s.RecordRun(ctx, req, res); err != nil {
		t.Fatalf("RecordRun: %v", err)
	}

	runs, err := s.RecentRuns(ctx, 5)
	if err != nil {
		t.Fatalf("RecentRuns: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("expected 1 run, got %d", len(runs))
	}
	r := runs[0]
	if r.Keywords != "golang" || r.Location != "Lagos" || r.JobType != "fulltime" {
		t.Errorf("unexpected request fields: %+v", r)
	}
	if r.TotalFound != 12 || r.UniqueFound != 9 || r.Elapsed != 1500*time.Millisecond {
		t.Errorf("unexpected counters: %+v", r)
	}
	if r.Degraded || !r.SlowSkipped {
		t.Errorf("unexpected flags: %+v", r)
	}
	if time.Since(r.CreatedAt) > time.Minute {
		t.Errorf("CreatedAt too old: %v", r.CreatedAt)
	}
}

func TestRecentRunsNewestFirstAndLimited(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for _, kw := range []string{"first", "second", "third"} {
		if err := s.RecordRun(ctx, model.SearchRequest{Keywords: kw}, model.AggregationResult{}); err != nil {
			t.Fatalf("RecordRun %s: %v", kw, err)
		}
	}

	runs, err := s.RecentRuns(ctx, 2)
	if err != nil {
		t.Fatalf("RecentRuns: %v", err)
	}
	if len(runs) != 2 || runs[0].Keywords != "third" || runs[1].Keywords != "second" {
		t.Errorf("unexpected runs: %+v", runs)
	}
}

func TestCleanupRemovesOldKeepsFresh(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	// Insert an "old" run by writing directly with a past timestamp.
	_, err := s.db.Exec(
		`INSERT INTO search_runs (keywords, total_found, unique_found, elapsed_ms, created_at)
		VALUES (?, 0, 0, 0, ?)`,
		"old-run", time.Now().Add(-48*time.Hour).UnixMilli(),
	)
	if err != nil {
		t.Fatalf("inserting old run: %v", err)
	}

	if err := s.RecordRun(ctx, model.SearchRequest{Keywords: "fresh-run"}, model.AggregationResult{}); err != nil {
		t.Fatalf("RecordRun fresh: %v", err)
	}

	if err := s.Cleanup(24 * time.Hour); err != nil {
		t.Fatalf("Cleanup: %v", err)
	}

	runs, err := s.RecentRuns(ctx, 10)
	if err != nil {
		t.Fatalf("RecentRuns: %v", err)
	}
	if len(runs) != 1 || runs[0].Keywords != "fresh-run" {
		t.Errorf("expected only the fresh run to survive, got %+v", runs)
	}
}

func TestNopStore(t *testing.T) {
	var h model.SearchHistory = NewNopStore()
	if err := h.RecordRun(context.Background(), model.SearchRequest{Keywords: "x"}, model.AggregationResult{}); err != nil {
		t.Fatalf("RecordRun: %v", err)
	}
	runs, err := h.RecentRuns(context.Background(), 10)
	if err != nil || len(runs) != 0 {
		t.Errorf("expected empty history, got %v, %v", runs, err)
	}
}
