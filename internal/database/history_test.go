package database

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/nao1215/enumdir/internal/model"
)

// setupTestDB creates a temporary database for testing.
func setupTestDB(t *testing.T) *HistoryDB {
	t.Helper()

	db, err := Open(t.TempDir(), DefaultOptions())
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestOpen(t *testing.T) {
	t.Parallel()

	t.Run("creates database in new directory", func(t *testing.T) {
		t.Parallel()

		dbDir := filepath.Join(t.TempDir(), "newdir", "subdir")
		db, err := Open(dbDir, DefaultOptions())
		if err != nil {
			t.Fatalf("failed to open database: %v", err)
		}
		defer db.Close()

		if _, err := os.Stat(filepath.Join(dbDir, FileName)); err != nil {
			t.Errorf("database file was not created: %v", err)
		}
		if db.Path() != filepath.Join(dbDir, FileName) {
			t.Errorf("Path() = %q", db.Path())
		}
	})

	t.Run("CreateIfNotExists=false fails for missing database", func(t *testing.T) {
		t.Parallel()

		_, err := Open(filepath.Join(t.TempDir(), "missing"), Options{CreateIfNotExists: false})
		if err == nil {
			t.Error("expected error for missing database")
		}
	})

	t.Run("reopens existing database", func(t *testing.T) {
		t.Parallel()

		dbDir := t.TempDir()
		db, err := Open(dbDir, DefaultOptions())
		if err != nil {
			t.Fatalf("failed to open database: %v", err)
		}
		id, err := db.CreateRun(context.Background(), model.Run{Target: "http://a/", Mode: "dictionary", Method: "GET"})
		if err != nil {
			t.Fatalf("CreateRun() error = %v", err)
		}
		_ = db.Close()

		db, err = Open(dbDir, Options{CreateIfNotExists: false, EnableWAL: true})
		if err != nil {
			t.Fatalf("failed to reopen database: %v", err)
		}
		defer db.Close()

		if _, err := db.GetRun(context.Background(), id); err != nil {
			t.Errorf("GetRun() after reopen error = %v", err)
		}
	})
}

func TestRunLifecycle(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	ctx := context.Background()
	started := time.Date(2025, 1, 2, 3, 4, 5, 600, time.UTC)

	id, err := db.CreateRun(ctx, model.Run{
		Target:    "http://example.com/",
		Mode:      "enumeration",
		Method:    "HEAD",
		StartedAt: started,
	})
	if err != nil {
		t.Fatalf("CreateRun() error = %v", err)
	}
	if id == "" {
		t.Fatal("CreateRun() returned empty ID")
	}

	run, err := db.GetRun(ctx, id)
	if err != nil {
		t.Fatalf("GetRun() error = %v", err)
	}
	if run.Finished() {
		t.Error("new run should not be finished")
	}
	if !run.StartedAt.Equal(started) {
		t.Errorf("StartedAt = %v, want %v", run.StartedAt, started)
	}

	summary := model.NewSummary("http://example.com/", "enumeration", "HEAD", "out.txt")
	summary.Requests = 62
	summary.Found = 3
	summary.NotFound = 59
	summary.Finish()

	if err := db.FinishRun(ctx, id, summary); err != nil {
		t.Fatalf("FinishRun() error = %v", err)
	}

	run, err = db.GetRun(ctx, id)
	if err != nil {
		t.Fatalf("GetRun() error = %v", err)
	}
	if !run.Finished() {
		t.Error("run should be finished")
	}
	if run.Requests != 62 || run.Found != 3 || run.NotFound != 59 {
		t.Errorf("counters = %d/%d/%d, want 62/3/59", run.Requests, run.Found, run.NotFound)
	}
	if run.Target != "http://example.com/" || run.Mode != "enumeration" || run.Method != "HEAD" {
		t.Errorf("unexpected run fields: %+v", run)
	}
}

func TestRunNotFound(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	ctx := context.Background()

	if _, err := db.GetRun(ctx, "missing"); !errors.Is(err, ErrRunNotFound) {
		t.Errorf("GetRun() error = %v, want ErrRunNotFound", err)
	}
	summary := model.NewSummary("t", "m", "GET", "o")
	if err := db.FinishRun(ctx, "missing", summary); !errors.Is(err, ErrRunNotFound) {
		t.Errorf("FinishRun() error = %v, want ErrRunNotFound", err)
	}
	if err := db.DeleteRun(ctx, "missing"); !errors.Is(err, ErrRunNotFound) {
		t.Errorf("DeleteRun() error = %v, want ErrRunNotFound", err)
	}
}

func TestListRuns(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	ctx := context.Background()
	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	targets := []string{"http://a/", "http://b/", "http://a/"}
	ids := make([]string, 0, len(targets))
	for i, target := range targets {
		id, err := db.CreateRun(ctx, model.Run{
			Target:    target,
			Mode:      "dictionary",
			Method:    "GET",
			StartedAt: base.Add(time.Duration(i) * time.Minute),
		})
		if err != nil {
			t.Fatalf("CreateRun() error = %v", err)
		}
		ids = append(ids, id)
	}

	tests := []struct {
		name   string
		target string
		limit  int
		want   []string
	}{
		{name: "all runs newest first", want: []string{ids[2], ids[1], ids[0]}},
		{name: "limit", limit: 1, want: []string{ids[2]}},
		{name: "filter by target", target: "http://a/", want: []string{ids[2], ids[0]}},
		{name: "unknown target", target: "http://c/", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			runs, err := db.ListRuns(ctx, tt.target, tt.limit)
			if err != nil {
				t.Fatalf("ListRuns() error = %v", err)
			}
			if len(runs) != len(tt.want) {
				t.Fatalf("ListRuns() returned %d runs, want %d", len(runs), len(tt.want))
			}
			for i, run := range runs {
				if run.ID != tt.want[i] {
					t.Errorf("runs[%d].ID = %s, want %s", i, run.ID, tt.want[i])
				}
			}
		})
	}
}

func TestFindings(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	ctx := context.Background()

	id, err := db.CreateRun(ctx, model.Run{Target: "http://a/", Mode: "dictionary", Method: "GET"})
	if err != nil {
		t.Fatalf("CreateRun() error = %v", err)
	}
	other, err := db.CreateRun(ctx, model.Run{Target: "http://b/", Mode: "dictionary", Method: "GET"})
	if err != nil {
		t.Fatalf("CreateRun() error = %v", err)
	}

	rec := db.NewRecorder(id)
	if err := rec.Record(ctx, model.Finding{StatusCode: 200, URL: "http://a/admin", Title: "Admin"}); err != nil {
		t.Fatalf("Record() error = %v", err)
	}
	if err := rec.Record(ctx, model.Finding{StatusCode: 403, URL: "http://a/private"}); err != nil {
		t.Fatalf("Record() error = %v", err)
	}
	if err := db.NewRecorder(other).Record(ctx, model.Finding{StatusCode: 200, URL: "http://b/"}); err != nil {
		t.Fatalf("Record() error = %v", err)
	}

	findings, err := db.GetFindings(ctx, id)
	if err != nil {
		t.Fatalf("GetFindings() error = %v", err)
	}
	if len(findings) != 2 {
		t.Fatalf("GetFindings() returned %d findings, want 2", len(findings))
	}
	if findings[0].URL != "http://a/admin" || findings[0].Title != "Admin" || findings[0].StatusCode != 200 {
		t.Errorf("findings[0] = %+v", findings[0])
	}
	if findings[1].StatusCode != 403 {
		t.Errorf("findings[1].StatusCode = %d, want 403", findings[1].StatusCode)
	}
	for _, f := range findings {
		if f.RunID != id {
			t.Errorf("RunID = %s, want %s", f.RunID, id)
		}
		if f.FoundAt.IsZero() {
			t.Error("FoundAt should be set")
		}
	}

	t.Run("recorder ignores cancellation", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		if err := rec.Record(cctx, model.Finding{StatusCode: 200, URL: "http://a/late"}); err != nil {
			t.Errorf("Record() with canceled context error = %v", err)
		}
	})

	t.Run("delete run removes findings", func(t *testing.T) {
		if err := db.DeleteRun(ctx, id); err != nil {
			t.Fatalf("DeleteRun() error = %v", err)
		}
		findings, err := db.GetFindings(ctx, id)
		if err != nil {
			t.Fatalf("GetFindings() error = %v", err)
		}
		if len(findings) != 0 {
			t.Errorf("GetFindings() after delete returned %d findings", len(findings))
		}
	})
}

func TestParseTimestamp(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		zero  bool
	}{
		{name: "empty", input: "", zero: true},
		{name: "layout", input: "2025-01-02T03:04:05.000000000Z"},
		{name: "rfc3339", input: "2025-01-02T03:04:05Z"},
		{name: "sqlite", input: "2025-01-02 03:04:05"},
		{name: "garbage", input: "yesterday", zero: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := parseTimestamp(tt.input); got.IsZero() != tt.zero {
				t.Errorf("parseTimestamp(%q) = %v, zero want %v", tt.input, got, tt.zero)
			}
		})
	}
}
