package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nao1215/enumdir/internal/config"
	"github.com/nao1215/enumdir/internal/database"
)

// executeHistory runs the history command and returns stdout and the error.
func executeHistory(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var stdout bytes.Buffer
	cmd := NewHistoryCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), err
}

func TestNewHistoryCmd(t *testing.T) {
	t.Parallel()

	cmd := NewHistoryCmd()
	for _, name := range []string{"json", "markdown", "limit", "target", "db-dir", "delete"} {
		if cmd.Flags().Lookup(name) == nil {
			t.Errorf("expected %s flag", name)
		}
	}
	if got := cmd.Flags().Lookup("limit").DefValue; got != "20" {
		t.Errorf("limit default = %s, want 20", got)
	}
}

func TestHistoryCmd_NoDatabase(t *testing.T) {
	t.Parallel()

	t.Run("list prints an empty history", func(t *testing.T) {
		t.Parallel()

		dbDir := filepath.Join(t.TempDir(), "db")
		out, err := executeHistory(t, "--db-dir", dbDir)
		if err != nil {
			t.Fatalf("history failed: %v", err)
		}
		if !strings.Contains(out, "No runs recorded.") {
			t.Errorf("unexpected output: %s", out)
		}
	})

	t.Run("unknown run", func(t *testing.T) {
		t.Parallel()

		_, err := executeHistory(t, "--db-dir", t.TempDir(), "missing-id")
		if !errors.Is(err, database.ErrRunNotFound) {
			t.Errorf("error = %v, want ErrRunNotFound", err)
		}
	})
}

func TestHistoryCmd_InvalidFlags(t *testing.T) {
	t.Parallel()

	t.Run("json and markdown", func(t *testing.T) {
		t.Parallel()

		_, err := executeHistory(t, "--db-dir", t.TempDir(), "--json", "--markdown")
		if !errors.Is(err, config.ErrConflictingReportFormats) {
			t.Errorf("error = %v, want ErrConflictingReportFormats", err)
		}
	})

	t.Run("delete without id", func(t *testing.T) {
		t.Parallel()

		if _, err := executeHistory(t, "--db-dir", t.TempDir(), "--delete"); err == nil {
			t.Error("expected error for --delete without run ID")
		}
	})

	t.Run("too many arguments", func(t *testing.T) {
		t.Parallel()

		if _, err := executeHistory(t, "--db-dir", t.TempDir(), "a", "b"); err == nil {
			t.Error("expected error for two run IDs")
		}
	})
}

func TestHistoryCmd_AfterScan(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)
	dir := t.TempDir()
	dbDir := filepath.Join(dir, "db")

	_, stderr, err := executeScan(t,
		"--config", writeConfig(t, ""),
		"-l", "1", "-s", "", "-c", "4",
		"-o", filepath.Join(dir, "result.txt"), "--db-dir", dbDir,
		srv.URL,
	)
	if err != nil {
		t.Fatalf("scan failed: %v\nstderr: %s", err, stderr)
	}

	listed, err := executeHistory(t, "--db-dir", dbDir, "--json")
	if err != nil {
		t.Fatalf("history failed: %v", err)
	}
	var list struct {
		Runs []struct {
			ID       string `json:"id"`
			Target   string `json:"target"`
			Requests int64  `json:"requests"`
			Found    int64  `json:"found"`
		} `json:"runs"`
	}
	if err := json.Unmarshal([]byte(listed), &list); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, listed)
	}
	if len(list.Runs) != 1 {
		t.Fatalf("expected 1 run, got %d", len(list.Runs))
	}
	run := list.Runs[0]
	if run.Target != srv.URL+"/" || run.Requests != 62 || run.Found != 2 {
		t.Errorf("unexpected run: %+v", run)
	}

	shown, err := executeHistory(t, "--db-dir", dbDir, run.ID)
	if err != nil {
		t.Fatalf("history %s failed: %v", run.ID, err)
	}
	for _, s := range []string{"ENUMDIR RUN", srv.URL + "/a", srv.URL + "/b"} {
		if !strings.Contains(shown, s) {
			t.Errorf("expected output to contain %q\n%s", s, shown)
		}
	}

	other, err := executeHistory(t, "--db-dir", dbDir, "--target", "other.example")
	if err != nil {
		t.Fatalf("history --target failed: %v", err)
	}
	if !strings.Contains(other, "No runs recorded.") {
		t.Errorf("expected no runs for another target, got %s", other)
	}

	deleted, err := executeHistory(t, "--db-dir", dbDir, "--delete", run.ID)
	if err != nil {
		t.Fatalf("history --delete failed: %v", err)
	}
	if !strings.Contains(deleted, "Deleted run "+run.ID) {
		t.Errorf("unexpected output: %s", deleted)
	}

	if _, err := executeHistory(t, "--db-dir", dbDir, run.ID); !errors.Is(err, database.ErrRunNotFound) {
		t.Errorf("error = %v, want ErrRunNotFound", err)
	}
}
