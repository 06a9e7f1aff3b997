package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/nao1215/enumdir/internal/model"
)

// FileName is the database file name inside the database directory.
const FileName = "enumdir.db"

// ErrRunNotFound is returned when a run ID is not in the history.
var ErrRunNotFound = errors.New("run not found")

// HistoryDB stores scan runs and their findings.
type HistoryDB struct {
	db     *sql.DB
	dbPath string
}

// Options configures HistoryDB behavior.
type Options struct {
	// CreateIfNotExists creates the directory and database file when missing.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates the history database in dbDir.
// When CreateIfNotExists is false the database file must already exist.
func Open(dbDir string, opts Options) (*HistoryDB, error) {
	dbPath := filepath.Join(dbDir, FileName)

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("database not found at %s", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else if err := os.MkdirAll(dbDir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	dsn := dbPath + "?mode=rw"
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite allows a single writer. The sink records from one goroutine,
	// but the CLI may read while a run is being finished.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	hdb := &HistoryDB{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := hdb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}
	return hdb, nil
}

// Path returns the database file path.
func (h *HistoryDB) Path() string {
	return h.dbPath
}

// Close closes the database connection.
func (h *HistoryDB) Close() error {
	return h.db.Close()
}

func (h *HistoryDB) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		target TEXT NOT NULL,
		mode TEXT NOT NULL,
		method TEXT NOT NULL,
		started_at TEXT NOT NULL,
		finished_at TEXT NOT NULL DEFAULT '',
		requests INTEGER NOT NULL DEFAULT 0,
		found INTEGER NOT NULL DEFAULT 0,
		not_found INTEGER NOT NULL DEFAULT 0,
		filtered INTEGER NOT NULL DEFAULT 0,
		failed INTEGER NOT NULL DEFAULT 0
	);

	CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs(started_at);

	-- Findings are the lines a run wrote to its output file
	CREATE TABLE IF NOT EXISTS findings (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
		status_code INTEGER NOT NULL,
		url TEXT NOT NULL,
		title TEXT NOT NULL DEFAULT '',
		found_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_findings_run ON findings(run_id);
	`
	_, err := h.db.ExecContext(context.Background(), schema)
	return err
}

// CreateRun inserts run and returns its ID. A new ID is generated when
// run.ID is empty.
func (h *HistoryDB) CreateRun(ctx context.Context, run model.Run) (string, error) {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.StartedAt.IsZero() {
		run.StartedAt = time.Now()
	}

	query := `
	INSERT INTO runs (id, target, mode, method, started_at, finished_at, requests, found, not_found, filtered, failed)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := h.db.ExecContext(ctx, query,
		run.ID,
		run.Target,
		run.Mode,
		run.Method,
		formatTimestamp(run.StartedAt),
		formatTimestamp(run.FinishedAt),
		run.Requests,
		run.Found,
		run.NotFound,
		run.Filtered,
		run.Failed,
	)
	if err != nil {
		return "", fmt.Errorf("failed to insert run: %w", err)
	}
	return run.ID, nil
}

// FinishRun stores the counters and finish time of summary for run id.
func (h *HistoryDB) FinishRun(ctx context.Context, id string, summary *model.Summary) error {
	finishedAt := summary.FinishedAt
	if finishedAt.IsZero() {
		finishedAt = time.Now()
	}

	query := `
	UPDATE runs
	SET finished_at = ?, requests = ?, found = ?, not_found = ?, filtered = ?, failed = ?
	WHERE id = ?
	`
	result, err := h.db.ExecContext(ctx, query,
		formatTimestamp(finishedAt),
		summary.Requests,
		summary.Found,
		summary.NotFound,
		summary.Filtered,
		summary.Failed,
		id,
	)
	if err != nil {
		return fmt.Errorf("failed to update run: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update run: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	return nil
}

// InsertFinding stores a finding of an existing run.
func (h *HistoryDB) InsertFinding(ctx context.Context, finding model.Finding) error {
	if finding.FoundAt.IsZero() {
		finding.FoundAt = time.Now()
	}

	query := `
	INSERT INTO findings (run_id, status_code, url, title, found_at)
	VALUES (?, ?, ?, ?, ?)
	`
	if _, err := h.db.ExecContext(ctx, query,
		finding.RunID,
		finding.StatusCode,
		finding.URL,
		finding.Title,
		formatTimestamp(finding.FoundAt),
	); err != nil {
		return fmt.Errorf("failed to insert finding: %w", err)
	}
	return nil
}

// GetRun returns the run with the given ID.
func (h *HistoryDB) GetRun(ctx context.Context, id string) (*model.Run, error) {
	query := `
	SELECT id, target, mode, method, started_at, finished_at, requests, found, not_found, filtered, failed
	FROM runs
	WHERE id = ?
	`
	run, err := scanRun(h.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}
	return run, nil
}

// ListRuns returns the most recent runs, newest first. A limit of zero or
// less returns every run. A non-empty target restricts the list to that
// target.
func (h *HistoryDB) ListRuns(ctx context.Context, target string, limit int) ([]model.Run, error) {
	query := `
	SELECT id, target, mode, method, started_at, finished_at, requests, found, not_found, filtered, failed
	FROM runs
	WHERE (? = '' OR target = ?)
	ORDER BY started_at DESC, rowid DESC
	`
	args := []any{target, target}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := h.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []model.Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, *run)
	}
	return runs, rows.Err()
}

// GetFindings returns the findings of a run in the order they were found.
func (h *HistoryDB) GetFindings(ctx context.Context, runID string) ([]model.Finding, error) {
	query := `
	SELECT run_id, status_code, url, title, found_at
	FROM findings
	WHERE run_id = ?
	ORDER BY id
	`
	rows, err := h.db.QueryContext(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to get findings: %w", err)
	}
	defer rows.Close()

	var findings []model.Finding
	for rows.Next() {
		var f model.Finding
		var foundAt string
		if err := rows.Scan(&f.RunID, &f.StatusCode, &f.URL, &f.Title, &foundAt); err != nil {
			return nil, fmt.Errorf("failed to scan finding: %w", err)
		}
		f.FoundAt = parseTimestamp(foundAt)
		findings = append(findings, f)
	}
	return findings, rows.Err()
}

// DeleteRun removes a run and its findings.
func (h *HistoryDB) DeleteRun(ctx context.Context, id string) error {
	tx, err := h.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "DELETE FROM findings WHERE run_id = ?", id); err != nil {
		return fmt.Errorf("failed to delete findings: %w", err)
	}
	result, err := tx.ExecContext(ctx, "DELETE FROM runs WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete run: %w", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	return tx.Commit()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (*model.Run, error) {
	var run model.Run
	var startedAt, finishedAt string
	if err := row.Scan(
		&run.ID,
		&run.Target,
		&run.Mode,
		&run.Method,
		&startedAt,
		&finishedAt,
		&run.Requests,
		&run.Found,
		&run.NotFound,
		&run.Filtered,
		&run.Failed,
	); err != nil {
		return nil, err
	}
	run.StartedAt = parseTimestamp(startedAt)
	run.FinishedAt = parseTimestamp(finishedAt)
	return &run, nil
}

// Recorder stores findings for a single run. It satisfies the sink's
// recorder interface.
type Recorder struct {
	db    *HistoryDB
	runID string
}

// NewRecorder returns a Recorder bound to runID.
func (h *HistoryDB) NewRecorder(runID string) *Recorder {
	return &Recorder{db: h, runID: runID}
}

// Record stores finding under the recorder's run.
func (r *Recorder) Record(ctx context.Context, finding model.Finding) error {
	finding.RunID = r.runID
	// The sink drains after cancellation; findings from that drain are
	// still part of the run.
	return r.db.InsertFinding(context.WithoutCancel(ctx), finding)
}

// timestampLayout keeps sub-second precision and sorts lexically.
const timestampLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTimestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(timestampLayout)
}

var timestampFormats = []string{
	timestampLayout,
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
}

// parseTimestamp returns the zero time for empty or unknown values.
func parseTimestamp(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
