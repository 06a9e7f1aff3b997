package sink

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/nao1215/enumdir/internal/model"
)

// defaultFlushInterval is used when no interval is configured.
const defaultFlushInterval = 500 * time.Millisecond

// Recorder stores accepted results, for example in the run history.
type Recorder interface {
	Record(ctx context.Context, finding model.Finding) error
}

// Observer is called for every result the sink receives. written reports
// whether the result went to the output file.
type Observer func(result model.Result, written bool)

// Sink writes accepted results to the output file.
type Sink struct {
	output        string
	filter        *Filter
	flushInterval time.Duration
	summary       *model.Summary
	recorder      Recorder
	observer      Observer
	logger        *slog.Logger
}

// Option configures a Sink.
type Option func(*Sink)

// WithBlacklist hides results whose body contains one of words.
func WithBlacklist(words []string) Option {
	return func(s *Sink) {
		s.filter = NewFilter(words)
	}
}

// WithFlushInterval sets how often buffered lines are flushed.
func WithFlushInterval(d time.Duration) Option {
	return func(s *Sink) {
		if d > 0 {
			s.flushInterval = d
		}
	}
}

// WithSummary sets the summary the sink accumulates into.
func WithSummary(summary *model.Summary) Option {
	return func(s *Sink) {
		s.summary = summary
	}
}

// WithRecorder stores every written result in r.
func WithRecorder(r Recorder) Option {
	return func(s *Sink) {
		s.recorder = r
	}
}

// WithObserver sets the observer callback.
func WithObserver(fn Observer) Option {
	return func(s *Sink) {
		s.observer = fn
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Sink) {
		s.logger = logger
	}
}

// New creates a Sink writing to the file at output.
func New(output string, opts ...Option) *Sink {
	s := &Sink{
		output:        output,
		filter:        NewFilter(nil),
		flushInterval: defaultFlushInterval,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.summary == nil {
		s.summary = model.NewSummary("", "", "", output)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	return s
}

// Summary returns the counters accumulated so far.
func (s *Sink) Summary() *model.Summary {
	return s.summary
}

// Open creates (or truncates) the output file and returns it. The pipeline
// opens the file before any worker starts so that an unwritable path fails
// the scan early.
func (s *Sink) Open() (*os.File, error) {
	if dir := filepath.Dir(s.output); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	f, err := os.Create(s.output) //nolint:gosec // User-provided output path is intentional
	if err != nil {
		return nil, fmt.Errorf("failed to create output file: %w", err)
	}
	return f, nil
}

// Run consumes results until workersDone is closed and results is empty,
// writing accepted lines to f. Buffered lines are flushed every flush
// interval and before Run returns; f is closed on return.
func (s *Sink) Run(ctx context.Context, f *os.File, results <-chan model.Result, workersDone <-chan struct{}) (err error) {
	w := bufio.NewWriter(f)
	defer func() {
		if flushErr := w.Flush(); flushErr != nil && err == nil {
			err = fmt.Errorf("failed to flush output file: %w", flushErr)
		}
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("failed to close output file: %w", closeErr)
		}
		s.summary.Finish()
	}()

	ticker := time.NewTicker(s.flushInterval)
	defer ticker.Stop()

	for {
		select {
		case r := <-results:
			if err := s.handle(ctx, w, r); err != nil {
				return err
			}
		case <-ticker.C:
			if err := w.Flush(); err != nil {
				return fmt.Errorf("failed to flush output file: %w", err)
			}
		case <-workersDone:
			return s.drain(ctx, w, results)
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// drain handles the results left after all workers stopped.
func (s *Sink) drain(ctx context.Context, w *bufio.Writer, results <-chan model.Result) error {
	for {
		select {
		case r := <-results:
			if err := s.handle(ctx, w, r); err != nil {
				return err
			}
		default:
			return nil
		}
	}
}

// handle applies the filter to r and writes it when accepted.
func (s *Sink) handle(ctx context.Context, w *bufio.Writer, r model.Result) error {
	verdict := s.filter.Judge(r)
	s.summary.Count(r, verdict == VerdictBlacklisted)

	written := verdict == VerdictWrite
	switch verdict {
	case VerdictWrite:
		if _, err := w.WriteString(r.Line() + "\n"); err != nil {
			return fmt.Errorf("failed to write result: %w", err)
		}
		s.logger.Info("found", "status", r.StatusCode, "url", r.URL)
		s.record(ctx, r)
	case VerdictBlacklisted:
		s.logger.Debug("result hidden by blacklist", "status", r.StatusCode, "url", r.URL)
	case VerdictFailed:
		s.logger.Debug("candidate failed", "url", r.URL, "attempts", r.Attempts, "error", r.Error)
	case VerdictNotFound:
	}

	if s.observer != nil {
		s.observer(r, written)
	}
	return nil
}

// record passes a written result to the recorder. Recorder errors are
// logged and do not stop the scan.
func (s *Sink) record(ctx context.Context, r model.Result) {
	if s.recorder == nil {
		return
	}
	finding := model.Finding{
		StatusCode: r.StatusCode,
		URL:        r.URL,
		Title:      ExtractTitle(r.Content),
		FoundAt:    time.Now(),
	}
	if err := s.recorder.Record(ctx, finding); err != nil {
		s.logger.Warn("failed to record finding", "url", r.URL, "error", err)
	}
}
