package probe

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/nao1215/enumdir/internal/model"
)

// drainLimit is how much of an unread body is discarded so the connection
// can be reused.
const drainLimit = 64 * 1024

// Settings are the request parameters shared by all workers of a scan.
type Settings struct {
	// Target is the base URL; the request URL is Target + candidate.
	Target string

	// Method is the HTTP method.
	Method string

	// Retries is the number of attempts per candidate.
	Retries int

	// Cookie is sent as the Cookie header when not empty.
	Cookie string

	// Headers are raw "Key: Value" strings. Malformed entries are skipped.
	Headers []string

	// UserAgent is the User-Agent of every request unless RandomUserAgent
	// is set.
	UserAgent string

	// RandomUserAgent picks a User-Agent per request from the worker's list.
	RandomUserAgent bool

	// CaptureBody stores up to MaxBodySize bytes of the body in the result.
	CaptureBody bool

	// MaxBodySize limits captured bodies.
	MaxBodySize int64
}

// Worker probes candidates. Workers of one scan share the client.
type Worker struct {
	id         int
	client     *http.Client
	settings   Settings
	userAgents []string
	logger     *slog.Logger
}

// Option configures a Worker.
type Option func(*Worker)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(w *Worker) {
		w.logger = logger
	}
}

// WithUserAgents sets the list used in random User-Agent mode.
func WithUserAgents(list []string) Option {
	return func(w *Worker) {
		w.userAgents = list
	}
}

// NewWorker creates the worker with index id.
func NewWorker(id int, client *http.Client, settings Settings, opts ...Option) *Worker {
	w := &Worker{
		id:       id,
		client:   client,
		settings: settings,
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.logger == nil {
		w.logger = slog.Default()
	}
	w.logger = w.logger.With("worker", id)
	if w.settings.Retries < 1 {
		w.settings.Retries = 1
	}
	return w
}

// ID returns the worker index.
func (w *Worker) ID() int {
	return w.id
}

// Run takes candidates from tasks until generatorDone is closed and tasks
// is empty, and sends one result per candidate to results. The task queue
// is never closed; generatorDone is the end-of-input signal.
// Run returns early with ctx.Err() when ctx is cancelled.
func (w *Worker) Run(ctx context.Context, tasks <-chan string, generatorDone <-chan struct{}, results chan<- model.Result) error {
	for {
		select {
		case candidate := <-tasks:
			if err := w.handle(ctx, candidate, results); err != nil {
				return err
			}
		case <-generatorDone:
			return w.drain(ctx, tasks, results)
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// drain handles the candidates left in tasks after the generator stopped.
func (w *Worker) drain(ctx context.Context, tasks <-chan string, results chan<- model.Result) error {
	for {
		select {
		case candidate := <-tasks:
			if err := w.handle(ctx, candidate, results); err != nil {
				return err
			}
		default:
			return nil
		}
	}
}

// handle probes one candidate and forwards the result.
func (w *Worker) handle(ctx context.Context, candidate string, results chan<- model.Result) error {
	result := w.Probe(ctx, candidate)
	if err := ctx.Err(); err != nil {
		return err
	}

	select {
	case results <- result:
		return nil
	case <-ctx.Done():
		w.logger.Warn("failed to forward result", "url", result.URL, "error", ctx.Err())
		return ctx.Err()
	}
}

// Probe requests Target+candidate, retrying failed attempts up to the
// configured count. Attempts are strictly sequential.
func (w *Worker) Probe(ctx context.Context, candidate string) model.Result {
	url := w.settings.Target + candidate
	start := time.Now()

	var lastErr error
	for attempt := 1; attempt <= w.settings.Retries; attempt++ {
		attemptStart := time.Now()
		req, err := w.newRequest(ctx, url)
		if err != nil {
			w.logger.Warn("failed to build request", "url", url, "error", err)
			return model.NewFailedResult(url, attempt-1, err)
		}

		result, err := w.do(req, url)
		if err == nil {
			result.Attempts = attempt
			result.Elapsed = time.Since(attemptStart)
			w.logger.Debug("request done", "url", url, "status", result.StatusCode, "attempt", attempt)
			return result
		}

		lastErr = err
		w.logger.Warn("request failed",
			"url", url,
			"attempt", attempt,
			"retries", w.settings.Retries,
			"error", err,
		)
		if ctx.Err() != nil {
			failed := model.NewFailedResult(url, attempt, ctx.Err())
			failed.Elapsed = time.Since(start)
			return failed
		}
	}

	failed := model.NewFailedResult(url, w.settings.Retries, lastErr)
	failed.Elapsed = time.Since(start)
	return failed
}

// newRequest builds the request for url with the configured headers.
func (w *Worker) newRequest(ctx context.Context, url string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, w.settings.Method, url, nil)
	if err != nil {
		return nil, err
	}

	userAgent := w.settings.UserAgent
	if w.settings.RandomUserAgent {
		userAgent = pickUserAgent(w.userAgents, userAgent)
	}
	if userAgent != "" {
		req.Header.Set("User-Agent", userAgent)
	}

	for _, raw := range applyHeaders(req, w.settings.Headers) {
		w.logger.Debug("skipping malformed header", "header", raw)
	}

	if w.settings.Cookie != "" {
		req.Header.Set("Cookie", w.settings.Cookie)
	}
	return req, nil
}

// do sends req for url once. A response whose body cannot be read is a failed
// attempt.
func (w *Worker) do(req *http.Request, url string) (model.Result, error) {
	resp, err := w.client.Do(req)
	if err != nil {
		return model.Result{}, err
	}
	defer resp.Body.Close()

	result := model.NewResult(uint16(resp.StatusCode), url) //nolint:gosec // HTTP status codes fit in uint16
	if !w.settings.CaptureBody {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, drainLimit)) //nolint:errcheck // Best effort drain for connection reuse
		return result, nil
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, w.settings.MaxBodySize))
	if err != nil && !errors.Is(err, io.EOF) {
		return model.Result{}, fmt.Errorf("failed to read body: %w", err)
	}
	result.Content = string(body)
	return result, nil
}
