package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/nao1215/enumdir/internal/config"
	"github.com/nao1215/enumdir/internal/generator"
	"github.com/nao1215/enumdir/internal/lifecycle"
	"github.com/nao1215/enumdir/internal/model"
	"github.com/nao1215/enumdir/internal/probe"
	"github.com/nao1215/enumdir/internal/sink"
	"github.com/nao1215/enumdir/internal/wordlist"
)

// Pipeline runs one scan described by a Config.
type Pipeline struct {
	cfg *config.Config

	// client overrides the HTTP client built from cfg. Used by tests.
	client *http.Client

	recorder sink.Recorder
	observer sink.Observer
	logger   *slog.Logger

	gen   *generator.Generator
	state *lifecycle.State
}

// Option is a function that configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets the logger used by every stage.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// WithRecorder stores written results in r.
func WithRecorder(r sink.Recorder) Option {
	return func(p *Pipeline) {
		p.recorder = r
	}
}

// WithObserver is called by the sink for every received result.
func WithObserver(fn sink.Observer) Option {
	return func(p *Pipeline) {
		p.observer = fn
	}
}

// WithHTTPClient replaces the client built from the configuration.
func WithHTTPClient(client *http.Client) Option {
	return func(p *Pipeline) {
		p.client = client
	}
}

// New creates a Pipeline for cfg. cfg must already be validated and is not
// modified.
func New(cfg *config.Config, opts ...Option) *Pipeline {
	p := &Pipeline{cfg: cfg}
	for _, opt := range opts {
		opt(p)
	}
	if p.logger == nil {
		p.logger = slog.Default()
	}

	genOpts := []generator.Option{
		generator.WithLength(cfg.Length),
		generator.WithFixedLength(cfg.FixedLength),
		generator.WithSuffixes(cfg.Suffixes()),
		generator.WithLogger(p.logger),
	}
	if cfg.UseDictionary {
		genOpts = append(genOpts, generator.WithDictionary(cfg.DictionaryPath))
	}
	p.gen = generator.New(genOpts...)
	p.state = lifecycle.NewState(cfg.Concurrency)
	return p
}

// State returns the lifecycle state of the scan.
func (p *Pipeline) State() *lifecycle.State {
	return p.state
}

// Total returns the number of candidates the scan will probe, or -1 in
// dictionary mode.
func (p *Pipeline) Total() int64 {
	return p.gen.Total()
}

// Settings returns the request settings derived from the configuration.
func (p *Pipeline) Settings() probe.Settings {
	return probe.Settings{
		Target:          p.cfg.Target,
		Method:          p.cfg.EffectiveMethod(),
		Retries:         p.cfg.Retries,
		Cookie:          p.cfg.Cookie,
		Headers:         p.cfg.Headers,
		UserAgent:       p.cfg.UserAgent,
		RandomUserAgent: p.cfg.RandomUserAgent,
		CaptureBody:     p.cfg.CaptureBody(),
		MaxBodySize:     p.cfg.MaxBodySize,
	}
}

// Run executes the scan and returns its summary. It returns
// probe.ErrInvalidProxy before any request is sent when the proxy is
// unusable, and an error if the output file cannot be created. The
// summary is returned even when the scan was cancelled. Run must be called
// only once per Pipeline.
func (p *Pipeline) Run(ctx context.Context) (*model.Summary, error) {
	client := p.client
	if client == nil {
		c, err := probe.NewClient(p.cfg.Proxy, p.cfg.Timeout)
		if err != nil {
			return nil, err
		}
		client = c
	}

	settings := p.Settings()
	summary := model.NewSummary(p.cfg.Target, string(p.gen.Mode()), settings.Method, p.cfg.Output)

	sinkOpts := []sink.Option{
		sink.WithSummary(summary),
		sink.WithBlacklist(p.cfg.Blacklist),
		sink.WithFlushInterval(p.cfg.FlushInterval),
		sink.WithLogger(p.logger),
	}
	if p.recorder != nil {
		sinkOpts = append(sinkOpts, sink.WithRecorder(p.recorder))
	}
	if p.observer != nil {
		sinkOpts = append(sinkOpts, sink.WithObserver(p.observer))
	}
	s := sink.New(p.cfg.Output, sinkOpts...)
	output, err := s.Open()
	if err != nil {
		return nil, err
	}

	tasks := make(chan string, p.cfg.TaskQueueSize)
	results := make(chan model.Result, p.cfg.ResultQueueSize)

	stages := []Stage{
		&generatorStage{gen: p.gen, state: p.state, tasks: tasks},
	}
	var workerOpts []probe.Option
	workerOpts = append(workerOpts, probe.WithLogger(p.logger))
	if p.cfg.RandomUserAgent {
		workerOpts = append(workerOpts, probe.WithUserAgents(wordlist.UserAgents()))
	}
	for i := range p.cfg.Concurrency {
		stages = append(stages, &workerStage{
			worker:  probe.NewWorker(i, client, settings, workerOpts...),
			state:   p.state,
			tasks:   tasks,
			results: results,
		})
	}
	stages = append(stages, &sinkStage{sink: s, state: p.state, output: output, results: results})

	p.logger.Info("scan started",
		"target", p.cfg.Target,
		"mode", p.gen.Mode(),
		"method", settings.Method,
		"workers", p.cfg.Concurrency,
		"proxy", p.cfg.Proxy,
		"headers", p.cfg.Headers,
		"cookie", p.cfg.Cookie,
	)
	start := time.Now()

	g, gctx := errgroup.WithContext(ctx)
	for _, stage := range stages {
		g.Go(func() error {
			if err := stage.Run(gctx); err != nil {
				return fmt.Errorf("%s: %w", stage.Name(), err)
			}
			p.logger.Debug("stage stopped", "stage", stage.Name())
			return nil
		})
	}
	err = g.Wait()

	p.logger.Debug("stage status", "stages", p.state.Snapshot())
	p.logger.Info("scan finished",
		"requests", summary.Requests,
		"found", summary.Found,
		"elapsed", time.Since(start),
	)
	return summary, err
}
