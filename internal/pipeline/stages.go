package pipeline

import (
	"context"
	"fmt"
	"os"

	"github.com/nao1215/enumdir/internal/generator"
	"github.com/nao1215/enumdir/internal/lifecycle"
	"github.com/nao1215/enumdir/internal/model"
	"github.com/nao1215/enumdir/internal/probe"
	"github.com/nao1215/enumdir/internal/sink"
)

// Stage is one concurrently running part of a scan.
type Stage interface {
	// Run executes the stage until its input is exhausted or ctx is
	// cancelled. Stages mark their own lifecycle transitions.
	Run(ctx context.Context) error

	// Name returns the stage's name for logging purposes.
	Name() string
}

// generatorStage feeds the task queue.
type generatorStage struct {
	gen   *generator.Generator
	state *lifecycle.State
	tasks chan<- string
}

// Run implements Stage.
func (s *generatorStage) Run(ctx context.Context) error {
	s.state.StartGenerator()
	defer s.state.StopGenerator()
	return s.gen.Run(ctx, s.tasks)
}

// Name implements Stage.
func (s *generatorStage) Name() string {
	return "generator"
}

// workerStage runs one probe worker.
type workerStage struct {
	worker  *probe.Worker
	state   *lifecycle.State
	tasks   <-chan string
	results chan<- model.Result
}

// Run implements Stage.
func (s *workerStage) Run(ctx context.Context) error {
	idx := s.worker.ID()
	if err := s.state.StartWorker(idx); err != nil {
		return err
	}
	defer func() {
		_ = s.state.StopWorker(idx) //nolint:errcheck // idx was accepted by StartWorker
	}()
	return s.worker.Run(ctx, s.tasks, s.state.GeneratorDone(), s.results)
}

// Name implements Stage.
func (s *workerStage) Name() string {
	return fmt.Sprintf("worker-%d", s.worker.ID())
}

// sinkStage writes accepted results.
type sinkStage struct {
	sink    *sink.Sink
	state   *lifecycle.State
	output  *os.File
	results <-chan model.Result
}

// Run implements Stage.
func (s *sinkStage) Run(ctx context.Context) error {
	s.state.StartSink()
	defer s.state.StopSink()
	return s.sink.Run(ctx, s.output, s.results, s.state.WorkersDone())
}

// Name implements Stage.
func (s *sinkStage) Name() string {
	return "sink"
}
