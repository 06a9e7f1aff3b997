package lifecycle

import (
	"fmt"
	"sync"
)

// State is the shared status record of one scan.
//
// Every read and write goes through a single mutex. Updates only happen when
// a stage starts or stops, so the coarse lock is never contended for long.
type State struct {
	mu sync.Mutex

	generator Status
	workers   []Status
	sink      Status

	// stoppedWorkers counts workers that reached StatusStopped.
	stoppedWorkers int

	generatorDone chan struct{}
	workersDone   chan struct{}
}

// Snapshot is a point-in-time copy of all stage statuses.
type Snapshot struct {
	Generator Status   `json:"generator"`
	Workers   []Status `json:"workers"`
	Sink      Status   `json:"sink"`
}

// NewState creates a State for a scan with the given number of workers.
// All stages start in StatusInit.
func NewState(workers int) *State {
	if workers < 0 {
		workers = 0
	}
	s := &State{
		workers:       make([]Status, workers),
		generatorDone: make(chan struct{}),
		workersDone:   make(chan struct{}),
	}
	if workers == 0 {
		close(s.workersDone)
	}
	return s
}

// StartGenerator marks the generator as running.
func (s *State) StartGenerator() {
	s.mu.Lock()
	defer s.mu.Unlock()
	advance(&s.generator, StatusRunning)
}

// StopGenerator marks the generator as stopped and releases every
// goroutine waiting on GeneratorDone. Calling it more than once is safe.
func (s *State) StopGenerator() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if advance(&s.generator, StatusStopped) {
		close(s.generatorDone)
	}
}

// StartWorker marks worker idx as running.
func (s *State) StartWorker(idx int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if idx < 0 || idx >= len(s.workers) {
		return fmt.Errorf("worker index %d out of range [0, %d)", idx, len(s.workers))
	}
	advance(&s.workers[idx], StatusRunning)
	return nil
}

// StopWorker marks worker idx as stopped. When the last worker stops,
// WorkersDone is closed.
func (s *State) StopWorker(idx int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if idx < 0 || idx >= len(s.workers) {
		return fmt.Errorf("worker index %d out of range [0, %d)", idx, len(s.workers))
	}
	if !advance(&s.workers[idx], StatusStopped) {
		return nil
	}
	s.stoppedWorkers++
	if s.stoppedWorkers == len(s.workers) {
		close(s.workersDone)
	}
	return nil
}

// StartSink marks the sink as running.
func (s *State) StartSink() {
	s.mu.Lock()
	defer s.mu.Unlock()
	advance(&s.sink, StatusRunning)
}

// StopSink marks the sink as stopped.
func (s *State) StopSink() {
	s.mu.Lock()
	defer s.mu.Unlock()
	advance(&s.sink, StatusStopped)
}

// Snapshot returns a copy of every stage status.
func (s *State) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	workers := make([]Status, len(s.workers))
	copy(workers, s.workers)
	return Snapshot{
		Generator: s.generator,
		Workers:   workers,
		Sink:      s.sink,
	}
}

// GeneratorDone is closed once the generator has stopped.
func (s *State) GeneratorDone() <-chan struct{} {
	return s.generatorDone
}

// WorkersDone is closed once every worker has stopped.
func (s *State) WorkersDone() <-chan struct{} {
	return s.workersDone
}
