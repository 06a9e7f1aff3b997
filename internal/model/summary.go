package model

import (
	"maps"
	"slices"
	"time"
)

// Summary holds the counters of one scan.
type Summary struct {
	// Target is the scanned base URL.
	Target string `json:"target"`

	// Mode is the candidate generation mode.
	Mode string `json:"mode"`

	// Method is the HTTP method that was used.
	Method string `json:"method"`

	// Output is the path of the result file.
	Output string `json:"output"`

	// Requests is the number of results received by the sink.
	Requests int64 `json:"requests"`

	// Found is the number of results written to the output file.
	Found int64 `json:"found"`

	// NotFound is the number of 404 results.
	NotFound int64 `json:"not_found"`

	// Filtered is the number of results dropped by the content blacklist.
	Filtered int64 `json:"filtered"`

	// Failed is the number of candidates whose attempts all failed.
	Failed int64 `json:"failed"`

	// StatusCounts counts completed responses by status code.
	StatusCounts map[uint16]int64 `json:"status_counts"`

	// StartedAt is when the scan started.
	StartedAt time.Time `json:"started_at"`

	// FinishedAt is when the sink stopped.
	FinishedAt time.Time `json:"finished_at"`
}

// NewSummary creates an empty summary.
func NewSummary(target, mode, method, output string) *Summary {
	return &Summary{
		Target:       target,
		Mode:         mode,
		Method:       method,
		Output:       output,
		StatusCounts: make(map[uint16]int64),
		StartedAt:    time.Now(),
	}
}

// Count records a result that reached the sink. filtered reports whether the
// content blacklist dropped it.
func (s *Summary) Count(r Result, filtered bool) {
	s.Requests++
	if r.Outcome == OutcomeFailed {
		s.Failed++
		return
	}

	s.StatusCounts[r.StatusCode]++
	switch {
	case r.Outcome == OutcomeNotFound:
		s.NotFound++
	case filtered:
		s.Filtered++
	default:
		s.Found++
	}
}

// Finish marks the summary as complete.
func (s *Summary) Finish() {
	s.FinishedAt = time.Now()
}

// Elapsed returns the scan duration. For an unfinished summary it is the time
// since the scan started.
func (s *Summary) Elapsed() time.Duration {
	if s.FinishedAt.IsZero() {
		return time.Since(s.StartedAt)
	}
	return s.FinishedAt.Sub(s.StartedAt)
}

// StatusCodes returns the observed status codes in ascending order.
func (s *Summary) StatusCodes() []uint16 {
	return slices.Sorted(maps.Keys(s.StatusCounts))
}
