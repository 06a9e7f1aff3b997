package model

import "time"

// Run is a finished scan as kept in the run history.
type Run struct {
	// ID identifies the run.
	ID string `json:"id"`

	// Target is the scanned base URL.
	Target string `json:"target"`

	// Mode is the candidate generation mode.
	Mode string `json:"mode"`

	// Method is the HTTP method that was used.
	Method string `json:"method"`

	// StartedAt is when the scan started.
	StartedAt time.Time `json:"started_at"`

	// FinishedAt is when the scan finished. Zero while the scan is running
	// or when it was interrupted.
	FinishedAt time.Time `json:"finished_at"`

	// Requests, Found, NotFound, Filtered and Failed copy the summary
	// counters of the run.
	Requests int64 `json:"requests"`
	Found    int64 `json:"found"`
	NotFound int64 `json:"not_found"`
	Filtered int64 `json:"filtered"`
	Failed   int64 `json:"failed"`
}

// Finished reports whether the run completed.
func (r Run) Finished() bool {
	return !r.FinishedAt.IsZero()
}

// ApplySummary copies the counters and timestamps of s into the run.
func (r *Run) ApplySummary(s *Summary) {
	r.Requests = s.Requests
	r.Found = s.Found
	r.NotFound = s.NotFound
	r.Filtered = s.Filtered
	r.Failed = s.Failed
	r.FinishedAt = s.FinishedAt
}

// Finding is a found result stored in the run history.
type Finding struct {
	// RunID is the run the finding belongs to.
	RunID string `json:"run_id"`

	// StatusCode is the HTTP status code.
	StatusCode uint16 `json:"status_code"`

	// URL is the found URL.
	URL string `json:"url"`

	// Title is the HTML title of the captured body, if any.
	Title string `json:"title,omitempty"`

	// FoundAt is when the sink accepted the result.
	FoundAt time.Time `json:"found_at"`
}
