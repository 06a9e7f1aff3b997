package model

import (
	"fmt"
	"time"
)

// StatusNotFound is the status code that is never reported as found.
const StatusNotFound uint16 = 404

// Result is the outcome of probing one candidate.
//
// A worker creates a Result after the request completes, or after all retry
// attempts failed, and hands it over to the sink.
type Result struct {
	// StatusCode is the HTTP status code. Zero when Outcome is OutcomeFailed.
	StatusCode uint16 `json:"status_code"`

	// URL is the absolute request URL.
	URL string `json:"url"`

	// Content is the response body. It is only captured when content
	// filtering is configured.
	Content string `json:"content,omitempty"`

	// Outcome classifies the result.
	Outcome Outcome `json:"outcome"`

	// Attempts is the number of requests made for this candidate.
	Attempts int `json:"attempts"`

	// Error is the last transport error of a failed result.
	Error string `json:"error,omitempty"`

	// Elapsed is the duration of the successful attempt, or of all attempts
	// for a failed result.
	Elapsed time.Duration `json:"elapsed"`
}

// NewResult creates the result of a completed response.
func NewResult(statusCode uint16, url string) Result {
	return Result{
		StatusCode: statusCode,
		URL:        url,
		Outcome:    OutcomeOf(statusCode),
	}
}

// NewFailedResult creates the result of a candidate whose attempts all failed.
func NewFailedResult(url string, attempts int, err error) Result {
	r := Result{
		URL:      url,
		Outcome:  OutcomeFailed,
		Attempts: attempts,
	}
	if err != nil {
		r.Error = err.Error()
	}
	return r
}

// Line returns the output file line for the result, without the newline.
func (r Result) Line() string {
	return fmt.Sprintf("%d %s", r.StatusCode, r.URL)
}
