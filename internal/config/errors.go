package config

import "errors"

// Configuration validation errors.
// These errors are returned by Config.Validate and NormalizeTarget and can be
// checked with errors.Is.
var (
	// ErrNoTarget is returned when no target URL is specified.
	ErrNoTarget = errors.New("no target specified: provide a base URL")

	// ErrInvalidTarget is returned when the target cannot be parsed as an
	// http or https URL with a host.
	ErrInvalidTarget = errors.New("invalid target: must be an http or https URL with a host")

	// ErrInvalidLength is returned when the maximum candidate length is not positive.
	ErrInvalidLength = errors.New("invalid length: must be at least 1")

	// ErrInvalidConcurrency is returned when the worker count is not positive.
	ErrInvalidConcurrency = errors.New("invalid concurrency: must be at least 1")

	// ErrInvalidRetries is returned when the attempt count is not positive.
	ErrInvalidRetries = errors.New("invalid retries: must be at least 1")

	// ErrInvalidMethod is returned for an HTTP method outside the allowed set.
	ErrInvalidMethod = errors.New("invalid method: must be one of GET, POST, PUT, DELETE, HEAD, OPTIONS, CONNECT, PATCH, TRACE")

	// ErrInvalidTimeout is returned when the request timeout is not positive.
	ErrInvalidTimeout = errors.New("invalid timeout: must be positive")

	// ErrInvalidFlushInterval is returned when the output flush interval is not positive.
	ErrInvalidFlushInterval = errors.New("invalid flush interval: must be positive")

	// ErrInvalidQueueSize is returned when a queue capacity is negative.
	ErrInvalidQueueSize = errors.New("invalid queue size: must be non-negative")

	// ErrInvalidMaxBodySize is returned when the max body size is not positive.
	ErrInvalidMaxBodySize = errors.New("invalid max body size: must be positive")

	// ErrNoOutput is returned when the output file path is empty.
	ErrNoOutput = errors.New("no output file specified")

	// ErrConflictingReportFormats is returned when both --json and --markdown
	// are specified.
	ErrConflictingReportFormats = errors.New("conflicting report formats: --json and --markdown cannot be used together")

	// ErrConflictingProxy is returned when --tor and --proxy are both specified.
	ErrConflictingProxy = errors.New("conflicting proxy settings: --tor and --proxy cannot be used together")
)
