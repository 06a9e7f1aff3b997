// Package probe sends the HTTP requests of a scan.
//
// NewClient builds the HTTP client shared by all workers, including proxy
// routing. A Worker takes candidates from the task queue, probes
// target+candidate with retry, and forwards one model.Result per candidate
// to the result queue.
package probe
