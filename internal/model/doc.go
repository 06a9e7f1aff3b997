// Package model defines the data structures shared by the scan stages.
//
// This package contains the following main types:
//   - Result: the outcome of probing one candidate URL
//   - Summary: counters accumulated by the result sink over a scan
//   - Run: a finished scan as stored in the run history
//
// Models live in their own package so that probe, sink, database and report
// can exchange them without import cycles. All of them serialize to JSON.
package model
