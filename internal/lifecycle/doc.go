// Package lifecycle tracks the run status of every stage of a scan.
//
// A scan has three kinds of stages: one candidate generator, a fixed number
// of workers and one result sink. Each stage moves through Init, Running and
// Stopped, in that order, and never moves back.
//
// Besides the status record, State exposes one-shot done channels that are
// closed when a stage group stops. Consumers select on their input queue and
// the done channel of their producers instead of polling the status record,
// so idle stages block rather than spin.
package lifecycle
