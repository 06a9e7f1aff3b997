// Package pipeline runs one scan: a candidate generator, a bounded task
// queue, a pool of probe workers, a bounded result queue and the result
// sink, all running concurrently.
//
// Every stage implements Stage and runs in its own goroutine under an
// errgroup. Stages never poll each other: the lifecycle state closes a done
// channel when the generator stops and another when the last worker stops,
// and the downstream stage drains its queue once it sees that signal.
package pipeline
