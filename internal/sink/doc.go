// Package sink consumes probe results, drops the uninteresting ones and
// writes the rest to the result file as "<status> <url>" lines.
//
// A result is dropped when its status is 404, when every attempt failed, or
// when its body contains a blacklisted word. Accepted results can also be
// passed to a Recorder (the run history) and an observer callback.
package sink
