package lifecycle

// Status is the run status of a single pipeline stage.
type Status int

const (
	// StatusInit means the stage has been registered but has not started.
	StatusInit Status = iota

	// StatusRunning means the stage is processing work.
	StatusRunning

	// StatusStopped means the stage has finished and will do no more work.
	StatusStopped
)

// String returns the lower case name of the status.
func (s Status) String() string {
	switch s {
	case StatusInit:
		return "init"
	case StatusRunning:
		return "running"
	case StatusStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler so snapshots render as
// readable names in JSON and slog output.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// advance moves cur to next if next is later in the lifecycle.
// It reports whether the status changed.
func advance(cur *Status, next Status) bool {
	if next <= *cur {
		return false
	}
	*cur = next
	return true
}
