package model

import "fmt"

// Outcome classifies a probe result.
type Outcome int

const (
	// OutcomeFound means the target answered with a status other than 404.
	OutcomeFound Outcome = iota

	// OutcomeNotFound means the target answered 404.
	OutcomeNotFound

	// OutcomeFailed means every attempt failed before a response arrived.
	// A failed result has no status code.
	OutcomeFailed
)

// String returns the lower case name of the outcome.
func (o Outcome) String() string {
	switch o {
	case OutcomeFound:
		return "found"
	case OutcomeNotFound:
		return "not_found"
	case OutcomeFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (o Outcome) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (o *Outcome) UnmarshalText(text []byte) error {
	switch string(text) {
	case "found":
		*o = OutcomeFound
	case "not_found":
		*o = OutcomeNotFound
	case "failed":
		*o = OutcomeFailed
	default:
		return fmt.Errorf("unknown outcome %q", string(text))
	}
	return nil
}

// OutcomeOf returns the outcome for a completed response with the given
// status code.
func OutcomeOf(statusCode uint16) Outcome {
	if statusCode == StatusNotFound {
		return OutcomeNotFound
	}
	return OutcomeFound
}
