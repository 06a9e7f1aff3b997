package sink

import (
	"strings"

	"github.com/nao1215/enumdir/internal/model"
)

// Verdict is the sink's decision for one result.
type Verdict int

const (
	// VerdictWrite means the result is written to the output file.
	VerdictWrite Verdict = iota

	// VerdictNotFound means the status was 404.
	VerdictNotFound

	// VerdictBlacklisted means the body contained a blacklisted word.
	VerdictBlacklisted

	// VerdictFailed means no response was received.
	VerdictFailed
)

// Filter decides which results are reported.
type Filter struct {
	blacklist []string
}

// NewFilter creates a Filter. Blank words are ignored.
func NewFilter(blacklist []string) *Filter {
	words := make([]string, 0, len(blacklist))
	for _, word := range blacklist {
		if word != "" {
			words = append(words, word)
		}
	}
	return &Filter{blacklist: words}
}

// Blacklisted reports whether content contains any blacklisted word.
func (f *Filter) Blacklisted(content string) bool {
	for _, word := range f.blacklist {
		if strings.Contains(content, word) {
			return true
		}
	}
	return false
}

// Judge returns the verdict for r.
func (f *Filter) Judge(r model.Result) Verdict {
	switch {
	case r.Outcome == model.OutcomeFailed:
		return VerdictFailed
	case r.StatusCode == model.StatusNotFound:
		return VerdictNotFound
	case len(f.blacklist) > 0 && f.Blacklisted(r.Content):
		return VerdictBlacklisted
	default:
		return VerdictWrite
	}
}
