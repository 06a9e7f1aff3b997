package probe

import "math/rand/v2"

// pickUserAgent returns a uniformly chosen entry of list, or fallback when
// list is empty.
func pickUserAgent(list []string, fallback string) string {
	if len(list) == 0 {
		return fallback
	}
	return list[rand.IntN(len(list))] //nolint:gosec // Not security sensitive
}
