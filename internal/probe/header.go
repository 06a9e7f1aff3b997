package probe

import (
	"net/http"
	"strings"
)

// ParseHeader splits a raw "Key: Value" header at the first colon and trims
// both parts. ok is false when there is no colon or the key is empty.
func ParseHeader(raw string) (key, value string, ok bool) {
	key, value, found := strings.Cut(raw, ":")
	if !found {
		return "", "", false
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return "", "", false
	}
	return key, strings.TrimSpace(value), true
}

// applyHeaders sets every well-formed header on req and returns the
// malformed entries. A Host header changes req.Host.
func applyHeaders(req *http.Request, headers []string) []string {
	var skipped []string
	for _, raw := range headers {
		key, value, ok := ParseHeader(raw)
		if !ok {
			skipped = append(skipped, raw)
			continue
		}
		if strings.EqualFold(key, "Host") {
			req.Host = value
			continue
		}
		req.Header.Set(key, value)
	}
	return skipped
}
