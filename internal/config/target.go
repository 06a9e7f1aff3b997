package config

import (
	"fmt"
	"net/url"
	"strings"
)

// NormalizeTarget turns user input into an absolute base URL that ends
// with "/". Input without a scheme is treated as http. Query and fragment
// are dropped because candidates are appended to the path.
func NormalizeTarget(raw string) (string, error) {
	raw = trimSpace(raw)
	if raw == "" {
		return "", ErrNoTarget
	}
	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidTarget, err)
	}
	u.Scheme = strings.ToLower(u.Scheme)
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", fmt.Errorf("%w: %s", ErrInvalidTarget, raw)
	}

	u.RawQuery = ""
	u.ForceQuery = false
	u.Fragment = ""
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
		if u.RawPath != "" {
			u.RawPath += "/"
		}
	}
	return u.String(), nil
}

// TargetHost returns the host (with port, if any) of a normalized target.
// It is the key of per-host entries in the configuration file.
func TargetHost(target string) string {
	u, err := url.Parse(target)
	if err != nil {
		return ""
	}
	return u.Host
}

func trimSpace(s string) string {
	return strings.TrimSpace(s)
}
