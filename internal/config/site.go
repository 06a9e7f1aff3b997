package config

import (
	"maps"
	"slices"
)

// SiteConfig holds per-host request settings from the configuration file.
type SiteConfig struct {
	// Cookie is the Cookie header value.
	// Format: "name=value" or "name1=value1; name2=value2"
	Cookie string `yaml:"cookie,omitempty"`

	// Headers are extra request headers.
	Headers map[string]string `yaml:"headers,omitempty"`

	// Blacklist holds words that hide a response when found in its body.
	Blacklist []string `yaml:"blacklist,omitempty"`

	// UserAgent replaces the default User-Agent.
	UserAgent string `yaml:"userAgent,omitempty"`

	// Proxy is the proxy URL used for this host.
	Proxy string `yaml:"proxy,omitempty"`
}

// File represents the structure of the .enumdir configuration file.
type File struct {
	// Sites maps a target host (e.g. "example.com" or "127.0.0.1:8080") to
	// its settings.
	Sites map[string]SiteConfig `yaml:"sites,omitempty"`

	// Defaults apply to every host unless overridden in Sites.
	Defaults SiteConfig `yaml:"defaults,omitempty"`
}

// GetSiteConfig returns the settings for host, merging the host entry over
// the defaults.
func (cf *File) GetSiteConfig(host string) SiteConfig {
	result := cf.Defaults
	if len(cf.Defaults.Headers) > 0 {
		result.Headers = maps.Clone(cf.Defaults.Headers)
	}

	site, ok := cf.Sites[host]
	if !ok {
		return result
	}
	if site.Cookie != "" {
		result.Cookie = site.Cookie
	}
	if len(site.Headers) > 0 {
		if result.Headers == nil {
			result.Headers = make(map[string]string, len(site.Headers))
		}
		maps.Copy(result.Headers, site.Headers)
	}
	if len(site.Blacklist) > 0 {
		result.Blacklist = site.Blacklist
	}
	if site.UserAgent != "" {
		result.UserAgent = site.UserAgent
	}
	if site.Proxy != "" {
		result.Proxy = site.Proxy
	}
	return result
}

// HeaderLines returns the headers as "Key: Value" strings sorted by key.
func (s SiteConfig) HeaderLines() []string {
	lines := make([]string, 0, len(s.Headers))
	for _, key := range slices.Sorted(maps.Keys(s.Headers)) {
		lines = append(lines, key+": "+s.Headers[key])
	}
	return lines
}

// ApplySite fills options that were not set on the command line from the
// site settings. Command line values always win. Headers from the file come
// first so that a command line header with the same name replaces them.
func (c *Config) ApplySite(site SiteConfig) {
	if c.Cookie == "" {
		c.Cookie = site.Cookie
	}
	if lines := site.HeaderLines(); len(lines) > 0 {
		c.Headers = append(lines, c.Headers...)
	}
	if len(c.Blacklist) == 0 && len(site.Blacklist) > 0 {
		c.Blacklist = slices.Clone(site.Blacklist)
	}
	if c.UserAgent == DefaultUserAgent && site.UserAgent != "" {
		c.UserAgent = site.UserAgent
	}
	if c.Proxy == "" && !c.UseTor && site.Proxy != "" {
		c.Proxy = site.Proxy
	}
}
