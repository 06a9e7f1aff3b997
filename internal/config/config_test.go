package config

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"
	"time"
)

// TestNewConfig verifies that NewConfig returns the documented defaults.
func TestNewConfig(t *testing.T) {
	t.Parallel()

	cfg := NewConfig()

	t.Run("default Length is 3", func(t *testing.T) {
		t.Parallel()
		if cfg.Length != 3 {
			t.Errorf("expected Length to be 3, got %d", cfg.Length)
		}
	})

	t.Run("default Suffix", func(t *testing.T) {
		t.Parallel()
		if cfg.Suffix != "html,htm,php,zip,tar.gz,tar.bz2" {
			t.Errorf("unexpected Suffix %q", cfg.Suffix)
		}
	})

	t.Run("default Concurrency is 25", func(t *testing.T) {
		t.Parallel()
		if cfg.Concurrency != 25 {
			t.Errorf("expected Concurrency to be 25, got %d", cfg.Concurrency)
		}
	})

	t.Run("default Method is HEAD", func(t *testing.T) {
		t.Parallel()
		if cfg.Method != "HEAD" {
			t.Errorf("expected Method to be HEAD, got %q", cfg.Method)
		}
	})

	t.Run("default Retries is 2", func(t *testing.T) {
		t.Parallel()
		if cfg.Retries != 2 {
			t.Errorf("expected Retries to be 2, got %d", cfg.Retries)
		}
	})

	t.Run("default Timeout is 12 seconds", func(t *testing.T) {
		t.Parallel()
		if cfg.Timeout != 12*time.Second {
			t.Errorf("expected Timeout to be 12s, got %v", cfg.Timeout)
		}
	})

	t.Run("default FlushInterval is 500ms", func(t *testing.T) {
		t.Parallel()
		if cfg.FlushInterval != 500*time.Millisecond {
			t.Errorf("expected FlushInterval to be 500ms, got %v", cfg.FlushInterval)
		}
	})

	t.Run("default Output", func(t *testing.T) {
		t.Parallel()
		if cfg.Output != "./enum-dir-result.txt" {
			t.Errorf("unexpected Output %q", cfg.Output)
		}
	})

	t.Run("default UserAgent", func(t *testing.T) {
		t.Parallel()
		if cfg.UserAgent != "EnumDir/0.0.1" {
			t.Errorf("unexpected UserAgent %q", cfg.UserAgent)
		}
	})

	t.Run("defaults are valid once a target is set", func(t *testing.T) {
		t.Parallel()
		c := NewConfig()
		c.Target = "http://example.com/"
		if err := c.Validate(); err != nil {
			t.Errorf("expected no error, got %v", err)
		}
	})
}

// TestConfigValidate tests the Validate method with one rule per case.
func TestConfigValidate(t *testing.T) {
	t.Parallel()

	validConfig := func() *Config {
		c := NewConfig()
		c.Target = "http://example.com/"
		return c
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr error
	}{
		{"empty target", func(c *Config) { c.Target = "" }, ErrNoTarget},
		{"zero length", func(c *Config) { c.Length = 0 }, ErrInvalidLength},
		{"zero concurrency", func(c *Config) { c.Concurrency = 0 }, ErrInvalidConcurrency},
		{"zero retries", func(c *Config) { c.Retries = 0 }, ErrInvalidRetries},
		{"unknown method", func(c *Config) { c.Method = "FETCH" }, ErrInvalidMethod},
		{"zero timeout", func(c *Config) { c.Timeout = 0 }, ErrInvalidTimeout},
		{"zero flush interval", func(c *Config) { c.FlushInterval = 0 }, ErrInvalidFlushInterval},
		{"negative queue size", func(c *Config) { c.TaskQueueSize = -1 }, ErrInvalidQueueSize},
		{"zero max body size", func(c *Config) { c.MaxBodySize = 0 }, ErrInvalidMaxBodySize},
		{"empty output", func(c *Config) { c.Output = "" }, ErrNoOutput},
		{"json and markdown", func(c *Config) { c.JSONReport, c.MarkdownReport = true, true }, ErrConflictingReportFormats},
		{"tor and proxy", func(c *Config) { c.UseTor, c.Proxy = true, "socks5://127.0.0.1:9050" }, ErrConflictingProxy},
		{"lower case method is accepted", func(c *Config) { c.Method = "get" }, nil},
		{"unbuffered queues are accepted", func(c *Config) { c.TaskQueueSize, c.ResultQueueSize = 0, 0 }, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c := validConfig()
			tt.mutate(c)

			err := c.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("expected no error, got %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

// TestEffectiveMethod tests method normalization and the blacklist override.
func TestEffectiveMethod(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		method    string
		blacklist []string
		want      string
	}{
		{"upper case is kept", "HEAD", nil, "HEAD"},
		{"lower case is upper cased", "post", nil, "POST"},
		{"surrounding space is trimmed", " options ", nil, "OPTIONS"},
		{"blacklist forces GET", "HEAD", []string{"forbidden"}, "GET"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c := &Config{Method: tt.method, Blacklist: tt.blacklist}
			if got := c.EffectiveMethod(); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
			if c.CaptureBody() != (len(tt.blacklist) > 0) {
				t.Error("CaptureBody must follow the blacklist")
			}
		})
	}
}

// TestConfigSuffixes tests suffix set derivation from the config.
func TestConfigSuffixes(t *testing.T) {
	t.Parallel()

	c := &Config{Suffix: "html,htm", EmptySuffix: true}
	want := []string{"", "/", ".html", ".htm"}
	if got := c.Suffixes(); !slices.Equal(got, want) {
		t.Errorf("expected %q, got %q", want, got)
	}
}

// TestNormalizeTarget tests base URL normalization.
func TestNormalizeTarget(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		raw     string
		want    string
		wantErr error
	}{
		{"adds trailing slash", "http://example.com", "http://example.com/", nil},
		{"keeps trailing slash", "https://example.com/app/", "https://example.com/app/", nil},
		{"adds http scheme", "example.com/app", "http://example.com/app/", nil},
		{"keeps port", "127.0.0.1:8080", "http://127.0.0.1:8080/", nil},
		{"drops query and fragment", "http://example.com/a?x=1#top", "http://example.com/a/", nil},
		{"trims space", "  http://example.com  ", "http://example.com/", nil},
		{"empty", "", "", ErrNoTarget},
		{"unsupported scheme", "ftp://example.com", "", ErrInvalidTarget},
		{"missing host", "http:///path", "", ErrInvalidTarget},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := NormalizeTarget(tt.raw)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

// TestTargetHost tests host extraction.
func TestTargetHost(t *testing.T) {
	t.Parallel()

	if got := TargetHost("http://127.0.0.1:8080/app/"); got != "127.0.0.1:8080" {
		t.Errorf("expected 127.0.0.1:8080, got %q", got)
	}
	if got := TargetHost("https://example.com/"); got != "example.com" {
		t.Errorf("expected example.com, got %q", got)
	}
}

// TestFileGetSiteConfig tests merging of per-host entries over defaults.
func TestFileGetSiteConfig(t *testing.T) {
	t.Parallel()

	cf := &File{
		Defaults: SiteConfig{
			Cookie:    "default=1",
			Headers:   map[string]string{"X-Default": "a", "X-Shared": "default"},
			UserAgent: "DefaultAgent",
		},
		Sites: map[string]SiteConfig{
			"example.com": {
				Cookie:    "session=xyz",
				Headers:   map[string]string{"X-Shared": "site"},
				Blacklist: []string{"Access denied"},
				Proxy:     "http://127.0.0.1:8080",
			},
		},
	}

	t.Run("unknown host gets defaults", func(t *testing.T) {
		t.Parallel()

		sc := cf.GetSiteConfig("other.com")
		if sc.Cookie != "default=1" || sc.UserAgent != "DefaultAgent" {
			t.Errorf("unexpected defaults: %+v", sc)
		}
		if len(sc.Blacklist) != 0 || sc.Proxy != "" {
			t.Errorf("unexpected site values: %+v", sc)
		}
	})

	t.Run("site entry overrides defaults", func(t *testing.T) {
		t.Parallel()

		sc := cf.GetSiteConfig("example.com")
		if sc.Cookie != "session=xyz" {
			t.Errorf("expected site cookie, got %q", sc.Cookie)
		}
		if sc.UserAgent != "DefaultAgent" {
			t.Errorf("expected default user agent, got %q", sc.UserAgent)
		}
		if sc.Headers["X-Default"] != "a" || sc.Headers["X-Shared"] != "site" {
			t.Errorf("unexpected headers: %v", sc.Headers)
		}
		if !slices.Equal(sc.Blacklist, []string{"Access denied"}) {
			t.Errorf("unexpected blacklist: %v", sc.Blacklist)
		}
		if sc.Proxy != "http://127.0.0.1:8080" {
			t.Errorf("unexpected proxy: %q", sc.Proxy)
		}
	})

	t.Run("merging does not modify defaults", func(t *testing.T) {
		t.Parallel()

		_ = cf.GetSiteConfig("example.com")
		if cf.Defaults.Headers["X-Shared"] != "default" {
			t.Error("defaults were modified by merge")
		}
	})
}

// TestApplySite tests that command line values win over file values.
func TestApplySite(t *testing.T) {
	t.Parallel()

	site := SiteConfig{
		Cookie:    "file=1",
		Headers:   map[string]string{"X-B": "2", "X-A": "1"},
		Blacklist: []string{"denied"},
		UserAgent: "FileAgent",
		Proxy:     "socks5://127.0.0.1:1080",
	}

	t.Run("fills unset options", func(t *testing.T) {
		t.Parallel()

		c := NewConfig()
		c.ApplySite(site)

		if c.Cookie != "file=1" || c.UserAgent != "FileAgent" || c.Proxy != "socks5://127.0.0.1:1080" {
			t.Errorf("unexpected config: %+v", c)
		}
		if !slices.Equal(c.Headers, []string{"X-A: 1", "X-B: 2"}) {
			t.Errorf("unexpected headers: %q", c.Headers)
		}
		if !slices.Equal(c.Blacklist, []string{"denied"}) {
			t.Errorf("unexpected blacklist: %q", c.Blacklist)
		}
	})

	t.Run("keeps command line values", func(t *testing.T) {
		t.Parallel()

		c := NewConfig()
		c.Cookie = "cli=1"
		c.Headers = []string{"X-A: cli"}
		c.Blacklist = []string{"cli"}
		c.UserAgent = "CLIAgent"
		c.Proxy = "http://127.0.0.1:3128"
		c.ApplySite(site)

		if c.Cookie != "cli=1" || c.UserAgent != "CLIAgent" || c.Proxy != "http://127.0.0.1:3128" {
			t.Errorf("unexpected config: %+v", c)
		}
		if !slices.Equal(c.Headers, []string{"X-A: 1", "X-B: 2", "X-A: cli"}) {
			t.Errorf("expected file headers before cli headers, got %q", c.Headers)
		}
		if !slices.Equal(c.Blacklist, []string{"cli"}) {
			t.Errorf("unexpected blacklist: %q", c.Blacklist)
		}
	})

	t.Run("tor disables file proxy", func(t *testing.T) {
		t.Parallel()

		c := NewConfig()
		c.UseTor = true
		c.ApplySite(site)
		if c.Proxy != "" {
			t.Errorf("expected no proxy with tor, got %q", c.Proxy)
		}
	})
}

// TestLoadConfigFile tests the LoadConfigFile function.
func TestLoadConfigFile(t *testing.T) {
	t.Parallel()

	t.Run("returns ErrConfigNotFound for non-existent file", func(t *testing.T) {
		t.Parallel()

		cfg, err := LoadConfigFile(filepath.Join(t.TempDir(), ".enumdir"))
		if !errors.Is(err, ErrConfigNotFound) {
			t.Fatalf("expected ErrConfigNotFound, got: %v", err)
		}
		if cfg != nil {
			t.Error("expected nil config when file not found")
		}
	})

	t.Run("loads valid YAML config", func(t *testing.T) {
		t.Parallel()

		configPath := filepath.Join(t.TempDir(), ".enumdir")
		content := `defaults:
  cookie: "default=abc"
  userAgent: "Custom/1.0"
sites:
  example.com:
    cookie: "session=xyz"
    headers:
      Authorization: "Bearer token"
    blacklist:
      - "Access denied"
    proxy: "socks5://127.0.0.1:9050"
`
		if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		cfg, err := LoadConfigFile(configPath)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.Defaults.Cookie != "default=abc" || cfg.Defaults.UserAgent != "Custom/1.0" {
			t.Errorf("unexpected defaults: %+v", cfg.Defaults)
		}

		site, ok := cfg.Sites["example.com"]
		if !ok {
			t.Fatal("expected example.com in sites")
		}
		if site.Headers["Authorization"] != "Bearer token" {
			t.Error("expected Authorization header")
		}
		if len(site.Blacklist) != 1 || site.Proxy != "socks5://127.0.0.1:9050" {
			t.Errorf("unexpected site: %+v", site)
		}
	})

	t.Run("returns error for invalid YAML", func(t *testing.T) {
		t.Parallel()

		configPath := filepath.Join(t.TempDir(), ".enumdir")
		if err := os.WriteFile(configPath, []byte(`invalid: yaml: content: [}`), 0600); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		if _, err := LoadConfigFile(configPath); err == nil {
			t.Error("expected error for invalid YAML")
		}
	})

	t.Run("initializes nil Sites map", func(t *testing.T) {
		t.Parallel()

		configPath := filepath.Join(t.TempDir(), ".enumdir")
		if err := os.WriteFile(configPath, []byte("defaults:\n  cookie: a=b\n"), 0600); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		cfg, err := LoadConfigFile(configPath)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.Sites == nil {
			t.Error("expected Sites map to be initialized")
		}
	})
}

// TestFindConfigFile tests the FindConfigFile function.
func TestFindConfigFile(t *testing.T) {
	t.Parallel()

	t.Run("returns explicit path if exists", func(t *testing.T) {
		t.Parallel()

		configPath := filepath.Join(t.TempDir(), "custom.yaml")
		if err := os.WriteFile(configPath, []byte("defaults: {}"), 0600); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		if result := FindConfigFile(configPath); result != configPath {
			t.Errorf("expected %q, got %q", configPath, result)
		}
	})

	t.Run("returns empty for non-existent explicit path", func(t *testing.T) {
		t.Parallel()

		if result := FindConfigFile(filepath.Join(t.TempDir(), "none.yaml")); result != "" {
			t.Errorf("expected empty string, got %q", result)
		}
	})
}

// TestXDGDirs tests XDG directory functions.
func TestXDGDirs(t *testing.T) {
	t.Parallel()

	if XDGDataDir() == "" {
		t.Error("expected non-empty XDG data dir")
	}
	if XDGConfigDir() == "" {
		t.Error("expected non-empty XDG config dir")
	}
}
