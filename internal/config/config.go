package config

import (
	"path/filepath"
	"slices"
	"time"

	"github.com/adrg/xdg"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/nao1215/enumdir/internal/generator"
)

// Default configuration values.
const (
	// AppName is the application name used for XDG directory paths.
	AppName = "enumdir"

	// DefaultLength is the maximum candidate stem length in enumeration mode.
	DefaultLength = 3

	// DefaultSuffix is the comma separated suffix list.
	DefaultSuffix = "html,htm,php,zip,tar.gz,tar.bz2"

	// DefaultConcurrency is the number of workers.
	DefaultConcurrency = 25

	// DefaultMethod is the HTTP method used when no content filter is set.
	DefaultMethod = "HEAD"

	// DefaultRetries is the number of attempts per candidate.
	DefaultRetries = 2

	// DefaultUserAgent is sent when random user agents are disabled.
	DefaultUserAgent = "EnumDir/0.0.1"

	// DefaultOutput is the result file path.
	DefaultOutput = "./enum-dir-result.txt"

	// DefaultTimeout bounds a single request attempt.
	DefaultTimeout = 12 * time.Second

	// DefaultFlushInterval is how often the sink flushes the result file and
	// how long it idles when no result arrives.
	DefaultFlushInterval = 500 * time.Millisecond

	// DefaultQueueSize is the capacity of the task and result queues.
	DefaultQueueSize = 1024

	// DefaultMaxBodySize limits how much of a response body is read for
	// content filtering.
	DefaultMaxBodySize = 5 * 1024 * 1024 // 5MB

	// DefaultTorStartupTimeout is the maximum time to wait for the embedded
	// Tor daemon to bootstrap.
	DefaultTorStartupTimeout = 3 * time.Minute
)

// AllowedMethods lists the HTTP methods accepted by --method.
var AllowedMethods = []string{
	"GET", "POST", "PUT", "DELETE", "HEAD", "OPTIONS", "CONNECT", "PATCH", "TRACE",
}

// Config holds all options of a scan.
// It is populated from CLI flags and the configuration file and is not
// modified once the pipeline starts.
type Config struct {
	// Target is the absolute base URL. It always ends with "/".
	Target string

	// Length is the maximum candidate stem length in enumeration mode.
	Length int

	// FixedLength enumerates only stems of exactly Length symbols.
	FixedLength bool

	// Suffix is the comma separated suffix list, without dots.
	Suffix string

	// EmptySuffix adds the "" and "/" suffixes in front of Suffix.
	EmptySuffix bool

	// Concurrency is the number of workers.
	Concurrency int

	// Method is the upper case HTTP method.
	Method string

	// Retries is the number of attempts per candidate.
	Retries int

	// Proxy is an optional proxy URL (http, https, socks5 or socks5h).
	Proxy string

	// Cookie is an optional Cookie header value.
	Cookie string

	// Headers are raw "Key: Value" header strings in the order given.
	Headers []string

	// UserAgent is the User-Agent sent when RandomUserAgent is false.
	UserAgent string

	// RandomUserAgent picks a bundled user agent for every request.
	RandomUserAgent bool

	// UseDictionary selects dictionary mode.
	UseDictionary bool

	// DictionaryPath is the dictionary file. Empty means the bundled list.
	DictionaryPath string

	// Blacklist holds words; a response body containing any of them is not
	// reported. A non-empty blacklist forces the GET method.
	Blacklist []string

	// Output is the result file path. The file is truncated on every run.
	Output string

	// Timeout bounds a single request attempt.
	Timeout time.Duration

	// FlushInterval is how often buffered output is flushed to disk.
	FlushInterval time.Duration

	// TaskQueueSize is the capacity of the candidate queue.
	TaskQueueSize int

	// ResultQueueSize is the capacity of the result queue.
	ResultQueueSize int

	// MaxBodySize limits how many body bytes are captured per response.
	MaxBodySize int64

	// Verbose enables debug logging.
	Verbose bool

	// LogJSON writes log records as JSON lines instead of text.
	LogJSON bool

	// Progress shows a progress bar on stderr.
	Progress bool

	// ConfigFilePath is an explicit configuration file path.
	ConfigFilePath string

	// SiteConfigs holds the loaded configuration file, if any.
	SiteConfigs *File

	// JSONReport selects the JSON summary report. Mutually exclusive with
	// MarkdownReport.
	JSONReport bool

	// MarkdownReport selects the Markdown summary report.
	MarkdownReport bool

	// ReportFile writes the summary report to a file instead of stdout.
	ReportFile string

	// DBDir is the directory of the run history database.
	DBDir string

	// SaveToDB records the run in the history database.
	SaveToDB bool

	// UseTor routes all requests through an embedded Tor daemon.
	UseTor bool

	// TorStartupTimeout bounds the embedded Tor bootstrap.
	TorStartupTimeout time.Duration
}

// NewConfig creates a Config with default values.
func NewConfig() *Config {
	return &Config{
		Length:            DefaultLength,
		Suffix:            DefaultSuffix,
		Concurrency:       DefaultConcurrency,
		Method:            DefaultMethod,
		Retries:           DefaultRetries,
		UserAgent:         DefaultUserAgent,
		Output:            DefaultOutput,
		Timeout:           DefaultTimeout,
		FlushInterval:     DefaultFlushInterval,
		TaskQueueSize:     DefaultQueueSize,
		ResultQueueSize:   DefaultQueueSize,
		MaxBodySize:       DefaultMaxBodySize,
		DBDir:             XDGDataDir(),
		SaveToDB:          true,
		TorStartupTimeout: DefaultTorStartupTimeout,
	}
}

// XDGDataDir returns the XDG data directory for enumdir.
// On Linux: ~/.local/share/enumdir
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for enumdir.
// On Linux: ~/.config/enumdir
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// NormalizeMethod returns method in upper case with surrounding space removed.
func NormalizeMethod(method string) string {
	return cases.Upper(language.Und).String(trimSpace(method))
}

// EffectiveMethod returns the HTTP method actually sent. A configured
// blacklist needs the response body, so it forces GET.
func (c *Config) EffectiveMethod() string {
	if len(c.Blacklist) > 0 {
		return "GET"
	}
	return NormalizeMethod(c.Method)
}

// CaptureBody reports whether workers must read response bodies.
func (c *Config) CaptureBody() bool {
	return len(c.Blacklist) > 0
}

// Suffixes returns the ordered suffix set.
func (c *Config) Suffixes() []string {
	return generator.Suffixes(c.Suffix, c.EmptySuffix)
}

// Mode returns the candidate generation mode.
func (c *Config) Mode() generator.Mode {
	if c.UseDictionary {
		return generator.ModeDictionary
	}
	return generator.ModeEnumeration
}

// Validate checks the configuration and returns the first problem found.
func (c *Config) Validate() error {
	if c.Target == "" {
		return ErrNoTarget
	}
	if c.Length < 1 {
		return ErrInvalidLength
	}
	if c.Concurrency < 1 {
		return ErrInvalidConcurrency
	}
	if c.Retries < 1 {
		return ErrInvalidRetries
	}
	if !slices.Contains(AllowedMethods, NormalizeMethod(c.Method)) {
		return ErrInvalidMethod
	}
	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}
	if c.FlushInterval <= 0 {
		return ErrInvalidFlushInterval
	}
	if c.TaskQueueSize < 0 || c.ResultQueueSize < 0 {
		return ErrInvalidQueueSize
	}
	if c.MaxBodySize <= 0 {
		return ErrInvalidMaxBodySize
	}
	if c.Output == "" {
		return ErrNoOutput
	}
	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}
	if c.UseTor && c.Proxy != "" {
		return ErrConflictingProxy
	}
	return nil
}
