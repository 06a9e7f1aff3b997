package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/nao1215/enumdir/internal/config"
	"github.com/nao1215/enumdir/internal/database"
	"github.com/nao1215/enumdir/internal/log"
	"github.com/nao1215/enumdir/internal/model"
	"github.com/nao1215/enumdir/internal/pipeline"
	"github.com/nao1215/enumdir/internal/probe"
	"github.com/nao1215/enumdir/internal/report"
	"github.com/nao1215/enumdir/internal/tor"
)

// bundledDictionary is the --dict value when the flag is given without a
// path.
const bundledDictionary = "bundled"

// NewScanCmd creates the scan command.
func NewScanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan <target>",
		Short: "Probe a web server for hidden files and directories",
		Long: `Scan probes candidate paths below the target URL and writes every
response that is not a 404 to the result file as "<code> <url>".

Without --dict every name of up to --length characters over [a-zA-Z0-9] is
tried with each suffix. With --dict the lines of a dictionary are tried
instead; %ALPHA%, %NUMBER%, %ALPHANUM% and %EXT% placeholders in a line
expand to every letter, digit, alphanumeric or suffix.

Examples:
  # Enumerate names of up to 3 characters with the default suffixes
  enumdir scan example.com

  # Only names of exactly 2 characters, no suffix but "" and "/"
  enumdir scan -l 2 --fixed-length -e -s "" http://127.0.0.1:8080

  # Use the bundled dictionary, hide soft 404 pages
  enumdir scan --dict -b "Page not found" https://example.com/app/

  # Use your own dictionary through Tor
  enumdir scan --dict=words.txt --tor http://<address>.onion/

  # Authenticated scan with extra headers and a JSON summary
  enumdir scan --cookie "session=abc" -H "X-Api-Key: 123" --json example.com`,
		Args: cobra.ExactArgs(1),
		RunE: runScanCmd,
	}

	// Candidate generation
	cmd.Flags().IntP("length", "l", config.DefaultLength,
		"Maximum name length in enumeration mode")
	cmd.Flags().Bool("fixed-length", false,
		"Only enumerate names of exactly --length characters")
	cmd.Flags().StringP("suffix", "s", config.DefaultSuffix,
		"Comma separated suffixes appended to every name, without the dot")
	cmd.Flags().BoolP("empty-suffix", "e", false,
		`Also try every name with no suffix and with "/"`)
	cmd.Flags().StringP("dict", "d", "",
		"Use dictionary mode; --dict alone uses the bundled list, --dict=PATH a file")
	cmd.Flags().Lookup("dict").NoOptDefVal = bundledDictionary

	// Requests
	cmd.Flags().IntP("concurrency", "c", config.DefaultConcurrency,
		"Number of concurrent workers")
	cmd.Flags().StringP("method", "m", config.DefaultMethod,
		"HTTP method (forced to GET when a blacklist is set)")
	cmd.Flags().IntP("retries", "r", config.DefaultRetries,
		"Attempts per path before it is reported as failed")
	cmd.Flags().DurationP("timeout", "t", config.DefaultTimeout,
		"Timeout of a single request")
	cmd.Flags().StringP("proxy", "p", "",
		"Proxy URL (http, https, socks5 or socks5h)")
	cmd.Flags().String("cookie", "",
		"Cookie header value")
	cmd.Flags().StringArrayP("header", "H", nil,
		`Extra request header as "Key: Value" (repeatable)`)
	cmd.Flags().StringP("user-agent", "u", config.DefaultUserAgent,
		"User-Agent header")
	cmd.Flags().Bool("random-agent", false,
		"Pick a random browser User-Agent for every request")

	// Results
	cmd.Flags().StringSliceP("blacklist", "b", nil,
		"Hide responses whose body contains this text (repeatable, forces GET)")
	cmd.Flags().StringP("output", "o", config.DefaultOutput,
		"Result file, truncated on every run")
	cmd.Flags().Bool("progress", false,
		"Show a progress bar on stderr")
	cmd.Flags().Bool("log-json", false,
		"Write log records to stderr as JSON lines")

	// Summary report
	cmd.Flags().BoolP("json", "j", false,
		"Print the summary as JSON (mutually exclusive with --markdown)")
	cmd.Flags().Bool("markdown", false,
		"Print the summary as Markdown (mutually exclusive with --json)")
	cmd.Flags().String("report", "",
		"Write the summary to this file instead of stdout")

	// Configuration and history
	cmd.Flags().String("config", "",
		"Configuration file path (default: .enumdir in current or home directory)")
	cmd.Flags().String("db-dir", config.XDGDataDir(),
		"Directory of the run history database")
	cmd.Flags().Bool("no-db", false,
		"Do not record this run in the history database")

	// Tor
	cmd.Flags().Bool("tor", false,
		"Route requests through an embedded Tor daemon")
	cmd.Flags().Duration("tor-timeout", config.DefaultTorStartupTimeout,
		"Timeout for embedded Tor startup")

	return cmd
}

func runScanCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := newLogger(cmd.ErrOrStderr(), cfg)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return runScan(ctx, cfg, logger, cmd.OutOrStdout(), cmd.ErrOrStderr())
}

// newLogger returns the secure logger selected by the configuration.
func newLogger(w io.Writer, cfg *config.Config) *slog.Logger {
	if cfg.LogJSON {
		return log.NewSecureJSONLogger(w, cfg.Verbose)
	}
	return log.NewSecureLogger(w, cfg.Verbose)
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// buildConfig creates a Config from the flags, the positional target and
// the configuration file.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()
	flags := cmd.Flags()

	target, err := config.NormalizeTarget(args[0])
	if err != nil {
		return nil, err
	}
	cfg.Target = target

	if cfg.Length, err = flags.GetInt("length"); err != nil {
		return nil, err
	}
	if cfg.FixedLength, err = flags.GetBool("fixed-length"); err != nil {
		return nil, err
	}
	if cfg.Suffix, err = flags.GetString("suffix"); err != nil {
		return nil, err
	}
	if cfg.EmptySuffix, err = flags.GetBool("empty-suffix"); err != nil {
		return nil, err
	}
	if flags.Changed("dict") {
		path, err := flags.GetString("dict")
		if err != nil {
			return nil, err
		}
		cfg.UseDictionary = true
		if path != bundledDictionary {
			cfg.DictionaryPath = path
		}
	}

	if cfg.Concurrency, err = flags.GetInt("concurrency"); err != nil {
		return nil, err
	}
	method, err := flags.GetString("method")
	if err != nil {
		return nil, err
	}
	cfg.Method = config.NormalizeMethod(method)
	if cfg.Retries, err = flags.GetInt("retries"); err != nil {
		return nil, err
	}
	if cfg.Timeout, err = flags.GetDuration("timeout"); err != nil {
		return nil, err
	}
	if cfg.Proxy, err = flags.GetString("proxy"); err != nil {
		return nil, err
	}
	if cfg.Cookie, err = flags.GetString("cookie"); err != nil {
		return nil, err
	}
	if cfg.Headers, err = flags.GetStringArray("header"); err != nil {
		return nil, err
	}
	if cfg.UserAgent, err = flags.GetString("user-agent"); err != nil {
		return nil, err
	}
	if cfg.RandomUserAgent, err = flags.GetBool("random-agent"); err != nil {
		return nil, err
	}

	if cfg.Blacklist, err = flags.GetStringSlice("blacklist"); err != nil {
		return nil, err
	}
	if cfg.Output, err = flags.GetString("output"); err != nil {
		return nil, err
	}
	if cfg.Progress, err = flags.GetBool("progress"); err != nil {
		return nil, err
	}
	if cfg.LogJSON, err = flags.GetBool("log-json"); err != nil {
		return nil, err
	}

	if cfg.JSONReport, err = flags.GetBool("json"); err != nil {
		return nil, err
	}
	if cfg.MarkdownReport, err = flags.GetBool("markdown"); err != nil {
		return nil, err
	}
	if cfg.ReportFile, err = flags.GetString("report"); err != nil {
		return nil, err
	}

	if cfg.DBDir, err = flags.GetString("db-dir"); err != nil {
		return nil, err
	}
	noDB, err := flags.GetBool("no-db")
	if err != nil {
		return nil, err
	}
	cfg.SaveToDB = !noDB

	if cfg.UseTor, err = flags.GetBool("tor"); err != nil {
		return nil, err
	}
	if cfg.TorStartupTimeout, err = flags.GetDuration("tor-timeout"); err != nil {
		return nil, err
	}
	cfg.Verbose = getVerboseFlag(cmd)

	if cfg.ConfigFilePath, err = flags.GetString("config"); err != nil {
		return nil, err
	}
	if err := loadSiteConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadSiteConfig merges the configuration file entry of the target host
// into cfg. An explicitly given file must exist.
func loadSiteConfig(cfg *config.Config) error {
	path := config.FindConfigFile(cfg.ConfigFilePath)
	switch {
	case path != "":
		file, err := config.LoadConfigFile(path)
		if err != nil {
			return fmt.Errorf("failed to load config file %s: %w", path, err)
		}
		cfg.SiteConfigs = file
	case cfg.ConfigFilePath != "":
		return fmt.Errorf("%w: %s", config.ErrConfigNotFound, cfg.ConfigFilePath)
	default:
		cfg.SiteConfigs = &config.File{Sites: make(map[string]config.SiteConfig)}
	}

	cfg.ApplySite(cfg.SiteConfigs.GetSiteConfig(config.TargetHost(cfg.Target)))
	return nil
}

// runScan executes one scan and prints its summary.
func runScan(ctx context.Context, cfg *config.Config, logger *slog.Logger, stdout, stderr io.Writer) error {
	host, port := targetHostPort(cfg.Target)
	if tor.IsOnionHost(host) {
		if err := tor.ValidateOnionHost(host); err != nil {
			return fmt.Errorf("invalid onion target %q: %w", host, err)
		}
		if !cfg.UseTor && cfg.Proxy == "" {
			logger.Warn("onion target without a proxy, use --tor or --proxy", "host", host)
		}
	}

	if cfg.UseTor {
		embedded, err := startEmbeddedTor(ctx, cfg, logger, stderr, host, port)
		if err != nil {
			return err
		}
		defer func() {
			logger.Info("stopping embedded Tor daemon")
			if err := embedded.Stop(); err != nil {
				logger.Error("failed to stop embedded Tor", "error", err)
			}
		}()
	} else {
		checkProxy(ctx, cfg, logger, stderr, host, port)
	}

	// The client is built before anything is written so an unusable proxy
	// leaves no output file and no history entry behind.
	client, err := probe.NewClient(cfg.Proxy, cfg.Timeout)
	if err != nil {
		return err
	}

	foundOut := stdout
	if cfg.ReportFile == "" && (cfg.JSONReport || cfg.MarkdownReport) {
		foundOut = stderr
	}
	var con *console
	opts := []pipeline.Option{
		pipeline.WithLogger(logger),
		pipeline.WithHTTPClient(client),
		pipeline.WithObserver(func(r model.Result, written bool) { con.observe(r, written) }),
	}

	var history *database.HistoryDB
	var runID string
	if cfg.SaveToDB {
		history, err = database.Open(cfg.DBDir, database.DefaultOptions())
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer history.Close()

		runID, err = history.CreateRun(ctx, model.Run{
			Target:    cfg.Target,
			Mode:      string(cfg.Mode()),
			Method:    cfg.EffectiveMethod(),
			StartedAt: time.Now(),
		})
		if err != nil {
			return fmt.Errorf("failed to record run: %w", err)
		}
		opts = append(opts, pipeline.WithRecorder(history.NewRecorder(runID)))
		logger.Info("recording run", "id", runID, "db", history.Path())
	}

	p := pipeline.New(cfg, opts...)
	con = newConsole(foundOut, stderr, p.Total(), cfg.Progress)
	printHeader(stderr, cfg.Target, string(cfg.Mode()), cfg.EffectiveMethod(), cfg.Concurrency, p.Total())

	summary, runErr := p.Run(ctx)
	con.finish()
	if summary == nil {
		return runErr
	}

	if history != nil && runErr == nil {
		if err := history.FinishRun(context.WithoutCancel(ctx), runID, summary); err != nil {
			logger.Error("failed to save run", "id", runID, "error", err)
		}
	}

	if err := writeSummary(cfg, summary, stdout); err != nil {
		logger.Error("report failed", "error", err)
	}

	if runErr != nil {
		if errors.Is(runErr, context.Canceled) {
			return fmt.Errorf("scan interrupted: %w", runErr)
		}
		return runErr
	}

	fmt.Fprintf(stderr, "results written to %s\n", cfg.Output)
	if history != nil {
		fmt.Fprintf(stderr, "run %s saved, see: enumdir history %s\n", runID, runID)
	}
	return nil
}

// writeSummary outputs the summary in the configured format.
func writeSummary(cfg *config.Config, summary *model.Summary, stdout io.Writer) error {
	dst, err := report.OpenDestination(cfg.ReportFile, stdout)
	if err != nil {
		return err
	}
	defer dst.Close()

	_, err = newReportWriter(cfg.JSONReport, cfg.MarkdownReport, dst).WriteSummary(summary)
	return err
}

func newReportWriter(jsonFormat, markdownFormat bool, dst io.Writer) report.Writer {
	switch {
	case jsonFormat:
		return report.NewJSONWriter(dst, report.WithPrettyPrint(), report.WithVersion(getVersion()))
	case markdownFormat:
		return report.NewMarkdownWriter(dst)
	default:
		return report.NewSimpleWriter(dst)
	}
}

// startEmbeddedTor starts tornago and points cfg.Proxy at it.
func startEmbeddedTor(ctx context.Context, cfg *config.Config, logger *slog.Logger, stderr io.Writer, host string, port uint16) (*tor.EmbeddedTor, error) {
	fmt.Fprintln(stderr, "Starting embedded Tor daemon...")
	fmt.Fprintf(stderr, "This may take 1-3 minutes while Tor bootstraps and connects to the network.\n\n")

	embedded := tor.NewEmbeddedTor(tor.WithStartupTimeout(cfg.TorStartupTimeout))
	if err := embedded.Start(ctx); err != nil {
		return nil, fmt.Errorf("failed to start embedded Tor: %w", err)
	}
	logger.Info("embedded Tor daemon started",
		"socksAddr", embedded.SocksAddr(),
		"controlAddr", embedded.ControlAddr(),
	)

	status := tor.CheckSOCKS5(ctx, embedded.SocksAddr(), host, port, cfg.Timeout)
	if status != tor.ProxyStatusOK {
		_ = embedded.Stop() //nolint:errcheck // Best effort cleanup
		return nil, fmt.Errorf("embedded Tor proxy check failed: %w", status.Err())
	}

	proxyURL, err := embedded.ProxyURL()
	if err != nil {
		_ = embedded.Stop() //nolint:errcheck // Best effort cleanup
		return nil, err
	}
	cfg.Proxy = proxyURL
	fmt.Fprintf(stderr, "SOCKS proxy: %s\n\n", embedded.SocksAddr())
	return embedded, nil
}

// checkProxy warns when a SOCKS5 proxy does not answer the handshake. The
// scan still runs; every request will then be reported as failed.
func checkProxy(ctx context.Context, cfg *config.Config, logger *slog.Logger, stderr io.Writer, host string, port uint16) {
	addr, ok := tor.SOCKSAddress(cfg.Proxy)
	if !ok {
		return
	}
	status := tor.CheckSOCKS5(ctx, addr, host, port, cfg.Timeout)
	if status == tor.ProxyStatusOK {
		logger.Debug("SOCKS5 proxy verified", "address", addr)
		return
	}
	logger.Warn("SOCKS5 proxy check failed", "address", addr, "status", status.String())
	errorColor.Fprintf(stderr, "warning: proxy %s: %s\n", addr, status)
}

// targetHostPort returns the host name and port of a normalized target.
func targetHostPort(target string) (string, uint16) {
	u, err := url.Parse(target)
	if err != nil {
		return "", 0
	}
	port := uint16(80)
	if u.Scheme == "https" {
		port = 443
	}
	if p, err := strconv.ParseUint(u.Port(), 10, 16); err == nil {
		port = uint16(p)
	}
	return u.Hostname(), port
}
