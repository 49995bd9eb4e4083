package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/eventsieve/eventsieve/pkg/analyzer"
	"github.com/eventsieve/eventsieve/pkg/config"
	"github.com/eventsieve/eventsieve/pkg/output"
	"github.com/eventsieve/eventsieve/pkg/rules"
)

// ScanOptions holds the root command's flags.
type ScanOptions struct {
	LogFile    string
	RulesFile  string
	TextOutput string
	HTMLOutput string
	JSONOutput string
	Watch      bool
	Interval   float64
	Notify     bool
	ConfigFile string
	NoColor    bool
	Quiet      bool

	MetricsAddr string

	// Webhook options
	WebhookURL     string
	WebhookToken   string
	WebhookTrigger string
}

// AddScanFlags registers the scan flags on cmd.
func AddScanFlags(cmd *cobra.Command, opts *ScanOptions) {
	f := cmd.Flags()
	f.StringVarP(&opts.LogFile, "log-file", "l", "", "Path to the log file to analyze (required)")
	f.StringVarP(&opts.RulesFile, "rules-file", "r", config.DefaultRulesFile, "Path to the rules file (json, yaml or toml)")
	f.StringVarP(&opts.TextOutput, "output", "o", "", "Path to save a plain-text report")
	f.StringVar(&opts.HTMLOutput, "html-output", "", "Path to save an HTML report")
	f.StringVar(&opts.JSONOutput, "json-output", "", "Path to save a JSON report")
	f.BoolVar(&opts.Watch, "watch", false, "Monitor the log file for new entries")
	f.Float64Var(&opts.Interval, "interval", config.DefaultInterval, "Check interval in seconds for watch mode")
	f.BoolVar(&opts.Notify, "notify", false, "In watch mode, also wake up on file system events")
	f.BoolVarP(&opts.Quiet, "quiet", "q", false, "Print only the summary line")
	f.StringVar(&opts.MetricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address in watch mode (e.g. :9464)")

	f.StringVar(&opts.ConfigFile, "config", "", "Settings file (default: .eventsieve.yaml in the working or home directory)")
	f.BoolVar(&opts.NoColor, "no-color", false, "Disable coloured console output")

	f.StringVar(&opts.WebhookURL, "webhook-url", "", "Webhook endpoint URL")
	f.StringVar(&opts.WebhookToken, "webhook-token", "", "Bearer token for webhook auth")
	f.StringVar(&opts.WebhookTrigger, "webhook-trigger", "on_issues", "When to fire webhook (on_issues|always|never)")
}

// run is the resolved state shared by one-shot and watch mode.
type run struct {
	opts     *ScanOptions
	settings *config.Settings
	stdout   io.Writer
	stderr   io.Writer
	color    bool
}

// RunScan analyzes the log file once, or watches it with --watch.
func RunScan(cmd *cobra.Command, opts *ScanOptions) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	r, err := resolve(ctx, cmd, opts)
	if err != nil {
		return err
	}

	if err := validateCLIWebhook(opts); err != nil {
		return err
	}
	if opts.LogFile == "" {
		return errors.New("log file is required (--log-file)")
	}
	if _, err := os.Stat(opts.LogFile); err != nil {
		return fmt.Errorf("log file not found: %s", opts.LogFile)
	}
	if _, err := os.Stat(r.settings.RulesFile); err != nil {
		return fmt.Errorf("rules file not found: %s", r.settings.RulesFile)
	}

	if opts.Watch {
		return r.watch(ctx)
	}
	return r.once(ctx)
}

// resolve merges the settings file, environment and flags. Flags that were
// set explicitly win.
func resolve(ctx context.Context, cmd *cobra.Command, opts *ScanOptions) (*run, error) {
	settings, err := config.Load(ctx, opts.ConfigFile)
	if err != nil {
		return nil, fmt.Errorf("loading settings: %w", err)
	}

	flags := cmd.Flags()
	if flags.Changed("rules-file") {
		settings.RulesFile = opts.RulesFile
	}
	if flags.Changed("interval") {
		settings.Interval = opts.Interval
	}
	if flags.Changed("metrics-addr") {
		settings.MetricsAddr = opts.MetricsAddr
	}
	if flags.Changed("no-color") {
		settings.NoColor = opts.NoColor
	}
	if err := config.Validate(settings); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	return &run{
		opts:     opts,
		settings: settings,
		stdout:   cmd.OutOrStdout(),
		stderr:   cmd.ErrOrStderr(),
		color:    !settings.NoColor,
	}, nil
}

// matcher loads the rule set and compiles it.
func (r *run) matcher(ctx context.Context) (*analyzer.Matcher, error) {
	rs, err := rules.Open(ctx, r.settings.RulesFile)
	if err != nil {
		return nil, fmt.Errorf("loading rules: %w", err)
	}

	return analyzer.NewMatcher(rs, analyzer.WithWarnFunc(r.warn)), nil
}

func (r *run) warn(err error) {
	fmt.Fprintf(r.stderr, "Warning: %v\n", err)
}

func (r *run) metadata() output.Metadata {
	return output.Metadata{LogFile: r.opts.LogFile, RulesFile: r.settings.RulesFile}
}

// once runs a single analysis of the whole file.
func (r *run) once(ctx context.Context) error {
	fmt.Fprintln(r.stderr, "EventSieve - Starting Log Analysis...")
	fmt.Fprintf(r.stderr, "Log file: %s\n", r.opts.LogFile)
	fmt.Fprintf(r.stderr, "Rules file: %s\n", r.settings.RulesFile)
	if r.opts.TextOutput != "" {
		fmt.Fprintf(r.stderr, "Output file: %s\n", r.opts.TextOutput)
	}

	m, err := r.matcher(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintln(r.stderr, strings.Repeat("-", 60))
	fmt.Fprintf(r.stderr, "%d rules loaded.\n", m.RuleSet().Len())
	if n := len(m.Skipped()); n > 0 {
		fmt.Fprintf(r.stderr, "%d rule(s) skipped: pattern does not compile.\n", n)
	}

	activities, err := analyzer.Analyze(ctx, r.opts.LogFile, m)
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}

	meta := r.metadata()
	meta.GeneratedAt = time.Now()
	report := output.NewReport(activities, meta)

	console := output.NewTextFormatter(output.FormatOptions{Color: r.color, Quiet: r.opts.Quiet})
	if err := console.Format(ctx, report, r.stdout); err != nil {
		return fmt.Errorf("formatting output: %w", err)
	}

	// Report files and webhooks are best effort.
	for _, sink := range r.fileSinks() {
		r.deliver(ctx, sink, report)
	}
	if n := r.notifier(); n != nil {
		if err := n.Deliver(ctx, report); err != nil {
			fmt.Fprintf(r.stderr, "Error: %v\n", err)
		}
	}

	return nil
}

func (r *run) deliver(ctx context.Context, sink *output.FileSink, report *output.Report) {
	if err := sink.Deliver(ctx, report); err != nil {
		fmt.Fprintf(r.stderr, "Error: Error saving report: %v\n", err)
		return
	}
	fmt.Fprintf(r.stderr, "Report saved: %s\n", sink.Path())
}
