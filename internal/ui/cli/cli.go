package cli

import (
	"flag"
	"fmt"
	"time"
)

const versionString = "1.0.0"
const defaultConfigPath = "./funcmetrics.toml"

type cliOptions struct {
	configPath   string
	once         bool
	watch        bool
	history      bool
	since        string
	trendMetric  string
	perFile      bool
	perClass     bool
	verbose      bool
	version      bool
	args         []string
	sinceParsed  time.Time
	onceExplicit bool
}

func parseOptions(args []string) (cliOptions, error) {
	var opts cliOptions
	fs := flag.NewFlagSet("funcmetrics", flag.ContinueOnError)

	fs.StringVar(&opts.configPath, "config", defaultConfigPath, "Path to config file")
	fs.BoolVar(&opts.once, "once", true, "Run a single scan and exit (default unless --watch)")
	fs.BoolVar(&opts.watch, "watch", false, "Rescan whenever source files change")
	fs.BoolVar(&opts.history, "history", false, "Persist runs to the history store and print the trend")
	fs.StringVar(&opts.since, "since", "", "Only include history runs at/after this timestamp (RFC3339 or YYYY-MM-DD)")
	fs.StringVar(&opts.trendMetric, "trend-metric", "cyclomatic_complexity", "Metric whose average is printed as a trend (requires --history)")
	fs.BoolVar(&opts.perFile, "per-file", false, "Print summaries for every file")
	fs.BoolVar(&opts.perClass, "per-class", false, "Print summaries for every class")
	fs.BoolVar(&opts.verbose, "verbose", false, "Enable verbose logging")
	fs.BoolVar(&opts.version, "version", false, "Print version and exit")

	if err := fs.Parse(args); err != nil {
		return cliOptions{}, err
	}
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "once" {
			opts.onceExplicit = true
		}
	})

	opts.args = fs.Args()
	return opts, nil
}

// validateOptions resolves mode defaults and rejects contradictory flags.
func validateOptions(opts *cliOptions) error {
	if opts.watch {
		if opts.onceExplicit && opts.once {
			return fmt.Errorf("--once and --watch cannot be combined")
		}
		opts.once = false
	}
	if opts.since != "" {
		if !opts.history {
			return fmt.Errorf("--since requires --history")
		}
		ts, err := parseSince(opts.since)
		if err != nil {
			return err
		}
		opts.sinceParsed = ts
	}
	return nil
}

func parseSince(raw string) (time.Time, error) {
	if ts, err := time.Parse(time.RFC3339, raw); err == nil {
		return ts.UTC(), nil
	}
	if ts, err := time.Parse("2006-01-02", raw); err == nil {
		return ts.UTC(), nil
	}
	return time.Time{}, fmt.Errorf("invalid --since value %q (expected RFC3339 or YYYY-MM-DD)", raw)
}
