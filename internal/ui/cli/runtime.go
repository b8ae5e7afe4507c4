package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	coreapp "funcmetrics/internal/core/app"
	"funcmetrics/internal/core/config"
	"funcmetrics/internal/data/history"
	"funcmetrics/internal/shared/observability"
)

func Run(args []string) int {
	opts, err := parseOptions(args)
	if err != nil {
		return 2
	}

	if opts.version {
		fmt.Printf("funcmetrics v%s\n", versionString)
		return 0
	}

	configureLogging(os.Stderr, opts.verbose)

	if err := validateOptions(&opts); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		return 1
	}

	cfg, err := loadConfig(opts.configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		return 1
	}
	if err := applyOptions(opts, cfg); err != nil {
		slog.Error("invalid configuration", "error", err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Observability.OTLPEndpoint != "" {
		shutdown, err := observability.SetupTracing(ctx, cfg.Observability.OTLPEndpoint)
		if err != nil {
			slog.Error("failed to set up tracing", "error", err)
			return 1
		}
		defer func() {
			sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := shutdown(sctx); err != nil {
				slog.Warn("failed to flush traces", "error", err)
			}
		}()
	}

	app, err := coreapp.New(cfg)
	if err != nil {
		slog.Error("failed to initialize app", "error", err)
		return 1
	}
	defer app.Close()

	if cfg.Observability.MetricsAddress != "" {
		server := NewObservabilityServer(cfg.Observability.MetricsAddress, coreapp.NewHealthService(app))
		if err := server.Start(ctx); err != nil {
			slog.Error("failed to start observability server", "error", err)
			return 1
		}
		defer func() {
			sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = server.Stop(sctx)
		}()
	}

	printer := summaryPrinter{out: os.Stdout, perFile: opts.perFile, perClass: opts.perClass}

	report, err := app.Scan(ctx)
	if err != nil {
		printer.PrintError(err)
		if opts.once {
			return 1
		}
	} else {
		printer.PrintReport(report)
	}

	if opts.history {
		if err := printTrend(app, printer, opts); err != nil {
			slog.Error("failed to build history trend", "error", err)
			return 1
		}
	}

	if opts.once {
		return 0
	}

	err = app.Watch(ctx, func(report *coreapp.Report, err error) {
		if err != nil {
			printer.PrintError(err)
			return
		}
		printer.PrintReport(report)
	})
	if err != nil {
		slog.Error("watch failed", "error", err)
		return 1
	}
	return 0
}

func printTrend(app *coreapp.App, printer summaryPrinter, opts cliOptions) error {
	runs, err := app.History(opts.sinceParsed)
	if err != nil {
		return err
	}
	points, err := history.BuildTrend(runs, opts.trendMetric)
	if err != nil {
		return err
	}
	printer.PrintTrend(opts.trendMetric, points)
	return nil
}

// loadConfig reads path, falling back to built-in defaults when the default
// config file does not exist.
func loadConfig(path string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err == nil {
		return cfg, nil
	}
	if os.IsNotExist(err) && path == defaultConfigPath {
		slog.Debug("no config file found, using defaults", "path", path)
		cfg := config.Default()
		config.ApplyEnvOverrides(cfg)
		return cfg, nil
	}
	return nil, err
}

// applyOptions layers command line overrides on cfg and validates the result.
func applyOptions(opts cliOptions, cfg *config.Config) error {
	if len(opts.args) > 0 {
		cfg.ScanPaths = append([]string(nil), opts.args...)
	}
	if opts.history {
		cfg.History.Enabled = true
	}
	_, err := config.Finish(cfg)
	return err
}

func configureLogging(output io.Writer, verbose bool) {
	logLevel := slog.LevelInfo
	if verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(output, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(logger)
}
