package cli

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	coreapp "funcmetrics/internal/core/app"
	"funcmetrics/internal/core/config"
	"funcmetrics/internal/data/history"
	"funcmetrics/internal/engine/accumulator"
	"funcmetrics/internal/engine/metric"
)

func TestParseOptions_Defaults(t *testing.T) {
	opts, err := parseOptions(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if opts.configPath != defaultConfigPath || !opts.once || opts.watch {
		t.Fatalf("unexpected defaults: %+v", opts)
	}
}

func TestValidateOptions_WatchDisablesOnce(t *testing.T) {
	opts, err := parseOptions([]string{"--watch", "src"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := validateOptions(&opts); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if opts.once {
		t.Fatal("expected --watch to disable single-run mode")
	}
	if len(opts.args) != 1 || opts.args[0] != "src" {
		t.Fatalf("unexpected args: %v", opts.args)
	}
}

func TestValidateOptions_RejectsOnceWithWatch(t *testing.T) {
	opts, err := parseOptions([]string{"--once", "--watch"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	err = validateOptions(&opts)
	if err == nil || !strings.Contains(err.Error(), "cannot be combined") {
		t.Fatalf("expected combination error, got %v", err)
	}
}

func TestValidateOptions_Since(t *testing.T) {
	opts := cliOptions{since: "2026-02-12"}
	if err := validateOptions(&opts); err == nil || !strings.Contains(err.Error(), "requires --history") {
		t.Fatalf("expected history requirement, got %v", err)
	}

	opts = cliOptions{since: "2026-02-12", history: true}
	if err := validateOptions(&opts); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !opts.sinceParsed.Equal(time.Date(2026, 2, 12, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected since: %v", opts.sinceParsed)
	}

	opts = cliOptions{since: "yesterday", history: true}
	if err := validateOptions(&opts); err == nil {
		t.Fatal("expected invalid --since error")
	}
}

func TestApplyOptions_OverridesScanPaths(t *testing.T) {
	cfg := config.Default()
	cfg.History.Path = filepath.Join(t.TempDir(), "h.db")
	opts := cliOptions{args: []string{"./a", "./b"}, history: true}

	if err := applyOptions(opts, cfg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cfg.ScanPaths) != 2 || cfg.ScanPaths[0] != "./a" {
		t.Fatalf("unexpected scan paths: %v", cfg.ScanPaths)
	}
	if !cfg.History.Enabled {
		t.Fatal("expected --history to enable the history store")
	}
}

func TestLoadConfig_FallsBackToDefaultsOnlyForDefaultPath(t *testing.T) {
	dir := t.TempDir()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	defer os.Chdir(wd)

	cfg, err := loadConfig(defaultConfigPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cfg.Analysis.Metrics) != 4 {
		t.Fatalf("expected default metrics, got %v", cfg.Analysis.Metrics)
	}

	if _, err := loadConfig(filepath.Join(dir, "missing.toml")); err == nil {
		t.Fatal("expected error for explicit missing config")
	}
}

func TestSummaryPrinter(t *testing.T) {
	var buf bytes.Buffer
	p := summaryPrinter{out: &buf, perFile: true, perClass: true}
	p.PrintReport(&coreapp.Report{
		Files:     1,
		Functions: 2,
		Project: []accumulator.Summary{
			{Metric: metric.CyclomaticComplexityName, Strategy: accumulator.StrategyAverage, Count: 2, Average: 1.5},
		},
		PerFile: []coreapp.GroupSummary{
			{Key: "pkg/store.py", File: "pkg/store.py", Functions: 2},
		},
		PerClass: []coreapp.GroupSummary{
			{Key: "Store", File: "pkg/store.py", Functions: 2},
		},
		RunID: "run-1",
	})
	out := buf.String()
	for _, want := range []string{"Scanned 1 files, 2 functions", "avg=1.50 n=2", "pkg/store.py", "Store", "saved run run-1"} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in output:\n%s", want, out)
		}
	}

	buf.Reset()
	p.PrintError(errors.New("boom"))
	if !strings.Contains(buf.String(), "scan failed: boom") {
		t.Fatalf("unexpected error output: %s", buf.String())
	}

	buf.Reset()
	p.PrintTrend("parameters_count", []history.TrendPoint{
		{Timestamp: time.Date(2026, 2, 13, 0, 0, 0, 0, time.UTC), Average: 2, Delta: 0.5, Functions: 4},
	})
	if !strings.Contains(buf.String(), "avg=2.00  delta=+0.50  functions=4") {
		t.Fatalf("unexpected trend output: %s", buf.String())
	}
}

func TestObservabilityServerHandler(t *testing.T) {
	cfg := config.Default()
	cfg.ScanPaths = []string{t.TempDir()}
	cfg, err := config.Finish(cfg)
	if err != nil {
		t.Fatal(err)
	}
	app, err := coreapp.New(cfg)
	if err != nil {
		t.Fatal(err)
	}
	defer app.Close()

	srv := httptest.NewServer(NewObservabilityServer("", coreapp.NewHealthService(app)).Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/health")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 from /health, got %d", resp.StatusCode)
	}

	resp, err = http.Get(srv.URL + "/metrics")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 from /metrics, got %d", resp.StatusCode)
	}
}
