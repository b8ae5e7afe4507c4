package config

import (
	"fmt"
	"strings"

	"github.com/gobwas/glob"

	"funcmetrics/internal/engine/accumulator"
	"funcmetrics/internal/engine/metric"
	"funcmetrics/internal/shared/util"
)

func validateVersion(cfg *Config) error {
	if cfg.Version != 1 {
		return fmt.Errorf("unsupported config version %d; supported version is 1", cfg.Version)
	}
	return nil
}

func validateExclude(cfg *Config) error {
	for _, pattern := range cfg.Exclude.Dirs {
		if strings.TrimSpace(pattern) == "" {
			return fmt.Errorf("exclude.dirs must not contain empty entries")
		}
	}
	for _, pattern := range cfg.Exclude.Files {
		if _, err := glob.Compile(pattern); err != nil {
			return fmt.Errorf("exclude.files pattern %q: %w", pattern, err)
		}
	}
	return nil
}

func validateAnalysis(cfg *Config) error {
	if len(cfg.ScanPaths) == 0 {
		return fmt.Errorf("scan_paths must not be empty")
	}
	if cfg.Analysis.Workers < 1 {
		return fmt.Errorf("analysis.workers must be >= 1, got %d", cfg.Analysis.Workers)
	}
	registry := metric.DefaultRegistry()
	seen := make(map[string]bool, len(cfg.Analysis.Metrics))
	for _, name := range cfg.Analysis.Metrics {
		if seen[name] {
			return fmt.Errorf("analysis.metrics lists %q twice", name)
		}
		seen[name] = true
		if _, err := registry.New(name); err != nil {
			return fmt.Errorf("analysis.metrics: unknown metric %q (known: %s)", name, strings.Join(registry.Names(), ", "))
		}
	}
	return nil
}

func validateAccumulators(cfg *Config) error {
	registry := metric.DefaultRegistry()
	for _, name := range util.SortedStringKeys(cfg.Accumulators) {
		strategy := cfg.Accumulators[name]
		if !contains(cfg.Analysis.Metrics, name) {
			return fmt.Errorf("accumulators.%s: metric is not listed in analysis.metrics", name)
		}
		if _, err := accumulator.New(strategy); err != nil {
			return fmt.Errorf("accumulators.%s: unknown strategy %q", name, strategy)
		}
		m, err := registry.New(name)
		if err != nil {
			return fmt.Errorf("accumulators.%s: %w", name, err)
		}
		if !strategy.Accepts(m.Kind()) {
			return fmt.Errorf("accumulators.%s: strategy %q cannot aggregate %s values", name, strategy, m.Kind())
		}
	}
	return nil
}

func validateHistory(cfg *Config) error {
	if !cfg.History.Enabled {
		return nil
	}
	if strings.TrimSpace(cfg.History.Path) == "" {
		return fmt.Errorf("history.path must not be empty when history is enabled")
	}
	if cfg.History.Project == "" {
		return fmt.Errorf("history.project must not be empty")
	}
	return nil
}

func validateWatch(cfg *Config) error {
	if cfg.Watch.Debounce < 0 {
		return fmt.Errorf("watch.debounce must not be negative")
	}
	if cfg.Watch.MaxRunsPerSecond < 0 {
		return fmt.Errorf("watch.max_runs_per_second must not be negative")
	}
	return nil
}
