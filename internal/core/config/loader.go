package config

import (
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// Load reads, defaults, normalizes and validates the TOML file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(string(data))
}

// Parse decodes a TOML document into a validated Config.
func Parse(data string) (*Config, error) {
	var cfg Config
	if _, err := toml.Decode(data, &cfg); err != nil {
		return nil, err
	}
	ApplyEnvOverrides(&cfg)
	return finish(&cfg)
}

// Finish applies defaults and validates cfg. It is used after callers modify
// a loaded configuration, e.g. from command line flags.
func Finish(cfg *Config) (*Config, error) {
	return finish(cfg)
}

func finish(cfg *Config) (*Config, error) {
	normalizeMetrics(cfg)
	applyDefaults(cfg)
	normalizePaths(cfg)

	if err := validateVersion(cfg); err != nil {
		return nil, err
	}
	if err := validateExclude(cfg); err != nil {
		return nil, err
	}
	if err := validateAnalysis(cfg); err != nil {
		return nil, err
	}
	if err := validateAccumulators(cfg); err != nil {
		return nil, err
	}
	if err := validateHistory(cfg); err != nil {
		return nil, err
	}
	if err := validateWatch(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Version == 0 {
		cfg.Version = 1
	}
	if len(cfg.ScanPaths) == 0 {
		cfg.ScanPaths = []string{"."}
	}
	if cfg.Exclude.Dirs == nil {
		cfg.Exclude.Dirs = []string{".git", "__pycache__", ".venv", "venv", ".tox", "node_modules"}
	}
	if len(cfg.Analysis.Metrics) == 0 {
		cfg.Analysis.Metrics = []string{
			"code_lines_count",
			"cyclomatic_complexity",
			"naming_style",
			"parameters_count",
		}
	}
	if cfg.Analysis.Workers == 0 {
		cfg.Analysis.Workers = runtime.NumCPU()
	}
	if cfg.Accumulators == nil {
		cfg.Accumulators = DefaultStrategies()
		for name := range cfg.Accumulators {
			if !contains(cfg.Analysis.Metrics, name) {
				delete(cfg.Accumulators, name)
			}
		}
	}
	if strings.TrimSpace(cfg.History.Path) == "" {
		cfg.History.Path = "data/history.db"
	}
	if strings.TrimSpace(cfg.History.Project) == "" {
		cfg.History.Project = "default"
	}
	if cfg.Watch.Debounce == 0 {
		cfg.Watch.Debounce = 500 * time.Millisecond
	}
	if cfg.Watch.MaxRunsPerSecond == 0 {
		cfg.Watch.MaxRunsPerSecond = 2
	}
}

func normalizePaths(cfg *Config) {
	paths := make([]string, 0, len(cfg.ScanPaths))
	seen := make(map[string]bool, len(cfg.ScanPaths))
	for _, p := range cfg.ScanPaths {
		p = strings.TrimSpace(p)
		if p == "" || seen[p] {
			continue
		}
		seen[p] = true
		paths = append(paths, p)
	}
	cfg.ScanPaths = paths
	cfg.History.Project = strings.TrimSpace(cfg.History.Project)
}

func normalizeMetrics(cfg *Config) {
	for i, name := range cfg.Analysis.Metrics {
		cfg.Analysis.Metrics[i] = strings.ToLower(strings.TrimSpace(name))
	}
	for name, strategy := range cfg.Accumulators {
		normalized := strings.ToLower(strings.TrimSpace(name))
		if normalized != name {
			delete(cfg.Accumulators, name)
		}
		cfg.Accumulators[normalized] = strategy
	}
}

func contains(values []string, want string) bool {
	for _, v := range values {
		if v == want {
			return true
		}
	}
	return false
}
