package config

import (
	"time"

	"funcmetrics/internal/engine/accumulator"
	"funcmetrics/internal/engine/metric"
)

type Config struct {
	Version       int                             `toml:"version"`
	ScanPaths     []string                        `toml:"scan_paths"`
	Exclude       Exclude                         `toml:"exclude"`
	Analysis      Analysis                        `toml:"analysis"`
	Accumulators  map[string]accumulator.Strategy `toml:"accumulators"`
	History       History                         `toml:"history"`
	Watch         Watch                           `toml:"watch"`
	Observability Observability                   `toml:"observability"`
}

type Exclude struct {
	Dirs  []string `toml:"dirs"`
	Files []string `toml:"files"`
}

type Analysis struct {
	Metrics         []string `toml:"metrics"`
	Workers         int      `toml:"workers"`
	DebugAssertions bool     `toml:"debug_assertions"`
}

type History struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"`
	Project string `toml:"project"`
}

type Watch struct {
	Debounce         time.Duration `toml:"debounce"`
	MaxRunsPerSecond float64       `toml:"max_runs_per_second"`
}

type Observability struct {
	MetricsAddress string `toml:"metrics_address"`
	OTLPEndpoint   string `toml:"otlp_endpoint"`
}

// DefaultStrategies maps each built-in metric to its default accumulator.
func DefaultStrategies() map[string]accumulator.Strategy {
	return map[string]accumulator.Strategy{
		metric.CodeLinesCountName:       accumulator.StrategySumAverage,
		metric.CyclomaticComplexityName: accumulator.StrategyAverage,
		metric.NamingStyleName:          accumulator.StrategyCategorical,
		metric.ParametersCountName:      accumulator.StrategyAverage,
	}
}

// Default returns a configuration with every default applied.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}
