package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// ApplyEnvOverrides applies environment variable overrides to the configuration.
// Pattern: FUNCMETRICS_[SECTION]_[KEY] (e.g., FUNCMETRICS_ANALYSIS_WORKERS).
func ApplyEnvOverrides(cfg *Config) {
	setEnvInt(&cfg.Analysis.Workers, "FUNCMETRICS_ANALYSIS_WORKERS")
	setEnvBool(&cfg.Analysis.DebugAssertions, "FUNCMETRICS_ANALYSIS_DEBUG_ASSERTIONS")

	setEnvBool(&cfg.History.Enabled, "FUNCMETRICS_HISTORY_ENABLED")
	setEnvString(&cfg.History.Path, "FUNCMETRICS_HISTORY_PATH")
	setEnvString(&cfg.History.Project, "FUNCMETRICS_HISTORY_PROJECT")

	setEnvDuration(&cfg.Watch.Debounce, "FUNCMETRICS_WATCH_DEBOUNCE")
	setEnvFloat64(&cfg.Watch.MaxRunsPerSecond, "FUNCMETRICS_WATCH_MAX_RUNS_PER_SECOND")

	setEnvString(&cfg.Observability.MetricsAddress, "FUNCMETRICS_OBSERVABILITY_METRICS_ADDRESS")
	setEnvString(&cfg.Observability.OTLPEndpoint, "FUNCMETRICS_OBSERVABILITY_OTLP_ENDPOINT")
}

func setEnvString(target *string, key string) {
	if val, ok := os.LookupEnv(key); ok {
		slog.Debug("applying env override", "key", key, "value", val)
		*target = val
	}
}

func setEnvInt(target *int, key string) {
	if val, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(val); err == nil {
			slog.Debug("applying env override", "key", key, "value", val)
			*target = i
		}
	}
}

func setEnvBool(target *bool, key string) {
	if val, ok := os.LookupEnv(key); ok {
		b, err := strconv.ParseBool(strings.ToLower(val))
		if err == nil {
			slog.Debug("applying env override", "key", key, "value", val)
			*target = b
		}
	}
}

func setEnvFloat64(target *float64, key string) {
	if val, ok := os.LookupEnv(key); ok {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			slog.Debug("applying env override", "key", key, "value", val)
			*target = f
		}
	}
}

func setEnvDuration(target *time.Duration, key string) {
	if val, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(val); err == nil {
			slog.Debug("applying env override", "key", key, "value", val)
			*target = d
		}
	}
}
