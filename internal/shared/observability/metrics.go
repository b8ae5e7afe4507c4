package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics definitions
var (
	ParsingDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "funcmetrics_parsing_seconds",
		Help:    "Time spent parsing a source file.",
		Buckets: prometheus.DefBuckets,
	}, []string{"language"})

	AnalysisDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "funcmetrics_analysis_seconds",
		Help:    "Time spent on high-level analysis tasks.",
		Buckets: prometheus.DefBuckets,
	}, []string{"task"})

	FilesAnalyzedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "funcmetrics_files_analyzed_total",
		Help: "Total number of source files parsed and extracted.",
	})

	FunctionsAnalyzedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "funcmetrics_functions_analyzed_total",
		Help: "Total number of functions whose metrics were computed.",
	})

	AnalysisErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "funcmetrics_analysis_errors_total",
		Help: "Total number of files that failed analysis, by stage.",
	}, []string{"stage"})

	LastRunFunctions = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "funcmetrics_last_run_functions",
		Help: "Number of functions found by the most recent scan.",
	})

	WatcherEventsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "funcmetrics_watcher_events_total",
		Help: "Total number of file system events received by the watcher.",
	})

	HistoryWriteDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "funcmetrics_history_write_seconds",
		Help:    "Latency for persisting one run to the history store.",
		Buckets: prometheus.DefBuckets,
	})
)
