package ports

import (
	"context"
	"time"

	"funcmetrics/internal/data/history"
	"funcmetrics/internal/engine/analysis"
	"funcmetrics/internal/engine/metric"
)

// FunctionAnalyzer abstracts the parse, extract and measure stage.
type FunctionAnalyzer interface {
	AnalyseFunctions(ctx context.Context, files []string, catalog *metric.Catalog) ([]analysis.Entry, error)
}

// HistoryStore abstracts run persistence for trend/report workflows.
type HistoryStore interface {
	SaveRun(run history.Run) (history.Run, error)
	LoadRuns(project string, since time.Time) ([]history.Run, error)
	Close() error
}
