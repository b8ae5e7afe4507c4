package app

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"funcmetrics/internal/core/config"
	"funcmetrics/internal/core/ports"
	"funcmetrics/internal/data/history"
	"funcmetrics/internal/engine/accumulator"
	"funcmetrics/internal/engine/analysis"
	"funcmetrics/internal/engine/metric"
	"funcmetrics/internal/engine/parser"
)

type App struct {
	Config *config.Config

	parser     *parser.Parser
	analyzer   ports.FunctionAnalyzer
	catalog    *metric.Catalog
	template   *accumulator.Set
	history    ports.HistoryStore
	lastReport *Report
	mu         sync.RWMutex
}

// New wires the parser, catalog, accumulators and optional history store
// described by cfg. cfg is expected to have passed config.Finish.
func New(cfg *config.Config) (*App, error) {
	analysis.SetDebugAssertions(cfg.Analysis.DebugAssertions)

	loader, err := parser.NewGrammarLoader()
	if err != nil {
		return nil, err
	}
	p := parser.NewParser(loader)
	catalog, err := metric.DefaultRegistry().Catalog(cfg.Analysis.Metrics...)
	if err != nil {
		return nil, err
	}
	template, err := accumulator.NewSetFromStrategies(cfg.Analysis.Metrics, cfg.Accumulators)
	if err != nil {
		return nil, err
	}

	a := &App{
		Config:   cfg,
		parser:   p,
		analyzer: analysis.NewAnalyzer(p, parser.NewFunctionExtractor(), analysis.Options{Workers: cfg.Analysis.Workers}),
		catalog:  catalog,
		template: template,
	}

	if cfg.History.Enabled {
		store, err := history.Open(cfg.History.Path)
		if err != nil {
			if history.IsCorruptError(err) {
				return nil, fmt.Errorf("history database %q is corrupt, remove it to start a new history: %w", cfg.History.Path, err)
			}
			return nil, err
		}
		a.history = store
		slog.Debug("history enabled", "path", store.Path(), "project", cfg.History.Project)
	}
	return a, nil
}

// Close releases the history store, if any.
func (a *App) Close() error {
	if a.history == nil {
		return nil
	}
	return a.history.Close()
}

// Catalog returns the metric catalog applied to every function.
func (a *App) Catalog() *metric.Catalog {
	return a.catalog
}

// History returns the runs persisted for the configured project since the
// given time. It fails when history is disabled.
func (a *App) History(since time.Time) ([]history.Run, error) {
	if a.history == nil {
		return nil, fmt.Errorf("history is disabled")
	}
	return a.history.LoadRuns(a.Config.History.Project, since)
}

// LastReport returns the most recent successful scan report, or nil.
func (a *App) LastReport() *Report {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.lastReport
}

func (a *App) setLastReport(r *Report) {
	a.mu.Lock()
	a.lastReport = r
	a.mu.Unlock()
}
