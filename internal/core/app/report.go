package app

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"funcmetrics/internal/data/history"
	"funcmetrics/internal/engine/accumulator"
	"funcmetrics/internal/engine/analysis"
	"funcmetrics/internal/engine/metric"
	"funcmetrics/internal/shared/observability"
	"funcmetrics/internal/shared/util"
)

// GroupSummary holds the finalized summaries of one file or one class.
type GroupSummary struct {
	Key       string // file path, or class name for per-class groups
	File      string
	Functions int
	Summaries []accumulator.Summary
}

// Report is the outcome of one scan.
type Report struct {
	RunID     string
	Files     int
	Functions int
	Project   []accumulator.Summary
	PerFile   []GroupSummary
	PerClass  []GroupSummary
	Duration  time.Duration
}

// Scan discovers source files under the configured scan paths, measures
// every function, and summarizes the results project-wide, per file and per
// class. When history is enabled the project summaries are persisted.
func (a *App) Scan(ctx context.Context) (*Report, error) {
	ctx, span := observability.Tracer.Start(ctx, "app.Scan")
	defer span.End()
	start := time.Now()

	files, err := a.ScanDirectories(a.Config.ScanPaths, a.Config.Exclude.Dirs, a.Config.Exclude.Files)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	span.SetAttributes(attribute.Int("files", len(files)))

	entries, err := a.analyzer.AnalyseFunctions(ctx, files, a.catalog)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	if a.Config.Analysis.DebugAssertions {
		if err := analysis.CheckContiguity(entries, analysis.FileKey); err != nil {
			slog.Warn("file groups are not contiguous", "error", err)
		}
	}

	project, err := a.summarize(entries)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	perFile, err := a.summarizeGroups(analysis.SplitByFiles(entries), analysis.FileKey)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	perClass, err := a.summarizeGroups(analysis.SplitByClasses(entries), analysis.ClassKey)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	report := &Report{
		Files:     len(files),
		Functions: len(entries),
		Project:   project,
		PerFile:   perFile,
		PerClass:  perClass,
	}

	if a.history != nil {
		run, err := a.saveRun(report)
		if err != nil {
			// History failures never fail the scan.
			slog.Warn("failed to save history run", "error", err)
		} else {
			report.RunID = run.ID
		}
	}

	report.Duration = time.Since(start)
	observability.LastRunFunctions.Set(float64(report.Functions))
	observability.AnalysisDuration.WithLabelValues("scan").Observe(report.Duration.Seconds())
	a.setLastReport(report)
	slog.Info("scan complete", "files", report.Files, "functions", report.Functions, "duration", report.Duration, "heap_mb", util.HeapAllocMB())
	return report, nil
}

func (a *App) summarize(entries []analysis.Entry) ([]accumulator.Summary, error) {
	set := a.template.Clone()
	if err := analysis.AccumulateFunctionAnalysis(entries, set); err != nil {
		return nil, err
	}
	set.Finalize()
	return set.Summaries()
}

func (a *App) summarizeGroups(groups [][]analysis.Entry, key func(analysis.Entry) string) ([]GroupSummary, error) {
	out := make([]GroupSummary, 0, len(groups))
	for _, group := range groups {
		summaries, err := a.summarize(group)
		if err != nil {
			return nil, err
		}
		out = append(out, GroupSummary{
			Key:       key(group[0]),
			File:      group[0].Function.Filename,
			Functions: len(group),
			Summaries: summaries,
		})
	}
	return out, nil
}

func (a *App) saveRun(report *Report) (history.Run, error) {
	start := time.Now()
	defer func() {
		observability.HistoryWriteDuration.Observe(time.Since(start).Seconds())
	}()
	return a.history.SaveRun(history.Run{
		Project:   a.Config.History.Project,
		Files:     report.Files,
		Functions: report.Functions,
		Summaries: toMetricSummaries(report.Project),
	})
}

func toMetricSummaries(summaries []accumulator.Summary) []history.MetricSummary {
	out := make([]history.MetricSummary, 0, len(summaries))
	for _, s := range summaries {
		ms := history.MetricSummary{
			Metric:     s.Metric,
			Strategy:   string(s.Strategy),
			Count:      s.Count,
			Average:    s.Average,
			Categories: s.Categories,
		}
		if s.Sum != nil {
			type sum struct {
				value float64
				isInt bool
			}
			v := metric.Match(s.Sum,
				func(i int) sum { return sum{float64(i), true} },
				func(f float64) sum { return sum{f, false} },
				func(string) sum { return sum{} },
			)
			ms.Sum, ms.SumIsInt = v.value, v.isInt
		}
		out = append(out, ms)
	}
	return out
}
