// Package analysis ties parsing, function extraction, metric computation and
// accumulation together.
package analysis

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"funcmetrics/internal/core/errors"
	"funcmetrics/internal/engine/accumulator"
	"funcmetrics/internal/engine/function"
	"funcmetrics/internal/engine/metric"
	"funcmetrics/internal/engine/syntax"
	"funcmetrics/internal/shared/observability"
)

// Stages reported in error context.
const (
	StageParse   = "parse"
	StageExtract = "extract"
)

// Parser turns a file into a syntax tree.
type Parser interface {
	Parse(path string) (*syntax.Tree, error)
}

// Extractor lists the functions of a syntax tree in declaration order.
type Extractor interface {
	Extract(tree *syntax.Tree) ([]function.Function, error)
}

// Entry pairs a function with its metric results.
type Entry struct {
	Function function.Function
	Results  metric.Results
}

type Options struct {
	// Workers bounds concurrent parsing. Values below 2 parse sequentially.
	Workers int
}

type Analyzer struct {
	parser    Parser
	extractor Extractor
	opts      Options
}

func NewAnalyzer(parser Parser, extractor Extractor, opts Options) *Analyzer {
	return &Analyzer{parser: parser, extractor: extractor, opts: opts}
}

type parsed struct {
	tree *syntax.Tree
	err  error
}

// AnalyseFunctions parses and extracts every file, then computes the catalog
// metrics for each function. Entries are ordered by file, then by
// declaration. The call is atomic: the first failing file in file order fails
// it and no entries are returned.
func (a *Analyzer) AnalyseFunctions(ctx context.Context, files []string, catalog *metric.Catalog) ([]Entry, error) {
	ctx, span := observability.Tracer.Start(ctx, "analysis.AnalyseFunctions",
		trace.WithAttributes(attribute.Int("files", len(files)), attribute.Int("workers", a.opts.Workers)))
	defer span.End()
	start := time.Now()

	trees, err := a.parseAll(ctx, files)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	var entries []Entry
	for i, path := range files {
		if trees[i].err != nil {
			return nil, a.fail(span, trees[i].err, path, StageParse)
		}
		fns, err := a.extractor.Extract(trees[i].tree)
		if err != nil {
			return nil, a.fail(span, err, path, StageExtract)
		}
		for _, fn := range fns {
			entries = append(entries, Entry{Function: fn, Results: catalog.Get(fn)})
		}
		observability.FilesAnalyzedTotal.Inc()
	}

	observability.FunctionsAnalyzedTotal.Add(float64(len(entries)))
	observability.AnalysisDuration.WithLabelValues("analyse_functions").Observe(time.Since(start).Seconds())
	span.SetAttributes(attribute.Int("functions", len(entries)))
	slog.Debug("analysed functions", "files", len(files), "functions", len(entries), "duration", time.Since(start))
	return entries, nil
}

// parseAll parses files in order, or with a bounded worker group when
// configured. Per-file errors are kept in place so the caller reports the
// first failure in file order.
func (a *Analyzer) parseAll(ctx context.Context, files []string) ([]parsed, error) {
	out := make([]parsed, len(files))
	if a.opts.Workers < 2 {
		for i, path := range files {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			out[i] = a.parseOne(ctx, path)
			if out[i].err != nil {
				// Later files cannot change the outcome.
				return out[:i+1], nil
			}
		}
		return out, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.opts.Workers)
	for i, path := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			out[i] = a.parseOne(gctx, path)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func (a *Analyzer) parseOne(ctx context.Context, path string) parsed {
	_, span := observability.Tracer.Start(ctx, "analysis.parse", trace.WithAttributes(attribute.String("path", path)))
	defer span.End()
	start := time.Now()
	tree, err := a.parser.Parse(path)
	if err != nil {
		span.RecordError(err)
		return parsed{err: err}
	}
	observability.ParsingDuration.WithLabelValues(tree.Language).Observe(time.Since(start).Seconds())
	return parsed{tree: tree}
}

func (a *Analyzer) fail(span trace.Span, err error, path, stage string) error {
	observability.AnalysisErrorsTotal.WithLabelValues(stage).Inc()
	err = errors.AddContext(err, errors.CtxPath, path)
	err = errors.AddContext(err, errors.CtxStage, stage)
	span.RecordError(err)
	return err
}

// AccumulateFunctionAnalysis feeds every entry's results to acc in order. It
// does not finalize.
func AccumulateFunctionAnalysis(entries []Entry, acc *accumulator.Set) error {
	for _, e := range entries {
		if err := acc.AccumulateNextFunctionResults(e.Results); err != nil {
			return errors.AddContext(err, errors.CtxSymbol, e.Function.QualifiedName())
		}
	}
	return nil
}
