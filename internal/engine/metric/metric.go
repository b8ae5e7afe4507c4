// Package metric computes per-function metrics from extracted functions.
package metric

import (
	"fmt"

	"funcmetrics/internal/core/errors"
	"funcmetrics/internal/engine/function"
)

// Result is one metric value computed for one function.
type Result struct {
	Name  string
	Value Value
}

// Metric computes a single named value from a function. Implementations are
// pure and total: they never fail and fall back to a sentinel value when the
// function cannot be measured. The Value variant is fixed per metric.
type Metric interface {
	Name() string
	Kind() Kind
	Calculate(fn function.Function) Result
}

// Results holds one Result per catalog metric, in catalog order.
type Results struct {
	order []string
	byKey map[string]Result
}

func newResults(capacity int) Results {
	return Results{
		order: make([]string, 0, capacity),
		byKey: make(map[string]Result, capacity),
	}
}

// NewResults builds Results from rs, keeping the first occurrence of a name.
func NewResults(rs ...Result) Results {
	out := newResults(len(rs))
	for _, r := range rs {
		out.add(r)
	}
	return out
}

func (r *Results) add(res Result) {
	if _, ok := r.byKey[res.Name]; ok {
		return
	}
	r.order = append(r.order, res.Name)
	r.byKey[res.Name] = res
}

// Get returns the result for name.
func (r Results) Get(name string) (Result, bool) {
	res, ok := r.byKey[name]
	return res, ok
}

// Names returns metric names in catalog order.
func (r Results) Names() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// All returns the results in catalog order.
func (r Results) All() []Result {
	out := make([]Result, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.byKey[name])
	}
	return out
}

func (r Results) Len() int {
	return len(r.order)
}

// Catalog applies a fixed, ordered set of metrics to functions.
type Catalog struct {
	metrics []Metric
}

// NewCatalog builds a catalog. Metric names must be unique.
func NewCatalog(metrics ...Metric) (*Catalog, error) {
	seen := make(map[string]bool, len(metrics))
	for _, m := range metrics {
		if m == nil {
			return nil, errors.New(errors.CodeValidationError, "nil metric in catalog")
		}
		if seen[m.Name()] {
			return nil, errors.New(errors.CodeValidationError, fmt.Sprintf("duplicate metric %q in catalog", m.Name()))
		}
		seen[m.Name()] = true
	}
	out := make([]Metric, len(metrics))
	copy(out, metrics)
	return &Catalog{metrics: out}, nil
}

// Get computes every catalog metric for fn.
func (c *Catalog) Get(fn function.Function) Results {
	results := newResults(len(c.metrics))
	for _, m := range c.metrics {
		results.add(m.Calculate(fn))
	}
	return results
}

// Metrics returns the catalog's metrics in order.
func (c *Catalog) Metrics() []Metric {
	out := make([]Metric, len(c.metrics))
	copy(out, c.metrics)
	return out
}

// Lookup returns the catalog metric called name.
func (c *Catalog) Lookup(name string) (Metric, bool) {
	for _, m := range c.metrics {
		if m.Name() == name {
			return m, true
		}
	}
	return nil, false
}
