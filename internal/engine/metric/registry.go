package metric

import (
	"fmt"
	"sort"
	"strings"

	"funcmetrics/internal/core/errors"
)

// Factory creates a metric instance.
type Factory func() Metric

// Registry maps metric names to factories.
type Registry struct {
	factories map[string]Factory
}

func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// DefaultRegistry returns a registry holding every built-in metric.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	for _, f := range []Factory{
		func() Metric { return CodeLinesCount{} },
		func() Metric { return CyclomaticComplexity{} },
		func() Metric { return NamingStyle{} },
		func() Metric { return ParametersCount{} },
	} {
		_ = r.Register(f)
	}
	return r
}

// DefaultNames lists the built-in metrics in their canonical order.
func DefaultNames() []string {
	return []string{CodeLinesCountName, CyclomaticComplexityName, NamingStyleName, ParametersCountName}
}

// Register adds a factory under the name of the metric it produces.
func (r *Registry) Register(f Factory) error {
	if f == nil {
		return errors.New(errors.CodeValidationError, "nil metric factory")
	}
	name := f().Name()
	if strings.TrimSpace(name) == "" {
		return errors.New(errors.CodeValidationError, "metric name must not be empty")
	}
	if _, ok := r.factories[name]; ok {
		return errors.New(errors.CodeConflict, fmt.Sprintf("metric %q already registered", name))
	}
	r.factories[name] = f
	return nil
}

// New instantiates the metric called name.
func (r *Registry) New(name string) (Metric, error) {
	f, ok := r.factories[name]
	if !ok {
		err := &errors.DomainError{Code: errors.CodeValidationError, Message: fmt.Sprintf("unknown metric %q", name)}
		return nil, err.WithContext(errors.CtxMetric, name)
	}
	return f(), nil
}

// Names returns the registered metric names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Catalog builds a catalog from names, in the given order.
func (r *Registry) Catalog(names ...string) (*Catalog, error) {
	metrics := make([]Metric, 0, len(names))
	for _, name := range names {
		m, err := r.New(name)
		if err != nil {
			return nil, err
		}
		metrics = append(metrics, m)
	}
	return NewCatalog(metrics...)
}
