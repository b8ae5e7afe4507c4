package accumulator

import (
	"fmt"

	"funcmetrics/internal/core/errors"
	"funcmetrics/internal/engine/metric"
)

// Set routes each metric result to the accumulator registered for its metric
// name. Results for metrics without an accumulator are skipped.
type Set struct {
	order []string
	byKey map[string]Accumulator
}

func NewSet() *Set {
	return &Set{byKey: make(map[string]Accumulator)}
}

// NewSetFromStrategies builds a set with one fresh accumulator per entry,
// registered in the order of names.
func NewSetFromStrategies(names []string, strategies map[string]Strategy) (*Set, error) {
	s := NewSet()
	for _, name := range names {
		strategy, ok := strategies[name]
		if !ok {
			continue
		}
		acc, err := New(strategy)
		if err != nil {
			return nil, errors.AddContext(err, errors.CtxMetric, name)
		}
		if err := s.Register(name, acc); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Register attaches acc to metricName.
func (s *Set) Register(metricName string, acc Accumulator) error {
	if acc == nil {
		return errors.New(errors.CodeValidationError, "nil accumulator")
	}
	if _, ok := s.byKey[metricName]; ok {
		err := &errors.DomainError{Code: errors.CodeConflict, Message: fmt.Sprintf("accumulator for %q already registered", metricName)}
		return err.WithContext(errors.CtxMetric, metricName)
	}
	s.order = append(s.order, metricName)
	s.byKey[metricName] = acc
	return nil
}

// AccumulateNextFunctionResults feeds one function's results to the
// registered accumulators.
func (s *Set) AccumulateNextFunctionResults(results metric.Results) error {
	for _, r := range results.All() {
		acc, ok := s.byKey[r.Name]
		if !ok {
			continue
		}
		if err := acc.Accumulate(r); err != nil {
			return err
		}
	}
	return nil
}

func (s *Set) Finalize() {
	for _, name := range s.order {
		s.byKey[name].Finalize()
	}
}

func (s *Set) Reset() {
	for _, name := range s.order {
		s.byKey[name].Reset()
	}
}

// Get returns the accumulator registered for metricName.
func (s *Set) Get(metricName string) (Accumulator, error) {
	acc, ok := s.byKey[metricName]
	if !ok {
		err := &errors.DomainError{Code: errors.CodeNotFound, Message: fmt.Sprintf("no accumulator for %q", metricName)}
		return nil, err.WithContext(errors.CtxMetric, metricName)
	}
	return acc, nil
}

// Names returns metric names in registration order.
func (s *Set) Names() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// Summaries returns the summary of every accumulator in registration order,
// each tagged with its metric name.
func (s *Set) Summaries() ([]Summary, error) {
	out := make([]Summary, 0, len(s.order))
	for _, name := range s.order {
		summary, err := s.byKey[name].Summary()
		if err != nil {
			return nil, errors.AddContext(err, errors.CtxMetric, name)
		}
		summary.Metric = name
		out = append(out, summary)
	}
	return out, nil
}

// Clone returns a set with fresh accumulators of the same strategies.
func (s *Set) Clone() *Set {
	out := NewSet()
	for _, name := range s.order {
		acc, _ := New(s.byKey[name].Strategy())
		out.order = append(out.order, name)
		out.byKey[name] = acc
	}
	return out
}
