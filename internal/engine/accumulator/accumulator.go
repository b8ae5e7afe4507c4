// Package accumulator reduces streams of metric results into summaries.
//
// Every accumulator follows the same lifecycle. Accumulate moves it to
// StateAccumulating, Finalize computes the summary and moves it to
// StateFinalized, Reset returns it to StateEmpty. A summary can only be read
// in StateFinalized; any Accumulate after Finalize makes the previous summary
// stale until the next Finalize.
//
// Accumulators are not safe for concurrent use.
package accumulator

import (
	"fmt"
	"sort"
	"strings"

	"funcmetrics/internal/core/errors"
	"funcmetrics/internal/engine/metric"
)

type State uint8

const (
	StateEmpty State = iota
	StateAccumulating
	StateFinalized
)

func (s State) String() string {
	switch s {
	case StateEmpty:
		return "empty"
	case StateAccumulating:
		return "accumulating"
	case StateFinalized:
		return "finalized"
	default:
		return fmt.Sprintf("state(%d)", uint8(s))
	}
}

// Strategy names an aggregation strategy.
type Strategy string

const (
	StrategyAverage     Strategy = "average"
	StrategySumAverage  Strategy = "sum_average"
	StrategyCategorical Strategy = "categorical"
)

// Strategies returns every known strategy.
func Strategies() []Strategy {
	return []Strategy{StrategyAverage, StrategySumAverage, StrategyCategorical}
}

// Accepts reports whether the strategy can ingest values of kind k.
func (s Strategy) Accepts(k metric.Kind) bool {
	switch s {
	case StrategyAverage, StrategySumAverage:
		return k == metric.KindInt || k == metric.KindFloat
	case StrategyCategorical:
		return k == metric.KindString
	default:
		return false
	}
}

// Accumulator is the capability shared by every concrete accumulator.
type Accumulator interface {
	Strategy() Strategy
	// Accumulate merges r into the running aggregate. A value of the wrong
	// kind is rejected with a validation error and leaves the state alone.
	Accumulate(r metric.Result) error
	// Finalize computes the summary. It is idempotent and legal with zero
	// observations.
	Finalize()
	Reset()
	State() State
	// Summary returns the finalized summary in a strategy-independent shape.
	Summary() (Summary, error)
}

// New builds an empty accumulator for strategy.
func New(strategy Strategy) (Accumulator, error) {
	switch strategy {
	case StrategyAverage:
		return NewAverage(), nil
	case StrategySumAverage:
		return NewSumAverage(), nil
	case StrategyCategorical:
		return NewCategorical(), nil
	default:
		return nil, errors.New(errors.CodeValidationError, fmt.Sprintf("unknown accumulator strategy %q", strategy))
	}
}

// Summary is a finalized summary. Only the fields of its strategy are set.
type Summary struct {
	Metric     string         `json:"metric,omitempty"`
	Strategy   Strategy       `json:"strategy"`
	Count      int            `json:"count"`
	Average    float64        `json:"average,omitempty"`
	Sum        metric.Value   `json:"-"`
	Categories map[string]int `json:"categories,omitempty"`
}

// String renders the summary on one line, categories sorted by name.
func (s Summary) String() string {
	switch s.Strategy {
	case StrategyAverage:
		return fmt.Sprintf("avg=%.2f n=%d", s.Average, s.Count)
	case StrategySumAverage:
		sum := "0"
		if s.Sum != nil {
			sum = s.Sum.String()
		}
		return fmt.Sprintf("sum=%s avg=%.2f n=%d", sum, s.Average, s.Count)
	case StrategyCategorical:
		keys := make([]string, 0, len(s.Categories))
		for k := range s.Categories {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			parts = append(parts, fmt.Sprintf("%s=%d", k, s.Categories[k]))
		}
		return strings.Join(parts, ", ")
	default:
		return ""
	}
}

// lifecycle carries the state shared by all accumulators.
type lifecycle struct {
	state State
}

func (l *lifecycle) State() State { return l.state }

func (l *lifecycle) touch()    { l.state = StateAccumulating }
func (l *lifecycle) finalize() { l.state = StateFinalized }
func (l *lifecycle) reset()    { l.state = StateEmpty }

func (l *lifecycle) ready(strategy Strategy) error {
	if l.state == StateFinalized {
		return nil
	}
	return notFinalized(strategy, l.state)
}

func notFinalized(strategy Strategy, state State) error {
	err := &errors.DomainError{
		Code:    errors.CodeNotFinalized,
		Message: fmt.Sprintf("%s accumulator read while %s; call Finalize first", strategy, state),
	}
	return err.WithContext(errors.CtxOperation, "get")
}

func rejectKind(strategy Strategy, r metric.Result) error {
	err := &errors.DomainError{
		Code:    errors.CodeValidationError,
		Message: fmt.Sprintf("%s accumulator cannot ingest %s value", strategy, metric.KindOf(r.Value)),
	}
	return err.WithContext(errors.CtxMetric, r.Name)
}

// IsNotFinalized reports whether err is a read-before-finalize error.
func IsNotFinalized(err error) bool {
	return errors.IsCode(err, errors.CodeNotFinalized)
}
