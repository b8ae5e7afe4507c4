package accumulator

import "funcmetrics/internal/engine/metric"

// SumAverage is the summary of a SumAverageAccumulator. Sum stays an
// metric.Int while every input was an Int.
type SumAverage struct {
	Sum     metric.Value
	Average float64
}

// SumAverageAccumulator computes the total and the mean of numeric results.
type SumAverageAccumulator struct {
	lifecycle
	intSum   int
	floatSum float64
	allInt   bool
	count    int
	summary  SumAverage
}

func NewSumAverage() *SumAverageAccumulator {
	return &SumAverageAccumulator{allInt: true}
}

func (a *SumAverageAccumulator) Strategy() Strategy { return StrategySumAverage }

func (a *SumAverageAccumulator) Accumulate(r metric.Result) error {
	switch v := r.Value.(type) {
	case metric.Int:
		a.intSum += int(v)
		a.floatSum += float64(v)
	case metric.Float:
		a.allInt = false
		a.floatSum += float64(v)
	default:
		return rejectKind(StrategySumAverage, r)
	}
	a.count++
	a.touch()
	return nil
}

func (a *SumAverageAccumulator) Finalize() {
	var sum metric.Value = metric.Float(a.floatSum)
	if a.allInt {
		sum = metric.Int(a.intSum)
	}
	a.summary = SumAverage{Sum: sum, Average: mean(a.floatSum, a.count)}
	a.finalize()
}

func (a *SumAverageAccumulator) Reset() {
	*a = SumAverageAccumulator{allInt: true}
}

// Get returns the finalized sum and mean.
func (a *SumAverageAccumulator) Get() (SumAverage, error) {
	if err := a.ready(StrategySumAverage); err != nil {
		return SumAverage{}, err
	}
	return a.summary, nil
}

func (a *SumAverageAccumulator) Summary() (Summary, error) {
	s, err := a.Get()
	if err != nil {
		return Summary{}, err
	}
	return Summary{Strategy: StrategySumAverage, Count: a.count, Sum: s.Sum, Average: s.Average}, nil
}
