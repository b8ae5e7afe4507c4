package accumulator

import "funcmetrics/internal/engine/metric"

// Average computes the arithmetic mean of numeric results. With zero
// observations the mean is 0.
type Average struct {
	lifecycle
	sum     float64
	count   int
	average float64
}

func NewAverage() *Average {
	return &Average{}
}

func (a *Average) Strategy() Strategy { return StrategyAverage }

func (a *Average) Accumulate(r metric.Result) error {
	v, ok := metric.Numeric(r.Value)
	if !ok {
		return rejectKind(StrategyAverage, r)
	}
	a.sum += v
	a.count++
	a.touch()
	return nil
}

func (a *Average) Finalize() {
	a.average = mean(a.sum, a.count)
	a.finalize()
}

func (a *Average) Reset() {
	*a = Average{}
}

// Get returns the finalized mean.
func (a *Average) Get() (float64, error) {
	if err := a.ready(StrategyAverage); err != nil {
		return 0, err
	}
	return a.average, nil
}

func (a *Average) Summary() (Summary, error) {
	avg, err := a.Get()
	if err != nil {
		return Summary{}, err
	}
	return Summary{Strategy: StrategyAverage, Count: a.count, Average: avg}, nil
}

func mean(sum float64, count int) float64 {
	if count == 0 {
		return 0
	}
	return sum / float64(count)
}
