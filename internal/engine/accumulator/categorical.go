package accumulator

import "funcmetrics/internal/engine/metric"

// Categorical counts occurrences of each distinct string result.
type Categorical struct {
	lifecycle
	counts  map[string]int
	total   int
	summary map[string]int
}

func NewCategorical() *Categorical {
	return &Categorical{counts: make(map[string]int)}
}

func (c *Categorical) Strategy() Strategy { return StrategyCategorical }

func (c *Categorical) Accumulate(r metric.Result) error {
	v, ok := r.Value.(metric.String)
	if !ok {
		return rejectKind(StrategyCategorical, r)
	}
	if c.counts == nil {
		c.counts = make(map[string]int)
	}
	c.counts[string(v)]++
	c.total++
	c.touch()
	return nil
}

func (c *Categorical) Finalize() {
	c.summary = copyCounts(c.counts)
	c.finalize()
}

func (c *Categorical) Reset() {
	*c = Categorical{counts: make(map[string]int)}
}

// Get returns a copy of the finalized frequency table.
func (c *Categorical) Get() (map[string]int, error) {
	if err := c.ready(StrategyCategorical); err != nil {
		return nil, err
	}
	return copyCounts(c.summary), nil
}

func (c *Categorical) Summary() (Summary, error) {
	counts, err := c.Get()
	if err != nil {
		return Summary{}, err
	}
	return Summary{Strategy: StrategyCategorical, Count: c.total, Categories: counts}, nil
}

func copyCounts(in map[string]int) map[string]int {
	out := make(map[string]int, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
