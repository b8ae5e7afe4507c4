package history

import (
	"fmt"
	"time"
)

// TrendPoint is the value of one metric's average in one run and its change
// from the previous run.
type TrendPoint struct {
	RunID     string
	Timestamp time.Time
	Functions int
	Average   float64
	Delta     float64
}

// BuildTrend follows the average of metric across runs in the given order.
// Runs that did not summarize the metric are skipped.
func BuildTrend(runs []Run, metric string) ([]TrendPoint, error) {
	points := make([]TrendPoint, 0, len(runs))
	for _, run := range runs {
		summary, ok := findSummary(run, metric)
		if !ok {
			continue
		}
		if summary.Strategy == "categorical" {
			return nil, fmt.Errorf("metric %q is categorical and has no average", metric)
		}
		point := TrendPoint{
			RunID:     run.ID,
			Timestamp: run.Timestamp,
			Functions: run.Functions,
			Average:   summary.Average,
		}
		if len(points) > 0 {
			point.Delta = point.Average - points[len(points)-1].Average
		}
		points = append(points, point)
	}
	return points, nil
}

func findSummary(run Run, metric string) (MetricSummary, bool) {
	for _, s := range run.Summaries {
		if s.Metric == metric {
			return s, true
		}
	}
	return MetricSummary{}, false
}
