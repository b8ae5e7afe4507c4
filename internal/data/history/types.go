package history

import "time"

const SchemaVersion = 1

// Run is one persisted scan.
type Run struct {
	ID        string
	Project   string
	Timestamp time.Time
	Files     int
	Functions int
	Summaries []MetricSummary
}

// MetricSummary is the project-wide summary of one metric in a run. Only the
// fields of its strategy are meaningful.
type MetricSummary struct {
	Metric     string
	Strategy   string
	Count      int
	Average    float64
	Sum        float64
	SumIsInt   bool
	Categories map[string]int
}
