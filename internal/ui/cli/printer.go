package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	coreapp "funcmetrics/internal/core/app"
	"funcmetrics/internal/data/history"
	"funcmetrics/internal/engine/accumulator"
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#3B82F6")).
			Bold(true)

	metricStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#10B981")).
			Bold(true)

	groupStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FBBF24"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F87171")).
			Bold(true)

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#64748B")).
			Italic(true)
)

type summaryPrinter struct {
	out      io.Writer
	perFile  bool
	perClass bool
}

func (p summaryPrinter) PrintReport(report *coreapp.Report) {
	fmt.Fprintln(p.out, strings.Repeat("-", 40))
	fmt.Fprintln(p.out, titleStyle.Render(fmt.Sprintf("Scanned %d files, %d functions", report.Files, report.Functions)))
	p.printSummaries("  ", report.Project)

	if p.perFile && len(report.PerFile) > 0 {
		fmt.Fprintln(p.out, titleStyle.Render("Per file:"))
		for _, g := range report.PerFile {
			fmt.Fprintf(p.out, "  %s (%d functions)\n", groupStyle.Render(g.Key), g.Functions)
			p.printSummaries("    ", g.Summaries)
		}
	}
	if p.perClass && len(report.PerClass) > 0 {
		fmt.Fprintln(p.out, titleStyle.Render("Per class:"))
		for _, g := range report.PerClass {
			fmt.Fprintf(p.out, "  %s in %s (%d methods)\n", groupStyle.Render(g.Key), g.File, g.Functions)
			p.printSummaries("    ", g.Summaries)
		}
	}

	status := fmt.Sprintf("done in %v", report.Duration)
	if report.RunID != "" {
		status += ", saved run " + report.RunID
	}
	fmt.Fprintln(p.out, statusStyle.Render(status))
	fmt.Fprintln(p.out, strings.Repeat("-", 40))
}

func (p summaryPrinter) printSummaries(indent string, summaries []accumulator.Summary) {
	for _, s := range summaries {
		fmt.Fprintf(p.out, "%s%s: %s\n", indent, metricStyle.Render(s.Metric), s.String())
	}
}

func (p summaryPrinter) PrintError(err error) {
	fmt.Fprintln(p.out, errorStyle.Render("scan failed: "+err.Error()))
}

func (p summaryPrinter) PrintTrend(metric string, points []history.TrendPoint) {
	if len(points) == 0 {
		fmt.Fprintln(p.out, statusStyle.Render("no history for "+metric))
		return
	}
	fmt.Fprintln(p.out, titleStyle.Render(fmt.Sprintf("Trend of %s (%d runs):", metric, len(points))))
	for _, pt := range points {
		fmt.Fprintf(p.out, "  %s  avg=%.2f  delta=%+.2f  functions=%d\n",
			pt.Timestamp.Format("2006-01-02T15:04:05Z07:00"), pt.Average, pt.Delta, pt.Functions)
	}
}
