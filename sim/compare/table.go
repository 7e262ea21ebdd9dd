package compare

import (
	"fmt"
	"io"
	"strings"

	"github.com/sdlc-simlab/sdlc-sim/sim"
)

// MetricSpec describes one compared metric: how to read it from a result and
// which direction wins.
type MetricSpec struct {
	Name string
	// HigherIsBetter selects the winning direction for this metric.
	HigherIsBetter bool
	Extract        func(*sim.Metrics) float64
	Format         string
}

// comparedMetrics is the registry of metrics included in comparison tables
// and winner derivation, in display order.
var comparedMetrics = []MetricSpec{
	{Name: "merges_per_week", HigherIsBetter: true, Format: "%.2f",
		Extract: func(m *sim.Metrics) float64 { return m.MergesPerWeek }},
	{Name: "prs_merged", HigherIsBetter: true, Format: "%.0f",
		Extract: func(m *sim.Metrics) float64 { return float64(m.PRsMerged) }},
	{Name: "change_failure_rate", HigherIsBetter: false, Format: "%.3f",
		Extract: func(m *sim.Metrics) float64 { return m.ChangeFailureRate }},
	{Name: "cycle_time_p50", HigherIsBetter: false, Format: "%.1f",
		Extract: func(m *sim.Metrics) float64 { return m.CycleTime.P50 }},
	{Name: "ai_cost", HigherIsBetter: false, Format: "%.2f",
		Extract: func(m *sim.Metrics) float64 { return m.TotalAICost }},
}

// ComparedMetricNames returns the registered metric names in display order.
func ComparedMetricNames() []string {
	names := make([]string, len(comparedMetrics))
	for i, spec := range comparedMetrics {
		names[i] = spec.Name
	}
	return names
}

// Winners maps each compared metric to the winning scenario's name. A tie on
// a metric produces no winner for it.
func (c *Comparison) Winners() map[string]string {
	winners := make(map[string]string, len(comparedMetrics))
	for _, spec := range comparedMetrics {
		if name, ok := c.winnerFor(spec); ok {
			winners[spec.Name] = name
		}
	}
	return winners
}

func (c *Comparison) winnerFor(spec MetricSpec) (string, bool) {
	results := c.succeeded()
	if len(results) == 0 {
		return "", false
	}
	best := results[0]
	bestValue := spec.Extract(best.Metrics)
	tied := false
	for _, r := range results[1:] {
		v := spec.Extract(r.Metrics)
		switch {
		case v == bestValue:
			tied = true
		case spec.HigherIsBetter && v > bestValue,
			!spec.HigherIsBetter && v < bestValue:
			best, bestValue, tied = r, v, false
		}
	}
	if tied {
		return "", false
	}
	return best.Scenario, true
}

// WriteTable renders a side-by-side comparison table, scenarios as columns
// and metrics as rows, with a winner column when one exists.
func (c *Comparison) WriteTable(w io.Writer) {
	nameWidth := len("metric")
	for _, spec := range comparedMetrics {
		if len(spec.Name) > nameWidth {
			nameWidth = len(spec.Name)
		}
	}
	colWidth := 12
	for _, r := range c.Results {
		if len(r.Scenario) > colWidth {
			colWidth = len(r.Scenario)
		}
	}

	fmt.Fprintf(w, "%-*s", nameWidth, "metric")
	for _, r := range c.Results {
		fmt.Fprintf(w, "  %*s", colWidth, r.Scenario)
	}
	fmt.Fprintf(w, "  winner\n")
	fmt.Fprintf(w, "%s\n", strings.Repeat("-", nameWidth+(colWidth+2)*len(c.Results)+8))

	winners := c.Winners()
	for _, spec := range comparedMetrics {
		fmt.Fprintf(w, "%-*s", nameWidth, spec.Name)
		for _, r := range c.Results {
			value := "failed"
			if !r.Failed() {
				value = fmt.Sprintf(spec.Format, spec.Extract(r.Metrics))
			}
			fmt.Fprintf(w, "  %*s", colWidth, value)
		}
		fmt.Fprintf(w, "  %s\n", winners[spec.Name])
	}
}
