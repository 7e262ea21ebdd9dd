package compare

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strconv"

	"github.com/sdlc-simlab/sdlc-sim/sim"
)

// Report is the nested JSON export shape: full per-scenario results plus the
// derived winners and insights.
type Report struct {
	Scenarios []*sim.RunResult  `json:"scenarios"`
	Winners   map[string]string `json:"winners"`
	Insights  []string          `json:"insights"`
}

// Report assembles the exportable report from the comparison.
func (c *Comparison) Report() (*Report, error) {
	if len(c.Results) == 0 {
		return nil, fmt.Errorf("%w: comparison has no results to export", sim.ErrState)
	}
	return &Report{
		Scenarios: c.Results,
		Winners:   c.Winners(),
		Insights:  c.Insights(),
	}, nil
}

// ExportJSON writes the nested report to path. The file is only created
// after successful serialization, so a failed export leaves no partial file.
func (c *Comparison) ExportJSON(path string) error {
	report, err := c.Report()
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding comparison report: %w", err)
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}

// csvColumns are the flat export columns, one row per scenario.
var csvColumns = []string{
	"scenario", "duration_days",
	"prs_created", "prs_merged", "prs_reverted", "prs_abandoned", "prs_open",
	"reviews_completed", "merges_per_week", "change_failure_rate",
	"cycle_time_mean", "cycle_time_p50", "cycle_time_p90",
	"human_prs_created", "human_prs_merged",
	"ai_prs_created", "ai_prs_merged", "ai_cost",
	"winner_metrics", "failure",
}

// ExportCSV writes a flat one-row-per-scenario table to path. Columns are
// fixed and ordered, rows follow run order, so diffs between exports are
// meaningful.
func (c *Comparison) ExportCSV(path string) error {
	if len(c.Results) == 0 {
		return fmt.Errorf("%w: comparison has no results to export", sim.ErrState)
	}
	winners := c.Winners()
	wonBy := make(map[string][]string)
	for metric, scenario := range winners {
		wonBy[scenario] = append(wonBy[scenario], metric)
	}
	for _, metrics := range wonBy {
		sort.Strings(metrics)
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(csvColumns); err != nil {
		return fmt.Errorf("encoding comparison csv: %w", err)
	}
	for _, r := range c.Results {
		if r.Failed() {
			row := make([]string, len(csvColumns))
			row[0] = r.Scenario
			row[len(row)-1] = r.Failure
			if err := w.Write(row); err != nil {
				return fmt.Errorf("encoding comparison csv: %w", err)
			}
			continue
		}
		m := r.Metrics
		row := []string{
			r.Scenario,
			strconv.Itoa(m.DurationDays),
			strconv.Itoa(m.PRsCreated),
			strconv.Itoa(m.PRsMerged),
			strconv.Itoa(m.PRsReverted),
			strconv.Itoa(m.PRsAbandoned),
			strconv.Itoa(m.PRsOpen),
			strconv.Itoa(m.ReviewsCompleted),
			formatFloat(m.MergesPerWeek),
			formatFloat(m.ChangeFailureRate),
			formatFloat(m.CycleTime.Mean),
			formatFloat(m.CycleTime.P50),
			formatFloat(m.CycleTime.P90),
			strconv.Itoa(m.Human.PRsCreated),
			strconv.Itoa(m.Human.PRsMerged),
			strconv.Itoa(m.AI.PRsCreated),
			strconv.Itoa(m.AI.PRsMerged),
			formatFloat(m.TotalAICost),
			joinSemicolon(wonBy[r.Scenario]),
			"",
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("encoding comparison csv: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("encoding comparison csv: %w", err)
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 4, 64)
}

func joinSemicolon(items []string) string {
	out := ""
	for i, item := range items {
		if i > 0 {
			out += ";"
		}
		out += item
	}
	return out
}
