package sim

import (
	"fmt"
	"io"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Distribution summarizes a sample of durations.
type Distribution struct {
	Count int     `json:"count"`
	Mean  float64 `json:"mean"`
	P50   float64 `json:"p50"`
	P90   float64 `json:"p90"`
	Max   float64 `json:"max"`
}

// NewDistribution computes summary statistics over the sample. A nil or
// empty sample yields the zero Distribution.
func NewDistribution(sample []float64) Distribution {
	if len(sample) == 0 {
		return Distribution{}
	}
	sorted := make([]float64, len(sample))
	copy(sorted, sample)
	sort.Float64s(sorted)
	return Distribution{
		Count: len(sorted),
		Mean:  stat.Mean(sorted, nil),
		P50:   stat.Quantile(0.5, stat.Empirical, sorted, nil),
		P90:   stat.Quantile(0.9, stat.Empirical, sorted, nil),
		Max:   sorted[len(sorted)-1],
	}
}

// SubMetrics splits the headline PR counters by agent population.
type SubMetrics struct {
	PRsCreated  int     `json:"prs_created"`
	PRsMerged   int     `json:"prs_merged"`
	PRsReverted int     `json:"prs_reverted"`
	Cost        float64 `json:"cost,omitempty"`
}

// Metrics are the derived outcomes of one run. Every field is computed from
// the event log alone, so metrics can be re-derived at any time and two runs
// with identical logs have identical metrics.
type Metrics struct {
	DurationDays int `json:"duration_days"`

	PRsCreated   int `json:"prs_created"`
	PRsMerged    int `json:"prs_merged"`
	PRsReverted  int `json:"prs_reverted"`
	PRsAbandoned int `json:"prs_abandoned"`
	PRsOpen      int `json:"prs_open"`

	ReviewsCompleted int `json:"reviews_completed"`

	// MergesPerWeek is delivery throughput; reverted PRs still count as
	// delivered and then failed.
	MergesPerWeek float64 `json:"merges_per_week"`

	// ChangeFailureRate is reverted ÷ merged, 0 when nothing merged.
	ChangeFailureRate float64 `json:"change_failure_rate"`

	CycleTime Distribution `json:"cycle_time_days"`

	Human SubMetrics `json:"human"`
	AI    SubMetrics `json:"ai"`

	// TotalAICost is the cumulative spend on AI-created PRs.
	TotalAICost float64 `json:"total_ai_cost"`

	// AICostPerMergedPR is spend divided by AI merges, 0 when none merged.
	AICostPerMergedPR float64 `json:"ai_cost_per_merged_pr,omitempty"`

	DebtCreated int `json:"debt_created,omitempty"`
	DebtPaid    int `json:"debt_paid,omitempty"`
	DebtActive  int `json:"debt_active,omitempty"`

	IncidentsTotal    int          `json:"incidents_total,omitempty"`
	IncidentsResolved int          `json:"incidents_resolved,omitempty"`
	IncidentMTTR      Distribution `json:"incident_mttr_days,omitempty"`
}

// DeriveMetrics folds the event log into a Metrics record. Pure function of
// the log: calling it twice on the same log yields identical results.
func DeriveMetrics(log *EventLog, totalDays int) *Metrics {
	m := &Metrics{DurationDays: totalDays}
	var cycleTimes []float64
	var mttrs []float64

	for _, e := range log.Events() {
		switch e.Kind {
		case EventPRCreated:
			m.PRsCreated++
			switch e.AgentKind {
			case AgentKindHuman:
				m.Human.PRsCreated++
			case AgentKindAI:
				m.AI.PRsCreated++
				m.AI.Cost += e.Cost
				m.TotalAICost += e.Cost
			}
		case EventPRMerged:
			m.PRsMerged++
			cycleTimes = append(cycleTimes, float64(e.Days))
			switch e.AgentKind {
			case AgentKindHuman:
				m.Human.PRsMerged++
			case AgentKindAI:
				m.AI.PRsMerged++
			}
		case EventPRReverted:
			m.PRsReverted++
			switch e.AgentKind {
			case AgentKindHuman:
				m.Human.PRsReverted++
			case AgentKindAI:
				m.AI.PRsReverted++
			}
		case EventPRAbandoned:
			m.PRsAbandoned++
		case EventReviewCompleted:
			m.ReviewsCompleted++
		case EventTechDebtCreated:
			m.DebtCreated++
		case EventTechDebtPaid:
			m.DebtPaid++
		case EventIncidentCreated:
			m.IncidentsTotal++
		case EventIncidentResolved:
			m.IncidentsResolved++
			mttrs = append(mttrs, float64(e.Days))
		}
	}

	// Reverted PRs were merged first, so merged already includes them and
	// created == open + merged + abandoned holds.
	m.PRsOpen = m.PRsCreated - m.PRsMerged - m.PRsAbandoned
	m.DebtActive = m.DebtCreated - m.DebtPaid
	if totalDays > 0 {
		m.MergesPerWeek = float64(m.PRsMerged) / (float64(totalDays) / daysPerWeek)
	}
	if m.PRsMerged > 0 {
		m.ChangeFailureRate = float64(m.PRsReverted) / float64(m.PRsMerged)
	}
	if m.AI.PRsMerged > 0 {
		m.AICostPerMergedPR = m.TotalAICost / float64(m.AI.PRsMerged)
	}
	m.CycleTime = NewDistribution(cycleTimes)
	m.IncidentMTTR = NewDistribution(mttrs)
	return m
}

// Print writes a human-readable summary.
func (m *Metrics) Print(w io.Writer) {
	fmt.Fprintf(w, "Duration:            %d days\n", m.DurationDays)
	fmt.Fprintf(w, "PRs created:         %d (human %d, ai %d)\n", m.PRsCreated, m.Human.PRsCreated, m.AI.PRsCreated)
	fmt.Fprintf(w, "PRs merged:          %d (human %d, ai %d)\n", m.PRsMerged, m.Human.PRsMerged, m.AI.PRsMerged)
	fmt.Fprintf(w, "PRs reverted:        %d\n", m.PRsReverted)
	fmt.Fprintf(w, "PRs abandoned:       %d\n", m.PRsAbandoned)
	fmt.Fprintf(w, "PRs open at end:     %d\n", m.PRsOpen)
	fmt.Fprintf(w, "Reviews completed:   %d\n", m.ReviewsCompleted)
	fmt.Fprintf(w, "Throughput:          %.2f merges/week\n", m.MergesPerWeek)
	fmt.Fprintf(w, "Change failure rate: %.1f%%\n", m.ChangeFailureRate*100)
	if m.CycleTime.Count > 0 {
		fmt.Fprintf(w, "Cycle time:          mean %.1fd, p50 %.0fd, p90 %.0fd, max %.0fd\n",
			m.CycleTime.Mean, m.CycleTime.P50, m.CycleTime.P90, m.CycleTime.Max)
	}
	if m.TotalAICost > 0 {
		fmt.Fprintf(w, "AI spend:            $%.2f\n", m.TotalAICost)
	}
	if m.DebtCreated > 0 {
		fmt.Fprintf(w, "Tech debt:           %d created, %d paid, %d active\n", m.DebtCreated, m.DebtPaid, m.DebtActive)
	}
	if m.IncidentsTotal > 0 {
		fmt.Fprintf(w, "Incidents:           %d total, %d resolved, MTTR %.1fd\n",
			m.IncidentsTotal, m.IncidentsResolved, m.IncidentMTTR.Mean)
	}
}
