package compare

import (
	"fmt"

	"github.com/sdlc-simlab/sdlc-sim/sim"
)

// Insights derives short natural-language observations from the comparison.
// Each insight fires only when its precondition holds, so the list length
// varies with the scenario mix. Deterministic: same results, same insights,
// same order.
func (c *Comparison) Insights() []string {
	var insights []string

	if r := c.maxBy(func(m *sim.Metrics) float64 { return m.MergesPerWeek }); r != nil {
		insights = append(insights, fmt.Sprintf(
			"%s delivers the highest throughput at %.2f merges/week",
			r.Scenario, r.Metrics.MergesPerWeek))
	}

	if r := c.minBy(func(m *sim.Metrics) float64 { return m.ChangeFailureRate },
		func(m *sim.Metrics) bool { return m.PRsMerged > 0 }); r != nil {
		insights = append(insights, fmt.Sprintf(
			"%s has the best quality with a %.1f%% change failure rate",
			r.Scenario, r.Metrics.ChangeFailureRate*100))
	}

	if r := c.minBy(costPerMerge, func(m *sim.Metrics) bool {
		return m.TotalAICost > 0 && m.PRsMerged > 0
	}); r != nil {
		insights = append(insights, fmt.Sprintf(
			"%s is the most cost-efficient AI scenario at $%.2f per merged PR",
			r.Scenario, costPerMerge(r.Metrics)))
	}

	if human, mixed := c.findKind(false), c.findKind(true); human != nil && mixed != nil {
		delta := 0.0
		if human.Metrics.MergesPerWeek > 0 {
			delta = (mixed.Metrics.MergesPerWeek - human.Metrics.MergesPerWeek) /
				human.Metrics.MergesPerWeek * 100
		}
		verb := "increases"
		if delta < 0 {
			verb = "decreases"
			delta = -delta
		}
		insights = append(insights, fmt.Sprintf(
			"adding AI agents (%s vs %s) %s throughput by %.0f%%",
			mixed.Scenario, human.Scenario, verb, delta))
	}

	return insights
}

func costPerMerge(m *sim.Metrics) float64 {
	return m.TotalAICost / float64(m.PRsMerged)
}

// maxBy returns the first completed result maximizing the extractor, nil
// when none completed.
func (c *Comparison) maxBy(extract func(*sim.Metrics) float64) *sim.RunResult {
	var best *sim.RunResult
	for _, r := range c.succeeded() {
		if best == nil || extract(r.Metrics) > extract(best.Metrics) {
			best = r
		}
	}
	return best
}

// minBy returns the first eligible completed result minimizing the extractor.
func (c *Comparison) minBy(extract func(*sim.Metrics) float64, eligible func(*sim.Metrics) bool) *sim.RunResult {
	var best *sim.RunResult
	for _, r := range c.succeeded() {
		if !eligible(r.Metrics) {
			continue
		}
		if best == nil || extract(r.Metrics) < extract(best.Metrics) {
			best = r
		}
	}
	return best
}

// findKind returns the first scenario with (or without) AI agents on the
// team. Classification follows team composition, not realized output, so a
// mixed team whose AI agents happened to produce nothing still counts as
// mixed.
func (c *Comparison) findKind(withAI bool) *sim.RunResult {
	for _, r := range c.succeeded() {
		if r.HasAIAgents() == withAI {
			return r
		}
	}
	return nil
}
