package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sdlc-simlab/sdlc-sim/sim/internal/testutil"
)

// syntheticLog builds a small hand-written event log covering every kind of
// PR outcome.
func syntheticLog() *EventLog {
	log := NewEventLog()
	log.Append(SimulationEvent{Kind: EventAgentAdded, Day: 0, AgentID: "human_1", AgentKind: AgentKindHuman})
	log.Append(SimulationEvent{Kind: EventAgentAdded, Day: 0, AgentID: "ai_1", AgentKind: AgentKindAI})

	// pr_1: human, merged day 4 (cycle 3), later reverted.
	log.Append(SimulationEvent{Kind: EventPRCreated, Day: 1, AgentID: "human_1", AgentKind: AgentKindHuman, PRID: "pr_1"})
	log.Append(SimulationEvent{Kind: EventReviewAssigned, Day: 1, AgentID: "ai_1", PRID: "pr_1"})
	log.Append(SimulationEvent{Kind: EventReviewCompleted, Day: 4, AgentID: "ai_1", PRID: "pr_1", Detail: "approved"})
	log.Append(SimulationEvent{Kind: EventPRMerged, Day: 4, AgentID: "human_1", AgentKind: AgentKindHuman, PRID: "pr_1", Days: 3})
	log.Append(SimulationEvent{Kind: EventPRReverted, Day: 7, AgentID: "human_1", AgentKind: AgentKindHuman, PRID: "pr_1", Days: 3})

	// pr_2: AI, merged day 3 (cycle 1), costs $12.
	log.Append(SimulationEvent{Kind: EventPRCreated, Day: 2, AgentID: "ai_1", AgentKind: AgentKindAI, PRID: "pr_2", Cost: 12})
	log.Append(SimulationEvent{Kind: EventReviewCompleted, Day: 3, AgentID: "human_1", PRID: "pr_2", Detail: "approved"})
	log.Append(SimulationEvent{Kind: EventPRMerged, Day: 3, AgentID: "ai_1", AgentKind: AgentKindAI, PRID: "pr_2", Days: 1})

	// pr_3: AI, rejected in review.
	log.Append(SimulationEvent{Kind: EventPRCreated, Day: 3, AgentID: "ai_1", AgentKind: AgentKindAI, PRID: "pr_3", Cost: 12})
	log.Append(SimulationEvent{Kind: EventReviewCompleted, Day: 5, AgentID: "human_1", PRID: "pr_3", Detail: "rejected"})
	log.Append(SimulationEvent{Kind: EventPRAbandoned, Day: 5, AgentID: "ai_1", AgentKind: AgentKindAI, PRID: "pr_3", Detail: "rejected"})

	// pr_4: human, still open at the end.
	log.Append(SimulationEvent{Kind: EventPRCreated, Day: 6, AgentID: "human_1", AgentKind: AgentKindHuman, PRID: "pr_4"})
	return log
}

func TestDeriveMetrics_SyntheticLog(t *testing.T) {
	m := DeriveMetrics(syntheticLog(), 14)

	assert.Equal(t, 4, m.PRsCreated)
	assert.Equal(t, 2, m.PRsMerged)
	assert.Equal(t, 1, m.PRsReverted)
	assert.Equal(t, 1, m.PRsAbandoned)
	assert.Equal(t, 1, m.PRsOpen)
	assert.Equal(t, 3, m.ReviewsCompleted)

	assert.Equal(t, 2, m.Human.PRsCreated)
	assert.Equal(t, 1, m.Human.PRsMerged)
	assert.Equal(t, 1, m.Human.PRsReverted)
	assert.Equal(t, 2, m.AI.PRsCreated)
	assert.Equal(t, 1, m.AI.PRsMerged)
	assert.Equal(t, 24.0, m.TotalAICost)
	assert.Equal(t, 24.0, m.AICostPerMergedPR)

	testutil.AssertFloat64Equal(t, "change failure rate", 0.5, m.ChangeFailureRate, 1e-9)
	testutil.AssertFloat64Equal(t, "merges per week", 1.0, m.MergesPerWeek, 1e-9)

	require.Equal(t, 2, m.CycleTime.Count)
	testutil.AssertFloat64Equal(t, "cycle mean", 2.0, m.CycleTime.Mean, 1e-9)
	assert.Equal(t, 3.0, m.CycleTime.Max)
}

func TestDeriveMetrics_Idempotent(t *testing.T) {
	log := syntheticLog()
	assert.Equal(t, DeriveMetrics(log, 14), DeriveMetrics(log, 14))
}

func TestDeriveMetrics_EmptyLog(t *testing.T) {
	m := DeriveMetrics(NewEventLog(), 7)
	assert.Equal(t, 0, m.PRsCreated)
	assert.Equal(t, 0.0, m.ChangeFailureRate)
	assert.Equal(t, 0.0, m.MergesPerWeek)
	assert.Equal(t, 0, m.CycleTime.Count)
}

func TestNewDistribution(t *testing.T) {
	d := NewDistribution([]float64{1, 2, 3, 4, 10})
	assert.Equal(t, 5, d.Count)
	testutil.AssertFloat64Equal(t, "mean", 4.0, d.Mean, 1e-9)
	assert.Equal(t, 10.0, d.Max)
	assert.GreaterOrEqual(t, d.P90, d.P50)

	assert.Equal(t, Distribution{}, NewDistribution(nil))
}

func TestNewDistribution_DoesNotMutateInput(t *testing.T) {
	sample := []float64{3, 1, 2}
	NewDistribution(sample)
	assert.Equal(t, []float64{3, 1, 2}, sample)
}

func TestEventLog_ByKind(t *testing.T) {
	log := syntheticLog()
	assert.Len(t, log.ByKind(EventPRCreated), 4)
	assert.Len(t, log.ByKind(EventPRMerged), 2)
	assert.Empty(t, log.ByKind(EventIncidentCreated))
	assert.Equal(t, 14, log.Len())
}
