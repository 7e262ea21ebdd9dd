package compare

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sdlc-simlab/sdlc-sim/sim"
)

func testConfigs(t *testing.T, names ...string) []*sim.ScenarioConfig {
	t.Helper()
	cfgs := make([]*sim.ScenarioConfig, len(names))
	for i, name := range names {
		cfg, err := sim.LookupPreset(name)
		require.NoError(t, err)
		cfgs[i] = cfg
	}
	return cfgs
}

func TestRunAll_PreservesOrder(t *testing.T) {
	c, err := RunAll(context.Background(), testConfigs(t, "human-baseline", "mixed-team", "ai-heavy"))
	require.NoError(t, err)
	assert.Equal(t, []string{"human-baseline", "mixed-team", "ai-heavy"}, c.Names())
}

func TestRunAll_EmptyInputRejected(t *testing.T) {
	_, err := RunAll(context.Background(), nil)
	assert.ErrorIs(t, err, sim.ErrConfiguration)
	_, err = RunAllParallel(context.Background(), nil)
	assert.ErrorIs(t, err, sim.ErrConfiguration)
}

func TestRunAll_InvalidScenarioFailsBeforeRunning(t *testing.T) {
	cfgs := testConfigs(t, "human-baseline")
	cfgs = append(cfgs, &sim.ScenarioConfig{Name: "empty"})
	_, err := RunAll(context.Background(), cfgs)
	assert.ErrorIs(t, err, sim.ErrConfiguration)
}

func TestRunAllParallel_MatchesSequential(t *testing.T) {
	names := []string{"human-baseline", "mixed-team", "startup"}
	seq, err := RunAll(context.Background(), testConfigs(t, names...))
	require.NoError(t, err)
	par, err := RunAllParallel(context.Background(), testConfigs(t, names...))
	require.NoError(t, err)

	require.Len(t, par.Results, len(seq.Results))
	for i := range seq.Results {
		assert.Equal(t, seq.Results[i].Scenario, par.Results[i].Scenario)
		assert.Equal(t, seq.Results[i].Metrics, par.Results[i].Metrics)
		assert.Equal(t, seq.Results[i].Events, par.Results[i].Events)
	}
}

func TestLoadAll_SkipsBadFilesAndContinues(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.yaml")
	require.NoError(t, os.WriteFile(good, []byte("name: good\nteam:\n  count: 2\n"), 0o644))
	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("name: [unclosed"), 0o644))
	missing := filepath.Join(dir, "missing.yaml")

	cfgs, skipped := LoadAll([]string{good, bad, missing})
	require.Len(t, cfgs, 1)
	assert.Equal(t, "good", cfgs[0].Name)
	require.Len(t, skipped, 2)
	for _, err := range skipped {
		assert.ErrorIs(t, err, sim.ErrLoad)
	}
}

// poisonedEngines builds the engines for the named presets and burns the one
// at idx, so its Run fails at batch time the way any mid-batch error would.
func poisonedEngines(t *testing.T, idx int, names ...string) []*sim.Engine {
	t.Helper()
	engines, err := buildEngines(testConfigs(t, names...))
	require.NoError(t, err)
	_, err = engines[idx].Run(context.Background())
	require.NoError(t, err)
	return engines
}

func TestRunSequential_FailedScenarioKeepsSiblings(t *testing.T) {
	engines := poisonedEngines(t, 1, "human-baseline", "startup")

	c, err := runSequential(context.Background(), engines)
	require.NoError(t, err)
	require.Len(t, c.Results, 2)

	assert.False(t, c.Results[0].Failed())
	assert.NotNil(t, c.Results[0].Metrics)
	assert.True(t, c.Results[1].Failed())
	assert.Equal(t, "startup", c.Results[1].Scenario)
	assert.Contains(t, c.Results[1].Failure, "already run")
}

func TestRunParallel_FailedScenarioKeepsSiblings(t *testing.T) {
	engines := poisonedEngines(t, 0, "human-baseline", "startup", "mixed-team")

	c, err := runParallel(context.Background(), engines)
	require.NoError(t, err)
	require.Len(t, c.Results, 3)

	assert.True(t, c.Results[0].Failed())
	assert.Equal(t, "human-baseline", c.Results[0].Scenario)
	assert.False(t, c.Results[1].Failed())
	assert.False(t, c.Results[2].Failed())
	assert.Equal(t, []string{"human-baseline", "startup", "mixed-team"}, c.Names())
}

func TestWinners_SkipFailedScenarios(t *testing.T) {
	ok := &sim.RunResult{Scenario: "ok", Metrics: &sim.Metrics{MergesPerWeek: 2, PRsMerged: 4}}
	broken := &sim.RunResult{Scenario: "broken", Failure: "did not finish"}
	c := &Comparison{Results: []*sim.RunResult{broken, ok}}

	winners := c.Winners()
	assert.Equal(t, "ok", winners["merges_per_week"])
	assert.Equal(t, "ok", winners["prs_merged"])

	var buf bytes.Buffer
	c.WriteTable(&buf)
	assert.Contains(t, buf.String(), "broken")
	assert.Contains(t, buf.String(), "failed")
}

func TestRunAll_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := RunAll(ctx, testConfigs(t, "human-baseline"))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestWinners_TieProducesNoWinner(t *testing.T) {
	a := &sim.RunResult{Scenario: "a", Metrics: &sim.Metrics{PRsMerged: 10, MergesPerWeek: 2}}
	b := &sim.RunResult{Scenario: "b", Metrics: &sim.Metrics{PRsMerged: 10, MergesPerWeek: 3}}
	c := &Comparison{Results: []*sim.RunResult{a, b}}

	winners := c.Winners()
	_, hasMerged := winners["prs_merged"]
	assert.False(t, hasMerged)
	assert.Equal(t, "b", winners["merges_per_week"])
}

func TestWinners_LowerIsBetterMetrics(t *testing.T) {
	a := &sim.RunResult{Scenario: "a", Metrics: &sim.Metrics{ChangeFailureRate: 0.10}}
	b := &sim.RunResult{Scenario: "b", Metrics: &sim.Metrics{ChangeFailureRate: 0.05}}
	c := &Comparison{Results: []*sim.RunResult{a, b}}

	assert.Equal(t, "b", c.Winners()["change_failure_rate"])
}

func TestInsights_Deterministic(t *testing.T) {
	c, err := RunAll(context.Background(), testConfigs(t, "human-baseline", "mixed-team"))
	require.NoError(t, err)

	first := c.Insights()
	assert.NotEmpty(t, first)
	assert.Equal(t, first, c.Insights())
}

func TestInsights_ClassifiesByTeamComposition(t *testing.T) {
	human := &sim.RunResult{
		Scenario: "all-human",
		Metrics:  &sim.Metrics{MergesPerWeek: 4},
		Agents:   []sim.AgentStats{{ID: "human_1", Kind: sim.AgentKindHuman}},
	}
	// The AI agents created nothing, yet the team is still a mixed team.
	mixed := &sim.RunResult{
		Scenario: "idle-ai",
		Metrics:  &sim.Metrics{MergesPerWeek: 5},
		Agents: []sim.AgentStats{
			{ID: "human_1", Kind: sim.AgentKindHuman},
			{ID: "ai_1", Kind: sim.AgentKindAI},
		},
	}
	c := &Comparison{Results: []*sim.RunResult{human, mixed}}

	found := false
	for _, insight := range c.Insights() {
		if strings.Contains(insight, "idle-ai vs all-human") {
			found = true
		}
	}
	assert.True(t, found)
}

func TestInsights_MixedVersusHumanDelta(t *testing.T) {
	c, err := RunAll(context.Background(), testConfigs(t, "human-baseline", "mixed-team"))
	require.NoError(t, err)

	found := false
	for _, insight := range c.Insights() {
		if strings.Contains(insight, "throughput by") {
			found = true
		}
	}
	assert.True(t, found)
}
