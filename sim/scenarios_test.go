package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPresets_AllValid(t *testing.T) {
	for _, name := range PresetNames() {
		cfg, err := LookupPreset(name)
		require.NoError(t, err, name)
		assert.Equal(t, name, cfg.Name)
		assert.NoError(t, cfg.Validate(), name)
		assert.NotEmpty(t, cfg.BuildAgents(), name)
	}
}

func TestLookupPreset_Unknown(t *testing.T) {
	_, err := LookupPreset("enterprise")
	assert.ErrorIs(t, err, ErrConfiguration)
}

func TestLookupPreset_ReturnsFreshCopy(t *testing.T) {
	a, err := LookupPreset("mixed-team")
	require.NoError(t, err)
	a.Team.AIAgents = nil

	b, err := LookupPreset("mixed-team")
	require.NoError(t, err)
	assert.NotEmpty(t, b.Team.AIAgents)
}

func TestPresets_MixedTeamHasBothKinds(t *testing.T) {
	cfg, err := LookupPreset("mixed-team")
	require.NoError(t, err)

	humans, ais := 0, 0
	for _, a := range cfg.BuildAgents() {
		switch a.Kind() {
		case AgentKindHuman:
			humans++
		case AgentKindAI:
			ais++
		}
	}
	assert.Equal(t, 4, humans)
	assert.Equal(t, 2, ais)
}
