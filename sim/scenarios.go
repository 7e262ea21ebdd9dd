package sim

import (
	"fmt"
	"sort"
)

func floatPtr(v float64) *float64 { return &v }
func intPtr(v int) *int           { return &v }

// presetBuilders registers the built-in scenario configurations. Builders
// return fresh configs so callers can mutate their copy freely.
var presetBuilders = map[string]func() *ScenarioConfig{
	"human-baseline": humanBaselineScenario,
	"mixed-team":     mixedTeamScenario,
	"ai-heavy":       aiHeavyScenario,
	"large-org":      largeOrgScenario,
	"startup":        startupScenario,
}

// PresetNames returns the built-in scenario names, sorted.
func PresetNames() []string {
	names := make([]string, 0, len(presetBuilders))
	for name := range presetBuilders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// LookupPreset returns a fresh copy of the named built-in scenario.
func LookupPreset(name string) (*ScenarioConfig, error) {
	builder, ok := presetBuilders[name]
	if !ok {
		return nil, fmt.Errorf("%w: unknown preset %q (available: %v)", ErrConfiguration, name, PresetNames())
	}
	return builder(), nil
}

// humanBaselineScenario is an all-human mid-size team, the comparison anchor.
func humanBaselineScenario() *ScenarioConfig {
	return &ScenarioConfig{
		Name:        "human-baseline",
		Description: "Five-person human team, no AI assistance",
		Tags:        []string{"baseline", "human"},
		Team: TeamSpec{
			Distribution: map[string]int{"junior": 1, "mid": 2, "senior": 2},
		},
	}
}

// mixedTeamScenario pairs humans with supervised AI agents.
func mixedTeamScenario() *ScenarioConfig {
	return &ScenarioConfig{
		Name:        "mixed-team",
		Description: "Four humans plus two AI coding agents",
		Tags:        []string{"mixed", "ai"},
		Team: TeamSpec{
			Distribution: map[string]int{"mid": 2, "senior": 2},
			AIAgents: []AIAgentSpec{
				{Model: "premium"},
				{Model: "standard"},
			},
		},
	}
}

// aiHeavyScenario inverts the ratio: a small human core supervising a fleet.
func aiHeavyScenario() *ScenarioConfig {
	return &ScenarioConfig{
		Name:        "ai-heavy",
		Description: "Two senior humans supervising four AI agents",
		Tags:        []string{"ai"},
		Team: TeamSpec{
			Distribution: map[string]int{"senior": 2},
			AIAgents: []AIAgentSpec{
				{Model: "premium"},
				{Model: "standard"},
				{Model: "economy"},
				{Model: "economy"},
			},
		},
		Simulation: SimulationSpec{
			ReviewCatchProbability: floatPtr(0.7),
		},
	}
}

// largeOrgScenario stresses the communication-overhead model: twenty humans
// under hierarchical coordination with debt and incidents enabled.
func largeOrgScenario() *ScenarioConfig {
	return &ScenarioConfig{
		Name:        "large-org",
		Description: "Twenty-person org with hierarchical coordination",
		Tags:        []string{"scale"},
		Team: TeamSpec{
			Distribution: map[string]int{"junior": 5, "mid": 8, "senior": 5, "staff": 2},
		},
		Simulation: SimulationSpec{
			OverheadModel: string(OverheadHierarchical),
			TechDebt:      &TechDebtParams{Enabled: true},
			Incidents:     &IncidentParams{Enabled: true},
		},
	}
}

// startupScenario is a tiny fast-moving team with no process drag.
func startupScenario() *ScenarioConfig {
	return &ScenarioConfig{
		Name:        "startup",
		Description: "Three seniors, no onboarding, high availability",
		Tags:        []string{"small"},
		Team: TeamSpec{
			Developers: []DeveloperSpec{
				{Name: "Founder-1", Experience: "senior", OnboardingWeeks: intPtr(0), Availability: floatPtr(0.9)},
				{Name: "Founder-2", Experience: "senior", OnboardingWeeks: intPtr(0), Availability: floatPtr(0.9)},
				{Name: "Founder-3", Experience: "mid", OnboardingWeeks: intPtr(0), Availability: floatPtr(0.9)},
			},
		},
		Simulation: SimulationSpec{
			CommunicationLossFactor: floatPtr(0.1),
		},
	}
}
