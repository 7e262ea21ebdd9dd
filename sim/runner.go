package sim

import "context"

// NewEngineFromConfig validates the scenario and builds a ready-to-run
// engine from it. Use this instead of NewEngine when starting from a
// configuration file or preset.
func NewEngineFromConfig(cfg *ScenarioConfig) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return NewEngine(cfg.Name, cfg.Params(), cfg.BuildAgents()), nil
}

// RunScenario validates, builds and runs one scenario end to end.
func RunScenario(ctx context.Context, cfg *ScenarioConfig) (*RunResult, error) {
	engine, err := NewEngineFromConfig(cfg)
	if err != nil {
		return nil, err
	}
	return engine.Run(ctx)
}
