// Package compare runs multiple scenarios against each other and derives
// winners, insights and exportable reports from their results.
package compare

import (
	"context"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/sdlc-simlab/sdlc-sim/sim"
)

// Comparison holds the results of a multi-scenario run, in the order the
// scenarios were supplied.
type Comparison struct {
	Results []*sim.RunResult `json:"results"`
}

// RunAll validates and runs every scenario sequentially. All scenarios are
// validated up front, so a typo in the last file surfaces before any
// simulation time is spent. A scenario whose run fails is recorded as a
// failed result and the batch continues with its siblings; only batch-wide
// cancellation aborts the comparison.
func RunAll(ctx context.Context, cfgs []*sim.ScenarioConfig) (*Comparison, error) {
	engines, err := buildEngines(cfgs)
	if err != nil {
		return nil, err
	}
	return runSequential(ctx, engines)
}

func runSequential(ctx context.Context, engines []*sim.Engine) (*Comparison, error) {
	c := &Comparison{Results: make([]*sim.RunResult, len(engines))}
	for i, engine := range engines {
		result, err := engine.Run(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil, fmt.Errorf("scenario %q: %w", engine.Name(), err)
			}
			result = failedRun(engine.Name(), err)
		}
		c.Results[i] = result
	}
	return c, nil
}

// RunAllParallel runs every scenario concurrently, one goroutine per
// scenario. Each engine owns all of its state, so no synchronization beyond
// the result slots is needed; slot indices keep the output order equal to
// the input order regardless of completion order. Failure isolation matches
// RunAll: a failed or panicking scenario becomes a failed result, siblings
// complete normally.
func RunAllParallel(ctx context.Context, cfgs []*sim.ScenarioConfig) (*Comparison, error) {
	engines, err := buildEngines(cfgs)
	if err != nil {
		return nil, err
	}
	return runParallel(ctx, engines)
}

func runParallel(ctx context.Context, engines []*sim.Engine) (*Comparison, error) {
	logrus.Infof("comparing %d scenarios in parallel", len(engines))

	results := make([]*sim.RunResult, len(engines))
	errs := make([]error, len(engines))
	var wg sync.WaitGroup
	for i, engine := range engines {
		wg.Add(1)
		go func(i int, engine *sim.Engine) {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					errs[i] = fmt.Errorf("run panicked: %v", r)
				}
			}()
			results[i], errs[i] = engine.Run(ctx)
		}(i, engine)
	}
	wg.Wait()

	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	c := &Comparison{Results: results}
	for i, err := range errs {
		if err != nil {
			c.Results[i] = failedRun(engines[i].Name(), err)
		}
	}
	return c, nil
}

// failedRun records a scenario-level failure without sinking the batch.
func failedRun(name string, err error) *sim.RunResult {
	logrus.Warnf("scenario %q failed: %v", name, err)
	return &sim.RunResult{Scenario: name, Failure: err.Error()}
}

func buildEngines(cfgs []*sim.ScenarioConfig) ([]*sim.Engine, error) {
	if len(cfgs) == 0 {
		return nil, fmt.Errorf("%w: no scenarios to compare", sim.ErrConfiguration)
	}
	engines := make([]*sim.Engine, len(cfgs))
	for i, cfg := range cfgs {
		engine, err := sim.NewEngineFromConfig(cfg)
		if err != nil {
			return nil, err
		}
		engines[i] = engine
	}
	return engines, nil
}

// LoadAll reads scenario files for comparison. A file that fails to load is
// skipped with its error recorded, so one bad file does not sink a batch;
// the caller decides whether partial coverage is acceptable.
func LoadAll(paths []string) ([]*sim.ScenarioConfig, []error) {
	var cfgs []*sim.ScenarioConfig
	var skipped []error
	for _, path := range paths {
		cfg, err := sim.LoadScenario(path)
		if err != nil {
			logrus.Warnf("skipping scenario: %v", err)
			skipped = append(skipped, err)
			continue
		}
		cfgs = append(cfgs, cfg)
	}
	return cfgs, skipped
}

// succeeded returns the results of completed runs, in run order. Winner and
// insight derivation only consider these; failed results keep their slot in
// Results for reporting.
func (c *Comparison) succeeded() []*sim.RunResult {
	out := make([]*sim.RunResult, 0, len(c.Results))
	for _, r := range c.Results {
		if !r.Failed() {
			out = append(out, r)
		}
	}
	return out
}

// Names returns the scenario names in run order.
func (c *Comparison) Names() []string {
	names := make([]string, len(c.Results))
	for i, r := range c.Results {
		names[i] = r.Scenario
	}
	return names
}
