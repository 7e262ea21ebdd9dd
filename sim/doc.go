// Package sim provides the core discrete-time simulation engine for the SDLC
// team-dynamics forecaster.
//
// # Reading Guide
//
// Start with these three files to understand the simulation kernel:
//   - work.go: PullRequest lifecycle (open → in_review → approved → merged/abandoned,
//     merged → reverted) and the CodeReview record
//   - agent.go: the Agent contract, the per-step Context snapshot, and declarative Actions
//   - engine.go: the day-step loop, reviewer assignment, merges, reverts, and
//     communication overhead application
//
// # Architecture
//
// The sim package owns one simulation run end to end; batch orchestration lives
// in a sub-package:
//   - sim/compare/: multi-scenario batch runner, winner table, insights, export
//
// Every stochastic decision draws from a PartitionedRNG (rng.go) seeded from the
// scenario seed, so two runs with identical configuration produce byte-identical
// event logs. Metrics (metrics.go) are derived purely from the append-only event
// log, never from incremental counters, so they can be re-derived at any point
// without re-running the simulation.
//
// # Key Interfaces
//
// The extension point is a single small interface:
//   - Agent: produce declarative Actions for one simulated day; implemented by
//     Developer (human) and AIAgent. New agent kinds plug in without engine changes.
package sim
