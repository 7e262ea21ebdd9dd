package sim

import (
	"fmt"
	"hash/fnv"
	"math/rand"
)

// === SimulationKey ===

// SimulationKey uniquely identifies a reproducible simulation run.
// Two simulations with the same SimulationKey and identical configuration
// MUST produce bit-for-bit identical event logs.
type SimulationKey int64

// NewSimulationKey creates a SimulationKey from a seed value.
func NewSimulationKey(seed int64) SimulationKey {
	return SimulationKey(seed)
}

// === Subsystem Constants ===

const (
	// SubsystemEngine is the RNG subsystem for engine-owned decisions:
	// reviewer assignment, review verdicts, and revert discovery.
	SubsystemEngine = "engine"

	// SubsystemIncidents is the RNG subsystem for incident generation.
	SubsystemIncidents = "incidents"

	// SubsystemTechDebt is the RNG subsystem for technical debt accumulation.
	SubsystemTechDebt = "techdebt"
)

// SubsystemAgent returns the subsystem name for the agent at index idx.
// Per-agent isolation keeps an agent's random stream stable when other
// agents are added to the team.
func SubsystemAgent(idx int) string {
	return fmt.Sprintf("agent_%d", idx)
}

// === PartitionedRNG ===

// PartitionedRNG provides deterministic, isolated RNG instances per subsystem.
//
// Derivation formula: masterSeed XOR fnv1a64(subsystemName).
//
// Thread-safety: NOT thread-safe. Must be called from a single goroutine;
// each simulation run owns its own PartitionedRNG.
type PartitionedRNG struct {
	key        SimulationKey
	subsystems map[string]*rand.Rand
}

// NewPartitionedRNG creates a PartitionedRNG from a SimulationKey.
func NewPartitionedRNG(key SimulationKey) *PartitionedRNG {
	return &PartitionedRNG{
		key:        key,
		subsystems: make(map[string]*rand.Rand),
	}
}

// ForSubsystem returns a deterministically-seeded RNG for the named subsystem.
// The same subsystem name always returns the same *rand.Rand instance (cached).
// Never returns nil.
func (p *PartitionedRNG) ForSubsystem(name string) *rand.Rand {
	if rng, ok := p.subsystems[name]; ok {
		return rng
	}

	derivedSeed := int64(p.key) ^ fnv1a64(name)
	rng := rand.New(rand.NewSource(derivedSeed))
	p.subsystems[name] = rng
	return rng
}

// Derive returns a fresh RNG for an ephemeral subsystem name without
// caching it. Used for per-agent-per-day streams: seeding from the name
// alone makes an agent's draws independent of how many draws other
// subsystems consumed, so adding agents to a team never perturbs the
// existing agents' behavior.
func (p *PartitionedRNG) Derive(name string) *rand.Rand {
	return rand.New(rand.NewSource(int64(p.key) ^ fnv1a64(name)))
}

// Key returns the SimulationKey used to create this PartitionedRNG.
func (p *PartitionedRNG) Key() SimulationKey {
	return p.key
}

// fnv1a64 computes a 64-bit FNV-1a hash of the input string.
func fnv1a64(s string) int64 {
	h := fnv.New64a()
	h.Write([]byte(s))
	return int64(h.Sum64())
}
