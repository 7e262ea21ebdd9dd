package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPartitionedRNG_SameSubsystemSameStream(t *testing.T) {
	a := NewPartitionedRNG(NewSimulationKey(42))
	b := NewPartitionedRNG(NewSimulationKey(42))

	for i := 0; i < 100; i++ {
		assert.Equal(t, a.ForSubsystem(SubsystemEngine).Float64(), b.ForSubsystem(SubsystemEngine).Float64())
	}
}

func TestPartitionedRNG_SubsystemsIsolated(t *testing.T) {
	p := NewPartitionedRNG(NewSimulationKey(42))

	// Draining one subsystem must not disturb another.
	q := NewPartitionedRNG(NewSimulationKey(42))
	for i := 0; i < 1000; i++ {
		q.ForSubsystem(SubsystemIncidents).Float64()
	}
	for i := 0; i < 50; i++ {
		assert.Equal(t, p.ForSubsystem(SubsystemEngine).Float64(), q.ForSubsystem(SubsystemEngine).Float64())
	}
}

func TestPartitionedRNG_CachesInstance(t *testing.T) {
	p := NewPartitionedRNG(NewSimulationKey(7))
	assert.Same(t, p.ForSubsystem("x"), p.ForSubsystem("x"))
}

func TestPartitionedRNG_DifferentSeedsDiverge(t *testing.T) {
	a := NewPartitionedRNG(NewSimulationKey(1))
	b := NewPartitionedRNG(NewSimulationKey(2))

	same := true
	for i := 0; i < 10; i++ {
		if a.ForSubsystem(SubsystemEngine).Float64() != b.ForSubsystem(SubsystemEngine).Float64() {
			same = false
		}
	}
	assert.False(t, same)
}

func TestPartitionedRNG_DeriveDeterministicAndUncached(t *testing.T) {
	p := NewPartitionedRNG(NewSimulationKey(42))

	a := p.Derive("agent_0_day_3")
	b := p.Derive("agent_0_day_3")
	assert.NotSame(t, a, b)
	for i := 0; i < 20; i++ {
		assert.Equal(t, a.Float64(), b.Float64())
	}
	assert.NotEqual(t, p.Derive("agent_0_day_3").Float64(), p.Derive("agent_0_day_4").Float64())
}

func TestSubsystemAgent_StablePerIndex(t *testing.T) {
	assert.Equal(t, "agent_0", SubsystemAgent(0))
	assert.Equal(t, "agent_3", SubsystemAgent(3))

	// An agent's stream depends only on its own index, so appending agents
	// to the team leaves existing streams untouched.
	p := NewPartitionedRNG(NewSimulationKey(42))
	q := NewPartitionedRNG(NewSimulationKey(42))
	q.ForSubsystem(SubsystemAgent(5))
	assert.Equal(t, p.ForSubsystem(SubsystemAgent(0)).Float64(), q.ForSubsystem(SubsystemAgent(0)).Float64())
}
