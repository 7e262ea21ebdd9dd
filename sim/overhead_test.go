package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sdlc-simlab/sdlc-sim/sim/internal/testutil"
)

func TestOverheadModel_SoloTeamHasNoOverhead(t *testing.T) {
	for _, model := range []OverheadModel{OverheadLinear, OverheadQuadratic, OverheadHierarchical} {
		assert.Equal(t, 1.0, model.Multiplier(1), string(model))
		assert.Equal(t, 1.0, model.Multiplier(0), string(model))
	}
}

func TestOverheadModel_QuadraticStrictlyIncreasing(t *testing.T) {
	prev := OverheadQuadratic.Multiplier(1)
	for n := 2; n <= 50; n++ {
		cur := OverheadQuadratic.Multiplier(n)
		assert.Greater(t, cur, prev, "team size %d", n)
		prev = cur
	}
}

func TestOverheadModel_KnownValues(t *testing.T) {
	// quadratic: 1 + n(n-1)/2 / 100
	testutil.AssertFloat64Equal(t, "quadratic n=5", 1.10, OverheadQuadratic.Multiplier(5), 1e-9)
	testutil.AssertFloat64Equal(t, "quadratic n=10", 1.45, OverheadQuadratic.Multiplier(10), 1e-9)
	// linear: 1 + (n-1) * 0.05
	testutil.AssertFloat64Equal(t, "linear n=5", 1.20, OverheadLinear.Multiplier(5), 1e-9)
	// hierarchical: 1 + log2(n) * 0.1
	testutil.AssertFloat64Equal(t, "hierarchical n=8", 1.30, OverheadHierarchical.Multiplier(8), 1e-9)
}

func TestOverheadModel_OrderingAtScale(t *testing.T) {
	// Quadratic overtakes linear above ~10 members and hierarchical stays
	// cheapest; calibrate at sizes past the crossover points.
	for _, n := range []int{20, 35, 50} {
		assert.Less(t, OverheadHierarchical.Multiplier(n), OverheadLinear.Multiplier(n), "team size %d", n)
		assert.Less(t, OverheadLinear.Multiplier(n), OverheadQuadratic.Multiplier(n), "team size %d", n)
	}
}

func TestStepFactor_ZeroLossIsNeutral(t *testing.T) {
	assert.Equal(t, 1.0, OverheadQuadratic.StepFactor(50, 0))
}

func TestStepFactor_CappedPenalty(t *testing.T) {
	// A huge team with full loss still retains 10% of its output.
	factor := OverheadQuadratic.StepFactor(200, 1.0)
	testutil.AssertFloat64Equal(t, "capped factor", 0.1, factor, 1e-9)
}

func TestStepFactor_MonotoneInTeamSize(t *testing.T) {
	prev := OverheadQuadratic.StepFactor(1, 0.3)
	assert.Equal(t, 1.0, prev)
	for n := 2; n <= 40; n++ {
		cur := OverheadQuadratic.StepFactor(n, 0.3)
		assert.LessOrEqual(t, cur, prev, "team size %d", n)
		prev = cur
	}
}

func TestIsValidOverheadModel(t *testing.T) {
	assert.True(t, IsValidOverheadModel("linear"))
	assert.True(t, IsValidOverheadModel("quadratic"))
	assert.True(t, IsValidOverheadModel("hierarchical"))
	assert.True(t, IsValidOverheadModel(""))
	assert.False(t, IsValidOverheadModel("exponential"))
}
