package sim

import "math"

// OverheadModel selects how communication overhead scales with team size.
// This is the central Brooks' Law mechanism: larger teams face superlinear
// coordination penalties under the quadratic model.
type OverheadModel string

const (
	// OverheadLinear grows O(n): small per-member coordination cost.
	OverheadLinear OverheadModel = "linear"

	// OverheadQuadratic grows O(n²) with pairwise connections. The default.
	OverheadQuadratic OverheadModel = "quadratic"

	// OverheadHierarchical grows O(log n): well-structured organizations.
	OverheadHierarchical OverheadModel = "hierarchical"
)

// validOverheadModels maps accepted overhead model strings.
var validOverheadModels = map[OverheadModel]bool{
	OverheadLinear:       true,
	OverheadQuadratic:    true,
	OverheadHierarchical: true,
	"":                   true, // empty defaults to quadratic
}

// IsValidOverheadModel returns true if the given string names a known model.
func IsValidOverheadModel(model string) bool {
	return validOverheadModels[OverheadModel(model)]
}

// Multiplier returns the overhead coefficient for a team of the given size.
// 1.0 means no overhead; values grow with team size. Teams of size <= 1
// carry no overhead. Under the quadratic model the coefficient is strictly
// increasing in team size.
func (m OverheadModel) Multiplier(teamSize int) float64 {
	if teamSize <= 1 {
		return 1.0
	}
	switch m {
	case OverheadLinear:
		return 1.0 + float64(teamSize-1)*0.05
	case OverheadHierarchical:
		return 1.0 + math.Log2(float64(teamSize))*0.1
	default: // quadratic
		connections := float64(teamSize*(teamSize-1)) / 2
		return 1.0 + connections/100.0
	}
}

// maxOverheadPenalty caps the step probability degradation so that very
// large teams stall rather than halt outright.
const maxOverheadPenalty = 0.9

// StepFactor converts the team's overhead coefficient into the multiplier
// applied to every creation/review probability this step:
//
//	factor = 1 − lossFactor × (Multiplier(n) − 1), clamped to [1−maxPenalty, 1]
func (m OverheadModel) StepFactor(teamSize int, lossFactor float64) float64 {
	penalty := lossFactor * (m.Multiplier(teamSize) - 1.0)
	if penalty < 0 {
		penalty = 0
	}
	if penalty > maxOverheadPenalty {
		penalty = maxOverheadPenalty
	}
	return 1.0 - penalty
}
