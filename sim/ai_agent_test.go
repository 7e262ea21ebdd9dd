package sim

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sdlc-simlab/sdlc-sim/sim/internal/testutil"
)

func TestModelTiers_Registered(t *testing.T) {
	for _, name := range []string{"premium", "standard", "economy"} {
		tier, ok := LookupModelTier(name)
		require.True(t, ok, name)
		assert.Equal(t, name, tier.Name)
		assert.Greater(t, tier.ProductivityRate, 0.0)
		assert.Greater(t, tier.Quality, 0.0)
		assert.Greater(t, tier.CostPerPR, 0.0)
	}
	_, ok := LookupModelTier("frontier")
	assert.False(t, ok)
}

func TestModelTiers_CheaperMeansWorse(t *testing.T) {
	premium, _ := LookupModelTier("premium")
	standard, _ := LookupModelTier("standard")
	economy, _ := LookupModelTier("economy")

	// Cost and quality rank the same way; supervision ranks the other way.
	assert.Greater(t, premium.CostPerPR, standard.CostPerPR)
	assert.Greater(t, standard.CostPerPR, economy.CostPerPR)
	assert.Greater(t, premium.Quality, standard.Quality)
	assert.Greater(t, standard.Quality, economy.Quality)
	assert.Less(t, premium.Supervision, standard.Supervision)
	assert.Less(t, standard.Supervision, economy.Supervision)
}

func testAIAgentParams() AIAgentParams {
	tier, _ := LookupModelTier("standard")
	return AIAgentParams{
		Name:             "AI-standard-1",
		Model:            "standard",
		ProductivityRate: tier.ProductivityRate,
		Quality:          tier.Quality,
		CostPerPR:        tier.CostPerPR,
		Supervision:      tier.Supervision,
	}
}

func TestAIAgent_StepUnaffectedByWeekStart(t *testing.T) {
	params := testAIAgentParams()
	a := NewAIAgent("ai_1", params)
	b := NewAIAgent("ai_1", params)
	b.OnWeekStart(1)
	b.OnWeekStart(2)

	rngA := rand.New(rand.NewSource(42))
	rngB := rand.New(rand.NewSource(42))
	for i := 0; i < 100; i++ {
		assert.Equal(t, a.Step(neutralContext(3), rngA), b.Step(neutralContext(3), rngB))
	}
}

func TestAIAgent_CreationRateUsesSevenDayWeek(t *testing.T) {
	params := testAIAgentParams()
	params.ProductivityRate = 3.5 // daily probability 0.5
	a := NewAIAgent("ai_1", params)

	rng := rand.New(rand.NewSource(11))
	created := 0
	const days = 20000
	for i := 0; i < days; i++ {
		for _, action := range a.Step(neutralContext(3), rng) {
			if action.Kind == ActionCreatePR {
				created++
			}
		}
	}
	testutil.AssertFloat64Equal(t, "daily creation rate", 0.5, float64(created)/days, 0.05)
}

func TestAIAgent_NoReviewsWithoutCapacity(t *testing.T) {
	a := NewAIAgent("ai_1", testAIAgentParams())
	a.State().AssignReview("review_1")

	rng := rand.New(rand.NewSource(5))
	for i := 0; i < 200; i++ {
		for _, action := range a.Step(neutralContext(3), rng) {
			assert.NotEqual(t, ActionCompleteReview, action.Kind)
		}
	}
}

func TestAIAgent_ReviewsWithCapacity(t *testing.T) {
	params := testAIAgentParams()
	params.ReviewCapacity = 70
	params.CanReviewAI = true
	a := NewAIAgent("ai_1", params)
	a.State().AssignReview("review_1")

	rng := rand.New(rand.NewSource(5))
	found := false
	for i := 0; i < 50 && !found; i++ {
		for _, action := range a.Step(neutralContext(3), rng) {
			if action.Kind == ActionCompleteReview {
				found = true
			}
		}
	}
	assert.True(t, found)
}

func TestAIAgent_DebtDragSuppressesOutput(t *testing.T) {
	params := testAIAgentParams()
	params.ProductivityRate = 7.0
	count := func(drag float64) int {
		a := NewAIAgent("ai_1", params)
		rng := rand.New(rand.NewSource(13))
		created := 0
		for i := 0; i < 5000; i++ {
			ctx := neutralContext(3)
			ctx.DebtDrag = drag
			for _, action := range a.Step(ctx, rng) {
				if action.Kind == ActionCreatePR {
					created++
				}
			}
		}
		return created
	}
	assert.Greater(t, count(0), count(0.5))
}
