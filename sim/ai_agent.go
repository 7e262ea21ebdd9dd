package sim

import "math/rand"

// aiWorkdaysPerWeek converts weekly rates into daily probabilities for AI
// agents, which run all seven days.
const aiWorkdaysPerWeek = 7.0

// ModelTier bundles the default behavior parameters of an AI model class.
// Cheaper tiers trade quality for cost and carry a heavier supervision
// requirement.
type ModelTier struct {
	Name             string
	ProductivityRate float64 // PRs per week (continuous operation)
	Quality          float64 // PR success probability
	CostPerPR        float64 // USD per created PR
	Supervision      float64 // extra human review time factor
}

// modelTiers registers the known AI model classes.
var modelTiers = map[string]ModelTier{
	"premium":  {Name: "premium", ProductivityRate: 10.0, Quality: 0.88, CostPerPR: 40.0, Supervision: 0.5},
	"standard": {Name: "standard", ProductivityRate: 12.0, Quality: 0.80, CostPerPR: 12.0, Supervision: 0.65},
	"economy":  {Name: "economy", ProductivityRate: 15.0, Quality: 0.70, CostPerPR: 4.0, Supervision: 0.85},
}

// LookupModelTier returns the registered tier for a model name.
func LookupModelTier(name string) (ModelTier, bool) {
	t, ok := modelTiers[name]
	return t, ok
}

// ModelTierNames returns the registered tier names, unordered.
func ModelTierNames() []string {
	names := make([]string, 0, len(modelTiers))
	for name := range modelTiers {
		names = append(names, name)
	}
	return names
}

// AIAgentParams are the validated attributes of one AI coding agent.
// Zero-valued rate/quality/cost/supervision fields are filled from the
// model tier at configuration load.
type AIAgentParams struct {
	Name             string
	Model            string // registered model tier name
	ProductivityRate float64
	Quality          float64
	CostPerPR        float64
	Supervision      float64
	ReviewCapacity   float64 // reviews per week; 0 = does not review
	CanReviewHuman   bool
	CanReviewAI      bool
}

// AIAgent is an AI coding agent. It works every day of the week at full
// availability, has no onboarding ramp, and accrues cost per created PR.
// Its PRs inflate human review time through the supervision requirement.
type AIAgent struct {
	state  AgentState
	params AIAgentParams
}

// NewAIAgent creates an AI agent with the given identity and parameters.
func NewAIAgent(id string, params AIAgentParams) *AIAgent {
	return &AIAgent{
		state: AgentState{
			ID:             id,
			Name:           params.Name,
			Supervision:    params.Supervision,
			CostPerPR:      params.CostPerPR,
			ReviewCapacity: params.ReviewCapacity,
			CanReviewHuman: params.CanReviewHuman,
			CanReviewAI:    params.CanReviewAI,
		},
		params: params,
	}
}

// State returns the agent's bookkeeping record.
func (a *AIAgent) State() *AgentState { return &a.state }

// Kind reports the AI variant.
func (a *AIAgent) Kind() AgentKind { return AgentKindAI }

// Model returns the agent's model tier name.
func (a *AIAgent) Model() string { return a.params.Model }

// OnWeekStart is a no-op: AI agents have no onboarding ramp and no weekly
// availability cycle.
func (a *AIAgent) OnWeekStart(week int) {}

// Step draws this day's PR creation. Communication overhead and technical
// debt drag apply to AI agents too: they coordinate with the same team.
func (a *AIAgent) Step(ctx *Context, rng *rand.Rand) []Action {
	if a.params.ProductivityRate <= 0 {
		return nil
	}

	var actions []Action

	dailyCreate := a.params.ProductivityRate / aiWorkdaysPerWeek *
		ctx.OverheadFactor * (1.0 - ctx.DebtDrag)
	if rng.Float64() < dailyCreate {
		actions = append(actions, Action{
			Kind:        ActionCreatePR,
			WillSucceed: rng.Float64() < a.params.Quality,
		})
	}

	// Review participation only when configured with capacity and eligibility.
	if a.state.ReviewCapacity > 0 {
		dailyReview := a.state.ReviewCapacity / aiWorkdaysPerWeek * ctx.OverheadFactor
		for _, reviewID := range a.state.pendingReviews {
			if rng.Float64() < dailyReview {
				actions = append(actions, Action{Kind: ActionCompleteReview, ReviewID: reviewID})
			}
		}
	}

	return actions
}
