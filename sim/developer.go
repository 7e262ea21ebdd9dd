package sim

import "math/rand"

// ExperienceLevel scales a human developer's baseline productivity.
type ExperienceLevel string

const (
	ExperienceJunior    ExperienceLevel = "junior"
	ExperienceMid       ExperienceLevel = "mid"
	ExperienceSenior    ExperienceLevel = "senior"
	ExperienceStaff     ExperienceLevel = "staff"
	ExperiencePrincipal ExperienceLevel = "principal"
)

// experienceMultipliers are default productivity multipliers per level.
var experienceMultipliers = map[ExperienceLevel]float64{
	ExperienceJunior:    0.5,
	ExperienceMid:       1.0,
	ExperienceSenior:    1.3,
	ExperienceStaff:     1.5,
	ExperiencePrincipal: 1.7,
}

// Multiplier returns the productivity multiplier for this level.
// Unknown levels fall back to mid.
func (e ExperienceLevel) Multiplier() float64 {
	if m, ok := experienceMultipliers[e]; ok {
		return m
	}
	return 1.0
}

// IsValidExperienceLevel returns true for a recognized level name.
func IsValidExperienceLevel(level string) bool {
	_, ok := experienceMultipliers[ExperienceLevel(level)]
	return ok || level == ""
}

// humanWorkdaysPerWeek converts weekly rates into daily Bernoulli probabilities
// for human agents.
const humanWorkdaysPerWeek = 5.0

// DeveloperParams are the validated attributes of one human developer.
type DeveloperParams struct {
	Name            string
	Experience      ExperienceLevel
	ProductivityRate float64 // PRs per week at full ramp
	Quality          float64 // PR success probability in [0, 1]
	ReviewCapacity   float64 // reviews per week
	OnboardingWeeks  int     // weeks to full productivity; 0 = fully onboarded
	Availability     float64 // fraction of time available for work in [0, 1]
	Specializations  []string
}

// Developer is a human agent. It creates PRs probabilistically from its
// productivity rate, reviews others' PRs from its review capacity, and
// ramps up over its onboarding period.
type Developer struct {
	state  AgentState
	params DeveloperParams

	weeksInRole int
	multiplier  float64 // onboarding multiplier in [0, 1]
}

// NewDeveloper creates a human developer agent with the given identity and
// parameters. Parameters must already be validated at configuration load.
func NewDeveloper(id string, params DeveloperParams) *Developer {
	d := &Developer{
		state: AgentState{
			ID:              id,
			Name:            params.Name,
			ReviewCapacity:  params.ReviewCapacity,
			CanReviewHuman:  true,
			CanReviewAI:     true,
			Specializations: params.Specializations,
		},
		params: params,
	}
	if params.OnboardingWeeks <= 0 {
		d.multiplier = 1.0
	}
	return d
}

// State returns the developer's bookkeeping record.
func (d *Developer) State() *AgentState { return &d.state }

// Kind reports the human variant.
func (d *Developer) Kind() AgentKind { return AgentKindHuman }

// OnWeekStart advances the onboarding ramp. The multiplier is a monotonically
// non-decreasing function of weeks in role, capped at 1.0.
func (d *Developer) OnWeekStart(week int) {
	d.weeksInRole++
	if d.params.OnboardingWeeks <= 0 || d.weeksInRole >= d.params.OnboardingWeeks {
		d.multiplier = 1.0
		return
	}
	d.multiplier = float64(d.weeksInRole) / float64(d.params.OnboardingWeeks)
}

// OnboardingMultiplier returns the current ramp multiplier.
func (d *Developer) OnboardingMultiplier() float64 { return d.multiplier }

// EffectiveQuality returns the success probability applied to new PRs,
// scaled down proportionally during onboarding.
func (d *Developer) EffectiveQuality() float64 {
	return d.params.Quality * d.multiplier
}

// Step draws this day's PR creation and review completions. An agent with
// non-positive productivity or availability silently contributes nothing.
func (d *Developer) Step(ctx *Context, rng *rand.Rand) []Action {
	if d.params.ProductivityRate <= 0 || d.params.Availability <= 0 {
		return nil
	}

	var actions []Action

	dailyCreate := d.params.ProductivityRate / humanWorkdaysPerWeek *
		d.multiplier *
		d.params.Experience.Multiplier() *
		d.params.Availability *
		ctx.OverheadFactor * (1.0 - ctx.DebtDrag)

	if rng.Float64() < dailyCreate {
		actions = append(actions, Action{
			Kind:        ActionCreatePR,
			WillSucceed: rng.Float64() < d.EffectiveQuality(),
		})
	}

	dailyReview := d.state.ReviewCapacity / humanWorkdaysPerWeek *
		d.params.Availability * ctx.OverheadFactor
	for _, reviewID := range d.state.pendingReviews {
		if rng.Float64() < dailyReview {
			actions = append(actions, Action{Kind: ActionCompleteReview, ReviewID: reviewID})
		}
	}

	return actions
}
