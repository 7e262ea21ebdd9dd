package sim

import "math/rand"

// AgentKind discriminates agent variants in events and metrics.
type AgentKind string

const (
	AgentKindHuman AgentKind = "human"
	AgentKindAI    AgentKind = "ai"
)

// Context is the immutable per-step snapshot passed to every agent.
// Created fresh by the engine each day; read-only to agents.
type Context struct {
	Day  int
	Week int
	Seed int64

	// TeamSize is the number of active agents this step.
	TeamSize int

	// OverheadFactor is the communication penalty multiplier for this step,
	// in (0, 1]. 1.0 means no coordination loss.
	OverheadFactor float64

	// DebtDrag is the productivity reduction from active technical debt,
	// in [0, 0.5]. 0 when the tech-debt subsystem is disabled.
	DebtDrag float64

	// Metadata carries arbitrary auxiliary values for agent behaviors.
	Metadata map[string]string
}

// ActionKind tags a declarative agent action.
type ActionKind string

const (
	// ActionCreatePR requests that the engine open a new pull request
	// authored by the acting agent.
	ActionCreatePR ActionKind = "create_pr"

	// ActionCompleteReview requests that the engine complete one of the
	// acting agent's pending reviews.
	ActionCompleteReview ActionKind = "complete_review"
)

// Action is a declarative request produced by an agent and consumed by the
// engine. Agents never mutate simulation state directly, which keeps them
// side-effect-free and independently testable.
type Action struct {
	Kind ActionKind

	// WillSucceed carries the PR's latent success outcome, sampled once at
	// creation from the author's effective quality. Only set for ActionCreatePR.
	WillSucceed bool

	// ReviewID identifies the review to complete. Only set for ActionCompleteReview.
	ReviewID string
}

// Agent is an autonomous simulated participant. Step is invoked once per
// simulated day with the current context and the agent's own deterministic
// random stream, and returns the actions the agent wants performed.
//
// The engine dispatches through this interface only; new agent kinds are
// added without modifying the engine.
type Agent interface {
	// State returns the agent's shared bookkeeping record, owned by the
	// engine for the lifetime of one run.
	State() *AgentState

	// Kind reports the agent variant for events and metric splits.
	Kind() AgentKind

	// Step produces this day's declarative actions. Must not retain ctx.
	Step(ctx *Context, rng *rand.Rand) []Action

	// OnWeekStart is invoked at the first day of every simulated week,
	// before Step, in agent order.
	OnWeekStart(week int)
}

// AgentState is the per-agent bookkeeping shared by all agent variants.
// Mutated only by the owning engine and by the agent itself during Step.
type AgentState struct {
	ID   string
	Name string

	// ReviewCapacity is the agent's review throughput in reviews per week.
	ReviewCapacity float64

	// Supervision is the extra human review time required for this agent's
	// PRs, as a multiplicative factor on base review hours. Zero for humans.
	Supervision float64

	// CostPerPR is the monetary cost accrued per created PR. Zero for humans.
	CostPerPR float64

	// Review eligibility. Humans can review anything; AI agents default to
	// reviewing nothing.
	CanReviewHuman bool
	CanReviewAI    bool

	Specializations []string

	// Pending review IDs in assignment order.
	pendingReviews []string

	// Cumulative per-agent totals, updated by the engine.
	TotalCreated   int
	TotalMerged    int
	TotalReverted  int
	TotalReviews   int
	TotalCost      float64
	ReviewHours    float64
}

// AssignReview records a newly assigned review for this agent.
func (s *AgentState) AssignReview(reviewID string) {
	s.pendingReviews = append(s.pendingReviews, reviewID)
}

// FinishReview removes a completed review from the pending list.
func (s *AgentState) FinishReview(reviewID string) {
	for i, id := range s.pendingReviews {
		if id == reviewID {
			s.pendingReviews = append(s.pendingReviews[:i], s.pendingReviews[i+1:]...)
			s.TotalReviews++
			return
		}
	}
}

// DropReview removes a review from the pending list without counting it as
// completed. Used when the reviewed PR leaves the reviewable states.
func (s *AgentState) DropReview(reviewID string) {
	for i, id := range s.pendingReviews {
		if id == reviewID {
			s.pendingReviews = append(s.pendingReviews[:i], s.pendingReviews[i+1:]...)
			return
		}
	}
}

// ReviewLoad returns the number of reviews currently assigned and incomplete.
func (s *AgentState) ReviewLoad() int {
	return len(s.pendingReviews)
}

// SpareReviewCapacity returns the agent's weekly review capacity minus its
// current load, floored at zero. Used to weight reviewer selection.
func (s *AgentState) SpareReviewCapacity() float64 {
	spare := s.ReviewCapacity - float64(len(s.pendingReviews))
	if spare < 0 {
		return 0
	}
	return spare
}

// AgentStats is the per-agent statistics record handed back with run results.
type AgentStats struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	Kind             AgentKind `json:"kind"`
	PRsCreated       int       `json:"prs_created"`
	PRsMerged        int       `json:"prs_merged"`
	PRsReverted      int       `json:"prs_reverted"`
	ReviewsCompleted int       `json:"reviews_completed"`
	ReviewHours      float64   `json:"review_hours"`
	TotalCost        float64   `json:"total_cost,omitempty"`
	PendingReviews   int       `json:"pending_reviews"`
}

// statsOf builds the exported statistics record for one agent.
func statsOf(a Agent) AgentStats {
	s := a.State()
	return AgentStats{
		ID:               s.ID,
		Name:             s.Name,
		Kind:             a.Kind(),
		PRsCreated:       s.TotalCreated,
		PRsMerged:        s.TotalMerged,
		PRsReverted:      s.TotalReverted,
		ReviewsCompleted: s.TotalReviews,
		ReviewHours:      s.ReviewHours,
		TotalCost:        s.TotalCost,
		PendingReviews:   len(s.pendingReviews),
	}
}
