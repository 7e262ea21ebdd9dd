package sim

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/sirupsen/logrus"
)

// daysPerWeek is the simulated calendar granularity. Weekly rates are spread
// over seven days; human agents model their five workdays through their own
// per-day probabilities.
const daysPerWeek = 7

// ProgressUpdate is a lightweight snapshot emitted during a run.
type ProgressUpdate struct {
	Day       int `json:"day"`
	TotalDays int `json:"total_days"`
	Created   int `json:"prs_created"`
	Merged    int `json:"prs_merged"`
	Open      int `json:"prs_open"`
}

// RunResult is the complete outcome of one simulation run.
type RunResult struct {
	Scenario       string            `json:"scenario"`
	Metrics        *Metrics          `json:"metrics,omitempty"`
	Agents         []AgentStats      `json:"agents,omitempty"`
	Events         []SimulationEvent `json:"events,omitempty"`
	ElapsedSeconds float64           `json:"elapsed_seconds"`
	// Failure carries the error text when the run did not complete. A failed
	// result has only Scenario and Failure set; batch comparison records one
	// per failed scenario instead of discarding its siblings.
	Failure string `json:"failure,omitempty"`
}

// Failed reports whether this result marks a failed run instead of metrics.
func (r *RunResult) Failed() bool { return r.Failure != "" }

// HasAIAgents reports whether the scenario's team included any AI agent,
// regardless of whether those agents produced anything.
func (r *RunResult) HasAIAgents() bool {
	for _, a := range r.Agents {
		if a.Kind == AgentKindAI {
			return true
		}
	}
	return false
}

// Engine is the time-stepped orchestrator of one simulation run. It owns all
// mutable state: the agent pool, the work-item collections, the trackers and
// the event log. Engines are single-use; construct a fresh one per run.
//
// Not safe for concurrent use. Concurrent scenario comparison runs one
// engine per goroutine with no shared state.
type Engine struct {
	name   string
	params SimulationParams
	agents []Agent
	rng    *PartitionedRNG
	log    *EventLog

	debt      *DebtTracker
	incidents *IncidentTracker

	// Ordered collections drive iteration; maps are lookup only. Iterating
	// insertion-ordered slices keeps runs reproducible.
	prs        []*PullRequest
	prByID     map[string]*PullRequest
	reviews    []*CodeReview
	reviewByID map[string]*CodeReview
	agentByID  map[string]Agent

	// debtByPR links merged failing PRs to the debt they introduced, so a
	// later revert pays the debt off.
	debtByPR map[string]*DebtItem

	prSeq     int
	reviewSeq int
	day       int
	hasRun    bool

	progress      chan<- ProgressUpdate
	progressEvery int
}

// pendingCompletion pairs a reviewer with the review it finished this step.
type pendingCompletion struct {
	agent    Agent
	reviewID string
}

// NewEngine creates an engine for the given scenario parameters and agent
// pool. Agents are stepped in slice order every day; the order is part of
// the deterministic contract.
func NewEngine(name string, params SimulationParams, agents []Agent) *Engine {
	e := &Engine{
		name:       name,
		params:     params,
		agents:     agents,
		rng:        NewPartitionedRNG(NewSimulationKey(params.Seed)),
		log:        NewEventLog(),
		debt:       NewDebtTracker(),
		incidents:  NewIncidentTracker(),
		prByID:     make(map[string]*PullRequest),
		reviewByID: make(map[string]*CodeReview),
		agentByID:  make(map[string]Agent, len(agents)),
		debtByPR:   make(map[string]*DebtItem),
	}
	for _, a := range agents {
		e.agentByID[a.State().ID] = a
	}
	return e
}

// Name returns the scenario name this engine was built for.
func (e *Engine) Name() string { return e.name }

// SetProgress attaches a progress channel. Snapshots are sent every
// everyDays simulated days with a non-blocking send: a slow consumer loses
// snapshots, never stalls the run.
func (e *Engine) SetProgress(ch chan<- ProgressUpdate, everyDays int) {
	if everyDays <= 0 {
		everyDays = daysPerWeek
	}
	e.progress = ch
	e.progressEvery = everyDays
}

// Run executes the full simulation and returns the derived result.
// Cancellation is checked between day steps; a cancelled run returns the
// context's error and no partial result. An engine runs at most once.
func (e *Engine) Run(ctx context.Context) (*RunResult, error) {
	if e.hasRun {
		return nil, fmt.Errorf("%w: engine %q has already run", ErrState, e.name)
	}
	e.hasRun = true
	if len(e.agents) == 0 {
		return nil, fmt.Errorf("%w: engine %q has no agents", ErrConfiguration, e.name)
	}

	totalDays := e.params.DurationWeeks * daysPerWeek
	startTime := time.Now()
	logrus.Infof("scenario %q: starting run, %d agents, %d days, seed %d",
		e.name, len(e.agents), totalDays, e.params.Seed)

	for _, a := range e.agents {
		s := a.State()
		e.log.Append(SimulationEvent{
			Kind:      EventAgentAdded,
			Day:       0,
			AgentID:   s.ID,
			AgentKind: a.Kind(),
			Detail:    s.Name,
		})
	}

	for day := 1; day <= totalDays; day++ {
		if err := ctx.Err(); err != nil {
			logrus.Warnf("scenario %q: cancelled at day %d", e.name, day)
			return nil, err
		}
		e.stepOnce(day, totalDays)
	}

	result := &RunResult{
		Scenario:       e.name,
		Metrics:        DeriveMetrics(e.log, totalDays),
		Agents:         make([]AgentStats, 0, len(e.agents)),
		Events:         e.log.Events(),
		ElapsedSeconds: time.Since(startTime).Seconds(),
	}
	for _, a := range e.agents {
		result.Agents = append(result.Agents, statsOf(a))
	}
	logrus.Infof("scenario %q: finished, %d PRs created, %d merged",
		e.name, result.Metrics.PRsCreated, result.Metrics.PRsMerged)
	return result, nil
}

// stepOnce advances the simulation by one day. Phases run in a fixed order:
// week rollover, agent stepping, PR creation, reviewer assignment, review
// completion, revert discovery, stale abandonment, incidents, progress.
func (e *Engine) stepOnce(day, totalDays int) {
	e.day = day
	week := (day-1)/daysPerWeek + 1
	if (day-1)%daysPerWeek == 0 {
		for _, a := range e.agents {
			a.OnWeekStart(week)
		}
	}

	debtDrag := 0.0
	if e.params.TechDebt.Enabled {
		debtDrag = e.debt.Drag()
	}
	stepCtx := &Context{
		Day:            day,
		Week:           week,
		Seed:           e.params.Seed,
		TeamSize:       len(e.agents),
		OverheadFactor: e.params.OverheadModel.StepFactor(len(e.agents), e.params.CommunicationLossFactor),
		DebtDrag:       debtDrag,
	}

	// Collect all actions first, in agent order, so creation and completion
	// processing see a consistent start-of-day state.
	var completions []pendingCompletion
	for i, a := range e.agents {
		rng := e.rng.Derive(fmt.Sprintf("%s_day_%d", SubsystemAgent(i), day))
		for _, action := range a.Step(stepCtx, rng) {
			switch action.Kind {
			case ActionCreatePR:
				e.createPR(a, action.WillSucceed, day)
			case ActionCompleteReview:
				completions = append(completions, pendingCompletion{agent: a, reviewID: action.ReviewID})
			}
		}
	}

	e.assignReviewers(day)
	for _, c := range completions {
		e.completeReview(c.agent, c.reviewID, day)
	}
	e.discoverReverts(day)
	e.abandonStale(day)
	if e.params.Incidents.Enabled {
		e.stepIncidents(day)
	}

	if e.progress != nil && (day%e.progressEvery == 0 || day == totalDays) {
		update := ProgressUpdate{Day: day, TotalDays: totalDays}
		for _, pr := range e.prs {
			update.Created++
			switch pr.State {
			case PRStateOpen, PRStateInReview, PRStateApproved:
				update.Open++
			case PRStateMerged, PRStateReverted:
				update.Merged++
			}
		}
		select {
		case e.progress <- update:
		default:
		}
	}
}

// createPR opens a new PR for the acting agent and accrues its cost.
func (e *Engine) createPR(author Agent, willSucceed bool, day int) {
	e.prSeq++
	s := author.State()
	pr := NewPullRequest(fmt.Sprintf("pr_%d", e.prSeq), s.ID, author.Kind(), day, willSucceed, e.params.RequiredApprovals)
	e.prs = append(e.prs, pr)
	e.prByID[pr.ID] = pr

	s.TotalCreated++
	s.TotalCost += s.CostPerPR
	e.log.Append(SimulationEvent{
		Kind:      EventPRCreated,
		Day:       day,
		AgentID:   s.ID,
		AgentKind: author.Kind(),
		PRID:      pr.ID,
		Cost:      s.CostPerPR,
	})
	logrus.Debugf("day %d: %s created %s", day, s.ID, pr.ID)
}

// assignReviewers fills open reviewer slots on every PR still seeking review.
// Candidates are eligible non-author agents with spare weekly capacity;
// selection is a weighted draw on spare capacity, so lightly loaded agents
// absorb more review work.
func (e *Engine) assignReviewers(day int) {
	rng := e.rng.ForSubsystem(SubsystemEngine)
	for _, pr := range e.prs {
		if pr.State != PRStateOpen && pr.State != PRStateInReview {
			continue
		}
		for len(pr.Reviewers) < pr.RequiredApprovals {
			reviewer := e.pickReviewer(pr, rng)
			if reviewer == nil {
				break
			}
			if err := pr.AssignReviewer(reviewer.State().ID); err != nil {
				break
			}
			e.reviewSeq++
			hours := e.params.BaseReviewHours * (1.0 + e.supervisionOf(pr.AuthorID))
			review := NewCodeReview(fmt.Sprintf("review_%d", e.reviewSeq), pr, reviewer.State().ID, day, hours)
			e.reviews = append(e.reviews, review)
			e.reviewByID[review.ID] = review
			reviewer.State().AssignReview(review.ID)

			e.log.Append(SimulationEvent{
				Kind:      EventReviewAssigned,
				Day:       day,
				AgentID:   reviewer.State().ID,
				AgentKind: reviewer.Kind(),
				PRID:      pr.ID,
			})
		}
	}
}

// pickReviewer draws one eligible reviewer for the PR, weighted by spare
// review capacity, or nil when no candidate has capacity left.
func (e *Engine) pickReviewer(pr *PullRequest, rng *rand.Rand) Agent {
	var candidates []Agent
	var weights []float64
	total := 0.0
	for _, a := range e.agents {
		s := a.State()
		if s.ID == pr.AuthorID {
			continue
		}
		if pr.AuthorKind == AgentKindHuman && !s.CanReviewHuman {
			continue
		}
		if pr.AuthorKind == AgentKindAI && !s.CanReviewAI {
			continue
		}
		if alreadyReviewing(pr, s.ID) {
			continue
		}
		spare := s.SpareReviewCapacity()
		if spare <= 0 {
			continue
		}
		candidates = append(candidates, a)
		weights = append(weights, spare)
		total += spare
	}
	if len(candidates) == 0 {
		return nil
	}
	roll := rng.Float64() * total
	for i, a := range candidates {
		roll -= weights[i]
		if roll < 0 {
			return a
		}
	}
	return candidates[len(candidates)-1]
}

func alreadyReviewing(pr *PullRequest, agentID string) bool {
	for _, id := range pr.Reviewers {
		if id == agentID {
			return true
		}
	}
	return false
}

// supervisionOf returns the supervision factor of the PR author, 0 when the
// author is unknown.
func (e *Engine) supervisionOf(authorID string) float64 {
	if a, ok := e.agentByID[authorID]; ok {
		return a.State().Supervision
	}
	return 0
}

// completeReview applies one finished review: verdict, approval bookkeeping,
// and same-day merge once the approval threshold is met. A rejected review
// abandons the PR outright.
func (e *Engine) completeReview(reviewer Agent, reviewID string, day int) {
	review, ok := e.reviewByID[reviewID]
	if !ok || review.Completed {
		return
	}
	pr, ok := e.prByID[review.PRID]
	if !ok {
		return
	}
	if pr.State != PRStateInReview {
		// PR left the reviewable states (abandoned or merged via another
		// reviewer path); drop silently.
		reviewer.State().DropReview(reviewID)
		return
	}

	// A sound PR always passes review. A defective PR is caught with the
	// configured probability; an uncaught defect ships and surfaces later
	// through revert discovery.
	approved := true
	if !pr.WillSucceed {
		caught := e.rng.ForSubsystem(SubsystemEngine).Float64() < e.params.ReviewCatchProbability
		approved = !caught
	}
	if err := review.Complete(day, approved); err != nil {
		return
	}
	rs := reviewer.State()
	rs.FinishReview(reviewID)
	rs.ReviewHours += review.TimeInvested

	verdict := "approved"
	if !approved {
		verdict = "rejected"
	}
	e.log.Append(SimulationEvent{
		Kind:      EventReviewCompleted,
		Day:       day,
		AgentID:   rs.ID,
		AgentKind: reviewer.Kind(),
		PRID:      pr.ID,
		Detail:    verdict,
	})

	if !approved {
		e.abandonPR(pr, day, "rejected")
		return
	}

	if err := pr.AddApproval(rs.ID); err != nil {
		return
	}
	if pr.State == PRStateApproved {
		e.log.Append(SimulationEvent{
			Kind:      EventPRApproved,
			Day:       day,
			AgentID:   pr.AuthorID,
			AgentKind: pr.AuthorKind,
			PRID:      pr.ID,
		})
		e.mergePR(pr, day)
	}
}

// mergePR merges an approved PR and, when enabled, rolls for technical debt
// introduced by a defective merge.
func (e *Engine) mergePR(pr *PullRequest, day int) {
	if err := pr.Merge(day); err != nil {
		return
	}
	author := e.agentByID[pr.AuthorID]
	if author != nil {
		author.State().TotalMerged++
	}
	cycle, _ := pr.CycleTime()
	e.log.Append(SimulationEvent{
		Kind:      EventPRMerged,
		Day:       day,
		AgentID:   pr.AuthorID,
		AgentKind: pr.AuthorKind,
		PRID:      pr.ID,
		Days:      cycle,
	})
	logrus.Debugf("day %d: merged %s (cycle %dd)", day, pr.ID, cycle)

	if e.params.TechDebt.Enabled && !pr.WillSucceed {
		rng := e.rng.ForSubsystem(SubsystemTechDebt)
		if rng.Float64() < e.params.TechDebt.AccumulationRate {
			item := e.debt.Add(day, pr.ID, debtSeverityForRoll(rng.Float64()))
			e.debtByPR[pr.ID] = item
			e.log.Append(SimulationEvent{
				Kind:    EventTechDebtCreated,
				Day:     day,
				AgentID: pr.AuthorID,
				PRID:    pr.ID,
				Detail:  fmt.Sprintf("severity_%.1f", item.Severity),
			})
		}
	}
}

// debtSeverityForRoll maps a uniform draw to a debt severity class.
func debtSeverityForRoll(roll float64) float64 {
	switch {
	case roll < 0.2:
		return 2.0
	case roll < 0.6:
		return 1.0
	default:
		return 0.5
	}
}

// abandonPR abandons the PR and cancels its outstanding reviews.
func (e *Engine) abandonPR(pr *PullRequest, day int, reason string) {
	if err := pr.Abandon(day); err != nil {
		return
	}
	for _, review := range e.reviews {
		if review.PRID != pr.ID || review.Completed {
			continue
		}
		if reviewer, ok := e.agentByID[review.ReviewerID]; ok {
			reviewer.State().DropReview(review.ID)
		}
	}
	e.log.Append(SimulationEvent{
		Kind:      EventPRAbandoned,
		Day:       day,
		AgentID:   pr.AuthorID,
		AgentKind: pr.AuthorKind,
		PRID:      pr.ID,
		Detail:    reason,
	})
}

// discoverReverts rolls for post-merge defect discovery. A defective merged
// PR is caught on day d after merge with probability p0 × decay^(d−1),
// inside the discovery window. Discovery also pays off the debt the PR
// introduced, if any.
func (e *Engine) discoverReverts(day int) {
	policy := e.params.Revert
	if policy.WindowDays <= 0 || policy.DailyProbability <= 0 {
		return
	}
	rng := e.rng.ForSubsystem(SubsystemEngine)
	for _, pr := range e.prs {
		if pr.State != PRStateMerged || pr.WillSucceed {
			continue
		}
		daysSince := day - pr.MergedAt
		if daysSince < 1 || daysSince > policy.WindowDays {
			continue
		}
		p := policy.DailyProbability * math.Pow(policy.Decay, float64(daysSince-1))
		if rng.Float64() >= p {
			continue
		}
		if err := pr.Revert(day); err != nil {
			continue
		}
		if author := e.agentByID[pr.AuthorID]; author != nil {
			author.State().TotalReverted++
		}
		e.log.Append(SimulationEvent{
			Kind:      EventPRReverted,
			Day:       day,
			AgentID:   pr.AuthorID,
			AgentKind: pr.AuthorKind,
			PRID:      pr.ID,
			Days:      daysSince,
		})
		logrus.Debugf("day %d: reverted %s (%dd after merge)", day, pr.ID, daysSince)

		if item, ok := e.debtByPR[pr.ID]; ok && !item.Paid {
			e.debt.PayOff(item, day)
			e.log.Append(SimulationEvent{
				Kind: EventTechDebtPaid,
				Day:  day,
				PRID: pr.ID,
			})
		}
	}
}

// abandonStale abandons open PRs that could not attract a single reviewer
// within the configured staleness horizon. Disabled when StalePRDays is 0.
func (e *Engine) abandonStale(day int) {
	if e.params.StalePRDays <= 0 {
		return
	}
	for _, pr := range e.prs {
		if pr.State != PRStateOpen || len(pr.Reviewers) > 0 {
			continue
		}
		if day-pr.CreatedAt >= e.params.StalePRDays {
			e.abandonPR(pr, day, "stale")
		}
	}
}

// recentReverts counts PRs reverted within the trailing window.
func (e *Engine) recentReverts(day, window int) int {
	n := 0
	for _, pr := range e.prs {
		if pr.State == PRStateReverted && day-pr.RevertedAt <= window {
			n++
		}
	}
	return n
}

// stepIncidents rolls for new production incidents and resolves due ones.
// Incident load scales with the human headcount; AI agents do not page.
func (e *Engine) stepIncidents(day int) {
	rng := e.rng.ForSubsystem(SubsystemIncidents)

	var humans []Agent
	for _, a := range e.agents {
		if a.Kind() == AgentKindHuman {
			humans = append(humans, a)
		}
	}
	if len(humans) > 0 {
		// Base rate scales with headcount; unpaid debt and a rash of recent
		// reverts make incidents more likely.
		dailyProb := e.params.Incidents.WeeklyRate / daysPerWeek * float64(len(humans))
		dailyProb *= 1.0 + e.debt.Drag() + 0.1*float64(e.recentReverts(day, daysPerWeek))
		if rng.Float64() < dailyProb {
			assignee := humans[rng.Intn(len(humans))].State().ID
			inc := e.incidents.Open(day, rng.Float64(), []string{assignee})
			e.log.Append(SimulationEvent{
				Kind:    EventIncidentCreated,
				Day:     day,
				AgentID: assignee,
				Detail:  string(inc.Severity),
			})
		}
	}

	for _, inc := range e.incidents.ResolveDue(day) {
		days, _ := inc.DaysToResolve()
		agentID := ""
		if len(inc.AssignedTo) > 0 {
			agentID = inc.AssignedTo[0]
		}
		e.log.Append(SimulationEvent{
			Kind:    EventIncidentResolved,
			Day:     day,
			AgentID: agentID,
			Days:    days,
			Detail:  string(inc.Severity),
		})
	}
}
