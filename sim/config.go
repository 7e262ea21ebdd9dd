package sim

import (
	"bytes"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Built-in defaults for scenario parameters. Exposed as constants so tests
// and presets reference the same values the loader applies.
const (
	DefaultDurationWeeks          = 12
	DefaultSeed                   = 42
	DefaultCommunicationLoss      = 0.3
	DefaultRequiredApprovals      = 1
	DefaultReviewCatchProbability = 0.6
	DefaultBaseReviewHours        = 2.0

	DefaultRevertWindowDays   = 14
	DefaultRevertDailyProb    = 0.1
	DefaultRevertDecay        = 0.85
	DefaultDebtAccumulation   = 0.15
	DefaultIncidentWeeklyRate = 0.05

	DefaultProductivityRate = 3.5
	DefaultQuality          = 0.85
	DefaultReviewCapacity   = 5.0
	DefaultOnboardingWeeks  = 10
	DefaultAvailability     = 0.70
)

// RevertPolicy parameterizes post-merge defect discovery. The daily discovery
// probability decays geometrically: p(d days after merge) = DailyProbability × Decay^d,
// applied within WindowDays of the merge.
type RevertPolicy struct {
	WindowDays       int     `yaml:"window_days,omitempty"`
	DailyProbability float64 `yaml:"daily_probability,omitempty"`
	Decay            float64 `yaml:"decay,omitempty"`
}

// TechDebtParams toggles and tunes the technical-debt subsystem.
type TechDebtParams struct {
	Enabled bool `yaml:"enabled"`
	// AccumulationRate is the probability that a merged failing PR creates
	// a debt item instead of (or before) being reverted.
	AccumulationRate float64 `yaml:"accumulation_rate,omitempty"`
}

// IncidentParams toggles and tunes the incident subsystem.
type IncidentParams struct {
	Enabled bool `yaml:"enabled"`
	// WeeklyRate is the per-developer incident probability per week.
	WeeklyRate float64 `yaml:"weekly_rate,omitempty"`
}

// SimulationParams are the engine-ready run parameters, resolved from a
// scenario's simulation spec with defaults applied.
type SimulationParams struct {
	DurationWeeks           int
	Seed                    int64
	CommunicationLossFactor float64
	OverheadModel           OverheadModel
	RequiredApprovals       int
	ReviewCatchProbability  float64
	BaseReviewHours         float64
	// StalePRDays abandons PRs that cannot attract a reviewer for this many
	// days. 0 disables stale abandonment.
	StalePRDays int
	Revert      RevertPolicy
	TechDebt    TechDebtParams
	Incidents   IncidentParams
}

// SimulationSpec is the YAML-facing simulation section. Pointer fields
// distinguish "unset, apply default" from an explicit zero.
type SimulationSpec struct {
	DurationWeeks           *int            `yaml:"duration_weeks,omitempty"`
	Seed                    *int64          `yaml:"seed,omitempty"`
	CommunicationLossFactor *float64        `yaml:"communication_loss_factor,omitempty"`
	OverheadModel           string          `yaml:"communication_overhead_model,omitempty"`
	RequiredApprovals       int             `yaml:"required_approvals,omitempty"`
	ReviewCatchProbability  *float64        `yaml:"review_catch_probability,omitempty"`
	BaseReviewHours         *float64        `yaml:"base_review_hours,omitempty"`
	StalePRDays             int             `yaml:"stale_pr_days,omitempty"`
	RevertDiscovery         *RevertPolicy   `yaml:"revert_discovery,omitempty"`
	TechDebt                *TechDebtParams `yaml:"tech_debt,omitempty"`
	Incidents               *IncidentParams `yaml:"incidents,omitempty"`
}

// DeveloperSpec describes one human developer in a scenario file.
type DeveloperSpec struct {
	Name             string   `yaml:"name,omitempty"`
	Experience       string   `yaml:"experience,omitempty"`
	ProductivityRate *float64 `yaml:"productivity_rate,omitempty"`
	Quality          *float64 `yaml:"quality,omitempty"`
	ReviewCapacity   *float64 `yaml:"review_capacity,omitempty"`
	OnboardingWeeks  *int     `yaml:"onboarding_weeks,omitempty"`
	Availability     *float64 `yaml:"availability,omitempty"`
	Specializations  []string `yaml:"specializations,omitempty"`
}

// AIAgentSpec describes one AI coding agent in a scenario file.
// Unset numeric fields are filled from the model tier.
type AIAgentSpec struct {
	Name             string   `yaml:"name,omitempty"`
	Model            string   `yaml:"model"`
	ProductivityRate *float64 `yaml:"productivity_rate,omitempty"`
	Quality          *float64 `yaml:"quality,omitempty"`
	CostPerPR        *float64 `yaml:"cost_per_pr,omitempty"`
	Supervision      *float64 `yaml:"supervision,omitempty"`
	ReviewCapacity   *float64 `yaml:"review_capacity,omitempty"`
	CanReviewHuman   bool     `yaml:"can_review_human_prs,omitempty"`
	CanReviewAI      bool     `yaml:"can_review_ai_prs,omitempty"`
}

// TeamSpec describes the team composition. Developers may be given
// explicitly, generated by count, or generated from an experience
// distribution; the three forms combine additively.
type TeamSpec struct {
	Developers   []DeveloperSpec `yaml:"developers,omitempty"`
	Count        int             `yaml:"count,omitempty"`
	Distribution map[string]int  `yaml:"distribution,omitempty"`
	AIAgents     []AIAgentSpec   `yaml:"ai_agents,omitempty"`
}

// ScenarioConfig is a complete, named simulation configuration.
type ScenarioConfig struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description,omitempty"`
	Tags        []string       `yaml:"tags,omitempty"`
	Team        TeamSpec       `yaml:"team"`
	Simulation  SimulationSpec `yaml:"simulation,omitempty"`
}

// LoadScenario reads and parses a YAML scenario file.
// Uses strict parsing: unrecognized keys (typos) are rejected.
// Failures wrap ErrLoad and identify the offending file.
func LoadScenario(path string) (*ScenarioConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: reading scenario %s: %v", ErrLoad, path, err)
	}
	var cfg ScenarioConfig
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("%w: parsing scenario %s: %v", ErrLoad, path, err)
	}
	return &cfg, nil
}

// Validate checks every field and reports all problems at once, so an
// operator fixes a scenario file in one pass rather than one field per run.
func (c *ScenarioConfig) Validate() error {
	var problems []string

	if c.Name == "" {
		problems = append(problems, "name is required")
	}

	s := &c.Simulation
	if s.DurationWeeks != nil && *s.DurationWeeks <= 0 {
		problems = append(problems, fmt.Sprintf("simulation.duration_weeks must be positive, got %d", *s.DurationWeeks))
	}
	if s.CommunicationLossFactor != nil && (*s.CommunicationLossFactor < 0 || *s.CommunicationLossFactor > 1) {
		problems = append(problems, fmt.Sprintf("simulation.communication_loss_factor must be in [0, 1], got %g", *s.CommunicationLossFactor))
	}
	if !IsValidOverheadModel(s.OverheadModel) {
		problems = append(problems, fmt.Sprintf("simulation.communication_overhead_model %q unknown; valid: linear, quadratic, hierarchical", s.OverheadModel))
	}
	if s.RequiredApprovals < 0 {
		problems = append(problems, fmt.Sprintf("simulation.required_approvals must be >= 0, got %d", s.RequiredApprovals))
	}
	if s.ReviewCatchProbability != nil && (*s.ReviewCatchProbability < 0 || *s.ReviewCatchProbability > 1) {
		problems = append(problems, fmt.Sprintf("simulation.review_catch_probability must be in [0, 1], got %g", *s.ReviewCatchProbability))
	}
	if s.StalePRDays < 0 {
		problems = append(problems, fmt.Sprintf("simulation.stale_pr_days must be >= 0, got %d", s.StalePRDays))
	}
	if r := s.RevertDiscovery; r != nil {
		if r.WindowDays < 0 {
			problems = append(problems, fmt.Sprintf("simulation.revert_discovery.window_days must be >= 0, got %d", r.WindowDays))
		}
		if r.DailyProbability < 0 || r.DailyProbability > 1 {
			problems = append(problems, fmt.Sprintf("simulation.revert_discovery.daily_probability must be in [0, 1], got %g", r.DailyProbability))
		}
		if r.Decay < 0 || r.Decay > 1 {
			problems = append(problems, fmt.Sprintf("simulation.revert_discovery.decay must be in [0, 1], got %g", r.Decay))
		}
	}
	if d := s.TechDebt; d != nil && (d.AccumulationRate < 0 || d.AccumulationRate > 1) {
		problems = append(problems, fmt.Sprintf("simulation.tech_debt.accumulation_rate must be in [0, 1], got %g", d.AccumulationRate))
	}
	if i := s.Incidents; i != nil && i.WeeklyRate < 0 {
		problems = append(problems, fmt.Sprintf("simulation.incidents.weekly_rate must be >= 0, got %g", i.WeeklyRate))
	}

	if c.Team.Count < 0 {
		problems = append(problems, fmt.Sprintf("team.count must be >= 0, got %d", c.Team.Count))
	}
	for level, count := range c.Team.Distribution {
		if !IsValidExperienceLevel(level) {
			problems = append(problems, fmt.Sprintf("team.distribution level %q unknown; valid: junior, mid, senior, staff, principal", level))
		}
		if count < 0 {
			problems = append(problems, fmt.Sprintf("team.distribution[%s] must be >= 0, got %d", level, count))
		}
	}
	for i, dev := range c.Team.Developers {
		problems = append(problems, validateDeveloperSpec(&dev, i)...)
	}
	for i, ai := range c.Team.AIAgents {
		problems = append(problems, validateAIAgentSpec(&ai, i)...)
	}
	if len(c.Team.Developers) == 0 && c.Team.Count == 0 && len(c.Team.Distribution) == 0 && len(c.Team.AIAgents) == 0 {
		problems = append(problems, "team is empty: at least one developer or AI agent required")
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: scenario %q: %s", ErrConfiguration, c.Name, strings.Join(problems, "; "))
	}
	return nil
}

func validateDeveloperSpec(d *DeveloperSpec, idx int) []string {
	prefix := fmt.Sprintf("team.developers[%d]", idx)
	var problems []string
	if !IsValidExperienceLevel(d.Experience) {
		problems = append(problems, fmt.Sprintf("%s: experience %q unknown; valid: junior, mid, senior, staff, principal", prefix, d.Experience))
	}
	if d.ProductivityRate != nil && *d.ProductivityRate <= 0 {
		problems = append(problems, fmt.Sprintf("%s: productivity_rate must be > 0, got %g", prefix, *d.ProductivityRate))
	}
	// Out-of-range quality fails validation; it is never silently clamped
	// during simulation.
	if d.Quality != nil && (*d.Quality < 0 || *d.Quality > 1) {
		problems = append(problems, fmt.Sprintf("%s: quality must be in [0, 1], got %g", prefix, *d.Quality))
	}
	if d.ReviewCapacity != nil && *d.ReviewCapacity < 0 {
		problems = append(problems, fmt.Sprintf("%s: review_capacity must be >= 0, got %g", prefix, *d.ReviewCapacity))
	}
	if d.OnboardingWeeks != nil && *d.OnboardingWeeks < 0 {
		problems = append(problems, fmt.Sprintf("%s: onboarding_weeks must be >= 0, got %d", prefix, *d.OnboardingWeeks))
	}
	if d.Availability != nil && (*d.Availability < 0 || *d.Availability > 1) {
		problems = append(problems, fmt.Sprintf("%s: availability must be in [0, 1], got %g", prefix, *d.Availability))
	}
	return problems
}

func validateAIAgentSpec(a *AIAgentSpec, idx int) []string {
	prefix := fmt.Sprintf("team.ai_agents[%d]", idx)
	var problems []string
	if _, ok := LookupModelTier(a.Model); !ok {
		names := ModelTierNames()
		sort.Strings(names)
		problems = append(problems, fmt.Sprintf("%s: model %q unknown; valid: %s", prefix, a.Model, strings.Join(names, ", ")))
	}
	if a.ProductivityRate != nil && *a.ProductivityRate <= 0 {
		problems = append(problems, fmt.Sprintf("%s: productivity_rate must be > 0, got %g", prefix, *a.ProductivityRate))
	}
	if a.Quality != nil && (*a.Quality < 0 || *a.Quality > 1) {
		problems = append(problems, fmt.Sprintf("%s: quality must be in [0, 1], got %g", prefix, *a.Quality))
	}
	if a.CostPerPR != nil && *a.CostPerPR < 0 {
		problems = append(problems, fmt.Sprintf("%s: cost_per_pr must be >= 0, got %g", prefix, *a.CostPerPR))
	}
	if a.Supervision != nil && *a.Supervision < 0 {
		problems = append(problems, fmt.Sprintf("%s: supervision must be >= 0, got %g", prefix, *a.Supervision))
	}
	if a.ReviewCapacity != nil && *a.ReviewCapacity < 0 {
		problems = append(problems, fmt.Sprintf("%s: review_capacity must be >= 0, got %g", prefix, *a.ReviewCapacity))
	}
	return problems
}

// Params resolves the simulation spec into engine-ready parameters with all
// defaults applied. Call only after Validate.
func (c *ScenarioConfig) Params() SimulationParams {
	s := &c.Simulation
	p := SimulationParams{
		DurationWeeks:           DefaultDurationWeeks,
		Seed:                    DefaultSeed,
		CommunicationLossFactor: DefaultCommunicationLoss,
		OverheadModel:           OverheadQuadratic,
		RequiredApprovals:       s.RequiredApprovals,
		ReviewCatchProbability:  DefaultReviewCatchProbability,
		BaseReviewHours:         DefaultBaseReviewHours,
		StalePRDays:             s.StalePRDays,
		Revert: RevertPolicy{
			WindowDays:       DefaultRevertWindowDays,
			DailyProbability: DefaultRevertDailyProb,
			Decay:            DefaultRevertDecay,
		},
	}
	if s.DurationWeeks != nil {
		p.DurationWeeks = *s.DurationWeeks
	}
	if s.Seed != nil {
		p.Seed = *s.Seed
	}
	if s.CommunicationLossFactor != nil {
		p.CommunicationLossFactor = *s.CommunicationLossFactor
	}
	if s.OverheadModel != "" {
		p.OverheadModel = OverheadModel(s.OverheadModel)
	}
	if p.RequiredApprovals == 0 {
		p.RequiredApprovals = DefaultRequiredApprovals
	}
	if s.ReviewCatchProbability != nil {
		p.ReviewCatchProbability = *s.ReviewCatchProbability
	}
	if s.BaseReviewHours != nil {
		p.BaseReviewHours = *s.BaseReviewHours
	}
	if s.RevertDiscovery != nil {
		p.Revert = *s.RevertDiscovery
	}
	if s.TechDebt != nil {
		p.TechDebt = *s.TechDebt
		if p.TechDebt.Enabled && p.TechDebt.AccumulationRate == 0 {
			p.TechDebt.AccumulationRate = DefaultDebtAccumulation
		}
	}
	if s.Incidents != nil {
		p.Incidents = *s.Incidents
		if p.Incidents.Enabled && p.Incidents.WeeklyRate == 0 {
			p.Incidents.WeeklyRate = DefaultIncidentWeeklyRate
		}
	}
	return p
}

// BuildAgents constructs the agent pool in deterministic order: explicit
// developers, count-generated developers, distribution-generated developers,
// then AI agents. Call only after Validate.
func (c *ScenarioConfig) BuildAgents() []Agent {
	var agents []Agent
	humanIdx := 0

	addDeveloper := func(params DeveloperParams) {
		humanIdx++
		if params.Name == "" {
			params.Name = fmt.Sprintf("Dev-%d", humanIdx)
		}
		agents = append(agents, NewDeveloper(fmt.Sprintf("human_%d", humanIdx), params))
	}

	for _, spec := range c.Team.Developers {
		addDeveloper(developerParams(&spec))
	}
	for i := 0; i < c.Team.Count; i++ {
		addDeveloper(developerParams(&DeveloperSpec{}))
	}
	// Distribution iteration sorted by level name for determinism.
	levels := make([]string, 0, len(c.Team.Distribution))
	for level := range c.Team.Distribution {
		levels = append(levels, level)
	}
	sort.Strings(levels)
	for _, level := range levels {
		for i := 0; i < c.Team.Distribution[level]; i++ {
			addDeveloper(developerParams(&DeveloperSpec{Experience: level}))
		}
	}

	for i, spec := range c.Team.AIAgents {
		params := aiAgentParams(&spec)
		if params.Name == "" {
			params.Name = fmt.Sprintf("AI-%s-%d", params.Model, i+1)
		}
		agents = append(agents, NewAIAgent(fmt.Sprintf("ai_%d", i+1), params))
	}

	return agents
}

func developerParams(spec *DeveloperSpec) DeveloperParams {
	p := DeveloperParams{
		Name:             spec.Name,
		Experience:       ExperienceMid,
		ProductivityRate: DefaultProductivityRate,
		Quality:          DefaultQuality,
		ReviewCapacity:   DefaultReviewCapacity,
		OnboardingWeeks:  DefaultOnboardingWeeks,
		Availability:     DefaultAvailability,
		Specializations:  spec.Specializations,
	}
	if spec.Experience != "" {
		p.Experience = ExperienceLevel(spec.Experience)
	}
	if spec.ProductivityRate != nil {
		p.ProductivityRate = *spec.ProductivityRate
	}
	if spec.Quality != nil {
		p.Quality = *spec.Quality
	}
	if spec.ReviewCapacity != nil {
		p.ReviewCapacity = *spec.ReviewCapacity
	}
	if spec.OnboardingWeeks != nil {
		p.OnboardingWeeks = *spec.OnboardingWeeks
	}
	if spec.Availability != nil {
		p.Availability = *spec.Availability
	}
	return p
}

func aiAgentParams(spec *AIAgentSpec) AIAgentParams {
	tier, _ := LookupModelTier(spec.Model)
	p := AIAgentParams{
		Name:             spec.Name,
		Model:            spec.Model,
		ProductivityRate: tier.ProductivityRate,
		Quality:          tier.Quality,
		CostPerPR:        tier.CostPerPR,
		Supervision:      tier.Supervision,
		CanReviewHuman:   spec.CanReviewHuman,
		CanReviewAI:      spec.CanReviewAI,
	}
	if spec.ProductivityRate != nil {
		p.ProductivityRate = *spec.ProductivityRate
	}
	if spec.Quality != nil {
		p.Quality = *spec.Quality
	}
	if spec.CostPerPR != nil {
		p.CostPerPR = *spec.CostPerPR
	}
	if spec.Supervision != nil {
		p.Supervision = *spec.Supervision
	}
	if spec.ReviewCapacity != nil {
		p.ReviewCapacity = *spec.ReviewCapacity
	}
	return p
}
