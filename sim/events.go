package sim

// EventKind classifies append-only simulation log records.
type EventKind string

const (
	EventAgentAdded       EventKind = "agent_added"
	EventPRCreated        EventKind = "pr_created"
	EventReviewAssigned   EventKind = "review_assigned"
	EventReviewCompleted  EventKind = "review_completed"
	EventPRApproved       EventKind = "pr_approved"
	EventPRMerged         EventKind = "pr_merged"
	EventPRReverted       EventKind = "pr_reverted"
	EventPRAbandoned      EventKind = "pr_abandoned"
	EventIncidentCreated  EventKind = "incident_created"
	EventIncidentResolved EventKind = "incident_resolved"
	EventTechDebtCreated  EventKind = "techdebt_created"
	EventTechDebtPaid     EventKind = "techdebt_paid"
)

// SimulationEvent is one append-only log record. Events are never mutated
// after creation and are the sole source for post-hoc metric derivation.
//
// Fields beyond Kind/Day/AgentID are a typed payload: only the fields
// meaningful for the event kind are set. Typed fields (rather than a
// free-form map) keep serialization deterministic.
type SimulationEvent struct {
	Kind      EventKind `json:"kind"`
	Day       int       `json:"day"`
	AgentID   string    `json:"agent_id,omitempty"`
	AgentKind AgentKind `json:"agent_kind,omitempty"`
	PRID      string    `json:"pr_id,omitempty"`

	// Days is a duration payload: cycle time for pr_merged, days after merge
	// for pr_reverted, days to resolution for incident_resolved.
	Days int `json:"days,omitempty"`

	// Cost is the monetary cost payload for pr_created events by AI agents.
	Cost float64 `json:"cost,omitempty"`

	// Detail carries a short free-form annotation (incident severity,
	// abandonment reason, review verdict).
	Detail string `json:"detail,omitempty"`
}

// EventLog is the append-only record of everything that happened in a run.
type EventLog struct {
	events []SimulationEvent
}

// NewEventLog creates an empty event log.
func NewEventLog() *EventLog {
	return &EventLog{events: make([]SimulationEvent, 0, 256)}
}

// Append adds one event. Events must be appended in simulation order.
func (l *EventLog) Append(e SimulationEvent) {
	l.events = append(l.events, e)
}

// Events returns the underlying event slice. Callers must not mutate it.
func (l *EventLog) Events() []SimulationEvent {
	return l.events
}

// Len returns the number of logged events.
func (l *EventLog) Len() int {
	return len(l.events)
}

// ByKind returns all events of the given kind, in log order.
func (l *EventLog) ByKind(kind EventKind) []SimulationEvent {
	var out []SimulationEvent
	for _, e := range l.events {
		if e.Kind == kind {
			out = append(out, e)
		}
	}
	return out
}
