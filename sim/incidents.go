package sim

import "fmt"

// IncidentSeverity classifies production incidents.
type IncidentSeverity string

const (
	SeverityLow      IncidentSeverity = "low"
	SeverityMedium   IncidentSeverity = "medium"
	SeverityHigh     IncidentSeverity = "high"
	SeverityCritical IncidentSeverity = "critical"
)

// Incident is a production incident consuming developer attention.
type Incident struct {
	ID        string
	CreatedAt int
	Severity  IncidentSeverity

	// EstimatedDays is the resolution effort; the incident resolves once
	// this many days have elapsed since creation.
	EstimatedDays float64

	AssignedTo []string

	Resolved   bool
	ResolvedAt int
}

// DaysToResolve returns the incident's resolution time. The second return
// value is false while unresolved.
func (i *Incident) DaysToResolve() (int, bool) {
	if !i.Resolved {
		return 0, false
	}
	return i.ResolvedAt - i.CreatedAt, true
}

// IncidentTracker owns the incident collection for one run.
type IncidentTracker struct {
	incidents []*Incident
	seq       int
}

// NewIncidentTracker creates an empty tracker.
func NewIncidentTracker() *IncidentTracker {
	return &IncidentTracker{}
}

// severityForRoll maps a uniform draw in [0,1) to a severity class and its
// estimated resolution effort in days.
func severityForRoll(roll float64) (IncidentSeverity, float64) {
	switch {
	case roll < 0.1:
		return SeverityCritical, 2.0
	case roll < 0.3:
		return SeverityHigh, 1.5
	case roll < 0.7:
		return SeverityMedium, 1.0
	default:
		return SeverityLow, 0.5
	}
}

// Open records a new incident with the given severity roll and assignees.
func (t *IncidentTracker) Open(day int, roll float64, assignees []string) *Incident {
	t.seq++
	severity, effort := severityForRoll(roll)
	inc := &Incident{
		ID:            fmt.Sprintf("incident_%d", t.seq),
		CreatedAt:     day,
		Severity:      severity,
		EstimatedDays: effort,
		AssignedTo:    assignees,
		ResolvedAt:    -1,
	}
	t.incidents = append(t.incidents, inc)
	return inc
}

// ResolveDue marks incidents whose estimated effort has elapsed as resolved
// and returns them, in creation order.
func (t *IncidentTracker) ResolveDue(day int) []*Incident {
	var resolved []*Incident
	for _, inc := range t.incidents {
		if inc.Resolved {
			continue
		}
		if float64(day-inc.CreatedAt) >= inc.EstimatedDays {
			inc.Resolved = true
			inc.ResolvedAt = day
			resolved = append(resolved, inc)
		}
	}
	return resolved
}

// ActiveCount returns the number of unresolved incidents.
func (t *IncidentTracker) ActiveCount() int {
	n := 0
	for _, inc := range t.incidents {
		if !inc.Resolved {
			n++
		}
	}
	return n
}

// Total returns the cumulative number of incidents ever opened.
func (t *IncidentTracker) Total() int { return len(t.incidents) }
