package sim

import "fmt"

// DebtItem is one unit of technical debt, created when a low-quality PR
// escapes review and merges.
type DebtItem struct {
	ID         string
	CreatedAt  int
	CausedByPR string

	// Severity scales the productivity impact: 0.5 minor, 1.0 moderate, 2.0 severe.
	Severity float64

	// Impact is the per-item productivity reduction while unpaid.
	Impact float64

	Paid   bool
	PaidAt int
}

// maxDebtDrag caps the cumulative productivity loss from unpaid debt.
const maxDebtDrag = 0.5

// debtImpactPerSeverity is the productivity reduction per unit of severity.
const debtImpactPerSeverity = 0.01

// DebtTracker accumulates technical debt across one run.
type DebtTracker struct {
	items        []*DebtItem
	totalCreated int
	totalPaid    int
	seq          int
}

// NewDebtTracker creates an empty tracker.
func NewDebtTracker() *DebtTracker {
	return &DebtTracker{}
}

// Add records a new debt item caused by the given PR.
func (t *DebtTracker) Add(day int, causedByPR string, severity float64) *DebtItem {
	t.seq++
	item := &DebtItem{
		ID:         fmt.Sprintf("debt_%d", t.seq),
		CreatedAt:  day,
		CausedByPR: causedByPR,
		Severity:   severity,
		Impact:     debtImpactPerSeverity * severity,
		PaidAt:     -1,
	}
	t.items = append(t.items, item)
	t.totalCreated++
	return item
}

// PayOff marks a debt item resolved.
func (t *DebtTracker) PayOff(item *DebtItem, day int) {
	if item.Paid {
		return
	}
	item.Paid = true
	item.PaidAt = day
	t.totalPaid++
}

// Drag returns the cumulative productivity reduction from unpaid debt,
// capped at maxDebtDrag.
func (t *DebtTracker) Drag() float64 {
	drag := 0.0
	for _, item := range t.items {
		if !item.Paid {
			drag += item.Impact
		}
	}
	if drag > maxDebtDrag {
		return maxDebtDrag
	}
	return drag
}

// ActiveCount returns the number of unpaid debt items.
func (t *DebtTracker) ActiveCount() int {
	n := 0
	for _, item := range t.items {
		if !item.Paid {
			n++
		}
	}
	return n
}

// TotalCreated returns the cumulative number of debt items ever created.
func (t *DebtTracker) TotalCreated() int { return t.totalCreated }

// TotalPaid returns the cumulative number of debt items paid off.
func (t *DebtTracker) TotalPaid() int { return t.totalPaid }
