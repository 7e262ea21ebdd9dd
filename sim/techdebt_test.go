package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sdlc-simlab/sdlc-sim/sim/internal/testutil"
)

func TestDebtTracker_AddAndDrag(t *testing.T) {
	tracker := NewDebtTracker()
	assert.Equal(t, 0.0, tracker.Drag())

	item := tracker.Add(3, "pr_1", 1.0)
	assert.Equal(t, "debt_1", item.ID)
	assert.Equal(t, 0.01, item.Impact)

	tracker.Add(4, "pr_2", 2.0)
	testutil.AssertFloat64Equal(t, "drag", 0.03, tracker.Drag(), 1e-9)
	assert.Equal(t, 2, tracker.ActiveCount())
	assert.Equal(t, 2, tracker.TotalCreated())
}

func TestDebtTracker_PayOffReducesDrag(t *testing.T) {
	tracker := NewDebtTracker()
	item := tracker.Add(1, "pr_1", 2.0)
	tracker.Add(2, "pr_2", 0.5)

	tracker.PayOff(item, 10)
	assert.True(t, item.Paid)
	assert.Equal(t, 10, item.PaidAt)
	assert.Equal(t, 1, tracker.ActiveCount())
	assert.Equal(t, 1, tracker.TotalPaid())
	testutil.AssertFloat64Equal(t, "drag after payoff", 0.005, tracker.Drag(), 1e-9)

	// Paying twice is a no-op.
	tracker.PayOff(item, 12)
	assert.Equal(t, 10, item.PaidAt)
	assert.Equal(t, 1, tracker.TotalPaid())
}

func TestDebtTracker_DragCapped(t *testing.T) {
	tracker := NewDebtTracker()
	for i := 0; i < 100; i++ {
		tracker.Add(i, "pr_x", 2.0)
	}
	assert.Equal(t, 0.5, tracker.Drag())
}
