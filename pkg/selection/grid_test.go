package selection

import (
	"testing"
	"time"

	"slotboard/pkg/slot"
)

// fixedClock pins "now" to the morning of 2025-03-10 so slots on that grid
// split cleanly into past and future.
func fixedClock() func() time.Time {
	now := time.Date(2025, 3, 10, 9, 15, 0, 0, time.Local)
	return func() time.Time { return now }
}

func futureKey(hour, minute int) slot.Key {
	return slot.MakeKey("2025-03-10", hour, minute)
}

func TestTapTogglesCell(t *testing.T) {
	g := NewGrid(nil, WithClock(fixedClock()))
	k := futureKey(10, 0)

	g.PointerDown(k)
	g.PointerUp()
	if !g.IsSelected(k) {
		t.Fatalf("first tap should select the cell")
	}

	g.PointerDown(k)
	g.PointerUp()
	if g.IsSelected(k) {
		t.Fatalf("second tap should deselect the cell")
	}
}

func TestDragSelectIsMonotonic(t *testing.T) {
	g := NewGrid(nil, WithClock(fixedClock()))

	// Start on an unselected cell: the sweep may only add.
	already := futureKey(11, 0)
	g2 := NewGrid([]slot.Key{already}, WithClock(fixedClock()))

	g2.PointerDown(futureKey(10, 0))
	g2.PointerEnter(futureKey(10, 30))
	g2.PointerEnter(already) // already selected, stays selected
	g2.PointerEnter(futureKey(11, 30))
	g2.PointerUp()

	for _, k := range []slot.Key{futureKey(10, 0), futureKey(10, 30), already, futureKey(11, 30)} {
		if !g2.IsSelected(k) {
			t.Errorf("select drag should leave %q selected", k)
		}
	}

	// Start on a selected cell: the sweep may only remove.
	g.PointerDown(futureKey(10, 0))
	g.PointerUp()
	g.PointerDown(futureKey(10, 30))
	g.PointerUp()

	g.PointerDown(futureKey(10, 0))
	g.PointerEnter(futureKey(10, 30))
	g.PointerEnter(futureKey(11, 0)) // was never selected, stays unselected
	g.PointerUp()

	if len(g.Selected()) != 0 {
		t.Errorf("deselect drag should clear swept cells, got %v", g.Selected())
	}
}

func TestHoverWithoutDragIsNoop(t *testing.T) {
	g := NewGrid(nil, WithClock(fixedClock()))

	g.PointerEnter(futureKey(10, 0))
	if len(g.Selected()) != 0 {
		t.Errorf("enter without a prior down must not change state")
	}
}

func TestDragEndsOnLeaveGrid(t *testing.T) {
	g := NewGrid(nil, WithClock(fixedClock()))

	g.PointerDown(futureKey(10, 0))
	g.PointerLeaveGrid()
	g.PointerEnter(futureKey(11, 0))

	if g.IsSelected(futureKey(11, 0)) {
		t.Errorf("drag must not resume after leaving the grid")
	}
}

func TestPastSlotGuard(t *testing.T) {
	g := NewGrid(nil, WithClock(fixedClock()))
	past := slot.MakeKey("2025-03-10", 9, 0) // 09:00 < 09:15 now
	future := futureKey(10, 0)

	g.PointerDown(past)
	g.PointerUp()
	if g.IsSelected(past) {
		t.Errorf("past slot must not be selectable")
	}

	// A past cell swept mid-drag is skipped, the drag itself continues.
	g.PointerDown(future)
	g.PointerEnter(past)
	g.PointerEnter(futureKey(10, 30))
	g.PointerUp()

	if g.IsSelected(past) {
		t.Errorf("past slot must not be painted by a drag")
	}
	if !g.IsSelected(future) || !g.IsSelected(futureKey(10, 30)) {
		t.Errorf("future slots in the same drag should still be painted")
	}
}

func TestPastGuardEvaluatedAtInteractionTime(t *testing.T) {
	// The grid is built while the slot is in the future; the clock then
	// advances past it before the user taps.
	current := time.Date(2025, 3, 10, 9, 15, 0, 0, time.Local)
	g := NewGrid(nil, WithClock(func() time.Time { return current }))
	k := futureKey(10, 0)

	current = time.Date(2025, 3, 10, 10, 1, 0, 0, time.Local)
	g.PointerDown(k)
	g.PointerUp()

	if g.IsSelected(k) {
		t.Errorf("slot that became past after render must reject the tap")
	}
}

func TestTouchTapTogglesCell(t *testing.T) {
	g := NewGrid(nil, WithClock(fixedClock()))
	k := futureKey(10, 0)

	g.TouchStart(k, 100, 200)
	g.TouchEnd()
	if !g.IsSelected(k) {
		t.Fatalf("touch tap should select the cell")
	}

	g.TouchStart(k, 100, 200)
	g.TouchEnd()
	if g.IsSelected(k) {
		t.Fatalf("second touch tap should deselect the cell")
	}
}

func TestTouchScrollAbortsInteraction(t *testing.T) {
	k := futureKey(10, 0)

	tests := []struct {
		name  string
		endX  float64
		endY  float64
		abort bool
	}{
		{name: "vertical scroll", endX: 100, endY: 215, abort: true},
		{name: "horizontal scroll", endX: 115, endY: 200, abort: true},
		{name: "exactly at threshold keeps tap", endX: 110, endY: 200, abort: false},
		{name: "small jitter keeps tap", endX: 103, endY: 204, abort: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewGrid(nil, WithClock(fixedClock()))
			g.TouchStart(k, 100, 200)
			g.TouchMove(tt.endX, tt.endY, k)
			g.TouchEnd()

			if tt.abort && g.IsSelected(k) {
				t.Errorf("scroll past threshold must not toggle the cell")
			}
			if !tt.abort && !g.IsSelected(k) {
				t.Errorf("movement within threshold should still count as a tap")
			}
		})
	}
}

func TestTouchScrollStaysAborted(t *testing.T) {
	g := NewGrid(nil, WithClock(fixedClock()))
	k := futureKey(10, 0)

	g.TouchStart(k, 100, 200)
	g.TouchMove(100, 230, k)
	// Finger drifts back near the origin; the interaction stays dead.
	g.TouchMove(101, 201, futureKey(10, 30))
	g.TouchEnd()

	if len(g.Selected()) != 0 {
		t.Errorf("aborted touch must not select anything, got %v", g.Selected())
	}
}

func TestTouchDragAcrossCells(t *testing.T) {
	g := NewGrid(nil, WithClock(fixedClock()))

	g.TouchStart(futureKey(10, 0), 100, 200)
	g.TouchMove(104, 202, futureKey(10, 30))
	g.TouchMove(108, 203, futureKey(11, 0))
	g.TouchEnd()

	for _, k := range []slot.Key{futureKey(10, 0), futureKey(10, 30), futureKey(11, 0)} {
		if !g.IsSelected(k) {
			t.Errorf("touch drag should select %q", k)
		}
	}
}

func TestSelectedIsSorted(t *testing.T) {
	g := NewGrid([]slot.Key{
		"2025-03-11T09:00",
		"2025-03-10T10:30",
		"2025-03-10T09:00",
	}, WithClock(fixedClock()))

	got := g.Selected()
	want := []slot.Key{"2025-03-10T09:00", "2025-03-10T10:30", "2025-03-11T09:00"}
	for i, k := range got {
		if k != want[i] {
			t.Errorf("Selected()[%d] = %q, want %q", i, k, want[i])
		}
	}
}
