// Package selection implements the interaction model of the slot grid: tap
// to toggle, press and sweep to paint, with the paint mode fixed by the first
// cell so a sweep only ever selects or only ever deselects. Touch input gets
// a scroll guard so panning the page never mutates the selection.
package selection

import (
	"math"
	"sort"
	"time"

	"slotboard/pkg/slot"
)

// Mode is the effect a drag applies to every cell it sweeps.
type Mode int

const (
	ModeNone Mode = iota
	ModeSelect
	ModeDeselect
)

// TouchScrollThreshold is how far (in px, either axis) a touch may travel
// before it is treated as a scroll and the pending interaction is aborted.
const TouchScrollThreshold = 10.0

// Grid holds one participant's in-progress selection. It mirrors a single
// input device, so it is intentionally not safe for concurrent use.
type Grid struct {
	selected map[slot.Key]struct{}
	mode     Mode
	dragging bool
	touch    touchState
	now      func() time.Time
}

type touchState struct {
	active    bool
	scrolling bool
	dragging  bool
	startX    float64
	startY    float64
	pending   slot.Key
}

type Option func(*Grid)

// WithClock overrides the clock used for the past-slot guard. Tests pin it.
func WithClock(now func() time.Time) Option {
	return func(g *Grid) {
		g.now = now
	}
}

func NewGrid(initial []slot.Key, opts ...Option) *Grid {
	g := &Grid{
		selected: make(map[slot.Key]struct{}, len(initial)),
		now:      time.Now,
	}
	for _, k := range initial {
		g.selected[k] = struct{}{}
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Selected returns the current selection in chronological order.
func (g *Grid) Selected() []slot.Key {
	keys := make([]slot.Key, 0, len(g.selected))
	for k := range g.selected {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

func (g *Grid) IsSelected(k slot.Key) bool {
	_, ok := g.selected[k]
	return ok
}

func (g *Grid) Dragging() bool {
	return g.dragging || g.touch.dragging
}

// selectable applies the past-slot guard at interaction time: a slot whose
// start has already passed cannot be toggled, even if the grid was rendered
// while it was still in the future.
func (g *Grid) selectable(k slot.Key) bool {
	return !k.StartsBefore(g.now())
}

func (g *Grid) toggle(k slot.Key) Mode {
	if g.IsSelected(k) {
		delete(g.selected, k)
		return ModeDeselect
	}
	g.selected[k] = struct{}{}
	return ModeSelect
}

func (g *Grid) apply(k slot.Key) {
	switch g.mode {
	case ModeSelect:
		g.selected[k] = struct{}{}
	case ModeDeselect:
		delete(g.selected, k)
	}
}

// PointerDown starts a drag on k. The cell toggles immediately and its new
// state becomes the drag mode.
func (g *Grid) PointerDown(k slot.Key) {
	if !g.selectable(k) {
		return
	}
	g.mode = g.toggle(k)
	g.dragging = true
}

// PointerEnter paints k with the drag mode. Outside a drag it is a no-op, so
// plain hovering never changes state.
func (g *Grid) PointerEnter(k slot.Key) {
	if !g.dragging || !g.selectable(k) {
		return
	}
	g.apply(k)
}

// PointerUp ends the drag.
func (g *Grid) PointerUp() {
	g.dragging = false
	g.mode = ModeNone
}

// PointerLeaveGrid ends the drag when the pointer leaves the grid entirely,
// so re-entering does not resume painting.
func (g *Grid) PointerLeaveGrid() {
	g.PointerUp()
}

// TouchStart records a touch on k. Nothing toggles yet; the decision between
// tap, drag and scroll is made by the following moves.
func (g *Grid) TouchStart(k slot.Key, x, y float64) {
	g.touch = touchState{
		active:  true,
		startX:  x,
		startY:  y,
		pending: k,
	}
}

// TouchMove feeds the current touch position and the cell under the finger.
// Crossing the scroll threshold before painting started aborts the whole
// interaction. Moving onto another cell commits the pending tap and switches
// to painting.
func (g *Grid) TouchMove(x, y float64, k slot.Key) {
	if !g.touch.active || g.touch.scrolling {
		return
	}

	if !g.touch.dragging {
		dx := math.Abs(x - g.touch.startX)
		dy := math.Abs(y - g.touch.startY)
		if dx > TouchScrollThreshold || dy > TouchScrollThreshold {
			g.touch.scrolling = true
			return
		}
	}

	if k == "" || k == g.touch.pending {
		return
	}

	if !g.touch.dragging {
		if !g.selectable(g.touch.pending) {
			// The anchor cell is in the past; the sweep never starts.
			g.touch.scrolling = true
			return
		}
		g.mode = g.toggle(g.touch.pending)
		g.touch.dragging = true
	}
	if g.selectable(k) {
		g.apply(k)
	}
}

// TouchEnd finishes the interaction: a tap that never moved toggles its cell,
// a scroll leaves the selection untouched, a drag is already applied.
func (g *Grid) TouchEnd() {
	defer func() {
		g.touch = touchState{}
		g.mode = ModeNone
	}()

	if !g.touch.active || g.touch.scrolling || g.touch.dragging {
		return
	}
	if !g.selectable(g.touch.pending) {
		return
	}
	g.toggle(g.touch.pending)
}
