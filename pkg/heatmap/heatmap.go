// Package heatmap aggregates participant availability into per-slot counts
// and a relative intensity scale for rendering.
package heatmap

import "slotboard/pkg/slot"

// Tier buckets relative popularity into five visual levels: 0 means nobody
// picked the slot, 4 means it is at or near the maximum.
type Tier int

const (
	TierNone Tier = iota
	TierLow
	TierMedium
	TierHigh
	TierPeak
)

type Result struct {
	Counts       map[slot.Key]int `json:"counts"`
	Max          int              `json:"max"`
	Participants int              `json:"participants"`
}

// Aggregate counts, for every slot of the grid, how many selections include
// it. Selections are participants' slot lists; entries outside the grid
// (stale keys from a since-changed room, or junk) are ignored rather than
// counted, so Max only ever reflects visible cells.
func Aggregate(grid []slot.Key, selections [][]slot.Key) *Result {
	counts := make(map[slot.Key]int, len(grid))
	for _, k := range grid {
		counts[k] = 0
	}

	max := 0
	for _, selection := range selections {
		for _, k := range selection {
			if _, ok := counts[k]; !ok {
				continue
			}
			counts[k]++
			if counts[k] > max {
				max = counts[k]
			}
		}
	}

	return &Result{
		Counts:       counts,
		Max:          max,
		Participants: len(selections),
	}
}

// Intensity is count relative to the busiest slot, in [0, 1]. An empty board
// reports 0 everywhere.
func (r *Result) Intensity(k slot.Key) float64 {
	if r.Max == 0 {
		return 0
	}
	return float64(r.Counts[k]) / float64(r.Max)
}

// TierOf maps a slot's relative intensity onto the five tiers. Quartile
// boundaries are inclusive on the upper edge: exactly 25% is still TierLow.
func (r *Result) TierOf(k slot.Key) Tier {
	if r.Counts[k] == 0 {
		return TierNone
	}
	ratio := r.Intensity(k)
	switch {
	case ratio <= 0.25:
		return TierLow
	case ratio <= 0.5:
		return TierMedium
	case ratio <= 0.75:
		return TierHigh
	default:
		return TierPeak
	}
}
