package slot

// Resolver answers which window applies to each date of a room. Dates without
// an override use the room's default window. The display window is the union
// of all effective windows, so a rendered grid has one row set for the whole
// room; cells inside the display window but outside a date's effective window
// are out of range and never part of the slot set.
type Resolver struct {
	defaultWindow Window
	overrides     map[string]Window
}

func NewResolver(defaultWindow Window, overrides map[string]Window) *Resolver {
	return &Resolver{
		defaultWindow: defaultWindow,
		overrides:     overrides,
	}
}

// Effective returns the window in force on date.
func (r *Resolver) Effective(date string) Window {
	if w, ok := r.overrides[date]; ok {
		return w
	}
	return r.defaultWindow
}

// Display returns the union window across the given dates: the earliest
// effective start and the latest effective end. Rendering uses it so every
// column shares the same rows.
func (r *Resolver) Display(dates []string) Window {
	if len(dates) == 0 {
		return Window{}
	}
	display := r.Effective(dates[0])
	for _, date := range dates[1:] {
		w := r.Effective(date)
		if w.Start < display.Start {
			display.Start = w.Start
		}
		if w.End > display.End {
			display.End = w.End
		}
	}
	return display
}

// InRange reports whether a cell at (date, hour) falls inside the effective
// window for that date. Cells outside it render disabled and are excluded
// from generation, selection and aggregation.
func (r *Resolver) InRange(date string, hour int) bool {
	w := r.Effective(date)
	return w.Valid() && hour >= w.Start && hour < w.End
}

// Grid generates the full slot set for the dates, applying each date's
// effective window. Output order is date order, then time.
func (r *Resolver) Grid(dates []string) []Key {
	var keys []Key
	for _, date := range dates {
		keys = append(keys, Generate([]string{date}, r.Effective(date))...)
	}
	return keys
}

// GridSet is Grid as a membership set, for validation lookups.
func (r *Resolver) GridSet(dates []string) map[Key]struct{} {
	grid := r.Grid(dates)
	set := make(map[Key]struct{}, len(grid))
	for _, k := range grid {
		set[k] = struct{}{}
	}
	return set
}
