package slot

// Window is a half-open hour range [Start, End). A window of {9, 17} spans
// 09:00 through 16:30 inclusive.
type Window struct {
	Start int `json:"start" validate:"min=0,max=23"`
	End   int `json:"end" validate:"min=1,max=24"`
}

func (w Window) IsZero() bool {
	return w.Start == 0 && w.End == 0
}

func (w Window) Valid() bool {
	return w.Start >= 0 && w.End <= 24 && w.Start < w.End
}

// Hours returns the number of whole hours the window covers.
func (w Window) Hours() int {
	if !w.Valid() {
		return 0
	}
	return w.End - w.Start
}

// Generate produces every half-hour key for the given dates and window, two
// per hour, ordered by date then time. Dates are expected sorted ascending;
// the output preserves their order. An invalid or empty window yields nil.
func Generate(dates []string, w Window) []Key {
	if !w.Valid() || len(dates) == 0 {
		return nil
	}
	keys := make([]Key, 0, len(dates)*w.Hours()*2)
	for _, date := range dates {
		for hour := w.Start; hour < w.End; hour++ {
			keys = append(keys, MakeKey(date, hour, 0))
			keys = append(keys, MakeKey(date, hour, 30))
		}
	}
	return keys
}
