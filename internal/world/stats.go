package world

import "math"

// Summary describes the height field of a generated map.
type Summary struct {
	Hexes      int     `json:"hexes"`
	MinHeight  float64 `json:"min_height"`
	MaxHeight  float64 `json:"max_height"`
	MeanHeight float64 `json:"mean_height"`
	Down       int     `json:"down"`
	Flat       int     `json:"flat"`
	Up         int     `json:"up"`

	// StayFraction is the share of non-origin hexes that kept their parent's trend.
	StayFraction float64 `json:"stay_fraction"`
}

// Summarize computes height and trend statistics over m.
func Summarize(m *Map) Summary {
	var s Summary
	if m.HexCount() == 0 {
		return s
	}

	s.MinHeight, s.MaxHeight = math.Inf(1), math.Inf(-1)
	total, stayed, children := 0.0, 0, 0
	m.Each(func(h *Hex) {
		s.Hexes++
		total += h.Height
		s.MinHeight = math.Min(s.MinHeight, h.Height)
		s.MaxHeight = math.Max(s.MaxHeight, h.Height)
		switch h.Trend {
		case TrendDown:
			s.Down++
		case TrendFlat:
			s.Flat++
		case TrendUp:
			s.Up++
		}
		if h.Ring == 0 {
			return
		}
		children++
		if p := m.Get(h.Parent); p != nil && p.Trend == h.Trend {
			stayed++
		}
	})

	s.MeanHeight = total / float64(s.Hexes)
	if children > 0 {
		s.StayFraction = float64(stayed) / float64(children)
	}
	return s
}
