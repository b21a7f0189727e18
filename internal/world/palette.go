package world

import (
	"fmt"
	"math"
	"math/rand"
	"strings"

	opensimplex "github.com/ojrac/opensimplex-go"
)

// ColorMode selects how hex colors are assigned after the walk.
type ColorMode uint8

const (
	ColorRandom ColorMode = iota // Uniformly random RGB per hex
	ColorRelief                  // Height ramp shaded with simplex noise
)

// Valid reports whether m is a known mode.
func (m ColorMode) Valid() bool {
	return m <= ColorRelief
}

func (m ColorMode) String() string {
	switch m {
	case ColorRandom:
		return "random"
	case ColorRelief:
		return "relief"
	default:
		return fmt.Sprintf("ColorMode(%d)", uint8(m))
	}
}

// ParseColorMode accepts "random" or "relief" (case-insensitive).
func ParseColorMode(s string) (ColorMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "random":
		return ColorRandom, nil
	case "relief":
		return ColorRelief, nil
	}
	return 0, fmt.Errorf("%w: unknown color mode %q", ErrInvalidConfig, s)
}

// reliefStops is the height ramp from lowest to highest hex.
var reliefStops = []Color{
	{38, 70, 120},   // Deep
	{70, 130, 80},   // Lowland
	{140, 160, 90},  // Upland
	{130, 110, 90},  // Rock
	{235, 235, 240}, // Peak
}

// Colorize assigns a color to every hex in insertion order. Each mode draws
// from its own stream derived from seed; heights are never touched.
func Colorize(m *Map, mode ColorMode, seed int64, size float64) {
	switch mode {
	case ColorRelief:
		colorizeRelief(m, seed, size)
	default:
		colorizeRandom(m, seed)
	}
}

func colorizeRandom(m *Map, seed int64) {
	rng := rand.New(rand.NewSource(seed + 1))
	m.Each(func(h *Hex) {
		h.Color = Color{uint8(rng.Intn(256)), uint8(rng.Intn(256)), uint8(rng.Intn(256))}
	})
}

func colorizeRelief(m *Map, seed int64, size float64) {
	noise := opensimplex.NewNormalized(seed + 2)

	lo, hi := math.Inf(1), math.Inf(-1)
	m.Each(func(h *Hex) {
		lo = math.Min(lo, h.Height)
		hi = math.Max(hi, h.Height)
	})

	m.Each(func(h *Hex) {
		t := 0.5
		if hi > lo {
			t = (h.Height - lo) / (hi - lo)
		}
		x, y := h.Coord.Axial().Pixel(size)
		// Shade in [0.8, 1.2] so neighboring hexes of equal height still read apart.
		shade := 0.8 + 0.4*noise.Eval2(x*0.15, y*0.15)
		h.Color = shadeColor(rampColor(t), shade)
	})
}

// rampColor interpolates reliefStops at t in [0, 1].
func rampColor(t float64) Color {
	t = math.Max(0, math.Min(1, t))
	pos := t * float64(len(reliefStops)-1)
	i := int(pos)
	if i >= len(reliefStops)-1 {
		return reliefStops[len(reliefStops)-1]
	}
	frac := pos - float64(i)
	a, b := reliefStops[i], reliefStops[i+1]
	var c Color
	for k := range c {
		c[k] = uint8(math.Round(float64(a[k]) + (float64(b[k])-float64(a[k]))*frac))
	}
	return c
}

func shadeColor(c Color, f float64) Color {
	var out Color
	for k := range c {
		out[k] = uint8(math.Max(0, math.Min(255, math.Round(float64(c[k])*f))))
	}
	return out
}
