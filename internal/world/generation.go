// Terrain generation by a ring-by-ring biased random walk.
// Every hex inherits height and trend from a parent one ring closer to the
// origin, keeps the trend with probability StayProb, and otherwise switches
// to one of the two other trends.
package world

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand"

	"github.com/talgya/hexwalk/internal/entropy"
)

var (
	ErrMissingParent = errors.New("parent hex not generated")
	ErrInvalidConfig = errors.New("invalid generation config")
)

// Rand is the randomness the walk consumes. *rand.Rand satisfies it.
// Draws happen in a fixed order per hex: Intn(2) for the parent when there
// are two candidates, Float64 for stay/change, Intn(2) for the new trend.
type Rand interface {
	Intn(n int) int
	Float64() float64
}

// GenConfig holds terrain generation parameters.
type GenConfig struct {
	Iterations int       // Number of rings around the origin
	StayProb   float64   // Probability a hex keeps its parent's trend, in (0, 1)
	StepSize   float64   // Height change per trend unit, > 0
	Seed       int64     // Random seed (0 = random)
	ColorMode  ColorMode // How hex colors are assigned
	PixelSize  float64   // Hex size used for pixel projection
}

// DefaultGenConfig returns the reference parameters.
func DefaultGenConfig() GenConfig {
	return GenConfig{
		Iterations: 12,
		StayProb:   0.75,
		StepSize:   1.0,
		Seed:       0,
		ColorMode:  ColorRandom,
		PixelSize:  1.0,
	}
}

// SmallTestConfig returns a tiny seeded map for rapid iteration.
func SmallTestConfig() GenConfig {
	cfg := DefaultGenConfig()
	cfg.Iterations = 3
	cfg.Seed = 42
	return cfg
}

// Validate rejects parameters the walk cannot run with.
func (cfg GenConfig) Validate() error {
	if cfg.Iterations < 0 {
		return fmt.Errorf("%w: iterations %d < 0", ErrInvalidConfig, cfg.Iterations)
	}
	if !(cfg.StayProb > 0 && cfg.StayProb < 1) {
		return fmt.Errorf("%w: stay_prob %v not in (0, 1)", ErrInvalidConfig, cfg.StayProb)
	}
	if !(cfg.StepSize > 0) || math.IsInf(cfg.StepSize, 1) {
		return fmt.Errorf("%w: step_size %v must be positive and finite", ErrInvalidConfig, cfg.StepSize)
	}
	if !(cfg.PixelSize > 0) || math.IsInf(cfg.PixelSize, 1) {
		return fmt.Errorf("%w: pixel_size %v must be positive and finite", ErrInvalidConfig, cfg.PixelSize)
	}
	if !cfg.ColorMode.Valid() {
		return fmt.Errorf("%w: color mode %d", ErrInvalidConfig, cfg.ColorMode)
	}
	return nil
}

// Generate creates a complete terrain map. A zero seed is replaced with a
// fresh one, recorded in Map.Seed so the run can be replayed.
func Generate(cfg GenConfig) (*Map, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = entropy.Seed()
	}

	m, err := Walk(cfg, rand.New(rand.NewSource(seed)))
	if err != nil {
		return nil, err
	}
	m.Seed = seed

	// Colors use their own streams so the height field depends only on seed.
	Colorize(m, cfg.ColorMode, seed, cfg.PixelSize)

	return m, nil
}

// Walk runs the ring-by-ring random walk with the given random source.
// Ring r is completed before ring r+1 starts; every parent lookup is checked
// and a missing parent aborts the walk.
func Walk(cfg GenConfig, rng Rand) (*Map, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	m := NewMap(cfg.Iterations)
	if err := m.Set(&Hex{Coord: Origin, Parent: Origin}); err != nil {
		return nil, err
	}

	for radius := 1; radius <= cfg.Iterations; radius++ {
		ring, err := Ring(Origin, radius)
		if err != nil {
			return nil, err
		}
		for _, c := range ring {
			hex, err := walkStep(m, c, radius, cfg, rng)
			if err != nil {
				return nil, fmt.Errorf("ring %d: %w", radius, err)
			}
			if err := m.Set(hex); err != nil {
				return nil, fmt.Errorf("ring %d: %w", radius, err)
			}
		}
		slog.Debug("ring generated", "radius", radius, "hexes", len(ring))
	}

	return m, nil
}

// walkStep derives the record for c from one of its parents.
func walkStep(m *Map, c Cube, radius int, cfg GenConfig, rng Rand) (*Hex, error) {
	candidates := Parents(c)

	var parentCoord Cube
	switch len(candidates) {
	case 1:
		parentCoord = candidates[0]
	case 2:
		if rng.Intn(2) == 1 {
			parentCoord = candidates[0]
		} else {
			parentCoord = candidates[1]
		}
	default:
		return nil, fmt.Errorf("%w: %v has no parent candidates", ErrMissingParent, c)
	}

	parent := m.Get(parentCoord)
	if parent == nil {
		return nil, fmt.Errorf("%w: parent %v of %v", ErrMissingParent, parentCoord, c)
	}
	if parent.Ring != radius-1 {
		return nil, fmt.Errorf("%w: parent %v of %v is in ring %d, want %d",
			ErrMissingParent, parentCoord, c, parent.Ring, radius-1)
	}

	trend := parent.Trend
	if rng.Float64() >= cfg.StayProb {
		trend = changeTrend(parent.Trend, rng)
	}

	return &Hex{
		Coord:  c,
		Height: parent.Height + float64(trend)*cfg.StepSize,
		Trend:  trend,
		Parent: parentCoord,
		Ring:   radius,
	}, nil
}

// changeTrend picks uniformly between the two trends other than t.
func changeTrend(t Trend, rng Rand) Trend {
	var others [2]Trend
	n := 0
	for _, o := range Trends {
		if o != t {
			others[n] = o
			n++
		}
	}
	return others[rng.Intn(2)]
}

// Parents returns the ring-1 neighbors c can inherit from.
//
// When one axis has the largest absolute value, that axis moves one step
// toward zero and one of the other two axes absorbs the step, giving two
// candidates. When two axes tie (c sits on a corner of its ring), both move
// toward zero and there is a single candidate. A three-way tie only happens
// at the origin, which has no parent, so nil is returned for it.
func Parents(c Cube) []Cube {
	comps := [3]int{c.x, c.y, c.z}

	var maxima []int
	best := -1
	for j, v := range comps {
		switch a := abs(v); {
		case a > best:
			best = a
			maxima = append(maxima[:0], j)
		case a == best:
			maxima = append(maxima, j)
		}
	}
	if best == 0 {
		return nil
	}

	if len(maxima) > 1 {
		p := comps
		for _, j := range maxima {
			p[j] -= sign(p[j])
		}
		return []Cube{{x: p[0], y: p[1], z: p[2]}}
	}

	j := maxima[0]
	s := sign(comps[j])
	parents := make([]Cube, 0, 2)
	for k := 0; k < 3; k++ {
		if k == j {
			continue
		}
		p := comps
		p[j] -= s
		p[k] += s
		parents = append(parents, Cube{x: p[0], y: p[1], z: p[2]})
	}
	return parents
}
