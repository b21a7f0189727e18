package world

import (
	"errors"
	"fmt"
)

var ErrDuplicateHex = errors.New("hex already generated")

// Trend is the signed elevation change a hex applied relative to its parent.
type Trend int8

const (
	TrendDown Trend = -1
	TrendFlat Trend = 0
	TrendUp   Trend = 1
)

// Trends lists every trend in ascending order.
var Trends = [3]Trend{TrendDown, TrendFlat, TrendUp}

// Valid reports whether t is one of -1, 0, 1.
func (t Trend) Valid() bool {
	return t >= TrendDown && t <= TrendUp
}

func (t Trend) String() string {
	switch t {
	case TrendDown:
		return "down"
	case TrendFlat:
		return "flat"
	case TrendUp:
		return "up"
	default:
		return fmt.Sprintf("Trend(%d)", int8(t))
	}
}

// Color is an RGB byte triple.
type Color [3]uint8

// Hex is the generated record for a single coordinate.
type Hex struct {
	Coord  Cube
	Height float64
	Trend  Trend

	// Parent is the ring-1 neighbor the height was inherited from.
	// The origin is its own parent.
	Parent Cube
	Ring   int
	Seq    int // insertion index, 0 for the origin

	Color Color
}

// Map holds the generated terrain. It only grows: a coordinate, once set,
// is never replaced or removed.
type Map struct {
	Hexes  map[Cube]*Hex
	Order  []Cube // insertion order
	Radius int
	Seed   int64 // seed the heights were generated from, 0 if unknown
}

// NewMap creates an empty map sized for the given radius.
func NewMap(radius int) *Map {
	n := HexCount(radius)
	return &Map{
		Hexes:  make(map[Cube]*Hex, n),
		Order:  make([]Cube, 0, n),
		Radius: radius,
	}
}

// Get returns the hex at the given coordinate, or nil if not generated yet.
func (m *Map) Get(coord Cube) *Hex {
	return m.Hexes[coord]
}

// Set inserts a hex, assigning its sequence number. Overwriting is an error.
func (m *Map) Set(hex *Hex) error {
	if !hex.Trend.Valid() {
		return fmt.Errorf("hex %v: invalid trend %d", hex.Coord, hex.Trend)
	}
	if _, ok := m.Hexes[hex.Coord]; ok {
		return fmt.Errorf("%w: %v", ErrDuplicateHex, hex.Coord)
	}
	hex.Seq = len(m.Order)
	m.Hexes[hex.Coord] = hex
	m.Order = append(m.Order, hex.Coord)
	return nil
}

// InBounds returns true if the coordinate is within the map radius.
func (m *Map) InBounds(coord Cube) bool {
	return coord.Len() <= m.Radius
}

// HexCount returns the total number of hexes in the map.
func (m *Map) HexCount() int {
	return len(m.Hexes)
}

// Each calls fn for every hex in insertion order.
func (m *Map) Each(fn func(*Hex)) {
	for _, c := range m.Order {
		fn(m.Hexes[c])
	}
}

// String returns a summary of the map.
func (m *Map) String() string {
	return fmt.Sprintf("Map(radius=%d, hexes=%d)", m.Radius, m.HexCount())
}
