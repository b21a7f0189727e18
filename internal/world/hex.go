// Package world provides the hex grid geometry and the ring-by-ring terrain walk.
// Uses cube coordinates (x, y, z) with x+y+z = 0 for the grid.
package world

import (
	"errors"
	"fmt"
	"math"
)

var (
	ErrInvalidCube      = errors.New("cube coordinate does not satisfy x+y+z=0")
	ErrInvalidDirection = errors.New("direction index out of range [0,6)")
	ErrInvalidRadius    = errors.New("ring radius must be at least 1")
)

// Cube is a hex grid position in cube coordinates.
// Fields are unexported so every value satisfies x+y+z = 0; the zero value is the origin.
type Cube struct {
	x, y, z int
}

// Origin is the center of every generated map.
var Origin = Cube{}

// NewCube builds a coordinate, rejecting triples off the x+y+z = 0 plane.
func NewCube(x, y, z int) (Cube, error) {
	if x+y+z != 0 {
		return Cube{}, fmt.Errorf("%w: (%d, %d, %d)", ErrInvalidCube, x, y, z)
	}
	return Cube{x: x, y: y, z: z}, nil
}

// CubeFromAxial converts axial (q, r) back to cube; y is derived.
func CubeFromAxial(a Axial) Cube {
	return Cube{x: a.Q, y: -a.Q - a.R, z: a.R}
}

func (c Cube) X() int { return c.x }
func (c Cube) Y() int { return c.y }
func (c Cube) Z() int { return c.z }

func (c Cube) String() string {
	return fmt.Sprintf("(%d, %d, %d)", c.x, c.y, c.z)
}

// Add returns the componentwise sum.
func (c Cube) Add(o Cube) Cube {
	return Cube{x: c.x + o.x, y: c.y + o.y, z: c.z + o.z}
}

// Scale multiplies every component by k.
func (c Cube) Scale(k int) Cube {
	return Cube{x: c.x * k, y: c.y * k, z: c.z * k}
}

// cubeDirections is the fixed neighbor table. Ring traversal steps through it
// in order, so reordering it changes which hex is generated when.
var cubeDirections = [6]Cube{
	{x: 1, y: -1, z: 0},
	{x: 1, y: 0, z: -1},
	{x: 0, y: 1, z: -1},
	{x: -1, y: 1, z: 0},
	{x: -1, y: 0, z: 1},
	{x: 0, y: -1, z: 1},
}

// Direction returns the i-th unit vector of the direction table.
func Direction(i int) (Cube, error) {
	if i < 0 || i >= len(cubeDirections) {
		return Cube{}, fmt.Errorf("%w: %d", ErrInvalidDirection, i)
	}
	return cubeDirections[i], nil
}

// Neighbor returns the hex adjacent to c in direction i.
func (c Cube) Neighbor(i int) (Cube, error) {
	d, err := Direction(i)
	if err != nil {
		return Cube{}, err
	}
	return c.Add(d), nil
}

// Neighbors returns the six adjacent hexes in direction-table order.
func (c Cube) Neighbors() [6]Cube {
	var result [6]Cube
	for i, dir := range cubeDirections {
		result[i] = c.Add(dir)
	}
	return result
}

// Ring returns the 6*radius hexes at exactly the given distance from center.
// The walk starts radius steps out along direction 4 and then takes radius
// steps along each direction in table order. Radius 0 is rejected: the
// center is not a ring.
func Ring(center Cube, radius int) ([]Cube, error) {
	if radius < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidRadius, radius)
	}

	results := make([]Cube, 0, 6*radius)
	cube := center.Add(cubeDirections[4].Scale(radius))
	for _, dir := range cubeDirections {
		for j := 0; j < radius; j++ {
			results = append(results, cube)
			cube = cube.Add(dir)
		}
	}
	return results, nil
}

// Distance returns the hex distance between two coordinates.
func Distance(a, b Cube) int {
	return max(abs(a.x-b.x), abs(a.y-b.y), abs(a.z-b.z))
}

// Len returns the distance from the origin.
func (c Cube) Len() int {
	return Distance(c, Origin)
}

// HexCount returns the number of hexes within the given radius of a center,
// center included: 1 + 3r(r+1).
func HexCount(radius int) int {
	if radius < 0 {
		return 0
	}
	return 1 + 3*radius*(radius+1)
}

// Axial is the two-axis projection of a cube coordinate (q = x, r = z).
type Axial struct {
	Q int `json:"q"`
	R int `json:"r"`
}

// Axial drops the y component.
func (c Cube) Axial() Axial {
	return Axial{Q: c.x, R: c.z}
}

// Pixel converts an axial coordinate to a planar position in the flat-top
// layout. size is the hex radius (center to corner).
func (a Axial) Pixel(size float64) (x, y float64) {
	q, r := float64(a.Q), float64(a.R)
	x = size * (3.0 / 2.0 * q)
	y = size * (math.Sqrt(3.0)/2.0*q + math.Sqrt(3.0)*r)
	return x, y
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func sign(x int) int {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	}
	return 0
}
