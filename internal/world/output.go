package world

// Point is a generated hex placed in the plane with its height.
type Point struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Height float64 `json:"height"`
}

// Points projects every hex to (pixel x, pixel y, height), in generation order.
func Points(m *Map, size float64) []Point {
	pts := make([]Point, 0, m.HexCount())
	m.Each(func(h *Hex) {
		x, y := h.Coord.Axial().Pixel(size)
		pts = append(pts, Point{X: x, Y: y, Height: h.Height})
	})
	return pts
}

// Flatten packs points into a vertex buffer: x0, y0, h0, x1, y1, h1, ...
func Flatten(pts []Point) []float64 {
	buf := make([]float64, 0, 3*len(pts))
	for _, p := range pts {
		buf = append(buf, p.X, p.Y, p.Height)
	}
	return buf
}

// DirectionalLight is a light shining along a fixed vector.
type DirectionalLight struct {
	Direction [3]float64 `json:"direction"`
}

// SceneHex is one hex as served to renderers.
type SceneHex struct {
	Axial
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Height float64 `json:"height"`
	Trend  Trend   `json:"trend"`
	Color  Color   `json:"color"`
}

// Scene bundles a generated map with what a renderer needs to draw it.
type Scene struct {
	Radius int                `json:"radius"`
	Seed   int64              `json:"seed"`
	Hexes  []SceneHex         `json:"hexes"`
	Lights []DirectionalLight `json:"light_sources"`
	Stats  Summary            `json:"stats"`
}

// BuildScene assembles a Scene from a completed map.
func BuildScene(m *Map, size float64, lights []DirectionalLight) Scene {
	hexes := make([]SceneHex, 0, m.HexCount())
	m.Each(func(h *Hex) {
		a := h.Coord.Axial()
		x, y := a.Pixel(size)
		hexes = append(hexes, SceneHex{
			Axial:  a,
			X:      x,
			Y:      y,
			Height: h.Height,
			Trend:  h.Trend,
			Color:  h.Color,
		})
	})
	if lights == nil {
		lights = []DirectionalLight{}
	}
	return Scene{
		Radius: m.Radius,
		Seed:   m.Seed,
		Hexes:  hexes,
		Lights: lights,
		Stats:  Summarize(m),
	}
}
