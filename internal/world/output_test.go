package world

import (
	"encoding/json"
	"testing"
)

func TestPointsFollowGenerationOrder(t *testing.T) {
	m, err := Generate(SmallTestConfig())
	if err != nil {
		t.Fatal(err)
	}
	pts := Points(m, 1.0)
	if len(pts) != HexCount(3) {
		t.Fatalf("%d points, want %d", len(pts), HexCount(3))
	}
	if pts[0] != (Point{}) {
		t.Fatalf("first point %+v, want origin at height 0", pts[0])
	}
	for i, c := range m.Order {
		x, y := c.Axial().Pixel(1.0)
		if pts[i].X != x || pts[i].Y != y || pts[i].Height != m.Get(c).Height {
			t.Fatalf("point %d = %+v, hex %v", i, pts[i], c)
		}
	}

	buf := Flatten(pts)
	if len(buf) != 3*len(pts) {
		t.Fatalf("flattened length %d", len(buf))
	}
	if buf[3] != pts[1].X || buf[4] != pts[1].Y || buf[5] != pts[1].Height {
		t.Fatalf("flatten misplaced second point: %v", buf[3:6])
	}
}

func TestBuildSceneJSON(t *testing.T) {
	cfg := SmallTestConfig()
	m, err := Generate(cfg)
	if err != nil {
		t.Fatal(err)
	}
	lights := []DirectionalLight{{Direction: [3]float64{0, -1, 0.5}}}
	scene := BuildScene(m, cfg.PixelSize, lights)
	if scene.Radius != 3 || scene.Seed != 42 || len(scene.Hexes) != HexCount(3) {
		t.Fatalf("unexpected scene header %d/%d/%d", scene.Radius, scene.Seed, len(scene.Hexes))
	}

	data, err := json.Marshal(scene)
	if err != nil {
		t.Fatal(err)
	}
	var decoded struct {
		Radius int `json:"radius"`
		Hexes  []struct {
			Q      int      `json:"q"`
			R      int      `json:"r"`
			Height float64  `json:"height"`
			Color  [3]uint8 `json:"color"`
		} `json:"hexes"`
		Lights []struct {
			Direction [3]float64 `json:"direction"`
		} `json:"light_sources"`
	}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatal(err)
	}
	if len(decoded.Lights) != 1 || decoded.Lights[0].Direction[2] != 0.5 {
		t.Fatalf("lights = %+v", decoded.Lights)
	}
	second := m.Get(m.Order[1])
	if decoded.Hexes[1].Q != second.Coord.Axial().Q || decoded.Hexes[1].Color != second.Color {
		t.Fatalf("hex 1 = %+v, want %v", decoded.Hexes[1], second)
	}

	if empty := BuildScene(m, 1.0, nil); empty.Lights == nil {
		t.Fatal("nil lights should serialize as an empty list")
	}
}

func TestSummarize(t *testing.T) {
	m := NewMap(1)
	hexes := []*Hex{
		{Coord: Origin, Parent: Origin},
		{Coord: Cube{x: -1, y: 0, z: 1}, Height: 0, Trend: TrendFlat, Parent: Origin, Ring: 1},
		{Coord: Cube{x: 0, y: -1, z: 1}, Height: 1, Trend: TrendUp, Parent: Origin, Ring: 1},
		{Coord: Cube{x: 1, y: -1, z: 0}, Height: -1, Trend: TrendDown, Parent: Origin, Ring: 1},
		{Coord: Cube{x: 1, y: 0, z: -1}, Height: 0, Trend: TrendFlat, Parent: Origin, Ring: 1},
	}
	for _, h := range hexes {
		if err := m.Set(h); err != nil {
			t.Fatal(err)
		}
	}
	s := Summarize(m)
	if s.Hexes != 5 || s.MinHeight != -1 || s.MaxHeight != 1 || s.MeanHeight != 0 {
		t.Fatalf("unexpected heights %+v", s)
	}
	if s.Down != 1 || s.Flat != 3 || s.Up != 1 {
		t.Fatalf("unexpected trend counts %+v", s)
	}
	if s.StayFraction != 0.5 {
		t.Fatalf("stay fraction %v, want 0.5", s.StayFraction)
	}
	if (Summarize(NewMap(0)) != Summary{}) {
		t.Fatal("empty map should summarize to zero")
	}
}

func TestRampColor(t *testing.T) {
	if rampColor(0) != reliefStops[0] || rampColor(-3) != reliefStops[0] {
		t.Fatalf("low end = %v", rampColor(0))
	}
	last := reliefStops[len(reliefStops)-1]
	if rampColor(1) != last || rampColor(2) != last {
		t.Fatalf("high end = %v", rampColor(1))
	}
	if got := shadeColor(Color{200, 100, 0}, 1.5); got != (Color{255, 150, 0}) {
		t.Fatalf("shade = %v", got)
	}
}

func TestColorizeRelief(t *testing.T) {
	cfg := SmallTestConfig()
	cfg.Iterations = 6
	cfg.ColorMode = ColorRelief
	m, err := Generate(cfg)
	if err != nil {
		t.Fatal(err)
	}
	distinct := make(map[Color]bool)
	m.Each(func(h *Hex) { distinct[h.Color] = true })
	if len(distinct) < 2 {
		t.Fatalf("relief coloring produced %d colors", len(distinct))
	}
}

func TestParseColorMode(t *testing.T) {
	for in, want := range map[string]ColorMode{"": ColorRandom, "random": ColorRandom, " Relief ": ColorRelief} {
		got, err := ParseColorMode(in)
		if err != nil || got != want {
			t.Errorf("ParseColorMode(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := ParseColorMode("sepia"); err == nil {
		t.Fatal("expected error for unknown mode")
	}
	if ColorRelief.String() != "relief" {
		t.Fatal("unexpected mode name")
	}
}
