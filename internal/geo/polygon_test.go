package geo_test

import (
	"os"
	"path/filepath"
	"testing"

	"emergencyHub/internal/geo"
)

// A 10x10 degree square around (5,5) with a 2x2 hole around (5,5).
var square = geo.Polygon{
	Name: "square",
	Rings: [][][2]float64{
		{{0, 0}, {10, 0}, {10, 10}, {0, 10}, {0, 0}},
		{{4, 4}, {6, 4}, {6, 6}, {4, 6}, {4, 4}},
	},
}

func TestIsWithinServiceArea_NoAreas(t *testing.T) {
	t.Parallel()

	points := []geo.Point{geo.NewPoint(0, 0), geo.NewPoint(89, 179), geo.NewPoint(-45, 12)}
	for _, p := range points {
		if !geo.IsWithinServiceArea(p, nil) {
			t.Fatalf("nil areas must cover %v", p)
		}
		if !geo.IsWithinServiceArea(p, []geo.Polygon{}) {
			t.Fatalf("empty areas must cover %v", p)
		}
	}
}

func TestIsWithinServiceArea(t *testing.T) {
	t.Parallel()

	areas := []geo.Polygon{square}
	cases := []struct {
		name string
		p    geo.Point
		want bool
	}{
		{"inside", geo.NewPoint(2, 2), true},
		{"inside_other_corner", geo.NewPoint(8, 9), true},
		{"in_hole", geo.NewPoint(5, 5), false},
		{"outside", geo.NewPoint(11, 5), false},
		{"far_away", geo.NewPoint(-30, 100), false},
		{"invalid_lat", geo.NewPoint(95, 5), false},
	}

	for _, c := range cases {
		c := c
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()
			if got := geo.IsWithinServiceArea(c.p, areas); got != c.want {
				t.Fatalf("IsWithinServiceArea(%v)=%v want %v", c.p, got, c.want)
			}
		})
	}
}

func TestLoadServiceAreas(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "areas.yaml")
	content := `
service_areas:
  - name: nicosia
    coordinates:
      - [[33.30, 35.10], [33.45, 35.10], [33.45, 35.22], [33.30, 35.22], [33.30, 35.10]]
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	areas, err := geo.LoadServiceAreas(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(areas) != 1 || areas[0].Name != "nicosia" {
		t.Fatalf("unexpected areas: %+v", areas)
	}
	if !geo.IsWithinServiceArea(geo.NewPoint(35.17, 33.36), areas) {
		t.Fatalf("expected point inside nicosia")
	}

	missing, err := geo.LoadServiceAreas(filepath.Join(dir, "nope.yaml"))
	if err != nil || missing != nil {
		t.Fatalf("missing file should mean global coverage, got %v %v", missing, err)
	}

	if _, err := geo.ParseServiceAreas([]byte("service_areas:\n  - name: bad\n    coordinates: [[[0, 0], [1, 1]]]\n")); err == nil {
		t.Fatalf("expected error for degenerate ring")
	}
}
