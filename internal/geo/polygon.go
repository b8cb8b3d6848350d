package geo

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Polygon is a service area. Rings[0] is the outer boundary, further rings are holes.
// Every vertex is [lng, lat].
type Polygon struct {
	Name  string         `json:"name" yaml:"name"`
	Rings [][][2]float64 `json:"coordinates" yaml:"coordinates"`
}

// Contains runs a ray-casting test against the outer ring and excludes holes.
func (pg Polygon) Contains(p Point) bool {
	if len(pg.Rings) == 0 || !inRing(p, pg.Rings[0]) {
		return false
	}
	for _, hole := range pg.Rings[1:] {
		if inRing(p, hole) {
			return false
		}
	}
	return true
}

func inRing(p Point, ring [][2]float64) bool {
	n := len(ring)
	if n < 3 {
		return false
	}
	x, y := p.Lng, p.Lat
	inside := false
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		xi, yi := ring[i][0], ring[i][1]
		xj, yj := ring[j][0], ring[j][1]
		if (yi > y) != (yj > y) && x < (xj-xi)*(y-yi)/(yj-yi)+xi {
			inside = !inside
		}
	}
	return inside
}

// IsWithinServiceArea reports whether p falls inside any of the areas.
// No areas means global coverage. An invalid point is never inside.
func IsWithinServiceArea(p Point, areas []Polygon) bool {
	if len(areas) == 0 {
		return true
	}
	if !p.Valid() {
		return false
	}
	for _, area := range areas {
		if area.Contains(p) {
			return true
		}
	}
	return false
}

type serviceAreasFile struct {
	ServiceAreas []Polygon `yaml:"service_areas"`
}

// LoadServiceAreas reads polygons from a YAML file. An empty path or a missing
// file yields no areas, which callers treat as global coverage.
func LoadServiceAreas(path string) ([]Polygon, error) {
	if path == "" {
		return nil, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("geo.LoadServiceAreas: %w", err)
	}
	return ParseServiceAreas(b)
}

func ParseServiceAreas(b []byte) ([]Polygon, error) {
	var f serviceAreasFile
	if err := yaml.Unmarshal(b, &f); err != nil {
		return nil, fmt.Errorf("geo.ParseServiceAreas: %w", err)
	}
	for i, area := range f.ServiceAreas {
		if len(area.Rings) == 0 || len(area.Rings[0]) < 3 {
			return nil, fmt.Errorf("geo.ParseServiceAreas: area %d (%q) needs an outer ring of at least 3 vertices", i, area.Name)
		}
		for _, ring := range area.Rings {
			for _, v := range ring {
				if !ValidateCoordinates(v[1], v[0]).Valid {
					return nil, fmt.Errorf("geo.ParseServiceAreas: area %q has invalid vertex %v", area.Name, v)
				}
			}
		}
	}
	return f.ServiceAreas, nil
}
