// Package geo holds the coordinate math behind incident proximity and service-area matching.
// Coordinates always travel in GeoJSON order: [longitude, latitude].
package geo

import (
	"encoding/json"
	"fmt"
)

const geoJSONPoint = "Point"

// Point is a WGS84 position. Lng comes first to mirror the wire order.
type Point struct {
	Lng float64
	Lat float64
}

func NewPoint(lat, lng float64) Point {
	return Point{Lng: lng, Lat: lat}
}

// Valid reports whether both coordinates are finite and within range.
func (p Point) Valid() bool {
	return ValidateCoordinates(p.Lat, p.Lng).Valid
}

// Coordinates returns the GeoJSON coordinate pair.
func (p Point) Coordinates() [2]float64 {
	return [2]float64{p.Lng, p.Lat}
}

func (p Point) String() string {
	return fmt.Sprintf("[%g,%g]", p.Lng, p.Lat)
}

type geoJSON struct {
	Type        string    `json:"type"`
	Coordinates []float64 `json:"coordinates"`
}

func (p Point) MarshalJSON() ([]byte, error) {
	return json.Marshal(geoJSON{Type: geoJSONPoint, Coordinates: []float64{p.Lng, p.Lat}})
}

func (p *Point) UnmarshalJSON(b []byte) error {
	var g geoJSON
	if err := json.Unmarshal(b, &g); err != nil {
		return err
	}
	if g.Type != geoJSONPoint {
		return fmt.Errorf("geo: unsupported geometry type %q", g.Type)
	}
	if len(g.Coordinates) != 2 {
		return fmt.Errorf("geo: point needs [lng, lat], got %d values", len(g.Coordinates))
	}
	p.Lng, p.Lat = g.Coordinates[0], g.Coordinates[1]
	return nil
}
