package geo

import (
	"emergencyHub/pkg/e"
	"emergencyHub/pkg/validator"
)

type coordinates struct {
	Lat float64 `json:"lat" validate:"finite,lat"`
	Lng float64 `json:"lng" validate:"finite,lng"`
}

// Validation is the outcome of a coordinate check. Violations lists every failed field.
type Validation struct {
	Valid      bool          `json:"valid"`
	Violations []e.Violation `json:"violations,omitempty"`
}

// Err returns nil for a valid result and an ErrInvalidCoordinates error otherwise.
func (v Validation) Err() error {
	if v.Valid {
		return nil
	}
	return e.Invalid("geo.ValidateCoordinates", e.ErrInvalidCoordinates, v.Violations)
}

// ValidateCoordinates accepts lat in [-90,90] and lng in [-180,180], both finite.
func ValidateCoordinates(lat, lng float64) Validation {
	err := validator.ValidateStruct(coordinates{Lat: lat, Lng: lng})
	if err == nil {
		return Validation{Valid: true}
	}
	violations := validator.Violations(err)
	if len(violations) == 0 {
		violations = []e.Violation{{Field: "coordinates", Rule: "valid"}}
	}
	return Validation{Violations: violations}
}

// CheckPoint is ValidateCoordinates(p.Lat, p.Lng).Err().
func CheckPoint(p Point) error {
	return ValidateCoordinates(p.Lat, p.Lng).Err()
}
