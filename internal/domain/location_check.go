package domain

import (
	"time"

	"github.com/google/uuid"

	"emergencyHub/internal/geo"
)

type LocationCheckRequest struct {
	UserID   string     `json:"user_id" validate:"required,max=128"`
	Location *geo.Point `json:"location" validate:"required"`
}

type NearbyRef struct {
	ID             uuid.UUID `json:"id"`
	Title          string    `json:"title"`
	Severity       Severity  `json:"severity"`
	DistanceMeters float64   `json:"distance_meters"`
	Distance       string    `json:"distance"`
}

type LocationCheckResponse struct {
	WithinServiceArea bool        `json:"within_service_area"`
	Incidents         []NearbyRef `json:"incidents"`
}

type LocationCheck struct {
	ID          uuid.UUID   `json:"id"`
	UserID      string      `json:"user_id"`
	Location    geo.Point   `json:"location"`
	IncidentIDs []uuid.UUID `json:"incident_ids"`
	CheckedAt   time.Time   `json:"checked_at"`
}
