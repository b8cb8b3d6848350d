package domain

import (
	"time"

	"github.com/google/uuid"

	"emergencyHub/internal/geo"
)

type ReportIncidentRequest struct {
	Title        string     `json:"title" validate:"required,min=1,max=200"`
	Description  string     `json:"description" validate:"max=5000"`
	Category     Category   `json:"category" validate:"required,oneof=accident fire medical natural_disaster crime other"`
	Severity     Severity   `json:"severity" validate:"omitempty,oneof=low medium high critical"`
	Location     *geo.Point `json:"location" validate:"required"`
	Address      string     `json:"address" validate:"max=500"`
	IncidentTime *time.Time `json:"incident_time"`
}

type UpdateDetailsRequest struct {
	Title       *string   `json:"title" validate:"omitempty,min=1,max=200"`
	Description *string   `json:"description" validate:"omitempty,max=5000"`
	Category    *Category `json:"category" validate:"omitempty,oneof=accident fire medical natural_disaster crime other"`
	Severity    *Severity `json:"severity" validate:"omitempty,oneof=low medium high critical"`
}

// TransitionRequest leaves status membership to the state machine, which answers
// with ErrInvalidStatusValue.
type TransitionRequest struct {
	Status Status `json:"status" validate:"required"`
	Reason string `json:"reason" validate:"max=500"`
	Notes  string `json:"notes" validate:"max=2000"`
}

type UpvoteRequest struct {
	Location *geo.Point `json:"location"`
}

type AssignRequest struct {
	AssignedTo string             `json:"assigned_to" validate:"required,max=128"`
	Priority   AssignmentPriority `json:"priority" validate:"omitempty,oneof=low normal high urgent"`
	Notes      string             `json:"notes" validate:"max=2000"`
}

type AssignmentResponseRequest struct {
	Status AssignmentStatus `json:"status" validate:"required,oneof=accepted declined completed"`
}

type AttachMediaRequest struct {
	URL        string      `json:"url" validate:"required,url,max=2048"`
	Kind       MediaKind   `json:"kind" validate:"required,oneof=image video audio document"`
	MimeType   string      `json:"mime_type" validate:"required,max=255"`
	Size       int64       `json:"size" validate:"min=0"`
	Dimensions *Dimensions `json:"dimensions" validate:"omitempty"`
	Duration   *float64    `json:"duration" validate:"omitempty,min=0"`
}

type ListIncidentsRequest struct {
	Page   int    `query:"page" validate:"min=1"`
	Limit  int    `query:"limit" validate:"min=1,max=100"`
	Status Status `query:"status"`
}

type ListIncidentsResponse struct {
	Incidents []IncidentDocument `json:"incidents"`
	Page      int                `json:"page"`
	Limit     int                `json:"limit"`
	Total     int64              `json:"total"`
}

type NearbyRequest struct {
	Lat          float64 `query:"lat" json:"lat" validate:"finite,lat"`
	Lng          float64 `query:"lng" json:"lng" validate:"finite,lng"`
	RadiusMeters float64 `query:"radius" json:"radius" validate:"radius_m"`
	Limit        int     `query:"limit" json:"limit" validate:"min=1,max=100"`
	ActiveOnly   bool    `query:"active" json:"active"`
}

type NearbyIncident struct {
	Incident       IncidentDocument `json:"incident"`
	DistanceMeters float64          `json:"distance_meters"`
	Distance       string           `json:"distance"`
}

type ScoreResponse struct {
	ID                uuid.UUID `json:"id"`
	VerificationScore int       `json:"verification_score"`
	UpvoteCount       int       `json:"upvote_count"`
}
