package domain

import (
	"time"

	"github.com/google/uuid"
)

type EventType string

const (
	EventReported            EventType = "incident.reported"
	EventStatusChanged       EventType = "incident.status_changed"
	EventUpvoted             EventType = "incident.upvoted"
	EventUpvoteRemoved       EventType = "incident.upvote_removed"
	EventAssigned            EventType = "incident.assigned"
	EventAssignmentResponded EventType = "incident.assignment_responded"
	EventMediaAttached       EventType = "incident.media_attached"
	EventDetailsUpdated      EventType = "incident.details_updated"
	EventScoreRecomputed     EventType = "incident.score_recomputed"
	EventProximityAlert      EventType = "location.proximity_alert"
)

// Event is published after a mutation is committed and is also the webhook payload.
type Event struct {
	ID         uuid.UUID      `json:"id"`
	Type       EventType      `json:"type"`
	IncidentID uuid.UUID      `json:"incident_id"`
	Actor      Actor          `json:"actor"`
	Status     Status         `json:"status,omitempty"`
	Score      int            `json:"verification_score"`
	Data       map[string]any `json:"data,omitempty"`
	OccurredAt time.Time      `json:"occurred_at"`
}

func NewEvent(typ EventType, incidentID uuid.UUID, actor Actor, at time.Time) Event {
	return Event{
		ID:         uuid.New(),
		Type:       typ,
		IncidentID: incidentID,
		Actor:      actor,
		OccurredAt: at,
	}
}
