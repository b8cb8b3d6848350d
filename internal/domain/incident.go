package domain

import (
	"time"

	"github.com/google/uuid"

	"emergencyHub/internal/geo"
)

type Status string

const (
	StatusReported   Status = "reported"
	StatusVerified   Status = "verified"
	StatusAssigned   Status = "assigned"
	StatusInProgress Status = "in_progress"
	StatusResolved   Status = "resolved"
	StatusClosed     Status = "closed"
)

var Statuses = []Status{
	StatusReported, StatusVerified, StatusAssigned, StatusInProgress, StatusResolved, StatusClosed,
}

func (s Status) Valid() bool {
	for _, v := range Statuses {
		if s == v {
			return true
		}
	}
	return false
}

// Active reports whether an incident in this status still needs attention.
func (s Status) Active() bool {
	return s != StatusResolved && s != StatusClosed
}

type Category string

const (
	CategoryAccident        Category = "accident"
	CategoryFire            Category = "fire"
	CategoryMedical         Category = "medical"
	CategoryNaturalDisaster Category = "natural_disaster"
	CategoryCrime           Category = "crime"
	CategoryOther           Category = "other"
)

func (c Category) Valid() bool {
	switch c {
	case CategoryAccident, CategoryFire, CategoryMedical, CategoryNaturalDisaster, CategoryCrime, CategoryOther:
		return true
	}
	return false
}

type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"

	DefaultSeverity = SeverityMedium
)

func (s Severity) Valid() bool {
	switch s {
	case SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical:
		return true
	}
	return false
}

type ActorKind string

const (
	ActorRegistered ActorKind = "registered"
	ActorGuest      ActorKind = "guest"
)

func (k ActorKind) Valid() bool {
	return k == ActorRegistered || k == ActorGuest
}

// Actor is whoever performs an operation, as supplied by the identity provider.
type Actor struct {
	ID   string    `json:"id"`
	Kind ActorKind `json:"kind"`
	Role string    `json:"role,omitempty"`
}

// StatusChange is one entry of the append-only status log. Seq starts at 1.
type StatusChange struct {
	Seq       int       `json:"seq"`
	Status    Status    `json:"status"`
	From      Status    `json:"from,omitempty"`
	ChangedBy Actor     `json:"changed_by"`
	Reason    string    `json:"reason,omitempty"`
	Notes     string    `json:"notes,omitempty"`
	At        time.Time `json:"at"`
}

type Upvote struct {
	VoterID   string     `json:"voter_id"`
	VoterKind ActorKind  `json:"voter_kind"`
	At        time.Time  `json:"at"`
	IPAddress string     `json:"ip_address,omitempty"`
	UserAgent string     `json:"user_agent,omitempty"`
	Location  *geo.Point `json:"location,omitempty"`
}

type MediaKind string

const (
	MediaImage    MediaKind = "image"
	MediaVideo    MediaKind = "video"
	MediaAudio    MediaKind = "audio"
	MediaDocument MediaKind = "document"
)

func (k MediaKind) Valid() bool {
	switch k {
	case MediaImage, MediaVideo, MediaAudio, MediaDocument:
		return true
	}
	return false
}

type Dimensions struct {
	Width  int `json:"width" validate:"min=0"`
	Height int `json:"height" validate:"min=0"`
}

// Media describes an artifact stored by the external media host.
type Media struct {
	ID         uuid.UUID   `json:"id"`
	URL        string      `json:"url"`
	Kind       MediaKind   `json:"kind"`
	MimeType   string      `json:"mime_type"`
	Size       int64       `json:"size"`
	Dimensions *Dimensions `json:"dimensions,omitempty"`
	Duration   *float64    `json:"duration,omitempty"` // seconds
	UploadedBy Actor       `json:"uploaded_by"`
	UploadedAt time.Time   `json:"uploaded_at"`
}

type AssignmentPriority string

const (
	PriorityLow    AssignmentPriority = "low"
	PriorityNormal AssignmentPriority = "normal"
	PriorityHigh   AssignmentPriority = "high"
	PriorityUrgent AssignmentPriority = "urgent"
)

func (p AssignmentPriority) Valid() bool {
	switch p {
	case PriorityLow, PriorityNormal, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

type AssignmentStatus string

const (
	AssignmentPending   AssignmentStatus = "pending"
	AssignmentAccepted  AssignmentStatus = "accepted"
	AssignmentDeclined  AssignmentStatus = "declined"
	AssignmentCompleted AssignmentStatus = "completed"
)

// ValidResponse reports whether an assignee may answer with this status.
func (s AssignmentStatus) ValidResponse() bool {
	return s == AssignmentAccepted || s == AssignmentDeclined || s == AssignmentCompleted
}

type Assignment struct {
	ID          uuid.UUID          `json:"id"`
	AssignedTo  string             `json:"assigned_to"`
	AssignedBy  Actor              `json:"assigned_by"`
	Priority    AssignmentPriority `json:"priority"`
	Notes       string             `json:"notes,omitempty"`
	Status      AssignmentStatus   `json:"status"`
	AssignedAt  time.Time          `json:"assigned_at"`
	RespondedAt *time.Time         `json:"responded_at,omitempty"`
}

// IncidentDocument is the persisted and wire shape of an incident aggregate.
// UpvoteCount is written for indexing and ignored when the aggregate is restored.
type IncidentDocument struct {
	ID                uuid.UUID      `json:"id"`
	Title             string         `json:"title"`
	Description       string         `json:"description"`
	Category          Category       `json:"category"`
	Severity          Severity       `json:"severity"`
	Location          geo.Point      `json:"location"`
	Address           string         `json:"address,omitempty"`
	Status            Status         `json:"status"`
	StatusHistory     []StatusChange `json:"status_history"`
	Upvotes           []Upvote       `json:"upvotes"`
	UpvoteCount       int            `json:"upvote_count"`
	VerificationScore int            `json:"verification_score"`
	Media             []Media        `json:"media"`
	Assignments       []Assignment   `json:"assignments"`
	CurrentAssignment string         `json:"current_assignment,omitempty"`
	ReportedBy        Actor          `json:"reported_by"`
	ReportedAt        time.Time      `json:"reported_at"`
	IncidentTime      time.Time      `json:"incident_time"`
	VerifiedAt        *time.Time     `json:"verified_at,omitempty"`
	AssignedAt        *time.Time     `json:"assigned_at,omitempty"`
	ResolvedAt        *time.Time     `json:"resolved_at,omitempty"`
	ResolutionTime    *time.Duration `json:"resolution_time_ns,omitempty"`
	UpdatedAt         time.Time      `json:"updated_at"`
	Version           int64          `json:"version"`
}

// CachedIncident is the slice of an active incident kept in the proximity cache.
type CachedIncident struct {
	ID       uuid.UUID `json:"id"`
	Title    string    `json:"title"`
	Category Category  `json:"category"`
	Severity Severity  `json:"severity"`
	Status   Status    `json:"status"`
	Location geo.Point `json:"location"`
	Score    int       `json:"verification_score"`
}

func (c CachedIncident) Position() (geo.Point, bool) {
	return c.Location, c.Location.Valid()
}
