package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"emergencyHub/internal/domain"
	"emergencyHub/internal/geo"
	"emergencyHub/internal/incident"
)

//go:generate mockgen -source=service.go -destination=mocks/mock.go
type IncidentRepository interface {
	Create(ctx context.Context, inc *incident.Incident) error
	Get(ctx context.Context, id uuid.UUID) (*incident.Incident, error)
	Save(ctx context.Context, inc *incident.Incident) error
	List(ctx context.Context, page, limit int, status domain.Status) ([]*incident.Incident, int64, error)
	ListActive(ctx context.Context) ([]*incident.Incident, error)
	FindNearby(ctx context.Context, center geo.Point, radiusMeters float64, limit int, activeOnly bool) ([]*incident.Incident, error)
}

type StatsRepository interface {
	SaveCheck(ctx context.Context, check *domain.LocationCheck) error
	CountReported(ctx context.Context, minutes int) (int64, error)
	CountByStatus(ctx context.Context) (map[domain.Status]int64, error)
	CountUniqueUsers(ctx context.Context, minutes int) (int64, error)
}

type IncidentCacheService interface {
	GetActive(ctx context.Context) ([]domain.CachedIncident, error)
	SetActive(ctx context.Context, incidents []domain.CachedIncident, ttl time.Duration) error
	Invalidate(ctx context.Context) error
}

// EventPublisher receives events after the mutation that produced them is committed.
type EventPublisher interface {
	Publish(ctx context.Context, ev domain.Event) error
}

type EventQueue interface {
	Enqueue(ctx context.Context, ev domain.Event) error
}

// Incident use-cases
type IncidentService interface {
	Report(ctx context.Context, actor domain.Actor, req domain.ReportIncidentRequest) (*incident.Incident, error)
	Get(ctx context.Context, id uuid.UUID) (*incident.Incident, error)
	List(ctx context.Context, req domain.ListIncidentsRequest) ([]*incident.Incident, int64, error)
	Nearby(ctx context.Context, req domain.NearbyRequest) ([]domain.NearbyIncident, error)
	UpdateDetails(ctx context.Context, id uuid.UUID, actor domain.Actor, req domain.UpdateDetailsRequest) (*incident.Incident, error)
	Transition(ctx context.Context, id uuid.UUID, actor domain.Actor, req domain.TransitionRequest) (*incident.Incident, error)
	AddUpvote(ctx context.Context, id uuid.UUID, vote incident.Vote) (*incident.Incident, error)
	RemoveUpvote(ctx context.Context, id uuid.UUID, actor domain.Actor) (*incident.Incident, error)
	Assign(ctx context.Context, id uuid.UUID, actor domain.Actor, req domain.AssignRequest) (*incident.Incident, error)
	RespondToAssignment(ctx context.Context, id uuid.UUID, actor domain.Actor, req domain.AssignmentResponseRequest) (*incident.Incident, error)
	AttachMedia(ctx context.Context, id uuid.UUID, actor domain.Actor, req domain.AttachMediaRequest) (*incident.Incident, error)
	RecomputeScore(ctx context.Context, id uuid.UUID, actor domain.Actor) (*incident.Incident, error)
}

// Public "am I near something" check
type ProximityService interface {
	CheckLocation(ctx context.Context, req domain.LocationCheckRequest) (domain.LocationCheckResponse, error)
}

type StatsService interface {
	GetStats(ctx context.Context, req domain.StatsRequest) (*domain.IncidentStats, error)
}

type Service struct {
	IncidentService  IncidentService
	ProximityService ProximityService
	StatsService     StatsService
}

func NewService(
	incidentService IncidentService,
	proximityService ProximityService,
	statsService StatsService,
) *Service {
	return &Service{
		IncidentService:  incidentService,
		ProximityService: proximityService,
		StatsService:     statsService,
	}
}
