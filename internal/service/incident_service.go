package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"emergencyHub/internal/domain"
	"emergencyHub/internal/geo"
	"emergencyHub/internal/incident"
	"emergencyHub/internal/metrics"
	"emergencyHub/pkg/e"
	"emergencyHub/pkg/validator"
)

const (
	defaultPage  = 1
	defaultLimit = 20
	maxLimit     = 100
)

type IncidentServiceConfig struct {
	MaxRetries          int
	DefaultNearbyRadius float64
	ServiceAreas        []geo.Polygon
}

type incidentService struct {
	repo    IncidentRepository
	engine  *incident.Engine
	events  EventPublisher
	metrics *metrics.Metrics
	logger  *slog.Logger
	tracer  trace.Tracer
	locks   *keyedMutex
	cfg     IncidentServiceConfig
}

func NewIncidentService(
	repo IncidentRepository,
	engine *incident.Engine,
	events EventPublisher,
	m *metrics.Metrics,
	logger *slog.Logger,
	cfg IncidentServiceConfig,
) IncidentService {
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 3
	}
	if cfg.DefaultNearbyRadius <= 0 {
		cfg.DefaultNearbyRadius = 5000
	}
	return &incidentService{
		repo:    repo,
		engine:  engine,
		events:  events,
		metrics: m,
		logger:  logger,
		tracer:  otel.Tracer("emergencyHub/service"),
		locks:   newKeyedMutex(),
		cfg:     cfg,
	}
}

func (s *incidentService) Report(ctx context.Context, actor domain.Actor, req domain.ReportIncidentRequest) (*incident.Incident, error) {
	const op = "service.Incident.Report"

	ctx, span := s.tracer.Start(ctx, "incident.report")
	defer span.End()
	started := time.Now()

	inc, err := s.report(ctx, actor, req)
	s.metrics.ObserveOperation("report", started, err)
	if err != nil {
		recordError(span, err)
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	span.SetAttributes(attribute.String("incident.id", inc.ID().String()))

	s.logger.Info("incident reported",
		slog.String("op", op),
		slog.String("id", inc.ID().String()),
		slog.String("category", string(inc.Category())),
		slog.Int("score", inc.VerificationScore()),
	)
	s.publish(ctx, s.event(domain.EventReported, inc, actor, nil))
	return inc, nil
}

func (s *incidentService) report(ctx context.Context, actor domain.Actor, req domain.ReportIncidentRequest) (*incident.Incident, error) {
	const op = "service.Incident.Report"

	if err := validator.Check(op, e.ErrInvalidInput, req); err != nil {
		return nil, err
	}
	loc := *req.Location
	if err := geo.CheckPoint(loc); err != nil {
		return nil, err
	}
	if !geo.IsWithinServiceArea(loc, s.cfg.ServiceAreas) {
		return nil, e.Field(op, e.ErrOutsideServiceArea, "location", loc.String())
	}

	inc, err := s.engine.Report(incident.NewIncident{
		Title:        req.Title,
		Description:  req.Description,
		Category:     req.Category,
		Severity:     req.Severity,
		Location:     loc,
		Address:      req.Address,
		IncidentTime: req.IncidentTime,
		ReportedBy:   actor,
	})
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, inc); err != nil {
		return nil, err
	}
	return inc, nil
}

func (s *incidentService) Get(ctx context.Context, id uuid.UUID) (*incident.Incident, error) {
	ctx, span := s.tracer.Start(ctx, "incident.get", trace.WithAttributes(attribute.String("incident.id", id.String())))
	defer span.End()

	inc, err := s.repo.Get(ctx, id)
	if err != nil {
		recordError(span, err)
		return nil, err
	}
	return inc, nil
}

func (s *incidentService) List(ctx context.Context, req domain.ListIncidentsRequest) ([]*incident.Incident, int64, error) {
	const op = "service.Incident.List"

	if req.Page <= 0 {
		req.Page = defaultPage
	}
	if req.Limit <= 0 {
		req.Limit = defaultLimit
	}
	if req.Limit > maxLimit {
		req.Limit = maxLimit
	}
	if req.Status != "" && !req.Status.Valid() {
		return nil, 0, e.Field(op, e.ErrInvalidStatusValue, "status", req.Status)
	}

	items, total, err := s.repo.List(ctx, req.Page, req.Limit, req.Status)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// Nearby asks the store for candidates and re-ranks them by great-circle distance,
// so a store that over-fetches or orders loosely still yields a sorted result.
func (s *incidentService) Nearby(ctx context.Context, req domain.NearbyRequest) ([]domain.NearbyIncident, error) {
	const op = "service.Incident.Nearby"

	ctx, span := s.tracer.Start(ctx, "incident.nearby")
	defer span.End()

	if req.RadiusMeters == 0 {
		req.RadiusMeters = s.cfg.DefaultNearbyRadius
	}
	if req.Limit == 0 {
		req.Limit = defaultLimit
	}
	if err := geo.ValidateCoordinates(req.Lat, req.Lng).Err(); err != nil {
		return nil, err
	}
	if err := validator.Check(op, e.ErrInvalidInput, req); err != nil {
		return nil, err
	}

	center := geo.NewPoint(req.Lat, req.Lng)
	candidates, err := s.repo.FindNearby(ctx, center, req.RadiusMeters, req.Limit, req.ActiveOnly)
	if err != nil {
		recordError(span, err)
		return nil, err
	}

	ranked := geo.FindNearby(center, candidates, req.RadiusMeters)
	out := make([]domain.NearbyIncident, 0, len(ranked))
	for _, n := range ranked {
		out = append(out, domain.NearbyIncident{
			Incident:       n.Item.Document(),
			DistanceMeters: n.DistanceMeters,
			Distance:       n.DistanceText,
		})
	}
	span.SetAttributes(attribute.Int("nearby.count", len(out)))
	return out, nil
}

func (s *incidentService) UpdateDetails(ctx context.Context, id uuid.UUID, actor domain.Actor, req domain.UpdateDetailsRequest) (*incident.Incident, error) {
	const op = "service.Incident.UpdateDetails"

	if err := validator.Check(op, e.ErrInvalidInput, req); err != nil {
		return nil, err
	}
	return s.mutate(ctx, id, "update_details", func(inc *incident.Incident) ([]domain.Event, error) {
		err := s.engine.UpdateDetails(inc, incident.Details{
			Title:       req.Title,
			Description: req.Description,
			Category:    req.Category,
			Severity:    req.Severity,
		})
		if err != nil {
			return nil, err
		}
		return []domain.Event{s.event(domain.EventDetailsUpdated, inc, actor, nil)}, nil
	})
}

func (s *incidentService) Transition(ctx context.Context, id uuid.UUID, actor domain.Actor, req domain.TransitionRequest) (*incident.Incident, error) {
	return s.mutate(ctx, id, "transition", func(inc *incident.Incident) ([]domain.Event, error) {
		change, err := s.engine.Transition(inc, req.Status, actor, req.Reason, req.Notes)
		if err != nil {
			return nil, err
		}
		return []domain.Event{s.statusEvent(inc, actor, change)}, nil
	})
}

func (s *incidentService) AddUpvote(ctx context.Context, id uuid.UUID, vote incident.Vote) (*incident.Incident, error) {
	actor := domain.Actor{ID: vote.VoterID, Kind: vote.VoterKind}
	return s.mutate(ctx, id, "add_upvote", func(inc *incident.Incident) ([]domain.Event, error) {
		if _, err := s.engine.AddUpvote(inc, vote); err != nil {
			return nil, err
		}
		return []domain.Event{s.event(domain.EventUpvoted, inc, actor, map[string]any{
			"upvote_count": inc.UpvoteCount(),
		})}, nil
	})
}

func (s *incidentService) RemoveUpvote(ctx context.Context, id uuid.UUID, actor domain.Actor) (*incident.Incident, error) {
	return s.mutate(ctx, id, "remove_upvote", func(inc *incident.Incident) ([]domain.Event, error) {
		if _, err := s.engine.RemoveUpvote(inc, actor.ID, actor.Kind); err != nil {
			return nil, err
		}
		return []domain.Event{s.event(domain.EventUpvoteRemoved, inc, actor, map[string]any{
			"upvote_count": inc.UpvoteCount(),
		})}, nil
	})
}

func (s *incidentService) Assign(ctx context.Context, id uuid.UUID, actor domain.Actor, req domain.AssignRequest) (*incident.Incident, error) {
	const op = "service.Incident.Assign"

	if err := validator.Check(op, e.ErrInvalidInput, req); err != nil {
		return nil, err
	}
	return s.mutate(ctx, id, "assign", func(inc *incident.Incident) ([]domain.Event, error) {
		a, err := s.engine.Assign(inc, incident.AssignInput{
			AssignedTo: req.AssignedTo,
			AssignedBy: actor,
			Priority:   req.Priority,
			Notes:      req.Notes,
		})
		if err != nil {
			return nil, err
		}
		history := inc.History()
		return []domain.Event{
			s.event(domain.EventAssigned, inc, actor, map[string]any{
				"assignment_id": a.ID.String(),
				"assigned_to":   a.AssignedTo,
				"priority":      string(a.Priority),
			}),
			s.statusEvent(inc, actor, history[len(history)-1]),
		}, nil
	})
}

func (s *incidentService) RespondToAssignment(ctx context.Context, id uuid.UUID, actor domain.Actor, req domain.AssignmentResponseRequest) (*incident.Incident, error) {
	const op = "service.Incident.RespondToAssignment"

	if err := validator.Check(op, e.ErrInvalidInput, req); err != nil {
		return nil, err
	}
	return s.mutate(ctx, id, "respond_assignment", func(inc *incident.Incident) ([]domain.Event, error) {
		a, err := s.engine.RespondToAssignment(inc, actor, req.Status)
		if err != nil {
			return nil, err
		}
		return []domain.Event{s.event(domain.EventAssignmentResponded, inc, actor, map[string]any{
			"assignment_id": a.ID.String(),
			"response":      string(a.Status),
		})}, nil
	})
}

func (s *incidentService) AttachMedia(ctx context.Context, id uuid.UUID, actor domain.Actor, req domain.AttachMediaRequest) (*incident.Incident, error) {
	const op = "service.Incident.AttachMedia"

	if err := validator.Check(op, e.ErrInvalidInput, req); err != nil {
		return nil, err
	}
	return s.mutate(ctx, id, "attach_media", func(inc *incident.Incident) ([]domain.Event, error) {
		m, err := s.engine.AttachMedia(inc, incident.MediaInput{
			URL:        req.URL,
			Kind:       req.Kind,
			MimeType:   req.MimeType,
			Size:       req.Size,
			Dimensions: req.Dimensions,
			Duration:   req.Duration,
			UploadedBy: actor,
		})
		if err != nil {
			return nil, err
		}
		return []domain.Event{s.event(domain.EventMediaAttached, inc, actor, map[string]any{
			"media_id":    m.ID.String(),
			"kind":        string(m.Kind),
			"media_count": inc.MediaCount(),
		})}, nil
	})
}

func (s *incidentService) RecomputeScore(ctx context.Context, id uuid.UUID, actor domain.Actor) (*incident.Incident, error) {
	return s.mutate(ctx, id, "recompute_score", func(inc *incident.Incident) ([]domain.Event, error) {
		prev := inc.VerificationScore()
		score := s.engine.Recompute(inc)
		return []domain.Event{s.event(domain.EventScoreRecomputed, inc, actor, map[string]any{
			"previous": prev,
			"current":  score,
		})}, nil
	})
}

type mutation func(inc *incident.Incident) ([]domain.Event, error)

// mutate runs load -> apply -> conditional save while holding the per-incident lock.
// A lost version race re-runs the whole sequence on a fresh copy, up to MaxRetries
// attempts. Events go out only after the save succeeded.
func (s *incidentService) mutate(ctx context.Context, id uuid.UUID, operation string, fn mutation) (*incident.Incident, error) {
	op := "service.Incident." + operation

	ctx, span := s.tracer.Start(ctx, "incident."+operation, trace.WithAttributes(
		attribute.String("incident.id", id.String()),
	))
	defer span.End()
	started := time.Now()

	unlock := s.locks.Lock(id)
	defer unlock()

	var (
		inc    *incident.Incident
		events []domain.Event
		err    error
	)
	for attempt := 1; attempt <= s.cfg.MaxRetries; attempt++ {
		inc, events, err = s.apply(ctx, id, fn)
		if !errors.Is(err, e.ErrConcurrentModification) {
			break
		}
		s.metrics.ObserveRetry(operation)
		s.logger.Warn("version conflict, retrying",
			slog.String("op", op),
			slog.String("id", id.String()),
			slog.Int("attempt", attempt),
		)
	}
	s.metrics.ObserveOperation(operation, started, err)
	if err != nil {
		recordError(span, err)
		return nil, err
	}

	span.SetAttributes(
		attribute.String("incident.status", string(inc.Status())),
		attribute.Int("incident.score", inc.VerificationScore()),
	)
	s.logger.Debug("incident updated",
		slog.String("op", op),
		slog.String("id", id.String()),
		slog.Int64("version", inc.Version()),
	)
	s.publish(ctx, events...)
	return inc, nil
}

func (s *incidentService) apply(ctx context.Context, id uuid.UUID, fn mutation) (*incident.Incident, []domain.Event, error) {
	inc, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	events, err := fn(inc)
	if err != nil {
		return nil, nil, err
	}
	if err := s.repo.Save(ctx, inc); err != nil {
		return nil, nil, err
	}
	return inc, events, nil
}

// publish never fails the operation: the mutation is already committed.
func (s *incidentService) publish(ctx context.Context, events ...domain.Event) {
	if s.events == nil {
		return
	}
	for _, ev := range events {
		if err := s.events.Publish(ctx, ev); err != nil {
			s.logger.Warn("event publish failed",
				slog.String("type", string(ev.Type)),
				slog.String("incident_id", ev.IncidentID.String()),
				slog.Any("error", err),
			)
		}
	}
}

func (s *incidentService) event(typ domain.EventType, inc *incident.Incident, actor domain.Actor, data map[string]any) domain.Event {
	ev := domain.NewEvent(typ, inc.ID(), actor, time.Now().UTC())
	ev.Status = inc.Status()
	ev.Score = inc.VerificationScore()
	ev.Data = data
	return ev
}

func (s *incidentService) statusEvent(inc *incident.Incident, actor domain.Actor, change domain.StatusChange) domain.Event {
	return s.event(domain.EventStatusChanged, inc, actor, map[string]any{
		"seq":    change.Seq,
		"from":   string(change.From),
		"to":     string(change.Status),
		"reason": change.Reason,
	})
}

func recordError(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
