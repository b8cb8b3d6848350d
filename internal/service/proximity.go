package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"emergencyHub/internal/domain"
	"emergencyHub/internal/geo"
	"emergencyHub/internal/incident"
	"emergencyHub/pkg/e"
	"emergencyHub/pkg/validator"
)

type ProximityConfig struct {
	AlertRadiusMeters float64
	CacheTTL          time.Duration
	ServiceAreas      []geo.Polygon
}

type proximityService struct {
	repo   IncidentRepository
	stats  StatsRepository
	cache  IncidentCacheService
	queue  EventQueue
	logger *slog.Logger
	cfg    ProximityConfig
}

// NewProximityService accepts a nil cache (every check reads the store) and a
// nil queue (no notifications are sent).
func NewProximityService(
	repo IncidentRepository,
	stats StatsRepository,
	cache IncidentCacheService,
	q EventQueue,
	logger *slog.Logger,
	cfg ProximityConfig,
) ProximityService {
	if cfg.AlertRadiusMeters <= 0 {
		cfg.AlertRadiusMeters = 1000
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 2 * time.Minute
	}
	return &proximityService{
		repo:   repo,
		stats:  stats,
		cache:  cache,
		queue:  q,
		logger: logger,
		cfg:    cfg,
	}
}

func (s *proximityService) CheckLocation(ctx context.Context, req domain.LocationCheckRequest) (domain.LocationCheckResponse, error) {
	const op = "service.Proximity.CheckLocation"

	if err := validator.Check(op, e.ErrInvalidInput, req); err != nil {
		return domain.LocationCheckResponse{}, err
	}
	loc := *req.Location
	if err := geo.CheckPoint(loc); err != nil {
		s.logger.Warn("invalid coordinates",
			slog.String("user_id", req.UserID),
			slog.Float64("lat", loc.Lat),
			slog.Float64("lng", loc.Lng),
		)
		return domain.LocationCheckResponse{}, err
	}

	s.logger.Info("location check START",
		slog.String("user_id", req.UserID),
		slog.Float64("lat", loc.Lat),
		slog.Float64("lng", loc.Lng),
	)

	active, err := s.activeIncidents(ctx)
	if err != nil {
		s.logger.Error("active incidents load failed", slog.String("op", op), slog.Any("error", err))
		return domain.LocationCheckResponse{}, err
	}

	nearby := geo.FindNearby(loc, active, s.cfg.AlertRadiusMeters)
	s.logger.Debug("proximity filter done",
		slog.Int("total", len(active)),
		slog.Int("nearby", len(nearby)),
	)

	refs := make([]domain.NearbyRef, 0, len(nearby))
	ids := make([]uuid.UUID, 0, len(nearby))
	for _, n := range nearby {
		refs = append(refs, domain.NearbyRef{
			ID:             n.Item.ID,
			Title:          n.Item.Title,
			Severity:       n.Item.Severity,
			DistanceMeters: n.DistanceMeters,
			Distance:       n.DistanceText,
		})
		ids = append(ids, n.Item.ID)
	}

	now := time.Now().UTC()
	check := &domain.LocationCheck{
		ID:          uuid.New(),
		UserID:      req.UserID,
		Location:    loc,
		IncidentIDs: ids,
		CheckedAt:   now,
	}
	if err := s.stats.SaveCheck(ctx, check); err != nil {
		s.logger.Error("save location check failed", slog.String("op", op), slog.Any("error", err))
	}

	if len(ids) > 0 {
		s.notify(ctx, req.UserID, loc, ids, now)
	} else {
		s.logger.Debug("no incidents nearby")
	}

	s.logger.Info("location check END", slog.Int("incidents_found", len(ids)))
	return domain.LocationCheckResponse{
		WithinServiceArea: geo.IsWithinServiceArea(loc, s.cfg.ServiceAreas),
		Incidents:         refs,
	}, nil
}

// activeIncidents prefers the cache and rebuilds it from the store on a miss.
func (s *proximityService) activeIncidents(ctx context.Context) ([]domain.CachedIncident, error) {
	if s.cache != nil {
		cached, err := s.cache.GetActive(ctx)
		if err != nil {
			s.logger.Warn("cache.GetActive failed, reading store", slog.Any("error", err))
		} else if cached != nil {
			return cached, nil
		}
	}

	incs, err := s.repo.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	active := ToCached(incs)

	if s.cache != nil {
		if err := s.cache.SetActive(ctx, active, s.cfg.CacheTTL); err != nil {
			s.logger.Warn("cache.SetActive failed", slog.Any("error", err))
		}
	}
	return active, nil
}

func (s *proximityService) notify(ctx context.Context, userID string, loc geo.Point, ids []uuid.UUID, at time.Time) {
	if s.queue == nil {
		return
	}
	ev := domain.NewEvent(domain.EventProximityAlert, ids[0], domain.Actor{ID: userID}, at)
	ev.Data = map[string]any{
		"user_id":      userID,
		"location":     loc,
		"incident_ids": ids,
	}
	if err := s.queue.Enqueue(ctx, ev); err != nil {
		s.logger.Error("enqueue proximity alert failed", slog.Any("error", err))
		return
	}
	s.logger.Info("proximity alert enqueued", slog.String("user_id", userID), slog.Int("incidents", len(ids)))
}

// ToCached projects incidents into the cache shape, skipping inactive ones.
func ToCached(incs []*incident.Incident) []domain.CachedIncident {
	out := make([]domain.CachedIncident, 0, len(incs))
	for _, inc := range incs {
		if !inc.IsActive() {
			continue
		}
		out = append(out, inc.Cached())
	}
	return out
}
