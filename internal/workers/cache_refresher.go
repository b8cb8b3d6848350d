package workers

import (
	"context"
	"log/slog"
	"time"

	"emergencyHub/internal/domain"
	"emergencyHub/internal/incident"
	"emergencyHub/internal/metrics"
	"emergencyHub/internal/service"
)

type ActiveIncidentSource interface {
	ListActive(ctx context.Context) ([]*incident.Incident, error)
}

type IncidentCacheService interface {
	SetActive(ctx context.Context, incidents []domain.CachedIncident, ttl time.Duration) error
}

// CacheRefresher keeps the active-incident snapshot warm so location checks
// rarely fall through to the store.
type CacheRefresher struct {
	source   ActiveIncidentSource
	cache    IncidentCacheService
	metrics  *metrics.Metrics
	logger   *slog.Logger
	interval time.Duration
	ttl      time.Duration
}

func NewCacheRefresher(
	source ActiveIncidentSource,
	cache IncidentCacheService,
	m *metrics.Metrics,
	logger *slog.Logger,
	interval, ttl time.Duration,
) *CacheRefresher {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	if ttl < interval {
		ttl = 2 * interval
	}
	return &CacheRefresher{
		source:   source,
		cache:    cache,
		metrics:  m,
		logger:   logger,
		interval: interval,
		ttl:      ttl,
	}
}

// Run refreshes once immediately and then on every tick until ctx is done.
func (w *CacheRefresher) Run(ctx context.Context) {
	w.logger.Info("cacheRefresher STARTED", slog.Duration("interval", w.interval))

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.refresh(ctx)
	for {
		select {
		case <-ctx.Done():
			w.logger.Info("cacheRefresher STOPPED", slog.String("reason", ctx.Err().Error()))
			return
		case <-ticker.C:
			w.refresh(ctx)
		}
	}
}

func (w *CacheRefresher) refresh(ctx context.Context) {
	const op = "workers.CacheRefresher.refresh"

	incs, err := w.source.ListActive(ctx)
	if err != nil {
		w.logger.Error("ListActive failed", slog.String("op", op), slog.Any("error", err))
		return
	}

	active := service.ToCached(incs)
	if err := w.cache.SetActive(ctx, active, w.ttl); err != nil {
		w.logger.Error("SetActive failed", slog.String("op", op), slog.Any("error", err))
		return
	}

	if w.metrics != nil {
		w.metrics.ActiveIncidents.Set(float64(len(active)))
	}
	w.logger.Debug("active incidents cached", slog.Int("count", len(active)))
}
