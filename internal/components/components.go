package components

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"emergencyHub/internal/api"
	"emergencyHub/internal/api/handlers/http/system"
	"emergencyHub/internal/config"
	"emergencyHub/internal/domain"
	"emergencyHub/internal/events"
	"emergencyHub/internal/geo"
	"emergencyHub/internal/incident"
	"emergencyHub/internal/metrics"
	"emergencyHub/internal/redis"
	"emergencyHub/internal/service"
	"emergencyHub/internal/storage/memory"
	"emergencyHub/internal/storage/postgres"
	"emergencyHub/internal/workers"
	"emergencyHub/pkg/logger"
)

type Components struct {
	logger         *slog.Logger
	HttpServer     *api.Server
	Postgres       *postgres.Postgres
	Redis          *redis.Redis
	Publisher      events.Publisher
	WebhookSender  *service.WebhookSender
	CacheRefresher *workers.CacheRefresher
}

type repositories struct {
	incidents service.IncidentRepository
	stats     service.StatsRepository
}

func InitComponents(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Components, error) {
	c := &Components{logger: logger}
	checks := make(map[string]system.Pinger)

	repos, err := c.initStorage(ctx, cfg, checks)
	if err != nil {
		return nil, err
	}

	areas, err := geo.LoadServiceAreas(cfg.ServiceAreasFile)
	if err != nil {
		c.ShutdownAll()
		return nil, fmt.Errorf("failed to load service areas: %w", err)
	}
	logger.Info("Service areas loaded", slog.Int("count", len(areas)))

	m := metrics.New()

	var (
		cache service.IncidentCacheService
		queue service.EventQueue
	)
	if cfg.Redis.Addr != "" {
		logger.Info("Initializing Redis")
		c.Redis, err = redis.NewRedis(ctx, cfg, logger)
		if err != nil {
			c.ShutdownAll()
			return nil, fmt.Errorf("failed to init redis: %w", err)
		}
		checks["redis"] = c.Redis

		incidentCache := redis.NewIncidentCache(c.Redis)
		cache = incidentCache
		c.CacheRefresher = workers.NewCacheRefresher(repos.incidents, incidentCache, m, logger,
			cfg.Incident.CacheRefresh, cfg.Incident.CacheTTL)

		if cfg.WebhookEnabled() {
			eventQueue := redis.NewEventQueue(c.Redis.Client, cfg.Redis.QueueKey)
			queue = eventQueue
			c.WebhookSender = service.NewWebhookSender(logger, cfg.Webhook, eventQueue, m)
		}
	}

	c.Publisher = events.NewPublisher(cfg.Events.NatsURL, logger)
	dispatcher := newDispatcher(c.Publisher, cache, queue, m, logger)

	engine := incident.NewEngine(
		incident.WithScoreConfig(scoreConfig(cfg.Scoring)),
		incident.WithMediaCap(cfg.Incident.MediaCap),
	)

	incidentSvc := service.NewIncidentService(repos.incidents, engine, dispatcher, m, logger, service.IncidentServiceConfig{
		MaxRetries:          cfg.Incident.MaxRetries,
		DefaultNearbyRadius: cfg.Incident.DefaultNearbyRadius,
		ServiceAreas:        areas,
	})
	proximitySvc := service.NewProximityService(repos.incidents, repos.stats, cache, queue, logger, service.ProximityConfig{
		AlertRadiusMeters: cfg.Incident.AlertRadiusMeters,
		CacheTTL:          cfg.Incident.CacheTTL,
		ServiceAreas:      areas,
	})
	statsSvc := service.NewStatsService(repos.stats)

	srv := service.NewService(incidentSvc, proximitySvc, statsSvc)

	c.HttpServer = api.NewServer(cfg, logger, srv, m, checks)
	logger.Info("Initialized server")

	return c, nil
}

func (c *Components) initStorage(ctx context.Context, cfg *config.Config, checks map[string]system.Pinger) (repositories, error) {
	if cfg.Storage.Driver != config.StoragePostgres {
		c.logger.Info("Using in-memory storage")
		store := memory.New()
		return repositories{incidents: store, stats: store}, nil
	}

	c.logger.Info("Initializing Postgres")
	pg, err := postgres.NewPostgres(ctx, cfg, c.logger)
	if err != nil {
		c.logger.Error("Failed to init postgres", slog.Any("error", err))
		return repositories{}, fmt.Errorf("failed to init postgres: %w", err)
	}
	c.Postgres = pg
	checks["postgres"] = pg

	return repositories{incidents: pg.Incidents(), stats: pg.Stats()}, nil
}

// scoreConfig overlays the configured decay curve on the default weights.
// Unset values keep their defaults.
func scoreConfig(sc config.ScoringConfig) incident.ScoreConfig {
	out := incident.DefaultScoreConfig()
	if sc.DecayGrace > 0 {
		out.DecayGrace = sc.DecayGrace
	}
	if sc.DecayInterval > 0 {
		out.DecayInterval = sc.DecayInterval
	}
	if sc.DecayStep > 0 {
		out.DecayStep = sc.DecayStep
	}
	if sc.DecayMaxPenalty > 0 {
		out.DecayMaxPenalty = sc.DecayMaxPenalty
	}
	return out
}

// newDispatcher wires committed incident events to the broker, the active-incident
// cache and, when webhooks are on, the delivery queue.
func newDispatcher(
	pub events.Publisher,
	cache service.IncidentCacheService,
	queue service.EventQueue,
	m *metrics.Metrics,
	logger *slog.Logger,
) *events.Dispatcher {
	d := events.NewDispatcher()

	d.SubscribeAll(func(ctx context.Context, ev domain.Event) error {
		err := pub.Publish(ctx, ev)
		m.ObservePublish(string(ev.Type), err)
		return err
	})

	if cache != nil {
		d.SubscribeAll(func(ctx context.Context, ev domain.Event) error {
			if ev.Type == domain.EventProximityAlert {
				return nil
			}
			if err := cache.Invalidate(ctx); err != nil {
				logger.Warn("cache invalidate failed", slog.String("event", string(ev.Type)), slog.Any("error", err))
				return err
			}
			return nil
		})
	}

	if queue != nil {
		enqueue := func(ctx context.Context, ev domain.Event) error {
			return queue.Enqueue(ctx, ev)
		}
		d.Subscribe(domain.EventReported, enqueue)
		d.Subscribe(domain.EventStatusChanged, enqueue)
	}

	return d
}

func SetupLogger(env string) *slog.Logger {
	switch env {
	case "local":
		return logger.SetupPrettySlog()
	case "dev":
		return slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level: slog.LevelDebug,
			}),
		)
	default:
		return slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level: slog.LevelInfo,
			}),
		)
	}
}

func (c *Components) ShutdownAll() {
	start := time.Now()
	c.logger.Info("Component shutdown started")

	if c.Publisher != nil {
		if err := c.Publisher.Close(); err != nil {
			c.logger.Error("Event publisher close failed", slog.Any("error", err))
		}
	}
	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			c.logger.Error("Redis close failed", slog.String("err", err.Error()))
		}
	}
	if c.Postgres != nil {
		c.Postgres.Close()
	}

	c.logger.Info("All components stopped",
		slog.Duration("latency", time.Since(start)))
}
