package components

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"

	"emergencyHub/internal/config"
	"emergencyHub/internal/domain"
	"emergencyHub/internal/incident"
	"emergencyHub/internal/metrics"
	mock_service "emergencyHub/internal/service/mocks"
)

type recordingPublisher struct {
	events []domain.EventType
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, ev domain.Event) error {
	p.events = append(p.events, ev.Type)
	return p.err
}

func (p *recordingPublisher) Close() error { return nil }

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestDispatcher_FansOut(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	cache := mock_service.NewMockIncidentCacheService(ctrl)
	queue := mock_service.NewMockEventQueue(ctrl)
	pub := &recordingPublisher{}

	d := newDispatcher(pub, cache, queue, nil, discardLogger())

	reported := domain.Event{ID: uuid.New(), Type: domain.EventReported, OccurredAt: time.Now()}
	upvoted := domain.Event{ID: uuid.New(), Type: domain.EventUpvoted, OccurredAt: time.Now()}
	alert := domain.Event{ID: uuid.New(), Type: domain.EventProximityAlert, OccurredAt: time.Now()}

	cache.EXPECT().Invalidate(gomock.Any()).Return(nil).Times(2)
	queue.EXPECT().Enqueue(gomock.Any(), reported).Return(nil)

	for _, ev := range []domain.Event{reported, upvoted, alert} {
		if err := d.Publish(context.Background(), ev); err != nil {
			t.Fatalf("publish %s: %v", ev.Type, err)
		}
	}

	if len(pub.events) != 3 {
		t.Fatalf("expected every event on the broker, got %v", pub.events)
	}
}

func TestDispatcher_JoinsFailures(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	cache := mock_service.NewMockIncidentCacheService(ctrl)
	pub := &recordingPublisher{err: errors.New("nats: timeout")}

	d := newDispatcher(pub, cache, nil, metrics.New(), discardLogger())

	cacheErr := errors.New("redis: connection refused")
	cache.EXPECT().Invalidate(gomock.Any()).Return(cacheErr)

	err := d.Publish(context.Background(), domain.Event{ID: uuid.New(), Type: domain.EventStatusChanged})
	if !errors.Is(err, cacheErr) || !errors.Is(err, pub.err) {
		t.Fatalf("expected both failures joined, got %v", err)
	}
}

func TestInitComponents_Memory(t *testing.T) {
	t.Parallel()

	cfg := &config.Config{
		Env:     "test",
		Http:    config.HttpConfig{Port: ":0", ShutdownTimeout: time.Second},
		Storage: config.StorageConfig{Driver: config.StorageMemory},
	}

	c, err := InitComponents(context.Background(), cfg, discardLogger())
	if err != nil {
		t.Fatalf("init: %v", err)
	}
	defer c.ShutdownAll()

	if c.HttpServer == nil {
		t.Fatalf("expected http server")
	}
	if c.Postgres != nil || c.Redis != nil || c.WebhookSender != nil || c.CacheRefresher != nil {
		t.Fatalf("expected no external components without configuration: %+v", c)
	}
}

func TestScoreConfig_KeepsDefaultsForUnset(t *testing.T) {
	t.Parallel()

	got := scoreConfig(config.ScoringConfig{DecayStep: 3})
	def := incident.DefaultScoreConfig()

	if got.DecayStep != 3 {
		t.Fatalf("expected configured step 3, got %d", got.DecayStep)
	}
	if got.DecayInterval != def.DecayInterval || got.DecayGrace != def.DecayGrace || got.DecayMaxPenalty != def.DecayMaxPenalty {
		t.Fatalf("expected defaults for unset values, got %+v", got)
	}
}

func TestSetupLogger(t *testing.T) {
	t.Parallel()

	for _, env := range []string{"local", "dev", "prod", ""} {
		if SetupLogger(env) == nil {
			t.Fatalf("nil logger for env %q", env)
		}
	}
}
