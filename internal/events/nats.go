package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"

	"emergencyHub/internal/domain"
)

const streamName = "EMERGENCY_EVENTS"

// Publisher pushes events to the external stream.
type Publisher interface {
	Publish(ctx context.Context, ev domain.Event) error
	Close() error
}

type noop struct{}

func (noop) Publish(context.Context, domain.Event) error { return nil }
func (noop) Close() error { return nil }

type natsPub struct {
	nc *nats.Conn
	js nats.JetStreamContext
}

// NewPublisher connects to NATS JetStream at url. An empty url or any connection
// failure yields a publisher that drops events, so the service still runs without a broker.
func NewPublisher(url string, logger *slog.Logger) Publisher {
	if url == "" {
		logger.Info("NATS url not set, events stay in-process")
		return noop{}
	}

	nc, err := nats.Connect(url, nats.Name("emergencyHub"), nats.Timeout(5*time.Second))
	if err != nil {
		logger.Warn("NATS connect failed, using noop publisher", slog.String("error", err.Error()))
		return noop{}
	}
	js, err := nc.JetStream()
	if err != nil {
		logger.Warn("NATS JetStream context failed, using noop publisher", slog.String("error", err.Error()))
		nc.Close()
		return noop{}
	}
	if err := initStream(js); err != nil {
		logger.Warn("NATS stream init failed, using noop publisher", slog.String("error", err.Error()))
		nc.Close()
		return noop{}
	}

	logger.Info("NATS publisher ready", slog.String("stream", streamName))
	return &natsPub{nc: nc, js: js}
}

func initStream(js nats.JetStreamContext) error {
	cfg := &nats.StreamConfig{
		Name:       streamName,
		Subjects:   []string{"incident.*", "location.*"},
		Retention:  nats.LimitsPolicy,
		MaxAge:     7 * 24 * time.Hour,
		Discard:    nats.DiscardOld,
		Storage:    nats.FileStorage,
		Duplicates: 2 * time.Minute,
	}
	if _, err := js.StreamInfo(streamName); err == nil {
		_, err = js.UpdateStream(cfg)
		return err
	}
	if _, err := js.AddStream(cfg); err != nil {
		return fmt.Errorf("create %s stream: %w", streamName, err)
	}
	return nil
}

// Publish uses the event id as the JetStream message id, so a retried publish
// inside the duplicates window is stored once.
func (p *natsPub) Publish(ctx context.Context, ev domain.Event) error {
	b, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("events.Publish: %w", err)
	}
	if _, err := p.js.Publish(string(ev.Type), b, nats.Context(ctx), nats.MsgId(ev.ID.String())); err != nil {
		return fmt.Errorf("events.Publish %s: %w", ev.Type, err)
	}
	return nil
}

func (p *natsPub) Close() error {
	if p.nc != nil {
		return p.nc.Drain()
	}
	return nil
}
