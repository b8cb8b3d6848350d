package events_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"

	"emergencyHub/internal/domain"
	"emergencyHub/internal/events"
)

func TestDispatcher_Publish(t *testing.T) {
	t.Parallel()

	d := events.NewDispatcher()
	var got []string

	d.SubscribeAll(func(_ context.Context, ev domain.Event) error {
		got = append(got, "all:"+string(ev.Type))
		return errors.New("sink down")
	})
	d.Subscribe(domain.EventUpvoted, func(_ context.Context, ev domain.Event) error {
		got = append(got, "upvoted")
		return nil
	})

	ev := domain.NewEvent(domain.EventUpvoted, uuid.New(), domain.Actor{ID: "a", Kind: domain.ActorGuest}, time.Now())
	err := d.Publish(context.Background(), ev)
	if err == nil {
		t.Fatalf("expected joined handler error")
	}
	if len(got) != 2 || got[0] != "all:incident.upvoted" || got[1] != "upvoted" {
		t.Fatalf("handlers not all invoked in order: %v", got)
	}

	got = nil
	other := domain.NewEvent(domain.EventReported, uuid.New(), domain.Actor{ID: "a", Kind: domain.ActorGuest}, time.Now())
	_ = d.Publish(context.Background(), other)
	if len(got) != 1 {
		t.Fatalf("typed handler fired for another type: %v", got)
	}
}

func TestNewPublisher_NoURL(t *testing.T) {
	t.Parallel()

	p := events.NewPublisher("", slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err := p.Publish(context.Background(), domain.Event{}); err != nil {
		t.Fatalf("noop publisher returned %v", err)
	}
	if err := p.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
}
