// Package events fans committed incident events out to in-process subscribers
// and to the external event stream.
package events

import (
	"context"
	"errors"
	"sync"

	"emergencyHub/internal/domain"
)

type Handler func(context.Context, domain.Event) error

// Dispatcher invokes handlers synchronously, in subscription order.
// Every handler runs even if an earlier one fails; the failures are joined.
type Dispatcher struct {
	mu        sync.RWMutex
	listeners map[domain.EventType][]Handler
	all       []Handler
}

func NewDispatcher() *Dispatcher {
	return &Dispatcher{listeners: make(map[domain.EventType][]Handler)}
}

func (d *Dispatcher) Subscribe(typ domain.EventType, h Handler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.listeners[typ] = append(d.listeners[typ], h)
}

// SubscribeAll registers h for every event type.
func (d *Dispatcher) SubscribeAll(h Handler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.all = append(d.all, h)
}

func (d *Dispatcher) Publish(ctx context.Context, ev domain.Event) error {
	d.mu.RLock()
	handlers := make([]Handler, 0, len(d.all)+len(d.listeners[ev.Type]))
	handlers = append(handlers, d.all...)
	handlers = append(handlers, d.listeners[ev.Type]...)
	d.mu.RUnlock()

	var errs []error
	for _, h := range handlers {
		if err := h(ctx, ev); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
