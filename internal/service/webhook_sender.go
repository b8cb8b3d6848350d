package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"emergencyHub/internal/config"
	"emergencyHub/internal/domain"
	"emergencyHub/internal/metrics"
	"emergencyHub/pkg/e"
)

const webhookMaxRetries = 3

type EventSource interface {
	BRPop(ctx context.Context, timeout time.Duration) (domain.Event, error)
}

type WebhookSender struct {
	logger  *slog.Logger
	cfg     config.WebhookConfig
	queue   EventSource
	http    *http.Client
	metrics *metrics.Metrics
	backoff time.Duration
	pop     time.Duration
}

func NewWebhookSender(logger *slog.Logger, cfg config.WebhookConfig, q EventSource, m *metrics.Metrics) *WebhookSender {
	return &WebhookSender{
		logger:  logger,
		cfg:     cfg,
		queue:   q,
		http:    &http.Client{Timeout: 5 * time.Second},
		metrics: m,
		backoff: time.Second,
		pop:     5 * time.Second,
	}
}

func (s *WebhookSender) Run(ctx context.Context) {
	s.logger.Info("webhookSender STARTED", slog.String("url", s.cfg.URL))

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("webhookSender STOPPED", slog.String("reason", ctx.Err().Error()))
			return
		default:
		}

		ev, err := s.queue.BRPop(ctx, s.pop)
		if err != nil {
			if errors.Is(err, e.ErrEventQueueEmpty) {
				continue
			}
			if ctx.Err() != nil {
				continue
			}
			s.logger.Error("BRPop failed", slog.Any("error", err))
			sleep(ctx, 500*time.Millisecond)
			continue
		}

		s.logger.Info("sending webhook",
			slog.String("event_id", ev.ID.String()),
			slog.String("type", string(ev.Type)),
		)
		s.sendWithRetry(ctx, ev)
	}
}

// sendWithRetry gives up after webhookMaxRetries attempts; the event is dropped.
func (s *WebhookSender) sendWithRetry(ctx context.Context, ev domain.Event) bool {
	body, err := json.Marshal(ev)
	if err != nil {
		s.logger.Error("marshal webhook payload failed", slog.String("error", err.Error()))
		return false
	}

	for attempt := 1; attempt <= webhookMaxRetries; attempt++ {
		if ctx.Err() != nil {
			s.logger.Info("stop retries due to context cancel")
			return false
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.URL, bytes.NewReader(body))
		if err != nil {
			s.logger.Error("create webhook request failed", slog.String("error", err.Error()))
			return false
		}

		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Event-ID", ev.ID.String())
		req.Header.Set("X-Event-Type", string(ev.Type))

		resp, err := s.http.Do(req)
		if err == nil && resp.StatusCode >= 200 && resp.StatusCode < 300 {
			_ = resp.Body.Close()
			s.observe("delivered")
			return true
		}
		if resp != nil {
			_ = resp.Body.Close()
		}

		reason := "unknown"
		if err != nil {
			reason = err.Error()
		} else if resp != nil {
			reason = resp.Status
		}

		s.observe("retry")
		s.logger.Warn("webhook failed",
			slog.Int("attempt", attempt),
			slog.String("url", s.cfg.URL),
			slog.String("reason", reason),
		)

		if attempt < webhookMaxRetries {
			sleep(ctx, time.Duration(attempt)*s.backoff)
		}
	}
	s.observe("dropped")
	return false
}

func (s *WebhookSender) observe(status string) {
	if s.metrics == nil {
		return
	}
	s.metrics.WebhookDelivery.WithLabelValues(status).Inc()
}

func sleep(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
