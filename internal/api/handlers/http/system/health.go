package system

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"emergencyHub/internal/render"
)

const readinessTimeout = 2 * time.Second

// Pinger reports whether a backing dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Handler struct {
	logger *slog.Logger
	checks map[string]Pinger
}

func NewHandler(logger *slog.Logger, checks map[string]Pinger) *Handler {
	return &Handler{logger: logger, checks: checks}
}

func (h *Handler) SystemHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (h *Handler) SystemReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
	defer cancel()

	status := http.StatusOK
	result := make(map[string]string, len(h.checks))
	for name, p := range h.checks {
		if err := p.Ping(ctx); err != nil {
			h.logger.Warn("readiness check failed", slog.String("check", name), slog.Any("error", err))
			result[name] = err.Error()
			status = http.StatusServiceUnavailable
			continue
		}
		result[name] = "ok"
	}

	render.JSON(w, status, result)
}
