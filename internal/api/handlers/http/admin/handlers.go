package admin

import (
	"context"
	"log/slog"
	"net/http"

	chimw "github.com/go-chi/chi/v5/middleware"

	"emergencyHub/internal/domain"
	"emergencyHub/internal/middleware"
	"emergencyHub/internal/render"
)

const defaultStatsMinutes = 60

//go:generate mockgen -source=handlers.go -destination=mocks/mock.go
type StatsGetter interface {
	GetStats(ctx context.Context, req domain.StatsRequest) (*domain.IncidentStats, error)
}

type Handler struct {
	logger *slog.Logger
	Stats  StatsGetter
}

func NewHandler(logger *slog.Logger, stats StatsGetter) *Handler {
	return &Handler{
		logger: logger,
		Stats:  stats,
	}
}

func (h *Handler) log(r *http.Request) *slog.Logger {
	reqID := chimw.GetReqID(r.Context())
	if reqID == "" {
		return h.logger
	}
	return h.logger.With(slog.String("request_id", reqID))
}

func (h *Handler) AdminStats(w http.ResponseWriter, r *http.Request) {
	l := h.log(r)
	l.Debug("AdminStats", slog.String("query", r.URL.RawQuery), slog.String("remote", r.RemoteAddr))

	var req domain.StatsRequest
	if err := middleware.DecodeQuery(r, &req); err != nil {
		l.Warn("invalid query", slog.Any("error", err))
		render.Error(w, err)
		return
	}
	if req.Minutes == 0 {
		req.Minutes = defaultStatsMinutes
	}

	stats, err := h.Stats.GetStats(r.Context(), req)
	if err != nil {
		if status, _ := render.Status(err); status >= http.StatusInternalServerError {
			l.Error("Stats.GetStats failed", slog.Any("error", err))
		} else {
			l.Warn("Stats.GetStats rejected", slog.Any("error", err))
		}
		render.Error(w, err)
		return
	}

	l.Info("stats success", slog.Int("minutes", req.Minutes))
	render.JSON(w, http.StatusOK, stats)
}
