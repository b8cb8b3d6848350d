package public

import (
	"context"
	"log/slog"
	"net/http"

	chimw "github.com/go-chi/chi/v5/middleware"

	"emergencyHub/internal/domain"
	"emergencyHub/internal/middleware"
	"emergencyHub/internal/render"
)

//go:generate mockgen -source=handlers.go -destination=mocks/mock.go
type LocationChecker interface {
	CheckLocation(ctx context.Context, req domain.LocationCheckRequest) (domain.LocationCheckResponse, error)
}

type Handler struct {
	logger          *slog.Logger
	LocationChecker LocationChecker
}

func NewHandler(logger *slog.Logger, locationChecker LocationChecker) *Handler {
	return &Handler{
		logger:          logger,
		LocationChecker: locationChecker,
	}
}

func (h *Handler) log(r *http.Request) *slog.Logger {
	reqID := chimw.GetReqID(r.Context())
	if reqID == "" {
		return h.logger
	}
	return h.logger.With(slog.String("request_id", reqID))
}

func (h *Handler) PublicLocationCheck(w http.ResponseWriter, r *http.Request) {
	l := h.log(r)

	var req domain.LocationCheckRequest
	if err := middleware.DecodeJSON(r, &req); err != nil {
		l.Warn("invalid body", slog.Any("error", err))
		render.Error(w, err)
		return
	}

	resp, err := h.LocationChecker.CheckLocation(r.Context(), req)
	if err != nil {
		if status, _ := render.Status(err); status >= http.StatusInternalServerError {
			l.Error("CheckLocation failed", slog.Any("error", err))
		} else {
			l.Warn("CheckLocation rejected", slog.Any("error", err))
		}
		render.Error(w, err)
		return
	}

	l.Info("location checked",
		slog.String("user_id", req.UserID),
		slog.Int("nearby", len(resp.Incidents)),
		slog.Bool("within_service_area", resp.WithinServiceArea),
	)
	render.JSON(w, http.StatusOK, resp)
}
