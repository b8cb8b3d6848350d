package incidents

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"emergencyHub/internal/domain"
	"emergencyHub/internal/incident"
	"emergencyHub/internal/render"
	"emergencyHub/pkg/e"
)

func (h *Handler) handleError(w http.ResponseWriter, r *http.Request, err error) {
	status, code := render.Status(err)

	l := h.log(r)
	attrs := []any{
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.String("code", code),
		slog.Any("error", err),
	}
	if status >= http.StatusInternalServerError {
		l.Error("handler error", attrs...)
	} else {
		l.Warn("request rejected", attrs...)
	}

	render.Error(w, err)
}

func (h *Handler) incidentID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	idStr := chi.URLParam(r, "id")
	id, err := uuid.Parse(idStr)
	if err != nil {
		h.handleError(w, r, e.Field("http.incidentID", e.ErrInvalidInput, "id", idStr))
		return uuid.Nil, false
	}
	return id, true
}

func (h *Handler) respond(w http.ResponseWriter, r *http.Request, inc *incident.Incident, err error) {
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	render.JSON(w, http.StatusOK, inc.Document())
}

func documents(items []*incident.Incident) []domain.IncidentDocument {
	out := make([]domain.IncidentDocument, 0, len(items))
	for _, inc := range items {
		out = append(out, inc.Document())
	}
	return out
}

func scoreResponse(inc *incident.Incident) domain.ScoreResponse {
	return domain.ScoreResponse{
		ID:                inc.ID(),
		VerificationScore: inc.VerificationScore(),
		UpvoteCount:       inc.UpvoteCount(),
	}
}
