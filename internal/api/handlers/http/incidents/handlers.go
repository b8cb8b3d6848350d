package incidents

import (
	"context"
	"log/slog"
	"net"
	"net/http"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"emergencyHub/internal/domain"
	"emergencyHub/internal/incident"
	"emergencyHub/internal/middleware"
	"emergencyHub/internal/render"
)

//go:generate mockgen -source=handlers.go -destination=mocks/mock.go
type Incidents interface {
	Report(ctx context.Context, actor domain.Actor, req domain.ReportIncidentRequest) (*incident.Incident, error)
	Get(ctx context.Context, id uuid.UUID) (*incident.Incident, error)
	List(ctx context.Context, req domain.ListIncidentsRequest) ([]*incident.Incident, int64, error)
	Nearby(ctx context.Context, req domain.NearbyRequest) ([]domain.NearbyIncident, error)
	UpdateDetails(ctx context.Context, id uuid.UUID, actor domain.Actor, req domain.UpdateDetailsRequest) (*incident.Incident, error)
	Transition(ctx context.Context, id uuid.UUID, actor domain.Actor, req domain.TransitionRequest) (*incident.Incident, error)
	AddUpvote(ctx context.Context, id uuid.UUID, vote incident.Vote) (*incident.Incident, error)
	RemoveUpvote(ctx context.Context, id uuid.UUID, actor domain.Actor) (*incident.Incident, error)
	Assign(ctx context.Context, id uuid.UUID, actor domain.Actor, req domain.AssignRequest) (*incident.Incident, error)
	RespondToAssignment(ctx context.Context, id uuid.UUID, actor domain.Actor, req domain.AssignmentResponseRequest) (*incident.Incident, error)
	AttachMedia(ctx context.Context, id uuid.UUID, actor domain.Actor, req domain.AttachMediaRequest) (*incident.Incident, error)
	RecomputeScore(ctx context.Context, id uuid.UUID, actor domain.Actor) (*incident.Incident, error)
}

type Handler struct {
	logger    *slog.Logger
	Incidents Incidents
}

func NewHandler(logger *slog.Logger, incidents Incidents) *Handler {
	return &Handler{
		logger:    logger,
		Incidents: incidents,
	}
}

func (h *Handler) log(r *http.Request) *slog.Logger {
	reqID := chimw.GetReqID(r.Context())
	if reqID == "" {
		return h.logger
	}
	return h.logger.With(slog.String("request_id", reqID))
}

func (h *Handler) IncidentReport(w http.ResponseWriter, r *http.Request) {
	l := h.log(r)
	actor := middleware.ActorFrom(r.Context())
	l.Debug("IncidentReport", slog.String("actor", actor.ID), slog.String("remote", r.RemoteAddr))

	var req domain.ReportIncidentRequest
	if err := middleware.DecodeJSON(r, &req); err != nil {
		h.handleError(w, r, err)
		return
	}

	inc, err := h.Incidents.Report(r.Context(), actor, req)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	l.Info("incident reported", slog.String("id", inc.ID().String()))
	w.Header().Set("Location", "/api/v1/incidents/"+inc.ID().String())
	render.JSON(w, http.StatusCreated, inc.Document())
}

func (h *Handler) IncidentList(w http.ResponseWriter, r *http.Request) {
	l := h.log(r)
	l.Debug("IncidentList", slog.String("query", r.URL.RawQuery))

	var req domain.ListIncidentsRequest
	if err := middleware.DecodeQuery(r, &req); err != nil {
		h.handleError(w, r, err)
		return
	}
	if req.Page <= 0 {
		req.Page = 1
	}
	if req.Limit <= 0 {
		req.Limit = 20
	}
	if req.Limit > 100 {
		req.Limit = 100
		l.Warn("limit capped", slog.Int("limit", req.Limit))
	}

	items, total, err := h.Incidents.List(r.Context(), req)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	l.Info("incidents listed", slog.Int("count", len(items)), slog.Int64("total", total))
	render.JSON(w, http.StatusOK, domain.ListIncidentsResponse{
		Incidents: documents(items),
		Page:      req.Page,
		Limit:     req.Limit,
		Total:     total,
	})
}

func (h *Handler) IncidentNearby(w http.ResponseWriter, r *http.Request) {
	l := h.log(r)
	l.Debug("IncidentNearby", slog.String("query", r.URL.RawQuery))

	var req domain.NearbyRequest
	if err := middleware.DecodeQuery(r, &req); err != nil {
		h.handleError(w, r, err)
		return
	}

	nearby, err := h.Incidents.Nearby(r.Context(), req)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	render.JSON(w, http.StatusOK, map[string]any{"incidents": nearby})
}

func (h *Handler) IncidentGet(w http.ResponseWriter, r *http.Request) {
	id, ok := h.incidentID(w, r)
	if !ok {
		return
	}

	inc, err := h.Incidents.Get(r.Context(), id)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	render.JSON(w, http.StatusOK, inc.Document())
}

func (h *Handler) IncidentUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := h.incidentID(w, r)
	if !ok {
		return
	}

	var req domain.UpdateDetailsRequest
	if err := middleware.DecodeJSON(r, &req); err != nil {
		h.handleError(w, r, err)
		return
	}

	inc, err := h.Incidents.UpdateDetails(r.Context(), id, middleware.ActorFrom(r.Context()), req)
	h.respond(w, r, inc, err)
}

func (h *Handler) IncidentTransition(w http.ResponseWriter, r *http.Request) {
	id, ok := h.incidentID(w, r)
	if !ok {
		return
	}

	var req domain.TransitionRequest
	if err := middleware.DecodeJSON(r, &req); err != nil {
		h.handleError(w, r, err)
		return
	}

	inc, err := h.Incidents.Transition(r.Context(), id, middleware.ActorFrom(r.Context()), req)
	if err == nil {
		h.log(r).Info("status changed", slog.String("id", id.String()), slog.String("status", string(inc.Status())))
	}
	h.respond(w, r, inc, err)
}

func (h *Handler) IncidentUpvote(w http.ResponseWriter, r *http.Request) {
	id, ok := h.incidentID(w, r)
	if !ok {
		return
	}

	var req domain.UpvoteRequest
	if r.ContentLength != 0 {
		if err := middleware.DecodeJSON(r, &req); err != nil {
			h.handleError(w, r, err)
			return
		}
	}

	actor := middleware.ActorFrom(r.Context())
	inc, err := h.Incidents.AddUpvote(r.Context(), id, incident.Vote{
		VoterID:   actor.ID,
		VoterKind: actor.Kind,
		IPAddress: clientIP(r),
		UserAgent: r.UserAgent(),
		Location:  req.Location,
	})
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	render.JSON(w, http.StatusOK, scoreResponse(inc))
}

func (h *Handler) IncidentRemoveUpvote(w http.ResponseWriter, r *http.Request) {
	id, ok := h.incidentID(w, r)
	if !ok {
		return
	}

	inc, err := h.Incidents.RemoveUpvote(r.Context(), id, middleware.ActorFrom(r.Context()))
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	render.JSON(w, http.StatusOK, scoreResponse(inc))
}

func (h *Handler) IncidentAssign(w http.ResponseWriter, r *http.Request) {
	id, ok := h.incidentID(w, r)
	if !ok {
		return
	}

	var req domain.AssignRequest
	if err := middleware.DecodeJSON(r, &req); err != nil {
		h.handleError(w, r, err)
		return
	}

	inc, err := h.Incidents.Assign(r.Context(), id, middleware.ActorFrom(r.Context()), req)
	h.respond(w, r, inc, err)
}

func (h *Handler) IncidentAssignmentResponse(w http.ResponseWriter, r *http.Request) {
	id, ok := h.incidentID(w, r)
	if !ok {
		return
	}

	var req domain.AssignmentResponseRequest
	if err := middleware.DecodeJSON(r, &req); err != nil {
		h.handleError(w, r, err)
		return
	}

	inc, err := h.Incidents.RespondToAssignment(r.Context(), id, middleware.ActorFrom(r.Context()), req)
	h.respond(w, r, inc, err)
}

func (h *Handler) IncidentAttachMedia(w http.ResponseWriter, r *http.Request) {
	id, ok := h.incidentID(w, r)
	if !ok {
		return
	}

	var req domain.AttachMediaRequest
	if err := middleware.DecodeJSON(r, &req); err != nil {
		h.handleError(w, r, err)
		return
	}

	inc, err := h.Incidents.AttachMedia(r.Context(), id, middleware.ActorFrom(r.Context()), req)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	media := inc.Media()
	render.JSON(w, http.StatusCreated, media[len(media)-1])
}

func (h *Handler) IncidentRecomputeScore(w http.ResponseWriter, r *http.Request) {
	id, ok := h.incidentID(w, r)
	if !ok {
		return
	}

	inc, err := h.Incidents.RecomputeScore(r.Context(), id, middleware.ActorFrom(r.Context()))
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	render.JSON(w, http.StatusOK, scoreResponse(inc))
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
