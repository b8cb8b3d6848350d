package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"emergencyHub/internal/api/handlers/http/admin"
	"emergencyHub/internal/api/handlers/http/incidents"
	"emergencyHub/internal/api/handlers/http/public"
	"emergencyHub/internal/api/handlers/http/system"
	"emergencyHub/internal/config"
	"emergencyHub/internal/metrics"
	"emergencyHub/internal/middleware"
	"emergencyHub/internal/policy"
	"emergencyHub/internal/service"
)

const serviceName = "emergencyHub"

type Server struct {
	logger  *slog.Logger
	handler http.Handler
	cfg     config.Config
}

type Handlers struct {
	Incidents *incidents.Handler
	Public    *public.Handler
	Admin     *admin.Handler
	System    *system.Handler
}

func NewServer(cfg *config.Config, logger *slog.Logger, svc *service.Service, m *metrics.Metrics, checks map[string]system.Pinger) *Server {
	h := Handlers{
		Incidents: incidents.NewHandler(logger, svc.IncidentService),
		Public:    public.NewHandler(logger, svc.ProximityService),
		Admin:     admin.NewHandler(logger, svc.StatsService),
		System:    system.NewHandler(logger, checks),
	}

	r := InitRouter(cfg, h, m, logger)

	return &Server{
		logger:  logger,
		handler: otelhttp.NewHandler(r, serviceName),
		cfg:     *cfg,
	}
}

func (s *Server) Handler() http.Handler {
	return s.handler
}

func InitRouter(cfg *config.Config, h Handlers, m *metrics.Metrics, logger *slog.Logger) *chi.Mux {
	r := chi.NewMux()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Logger)
	r.Use(middleware.HTTPMetrics(m))

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(api chi.Router) {
		// SYSTEM
		api.Get("/health", h.System.SystemHealth)
		api.Get("/ready", h.System.SystemReady)

		// ADMIN
		api.Route("/admin", func(ar chi.Router) {
			ar.Use(middleware.APIKeyMiddleware(cfg.APIKey))
			ar.Use(middleware.Limit(2, 5, 10*time.Minute, logger))
			ar.Use(middleware.Identify)

			ar.With(middleware.Authorize(policy.ResourceStats, policy.ActionRead)).Get("/stats", h.Admin.AdminStats)
		})

		// PUBLIC
		api.Group(func(pr chi.Router) {
			pr.Use(middleware.Limit(cfg.RateLimit.RPS, cfg.RateLimit.Burst, 5*time.Minute, logger))
			pr.Use(middleware.Identify)

			pr.Post("/location/check", h.Public.PublicLocationCheck)

			pr.Route("/incidents", func(ir chi.Router) {
				ir.With(middleware.Authorize(policy.ResourceIncident, policy.ActionCreate)).Post("/", h.Incidents.IncidentReport)
				ir.With(middleware.Authorize(policy.ResourceIncident, policy.ActionRead)).Get("/", h.Incidents.IncidentList)
				ir.With(middleware.Authorize(policy.ResourceIncident, policy.ActionRead)).Get("/nearby", h.Incidents.IncidentNearby)

				ir.Route("/{id}", func(rr chi.Router) {
					rr.With(middleware.Authorize(policy.ResourceIncident, policy.ActionRead)).Get("/", h.Incidents.IncidentGet)
					rr.With(middleware.Authorize(policy.ResourceIncident, policy.ActionUpdate)).Patch("/", h.Incidents.IncidentUpdate)
					rr.With(middleware.Authorize(policy.ResourceIncident, policy.ActionTransition)).Post("/status", h.Incidents.IncidentTransition)
					rr.With(middleware.Authorize(policy.ResourceIncident, policy.ActionRecompute)).Post("/score", h.Incidents.IncidentRecomputeScore)

					rr.Route("/upvotes", func(ur chi.Router) {
						ur.Use(middleware.Authorize(policy.ResourceUpvote, policy.ActionVote))
						ur.Post("/", h.Incidents.IncidentUpvote)
						ur.Delete("/", h.Incidents.IncidentRemoveUpvote)
					})

					rr.With(middleware.Authorize(policy.ResourceAssignment, policy.ActionAssign)).Post("/assignments", h.Incidents.IncidentAssign)
					rr.With(middleware.Authorize(policy.ResourceAssignment, policy.ActionRespond)).Post("/assignments/current/response", h.Incidents.IncidentAssignmentResponse)
					rr.With(middleware.Authorize(policy.ResourceMedia, policy.ActionAttach)).Post("/media", h.Incidents.IncidentAttachMedia)
				})
			})
		})
	})

	return r
}

func (s *Server) Run(ctx context.Context) error {
	port := s.cfg.Http.Port
	if !strings.HasPrefix(port, ":") {
		port = ":" + port
	}

	srv := &http.Server{
		Addr:         port,
		Handler:      s.handler,
		ReadTimeout:  s.cfg.Http.ReadTimeout,
		WriteTimeout: s.cfg.Http.WriteTimeout,
		IdleTimeout:  30 * time.Second,
	}

	errChan := make(chan error, 1)

	go func() {
		s.logger.Info("Starting HTTP server",
			slog.String("addr", srv.Addr),
			slog.Duration("read_timeout", s.cfg.Http.ReadTimeout),
			slog.Duration("write_timeout", s.cfg.Http.WriteTimeout),
		)

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("ListenAndServe error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("Shutting down HTTP server", slog.String("reason", ctx.Err().Error()))

		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.Http.ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("Server shutdown failed", slog.Any("error", err))
			return err
		}
		return nil

	case err := <-errChan:
		return err
	}
}
