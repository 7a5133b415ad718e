package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/secmon-lab/riskledger/pkg/usecase"
	"github.com/secmon-lab/riskledger/pkg/utils/logging"
)

// UserHeader carries the identity asserted by the upstream auth proxy
const UserHeader = "X-Riskledger-User"

type Server struct {
	router         *chi.Mux
	uc             *usecase.UseCases
	metricsHandler http.Handler
}

type Options func(*Server)

// WithMetricsHandler exposes h on /metrics
func WithMetricsHandler(h http.Handler) Options {
	return func(s *Server) {
		s.metricsHandler = h
	}
}

func New(uc *usecase.UseCases, opts ...Options) *Server {
	r := chi.NewRouter()

	s := &Server{
		router: r,
		uc:     uc,
	}
	for _, opt := range opts {
		opt(s)
	}

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(accessLogger)
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	if s.metricsHandler != nil {
		r.Handle("/metrics", s.metricsHandler)
	}

	r.Route("/api", func(r chi.Router) {
		r.Use(viewerMiddleware(uc.User))

		r.Route("/risks", func(r chi.Router) {
			r.Get("/", s.listRisks)
			r.Post("/", s.createRisk)
			r.Route("/{riskID}", func(r chi.Router) {
				r.Get("/", s.getRisk)
				r.Patch("/", s.updateRisk)
				r.Delete("/", s.deleteRisk)
				r.Post("/approve", s.approveRisk)
				r.Get("/history", s.listRiskHistory)
			})
		})

		r.Route("/incidents", func(r chi.Router) {
			r.Get("/", s.listIncidents)
			r.Post("/", s.createIncident)
			r.Route("/{incidentID}", func(r chi.Router) {
				r.Patch("/", s.updateIncident)
				r.Delete("/", s.deleteIncident)
				r.Post("/close", s.closeIncident)
			})
		})

		r.Route("/owners", func(r chi.Router) {
			r.Get("/", s.listOwners)
			r.Post("/", s.createOwner)
			r.Delete("/{ownerID}", s.deleteOwner)
		})
	})

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// accessLogger is a middleware that logs HTTP requests
func accessLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		defer func() {
			logging.From(r.Context()).Info("access",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"remote", r.RemoteAddr,
				"user_agent", r.UserAgent(),
			)
		}()

		next.ServeHTTP(ww, r)
	})
}
