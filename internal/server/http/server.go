// Package http exposes the edutrack services as a JSON API over chi.
package http

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/edutrack/internal/logging"
	"github.com/dmitrijs2005/edutrack/internal/server/config"
	"github.com/dmitrijs2005/edutrack/internal/server/models"
	"github.com/dmitrijs2005/edutrack/internal/server/services"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type AuthService interface {
	Signup(ctx context.Context, username, email, password string) (*services.Session, error)
	Login(ctx context.Context, email, password string) (*services.Session, error)
	VerifySession(ctx context.Context, token string) (models.PublicUser, error)
	UpdateProfile(ctx context.Context, token, username, email string) (models.PublicUser, error)
	ChangePassword(ctx context.Context, token, current, newPassword string) error
}

type ProgressService interface {
	MarkCompleted(ctx context.Context, userID, lessonID int64) error
	GetProgress(ctx context.Context, userID, courseID int64) ([]models.LessonStatus, error)
}

type GradingService interface {
	Submit(ctx context.Context, userID, exerciseID int64, answer string) (bool, error)
}

type StatsService interface {
	ComputeStats(ctx context.Context, userID int64) (*models.Stats, error)
}

// Pinger reports database reachability for the health check.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type Services struct {
	Auth     AuthService
	Progress ProgressService
	Grading  GradingService
	Stats    StatsService
}

type Server struct {
	svc         Services
	db          Pinger
	prefix      string
	corsOrigins []string
	logger      logging.Logger
	validate    *validator.Validate
	registry    *prometheus.Registry
	metrics     *metrics
}

func NewServer(svc Services, db Pinger, cfg *config.Config, logger logging.Logger) *Server {
	if logger == nil {
		logger = logging.Nop{}
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return &Server{
		svc:         svc,
		db:          db,
		prefix:      strings.TrimRight(cfg.APIPrefix, "/"),
		corsOrigins: cfg.CORSAllowedOrigins,
		logger:      logger,
		validate:    validator.New(),
		registry:    registry,
		metrics:     newMetrics(registry),
	}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RealIP)
	r.Use(s.requestID)
	r.Use(s.logRequests)
	r.Use(s.metrics.middleware)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.corsOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}))

	r.Get("/health", s.handleHealth)
	r.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))

	api := chi.NewRouter()
	api.Post("/auth/signup", s.handleSignup)
	api.Post("/auth/login", s.handleLogin)
	api.Post("/auth/verify", s.handleVerify)
	api.Put("/auth/update-profile", s.handleUpdateProfile)
	api.Put("/auth/change-password", s.handleChangePassword)
	api.Get("/auth/stats/{userId}", s.handleStats)
	api.Get("/progress/{userId}/course/{courseId}", s.handleGetProgress)
	api.Post("/progress/{userId}/lesson/{lessonId}/complete", s.handleMarkCompleted)
	api.Post("/answers", s.handleSubmitAnswer)

	if s.prefix == "" {
		r.Mount("/", api)
	} else {
		r.Mount(s.prefix, api)
	}

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := s.db.PingContext(ctx); err != nil {
		s.logger.Warn(ctx, "health check failed", "error", err)
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
