package api

import (
	"net/http"
	"time"

	"github.com/futig/interview-backend/internal/api/docs"
	interviewapi "github.com/futig/interview-backend/internal/api/interview"
	"github.com/futig/interview-backend/internal/api/middleware"
	"github.com/futig/interview-backend/internal/pkg/response"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

const serviceName = "LLM Interview API"

// RouterConfig holds the HTTP settings the router needs
type RouterConfig struct {
	JWTSecret      string
	AllowedOrigins []string
	// RequestTimeout bounds every request including model calls
	RequestTimeout time.Duration
}

// SetupRouter creates and configures the HTTP router
func SetupRouter(interviewHandler *interviewapi.Handler, cfg RouterConfig, logger *zap.Logger) http.Handler {
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 120 * time.Second
	}

	r := chi.NewRouter()

	// Middleware stack
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS(cfg.AllowedOrigins))
	r.Use(chimiddleware.Timeout(cfg.RequestTimeout))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		response.JSON(w, http.StatusOK, map[string]string{"status": "healthy"})
	})

	r.Get("/info", func(w http.ResponseWriter, r *http.Request) {
		response.OK(w, map[string]string{
			"service": serviceName,
			"status":  "running",
		})
	})

	// Swagger documentation endpoints
	docs.RegisterRoutes(r)

	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWTSecret))
		interviewapi.RegisterRoutes(r, interviewHandler)
	})

	return r
}
