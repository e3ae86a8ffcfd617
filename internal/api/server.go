package api

import (
	"net/http"
	"time"

	"github.com/futig/permitcheck/internal/api/docs"
	"github.com/futig/permitcheck/internal/api/middleware"
	workflowapi "github.com/futig/permitcheck/internal/api/workflow"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

type RouterConfig struct {
	HandlerTimeout time.Duration
	CORSOrigins    []string
}

// SetupRouter creates and configures the HTTP router
func SetupRouter(cfg RouterConfig, workflowHandler *workflowapi.Handler, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	// Middleware stack
	r.Use(chimiddleware.Recoverer)                   // Recover from panics
	r.Use(chimiddleware.RequestID)                   // Add request ID
	r.Use(middleware.Logger(logger))                 // Log requests
	r.Use(middleware.CORS(cfg.CORSOrigins))          // Handle CORS
	r.Use(chimiddleware.Timeout(cfg.HandlerTimeout)) // Default timeout

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"healthy"}`))
	})

	r.Handle("/metrics", promhttp.Handler())

	// Swagger documentation endpoints
	docs.RegisterRoutes(r)

	// Register routes
	workflowapi.RegisterRoutes(r, workflowHandler)

	return r
}
