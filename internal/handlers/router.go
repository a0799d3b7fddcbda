package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"buyers-backend/internal/middleware"
	"buyers-backend/internal/store"
)

// Router wires all handlers into the HTTP surface.
type Router struct {
	client  *store.Client
	auth    *AuthHandler
	entity  *EntityHandler
	sync    *SyncHandler
	imports *ImportHandler
	logger  *zap.Logger

	enableCORS    bool
	enableMetrics bool
}

// NewRouter creates a new router instance.
func NewRouter(
	client *store.Client,
	auth *AuthHandler,
	entity *EntityHandler,
	sync *SyncHandler,
	imports *ImportHandler,
	logger *zap.Logger,
	enableCORS, enableMetrics bool,
) *Router {
	return &Router{
		client:        client,
		auth:          auth,
		entity:        entity,
		sync:          sync,
		imports:       imports,
		logger:        logger,
		enableCORS:    enableCORS,
		enableMetrics: enableMetrics,
	}
}

// Setup configures all routes and middleware
func (rt *Router) Setup() http.Handler {
	router := chi.NewRouter()

	// Global middleware
	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(chimiddleware.Recoverer)
	router.Use(middleware.Logger(rt.logger))

	if rt.enableCORS {
		router.Use(cors.Handler(cors.Options{
			AllowedOrigins:   []string{"http://localhost:3000"},
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
			ExposedHeaders:   []string{"X-Request-ID"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})
	if rt.enableMetrics {
		router.Handle("/metrics", promhttp.Handler())
	}

	router.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/login", rt.auth.Login)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Authenticate(rt.client.Auth(), rt.logger))

			r.Route("/entities", func(r chi.Router) {
				r.Get("/", rt.entity.List)
				r.Post("/", rt.entity.Create)
				r.Put("/{entityID}/intel", rt.entity.UpdateIntel)
			})
			r.Post("/sync/{kind}", rt.sync.Tick)
			r.Post("/import", rt.imports.Upload)
		})
	})

	return router
}
