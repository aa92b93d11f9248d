// Package api provides the HTTP API server and handlers for the SunLib application.
package api

import (
	"log/slog"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/sunlibapp/sunlib-server/internal/http/response"
	"github.com/sunlibapp/sunlib-server/internal/ratelimit"
	"github.com/sunlibapp/sunlib-server/internal/service"
	"github.com/sunlibapp/sunlib-server/internal/store/sqlite"
	"github.com/sunlibapp/sunlib-server/internal/validation"
)

// Services groups all business logic services used by the API server.
type Services struct {
	User       *service.UserService
	Book       *service.BookService
	Engagement *service.EngagementService
	Purchase   *service.PurchaseService
	Review     *service.ReviewService
	Social     *service.SocialService
	Activity   *service.ActivityService
}

// Per-client request limits. Generous enough for interactive clients,
// tight enough to stop a runaway script.
const (
	requestsPerSecond = 25
	requestBurst      = 50
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	catalog   *sqlite.Store
	services  Services
	validator *validation.Validator
	router    *chi.Mux
	api       huma.API
	limiter   *ratelimit.ClientLimiter
	logger    *slog.Logger
}

// NewServer creates a new HTTP server with all routes configured.
func NewServer(catalog *sqlite.Store, services Services, logger *slog.Logger) *Server {
	router := chi.NewRouter()

	s := &Server{
		catalog:   catalog,
		services:  services,
		validator: validation.New(),
		router:    router,
		limiter:   ratelimit.New(requestsPerSecond, requestBurst),
		logger:    logger,
	}

	// chi requires the full middleware stack before any route, and the
	// huma adapter registers its routes at construction time.
	s.setupMiddleware()

	humaConfig := huma.DefaultConfig("SunLib API", "1.0.0")
	s.api = humachi.New(router, humaConfig)
	RegisterErrorHandler()

	s.setupRoutes()

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// setupMiddleware configures the middleware stack.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", identityHeader},
		MaxAge:         300,
	}))
	s.router.Use(s.rateLimit)
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	// Health check.
	s.router.Get("/health", s.handleHealthCheck)

	// API v1.
	s.router.Route("/api/v1", func(r chi.Router) {
		// Users and profiles. Account creation is open; every other user
		// route needs an identity.
		r.Route("/users", func(r chi.Router) {
			r.Post("/", s.handleCreateUser)

			r.Group(func(r chi.Router) {
				r.Use(s.requireIdentity)
				r.Get("/", s.handleListUsers)
				r.Get("/search", s.handleSearchUsers)
				r.Get("/me", s.handleGetCurrentUser)
				r.Get("/{id}", s.handleGetUser)
				r.Patch("/{id}", s.handleUpdateProfile)
				r.Put("/{id}/role", s.handleChangeRole)
				r.Delete("/{id}", s.handleDeactivateUser)
			})
		})

		r.Group(func(r chi.Router) {
			r.Use(s.requireIdentity)

			// Book catalog and per-book engagement.
			r.Route("/books", func(r chi.Router) {
				r.Get("/", s.handleListBooks)
				r.Post("/", s.handleCreateBook)
				r.Get("/search", s.handleSearchBooks)
				r.Get("/{id}", s.handleGetBook)
				r.Patch("/{id}", s.handleUpdateBook)
				r.Delete("/{id}", s.handleDeleteBook)

				r.Get("/{id}/engagement", s.handleGetEngagement)
				r.Post("/{id}/progress", s.handleRecordProgress)
				r.Put("/{id}/favorite", s.handleSetFavorite)
				r.Put("/{id}/rating", s.handleSetRating)

				r.Get("/{id}/reviews", s.handleListReviews)
				r.Post("/{id}/reviews", s.handleAddReview)
			})

			// Categories.
			r.Route("/categories", func(r chi.Router) {
				r.Get("/", s.handleListCategories)
				r.Post("/", s.handleCreateCategory)
			})

			// Purchase requests.
			r.Route("/purchases", func(r chi.Router) {
				r.Post("/", s.handleCreatePurchaseRequest)
				r.Get("/", s.handleListPurchaseRequests)
				r.Get("/{id}", s.handleGetPurchaseRequest)
				r.Put("/{id}/status", s.handleUpdatePurchaseStatus)
				r.Delete("/{id}", s.handleWithdrawPurchaseRequest)
			})
		})
	})

	// Social graph and activity feeds are served as typed huma endpoints.
	s.registerSocialRoutes()
	s.registerActivityRoutes()
}

// handleHealthCheck returns server health status.
func (s *Server) handleHealthCheck(w http.ResponseWriter, _ *http.Request) {
	response.Success(w, map[string]string{
		"status": "healthy",
	}, s.logger)
}
