// Package apiserver provides the JSON API HTTP server
package apiserver

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/alchemorsel/recipebox/internal/infrastructure/config"
	"github.com/alchemorsel/recipebox/internal/infrastructure/http/handlers"
	"github.com/alchemorsel/recipebox/internal/infrastructure/http/middleware"
	"github.com/alchemorsel/recipebox/internal/infrastructure/http/response"
	"github.com/alchemorsel/recipebox/internal/infrastructure/monitoring"
	"github.com/alchemorsel/recipebox/internal/ports/inbound"
	"github.com/alchemorsel/recipebox/pkg/errors"
	"github.com/alchemorsel/recipebox/pkg/healthcheck"
)

// Services are the inbound ports the API exposes
type Services struct {
	Recipes     inbound.RecipeService
	Catalog     inbound.CatalogService
	Collections inbound.CollectionService
	Pantry      inbound.PantryService
	Users       inbound.UserService
}

// Server is the JSON API HTTP server
type Server struct {
	config  *config.Config
	logger  *zap.Logger
	server  *http.Server
	router  *chi.Mux
	limiter *middleware.RateLimiter
}

// Options are the optional collaborators of the server. Nil fields switch the
// matching feature off.
type Options struct {
	Metrics *monitoring.Metrics
	Health  *healthcheck.HealthCheck
}

// NewServer creates the API server and its routes
func NewServer(
	cfg *config.Config,
	services Services,
	tokens middleware.TokenValidator,
	opts Options,
	log *zap.Logger,
) *Server {
	s := &Server{
		config: cfg,
		logger: log.Named("api-server"),
	}
	if cfg.RateLimit.Enable {
		s.limiter = middleware.NewRateLimiter(cfg.RateLimit, log)
	}

	s.router = s.setupRoutes(services, tokens, opts)
	s.server = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      s.router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}
	return s
}

func (s *Server) setupRoutes(services Services, tokens middleware.TokenValidator, opts Options) *chi.Mux {
	r := chi.NewRouter()
	mon := s.config.Monitoring

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	if mon.EnableTracing {
		r.Use(middleware.Tracing(mon.ServiceName))
	}
	if opts.Metrics != nil {
		r.Use(middleware.Metrics(opts.Metrics))
	}
	livePath := mon.HealthCheckPath + "/live"
	r.Use(middleware.Logger(s.logger, mon.HealthCheckPath, livePath, mon.MetricsPath))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.Security())
	r.Use(middleware.CORS(s.config.Server.AllowedOrigins))
	r.Use(middleware.MaxBody(s.config.Server.MaxBodyBytes))
	if s.config.Server.WriteTimeout > 0 {
		r.Use(chimiddleware.Timeout(s.config.Server.WriteTimeout))
	}

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		response.Error(w, r, s.logger, errors.NewNotFoundError("route"))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		response.JSON(w, http.StatusMethodNotAllowed, response.APIResponse{
			Error: &response.ErrorBody{Code: errors.CodeBadRequest, Message: "Method not allowed", Details: r.Method},
		})
	})

	health := opts.Health
	if health == nil {
		health = healthcheck.New(s.config.App.Version, s.logger)
	}
	r.Method(http.MethodGet, mon.HealthCheckPath, health.Handler())
	r.Method(http.MethodGet, livePath, health.LivenessHandler())
	if opts.Metrics != nil && mon.EnableMetrics {
		r.Method(http.MethodGet, mon.MetricsPath, opts.Metrics.Handler())
	}

	r.Route("/api/v1", func(r chi.Router) {
		if s.limiter != nil {
			r.Use(s.limiter.Handler)
		}
		s.setupAPIV1Routes(r, services, tokens)
	})

	return r
}

// setupAPIV1Routes configures API v1 endpoints
func (s *Server) setupAPIV1Routes(r chi.Router, services Services, tokens middleware.TokenValidator) {
	authenticate := middleware.Authenticate(tokens, s.logger)

	recipeH := handlers.NewRecipeHandlers(services.Recipes, s.config.AI.DefaultUse, s.logger)
	catalogH := handlers.NewCatalogHandlers(services.Catalog, s.logger)
	collectionH := handlers.NewCollectionHandlers(services.Collections, s.logger)
	pantryH := handlers.NewPantryHandlers(services.Pantry, s.logger)
	authH := handlers.NewAuthHandlers(services.Users, s.logger)

	// Authentication routes
	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", authH.Register)
		r.Post("/login", authH.Login)
		r.Post("/refresh", authH.Refresh)

		r.Group(func(r chi.Router) {
			r.Use(authenticate)
			r.Get("/profile", authH.GetProfile)
			r.Put("/profile", authH.UpdateProfile)
		})
	})

	// Recipe routes
	r.Route("/recipes", func(r chi.Router) {
		r.Get("/", recipeH.ListRecipes)
		r.Get("/search", recipeH.SearchRecipes)
		r.Get("/{id}", recipeH.GetRecipe)

		// Parsing and draft review are stateless
		r.Post("/parse", recipeH.Parse)
		r.Post("/drafts/prepare", recipeH.PrepareDraft)
		r.Post("/drafts/validate", recipeH.ValidateDraft)

		r.Group(func(r chi.Router) {
			r.Use(authenticate)
			r.Post("/", recipeH.CreateRecipe)
			r.Post("/drafts", recipeH.SaveDraft)
			r.Put("/{id}", recipeH.UpdateRecipe)
			r.Delete("/{id}", recipeH.DeleteRecipe)
			r.Post("/{id}/rating", recipeH.RateRecipe)
		})
	})

	// Ingredient catalog routes
	r.Route("/ingredients", func(r chi.Router) {
		r.Get("/", catalogH.ListIngredients)
		r.Get("/suggest", catalogH.SuggestIngredients)
		r.Get("/duplicates", catalogH.FindDuplicates)
		r.Get("/{id}", catalogH.GetIngredient)

		r.Group(func(r chi.Router) {
			r.Use(authenticate)
			r.Post("/", catalogH.CreateIngredient)
			r.Patch("/{id}", catalogH.UpdateIngredient)
			r.Delete("/{id}", catalogH.DeleteIngredient)
			r.Post("/{id}/merge", catalogH.MergeIngredient)
		})
	})

	// Collection routes
	r.Route("/collections", func(r chi.Router) {
		r.Use(authenticate)
		r.Post("/", collectionH.CreateCollection)
		r.Get("/", collectionH.ListCollections)
		r.Get("/{id}", collectionH.GetCollection)
		r.Delete("/{id}", collectionH.DeleteCollection)
		r.Post("/{id}/recipes", collectionH.AddRecipe)
		r.Delete("/{id}/recipes/{recipeID}", collectionH.RemoveRecipe)
		r.Get("/{id}/shopping-list", collectionH.ShoppingList)
	})

	// Pantry routes
	r.Route("/pantry", func(r chi.Router) {
		r.Use(authenticate)
		r.Get("/", pantryH.ListItems)
		r.Post("/", pantryH.AddItem)
		r.Get("/expiring", pantryH.ExpiringItems)
		r.Get("/cookable", pantryH.CookableRecipes)
		r.Patch("/{id}", pantryH.UpdateItem)
		r.Delete("/{id}", pantryH.RemoveItem)
	})
}

// Handler returns the root handler
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start serves until the server is shut down. It returns nil after a
// graceful shutdown.
func (s *Server) Start(ctx context.Context) error {
	if s.limiter != nil {
		go s.limiter.Run(ctx)
	}

	s.logger.Info("Starting JSON API server", zap.String("address", s.server.Addr))
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down API server")
	return s.server.Shutdown(ctx)
}

// ShutdownTimeout is how long Shutdown may wait for in-flight requests
func (s *Server) ShutdownTimeout() time.Duration {
	if s.config.Server.ShutdownTimeout > 0 {
		return s.config.Server.ShutdownTimeout
	}
	return 30 * time.Second
}
