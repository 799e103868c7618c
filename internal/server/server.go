// Package server wires the application together: it owns the composition
// root where the database, repositories, services, handlers, and guard
// chains are assembled, and it maps the route table onto the router.
//
// Guard composition lives here and nowhere else. Looking at setupRoutes is
// looking at the complete authorization surface of the API: which routes
// authenticate, which resolve resources, which check ownership.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/sakif/catalog-service/internal/auth"
	"github.com/sakif/catalog-service/internal/config"
	"github.com/sakif/catalog-service/internal/handler"
	"github.com/sakif/catalog-service/internal/middleware"
	"github.com/sakif/catalog-service/internal/pipeline"
	"github.com/sakif/catalog-service/internal/repository/sqlite"
	"github.com/sakif/catalog-service/internal/service"
	"github.com/sakif/catalog-service/internal/validation"
)

// Server owns the router and the database handle. The database is closed
// during graceful shutdown.
type Server struct {
	router *chi.Mux
	config *config.Config
	logger *slog.Logger
	db     *sqlite.DB
}

// New assembles the full dependency graph and registers all routes.
func New(cfg *config.Config, logger *slog.Logger) (*Server, error) {
	db, err := sqlite.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Server{
		router: chi.NewRouter(),
		config: cfg,
		logger: logger,
		db:     db,
	}

	if err := s.setupRoutes(); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting up routes: %w", err)
	}

	return s, nil
}

// Handler exposes the router, mainly so tests can drive the full stack
// through httptest without binding a port.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Close releases the database. Start does this itself; Close exists for
// callers (tests) that never Start.
func (s *Server) Close() error {
	return s.db.Close()
}

func (s *Server) setupRoutes() error {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.Logger(s.logger))
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))

	tokens, err := auth.NewTokenService(s.config.JWTSecret)
	if err != nil {
		return fmt.Errorf("creating token service: %w", err)
	}
	passwords := auth.NewPasswordService()

	userRepo := sqlite.NewUserRepo(s.db)
	categoryRepo := sqlite.NewCategoryRepo(s.db)
	itemRepo := sqlite.NewItemRepo(s.db)

	userService := service.NewUserService(userRepo, tokens, passwords, s.logger)
	categoryService := service.NewCategoryService(categoryRepo, s.logger)
	itemService := service.NewItemService(itemRepo, s.logger)

	users := handler.NewUserHandler(userService)
	categories := handler.NewCategoryHandler(categoryService)
	items := handler.NewItemHandler(itemService)

	// Shared guards. The per-route chains below always compose them in the
	// same relative order: authenticate, resolve category, validate input,
	// resolve item, check ownership.
	authenticate := pipeline.Authenticate(tokens)
	resolveCategory := pipeline.ResolveCategory(categoryRepo)
	resolveItem := pipeline.ResolveItem(itemRepo)
	checkOwner := pipeline.CheckOwnership()

	endpoint := func(h pipeline.HandlerFunc, guards ...pipeline.Guard) http.HandlerFunc {
		return handler.Endpoint(pipeline.NewChain(h, guards...), s.logger)
	}

	s.router.Get("/health", handler.Health(s.logger))

	s.router.Post("/users/signup", endpoint(users.Signup,
		pipeline.ValidateInput(validation.Signup)))
	s.router.Post("/users/auth", endpoint(users.Authenticate,
		pipeline.ValidateInput(validation.Login)))

	s.router.Route("/categories", func(r chi.Router) {
		r.Get("/", endpoint(categories.List,
			pipeline.ValidateInput(validation.Pagination)))
		r.Post("/", endpoint(categories.Create,
			authenticate,
			pipeline.ValidateInput(validation.Category)))
		r.Get("/{category_id}", endpoint(categories.Get,
			resolveCategory))
		r.Delete("/{category_id}", endpoint(categories.Delete,
			authenticate,
			resolveCategory,
			checkOwner))

		r.Route("/{category_id}/items", func(r chi.Router) {
			r.Get("/", endpoint(items.List,
				resolveCategory,
				pipeline.ValidateInput(validation.Pagination)))
			r.Post("/", endpoint(items.Create,
				authenticate,
				resolveCategory,
				pipeline.ValidateInput(validation.Item),
				checkOwner))
			r.Get("/{item_id}", endpoint(items.Get,
				resolveCategory,
				resolveItem))
			r.Put("/{item_id}", endpoint(items.Update,
				authenticate,
				resolveCategory,
				pipeline.ValidateInput(validation.ItemUpdate),
				resolveItem,
				checkOwner))
			r.Delete("/{item_id}", endpoint(items.Delete,
				authenticate,
				resolveCategory,
				resolveItem,
				checkOwner))
		})
	})

	return nil
}

// Start runs the HTTP server until SIGINT/SIGTERM, then shuts down
// gracefully: stop accepting connections, give in-flight requests time to
// finish, close the database.
func (s *Server) Start() error {
	defer s.db.Close()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.config.Port),
			slog.String("database", s.config.DBPath),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}

	case sig := <-quit:
		s.logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}

	return nil
}
