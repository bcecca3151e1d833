package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/spendlite/spendlite-be/internal/auth"
	"github.com/spendlite/spendlite-be/internal/config"
	"github.com/spendlite/spendlite-be/internal/http/handlers"
	"github.com/spendlite/spendlite-be/internal/middleware"
	"github.com/spendlite/spendlite-be/internal/storage"
)

// Server wraps an http.Server with configured routes.
type Server struct {
	inner *http.Server
}

// New wires up middleware, routes, and returns a ready server.
func New(cfg config.Config, store storage.Store) *Server {
	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTIssuer, cfg.AccessTTL, cfg.RefreshTTL)

	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	health := handlers.NewHealthHandler(time.Now())
	health.Register(r)

	authHandler := handlers.NewAuthHandler(store, tokens)
	expenseHandler := handlers.NewExpenseHandler(store)
	categoryHandler := handlers.NewCategoryHandler(store)

	r.Route("/api", func(api chi.Router) {
		authHandler.Register(api)
		api.Group(func(protected chi.Router) {
			protected.Use(middleware.Auth(tokens))
			authHandler.RegisterProtected(protected)
			expenseHandler.Register(protected)
			categoryHandler.Register(protected)
		})
	})

	httpServer := &http.Server{
		Addr:              cfg.HTTPAddress(),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	return &Server{inner: httpServer}
}

// Handler exposes the configured route tree, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.inner.Handler
}

// Start begins serving HTTP traffic.
func (s *Server) Start() error {
	return s.inner.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.inner.Shutdown(ctx)
}
