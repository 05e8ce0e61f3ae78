package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/imtiaz478/Sellora-full/internal/auth"
	"github.com/imtiaz478/Sellora-full/internal/config"
	"github.com/imtiaz478/Sellora-full/internal/http/handlers"
	"github.com/imtiaz478/Sellora-full/internal/http/respond"
	"github.com/imtiaz478/Sellora-full/internal/middleware"
	"github.com/imtiaz478/Sellora-full/internal/storage"
)

// Server wraps an http.Server with configured routes.
type Server struct {
	inner *http.Server
}

// New wires up middleware, routes, and returns a ready server.
func New(cfg config.Config, store storage.Store, revoker auth.Revoker, logger *slog.Logger) *Server {
	tokenManager := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTTTL)
	authService := auth.NewService(store, tokenManager, revoker)

	httpServer := &http.Server{
		Addr:              cfg.HTTPAddress(),
		Handler:           NewRouter(cfg, authService, store, logger),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
		ErrorLog:          slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	return &Server{inner: httpServer}
}

// NewRouter builds the full route tree.
func NewRouter(cfg config.Config, authService *auth.Service, store storage.TransactionStore, logger *slog.Logger) http.Handler {
	requireAuth := middleware.RequireAuth(authService, logger)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Logging(logger))
	r.Use(chimw.Recoverer)
	r.Use(middleware.CORS(cfg.CORSOrigins))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		respond.Error(w, http.StatusNotFound, "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		respond.Error(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	handlers.NewHealthHandler(time.Now()).Routes(r)

	authHandler := handlers.NewAuthHandler(authService, logger)
	transactionHandler := handlers.NewTransactionHandler(store, logger)
	r.Route("/api", func(r chi.Router) {
		authHandler.Routes(r, requireAuth)
		r.Route("/transactions", func(r chi.Router) {
			r.Use(requireAuth)
			transactionHandler.Routes(r)
		})
	})

	return r
}

// Start begins serving HTTP traffic.
func (s *Server) Start() error {
	return s.inner.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.inner.Shutdown(ctx)
}
