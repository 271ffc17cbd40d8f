// Package server sets up the HTTP server, router, and all route definitions.
//
// This package is the "wiring" layer. It decides which URL patterns map to
// which handlers, which middleware runs on which routes, and how the server
// starts and stops.
//
// DEPENDENCY INJECTION FLOW:
//
//	main.go: config.Load → slog logger → server.New
//	server.New: sqlite.DB → services → handlers → routes
//
// This is the "composition root" pattern: every dependency is wired here,
// not scattered across the codebase.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sakif/pitchhub/internal/auth"
	"github.com/sakif/pitchhub/internal/config"
	"github.com/sakif/pitchhub/internal/handler"
	"github.com/sakif/pitchhub/internal/middleware"
	sqliteRepo "github.com/sakif/pitchhub/internal/repository/sqlite"
	"github.com/sakif/pitchhub/internal/service"
)

// Server represents the HTTP server and all its dependencies.
//
// RESOURCE MANAGEMENT:
// The Server owns the database connection. Start closes it on the way out,
// after in-flight requests have drained.
type Server struct {
	router *chi.Mux
	config *config.Config
	logger *slog.Logger
	db     *sqliteRepo.DB
}

// New opens the database, builds every service and handler, and mounts the
// routes. The bootstrap admin from cfg.Admin is created if missing.
//
// IMPORT ALIAS:
// repository/sqlite is imported as sqliteRepo so it is not confused with the
// modernc.org/sqlite driver.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Server, error) {
	db, err := sqliteRepo.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Server{
		router: chi.NewRouter(),
		config: cfg,
		logger: logger,
		db:     db,
	}

	if err := s.setupRoutes(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting up routes: %w", err)
	}
	return s, nil
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Close releases the database. Start calls it itself; use Close only when
// the server was never started.
func (s *Server) Close() error {
	return s.db.Close()
}

// setupRoutes configures all middleware and route handlers.
//
// MIDDLEWARE ORDER MATTERS:
//  1. RequestID: assigns a unique ID to each request (logged by Logger)
//  2. RealIP: extracts the client IP from proxy headers
//  3. Logger: logs each request and records its latency histogram
//  4. Recoverer: turns panics into 500s; sits inside Logger so the 500 is logged
//
// AUTH:
// Public reads use OptionalAuth so a signed-in viewer gets likedByMe.
// Everything that writes or reads private data sits behind RequireAuth.
func (s *Server) setupRoutes(ctx context.Context) error {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(middleware.Logger(s.logger))
	s.router.Use(chimiddleware.Recoverer)

	tokens, err := auth.NewTokenService(s.config.JWTSecret, s.config.TokenTTL)
	if err != nil {
		return fmt.Errorf("creating token service: %w", err)
	}

	// DEPENDENCY CHAIN:
	//   s.db implements every repository interface
	//   services receive the interfaces, handlers receive the services
	notifier := service.NewNotifier(s.db, s.logger)
	authService := service.NewAuthService(s.db, tokens, auth.NewPasswordService(), s.logger)
	pitchService := service.NewPitchService(s.db, s.db, s.db, s.db, s.logger)
	interactionService := service.NewInteractionService(s.db, s.db, s.db, s.db, notifier, s.logger)
	messagingService := service.NewMessagingService(s.db, s.db, notifier, s.logger)
	unreadService := service.NewUnreadService(s.db, s.db, s.logger)
	adminService := service.NewAdminService(s.db, s.db, s.logger)

	if err := authService.EnsureAdmin(ctx, s.config.Admin.Username, s.config.Admin.Password); err != nil {
		return fmt.Errorf("bootstrapping admin: %w", err)
	}

	authHandler := handler.NewAuthHandler(authService, unreadService, tokens.TTL(), !s.config.IsDevelopment(), s.logger)
	pitchHandler := handler.NewPitchHandler(pitchService, s.logger)
	interactionHandler := handler.NewInteractionHandler(interactionService, s.logger)
	messageHandler := handler.NewMessageHandler(messagingService, s.logger)
	notificationHandler := handler.NewNotificationHandler(unreadService, s.logger)
	adminHandler := handler.NewAdminHandler(adminService, s.logger)

	// === Operational Routes ===
	s.router.Get("/healthz", s.handleHealth)
	s.router.Handle("/metrics", promhttp.Handler())

	// === API Routes ===
	s.router.Route("/api", func(r chi.Router) {
		r.Post("/auth/register", authHandler.HandleRegister)
		r.Post("/auth/login", authHandler.HandleLogin)
		r.Post("/auth/logout", authHandler.HandleLogout)

		// Public reads
		r.Group(func(r chi.Router) {
			r.Use(auth.OptionalAuth(tokens))
			r.Get("/pitches", pitchHandler.HandleList)
			r.Get("/pitches/{id}", pitchHandler.HandleGet)
			r.Get("/pitches/{id}/comments", interactionHandler.HandleListComments)
		})

		// Authenticated
		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAuth(tokens))

			r.Get("/me", authHandler.HandleMe)
			r.Get("/me/counts", authHandler.HandleCounts)
			r.Get("/me/pitches", pitchHandler.HandleMine)

			r.Post("/pitches", pitchHandler.HandleCreate)
			r.Delete("/pitches/{id}", pitchHandler.HandleDelete)
			r.Post("/pitches/{id}/like", interactionHandler.HandleToggleLike)
			r.Post("/pitches/{id}/comments", interactionHandler.HandleAddComment)
			r.Delete("/comments/{id}", interactionHandler.HandleDeleteComment)

			r.Get("/messages", messageHandler.HandleList)
			r.Post("/messages", messageHandler.HandleSend)
			r.Get("/messages/{id}", messageHandler.HandleGet)
			r.Post("/messages/{id}/read", messageHandler.HandleMarkRead)

			r.Get("/notifications", notificationHandler.HandleList)
			r.Post("/notifications/read-all", notificationHandler.HandleMarkAllRead)
			r.Post("/notifications/{id}/read", notificationHandler.HandleMarkRead)
			r.Delete("/notifications/{id}", notificationHandler.HandleDelete)

			r.Route("/admin", func(r chi.Router) {
				r.Get("/users", adminHandler.HandleListUsers)
				r.Put("/users/{id}/role", adminHandler.HandleSetRole)
				r.Delete("/users/{id}", adminHandler.HandleDeleteUser)
				r.Get("/stats", adminHandler.HandleStats)
			})
		})
	})

	return nil
}

// handleHealth reports 200 when the database answers a ping, 503 otherwise.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	w.Header().Set("Content-Type", "application/json")
	if err := s.db.Ping(ctx); err != nil {
		s.logger.Error("health check failed", slog.String("error", err.Error()))
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"status":"unavailable"}` + "\n"))
		return
	}
	_, _ = w.Write([]byte(`{"status":"ok"}` + "\n"))
}

// Start serves until SIGINT/SIGTERM, then shuts down gracefully.
//
// GRACEFUL SHUTDOWN:
//  1. Stop accepting new HTTP connections
//  2. Wait up to 30s for in-flight requests to finish
//  3. Close the database connection (flushes WAL, releases the file lock)
func (s *Server) Start() error {
	defer s.db.Close()

	srv := &http.Server{
		Addr:         s.config.Addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info("server starting",
			slog.String("addr", s.config.Addr),
			slog.String("database", s.config.DBPath),
			slog.String("env", s.config.Env),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
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
