package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/machadoadv/lawsite/internal/core/auth"
	"github.com/machadoadv/lawsite/internal/shell/api"
	"github.com/machadoadv/lawsite/internal/shell/api/middleware"
	"github.com/machadoadv/lawsite/internal/shell/cache"
	"github.com/machadoadv/lawsite/internal/shell/contact"
	"github.com/machadoadv/lawsite/internal/shell/notify"
	"github.com/machadoadv/lawsite/internal/shell/posts"
	"github.com/machadoadv/lawsite/internal/shell/store"
)

// =============================================================================
// Exit Codes
// =============================================================================

const (
	ExitSuccess         = 0
	ExitConfigError     = 1
	ExitDatabaseError   = 2
	ExitCacheError      = 3
	ExitHTTPServerError = 4
)

// =============================================================================
// Server
// =============================================================================

// Server represents the site API server.
type Server struct {
	config     *Config
	httpServer *http.Server
	store      store.Store
	redis      *cache.Redis
	logger     *slog.Logger
}

// openStore opens the configured database, creating the SQLite data
// directory when needed.
func openStore(ctx context.Context, cfg *Config) (*store.SQLStore, error) {
	if isSQLite(cfg.Database.Driver) && cfg.Database.DSN != ":memory:" {
		if dir := filepath.Dir(cfg.Database.DSN); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, &ServerError{Op: "openStore", Err: err, ExitCode: ExitDatabaseError}
			}
		}
	}

	s, err := store.Open(ctx, cfg.Database.Driver, cfg.Database.DSN)
	if err != nil {
		return nil, &ServerError{Op: "openStore", Err: err, ExitCode: ExitDatabaseError}
	}
	return s, nil
}

// NewServer creates a new server with the given config.
func NewServer(ctx context.Context, cfg *Config, logger *slog.Logger) (*Server, error) {
	authCfg := middleware.AuthConfig{
		Mode:         cfg.Auth.Mode,
		SharedSecret: cfg.Auth.SharedSecret,
	}
	if cfg.Auth.Mode == middleware.ModeJWT {
		verifier, err := auth.NewTokenVerifier(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer)
		if err != nil {
			return nil, &ServerError{Op: "NewServer", Err: err, ExitCode: ExitConfigError}
		}
		authCfg.Verifier = verifier
	}
	if err := authCfg.Validate(); err != nil {
		return nil, &ServerError{Op: "NewServer", Err: err, ExitCode: ExitConfigError}
	}
	switch cfg.Auth.Mode {
	case middleware.ModeDev:
		logger.Warn("auth mode is dev: every request is treated as an administrator")
	case middleware.ModeNone, "":
		logger.Info("auth mode is none: administrative endpoints are unreachable")
	}

	// Connect to database
	s, err := openStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	postOpts := []posts.Option{posts.WithLogger(logger)}

	// Public listing cache
	var redisCache *cache.Redis
	var readyCache cache.Cache
	if cfg.Cache.Enabled {
		redisCache, err = cache.NewRedis(ctx, cache.Config{
			Addr:     cfg.Cache.RedisAddr,
			Password: cfg.Cache.Password,
			DB:       cfg.Cache.DB,
			TTL:      cfg.Cache.TTL,
		})
		if err != nil {
			s.Close()
			return nil, &ServerError{Op: "NewServer", Err: err, ExitCode: ExitCacheError}
		}
		readyCache = redisCache
		postOpts = append(postOpts, posts.WithCache(redisCache))
		logger.Info("public listing cache enabled", "ttl", cfg.Cache.TTL)
	} else {
		logger.Info("public listing cache disabled")
	}

	// Contact notifications
	var notifier notify.Notifier
	if cfg.Contact.NotificationsEnabled() {
		mailer, err := notify.NewMailer(notify.SMTPConfig{
			Host:     cfg.Contact.SMTPHost,
			Port:     cfg.Contact.SMTPPort,
			Username: cfg.Contact.SMTPUsername,
			Password: cfg.Contact.SMTPPassword,
			From:     cfg.Contact.SMTPFrom,
			To:       cfg.Contact.NotifyTo,
		})
		if err != nil {
			s.Close()
			if redisCache != nil {
				redisCache.Close()
			}
			return nil, &ServerError{Op: "NewServer", Err: err, ExitCode: ExitConfigError}
		}
		notifier = mailer
		logger.Info("contact notifications enabled", "recipients", len(cfg.Contact.NotifyTo))
	} else {
		logger.Info("contact notifications disabled")
	}

	handler := api.NewHandler(api.Config{
		Store:       s,
		Posts:       posts.NewService(s, postOpts...),
		Contact:     contact.NewService(s, notifier, logger),
		Cache:       readyCache,
		Auth:        authCfg,
		RateLimiter: middleware.NewRateLimiter(cfg.Contact.RatePerMinute, cfg.Contact.Burst, logger),
		Logger:      logger,
		Version:     Version,
		TrustProxy:  cfg.Server.TrustProxy,
	})

	// Create HTTP server
	httpServer := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      handler.Routes(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	return &Server{
		config:     cfg,
		httpServer: httpServer,
		store:      s,
		redis:      redisCache,
		logger:     logger,
	}, nil
}

// Start starts the server and blocks until shutdown.
func (s *Server) Start(ctx context.Context) error {
	// Setup signal handling
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	errCh := make(chan error, 1)

	// Start HTTP server in goroutine
	go func() {
		s.logger.Info("starting HTTP server",
			"address", s.config.Server.Address(),
			"database", s.config.Database.Driver)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// Wait for shutdown signal or error
	select {
	case sig := <-sigCh:
		s.logger.Info("received shutdown signal", "signal", sig)
	case err := <-errCh:
		s.closeResources()
		return &ServerError{
			Op:       "Start",
			Err:      err,
			ExitCode: ExitHTTPServerError,
		}
	case <-ctx.Done():
		s.logger.Info("context cancelled")
	}

	return s.Shutdown(context.Background())
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("initiating graceful shutdown")

	// Create shutdown context with timeout
	shutdownCtx, cancel := context.WithTimeout(ctx, s.config.Server.ShutdownTimeout)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		s.logger.Error("HTTP server shutdown error", "error", err)
	}

	s.closeResources()
	s.logger.Info("shutdown complete")
	return nil
}

func (s *Server) closeResources() {
	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			s.logger.Error("cache close error", "error", err)
		}
	}
	if err := s.store.Close(); err != nil {
		s.logger.Error("database close error", "error", err)
	}
}

// =============================================================================
// Server Error
// =============================================================================

// ServerError represents an error during server operation.
type ServerError struct {
	Op       string
	Err      error
	ExitCode int
}

func (e *ServerError) Error() string {
	return e.Op + ": " + e.Err.Error()
}

func (e *ServerError) Unwrap() error {
	return e.Err
}

// exitCode returns the exit code carried by err, or fallback.
func exitCode(err error, fallback int) int {
	var sErr *ServerError
	if errors.As(err, &sErr) {
		return sErr.ExitCode
	}
	return fallback
}
