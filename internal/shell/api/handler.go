// Package api provides HTTP handlers for the site API.
package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	apimw "github.com/machadoadv/lawsite/internal/shell/api/middleware"
	"github.com/machadoadv/lawsite/internal/shell/api/openapi"
	"github.com/machadoadv/lawsite/internal/shell/cache"
	"github.com/machadoadv/lawsite/internal/shell/contact"
	"github.com/machadoadv/lawsite/internal/shell/posts"
	"github.com/machadoadv/lawsite/internal/shell/store"
)

// readyTimeout bounds each dependency check of /ready.
const readyTimeout = 2 * time.Second

// =============================================================================
// Handler
// =============================================================================

// Config holds the handler's dependencies.
type Config struct {
	Store   store.Store
	Posts   *posts.Service
	Contact *contact.Service

	// Cache is pinged by /ready. Nil means no cache is in use.
	Cache cache.Cache

	Auth        apimw.AuthConfig
	RateLimiter *apimw.RateLimiter
	Logger      *slog.Logger
	Version     string

	// TrustProxy takes the client address from X-Forwarded-For / X-Real-IP.
	// Only set it when a reverse proxy in front of the API overwrites those
	// headers; otherwise clients choose their own address.
	TrustProxy bool
}

// Handler provides HTTP handlers for the API.
type Handler struct {
	store   store.Store
	posts   *posts.Service
	contact *contact.Service
	cache   cache.Cache
	auth    *apimw.AuthMiddleware
	limiter *apimw.RateLimiter
	openapi *openapi.Generator
	logger  *slog.Logger

	trustProxy bool
}

// NewHandler creates a new API handler. Missing services are built on top of
// the store with defaults.
func NewHandler(cfg Config) *Handler {
	l := cfg.Logger
	if l == nil {
		l = slog.Default()
	}
	cfg.Auth.Logger = l

	h := &Handler{
		store:   cfg.Store,
		posts:   cfg.Posts,
		contact: cfg.Contact,
		cache:   cfg.Cache,
		auth:    apimw.NewAuthMiddleware(cfg.Auth),
		limiter: cfg.RateLimiter,
		logger:  l,

		trustProxy: cfg.TrustProxy,
	}
	if h.posts == nil {
		h.posts = posts.NewService(cfg.Store, posts.WithLogger(l))
	}
	if h.contact == nil {
		h.contact = contact.NewService(cfg.Store, nil, l)
	}
	if h.limiter == nil {
		h.limiter = apimw.NewRateLimiter(0, 0, l)
	}

	version := cfg.Version
	if version == "" {
		version = "dev"
	}
	h.openapi = openapi.NewGenerator(openapi.WithVersion(version))
	h.openapi.Register(apiOperations()...)
	return h
}

// Routes returns the router with all routes configured.
func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	if h.trustProxy {
		r.Use(middleware.RealIP)
	}
	r.Use(h.accessLog)
	r.Use(middleware.Recoverer)
	r.Use(h.jsonContentType)
	r.Use(h.requestIDHeader)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		h.writeJSON(w, http.StatusNotFound, ErrorResponse{Message: "route not found"})
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		h.writeJSON(w, http.StatusMethodNotAllowed, ErrorResponse{Message: "method not allowed"})
	})

	// Health endpoints
	r.Get("/health", h.handleHealth)
	r.Get("/ready", h.handleReady)
	r.Get("/openapi.json", h.openapi.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Use(h.auth.Handler)

		r.HandleFunc("/crud/blog", h.handleBlog)
		r.Get("/blog/{slug}", h.serve(h.getPostBySlug))

		r.Route("/contact", func(r chi.Router) {
			r.With(h.limiter.Handler).Post("/", h.serve(h.submitContact))
			r.With(apimw.RequireAdmin(h.logger)).Get("/", h.serve(h.listContact))
		})
	})

	return r
}

// =============================================================================
// Middleware
// =============================================================================

// jsonContentType sets Content-Type header to application/json.
func (h *Handler) jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		next.ServeHTTP(w, r)
	})
}

// requestIDHeader copies the request ID to the response header.
func (h *Handler) requestIDHeader(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if reqID := middleware.GetReqID(r.Context()); reqID != "" {
			w.Header().Set("X-Request-ID", reqID)
		}
		next.ServeHTTP(w, r)
	})
}

// accessLog logs one line per request.
func (h *Handler) accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)

		h.logger.Info("http request",
			"request_id", middleware.GetReqID(r.Context()),
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"remote_addr", r.RemoteAddr,
		)
	})
}

// =============================================================================
// Health Handlers
// =============================================================================

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, HealthResponse{Status: "healthy"})
}

func (h *Handler) handleReady(w http.ResponseWriter, r *http.Request) {
	checks := make(map[string]string)
	ready := true

	check := func(name string, ping func(context.Context) error) {
		ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
		defer cancel()
		if err := ping(ctx); err != nil {
			h.logger.Warn("readiness check failed", "check", name, "error", err)
			checks[name] = "failed"
			ready = false
			return
		}
		checks[name] = "ok"
	}

	check("database", h.store.Ping)
	if h.cache != nil {
		check("cache", h.cache.Ping)
	}

	if !ready {
		h.writeJSON(w, http.StatusServiceUnavailable, ReadyResponse{
			Status: "not_ready",
			Checks: checks,
		})
		return
	}

	h.writeJSON(w, http.StatusOK, ReadyResponse{
		Status: "ready",
		Checks: checks,
	})
}

// =============================================================================
// Helpers
// =============================================================================

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("failed to encode JSON", "error", err)
	}
}
