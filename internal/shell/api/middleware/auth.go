// Package middleware provides HTTP middleware for the site API.
package middleware

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/machadoadv/lawsite/internal/core/auth"
)

// =============================================================================
// Auth Configuration
// =============================================================================

// Auth modes.
const (
	// ModeHeader trusts identity headers injected by a gateway in front of the API.
	ModeHeader = "header"

	// ModeJWT verifies session tokens issued by the session provider.
	ModeJWT = "jwt"

	// ModeDev treats every request as an administrator. Local development only.
	ModeDev = "dev"

	// ModeNone treats every request as anonymous.
	ModeNone = "none"
)

var (
	// ErrUnknownMode is returned for an unrecognized auth mode.
	ErrUnknownMode = errors.New("unknown auth mode")

	// ErrSharedSecretRequired is returned for header mode without a shared
	// secret: identity headers are only trusted from the gateway.
	ErrSharedSecretRequired = errors.New("header auth mode requires a shared secret")
)

// AuthConfig holds configuration for the auth middleware.
type AuthConfig struct {
	// Mode selects how the caller is identified. Defaults to ModeNone.
	Mode string

	// SharedSecret must match the X-Gateway-Secret header in header mode.
	SharedSecret string

	// Verifier checks session tokens in jwt mode.
	Verifier *auth.TokenVerifier

	// Logger for auth middleware logging.
	Logger *slog.Logger
}

// Validate checks that the configuration is usable.
func (c AuthConfig) Validate() error {
	switch c.Mode {
	case "", ModeDev, ModeNone:
		return nil
	case ModeHeader:
		if c.SharedSecret == "" {
			return ErrSharedSecretRequired
		}
		return nil
	case ModeJWT:
		if c.Verifier == nil {
			return auth.ErrSecretRequired
		}
		return nil
	default:
		return ErrUnknownMode
	}
}

// =============================================================================
// Auth Middleware
// =============================================================================

// AuthMiddleware identifies the caller and stores an auth.Context in the
// request context. It never rejects a request for lacking an identity;
// endpoints decide what an anonymous caller may do.
type AuthMiddleware struct {
	config AuthConfig
}

// NewAuthMiddleware creates a new auth middleware with the given config.
func NewAuthMiddleware(cfg AuthConfig) *AuthMiddleware {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Mode == "" {
		cfg.Mode = ModeNone
	}
	return &AuthMiddleware{config: cfg}
}

// Handler returns the middleware handler function.
func (m *AuthMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var ctx auth.Context

		switch m.config.Mode {
		case ModeNone:
			ctx = auth.Anonymous()

		case ModeDev:
			ctx = auth.Context{
				Subject:       "dev-admin",
				Name:          "Development Admin",
				Role:          auth.RoleAdmin,
				Authenticated: true,
			}

		case ModeJWT:
			ctx = m.fromToken(r)

		case ModeHeader:
			// Without a configured secret nothing proves the request came
			// through the gateway, so the headers are never trusted.
			secret := m.config.SharedSecret
			if secret == "" || r.Header.Get(auth.HeaderGatewaySecret) != secret {
				m.config.Logger.Warn("invalid gateway secret",
					"remote_addr", r.RemoteAddr,
					"path", r.URL.Path,
				)
				WriteJSONError(w, http.StatusForbidden, "invalid gateway secret")
				return
			}
			ctx = auth.ExtractFromHeaders(r.Header)

		default:
			ctx = auth.Anonymous()
		}

		// Store in request context
		r = r.WithContext(auth.WithContext(r.Context(), ctx))

		next.ServeHTTP(w, r)
	})
}

func (m *AuthMiddleware) fromToken(r *http.Request) auth.Context {
	if m.config.Verifier == nil {
		return auth.Anonymous()
	}
	token := auth.SessionToken(r)
	if token == "" {
		return auth.Anonymous()
	}

	ctx, err := m.config.Verifier.Verify(token)
	if err != nil {
		m.config.Logger.Debug("session token rejected",
			"remote_addr", r.RemoteAddr,
			"path", r.URL.Path,
			"error", err,
		)
		return auth.Anonymous()
	}
	return ctx
}

// =============================================================================
// Require Admin Middleware
// =============================================================================

// RequireAdmin is a middleware that requires an administrator.
// Must be used AFTER AuthMiddleware.
func RequireAdmin(logger *slog.Logger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := auth.FromContext(r.Context())

			if !auth.IsAdmin(ctx) {
				logger.Warn("unauthorized request to admin endpoint",
					"remote_addr", r.RemoteAddr,
					"path", r.URL.Path,
					"method", r.Method,
					"subject", ctx.Subject,
				)
				WriteJSONError(w, http.StatusUnauthorized, auth.DenialReason(ctx))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// =============================================================================
// JSON Error Response
// =============================================================================

// ErrorBody is the error envelope shared by every endpoint.
type ErrorBody struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

// WriteJSONError writes an error envelope.
func WriteJSONError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(ErrorBody{Success: false, Message: message})
}
