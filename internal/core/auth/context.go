// Package auth provides the request-scoped caller identity and the
// authorization rules for the site's back office.
//
// Authentication itself belongs to an external session provider. This package
// only reads what the provider hands over: either gateway headers or a signed
// session token.
package auth

import (
	"context"
	"net/http"
	"strings"
)

// =============================================================================
// Context Key
// =============================================================================

type contextKey string

const authContextKey contextKey = "auth"

// =============================================================================
// Roles
// =============================================================================

const (
	// RoleAdmin is the role required for every write operation.
	RoleAdmin = "ADMIN"

	// RoleUser is the role of a signed-in visitor without back office access.
	RoleUser = "USER"
)

// =============================================================================
// Types
// =============================================================================

// Context represents the caller of a request.
type Context struct {
	// Subject is the session provider's user identifier.
	Subject string

	// Email and Name are informational and may be empty.
	Email string
	Name  string

	// Role is the caller's role, upper-cased (e.g. "ADMIN").
	Role string

	// Authenticated indicates whether the request carried a valid identity.
	Authenticated bool
}

// Anonymous returns an unauthenticated context.
func Anonymous() Context {
	return Context{Authenticated: false}
}

// =============================================================================
// Header Constants
// =============================================================================

const (
	// HeaderUserID is the header containing the authenticated user's ID
	HeaderUserID = "X-User-ID"

	// HeaderUserRole is the header containing the user's role
	HeaderUserRole = "X-User-Role"

	// HeaderUserEmail is the header containing the user's e-mail
	HeaderUserEmail = "X-User-Email"

	// HeaderGatewaySecret is the header containing the shared secret for validation
	HeaderGatewaySecret = "X-Gateway-Secret"

	// SessionCookie is the cookie the session provider sets for browsers.
	SessionCookie = "lawsite_session"
)

// =============================================================================
// Context Extraction
// =============================================================================

// HeaderGetter is an interface for getting header values.
// This allows testing without requiring an http.Request.
type HeaderGetter interface {
	Get(key string) string
}

// ExtractFromHeaders builds a context from gateway-injected headers.
// If X-User-ID is absent the context is unauthenticated.
func ExtractFromHeaders(headers HeaderGetter) Context {
	subject := strings.TrimSpace(headers.Get(HeaderUserID))
	if subject == "" {
		return Anonymous()
	}

	return Context{
		Subject:       subject,
		Email:         headers.Get(HeaderUserEmail),
		Role:          NormalizeRole(headers.Get(HeaderUserRole)),
		Authenticated: true,
	}
}

// SessionToken returns the session token carried by a request, preferring the
// Authorization header over the session cookie. Returns "" when there is none.
func SessionToken(r *http.Request) string {
	if token := BearerToken(r.Header.Get("Authorization")); token != "" {
		return token
	}
	if c, err := r.Cookie(SessionCookie); err == nil {
		return c.Value
	}
	return ""
}

// BearerToken extracts the token from an "Authorization: Bearer <token>" value.
func BearerToken(header string) string {
	const prefix = "Bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}

// NormalizeRole upper-cases and trims a role name.
func NormalizeRole(role string) string {
	return strings.ToUpper(strings.TrimSpace(role))
}

// =============================================================================
// Context Storage
// =============================================================================

// WithContext stores the auth context in the request context.
func WithContext(ctx context.Context, authCtx Context) context.Context {
	return context.WithValue(ctx, authContextKey, authCtx)
}

// FromContext retrieves the auth context from the request context.
// If no auth context is found, returns an unauthenticated context.
func FromContext(ctx context.Context) Context {
	if authCtx, ok := ctx.Value(authContextKey).(Context); ok {
		return authCtx
	}
	return Anonymous()
}

// =============================================================================
// Helper Types for Testing
// =============================================================================

// MapHeaderGetter wraps a map to implement HeaderGetter interface.
type MapHeaderGetter map[string]string

func (m MapHeaderGetter) Get(key string) string {
	return m[key]
}
