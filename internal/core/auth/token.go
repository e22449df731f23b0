package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrTokenMissing is returned when no token was supplied.
	ErrTokenMissing = errors.New("session token missing")

	// ErrTokenInvalid is returned when a token fails verification.
	ErrTokenInvalid = errors.New("session token invalid")

	// ErrSecretRequired is returned when a verifier is built without a secret.
	ErrSecretRequired = errors.New("token secret is required")
)

// Claims is the payload of a session token issued by the session provider.
type Claims struct {
	Role  string `json:"role"`
	Email string `json:"email,omitempty"`
	Name  string `json:"name,omitempty"`
	jwt.RegisteredClaims
}

// TokenVerifier verifies HS256 session tokens with a shared secret.
type TokenVerifier struct {
	secret []byte
	issuer string
}

// NewTokenVerifier creates a verifier. issuer is optional; when set, tokens
// from other issuers are rejected.
func NewTokenVerifier(secret, issuer string) (*TokenVerifier, error) {
	if secret == "" {
		return nil, ErrSecretRequired
	}
	return &TokenVerifier{secret: []byte(secret), issuer: issuer}, nil
}

// Verify parses a token and returns the caller context it describes.
func (v *TokenVerifier) Verify(token string) (Context, error) {
	if token == "" {
		return Anonymous(), ErrTokenMissing
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}

	var claims Claims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return v.secret, nil
	}, opts...)
	if err != nil || !parsed.Valid {
		return Anonymous(), fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}
	if claims.Subject == "" {
		return Anonymous(), fmt.Errorf("%w: subject missing", ErrTokenInvalid)
	}

	return Context{
		Subject:       claims.Subject,
		Email:         claims.Email,
		Name:          claims.Name,
		Role:          NormalizeRole(claims.Role),
		Authenticated: true,
	}, nil
}

// Sign issues a token for a subject. It is used for local development and
// tests; production tokens come from the session provider.
func (v *TokenVerifier) Sign(subject, role string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		Role: NormalizeRole(role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			Issuer:    v.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(v.secret)
}
