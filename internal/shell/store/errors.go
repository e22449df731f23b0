// Package store provides persistence for posts, their images and contact requests.
package store

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// =============================================================================
// Error Types
// =============================================================================

var (
	// ErrNotFound is returned when an entity is not found.
	ErrNotFound = errors.New("entity not found")

	// ErrDuplicateID is returned when creating an entity with an existing ID.
	ErrDuplicateID = errors.New("entity with this ID already exists")

	// ErrDuplicateSlug is returned when a post slug is already owned by another post.
	ErrDuplicateSlug = errors.New("post with this slug already exists")

	// ErrForeignKey is returned when a foreign key constraint is violated.
	ErrForeignKey = errors.New("foreign key constraint violated")

	// ErrConnectionFailed is returned when database connection fails.
	ErrConnectionFailed = errors.New("database connection failed")

	// ErrMigrationFailed is returned when database migration fails.
	ErrMigrationFailed = errors.New("database migration failed")

	// ErrUnsupportedDriver is returned for a database driver this package cannot open.
	ErrUnsupportedDriver = errors.New("unsupported database driver")

	// ErrTxFailed is returned when a transaction operation fails.
	ErrTxFailed = errors.New("transaction failed")
)

// StoreError wraps errors with additional context.
type StoreError struct {
	Op      string // Operation that failed (e.g., "CreatePost")
	Entity  string // Entity type (e.g., "post", "image")
	ID      string // Entity ID if applicable
	Message string
	Err     error
}

func (e *StoreError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("%s %s %s: %s", e.Op, e.Entity, e.ID, e.Message)
	}
	if e.Entity != "" {
		return fmt.Sprintf("%s %s: %s", e.Op, e.Entity, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Message)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// NewStoreError creates a new StoreError.
func NewStoreError(op, entity, id, message string, err error) *StoreError {
	return &StoreError{
		Op:      op,
		Entity:  entity,
		ID:      id,
		Message: message,
		Err:     err,
	}
}

// =============================================================================
// Constraint Detection
// =============================================================================

// constraint names a uniqueness or reference rule as each backend reports it.
type constraint struct {
	sqlite   string // e.g. "posts.slug" in "UNIQUE constraint failed: posts.slug"
	postgres string // constraint or index name
}

var (
	postsPrimaryKey   = constraint{sqlite: "posts.id", postgres: "posts_pkey"}
	postsSlugIndex    = constraint{sqlite: "posts.slug", postgres: "idx_posts_slug"}
	imagesPrimaryKey  = constraint{sqlite: "images.id", postgres: "images_pkey"}
	contactPrimaryKey = constraint{sqlite: "contact_messages.id", postgres: "contact_messages_pkey"}
)

// isUniqueViolation reports whether err is a unique violation of c.
func isUniqueViolation(err error, c constraint) bool {
	if err == nil {
		return false
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" && pgErr.ConstraintName == c.postgres
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed: "+c.sqlite)
}

// isForeignKeyViolation reports whether err is a foreign key violation.
func isForeignKeyViolation(err error) bool {
	if err == nil {
		return false
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23503"
	}
	return strings.Contains(err.Error(), "FOREIGN KEY constraint failed")
}
