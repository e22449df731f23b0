package store

import (
	"context"

	"github.com/machadoadv/lawsite/internal/core/domain"
)

// =============================================================================
// Store Interface
// =============================================================================

// Store defines the persistence interface for the site's entities.
type Store interface {
	// Post operations. Posts returned by Get* and ListPosts carry their images.
	CreatePost(ctx context.Context, post *domain.Post) error
	GetPost(ctx context.Context, id string) (*domain.Post, error)
	GetPostBySlug(ctx context.Context, slug string) (*domain.Post, error)
	UpdatePost(ctx context.Context, post *domain.Post) error
	DeletePost(ctx context.Context, id string) error
	ListPosts(ctx context.Context, filter PostFilter) ([]domain.Post, error)

	// SlugTaken reports whether a post other than excludeID owns slug.
	// An empty excludeID excludes nothing.
	SlugTaken(ctx context.Context, slug, excludeID string) (bool, error)

	// Image operations
	CreateImages(ctx context.Context, images []domain.Image) error
	DeleteImage(ctx context.Context, id string) error
	DeleteImagesByPost(ctx context.Context, postID string) error
	ListImagesByPost(ctx context.Context, postID string) ([]domain.Image, error)

	// Contact request operations
	CreateContactMessage(ctx context.Context, msg *domain.ContactMessage) error
	ListContactMessages(ctx context.Context, opts ListOptions) ([]domain.ContactMessage, error)

	// Health
	Ping(ctx context.Context) error

	// Transaction support
	WithTx(ctx context.Context, fn func(Store) error) error

	// Lifecycle
	Close() error
}

// =============================================================================
// Options
// =============================================================================

// PostFilter selects which posts ListPosts returns. Results are always
// ordered by display order, then creation time.
type PostFilter struct {
	PublicOnly bool
}

// ListOptions defines pagination options.
type ListOptions struct {
	Limit  int
	Offset int
}

// DefaultListOptions returns default list options.
func DefaultListOptions() ListOptions {
	return ListOptions{
		Limit:  100,
		Offset: 0,
	}
}

// Normalize ensures list options have valid values.
func (o ListOptions) Normalize() ListOptions {
	if o.Limit <= 0 {
		o.Limit = 100
	}
	if o.Limit > 1000 {
		o.Limit = 1000
	}
	if o.Offset < 0 {
		o.Offset = 0
	}
	return o
}
