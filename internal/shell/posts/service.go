package posts

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/machadoadv/lawsite/internal/core/domain"
	"github.com/machadoadv/lawsite/internal/shell/cache"
	"github.com/machadoadv/lawsite/internal/shell/store"
)

// =============================================================================
// Errors
// =============================================================================

var (
	// ErrPostNotFound is returned when a post does not exist or is not visible.
	ErrPostNotFound = errors.New("post not found")

	// ErrImageNotFound is returned when an image does not exist.
	ErrImageNotFound = errors.New("image not found")
)

// DefaultSlugAttempts bounds the write attempts when the store rejects an
// allocated slug as a duplicate.
const DefaultSlugAttempts = 3

// =============================================================================
// Inputs
// =============================================================================

// CreateInput holds the fields of a new post.
type CreateInput struct {
	Title       string
	Subtitle    *string
	Description *string
	Order       int
	Public      bool
	Images      []domain.ImageInput
}

// UpdateInput holds a post update. Nil pointers leave the stored value as is.
// Public is always applied and Images always replace the stored list.
type UpdateInput struct {
	ID          string
	Title       *string
	Subtitle    *string
	Description *string
	Order       *int
	Public      bool
	Images      []domain.ImageInput
}

// =============================================================================
// Service
// =============================================================================

// Service coordinates post writes and reads.
type Service struct {
	store        store.Store
	allocator    *Allocator
	cache        cache.Cache
	logger       *slog.Logger
	slugAttempts int
}

// Option configures a Service.
type Option func(*Service)

// WithCache sets the public listing cache.
func WithCache(c cache.Cache) Option {
	return func(s *Service) { s.cache = c }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// WithAllocator replaces the slug allocator.
func WithAllocator(a *Allocator) Option {
	return func(s *Service) { s.allocator = a }
}

// NewService creates a post service.
func NewService(st store.Store, opts ...Option) *Service {
	s := &Service{
		store:        st,
		allocator:    NewAllocator(),
		cache:        cache.Noop{},
		logger:       slog.Default(),
		slugAttempts: DefaultSlugAttempts,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create validates and persists a post with its images in one transaction.
func (s *Service) Create(ctx context.Context, in CreateInput) (*domain.Post, error) {
	post, err := domain.NewPost(in.Title, in.Subtitle, in.Description, in.Order, in.Public)
	if err != nil {
		return nil, err
	}
	if err := post.ReplaceImages(in.Images); err != nil {
		return nil, err
	}

	err = s.writeWithSlug(ctx, in.Title, "", func(tx store.Store, slug string) error {
		post.Slug = slug
		if err := tx.CreatePost(ctx, post); err != nil {
			return err
		}
		return tx.CreateImages(ctx, post.Images)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("post created", "post_id", post.ID, "slug", post.Slug, "images", len(post.Images))
	s.invalidate(ctx)
	return post, nil
}

// Update applies in to an existing post. The slug is recomputed only when a
// title is supplied, and the post never collides with its own slug.
func (s *Service) Update(ctx context.Context, in UpdateInput) (*domain.Post, error) {
	id := strings.TrimSpace(in.ID)
	if id == "" {
		return nil, domain.NewValidationError("id", domain.ErrPostIDRequired)
	}
	if in.Title != nil {
		if err := domain.ValidateTitle(*in.Title); err != nil {
			return nil, err
		}
	}
	if in.Order != nil {
		if err := domain.ValidateOrder(*in.Order); err != nil {
			return nil, err
		}
	}
	if err := domain.ValidateImages(in.Images); err != nil {
		return nil, err
	}

	var updated *domain.Post
	write := func(tx store.Store, slug string) error {
		post, err := tx.GetPost(ctx, id)
		if err != nil {
			return mapNotFound(err, ErrPostNotFound)
		}

		if in.Title != nil {
			post.Title = strings.TrimSpace(*in.Title)
			post.Slug = slug
		}
		if in.Subtitle != nil {
			post.Subtitle = in.Subtitle
		}
		if in.Description != nil {
			post.Description = in.Description
		}
		if in.Order != nil {
			post.Order = *in.Order
		}
		post.Public = in.Public
		if err := post.ReplaceImages(in.Images); err != nil {
			return err
		}
		post.Touch()

		if err := tx.UpdatePost(ctx, post); err != nil {
			return mapNotFound(err, ErrPostNotFound)
		}
		if err := tx.DeleteImagesByPost(ctx, post.ID); err != nil {
			return err
		}
		if err := tx.CreateImages(ctx, post.Images); err != nil {
			return err
		}
		updated = post
		return nil
	}

	var err error
	if in.Title != nil {
		err = s.writeWithSlug(ctx, *in.Title, id, write)
	} else {
		err = s.store.WithTx(ctx, func(tx store.Store) error {
			return write(tx, "")
		})
	}
	if err != nil {
		return nil, err
	}

	s.logger.Info("post updated", "post_id", updated.ID, "slug", updated.Slug, "images", len(updated.Images))
	s.invalidate(ctx)
	return updated, nil
}

// Delete removes a post's images and then the post, atomically.
func (s *Service) Delete(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return domain.NewValidationError("id", domain.ErrPostIDRequired)
	}

	err := s.store.WithTx(ctx, func(tx store.Store) error {
		if _, err := tx.GetPost(ctx, id); err != nil {
			return mapNotFound(err, ErrPostNotFound)
		}
		if err := tx.DeleteImagesByPost(ctx, id); err != nil {
			return err
		}
		return mapNotFound(tx.DeletePost(ctx, id), ErrPostNotFound)
	})
	if err != nil {
		return err
	}

	s.logger.Info("post deleted", "post_id", id)
	s.invalidate(ctx)
	return nil
}

// DeleteImage removes a single image, leaving its post in place.
func (s *Service) DeleteImage(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return domain.NewValidationError("id", domain.ErrImageIDRequired)
	}

	if err := s.store.DeleteImage(ctx, id); err != nil {
		return mapNotFound(err, ErrImageNotFound)
	}

	s.logger.Info("image deleted", "image_id", id)
	s.invalidate(ctx)
	return nil
}

// ListPublic returns the public posts by display order, from cache when possible.
// The cache generation is read before the store so that a listing raced by a
// write is filed under a generation nobody reads anymore.
func (s *Service) ListPublic(ctx context.Context) ([]domain.Post, error) {
	gen, genErr := s.cache.Generation(ctx)
	if genErr != nil {
		s.logger.Warn("public listing cache unavailable", "error", genErr)
	} else if cached, ok, err := s.cache.PublicPosts(ctx, gen); err != nil {
		s.logger.Warn("public listing cache read failed", "error", err)
	} else if ok {
		return domain.FilterPublic(cached), nil
	}

	posts, err := s.store.ListPosts(ctx, store.PostFilter{PublicOnly: true})
	if err != nil {
		return nil, err
	}
	posts = domain.FilterPublic(posts)

	if genErr == nil {
		if err := s.cache.SetPublicPosts(ctx, gen, posts); err != nil {
			s.logger.Warn("public listing cache write failed", "error", err)
		}
	}
	return posts, nil
}

// ListAll returns every post, drafts included, by display order.
func (s *Service) ListAll(ctx context.Context) ([]domain.Post, error) {
	return s.store.ListPosts(ctx, store.PostFilter{})
}

// GetPublicBySlug returns a public post. Drafts are reported as not found.
func (s *Service) GetPublicBySlug(ctx context.Context, slug string) (*domain.Post, error) {
	post, err := s.store.GetPostBySlug(ctx, strings.TrimSpace(slug))
	if err != nil {
		return nil, mapNotFound(err, ErrPostNotFound)
	}
	if !post.Public {
		return nil, ErrPostNotFound
	}
	return post, nil
}

// ImagesForPost returns the images owned by a post, in position order.
func (s *Service) ImagesForPost(ctx context.Context, postID string) ([]domain.Image, error) {
	return s.store.ListImagesByPost(ctx, postID)
}

// =============================================================================
// Internals
// =============================================================================

// writeWithSlug allocates a slug for title and runs write in one transaction.
// If the store rejects the slug because a concurrent writer took it, the
// allocation resumes after the rejected counter.
func (s *Service) writeWithSlug(ctx context.Context, title, excludeID string, write func(tx store.Store, slug string) error) error {
	start := 1
	for attempt := 1; ; attempt++ {
		var alloc Allocation
		err := s.store.WithTx(ctx, func(tx store.Store) error {
			var err error
			alloc, err = s.allocator.AllocateFrom(ctx, tx, title, excludeID, start)
			if err != nil {
				return err
			}
			return write(tx, alloc.Slug)
		})
		if err == nil {
			return nil
		}
		if !errors.Is(err, store.ErrDuplicateSlug) || attempt >= s.slugAttempts {
			return err
		}

		s.logger.Warn("slug claimed concurrently, retrying",
			"slug", alloc.Slug,
			"attempt", attempt,
		)
		start = alloc.Counter + 1
	}
}

func (s *Service) invalidate(ctx context.Context) {
	if err := s.cache.Invalidate(ctx); err != nil {
		s.logger.Warn("public listing cache invalidation failed", "error", err)
	}
}

// mapNotFound replaces store.ErrNotFound with target and passes other errors through.
func mapNotFound(err, target error) error {
	if errors.Is(err, store.ErrNotFound) {
		return target
	}
	return err
}
