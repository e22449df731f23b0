// Package domain contains the core domain types and validation logic.
// This is part of the Functional Core - all functions are pure with no I/O.
package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// Errors
// =============================================================================

var (
	// Post validation errors
	ErrTitleRequired  = errors.New("title is required")
	ErrTitleTooLong   = errors.New("title must be at most 200 characters")
	ErrPostIDRequired = errors.New("post id is required")
	ErrOrderNegative  = errors.New("order cannot be negative")

	// Image validation errors
	ErrImageURLRequired = errors.New("image url is required")
	ErrImageIDRequired  = errors.New("image id is required")
)

// MaxTitleLength is the longest title accepted for a post.
const MaxTitleLength = 200

// ValidationError reports which input field failed validation.
type ValidationError struct {
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// NewValidationError creates a ValidationError for a field.
func NewValidationError(field string, err error) *ValidationError {
	return &ValidationError{Field: field, Err: err}
}

// =============================================================================
// Image
// =============================================================================

// Image is a picture attached to a post.
type Image struct {
	ID        string    `json:"id"`
	PostID    string    `json:"post_id"`
	Caption   *string   `json:"caption,omitempty"`
	URL       string    `json:"url"`
	Position  int       `json:"position"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ImageInput is the caller-supplied part of an image.
type ImageInput struct {
	Caption *string
	URL     string
}

// =============================================================================
// Post
// =============================================================================

// Post is a blog post published on the firm's site.
type Post struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Slug        string    `json:"slug"`
	Subtitle    *string   `json:"subtitle,omitempty"`
	Description *string   `json:"description,omitempty"`
	Order       int       `json:"order"`
	Public      bool      `json:"public"`
	Images      []Image   `json:"images"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewPost creates a post with a fresh ID. The slug is assigned by the caller.
func NewPost(title string, subtitle, description *string, order int, public bool) (*Post, error) {
	if err := ValidateTitle(title); err != nil {
		return nil, err
	}
	if err := ValidateOrder(order); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	return &Post{
		ID:          uuid.New().String(),
		Title:       strings.TrimSpace(title),
		Subtitle:    subtitle,
		Description: description,
		Order:       order,
		Public:      public,
		Images:      []Image{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// ReplaceImages sets the post's images to exactly the given inputs, in order.
// Every image gets a new ID.
func (p *Post) ReplaceImages(inputs []ImageInput) error {
	if err := ValidateImages(inputs); err != nil {
		return err
	}

	now := time.Now().UTC()
	images := make([]Image, 0, len(inputs))
	for i, in := range inputs {
		images = append(images, Image{
			ID:        uuid.New().String(),
			PostID:    p.ID,
			Caption:   in.Caption,
			URL:       strings.TrimSpace(in.URL),
			Position:  i,
			CreatedAt: now,
			UpdatedAt: now,
		})
	}
	p.Images = images
	return nil
}

// Touch bumps the update timestamp.
func (p *Post) Touch() {
	p.UpdatedAt = time.Now().UTC()
}

// =============================================================================
// Validation Functions (Pure)
// =============================================================================

// ValidateTitle validates a post title.
func ValidateTitle(title string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return NewValidationError("title", ErrTitleRequired)
	}
	if len([]rune(title)) > MaxTitleLength {
		return NewValidationError("title", ErrTitleTooLong)
	}
	return nil
}

// ValidateOrder validates a display order.
func ValidateOrder(order int) error {
	if order < 0 {
		return NewValidationError("order", ErrOrderNegative)
	}
	return nil
}

// ValidateImages validates a list of image inputs.
func ValidateImages(inputs []ImageInput) error {
	for _, in := range inputs {
		if strings.TrimSpace(in.URL) == "" {
			return NewValidationError("items", ErrImageURLRequired)
		}
	}
	return nil
}

// FilterPublic returns the posts flagged public, keeping their order.
func FilterPublic(posts []Post) []Post {
	out := make([]Post, 0, len(posts))
	for _, p := range posts {
		if p.Public {
			out = append(out, p)
		}
	}
	return out
}
