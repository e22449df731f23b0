package api

import (
	"encoding/json"
	"time"

	"github.com/machadoadv/lawsite/internal/core/domain"
)

// =============================================================================
// Request Types
// =============================================================================

// ItemRequest is an image attached to a post in a write request.
type ItemRequest struct {
	Caption *string `json:"detalhes,omitempty"`
	URL     string  `json:"img"`
}

// CreatePostRequest is the request body for creating a post.
// Items stay raw until they are known to be an array.
type CreatePostRequest struct {
	Title       string          `json:"title"`
	Subtitle    *string         `json:"subtitle,omitempty"`
	Description *string         `json:"description,omitempty"`
	Order       int             `json:"order"`
	Public      bool            `json:"publico"`
	Items       json.RawMessage `json:"items,omitempty"`
}

// UpdatePostRequest is the request body for updating a post.
type UpdatePostRequest struct {
	ID          string          `json:"id"`
	Title       *string         `json:"title,omitempty"`
	Subtitle    *string         `json:"subtitle,omitempty"`
	Description *string         `json:"description,omitempty"`
	Order       *int            `json:"order,omitempty"`
	Public      bool            `json:"publico"`
	Items       json.RawMessage `json:"items,omitempty"`
}

// DeletePostRequest is the request body for deleting a post, or a single
// image when IsItem is set.
type DeletePostRequest struct {
	ID     string `json:"id"`
	IsItem bool   `json:"isItem,omitempty"`
}

// ContactRequest is the request body of the contact form.
type ContactRequest struct {
	Name              string `json:"name"`
	Email             string `json:"email"`
	Phone             string `json:"phone,omitempty"`
	ServiceOfInterest string `json:"serviceOfInterest,omitempty"`
	Message           string `json:"message"`
}

// =============================================================================
// Response Types
// =============================================================================

// ImageJSON is an image as rendered to clients.
type ImageJSON struct {
	ID        string    `json:"id"`
	Caption   *string   `json:"detalhes"`
	URL       string    `json:"img"`
	PostID    string    `json:"blogId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// PostJSON is a post as rendered to clients.
type PostJSON struct {
	ID          string      `json:"id"`
	Title       string      `json:"title"`
	Slug        string      `json:"slug"`
	Subtitle    *string     `json:"subtitle"`
	Description *string     `json:"description"`
	Order       int         `json:"order"`
	Public      bool        `json:"publico"`
	Items       []ImageJSON `json:"items"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
}

// PostsResponse is the response for post listings.
type PostsResponse struct {
	Success bool       `json:"success"`
	Posts   []PostJSON `json:"posts"`
}

// PostResponse is the response for a single post.
type PostResponse struct {
	Success bool     `json:"success"`
	Post    PostJSON `json:"post"`
}

// MessageResponse acknowledges an operation without a payload.
type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// ContactMessageJSON is a stored contact request.
type ContactMessageJSON struct {
	ID                string    `json:"id"`
	Name              string    `json:"name"`
	Email             string    `json:"email"`
	Phone             string    `json:"phone"`
	ServiceOfInterest string    `json:"serviceOfInterest"`
	Message           string    `json:"message"`
	CreatedAt         time.Time `json:"createdAt"`
}

// ContactMessagesResponse lists stored contact requests.
type ContactMessagesResponse struct {
	Success  bool                 `json:"success"`
	Messages []ContactMessageJSON `json:"messages"`
	Limit    int                  `json:"limit"`
	Offset   int                  `json:"offset"`
}

// ErrorResponse is the error envelope.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

// HealthResponse is the response for health check.
type HealthResponse struct {
	Status string `json:"status"`
}

// ReadyResponse is the response for readiness check.
type ReadyResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// =============================================================================
// Conversions
// =============================================================================

func postToJSON(p domain.Post) PostJSON {
	out := PostJSON{
		ID:          p.ID,
		Title:       p.Title,
		Slug:        p.Slug,
		Subtitle:    p.Subtitle,
		Description: p.Description,
		Order:       p.Order,
		Public:      p.Public,
		Items:       make([]ImageJSON, 0, len(p.Images)),
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
	for _, img := range p.Images {
		out.Items = append(out.Items, ImageJSON{
			ID:        img.ID,
			Caption:   img.Caption,
			URL:       img.URL,
			PostID:    img.PostID,
			CreatedAt: img.CreatedAt,
			UpdatedAt: img.UpdatedAt,
		})
	}
	return out
}

func postsToJSON(posts []domain.Post) []PostJSON {
	out := make([]PostJSON, 0, len(posts))
	for _, p := range posts {
		out = append(out, postToJSON(p))
	}
	return out
}

func contactToJSON(m domain.ContactMessage) ContactMessageJSON {
	return ContactMessageJSON{
		ID:                m.ID,
		Name:              m.Name,
		Email:             m.Email,
		Phone:             m.Phone,
		ServiceOfInterest: m.ServiceOfInterest,
		Message:           m.Message,
		CreatedAt:         m.CreatedAt,
	}
}

func itemsToInputs(items []ItemRequest) []domain.ImageInput {
	out := make([]domain.ImageInput, 0, len(items))
	for _, it := range items {
		out = append(out, domain.ImageInput{Caption: it.Caption, URL: it.URL})
	}
	return out
}
