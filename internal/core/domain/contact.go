package domain

import (
	"errors"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrContactNameRequired    = errors.New("name is required")
	ErrContactEmailRequired   = errors.New("email is required")
	ErrContactEmailInvalid    = errors.New("email is not a valid address")
	ErrContactMessageRequired = errors.New("message is required")
	ErrContactMessageTooLong  = errors.New("message must be at most 5000 characters")
)

// MaxContactMessageLength bounds the free-text part of a contact request.
const MaxContactMessageLength = 5000

// ContactMessage is a request sent through the site's contact form.
type ContactMessage struct {
	ID                string    `json:"id"`
	Name              string    `json:"name"`
	Email             string    `json:"email"`
	Phone             string    `json:"phone,omitempty"`
	ServiceOfInterest string    `json:"service_of_interest,omitempty"`
	Message           string    `json:"message"`
	RemoteAddr        string    `json:"remote_addr,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
}

// NewContactMessage validates the form fields and builds a message.
func NewContactMessage(name, email, phone, service, message string) (*ContactMessage, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	message = strings.TrimSpace(message)

	if name == "" {
		return nil, NewValidationError("name", ErrContactNameRequired)
	}
	if email == "" {
		return nil, NewValidationError("email", ErrContactEmailRequired)
	}
	addr, err := mail.ParseAddress(email)
	if err != nil {
		return nil, NewValidationError("email", ErrContactEmailInvalid)
	}
	if message == "" {
		return nil, NewValidationError("message", ErrContactMessageRequired)
	}
	if len([]rune(message)) > MaxContactMessageLength {
		return nil, NewValidationError("message", ErrContactMessageTooLong)
	}

	return &ContactMessage{
		ID:                uuid.New().String(),
		Name:              name,
		Email:             addr.Address,
		Phone:             strings.TrimSpace(phone),
		ServiceOfInterest: strings.TrimSpace(service),
		Message:           message,
		CreatedAt:         time.Now().UTC(),
	}, nil
}
