// Package contact records requests sent through the site's contact form.
package contact

import (
	"context"
	"log/slog"

	"github.com/machadoadv/lawsite/internal/core/domain"
	"github.com/machadoadv/lawsite/internal/shell/notify"
	"github.com/machadoadv/lawsite/internal/shell/store"
)

// SubmitInput is a contact form submission.
type SubmitInput struct {
	Name              string
	Email             string
	Phone             string
	ServiceOfInterest string
	Message           string
	RemoteAddr        string
}

// Service persists contact requests and notifies the firm.
type Service struct {
	store    store.Store
	notifier notify.Notifier
	logger   *slog.Logger
}

// NewService creates a contact service. A nil notifier disables notifications.
func NewService(st store.Store, notifier notify.Notifier, logger *slog.Logger) *Service {
	if notifier == nil {
		notifier = notify.Noop{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{store: st, notifier: notifier, logger: logger}
}

// Submit validates and stores a request. A failed notification is logged
// and does not fail the submission.
func (s *Service) Submit(ctx context.Context, in SubmitInput) (*domain.ContactMessage, error) {
	msg, err := domain.NewContactMessage(in.Name, in.Email, in.Phone, in.ServiceOfInterest, in.Message)
	if err != nil {
		return nil, err
	}
	msg.RemoteAddr = in.RemoteAddr

	if err := s.store.CreateContactMessage(ctx, msg); err != nil {
		return nil, err
	}
	s.logger.Info("contact request received", "contact_id", msg.ID, "service", msg.ServiceOfInterest)

	if err := s.notifier.NotifyContact(ctx, *msg); err != nil {
		s.logger.Error("contact notification failed", "contact_id", msg.ID, "error", err)
	}
	return msg, nil
}

// List returns stored requests, newest first.
func (s *Service) List(ctx context.Context, opts store.ListOptions) ([]domain.ContactMessage, error) {
	return s.store.ListContactMessages(ctx, opts)
}
