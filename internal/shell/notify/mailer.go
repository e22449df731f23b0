// Package notify tells the firm about new contact requests by e-mail.
package notify

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gopkg.in/gomail.v2"

	"github.com/machadoadv/lawsite/internal/core/domain"
)

// Notifier delivers a contact request to the firm.
type Notifier interface {
	NotifyContact(ctx context.Context, msg domain.ContactMessage) error
}

// Noop discards notifications. It is used when SMTP is not configured.
type Noop struct{}

func (Noop) NotifyContact(context.Context, domain.ContactMessage) error { return nil }

// =============================================================================
// SMTP Mailer
// =============================================================================

// ErrSMTPNotConfigured is returned when required SMTP settings are missing.
var ErrSMTPNotConfigured = errors.New("smtp is not configured")

// SMTPConfig holds the outgoing mail settings.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	To       []string
}

// Mailer sends contact notifications over SMTP.
type Mailer struct {
	cfg  SMTPConfig
	send func(msgs ...*gomail.Message) error
}

// NewMailer creates a mailer. From defaults to Username.
func NewMailer(cfg SMTPConfig) (*Mailer, error) {
	if cfg.Host == "" || len(cfg.To) == 0 {
		return nil, ErrSMTPNotConfigured
	}
	if cfg.Port == 0 {
		cfg.Port = 587
	}
	if cfg.From == "" {
		cfg.From = cfg.Username
	}
	if cfg.From == "" {
		return nil, fmt.Errorf("%w: sender address missing", ErrSMTPNotConfigured)
	}

	d := gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	return &Mailer{cfg: cfg, send: d.DialAndSend}, nil
}

// NotifyContact sends one e-mail describing msg. Replies go to the sender.
func (m *Mailer) NotifyContact(ctx context.Context, msg domain.ContactMessage) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := m.send(m.contactMessage(msg)); err != nil {
		return fmt.Errorf("send contact notification: %w", err)
	}
	return nil
}

func (m *Mailer) contactMessage(msg domain.ContactMessage) *gomail.Message {
	gm := gomail.NewMessage()
	gm.SetHeader("From", m.cfg.From)
	gm.SetHeader("To", m.cfg.To...)
	gm.SetAddressHeader("Reply-To", msg.Email, msg.Name)
	gm.SetHeader("Subject", "Novo contato pelo site: "+msg.Name)
	gm.SetBody("text/plain", contactBody(msg))
	return gm
}

func contactBody(msg domain.ContactMessage) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Nome: %s\n", msg.Name)
	fmt.Fprintf(&b, "E-mail: %s\n", msg.Email)
	if msg.Phone != "" {
		fmt.Fprintf(&b, "Telefone: %s\n", msg.Phone)
	}
	if msg.ServiceOfInterest != "" {
		fmt.Fprintf(&b, "Serviço de interesse: %s\n", msg.ServiceOfInterest)
	}
	fmt.Fprintf(&b, "Recebido em: %s\n\n", msg.CreatedAt.Format("02/01/2006 15:04"))
	b.WriteString(msg.Message)
	b.WriteString("\n")
	return b.String()
}
