package store

import (
	"context"

	"github.com/machadoadv/lawsite/internal/core/domain"
)

// contactRow represents a contact_messages row in the database.
type contactRow struct {
	ID                string `db:"id"`
	Name              string `db:"name"`
	Email             string `db:"email"`
	Phone             string `db:"phone"`
	ServiceOfInterest string `db:"service_of_interest"`
	Message           string `db:"message"`
	RemoteAddr        string `db:"remote_addr"`
	CreatedAt         string `db:"created_at"`
}

func createContactMessage(ctx context.Context, exec executor, msg *domain.ContactMessage) error {
	query := `
		INSERT INTO contact_messages (id, name, email, phone, service_of_interest, message, remote_addr, created_at)
		VALUES (:id, :name, :email, :phone, :service_of_interest, :message, :remote_addr, :created_at)`

	row := contactRow{
		ID:                msg.ID,
		Name:              msg.Name,
		Email:             msg.Email,
		Phone:             msg.Phone,
		ServiceOfInterest: msg.ServiceOfInterest,
		Message:           msg.Message,
		RemoteAddr:        msg.RemoteAddr,
		CreatedAt:         formatTime(msg.CreatedAt),
	}

	if _, err := exec.NamedExecContext(ctx, query, row); err != nil {
		if isUniqueViolation(err, contactPrimaryKey) {
			return NewStoreError("CreateContactMessage", "contact_message", msg.ID, "message with this ID already exists", ErrDuplicateID)
		}
		return NewStoreError("CreateContactMessage", "contact_message", msg.ID, err.Error(), err)
	}

	return nil
}

func listContactMessages(ctx context.Context, exec executor, opts ListOptions) ([]domain.ContactMessage, error) {
	opts = opts.Normalize()
	query := exec.Rebind(`
		SELECT id, name, email, phone, service_of_interest, message, remote_addr, created_at
		FROM contact_messages
		ORDER BY created_at DESC
		LIMIT ? OFFSET ?`)

	var rows []contactRow
	if err := exec.SelectContext(ctx, &rows, query, opts.Limit, opts.Offset); err != nil {
		return nil, NewStoreError("ListContactMessages", "contact_message", "", err.Error(), err)
	}

	msgs := make([]domain.ContactMessage, 0, len(rows))
	for _, row := range rows {
		msgs = append(msgs, domain.ContactMessage{
			ID:                row.ID,
			Name:              row.Name,
			Email:             row.Email,
			Phone:             row.Phone,
			ServiceOfInterest: row.ServiceOfInterest,
			Message:           row.Message,
			RemoteAddr:        row.RemoteAddr,
			CreatedAt:         parseTime(row.CreatedAt),
		})
	}
	return msgs, nil
}
