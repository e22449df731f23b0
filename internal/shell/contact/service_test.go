package contact

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/machadoadv/lawsite/internal/core/domain"
	"github.com/machadoadv/lawsite/internal/shell/store"
)

type stubNotifier struct {
	sent []domain.ContactMessage
	err  error
}

func (n *stubNotifier) NotifyContact(_ context.Context, msg domain.ContactMessage) error {
	n.sent = append(n.sent, msg)
	return n.err
}

func setupService(t *testing.T, n *stubNotifier) (*Service, store.Store) {
	t.Helper()
	st, err := store.NewSQLiteStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return NewService(st, n, slog.New(slog.NewTextHandler(io.Discard, nil))), st
}

func validInput() SubmitInput {
	return SubmitInput{
		Name:              "Carla Lima",
		Email:             "Carla Lima <carla@example.com>",
		ServiceOfInterest: "Direito Trabalhista",
		Message:           "Fui demitida sem justa causa.",
		RemoteAddr:        "198.51.100.4",
	}
}

func TestSubmit_StoresAndNotifies(t *testing.T) {
	n := &stubNotifier{}
	svc, _ := setupService(t, n)
	ctx := context.Background()

	msg, err := svc.Submit(ctx, validInput())
	require.NoError(t, err)
	assert.Equal(t, "carla@example.com", msg.Email)
	assert.Equal(t, "198.51.100.4", msg.RemoteAddr)

	require.Len(t, n.sent, 1)
	assert.Equal(t, msg.ID, n.sent[0].ID)

	list, err := svc.List(ctx, store.DefaultListOptions())
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Fui demitida sem justa causa.", list[0].Message)
}

func TestSubmit_NotificationFailureIsNotFatal(t *testing.T) {
	n := &stubNotifier{err: errors.New("smtp down")}
	svc, _ := setupService(t, n)

	msg, err := svc.Submit(context.Background(), validInput())
	require.NoError(t, err)
	assert.NotEmpty(t, msg.ID)
}

func TestSubmit_Validation(t *testing.T) {
	n := &stubNotifier{}
	svc, st := setupService(t, n)
	ctx := context.Background()

	tests := []struct {
		name    string
		mutate  func(*SubmitInput)
		wantErr error
	}{
		{"missing name", func(in *SubmitInput) { in.Name = "" }, domain.ErrContactNameRequired},
		{"missing email", func(in *SubmitInput) { in.Email = " " }, domain.ErrContactEmailRequired},
		{"bad email", func(in *SubmitInput) { in.Email = "not-an-address" }, domain.ErrContactEmailInvalid},
		{"missing message", func(in *SubmitInput) { in.Message = "" }, domain.ErrContactMessageRequired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validInput()
			tt.mutate(&in)
			_, err := svc.Submit(ctx, in)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	list, err := st.ListContactMessages(ctx, store.DefaultListOptions())
	require.NoError(t, err)
	assert.Empty(t, list)
	assert.Empty(t, n.sent)
}

func TestNewService_NilNotifier(t *testing.T) {
	st, err := store.NewSQLiteStore(":memory:")
	require.NoError(t, err)
	defer st.Close()

	svc := NewService(st, nil, nil)
	_, err = svc.Submit(context.Background(), validInput())
	assert.NoError(t, err)
}
