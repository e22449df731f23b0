package auth

import (
	"testing"

	"github.com/machadoadv/lawsite/internal/core/domain"
	"github.com/stretchr/testify/assert"
)

// =============================================================================
// Test Helpers
// =============================================================================

func adminContext() Context {
	return Context{Subject: "user_admin", Role: RoleAdmin, Authenticated: true}
}

func userContext() Context {
	return Context{Subject: "user_plain", Role: RoleUser, Authenticated: true}
}

// =============================================================================
// Post Authorization Tests
// =============================================================================

func TestCanManagePosts(t *testing.T) {
	tests := []struct {
		name string
		ctx  Context
		want bool
	}{
		{"admin", adminContext(), true},
		{"plain user", userContext(), false},
		{"anonymous", Anonymous(), false},
		{"admin role without authentication", Context{Role: RoleAdmin}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanManagePosts(tt.ctx))
		})
	}
}

func TestCanViewPost_Public(t *testing.T) {
	post := domain.Post{ID: "p1", Public: true}

	assert.True(t, CanViewPost(Anonymous(), post))
	assert.True(t, CanViewPost(userContext(), post))
	assert.True(t, CanViewPost(adminContext(), post))
}

func TestCanViewPost_Draft(t *testing.T) {
	post := domain.Post{ID: "p1", Public: false}

	assert.False(t, CanViewPost(Anonymous(), post))
	assert.False(t, CanViewPost(userContext(), post))
	assert.True(t, CanViewPost(adminContext(), post))
}

func TestCanReadContactMessages(t *testing.T) {
	assert.True(t, CanReadContactMessages(adminContext()))
	assert.False(t, CanReadContactMessages(userContext()))
}

func TestDenialReason(t *testing.T) {
	assert.Contains(t, DenialReason(Anonymous()), "authentication required")
	assert.Equal(t, "administrator role required", DenialReason(userContext()))
}
