package auth

import "github.com/machadoadv/lawsite/internal/core/domain"

// =============================================================================
// Role Checks
// =============================================================================

// IsAdmin reports whether the caller holds the administrator role.
func IsAdmin(ctx Context) bool {
	return ctx.Authenticated && ctx.Role == RoleAdmin
}

// =============================================================================
// Post Authorization
// =============================================================================

// CanManagePosts checks if the caller may create, update or delete posts.
func CanManagePosts(ctx Context) bool {
	return IsAdmin(ctx)
}

// CanViewDrafts checks if the caller may list posts that are not public.
func CanViewDrafts(ctx Context) bool {
	return IsAdmin(ctx)
}

// CanViewPost checks if the caller may read a single post.
// Public posts are visible to everyone; drafts only to administrators.
func CanViewPost(ctx Context, post domain.Post) bool {
	if post.Public {
		return true
	}
	return CanViewDrafts(ctx)
}

// =============================================================================
// Contact Authorization
// =============================================================================

// CanReadContactMessages checks if the caller may list contact requests.
func CanReadContactMessages(ctx Context) bool {
	return IsAdmin(ctx)
}

// DenialReason explains why a write was refused, for the 401 body.
func DenialReason(ctx Context) string {
	if !ctx.Authenticated {
		return "authentication required: no session"
	}
	return "administrator role required"
}
