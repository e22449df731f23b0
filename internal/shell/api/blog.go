package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/machadoadv/lawsite/internal/core/auth"
	"github.com/machadoadv/lawsite/internal/core/validation"
	"github.com/machadoadv/lawsite/internal/shell/posts"
)

// blogAllow lists the methods served on the blog collection.
const blogAllow = "GET, POST, PUT, DELETE"

// =============================================================================
// Blog Dispatch
// =============================================================================

// handleBlog routes the blog collection by method. Unknown methods get 405.
func (h *Handler) handleBlog(w http.ResponseWriter, r *http.Request) {
	var fn endpoint
	switch r.Method {
	case http.MethodGet:
		fn = h.listPosts
	case http.MethodPost:
		fn = h.createPost
	case http.MethodPut:
		fn = h.updatePost
	case http.MethodDelete:
		fn = h.deletePost
	default:
		w.Header().Set("Allow", blogAllow)
		h.writeJSON(w, http.StatusMethodNotAllowed, ErrorResponse{
			Message: "method " + r.Method + " not allowed",
		})
		return
	}
	h.serve(fn)(w, r)
}

// requireManager refuses callers who may not write posts. It runs before the
// body is read so a refused request has no effect.
func requireManager(r *http.Request) error {
	ctx := auth.FromContext(r.Context())
	if !auth.CanManagePosts(ctx) {
		return unauthorized(ctx)
	}
	return nil
}

// =============================================================================
// Blog Endpoints
// =============================================================================

func (h *Handler) listPosts(r *http.Request) (response, error) {
	if r.URL.Query().Get("admin") == "true" {
		ctx := auth.FromContext(r.Context())
		if !auth.CanViewDrafts(ctx) {
			return response{}, unauthorized(ctx)
		}
		all, err := h.posts.ListAll(r.Context())
		if err != nil {
			return response{}, err
		}
		return ok(PostsResponse{Success: true, Posts: postsToJSON(all)}), nil
	}

	public, err := h.posts.ListPublic(r.Context())
	if err != nil {
		return response{}, err
	}
	return ok(PostsResponse{Success: true, Posts: postsToJSON(public)}), nil
}

func (h *Handler) createPost(r *http.Request) (response, error) {
	if err := requireManager(r); err != nil {
		return response{}, err
	}

	var req CreatePostRequest
	if err := decodeBody(r, &req); err != nil {
		return response{}, err
	}
	if field, msg := validation.ValidateCreatePostFields(req.Title, req.Items); field != "" {
		return response{}, badRequest(field, msg)
	}
	images, err := decodeItems(req.Items)
	if err != nil {
		return response{}, err
	}

	post, err := h.posts.Create(r.Context(), posts.CreateInput{
		Title:       req.Title,
		Subtitle:    req.Subtitle,
		Description: req.Description,
		Order:       req.Order,
		Public:      req.Public,
		Images:      images,
	})
	if err != nil {
		return response{}, err
	}
	return created(PostResponse{Success: true, Post: postToJSON(*post)}), nil
}

func (h *Handler) updatePost(r *http.Request) (response, error) {
	if err := requireManager(r); err != nil {
		return response{}, err
	}

	var req UpdatePostRequest
	if err := decodeBody(r, &req); err != nil {
		return response{}, err
	}
	if field, msg := validation.ValidateUpdatePostFields(req.ID, req.Title, req.Items); field != "" {
		return response{}, badRequest(field, msg)
	}
	images, err := decodeItems(req.Items)
	if err != nil {
		return response{}, err
	}

	post, err := h.posts.Update(r.Context(), posts.UpdateInput{
		ID:          req.ID,
		Title:       req.Title,
		Subtitle:    req.Subtitle,
		Description: req.Description,
		Order:       req.Order,
		Public:      req.Public,
		Images:      images,
	})
	if err != nil {
		return response{}, err
	}
	return ok(PostResponse{Success: true, Post: postToJSON(*post)}), nil
}

func (h *Handler) deletePost(r *http.Request) (response, error) {
	if err := requireManager(r); err != nil {
		return response{}, err
	}

	var req DeletePostRequest
	if err := decodeBody(r, &req); err != nil {
		return response{}, err
	}
	if field, msg := validation.ValidateDeleteFields(req.ID); field != "" {
		return response{}, badRequest(field, msg)
	}

	if req.IsItem {
		if err := h.posts.DeleteImage(r.Context(), req.ID); err != nil {
			return response{}, err
		}
		return ok(MessageResponse{Success: true, Message: "image deleted"}), nil
	}

	if err := h.posts.Delete(r.Context(), req.ID); err != nil {
		return response{}, err
	}
	return ok(MessageResponse{Success: true, Message: "post deleted"}), nil
}

// getPostBySlug serves the public detail page of a post.
func (h *Handler) getPostBySlug(r *http.Request) (response, error) {
	post, err := h.posts.GetPublicBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		return response{}, err
	}
	return ok(PostResponse{Success: true, Post: postToJSON(*post)}), nil
}
