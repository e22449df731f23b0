package api

import (
	"net/http"

	"github.com/machadoadv/lawsite/internal/shell/api/openapi"
)

// apiOperations describes every route for /openapi.json.
func apiOperations() []openapi.Operation {
	unauthorized := openapi.Response{Status: http.StatusUnauthorized, Description: "Administrator session required", Model: ErrorResponse{}}
	invalid := openapi.Response{Status: http.StatusBadRequest, Description: "Invalid request", Model: ErrorResponse{}}
	notFound := openapi.Response{Status: http.StatusNotFound, Description: "Not found", Model: ErrorResponse{}}

	return []openapi.Operation{
		{
			Method:  http.MethodGet,
			Path:    "/api/crud/blog",
			ID:      "listPosts",
			Summary: "List public posts, or every post with admin=true",
			Tag:     "Blog",
			Params:  []openapi.Param{{Name: "admin", In: "query", Description: "Include drafts (administrators only)"}},
			Responses: []openapi.Response{
				{Status: http.StatusOK, Description: "Posts in display order", Model: PostsResponse{}},
				unauthorized,
			},
		},
		{
			Method:  http.MethodPost,
			Path:    "/api/crud/blog",
			ID:      "createPost",
			Summary: "Create a post",
			Tag:     "Blog",
			Admin:   true,
			Request: CreatePostRequest{},
			Responses: []openapi.Response{
				{Status: http.StatusCreated, Description: "Created post", Model: PostResponse{}},
				invalid,
				unauthorized,
			},
		},
		{
			Method:  http.MethodPut,
			Path:    "/api/crud/blog",
			ID:      "updatePost",
			Summary: "Update a post and replace its images",
			Tag:     "Blog",
			Admin:   true,
			Request: UpdatePostRequest{},
			Responses: []openapi.Response{
				{Status: http.StatusOK, Description: "Updated post", Model: PostResponse{}},
				invalid,
				unauthorized,
				notFound,
			},
		},
		{
			Method:  http.MethodDelete,
			Path:    "/api/crud/blog",
			ID:      "deletePost",
			Summary: "Delete a post with its images, or a single image",
			Tag:     "Blog",
			Admin:   true,
			Request: DeletePostRequest{},
			Responses: []openapi.Response{
				{Status: http.StatusOK, Description: "Deleted", Model: MessageResponse{}},
				invalid,
				unauthorized,
				notFound,
			},
		},
		{
			Method:  http.MethodGet,
			Path:    "/api/blog/{slug}",
			ID:      "getPostBySlug",
			Summary: "Get a public post by slug",
			Tag:     "Blog",
			Params:  []openapi.Param{{Name: "slug", In: "path"}},
			Responses: []openapi.Response{
				{Status: http.StatusOK, Description: "Post", Model: PostResponse{}},
				notFound,
			},
		},
		{
			Method:  http.MethodPost,
			Path:    "/api/contact",
			ID:      "submitContact",
			Summary: "Send a message through the contact form",
			Tag:     "Contact",
			Request: ContactRequest{},
			Responses: []openapi.Response{
				{Status: http.StatusCreated, Description: "Message stored", Model: MessageResponse{}},
				invalid,
				{Status: http.StatusTooManyRequests, Description: "Rate limit exceeded", Model: ErrorResponse{}},
			},
		},
		{
			Method:  http.MethodGet,
			Path:    "/api/contact",
			ID:      "listContactMessages",
			Summary: "List contact messages, newest first",
			Tag:     "Contact",
			Admin:   true,
			Params: []openapi.Param{
				{Name: "limit", In: "query"},
				{Name: "offset", In: "query"},
			},
			Responses: []openapi.Response{
				{Status: http.StatusOK, Description: "Messages", Model: ContactMessagesResponse{}},
				unauthorized,
			},
		},
		{
			Method:    http.MethodGet,
			Path:      "/health",
			ID:        "health",
			Summary:   "Liveness probe",
			Tag:       "Health",
			Responses: []openapi.Response{{Status: http.StatusOK, Description: "Alive", Model: HealthResponse{}}},
		},
		{
			Method:  http.MethodGet,
			Path:    "/ready",
			ID:      "ready",
			Summary: "Readiness probe",
			Tag:     "Health",
			Responses: []openapi.Response{
				{Status: http.StatusOK, Description: "Ready", Model: ReadyResponse{}},
				{Status: http.StatusServiceUnavailable, Description: "A dependency is down", Model: ReadyResponse{}},
			},
		},
	}
}
