package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/machadoadv/lawsite/internal/core/auth"
	"github.com/machadoadv/lawsite/internal/core/domain"
	"github.com/machadoadv/lawsite/internal/shell/posts"
	"github.com/machadoadv/lawsite/internal/shell/store"
)

// maxBodyBytes caps request bodies.
const maxBodyBytes = 1 << 20

// =============================================================================
// Endpoint Adapter
// =============================================================================

// response is what an endpoint produces on success.
type response struct {
	status int
	body   any
}

func ok(body any) response      { return response{status: http.StatusOK, body: body} }
func created(body any) response { return response{status: http.StatusCreated, body: body} }

// endpoint is a request handler that returns its result instead of writing it.
type endpoint func(r *http.Request) (response, error)

// APIError is an error that carries its own HTTP status.
type APIError struct {
	Status  int
	Message string
	Field   string
	Err     error
}

func (e *APIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *APIError) Unwrap() error {
	return e.Err
}

func badRequest(field, message string) *APIError {
	return &APIError{Status: http.StatusBadRequest, Message: message, Field: field}
}

func unauthorized(ctx auth.Context) *APIError {
	return &APIError{Status: http.StatusUnauthorized, Message: auth.DenialReason(ctx)}
}

// serve adapts an endpoint to an http.HandlerFunc.
func (h *Handler) serve(fn endpoint) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp, err := fn(r)
		if err != nil {
			h.writeFailure(w, r, err)
			return
		}
		h.writeJSON(w, resp.status, resp.body)
	}
}

// writeFailure maps an endpoint error to a status code and error envelope.
func (h *Handler) writeFailure(w http.ResponseWriter, r *http.Request, err error) {
	status, body := classify(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error("request failed",
			"request_id", middleware.GetReqID(r.Context()),
			"method", r.Method,
			"path", r.URL.Path,
			"error", err,
		)
	}
	h.writeJSON(w, status, body)
}

func classify(err error) (int, ErrorResponse) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status, ErrorResponse{Message: apiErr.Message, Field: apiErr.Field}
	}

	var valErr *domain.ValidationError
	if errors.As(err, &valErr) {
		return http.StatusBadRequest, ErrorResponse{Message: valErr.Error(), Field: valErr.Field}
	}

	switch {
	case errors.Is(err, posts.ErrPostNotFound):
		return http.StatusNotFound, ErrorResponse{Message: "post not found"}
	case errors.Is(err, posts.ErrImageNotFound):
		return http.StatusNotFound, ErrorResponse{Message: "image not found"}
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound, ErrorResponse{Message: "not found"}
	default:
		return http.StatusInternalServerError, ErrorResponse{Message: "internal server error"}
	}
}

// decodeBody reads a size-limited JSON body into v.
func decodeBody(r *http.Request, v any) error {
	body := http.MaxBytesReader(nil, r.Body, maxBodyBytes)
	if err := json.NewDecoder(body).Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return badRequest("", "request body is required")
		}
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return &APIError{Status: http.StatusRequestEntityTooLarge, Message: "request body too large"}
		}
		return badRequest("", "invalid JSON")
	}
	return nil
}

// decodeItems turns an already validated raw items array into image inputs.
func decodeItems(raw json.RawMessage) ([]domain.ImageInput, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var items []ItemRequest
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, badRequest("items", "items must be an array of {detalhes, img}")
	}
	return itemsToInputs(items), nil
}
