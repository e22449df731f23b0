package api

import (
	"net/http"
	"strconv"

	"github.com/machadoadv/lawsite/internal/shell/api/middleware"
	"github.com/machadoadv/lawsite/internal/shell/contact"
	"github.com/machadoadv/lawsite/internal/shell/store"
)

// =============================================================================
// Contact Endpoints
// =============================================================================

func (h *Handler) submitContact(r *http.Request) (response, error) {
	var req ContactRequest
	if err := decodeBody(r, &req); err != nil {
		return response{}, err
	}

	if _, err := h.contact.Submit(r.Context(), contact.SubmitInput{
		Name:              req.Name,
		Email:             req.Email,
		Phone:             req.Phone,
		ServiceOfInterest: req.ServiceOfInterest,
		Message:           req.Message,
		RemoteAddr:        middleware.ClientIP(r),
	}); err != nil {
		return response{}, err
	}
	return created(MessageResponse{Success: true, Message: "message received"}), nil
}

// listContact is mounted behind RequireAdmin.
func (h *Handler) listContact(r *http.Request) (response, error) {
	opts := store.DefaultListOptions()

	if limit := r.URL.Query().Get("limit"); limit != "" {
		if l, err := strconv.Atoi(limit); err == nil {
			opts.Limit = l
		}
	}
	if offset := r.URL.Query().Get("offset"); offset != "" {
		if o, err := strconv.Atoi(offset); err == nil {
			opts.Offset = o
		}
	}
	opts = opts.Normalize()

	msgs, err := h.contact.List(r.Context(), opts)
	if err != nil {
		return response{}, err
	}

	resp := ContactMessagesResponse{
		Success:  true,
		Messages: make([]ContactMessageJSON, 0, len(msgs)),
		Limit:    opts.Limit,
		Offset:   opts.Offset,
	}
	for _, m := range msgs {
		resp.Messages = append(resp.Messages, contactToJSON(m))
	}
	return ok(resp), nil
}
