package validation

import (
	"bytes"
	"encoding/json"
	"strings"
)

// =============================================================================
// Post Request Validation Functions
// =============================================================================

// ValidateCreatePostFields validates required fields for post creation.
// Returns the field name and error message if validation fails.
// Returns empty strings if all fields are valid.
//
// Example:
//
//	field, msg := ValidateCreatePostFields("Breaking News", json.RawMessage(`[]`))
//	if field != "" {
//	    // Handle validation error
//	}
func ValidateCreatePostFields(title string, items json.RawMessage) (field, message string) {
	if strings.TrimSpace(title) == "" {
		return "title", "title is required"
	}
	if !ItemsIsArray(items) {
		return "items", "items must be an array"
	}
	return "", ""
}

// ValidateUpdatePostFields validates required fields for a post update.
// A title, when supplied, must not be blank.
func ValidateUpdatePostFields(id string, title *string, items json.RawMessage) (field, message string) {
	if strings.TrimSpace(id) == "" {
		return "id", "id is required"
	}
	if title != nil && strings.TrimSpace(*title) == "" {
		return "title", "title cannot be blank"
	}
	if !ItemsIsArray(items) {
		return "items", "items must be an array"
	}
	return "", ""
}

// ValidateDeleteFields validates the id of a post or image to delete.
func ValidateDeleteFields(id string) (field, message string) {
	if strings.TrimSpace(id) == "" {
		return "id", "id is required"
	}
	return "", ""
}

// ItemsIsArray reports whether raw is a JSON array, null, or absent.
func ItemsIsArray(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return true
	}
	return trimmed[0] == '['
}
