package validation

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

// =============================================================================
// ValidateCreatePostFields Tests
// =============================================================================

func TestValidateCreatePostFields_AllValid(t *testing.T) {
	field, msg := ValidateCreatePostFields("Breaking News", json.RawMessage(`[{"img":"a"}]`))
	assert.Empty(t, field)
	assert.Empty(t, msg)
}

func TestValidateCreatePostFields_MissingTitle(t *testing.T) {
	field, msg := ValidateCreatePostFields("  ", nil)
	assert.Equal(t, "title", field)
	assert.Equal(t, "title is required", msg)
}

func TestValidateCreatePostFields_ItemsNotArray(t *testing.T) {
	field, msg := ValidateCreatePostFields("Ok", json.RawMessage(`{"img":"a"}`))
	assert.Equal(t, "items", field)
	assert.Equal(t, "items must be an array", msg)
}

func TestValidateCreatePostFields_ChecksInOrder(t *testing.T) {
	// When multiple fields are invalid, first one is reported
	field, _ := ValidateCreatePostFields("", json.RawMessage(`"x"`))
	assert.Equal(t, "title", field, "should check title first")
}

// =============================================================================
// ValidateUpdatePostFields Tests
// =============================================================================

func TestValidateUpdatePostFields(t *testing.T) {
	blank := " "
	title := "New"

	tests := []struct {
		name      string
		id        string
		title     *string
		items     json.RawMessage
		wantField string
	}{
		{"valid without title", "p1", nil, nil, ""},
		{"valid with title", "p1", &title, json.RawMessage(`[]`), ""},
		{"missing id", "", &title, nil, "id"},
		{"blank title", "p1", &blank, nil, "title"},
		{"items object", "p1", nil, json.RawMessage(`{}`), "items"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			field, _ := ValidateUpdatePostFields(tt.id, tt.title, tt.items)
			assert.Equal(t, tt.wantField, field)
		})
	}
}

// =============================================================================
// Delete and Items Tests
// =============================================================================

func TestValidateDeleteFields(t *testing.T) {
	field, msg := ValidateDeleteFields("")
	assert.Equal(t, "id", field)
	assert.Equal(t, "id is required", msg)

	field, _ = ValidateDeleteFields("p1")
	assert.Empty(t, field)
}

func TestItemsIsArray(t *testing.T) {
	assert.True(t, ItemsIsArray(nil))
	assert.True(t, ItemsIsArray(json.RawMessage(`null`)))
	assert.True(t, ItemsIsArray(json.RawMessage(` [ ] `)))
	assert.False(t, ItemsIsArray(json.RawMessage(`"a"`)))
	assert.False(t, ItemsIsArray(json.RawMessage(`3`)))
}
