package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// =============================================================================
// NormalizeSlug Tests
// =============================================================================

func TestNormalizeSlug_Basic(t *testing.T) {
	assert.Equal(t, "hello-world", NormalizeSlug("Hello World!"))
}

func TestNormalizeSlug_BreakingNews(t *testing.T) {
	assert.Equal(t, "breaking-news", NormalizeSlug("Breaking News"))
}

func TestNormalizeSlug_FoldsDiacritics(t *testing.T) {
	assert.Equal(t, "ola-mundo", NormalizeSlug("  Olá---Mundo  "))
}

func TestNormalizeSlug_EmptyString(t *testing.T) {
	assert.Equal(t, "", NormalizeSlug(""))
}

func TestNormalizeSlug_OnlySymbols(t *testing.T) {
	assert.Equal(t, "", NormalizeSlug("!@#$%^&*()"))
}

func TestNormalizeSlug_WhitespaceOnly(t *testing.T) {
	assert.Equal(t, "", NormalizeSlug(" \t\n "))
}

// =============================================================================
// Table-Driven Tests
// =============================================================================

func TestNormalizeSlug_TableDriven(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"basic", "Hello World", "hello-world"},
		{"uppercase", "UPPERCASE TITLE", "uppercase-title"},
		{"numbers", "Lei 14.133 de 2021", "lei-14133-de-2021"},
		{"punctuation", "hello, world.", "hello-world"},
		{"multiple spaces", "hello   world", "hello-world"},
		{"tabs and newlines", "hello\t\nworld", "hello-world"},
		{"no-break space", "Direito\u00a0Civil", "direito-civil"},
		{"vertical tab", "Direito\vCivil", "direito-civil"},
		{"em space", "Direito\u2003Civil", "direito-civil"},
		{"line separator", "Direito\u2028Civil", "direito-civil"},
		{"byte order mark", "Direito\ufeffCivil", "direito-civil"},
		{"mixed unicode spaces", "Direito \u00a0\u2003 Civil", "direito-civil"},
		{"leading trailing spaces", " trim me ", "trim-me"},
		{"hyphens preserved", "my-post-name", "my-post-name"},
		{"hyphen runs collapse", "a -- b", "a-b"},
		{"leading hyphens", "--edge--", "edge"},
		{"underscores kept", "hello_world", "hello_world"},
		{"portuguese", "Direito de Família", "direito-de-familia"},
		{"cedilla", "Ação Trabalhista", "acao-trabalhista"},
		{"no decomposition dropped", "Straße", "strae"},
		{"cjk dropped", "法律 News", "news"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeSlug(tt.input))
		})
	}
}

func TestNormalizeSlug_Idempotent(t *testing.T) {
	inputs := []string{
		"Hello World!",
		"  Olá---Mundo  ",
		"--a--b--",
		"Ação   Civil Pública",
		"!!!",
		"x_y-z 9",
	}

	for _, in := range inputs {
		once := NormalizeSlug(in)
		assert.Equal(t, once, NormalizeSlug(once), "input %q", in)
	}
}

// =============================================================================
// Candidate / Fallback Tests
// =============================================================================

func TestSlugCandidate(t *testing.T) {
	assert.Equal(t, "case-update", SlugCandidate("case-update", 0))
	assert.Equal(t, "case-update", SlugCandidate("case-update", 1))
	assert.Equal(t, "case-update-2", SlugCandidate("case-update", 2))
	assert.Equal(t, "case-update-10", SlugCandidate("case-update", 10))
}

func TestFallbackSlug(t *testing.T) {
	a := FallbackSlug()
	b := FallbackSlug()

	assert.True(t, strings.HasPrefix(a, FallbackSlugPrefix))
	assert.Len(t, a, len(FallbackSlugPrefix)+8)
	assert.NotEqual(t, a, b)
	assert.Equal(t, a, NormalizeSlug(a))
}
