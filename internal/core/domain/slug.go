package domain

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/google/uuid"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// =============================================================================
// Slug Normalization
// =============================================================================

var (
	// \s is ASCII-only in RE2; \p{Z} and \x{FEFF} cover NBSP, em spaces and
	// line separators pasted from rich-text editors.
	whitespaceRun = regexp.MustCompile(`[\s\v\p{Z}\x{FEFF}]+`)
	nonSlugChars  = regexp.MustCompile(`[^\w-]+`)
	hyphenRun     = regexp.MustCompile(`-{2,}`)
)

// FallbackSlugPrefix prefixes generated slugs for titles that normalize to nothing.
const FallbackSlugPrefix = "post-"

// NormalizeSlug converts a post title to a URL-safe slug candidate.
//
// The transformation rules are:
//   - Diacritics are folded to their base letter ("Olá" becomes "ola")
//   - The result is lowercased and trimmed
//   - Every run of whitespace becomes a single hyphen
//   - Characters outside [0-9a-z_-] are removed
//   - Runs of hyphens collapse into one
//   - Leading and trailing hyphens are stripped
//
// Letters without an ASCII decomposition (e.g. "ß", CJK) are dropped, so a title
// may normalize to the empty string. NormalizeSlug is idempotent.
//
// Example:
//
//	NormalizeSlug("Hello World!")      // returns "hello-world"
//	NormalizeSlug("  Olá---Mundo  ")   // returns "ola-mundo"
//	NormalizeSlug("Direito de Família") // returns "direito-de-familia"
func NormalizeSlug(title string) string {
	slug := foldDiacritics(title)
	slug = strings.ToLower(slug)
	slug = strings.TrimSpace(slug)
	slug = whitespaceRun.ReplaceAllString(slug, "-")
	slug = nonSlugChars.ReplaceAllString(slug, "")
	slug = hyphenRun.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}

// foldDiacritics decomposes the input and drops combining marks.
func foldDiacritics(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return folded
}

// SlugCandidate returns the n-th candidate for a base slug.
// The first candidate is the base itself; later ones carry a numeric suffix.
//
//	SlugCandidate("case-update", 1) // "case-update"
//	SlugCandidate("case-update", 3) // "case-update-3"
func SlugCandidate(base string, n int) string {
	if n <= 1 {
		return base
	}
	return base + "-" + strconv.Itoa(n)
}

// FallbackSlug returns a random slug for titles without any usable characters.
func FallbackSlug() string {
	return FallbackSlugPrefix + strings.ReplaceAll(uuid.New().String(), "-", "")[:8]
}
