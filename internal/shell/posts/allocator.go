// Package posts implements the blog post operations on top of the store:
// slug allocation, transactional writes and cached public reads.
package posts

import (
	"context"
	"errors"
	"fmt"

	"github.com/machadoadv/lawsite/internal/core/domain"
)

// ErrSlugSpaceExhausted is returned when every probed candidate is taken.
var ErrSlugSpaceExhausted = errors.New("no free slug within probe limit")

// DefaultMaxProbes caps the candidates tried for one title.
const DefaultMaxProbes = 10000

// SlugLookup answers whether a slug is owned by a post other than excludeID.
type SlugLookup interface {
	SlugTaken(ctx context.Context, slug, excludeID string) (bool, error)
}

// Allocation is the outcome of a slug allocation.
type Allocation struct {
	Slug    string
	Base    string
	Counter int // 1 when Slug == Base
}

// Allocator derives unique slugs from titles.
type Allocator struct {
	maxProbes int
	fallback  func() string
}

// NewAllocator creates an allocator with the default probe cap.
func NewAllocator() *Allocator {
	return &Allocator{
		maxProbes: DefaultMaxProbes,
		fallback:  domain.FallbackSlug,
	}
}

// Allocate returns the first free slug for title: the normalized title, then
// title-2, title-3 and so on.
func (a *Allocator) Allocate(ctx context.Context, lookup SlugLookup, title, excludeID string) (Allocation, error) {
	return a.AllocateFrom(ctx, lookup, title, excludeID, 1)
}

// AllocateFrom is Allocate with numbering resumed at start. It is used after
// the store rejected a slug that a concurrent writer claimed first.
func (a *Allocator) AllocateFrom(ctx context.Context, lookup SlugLookup, title, excludeID string, start int) (Allocation, error) {
	base := domain.NormalizeSlug(title)
	if base == "" {
		base = a.fallback()
	}
	if start < 1 {
		start = 1
	}

	for counter := start; counter < start+a.maxProbes; counter++ {
		if err := ctx.Err(); err != nil {
			return Allocation{}, err
		}

		candidate := domain.SlugCandidate(base, counter)
		taken, err := lookup.SlugTaken(ctx, candidate, excludeID)
		if err != nil {
			return Allocation{}, fmt.Errorf("check slug %q: %w", candidate, err)
		}
		if !taken {
			return Allocation{Slug: candidate, Base: base, Counter: counter}, nil
		}
	}

	return Allocation{}, fmt.Errorf("%w: %q after %d candidates", ErrSlugSpaceExhausted, base, a.maxProbes)
}
