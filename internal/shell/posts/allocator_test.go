package posts

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// slugSet is an in-memory SlugLookup keyed by slug, valued by owner ID.
type slugSet struct {
	owners map[string]string
	probes int
	err    error
}

func newSlugSet(pairs ...string) *slugSet {
	s := &slugSet{owners: map[string]string{}}
	for i := 0; i+1 < len(pairs); i += 2 {
		s.owners[pairs[i]] = pairs[i+1]
	}
	return s
}

func (s *slugSet) SlugTaken(_ context.Context, slug, excludeID string) (bool, error) {
	s.probes++
	if s.err != nil {
		return false, s.err
	}
	owner, ok := s.owners[slug]
	return ok && owner != excludeID, nil
}

func TestAllocate_FreeBase(t *testing.T) {
	a := NewAllocator()

	got, err := a.Allocate(context.Background(), newSlugSet(), "Breaking News", "")
	require.NoError(t, err)
	assert.Equal(t, "breaking-news", got.Slug)
	assert.Equal(t, "breaking-news", got.Base)
	assert.Equal(t, 1, got.Counter)
}

func TestAllocate_SecondPostGetsSuffix(t *testing.T) {
	a := NewAllocator()
	lookup := newSlugSet("hello-world", "p1")

	got, err := a.Allocate(context.Background(), lookup, "Hello World!", "")
	require.NoError(t, err)
	assert.Equal(t, "hello-world-2", got.Slug)
	assert.Equal(t, 2, got.Counter)
}

func TestAllocate_SkipsTakenSuffixes(t *testing.T) {
	a := NewAllocator()
	lookup := newSlugSet("news", "p1", "news-2", "p2", "news-3", "p3")

	got, err := a.Allocate(context.Background(), lookup, "News", "")
	require.NoError(t, err)
	assert.Equal(t, "news-4", got.Slug)
}

func TestAllocate_SelfExclusion(t *testing.T) {
	a := NewAllocator()
	lookup := newSlugSet("case-update", "P")

	got, err := a.Allocate(context.Background(), lookup, "Case Update", "P")
	require.NoError(t, err)
	assert.Equal(t, "case-update", got.Slug)
}

func TestAllocate_EmptyTitleUsesFallback(t *testing.T) {
	a := NewAllocator()
	a.fallback = func() string { return "post-deadbeef" }

	got, err := a.Allocate(context.Background(), newSlugSet("post-deadbeef", "p1"), "!!! ???", "")
	require.NoError(t, err)
	assert.Equal(t, "post-deadbeef-2", got.Slug)
}

func TestAllocateFrom_ResumesNumbering(t *testing.T) {
	a := NewAllocator()

	got, err := a.AllocateFrom(context.Background(), newSlugSet(), "Breaking News", "", 2)
	require.NoError(t, err)
	assert.Equal(t, "breaking-news-2", got.Slug)

	got, err = a.AllocateFrom(context.Background(), newSlugSet(), "Breaking News", "", 0)
	require.NoError(t, err)
	assert.Equal(t, "breaking-news", got.Slug)
}

func TestAllocate_ProbeCap(t *testing.T) {
	a := NewAllocator()
	a.maxProbes = 3
	lookup := newSlugSet("x", "1", "x-2", "2", "x-3", "3", "x-4", "4")

	_, err := a.Allocate(context.Background(), lookup, "X", "")
	assert.ErrorIs(t, err, ErrSlugSpaceExhausted)
	assert.Equal(t, 3, lookup.probes)
}

func TestAllocate_LookupError(t *testing.T) {
	a := NewAllocator()
	boom := errors.New("store down")
	lookup := newSlugSet()
	lookup.err = boom

	_, err := a.Allocate(context.Background(), lookup, "Title", "")
	assert.ErrorIs(t, err, boom)
}

func TestAllocate_CancelledContext(t *testing.T) {
	a := NewAllocator()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := a.Allocate(ctx, newSlugSet(), "Title", "")
	assert.ErrorIs(t, err, context.Canceled)
}
