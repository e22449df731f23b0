package store

import (
	"context"
	"testing"
	"time"

	"github.com/machadoadv/lawsite/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// Test Helpers
// =============================================================================

func setupTestStore(t *testing.T) *SQLStore {
	t.Helper()
	store, err := NewSQLiteStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

func strPtr(s string) *string {
	return &s
}

func createTestPost(t *testing.T, store Store, title, slug string, order int, public bool) *domain.Post {
	t.Helper()
	post, err := domain.NewPost(title, strPtr("subtitle"), strPtr("body"), order, public)
	require.NoError(t, err)
	post.Slug = slug
	require.NoError(t, store.CreatePost(context.Background(), post))
	return post
}

func attachImages(t *testing.T, store Store, post *domain.Post, urls ...string) {
	t.Helper()
	inputs := make([]domain.ImageInput, 0, len(urls))
	for _, u := range urls {
		inputs = append(inputs, domain.ImageInput{URL: u, Caption: strPtr("caption " + u)})
	}
	require.NoError(t, post.ReplaceImages(inputs))
	require.NoError(t, store.CreateImages(context.Background(), post.Images))
}

// =============================================================================
// Post CRUD Tests
// =============================================================================

func TestCreatePost_AndGet(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	post := createTestPost(t, store, "Breaking News", "breaking-news", 1, true)
	attachImages(t, store, post, "https://cdn.example/a.jpg", "https://cdn.example/b.jpg")

	got, err := store.GetPost(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, "Breaking News", got.Title)
	assert.Equal(t, "breaking-news", got.Slug)
	assert.Equal(t, "subtitle", *got.Subtitle)
	assert.Equal(t, 1, got.Order)
	assert.True(t, got.Public)
	assert.WithinDuration(t, post.CreatedAt, got.CreatedAt, time.Microsecond)
	require.Len(t, got.Images, 2)
	assert.Equal(t, "https://cdn.example/a.jpg", got.Images[0].URL)
	assert.Equal(t, "https://cdn.example/b.jpg", got.Images[1].URL)
	assert.Equal(t, "caption https://cdn.example/a.jpg", *got.Images[0].Caption)
}

func TestCreatePost_NullableFields(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	post, err := domain.NewPost("Plain", nil, nil, 0, false)
	require.NoError(t, err)
	post.Slug = "plain"
	require.NoError(t, store.CreatePost(ctx, post))

	got, err := store.GetPost(ctx, post.ID)
	require.NoError(t, err)
	assert.Nil(t, got.Subtitle)
	assert.Nil(t, got.Description)
	assert.Empty(t, got.Images)
}

func TestCreatePost_DuplicateSlug(t *testing.T) {
	store := setupTestStore(t)
	createTestPost(t, store, "Case Update", "case-update", 0, true)

	post, err := domain.NewPost("Case Update", nil, nil, 0, true)
	require.NoError(t, err)
	post.Slug = "case-update"

	err = store.CreatePost(context.Background(), post)
	assert.ErrorIs(t, err, ErrDuplicateSlug)
}

func TestCreatePost_DuplicateID(t *testing.T) {
	store := setupTestStore(t)
	post := createTestPost(t, store, "One", "one", 0, true)

	dup := *post
	dup.Slug = "other"
	err := store.CreatePost(context.Background(), &dup)
	assert.ErrorIs(t, err, ErrDuplicateID)
}

func TestGetPost_NotFound(t *testing.T) {
	store := setupTestStore(t)

	_, err := store.GetPost(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	var storeErr *StoreError
	require.ErrorAs(t, err, &storeErr)
	assert.Equal(t, "GetPost", storeErr.Op)
}

func TestGetPostBySlug(t *testing.T) {
	store := setupTestStore(t)
	post := createTestPost(t, store, "Hello World", "hello-world", 0, true)

	got, err := store.GetPostBySlug(context.Background(), "hello-world")
	require.NoError(t, err)
	assert.Equal(t, post.ID, got.ID)

	_, err = store.GetPostBySlug(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdatePost(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()
	post := createTestPost(t, store, "Draft", "draft", 3, false)

	post.Title = "Published"
	post.Slug = "published"
	post.Public = true
	post.Order = 1
	post.Subtitle = nil
	post.Touch()
	require.NoError(t, store.UpdatePost(ctx, post))

	got, err := store.GetPost(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, "Published", got.Title)
	assert.Equal(t, "published", got.Slug)
	assert.True(t, got.Public)
	assert.Equal(t, 1, got.Order)
	assert.Nil(t, got.Subtitle)
}

func TestUpdatePost_NotFound(t *testing.T) {
	store := setupTestStore(t)
	post, err := domain.NewPost("Ghost", nil, nil, 0, false)
	require.NoError(t, err)
	post.Slug = "ghost"

	err = store.UpdatePost(context.Background(), post)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdatePost_DuplicateSlug(t *testing.T) {
	store := setupTestStore(t)
	createTestPost(t, store, "First", "first", 0, true)
	second := createTestPost(t, store, "Second", "second", 0, true)

	second.Slug = "first"
	err := store.UpdatePost(context.Background(), second)
	assert.ErrorIs(t, err, ErrDuplicateSlug)
}

func TestDeletePost_RequiresImagesRemovedFirst(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()
	post := createTestPost(t, store, "With Images", "with-images", 0, true)
	attachImages(t, store, post, "https://cdn.example/a.jpg")

	err := store.DeletePost(ctx, post.ID)
	assert.ErrorIs(t, err, ErrForeignKey)

	require.NoError(t, store.DeleteImagesByPost(ctx, post.ID))
	require.NoError(t, store.DeletePost(ctx, post.ID))

	images, err := store.ListImagesByPost(ctx, post.ID)
	require.NoError(t, err)
	assert.Empty(t, images)

	_, err = store.GetPost(ctx, post.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeletePost_NotFound(t *testing.T) {
	store := setupTestStore(t)
	err := store.DeletePost(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

// =============================================================================
// Listing Tests
// =============================================================================

func TestListPosts_OrderAndFilter(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	third := createTestPost(t, store, "Third", "third", 3, true)
	first := createTestPost(t, store, "First", "first", 1, true)
	draft := createTestPost(t, store, "Draft", "draft", 2, false)
	attachImages(t, store, first, "https://cdn.example/1.jpg")

	public, err := store.ListPosts(ctx, PostFilter{PublicOnly: true})
	require.NoError(t, err)
	require.Len(t, public, 2)
	assert.Equal(t, first.ID, public[0].ID)
	assert.Equal(t, third.ID, public[1].ID)
	assert.Len(t, public[0].Images, 1)
	assert.NotNil(t, public[1].Images)
	for _, p := range public {
		assert.True(t, p.Public)
	}

	all, err := store.ListPosts(ctx, PostFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{first.ID, draft.ID, third.ID}, []string{all[0].ID, all[1].ID, all[2].ID})
}

func TestListPosts_Empty(t *testing.T) {
	store := setupTestStore(t)

	posts, err := store.ListPosts(context.Background(), PostFilter{PublicOnly: true})
	require.NoError(t, err)
	assert.Empty(t, posts)
}

// =============================================================================
// Slug Lookup Tests
// =============================================================================

func TestSlugTaken(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()
	post := createTestPost(t, store, "Case Update", "case-update", 0, true)

	taken, err := store.SlugTaken(ctx, "case-update", "")
	require.NoError(t, err)
	assert.True(t, taken)

	taken, err = store.SlugTaken(ctx, "case-update", post.ID)
	require.NoError(t, err)
	assert.False(t, taken, "a post never collides with itself")

	taken, err = store.SlugTaken(ctx, "free-slug", "")
	require.NoError(t, err)
	assert.False(t, taken)
}

// =============================================================================
// Image Tests
// =============================================================================

func TestDeleteImage(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()
	post := createTestPost(t, store, "Gallery", "gallery", 0, true)
	attachImages(t, store, post, "https://cdn.example/a.jpg", "https://cdn.example/b.jpg")

	require.NoError(t, store.DeleteImage(ctx, post.Images[0].ID))

	images, err := store.ListImagesByPost(ctx, post.ID)
	require.NoError(t, err)
	require.Len(t, images, 1)
	assert.Equal(t, post.Images[1].ID, images[0].ID)

	err = store.DeleteImage(ctx, post.Images[0].ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCreateImages_UnknownPost(t *testing.T) {
	store := setupTestStore(t)
	img := domain.Image{
		ID:        "img-1",
		PostID:    "missing",
		URL:       "https://cdn.example/a.jpg",
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	err := store.CreateImages(context.Background(), []domain.Image{img})
	assert.ErrorIs(t, err, ErrForeignKey)
}

// =============================================================================
// Contact Tests
// =============================================================================

func TestContactMessages_NewestFirst(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	older, err := domain.NewContactMessage("Ana", "ana@example.com", "", "Direito Civil", "Preciso de ajuda")
	require.NoError(t, err)
	older.CreatedAt = time.Now().Add(-time.Hour)
	newer, err := domain.NewContactMessage("Bruno", "bruno@example.com", "+55 11 99999-0000", "", "Consulta")
	require.NoError(t, err)
	newer.RemoteAddr = "203.0.113.7"

	require.NoError(t, store.CreateContactMessage(ctx, older))
	require.NoError(t, store.CreateContactMessage(ctx, newer))

	msgs, err := store.ListContactMessages(ctx, DefaultListOptions())
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, newer.ID, msgs[0].ID)
	assert.Equal(t, "203.0.113.7", msgs[0].RemoteAddr)
	assert.Equal(t, "Direito Civil", msgs[1].ServiceOfInterest)
}

// =============================================================================
// Transaction Tests
// =============================================================================

func TestWithTx_Commit(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	var id string
	err := store.WithTx(ctx, func(tx Store) error {
		post, err := domain.NewPost("In Tx", nil, nil, 0, true)
		if err != nil {
			return err
		}
		post.Slug = "in-tx"
		id = post.ID
		return tx.CreatePost(ctx, post)
	})
	require.NoError(t, err)

	_, err = store.GetPost(ctx, id)
	assert.NoError(t, err)
}

func TestWithTx_RollbackOnError(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	err := store.WithTx(ctx, func(tx Store) error {
		post, err := domain.NewPost("Rolled Back", nil, nil, 0, true)
		require.NoError(t, err)
		post.Slug = "rolled-back"
		require.NoError(t, tx.CreatePost(ctx, post))

		// Images for an unknown post fail and undo the insert above
		return tx.CreateImages(ctx, []domain.Image{{ID: "i", PostID: "missing", URL: "u", CreatedAt: time.Now(), UpdatedAt: time.Now()}})
	})
	assert.ErrorIs(t, err, ErrForeignKey)

	taken, err := store.SlugTaken(ctx, "rolled-back", "")
	require.NoError(t, err)
	assert.False(t, taken)
}

// =============================================================================
// Misc
// =============================================================================

func TestPing(t *testing.T) {
	store := setupTestStore(t)
	assert.NoError(t, store.Ping(context.Background()))
	assert.Equal(t, DriverSQLite, store.Driver())
}

func TestOpen_UnsupportedDriver(t *testing.T) {
	_, err := Open(context.Background(), "oracle", "dsn")
	assert.ErrorIs(t, err, ErrUnsupportedDriver)
}

func TestSQLiteDSN(t *testing.T) {
	assert.Equal(t, ":memory:?_foreign_keys=on", sqliteDSN(":memory:"))
	assert.Equal(t, "file:x.db?cache=shared&_foreign_keys=on", sqliteDSN("file:x.db?cache=shared"))
	assert.Equal(t, "x.db?_foreign_keys=off", sqliteDSN("x.db?_foreign_keys=off"))
}

func TestListOptions_Normalize(t *testing.T) {
	assert.Equal(t, 100, ListOptions{}.Normalize().Limit)
	assert.Equal(t, 1000, ListOptions{Limit: 5000}.Normalize().Limit)
	assert.Equal(t, 0, ListOptions{Offset: -3}.Normalize().Offset)
}
