package seed

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/machadoadv/lawsite/internal/core/domain"
	"github.com/machadoadv/lawsite/internal/shell/posts"
	"github.com/machadoadv/lawsite/internal/shell/store"
)

const sampleSeed = `
posts:
  - title: "Direito de Família"
    subtitle: "Divórcio e guarda"
    description: "Como funciona o divórcio consensual."
    order: 1
    publico: true
    items:
      - detalhes: "Fachada do escritório"
        img: "https://cdn.example/fachada.jpg"
  - title: "Direito de Família"
    order: 2
    publico: false
`

func TestParse(t *testing.T) {
	f, err := Parse(strings.NewReader(sampleSeed))
	require.NoError(t, err)
	require.Len(t, f.Posts, 2)

	first := f.Posts[0]
	assert.Equal(t, "Direito de Família", first.Title)
	assert.Equal(t, "Divórcio e guarda", *first.Subtitle)
	assert.True(t, first.Public)
	require.Len(t, first.Items, 1)
	assert.Equal(t, "https://cdn.example/fachada.jpg", first.Items[0].URL)
	assert.Equal(t, "Fachada do escritório", *first.Items[0].Caption)

	assert.Nil(t, f.Posts[1].Subtitle)
	assert.False(t, f.Posts[1].Public)
}

func TestParse_Errors(t *testing.T) {
	_, err := Parse(strings.NewReader(""))
	assert.ErrorIs(t, err, ErrNoPosts)

	_, err = Parse(strings.NewReader("posts: []"))
	assert.ErrorIs(t, err, ErrNoPosts)

	_, err = Parse(strings.NewReader("posts:\n  - title: x\n    colour: red\n"))
	assert.Error(t, err, "unknown fields are rejected")
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "posts.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleSeed), 0o600))

	f, err := LoadFile(path)
	require.NoError(t, err)
	assert.Len(t, f.Posts, 2)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestApply_AllocatesSlugs(t *testing.T) {
	st, err := store.NewSQLiteStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	svc := posts.NewService(st, posts.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))

	f, err := Parse(strings.NewReader(sampleSeed))
	require.NoError(t, err)

	created, err := Apply(context.Background(), svc, f)
	require.NoError(t, err)
	require.Len(t, created, 2)
	assert.Equal(t, "direito-de-familia", created[0].Slug)
	assert.Equal(t, "direito-de-familia-2", created[1].Slug)
	assert.Len(t, created[0].Images, 1)
}

func TestApply_StopsAtFirstFailure(t *testing.T) {
	st, err := store.NewSQLiteStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	svc := posts.NewService(st, posts.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))

	f := &File{Posts: []Post{{Title: "Ok"}, {Title: " "}, {Title: "Never"}}}

	created, err := Apply(context.Background(), svc, f)
	assert.ErrorIs(t, err, domain.ErrTitleRequired)
	assert.Len(t, created, 1)
}
