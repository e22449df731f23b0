// Package seed loads initial blog content from a YAML file.
package seed

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/machadoadv/lawsite/internal/core/domain"
	"github.com/machadoadv/lawsite/internal/shell/posts"
)

// ErrNoPosts is returned when a seed file declares no posts.
var ErrNoPosts = errors.New("seed file has no posts")

// File is the layout of a seed file. Field names follow the admin API.
type File struct {
	Posts []Post `yaml:"posts"`
}

// Post is one seeded post.
type Post struct {
	Title       string  `yaml:"title"`
	Subtitle    *string `yaml:"subtitle"`
	Description *string `yaml:"description"`
	Order       int     `yaml:"order"`
	Public      bool    `yaml:"publico"`
	Items       []Item  `yaml:"items"`
}

// Item is one seeded image.
type Item struct {
	Caption *string `yaml:"detalhes"`
	URL     string  `yaml:"img"`
}

// Creator is the part of posts.Service the seeder needs.
type Creator interface {
	Create(ctx context.Context, in posts.CreateInput) (*domain.Post, error)
}

// Parse decodes a seed document. Unknown fields are rejected.
func Parse(r io.Reader) (*File, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var f File
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrNoPosts
		}
		return nil, fmt.Errorf("parse seed file: %w", err)
	}
	if len(f.Posts) == 0 {
		return nil, ErrNoPosts
	}
	return &f, nil
}

// LoadFile reads and parses a seed file from disk.
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	return Parse(bytes.NewReader(data))
}

// Apply creates every post in f, in file order, and returns them. It stops
// at the first failure; posts created before it are kept.
func Apply(ctx context.Context, creator Creator, f *File) ([]*domain.Post, error) {
	created := make([]*domain.Post, 0, len(f.Posts))
	for i, p := range f.Posts {
		images := make([]domain.ImageInput, 0, len(p.Items))
		for _, item := range p.Items {
			images = append(images, domain.ImageInput{Caption: item.Caption, URL: item.URL})
		}

		post, err := creator.Create(ctx, posts.CreateInput{
			Title:       p.Title,
			Subtitle:    p.Subtitle,
			Description: p.Description,
			Order:       p.Order,
			Public:      p.Public,
			Images:      images,
		})
		if err != nil {
			return created, fmt.Errorf("seed post %d (%q): %w", i+1, p.Title, err)
		}
		created = append(created, post)
	}
	return created, nil
}
