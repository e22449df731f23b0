package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/machadoadv/lawsite/internal/core/domain"
)

// =============================================================================
// Rows
// =============================================================================

// postRow represents a post row in the database.
type postRow struct {
	ID           string  `db:"id"`
	Title        string  `db:"title"`
	Slug         string  `db:"slug"`
	Subtitle     *string `db:"subtitle"`
	Description  *string `db:"description"`
	DisplayOrder int     `db:"display_order"`
	Published    bool    `db:"published"`
	CreatedAt    string  `db:"created_at"`
	UpdatedAt    string  `db:"updated_at"`
}

// imageRow represents an image row in the database.
type imageRow struct {
	ID        string  `db:"id"`
	PostID    string  `db:"post_id"`
	Caption   *string `db:"caption"`
	URL       string  `db:"url"`
	Position  int     `db:"position"`
	CreatedAt string  `db:"created_at"`
	UpdatedAt string  `db:"updated_at"`
}

const postColumns = `id, title, slug, subtitle, description, display_order, published, created_at, updated_at`

const imageColumns = `id, post_id, caption, url, position, created_at, updated_at`

// =============================================================================
// Posts
// =============================================================================

func createPost(ctx context.Context, exec executor, post *domain.Post) error {
	query := `
		INSERT INTO posts (` + postColumns + `)
		VALUES (:id, :title, :slug, :subtitle, :description, :display_order, :published, :created_at, :updated_at)`

	_, err := exec.NamedExecContext(ctx, query, postToRow(post))
	if err != nil {
		if isUniqueViolation(err, postsPrimaryKey) {
			return NewStoreError("CreatePost", "post", post.ID, "post with this ID already exists", ErrDuplicateID)
		}
		if isUniqueViolation(err, postsSlugIndex) {
			return NewStoreError("CreatePost", "post", post.ID, "slug "+post.Slug+" already exists", ErrDuplicateSlug)
		}
		return NewStoreError("CreatePost", "post", post.ID, err.Error(), err)
	}

	return nil
}

func getPost(ctx context.Context, exec executor, id string) (*domain.Post, error) {
	query := exec.Rebind(`SELECT ` + postColumns + ` FROM posts WHERE id = ?`)

	var row postRow
	if err := exec.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, NewStoreError("GetPost", "post", id, "post not found", ErrNotFound)
		}
		return nil, NewStoreError("GetPost", "post", id, err.Error(), err)
	}

	return withImages(ctx, exec, "GetPost", &row)
}

func getPostBySlug(ctx context.Context, exec executor, slug string) (*domain.Post, error) {
	query := exec.Rebind(`SELECT ` + postColumns + ` FROM posts WHERE slug = ?`)

	var row postRow
	if err := exec.GetContext(ctx, &row, query, slug); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, NewStoreError("GetPostBySlug", "post", slug, "post not found", ErrNotFound)
		}
		return nil, NewStoreError("GetPostBySlug", "post", slug, err.Error(), err)
	}

	return withImages(ctx, exec, "GetPostBySlug", &row)
}

func updatePost(ctx context.Context, exec executor, post *domain.Post) error {
	query := `
		UPDATE posts SET
			title = :title,
			slug = :slug,
			subtitle = :subtitle,
			description = :description,
			display_order = :display_order,
			published = :published,
			updated_at = :updated_at
		WHERE id = :id`

	result, err := exec.NamedExecContext(ctx, query, postToRow(post))
	if err != nil {
		if isUniqueViolation(err, postsSlugIndex) {
			return NewStoreError("UpdatePost", "post", post.ID, "slug "+post.Slug+" already exists", ErrDuplicateSlug)
		}
		return NewStoreError("UpdatePost", "post", post.ID, err.Error(), err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return NewStoreError("UpdatePost", "post", post.ID, "post not found", ErrNotFound)
	}

	return nil
}

func deletePost(ctx context.Context, exec executor, id string) error {
	query := exec.Rebind(`DELETE FROM posts WHERE id = ?`)

	result, err := exec.ExecContext(ctx, query, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return NewStoreError("DeletePost", "post", id, "post still has images", ErrForeignKey)
		}
		return NewStoreError("DeletePost", "post", id, err.Error(), err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return NewStoreError("DeletePost", "post", id, "post not found", ErrNotFound)
	}

	return nil
}

func listPosts(ctx context.Context, exec executor, filter PostFilter) ([]domain.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts`
	var args []any
	if filter.PublicOnly {
		query += ` WHERE published = ?`
		args = append(args, true)
	}
	query += ` ORDER BY display_order ASC, created_at ASC`

	var rows []postRow
	if err := exec.SelectContext(ctx, &rows, exec.Rebind(query), args...); err != nil {
		return nil, NewStoreError("ListPosts", "post", "", err.Error(), err)
	}

	ids := make([]string, len(rows))
	for i := range rows {
		ids[i] = rows[i].ID
	}
	images, err := imagesByPost(ctx, exec, ids)
	if err != nil {
		return nil, NewStoreError("ListPosts", "image", "", err.Error(), err)
	}

	posts := make([]domain.Post, 0, len(rows))
	for i := range rows {
		post := rowToPost(&rows[i])
		if imgs, ok := images[post.ID]; ok {
			post.Images = imgs
		}
		posts = append(posts, *post)
	}

	return posts, nil
}

func slugTaken(ctx context.Context, exec executor, slug, excludeID string) (bool, error) {
	query := exec.Rebind(`SELECT COUNT(*) FROM posts WHERE slug = ? AND id <> ?`)

	var count int
	if err := exec.GetContext(ctx, &count, query, slug, excludeID); err != nil {
		return false, NewStoreError("SlugTaken", "post", slug, err.Error(), err)
	}

	return count > 0, nil
}

// =============================================================================
// Images
// =============================================================================

func createImages(ctx context.Context, exec executor, images []domain.Image) error {
	query := `
		INSERT INTO images (` + imageColumns + `)
		VALUES (:id, :post_id, :caption, :url, :position, :created_at, :updated_at)`

	for i := range images {
		img := &images[i]
		if _, err := exec.NamedExecContext(ctx, query, imageToRow(img)); err != nil {
			if isUniqueViolation(err, imagesPrimaryKey) {
				return NewStoreError("CreateImages", "image", img.ID, "image with this ID already exists", ErrDuplicateID)
			}
			if isForeignKeyViolation(err) {
				return NewStoreError("CreateImages", "image", img.ID, "post "+img.PostID+" does not exist", ErrForeignKey)
			}
			return NewStoreError("CreateImages", "image", img.ID, err.Error(), err)
		}
	}

	return nil
}

func deleteImage(ctx context.Context, exec executor, id string) error {
	query := exec.Rebind(`DELETE FROM images WHERE id = ?`)

	result, err := exec.ExecContext(ctx, query, id)
	if err != nil {
		return NewStoreError("DeleteImage", "image", id, err.Error(), err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return NewStoreError("DeleteImage", "image", id, "image not found", ErrNotFound)
	}

	return nil
}

func deleteImagesByPost(ctx context.Context, exec executor, postID string) error {
	query := exec.Rebind(`DELETE FROM images WHERE post_id = ?`)

	if _, err := exec.ExecContext(ctx, query, postID); err != nil {
		return NewStoreError("DeleteImagesByPost", "image", postID, err.Error(), err)
	}

	return nil
}

func listImagesByPost(ctx context.Context, exec executor, postID string) ([]domain.Image, error) {
	query := exec.Rebind(`SELECT ` + imageColumns + ` FROM images WHERE post_id = ? ORDER BY position ASC`)

	var rows []imageRow
	if err := exec.SelectContext(ctx, &rows, query, postID); err != nil {
		return nil, NewStoreError("ListImagesByPost", "image", postID, err.Error(), err)
	}

	images := make([]domain.Image, 0, len(rows))
	for i := range rows {
		images = append(images, rowToImage(&rows[i]))
	}
	return images, nil
}

// imagesByPost loads the images of several posts with one query.
func imagesByPost(ctx context.Context, exec executor, postIDs []string) (map[string][]domain.Image, error) {
	out := make(map[string][]domain.Image, len(postIDs))
	if len(postIDs) == 0 {
		return out, nil
	}

	query, args, err := sqlx.In(`SELECT `+imageColumns+` FROM images WHERE post_id IN (?) ORDER BY post_id, position ASC`, postIDs)
	if err != nil {
		return nil, err
	}

	var rows []imageRow
	if err := exec.SelectContext(ctx, &rows, exec.Rebind(query), args...); err != nil {
		return nil, err
	}

	for i := range rows {
		img := rowToImage(&rows[i])
		out[img.PostID] = append(out[img.PostID], img)
	}
	return out, nil
}

func withImages(ctx context.Context, exec executor, op string, row *postRow) (*domain.Post, error) {
	post := rowToPost(row)
	images, err := listImagesByPost(ctx, exec, post.ID)
	if err != nil {
		return nil, NewStoreError(op, "image", post.ID, err.Error(), err)
	}
	post.Images = images
	return post, nil
}

// =============================================================================
// Conversion
// =============================================================================

func postToRow(post *domain.Post) map[string]any {
	return map[string]any{
		"id":            post.ID,
		"title":         post.Title,
		"slug":          post.Slug,
		"subtitle":      post.Subtitle,
		"description":   post.Description,
		"display_order": post.Order,
		"published":     post.Public,
		"created_at":    formatTime(post.CreatedAt),
		"updated_at":    formatTime(post.UpdatedAt),
	}
}

func rowToPost(row *postRow) *domain.Post {
	return &domain.Post{
		ID:          row.ID,
		Title:       row.Title,
		Slug:        row.Slug,
		Subtitle:    row.Subtitle,
		Description: row.Description,
		Order:       row.DisplayOrder,
		Public:      row.Published,
		Images:      []domain.Image{},
		CreatedAt:   parseTime(row.CreatedAt),
		UpdatedAt:   parseTime(row.UpdatedAt),
	}
}

func imageToRow(img *domain.Image) map[string]any {
	return map[string]any{
		"id":         img.ID,
		"post_id":    img.PostID,
		"caption":    img.Caption,
		"url":        img.URL,
		"position":   img.Position,
		"created_at": formatTime(img.CreatedAt),
		"updated_at": formatTime(img.UpdatedAt),
	}
}

func rowToImage(row *imageRow) domain.Image {
	return domain.Image{
		ID:        row.ID,
		PostID:    row.PostID,
		Caption:   row.Caption,
		URL:       row.URL,
		Position:  row.Position,
		CreatedAt: parseTime(row.CreatedAt),
		UpdatedAt: parseTime(row.UpdatedAt),
	}
}
