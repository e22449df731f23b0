package store

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jmoiron/sqlx"

	"github.com/machadoadv/lawsite/internal/core/domain"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Supported values for the database.driver setting.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Open opens a store for the named driver and runs migrations.
func Open(ctx context.Context, driver, dsn string) (*SQLStore, error) {
	switch driver {
	case DriverSQLite, "sqlite3", "":
		return NewSQLiteStore(dsn)
	case DriverPostgres, "pgx":
		return NewPostgresStore(ctx, dsn)
	default:
		return nil, NewStoreError("Open", "", "", fmt.Sprintf("driver %q", driver), ErrUnsupportedDriver)
	}
}

// =============================================================================
// Executor Interface - Shared by DB and Transaction
// =============================================================================

// executor abstracts database operations that can be performed on both
// a database connection and a transaction.
type executor interface {
	GetContext(ctx context.Context, dest any, query string, args ...any) error
	SelectContext(ctx context.Context, dest any, query string, args ...any) error
	NamedExecContext(ctx context.Context, query string, arg any) (sql.Result, error)
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	Rebind(query string) string
}

// =============================================================================
// SQLStore
// =============================================================================

// SQLStore implements Store on top of database/sql. Queries are written with
// '?' placeholders and rebound for the driver in use.
type SQLStore struct {
	db     *sqlx.DB
	driver string
}

// runMigrations applies the embedded migrations through the given driver.
func runMigrations(driverName string, driver database.Driver) error {
	source, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("failed to create migration source: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, driverName, driver)
	if err != nil {
		return fmt.Errorf("failed to create migrator: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}

// Driver returns the name of the backend ("sqlite" or "postgres").
func (s *SQLStore) Driver() string {
	return s.driver
}

// Ping checks that the database is reachable.
func (s *SQLStore) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return NewStoreError("Ping", "", "", err.Error(), ErrConnectionFailed)
	}
	return nil
}

// Close closes the database connection.
func (s *SQLStore) Close() error {
	return s.db.Close()
}

// =============================================================================
// Post Operations
// =============================================================================

func (s *SQLStore) CreatePost(ctx context.Context, post *domain.Post) error {
	return createPost(ctx, s.db, post)
}

func (s *SQLStore) GetPost(ctx context.Context, id string) (*domain.Post, error) {
	return getPost(ctx, s.db, id)
}

func (s *SQLStore) GetPostBySlug(ctx context.Context, slug string) (*domain.Post, error) {
	return getPostBySlug(ctx, s.db, slug)
}

func (s *SQLStore) UpdatePost(ctx context.Context, post *domain.Post) error {
	return updatePost(ctx, s.db, post)
}

func (s *SQLStore) DeletePost(ctx context.Context, id string) error {
	return deletePost(ctx, s.db, id)
}

func (s *SQLStore) ListPosts(ctx context.Context, filter PostFilter) ([]domain.Post, error) {
	return listPosts(ctx, s.db, filter)
}

func (s *SQLStore) SlugTaken(ctx context.Context, slug, excludeID string) (bool, error) {
	return slugTaken(ctx, s.db, slug, excludeID)
}

// =============================================================================
// Image Operations
// =============================================================================

func (s *SQLStore) CreateImages(ctx context.Context, images []domain.Image) error {
	return createImages(ctx, s.db, images)
}

func (s *SQLStore) DeleteImage(ctx context.Context, id string) error {
	return deleteImage(ctx, s.db, id)
}

func (s *SQLStore) DeleteImagesByPost(ctx context.Context, postID string) error {
	return deleteImagesByPost(ctx, s.db, postID)
}

func (s *SQLStore) ListImagesByPost(ctx context.Context, postID string) ([]domain.Image, error) {
	return listImagesByPost(ctx, s.db, postID)
}

// =============================================================================
// Contact Operations
// =============================================================================

func (s *SQLStore) CreateContactMessage(ctx context.Context, msg *domain.ContactMessage) error {
	return createContactMessage(ctx, s.db, msg)
}

func (s *SQLStore) ListContactMessages(ctx context.Context, opts ListOptions) ([]domain.ContactMessage, error) {
	return listContactMessages(ctx, s.db, opts)
}

// =============================================================================
// Transaction Support
// =============================================================================

func (s *SQLStore) WithTx(ctx context.Context, fn func(Store) error) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return NewStoreError("WithTx", "", "", "failed to begin transaction", ErrTxFailed)
	}

	txS := &txSQLStore{tx: tx}

	if err := fn(txS); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return NewStoreError("WithTx", "", "", fmt.Sprintf("rollback failed after error: %v", err), ErrTxFailed)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return NewStoreError("WithTx", "", "", "failed to commit transaction", ErrTxFailed)
	}

	return nil
}

// =============================================================================
// Transaction Store
// =============================================================================

// txSQLStore implements Store within a transaction.
type txSQLStore struct {
	tx *sqlx.Tx
}

func (s *txSQLStore) CreatePost(ctx context.Context, post *domain.Post) error {
	return createPost(ctx, s.tx, post)
}

func (s *txSQLStore) GetPost(ctx context.Context, id string) (*domain.Post, error) {
	return getPost(ctx, s.tx, id)
}

func (s *txSQLStore) GetPostBySlug(ctx context.Context, slug string) (*domain.Post, error) {
	return getPostBySlug(ctx, s.tx, slug)
}

func (s *txSQLStore) UpdatePost(ctx context.Context, post *domain.Post) error {
	return updatePost(ctx, s.tx, post)
}

func (s *txSQLStore) DeletePost(ctx context.Context, id string) error {
	return deletePost(ctx, s.tx, id)
}

func (s *txSQLStore) ListPosts(ctx context.Context, filter PostFilter) ([]domain.Post, error) {
	return listPosts(ctx, s.tx, filter)
}

func (s *txSQLStore) SlugTaken(ctx context.Context, slug, excludeID string) (bool, error) {
	return slugTaken(ctx, s.tx, slug, excludeID)
}

func (s *txSQLStore) CreateImages(ctx context.Context, images []domain.Image) error {
	return createImages(ctx, s.tx, images)
}

func (s *txSQLStore) DeleteImage(ctx context.Context, id string) error {
	return deleteImage(ctx, s.tx, id)
}

func (s *txSQLStore) DeleteImagesByPost(ctx context.Context, postID string) error {
	return deleteImagesByPost(ctx, s.tx, postID)
}

func (s *txSQLStore) ListImagesByPost(ctx context.Context, postID string) ([]domain.Image, error) {
	return listImagesByPost(ctx, s.tx, postID)
}

func (s *txSQLStore) CreateContactMessage(ctx context.Context, msg *domain.ContactMessage) error {
	return createContactMessage(ctx, s.tx, msg)
}

func (s *txSQLStore) ListContactMessages(ctx context.Context, opts ListOptions) ([]domain.ContactMessage, error) {
	return listContactMessages(ctx, s.tx, opts)
}

func (s *txSQLStore) Ping(ctx context.Context) error {
	// The open transaction proves the connection is alive
	return nil
}

func (s *txSQLStore) WithTx(ctx context.Context, fn func(Store) error) error {
	// Already in a transaction, just run the function
	return fn(s)
}

func (s *txSQLStore) Close() error {
	// No-op for tx store
	return nil
}

// =============================================================================
// Time Encoding
// =============================================================================

// timeLayout is fixed-width so that text columns sort chronologically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) time.Time {
	t, _ := time.Parse(time.RFC3339Nano, s)
	return t
}
