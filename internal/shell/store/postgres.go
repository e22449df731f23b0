package store

import (
	"context"
	"time"

	migratepgx "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
)

// NewPostgresStore connects to PostgreSQL through the pgx driver and runs
// migrations.
func NewPostgresStore(ctx context.Context, dsn string) (*SQLStore, error) {
	db, err := sqlx.Open("pgx", dsn)
	if err != nil {
		return nil, NewStoreError("NewPostgresStore", "", "", "failed to open database", ErrConnectionFailed)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, NewStoreError("NewPostgresStore", "", "", "failed to ping database", ErrConnectionFailed)
	}

	driver, err := migratepgx.WithInstance(db.DB, &migratepgx.Config{})
	if err != nil {
		db.Close()
		return nil, NewStoreError("NewPostgresStore", "", "", err.Error(), ErrMigrationFailed)
	}
	if err := runMigrations("pgx5", driver); err != nil {
		db.Close()
		return nil, NewStoreError("NewPostgresStore", "", "", err.Error(), ErrMigrationFailed)
	}

	return &SQLStore{db: db, driver: DriverPostgres}, nil
}
