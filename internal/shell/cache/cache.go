// Package cache keeps the public post listing close to the HTTP layer so that
// anonymous blog reads do not hit the database on every request.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/machadoadv/lawsite/internal/core/domain"
)

// Cache stores the rendered public post listing.
//
// Entries are tagged with a generation. Invalidate bumps the generation, so a
// listing read from the store before a write can never be stored under the
// generation that follows it. Callers read Generation before querying the
// store and pass it to SetPublicPosts.
type Cache interface {
	Generation(ctx context.Context) (int64, error)
	// PublicPosts returns the listing cached for gen. ok is false on a miss.
	PublicPosts(ctx context.Context, gen int64) (posts []domain.Post, ok bool, err error)
	SetPublicPosts(ctx context.Context, gen int64, posts []domain.Post) error
	Invalidate(ctx context.Context) error
	Ping(ctx context.Context) error
}

// =============================================================================
// Noop
// =============================================================================

// Noop is a Cache that never stores anything.
type Noop struct{}

func (Noop) Generation(context.Context) (int64, error)                       { return 0, nil }
func (Noop) PublicPosts(context.Context, int64) ([]domain.Post, bool, error) { return nil, false, nil }
func (Noop) SetPublicPosts(context.Context, int64, []domain.Post) error      { return nil }
func (Noop) Invalidate(context.Context) error                                { return nil }
func (Noop) Ping(context.Context) error                                      { return nil }

// =============================================================================
// Redis
// =============================================================================

// DefaultTTL bounds how stale the cached listing may get if an
// invalidation is lost.
const DefaultTTL = 5 * time.Minute

const (
	generationKey  = "lawsite:posts:public:gen"
	publicPostsKey = "lawsite:posts:public:"
)

func listingKey(gen int64) string {
	return publicPostsKey + strconv.FormatInt(gen, 10)
}

// Config configures the Redis cache.
type Config struct {
	// Addr is host:port or a redis:// / rediss:// URL.
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

// Redis caches the listing as one JSON document per generation. Listings of
// past generations are never read again and expire with their TTL.
type Redis struct {
	client redis.UniversalClient
	ttl    time.Duration
}

// NewRedis builds a Redis cache and verifies the connection.
func NewRedis(ctx context.Context, cfg Config) (*Redis, error) {
	opts, err := clientOptions(cfg)
	if err != nil {
		return nil, err
	}

	c := NewRedisWithClient(redis.NewClient(opts), cfg.TTL)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := c.Ping(pingCtx); err != nil {
		c.client.Close()
		return nil, err
	}
	return c, nil
}

// NewRedisWithClient wraps an existing client.
func NewRedisWithClient(client redis.UniversalClient, ttl time.Duration) *Redis {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Redis{client: client, ttl: ttl}
}

func clientOptions(cfg Config) (*redis.Options, error) {
	if cfg.Addr == "" {
		return nil, errors.New("redis address is required")
	}
	if strings.HasPrefix(cfg.Addr, "redis://") || strings.HasPrefix(cfg.Addr, "rediss://") {
		opts, err := redis.ParseURL(cfg.Addr)
		if err != nil {
			return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
		}
		return opts, nil
	}
	return &redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	}, nil
}

func (r *Redis) Generation(ctx context.Context) (int64, error) {
	gen, err := r.client.Get(ctx, generationKey).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("redis get generation: %w", err)
	}
	return gen, nil
}

func (r *Redis) PublicPosts(ctx context.Context, gen int64) ([]domain.Post, bool, error) {
	data, err := r.client.Get(ctx, listingKey(gen)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get: %w", err)
	}

	var posts []domain.Post
	if err := json.Unmarshal(data, &posts); err != nil {
		// A corrupt entry is treated as a miss and overwritten on the next set
		return nil, false, nil
	}
	return posts, true, nil
}

func (r *Redis) SetPublicPosts(ctx context.Context, gen int64, posts []domain.Post) error {
	data, err := json.Marshal(posts)
	if err != nil {
		return fmt.Errorf("encode listing: %w", err)
	}
	if err := r.client.Set(ctx, listingKey(gen), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// Invalidate moves the cache to a new generation. The previous listing stays
// in Redis until its TTL expires but is no longer reachable.
func (r *Redis) Invalidate(ctx context.Context) error {
	if err := r.client.Incr(ctx, generationKey).Err(); err != nil {
		return fmt.Errorf("redis incr: %w", err)
	}
	return nil
}

func (r *Redis) Ping(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return nil
}

// Close releases the underlying client.
func (r *Redis) Close() error {
	return r.client.Close()
}
