// Package cache provides an optional Redis read-through cache for hydrated
// movie records. Cache failures degrade to a store read, never to an error.
package cache

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/peliculas/peliculas/internal/movies"
)

// Client wraps a Redis connection with movie-record helpers.
type Client struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// NewClient connects to Redis and verifies the connection.
func NewClient(ctx context.Context, addr string, ttl time.Duration) (*Client, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	logger := slog.Default().With("component", "cache")
	logger.Info("redis cache connected", "addr", addr, "ttl", ttl)

	return &Client{client: client, ttl: ttl, logger: logger}, nil
}

func movieKey(movieID string) string {
	return "movie:" + movieID
}

// GetMovie returns the cached record for a movie, or nil on miss. Errors
// are logged and reported as misses.
func (c *Client) GetMovie(ctx context.Context, movieID string) *movies.MovieDetail {
	data, err := c.client.Get(ctx, movieKey(movieID)).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn("cache read failed", "movie_id", movieID, "error", err)
		}
		return nil
	}

	var detail movies.MovieDetail
	if err := json.Unmarshal(data, &detail); err != nil {
		c.logger.Warn("cache entry corrupt", "movie_id", movieID, "error", err)
		return nil
	}
	return &detail
}

// SetMovie stores a hydrated record with the configured TTL. Movie nodes
// are read-only at runtime, so staleness within the TTL is acceptable.
func (c *Client) SetMovie(ctx context.Context, detail *movies.MovieDetail) {
	data, err := json.Marshal(detail)
	if err != nil {
		c.logger.Warn("cache encode failed", "movie_id", detail.ExternalID, "error", err)
		return
	}
	if err := c.client.Set(ctx, movieKey(detail.ExternalID), data, c.ttl).Err(); err != nil {
		c.logger.Warn("cache write failed", "movie_id", detail.ExternalID, "error", err)
	}
}

// Close releases the Redis connection.
func (c *Client) Close() error {
	return c.client.Close()
}
