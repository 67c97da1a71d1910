package redis

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

const revokedKeyPrefix = "revoked_token:"

// Open parses the Redis URL, configures the connection pool and pings the server.
func Open(ctx context.Context, url string, poolSize int) (*goredis.Client, error) {
	opt, err := goredis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}

	opt.PoolSize = poolSize
	opt.MinIdleConns = 2
	opt.DialTimeout = 5 * time.Second
	opt.ConnMaxIdleTime = 5 * time.Minute

	client := goredis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	return client, nil
}

// TokenRevocationRepository implements repository.TokenRevocationRepository on Redis.
// Each revoked token id is a key that expires together with the token itself.
type TokenRevocationRepository struct {
	client *goredis.Client
}

// NewTokenRevocationRepository creates a new TokenRevocationRepository
func NewTokenRevocationRepository(client *goredis.Client) *TokenRevocationRepository {
	return &TokenRevocationRepository{client: client}
}

// Revoke marks the token as revoked until ttl elapses
func (r *TokenRevocationRepository) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		// Already expired, nothing to remember.
		return nil
	}
	return r.client.Set(ctx, revokedKeyPrefix+tokenID, 1, ttl).Err()
}

// IsRevoked reports whether the token was revoked
func (r *TokenRevocationRepository) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	n, err := r.client.Exists(ctx, revokedKeyPrefix+tokenID).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
