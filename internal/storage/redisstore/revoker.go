package redisstore

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "sellora:revoked:"

// Revoker keeps revoked token ids in Redis until the tokens would have expired anyway.
type Revoker struct {
	client *redis.Client
}

// NewRevoker parses redisURL, connects and verifies the connection with PING.
func NewRevoker(ctx context.Context, redisURL string) (*Revoker, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	return &Revoker{client: client}, nil
}

// NewRevokerWithClient wraps an existing client.
func NewRevokerWithClient(client *redis.Client) *Revoker {
	return &Revoker{client: client}
}

// Revoke marks tokenID as revoked until expiresAt. Already-expired tokens are ignored.
func (r *Revoker) Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return nil
	}
	if err := r.client.Set(ctx, keyPrefix+tokenID, 1, ttl).Err(); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}

// IsRevoked reports whether tokenID has been revoked.
func (r *Revoker) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	n, err := r.client.Exists(ctx, keyPrefix+tokenID).Result()
	if err != nil {
		return false, fmt.Errorf("check revoked token: %w", err)
	}
	return n > 0, nil
}

// Close releases the client connection pool.
func (r *Revoker) Close() error {
	return r.client.Close()
}
