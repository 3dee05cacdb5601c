package redisclient

import (
	"context"
	"fmt"
	"time"
)

const revokedKeyPrefix = "fittrack:revoked:"

// TokenDenylist records revoked token ids until the token would have expired anyway.
type TokenDenylist struct {
	c *Client
}

func NewTokenDenylist(c *Client) *TokenDenylist {
	return &TokenDenylist{c: c}
}

func (d *TokenDenylist) Revoke(ctx context.Context, jti string, until time.Time) error {
	ttl := time.Until(until)
	if ttl <= 0 {
		return nil
	}

	err := d.c.redisdb.Set(ctx, revokedKeyPrefix+jti, 1, ttl).Err()
	if err != nil {
		return fmt.Errorf("revoke token %s: %w", jti, err)
	}

	return nil
}

func (d *TokenDenylist) IsRevoked(ctx context.Context, jti string) (bool, error) {
	n, err := d.c.redisdb.Exists(ctx, revokedKeyPrefix+jti).Result()
	if err != nil {
		return false, fmt.Errorf("check revoked token %s: %w", jti, err)
	}

	return n > 0, nil
}
