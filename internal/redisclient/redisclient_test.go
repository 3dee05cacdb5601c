package redisclient

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func testClient(t *testing.T) *Client {
	t.Helper()

	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set")
	}

	c := New(Config{Addr: addr})
	t.Cleanup(func() { _ = c.Close() })

	require.NoError(t, c.Ping(context.Background()))

	return c
}

func TestTokenDenylist(t *testing.T) {
	c := testClient(t)
	d := NewTokenDenylist(c)
	ctx := context.Background()

	jti := uuid.NewString()

	revoked, err := d.IsRevoked(ctx, jti)
	require.NoError(t, err)
	require.False(t, revoked)

	require.NoError(t, d.Revoke(ctx, jti, time.Now().Add(time.Minute)))

	revoked, err = d.IsRevoked(ctx, jti)
	require.NoError(t, err)
	require.True(t, revoked)

	ttl, err := c.Raw().TTL(ctx, revokedKeyPrefix+jti).Result()
	require.NoError(t, err)
	require.Greater(t, ttl, time.Duration(0))
	require.LessOrEqual(t, ttl, time.Minute)

	// already expired tokens are not stored
	stale := uuid.NewString()
	require.NoError(t, d.Revoke(ctx, stale, time.Now().Add(-time.Second)))

	revoked, err = d.IsRevoked(ctx, stale)
	require.NoError(t, err)
	require.False(t, revoked)
}

func TestRateLimiter(t *testing.T) {
	c := testClient(t)
	l := NewRateLimiter(c, 2, time.Minute)
	ctx := context.Background()

	key := "test|" + uuid.NewString()

	for i := 0; i < 2; i++ {
		ok, _, err := l.Allow(ctx, key)
		require.NoError(t, err)
		require.True(t, ok)
	}

	ok, retry, err := l.Allow(ctx, key)
	require.NoError(t, err)
	require.False(t, ok)
	require.Greater(t, retry, time.Duration(0))
	require.LessOrEqual(t, retry, time.Minute)
}
