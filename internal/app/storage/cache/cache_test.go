package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryGetSet(t *testing.T) {
	ctx := context.Background()
	c := NewMemory(0)

	_, ok, err := c.Get(ctx, 10, 200)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Set(ctx, 10, 200, 555))
	id, ok, err := c.Get(ctx, 10, 200)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, int64(555), id)

	_, ok, _ = c.Get(ctx, 200, 10)
	assert.False(t, ok, "key must be order sensitive")
}

func TestMemoryExpires(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	c := NewMemory(time.Minute)
	c.now = func() time.Time { return now }

	require.NoError(t, c.Set(ctx, 1, 2, 3))
	now = now.Add(59 * time.Second)
	_, ok, _ := c.Get(ctx, 1, 2)
	assert.True(t, ok)

	now = now.Add(time.Second)
	_, ok, _ = c.Get(ctx, 1, 2)
	assert.False(t, ok)
}

func TestNewRedisRejectsBadURL(t *testing.T) {
	_, err := NewRedis("http://not-redis", time.Minute)
	assert.Error(t, err)
}

func TestRedisIntegration(t *testing.T) {
	url := os.Getenv("TEST_REDIS_URL")
	if url == "" {
		t.Skip("TEST_REDIS_URL not set; skipping redis integration test")
	}

	ctx := context.Background()
	c, err := NewRedis(url, time.Minute)
	require.NoError(t, err)
	defer c.Close()
	require.NoError(t, c.Ping(ctx))

	require.NoError(t, c.Set(ctx, 10, 200, 555))
	id, ok, err := c.Get(ctx, 10, 200)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, int64(555), id)

	_, ok, err = c.Get(ctx, 10, 999)
	require.NoError(t, err)
	assert.False(t, ok)
}
