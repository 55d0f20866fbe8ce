package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/marginalia/pkg/adapters/redis"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T, opts ...redis.Option) (*miniredis.Miniredis, *redis.Clipboard) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err, "Failed to start miniredis")
	t.Cleanup(mr.Close)

	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	c := redis.NewFromClient(client, opts...)
	t.Cleanup(func() { _ = c.Close() })
	return mr, c
}

func TestClipboard_CopyAndLatest(t *testing.T) {
	mr, c := setup(t, redis.WithKey("test:clip"))
	ctx := context.Background()

	_, err := c.Latest(ctx)
	assert.ErrorIs(t, err, redis.ErrEmpty)

	require.NoError(t, c.CopyText(ctx, "| A |\n| --- |\n"))
	require.NoError(t, c.CopyText(ctx, "| B |\n| --- |\n"))

	text, err := c.Latest(ctx)
	require.NoError(t, err)
	assert.Equal(t, "| B |\n| --- |\n", text)

	stored, err := mr.Get("test:clip")
	require.NoError(t, err)
	assert.Equal(t, text, stored)
}

func TestClipboard_TTL_Expiration(t *testing.T) {
	mr, c := setup(t, redis.WithTTL(time.Second))
	ctx := context.Background()

	require.NoError(t, c.CopyText(ctx, "temporary"))
	mr.FastForward(2 * time.Second)

	_, err := c.Latest(ctx)
	assert.ErrorIs(t, err, redis.ErrEmpty)
}

func TestClipboard_Subscribe(t *testing.T) {
	_, c := setup(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch, err := c.Subscribe(ctx)
	require.NoError(t, err)

	require.NoError(t, c.CopyText(context.Background(), "| shared |\n"))

	select {
	case text := <-ch:
		assert.Equal(t, "| shared |\n", text)
	case <-time.After(2 * time.Second):
		t.Fatal("no copy announced")
	}

	cancel()
	require.Eventually(t, func() bool {
		_, open := <-ch
		return !open
	}, time.Second, 10*time.Millisecond)
}

func TestClipboard_ServerDown(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	c := redis.New(mr.Addr())
	defer c.Close()
	mr.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	assert.Error(t, c.CopyText(ctx, "x"))
}
