package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCacheCopiesValues(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	c := NewMemory()
	raw := []byte(`{"id":"a"}`)
	c.Set(ctx, "a", raw)
	raw[0] = 'X'

	got, ok := c.Get(ctx, "a")
	require.True(t, ok)
	assert.Equal(t, `{"id":"a"}`, string(got))

	c.Delete(ctx, "a")
	_, ok = c.Get(ctx, "a")
	assert.False(t, ok)
	assert.Equal(t, 0, c.Len())
}

func TestNopCacheNeverHits(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	c := NewNop()
	c.Set(ctx, "a", []byte("x"))
	_, ok := c.Get(ctx, "a")
	assert.False(t, ok)
	assert.NoError(t, c.Close())
	assert.Equal(t, "enhancement:a", Key(" a "))
}

func TestNewRedisWithoutClientIsNop(t *testing.T) {
	t.Parallel()

	c := NewRedis(nil, nil, time.Minute)
	_, ok := c.(nopCache)
	assert.True(t, ok)

	_, err := NewRedisClient(context.Background(), "  ")
	require.Error(t, err)
}
