package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) (*miniredis.Miniredis, *Client) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	c := New(mr.Addr(), "", 0)
	t.Cleanup(func() { _ = c.Close() })
	return mr, c
}

func TestClient_SetGetDelete(t *testing.T) {
	mr, c := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.Ping(ctx))
	require.NoError(t, c.Set(ctx, "user:1", []byte("payload"), time.Minute))

	got, err := c.Get(ctx, "user:1")
	require.NoError(t, err)
	assert.Equal(t, []byte("payload"), got)

	mr.FastForward(2 * time.Minute)
	got, err = c.Get(ctx, "user:1")
	require.NoError(t, err)
	assert.Nil(t, got, "expired keys read as a miss")

	require.NoError(t, c.Set(ctx, "user:2", []byte("x"), time.Minute))
	require.NoError(t, c.Delete(ctx, "user:2"))
	assert.False(t, mr.Exists("user:2"))
}

func TestClient_JSON(t *testing.T) {
	_, c := newTestCache(t)
	ctx := context.Background()

	type profile struct {
		Name string `json:"name"`
	}
	c.SetJSON(ctx, "profile", profile{Name: "alice"}, time.Minute)

	var got profile
	assert.True(t, c.GetJSON(ctx, "profile", &got))
	assert.Equal(t, "alice", got.Name)

	assert.False(t, c.GetJSON(ctx, "missing", &got))
}

func TestClient_FailsSafeWhenRedisIsDown(t *testing.T) {
	mr, c := newTestCache(t)
	ctx := context.Background()
	mr.Close()

	assert.NoError(t, c.Set(ctx, "k", []byte("v"), time.Minute))
	got, err := c.Get(ctx, "k")
	assert.NoError(t, err)
	assert.Nil(t, got)
	assert.NoError(t, c.Delete(ctx, "k"))
}

func TestClient_NilIsEmptyCache(t *testing.T) {
	var c *Client
	ctx := context.Background()

	assert.NoError(t, c.Set(ctx, "k", []byte("v"), time.Minute))
	got, err := c.Get(ctx, "k")
	assert.NoError(t, err)
	assert.Nil(t, got)
	assert.False(t, c.GetJSON(ctx, "k", &struct{}{}))
}
