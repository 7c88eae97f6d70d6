package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type payload struct {
	ID     int64    `json:"id"`
	Skills []string `json:"skills"`
}

func newTestRedis(t *testing.T) (*Redis, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisWithClient(client, nil), mr
}

func TestRedis_SetGetDelete(t *testing.T) {
	r, mr := newTestRedis(t)
	ctx := context.Background()

	require.NoError(t, r.SetJSON(ctx, "cache:job:1", payload{ID: 1, Skills: []string{"Go"}}, time.Minute))
	assert.True(t, mr.Exists("cache:job:1"))
	assert.Equal(t, time.Minute, mr.TTL("cache:job:1"))

	var got payload
	hit, err := r.GetJSON(ctx, "cache:job:1", &got)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, payload{ID: 1, Skills: []string{"Go"}}, got)

	require.NoError(t, r.Delete(ctx, "cache:job:1"))
	hit, err = r.GetJSON(ctx, "cache:job:1", &got)
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestRedis_DefaultTTL(t *testing.T) {
	r, mr := newTestRedis(t)
	require.NoError(t, r.SetJSON(context.Background(), "k", payload{}, 0))
	assert.Equal(t, defaultTTL, mr.TTL("k"))
}

func TestRedis_ExpiredEntryIsMiss(t *testing.T) {
	r, mr := newTestRedis(t)
	ctx := context.Background()
	require.NoError(t, r.SetJSON(ctx, "k", payload{ID: 2}, time.Second))
	mr.FastForward(2 * time.Second)

	var got payload
	hit, err := r.GetJSON(ctx, "k", &got)
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestRedis_CorruptValueIsMissWithError(t *testing.T) {
	r, mr := newTestRedis(t)
	require.NoError(t, mr.Set("cache:job:9", "{not json"))

	var got payload
	hit, err := r.GetJSON(context.Background(), "cache:job:9", &got)
	assert.False(t, hit)
	assert.Error(t, err)
}

func TestRedis_UnavailableIsNoop(t *testing.T) {
	var r *Redis
	ctx := context.Background()

	var got payload
	hit, err := r.GetJSON(ctx, "k", &got)
	assert.NoError(t, err)
	assert.False(t, hit)
	assert.NoError(t, r.SetJSON(ctx, "k", payload{}, time.Minute))
	assert.NoError(t, r.Delete(ctx, "k"))
	assert.ErrorIs(t, r.Ping(ctx), ErrUnavailable)
}

func TestRedis_ServerDownReturnsError(t *testing.T) {
	r, mr := newTestRedis(t)
	mr.Close()

	var got payload
	hit, err := r.GetJSON(context.Background(), "k", &got)
	assert.False(t, hit)
	assert.Error(t, err)
	assert.True(t, r.warnedUnavailable.Load())
}
