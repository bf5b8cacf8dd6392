package blobstore

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMiniRedisStore(t *testing.T, pageSize int) (*RedisStore, *miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewRedisStore(rdb, "ux", pageSize), mr, rdb
}

func TestRedisStore_ListFollowsScanCursor(t *testing.T) {
	ctx := context.Background()
	s, _, rdb := newMiniRedisStore(t, 3)
	want := []string{"runs/1.json", "runs/2.json", "runs/3.json", "runs/4.json", "runs/5.json", "runs/6.json", "runs/7.json"}
	seed(t, s, want...)
	seed(t, s, "legacy/x.json")
	require.NoError(t, rdb.HSet(ctx, "other:runs/9.json", redisBodyField, "{}").Err())

	first, err := s.List(ctx, ListOptions{Prefix: "runs/"})
	require.NoError(t, err)
	assert.LessOrEqual(t, len(first.Blobs), 3)
	assert.NotEmpty(t, first.Cursor)

	keys, err := ListAll(ctx, s, "runs/")
	require.NoError(t, err)
	assert.ElementsMatch(t, want, keys)

	all, err := ListAll(ctx, s, "")
	require.NoError(t, err)
	assert.Len(t, all, 8)
	for _, k := range all {
		assert.NotContains(t, k, "ux:", "namespace must be trimmed")
		assert.NotEqual(t, "runs/9.json", k, "keys of another store must not be listed")
	}
}

func TestRedisStore_InvalidCursor(t *testing.T) {
	s, _, _ := newMiniRedisStore(t, 0)

	_, err := s.List(context.Background(), ListOptions{Prefix: "runs/", Cursor: "not-a-number"})

	assert.Error(t, err)
}

func TestRedisStore_GetSetDelete(t *testing.T) {
	ctx := context.Background()
	s, mr, _ := newMiniRedisStore(t, 0)

	require.NoError(t, s.Set(ctx, "runs/a.json", []byte(`{"a":1}`), ContentTypeJSON))
	assert.Equal(t, ContentTypeJSON, mr.HGet("ux:runs/a.json", redisContentTypeField))

	body, err := s.Get(ctx, "runs/a.json")
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":1}`, string(body))

	require.NoError(t, s.Delete(ctx, "runs/a.json"))
	_, err = s.Get(ctx, "runs/a.json")
	assert.ErrorIs(t, err, ErrNotFound)
}
