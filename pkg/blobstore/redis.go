package blobstore

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/redis/go-redis/v9"
)

const (
	redisBodyField        = "body"
	redisContentTypeField = "content_type"
)

var globEscaper = strings.NewReplacer(`\`, `\\`, `*`, `\*`, `?`, `\?`, `[`, `\[`, `]`, `\]`)

// RedisStore keeps each blob in a hash under "<store>:<key>". Listing uses SCAN, whose cursor is
// handed out as-is; SCAN may repeat keys across pages, which ListAll tolerates.
type RedisStore struct {
	rdb       redis.UniversalClient
	namespace string
	pageSize  int
}

func NewRedisStore(rdb redis.UniversalClient, storeName string, pageSize int) *RedisStore {
	return &RedisStore{
		rdb:       rdb,
		namespace: storeName + ":",
		pageSize:  pageSizeOr(pageSize),
	}
}

// NewRedisClient parses a redis:// URL, falling back to treating it as a plain address.
func NewRedisClient(url string) *redis.Client {
	opt, err := redis.ParseURL(url)
	if err != nil {
		opt = &redis.Options{Addr: url}
	}
	return redis.NewClient(opt)
}

func (s *RedisStore) List(ctx context.Context, opts ListOptions) (ListResult, error) {
	var cursor uint64
	if opts.Cursor != "" {
		c, err := strconv.ParseUint(opts.Cursor, 10, 64)
		if err != nil {
			return ListResult{}, fmt.Errorf("invalid redis cursor %q: %w", opts.Cursor, err)
		}
		cursor = c
	}

	match := s.namespace + globEscaper.Replace(opts.Prefix) + "*"
	keys, next, err := s.rdb.Scan(ctx, cursor, match, int64(s.pageSize)).Result()
	if err != nil {
		return ListResult{}, err
	}

	res := ListResult{Blobs: make([]BlobInfo, 0, len(keys))}
	for _, k := range keys {
		res.Blobs = append(res.Blobs, BlobInfo{Key: strings.TrimPrefix(k, s.namespace)})
	}
	if next != 0 {
		res.Cursor = strconv.FormatUint(next, 10)
	}
	return res, nil
}

func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, error) {
	body, err := s.rdb.HGet(ctx, s.namespace+key, redisBodyField).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	return body, err
}

func (s *RedisStore) Set(ctx context.Context, key string, body []byte, contentType string) error {
	return s.rdb.HSet(ctx, s.namespace+key,
		redisBodyField, body,
		redisContentTypeField, contentType,
	).Err()
}

func (s *RedisStore) Delete(ctx context.Context, key string) error {
	return s.rdb.Del(ctx, s.namespace+key).Err()
}
