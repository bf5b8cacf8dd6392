package blobstore

import (
	"context"
	"sort"
	"strings"

	"github.com/patrickmn/go-cache"
)

type memoryBlob struct {
	body        []byte
	contentType string
}

// MemoryStore keeps blobs in process. Used for local development and tests.
type MemoryStore struct {
	cache    *cache.Cache
	pageSize int
}

func NewMemoryStore(pageSize int) *MemoryStore {
	// Records never expire; the janitor is off.
	return &MemoryStore{
		cache:    cache.New(cache.NoExpiration, 0),
		pageSize: pageSizeOr(pageSize),
	}
}

// List pages through keys in lexical order; the cursor is the last key of the previous page.
func (s *MemoryStore) List(ctx context.Context, opts ListOptions) (ListResult, error) {
	var keys []string
	for k := range s.cache.Items() {
		if strings.HasPrefix(k, opts.Prefix) && k > opts.Cursor {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	res := ListResult{}
	if len(keys) > s.pageSize {
		keys = keys[:s.pageSize]
		res.Cursor = keys[len(keys)-1]
	}
	for _, k := range keys {
		res.Blobs = append(res.Blobs, BlobInfo{Key: k})
	}
	return res, nil
}

func (s *MemoryStore) Get(ctx context.Context, key string) ([]byte, error) {
	v, ok := s.cache.Get(key)
	if !ok {
		return nil, ErrNotFound
	}
	b := v.(memoryBlob)
	return append([]byte(nil), b.body...), nil
}

func (s *MemoryStore) Set(ctx context.Context, key string, body []byte, contentType string) error {
	s.cache.Set(key, memoryBlob{body: append([]byte(nil), body...), contentType: contentType}, cache.NoExpiration)
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, key string) error {
	s.cache.Delete(key)
	return nil
}

// Len reports the number of stored blobs.
func (s *MemoryStore) Len() int {
	return s.cache.ItemCount()
}
