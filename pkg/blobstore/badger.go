package blobstore

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
)

// BadgerStore keeps blobs in an embedded BadgerDB. Only the body is persisted; the content type
// is implied to be JSON.
type BadgerStore struct {
	db       *badger.DB
	pageSize int
}

// OpenBadgerStore opens (or creates) a store at path. An empty path opens an in-memory store.
func OpenBadgerStore(path string, pageSize int) (*BadgerStore, error) {
	opts := badger.DefaultOptions(path)
	if path == "" {
		opts = badger.DefaultOptions("").WithInMemory(true)
	}
	opts = opts.WithLogger(nil)

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger at %q: %w", path, err)
	}
	return &BadgerStore{db: db, pageSize: pageSizeOr(pageSize)}, nil
}

func (s *BadgerStore) List(ctx context.Context, opts ListOptions) (ListResult, error) {
	res := ListResult{}
	prefix := []byte(opts.Prefix)

	err := s.db.View(func(txn *badger.Txn) error {
		itOpts := badger.DefaultIteratorOptions
		itOpts.PrefetchValues = false
		itOpts.Prefix = prefix
		it := txn.NewIterator(itOpts)
		defer it.Close()

		start := prefix
		if opts.Cursor != "" {
			start = []byte(opts.Cursor)
		}
		for it.Seek(start); it.ValidForPrefix(prefix); it.Next() {
			key := it.Item().KeyCopy(nil)
			if opts.Cursor != "" && bytes.Equal(key, start) {
				continue
			}
			if len(res.Blobs) == s.pageSize {
				res.Cursor = res.Blobs[len(res.Blobs)-1].Key
				return nil
			}
			res.Blobs = append(res.Blobs, BlobInfo{Key: string(key)})
		}
		return nil
	})
	return res, err
}

func (s *BadgerStore) Get(ctx context.Context, key string) ([]byte, error) {
	var body []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		body, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrNotFound
	}
	return body, err
}

func (s *BadgerStore) Set(ctx context.Context, key string, body []byte, contentType string) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), body)
	})
}

func (s *BadgerStore) Delete(ctx context.Context, key string) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(key))
	})
}

func (s *BadgerStore) Close() error {
	return s.db.Close()
}
