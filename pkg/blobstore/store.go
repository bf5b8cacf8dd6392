// Package blobstore is the key/value blob store experiment records are appended to.
//
// Every backend exposes the same four operations. List is paginated: a non-empty Cursor in the
// result means more keys may follow under the same prefix, and is passed back verbatim to get
// the next page. Each operation is atomic on its own; nothing composes them into a transaction.
package blobstore

import (
	"context"
	"errors"
	"fmt"
)

const (
	ContentTypeJSON = "application/json"

	DefaultPageSize = 100
)

var ErrNotFound = errors.New("blob not found")

type ListOptions struct {
	Prefix string
	Cursor string
}

type BlobInfo struct {
	Key string `json:"key"`
}

type ListResult struct {
	Blobs  []BlobInfo
	Cursor string
}

type Store interface {
	List(ctx context.Context, opts ListOptions) (ListResult, error)
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, body []byte, contentType string) error
	Delete(ctx context.Context, key string) error
}

// ListAll follows cursors until the listing under prefix is exhausted. Keys reported more than
// once by the backend are returned once, in first-seen order.
func ListAll(ctx context.Context, s Store, prefix string) ([]string, error) {
	var (
		keys   []string
		seen   = make(map[string]struct{})
		cursor string
	)
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		res, err := s.List(ctx, ListOptions{Prefix: prefix, Cursor: cursor})
		if err != nil {
			return nil, fmt.Errorf("list %q: %w", prefix, err)
		}
		for _, b := range res.Blobs {
			if _, dup := seen[b.Key]; dup {
				continue
			}
			seen[b.Key] = struct{}{}
			keys = append(keys, b.Key)
		}
		if res.Cursor == "" || res.Cursor == cursor {
			return keys, nil
		}
		cursor = res.Cursor
	}
}

func pageSizeOr(n int) int {
	if n <= 0 {
		return DefaultPageSize
	}
	return n
}
