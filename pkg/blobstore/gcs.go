package blobstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"cloud.google.com/go/storage"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

// GCSStore keeps each blob as an object in a Cloud Storage bucket. The cursor is the listing's
// page token.
type GCSStore struct {
	client   *storage.Client
	bucket   *storage.BucketHandle
	pageSize int
}

// NewGCSStore connects to bucketName. With an empty credentialsFile the ambient application
// default credentials are used.
func NewGCSStore(ctx context.Context, bucketName, credentialsFile string, pageSize int) (*GCSStore, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		if _, err := os.Stat(credentialsFile); os.IsNotExist(err) {
			return nil, fmt.Errorf("service account key not found at path: %s", credentialsFile)
		}
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCS storage client: %w", err)
	}

	return &GCSStore{
		client:   client,
		bucket:   client.Bucket(bucketName),
		pageSize: pageSizeOr(pageSize),
	}, nil
}

func (s *GCSStore) List(ctx context.Context, opts ListOptions) (ListResult, error) {
	q := &storage.Query{Prefix: opts.Prefix}
	if err := q.SetAttrSelection([]string{"Name"}); err != nil {
		return ListResult{}, err
	}

	var attrs []*storage.ObjectAttrs
	next, err := iterator.NewPager(s.bucket.Objects(ctx, q), s.pageSize, opts.Cursor).NextPage(&attrs)
	if err != nil {
		return ListResult{}, err
	}

	res := ListResult{Blobs: make([]BlobInfo, 0, len(attrs)), Cursor: next}
	for _, a := range attrs {
		res.Blobs = append(res.Blobs, BlobInfo{Key: a.Name})
	}
	return res, nil
}

func (s *GCSStore) Get(ctx context.Context, key string) ([]byte, error) {
	r, err := s.bucket.Object(key).NewReader(ctx)
	if errors.Is(err, storage.ErrObjectNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return io.ReadAll(r)
}

func (s *GCSStore) Set(ctx context.Context, key string, body []byte, contentType string) error {
	w := s.bucket.Object(key).NewWriter(ctx)
	w.ContentType = contentType
	w.CacheControl = "no-cache, no-store, must-revalidate"

	if _, err := w.Write(body); err != nil {
		_ = w.Close()
		return fmt.Errorf("failed to write GCS object %s: %w", key, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to close GCS writer for %s: %w", key, err)
	}
	return nil
}

func (s *GCSStore) Delete(ctx context.Context, key string) error {
	err := s.bucket.Object(key).Delete(ctx)
	if errors.Is(err, storage.ErrObjectNotExist) {
		return nil
	}
	return err
}

func (s *GCSStore) Close() error {
	return s.client.Close()
}
