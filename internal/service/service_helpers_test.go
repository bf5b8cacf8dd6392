package service

import (
	"context"
	"errors"
	"sync"

	"ux-collector-be/pkg/blobstore"
	"ux-collector-be/pkg/maintenance"
)

type storedRecord struct {
	key       string
	storeName string
	size      int
	isMobile  bool
	condition string
}

type recordingPublisher struct {
	mu     sync.Mutex
	stored []storedRecord
	swept  []*maintenance.Report
}

func (p *recordingPublisher) PublishRecordStored(ctx context.Context, key, storeName string, size int, isMobile bool, condition string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stored = append(p.stored, storedRecord{key, storeName, size, isMobile, condition})
}

func (p *recordingPublisher) PublishStoreSwept(ctx context.Context, storeName string, report *maintenance.Report) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.swept = append(p.swept, report)
}

// flakyStore fails the first failSets writes, and every List when listErr is set.
type flakyStore struct {
	blobstore.Store
	failSets int
	sets     int
	listErr  error
}

func (s *flakyStore) Set(ctx context.Context, key string, body []byte, contentType string) error {
	s.sets++
	if s.sets <= s.failSets {
		return errors.New("write refused")
	}
	return s.Store.Set(ctx, key, body, contentType)
}

func (s *flakyStore) List(ctx context.Context, opts blobstore.ListOptions) (blobstore.ListResult, error) {
	if s.listErr != nil {
		return blobstore.ListResult{}, s.listErr
	}
	return s.Store.List(ctx, opts)
}
