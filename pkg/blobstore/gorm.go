package blobstore

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// BlobRecord is one row of the experiment_blobs table. Bodies are stored as jsonb, so this
// backend only accepts JSON blobs.
type BlobRecord struct {
	Store       string         `gorm:"column:store;primaryKey;size:128"`
	BlobKey     string         `gorm:"column:blob_key;primaryKey;size:512"`
	Body        datatypes.JSON `gorm:"column:body;type:jsonb;not null"`
	ContentType string         `gorm:"column:content_type;size:128"`
	CreatedAt   time.Time      `gorm:"column:created_at;autoCreateTime"`
}

func (BlobRecord) TableName() string {
	return "experiment_blobs"
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// GormStore keeps blobs in Postgres. Listing is keyset-paginated on blob_key; the cursor is the
// last key of the previous page.
type GormStore struct {
	db        *gorm.DB
	storeName string
	pageSize  int
}

// NewGormStore migrates the blob table and returns a store scoped to storeName.
func NewGormStore(db *gorm.DB, storeName string, pageSize int) (*GormStore, error) {
	if err := db.AutoMigrate(&BlobRecord{}); err != nil {
		return nil, err
	}
	return &GormStore{db: db, storeName: storeName, pageSize: pageSizeOr(pageSize)}, nil
}

func (s *GormStore) List(ctx context.Context, opts ListOptions) (ListResult, error) {
	var keys []string
	err := s.db.WithContext(ctx).
		Model(&BlobRecord{}).
		Where("store = ?", s.storeName).
		Where(`blob_key LIKE ? ESCAPE '\'`, likeEscaper.Replace(opts.Prefix)+"%").
		Where("blob_key > ?", opts.Cursor).
		Order("blob_key").
		Limit(s.pageSize+1).
		Pluck("blob_key", &keys).Error
	if err != nil {
		return ListResult{}, err
	}

	res := ListResult{}
	if len(keys) > s.pageSize {
		keys = keys[:s.pageSize]
		res.Cursor = keys[len(keys)-1]
	}
	res.Blobs = make([]BlobInfo, 0, len(keys))
	for _, k := range keys {
		res.Blobs = append(res.Blobs, BlobInfo{Key: k})
	}
	return res, nil
}

func (s *GormStore) Get(ctx context.Context, key string) ([]byte, error) {
	var rec BlobRecord
	err := s.db.WithContext(ctx).
		Where("store = ? AND blob_key = ?", s.storeName, key).
		First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return rec.Body, nil
}

func (s *GormStore) Set(ctx context.Context, key string, body []byte, contentType string) error {
	rec := BlobRecord{
		Store:       s.storeName,
		BlobKey:     key,
		Body:        datatypes.JSON(body),
		ContentType: contentType,
	}
	return s.db.WithContext(ctx).Create(&rec).Error
}

func (s *GormStore) Delete(ctx context.Context, key string) error {
	return s.db.WithContext(ctx).
		Where("store = ? AND blob_key = ?", s.storeName, key).
		Delete(&BlobRecord{}).Error
}
