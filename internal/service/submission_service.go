package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"ux-collector-be/internal/dto"
	"ux-collector-be/internal/pkg/logger"
	"ux-collector-be/pkg/blobstore"
	"ux-collector-be/pkg/experiment"
	"ux-collector-be/pkg/keyalloc"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("ux-collector")

// Slots a submission must carry as JSON objects to be accepted.
var requiredSlots = []string{"exp1", "exp5"}

type ISubmissionService interface {
	Submit(ctx context.Context, body []byte) (*dto.CollectResponse, error)
}

type submissionService struct {
	store     blobstore.Store
	storeName string
	prefix    string
	allocator *keyalloc.Allocator
	events    IEventPublisher
	logger    logger.ILogger
}

func NewSubmissionService(
	store blobstore.Store,
	storeName string,
	prefix string,
	allocator *keyalloc.Allocator,
	events IEventPublisher,
	log logger.ILogger,
) ISubmissionService {
	return &submissionService{
		store:     store,
		storeName: storeName,
		prefix:    prefix,
		allocator: allocator,
		events:    events,
		logger:    log,
	}
}

// Submit validates the raw body and stores it unchanged under a freshly allocated key.
func (s *submissionService) Submit(ctx context.Context, body []byte) (*dto.CollectResponse, error) {
	ctx, span := tracer.Start(ctx, "SubmissionService.Submit")
	defer span.End()

	// An empty body reads as {}; only unparseable input is invalid JSON.
	var decoded interface{}
	if len(bytes.TrimSpace(body)) > 0 {
		if err := json.Unmarshal(body, &decoded); err != nil {
			span.SetStatus(codes.Error, "invalid json")
			return nil, ErrInvalidJSON
		}
	}
	fields, ok := decoded.(map[string]interface{})
	if !ok {
		span.SetStatus(codes.Error, "not an object")
		return nil, fmt.Errorf("%w: body must be an object", ErrInvalidPayload)
	}
	for _, slot := range requiredSlots {
		if _, ok := fields[slot].(map[string]interface{}); !ok {
			span.SetStatus(codes.Error, "missing "+slot)
			return nil, fmt.Errorf("%w: %s must be an object", ErrInvalidPayload, slot)
		}
	}

	var payload experiment.Payload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, ErrInvalidJSON
	}

	key, err := s.allocator.Allocate(ctx, s.prefix, payload)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("allocate key: %w", err)
	}

	res := &dto.CollectResponse{Key: key}
	if err := s.store.Set(ctx, key, body, blobstore.ContentTypeJSON); err != nil {
		fallback := s.allocator.FallbackKey(s.prefix)
		s.logger.Warn("SUBMIT", "Store write failed, retrying under fallback key", map[string]interface{}{
			"key":      key,
			"fallback": fallback,
			"error":    err.Error(),
		})
		if err := s.store.Set(ctx, fallback, body, blobstore.ContentTypeJSON); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "store failed")
			s.logger.Error("SUBMIT", "Failed to store record", map[string]interface{}{"key": fallback, "error": err.Error()})
			return nil, fmt.Errorf("%w: %v", ErrStoreFailed, err)
		}
		res = &dto.CollectResponse{Key: fallback, Fallback: true}
	}

	span.SetAttributes(
		attribute.String("collector.key", res.Key),
		attribute.Int("collector.bytes", len(body)),
		attribute.Bool("collector.mobile", payload.Meta.IsMobile),
	)
	s.logger.Info("SUBMIT", "Record stored", map[string]interface{}{
		"key":      res.Key,
		"bytes":    len(body),
		"fallback": res.Fallback,
	})
	s.events.PublishRecordStored(ctx, res.Key, s.storeName, len(body), payload.Meta.IsMobile, payload.Condition())

	return res, nil
}
