package service

import (
	"context"
	"crypto/subtle"
	"fmt"

	"ux-collector-be/internal/dto"
	"ux-collector-be/internal/pkg/logger"
	"ux-collector-be/pkg/maintenance"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

type IMaintenanceService interface {
	AdministerStore(ctx context.Context, query dto.MaintenanceQuery) (*dto.MaintenanceResponse, error)
}

type maintenanceService struct {
	sweeper         *maintenance.Sweeper
	storeName       string
	token           string
	defaultPrefixes []string
	events          IEventPublisher
	logger          logger.ILogger
}

func NewMaintenanceService(
	sweeper *maintenance.Sweeper,
	storeName string,
	token string,
	defaultPrefixes []string,
	events IEventPublisher,
	log logger.ILogger,
) IMaintenanceService {
	return &maintenanceService{
		sweeper:         sweeper,
		storeName:       storeName,
		token:           token,
		defaultPrefixes: defaultPrefixes,
		events:          events,
		logger:          log,
	}
}

// AdministerStore checks the admin token, then runs a sweep. Dry run unless the query asks to delete.
func (s *maintenanceService) AdministerStore(ctx context.Context, query dto.MaintenanceQuery) (*dto.MaintenanceResponse, error) {
	ctx, span := tracer.Start(ctx, "MaintenanceService.AdministerStore")
	defer span.End()

	if !s.authorized(query.Token) {
		s.logger.Warn("MAINTENANCE", "Rejected maintenance request with bad token", nil)
		span.SetStatus(codes.Error, "unauthorized")
		return nil, ErrUnauthorized
	}

	prefixes := query.Prefixes()
	if len(prefixes) == 0 {
		prefixes = s.defaultPrefixes
	}
	req := maintenance.Request{
		Prefixes: prefixes,
		Contains: query.Contains,
		DryRun:   query.DryRun(),
	}
	span.SetAttributes(
		attribute.StringSlice("maintenance.prefixes", prefixes),
		attribute.Bool("maintenance.dry_run", req.DryRun),
	)

	report, err := s.sweeper.Sweep(ctx, req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "sweep failed")
		s.logger.Error("MAINTENANCE", "Sweep aborted", map[string]interface{}{"prefixes": prefixes, "error": err.Error()})
		return nil, fmt.Errorf("sweep %s: %w", s.storeName, err)
	}

	if !req.DryRun && report.TotalMatched > 0 {
		s.events.PublishStoreSwept(ctx, s.storeName, report)
	}
	return &dto.MaintenanceResponse{Store: s.storeName, Report: report}, nil
}

func (s *maintenanceService) authorized(token string) bool {
	if s.token == "" {
		return true
	}
	return subtle.ConstantTimeCompare([]byte(token), []byte(s.token)) == 1
}
