package bootstrap

import (
	"context"
	"errors"
	"log"

	"ux-collector-be/internal/config"
	"ux-collector-be/internal/controller"
	"ux-collector-be/internal/pkg/logger"
	"ux-collector-be/internal/service"
	"ux-collector-be/pkg/keyalloc"
	"ux-collector-be/pkg/maintenance"
	pktNats "ux-collector-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

type Container struct {
	Logger logger.ILogger

	// Controllers
	CollectController     controller.ICollectController
	MaintenanceController controller.IMaintenanceController

	// Background Services (Exposed for main.go to run)
	AuditConsumerService service.IAuditConsumerService

	closers []func() error
}

func NewContainer(ctx context.Context, cfg *config.Config) (*Container, error) {
	// 1. Core Facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.IsProduction())
	auditLogger := logger.NewIsolatedLogger(cfg.App.AuditLogPath)

	c := &Container{Logger: sysLogger}
	c.closers = append(c.closers, sysLogger.Sync, auditLogger.Sync)

	// 2. Storage
	store, closeStore, err := OpenStore(ctx, cfg, sysLogger)
	if err != nil {
		return nil, err
	}
	c.closers = append(c.closers, closeStore)
	log.Printf("[INFO] Using store backend: %s (%s)", cfg.Store.Backend, cfg.Store.Name)

	// 3. Event Bus
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermill.NewStdLogger(false, false),
	)
	c.closers = append(c.closers, pubSub.Close)

	// NATS is optional; without it events stay in process
	var natsPub *pktNats.Publisher
	var natsSub *pktNats.Subscriber
	if cfg.App.NatsURL != "" {
		natsPub, err = pktNats.NewPublisher(cfg.App.NatsURL)
		if err != nil {
			log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
			natsPub = nil
		} else {
			c.closers = append(c.closers, func() error { natsPub.Close(); return nil })
		}
		natsSub, err = pktNats.NewSubscriber(cfg.App.NatsURL)
		if err != nil {
			log.Printf("[WARN] Failed to connect to NATS Subscriber: %v", err)
			natsSub = nil
		} else {
			c.closers = append(c.closers, func() error { natsSub.Close(); return nil })
		}
	}
	eventPublisher := service.NewEventPublisher(pubSub, natsPub, sysLogger)

	// 4. Services
	allocator := keyalloc.New(store, cfg.Store.SequenceEnabled, sysLogger)
	sweeper := maintenance.NewSweeper(store, cfg.Admin.SampleLimit, sysLogger)

	submissionService := service.NewSubmissionService(
		store,
		cfg.Store.Name,
		cfg.Store.RecordPrefix,
		allocator,
		eventPublisher,
		sysLogger,
	)
	maintenanceService := service.NewMaintenanceService(
		sweeper,
		cfg.Store.Name,
		cfg.Admin.Token,
		cfg.MaintenancePrefixes(),
		eventPublisher,
		sysLogger,
	)
	if cfg.Admin.Token == "" {
		sysLogger.Warn("BOOTSTRAP", "ADMIN_TOKEN is not set, maintenance endpoint is open", nil)
	}

	c.AuditConsumerService = service.NewAuditConsumerService(pubSub, natsSub, auditLogger, sysLogger)

	// 5. Controllers
	c.CollectController = controller.NewCollectController(submissionService, maintenanceService)
	c.MaintenanceController = controller.NewMaintenanceController(maintenanceService)

	return c, nil
}

// Close releases everything in reverse order of creation.
func (c *Container) Close() error {
	var errs []error
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
