package bootstrap

import (
	"context"
	"fmt"

	"ux-collector-be/internal/config"
	"ux-collector-be/internal/pkg/logger"
	"ux-collector-be/pkg/blobstore"
	"ux-collector-be/pkg/database"
)

// OpenStore builds the blob store selected by STORE_BACKEND. The returned close func is never nil.
func OpenStore(ctx context.Context, cfg *config.Config, log logger.ILogger) (blobstore.Store, func() error, error) {
	sc := cfg.Store
	noop := func() error { return nil }

	switch sc.Backend {
	case config.BackendMemory, "":
		log.Warn("BOOTSTRAP", "Using in-memory store, records are lost on restart", nil)
		return blobstore.NewMemoryStore(sc.PageSize), noop, nil

	case config.BackendRedis:
		rdb := blobstore.NewRedisClient(sc.RedisURL)
		if err := rdb.Ping(ctx).Err(); err != nil {
			// go-redis reconnects on demand, so keep going
			log.Warn("BOOTSTRAP", "Redis not reachable yet", map[string]interface{}{"error": err.Error()})
		}
		return blobstore.NewRedisStore(rdb, sc.Name, sc.PageSize), rdb.Close, nil

	case config.BackendGCS:
		store, err := blobstore.NewGCSStore(ctx, sc.GCSBucket, sc.GCSCredentials, sc.PageSize)
		if err != nil {
			return nil, noop, fmt.Errorf("open gcs store: %w", err)
		}
		return store, store.Close, nil

	case config.BackendPostgres:
		db, err := database.NewGormDBFromDSN(sc.DBConnection, !cfg.IsProduction())
		if err != nil {
			return nil, noop, fmt.Errorf("connect postgres: %w", err)
		}
		closeDB := func() error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.Close()
		}
		store, err := blobstore.NewGormStore(db, sc.Name, sc.PageSize)
		if err != nil {
			_ = closeDB()
			return nil, noop, fmt.Errorf("migrate blob table: %w", err)
		}
		return store, closeDB, nil

	case config.BackendBadger:
		store, err := blobstore.OpenBadgerStore(sc.BadgerPath, sc.PageSize)
		if err != nil {
			return nil, noop, fmt.Errorf("open badger store: %w", err)
		}
		return store, store.Close, nil
	}

	return nil, noop, fmt.Errorf("unknown store backend %q", sc.Backend)
}
