package cli

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"tg-otp-service/internal/config"
	"tg-otp-service/internal/directory"
	boltdir "tg-otp-service/internal/directory/bbolt"
	"tg-otp-service/internal/directory/memory"
	"tg-otp-service/internal/directory/postgres"
	redisdir "tg-otp-service/internal/directory/redis"
	"tg-otp-service/internal/directory/sheetdb"
	zitadeldir "tg-otp-service/internal/directory/zitadel"
	"tg-otp-service/internal/logger"
)

// loadConfig loads configuration and builds the logger. Any error aborts startup.
func loadConfig() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	log, err := logger.New(cfg.LogLevel, cfg.IsProduction())
	if err != nil {
		return nil, nil, err
	}
	if !cfg.EnvFileLoaded {
		log.Warn(".env file not found, using system environment variables")
	}
	return cfg, log, nil
}

// openDirectory opens the configured Login Directory backend, guarded by the
// outbound timeout. The returned closer releases the backend.
func openDirectory(ctx context.Context, cfg *config.Config, log *zap.Logger) (directory.Directory, func(), error) {
	var (
		backend directory.Directory
		closer  = func() {}
	)

	switch cfg.DirectoryBackend {
	case config.BackendSheetDB:
		backend = sheetdb.NewClient(cfg.SheetDBURL, cfg.HTTPTimeout)

	case config.BackendPostgres:
		store, err := postgres.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		backend, closer = store, store.Close

	case config.BackendBolt:
		store, err := boltdir.Open(cfg.BoltPath, nil)
		if err != nil {
			return nil, nil, err
		}
		backend = store
		closer = func() {
			if err := store.Close(); err != nil {
				log.Warn("failed to close bbolt directory", zap.Error(err))
			}
		}

	case config.BackendRedis:
		store, err := redisdir.Open(ctx, cfg.RedisAddr, cfg.RedisPass)
		if err != nil {
			return nil, nil, err
		}
		backend = store
		closer = func() {
			if err := store.Close(); err != nil {
				log.Warn("failed to close redis directory", zap.Error(err))
			}
		}

	case config.BackendZitadel:
		store, err := zitadeldir.Open(ctx, zitadeldir.Options{
			Domain:       cfg.ZitadelDomain,
			InsecurePort: cfg.ZitadelInsecurePort,
			PAT:          cfg.ZitadelPAT,
			KeyPath:      cfg.ZitadelKeyPath,
			OrgID:        cfg.ZitadelOrgID,
		})
		if err != nil {
			return nil, nil, err
		}
		backend = store

	case config.BackendMemory:
		log.Warn("using in-memory login directory, records are lost on restart")
		backend = memory.New()

	default:
		return nil, nil, fmt.Errorf("unknown login directory backend %q", cfg.DirectoryBackend)
	}

	log.Info("login directory ready", zap.String("backend", cfg.DirectoryBackend))
	return directory.Guard(backend, cfg.HTTPTimeout, log), closer, nil
}
