package cli

import (
	"context"
	"fmt"

	"roadside/config"
	"roadside/pkg/auth"
	"roadside/pkg/logger"
	"roadside/pkg/notify"
	"roadside/service"
	"roadside/storage"
	"roadside/storage/memory"
	"roadside/storage/postgres"
)

type app struct {
	cfg config.Config
	log logger.ILogger
	stg storage.IStorage
	pub notify.Publisher
	svc service.IServiceManager
}

func loadConfig(opts *RootOptions) config.Config {
	cfg := config.Load()
	if opts.LogLevel != "" {
		cfg.LoggerLevel = opts.LogLevel
	}
	if opts.Storage != "" {
		cfg.StorageDriver = opts.Storage
	}
	return cfg
}

func openStorage(ctx context.Context, cfg config.Config, log logger.ILogger) (storage.IStorage, error) {
	switch cfg.StorageDriver {
	case config.StorageDriverPostgres:
		return postgres.New(ctx, cfg, log)
	case config.StorageDriverMemory:
		log.Warning("using in-memory storage, data is lost on exit")
		return memory.New(), nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
	}
}

func openPublisher(cfg config.Config, log logger.ILogger) notify.Publisher {
	if cfg.RabbitMQURL == "" {
		return notify.Nop{}
	}
	pub, err := notify.NewAMQPPublisher(cfg.RabbitMQURL, cfg.RabbitMQExchange)
	if err != nil {
		log.Error("rabbitmq unavailable, events are dropped", logger.Error(err))
		return notify.Nop{}
	}
	log.Info("publishing events", logger.String("exchange", cfg.RabbitMQExchange))
	return pub
}

func bootstrap(ctx context.Context, opts *RootOptions) (*app, error) {
	cfg := loadConfig(opts)
	log := logger.New(cfg.ServiceName, cfg.LoggerLevel)

	stg, err := openStorage(ctx, cfg, log)
	if err != nil {
		return nil, err
	}
	pub := openPublisher(cfg, log)
	tokens := auth.NewTokens(cfg.JWTSecret, cfg.SessionTTL)

	return &app{
		cfg: cfg,
		log: log,
		stg: stg,
		pub: pub,
		svc: service.New(stg, tokens, pub, log),
	}, nil
}

func (a *app) Close() {
	if err := a.pub.Close(); err != nil {
		a.log.Warning("closing publisher", logger.Error(err))
	}
	a.stg.Close()
	_ = a.log.Sync()
}
