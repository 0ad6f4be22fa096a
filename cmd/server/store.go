package main

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"notes-api/internal/config"
	"notes-api/internal/repository"
	"notes-api/internal/repository/cache"
	"notes-api/internal/repository/memory"
	"notes-api/internal/repository/sqlstore"
)

// openStore выбирает хранилище по database.driver и, если включен, оборачивает его Redis кэшем
func openStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (repository.NoteStore, error) {
	var store repository.NoteStore

	if cfg.Database == nil || cfg.Database.Driver == "memory" {
		store = memory.NewRepository()
		logger.Info("Initialized in-memory repository (map-based)")
	} else {
		sqlStore, err := sqlstore.New(ctx, sqlstore.Config{
			Driver:          cfg.Database.Driver,
			DSN:             cfg.Database.DSN,
			MaxOpenConns:    cfg.Database.MaxOpenConns,
			MaxIdleConns:    cfg.Database.MaxIdleConns,
			ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		}, logger)
		if err != nil {
			return nil, fmt.Errorf("sqlstore.New: %w", err)
		}
		store = sqlStore
		logger.Info("Initialized SQL repository", zap.String("driver", cfg.Database.Driver))
	}

	if cfg.Cache == nil || !cfg.Cache.Enabled {
		return store, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Cache.Addr,
		Password: cfg.Cache.Password,
		DB:       cfg.Cache.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		_ = store.Close()
		return nil, fmt.Errorf("redis ping %s: %w", cfg.Cache.Addr, err)
	}

	logger.Info("Enabled Redis note cache", zap.String("addr", cfg.Cache.Addr), zap.Duration("ttl", cfg.Cache.TTL))
	return cache.New(store, client, cfg.Cache.TTL, logger), nil
}
