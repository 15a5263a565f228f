package database

import (
	"context"
	"fmt"

	"github.com/bankingapp/ledger/internal/config"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// InitRedis initializes the Redis client used by the notification queue
func InitRedis(ctx context.Context, cfg config.NotifyConfig, logger *zap.Logger) (*redis.Client, error) {
	addr := cfg.RedisHost + ":" + cfg.RedisPort
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: cfg.RedisPass,
		DB:       cfg.RedisDB,
	})

	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("redis connection failed: %w", err)
	}

	logger.Info("[REDIS] Redis connection established", zap.String("addr", addr))
	return rdb, nil
}
