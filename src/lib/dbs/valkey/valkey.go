package valkeydb

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Options struct {
	Addr     string
	Password string
	DB       int
}

// NewClient builds the client without touching the network.
func NewClient(opts Options) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})
}

// WaitUntilReady pings valkey every retryEvery until it answers or ctx ends.
func WaitUntilReady(ctx context.Context, rdb *redis.Client, retryEvery time.Duration, logger *zap.Logger) error {
	logger.Info("waiting until valkey is ready", zap.String("addr", rdb.Options().Addr))

	ticker := time.NewTicker(retryEvery)
	defer ticker.Stop()

	for {
		err := rdb.Ping(ctx).Err()
		if err == nil {
			logger.Info("valkey is ready")
			return nil
		}
		logger.Debug("valkey not ready yet", zap.Error(err))

		select {
		case <-ctx.Done():
			return fmt.Errorf("valkey not ready: %w", err)
		case <-ticker.C:
		}
	}
}
