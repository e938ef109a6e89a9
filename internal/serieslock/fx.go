package serieslock

import (
	"context"
	"strings"

	redis "github.com/redis/go-redis/v9"
	"github.com/utkalworks/floorops/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("serieslock",
	fx.Provide(
		NewKeyed,
		NewRedisClient,
		NewLocker,
	),
)

// NewRedisClient returns nil when no Redis address is configured. The
// distributed locker degrades to a no-op in that case.
func NewRedisClient(lc fx.Lifecycle, cfg config.Config, log *zap.Logger) *redis.Client {
	addr := strings.TrimSpace(cfg.RedisAddr)
	if addr == "" {
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: cfg.RedisPassword,
	})

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := client.Ping(ctx).Err(); err != nil {
				log.Warn("redis unreachable, series locks stay process-local", zap.Error(err))
			}
			return nil
		},
		OnStop: func(ctx context.Context) error {
			_ = ctx
			return client.Close()
		},
	})

	return client
}
