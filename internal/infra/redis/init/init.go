package infra_redis_init

import (
	"fmt"
	"log/slog"

	"github.com/go-redis/redis"
	"github.com/humanbelnik/columns/core/internal/config"
)

// Connect builds the client and pings once. An unreachable server is only
// logged: the client reconnects on the next command.
func Connect(cfg config.RedisCache, logger *slog.Logger) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping().Err(); err != nil {
		logger.Warn("redis ping failed", "addr", client.Options().Addr, "error", err)
	}

	return client
}
