package cache

import (
	"context"
	"fmt"
	"time"

	"arroyo_seco_api/internal/platform/config"

	"github.com/redis/go-redis/v9"
)

// Connect builds the redis client used for rate-limit counters and the
// session sweep lock, and verifies the connection with a ping.
func Connect(cfg config.Config) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := rdb.Ping(ctx).Result(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("connecting to redis: %w", err)
	}
	return rdb, nil
}
