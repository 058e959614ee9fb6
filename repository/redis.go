package repository

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/loomline/catalog_end/utils"
)

// InitRedis connects the product-cache client. A failed ping is logged and
// the client is still returned; the cache layer degrades gracefully when
// redis is unavailable.
func InitRedis(addr string) *redis.Client {
	client := redis.NewClient(&redis.Options{Addr: addr})

	pingCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		utils.Logger.Warn().Err(err).Str("addr", addr).Msg("redis unavailable, product cache degraded")
	} else {
		utils.Logger.Info().Str("addr", addr).Msg("connected to redis")
	}

	return client
}
