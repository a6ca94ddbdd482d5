package characters

import (
	"github.com/redis/go-redis/v9"

	"github.com/KirkDiggler/nature-bot/internal/clock"
)

// NewRedis creates a new Redis-backed character repository
func NewRedis(client redis.UniversalClient) Repository {
	return NewRedisRepository(&RedisRepoConfig{
		Client: client,
		Clock:  clock.New(),
	})
}
