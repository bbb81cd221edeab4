package realtime

import (
	"log"

	"github.com/redis/go-redis/v9"
)

// NewRedis creates the shared Redis client used by the gig cache.
func NewRedis(addr, password string) *redis.Client {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})

	log.Printf("Redis client created (addr: %s)\n", addr)
	return rdb
}
