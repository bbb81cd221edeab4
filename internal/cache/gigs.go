package cache

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// GigCache is a read-through cache for the public gig endpoints. Entries hold
// the rendered JSON body; every gig or bid write invalidates the affected
// keys, so a miss is the worst a stale write can cause.
type GigCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewGigCache(rdb *redis.Client, ttl time.Duration) *GigCache {
	return &GigCache{rdb: rdb, ttl: ttl}
}

func ListKey(search string, page, limit int) string {
	return fmt.Sprintf("gigs:list:q=%s:p=%d:l=%d", search, page, limit)
}

func DetailKey(gigID string) string {
	return "gigs:detail:" + gigID
}

func (c *GigCache) Get(ctx context.Context, key string) ([]byte, bool) {
	if c == nil || c.rdb == nil {
		return nil, false
	}
	b, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			log.Printf("gig cache get %s: %v", key, err)
		}
		return nil, false
	}
	return b, true
}

func (c *GigCache) Set(ctx context.Context, key string, body []byte) {
	if c == nil || c.rdb == nil {
		return
	}
	if err := c.rdb.Set(ctx, key, body, c.ttl).Err(); err != nil {
		log.Printf("gig cache set %s: %v", key, err)
	}
}

// InvalidateGig drops the gig's detail entry and every cached list page.
func (c *GigCache) InvalidateGig(ctx context.Context, gigID string) {
	if c == nil || c.rdb == nil {
		return
	}
	keys := []string{DetailKey(gigID)}

	iter := c.rdb.Scan(ctx, 0, "gigs:list:*", 0).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		log.Printf("gig cache scan: %v", err)
	}

	if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
		log.Printf("gig cache invalidate %s: %v", gigID, err)
	}
}
