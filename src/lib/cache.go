package lib

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	CITIES_CACHE_KEY = "catalog:cities"
	CITIES_CACHE_TTL = 5 * time.Minute
	QR_CACHE_TTL     = 2 * time.Hour
)

func QrCacheKey(ticketNumber string) string {
	return "qr:" + ticketNumber
}

// CacheGet reports a miss when redis is disabled or the key is absent.
func CacheGet(ctx context.Context, key string) ([]byte, bool) {
	rd := GetRedisClient()
	if rd == nil {
		return nil, false
	}
	val, err := rd.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false
	}
	if err != nil {
		log.Printf("[redis] Error retrieving value for %s: %s\n", key, err.Error())
		return nil, false
	}
	return val, true
}

func CacheSet(ctx context.Context, key string, value []byte, ttl time.Duration) {
	rd := GetRedisClient()
	if rd == nil {
		return
	}
	if err := rd.SetEx(ctx, key, value, ttl).Err(); err != nil {
		log.Printf("[redis] Failed to set value for key %s: %s\n", key, err.Error())
	}
}

func CacheDelete(ctx context.Context, keys ...string) {
	rd := GetRedisClient()
	if rd == nil {
		return
	}
	if err := rd.Del(ctx, keys...).Err(); err != nil {
		log.Printf("[redis] Failed to delete keys %v: %s\n", keys, err.Error())
	}
}
