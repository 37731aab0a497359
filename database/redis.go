package database

import (
	"context"
	"encoding/json"
	"log"
	"time"

	config "github.com/brightsmile/dental_clinic/configs"
	"github.com/redis/go-redis/v9"
)

var Cache *redis.Client

// ConnectRedis wires up the cache used for dashboard aggregates. The app
// works without it; handlers fall back to querying the database directly.
func ConnectRedis() {
	redisURL := config.Config("REDIS_URL")
	if redisURL == "" {
		log.Println("⚠️ REDIS_URL not set, dashboard caching disabled")
		return
	}

	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		log.Printf("⚠️ Invalid REDIS_URL, dashboard caching disabled: %v", err)
		return
	}

	client := redis.NewClient(opt)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		log.Printf("⚠️ Redis unreachable, dashboard caching disabled: %v", err)
		return
	}

	Cache = client
	log.Println("✅ Redis connection established")
}

func CacheGet(ctx context.Context, key string, dest interface{}) bool {
	if Cache == nil {
		return false
	}
	data, err := Cache.Get(ctx, key).Bytes()
	if err != nil {
		return false
	}
	return json.Unmarshal(data, dest) == nil
}

func CacheSet(ctx context.Context, key string, value interface{}, expiration time.Duration) {
	if Cache == nil {
		return
	}
	data, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := Cache.Set(ctx, key, data, expiration).Err(); err != nil {
		log.Printf("Failed to cache %s: %v", key, err)
	}
}
