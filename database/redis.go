package database

import (
	"context"
	"log"
	"time"

	"github.com/go-redis/redis/v8"

	"lensbox/config"
)

var Redis *redis.Client

func ConnectRedis() {
	Redis = redis.NewClient(&redis.Options{
		Addr:     config.GetEnv("REDIS_ADDR", "localhost:6379"),
		Password: config.GetEnv("REDIS_PASSWORD", ""),
		DB:       config.GetEnvAsInt("REDIS_DB", 0),
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := Redis.Ping(ctx).Err(); err != nil {
		log.Fatal("Redis connection error:", err)
	}

	log.Println("Connected to Redis")
}

// BlacklistToken stores a revoked token until its natural expiry.
func BlacklistToken(ctx context.Context, token string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	return Redis.Set(ctx, "blacklist:"+token, "1", ttl).Err()
}

// IsTokenBlacklisted reports whether the token was revoked by a logout.
func IsTokenBlacklisted(ctx context.Context, token string) bool {
	n, err := Redis.Exists(ctx, "blacklist:"+token).Result()
	if err != nil {
		log.Printf("Blacklist lookup failed: %v", err)
		return false
	}
	return n > 0
}
