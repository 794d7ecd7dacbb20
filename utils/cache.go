// File: utils/cache.go
package utils

import (
	"context"
	"log"
	"time"

	"telecare/config"

	"github.com/go-redis/redis/v8"
)

// AuthCacheClient is the dedicated client for the token deny-list.
var AuthCacheClient *redis.Client

// InitAuthCache initializes the Redis client for authorization caching (using DB from AppConfig for auth cache).
func InitAuthCache() {
	AuthCacheClient = redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisAuthDB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_, err := AuthCacheClient.Ping(ctx).Result()
	if err != nil {
		log.Fatalf("Failed to connect to Redis (Auth Cache): %v", err)
	}
}

// GetAuthCacheClient returns the Redis client for authorization caching.
func GetAuthCacheClient() *redis.Client {
	if AuthCacheClient == nil {
		InitAuthCache()
	}
	return AuthCacheClient
}

// TokenDenylist remembers revoked tokens by hash until they would have expired.
type TokenDenylist interface {
	Revoke(ctx context.Context, tokenHash string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenHash string) (bool, error)
}

// RedisTokenDenylist stores revoked token hashes as expiring keys.
type RedisTokenDenylist struct {
	Client *redis.Client
}

func (d *RedisTokenDenylist) Revoke(ctx context.Context, tokenHash string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	return d.Client.Set(ctx, AuthCachePrefix+tokenHash, "1", ttl).Err()
}

func (d *RedisTokenDenylist) IsRevoked(ctx context.Context, tokenHash string) (bool, error) {
	err := d.Client.Get(ctx, AuthCachePrefix+tokenHash).Err()
	switch {
	case err == nil:
		return true, nil
	case err == redis.Nil:
		return false, nil
	default:
		return false, err
	}
}
