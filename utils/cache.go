package utils

import (
	"context"
	"log"
	"time"

	"turnero/config"

	"github.com/go-redis/redis/v8"
)

// OfferCacheClient is the Redis client backing the pending-offer store.
var OfferCacheClient *redis.Client

// InitOfferCache initializes the Redis client for pending booking offers.
func InitOfferCache() {
	OfferCacheClient = redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisOfferDB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if _, err := OfferCacheClient.Ping(ctx).Result(); err != nil {
		log.Fatalf("Failed to connect to Redis (offer cache): %v", err)
	}
}

// GetOfferCacheClient returns the Redis client for pending booking offers.
func GetOfferCacheClient() *redis.Client {
	if OfferCacheClient == nil {
		InitOfferCache()
	}
	return OfferCacheClient
}
