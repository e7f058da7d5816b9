package pending

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"turnero/models"

	"github.com/go-redis/redis/v8"
)

const offerKeyPrefix = "offer:"

// RedisStore is a Store backed by Redis, for deployments with more than one
// replica handling inbound messages. TTL eviction is native.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func (s *RedisStore) Set(ctx context.Context, offer models.PendingOffer) error {
	offer.ExpiresAt = time.Now().Add(s.ttl)
	b, err := json.Marshal(offer)
	if err != nil {
		return fmt.Errorf("failed to marshal pending offer: %w", err)
	}
	if err := s.client.Set(ctx, offerKeyPrefix+offer.Key, b, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store pending offer: %w", err)
	}
	return nil
}

func (s *RedisStore) TryGet(ctx context.Context, key string) (*models.PendingOffer, bool, error) {
	data, err := s.client.Get(ctx, offerKeyPrefix+key).Result()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to fetch pending offer: %w", err)
	}
	var offer models.PendingOffer
	if err := json.Unmarshal([]byte(data), &offer); err != nil {
		return nil, false, fmt.Errorf("failed to parse pending offer: %w", err)
	}
	// Redis evicts on TTL; the stamp guards a replica with a skewed clock.
	if time.Now().After(offer.ExpiresAt) {
		s.client.Del(ctx, offerKeyPrefix+key)
		return nil, false, nil
	}
	return &offer, true, nil
}

func (s *RedisStore) Clear(ctx context.Context, key string) error {
	return s.client.Del(ctx, offerKeyPrefix+key).Err()
}
