package chat

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"fundis/models"

	"github.com/go-redis/redis/v8"
)

const contextKeyPrefix = "chat:ctx:"

// ContextStore holds per-user conversation state with a fixed TTL.
// Get returns (nil, nil) when no context exists or it has expired.
// Every Put re-arms the full TTL.
type ContextStore interface {
	Get(ctx context.Context, key string) (*models.ConversationContext, error)
	Put(ctx context.Context, key string, c *models.ConversationContext) error
	Delete(ctx context.Context, key string) error
}

// RedisContextStore keeps conversation contexts as JSON values under a
// namespaced key, expiry handled entirely by Redis.
type RedisContextStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisContextStore(client *redis.Client, ttl time.Duration) *RedisContextStore {
	return &RedisContextStore{client: client, ttl: ttl}
}

func (s *RedisContextStore) Get(ctx context.Context, key string) (*models.ConversationContext, error) {
	data, err := s.client.Get(ctx, contextKeyPrefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read conversation context: %w", err)
	}
	var c models.ConversationContext
	if err := json.Unmarshal([]byte(data), &c); err != nil {
		return nil, fmt.Errorf("failed to decode conversation context: %w", err)
	}
	return &c, nil
}

func (s *RedisContextStore) Put(ctx context.Context, key string, c *models.ConversationContext) error {
	data, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to encode conversation context: %w", err)
	}
	if err := s.client.Set(ctx, contextKeyPrefix+key, data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store conversation context: %w", err)
	}
	return nil
}

func (s *RedisContextStore) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, contextKeyPrefix+key).Err(); err != nil {
		return fmt.Errorf("failed to delete conversation context: %w", err)
	}
	return nil
}
