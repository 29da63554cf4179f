package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Dev-Universe-Castro/sankhya-gateway/internal/domain"
	"github.com/Dev-Universe-Castro/sankhya-gateway/internal/repository"
)

const tokenKey = "global:server:sankhya_token"

// RedisTokenCache implements TokenCache backed by Redis.
type RedisTokenCache struct {
	client redis.UniversalClient
}

var _ repository.TokenCache = (*RedisTokenCache)(nil)

// NewRedisTokenCache constructs a Redis-backed token cache.
func NewRedisTokenCache(client redis.UniversalClient) *RedisTokenCache {
	return &RedisTokenCache{client: client}
}

// Get loads and decodes the current token record.
func (c *RedisTokenCache) Get(ctx context.Context) (*domain.TokenRecord, error) {
	bytes, err := c.client.Get(ctx, tokenKey).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("load token: %w", err)
	}
	var record domain.TokenRecord
	if err := json.Unmarshal(bytes, &record); err != nil {
		return nil, fmt.Errorf("decode token: %w", err)
	}
	return &record, nil
}

// Save stores the record with TTL, replacing any previous one.
func (c *RedisTokenCache) Save(ctx context.Context, record domain.TokenRecord, ttl time.Duration) error {
	payload, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshal token: %w", err)
	}
	if err := c.client.Set(ctx, tokenKey, payload, ttl).Err(); err != nil {
		return fmt.Errorf("persist token: %w", err)
	}
	return nil
}

// Delete removes the cached record.
func (c *RedisTokenCache) Delete(ctx context.Context) error {
	if err := c.client.Del(ctx, tokenKey).Err(); err != nil && err != redis.Nil {
		return fmt.Errorf("delete token: %w", err)
	}
	return nil
}
