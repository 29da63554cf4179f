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

// RedisLogStore implements LogStore backed by Redis. The ring is stored as a
// single JSON array under one key; the key's TTL bounds retention. The
// surrounding read-modify-write is not atomic across processes, so
// concurrent writers can lose entries — an accepted trade for keeping the
// stored layout a plain JSON document.
type RedisLogStore struct {
	client  redis.UniversalClient
	ringKey string
}

var _ repository.LogStore = (*RedisLogStore)(nil)

// NewRedisLogStore constructs a Redis-backed log store for the named
// upstream service.
func NewRedisLogStore(client redis.UniversalClient, service string) *RedisLogStore {
	return &RedisLogStore{
		client:  client,
		ringKey: "global:server:api_logs:" + service,
	}
}

// Load returns the stored ring, newest-first. A missing or expired key is an
// empty ring, not an error.
func (s *RedisLogStore) Load(ctx context.Context) ([]domain.LogEntry, error) {
	bytes, err := s.client.Get(ctx, s.ringKey).Bytes()
	if err != nil {
		if err == redis.Nil {
			return []domain.LogEntry{}, nil
		}
		return nil, fmt.Errorf("load api logs: %w", err)
	}
	var entries []domain.LogEntry
	if err := json.Unmarshal(bytes, &entries); err != nil {
		return nil, fmt.Errorf("decode api logs: %w", err)
	}
	return entries, nil
}

// Save writes the whole ring back with a refreshed TTL.
func (s *RedisLogStore) Save(ctx context.Context, entries []domain.LogEntry, ttl time.Duration) error {
	payload, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("marshal api logs: %w", err)
	}
	if err := s.client.Set(ctx, s.ringKey, payload, ttl).Err(); err != nil {
		return fmt.Errorf("persist api logs: %w", err)
	}
	return nil
}
