package repository

import (
	"context"
	"time"

	"github.com/Dev-Universe-Castro/sankhya-gateway/internal/domain"
)

// TokenCache persists the current Sankhya token record in the shared cache.
type TokenCache interface {
	// Get returns the cached record, or (nil, nil) when none is stored.
	Get(ctx context.Context) (*domain.TokenRecord, error)
	// Save replaces the cached record wholesale with the given TTL.
	Save(ctx context.Context, record domain.TokenRecord, ttl time.Duration) error
	// Delete drops the cached record.
	Delete(ctx context.Context) error
}

// LogStore persists the API call log ring in the shared cache. The whole
// ring is read and written as one value; the store's key TTL enforces
// retention for the ring as a unit, not per entry.
type LogStore interface {
	// Load returns the stored ring newest-first, or an empty slice when the
	// key is absent or expired.
	Load(ctx context.Context) ([]domain.LogEntry, error)
	// Save writes the ring back with a refreshed TTL.
	Save(ctx context.Context, entries []domain.LogEntry, ttl time.Duration) error
}
