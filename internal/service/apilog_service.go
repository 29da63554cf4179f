package service

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/zap"

	"github.com/Dev-Universe-Castro/sankhya-gateway/internal/config"
	"github.com/Dev-Universe-Castro/sankhya-gateway/internal/domain"
	"github.com/Dev-Universe-Castro/sankhya-gateway/internal/repository"
)

// timeNow is stubbed in tests.
var timeNow = func() time.Time { return time.Now().UTC() }

// APILogService maintains the bounded, time-retained ring of ERP call
// records in the shared store. Recording is a strict side channel: it never
// propagates store failures to the call path it describes.
type APILogService struct {
	store     repository.LogStore
	node      *snowflake.Node
	maxLogs   int
	retention time.Duration
	logger    *zap.Logger
}

// NewAPILogService wires dependencies.
func NewAPILogService(store repository.LogStore, node *snowflake.Node, cfg config.Config, logger *zap.Logger) *APILogService {
	return &APILogService{
		store:     store,
		node:      node,
		maxLogs:   cfg.MaxAPILogs,
		retention: cfg.APILogRetention,
		logger:    logger,
	}
}

// Record assigns the entry an ID and timestamp, prepends it to the ring,
// truncates to capacity, and persists the ring with a refreshed retention
// TTL. Store failures are logged and swallowed. The read-modify-write is
// best-effort under concurrent writers from separate processes; within one
// process callers serialize by awaiting.
func (s *APILogService) Record(ctx context.Context, entry domain.LogEntry) {
	entry.ID = s.node.Generate().String()
	entry.Timestamp = timeNow()

	fields := []zap.Field{
		zap.String("method", entry.Method),
		zap.String("url", entry.URL),
		zap.Int("status", entry.Status),
		zap.Int64("duration_ms", entry.DurationMs),
		zap.Bool("token_used", entry.TokenUsed),
	}
	if entry.Error != "" {
		fields = append(fields, zap.String("error", entry.Error))
	}
	if entry.Status >= 400 {
		s.logger.Warn("sankhya_call", fields...)
	} else {
		s.logger.Info("sankhya_call", fields...)
	}

	ring, err := s.store.Load(ctx)
	if err != nil {
		s.logger.Warn("api log ring load failed, entry dropped", zap.Error(err))
		return
	}

	ring = append([]domain.LogEntry{entry}, ring...)
	if len(ring) > s.maxLogs {
		ring = ring[:s.maxLogs]
	}

	if err := s.store.Save(ctx, ring, s.retention); err != nil {
		s.logger.Warn("api log ring persist failed, entry dropped", zap.Error(err))
	}
}

// List returns the ring newest-first. A never-written or expired ring is an
// empty slice, not an error.
func (s *APILogService) List(ctx context.Context) ([]domain.LogEntry, error) {
	return s.store.Load(ctx)
}

// MaxLogs reports the ring capacity.
func (s *APILogService) MaxLogs() int {
	return s.maxLogs
}

// RetentionDays reports the configured retention window in whole days.
func (s *APILogService) RetentionDays() int {
	return int(s.retention / (24 * time.Hour))
}
