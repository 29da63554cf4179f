package service

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/Dev-Universe-Castro/sankhya-gateway/internal/config"
	"github.com/Dev-Universe-Castro/sankhya-gateway/internal/domain"
	"github.com/Dev-Universe-Castro/sankhya-gateway/internal/repository"
)

// LoginService performs the external login call that mints bearer tokens.
type LoginService interface {
	Login(ctx context.Context) (*domain.LoginResult, error)
}

// TokenService owns the bearer token lifecycle: acquisition, caching in the
// shared store, and single-flight refresh. One instance is constructed at
// process start and shared by all proxy routes.
type TokenService struct {
	cache  repository.TokenCache
	login  LoginService
	cfg    config.Config
	logger *zap.Logger
	tracer trace.Tracer
	flight singleflight.Group
}

// NewTokenService wires dependencies.
func NewTokenService(cache repository.TokenCache, login LoginService, cfg config.Config, logger *zap.Logger) *TokenService {
	return &TokenService{
		cache:  cache,
		login:  login,
		cfg:    cfg,
		logger: logger,
		tracer: otel.Tracer("github.com/Dev-Universe-Castro/sankhya-gateway/internal/service"),
	}
}

// GetToken returns the cached bearer token, acquiring one when the cache is
// empty. A cached token is reused as-is; the ERP decides whether it is still
// honored. Cache read failures fall through to acquisition.
func (s *TokenService) GetToken(ctx context.Context) (string, error) {
	ctx, span := s.startSpan(ctx, "TokenService.GetToken")
	defer span.End()

	record, err := s.cache.Get(ctx)
	if err != nil {
		s.logger.Warn("token cache read failed", zap.Error(err))
	}
	if record != nil {
		return record.Token, nil
	}

	record, err = s.Refresh(ctx)
	if err != nil {
		span.RecordError(err)
		return "", err
	}
	return record.Token, nil
}

// Refresh forces acquisition of a fresh token, replacing the cached record
// wholesale on success. Concurrent refreshes collapse into one login call
// per process; all callers share its result. A failed refresh leaves the
// previously cached record in place.
func (s *TokenService) Refresh(ctx context.Context) (*domain.TokenRecord, error) {
	ctx, span := s.startSpan(ctx, "TokenService.Refresh")
	defer span.End()

	// The closure runs once for all coalesced callers; detach it from the
	// first caller's context so one canceled request cannot fail the rest.
	value, err, shared := s.flight.Do("sankhya-login", func() (any, error) {
		return s.acquire(context.WithoutCancel(ctx))
	})
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	record := value.(*domain.TokenRecord)
	if shared {
		s.logger.Debug("token refresh coalesced with in-flight acquisition")
	}
	return record, nil
}

// TokenInfo returns current token metadata without triggering acquisition,
// or nil when nothing is cached.
func (s *TokenService) TokenInfo(ctx context.Context) (*domain.TokenRecord, error) {
	ctx, span := s.startSpan(ctx, "TokenService.TokenInfo")
	defer span.End()

	record, err := s.cache.Get(ctx)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	return record, nil
}

func (s *TokenService) acquire(ctx context.Context) (*domain.TokenRecord, error) {
	result, err := s.login.Login(ctx)
	if err != nil {
		s.logger.Warn("sankhya login failed", zap.Error(err))
		return nil, err
	}

	ttl := result.ExpiresIn
	if ttl <= 0 {
		ttl = s.cfg.TokenTTL
	}
	record := domain.TokenRecord{
		Token:    result.Token,
		IssuedAt: timeNow(),
		TTL:      ttl,
	}

	if err := s.cache.Save(ctx, record, ttl); err != nil {
		// The token is still usable for this process; only the shared
		// cache missed the update.
		s.logger.Warn("token cache write failed", zap.Error(err))
	}

	s.logger.Info("sankhya token acquired", zap.Duration("ttl", ttl))
	return &record, nil
}

func (s *TokenService) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.tracer.Start(ctx, name)
}
