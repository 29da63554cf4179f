package main

import (
	"context"
	"fmt"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"go.uber.org/zap"

	cacheadapter "github.com/Dev-Universe-Castro/sankhya-gateway/internal/adapter/cache"
	"github.com/Dev-Universe-Castro/sankhya-gateway/internal/adapter/sankhya"
	"github.com/Dev-Universe-Castro/sankhya-gateway/internal/config"
	httptransport "github.com/Dev-Universe-Castro/sankhya-gateway/internal/http"
	"github.com/Dev-Universe-Castro/sankhya-gateway/internal/http/handler"
	"github.com/Dev-Universe-Castro/sankhya-gateway/internal/middleware"
	"github.com/Dev-Universe-Castro/sankhya-gateway/internal/repository"
	"github.com/Dev-Universe-Castro/sankhya-gateway/internal/server"
	"github.com/Dev-Universe-Castro/sankhya-gateway/internal/service"
	"github.com/Dev-Universe-Castro/sankhya-gateway/internal/telemetry"
)

func main() {
	app := fx.New(
		fx.Provide(
			newConfig,
			newLogger,
			newTelemetry,
			newSnowflake,
			newRedisClient,
			newTokenCache,
			newLogStore,
			newLoginClient,
			newTokenService,
			newAPILogService,
			newSankhyaClient,
			handler.NewAdminHandler,
			newSankhyaHandler,
			newRateLimiter,
			httptransport.NewRouter,
			server.NewHTTPServer,
		),
		fx.Invoke(useTelemetry, startHTTPServer),
	)

	app.Run()
}

func newConfig() (config.Config, error) {
	return config.Load()
}

func newLogger(cfg config.Config) (*zap.Logger, error) {
	var (
		logger *zap.Logger
		err    error
	)
	if cfg.Environment == "development" {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		return nil, err
	}
	zap.ReplaceGlobals(logger)
	return logger, nil
}

func newTelemetry(lc fx.Lifecycle, cfg config.Config, logger *zap.Logger) (*telemetry.Provider, error) {
	provider, err := telemetry.New(context.Background(), cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("telemetry init: %w", err)
	}

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			stopCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
			defer cancel()
			return provider.Shutdown(stopCtx)
		},
	})

	return provider, nil
}

func newSnowflake() (*snowflake.Node, error) {
	node, err := snowflake.NewNode(1)
	return node, err
}

func newRedisClient(lc fx.Lifecycle, cfg config.Config) (redis.UniversalClient, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			return client.Close()
		},
	})
	return client, nil
}

func newTokenCache(client redis.UniversalClient) repository.TokenCache {
	return cacheadapter.NewRedisTokenCache(client)
}

func newLogStore(client redis.UniversalClient, cfg config.Config) repository.LogStore {
	return cacheadapter.NewRedisLogStore(client, cfg.LogService)
}

func newLoginClient(cfg config.Config) service.LoginService {
	return sankhya.NewLoginClient(cfg, nil)
}

func newTokenService(cache repository.TokenCache, login service.LoginService, cfg config.Config, logger *zap.Logger) *service.TokenService {
	return service.NewTokenService(cache, login, cfg, logger)
}

func newAPILogService(store repository.LogStore, node *snowflake.Node, cfg config.Config, logger *zap.Logger) *service.APILogService {
	return service.NewAPILogService(store, node, cfg, logger)
}

func newSankhyaClient(cfg config.Config, tokens *service.TokenService, logs *service.APILogService, logger *zap.Logger) *sankhya.Client {
	return sankhya.NewClient(cfg, nil, tokens, logs, logger)
}

func newSankhyaHandler(client *sankhya.Client, logger *zap.Logger) *handler.SankhyaHandler {
	return handler.NewSankhyaHandler(client, logger)
}

func newRateLimiter(cfg config.Config) *middleware.RateLimiter {
	return middleware.NewRateLimiter(cfg.RateLimitRPM)
}

func startHTTPServer(lc fx.Lifecycle, srv *server.HTTPServer, cfg config.Config, logger *zap.Logger) {
	addr := ":" + cfg.HTTPPort
	var (
		cancel context.CancelFunc
		done   chan struct{}
	)

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			runCtx, stop := context.WithCancel(context.Background())
			cancel = stop
			done = make(chan struct{})

			go func() {
				if err := srv.Run(runCtx, addr); err != nil {
					logger.Error("http server stopped", zap.Error(err))
				}
				close(done)
			}()

			return nil
		},
		OnStop: func(ctx context.Context) error {
			if cancel != nil {
				cancel()
			}
			if done == nil {
				return nil
			}
			select {
			case <-done:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		},
	})
}

func useTelemetry(*telemetry.Provider) {}
