package service_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Dev-Universe-Castro/sankhya-gateway/internal/config"
	"github.com/Dev-Universe-Castro/sankhya-gateway/internal/domain"
	"github.com/Dev-Universe-Castro/sankhya-gateway/internal/service"
)

func testConfig() config.Config {
	return config.Config{
		TokenTTL:        30 * time.Minute,
		MaxAPILogs:      500,
		APILogRetention: 7 * 24 * time.Hour,
	}
}

func TestGetTokenSingleFlight(t *testing.T) {
	cache := &memoryTokenCache{}
	login := &fakeLogin{result: domain.LoginResult{Token: "tok-1"}, delay: 50 * time.Millisecond}
	svc := service.NewTokenService(cache, login, testConfig(), zap.NewNop())

	const callers = 10
	tokens := make([]string, callers)
	errs := make([]error, callers)

	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			tokens[i], errs[i] = svc.GetToken(context.Background())
		}(i)
	}
	wg.Wait()

	for i := 0; i < callers; i++ {
		require.NoError(t, errs[i])
		require.Equal(t, "tok-1", tokens[i])
	}
	require.Equal(t, 1, login.callCount())
}

func TestGetTokenReusesCachedToken(t *testing.T) {
	cache := &memoryTokenCache{}
	cache.record = &domain.TokenRecord{Token: "cached", IssuedAt: time.Now(), TTL: time.Hour}
	login := &fakeLogin{result: domain.LoginResult{Token: "fresh"}}
	svc := service.NewTokenService(cache, login, testConfig(), zap.NewNop())

	for i := 0; i < 3; i++ {
		token, err := svc.GetToken(context.Background())
		require.NoError(t, err)
		require.Equal(t, "cached", token)
	}
	require.Equal(t, 0, login.callCount())
}

func TestGetTokenAcquiresOnCacheReadFailure(t *testing.T) {
	cache := &memoryTokenCache{failGet: true}
	login := &fakeLogin{result: domain.LoginResult{Token: "fresh"}}
	svc := service.NewTokenService(cache, login, testConfig(), zap.NewNop())

	token, err := svc.GetToken(context.Background())
	require.NoError(t, err)
	require.Equal(t, "fresh", token)
	require.Equal(t, 1, login.callCount())
}

func TestRefreshReplacesRecordWholesale(t *testing.T) {
	cache := &memoryTokenCache{}
	login := &fakeLogin{result: domain.LoginResult{Token: "tok-1"}}
	svc := service.NewTokenService(cache, login, testConfig(), zap.NewNop())

	first, err := svc.Refresh(context.Background())
	require.NoError(t, err)
	require.Equal(t, "tok-1", first.Token)

	login.setResult(domain.LoginResult{Token: "tok-2"})
	second, err := svc.Refresh(context.Background())
	require.NoError(t, err)
	require.Equal(t, "tok-2", second.Token)
	require.False(t, second.IssuedAt.Before(first.IssuedAt))

	stored, err := cache.Get(context.Background())
	require.NoError(t, err)
	require.Equal(t, "tok-2", stored.Token)
}

func TestRefreshSurvivesCallerCancellation(t *testing.T) {
	cache := &memoryTokenCache{}
	login := &fakeLogin{result: domain.LoginResult{Token: "tok-1"}, delay: 20 * time.Millisecond}
	svc := service.NewTokenService(cache, login, testConfig(), zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	record, err := svc.Refresh(ctx)
	require.NoError(t, err)
	require.Equal(t, "tok-1", record.Token)

	stored, err := cache.Get(context.Background())
	require.NoError(t, err)
	require.Equal(t, "tok-1", stored.Token)
}

func TestRefreshFailureKeepsLastGoodToken(t *testing.T) {
	cache := &memoryTokenCache{}
	cache.record = &domain.TokenRecord{Token: "good", IssuedAt: time.Now(), TTL: time.Hour}
	login := &fakeLogin{err: &domain.TokenAcquisitionError{Status: 401, Reason: "login rejected"}}
	svc := service.NewTokenService(cache, login, testConfig(), zap.NewNop())

	_, err := svc.Refresh(context.Background())
	require.Error(t, err)

	var acqErr *domain.TokenAcquisitionError
	require.ErrorAs(t, err, &acqErr)
	require.Equal(t, 401, acqErr.Status)

	info, err := svc.TokenInfo(context.Background())
	require.NoError(t, err)
	require.NotNil(t, info)
	require.Equal(t, "good", info.Token)
}

func TestTokenInfoNeverAcquires(t *testing.T) {
	cache := &memoryTokenCache{}
	login := &fakeLogin{result: domain.LoginResult{Token: "fresh"}}
	svc := service.NewTokenService(cache, login, testConfig(), zap.NewNop())

	info, err := svc.TokenInfo(context.Background())
	require.NoError(t, err)
	require.Nil(t, info)
	require.Equal(t, 0, login.callCount())
}

func TestRefreshUsesLoginExpiryWhenPresent(t *testing.T) {
	cache := &memoryTokenCache{}
	login := &fakeLogin{result: domain.LoginResult{Token: "tok", ExpiresIn: 5 * time.Minute}}
	svc := service.NewTokenService(cache, login, testConfig(), zap.NewNop())

	record, err := svc.Refresh(context.Background())
	require.NoError(t, err)
	require.Equal(t, 5*time.Minute, record.TTL)
	require.Equal(t, 5*time.Minute, cache.lastTTL)
}

func TestRefreshDefaultsToConfiguredTTL(t *testing.T) {
	cache := &memoryTokenCache{}
	login := &fakeLogin{result: domain.LoginResult{Token: "tok"}}
	svc := service.NewTokenService(cache, login, testConfig(), zap.NewNop())

	record, err := svc.Refresh(context.Background())
	require.NoError(t, err)
	require.Equal(t, 30*time.Minute, record.TTL)
}

func TestRefreshSurvivesCacheWriteFailure(t *testing.T) {
	cache := &memoryTokenCache{failSave: true}
	login := &fakeLogin{result: domain.LoginResult{Token: "tok"}}
	svc := service.NewTokenService(cache, login, testConfig(), zap.NewNop())

	record, err := svc.Refresh(context.Background())
	require.NoError(t, err)
	require.Equal(t, "tok", record.Token)
}

type memoryTokenCache struct {
	mu       sync.Mutex
	record   *domain.TokenRecord
	lastTTL  time.Duration
	failGet  bool
	failSave bool
}

func (m *memoryTokenCache) Get(ctx context.Context) (*domain.TokenRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failGet {
		return nil, errors.New("cache unavailable")
	}
	if m.record == nil {
		return nil, nil
	}
	copied := *m.record
	return &copied, nil
}

func (m *memoryTokenCache) Save(ctx context.Context, record domain.TokenRecord, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failSave {
		return errors.New("cache unavailable")
	}
	m.record = &record
	m.lastTTL = ttl
	return nil
}

func (m *memoryTokenCache) Delete(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record = nil
	return nil
}

type fakeLogin struct {
	mu     sync.Mutex
	result domain.LoginResult
	err    error
	delay  time.Duration
	calls  int
}

func (f *fakeLogin) Login(ctx context.Context) (*domain.LoginResult, error) {
	f.mu.Lock()
	f.calls++
	result := f.result
	err := f.err
	delay := f.delay
	f.mu.Unlock()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, fmt.Errorf("login canceled: %w", ctx.Err())
		}
	}
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (f *fakeLogin) setResult(result domain.LoginResult) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.result = result
}

func (f *fakeLogin) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}
