package handler_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Dev-Universe-Castro/sankhya-gateway/internal/adapter/sankhya"
	"github.com/Dev-Universe-Castro/sankhya-gateway/internal/domain"
	httphandler "github.com/Dev-Universe-Castro/sankhya-gateway/internal/http/handler"
	"github.com/Dev-Universe-Castro/sankhya-gateway/internal/service"
)

func newSankhyaHandler(t *testing.T, erpURL string, cache *memoryTokenCache, login *fakeLogin, store *memoryLogStore) *httphandler.SankhyaHandler {
	t.Helper()
	cfg := testConfig()
	cfg.SankhyaBaseURL = erpURL
	cfg.HTTPTimeout = 5 * time.Second

	tokens := service.NewTokenService(cache, login, cfg, zap.NewNop())
	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	logs := service.NewAPILogService(store, node, cfg, zap.NewNop())
	client := sankhya.NewClient(cfg, nil, tokens, logs, zap.NewNop())
	return httphandler.NewSankhyaHandler(client, zap.NewNop())
}

func activeTokenCache() *memoryTokenCache {
	return &memoryTokenCache{record: &domain.TokenRecord{
		Token:    "tok-abc",
		IssuedAt: time.Now(),
		TTL:      time.Hour,
	}}
}

func TestProductPriceProxy(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "Bearer tok-abc", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"produtos":[{"valor":42.9}]}`))
	}))
	defer srv.Close()

	store := &memoryLogStore{}
	h := newSankhyaHandler(t, srv.URL, activeTokenCache(), &fakeLogin{}, store)

	w, body := perform(t, http.MethodGet, "/api/sankhya/produtos/preco?codProd=123", h.ProductPrice)

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, 42.9, body["preco"])

	logs, err := store.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, logs, 1)
	require.Equal(t, http.StatusOK, logs[0].Status)
}

func TestProductPriceRequiresCodProd(t *testing.T) {
	h := newSankhyaHandler(t, "https://erp.invalid", activeTokenCache(), &fakeLogin{}, &memoryLogStore{})

	w, body := perform(t, http.MethodGet, "/api/sankhya/produtos/preco", h.ProductPrice)

	require.Equal(t, http.StatusBadRequest, w.Code)
	require.NotEmpty(t, body["error"])
}

func TestProductPriceDegradesToZeroOnUpstreamFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	store := &memoryLogStore{}
	h := newSankhyaHandler(t, srv.URL, activeTokenCache(), &fakeLogin{}, store)

	w, body := perform(t, http.MethodGet, "/api/sankhya/produtos/preco?codProd=123", h.ProductPrice)

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, 0.0, body["preco"])

	logs, err := store.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, logs, 1)
	require.NotEmpty(t, logs[0].Error)
}

func TestProductPriceDegradesToZeroWhenLoginFails(t *testing.T) {
	login := &fakeLogin{err: &domain.TokenAcquisitionError{Status: 401, Reason: "login rejected"}}
	store := &memoryLogStore{}
	h := newSankhyaHandler(t, "https://erp.invalid", &memoryTokenCache{}, login, store)

	w, body := perform(t, http.MethodGet, "/api/sankhya/produtos/preco?codProd=123", h.ProductPrice)

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, 0.0, body["preco"])

	logs, err := store.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, logs, 1)
	require.False(t, logs[0].TokenUsed)
}
