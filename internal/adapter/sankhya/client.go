package sankhya

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/Dev-Universe-Castro/sankhya-gateway/internal/config"
	"github.com/Dev-Universe-Castro/sankhya-gateway/internal/domain"
)

// TokenSource yields a usable bearer token for ERP calls.
type TokenSource interface {
	GetToken(ctx context.Context) (string, error)
}

// CallRecorder receives one entry per outbound ERP call attempt. Recording
// is a side channel and must never fail the call it describes.
type CallRecorder interface {
	Record(ctx context.Context, entry domain.LogEntry)
}

// Client issues authorized calls against the Sankhya API, reporting every
// attempt to the call recorder.
type Client struct {
	httpClient *http.Client
	baseURL    string
	tokens     TokenSource
	calls      CallRecorder
	logger     *zap.Logger
}

// NewClient constructs the ERP client. A nil http.Client gets the configured
// timeout applied.
func NewClient(cfg config.Config, client *http.Client, tokens TokenSource, calls CallRecorder, logger *zap.Logger) *Client {
	if client == nil {
		client = &http.Client{Timeout: cfg.HTTPTimeout}
	}
	if logger == nil {
		logger = zap.L()
	}
	return &Client{
		httpClient: client,
		baseURL:    cfg.SankhyaBaseURL,
		tokens:     tokens,
		calls:      calls,
		logger:     logger,
	}
}

type priceResponse struct {
	Produtos []struct {
		Valor float64 `json:"valor"`
	} `json:"produtos"`
}

// ProductPrice looks up the list price for a product code on the default
// price table. An empty result set is price zero, not an error.
func (c *Client) ProductPrice(ctx context.Context, codProd string) (float64, error) {
	callURL := fmt.Sprintf("%s/v1/precos/produto/%s/tabela/0?pagina=1", c.baseURL, url.PathEscape(codProd))

	body, err := c.getJSON(ctx, callURL)
	if err != nil {
		return 0, err
	}

	var parsed priceResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return 0, &domain.UpstreamCallError{Method: http.MethodGet, URL: callURL, Err: fmt.Errorf("decode price response: %w", err)}
	}
	if len(parsed.Produtos) == 0 {
		return 0, nil
	}
	return parsed.Produtos[0].Valor, nil
}

// getJSON performs an authorized GET, recording the attempt whatever the
// outcome.
func (c *Client) getJSON(ctx context.Context, callURL string) ([]byte, error) {
	token, err := c.tokens.GetToken(ctx)
	if err != nil {
		c.calls.Record(ctx, domain.LogEntry{
			Method:    http.MethodGet,
			URL:       callURL,
			Status:    http.StatusInternalServerError,
			TokenUsed: false,
			Error:     err.Error(),
		})
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, callURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	durationMs := time.Since(start).Milliseconds()
	if err != nil {
		callErr := &domain.UpstreamCallError{Method: http.MethodGet, URL: callURL, Err: err}
		c.calls.Record(ctx, domain.LogEntry{
			Method:     http.MethodGet,
			URL:        callURL,
			Status:     http.StatusInternalServerError,
			DurationMs: durationMs,
			TokenUsed:  true,
			Error:      err.Error(),
		})
		return nil, callErr
	}
	defer resp.Body.Close()

	entry := domain.LogEntry{
		Method:     http.MethodGet,
		URL:        callURL,
		Status:     resp.StatusCode,
		DurationMs: durationMs,
		TokenUsed:  true,
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		callErr := &domain.UpstreamCallError{Method: http.MethodGet, URL: callURL, Status: resp.StatusCode, Err: fmt.Errorf("read response: %w", err)}
		entry.Error = callErr.Error()
		c.calls.Record(ctx, entry)
		return nil, callErr
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		callErr := &domain.UpstreamCallError{Method: http.MethodGet, URL: callURL, Status: resp.StatusCode}
		entry.Error = callErr.Error()
		c.calls.Record(ctx, entry)
		return nil, callErr
	}

	c.calls.Record(ctx, entry)
	return body, nil
}
