package sankhya

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/Dev-Universe-Castro/sankhya-gateway/internal/config"
	"github.com/Dev-Universe-Castro/sankhya-gateway/internal/domain"
)

// LoginClient performs the Sankhya login call that mints bearer tokens.
type LoginClient struct {
	httpClient *http.Client
	loginURL   string
	headers    map[string]string
}

// NewLoginClient constructs a login client from the configured credentials.
// A nil http.Client gets the configured timeout applied.
func NewLoginClient(cfg config.Config, client *http.Client) *LoginClient {
	if client == nil {
		client = &http.Client{Timeout: cfg.HTTPTimeout}
	}
	return &LoginClient{
		httpClient: client,
		loginURL:   cfg.SankhyaLoginURL,
		headers: map[string]string{
			"token":    cfg.SankhyaToken,
			"appkey":   cfg.SankhyaAppKey,
			"username": cfg.SankhyaUsername,
			"password": cfg.SankhyaPassword,
		},
	}
}

// Login posts the credential headers to the login endpoint and extracts the
// bearer credential from the response. Sankhya environments answer with
// either a bearerToken or a token field; both are accepted.
func (c *LoginClient) Login(ctx context.Context) (*domain.LoginResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.loginURL, nil)
	if err != nil {
		return nil, &domain.TokenAcquisitionError{Reason: "build login request", Err: err}
	}
	for key, value := range c.headers {
		req.Header.Set(key, value)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &domain.TokenAcquisitionError{Reason: "login request", Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, &domain.TokenAcquisitionError{Status: resp.StatusCode, Reason: "read login response", Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &domain.TokenAcquisitionError{Status: resp.StatusCode, Reason: "login rejected"}
	}

	var raw map[string]any
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, &domain.TokenAcquisitionError{Status: resp.StatusCode, Reason: "decode login response", Err: err}
	}

	token := stringValue(raw["bearerToken"])
	if token == "" {
		token = stringValue(raw["token"])
	}
	if token == "" {
		return nil, &domain.TokenAcquisitionError{Status: resp.StatusCode, Reason: "credential field missing in login response"}
	}

	result := &domain.LoginResult{Token: token}
	if exp := int64Value(raw["expiresIn"]); exp > 0 {
		result.ExpiresIn = time.Duration(exp) * time.Second
	}
	return result, nil
}

func stringValue(input any) string {
	switch v := input.(type) {
	case string:
		return v
	case fmt.Stringer:
		return v.String()
	case json.Number:
		return v.String()
	default:
		return ""
	}
}

func int64Value(input any) int64 {
	switch v := input.(type) {
	case float64:
		return int64(v)
	case float32:
		return int64(v)
	case int64:
		return v
	case int32:
		return int64(v)
	case json.Number:
		n, _ := v.Int64()
		return n
	case string:
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return 0
}
