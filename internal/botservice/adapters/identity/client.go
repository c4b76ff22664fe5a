package identity

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/replysms/botservice/internal/botservice/domain"
)

// Lookup resolves a phone number to caller-identity data. Returns (nil, nil)
// when the provider has no CNAM data for the number; that is not an error.
type Lookup interface {
	Lookup(ctx context.Context, number string) (*domain.CallerIdentity, error)
}

// Client calls a Number Insight style endpoint with cnam enabled.
type Client struct {
	logger     *slog.Logger
	httpClient *http.Client
	apiURL     string
	apiKey     string
	apiSecret  string
}

func NewClient(logger *slog.Logger, apiURL, apiKey, apiSecret string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{
		logger:     logger.With("adapter", "identity"),
		httpClient: httpClient,
		apiURL:     apiURL,
		apiKey:     apiKey,
		apiSecret:  apiSecret,
	}
}

type insightResponseBody struct {
	Status    int    `json:"status"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

func (c *Client) Lookup(ctx context.Context, number string) (*domain.CallerIdentity, error) {
	params := url.Values{}
	params.Set("api_key", c.apiKey)
	params.Set("api_secret", c.apiSecret)
	params.Set("number", number)
	params.Set("cnam", "true")

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create identity HTTP request: %w", err)
	}

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.logger.ErrorContext(ctx, "Identity lookup request failed", "error", err, "number", number)
		return nil, fmt.Errorf("identity lookup request failed: %w", err)
	}
	defer httpResp.Body.Close()

	respBytes, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read identity response: %w", err)
	}

	if httpResp.StatusCode < 200 || httpResp.StatusCode >= 300 {
		c.logger.WarnContext(ctx, "Identity lookup returned non-success status",
			"status_code", httpResp.StatusCode, "number", number)
		return nil, fmt.Errorf("identity lookup returned status %d", httpResp.StatusCode)
	}

	var respBody insightResponseBody
	if err := json.Unmarshal(respBytes, &respBody); err != nil {
		return nil, fmt.Errorf("failed to decode identity response: %w", err)
	}
	if respBody.Status != 0 {
		return nil, fmt.Errorf("identity lookup error status %d", respBody.Status)
	}

	if respBody.FirstName == "" && respBody.LastName == "" {
		c.logger.DebugContext(ctx, "No CNAM data for number", "number", number)
		return nil, nil
	}

	return &domain.CallerIdentity{
		FirstName: respBody.FirstName,
		LastName:  respBody.LastName,
	}, nil
}
