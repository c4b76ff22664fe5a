package intent

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// Classification is the outcome of one classifier call: the matched intent
// action and the agent's generated reply.
type Classification struct {
	Action string
	Speech string
}

// Classifier maps free-form inbound text to an intent. The session key
// partitions multi-turn context per phone number.
type Classifier interface {
	Classify(ctx context.Context, text, sessionID string) (*Classification, error)
}

// Client talks to an api.ai style agent over its /query endpoint.
type Client struct {
	logger     *slog.Logger
	httpClient *http.Client
	apiURL     string
	apiToken   string
}

func NewClient(logger *slog.Logger, apiURL, apiToken string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{
		logger:     logger.With("adapter", "intent"),
		httpClient: httpClient,
		apiURL:     apiURL,
		apiToken:   apiToken,
	}
}

type queryRequestBody struct {
	Query     string `json:"query"`
	SessionID string `json:"sessionId"`
	Lang      string `json:"lang"`
}

type queryResponseBody struct {
	Result struct {
		Action      string `json:"action"`
		Fulfillment struct {
			Speech string `json:"speech"`
		} `json:"fulfillment"`
	} `json:"result"`
	Status struct {
		Code         int    `json:"code"`
		ErrorDetails string `json:"errorDetails"`
	} `json:"status"`
}

func (c *Client) Classify(ctx context.Context, text, sessionID string) (*Classification, error) {
	reqBody := queryRequestBody{Query: text, SessionID: sessionID, Lang: "en"}
	reqBytes, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal classifier request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewBuffer(reqBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to create classifier HTTP request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiToken)

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.logger.ErrorContext(ctx, "Classifier request failed", "error", err, "session_id", sessionID)
		return nil, fmt.Errorf("classifier request failed: %w", err)
	}
	defer httpResp.Body.Close()

	respBytes, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read classifier response: %w", err)
	}

	if httpResp.StatusCode < 200 || httpResp.StatusCode >= 300 {
		c.logger.WarnContext(ctx, "Classifier returned non-success status",
			"status_code", httpResp.StatusCode, "session_id", sessionID)
		return nil, fmt.Errorf("classifier returned status %d", httpResp.StatusCode)
	}

	var respBody queryResponseBody
	if err := json.Unmarshal(respBytes, &respBody); err != nil {
		return nil, fmt.Errorf("failed to decode classifier response: %w", err)
	}
	if respBody.Status.Code != 0 && respBody.Status.Code != http.StatusOK {
		return nil, fmt.Errorf("classifier error: %s", respBody.Status.ErrorDetails)
	}

	c.logger.DebugContext(ctx, "Classified inbound text",
		"session_id", sessionID,
		"action", respBody.Result.Action,
	)
	return &Classification{
		Action: respBody.Result.Action,
		Speech: respBody.Result.Fulfillment.Speech,
	}, nil
}
