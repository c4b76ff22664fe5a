package smsprovider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// NexmoSMSProvider sends SMS through Nexmo's REST API. Nexmo answers HTTP 200
// even for rejected messages; the per-message status field is the real
// outcome ("0" means delivered to the network).
type NexmoSMSProvider struct {
	logger     *slog.Logger
	httpClient *http.Client
	apiURL     string
	apiKey     string
	apiSecret  string
}

func NewNexmoSMSProvider(logger *slog.Logger, apiURL, apiKey, apiSecret string, httpClient *http.Client) *NexmoSMSProvider {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &NexmoSMSProvider{
		logger:     logger.With("provider", "nexmo"),
		httpClient: httpClient,
		apiURL:     apiURL,
		apiKey:     apiKey,
		apiSecret:  apiSecret,
	}
}

type nexmoSendResponse struct {
	MessageCount string             `json:"message-count"`
	Messages     []nexmoMessagePart `json:"messages"`
}

type nexmoMessagePart struct {
	Status    string `json:"status"`
	MessageID string `json:"message-id"`
	ErrorText string `json:"error-text"`
}

func (p *NexmoSMSProvider) Send(ctx context.Context, request SMSRequestData) (*SMSResponseData, error) {
	form := url.Values{}
	form.Set("api_key", p.apiKey)
	form.Set("api_secret", p.apiSecret)
	form.Set("from", request.SenderID)
	form.Set("to", request.Recipient)
	form.Set("text", request.Content)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.apiURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to create Nexmo HTTP request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	httpResp, err := p.httpClient.Do(httpReq)
	if err != nil {
		p.logger.ErrorContext(ctx, "Failed to send request to Nexmo", "error", err, "recipient", request.Recipient)
		return nil, fmt.Errorf("failed to send request to Nexmo: %w", err)
	}
	defer httpResp.Body.Close()

	respBytes, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read Nexmo response: %w", err)
	}

	if httpResp.StatusCode < 200 || httpResp.StatusCode >= 300 {
		p.logger.WarnContext(ctx, "Nexmo send failed", "status_code", httpResp.StatusCode, "body", string(respBytes))
		return &SMSResponseData{
			Success:      false,
			StatusCode:   httpResp.StatusCode,
			ErrorMessage: fmt.Sprintf("Nexmo API error: status %d", httpResp.StatusCode),
			ProviderName: p.GetName(),
		}, nil
	}

	var sendResp nexmoSendResponse
	if err := json.Unmarshal(respBytes, &sendResp); err != nil {
		p.logger.WarnContext(ctx, "Failed to parse Nexmo response body", "error", err, "body", string(respBytes))
		return nil, fmt.Errorf("failed to decode Nexmo response: %w", err)
	}

	if len(sendResp.Messages) == 0 {
		return &SMSResponseData{
			Success:      false,
			StatusCode:   httpResp.StatusCode,
			ErrorMessage: "Nexmo response contained no message parts",
			ProviderName: p.GetName(),
		}, nil
	}

	part := sendResp.Messages[0]
	if part.Status != "0" {
		p.logger.WarnContext(ctx, "Nexmo rejected message",
			"provider_status", part.Status,
			"error_text", part.ErrorText,
			"recipient", request.Recipient,
		)
		return &SMSResponseData{
			Success:      false,
			StatusCode:   httpResp.StatusCode,
			ErrorMessage: fmt.Sprintf("Nexmo status %s: %s", part.Status, part.ErrorText),
			ProviderName: p.GetName(),
		}, nil
	}

	p.logger.InfoContext(ctx, "Successfully sent SMS via Nexmo",
		"provider_message_id", part.MessageID,
		"recipient", request.Recipient,
	)
	return &SMSResponseData{
		ProviderMessageID: part.MessageID,
		Success:           true,
		StatusCode:        httpResp.StatusCode,
		ProviderName:      p.GetName(),
	}, nil
}

func (p *NexmoSMSProvider) GetName() string {
	return "nexmo"
}
