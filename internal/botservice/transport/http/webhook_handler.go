package http

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"time"

	chi_middleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
)

// inboundProcessor is the side-effect path for one inbound event.
type inboundProcessor interface {
	Process(ctx context.Context, text, from, to string)
}

// WebhookHandler receives inbound SMS callbacks. It always answers 200 with a
// fixed body: the upstream gateway treats any non-success response as a
// delivery failure and would retry or disable the webhook. Processing runs in
// a detached goroutine so the ack does not wait on downstream services.
type WebhookHandler struct {
	processor inboundProcessor
	validate  *validator.Validate
	logger    *slog.Logger
	timeout   time.Duration
}

func NewWebhookHandler(processor inboundProcessor, validate *validator.Validate, logger *slog.Logger, timeout time.Duration) *WebhookHandler {
	return &WebhookHandler{
		processor: processor,
		validate:  validate,
		logger:    logger.With("handler", "webhook"),
		timeout:   timeout,
	}
}

// HandleInboundSMS serves both POST (JSON body) and GET (query params)
// callback styles.
func (h *WebhookHandler) HandleInboundSMS(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := chi_middleware.GetReqID(ctx)
	logger := h.logger.With("request_id", requestID)

	var req InboundSMSRequest

	if r.Method == http.MethodPost {
		body, err := io.ReadAll(r.Body)
		if err == nil && len(body) > 0 {
			if err := json.Unmarshal(body, &req); err != nil {
				logger.WarnContext(ctx, "Failed to decode inbound SMS body", "error", err)
			}
		}
	}

	// Query parameters fill any field the body did not carry.
	query := r.URL.Query()
	if req.Text == "" {
		req.Text = query.Get("text")
	}
	if req.MSISDN == "" {
		req.MSISDN = query.Get("msisdn")
	}
	if req.To == "" {
		req.To = query.Get("to")
	}

	if err := h.validate.StructCtx(ctx, req); err != nil {
		// Logged only: the event is still recorded and the ack is still 200.
		logger.WarnContext(ctx, "Inbound SMS request failed validation", "error", err)
	}

	logger.InfoContext(ctx, "Received inbound SMS", "from", req.MSISDN, "to", req.To)

	// Detach from the request: the gateway gets its ack now, the side-effect
	// path runs on its own deadline.
	processCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), h.timeout)
	go func() {
		defer cancel()
		h.processor.Process(processCtx, req.Text, req.MSISDN, req.To)
	}()

	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}
