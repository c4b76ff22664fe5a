package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chi_middleware "github.com/go-chi/chi/v5/middleware"
)

// RouterConfig carries the transport-level settings the router needs.
type RouterConfig struct {
	AdminEnabled      bool
	AdminUsername     string
	AdminPasswordHash string
}

// NewRouter wires the inbound webhook, the health endpoint and (when
// enabled) the basic-auth gated admin view.
func NewRouter(webhook *WebhookHandler, admin *AdminHandler, cfg RouterConfig, logger *slog.Logger) chi.Router {
	r := chi.NewRouter()
	r.Use(chi_middleware.RequestID)
	r.Use(chi_middleware.RealIP)
	r.Use(chi_middleware.Recoverer)
	r.Use(PrometheusMetricsMiddleware)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	// Gateways deliver inbound SMS via POST or GET depending on account
	// settings, so both are routed to the same handler.
	r.Post("/sms", webhook.HandleInboundSMS)
	r.Get("/sms", webhook.HandleInboundSMS)

	if cfg.AdminEnabled {
		r.Route("/admin", func(ar chi.Router) {
			ar.Use(BasicAuthMiddleware(cfg.AdminUsername, cfg.AdminPasswordHash, logger))
			ar.Get("/records", admin.HandleListRecords)
			ar.Get("/messages", admin.HandleListMessages)
		})
	}

	return r
}
