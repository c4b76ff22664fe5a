package http

import (
	"crypto/subtle"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	chi_middleware "github.com/go-chi/chi/v5/middleware"
	"golang.org/x/crypto/bcrypt"

	"github.com/replysms/botservice/internal/botservice/domain"
)

// AdminHandler renders the read-only administrative view: all number records
// and the inbound message log, as JSON. The underlying collections are
// unbounded, so responses are capped by a limit query param (defaultLimit
// when absent).
type AdminHandler struct {
	records      domain.RecordRepository
	messages     domain.MessageLogRepository
	logger       *slog.Logger
	defaultLimit int
}

func NewAdminHandler(records domain.RecordRepository, messages domain.MessageLogRepository, logger *slog.Logger, defaultLimit int) *AdminHandler {
	return &AdminHandler{
		records:      records,
		messages:     messages,
		logger:       logger.With("handler", "admin"),
		defaultLimit: defaultLimit,
	}
}

func (h *AdminHandler) HandleListRecords(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	limit := h.limitFrom(r)

	records, err := h.records.List(ctx, limit)
	if err != nil {
		h.logger.ErrorContext(ctx, "Failed to list number records", "error", err, "request_id", chi_middleware.GetReqID(ctx))
		http.Error(w, "Failed to list records", http.StatusInternalServerError)
		return
	}
	if records == nil {
		records = []domain.NumberRecord{}
	}

	respondJSON(w, http.StatusOK, map[string]any{"records": records})
}

func (h *AdminHandler) HandleListMessages(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	limit := h.limitFrom(r)

	messages, err := h.messages.List(ctx, limit)
	if err != nil {
		h.logger.ErrorContext(ctx, "Failed to list inbound messages", "error", err, "request_id", chi_middleware.GetReqID(ctx))
		http.Error(w, "Failed to list messages", http.StatusInternalServerError)
		return
	}
	if messages == nil {
		messages = []domain.InboundMessage{}
	}

	respondJSON(w, http.StatusOK, map[string]any{"messages": messages})
}

func (h *AdminHandler) limitFrom(r *http.Request) int {
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if limit, err := strconv.Atoi(raw); err == nil && limit > 0 {
			return limit
		}
	}
	return h.defaultLimit
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// BasicAuthMiddleware gates the admin view. The configured password is a
// bcrypt hash, never plaintext.
func BasicAuthMiddleware(username, passwordHash string, logger *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, pass, ok := r.BasicAuth()
			if !ok ||
				subtle.ConstantTimeCompare([]byte(user), []byte(username)) != 1 ||
				bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(pass)) != nil {
				logger.WarnContext(r.Context(), "Admin view authentication failed", "remote_addr", r.RemoteAddr)
				w.Header().Set("WWW-Authenticate", `Basic realm="admin"`)
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
