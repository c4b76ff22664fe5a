package app

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/replysms/botservice/internal/botservice/adapters/smsprovider"
	"github.com/replysms/botservice/internal/botservice/domain"
)

// couponCodePlaceholder is replaced with the configured code when rendering
// the coupon message template.
const couponCodePlaceholder = "{code}"

// CouponIssuer grants the one-time promotional coupon: at most one confirmed
// send per number, ever. Two guards close the concurrent double-issue window:
// a per-number mutex serializes the read-decide-send-write sequence within
// this process, and the store-level conditional write catches racing writers
// in other processes sharing the database.
type CouponIssuer struct {
	records  domain.RecordRepository
	provider smsprovider.Adapter
	locks    *KeyedMutex
	code     string
	template string
	logger   *slog.Logger
}

func NewCouponIssuer(records domain.RecordRepository, provider smsprovider.Adapter, locks *KeyedMutex, code, template string, logger *slog.Logger) *CouponIssuer {
	return &CouponIssuer{
		records:  records,
		provider: provider,
		locks:    locks,
		code:     code,
		template: template,
		logger:   logger.With("component", "coupon_issuer"),
	}
}

// TryIssue sends the coupon to fromNumber (the inbound sender) from toNumber
// (the bot's own number) unless one was already granted. The issued flag is
// only persisted after a confirmed-success send, so a failed send leaves the
// coupon retryable on the next inbound message.
func (i *CouponIssuer) TryIssue(ctx context.Context, fromNumber, toNumber string) {
	if i.code == "" || i.template == "" {
		return
	}

	unlock := i.locks.Lock(fromNumber)
	defer unlock()

	rec, err := i.records.Get(ctx, fromNumber)
	if err != nil {
		// Store unavailable: skip this cycle. The flag was never set, so the
		// next inbound message from this number retries safely.
		couponCounter.WithLabelValues("store_error").Inc()
		i.logger.ErrorContext(ctx, "Failed to read record, skipping coupon this cycle", "error", err, "number", fromNumber)
		return
	}
	if rec != nil && rec.CouponIssued {
		couponCounter.WithLabelValues("already_issued").Inc()
		i.logger.DebugContext(ctx, "Coupon already issued", "number", fromNumber)
		return
	}

	text := strings.ReplaceAll(i.template, couponCodePlaceholder, i.code)
	resp, err := i.provider.Send(ctx, smsprovider.SMSRequestData{
		SenderID:  toNumber,
		Recipient: fromNumber,
		Content:   text,
	})
	if err != nil || resp == nil || !resp.Success {
		couponCounter.WithLabelValues("send_failed").Inc()
		i.logger.WarnContext(ctx, "Coupon send failed, not marking record",
			"error", err,
			"number", fromNumber,
		)
		return
	}

	issued, err := i.records.MarkCouponIssued(ctx, fromNumber, time.Now().UTC())
	if err != nil {
		// The SMS went out but the flag write failed. Erring toward a
		// possible repeat grant on the next message beats wedging the record
		// in an unknown state; the conditional write retries cleanly.
		couponCounter.WithLabelValues("store_error").Inc()
		i.logger.ErrorContext(ctx, "Coupon sent but flag write failed", "error", err, "number", fromNumber)
		return
	}
	if !issued {
		couponCounter.WithLabelValues("duplicate_averted").Inc()
		i.logger.WarnContext(ctx, "Coupon flag already set by a concurrent writer", "number", fromNumber)
		return
	}

	couponCounter.WithLabelValues("issued").Inc()
	i.logger.InfoContext(ctx, "Coupon issued",
		"number", fromNumber,
		"provider", resp.ProviderName,
		"provider_message_id", resp.ProviderMessageID,
	)
}
