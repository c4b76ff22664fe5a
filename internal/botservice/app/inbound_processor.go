package app

import (
	"context"
	"log/slog"
	"time"
)

// InboundProcessor runs the full side-effect path for one inbound event:
// append to the message log, dispatch the intent, and attempt the coupon.
// The three consumers are independent; a failure in one never blocks the
// others, and none of them reaches the webhook response.
type InboundProcessor struct {
	dispatcher *Dispatcher
	issuer     *CouponIssuer
	msgLogger  *MessageLogger
	logger     *slog.Logger
}

func NewInboundProcessor(dispatcher *Dispatcher, issuer *CouponIssuer, msgLogger *MessageLogger, logger *slog.Logger) *InboundProcessor {
	return &InboundProcessor{
		dispatcher: dispatcher,
		issuer:     issuer,
		msgLogger:  msgLogger,
		logger:     logger.With("component", "inbound_processor"),
	}
}

// Process handles one inbound event. The message is logged unconditionally;
// dispatch and coupon issuance need a sender number to act on.
func (p *InboundProcessor) Process(ctx context.Context, text, from, to string) {
	start := time.Now()

	p.msgLogger.Log(ctx, text, from, to)

	if from == "" {
		inboundEventsCounter.WithLabelValues("skipped_invalid").Inc()
		p.logger.WarnContext(ctx, "Inbound event without sender number, logged only")
		dispatchDurationHist.WithLabelValues("skipped_invalid").Observe(time.Since(start).Seconds())
		return
	}

	p.dispatcher.Dispatch(ctx, text, from)
	p.issuer.TryIssue(ctx, from, to)

	inboundEventsCounter.WithLabelValues("processed").Inc()
	dispatchDurationHist.WithLabelValues("processed").Observe(time.Since(start).Seconds())
}
