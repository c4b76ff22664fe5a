package app

import (
	"context"
	"log/slog"

	"github.com/replysms/botservice/internal/botservice/adapters/intent"
	"github.com/replysms/botservice/internal/botservice/adapters/push"
)

// greetingAction is the intent label for which the identity-augmented
// greeting branch applies.
const greetingAction = "smalltalk.greetings.hello"

// Dispatcher submits inbound text to the intent classifier and routes the
// reply: greetings go through the identity resolver when CNAM is enabled,
// everything else is pushed directly. A classification failure drops the
// reply silently; the webhook ack never depends on this path.
type Dispatcher struct {
	classifier  intent.Classifier
	resolver    *IdentityResolver
	push        push.Publisher
	cnamEnabled bool
	logger      *slog.Logger
}

func NewDispatcher(classifier intent.Classifier, resolver *IdentityResolver, pusher push.Publisher, cnamEnabled bool, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{
		classifier:  classifier,
		resolver:    resolver,
		push:        pusher,
		cnamEnabled: cnamEnabled,
		logger:      logger.With("component", "dispatcher"),
	}
}

func (d *Dispatcher) Dispatch(ctx context.Context, text, number string) {
	result, err := d.classifier.Classify(ctx, text, number)
	if err != nil {
		dispatchCounter.WithLabelValues("classify_error").Inc()
		d.logger.WarnContext(ctx, "Intent classification failed, dropping reply", "error", err, "number", number)
		return
	}

	d.logger.DebugContext(ctx, "Classified inbound message", "number", number, "action", result.Action)

	if result.Action == greetingAction && d.cnamEnabled {
		dispatchCounter.WithLabelValues("greeting").Inc()
		d.resolver.Greet(ctx, number, result.Speech)
		return
	}

	if err := d.push.Push(ctx, result.Speech, number); err != nil {
		dispatchCounter.WithLabelValues("push_error").Inc()
		d.logger.ErrorContext(ctx, "Failed to push reply", "error", err, "number", number)
		return
	}
	dispatchCounter.WithLabelValues("default").Inc()
}
