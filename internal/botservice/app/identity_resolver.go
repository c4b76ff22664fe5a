package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/replysms/botservice/internal/botservice/adapters/identity"
	"github.com/replysms/botservice/internal/botservice/adapters/push"
	"github.com/replysms/botservice/internal/botservice/domain"
)

// IdentityResolver produces the greeting for a number, using the cached
// identity when a full name is known and the external lookup otherwise.
// Lookups are rate-limited and slow upstream, so a cached full name is never
// re-resolved; staleness is the accepted cost.
type IdentityResolver struct {
	records domain.RecordRepository
	lookup  identity.Lookup
	push    push.Publisher
	logger  *slog.Logger
}

func NewIdentityResolver(records domain.RecordRepository, lookup identity.Lookup, pusher push.Publisher, logger *slog.Logger) *IdentityResolver {
	return &IdentityResolver{
		records: records,
		lookup:  lookup,
		push:    pusher,
		logger:  logger.With("component", "identity_resolver"),
	}
}

// Greet pushes a greeting for number: "Hello {first} {lastInitial}!" when a
// full name is known, the supplied fallback (the classifier's own reply)
// otherwise. Lookup and store failures degrade to the fallback; they never
// propagate.
func (r *IdentityResolver) Greet(ctx context.Context, number, fallback string) {
	rec, err := r.records.Get(ctx, number)
	if err != nil {
		// Store unavailable: deliver the fallback rather than dropping the
		// reply, and skip the identity merge this cycle.
		r.logger.ErrorContext(ctx, "Failed to read record for greeting", "error", err, "number", number)
		r.deliver(ctx, number, fallback)
		return
	}

	// Only a full name counts as a cache hit. A partial identity from an
	// earlier lookup goes back through the lookup so the gap can be filled.
	if rec != nil && rec.Identity != nil && rec.Identity.HasFullName() {
		identityLookupCounter.WithLabelValues("cache").Inc()
		r.logger.DebugContext(ctx, "Identity cache hit", "number", number)
		r.deliver(ctx, number, greetingFor(*rec.Identity, fallback))
		return
	}

	resolved, err := r.lookup.Lookup(ctx, number)
	if err != nil {
		identityLookupCounter.WithLabelValues("lookup_error").Inc()
		r.logger.WarnContext(ctx, "Identity lookup failed, using fallback greeting", "error", err, "number", number)
		r.deliver(ctx, number, fallback)
		return
	}
	if resolved == nil {
		identityLookupCounter.WithLabelValues("lookup_absent").Inc()
		r.deliver(ctx, number, fallback)
		return
	}
	identityLookupCounter.WithLabelValues("lookup").Inc()

	// Additive merge: an existing coupon flag or extra fields on the record
	// survive this write.
	if err := r.records.Merge(ctx, number, domain.RecordPatch{Identity: resolved}); err != nil {
		r.logger.ErrorContext(ctx, "Failed to cache identity", "error", err, "number", number)
		// The greeting still goes out; only the cache write was lost.
	}

	r.deliver(ctx, number, greetingFor(*resolved, fallback))
}

func (r *IdentityResolver) deliver(ctx context.Context, number, message string) {
	if err := r.push.Push(ctx, message, number); err != nil {
		r.logger.ErrorContext(ctx, "Failed to push greeting", "error", err, "number", number)
	}
}

func greetingFor(id domain.CallerIdentity, fallback string) string {
	if !id.HasFullName() {
		return fallback
	}
	lastInitial := []rune(id.LastName)[0]
	return fmt.Sprintf("Hello %s %c!", id.FirstName, lastInitial)
}
