package app

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	inboundEventsCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "botservice",
			Name:      "inbound_events_total",
			Help:      "Total number of inbound SMS events processed.",
		},
		[]string{"status"}, // "processed", "skipped_invalid"
	)

	dispatchCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "botservice",
			Name:      "dispatch_total",
			Help:      "Total number of intent dispatches by outcome.",
		},
		[]string{"outcome"}, // "greeting", "default", "classify_error", "push_error"
	)

	identityLookupCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "botservice",
			Name:      "identity_lookups_total",
			Help:      "Total number of identity resolutions by source.",
		},
		[]string{"source"}, // "cache", "lookup", "lookup_absent", "lookup_error"
	)

	couponCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "botservice",
			Name:      "coupon_attempts_total",
			Help:      "Total number of coupon issuance attempts by outcome.",
		},
		[]string{"outcome"}, // "issued", "already_issued", "send_failed", "store_error", "duplicate_averted"
	)

	dispatchDurationHist = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "botservice",
			Name:      "dispatch_duration_seconds",
			Help:      "Duration of the full side-effect path for one inbound event.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"status"},
	)
)
