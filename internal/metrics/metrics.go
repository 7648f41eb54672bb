// Package metrics defines prometheus metrics for the portal API.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// SubmissionsTotal counts public submissions by entity kind and outcome.
	SubmissionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portal_submissions_total",
			Help: "Total number of public submissions",
		},
		[]string{"kind", "outcome"},
	)

	// ModerationActionsTotal counts admin moderation actions by entity and action.
	ModerationActionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portal_moderation_actions_total",
			Help: "Total number of admin moderation actions applied",
		},
		[]string{"entity", "action"},
	)

	// AdminAuthTotal counts admin login attempts by outcome.
	AdminAuthTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portal_admin_auth_total",
			Help: "Total number of admin authentication attempts",
		},
		[]string{"outcome"},
	)

	// PriceFetches counts upstream price fetches by outcome.
	PriceFetches = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portal_price_fetches_total",
			Help: "Total number of upstream price service fetches",
		},
		[]string{"outcome"},
	)

	// PriceCacheHits counts price requests served from the cache.
	PriceCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "portal_price_cache_hits_total",
			Help: "Price requests served from the in-process cache",
		},
	)

	// PriceCacheMisses counts price requests that went past the cache.
	PriceCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "portal_price_cache_misses_total",
			Help: "Price requests that required an upstream fetch",
		},
	)

	// RequestDuration tracks handler latency by route group.
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "portal_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route"},
	)
)
