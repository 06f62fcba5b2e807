// Package metrics declares the Prometheus collectors custodian exports on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Lookup metrics
	LookupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "custodian_lookups_total",
			Help: "Total number of resource lookups by resulting status class and live-status source",
		},
		[]string{"status", "source"}, // status: found/not_found/error
	)

	LookupDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "custodian_lookup_duration_seconds",
			Help:    "Resource lookup duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 14), // 1ms to ~8s
		},
		[]string{"source"},
	)

	// Live-status handler metrics
	HandlerCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "custodian_handler_calls_total",
			Help: "Total number of live-status handler invocations",
		},
		[]string{"kind", "outcome"}, // kind: http/registered, outcome: ok/absent/error
	)

	HandlerCallDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "custodian_handler_call_duration_seconds",
			Help:    "Live-status handler call duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.005, 2, 11), // 5ms to ~5s
		},
		[]string{"kind"},
	)

	// Catalog metrics
	CatalogSyncTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "custodian_catalog_sync_total",
			Help: "Total number of catalog sync operations",
		},
		[]string{"source", "outcome"}, // source: watch/webhook/seed
	)

	CatalogServices = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "custodian_catalog_services",
			Help: "Number of services in the catalog after the last sync",
		},
	)

	StoreQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "custodian_store_query_duration_seconds",
			Help:    "SQL catalog store query duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	// Tool surface metrics
	ToolCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "custodian_tool_calls_total",
			Help: "Total number of agent tool calls",
		},
		[]string{"tool", "outcome"},
	)
)

// Outcome labels shared by handler and tool metrics.
const (
	OutcomeOK     = "ok"
	OutcomeAbsent = "absent"
	OutcomeError  = "error"
)
