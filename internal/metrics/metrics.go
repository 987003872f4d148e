package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fabric_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "fabric_http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	// StageTransitions counts committed stage changes by target stage
	StageTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fabric_stage_transitions_total",
			Help: "Committed job stage transitions",
		},
		[]string{"stage"},
	)

	// SideEffects counts expense accruals, bill generations and dispatches by outcome
	SideEffects = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fabric_side_effects_total",
			Help: "Stage side effects by kind and result",
		},
		[]string{"kind", "result"},
	)

	LiveClients = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "fabric_live_clients",
			Help: "Connected live feed websocket clients",
		},
	)
)

// Result labels
const (
	ResultOK      = "ok"
	ResultError   = "error"
	ResultSkipped = "skipped"
)

// Side effect kinds
const (
	KindExpense  = "expense"
	KindBill     = "bill"
	KindDispatch = "dispatch"
)
