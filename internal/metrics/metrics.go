package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	UpstreamRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "campus_gateway_upstream_requests_total",
		Help: "Total number of requests sent to the marketplace backend.",
	},
		[]string{"operation", "outcome"},
	)

	UpstreamRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "campus_gateway_upstream_request_duration_seconds",
		Help:    "Latency of requests to the marketplace backend.",
		Buckets: prometheus.DefBuckets,
	},
		[]string{"operation"},
	)

	OrderTransitionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "campus_gateway_order_transitions_total",
		Help: "Total number of confirmed order status transitions.",
	},
		[]string{"status"},
	)

	ArchiveTogglesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "campus_gateway_archive_toggles_total",
		Help: "Total number of confirmed archive/unarchive toggles.",
	},
		[]string{"kind", "archived"},
	)

	CandidatesSelectedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "campus_gateway_candidates_selected_total",
		Help: "Total number of applications accepted by requirement owners.",
	})

	ActionsRejectedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "campus_gateway_actions_rejected_total",
		Help: "Total number of mutating actions rejected because the same action was in flight.",
	})

	PollTicksTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "campus_gateway_poll_ticks_total",
		Help: "Total number of status poller ticks by result.",
	},
		[]string{"result"},
	)

	ActiveWatches = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "campus_gateway_active_watches",
		Help: "Current number of running order status watches.",
	})

	ReviewPromptsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "campus_gateway_review_prompts_total",
		Help: "Total number of review prompts pushed to clients.",
	})

	ActiveSessions = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "campus_gateway_active_sessions",
		Help: "Current number of authenticated sessions.",
	})
)
