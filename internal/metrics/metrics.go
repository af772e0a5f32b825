// Package metrics defines and registers the Prometheus metrics of the blog
// client and the mock API. It is the single source of truth for metric names,
// labels, and help strings.
//
// All metrics are registered with the default registry at package init via
// promauto; mockapi exposes them on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "blog"

// ── Transport metrics ────────────────────────────────────────────────────────

// ClientRequestsTotal counts requests issued by the transport adapter.
// Labels:
//   - operation: list, get, create, update, delete, search, filter, like, bookmark, categories
//   - outcome: "ok" or "failed"
var ClientRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "client",
		Name:      "requests_total",
		Help:      "Total number of API requests issued by the client, by operation and outcome.",
	},
	[]string{"operation", "outcome"},
)

// ClientRequestDuration measures request round-trip time per operation.
var ClientRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "client",
		Name:      "request_duration_seconds",
		Help:      "Duration of API requests issued by the client.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"operation"},
)

// ── Store metrics ────────────────────────────────────────────────────────────

// StoreArticles tracks how many articles the article store currently displays.
var StoreArticles = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "store",
		Name:      "articles",
		Help:      "Number of articles currently held by the article store.",
	},
)

// NotificationsTotal counts notifications emitted by the stores.
// Label:
//   - level: "success" or "error"
var NotificationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "store",
		Name:      "notifications_total",
		Help:      "Total number of user-facing notifications, by level.",
	},
	[]string{"level"},
)

// StaleResponsesTotal counts list responses dropped because a newer list
// operation had started or the caller had gone away.
var StaleResponsesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "store",
		Name:      "stale_responses_total",
		Help:      "Total number of responses discarded instead of applied, by operation.",
	},
	[]string{"operation"},
)

// ── Intent dispatcher metrics ────────────────────────────────────────────────

// IntentQueueDepth tracks the number of intents waiting in each worker channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var IntentQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "dispatcher",
		Name:      "queue_depth",
		Help:      "Current number of intents pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// ── Mock API metrics ─────────────────────────────────────────────────────────

// MockArticlesWrittenTotal counts article writes served by the mock API.
// Label:
//   - action: create, update, delete, like, bookmark
var MockArticlesWrittenTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "mockapi",
		Name:      "article_writes_total",
		Help:      "Total number of article writes handled by the mock API, by action.",
	},
	[]string{"action"},
)
