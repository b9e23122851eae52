// Package metrics defines and registers all custom Prometheus metrics
// for the Podium leaderboard API. It is the single source of truth for
// metric names, labels, and help strings. Metrics self-register with
// the default registry via promauto; the exposition endpoint is wired
// in the router.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "podium"

// RecomputesTotal counts team score recomputations by what triggered them.
// Labels:
//   - trigger: "user_create", "user_update", "user_delete", or "admin"
var RecomputesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "score_recomputes_total",
		Help:      "Total number of team score recomputations, by trigger.",
	},
	[]string{"trigger"},
)

// BroadcastsTotal counts leaderboard snapshot broadcasts.
// Label:
//   - result: "ok" or "error"
var BroadcastsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "broadcasts_total",
		Help:      "Total number of leaderboard broadcast attempts, by result.",
	},
	[]string{"result"},
)

// SubscribersConnected tracks the current number of push-channel clients.
var SubscribersConnected = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "subscribers_connected",
		Help:      "Current number of connected push-channel subscribers.",
	},
)

// SubscribersEvictedTotal counts clients dropped for not draining their
// send buffer in time.
var SubscribersEvictedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "subscribers_evicted_total",
		Help:      "Total number of slow push-channel subscribers evicted.",
	},
)
