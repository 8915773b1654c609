package goals

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	settlePollsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "beeminder_goals",
			Name:      "settle_polls_total",
			Help:      "Full-projection polls issued while waiting for recalculation.",
		},
	)

	settleTimeoutsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "beeminder_goals",
			Name:      "settle_timeouts_total",
			Help:      "Submissions whose goal never left the queued state within the poll budget.",
		},
	)
)
