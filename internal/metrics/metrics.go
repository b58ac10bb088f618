package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	TransitionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "intake_transitions_total",
			Help: "Total number of approval transitions attempted",
		},
		[]string{"action", "outcome"},
	)

	ApplicationsCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "intake_applications_created_total",
			Help: "Total number of applications submitted",
		},
	)

	NotificationsSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "intake_notifications_total",
			Help: "Total number of decision notifications by delivery status",
		},
		[]string{"status"},
	)
)
