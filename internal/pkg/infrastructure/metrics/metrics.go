package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	alertsDispatched = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hazard_alerts_dispatched_total",
		Help: "Total number of dispatched alerts",
	}, []string{"severity", "scope"})
	acknowledgments = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hazard_alerts_acknowledgments_total",
		Help: "Total number of recorded acknowledgments",
	}, []string{"timing"})
	notifications = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hazard_alerts_notifications_total",
		Help: "Total number of notification attempts",
	}, []string{"result"})
	membershipDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "hazard_alerts_membership_resolution_seconds",
		Help:    "Time spent resolving which users are inside an alert zone",
		Buckets: prometheus.ExponentialBuckets(0.0005, 2, 12),
	})
)

func AlertDispatched(severity string, global bool) {
	scope := "zone"
	if global {
		scope = "global"
	}
	alertsDispatched.WithLabelValues(severity, scope).Inc()
}

func AcknowledgmentRecorded(onTime bool) {
	timing := "late"
	if onTime {
		timing = "on_time"
	}
	acknowledgments.WithLabelValues(timing).Inc()
}

func NotificationSent() {
	notifications.WithLabelValues("sent").Inc()
}

func NotificationFailed() {
	notifications.WithLabelValues("failed").Inc()
}

func MembershipResolved(started time.Time) {
	membershipDuration.Observe(time.Since(started).Seconds())
}
