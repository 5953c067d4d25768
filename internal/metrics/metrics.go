package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	apiRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "dutychart",
			Name:      "api_requests_total",
			Help:      "Count of backend API requests by method and outcome.",
		},
		[]string{"method", "status"},
	)

	pushReconnects = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "dutychart",
			Name:      "push_reconnects_total",
			Help:      "Count of notification channel reconnect attempts.",
		},
	)

	notificationsReceived = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "dutychart",
			Name:      "notifications_received_total",
			Help:      "Count of notifications received over the push channel.",
		},
	)

	scheduleSubmits = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "dutychart",
			Name:      "schedule_submits_total",
			Help:      "Count of duty-hours form submissions by result.",
		},
		[]string{"result"},
	)
)

// Register registers metrics (idempotent).
func Register() {
	once.Do(func() {
		prometheus.MustRegister(apiRequests, pushReconnects, notificationsReceived, scheduleSubmits)
	})
}

func IncAPIRequest(method, status string) {
	apiRequests.WithLabelValues(method, status).Inc()
}

func IncPushReconnect() {
	pushReconnects.Inc()
}

func IncNotificationReceived() {
	notificationsReceived.Inc()
}

func IncScheduleSubmit(result string) {
	scheduleSubmits.WithLabelValues(result).Inc()
}
