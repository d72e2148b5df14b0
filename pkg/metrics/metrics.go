package metrics

import (
	"net/http"
	"time"

	"github.com/Cleverse/go-utilities/utils"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const DefaultNamespace = "ticket_ledger"

type Config struct {
	Enabled   bool   `mapstructure:"enabled"`
	Namespace string `mapstructure:"namespace"` // Default is ticket_ledger
}

// Metrics holds the service collectors on a dedicated registry.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	invocations          *prometheus.CounterVec
	invocationDuration   *prometheus.HistogramVec
	notifications        *prometheus.CounterVec
	notificationFailures *prometheus.CounterVec
}

func New(conf Config) *Metrics {
	namespace := utils.Default(conf.Namespace, DefaultNamespace)
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		invocations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "invocations_total",
			Help:      "Total contract invocations by outcome",
		}, []string{"contract", "method", "status"}),
		invocationDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "invocation_duration_seconds",
			Help:      "Duration of contract invocations including commit",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 14),
		}, []string{"contract", "method"}),
		notifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notifications_total",
			Help:      "Committed notifications by topic",
		}, []string{"topic"}),
		notificationFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notification_failures_total",
			Help:      "Notification deliveries that failed by notifier",
		}, []string{"notifier"}),
	}
	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.invocations,
		m.invocationDuration,
		m.notifications,
		m.notificationFailures,
	)
	return m
}

// ObserveInvocation records the outcome and latency of one invocation.
func (m *Metrics) ObserveInvocation(contract, method string, err error, duration time.Duration) {
	if m == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.invocations.WithLabelValues(contract, method, status).Inc()
	m.invocationDuration.WithLabelValues(contract, method).Observe(duration.Seconds())
}

func (m *Metrics) IncNotification(topic string) {
	if m == nil {
		return
	}
	m.notifications.WithLabelValues(topic).Inc()
}

func (m *Metrics) IncNotificationFailure(notifier string) {
	if m == nil {
		return
	}
	m.notificationFailures.WithLabelValues(notifier).Inc()
}

func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Handler serves the registry in the prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
