package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "activity_tracker"

// Metrics - счётчики и gauge трекера активностей
type Metrics struct {
	ActivitiesReported *prometheus.CounterVec // labels: priority
	ActivitiesUpdated  *prometheus.CounterVec // labels: priority
	ActivitiesClosed   *prometheus.CounterVec // labels: priority
	CriticalUnresolved prometheus.Gauge

	GeocodeRequests *prometheus.CounterVec // labels: provider={mock,mapbox}, outcome={success,error,empty}
	GeocodeCache    *prometheus.CounterVec // labels: result={hit,miss,error}

	AlertsPublished *prometheus.CounterVec // labels: sink={redis,kafka}, outcome={success,error}
	WebhookDelivery *prometheus.CounterVec // labels: outcome={delivered,failed}
}

func newMetrics() *Metrics {
	return &Metrics{
		ActivitiesReported: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "activities_reported_total",
			Help:      "Activities reported, by priority.",
		}, []string{"priority"}),
		ActivitiesUpdated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "activities_updated_total",
			Help:      "Activity updates, by resulting priority.",
		}, []string{"priority"}),
		ActivitiesClosed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "activities_closed_total",
			Help:      "Activities closed, by priority.",
		}, []string{"priority"}),
		CriticalUnresolved: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "critical_unresolved",
			Help:      "Critical activities in Active or In Progress status.",
		}),
		GeocodeRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "geocode_requests_total",
			Help:      "Geocoding requests by provider and outcome.",
		}, []string{"provider", "outcome"}),
		GeocodeCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "geocode_cache_total",
			Help:      "Geocoding cache lookups by result.",
		}, []string{"result"}),
		AlertsPublished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "alerts_published_total",
			Help:      "Critical activity alerts published, by sink and outcome.",
		}, []string{"sink", "outcome"}),
		WebhookDelivery: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "webhook_deliveries_total",
			Help:      "Alert webhook deliveries by outcome.",
		}, []string{"outcome"}),
	}
}

// NewMetrics создаёт метрики и регистрирует их в реестре Prometheus по умолчанию
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.ActivitiesReported,
		m.ActivitiesUpdated,
		m.ActivitiesClosed,
		m.CriticalUnresolved,
		m.GeocodeRequests,
		m.GeocodeCache,
		m.AlertsPublished,
		m.WebhookDelivery,
	)
	return m
}

// NewMetricsForTesting создаёт незарегистрированные метрики,
// чтобы тесты не падали с "already registered".
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}
