package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus instruments for the advisory service.
type Metrics struct {
	RecommendationsGenerated *prometheus.CounterVec // labels: bucket, category
	UpstreamErrors           *prometheus.CounterVec // labels: source={geocode,airnow,tempo,sms}
	CacheLookups             *prometheus.CounterVec // labels: result={hit,miss}
	SMSDispatched            prometheus.Counter
}

// NewMetrics creates and registers all instruments with the default registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.RecommendationsGenerated,
		m.UpstreamErrors,
		m.CacheLookups,
		m.SMSDispatched,
	)
	return m
}

// NewMetricsForTesting creates Metrics without registering them, so parallel
// tests do not trip duplicate-registration panics.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		RecommendationsGenerated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "aqi_advisor",
			Name:      "recommendations_generated_total",
			Help:      "Recommendations produced, by preset bucket and AQI category.",
		}, []string{"bucket", "category"}),
		UpstreamErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "aqi_advisor",
			Name:      "upstream_errors_total",
			Help:      "Upstream collaborator failures by source.",
		}, []string{"source"}),
		CacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "aqi_advisor",
			Name:      "payload_cache_lookups_total",
			Help:      "Air quality payload cache lookups by result.",
		}, []string{"result"}),
		SMSDispatched: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "aqi_advisor",
			Name:      "sms_dispatched_total",
			Help:      "Urgent advisories delivered by SMS.",
		}),
	}
}
