package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	// RefreshTotal counts aggregation passes by outcome.
	RefreshTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "estate_refresh_total",
		Help: "Number of portfolio refresh passes.",
	}, []string{"outcome"})

	// ProviderFailures counts failed provider calls by network.
	ProviderFailures = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "estate_provider_failures_total",
		Help: "Number of failed asset provider calls.",
	}, []string{"network"})

	// RefreshDuration observes wall time of a full refresh pass.
	RefreshDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "estate_refresh_duration_seconds",
		Help:    "Duration of portfolio refresh passes.",
		Buckets: prometheus.DefBuckets,
	})

	// DocumentsCompiled counts successfully compiled documents.
	DocumentsCompiled = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "estate_documents_compiled_total",
		Help: "Number of estate documents compiled.",
	})
)

// MustRegister registers all collectors with the default registry.
func MustRegister() {
	prometheus.MustRegister(RefreshTotal, ProviderFailures, RefreshDuration, DocumentsCompiled)
}
