package metrics

import "github.com/prometheus/client_golang/prometheus"

// Submission outcome labels.
const (
	OutcomeAccepted   = "accepted"
	OutcomeMalformed  = "malformed"
	OutcomeInvalid    = "invalid"
	OutcomeStoreError = "store_error"
)

// LeadMetrics exposes counters/histograms for the lead submission pipeline.
type LeadMetrics struct {
	submissionsTotal *prometheus.CounterVec
	persistLatency   prometheus.Histogram
}

func NewLeadMetrics(reg prometheus.Registerer) *LeadMetrics {
	m := &LeadMetrics{
		submissionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "heralf",
			Subsystem: "leads",
			Name:      "submissions_total",
			Help:      "Total web form submissions by outcome",
		}, []string{"outcome"}),
		persistLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "heralf",
			Subsystem: "leads",
			Name:      "persist_latency_seconds",
			Help:      "Latency of lead persistence calls",
			Buckets:   prometheus.DefBuckets,
		}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.submissionsTotal, m.persistLatency)
	return m
}

func (m *LeadMetrics) ObserveSubmission(outcome string) {
	if m == nil {
		return
	}
	m.submissionsTotal.WithLabelValues(outcome).Inc()
}

func (m *LeadMetrics) ObservePersistLatency(seconds float64) {
	if m == nil {
		return
	}
	m.persistLatency.Observe(seconds)
}
