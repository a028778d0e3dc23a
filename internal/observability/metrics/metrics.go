package metrics

import "github.com/prometheus/client_golang/prometheus"

// CallMetrics exposes counters/histograms for the call dispatch flow.
type CallMetrics struct {
	dispatchTotal     *prometheus.CounterVec
	validationRejects prometheus.Counter
	dispatchLatency   *prometheus.HistogramVec
}

func NewCallMetrics(reg prometheus.Registerer) *CallMetrics {
	m := &CallMetrics{
		dispatchTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "intake",
			Subsystem: "call",
			Name:      "dispatch_total",
			Help:      "Total outbound call dispatch attempts",
		}, []string{"provider", "status"}),
		validationRejects: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "intake",
			Subsystem: "call",
			Name:      "validation_rejects_total",
			Help:      "Requests rejected before reaching the provider",
		}),
		dispatchLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "intake",
			Subsystem: "call",
			Name:      "dispatch_latency_seconds",
			Help:      "Latency of provider call initiation",
			Buckets:   prometheus.DefBuckets,
		}, []string{"provider"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.dispatchTotal, m.validationRejects, m.dispatchLatency)
	return m
}

func (m *CallMetrics) ObserveDispatch(provider, status string) {
	if m == nil {
		return
	}
	m.dispatchTotal.WithLabelValues(provider, status).Inc()
}

func (m *CallMetrics) ObserveValidationReject() {
	if m == nil {
		return
	}
	m.validationRejects.Inc()
}

func (m *CallMetrics) ObserveDispatchLatency(provider string, seconds float64) {
	if m == nil {
		return
	}
	m.dispatchLatency.WithLabelValues(provider).Observe(seconds)
}
