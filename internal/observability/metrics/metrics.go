package metrics

import "github.com/prometheus/client_golang/prometheus"

// ChatMetrics exposes counters/histograms for the guardrailed chat flow.
type ChatMetrics struct {
	queriesTotal          *prometheus.CounterVec
	refusalsTotal         *prometheus.CounterVec
	injectionBlockedTotal prometheus.Counter
	modelLatency          prometheus.Histogram
	modelErrorsTotal      prometheus.Counter
}

func NewChatMetrics(reg prometheus.Registerer) *ChatMetrics {
	m := &ChatMetrics{
		queriesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "medcompanion",
			Subsystem: "chat",
			Name:      "queries_total",
			Help:      "Total chat queries by classified category and policy decision",
		}, []string{"category", "decision"}),
		refusalsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "medcompanion",
			Subsystem: "chat",
			Name:      "refusals_total",
			Help:      "Total refused queries by category",
		}, []string{"category"}),
		injectionBlockedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "medcompanion",
			Subsystem: "chat",
			Name:      "injection_blocked_total",
			Help:      "Total messages blocked by the prompt injection guard",
		}),
		modelLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "medcompanion",
			Subsystem: "chat",
			Name:      "model_latency_seconds",
			Help:      "Latency of Gemini completion calls",
			Buckets:   prometheus.DefBuckets,
		}),
		modelErrorsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "medcompanion",
			Subsystem: "chat",
			Name:      "model_errors_total",
			Help:      "Total failed Gemini completion calls",
		}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.queriesTotal, m.refusalsTotal, m.injectionBlockedTotal, m.modelLatency, m.modelErrorsTotal)
	return m
}

func (m *ChatMetrics) ObserveQuery(category, decision string) {
	if m == nil {
		return
	}
	m.queriesTotal.WithLabelValues(category, decision).Inc()
}

func (m *ChatMetrics) ObserveRefusal(category string) {
	if m == nil {
		return
	}
	m.refusalsTotal.WithLabelValues(category).Inc()
}

func (m *ChatMetrics) ObserveInjectionBlocked() {
	if m == nil {
		return
	}
	m.injectionBlockedTotal.Inc()
}

func (m *ChatMetrics) ObserveModelLatency(seconds float64) {
	if m == nil {
		return
	}
	m.modelLatency.Observe(seconds)
}

func (m *ChatMetrics) ObserveModelError() {
	if m == nil {
		return
	}
	m.modelErrorsTotal.Inc()
}
