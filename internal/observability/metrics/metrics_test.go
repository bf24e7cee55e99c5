package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

func TestChatMetricsObserve(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewChatMetrics(reg)
	m.ObserveQuery("medication_info", "require_disclaimer")
	m.ObserveRefusal("harmful")
	m.ObserveInjectionBlocked()
	m.ObserveModelLatency(0.5)
	m.ObserveModelError()
}

func TestChatMetricsNilSafe(t *testing.T) {
	var m *ChatMetrics
	m.ObserveQuery("general", "allow")
	m.ObserveRefusal("dosage")
	m.ObserveInjectionBlocked()
	m.ObserveModelLatency(0.1)
	m.ObserveModelError()
}
