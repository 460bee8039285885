package metrics

import "github.com/prometheus/client_golang/prometheus"

// ChatMetrics exposes counters/histograms for the chat receptionist flow.
type ChatMetrics struct {
	turnsTotal       *prometheus.CounterVec
	providerAttempts *prometheus.CounterVec
	bookingsTotal    *prometheus.CounterVec
	turnLatency      prometheus.Histogram
}

func NewChatMetrics(reg prometheus.Registerer) *ChatMetrics {
	m := &ChatMetrics{
		turnsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "clinic",
			Subsystem: "chat",
			Name:      "turns_total",
			Help:      "Chat turns by terminal outcome",
		}, []string{"outcome"}),
		providerAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "clinic",
			Subsystem: "chat",
			Name:      "provider_attempts_total",
			Help:      "Model provider attempts by provider and outcome",
		}, []string{"provider", "outcome"}),
		bookingsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "clinic",
			Subsystem: "chat",
			Name:      "bookings_total",
			Help:      "Appointments created or failed via the chat path",
		}, []string{"status"}),
		turnLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "clinic",
			Subsystem: "chat",
			Name:      "turn_latency_seconds",
			Help:      "End-to-end latency of a chat turn",
			Buckets:   prometheus.DefBuckets,
		}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.turnsTotal, m.providerAttempts, m.bookingsTotal, m.turnLatency)
	return m
}

// ObserveTurn records a completed chat turn. outcome is one of
// "reply", "booked", "degraded", "failed".
func (m *ChatMetrics) ObserveTurn(outcome string, seconds float64) {
	if m == nil {
		return
	}
	m.turnsTotal.WithLabelValues(outcome).Inc()
	m.turnLatency.Observe(seconds)
}

// ObserveProviderAttempt records one gateway attempt. outcome is one of
// "success", "rate_limited", "other_error".
func (m *ChatMetrics) ObserveProviderAttempt(provider, outcome string) {
	if m == nil {
		return
	}
	m.providerAttempts.WithLabelValues(provider, outcome).Inc()
}

// ObserveBooking records a chat-originated booking write.
func (m *ChatMetrics) ObserveBooking(status string) {
	if m == nil {
		return
	}
	m.bookingsTotal.WithLabelValues(status).Inc()
}
