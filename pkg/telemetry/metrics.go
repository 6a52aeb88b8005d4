package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics exposes Prometheus observability primitives for the dashboard.
type Metrics struct {
	usageLogs         *prometheus.CounterVec
	usageNonCompliant *prometheus.CounterVec
	insights          *prometheus.CounterVec
	exports           prometheus.Counter
	rateLimited       prometheus.Counter
}

// NewMetrics registers and returns Prometheus metrics for telemetry.
func NewMetrics() *Metrics {
	usageLogs := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "ethos_usage_logs_total",
		Help: "Usage log events recorded, by AI tool.",
	}, []string{"tool"})

	usageNonCompliant := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "ethos_usage_logs_noncompliant_total",
		Help: "Usage log events marked non-compliant, by AI tool.",
	}, []string{"tool"})

	insights := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "ethos_insights_generated_total",
		Help: "Insights generated, by insight type.",
	}, []string{"type"})

	exports := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "ethos_data_exports_total",
		Help: "User data export downloads.",
	})

	rateLimited := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "ethos_usage_log_rate_limited_total",
		Help: "Usage log submissions rejected by the rate limiter.",
	})

	prometheus.MustRegister(usageLogs, usageNonCompliant, insights, exports, rateLimited)

	return &Metrics{
		usageLogs:         usageLogs,
		usageNonCompliant: usageNonCompliant,
		insights:          insights,
		exports:           exports,
		rateLimited:       rateLimited,
	}
}

func (m *Metrics) IncUsageLog(tool string, compliant bool) {
	if m == nil {
		return
	}
	m.usageLogs.WithLabelValues(tool).Inc()
	if !compliant {
		m.usageNonCompliant.WithLabelValues(tool).Inc()
	}
}

func (m *Metrics) IncInsight(insightType string) {
	if m == nil {
		return
	}
	m.insights.WithLabelValues(insightType).Inc()
}

func (m *Metrics) IncExport() {
	if m == nil {
		return
	}
	m.exports.Inc()
}

func (m *Metrics) IncRateLimited() {
	if m == nil {
		return
	}
	m.rateLimited.Inc()
}
