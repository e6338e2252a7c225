package monitoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Message outcomes.
const (
	OutcomeRejected  = "rejected"
	OutcomeFailed    = "failed"
	OutcomeSucceeded = "succeeded"
)

// Metrics holds all Prometheus metrics for the bot.
type Metrics struct {
	Registry      *prometheus.Registry
	MessagesTotal *prometheus.CounterVec
	ErrorsTotal   *prometheus.CounterVec
	ParseDuration prometheus.Histogram
}

func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,
		MessagesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "wbbot_messages_total",
			Help: "The total number of handled messages by outcome",
		}, []string{"outcome"}),
		ErrorsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "wbbot_fetch_errors_total",
			Help: "The total number of failed product extractions by kind",
		}, []string{"kind"}), // e.g. 'network', 'invalid_page', 'field_not_found'
		ParseDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "wbbot_parse_duration_seconds",
			Help:    "Time spent fetching and extracting a product page",
			Buckets: prometheus.DefBuckets,
		}),
	}
}

func (m *Metrics) IncMessages(outcome string) {
	m.MessagesTotal.WithLabelValues(outcome).Inc()
}

func (m *Metrics) IncErrors(kind string) {
	m.ErrorsTotal.WithLabelValues(kind).Inc()
}

func (m *Metrics) ObserveParse(d time.Duration) {
	m.ParseDuration.Observe(d.Seconds())
}
