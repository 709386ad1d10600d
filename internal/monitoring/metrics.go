package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	RunsTotal     *prometheus.CounterVec
	ErrorsTotal   *prometheus.CounterVec
	TrackerResets prometheus.Counter
	SummaryTokens prometheus.Counter
}

func NewMetrics() *Metrics {
	return &Metrics{
		RunsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "dailyreader_runs_total",
			Help: "The total number of digest runs by outcome",
		}, []string{"status"}), // 'success', 'failure'
		ErrorsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "dailyreader_errors_total",
			Help: "The total number of errors encountered",
		}, []string{"type"}), // e.g. 'source_unavailable', 'scrape_failed'
		TrackerResets: promauto.NewCounter(prometheus.CounterOpts{
			Name: "dailyreader_tracker_resets_total",
			Help: "The total number of committed reading-list rollovers",
		}),
		SummaryTokens: promauto.NewCounter(prometheus.CounterOpts{
			Name: "dailyreader_summary_tokens_total",
			Help: "The total number of model tokens spent on summaries",
		}),
	}
}

func (m *Metrics) IncRuns(status string) {
	m.RunsTotal.WithLabelValues(status).Inc()
}

func (m *Metrics) IncErrors(errorType string) {
	m.ErrorsTotal.WithLabelValues(errorType).Inc()
}
