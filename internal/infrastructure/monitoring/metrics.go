package monitoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type HTTPMetrics struct {
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
}

type DBMetrics struct {
	QueryDuration *prometheus.HistogramVec
}

type BusinessMetrics struct {
	ProposalsCreatedTotal  prometheus.Counter
	AnalysisDecisionsTotal *prometheus.CounterVec
	StateTransitionsTotal  *prometheus.CounterVec
	EventsPublishedTotal   *prometheus.CounterVec
}

var (
	HTTP = HTTPMetrics{
		RequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "proposal_engine_http_requests_total",
				Help: "Total number of HTTP requests received.",
			},
			[]string{"method", "path", "code"},
		),
		RequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "proposal_engine_http_request_duration_seconds",
				Help:    "Histogram of HTTP request latencies.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path", "code"},
		),
	}

	DB = DBMetrics{
		QueryDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "proposal_engine_db_query_duration_seconds",
				Help:    "Histogram of database query latencies.",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
			},
			[]string{"query_name", "status"},
		),
	}

	Business = BusinessMetrics{
		ProposalsCreatedTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "proposal_engine_proposals_created_total",
				Help: "Total number of proposals successfully created.",
			},
		),
		AnalysisDecisionsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "proposal_engine_analysis_decisions_total",
				Help: "Automated analysis decisions by precheck outcome and resulting status.",
			},
			[]string{"precheck", "status"},
		),
		StateTransitionsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "proposal_engine_state_transitions_total",
				Help: "Proposal state transitions by origin and destination status.",
			},
			[]string{"from", "to"},
		),
		EventsPublishedTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "proposal_engine_events_published_total",
				Help: "Lifecycle events published to the broker, by type and status.",
			},
			[]string{"event_type", "status"},
		),
	}
)

func RecordHTTPRequest(method, path, code string, duration time.Duration) {
	HTTP.RequestsTotal.WithLabelValues(method, path, code).Inc()
	HTTP.RequestDuration.WithLabelValues(method, path, code).Observe(duration.Seconds())
}

func RecordDBQuery(queryName, status string, duration time.Duration) {
	DB.QueryDuration.WithLabelValues(queryName, status).Observe(duration.Seconds())
}

func RecordProposalCreated() {
	Business.ProposalsCreatedTotal.Inc()
}

func RecordAnalysisDecision(precheck, status string) {
	Business.AnalysisDecisionsTotal.WithLabelValues(precheck, status).Inc()
}

func RecordStateTransition(from, to string) {
	Business.StateTransitionsTotal.WithLabelValues(from, to).Inc()
}

func RecordEventPublished(eventType, status string) {
	Business.EventsPublishedTotal.WithLabelValues(eventType, status).Inc()
}
