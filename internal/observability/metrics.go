package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the risk engine.
type Metrics struct {
	MessagesConsumed prometheus.Counter
	MessagesProduced prometheus.Counter
	AssessmentErrors *prometheus.CounterVec // labels: category={invalid_input,invalid_domain_data,internal_error}
	PipelineRunning  prometheus.Gauge

	// Batch processing metrics.
	BatchSize               prometheus.Histogram
	BatchProcessingDuration prometheus.Histogram

	// HTTP assessment metrics.
	Assessments *prometheus.CounterVec // labels: source={http,neows,stream}, outcome={success,invalid_input,invalid_domain_data,internal_error}
	RiskScore   prometheus.Histogram

	// NeoWs lookup metrics.
	NeoWsRequests    *prometheus.CounterVec // labels: outcome={success,error,not_found}
	NeoWsCache       *prometheus.CounterVec // labels: result={hit,miss}
	NeoWsAPIDuration prometheus.Histogram
	NeoWsEnabled     prometheus.Gauge
}

// NewMetrics creates and registers all engine metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		MessagesConsumed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "neo_risk",
			Name:      "messages_consumed_total",
			Help:      "Total messages read from the source topic.",
		}),
		MessagesProduced: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "neo_risk",
			Name:      "messages_produced_total",
			Help:      "Total assessments written to the sink topic.",
		}),
		AssessmentErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "neo_risk",
			Name:      "assessment_errors_total",
			Help:      "Rejected records from the source topic by error category.",
		}, []string{"category"}),
		PipelineRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "neo_risk",
			Name:      "pipeline_running",
			Help:      "1 when the pipeline is active, 0 when shut down.",
		}),
		BatchSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "neo_risk",
			Name:      "batch_size",
			Help:      "Number of messages per batch extracted from Kafka.",
			Buckets:   []float64{1, 5, 10, 20, 30, 40, 50, 75, 100},
		}),
		BatchProcessingDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "neo_risk",
			Name:      "batch_processing_duration_seconds",
			Help:      "Duration of a complete batch extract-assess-load cycle.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10},
		}),
		Assessments: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "neo_risk",
			Name:      "assessments_total",
			Help:      "Assessments by source and outcome.",
		}, []string{"source", "outcome"}),
		RiskScore: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "neo_risk",
			Name:      "risk_score",
			Help:      "Distribution of successful risk scores.",
			Buckets:   prometheus.LinearBuckets(0, 10, 11),
		}),
		NeoWsRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "neo_risk",
			Name:      "neows_requests_total",
			Help:      "NASA NeoWs API requests by outcome.",
		}, []string{"outcome"}),
		NeoWsCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "neo_risk",
			Name:      "neows_cache_total",
			Help:      "NeoWs cache lookups by result.",
		}, []string{"result"}),
		NeoWsAPIDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "neo_risk",
			Name:      "neows_api_duration_seconds",
			Help:      "NeoWs API request duration in seconds.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}),
		NeoWsEnabled: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "neo_risk",
			Name:      "neows_enabled",
			Help:      "1 when NeoWs lookups are enabled, 0 otherwise.",
		}),
	}

	prometheus.MustRegister(
		m.MessagesConsumed,
		m.MessagesProduced,
		m.AssessmentErrors,
		m.PipelineRunning,
		m.BatchSize,
		m.BatchProcessingDuration,
		m.Assessments,
		m.RiskScore,
		m.NeoWsRequests,
		m.NeoWsCache,
		m.NeoWsAPIDuration,
		m.NeoWsEnabled,
	)

	return m
}

// NewMetricsForTesting creates Metrics with a fresh registry to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		MessagesConsumed:        prometheus.NewCounter(prometheus.CounterOpts{Namespace: "neo_risk", Name: "messages_consumed_total"}),
		MessagesProduced:        prometheus.NewCounter(prometheus.CounterOpts{Namespace: "neo_risk", Name: "messages_produced_total"}),
		AssessmentErrors:        prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "neo_risk", Name: "assessment_errors_total"}, []string{"category"}),
		PipelineRunning:         prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "neo_risk", Name: "pipeline_running"}),
		BatchSize:               prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "neo_risk", Name: "batch_size"}),
		BatchProcessingDuration: prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "neo_risk", Name: "batch_processing_duration_seconds"}),
		Assessments:             prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "neo_risk", Name: "assessments_total"}, []string{"source", "outcome"}),
		RiskScore:               prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "neo_risk", Name: "risk_score"}),
		NeoWsRequests:           prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "neo_risk", Name: "neows_requests_total"}, []string{"outcome"}),
		NeoWsCache:              prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "neo_risk", Name: "neows_cache_total"}, []string{"result"}),
		NeoWsAPIDuration:        prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "neo_risk", Name: "neows_api_duration_seconds"}),
		NeoWsEnabled:            prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "neo_risk", Name: "neows_enabled"}),
	}
}
