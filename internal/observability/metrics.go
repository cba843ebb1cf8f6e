package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "oceanwatch"

// Metrics holds the Prometheus collectors for the assistant, its gateway,
// the session store and the social feed pipeline.
type Metrics struct {
	// Dialogue metrics.
	UtterancesRouted *prometheus.CounterVec // labels: route
	DomainSelections *prometheus.CounterVec // labels: domain
	ContextResets    prometheus.Counter

	// External data gateway metrics.
	GatewayRequests  *prometheus.CounterVec   // labels: data_type, outcome={success,error,timeout,unknown}
	GatewayDuration  *prometheus.HistogramVec // labels: data_type
	GatewayCoalesced prometheus.Counter
	GatewayEnabled   prometheus.Gauge

	// Session store metrics.
	SessionStore *prometheus.CounterVec // labels: operation={load,save,delete}, result={hit,miss,error,ok}

	// Feed pipeline metrics.
	MessagesConsumed        prometheus.Counter
	MessagesProduced        prometheus.Counter
	LabelErrors             prometheus.Counter
	PipelineRunning         prometheus.Gauge
	BatchSize               prometheus.Histogram
	BatchProcessingDuration prometheus.Histogram
}

// NewMetrics creates and registers all metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		UtterancesRouted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "utterances_routed_total",
			Help:      "Utterances answered, by the router stage that produced the reply.",
		}, []string{"route"}),
		DomainSelections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "domain_selections_total",
			Help:      "Replies attributed to each topic domain.",
		}, []string{"domain"}),
		ContextResets: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "context_resets_total",
			Help:      "Persisted dialogue contexts discarded because they could not be decoded.",
		}),
		GatewayRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "gateway_requests_total",
			Help:      "External data fetches by data type and outcome.",
		}, []string{"data_type", "outcome"}),
		GatewayDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "gateway_duration_seconds",
			Help:      "External data fetch duration in seconds.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 1.5, 2, 3, 5},
		}, []string{"data_type"}),
		GatewayCoalesced: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "gateway_coalesced_total",
			Help:      "External data fetches served by an in-flight request for the same type.",
		}),
		GatewayEnabled: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "gateway_enabled",
			Help:      "1 when an external data gateway is configured, 0 otherwise.",
		}),
		SessionStore: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "session_store_operations_total",
			Help:      "Session store operations by operation and result.",
		}, []string{"operation", "result"}),
		MessagesConsumed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "feed_messages_consumed_total",
			Help:      "Total social posts read from the source topic.",
		}),
		MessagesProduced: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "feed_messages_produced_total",
			Help:      "Total labelled posts written to the sink topic.",
		}),
		LabelErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "feed_label_errors_total",
			Help:      "Total social posts that could not be labelled.",
		}),
		PipelineRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "feed_pipeline_running",
			Help:      "1 when the feed pipeline is active, 0 when shut down.",
		}),
		BatchSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "feed_batch_size",
			Help:      "Number of posts per batch extracted from Kafka.",
			Buckets:   []float64{1, 5, 10, 20, 30, 40, 50, 75, 100},
		}),
		BatchProcessingDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "feed_batch_processing_duration_seconds",
			Help:      "Duration of a complete batch extract-label-load cycle.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10},
		}),
	}

	prometheus.MustRegister(
		m.UtterancesRouted,
		m.DomainSelections,
		m.ContextResets,
		m.GatewayRequests,
		m.GatewayDuration,
		m.GatewayCoalesced,
		m.GatewayEnabled,
		m.SessionStore,
		m.MessagesConsumed,
		m.MessagesProduced,
		m.LabelErrors,
		m.PipelineRunning,
		m.BatchSize,
		m.BatchProcessingDuration,
	)

	return m
}

// NewMetricsForTesting creates unregistered Metrics to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return NewUnregisteredMetrics()
}

// NewUnregisteredMetrics creates Metrics that no registry collects, for
// processes such as the CLI that expose no /metrics endpoint.
func NewUnregisteredMetrics() *Metrics {
	return &Metrics{
		UtterancesRouted:        prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: namespace, Name: "utterances_routed_total"}, []string{"route"}),
		DomainSelections:        prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: namespace, Name: "domain_selections_total"}, []string{"domain"}),
		ContextResets:           prometheus.NewCounter(prometheus.CounterOpts{Namespace: namespace, Name: "context_resets_total"}),
		GatewayRequests:         prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: namespace, Name: "gateway_requests_total"}, []string{"data_type", "outcome"}),
		GatewayDuration:         prometheus.NewHistogramVec(prometheus.HistogramOpts{Namespace: namespace, Name: "gateway_duration_seconds"}, []string{"data_type"}),
		GatewayCoalesced:        prometheus.NewCounter(prometheus.CounterOpts{Namespace: namespace, Name: "gateway_coalesced_total"}),
		GatewayEnabled:          prometheus.NewGauge(prometheus.GaugeOpts{Namespace: namespace, Name: "gateway_enabled"}),
		SessionStore:            prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: namespace, Name: "session_store_operations_total"}, []string{"operation", "result"}),
		MessagesConsumed:        prometheus.NewCounter(prometheus.CounterOpts{Namespace: namespace, Name: "feed_messages_consumed_total"}),
		MessagesProduced:        prometheus.NewCounter(prometheus.CounterOpts{Namespace: namespace, Name: "feed_messages_produced_total"}),
		LabelErrors:             prometheus.NewCounter(prometheus.CounterOpts{Namespace: namespace, Name: "feed_label_errors_total"}),
		PipelineRunning:         prometheus.NewGauge(prometheus.GaugeOpts{Namespace: namespace, Name: "feed_pipeline_running"}),
		BatchSize:               prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: namespace, Name: "feed_batch_size"}),
		BatchProcessingDuration: prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: namespace, Name: "feed_batch_processing_duration_seconds"}),
	}
}
