// Package metrics provides Prometheus metrics for observability.
package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "medi_response"

// Metrics holds all Prometheus metrics for the service.
type Metrics struct {
	// Pipeline metrics
	ResponsesTotal   *prometheus.CounterVec
	ResponseDuration prometheus.Histogram
	ResponseWords    prometheus.Histogram
	SentencesTotal   *prometheus.CounterVec
	CorrectionsTotal prometheus.Counter

	// Collaborator metrics
	GenerationLatency     *prometheus.HistogramVec
	GenerationErrors      *prometheus.CounterVec
	ClassificationLatency prometheus.Histogram
	ClassificationErrors  prometheus.Counter

	// Dialogue metrics
	SessionsStarted prometheus.Counter
	TurnsTotal      prometheus.Counter

	// Kafka publish metrics
	KafkaPublishTotal   *prometheus.CounterVec
	KafkaPublishErrors  *prometheus.CounterVec
	KafkaPublishLatency *prometheus.HistogramVec

	// Store metrics
	StoreWrites *prometheus.CounterVec

	// Surface metrics
	RPCTotal     *prometheus.CounterVec
	RPCDuration  *prometheus.HistogramVec
	HTTPRequests *prometheus.CounterVec

	// STT metrics
	STTLatency *prometheus.HistogramVec
	STTErrors  *prometheus.CounterVec
}

// DefaultMetrics is the global metrics instance.
var DefaultMetrics = NewMetrics()

// NewMetrics creates all metrics on the default registry. Call it once per process.
func NewMetrics() *Metrics {
	return NewMetricsWith(prometheus.DefaultRegisterer)
}

// NewMetricsWith creates all metrics on reg.
func NewMetricsWith(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		// Pipeline metrics
		ResponsesTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "responses_total",
			Help:      "Total number of responses by outcome",
		}, []string{"outcome"}),
		ResponseDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "response_duration_seconds",
			Help:      "End-to-end duration of a response in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
		}),
		ResponseWords: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "response_words",
			Help:      "Number of words in the final response",
			Buckets:   []float64{0, 1, 3, 5, 10, 20, 40, 80},
		}),
		SentencesTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sentences_total",
			Help:      "Generated sentences by role filter outcome",
		}, []string{"outcome"}),
		CorrectionsTotal: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "spelling_corrections_total",
			Help:      "Total number of words replaced by the spell corrector",
		}),

		// Collaborator metrics
		GenerationLatency: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "generation_latency_seconds",
			Help:      "Text generation latency in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
		}, []string{"provider"}),
		GenerationErrors: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "generation_errors_total",
			Help:      "Total number of failed or empty generations",
		}, []string{"provider"}),
		ClassificationLatency: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "classification_latency_seconds",
			Help:      "Role filter pass latency in seconds",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2},
		}),
		ClassificationErrors: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "classification_errors_total",
			Help:      "Total number of classifier failures and malformed labels",
		}),

		// Dialogue metrics
		SessionsStarted: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_started_total",
			Help:      "Total number of dialogue sessions started",
		}),
		TurnsTotal: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "turns_total",
			Help:      "Total number of dialogue turns recorded",
		}),

		// Kafka publish metrics
		KafkaPublishTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "kafka_publish_total",
			Help:      "Total number of Kafka messages published",
		}, []string{"topic", "event_type"}),
		KafkaPublishErrors: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "kafka_publish_errors_total",
			Help:      "Total number of Kafka publish errors",
		}, []string{"topic", "event_type"}),
		KafkaPublishLatency: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "kafka_publish_latency_seconds",
			Help:      "Kafka publish latency in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"topic"}),

		// Store metrics
		StoreWrites: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "store_writes_total",
			Help:      "Total number of history store writes",
		}, []string{"table", "outcome"}),

		// Surface metrics
		RPCTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "grpc_requests_total",
			Help:      "Total number of gRPC requests",
		}, []string{"method", "code"}),
		RPCDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "grpc_request_duration_seconds",
			Help:      "gRPC request duration in seconds",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
		}, []string{"method"}),
		HTTPRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP API requests",
		}, []string{"route", "status"}),

		// STT metrics
		STTLatency: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "stt_latency_seconds",
			Help:      "Speech-to-text recognition latency in seconds",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2, 5, 10},
		}, []string{"provider"}),
		STTErrors: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stt_errors_total",
			Help:      "Total number of STT errors",
		}, []string{"provider"}),
	}
}

// RecordResponse records a finished response.
func (m *Metrics) RecordResponse(outcome string, durationSeconds float64) {
	m.ResponsesTotal.WithLabelValues(outcome).Inc()
	m.ResponseDuration.Observe(durationSeconds)
}

// RecordResponseWords records the word count of a final response.
func (m *Metrics) RecordResponseWords(words int) {
	m.ResponseWords.Observe(float64(words))
}

// RecordSentences records the outcome of a role filter pass.
func (m *Metrics) RecordSentences(kept, skipped, unexamined int) {
	m.SentencesTotal.WithLabelValues("kept").Add(float64(kept))
	m.SentencesTotal.WithLabelValues("skipped").Add(float64(skipped))
	m.SentencesTotal.WithLabelValues("unexamined").Add(float64(unexamined))
}

// RecordCorrections records spell corrections applied to one response.
func (m *Metrics) RecordCorrections(n int) {
	m.CorrectionsTotal.Add(float64(n))
}

// RecordGeneration records one generator call.
func (m *Metrics) RecordGeneration(provider string, err error, latencySeconds float64) {
	m.GenerationLatency.WithLabelValues(provider).Observe(latencySeconds)
	if err != nil {
		m.GenerationErrors.WithLabelValues(provider).Inc()
	}
}

// RecordClassification records one role filter pass.
func (m *Metrics) RecordClassification(err error, latencySeconds float64) {
	m.ClassificationLatency.Observe(latencySeconds)
	if err != nil {
		m.ClassificationErrors.Inc()
	}
}

// RecordSessionStarted records a new dialogue session.
func (m *Metrics) RecordSessionStarted() {
	m.SessionsStarted.Inc()
}

// RecordTurn records a completed dialogue turn.
func (m *Metrics) RecordTurn() {
	m.TurnsTotal.Inc()
}

// RecordKafkaPublish records a Kafka publish attempt.
func (m *Metrics) RecordKafkaPublish(topic, eventType string, err error, latencySeconds float64) {
	m.KafkaPublishTotal.WithLabelValues(topic, eventType).Inc()
	m.KafkaPublishLatency.WithLabelValues(topic).Observe(latencySeconds)
	if err != nil {
		m.KafkaPublishErrors.WithLabelValues(topic, eventType).Inc()
	}
}

// RecordStoreWrite records a history store write.
func (m *Metrics) RecordStoreWrite(table string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.StoreWrites.WithLabelValues(table, outcome).Inc()
}

// RecordRPC records a finished gRPC call.
func (m *Metrics) RecordRPC(method, code string, durationSeconds float64) {
	m.RPCTotal.WithLabelValues(method, code).Inc()
	m.RPCDuration.WithLabelValues(method).Observe(durationSeconds)
}

// RecordHTTP records a finished HTTP API request.
func (m *Metrics) RecordHTTP(route string, status int) {
	m.HTTPRequests.WithLabelValues(route, strconv.Itoa(status)).Inc()
}

// RecordSTT records one recognition call.
func (m *Metrics) RecordSTT(provider string, err error, latencySeconds float64) {
	m.STTLatency.WithLabelValues(provider).Observe(latencySeconds)
	if err != nil {
		m.STTErrors.WithLabelValues(provider).Inc()
	}
}
