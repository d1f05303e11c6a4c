package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// Generations
	Generations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pipelineai_generations_total",
			Help: "Number of pipeline generations by platform, language and source",
		},
		[]string{"platform", "language", "source"}, // source: llm|fallback
	)
	FallbackActivations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pipelineai_fallback_activations_total",
			Help: "Number of times the template fallback replaced an LLM answer",
		},
		[]string{"platform"},
	)
	GenerationDurationSeconds = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "pipelineai_generation_duration_seconds",
			Help:    "Histogram of Generate call durations in seconds",
			Buckets: prometheus.ExponentialBuckets(0.25, 2, 8), // 0.25s..32s
		},
	)

	// LLM
	LLMRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pipelineai_llm_requests_total",
			Help: "Number of LLM requests by model",
		},
		[]string{"model"},
	)
	LLMRequestDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "pipelineai_llm_request_duration_seconds",
			Help:    "Duration of LLM completion requests",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"model"},
	)

	// History store ops
	DBOps = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pipelineai_db_ops_total",
			Help: "History store operations performed",
		},
		[]string{"op"}, // op: get|put|delete|list|count
	)

	// Errors
	Errors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pipelineai_errors_total",
			Help: "Errors encountered in components",
		},
		[]string{"component", "type"},
	)
)

func init() {
	prometheus.MustRegister(
		Generations,
		FallbackActivations,
		GenerationDurationSeconds,
		LLMRequests,
		LLMRequestDurationSeconds,
		DBOps,
		Errors,
	)
}

// Generations
func IncGeneration(platform, language, source string) {
	Generations.WithLabelValues(platform, language, source).Inc()
}

func IncFallback(platform string) {
	FallbackActivations.WithLabelValues(platform).Inc()
}

func ObserveGenerationDuration(d time.Duration) {
	GenerationDurationSeconds.Observe(d.Seconds())
}

// LLM
func IncLLMRequest(model string) {
	LLMRequests.WithLabelValues(model).Inc()
}

func ObserveLLMRequestDuration(model string, d time.Duration) {
	LLMRequestDurationSeconds.WithLabelValues(model).Observe(d.Seconds())
}

// DB ops
func IncDBOp(op string) {
	DBOps.WithLabelValues(op).Inc()
}

// Errors
func IncError(component, typ string) {
	Errors.WithLabelValues(component, typ).Inc()
}
