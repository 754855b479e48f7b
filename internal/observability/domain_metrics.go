package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	chatTurnsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "askbase_chat_turns_total",
			Help: "Total number of chat turns by routing decision.",
		},
		[]string{"route"},
	)
	classifierFallbacksTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "askbase_classifier_fallbacks_total",
			Help: "Total number of classifier calls that degraded to the no-database default.",
		},
	)
	sqlExecutionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "askbase_sql_executions_total",
			Help: "Total number of generated SQL executions by outcome.",
		},
		[]string{"outcome"},
	)
	sqlExecutionDurationSeconds = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "askbase_sql_execution_duration_seconds",
			Help:    "Generated SQL execution latency.",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
	)
	completionRequestDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "askbase_completion_request_duration_seconds",
			Help:    "Language-model completion latency by invocation mode.",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 20, 30},
		},
		[]string{"mode"},
	)
)

func init() {
	prometheus.MustRegister(
		chatTurnsTotal,
		classifierFallbacksTotal,
		sqlExecutionsTotal,
		sqlExecutionDurationSeconds,
		completionRequestDurationSeconds,
	)
}

func ObserveChatTurn(route string) {
	chatTurnsTotal.WithLabelValues(route).Inc()
}

func IncrementClassifierFallback() {
	classifierFallbacksTotal.Inc()
}

func ObserveSQLExecution(outcome string, elapsed time.Duration) {
	sqlExecutionsTotal.WithLabelValues(outcome).Inc()
	sqlExecutionDurationSeconds.Observe(elapsed.Seconds())
}

func ObserveCompletionRequest(mode string, elapsed time.Duration) {
	completionRequestDurationSeconds.WithLabelValues(mode).Observe(elapsed.Seconds())
}
