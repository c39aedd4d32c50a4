package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RequestsRouted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chat_requests_routed_total",
			Help: "Total number of requests routed by pipeline mode",
		},
		[]string{"mode", "status"},
	)

	PipelineDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "chat_pipeline_duration_seconds",
			Help: "Duration of pipeline execution in seconds",
		},
		[]string{"mode"},
	)

	CompletionCalls = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chat_completion_calls_total",
			Help: "Total number of completion API calls",
		},
		[]string{"status"},
	)

	CompletionDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name: "chat_completion_duration_seconds",
			Help: "Duration of completion API calls in seconds",
		},
	)

	ActionsExecuted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chat_csv_actions_executed_total",
			Help: "Total number of CSV actions executed",
		},
		[]string{"action", "status"},
	)
)
