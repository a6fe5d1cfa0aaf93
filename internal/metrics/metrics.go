package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	StagesProcessed    *prometheus.CounterVec
	StageSeconds       *prometheus.HistogramVec
	ToolErrors         *prometheus.CounterVec
	ToolRequestSeconds *prometheus.HistogramVec
	InterpreterErrors  *prometheus.CounterVec
	InterpreterSeconds *prometheus.HistogramVec
	PipelineRunsTotal  *prometheus.CounterVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		StagesProcessed: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "sentinel_stages_processed_total",
			Help: "Total number of completed pipeline stages.",
		}, []string{"stage", "status"}),
		StageSeconds: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "sentinel_stage_duration_seconds",
			Help:    "Duration of a single pipeline stage.",
			Buckets: prometheus.DefBuckets,
		}, []string{"stage"}),
		ToolErrors: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "sentinel_tool_errors_total",
			Help: "Total number of errors returned by weather and routing providers.",
		}, []string{"tool"}),
		ToolRequestSeconds: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "sentinel_tool_request_duration_seconds",
			Help:    "Duration of requests to weather and routing providers.",
			Buckets: prometheus.DefBuckets,
		}, []string{"tool"}),
		InterpreterErrors: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "sentinel_interpreter_errors_total",
			Help: "Total number of failed interpretation requests.",
		}, []string{"provider"}),
		InterpreterSeconds: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "sentinel_interpreter_request_duration_seconds",
			Help:    "Duration of requests to the interpretation provider.",
			Buckets: prometheus.DefBuckets,
		}, []string{"provider"}),
		PipelineRunsTotal: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "sentinel_pipeline_runs_total",
			Help: "Total number of pipeline runs by outcome.",
		}, []string{"outcome"}),
	}
}
