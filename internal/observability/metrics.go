package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce          sync.Once
	gradeRequestsTotal    *prometheus.CounterVec
	gradeLatencySeconds   *prometheus.HistogramVec
	pipelineStageSeconds  *prometheus.HistogramVec
	pipelineFailuresTotal *prometheus.CounterVec
	uploadRequestsTotal   *prometheus.CounterVec
	uploadRejectedTotal   *prometheus.CounterVec
	uploadLatencySeconds  prometheus.Histogram
)

// RegisterMetrics initialises the Prometheus collectors used by the grading API.
func RegisterMetrics() {
	registerOnce.Do(func() {
		gradeRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "grading_requests_total",
			Help: "Total number of grading API requests served.",
		}, []string{"method", "route", "status"})

		gradeLatencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "grading_request_latency_seconds",
			Help:    "Latency distribution for grading API requests.",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 15.0, 60.0},
		}, []string{"method", "route"})

		pipelineStageSeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "grading_pipeline_stage_seconds",
			Help:    "Duration of each grading pipeline stage.",
			Buckets: []float64{0.1, 0.5, 1.0, 2.5, 5.0, 15.0, 30.0, 60.0},
		}, []string{"stage"})

		pipelineFailuresTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "grading_pipeline_failures_total",
			Help: "Number of grading pipeline failures by error kind.",
		}, []string{"kind"})

		uploadRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "paper_upload_requests_total",
			Help: "Number of accepted paper uploads by detected type.",
		}, []string{"type"})

		uploadRejectedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "paper_upload_rejected_total",
			Help: "Number of rejected paper uploads by reason.",
		}, []string{"reason"})

		uploadLatencySeconds = prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "paper_upload_latency_seconds",
			Help:    "Latency distribution for paper uploads.",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0},
		})

		prometheus.MustRegister(
			gradeRequestsTotal,
			gradeLatencySeconds,
			pipelineStageSeconds,
			pipelineFailuresTotal,
			uploadRequestsTotal,
			uploadRejectedTotal,
			uploadLatencySeconds,
		)
	})
}

// GradeRequests exposes the counter for grading API requests.
func GradeRequests() *prometheus.CounterVec {
	RegisterMetrics()
	return gradeRequestsTotal
}

// GradeLatency exposes the latency histogram for grading API requests.
func GradeLatency() *prometheus.HistogramVec {
	RegisterMetrics()
	return gradeLatencySeconds
}

// PipelineStage exposes the per-stage duration histogram.
func PipelineStage() *prometheus.HistogramVec {
	RegisterMetrics()
	return pipelineStageSeconds
}

// PipelineFailures exposes the failure counter labelled by error kind.
func PipelineFailures() *prometheus.CounterVec {
	RegisterMetrics()
	return pipelineFailuresTotal
}

// UploadRequests exposes the counter for accepted uploads.
func UploadRequests() *prometheus.CounterVec {
	RegisterMetrics()
	return uploadRequestsTotal
}

// UploadRejected exposes the counter for rejected uploads.
func UploadRejected() *prometheus.CounterVec {
	RegisterMetrics()
	return uploadRejectedTotal
}

// UploadLatency exposes the upload latency histogram.
func UploadLatency() prometheus.Histogram {
	RegisterMetrics()
	return uploadLatencySeconds
}
