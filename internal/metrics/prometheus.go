package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus instruments for the dictation pipeline.
// A nil *Metrics is valid: every Record method becomes a no-op, so
// components take the same wiring whether metrics are enabled or not.
type Metrics struct {
	// Pipeline metrics
	RecordingsProcessed  *prometheus.CounterVec
	ProcessingDuration   prometheus.Histogram
	RecordingDuration    prometheus.Histogram
	SegmentsPerRecording prometheus.Histogram

	// Recognition metrics
	RecognitionRequests *prometheus.CounterVec
	RecognitionDuration prometheus.Histogram
	RecognitionRetries  prometheus.Counter

	// Refinement metrics
	RefineRequests *prometheus.CounterVec

	// Export metrics
	ExportsGenerated *prometheus.CounterVec
}

// New creates and registers all pipeline metrics on the default registry.
func New() *Metrics {
	return &Metrics{
		RecordingsProcessed: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "medscribe_recordings_processed_total",
			Help: "Total number of dictation recordings processed",
		}, []string{"outcome"}),
		ProcessingDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "medscribe_processing_duration_seconds",
			Help:    "Wall time of full pipeline runs",
			Buckets: prometheus.ExponentialBuckets(1, 2, 10), // 1s to ~17 minutes
		}),
		RecordingDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "medscribe_recording_duration_seconds",
			Help:    "Audio duration of processed recordings",
			Buckets: prometheus.ExponentialBuckets(5, 2, 9), // 5s to ~21 minutes
		}),
		SegmentsPerRecording: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "medscribe_segments_per_recording",
			Help:    "Number of recognition segments per recording",
			Buckets: prometheus.LinearBuckets(1, 2, 10), // 1 to 19
		}),

		RecognitionRequests: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "medscribe_recognition_requests_total",
			Help: "Recognition outcomes by fragment status",
		}, []string{"status"}),
		RecognitionDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "medscribe_recognition_duration_seconds",
			Help:    "Duration of recognition calls including retries",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 11), // 100ms to ~3.5 minutes
		}),
		RecognitionRetries: promauto.NewCounter(prometheus.CounterOpts{
			Name: "medscribe_recognition_retries_total",
			Help: "Total number of recognition attempt retries",
		}),

		RefineRequests: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "medscribe_refine_requests_total",
			Help: "Refinement operations by kind and outcome",
		}, []string{"operation", "outcome"}),

		ExportsGenerated: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "medscribe_exports_generated_total",
			Help: "Exported documents by format",
		}, []string{"format"}),
	}
}

// RecordRecordingProcessed records one completed pipeline run.
func (m *Metrics) RecordRecordingProcessed(outcome string, wallTime time.Duration, audioMs int64, segments int) {
	if m == nil {
		return
	}
	m.RecordingsProcessed.WithLabelValues(outcome).Inc()
	m.ProcessingDuration.Observe(wallTime.Seconds())
	if audioMs > 0 {
		m.RecordingDuration.Observe(float64(audioMs) / 1000)
	}
	if segments > 0 {
		m.SegmentsPerRecording.Observe(float64(segments))
	}
}

// RecordRecognition records the outcome of one segment recognition.
func (m *Metrics) RecordRecognition(status string, duration time.Duration) {
	if m == nil {
		return
	}
	m.RecognitionRequests.WithLabelValues(status).Inc()
	m.RecognitionDuration.Observe(duration.Seconds())
}

// RecordRecognitionRetry increments the retry counter.
func (m *Metrics) RecordRecognitionRetry() {
	if m == nil {
		return
	}
	m.RecognitionRetries.Inc()
}

// RecordRefine records a refinement operation outcome.
func (m *Metrics) RecordRefine(operation, outcome string) {
	if m == nil {
		return
	}
	m.RefineRequests.WithLabelValues(operation, outcome).Inc()
}

// RecordExport records one generated export document.
func (m *Metrics) RecordExport(format string) {
	if m == nil {
		return
	}
	m.ExportsGenerated.WithLabelValues(format).Inc()
}
