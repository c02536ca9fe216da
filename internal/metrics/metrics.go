package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// LLMRequestsTotal counts chat-completion calls.
	// Labels: operation (summary/title/action_items), status (success/parse_fallback/error)
	LLMRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scribe_llm_requests_total",
			Help: "Total number of LLM requests by operation and outcome",
		},
		[]string{"operation", "status"},
	)

	// LLMRequestDuration observes wall-clock seconds per chat-completion call
	LLMRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "scribe_llm_request_duration_seconds",
			Help:    "LLM request duration in seconds by operation",
			Buckets: []float64{0.5, 1, 2, 5, 10, 30, 60, 120},
		},
		[]string{"operation"},
	)

	// TranscriptionsTotal counts transcription attempts.
	// Labels: provider (whisper_api/local/assemblyai), status (success/error)
	TranscriptionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scribe_transcriptions_total",
			Help: "Total number of transcription attempts by provider and outcome",
		},
		[]string{"provider", "status"},
	)

	// TranscriptionDuration observes wall-clock seconds per transcription
	TranscriptionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "scribe_transcription_duration_seconds",
			Help:    "Transcription duration in seconds by provider",
			Buckets: []float64{1, 5, 10, 30, 60, 120, 300, 600},
		},
		[]string{"provider"},
	)

	// JobsTotal counts processing job terminal transitions.
	// Labels: job_type (transcription/summary), status (completed/failed/retrying)
	JobsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scribe_jobs_total",
			Help: "Total number of processing job transitions by type and status",
		},
		[]string{"job_type", "status"},
	)

	// JobDuration observes wall-clock seconds from claim to settlement
	JobDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "scribe_job_duration_seconds",
			Help:    "Processing job duration in seconds by type",
			Buckets: []float64{1, 5, 10, 30, 60, 120, 300, 600},
		},
		[]string{"job_type"},
	)

	// JobQueueDepth tracks jobs waiting to be claimed
	JobQueueDepth = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "scribe_job_queue_depth",
			Help: "Number of pending or retrying jobs awaiting a worker",
		},
	)

	// SummaryCacheTotal counts summary cache lookups.
	// Labels: result (hit/miss)
	SummaryCacheTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scribe_summary_cache_total",
			Help: "Total number of summary cache lookups by result",
		},
		[]string{"result"},
	)
)

// RecordLLMRequest records a completed chat-completion call
func RecordLLMRequest(operation, status string, durationSeconds float64) {
	LLMRequestsTotal.WithLabelValues(operation, status).Inc()
	LLMRequestDuration.WithLabelValues(operation).Observe(durationSeconds)
}

// RecordTranscription records a completed transcription attempt
func RecordTranscription(provider string, success bool, durationSeconds float64) {
	status := "success"
	if !success {
		status = "error"
	}
	TranscriptionsTotal.WithLabelValues(provider, status).Inc()
	TranscriptionDuration.WithLabelValues(provider).Observe(durationSeconds)
}

// RecordJob records a job state transition
func RecordJob(jobType, status string) {
	JobsTotal.WithLabelValues(jobType, status).Inc()
}

// RecordJobDuration records how long a claimed job ran
func RecordJobDuration(jobType string, durationSeconds float64) {
	JobDuration.WithLabelValues(jobType).Observe(durationSeconds)
}

// SetQueueDepth updates the pending-jobs gauge
func SetQueueDepth(depth int) {
	JobQueueDepth.Set(float64(depth))
}

// RecordCacheLookup records a summary cache hit or miss
func RecordCacheLookup(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	SummaryCacheTotal.WithLabelValues(result).Inc()
}
