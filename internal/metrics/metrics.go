package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ExtractionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "resume_extractions_total",
			Help: "Total number of document extractions by file type and outcome",
		},
		[]string{"file_type", "outcome"},
	)

	ExtractionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "resume_extraction_duration_seconds",
			Help:    "Duration of document text extraction in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"file_type"},
	)

	AnalysesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "resume_analyses_total",
			Help: "Total number of analysis service calls by outcome",
		},
		[]string{"outcome"},
	)

	AnalysisDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "resume_analysis_duration_seconds",
			Help:    "Duration of the analysis service round trip in seconds",
			Buckets: []float64{0.5, 1, 2.5, 5, 10, 20, 40, 80},
		},
	)

	SessionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "resume_sessions_active",
			Help: "Number of sessions held in memory",
		},
	)
)

const (
	OutcomeSuccess     = "success"
	OutcomeUnsupported = "unsupported"
	OutcomeFailed      = "failed"
)
