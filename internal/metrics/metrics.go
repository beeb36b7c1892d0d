// Package metrics provides Prometheus metrics for leadprep.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ResolutionsTotal counts leader resolutions by the tier that answered.
	ResolutionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "leadprep",
			Name:      "resolutions_total",
			Help:      "Total number of leader resolutions by provenance",
		},
		[]string{"provenance"},
	)

	// TierErrorsTotal counts tier failures that were treated as misses.
	TierErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "leadprep",
			Name:      "tier_errors_total",
			Help:      "Total number of tier errors during resolution",
		},
		[]string{"tier"},
	)

	// ResolveDuration measures a full resolution.
	ResolveDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "leadprep",
			Name:      "resolve_duration_seconds",
			Help:      "Duration of leader resolutions in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"provenance"},
	)

	// InterviewSearchesTotal counts media searches per leader.
	InterviewSearchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "leadprep",
			Name:      "interview_searches_total",
			Help:      "Total number of interview searches by status",
		},
		[]string{"status"},
	)

	// GenerationsTotal counts research and opener generations by outcome.
	GenerationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "leadprep",
			Name:      "generations_total",
			Help:      "Total number of research and opener generations by kind and status",
		},
		[]string{"kind", "status"},
	)

	// RankedCandidates observes how many candidates survive ranking.
	RankedCandidates = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "leadprep",
			Name:      "ranked_candidates",
			Help:      "Distribution of ranked interview counts per leader",
			Buckets:   []float64{0, 1, 2, 5, 10, 15, 25},
		},
	)
)

// RecordResolution records a completed resolution.
func RecordResolution(provenance string, duration float64) {
	ResolutionsTotal.WithLabelValues(provenance).Inc()
	ResolveDuration.WithLabelValues(provenance).Observe(duration)
}

// RecordTierError records a tier failure.
func RecordTierError(tier string) {
	TierErrorsTotal.WithLabelValues(tier).Inc()
}

// RecordInterviewSearch records a search outcome and the ranked result size.
func RecordInterviewSearch(status string, ranked int) {
	InterviewSearchesTotal.WithLabelValues(status).Inc()
	if status == "success" {
		RankedCandidates.Observe(float64(ranked))
	}
}

// RecordGeneration records a research or opener generation outcome.
func RecordGeneration(kind, status string) {
	GenerationsTotal.WithLabelValues(kind, status).Inc()
}
