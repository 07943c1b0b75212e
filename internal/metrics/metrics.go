package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ObservationsIndexed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "analogwx_observations_indexed_total",
			Help: "Weather observations merged into the in-memory index",
		},
		[]string{"airport"},
	)

	ObservationsDropped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "analogwx_observations_dropped_total",
			Help: "Weather records dropped during load",
		},
		[]string{"airport", "reason"},
	)

	DaysProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "analogwx_days_processed_total",
			Help: "Calendar days processed by an index builder",
		},
		[]string{"airport", "artifact"},
	)

	DaysSkipped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "analogwx_days_skipped_total",
			Help: "Calendar days skipped (missing or unreadable summary)",
		},
		[]string{"airport", "artifact"},
	)

	SlotsSkipped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "analogwx_slots_skipped_total",
			Help: "Slots skipped because no observation was within tolerance",
		},
		[]string{"airport"},
	)

	ArtifactsWritten = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "analogwx_artifacts_written_total",
			Help: "Index artifacts written",
		},
		[]string{"airport", "artifact"},
	)

	BuildDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "analogwx_build_duration_seconds",
			Help:    "Wall-clock duration of one artifact build",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"artifact"},
	)
)
