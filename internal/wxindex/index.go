// Package wxindex holds the time-keyed weather observation index used by
// the situation builders: exact lookup, nearest-time lookup bounded by a
// tolerance, and trailing lookback-window queries.
package wxindex

import (
	"sort"
	"time"

	"github.com/lox/analogwx/internal/models"
)

const (
	// DefaultMaxDiff bounds how far a nearest-time match may be from the
	// target instant.
	DefaultMaxDiff = 45 * time.Minute
	// DefaultLookback is the trailing window used for trend detection.
	DefaultLookback = 2 * time.Hour
)

// Index is an immutable timestamp-keyed collection of observations covering
// one or more years. Built once per run.
type Index struct {
	sorted []models.WeatherObservation
	byTime map[int64]int
}

// Build merges observation records into an index. Collisions on timestamp
// are last-write-wins.
func Build(records []models.WeatherObservation) *Index {
	byTime := make(map[int64]int, len(records))
	var sorted []models.WeatherObservation
	for _, rec := range records {
		key := rec.Time.UTC().Unix()
		if i, ok := byTime[key]; ok {
			sorted[i] = rec
			continue
		}
		byTime[key] = len(sorted)
		sorted = append(sorted, rec)
	}
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Time.Before(sorted[j].Time) })
	for i, rec := range sorted {
		byTime[rec.Time.UTC().Unix()] = i
	}
	return &Index{sorted: sorted, byTime: byTime}
}

// Len returns the number of distinct observation instants.
func (idx *Index) Len() int { return len(idx.sorted) }

// At returns the observation recorded exactly at t, if any.
func (idx *Index) At(t time.Time) (models.WeatherObservation, bool) {
	i, ok := idx.byTime[t.UTC().Unix()]
	if !ok {
		return models.WeatherObservation{}, false
	}
	return idx.sorted[i], true
}

// Nearest returns the observation closest in time to target, or nil when
// none lies within maxDiff. A linear scan is fine at METAR scale; the slice
// is kept sorted only for Lookback slicing.
func (idx *Index) Nearest(target time.Time, maxDiff time.Duration) *models.WeatherObservation {
	if maxDiff <= 0 {
		maxDiff = DefaultMaxDiff
	}
	var best *models.WeatherObservation
	bestDiff := maxDiff
	for i := range idx.sorted {
		diff := idx.sorted[i].Time.Sub(target)
		if diff < 0 {
			diff = -diff
		}
		if diff <= bestDiff {
			best = &idx.sorted[i]
			bestDiff = diff
		}
	}
	if best == nil {
		return nil
	}
	obs := *best
	return &obs
}

// Lookback returns all observations in [target-window, target), ascending.
func (idx *Index) Lookback(target time.Time, window time.Duration) []models.WeatherObservation {
	if window <= 0 {
		window = DefaultLookback
	}
	start := target.Add(-window)
	lo := sort.Search(len(idx.sorted), func(i int) bool {
		return !idx.sorted[i].Time.Before(start)
	})
	hi := sort.Search(len(idx.sorted), func(i int) bool {
		return !idx.sorted[i].Time.Before(target)
	})
	if lo >= hi {
		return nil
	}
	out := make([]models.WeatherObservation, hi-lo)
	copy(out, idx.sorted[lo:hi])
	return out
}
