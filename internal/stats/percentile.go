// Package stats computes nearest-rank percentiles over arrival durations.
package stats

import (
	"math"
	"sort"
)

// Ladder is the percentile ladder reported by the index artifacts.
type Ladder struct {
	P10 float64
	P25 float64
	P50 float64
	P75 float64
	P90 float64
	P95 float64
	P99 float64
}

// Percentile returns the nearest-rank percentile of a sorted ascending
// sample: the value at index ceil(p/100 * N) - 1, clamped to the sample.
// Not interpolated. Returns 0 for an empty sample.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	idx := int(math.Ceil(p/100*float64(n))) - 1
	if idx < 0 {
		idx = 0
	}
	if idx > n-1 {
		idx = n - 1
	}
	return sorted[idx]
}

// Compute sorts a copy of values and fills the full ladder.
func Compute(values []float64) Ladder {
	if len(values) == 0 {
		return Ladder{}
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	return Ladder{
		P10: Percentile(sorted, 10),
		P25: Percentile(sorted, 25),
		P50: Percentile(sorted, 50),
		P75: Percentile(sorted, 75),
		P90: Percentile(sorted, 90),
		P95: Percentile(sorted, 95),
		P99: Percentile(sorted, 99),
	}
}

// Round rounds to a fixed number of decimal places.
func Round(v float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	return math.Round(v*scale) / scale
}

// RoundLadder rounds every rung to the given number of decimal places.
func RoundLadder(l Ladder, places int) Ladder {
	return Ladder{
		P10: Round(l.P10, places),
		P25: Round(l.P25, places),
		P50: Round(l.P50, places),
		P75: Round(l.P75, places),
		P90: Round(l.P90, places),
		P95: Round(l.P95, places),
		P99: Round(l.P99, places),
	}
}
