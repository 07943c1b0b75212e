package stats

import "testing"

func TestPercentile(t *testing.T) {
	sorted := []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}

	tests := []struct {
		name string
		p    float64
		want float64
	}{
		{"p10", 10, 1},
		{"p25", 25, 3},
		{"p50", 50, 5},
		{"p75", 75, 8},
		{"p90", 90, 9},
		{"p99", 99, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Percentile(sorted, tt.p); got != tt.want {
				t.Errorf("Percentile(%v) = %v, want %v", tt.p, got, tt.want)
			}
		})
	}
}

func TestPercentileEdgeCases(t *testing.T) {
	if got := Percentile(nil, 50); got != 0 {
		t.Errorf("empty sample = %v, want 0", got)
	}
	if got := Percentile([]float64{42}, 99); got != 42 {
		t.Errorf("single sample p99 = %v, want 42", got)
	}
	if got := Percentile([]float64{42}, 10); got != 42 {
		t.Errorf("single sample p10 = %v, want 42", got)
	}
}

func TestCompute(t *testing.T) {
	values := []float64{17, 15, 16}
	l := Compute(values)

	if l.P50 != 16 {
		t.Errorf("P50 = %v, want 16", l.P50)
	}
	if l.P10 != 15 {
		t.Errorf("P10 = %v, want 15", l.P10)
	}
	if l.P99 != 17 {
		t.Errorf("P99 = %v, want 17", l.P99)
	}

	// Compute sorts a copy, not the caller's slice.
	if values[0] != 17 || values[1] != 15 || values[2] != 16 {
		t.Errorf("input mutated: %v", values)
	}
}

func TestComputeLadderIsNonDecreasing(t *testing.T) {
	l := Compute([]float64{9, 1, 7, 3, 5, 8, 2, 6, 4, 10, 11, 12})
	rungs := []float64{l.P10, l.P25, l.P50, l.P75, l.P90, l.P95, l.P99}
	for i := 1; i < len(rungs); i++ {
		if rungs[i] < rungs[i-1] {
			t.Errorf("ladder not non-decreasing: %+v", l)
		}
	}
}

func TestRound(t *testing.T) {
	tests := []struct {
		v      float64
		places int
		want   float64
	}{
		{16.004, 2, 16.0},
		{16.006, 2, 16.01},
		{15.96, 1, 16.0},
		{0.0375, 4, 0.0375},
	}

	for _, tt := range tests {
		if got := Round(tt.v, tt.places); got != tt.want {
			t.Errorf("Round(%v, %d) = %v, want %v", tt.v, tt.places, got, tt.want)
		}
	}
}
