package ta

import (
	"math"
	"testing"
)

func TestSMA(t *testing.T) {
	closes := []float64{1, 2, 3, 4, 5}

	if got := SMA(closes, 5); got != 3 {
		t.Errorf("expected SMA 3, got %f", got)
	}
	// Only the most recent n values count.
	if got := SMA(closes, 2); got != 4.5 {
		t.Errorf("expected SMA 4.5, got %f", got)
	}
}

func TestSMAInsufficientData(t *testing.T) {
	if got := SMA([]float64{1, 2}, 3); !math.IsNaN(got) {
		t.Errorf("expected NaN for short series, got %f", got)
	}
	if got := SMA(nil, 1); !math.IsNaN(got) {
		t.Errorf("expected NaN for empty series, got %f", got)
	}
}

func TestTrendDistancePct(t *testing.T) {
	if got := TrendDistancePct(110, 100); got != 10 {
		t.Errorf("expected 10%%, got %f", got)
	}
	if got := TrendDistancePct(90, 100); got != -10 {
		t.Errorf("expected -10%%, got %f", got)
	}
	if got := TrendDistancePct(100, 0); !math.IsNaN(got) {
		t.Errorf("expected NaN for zero average, got %f", got)
	}
}
