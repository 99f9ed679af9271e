package ta

import "math"

// SMA returns the simple moving average of the most recent n closes, or NaN
// when fewer than n values are available.
func SMA(closes []float64, n int) float64 {
	if len(closes) < n || n <= 0 {
		return math.NaN()
	}
	sum := 0.0
	for i := len(closes) - n; i < len(closes); i++ {
		sum += closes[i]
	}
	return sum / float64(n)
}

// TrendDistancePct is the percentage deviation of price from a moving
// average. NaN when the average is unusable.
func TrendDistancePct(price, ma float64) float64 {
	if ma == 0 || math.IsNaN(ma) {
		return math.NaN()
	}
	return (price - ma) / ma * 100
}
