package screener

import (
	"testing"

	"earnings-screener/internal/types"
)

func result(symbol string, signal types.Signal, trend float64) types.ScreeningResult {
	return types.ScreeningResult{Symbol: symbol, Signal: signal, TrendDistancePct: trend}
}

func TestRankBuyBeforeHoldThenTrendDescending(t *testing.T) {
	results := []types.ScreeningResult{
		result("A", types.SignalHold, 5.0),
		result("B", types.SignalBuy, 2.0),
		result("C", types.SignalBuy, 8.0),
	}

	Rank(results)

	want := []string{"C", "B", "A"}
	for i, sym := range want {
		if results[i].Symbol != sym {
			t.Fatalf("position %d: expected %s, got %s", i, sym, results[i].Symbol)
		}
	}
}

func TestRankStableOnEqualKeys(t *testing.T) {
	results := []types.ScreeningResult{
		result("FIRST", types.SignalBuy, 3.0),
		result("SECOND", types.SignalBuy, 3.0),
		result("THIRD", types.SignalBuy, 3.0),
	}

	Rank(results)

	want := []string{"FIRST", "SECOND", "THIRD"}
	for i, sym := range want {
		if results[i].Symbol != sym {
			t.Fatalf("equal keys reordered: expected %s at %d, got %s", sym, i, results[i].Symbol)
		}
	}
}

func TestRankHoldsAlsoSortedByTrend(t *testing.T) {
	results := []types.ScreeningResult{
		result("A", types.SignalHold, -4.0),
		result("B", types.SignalHold, 6.0),
		result("C", types.SignalBuy, 1.0),
	}

	Rank(results)

	want := []string{"C", "B", "A"}
	for i, sym := range want {
		if results[i].Symbol != sym {
			t.Fatalf("position %d: expected %s, got %s", i, sym, results[i].Symbol)
		}
	}
}
