package screener

import (
	"sort"

	"earnings-screener/internal/types"
)

// Rank orders results in place: BUY before HOLD, then trend distance
// descending. The sort is stable so equal-key entries keep their prior
// relative order.
func Rank(results []types.ScreeningResult) {
	sort.SliceStable(results, func(i, j int) bool {
		a, b := results[i], results[j]
		if a.Signal != b.Signal {
			return a.Signal == types.SignalBuy
		}
		return a.TrendDistancePct > b.TrendDistancePct
	})
}
