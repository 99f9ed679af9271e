package screener

import (
	"time"

	"earnings-screener/internal/ta"
	"earnings-screener/internal/types"
)

// maPeriod is the trend baseline: a 200-session simple moving average.
const maPeriod = 200

// Derive turns one symbol's raw gateway data into a ScreeningResult, or an
// exclusion reason when a filter rejects it. Exclusions are normal outcomes,
// never errors.
//
// Filters run in order: earnings date known, date inside [asOf, asOf+N]
// (inclusive, calendar days, date precision), at least 200 trailing closes.
// An unknown profit margin counts as exactly zero, so the symbol stays in
// with Profitable=false instead of being excluded.
func Derive(raw types.RawQuote, asOf time.Time, windowDays int) (*types.ScreeningResult, types.ExclusionReason) {
	if raw.EarningsDate == nil {
		return nil, types.ExcludeNoEarningsDate
	}

	today := dateOnly(asOf)
	earnings := dateOnly(*raw.EarningsDate)
	limit := today.AddDate(0, 0, windowDays)
	if earnings.Before(today) || earnings.After(limit) {
		return nil, types.ExcludeOutOfWindow
	}

	if len(raw.History) < maPeriod {
		return nil, types.ExcludeInsufficientHistory
	}

	closes := raw.Closes()
	current := closes[len(closes)-1]
	ma := ta.SMA(closes, maPeriod)
	distance := ta.TrendDistancePct(current, ma)

	margin := 0.0
	if raw.ProfitMargin != nil {
		margin = *raw.ProfitMargin
	}
	profitable := margin > 0

	// Classification uses the unrounded values; ties go to HOLD.
	signal := types.SignalHold
	if current > ma && profitable {
		signal = types.SignalBuy
	}

	return &types.ScreeningResult{
		Symbol:           raw.Symbol,
		EarningsDate:     earnings,
		CurrentPrice:     types.Round2(current),
		MA200:            types.Round2(ma),
		TrendDistancePct: types.Round1(distance),
		Profitable:       profitable,
		Signal:           signal,
	}, types.ExcludeNone
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
