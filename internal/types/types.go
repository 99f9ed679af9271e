package types

import (
	"math"
	"time"
)

// Signal classifies a screened symbol.
type Signal string

const (
	SignalBuy  Signal = "BUY"
	SignalHold Signal = "HOLD"
)

// ExclusionReason explains why the deriver skipped a symbol. Exclusions are
// not failures; they are expected filter outcomes.
type ExclusionReason string

const (
	ExcludeNone                ExclusionReason = ""
	ExcludeNoEarningsDate      ExclusionReason = "NO_EARNINGS_DATE"
	ExcludeOutOfWindow         ExclusionReason = "OUT_OF_WINDOW"
	ExcludeInsufficientHistory ExclusionReason = "INSUFFICIENT_HISTORY"
)

// PricePoint is one daily close.
type PricePoint struct {
	Date  time.Time `json:"date"`
	Close float64   `json:"close"`
}

// RawQuote is everything the gateway knows about one symbol.
// EarningsDate has date precision; nil means the provider has no date.
// ProfitMargin nil means unknown, which the deriver treats as zero.
type RawQuote struct {
	Symbol       string       `json:"symbol"`
	EarningsDate *time.Time   `json:"earnings_date,omitempty"`
	History      []PricePoint `json:"history"` // chronological, oldest first
	ProfitMargin *float64     `json:"profit_margin,omitempty"`
}

// Closes returns just the close prices, oldest first.
func (q RawQuote) Closes() []float64 {
	out := make([]float64, len(q.History))
	for i, p := range q.History {
		out[i] = p.Close
	}
	return out
}

// ScreeningResult is one symbol that passed every filter. Price fields are
// rounded at construction (2dp prices, 1dp percentage, half away from zero);
// signal classification always runs on the unrounded values.
type ScreeningResult struct {
	Symbol           string    `json:"symbol"`
	EarningsDate     time.Time `json:"earnings_date"`
	CurrentPrice     float64   `json:"current_price"`
	MA200            float64   `json:"ma200"`
	TrendDistancePct float64   `json:"trend_distance_pct"`
	Profitable       bool      `json:"profitable"`
	Signal           Signal    `json:"signal"`
}

// SymbolFailure records a gateway-level error for one symbol. Failures never
// abort a run.
type SymbolFailure struct {
	Symbol string `json:"symbol"`
	Err    error  `json:"-"`
	Reason string `json:"reason"`
}

// ScreeningRun is the immutable output of one orchestrator invocation. A new
// run replaces the previous one in the caller's hands; nothing is cached
// inside the screener itself.
type ScreeningRun struct {
	AsOf       time.Time         `json:"as_of"`
	WindowDays int               `json:"window_days"`
	Input      []string          `json:"input"`
	Results    []ScreeningResult `json:"results"`
}

// Round2 rounds to 2 fractional digits, half away from zero.
func Round2(v float64) float64 { return math.Round(v*100) / 100 }

// Round1 rounds to 1 fractional digit, half away from zero.
func Round1(v float64) float64 { return math.Round(v*10) / 10 }
