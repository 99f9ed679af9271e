package screener

import (
	"context"
	"fmt"
	"time"

	"earnings-screener/internal/interfaces"
	"earnings-screener/internal/logger"
	"earnings-screener/internal/tickers"
	"earnings-screener/internal/types"
)

// Screener runs the screening pipeline over a ticker universe.
type Screener struct {
	gateway  interfaces.MarketDataGateway
	progress interfaces.ProgressFunc
	now      func() time.Time
}

// Option configures a Screener.
type Option func(*Screener)

// WithProgress registers a per-symbol completion observer.
func WithProgress(fn interfaces.ProgressFunc) Option {
	return func(s *Screener) {
		s.progress = fn
	}
}

// WithClock overrides the wall clock. Tests pin "today" with this.
func WithClock(now func() time.Time) Option {
	return func(s *Screener) {
		s.now = now
	}
}

// New creates a Screener over the given gateway.
func New(gateway interfaces.MarketDataGateway, opts ...Option) *Screener {
	s := &Screener{
		gateway: gateway,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run screens every symbol in a comma-separated list against an inclusive
// earnings window of [today, today+windowDays].
//
// Each normalized symbol is attempted exactly once, sequentially. A gateway
// failure produces a failure entry and the run continues; a filter exclusion
// is skipped silently. Results are ranked before return. The only input
// error is a non-positive window.
func (s *Screener) Run(ctx context.Context, symbolList string, windowDays int) (types.ScreeningRun, []types.SymbolFailure, error) {
	if windowDays < 1 {
		return types.ScreeningRun{}, nil, fmt.Errorf("window_days must be >= 1, got %d", windowDays)
	}

	symbols := tickers.Normalize(symbolList)
	asOf := s.now()

	op := logger.StartOperation(ctx, "screening_run",
		"symbols", len(symbols), "window_days", windowDays)
	ctx = op.GetContext()

	run := types.ScreeningRun{
		AsOf:       asOf,
		WindowDays: windowDays,
		Input:      symbols,
		Results:    make([]types.ScreeningResult, 0, len(symbols)),
	}
	var failures []types.SymbolFailure

	for i, sym := range symbols {
		result, failure := s.screenOne(ctx, sym, asOf, windowDays)
		if failure != nil {
			failures = append(failures, *failure)
		} else if result != nil {
			run.Results = append(run.Results, *result)
		}
		if s.progress != nil {
			s.progress(i+1, len(symbols))
		}
	}

	Rank(run.Results)

	op.End("results", len(run.Results), "failures", len(failures))
	return run, failures, nil
}

// screenOne fetches and derives a single symbol. Exactly one of the returns
// is non-nil for failures; both nil means a silent filter exclusion.
func (s *Screener) screenOne(ctx context.Context, sym string, asOf time.Time, windowDays int) (*types.ScreeningResult, *types.SymbolFailure) {
	raw, err := s.gateway.Quote(ctx, sym)
	if err != nil {
		logger.Warn(ctx, "symbol fetch failed", "symbol", sym, "error", err)
		return nil, &types.SymbolFailure{Symbol: sym, Err: err, Reason: err.Error()}
	}

	result, excluded := Derive(raw, asOf, windowDays)
	if excluded != types.ExcludeNone {
		logger.Debug(ctx, "symbol excluded", "symbol", sym, "reason", string(excluded))
		return nil, nil
	}

	logger.Screen(ctx, result.Symbol, string(result.Signal), result.TrendDistancePct,
		"earnings_date", result.EarningsDate.Format("2006-01-02"))
	return result, nil
}
