package interfaces

import (
	"context"

	"earnings-screener/internal/types"
)

// MarketDataGateway is the per-symbol read contract the screener consumes.
// Quote bundles the three provider reads (next earnings date, trailing price
// history, fundamentals); an error from any of them is a per-symbol failure
// and must not abort the batch. A missing earnings date or margin is not an
// error, it comes back as a nil field on the RawQuote.
type MarketDataGateway interface {
	Quote(ctx context.Context, symbol string) (types.RawQuote, error)
}

// ProgressFunc observes per-symbol completion during a run. Side channel
// only; it carries no results.
type ProgressFunc func(done, total int)
