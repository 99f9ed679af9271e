package marketdata

import (
	"context"
	"math/rand"
	"time"

	"earnings-screener/internal/types"
)

// MockGateway generates deterministic per-symbol quote data for tests and
// offline runs. The same symbol always produces the same series.
type MockGateway struct {
	now func() time.Time
}

// NewMockGateway creates a mock gateway.
func NewMockGateway() *MockGateway {
	return &MockGateway{now: time.Now}
}

// Quote generates mock data for one symbol.
func (m *MockGateway) Quote(ctx context.Context, symbol string) (types.RawQuote, error) {
	r := rand.New(rand.NewSource(symbolSeed(symbol)))
	now := m.now()

	// ~1y of trading sessions around a symbol-specific base price, with a
	// mild drift so some symbols trend above their MA200 and some below.
	base := 50.0 + r.Float64()*450.0
	drift := -0.0005 + r.Float64()*0.0015
	sessions := 252

	history := make([]types.PricePoint, 0, sessions)
	price := base
	for i := sessions; i > 0; i-- {
		price = price * (1 + drift + (r.Float64()-0.5)*0.02)
		history = append(history, types.PricePoint{
			Date:  now.AddDate(0, 0, -i),
			Close: price,
		})
	}

	raw := types.RawQuote{Symbol: symbol, History: history}

	// Most symbols report within the next two months; a few have no date so
	// the NO_EARNINGS_DATE path gets exercised offline too.
	if r.Float64() < 0.85 {
		d := now.AddDate(0, 0, r.Intn(60))
		raw.EarningsDate = &d
	}

	// Margin between -10% and +30%, occasionally unknown.
	if r.Float64() < 0.9 {
		margin := -0.10 + r.Float64()*0.40
		raw.ProfitMargin = &margin
	}

	return raw, nil
}

func symbolSeed(symbol string) int64 {
	seed := int64(0)
	for _, c := range symbol {
		seed = seed*31 + int64(c)
	}
	return seed
}
