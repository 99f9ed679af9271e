package marketdata

import (
	"context"
	"testing"
	"time"

	"earnings-screener/internal/types"
)

// countingGateway counts how often the inner provider is hit.
type countingGateway struct {
	calls int
}

func (c *countingGateway) Quote(ctx context.Context, symbol string) (types.RawQuote, error) {
	c.calls++
	m := 0.12
	return types.RawQuote{
		Symbol:       symbol,
		ProfitMargin: &m,
		History:      []types.PricePoint{{Date: time.Now(), Close: 100}},
	}, nil
}

func TestCachedGatewayMemoizes(t *testing.T) {
	inner := &countingGateway{}
	cached := NewCachedGateway(inner, t.TempDir(), time.Hour)
	ctx := context.Background()

	first, err := cached.Quote(ctx, "ABB.ST")
	if err != nil {
		t.Fatal(err)
	}
	second, err := cached.Quote(ctx, "ABB.ST")
	if err != nil {
		t.Fatal(err)
	}

	if inner.calls != 1 {
		t.Fatalf("expected a single provider call, got %d", inner.calls)
	}
	if second.Symbol != first.Symbol || len(second.History) != len(first.History) {
		t.Errorf("cached quote differs from original")
	}
	if second.ProfitMargin == nil || *second.ProfitMargin != 0.12 {
		t.Errorf("profit margin not preserved through the cache")
	}
}

func TestCachedGatewayKeysPerSymbol(t *testing.T) {
	inner := &countingGateway{}
	cached := NewCachedGateway(inner, t.TempDir(), time.Hour)
	ctx := context.Background()

	if _, err := cached.Quote(ctx, "ABB.ST"); err != nil {
		t.Fatal(err)
	}
	if _, err := cached.Quote(ctx, "VOLV-B.ST"); err != nil {
		t.Fatal(err)
	}
	if inner.calls != 2 {
		t.Fatalf("expected one call per symbol, got %d", inner.calls)
	}
}

func TestCachedGatewayExpiry(t *testing.T) {
	inner := &countingGateway{}
	cached := NewCachedGateway(inner, t.TempDir(), 50*time.Millisecond)
	ctx := context.Background()

	if _, err := cached.Quote(ctx, "ABB.ST"); err != nil {
		t.Fatal(err)
	}
	time.Sleep(80 * time.Millisecond)
	if _, err := cached.Quote(ctx, "ABB.ST"); err != nil {
		t.Fatal(err)
	}

	if inner.calls != 2 {
		t.Fatalf("expected refetch after TTL, got %d calls", inner.calls)
	}
}

func TestCachedGatewayClear(t *testing.T) {
	inner := &countingGateway{}
	cached := NewCachedGateway(inner, t.TempDir(), time.Hour)
	ctx := context.Background()

	if _, err := cached.Quote(ctx, "ABB.ST"); err != nil {
		t.Fatal(err)
	}
	if err := cached.Clear(); err != nil {
		t.Fatal(err)
	}
	if _, err := cached.Quote(ctx, "ABB.ST"); err != nil {
		t.Fatal(err)
	}
	if inner.calls != 2 {
		t.Fatalf("expected refetch after clear, got %d calls", inner.calls)
	}
}
