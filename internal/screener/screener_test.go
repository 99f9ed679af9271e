package screener

import (
	"context"
	"fmt"
	"testing"
	"time"

	"earnings-screener/internal/types"
)

// fakeGateway serves canned quotes and fails listed symbols.
type fakeGateway struct {
	quotes  map[string]types.RawQuote
	failing map[string]bool
	calls   []string
}

func (f *fakeGateway) Quote(ctx context.Context, symbol string) (types.RawQuote, error) {
	f.calls = append(f.calls, symbol)
	if f.failing[symbol] {
		return types.RawQuote{}, fmt.Errorf("provider error for %s", symbol)
	}
	q, ok := f.quotes[symbol]
	if !ok {
		return types.RawQuote{}, fmt.Errorf("unknown symbol %s", symbol)
	}
	return q, nil
}

func fixedClock() func() time.Time {
	return func() time.Time { return asOf }
}

func TestRunPartialFailures(t *testing.T) {
	gw := &fakeGateway{
		quotes:  map[string]types.RawQuote{},
		failing: map[string]bool{"S3": true, "S6": true, "S9": true},
	}
	var list string
	for i := 1; i <= 10; i++ {
		sym := fmt.Sprintf("S%d", i)
		q := flatQuote(250, 100, 5, margin(0.1))
		q.Symbol = sym
		gw.quotes[sym] = q
		if list != "" {
			list += ", "
		}
		list += sym
	}

	run, failures, err := New(gw, WithClock(fixedClock())).Run(context.Background(), list, 21)
	if err != nil {
		t.Fatal(err)
	}

	if len(failures) != 3 {
		t.Fatalf("expected 3 failures, got %d", len(failures))
	}
	if len(run.Results) != 7 {
		t.Fatalf("expected 7 results, got %d", len(run.Results))
	}
	if len(gw.calls) != 10 {
		t.Fatalf("every symbol must be attempted exactly once, got %d calls", len(gw.calls))
	}
}

func TestRunExclusionsAreNotFailures(t *testing.T) {
	noDate := flatQuote(250, 100, 5, margin(0.1))
	noDate.Symbol = "NODATE"
	noDate.EarningsDate = nil

	late := flatQuote(250, 100, 40, margin(0.1))
	late.Symbol = "LATE"

	short := flatQuote(50, 100, 5, margin(0.1))
	short.Symbol = "SHORT"

	ok := flatQuote(250, 100, 5, margin(0.1))
	ok.Symbol = "OK"

	gw := &fakeGateway{quotes: map[string]types.RawQuote{
		"NODATE": noDate, "LATE": late, "SHORT": short, "OK": ok,
	}}

	run, failures, err := New(gw, WithClock(fixedClock())).Run(context.Background(), "NODATE,LATE,SHORT,OK", 21)
	if err != nil {
		t.Fatal(err)
	}
	if len(failures) != 0 {
		t.Fatalf("filter exclusions must not be failures, got %v", failures)
	}
	if len(run.Results) != 1 || run.Results[0].Symbol != "OK" {
		t.Fatalf("expected only OK in results, got %v", run.Results)
	}
}

func TestRunRejectsNonPositiveWindow(t *testing.T) {
	gw := &fakeGateway{quotes: map[string]types.RawQuote{}}
	if _, _, err := New(gw).Run(context.Background(), "ABB.ST", 0); err == nil {
		t.Fatal("expected error for window_days=0")
	}
}

func TestRunProgressObserver(t *testing.T) {
	gw := &fakeGateway{
		quotes:  map[string]types.RawQuote{},
		failing: map[string]bool{"A": true, "B": true, "C": true},
	}

	var seen []int
	var total int
	scr := New(gw,
		WithClock(fixedClock()),
		WithProgress(func(done, n int) {
			seen = append(seen, done)
			total = n
		}))

	if _, _, err := scr.Run(context.Background(), "A,B,C", 21); err != nil {
		t.Fatal(err)
	}
	if total != 3 || len(seen) != 3 {
		t.Fatalf("expected 3 progress ticks with total 3, got %v (total %d)", seen, total)
	}
	for i, d := range seen {
		if d != i+1 {
			t.Fatalf("progress not monotonic: %v", seen)
		}
	}
}

func TestRunNormalizesAndRanks(t *testing.T) {
	buy := flatQuote(200, 100, 5, margin(0.2))
	buy.Symbol = "UP.ST"
	buy.History[0].Close = 90
	buy.History[len(buy.History)-1].Close = 110

	hold := flatQuote(250, 100, 5, nil)
	hold.Symbol = "FLAT.ST"

	gw := &fakeGateway{quotes: map[string]types.RawQuote{"UP.ST": buy, "FLAT.ST": hold}}

	// Lowercase, duplicated, whitespace-heavy input; HOLD listed first.
	run, _, err := New(gw, WithClock(fixedClock())).Run(context.Background(), " flat.st ,up.st, FLAT.ST", 21)
	if err != nil {
		t.Fatal(err)
	}

	if len(run.Input) != 2 {
		t.Fatalf("expected 2 normalized symbols, got %v", run.Input)
	}
	if len(run.Results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(run.Results))
	}
	if run.Results[0].Symbol != "UP.ST" || run.Results[0].Signal != types.SignalBuy {
		t.Fatalf("BUY must rank first, got %v", run.Results)
	}
	if run.WindowDays != 21 || !run.AsOf.Equal(asOf) {
		t.Errorf("run parameters not recorded: %+v", run)
	}
}
