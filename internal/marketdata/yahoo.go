package marketdata

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"earnings-screener/internal/api"
	"earnings-screener/internal/logger"
	"earnings-screener/internal/types"
)

const yahooBaseURL = "https://query1.finance.yahoo.com"

// YahooGateway reads per-symbol market data from the Yahoo Finance chart and
// quoteSummary endpoints. All reads are anonymous GETs; any transport or
// decode failure is a per-symbol error for the caller to record.
type YahooGateway struct {
	client      *api.Client
	limiter     *RateLimiter
	calendar    *CalendarScraper // optional fallback for the earnings date
	historyDays int
}

// YahooOption configures a YahooGateway.
type YahooOption func(*YahooGateway)

// WithTimeout sets the HTTP timeout for provider requests.
func WithTimeout(timeout time.Duration) YahooOption {
	return func(g *YahooGateway) {
		g.client = api.NewClient(
			api.WithBaseURL(yahooBaseURL),
			api.WithTimeout(timeout),
			api.WithHeader("User-Agent", userAgent),
			api.WithLogging(true),
		)
	}
}

// WithRequestsPerSec paces provider requests.
func WithRequestsPerSec(rps float64) YahooOption {
	return func(g *YahooGateway) {
		if rps > 0 {
			g.limiter = NewRateLimiter(1, time.Duration(float64(time.Second)/rps))
		}
	}
}

// WithCalendarFallback enables the HTML calendar scraper for symbols whose
// quoteSummary carries no earnings date.
func WithCalendarFallback(scraper *CalendarScraper) YahooOption {
	return func(g *YahooGateway) {
		g.calendar = scraper
	}
}

// WithHistoryDays sets how many calendar days of closes to request.
func WithHistoryDays(days int) YahooOption {
	return func(g *YahooGateway) {
		g.historyDays = days
	}
}

const userAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36"

// NewYahooGateway creates a live gateway.
func NewYahooGateway(opts ...YahooOption) *YahooGateway {
	g := &YahooGateway{
		client: api.NewClient(
			api.WithBaseURL(yahooBaseURL),
			api.WithTimeout(30*time.Second),
			api.WithHeader("User-Agent", userAgent),
			api.WithLogging(true),
		),
		limiter:     NewRateLimiter(1, 500*time.Millisecond),
		historyDays: 365,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Quote fetches the earnings date, trailing closes and profit margin for one
// symbol.
func (g *YahooGateway) Quote(ctx context.Context, symbol string) (types.RawQuote, error) {
	raw := types.RawQuote{Symbol: symbol}

	history, err := g.fetchHistory(ctx, symbol)
	if err != nil {
		return raw, fmt.Errorf("price history for %s: %w", symbol, err)
	}
	raw.History = history

	earnings, margin, err := g.fetchSummary(ctx, symbol)
	if err != nil {
		return raw, fmt.Errorf("fundamentals for %s: %w", symbol, err)
	}
	raw.EarningsDate = earnings
	raw.ProfitMargin = margin

	if raw.EarningsDate == nil && g.calendar != nil {
		// Scrape failure is not a symbol failure; the deriver will exclude
		// date-less symbols on its own.
		if d, err := g.calendar.NextEarningsDate(ctx, symbol); err == nil && d != nil {
			raw.EarningsDate = d
		} else if err != nil {
			logger.Debug(ctx, "calendar fallback failed", "symbol", symbol, "error", err)
		}
	}

	return raw, nil
}

// chartResponse mirrors the fields used from /v8/finance/chart.
type chartResponse struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Close []*float64 `json:"close"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

func (g *YahooGateway) fetchHistory(ctx context.Context, symbol string) ([]types.PricePoint, error) {
	if err := g.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	now := time.Now()
	path := fmt.Sprintf("/v8/finance/chart/%s?period1=%d&period2=%d&interval=1d",
		url.PathEscape(symbol), now.AddDate(0, 0, -g.historyDays).Unix(), now.Unix())
	resp, err := g.client.GET(ctx, path)
	if err != nil {
		return nil, err
	}

	var decoded chartResponse
	if err := json.Unmarshal(resp.Body, &decoded); err != nil {
		return nil, fmt.Errorf("decode chart response: %w", err)
	}
	if decoded.Chart.Error != nil {
		return nil, fmt.Errorf("provider error: %s", decoded.Chart.Error.Description)
	}
	if len(decoded.Chart.Result) == 0 || len(decoded.Chart.Result[0].Indicators.Quote) == 0 {
		return nil, fmt.Errorf("empty chart response")
	}

	result := decoded.Chart.Result[0]
	closes := result.Indicators.Quote[0].Close
	history := make([]types.PricePoint, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		// Nil closes mark non-trading sessions; drop them.
		if i >= len(closes) || closes[i] == nil {
			continue
		}
		history = append(history, types.PricePoint{
			Date:  time.Unix(ts, 0),
			Close: *closes[i],
		})
	}
	return history, nil
}

// summaryResponse mirrors the fields used from /v10/finance/quoteSummary.
type summaryResponse struct {
	QuoteSummary struct {
		Result []struct {
			CalendarEvents *struct {
				Earnings struct {
					EarningsDate []struct {
						Raw int64 `json:"raw"`
					} `json:"earningsDate"`
				} `json:"earnings"`
			} `json:"calendarEvents"`
			FinancialData *struct {
				ProfitMargins *struct {
					Raw *float64 `json:"raw"`
				} `json:"profitMargins"`
			} `json:"financialData"`
		} `json:"result"`
		Error *struct {
			Description string `json:"description"`
		} `json:"error"`
	} `json:"quoteSummary"`
}

func (g *YahooGateway) fetchSummary(ctx context.Context, symbol string) (*time.Time, *float64, error) {
	if err := g.limiter.Wait(ctx); err != nil {
		return nil, nil, err
	}

	path := fmt.Sprintf("/v10/finance/quoteSummary/%s?modules=calendarEvents%%2CfinancialData",
		url.PathEscape(symbol))
	resp, err := g.client.GET(ctx, path)
	if err != nil {
		return nil, nil, err
	}

	var decoded summaryResponse
	if err := json.Unmarshal(resp.Body, &decoded); err != nil {
		return nil, nil, fmt.Errorf("decode quote summary: %w", err)
	}
	if decoded.QuoteSummary.Error != nil {
		return nil, nil, fmt.Errorf("provider error: %s", decoded.QuoteSummary.Error.Description)
	}
	if len(decoded.QuoteSummary.Result) == 0 {
		return nil, nil, fmt.Errorf("empty quote summary")
	}

	result := decoded.QuoteSummary.Result[0]

	var earnings *time.Time
	if ce := result.CalendarEvents; ce != nil && len(ce.Earnings.EarningsDate) > 0 {
		d := time.Unix(ce.Earnings.EarningsDate[0].Raw, 0)
		earnings = &d
	}

	var margin *float64
	if fd := result.FinancialData; fd != nil && fd.ProfitMargins != nil && fd.ProfitMargins.Raw != nil {
		v := *fd.ProfitMargins.Raw
		margin = &v
	}

	return earnings, margin, nil
}
