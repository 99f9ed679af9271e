package marketdata

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/gocolly/colly/v2"

	"earnings-screener/internal/logger"
)

// CalendarSource describes an HTML earnings calendar to scrape and how to
// pull dates out of it.
type CalendarSource struct {
	Name       string
	BaseURL    string
	SearchPath string // contains {symbol}
	Selectors  CalendarSelectors
}

// CalendarSelectors are the CSS selectors for the calendar rows.
type CalendarSelectors struct {
	Row  string
	Date string
}

// dateLayouts are the formats calendar sites have been seen using.
var dateLayouts = []string{
	"Jan 2, 2006",
	"Jan 02, 2006",
	"2006-01-02",
	"02 Jan 2006",
}

// CalendarScraper resolves an upcoming earnings date from a public HTML
// calendar. Used only as a fallback when the JSON API has no date.
type CalendarScraper struct {
	source  CalendarSource
	timeout time.Duration
	now     func() time.Time
}

// NewCalendarScraper creates a scraper over the default calendar source.
func NewCalendarScraper(timeout time.Duration) *CalendarScraper {
	return &CalendarScraper{
		source:  defaultCalendarSource(),
		timeout: timeout,
		now:     time.Now,
	}
}

func defaultCalendarSource() CalendarSource {
	return CalendarSource{
		Name:       "YahooCalendar",
		BaseURL:    "https://finance.yahoo.com",
		SearchPath: "/calendar/earnings?symbol={symbol}",
		Selectors: CalendarSelectors{
			Row:  "table tbody tr",
			Date: "td:nth-child(3)",
		},
	}
}

// NextEarningsDate scrapes the source for the symbol's next announcement.
// Returns (nil, nil) when the calendar lists nothing upcoming.
func (s *CalendarScraper) NextEarningsDate(ctx context.Context, symbol string) (*time.Time, error) {
	target := s.source.BaseURL + strings.ReplaceAll(s.source.SearchPath, "{symbol}", url.QueryEscape(symbol))

	c := colly.NewCollector(
		colly.AllowedDomains(domainOf(s.source.BaseURL)),
		colly.MaxDepth(1),
		colly.Async(false),
	)
	c.SetRequestTimeout(s.timeout)
	c.OnRequest(func(r *colly.Request) {
		r.Headers.Set("User-Agent", userAgent)
	})

	var next *time.Time
	today := s.now().Truncate(24 * time.Hour)

	c.OnHTML(s.source.Selectors.Row, func(e *colly.HTMLElement) {
		cell := e.DOM.Find(s.source.Selectors.Date)
		d, ok := parseCalendarDate(cellText(cell))
		if !ok || d.Before(today) {
			return
		}
		// Rows are not guaranteed sorted; keep the earliest upcoming date.
		if next == nil || d.Before(*next) {
			next = &d
		}
	})

	var scrapeErr error
	c.OnError(func(r *colly.Response, err error) {
		scrapeErr = fmt.Errorf("calendar scrape %s: %w", s.source.Name, err)
	})

	if err := c.Visit(target); err != nil {
		return nil, fmt.Errorf("calendar scrape %s: %w", s.source.Name, err)
	}
	c.Wait()

	if scrapeErr != nil {
		return nil, scrapeErr
	}
	if next != nil {
		logger.Debug(ctx, "earnings date scraped",
			"symbol", symbol, "source", s.source.Name, "date", next.Format("2006-01-02"))
	}
	return next, nil
}

func cellText(sel *goquery.Selection) string {
	return strings.TrimSpace(sel.First().Text())
}

func parseCalendarDate(text string) (time.Time, bool) {
	// Sites append timezone suffixes like "Oct 24, 2026, 6 AMEDT"; keep the
	// leading date portion only.
	if i := strings.Index(text, ","); i > 0 {
		if j := strings.Index(text[i+1:], ","); j > 0 {
			text = text[:i+1+j]
		}
	}
	for _, layout := range dateLayouts {
		if d, err := time.Parse(layout, strings.TrimSpace(text)); err == nil {
			return d, true
		}
	}
	return time.Time{}, false
}

func domainOf(base string) string {
	u, err := url.Parse(base)
	if err != nil {
		return base
	}
	return u.Host
}
