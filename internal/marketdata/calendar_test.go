package marketdata

import (
	"testing"
	"time"
)

func TestParseCalendarDate(t *testing.T) {
	cases := []struct {
		text string
		want time.Time
		ok   bool
	}{
		{"Oct 24, 2026", time.Date(2026, 10, 24, 0, 0, 0, 0, time.UTC), true},
		{"Oct 24, 2026, 6 AMEDT", time.Date(2026, 10, 24, 0, 0, 0, 0, time.UTC), true},
		{"2026-10-24", time.Date(2026, 10, 24, 0, 0, 0, 0, time.UTC), true},
		{"24 Oct 2026", time.Date(2026, 10, 24, 0, 0, 0, 0, time.UTC), true},
		{"n/a", time.Time{}, false},
		{"", time.Time{}, false},
	}

	for _, c := range cases {
		got, ok := parseCalendarDate(c.text)
		if ok != c.ok {
			t.Errorf("%q: expected ok=%v", c.text, c.ok)
			continue
		}
		if ok && !got.Equal(c.want) {
			t.Errorf("%q: expected %v, got %v", c.text, c.want, got)
		}
	}
}

func TestDomainOf(t *testing.T) {
	if d := domainOf("https://finance.yahoo.com"); d != "finance.yahoo.com" {
		t.Errorf("expected finance.yahoo.com, got %s", d)
	}
}
