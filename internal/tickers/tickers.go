package tickers

import "strings"

// Normalize parses a comma-separated free-text ticker list into unique,
// trimmed, uppercased symbols. Order follows first occurrence; empty tokens
// are dropped. Malformed symbols are not validated here, they simply fail at
// the gateway later.
func Normalize(raw string) []string {
	seen := map[string]bool{}
	out := []string{}
	for _, tok := range strings.Split(raw, ",") {
		sym := strings.ToUpper(strings.TrimSpace(tok))
		if sym == "" || seen[sym] {
			continue
		}
		seen[sym] = true
		out = append(out, sym)
	}
	return out
}

// insiderSuffixes are exchange/share-class decorations that the insider
// registry search does not understand.
var insiderSuffixes = []string{".ST", "-B", "-A"}

// InsiderLookupURL builds a display-only insider-trading search link for a
// symbol. Pure string transform, no network call.
func InsiderLookupURL(symbol string) string {
	base := symbol
	for _, sfx := range insiderSuffixes {
		base = strings.TrimSuffix(base, sfx)
	}
	return "https://marknadssok.fi.se/publiceringsklient/en-GB/Search/Search?SearchFunctionType=Insyn&Utgivare=" + base
}
