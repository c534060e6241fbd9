package match

import "strings"

// usdRates is a static snapshot of units-per-USD; updates to this table
// are deployment events, not runtime configuration (spec.md §4.5.2:
// "Currency conversion table is a static snapshot; updates are
// deployment events").
var usdRates = map[string]float64{
	"usd": 1,
	"ngn": 1550,
	"eur": 0.92,
	"gbp": 0.79,
}

// toUSD converts an amount in the given currency to USD, using the
// static rate table. Unknown currencies are treated as already-USD.
func toUSD(amount float64, currency string) float64 {
	currency = strings.ToLower(strings.TrimSpace(currency))
	rate, ok := usdRates[currency]
	if !ok || rate == 0 {
		return amount
	}
	return amount / rate
}
