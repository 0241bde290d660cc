package entities

import "github.com/shopspring/decimal"

// Money amounts are decimal values in the marketplace currency. Stored and
// serialized as strings so no float rounding ever reaches the ledger.

// Round2 rounds half away from zero to two places. For the non-negative
// amounts handled here that is round-half-up.
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// ParseAmount parses a decimal string; empty strings parse to zero.
func ParseAmount(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(s)
}

// MustAmount is ParseAmount for literals known to be valid.
func MustAmount(s string) decimal.Decimal {
	d, err := ParseAmount(s)
	if err != nil {
		panic(err)
	}
	return d
}

// FormatAmount renders an amount with exactly two decimals.
func FormatAmount(d decimal.Decimal) string {
	return d.StringFixed(2)
}
