package util

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

var qtyStrip = regexp.MustCompile(`[^0-9.\-]`)

// ParseQuantity parses a quantity out of freeform input. Everything except
// digits, the decimal point and a sign is stripped before parsing. Zero,
// negative or unparsable input falls back to 1.
func ParseQuantity(input string) decimal.Decimal {
	cleaned := qtyStrip.ReplaceAllString(strings.TrimSpace(input), "")
	if cleaned == "" {
		return decimal.NewFromInt(1)
	}
	parsed, err := decimal.NewFromString(cleaned)
	if err != nil || parsed.LessThanOrEqual(decimal.Zero) {
		return decimal.NewFromInt(1)
	}
	return parsed
}

// QuantityValid reports whether the input would parse to a positive
// quantity without falling back to the default.
func QuantityValid(input string) bool {
	cleaned := qtyStrip.ReplaceAllString(strings.TrimSpace(input), "")
	if cleaned == "" {
		return false
	}
	parsed, err := decimal.NewFromString(cleaned)
	return err == nil && parsed.GreaterThan(decimal.Zero)
}
