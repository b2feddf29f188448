package util

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

var moneyPattern = regexp.MustCompile(`[$€£]?\s*(\d{1,3}(?:,\d{3})*(?:\.\d{1,2})?|\d+(?:\.\d{1,2})?)`)

// ExtractMoney finds the first currency-looking amount in the text and
// returns it as a decimal. Nil on no match or parse failure.
func ExtractMoney(input string) *decimal.Decimal {
	m := moneyPattern.FindStringSubmatch(input)
	if len(m) < 2 {
		return nil
	}
	token := strings.ReplaceAll(m[1], ",", "")
	parsed, err := decimal.NewFromString(token)
	if err != nil {
		return nil
	}
	return &parsed
}

// ContainsCurrencySymbol reports whether the text carries an explicit
// currency marker. Feeds the confidence scorer.
func ContainsCurrencySymbol(input string) bool {
	return strings.ContainsAny(input, "$€£")
}
