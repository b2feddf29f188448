package receipt

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"pantrypost/internal"
	"pantrypost/internal/util"
)

var (
	purelyNumeric = regexp.MustCompile(`^\d+(?:\.\d+)?$`)
	qtyMarker     = regexp.MustCompile(`(?i)\b\d+(?:\.\d+)?\s*x\b`)
	leadingQty    = regexp.MustCompile(`(?i)^\d+(?:\.\d+)?\s*x\s+`)
	trailingPrice = regexp.MustCompile(`\s*[$€£]?\d{1,3}(?:,\d{3})*\.\d{2}\s*$`)
	trailingParen = regexp.MustCompile(`\s*\([^)]*\)\s*$`)
	innerSpaces   = regexp.MustCompile(`\s+`)
	anyDigit      = regexp.MustCompile(`\d`)
)

// Fallback patterns when no vendor pattern matches: "<qty> x <name> <price>"
// and "<name> <price>".
var genericLinePatterns = []*regexp.Regexp{
	regexp.MustCompile(`^(\d+(?:\.\d+)?)\s*[xX]\s+(.+?)\s+[$€£]?(\d{1,3}(?:,\d{3})*\.\d{2})$`),
	regexp.MustCompile(`^(.+?)\s+[$€£]?(\d{1,3}(?:,\d{3})*\.\d{2})$`),
}

// ParseLine tries each vendor pattern in order, then the generic fallbacks.
// The first pattern that matches decides how captured groups map to
// (quantity, name, price). Returns nil when the line yields no item.
func ParseLine(line string, patterns []*regexp.Regexp) *internal.ParsedItem {
	compact := strings.TrimSpace(innerSpaces.ReplaceAllString(line, " "))
	if compact == "" {
		return nil
	}

	for _, re := range patterns {
		if item := matchLine(re, compact); item != nil {
			return item
		}
	}
	for _, re := range genericLinePatterns {
		if item := matchLine(re, compact); item != nil {
			return item
		}
	}
	return nil
}

func matchLine(re *regexp.Regexp, line string) *internal.ParsedItem {
	m := re.FindStringSubmatch(line)
	if m == nil || len(m) < 2 {
		return nil
	}
	groups := m[1:]

	var nameRaw, qtyRaw, priceRaw string
	switch len(groups) {
	case 3:
		if purelyNumeric.MatchString(groups[0]) {
			qtyRaw, nameRaw, priceRaw = groups[0], groups[1], groups[2]
		} else {
			nameRaw, qtyRaw, priceRaw = groups[0], groups[1], groups[2]
		}
	case 2:
		if purelyNumeric.MatchString(groups[0]) {
			qtyRaw, nameRaw = groups[0], groups[1]
		} else {
			nameRaw, priceRaw = groups[0], groups[1]
		}
	default:
		nameRaw = groups[0]
	}

	name := CleanName(nameRaw)
	if name == "" {
		return nil
	}

	item := &internal.ParsedItem{
		Name:     name,
		Quantity: util.ParseQuantity(qtyRaw),
		Unit:     util.DetectUnit(nameRaw),
		RawText:  line,
	}
	if priceRaw != "" {
		item.Price = util.ExtractMoney(priceRaw)
	}
	item.Confidence = ScoreItem(*item)
	return item
}

// CleanName strips a leading "N x " prefix, a trailing price, trailing
// parentheticals, and collapses whitespace.
func CleanName(raw string) string {
	name := leadingQty.ReplaceAllString(raw, "")
	name = trailingPrice.ReplaceAllString(name, "")
	name = trailingParen.ReplaceAllString(name, "")
	name = innerSpaces.ReplaceAllString(name, " ")
	name = strings.Trim(name, " .,;:-")
	return name
}

// ScoreItem computes the item confidence as a sum of independent bonuses
// over the extracted fields and the raw line, capped at 1.0:
//
//	name longer than 2 chars        +0.3
//	name longer than 5 chars        +0.1
//	name carries no digit           +0.1
//	quantity > 0                    +0.2
//	price present and > 0           +0.2
//	currency symbol in raw line     +0.05
//	explicit "N x" marker in raw    +0.05
func ScoreItem(item internal.ParsedItem) float64 {
	score := 0.0
	if len(item.Name) > 2 {
		score += 0.3
	}
	if len(item.Name) > 5 {
		score += 0.1
	}
	if item.Name != "" && !anyDigit.MatchString(item.Name) {
		score += 0.1
	}
	if item.Quantity.GreaterThan(decimal.Zero) {
		score += 0.2
	}
	if item.Price != nil && item.Price.GreaterThan(decimal.Zero) {
		score += 0.2
	}
	if util.ContainsCurrencySymbol(item.RawText) {
		score += 0.05
	}
	if qtyMarker.MatchString(item.RawText) {
		score += 0.05
	}
	if score > 1.0 {
		score = 1.0
	}
	return score
}
