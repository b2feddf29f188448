package util

import (
	"regexp"
	"strings"
)

const DefaultUnit = "item"

var unitSynonyms = map[string]string{
	"ounce": "oz", "ounces": "oz", "oz": "oz",
	"pound": "lb", "pounds": "lb", "lb": "lb", "lbs": "lb",
	"gram": "g", "grams": "g", "g": "g",
	"kilogram": "kg", "kilograms": "kg", "kg": "kg",
	"liter": "l", "liters": "l", "litre": "l", "litres": "l", "l": "l",
	"milliliter": "ml", "milliliters": "ml", "ml": "ml",
	"gallon": "gal", "gallons": "gal", "gal": "gal",
	"quart": "qt", "quarts": "qt", "qt": "qt",
	"pint": "pt", "pints": "pt", "pt": "pt",
	"each": "item", "ea": "item", "unit": "item", "units": "item",
	"piece": "item", "pieces": "item", "pcs": "item", "pc": "item",
	"count": "item", "ct": "item", "items": "item", "item": "item",
	"pack": "pack", "packs": "pack", "package": "pack", "pk": "pack",
	"bottle": "bottle", "bottles": "bottle",
	"can": "can", "cans": "can",
	"box": "box", "boxes": "box",
	"bag": "bag", "bags": "bag",
	"jar": "jar", "jars": "jar",
	"dozen": "dozen", "doz": "dozen",
	"bunch": "bunch", "bunches": "bunch",
	"case": "case", "cases": "case",
}

// NormalizeUnit lower-cases and trims the raw unit and collapses known
// spellings to one canonical token. Unknown units pass through; empty input
// defaults to "item".
func NormalizeUnit(input string) string {
	cleaned := strings.ToLower(strings.TrimSpace(input))
	cleaned = strings.TrimSuffix(cleaned, ".")
	if cleaned == "" {
		return DefaultUnit
	}
	if canonical, ok := unitSynonyms[cleaned]; ok {
		return canonical
	}
	return cleaned
}

// Ordered: first match wins.
var unitIndicators = []struct {
	re   *regexp.Regexp
	unit string
}{
	{regexp.MustCompile(`(?i)\b\d+(?:\.\d+)?\s*(?:lbs?|pounds?)\b`), "lb"},
	{regexp.MustCompile(`(?i)\b\d+(?:\.\d+)?\s*(?:oz|ounces?)\b`), "oz"},
	{regexp.MustCompile(`(?i)\b\d+(?:\.\d+)?\s*(?:kg|kilograms?)\b`), "kg"},
	{regexp.MustCompile(`(?i)\b\d+(?:\.\d+)?\s*(?:g|grams?)\b`), "g"},
	{regexp.MustCompile(`(?i)\b\d+(?:\.\d+)?\s*(?:ml|milliliters?)\b`), "ml"},
	{regexp.MustCompile(`(?i)\b\d+(?:\.\d+)?\s*(?:l|liters?|litres?)\b`), "l"},
	{regexp.MustCompile(`(?i)\b\d+(?:\.\d+)?\s*(?:gal|gallons?)\b`), "gal"},
	{regexp.MustCompile(`(?i)\b\d+(?:\.\d+)?\s*(?:qt|quarts?)\b`), "qt"},
	{regexp.MustCompile(`(?i)\b\d+\s*(?:ct|count)\b`), "item"},
	{regexp.MustCompile(`(?i)\(\s*pack\s*\)|\b\d+\s*[- ]?pack\b|\bpack of\b`), "pack"},
	{regexp.MustCompile(`(?i)\bdozen\b`), "dozen"},
	{regexp.MustCompile(`(?i)\bbottles?\b`), "bottle"},
	{regexp.MustCompile(`(?i)\bcans?\b`), "can"},
	{regexp.MustCompile(`(?i)\bjars?\b`), "jar"},
	{regexp.MustCompile(`(?i)\bboxe?s?\b`), "box"},
	{regexp.MustCompile(`(?i)\bbags?\b`), "bag"},
	{regexp.MustCompile(`(?i)\bbunch(?:es)?\b`), "bunch"},
}

// DetectUnit scans an item name for unit-indicating substrings when no
// explicit unit field exists.
func DetectUnit(name string) string {
	for _, ind := range unitIndicators {
		if ind.re.MatchString(name) {
			return ind.unit
		}
	}
	return DefaultUnit
}
