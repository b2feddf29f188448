package receipt

import "regexp"

// Dialect is one vendor's receipt layout, expressed as plain data consumed
// by the shared parsing algorithm. Pattern slices are ordered: the first
// match wins.
type Dialect struct {
	ID          string
	DisplayName string

	// Indicators are matched against sender + subject + body head.
	Indicators []string

	DateLabels     []*regexp.Regexp
	TotalLabels    []*regexp.Regexp
	SubtotalLabels []*regexp.Regexp
	TaxLabels      []*regexp.Regexp
	OrderIDLabels  []*regexp.Regexp

	// BlockStart/BlockEnd demarcate the item block for vendors that wrap it
	// in header/footer phrases; nil means every line is a candidate.
	BlockStart *regexp.Regexp
	BlockEnd   *regexp.Regexp

	SkipPatterns []*regexp.Regexp
	ItemPatterns []*regexp.Regexp

	// ScoreScale multiplies each item's confidence; the generic fallback
	// is penalized with 0.7.
	ScoreScale float64
}

const UnknownStoreName = "Unknown Store"

func res(patterns ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		out = append(out, regexp.MustCompile(p))
	}
	return out
}

// Skip patterns every dialect shares: separators, pleasantries, totals
// lines and store boilerplate.
var commonSkips = res(
	`^[-=*_]{3,}$`,
	`(?i)^thank you`,
	`(?i)^(sub\s*total|tax|total|balance|change|amount due)\b`,
	`(?i)^(customer|cashier|store|address|phone|tel)\b`,
	`(?i)^(visa|mastercard|amex|discover|debit|credit|cash|card)\b`,
	`(?i)^https?://`,
	`(?i)^(order\s*(#|number|total)|transaction)`,
	`(?i)^\d{1,2}[:.]\d{2}\s*(am|pm)?$`,
)

func withCommonSkips(patterns ...string) []*regexp.Regexp {
	return append(res(patterns...), commonSkips...)
}

var defaultTotalLabels = res(
	`(?i)\border total:?\s*\$?([\d,]+\.\d{2})`,
	`(?i)\bgrand total:?\s*\$?([\d,]+\.\d{2})`,
	`(?i)\btotal:?\s*\$?([\d,]+\.\d{2})`,
)

var defaultSubtotalLabels = res(
	`(?i)\bsub\s*total:?\s*\$?([\d,]+\.\d{2})`,
	`(?i)\bitems? subtotal:?\s*\$?([\d,]+\.\d{2})`,
)

var defaultTaxLabels = res(
	`(?i)\bsales tax:?\s*\$?([\d,]+\.\d{2})`,
	`(?i)\btax:?\s*\$?([\d,]+\.\d{2})`,
)

var longDate = `((?:Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)[a-z]*\.?\s+\d{1,2},?\s+\d{4}|\d{1,2}/\d{1,2}/\d{2,4}|\d{4}-\d{2}-\d{2})`

// Dialects is the vendor table in detection priority order; first indicator
// hit wins.
var Dialects = []*Dialect{
	{
		ID:          "instacart",
		DisplayName: "Instacart",
		Indicators:  []string{"instacart"},
		DateLabels: res(
			`(?i)delivered on\s+`+longDate,
			`(?i)order placed\s+(?:on\s+)?`+longDate,
		),
		TotalLabels:    defaultTotalLabels,
		SubtotalLabels: defaultSubtotalLabels,
		TaxLabels:      defaultTaxLabels,
		OrderIDLabels:  res(`(?i)order\s*#?\s*([A-Z0-9-]{6,})`),
		SkipPatterns: withCommonSkips(
			`(?i)\b(delivery fee|service fee|priority fee|heavy fee|tip)\b`,
			`(?i)\b(shopper|driver)\b`,
			`(?i)\binstacart\+?\b`,
			`(?i)\b(coupon|promo|discount|savings)\b`,
		),
		ItemPatterns: res(
			`^(\d+(?:\.\d+)?)\s*x\s+(.+?)\s+\$([\d,]+\.\d{2})$`,
			`^(\d+)\s+(.+?)\s+\$([\d,]+\.\d{2})$`,
		),
		ScoreScale: 1.0,
	},
	{
		ID:          "amazonfresh",
		DisplayName: "Amazon Fresh",
		Indicators:  []string{"amazon fresh", "amazonfresh", "amazon.com"},
		DateLabels: res(
			`(?i)order placed:?\s+`+longDate,
			`(?i)delivered:?\s+`+longDate,
		),
		TotalLabels:    defaultTotalLabels,
		SubtotalLabels: defaultSubtotalLabels,
		TaxLabels:      res(`(?i)\bestimated tax:?\s*\$?([\d,]+\.\d{2})`, `(?i)\btax:?\s*\$?([\d,]+\.\d{2})`),
		OrderIDLabels:  res(`(?i)order\s*#?\s*(\d{3}-\d{7}-\d{7})`),
		SkipPatterns: withCommonSkips(
			`(?i)\b(prime|subscribe & save|gift card)\b`,
			`(?i)\b(shipping|tip)\b`,
		),
		ItemPatterns: res(
			`^(.+?)\s+Qty:?\s*(\d+)\s+\$([\d,]+\.\d{2})$`,
			`(?i)^qty:?\s*(\d+)\s+(.+?)\s+\$([\d,]+\.\d{2})$`,
		),
		ScoreScale: 1.0,
	},
	{
		ID:          "walmart",
		DisplayName: "Walmart",
		Indicators:  []string{"walmart"},
		DateLabels: res(
			`(?i)(?:order|pickup|delivery) date:?\s+` + longDate,
		),
		TotalLabels:    defaultTotalLabels,
		SubtotalLabels: defaultSubtotalLabels,
		TaxLabels:      defaultTaxLabels,
		OrderIDLabels:  res(`(?i)order\s*#?\s*(\d{6,})`),
		SkipPatterns: withCommonSkips(
			`(?i)\b(pickup fee|delivery fee|bag fee|tip|ebt)\b`,
			`(?i)\bwalmart\+\b`,
			`(?i)\b(savings|rollback)\b`,
		),
		ItemPatterns: res(
			`^(.+?)\s+Qty\s*(\d+)\s+\$([\d,]+\.\d{2})$`,
			`^(\d+(?:\.\d+)?)\s*x\s+(.+?)\s+\$([\d,]+\.\d{2})$`,
		),
		ScoreScale: 1.0,
	},
	{
		ID:          "target",
		DisplayName: "Target",
		Indicators:  []string{"target.com", "orders@target", "target order"},
		DateLabels: res(
			`(?i)order placed\s+` + longDate,
		),
		TotalLabels:    defaultTotalLabels,
		SubtotalLabels: defaultSubtotalLabels,
		TaxLabels:      defaultTaxLabels,
		OrderIDLabels:  res(`(?i)order\s*#?\s*(\d{10,})`),
		SkipPatterns: withCommonSkips(
			`(?i)\b(redcard|target circle|circle (?:earnings|savings)|gift\s*card)\b`,
			`(?i)\b(shipping|handling)\b`,
		),
		ItemPatterns: res(
			`^(\d+)\s+(.+?)\s+\$([\d,]+\.\d{2})$`,
		),
		ScoreScale: 1.0,
	},
	{
		ID:          "kroger",
		DisplayName: "Kroger",
		Indicators:  []string{"kroger"},
		DateLabels: res(
			`(?i)order date:?\s+` + longDate,
		),
		TotalLabels:    defaultTotalLabels,
		SubtotalLabels: defaultSubtotalLabels,
		TaxLabels:      defaultTaxLabels,
		SkipPatterns: withCommonSkips(
			`(?i)\b(fuel points?|kroger plus|card savings|boost)\b`,
			`(?i)\b(coupon|digital deal)\b`,
		),
		ItemPatterns: res(
			`^(.+?)\s+\$?([\d,]+\.\d{2})\s*[FNT]$`,
		),
		ScoreScale: 1.0,
	},
	{
		ID:          "safeway",
		DisplayName: "Safeway",
		Indicators:  []string{"safeway"},
		DateLabels: res(
			`(?i)delivery date:?\s+` + longDate,
		),
		TotalLabels:    defaultTotalLabels,
		SubtotalLabels: defaultSubtotalLabels,
		TaxLabels:      defaultTaxLabels,
		BlockStart:     regexp.MustCompile(`(?i)^your order\b`),
		BlockEnd:       regexp.MustCompile(`(?i)^sub\s*total\b`),
		SkipPatterns: withCommonSkips(
			`(?i)\b(club card|just for u|for u savings)\b`,
		),
		ItemPatterns: res(
			`^(\d+(?:\.\d+)?)\s*x\s+(.+?)\s+\$([\d,]+\.\d{2})$`,
		),
		ScoreScale: 1.0,
	},
	{
		ID:          "publix",
		DisplayName: "Publix",
		Indicators:  []string{"publix"},
		DateLabels: res(
			`(?i)order date:?\s+` + longDate,
		),
		TotalLabels:    defaultTotalLabels,
		SubtotalLabels: defaultSubtotalLabels,
		TaxLabels:      defaultTaxLabels,
		SkipPatterns: withCommonSkips(
			`(?i)\b(bogo|club publix|digital coupon)\b`,
		),
		ItemPatterns: res(
			`^(.+?)\s+([\d,]+\.\d{2})\s*[FT]?$`,
		),
		ScoreScale: 1.0,
	},
	{
		ID:          "costco",
		DisplayName: "Costco",
		Indicators:  []string{"costco"},
		DateLabels: res(
			`(?i)order date:?\s+` + longDate,
		),
		TotalLabels:    defaultTotalLabels,
		SubtotalLabels: defaultSubtotalLabels,
		TaxLabels:      defaultTaxLabels,
		OrderIDLabels:  res(`(?i)order\s*(?:number|#)\s*:?\s*(\d{6,})`),
		SkipPatterns: withCommonSkips(
			`(?i)\b(membership|executive|rewards?|annual fee)\b`,
			`(?i)^\d{6,7}$`,
		),
		ItemPatterns: res(
			`^\d{6,7}\s+(.+?)\s+\$?([\d,]+\.\d{2})\s*[AE]?$`,
			`^(.+?)\s+\$?([\d,]+\.\d{2})\s*[AE]$`,
		),
		ScoreScale: 1.0,
	},
	{
		ID:          "wholefoods",
		DisplayName: "Whole Foods Market",
		Indicators:  []string{"whole foods", "wholefoods"},
		DateLabels: res(
			`(?i)delivered:?\s+`+longDate,
			`(?i)order placed:?\s+`+longDate,
		),
		TotalLabels:    defaultTotalLabels,
		SubtotalLabels: defaultSubtotalLabels,
		TaxLabels:      defaultTaxLabels,
		BlockStart:     regexp.MustCompile(`(?i)^your order\b`),
		BlockEnd:       regexp.MustCompile(`(?i)^sub\s*total\b`),
		SkipPatterns: withCommonSkips(
			`(?i)\b(prime savings|365 rewards)\b`,
		),
		ItemPatterns: res(
			`^(\d+(?:\.\d+)?)\s*x\s+(.+?)\s+\$([\d,]+\.\d{2})$`,
		),
		ScoreScale: 1.0,
	},
}

var genericDialect = &Dialect{
	ID:             "generic",
	DisplayName:    UnknownStoreName,
	TotalLabels:    defaultTotalLabels,
	SubtotalLabels: defaultSubtotalLabels,
	TaxLabels:      defaultTaxLabels,
	SkipPatterns:   commonSkips,
	ScoreScale:     0.7,
}

// GenericDialect is the fallback for unrecognized senders. Its items carry
// a flat confidence penalty.
func GenericDialect() *Dialect {
	return genericDialect
}
