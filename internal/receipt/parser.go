package receipt

import (
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"pantrypost/internal"
	"pantrypost/internal/util"
)

// Bare date shapes, tried after a dialect's labeled date phrases fail.
var bareDatePatterns = []*regexp.Regexp{
	regexp.MustCompile(`\d{4}-\d{2}-\d{2}`),
	regexp.MustCompile(`\d{1,2}/\d{1,2}/\d{2,4}`),
	regexp.MustCompile(`(?i)(?:Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)[a-z]*\.?\s+\d{1,2},?\s+\d{4}`),
}

func parseWithDialect(d *Dialect, msg internal.EmailMessage) internal.ParsedReceipt {
	rcpt := internal.ParsedReceipt{
		StoreName:     d.DisplayName,
		Items:         []internal.ParsedItem{},
		ParsingErrors: []string{},
	}

	body := msg.Body
	rcpt.PurchaseDate = extractReceiptDate(d, body)
	rcpt.Total = extractLabeledAmount(d.TotalLabels, body)
	rcpt.Subtotal = extractLabeledAmount(d.SubtotalLabels, body)
	rcpt.Tax = extractLabeledAmount(d.TaxLabels, body)
	rcpt.TransactionID = extractOrderID(d.OrderIDLabels, body)

	lineNo := 0
	for _, line := range itemBlock(d, splitLines(body)) {
		if matchesAny(d.SkipPatterns, line) {
			continue
		}
		item := ParseLine(line, d.ItemPatterns)
		if item == nil {
			continue
		}
		lineNo++
		item.LineNumber = lineNo
		item.Confidence *= d.ScoreScale
		rcpt.Items = append(rcpt.Items, *item)
	}

	return rcpt
}

// itemBlock narrows candidate lines to the region between the dialect's
// block markers, when it has them.
func itemBlock(d *Dialect, lines []string) []string {
	if d.BlockStart == nil {
		return lines
	}
	start := -1
	for i, line := range lines {
		if d.BlockStart.MatchString(line) {
			start = i + 1
			break
		}
	}
	if start < 0 {
		return lines
	}
	end := len(lines)
	if d.BlockEnd != nil {
		for i := start; i < len(lines); i++ {
			if d.BlockEnd.MatchString(lines[i]) {
				end = i
				break
			}
		}
	}
	return lines[start:end]
}

func extractReceiptDate(d *Dialect, body string) *time.Time {
	for _, re := range d.DateLabels {
		m := re.FindStringSubmatch(body)
		if len(m) > 1 {
			if parsed := util.ParseDate(m[1]); parsed != nil {
				return parsed
			}
		}
	}
	for _, re := range bareDatePatterns {
		if m := re.FindString(body); m != "" {
			if parsed := util.ParseDate(m); parsed != nil {
				return parsed
			}
		}
	}
	return nil
}

func extractLabeledAmount(labels []*regexp.Regexp, body string) *decimal.Decimal {
	for _, re := range labels {
		m := re.FindStringSubmatch(body)
		if len(m) > 1 {
			if amount := util.ExtractMoney(m[1]); amount != nil {
				return amount
			}
		}
	}
	return nil
}

func extractOrderID(labels []*regexp.Regexp, body string) string {
	for _, re := range labels {
		m := re.FindStringSubmatch(body)
		if len(m) > 1 {
			return strings.TrimSpace(m[1])
		}
	}
	return ""
}

func matchesAny(patterns []*regexp.Regexp, line string) bool {
	for _, re := range patterns {
		if re.MatchString(line) {
			return true
		}
	}
	return false
}

func splitLines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	parts := strings.Split(text, "\n")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
