package receipt

import (
	"fmt"
	"strings"

	"pantrypost/internal"
)

// ParseEmailReceipt turns one inbound email into a structured receipt:
// vendor detection, dialect parse, dedup, category inference and an
// aggregate confidence score. It never panics out to the caller; any
// internal failure collapses to an empty receipt with the failure recorded
// in ParsingErrors.
func ParseEmailReceipt(msg internal.EmailMessage) (rcpt internal.ParsedReceipt) {
	defer func() {
		if r := recover(); r != nil {
			rcpt = internal.ParsedReceipt{
				StoreName:     UnknownStoreName,
				Items:         []internal.ParsedItem{},
				Confidence:    0.0,
				ParsingErrors: []string{fmt.Sprintf("receipt parsing failed: %v", r)},
			}
		}
	}()

	dialect := DetectVendor(msg.Sender, msg.Subject, msg.Body)
	if dialect == nil {
		dialect = GenericDialect()
	}

	rcpt = parseWithDialect(dialect, msg)
	rcpt.Items = dedupeItems(rcpt.Items)
	for i := range rcpt.Items {
		if rcpt.Items[i].Category == "" {
			rcpt.Items[i].Category = InferCategory(rcpt.Items[i].Name)
		}
	}
	rcpt.Confidence = aggregateConfidence(rcpt)
	return rcpt
}

// dedupeItems drops items whose (lowercased name, quantity, price) triple
// repeats, keeping the first occurrence and the original order.
func dedupeItems(items []internal.ParsedItem) []internal.ParsedItem {
	seen := map[string]struct{}{}
	out := make([]internal.ParsedItem, 0, len(items))
	for _, item := range items {
		priceKey := "null"
		if item.Price != nil {
			priceKey = item.Price.String()
		}
		key := strings.ToLower(item.Name) + "|" + item.Quantity.String() + "|" + priceKey
		if _, exists := seen[key]; exists {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, item)
	}
	return out
}

// aggregateConfidence averages item scores, with flat bonuses when the
// dialect also recovered a total and a purchase date. Zero items means zero
// confidence.
func aggregateConfidence(rcpt internal.ParsedReceipt) float64 {
	if len(rcpt.Items) == 0 {
		return 0.0
	}
	sum := 0.0
	for _, item := range rcpt.Items {
		sum += item.Confidence
	}
	score := sum / float64(len(rcpt.Items))
	if rcpt.Total != nil {
		score += 0.1
	}
	if rcpt.PurchaseDate != nil {
		score += 0.1
	}
	if score > 1.0 {
		score = 1.0
	}
	return score
}
