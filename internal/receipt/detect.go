package receipt

import "strings"

const detectBodyHead = 500

// DetectVendor classifies an inbound email against the vendor table using
// sender address, subject and the head of the body. First indicator hit in
// table order wins; nil means unrecognized (route to the generic dialect).
func DetectVendor(sender, subject, body string) *Dialect {
	if len(body) > detectBodyHead {
		body = body[:detectBodyHead]
	}
	haystack := strings.ToLower(sender + " " + subject + " " + body)

	for _, d := range Dialects {
		for _, indicator := range d.Indicators {
			if strings.Contains(haystack, indicator) {
				return d
			}
		}
	}
	return nil
}
