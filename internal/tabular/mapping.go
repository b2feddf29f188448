package tabular

import (
	"fmt"
	"regexp"
	"strings"

	"pantrypost/internal"
)

var headerStrip = regexp.MustCompile(`[^a-z0-9]`)

// Per-field header vocabularies, in claim priority order. A header is
// normalized (lower-cased, non-alphanumerics stripped) and must appear in a
// field's list exactly; the first unclaimed field whose list contains it
// wins.
var fieldKeywords = []struct {
	field    internal.Field
	keywords []string
}{
	{internal.FieldName, []string{"name", "item", "itemname", "product", "productname", "description", "title"}},
	{internal.FieldBrand, []string{"brand", "brandname", "manufacturer", "make"}},
	{internal.FieldQuantity, []string{"quantity", "qty", "count", "amount", "number"}},
	{internal.FieldUnit, []string{"unit", "units", "uom", "measure", "measurement", "size"}},
	{internal.FieldPrice, []string{"price", "cost", "total"}},
	{internal.FieldCategory, []string{"category", "type", "department", "aisle", "section"}},
	{internal.FieldLocation, []string{"location", "storage", "storagelocation", "shelf", "where"}},
	{internal.FieldExpiration, []string{"expiration", "expirationdate", "expiry", "expirydate", "expires", "bestby", "bestbefore", "useby"}},
	{internal.FieldNotes, []string{"notes", "note", "comment", "comments", "remarks"}},
	{internal.FieldBarcode, []string{"barcode", "upc", "ean", "sku", "code"}},
}

func normalizeHeader(header string) string {
	return headerStrip.ReplaceAllString(strings.ToLower(header), "")
}

// DetectMapping auto-assigns column headers to item fields. Each field is
// claimed at most once; unmapped core fields (name, quantity, price) come
// back as warnings for the preview.
func DetectMapping(headers []string) (internal.ImportMapping, []string) {
	mapping := internal.ImportMapping{}
	for _, header := range headers {
		norm := normalizeHeader(header)
		if norm == "" {
			continue
		}
		for _, fk := range fieldKeywords {
			if _, claimed := mapping[fk.field]; claimed {
				continue
			}
			if containsKeyword(fk.keywords, norm) {
				mapping[fk.field] = header
				break
			}
		}
	}
	return mapping, mappingWarnings(mapping)
}

func containsKeyword(keywords []string, norm string) bool {
	for _, kw := range keywords {
		if kw == norm {
			return true
		}
	}
	return false
}

func mappingWarnings(mapping internal.ImportMapping) []string {
	warnings := []string{}
	for _, field := range []internal.Field{internal.FieldName, internal.FieldQuantity, internal.FieldPrice} {
		if _, ok := mapping[field]; !ok {
			warnings = append(warnings, fmt.Sprintf("no column mapped to %s", field))
		}
	}
	return warnings
}

// columnIndexes resolves a mapping's header names to column positions.
// Headers the file does not actually have resolve to -1 (unmapped).
func columnIndexes(headers []string, mapping internal.ImportMapping) map[internal.Field]int {
	out := map[internal.Field]int{}
	for field, header := range mapping {
		out[field] = -1
		for i, h := range headers {
			if h == header {
				out[field] = i
				break
			}
		}
	}
	return out
}
