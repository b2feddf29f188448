package tabular

import (
	"testing"

	"pantrypost/internal"
)

func TestDetectMapping(t *testing.T) {
	mapping, warnings := DetectMapping([]string{"Product Name", "Qty", "Price", "Category", "Expiry Date"})
	if mapping[internal.FieldName] != "Product Name" {
		t.Fatalf("name=%q", mapping[internal.FieldName])
	}
	if mapping[internal.FieldQuantity] != "Qty" {
		t.Fatalf("quantity=%q", mapping[internal.FieldQuantity])
	}
	if mapping[internal.FieldPrice] != "Price" {
		t.Fatalf("price=%q", mapping[internal.FieldPrice])
	}
	if mapping[internal.FieldCategory] != "Category" {
		t.Fatalf("category=%q", mapping[internal.FieldCategory])
	}
	if mapping[internal.FieldExpiration] != "Expiry Date" {
		t.Fatalf("expiration=%q", mapping[internal.FieldExpiration])
	}
	if len(warnings) != 0 {
		t.Fatalf("warnings=%v", warnings)
	}
}

func TestDetectMappingUnitPriceStaysUnmapped(t *testing.T) {
	mapping, warnings := DetectMapping([]string{"Product Name", "Qty", "Unit Price"})
	if mapping[internal.FieldName] != "Product Name" {
		t.Fatalf("name=%q", mapping[internal.FieldName])
	}
	if mapping[internal.FieldQuantity] != "Qty" {
		t.Fatalf("quantity=%q", mapping[internal.FieldQuantity])
	}
	if _, ok := mapping[internal.FieldPrice]; ok {
		t.Fatalf("price should stay unmapped, got %q", mapping[internal.FieldPrice])
	}
	if len(warnings) != 1 {
		t.Fatalf("warnings=%v", warnings)
	}
}

func TestDetectMappingFirstClaimWins(t *testing.T) {
	mapping, _ := DetectMapping([]string{"Name", "Item"})
	if mapping[internal.FieldName] != "Name" {
		t.Fatalf("name=%q", mapping[internal.FieldName])
	}
}

func TestNormalizeHeader(t *testing.T) {
	cases := []struct {
		input string
		want  string
	}{
		{"Product Name", "productname"},
		{"  QTY ", "qty"},
		{"Expiration_Date", "expirationdate"},
		{"best-by", "bestby"},
	}
	for _, tc := range cases {
		if got := normalizeHeader(tc.input); got != tc.want {
			t.Fatalf("%q: got %q want %q", tc.input, got, tc.want)
		}
	}
}

func TestColumnIndexesMissingHeader(t *testing.T) {
	mapping := internal.ImportMapping{
		internal.FieldName:  "Name",
		internal.FieldPrice: "Nonexistent",
	}
	idx := columnIndexes([]string{"Name", "Qty"}, mapping)
	if idx[internal.FieldName] != 0 {
		t.Fatalf("name idx=%d", idx[internal.FieldName])
	}
	if idx[internal.FieldPrice] != -1 {
		t.Fatalf("price idx=%d", idx[internal.FieldPrice])
	}
}
