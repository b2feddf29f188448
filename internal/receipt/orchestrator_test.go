package receipt

import (
	"reflect"
	"testing"

	"pantrypost/internal"
)

func TestParseEmailReceiptInstacart(t *testing.T) {
	msg := internal.EmailMessage{
		Sender:  "orders@instacart.com",
		Subject: "Your Instacart order receipt",
		Body: "Delivered on March 5, 2024\n" +
			"2 x Bananas $3.99\n" +
			"1 x Whole Milk $4.49\n" +
			"Subtotal: $8.48\n" +
			"Total: $8.48\n",
	}

	rcpt := ParseEmailReceipt(msg)
	if rcpt.StoreName != "Instacart" {
		t.Fatalf("store=%q", rcpt.StoreName)
	}
	if len(rcpt.Items) != 2 {
		t.Fatalf("items=%d", len(rcpt.Items))
	}
	if rcpt.Total == nil || rcpt.Total.String() != "8.48" {
		t.Fatalf("total=%v", rcpt.Total)
	}
	if rcpt.Confidence <= 0.6 {
		t.Fatalf("confidence=%f", rcpt.Confidence)
	}
	if rcpt.Items[0].Category != "Produce" {
		t.Fatalf("category=%q", rcpt.Items[0].Category)
	}
	if rcpt.Items[1].Category != "Dairy" {
		t.Fatalf("category=%q", rcpt.Items[1].Category)
	}
}

func TestParseEmailReceiptEmpty(t *testing.T) {
	rcpt := ParseEmailReceipt(internal.EmailMessage{})
	if rcpt.StoreName != UnknownStoreName {
		t.Fatalf("store=%q", rcpt.StoreName)
	}
	if len(rcpt.Items) != 0 {
		t.Fatalf("items=%d", len(rcpt.Items))
	}
	if rcpt.Confidence != 0.0 {
		t.Fatalf("confidence=%f", rcpt.Confidence)
	}
}

func TestParseEmailReceiptNonReceipt(t *testing.T) {
	rcpt := ParseEmailReceipt(internal.EmailMessage{
		Sender:  "newsletter@example.com",
		Subject: "Weekly specials",
		Body:    "Check out this week's deals!\nVisit our website for more.\n",
	})
	if rcpt.StoreName != UnknownStoreName {
		t.Fatalf("store=%q", rcpt.StoreName)
	}
	if len(rcpt.Items) != 0 {
		t.Fatalf("items=%d", len(rcpt.Items))
	}
}

func TestParseEmailReceiptDedupe(t *testing.T) {
	rcpt := ParseEmailReceipt(internal.EmailMessage{
		Body: "2 x Bananas $3.99\n2 x Bananas $3.99\n2 x bananas $3.99\n",
	})
	if len(rcpt.Items) != 1 {
		t.Fatalf("items=%d", len(rcpt.Items))
	}
}

func TestParseEmailReceiptKeepsDistinctQuantities(t *testing.T) {
	rcpt := ParseEmailReceipt(internal.EmailMessage{
		Body: "2 x Bananas $3.99\n3 x Bananas $3.99\n",
	})
	if len(rcpt.Items) != 2 {
		t.Fatalf("items=%d", len(rcpt.Items))
	}
}

func TestParseEmailReceiptIdempotent(t *testing.T) {
	msg := internal.EmailMessage{
		Sender: "orders@instacart.com",
		Body:   "2 x Bananas $3.99\n1 x Whole Milk $4.49\nTotal: $8.48\n",
	}
	a := ParseEmailReceipt(msg)
	b := ParseEmailReceipt(msg)
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("results differ:\n%+v\n%+v", a, b)
	}
}

func TestInferCategory(t *testing.T) {
	cases := []struct {
		name string
		want string
	}{
		{"Organic Bananas", "Produce"},
		{"Whole Milk", "Dairy"},
		{"Chicken Breast", "Meat & Seafood"},
		{"Frozen Peas", "Frozen"},
		{"Orange Juice", "Produce"},
		{"Paper Towels", "Household"},
		{"Toothpaste", "Health & Beauty"},
		{"Mystery Item", "Other"},
	}
	for _, tc := range cases {
		if got := InferCategory(tc.name); got != tc.want {
			t.Fatalf("%q: got %q want %q", tc.name, got, tc.want)
		}
	}
}
