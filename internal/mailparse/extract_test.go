package mailparse

import (
	"strings"
	"testing"
)

func TestExtractMessagePlainText(t *testing.T) {
	raw := "From: orders@instacart.com\r\n" +
		"Subject: Your order receipt\r\n" +
		"Content-Type: text/plain; charset=utf-8\r\n" +
		"\r\n" +
		"2 x Bananas $3.99\r\n" +
		"Total: $3.99\r\n"

	msg, err := ExtractMessage([]byte(raw))
	if err != nil {
		t.Fatal(err)
	}
	if msg.Sender != "orders@instacart.com" {
		t.Fatalf("sender=%q", msg.Sender)
	}
	if msg.Subject != "Your order receipt" {
		t.Fatalf("subject=%q", msg.Subject)
	}
	if !strings.Contains(msg.Body, "2 x Bananas $3.99") {
		t.Fatalf("body=%q", msg.Body)
	}
}

func TestExtractMessageHTMLOnly(t *testing.T) {
	raw := "From: receipts@example.com\r\n" +
		"Subject: Receipt\r\n" +
		"Content-Type: text/html; charset=utf-8\r\n" +
		"\r\n" +
		"<html><body><p>Bananas $3.99</p></body></html>\r\n"

	msg, err := ExtractMessage([]byte(raw))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(msg.Body, "Bananas $3.99") {
		t.Fatalf("body=%q", msg.Body)
	}
}

func TestExtractMessageHTMLTableRows(t *testing.T) {
	raw := "From: receipts@example.com\r\n" +
		"Subject: Receipt\r\n" +
		"Content-Type: text/html; charset=utf-8\r\n" +
		"\r\n" +
		"<html><body><table>" +
		"<tr><td>Bananas</td><td>$3.99</td></tr>" +
		"<tr><td>Milk</td><td>$4.49</td></tr>" +
		"</table></body></html>\r\n"

	msg, err := ExtractMessage([]byte(raw))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(msg.Body, "Bananas $3.99") {
		t.Fatalf("body=%q", msg.Body)
	}
	if !strings.Contains(msg.Body, "Milk $4.49") {
		t.Fatalf("body=%q", msg.Body)
	}
}

func TestTableLinesSkipsEmptyCells(t *testing.T) {
	out := tableLines("<table><tr><td></td><td>Bananas</td></tr><tr><td> </td></tr></table>")
	if out != "Bananas" {
		t.Fatalf("out=%q", out)
	}
}
