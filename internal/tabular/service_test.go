package tabular

import (
	"bytes"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"pantrypost/internal"
)

func testService() *Service {
	return NewService(5*1024*1024, 1000)
}

func mkXLSX(t *testing.T, rows [][]any) []byte {
	t.Helper()
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	for r, row := range rows {
		for c, value := range row {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+1)
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				t.Fatal(err)
			}
		}
	}
	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestValidateFile(t *testing.T) {
	svc := testService()

	ok, _ := svc.ValidateFile("pantry.csv", []byte("Name,Qty\nBananas,2\n"))
	if !ok {
		t.Fatal("csv rejected")
	}

	ok, reason := svc.ValidateFile("pantry.txt", []byte("whatever"))
	if ok {
		t.Fatal("txt accepted")
	}
	if !strings.Contains(reason, "unsupported file type") {
		t.Fatalf("reason=%q", reason)
	}

	small := NewService(10, 1000)
	ok, reason = small.ValidateFile("pantry.csv", []byte("Name,Qty\nBananas,2\n"))
	if ok {
		t.Fatal("oversize accepted")
	}
	if !strings.Contains(reason, "limit") {
		t.Fatalf("reason=%q", reason)
	}

	ok, _ = svc.ValidateFile("empty.csv", []byte(""))
	if ok {
		t.Fatal("empty file accepted")
	}
}

func TestProcessCSV(t *testing.T) {
	content := []byte("Name,Qty,Price,Category\n" +
		"Bananas,2,3.99,Produce\n" +
		"Milk,1,$4.49,Dairy\n" +
		",5,1.00,\n" +
		"Bread,abc,2.50,Bakery\n")

	result, err := testService().Process("pantry.csv", content, nil)
	if err != nil {
		t.Fatal(err)
	}
	if result.TotalRows != 4 {
		t.Fatalf("total=%d", result.TotalRows)
	}
	if result.ValidRows != 2 {
		t.Fatalf("valid=%d", result.ValidRows)
	}
	if result.SkippedRows != 1 {
		t.Fatalf("skipped=%d", result.SkippedRows)
	}
	if result.InvalidRows != 1 {
		t.Fatalf("invalid=%d", result.InvalidRows)
	}
	if len(result.Items) != 2 {
		t.Fatalf("items=%d", len(result.Items))
	}
	if result.Items[0].Name != "Bananas" || result.Items[0].Quantity.String() != "2" {
		t.Fatalf("item0=%+v", result.Items[0])
	}
	if result.Items[1].Price == nil || result.Items[1].Price.String() != "4.49" {
		t.Fatalf("item1 price=%v", result.Items[1].Price)
	}
	if len(result.Errors) != 1 || result.Errors[0].Row != 5 {
		t.Fatalf("errors=%v", result.Errors)
	}
}

func TestProcessRowNumbering(t *testing.T) {
	content := []byte("Name\nBananas\nMilk\n")
	result, err := testService().Process("pantry.csv", content, nil)
	if err != nil {
		t.Fatal(err)
	}
	if result.Items[0].Row != 2 || result.Items[1].Row != 3 {
		t.Fatalf("rows=%d %d", result.Items[0].Row, result.Items[1].Row)
	}
}

func TestProcessRowCap(t *testing.T) {
	var sb strings.Builder
	sb.WriteString("Name\n")
	for i := 0; i < 5; i++ {
		sb.WriteString("Bananas\n")
	}
	svc := NewService(5*1024*1024, 3)
	if _, err := svc.Process("pantry.csv", []byte(sb.String()), nil); err == nil {
		t.Fatal("row cap not enforced")
	}
}

func TestProcessExplicitMapping(t *testing.T) {
	content := []byte("A,B\nBananas,2\n")
	mapping := internal.ImportMapping{
		internal.FieldName:     "A",
		internal.FieldQuantity: "B",
	}
	result, err := testService().Process("pantry.csv", content, mapping)
	if err != nil {
		t.Fatal(err)
	}
	if result.ValidRows != 1 {
		t.Fatalf("valid=%d", result.ValidRows)
	}
	if result.Items[0].Name != "Bananas" || result.Items[0].Quantity.String() != "2" {
		t.Fatalf("item=%+v", result.Items[0])
	}
}

func TestProcessXLSX(t *testing.T) {
	content := mkXLSX(t, [][]any{
		{"Product Name", "Qty", "Price"},
		{"Bananas", 2, 3.99},
		{"Milk", 1, 4.49},
	})

	result, err := testService().Process("pantry.xlsx", content, nil)
	if err != nil {
		t.Fatal(err)
	}
	if result.ValidRows != 2 {
		t.Fatalf("valid=%d", result.ValidRows)
	}
	if result.Items[0].Name != "Bananas" {
		t.Fatalf("item0=%+v", result.Items[0])
	}
}

func TestPreview(t *testing.T) {
	content := []byte("Name,Qty\nBananas,2\nMilk,abc\n")
	preview, err := testService().Preview("pantry.csv", content, nil)
	if err != nil {
		t.Fatal(err)
	}
	if preview.TotalRows != 2 {
		t.Fatalf("total=%d", preview.TotalRows)
	}
	if len(preview.Sample) != 1 || preview.Sample[0].Name != "Bananas" {
		t.Fatalf("sample=%v", preview.Sample)
	}
	if len(preview.Errors) != 1 {
		t.Fatalf("errors=%v", preview.Errors)
	}
	if preview.Mapping[internal.FieldName] != "Name" {
		t.Fatalf("mapping=%v", preview.Mapping)
	}
	if len(preview.Warnings) != 1 || !strings.Contains(preview.Warnings[0], "price") {
		t.Fatalf("warnings=%v", preview.Warnings)
	}
}

func TestPreviewSampleCap(t *testing.T) {
	var sb strings.Builder
	sb.WriteString("Name\n")
	for i := 0; i < 150; i++ {
		sb.WriteString("Bananas\n")
	}
	preview, err := testService().Preview("pantry.csv", []byte(sb.String()), nil)
	if err != nil {
		t.Fatal(err)
	}
	if preview.TotalRows != 150 {
		t.Fatalf("total=%d", preview.TotalRows)
	}
	if len(preview.Sample) != previewSampleCap {
		t.Fatalf("sample=%d", len(preview.Sample))
	}
}
