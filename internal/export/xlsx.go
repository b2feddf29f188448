package export

import (
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"pantrypost/internal"
)

// WriteReviewXLSX writes a job's line items as a review workbook so a human
// can approve or correct them before they reach the inventory.
func WriteReviewXLSX(rows []internal.ReviewExportRow, outputPath string) error {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)

	headers := []string{
		"line_no", "raw_text", "name", "brand", "quantity", "unit",
		"price", "category", "confidence", "approved",
	}

	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	for i, row := range rows {
		r := i + 2
		set := func(col int, value any) {
			cell, _ := excelize.CoordinatesToCellName(col, r)
			_ = f.SetCellValue(sheet, cell, value)
		}

		set(1, row.LineNo)
		set(2, row.RawText)
		set(3, row.Name)
		set(4, derefString(row.Brand))
		set(5, derefString(row.Quantity))
		set(6, derefString(row.Unit))
		set(7, derefString(row.Price))
		set(8, derefString(row.Category))
		set(9, row.Confidence)
		set(10, row.Approved)
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return err
	}
	return f.SaveAs(outputPath)
}

func derefString(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}
