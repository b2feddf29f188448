package tabular

import (
	"strings"

	"pantrypost/internal"
	"pantrypost/internal/util"
)

// validateRow normalizes one data row against the resolved column indexes.
// A blank mapped name means the row is silently skipped: both return values
// are nil. Field-level failures resolve to safe defaults and are collected,
// never raised; price in particular never defaults to a nonzero value.
func validateRow(rowNum int, record []string, colIdx map[internal.Field]int) (*internal.ItemRow, []internal.RowError) {
	cell := func(field internal.Field) string {
		idx, ok := colIdx[field]
		if !ok || idx < 0 || idx >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}

	name := cell(internal.FieldName)
	if name == "" {
		return nil, nil
	}

	var errs []internal.RowError
	row := &internal.ItemRow{
		Row:      rowNum,
		Name:     name,
		Brand:    cell(internal.FieldBrand),
		Category: cell(internal.FieldCategory),
		Location: cell(internal.FieldLocation),
		Notes:    cell(internal.FieldNotes),
		Barcode:  cell(internal.FieldBarcode),
	}

	qtyRaw := cell(internal.FieldQuantity)
	row.Quantity = util.ParseQuantity(qtyRaw)
	if qtyRaw != "" && !util.QuantityValid(qtyRaw) {
		errs = append(errs, internal.RowError{
			Row: rowNum, Field: string(internal.FieldQuantity), Value: qtyRaw,
			Message: "not a positive quantity, defaulted to 1",
		})
	}

	if priceRaw := cell(internal.FieldPrice); priceRaw != "" {
		row.Price = util.ExtractMoney(priceRaw)
		if row.Price == nil {
			errs = append(errs, internal.RowError{
				Row: rowNum, Field: string(internal.FieldPrice), Value: priceRaw,
				Message: "not a price, left empty",
			})
		}
	}

	if dateRaw := cell(internal.FieldExpiration); dateRaw != "" {
		row.ExpirationDate = util.ParseDate(dateRaw)
		if row.ExpirationDate == nil {
			errs = append(errs, internal.RowError{
				Row: rowNum, Field: string(internal.FieldExpiration), Value: dateRaw,
				Message: "unrecognized date format, left empty",
			})
		}
	}

	if unitRaw := cell(internal.FieldUnit); unitRaw != "" {
		row.Unit = util.NormalizeUnit(unitRaw)
	} else {
		row.Unit = util.DetectUnit(name)
	}

	return row, errs
}
