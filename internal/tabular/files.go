package tabular

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

type table struct {
	Headers []string
	Rows    [][]string
}

var allowedExtensions = map[string]bool{".csv": true, ".xlsx": true, ".xls": true}

func readTable(filename string, content []byte) (*table, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		return readCSV(content)
	case ".xlsx", ".xls":
		return readXLSX(content)
	default:
		return nil, fmt.Errorf("unsupported file type: %s", filepath.Ext(filename))
	}
}

func readCSV(content []byte) (*table, error) {
	reader := csv.NewReader(bytes.NewReader(content))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}

	out := &table{}
	for _, record := range records {
		cells := normalizeCells(record)
		if len(cells) == 0 {
			continue
		}
		if out.Headers == nil {
			out.Headers = cells
			continue
		}
		out.Rows = append(out.Rows, cells)
	}
	if out.Headers == nil {
		return nil, errors.New("no header row found")
	}
	return out, nil
}

func readXLSX(content []byte) (*table, error) {
	f, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, err
	}

	out := &table{}
	for _, row := range rows {
		cells := normalizeCells(row)
		if len(cells) == 0 {
			continue
		}
		if out.Headers == nil {
			out.Headers = cells
			continue
		}
		out.Rows = append(out.Rows, cells)
	}
	if out.Headers == nil {
		return nil, errors.New("no header row found")
	}
	return out, nil
}

// normalizeCells trims every cell and drops rows that are entirely blank.
func normalizeCells(row []string) []string {
	out := make([]string, len(row))
	empty := true
	for i, c := range row {
		out[i] = strings.TrimSpace(c)
		if out[i] != "" {
			empty = false
		}
	}
	if empty {
		return nil
	}
	return out
}
