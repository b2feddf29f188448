package tabular

import (
	"fmt"
	"path/filepath"
	"strings"

	"pantrypost/internal"
)

const (
	previewValidateRows = 100
	previewSampleCap    = 20
	previewErrorCap     = 50
)

// Service is the bulk tabular import entry point. Caps are configuration
// the caller may override.
type Service struct {
	MaxFileSize int64
	MaxRows     int
}

func NewService(maxFileSize int64, maxRows int) *Service {
	return &Service{MaxFileSize: maxFileSize, MaxRows: maxRows}
}

// ValidateFile checks the file-level preconditions: extension allow-list,
// size cap, and a structural sniff. Always returns a verdict plus a
// human-readable reason.
func (s *Service) ValidateFile(filename string, content []byte) (bool, string) {
	ext := strings.ToLower(filepath.Ext(filename))
	if !allowedExtensions[ext] {
		return false, fmt.Sprintf("unsupported file type %q: use .csv, .xlsx or .xls", ext)
	}
	if int64(len(content)) > s.MaxFileSize {
		return false, fmt.Sprintf("file is %d bytes, limit is %d", len(content), s.MaxFileSize)
	}
	tbl, err := readTable(filename, content)
	if err != nil {
		return false, "could not read file: " + err.Error()
	}
	if len(tbl.Headers) == 0 {
		return false, "file has no header row"
	}
	return true, "ok"
}

type Preview struct {
	TotalRows int
	Mapping   internal.ImportMapping
	Warnings  []string
	Sample    []internal.ItemRow
	Errors    []internal.RowError
}

// Preview parses the whole file for counts but validates only the first 100
// rows; the returned sample and error lists are capped. Full-file
// validation happens on Process.
func (s *Service) Preview(filename string, content []byte, mapping internal.ImportMapping) (Preview, error) {
	tbl, err := readTable(filename, content)
	if err != nil {
		return Preview{}, err
	}

	var warnings []string
	if len(mapping) == 0 {
		mapping, warnings = DetectMapping(tbl.Headers)
	} else {
		warnings = mappingWarnings(mapping)
	}
	colIdx := columnIndexes(tbl.Headers, mapping)

	preview := Preview{
		TotalRows: len(tbl.Rows),
		Mapping:   mapping,
		Warnings:  warnings,
		Sample:    []internal.ItemRow{},
		Errors:    []internal.RowError{},
	}

	limit := len(tbl.Rows)
	if limit > previewValidateRows {
		limit = previewValidateRows
	}
	for i := 0; i < limit; i++ {
		row, errs := validateRow(i+2, tbl.Rows[i], colIdx)
		if len(preview.Errors) < previewErrorCap {
			room := previewErrorCap - len(preview.Errors)
			if len(errs) < room {
				room = len(errs)
			}
			preview.Errors = append(preview.Errors, errs[:room]...)
		}
		if row == nil || len(errs) > 0 {
			continue
		}
		if len(preview.Sample) < previewSampleCap {
			preview.Sample = append(preview.Sample, *row)
		}
	}
	return preview, nil
}

type Result struct {
	TotalRows   int
	ValidRows   int
	InvalidRows int
	SkippedRows int
	Items       []internal.ItemRow
	Errors      []internal.RowError
}

// Process validates every row. Rows with field errors are counted invalid
// but do not abort the run; blank-name rows are silently dropped, counted
// neither valid nor invalid.
func (s *Service) Process(filename string, content []byte, mapping internal.ImportMapping) (Result, error) {
	tbl, err := readTable(filename, content)
	if err != nil {
		return Result{}, err
	}
	if len(tbl.Rows) > s.MaxRows {
		return Result{}, fmt.Errorf("file has %d rows, limit is %d", len(tbl.Rows), s.MaxRows)
	}

	if len(mapping) == 0 {
		mapping, _ = DetectMapping(tbl.Headers)
	}
	colIdx := columnIndexes(tbl.Headers, mapping)

	result := Result{
		TotalRows: len(tbl.Rows),
		Items:     []internal.ItemRow{},
		Errors:    []internal.RowError{},
	}
	for i, record := range tbl.Rows {
		row, errs := validateRow(i+2, record, colIdx)
		if row == nil {
			result.SkippedRows++
			continue
		}
		if len(errs) > 0 {
			result.InvalidRows++
			result.Errors = append(result.Errors, errs...)
			continue
		}
		result.ValidRows++
		result.Items = append(result.Items, *row)
	}
	return result, nil
}
