package core

// parser.go reads spreadsheet bytes into RawRows.
//
// Supported formats:
//   - .xlsx via excelize, streaming rows without loading the sheet grid
//   - .xls (BIFF) via extrame/xls
//
// Only the first sheet is read. Its first row is the header and is never
// part of the data sequence. Rows with no non-empty cell are skipped.

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"
)

// SupportedExtensions lists the accepted file extensions (lowercase).
var SupportedExtensions = []string{".xlsx", ".xls"}

// RowReader yields the data rows of a spreadsheet lazily.
type RowReader interface {
	// Header returns the cells of the first sheet row.
	Header() []string
	// Next returns the next non-blank data row, or io.EOF when exhausted.
	Next() (RawRow, error)
	Close() error
}

// OpenRows checks the file extension and opens a reader over the first sheet.
// The extension is checked before any parsing is attempted.
func OpenRows(fileName string, data []byte) (RowReader, error) {
	switch ext := strings.ToLower(filepath.Ext(fileName)); ext {
	case ".xlsx":
		return openXLSX(data)
	case ".xls":
		return openXLS(data)
	default:
		return nil, fmt.Errorf("%w: %q (accepted: %s)", ErrUnsupportedFormat, fileName, strings.Join(SupportedExtensions, ", "))
	}
}

// IsBlankRow reports whether a row has no non-empty cell.
func IsBlankRow(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// ----------------------------------------------------------------------------
// xlsx
// ----------------------------------------------------------------------------

type xlsxReader struct {
	file   *excelize.File
	rows   *excelize.Rows
	header []string
	line   int
}

func openXLSX(data []byte) (*xlsxReader, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedFile, err)
	}

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		f.Close()
		return nil, fmt.Errorf("%w: workbook has no sheets", ErrMalformedFile)
	}

	rows, err := f.Rows(sheets[0])
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("%w: %w", ErrMalformedFile, err)
	}

	r := &xlsxReader{file: f, rows: rows}
	if rows.Next() {
		r.line = 1
		header, err := rows.Columns(excelize.Options{RawCellValue: true})
		if err != nil {
			r.Close()
			return nil, fmt.Errorf("%w: reading header: %w", ErrMalformedFile, err)
		}
		r.header = header
	}
	return r, nil
}

func (r *xlsxReader) Header() []string { return r.header }

func (r *xlsxReader) Next() (RawRow, error) {
	for r.rows.Next() {
		r.line++
		cells, err := r.rows.Columns(excelize.Options{RawCellValue: true})
		if err != nil {
			return RawRow{}, fmt.Errorf("%w: line %d: %w", ErrMalformedFile, r.line, err)
		}
		if IsBlankRow(cells) {
			continue
		}
		return RawRow{Line: r.line, Cells: cells}, nil
	}
	if err := r.rows.Error(); err != nil {
		return RawRow{}, fmt.Errorf("%w: %w", ErrMalformedFile, err)
	}
	return RawRow{}, io.EOF
}

func (r *xlsxReader) Close() error {
	if err := r.rows.Close(); err != nil {
		r.file.Close()
		return err
	}
	return r.file.Close()
}

// ----------------------------------------------------------------------------
// xls
// ----------------------------------------------------------------------------

type xlsReader struct {
	sheet  *xls.WorkSheet
	header []string
	next   int // next 0-based sheet row to read
}

// openXLS opens a legacy workbook. The decoder panics on some corrupt
// inputs, so panics are converted to ErrMalformedFile.
func openXLS(data []byte) (r *xlsReader, err error) {
	defer func() {
		if p := recover(); p != nil {
			r, err = nil, fmt.Errorf("%w: %v", ErrMalformedFile, p)
		}
	}()

	wb, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedFile, err)
	}
	if wb.NumSheets() == 0 {
		return nil, fmt.Errorf("%w: workbook has no sheets", ErrMalformedFile)
	}
	sheet := wb.GetSheet(0)
	if sheet == nil {
		return nil, fmt.Errorf("%w: workbook has no sheets", ErrMalformedFile)
	}

	r = &xlsReader{sheet: sheet, next: 1}
	r.header = xlsCells(sheetRow(sheet, 0))
	return r, nil
}

func (r *xlsReader) Header() []string { return r.header }

func (r *xlsReader) Next() (row RawRow, err error) {
	defer func() {
		if p := recover(); p != nil {
			row, err = RawRow{}, fmt.Errorf("%w: line %d: %v", ErrMalformedFile, r.next, p)
		}
	}()

	for r.next <= int(r.sheet.MaxRow) {
		i := r.next
		r.next++
		cells := xlsCells(sheetRow(r.sheet, i))
		if IsBlankRow(cells) {
			continue
		}
		return RawRow{Line: i + 1, Cells: cells}, nil
	}
	return RawRow{}, io.EOF
}

func (r *xlsReader) Close() error { return nil }

// sheetRow returns row i, or nil when the sheet stores nothing for it.
// Writers omit empty rows entirely and the decoder dereferences the
// missing entry, so that panic means the row is blank.
func sheetRow(sheet *xls.WorkSheet, i int) (row *xls.Row) {
	defer func() {
		if recover() != nil {
			row = nil
		}
	}()
	return sheet.Row(i)
}

func xlsCells(row *xls.Row) []string {
	if row == nil {
		return nil
	}
	n := row.LastCol()
	cells := make([]string, n)
	for i := 0; i < n; i++ {
		cells[i] = row.Col(i)
	}
	return cells
}
