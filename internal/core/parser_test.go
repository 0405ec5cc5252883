package core_test

import (
	"errors"
	"io"
	"os"
	"testing"

	"github.com/JonMunkholm/bizdir/internal/core"
)

// ============================================================================
// Extension Tests
// ============================================================================

func TestOpenRows_UnsupportedExtension(t *testing.T) {
	data := workbook(t, productHeader)

	for _, name := range []string{"products.csv", "products.txt", "products", "products.xlsx.bak", "products.ods"} {
		_, err := core.OpenRows(name, data)
		if !errors.Is(err, core.ErrUnsupportedFormat) {
			t.Errorf("OpenRows(%q) error = %v, want ErrUnsupportedFormat", name, err)
		}
	}
}

func TestOpenRows_ExtensionCaseInsensitive(t *testing.T) {
	r, err := core.OpenRows("PRODUCTS.XLSX", workbook(t, productHeader))
	if err != nil {
		t.Fatalf("OpenRows error = %v", err)
	}
	defer r.Close()
}

func TestOpenRows_MalformedBytes(t *testing.T) {
	garbage := []byte("this is not a spreadsheet")

	for _, name := range []string{"broken.xlsx", "broken.xls"} {
		_, err := core.OpenRows(name, garbage)
		if !errors.Is(err, core.ErrMalformedFile) {
			t.Errorf("OpenRows(%q) error = %v, want ErrMalformedFile", name, err)
		}
	}
}

// ============================================================================
// Row Reading Tests
// ============================================================================

func readAll(t *testing.T, r core.RowReader) []core.RawRow {
	t.Helper()
	var rows []core.RawRow
	for {
		row, err := r.Next()
		if errors.Is(err, io.EOF) {
			return rows
		}
		if err != nil {
			t.Fatalf("Next() error = %v", err)
		}
		rows = append(rows, row)
	}
}

func TestOpenRows_HeaderIsNotData(t *testing.T) {
	data := workbook(t,
		productHeader,
		[]any{"Coffee", "Fresh", "12.50"},
		[]any{"Tea"},
	)

	r, err := core.OpenRows("products.xlsx", data)
	if err != nil {
		t.Fatalf("OpenRows error = %v", err)
	}
	defer r.Close()

	header := r.Header()
	if len(header) != 5 || header[0] != "name" || header[4] != "images" {
		t.Errorf("Header() = %v", header)
	}

	rows := readAll(t, r)
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}
	if rows[0].Line != 2 || rows[0].Cell(0) != "Coffee" || rows[0].Cell(2) != "12.50" {
		t.Errorf("rows[0] = %+v", rows[0])
	}
	if rows[1].Line != 3 || rows[1].Cell(0) != "Tea" || rows[1].Cell(4) != "" {
		t.Errorf("rows[1] = %+v", rows[1])
	}
}

func TestOpenRows_SkipsBlankRows(t *testing.T) {
	data := workbook(t,
		productHeader,
		[]any{"Coffee"},
		[]any{"", "  ", ""},
		[]any{},
		[]any{"", "only description"},
	)

	r, err := core.OpenRows("products.xlsx", data)
	if err != nil {
		t.Fatalf("OpenRows error = %v", err)
	}
	defer r.Close()

	rows := readAll(t, r)
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2: %+v", len(rows), rows)
	}
	if rows[1].Line != 5 {
		t.Errorf("rows[1].Line = %d, want 5", rows[1].Line)
	}
	if rows[1].Cell(1) != "only description" {
		t.Errorf("rows[1] = %+v", rows[1])
	}
}

func TestOpenRows_NumericCellsKeepRawValue(t *testing.T) {
	data := workbook(t,
		productHeader,
		[]any{"Coffee", "", 19.9, 15},
	)

	r, err := core.OpenRows("products.xlsx", data)
	if err != nil {
		t.Fatalf("OpenRows error = %v", err)
	}
	defer r.Close()

	rows := readAll(t, r)
	if len(rows) != 1 {
		t.Fatalf("got %d rows, want 1", len(rows))
	}
	if got := rows[0].Cell(2); got != "19.9" {
		t.Errorf("regularPrice cell = %q, want %q", got, "19.9")
	}
	if got := rows[0].Cell(3); got != "15" {
		t.Errorf("promotionalPrice cell = %q, want %q", got, "15")
	}
}

func TestOpenRows_EmptyWorkbook(t *testing.T) {
	r, err := core.OpenRows("empty.xlsx", workbook(t))
	if err != nil {
		t.Fatalf("OpenRows error = %v", err)
	}
	defer r.Close()

	if h := r.Header(); len(h) != 0 {
		t.Errorf("Header() = %v, want empty", h)
	}
	if rows := readAll(t, r); len(rows) != 0 {
		t.Errorf("got %d rows, want 0", len(rows))
	}
}

func TestIsBlankRow(t *testing.T) {
	tests := []struct {
		cells []string
		want  bool
	}{
		{nil, true},
		{[]string{}, true},
		{[]string{"", " ", "\t"}, true},
		{[]string{"", "x"}, false},
		{[]string{"x"}, false},
	}

	for _, tt := range tests {
		if got := core.IsBlankRow(tt.cells); got != tt.want {
			t.Errorf("IsBlankRow(%q) = %v, want %v", tt.cells, got, tt.want)
		}
	}
}

// ============================================================================
// Legacy Workbook Tests
// ============================================================================

// legacyWorkbook loads testdata/products.xls, a BIFF8 workbook with one
// "Products" sheet:
//
//	line 1: name | description | regularPrice | promotionalPrice | images
//	line 2: Coffee | Arabica | 12.5 (number) | | https://x.test/a.png
//	line 3: no row record
//	line 4: Tea | | abc
//	line 5: blank cells only
//	line 6: Cake | | 8 (number)
func legacyWorkbook(t *testing.T) []byte {
	t.Helper()
	data, err := os.ReadFile("testdata/products.xls")
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	return data
}

func TestOpenRows_XLS(t *testing.T) {
	r, err := core.OpenRows("products.xls", legacyWorkbook(t))
	if err != nil {
		t.Fatalf("OpenRows error = %v", err)
	}
	defer r.Close()

	want := []string{"name", "description", "regularPrice", "promotionalPrice", "images"}
	header := r.Header()
	if len(header) != len(want) {
		t.Fatalf("Header() = %v, want %v", header, want)
	}
	for i := range want {
		if header[i] != want[i] {
			t.Errorf("Header()[%d] = %q, want %q", i, header[i], want[i])
		}
	}

	rows := readAll(t, r)
	if len(rows) != 3 {
		t.Fatalf("got %d rows, want 3: %+v", len(rows), rows)
	}

	tests := []struct {
		line  int
		cells []string
	}{
		{2, []string{"Coffee", "Arabica", "12.5", "", "https://x.test/a.png"}},
		{4, []string{"Tea", "", "abc"}},
		{6, []string{"Cake", "", "8"}},
	}
	for i, tt := range tests {
		got := rows[i]
		if got.Line != tt.line {
			t.Errorf("rows[%d].Line = %d, want %d", i, got.Line, tt.line)
		}
		for c, cell := range tt.cells {
			if got.Cell(c) != cell {
				t.Errorf("rows[%d].Cell(%d) = %q, want %q", i, c, got.Cell(c), cell)
			}
		}
	}
}

func TestOpenRows_XLSExtensionCaseInsensitive(t *testing.T) {
	r, err := core.OpenRows("PRODUCTS.XLS", legacyWorkbook(t))
	if err != nil {
		t.Fatalf("OpenRows error = %v", err)
	}
	defer r.Close()

	if rows := readAll(t, r); len(rows) != 3 {
		t.Errorf("got %d rows, want 3", len(rows))
	}
}
