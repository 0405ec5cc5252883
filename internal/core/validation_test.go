package core_test

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/JonMunkholm/bizdir/internal/core"
)

// ============================================================================
// Header Validation Tests
// ============================================================================

func TestValidateHeader(t *testing.T) {
	schema := productSchema(t)

	tests := []struct {
		name    string
		header  []string
		wantErr bool
	}{
		{name: "exact", header: []string{"name", "description", "regularPrice", "promotionalPrice", "images"}},
		{name: "case and spacing", header: []string{" Name ", "DESCRIPTION", "regularprice", "promotionalPrice", "Images"}},
		{name: "extra trailing columns", header: []string{"name", "description", "regularPrice", "promotionalPrice", "images", "notes"}},
		{name: "missing column", header: []string{"name", "description", "regularPrice", "promotionalPrice"}, wantErr: true},
		{name: "wrong order", header: []string{"description", "name", "regularPrice", "promotionalPrice", "images"}, wantErr: true},
		{name: "empty", header: nil, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := core.ValidateHeader(schema, tt.header)
			if tt.wantErr {
				if !errors.Is(err, core.ErrHeaderMismatch) {
					t.Errorf("ValidateHeader() error = %v, want ErrHeaderMismatch", err)
				}
				return
			}
			if err != nil {
				t.Errorf("ValidateHeader() error = %v, want nil", err)
			}
		})
	}
}

// ============================================================================
// Row Validation Tests
// ============================================================================

func TestValidateRow_Product(t *testing.T) {
	schema := productSchema(t)

	tests := []struct {
		name       string
		cells      []string
		wantKind   core.FieldErrorKind // empty when the row is valid
		wantColumn string
	}{
		{name: "all columns", cells: []string{"Coffee", "Fresh roast", "12.50", "9.90", "https://x.io/a.png, https://x.io/b.png"}},
		{name: "only required", cells: []string{"Coffee"}},
		{name: "empty name", cells: []string{"", "desc", "10"}, wantKind: core.MissingRequiredField, wantColumn: "name"},
		{name: "whitespace name", cells: []string{"   ", "desc"}, wantKind: core.MissingRequiredField, wantColumn: "name"},
		{name: "non numeric price", cells: []string{"Tea", "", "abc"}, wantKind: core.InvalidNumericField, wantColumn: "regularPrice"},
		{name: "word price", cells: []string{"Tea", "", "", "free"}, wantKind: core.InvalidNumericField, wantColumn: "promotionalPrice"},
		{name: "negative price", cells: []string{"Tea", "", "-1"}, wantKind: core.InvalidNumericField, wantColumn: "regularPrice"},
		{name: "name too long", cells: []string{strings.Repeat("x", 101)}, wantKind: core.FieldTooLong, wantColumn: "name"},
		{name: "description too long", cells: []string{"Tea", strings.Repeat("d", 251)}, wantKind: core.FieldTooLong, wantColumn: "description"},
		{name: "bad image url", cells: []string{"Tea", "", "", "", "not a url"}, wantKind: core.InvalidFieldFormat, wantColumn: "images"},
		{name: "first error wins", cells: []string{"", "", "abc"}, wantKind: core.MissingRequiredField, wantColumn: "name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, rej := core.ValidateRow(schema, core.RawRow{Line: 7, Cells: tt.cells})

			if tt.wantKind == "" {
				if rej != nil {
					t.Fatalf("ValidateRow() rejected: %s", rej.Reason)
				}
				if rec.Line != 7 {
					t.Errorf("Record.Line = %d, want 7", rec.Line)
				}
				return
			}

			if rej == nil {
				t.Fatalf("ValidateRow() accepted %v, want %s", tt.cells, tt.wantKind)
			}
			if rej.Err.Kind != tt.wantKind || rej.Err.Column != tt.wantColumn {
				t.Errorf("rejection = %s(%s), want %s(%s)", rej.Err.Kind, rej.Err.Column, tt.wantKind, tt.wantColumn)
			}
			if rej.Line != 7 {
				t.Errorf("RejectedRow.Line = %d, want 7", rej.Line)
			}
			if rej.Reason == "" {
				t.Error("RejectedRow.Reason is empty")
			}
		})
	}
}

func TestValidateRow_ProductValues(t *testing.T) {
	schema := productSchema(t)

	rec, rej := core.ValidateRow(schema, core.RawRow{
		Line:  2,
		Cells: []string{" Coffee ", "", "$12.50", "", "https://x.io/a.png,, https://x.io/b.png "},
	})
	if rej != nil {
		t.Fatalf("ValidateRow() rejected: %s", rej.Reason)
	}

	if got := rec.Text["name"]; got != "Coffee" {
		t.Errorf("name = %q, want %q", got, "Coffee")
	}
	if _, ok := rec.Text["description"]; ok {
		t.Error("absent description should be omitted")
	}
	if got, _ := core.NumericString(rec.Decimals["regularPrice"]); got != "12.50" {
		t.Errorf("regularPrice = %q, want %q", got, "12.50")
	}
	if _, ok := rec.Decimals["promotionalPrice"]; ok {
		t.Error("absent promotionalPrice should be omitted")
	}
	wantImages := []string{"https://x.io/a.png", "https://x.io/b.png"}
	if got := rec.Lists["images"]; !reflect.DeepEqual(got, wantImages) {
		t.Errorf("images = %v, want %v", got, wantImages)
	}
}

func TestValidateRow_DecimalCommaRejected(t *testing.T) {
	for _, price := range []string{"10,50", "R$ 1,5", "1.234,56"} {
		t.Run(price, func(t *testing.T) {
			_, rej := core.ValidateRow(productSchema(t), core.RawRow{
				Line:  2,
				Cells: []string{"Coffee", "", price},
			})
			if rej == nil {
				t.Fatalf("ValidateRow(%q) accepted, want InvalidNumericField", price)
			}
			if rej.Err.Kind != core.InvalidNumericField || rej.Err.Column != "regularPrice" {
				t.Errorf("error = %s(%s), want InvalidNumericField(regularPrice)", rej.Err.Kind, rej.Err.Column)
			}
		})
	}
}

func TestValidateRow_AbsentListIsEmpty(t *testing.T) {
	rec, rej := core.ValidateRow(productSchema(t), core.RawRow{Line: 2, Cells: []string{"Coffee"}})
	if rej != nil {
		t.Fatalf("ValidateRow() rejected: %s", rej.Reason)
	}

	images, ok := rec.Lists["images"]
	if !ok || images == nil || len(images) != 0 {
		t.Errorf("images = %#v (present=%v), want empty non-nil list", images, ok)
	}
}

func TestValidateRow_Company(t *testing.T) {
	schema := companySchema(t)

	valid := func() []string {
		return []string{
			"12.345.678/0001-90", "Padaria Central", "contato@padaria.com.br",
			"", "https://padaria.com.br/logo.png", "bakery, coffee",
			"Fresh bread daily", "Rua A", "100", "Centro", "01001-000",
			"São Paulo", "São Paulo", "+55 (11) 98888-7777",
		}
	}

	t.Run("valid row normalizes state and phone", func(t *testing.T) {
		rec, rej := core.ValidateRow(schema, core.RawRow{Line: 2, Cells: valid()})
		if rej != nil {
			t.Fatalf("ValidateRow() rejected: %s", rej.Reason)
		}
		if got := rec.Text["state"]; got != "SP" {
			t.Errorf("state = %q, want SP", got)
		}
		if got := rec.Text["whatsapp"]; got != "+5511988887777" {
			t.Errorf("whatsapp = %q", got)
		}
		if got := rec.Lists["tags"]; !reflect.DeepEqual(got, []string{"bakery", "coffee"}) {
			t.Errorf("tags = %v", got)
		}
	})

	tests := []struct {
		name       string
		column     int
		value      string
		wantKind   core.FieldErrorKind
		wantColumn string
	}{
		{"missing cnpj", 0, "", core.MissingRequiredField, "cnpj"},
		{"cnpj too long", 0, "12.345.678/0001-9000", core.FieldTooLong, "cnpj"},
		{"missing email", 2, "", core.MissingRequiredField, "email"},
		{"bad email", 2, "not-an-email", core.InvalidFieldFormat, "email"},
		{"bad category", 3, "bakery", core.InvalidFieldFormat, "categoryId"},
		{"bad logo", 4, "logo.png", core.InvalidFieldFormat, "logo"},
		{"unknown state", 12, "Atlantis", core.FieldTooLong, "state"},
		{"long zip", 10, "01001-000-99", core.FieldTooLong, "zipCode"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cells := valid()
			cells[tt.column] = tt.value

			_, rej := core.ValidateRow(schema, core.RawRow{Line: 3, Cells: cells})
			if rej == nil {
				t.Fatalf("ValidateRow() accepted, want %s", tt.wantKind)
			}
			if rej.Err.Kind != tt.wantKind || rej.Err.Column != tt.wantColumn {
				t.Errorf("rejection = %s(%s), want %s(%s)", rej.Err.Kind, rej.Err.Column, tt.wantKind, tt.wantColumn)
			}
		})
	}
}
