package schemas

import "testing"

func TestNormalizeBrState(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"SP", "SP"},
		{"sp", "SP"},
		{"São Paulo", "SP"},
		{"sao paulo", "SP"},
		{" Rio de Janeiro ", "RJ"},
		{"Minas Gerais", "MG"},
		{"Atlantis", "Atlantis"},
	}

	for _, tt := range tests {
		if got := NormalizeBrState(tt.input); got != tt.want {
			t.Errorf("NormalizeBrState(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"+55 (11) 98888-7777", "+5511988887777"},
		{"11 98888 7777", "11988887777"},
		{"55+11", "5511"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := NormalizePhone(tt.input); got != tt.want {
			t.Errorf("NormalizePhone(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestSchemaShapes(t *testing.T) {
	products := Products()
	if got := products.Headers(); len(got) != 5 || got[0] != "name" || got[4] != "images" {
		t.Errorf("Products().Headers() = %v", got)
	}
	if !products.OwnerRequired {
		t.Error("product imports must require an owner")
	}
	if products.OwnerIsColumn() {
		t.Error("products owner column should not be an imported column")
	}

	companies := Companies()
	if got := len(companies.Columns); got != 14 {
		t.Errorf("Companies() has %d columns, want 14", got)
	}
	if !companies.OwnerIsColumn() {
		t.Error("companies owner column should map to categoryId")
	}
}
