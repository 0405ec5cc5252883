package core

// validation.go turns raw spreadsheet rows into records.
//
// Validation happens at two levels:
//  1. Header validation: the sheet must start with the schema columns, in order
//  2. Row validation: each cell is checked against its ColumnSpec (type, length, format)
//
// Row problems never surface as Go errors. A row either becomes a Record or a
// RejectedRow carrying the first FieldError found in column order.

import (
	"fmt"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func formatValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
	})
	return validate
}

// ValidateHeader checks that the sheet header starts with the schema columns.
// Names are compared case-insensitively after cleaning. Extra trailing columns are ignored.
func ValidateHeader(schema ColumnSchema, header []string) error {
	if len(header) < len(schema.Columns) {
		return fmt.Errorf("%w: found %d columns, want %d (%s)",
			ErrHeaderMismatch, len(header), len(schema.Columns), strings.Join(schema.Headers(), ", "))
	}
	for i, spec := range schema.Columns {
		got := CleanCell(header[i])
		if !strings.EqualFold(got, spec.Name) {
			return fmt.Errorf("%w: column %d is %q, want %q", ErrHeaderMismatch, i+1, got, spec.Name)
		}
	}
	return nil
}

// RowValidator validates rows against one schema.
type RowValidator struct {
	schema ColumnSchema
}

// NewRowValidator creates a validator for the given schema.
func NewRowValidator(schema ColumnSchema) *RowValidator {
	return &RowValidator{schema: schema}
}

// ValidateRow validates a row against a schema.
// Exactly one of the results is meaningful: the record when the rejection is nil.
func ValidateRow(schema ColumnSchema, row RawRow) (Record, *RejectedRow) {
	return NewRowValidator(schema).Validate(row)
}

// Validate checks every column in declaration order and stops at the first failure.
func (v *RowValidator) Validate(row RawRow) (Record, *RejectedRow) {
	rec := NewRecord(row.Line)

	for i, spec := range v.schema.Columns {
		if ferr := decodeCell(spec, row.Cell(i), &rec); ferr != nil {
			return Record{}, &RejectedRow{
				Line:   row.Line,
				Reason: ferr.Error(),
				Err:    ferr,
				Cells:  row.Cells,
			}
		}
	}

	return rec, nil
}

// decodeCell coerces one cell into rec according to spec.
func decodeCell(spec ColumnSpec, cell string, rec *Record) *FieldError {
	raw := CleanCell(cell)
	if spec.Normalizer != nil && raw != "" {
		raw = spec.Normalizer(raw)
	}

	switch spec.Type {
	case ColumnDecimal:
		if raw == "" {
			if spec.Required {
				return &FieldError{Kind: MissingRequiredField, Column: spec.Name}
			}
			return nil
		}
		n := ToPgNumeric(raw)
		if !n.Valid || IsNegative(n) {
			return &FieldError{Kind: InvalidNumericField, Column: spec.Name, Value: raw}
		}
		rec.Decimals[spec.Name] = n

	case ColumnStringList:
		values := SplitList(raw)
		if len(values) == 0 && spec.Required {
			return &FieldError{Kind: MissingRequiredField, Column: spec.Name}
		}
		for _, value := range values {
			if ferr := checkString(spec, value); ferr != nil {
				return ferr
			}
		}
		rec.Lists[spec.Name] = values

	default:
		if raw == "" {
			if spec.Required {
				return &FieldError{Kind: MissingRequiredField, Column: spec.Name}
			}
			return nil
		}
		if ferr := checkString(spec, raw); ferr != nil {
			return ferr
		}
		rec.Text[spec.Name] = raw
	}

	return nil
}

// checkString applies the length and format constraints to a non-empty value.
func checkString(spec ColumnSpec, value string) *FieldError {
	if spec.MaxLength > 0 && utf8.RuneCountInString(value) > spec.MaxLength {
		return &FieldError{Kind: FieldTooLong, Column: spec.Name, Value: value, Limit: spec.MaxLength}
	}
	if spec.Format != "" {
		if err := formatValidator().Var(value, spec.Format); err != nil {
			return &FieldError{Kind: InvalidFieldFormat, Column: spec.Name, Value: value, Format: spec.Format}
		}
	}
	return nil
}
