package core

import (
	"errors"
	"fmt"
	"testing"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantCode    string
		wantMessage string
	}{
		{
			name:        "nil error returns empty",
			err:         nil,
			wantCode:    "",
			wantMessage: "",
		},
		{
			name:        "duplicate key maps correctly",
			err:         errors.New("ERROR: duplicate key value violates unique constraint \"companies_cnpj_key\""),
			wantCode:    "DB001",
			wantMessage: "A record with this value already exists",
		},
		{
			name:        "foreign key maps correctly",
			err:         errors.New("insert or update on table \"products\" violates foreign key constraint"),
			wantCode:    "DB003",
			wantMessage: "Referenced company or category does not exist",
		},
		{
			name:        "connection refused maps correctly",
			err:         errors.New("dial tcp: connection refused"),
			wantCode:    "DB004",
			wantMessage: "Unable to connect to database",
		},
		{
			name:        "persistence failure keeps the database cause",
			err:         fmt.Errorf("%w: %w", ErrPersistenceFailed, errors.New("duplicate key value")),
			wantCode:    "DB001",
			wantMessage: "A record with this value already exists",
		},
		{
			name:        "bare persistence failure",
			err:         fmt.Errorf("%w: %w", ErrPersistenceFailed, errors.New("conn closed")),
			wantCode:    "IMP002",
			wantMessage: "The rows could not be saved",
		},
		{
			name:        "missing required field",
			err:         &FieldError{Kind: MissingRequiredField, Column: "name"},
			wantCode:    "VAL001",
			wantMessage: "Required field is empty",
		},
		{
			name:        "invalid number",
			err:         &FieldError{Kind: InvalidNumericField, Column: "regularPrice", Value: "abc"},
			wantCode:    "VAL002",
			wantMessage: "Invalid number format detected",
		},
		{
			name:        "value too long",
			err:         &FieldError{Kind: FieldTooLong, Column: "state", Limit: 2},
			wantCode:    "VAL003",
			wantMessage: "A value exceeds the maximum length",
		},
		{
			name:        "invalid format",
			err:         &FieldError{Kind: InvalidFieldFormat, Column: "email", Value: "x", Format: "email"},
			wantCode:    "VAL004",
			wantMessage: "A value has an invalid format",
		},
		{
			name:        "header mismatch",
			err:         fmt.Errorf("%w: column 1 is %q, want %q", ErrHeaderMismatch, "title", "name"),
			wantCode:    "VAL005",
			wantMessage: "Spreadsheet columns do not match the template",
		},
		{
			name:        "unsupported format",
			err:         fmt.Errorf("%w: %q", ErrUnsupportedFormat, "prices.csv"),
			wantCode:    "FILE002",
			wantMessage: "Only .xlsx and .xls spreadsheets are supported",
		},
		{
			name:        "malformed file",
			err:         fmt.Errorf("%w: zip: not a valid zip file", ErrMalformedFile),
			wantCode:    "FILE003",
			wantMessage: "The spreadsheet could not be read",
		},
		{
			name:        "no valid records",
			err:         &NoValidRecordsError{Rejected: make([]RejectedRow, 3)},
			wantCode:    "IMP001",
			wantMessage: "No valid rows were found in the spreadsheet",
		},
		{
			name:        "too many imports",
			err:         ErrTooManyImports,
			wantCode:    "IMP003",
			wantMessage: "System is busy processing other imports",
		},
		{
			name:        "unknown kind",
			err:         fmt.Errorf("%w: %q", ErrUnknownKind, "services"),
			wantCode:    "IMP004",
			wantMessage: "Unknown import type",
		},
		{
			name:        "rate limit maps correctly",
			err:         errors.New("rate limit exceeded"),
			wantCode:    "RATE001",
			wantMessage: "Too many requests",
		},
		{
			name:        "unknown error returns default",
			err:         errors.New("some random internal error"),
			wantCode:    "ERR000",
			wantMessage: "An unexpected error occurred",
		},
		{
			name:        "case insensitive matching",
			err:         errors.New("DUPLICATE KEY value violates"),
			wantCode:    "DB001",
			wantMessage: "A record with this value already exists",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MapError(tt.err)
			if got.Code != tt.wantCode {
				t.Errorf("MapError() code = %q, want %q", got.Code, tt.wantCode)
			}
			if got.Message != tt.wantMessage {
				t.Errorf("MapError() message = %q, want %q", got.Message, tt.wantMessage)
			}
		})
	}
}

func TestFormatUserError(t *testing.T) {
	err := errors.New("duplicate key value violates")
	result := FormatUserError(err)

	expected := "A record with this value already exists (Code: DB001). Remove rows that were already imported and try again"
	if result != expected {
		t.Errorf("FormatUserError() = %q, want %q", result, expected)
	}
}

func TestIsUserFacing(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "nil error is not user facing", err: nil, want: false},
		{name: "known error is user facing", err: ErrMalformedFile, want: true},
		{name: "unknown error is not user facing", err: errors.New("random internal error xyz"), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsUserFacing(tt.err); got != tt.want {
				t.Errorf("IsUserFacing() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNewUserError(t *testing.T) {
	t.Run("nil error returns nil", func(t *testing.T) {
		if got := NewUserError(nil); got != nil {
			t.Errorf("NewUserError(nil) = %v, want nil", got)
		}
	})

	t.Run("wraps technical error with user message", func(t *testing.T) {
		techErr := fmt.Errorf("%w: %w", ErrPersistenceFailed, errors.New("duplicate key value"))
		userErr := NewUserError(techErr)

		if userErr.Error() != "A record with this value already exists" {
			t.Errorf("Error() = %q, want user message", userErr.Error())
		}
		if !errors.Is(userErr, ErrPersistenceFailed) {
			t.Error("Unwrap() should expose the sentinel")
		}
	})
}

func TestNoValidRecordsError(t *testing.T) {
	err := error(&NoValidRecordsError{Rejected: make([]RejectedRow, 2)})

	if !errors.Is(err, ErrNoValidRecords) {
		t.Error("errors.Is(err, ErrNoValidRecords) = false, want true")
	}

	var nv *NoValidRecordsError
	if !errors.As(err, &nv) || len(nv.Rejected) != 2 {
		t.Errorf("errors.As did not recover the rejected rows")
	}
}
