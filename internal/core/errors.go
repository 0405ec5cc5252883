package core

import (
	"errors"
	"fmt"
)

// Operation-level errors. Compare with errors.Is; most are returned wrapped.
var (
	ErrUnsupportedFormat = errors.New("unsupported file format")
	ErrMalformedFile     = errors.New("malformed spreadsheet")
	ErrHeaderMismatch    = errors.New("header mismatch")
	ErrNoValidRecords    = errors.New("no valid records")
	ErrPersistenceFailed = errors.New("persistence failed")
	ErrUnknownKind       = errors.New("unknown entity kind")
	ErrInvalidOwner      = errors.New("invalid owner id")
	ErrTooManyImports    = errors.New("too many imports in progress")
	ErrFileTooLarge      = errors.New("file too large")
	ErrNoFile            = errors.New("no file provided")
)

// FieldErrorKind classifies a row-level validation failure.
type FieldErrorKind string

const (
	MissingRequiredField FieldErrorKind = "MissingRequiredField"
	InvalidNumericField  FieldErrorKind = "InvalidNumericField"
	FieldTooLong         FieldErrorKind = "FieldTooLong"
	InvalidFieldFormat   FieldErrorKind = "InvalidFieldFormat"
)

// FieldError describes why a single cell was rejected.
type FieldError struct {
	Kind   FieldErrorKind `json:"kind"`
	Column string         `json:"column"`
	Value  string         `json:"value,omitempty"`
	Limit  int            `json:"limit,omitempty"`  // Max length for FieldTooLong
	Format string         `json:"format,omitempty"` // Expected format for InvalidFieldFormat
}

func (e *FieldError) Error() string {
	switch e.Kind {
	case MissingRequiredField:
		return fmt.Sprintf("required field %q is empty", e.Column)
	case InvalidNumericField:
		return fmt.Sprintf("invalid number in %q: %q", e.Column, e.Value)
	case FieldTooLong:
		return fmt.Sprintf("value too long in %q: max %d characters", e.Column, e.Limit)
	case InvalidFieldFormat:
		return fmt.Sprintf("invalid format in %q: %q is not a valid %s", e.Column, e.Value, e.Format)
	default:
		return fmt.Sprintf("invalid field %q", e.Column)
	}
}

// NoValidRecordsError is returned when an import has no row worth persisting.
// It carries the rejected rows so callers can still report them.
type NoValidRecordsError struct {
	Rejected []RejectedRow
}

func (e *NoValidRecordsError) Error() string {
	return fmt.Sprintf("%s (%d rows rejected)", ErrNoValidRecords, len(e.Rejected))
}

func (e *NoValidRecordsError) Unwrap() error {
	return ErrNoValidRecords
}
