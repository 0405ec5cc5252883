package core

// convert.go provides conversion helpers from spreadsheet cells to PostgreSQL types.
//
// Spreadsheet data is messy:
//   - Currency symbols and thousand separators in prices
//   - Formula prefixes (="value") and stray quotes
//   - Comma separated lists typed into a single cell
//
// All ToPg* functions return pgtype values with Valid=false for empty/invalid input,
// allowing the database to handle NULLs appropriately.

import (
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

// numericRegex validates that a string is a valid numeric format after cleanup.
// Matches integers, decimals, and scientific notation.
var numericRegex = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?$`)

// thousandsRegex matches a number whose commas are all thousands separators.
// Any other comma (decimal comma, "1,5", "1.234,56") makes the value invalid.
var thousandsRegex = regexp.MustCompile(`^[+-]?\d{1,3}(,\d{3})+(\.\d+)?$`)

// currencySymbols are stripped before numeric parsing. Longer symbols first.
var currencySymbols = []string{"R$", "US$", "$", "€", "£"}

// ToPgText converts a string to pgtype.Text.
// Returns invalid if the string is empty or only whitespace.
func ToPgText(s string) pgtype.Text {
	s = strings.TrimSpace(s)
	if s == "" {
		return pgtype.Text{Valid: false}
	}
	return pgtype.Text{String: s, Valid: true}
}

// ToPgNumeric converts a string to pgtype.Numeric.
// Handles currency symbols, comma thousands separators, and accounting format (parentheses for negative).
// Commas that are not thousands separators are rejected rather than guessed.
func ToPgNumeric(s string) pgtype.Numeric {
	s = strings.TrimSpace(s)
	if s == "" {
		return pgtype.Numeric{Valid: false}
	}

	// Detect negative accounting format "(123.45)"
	isNegative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		isNegative = true
		s = strings.TrimSpace(s[1 : len(s)-1])
	}

	for _, sym := range currencySymbols {
		s = strings.ReplaceAll(s, sym, "")
	}
	s = strings.TrimSpace(s)
	if strings.Contains(s, ",") {
		if !thousandsRegex.MatchString(s) {
			return pgtype.Numeric{Valid: false}
		}
		s = strings.ReplaceAll(s, ",", "")
	}

	if isNegative {
		s = "-" + s
	}

	if !numericRegex.MatchString(s) {
		return pgtype.Numeric{Valid: false}
	}

	var n pgtype.Numeric
	if err := n.Scan(s); err != nil {
		return pgtype.Numeric{Valid: false}
	}

	return n
}

// IsNegative reports whether a valid numeric is below zero.
func IsNegative(n pgtype.Numeric) bool {
	return n.Valid && n.Int != nil && n.Int.Sign() < 0
}

// NumericString renders a numeric in plain decimal notation.
// Returns false if the numeric is invalid.
func NumericString(n pgtype.Numeric) (string, bool) {
	if !n.Valid {
		return "", false
	}
	v, err := n.Value()
	if err != nil {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// ToPgUUID converts a string to pgtype.UUID.
// Returns invalid if the string is empty or not a valid UUID.
func ToPgUUID(s string) pgtype.UUID {
	s = strings.TrimSpace(s)
	if s == "" {
		return pgtype.UUID{Valid: false}
	}
	parsed, err := uuid.Parse(s)
	if err != nil {
		return pgtype.UUID{Valid: false}
	}
	return pgtype.UUID{Bytes: parsed, Valid: true}
}

// PgUUIDToString converts a pgtype.UUID to its string representation.
// Returns empty string if the UUID is invalid.
func PgUUIDToString(u pgtype.UUID) string {
	if !u.Valid {
		return ""
	}
	return uuid.UUID(u.Bytes).String()
}

// SplitList splits a comma separated cell into trimmed, non-empty values.
func SplitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = CleanCell(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// CleanCell removes common spreadsheet artifacts from a cell value:
// - Trims whitespace
// - Removes formula prefix (="...")
// - Removes surrounding quotes
func CleanCell(s string) string {
	s = strings.TrimSpace(s)

	if strings.HasPrefix(s, "=\"") && strings.HasSuffix(s, "\"") {
		s = s[2 : len(s)-1]
	} else if strings.HasPrefix(s, "=") {
		s = s[1:]
	}

	s = strings.Trim(s, `"'`)

	return strings.TrimSpace(s)
}
