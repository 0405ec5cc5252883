package core

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
)

// EntityKind identifies an importable entity (and its registered schema).
type EntityKind string

const (
	KindCompany EntityKind = "companies"
	KindProduct EntityKind = "products"
)

// ColumnType is the declared semantic type of a spreadsheet column.
type ColumnType int

const (
	ColumnString ColumnType = iota
	ColumnDecimal
	ColumnStringList
)

// String returns the lowercase name used in API responses.
func (t ColumnType) String() string {
	switch t {
	case ColumnDecimal:
		return "decimal"
	case ColumnStringList:
		return "list"
	default:
		return "string"
	}
}

// ColumnSpec defines the parsing and validation rules for one spreadsheet column.
type ColumnSpec struct {
	Name       string              // Header name (matched case-insensitively)
	DBColumn   string              // Database column name (derived from Name when empty)
	Type       ColumnType          // Expected data type
	Required   bool                // Cell must be non-empty
	MaxLength  int                 // Max characters per value, 0 = unlimited
	Format     string              // Validator tag applied to non-empty values ("email", "url", "uuid")
	Width      float64             // Column width in generated templates
	Normalizer func(string) string // Optional transformation applied after cleaning
}

// ColumnSchema describes the ordered columns of one importable entity.
type ColumnSchema struct {
	Kind          EntityKind
	Label         string   // Display name: "Products"
	Sheet         string   // Sheet name used in templates
	Table         string   // Destination table
	OwnerColumn   string   // Column receiving the owner id of an import
	OwnerRequired bool     // Imports must name an owner
	UniqueColumns []string // Columns whose values must be unique across the table
	Columns       []ColumnSpec
}

// Headers returns the column names in declaration order.
func (s ColumnSchema) Headers() []string {
	headers := make([]string, len(s.Columns))
	for i, c := range s.Columns {
		headers[i] = c.Name
	}
	return headers
}

// Column returns the spec for a column name.
func (s ColumnSchema) Column(name string) (ColumnSpec, bool) {
	for _, c := range s.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return ColumnSpec{}, false
}

// OwnerIsColumn reports whether the owner column is also an imported column.
// In that case a non-empty cell value takes precedence over the import owner.
func (s ColumnSchema) OwnerIsColumn() bool {
	for _, c := range s.Columns {
		if ResolveDBColumn(c) == s.OwnerColumn {
			return true
		}
	}
	return false
}

// RawRow is one data row of a spreadsheet, cells in column order.
type RawRow struct {
	Line  int // 1-based sheet line, the header is line 1
	Cells []string
}

// Cell returns the cell at position i, or "" when the row is shorter.
func (r RawRow) Cell(i int) string {
	if i < 0 || i >= len(r.Cells) {
		return ""
	}
	return r.Cells[i]
}

// Record is a validated row ready to persist, or a persisted row read back.
// Absent optional strings and decimals are missing from their maps.
// Absent lists map to an empty slice.
type Record struct {
	ID        string
	OwnerID   string
	Line      int
	CreatedAt time.Time
	Text      map[string]string
	Decimals  map[string]pgtype.Numeric
	Lists     map[string][]string
}

// NewRecord returns an empty record for the given sheet line.
func NewRecord(line int) Record {
	return Record{
		Line:     line,
		Text:     make(map[string]string),
		Decimals: make(map[string]pgtype.Numeric),
		Lists:    make(map[string][]string),
	}
}

// MarshalJSON flattens the record into a single object keyed by column name.
func (r Record) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(r.Text)+len(r.Decimals)+len(r.Lists)+4)
	for k, v := range r.Text {
		out[k] = v
	}
	for k, v := range r.Decimals {
		if s, ok := NumericString(v); ok {
			out[k] = json.Number(s)
		}
	}
	for k, v := range r.Lists {
		out[k] = v
	}
	if r.ID != "" {
		out["id"] = r.ID
	}
	if r.OwnerID != "" {
		out["ownerId"] = r.OwnerID
	}
	if r.Line > 0 {
		out["line"] = r.Line
	}
	if !r.CreatedAt.IsZero() {
		out["createdAt"] = r.CreatedAt
	}
	return json.Marshal(out)
}

// RejectedRow is a row that failed validation, with the first failure found.
type RejectedRow struct {
	Line   int         `json:"line"`
	Reason string      `json:"reason"`
	Err    *FieldError `json:"error"`
	Cells  []string    `json:"cells"`
}

// ImportResult is the outcome of a successful import.
type ImportResult struct {
	ImportID     string        `json:"importId"`
	Kind         EntityKind    `json:"kind"`
	OwnerID      string        `json:"ownerId,omitempty"`
	FileName     string        `json:"fileName"`
	TotalRows    int           `json:"totalRows"`
	Inserted     int           `json:"inserted"`
	Rejected     int           `json:"rejected"`
	Persisted    []Record      `json:"persisted"`
	RejectedRows []RejectedRow `json:"rejectedRows"`
	Duration     time.Duration `json:"durationNs"`
}

// ImportSummary is the import history entry written after each import.
type ImportSummary struct {
	ImportID  string     `json:"importId"`
	Kind      EntityKind `json:"kind"`
	OwnerID   string     `json:"ownerId,omitempty"`
	FileName  string     `json:"fileName"`
	TotalRows int        `json:"totalRows"`
	Inserted  int        `json:"inserted"`
	Rejected  int        `json:"rejected"`
	Duration  int64      `json:"durationMs"`
	IPAddress string     `json:"ipAddress,omitempty"`
	UserAgent string     `json:"userAgent,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
}

// Category is a directory category used for navigation.
type Category struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Image string `json:"image,omitempty"`
}

// SearchIntent is the user's directory search request.
type SearchIntent struct {
	City  string
	Query string
}

// FilterOperator represents a comparison operator for column filters.
type FilterOperator string

const (
	OpContains FilterOperator = "contains" // case-insensitive substring
	OpEquals   FilterOperator = "eq"
)

// OwnerField addresses a schema's owner column in a ColumnFilter.
const OwnerField = "ownerId"

// ColumnFilter represents a single filter condition on a column.
type ColumnFilter struct {
	Column   string         // Schema column name, or OwnerField
	Operator FilterOperator // Comparison operator
	Value    string
}

// FilterSet represents all active filters (combined with AND logic).
type FilterSet struct {
	Filters []ColumnFilter
}

// CatalogStore persists validated records and answers filtered queries.
type CatalogStore interface {
	// InsertBatch persists all records or none, returning them with assigned IDs.
	InsertBatch(ctx context.Context, schema ColumnSchema, ownerID string, records []Record) ([]Record, error)
	Query(ctx context.Context, schema ColumnSchema, filters FilterSet) ([]Record, error)
	QueryByCategory(ctx context.Context, categoryID string) ([]Record, error)
}

// HistoryStore records completed imports.
type HistoryStore interface {
	RecordImport(ctx context.Context, summary ImportSummary) error
	ListImports(ctx context.Context, limit int) ([]ImportSummary, error)
}

// CategoryLister lists directory categories.
type CategoryLister interface {
	ListCategories(ctx context.Context) ([]Category, error)
}
