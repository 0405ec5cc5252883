// Package core provides the business logic for catalog imports and directory search.
//
// The package holds all domain logic independent of any transport or storage
// backend. Web handlers, tests and future CLIs drive it through [Service].
//
// # Architecture
//
//   - Schemas: each importable entity registers a [ColumnSchema] at init time.
//   - Import: a spreadsheet is parsed, validated row by row, and the valid
//     rows are persisted all-or-nothing through a [CatalogStore].
//   - Search: a [SearchIntent] is turned into a [FilterSet] and run against
//     the company catalog.
//   - History: completed imports are recorded through a [HistoryStore].
//
// # Schema Registry
//
// Schemas are registered with [Register], normally from package schemas:
//
//	core.Register(core.ColumnSchema{
//	    Kind:        core.KindProduct,
//	    Table:       "products",
//	    OwnerColumn: "company_id",
//	    Columns: []core.ColumnSpec{
//	        {Name: "name", Type: core.ColumnString, Required: true, MaxLength: 100},
//	        {Name: "regularPrice", Type: core.ColumnDecimal},
//	    },
//	})
//
// # Import Flow
//
//  1. The extension picks the reader (.xlsx or .xls); anything else is rejected
//     before parsing.
//  2. The header row must start with the schema columns, compared
//     case-insensitively.
//  3. Blank rows are skipped. Every other row is either a [Record] or a
//     [RejectedRow] carrying the first [FieldError] found.
//  4. Valid records are inserted in one transaction. A failure saves nothing.
//
// [Service.Preview] runs steps 1 to 3 without persisting and also reports
// values repeated inside the file for columns that must be unique.
//
// # Error Handling
//
// Sentinel errors ([ErrUnsupportedFormat], [ErrHeaderMismatch], ...) are wrapped
// with context and mapped to user messages with [MapError]:
//
//   - DB001-DB007: Database errors (duplicates, constraints, connections)
//   - VAL001-VAL005: Validation errors (required, numbers, length, format, header)
//   - FILE001-FILE004: File errors (size, format, malformed, missing)
//   - IMP001-IMP005: Import errors (no valid rows, persistence, busy, kind, owner)
package core
