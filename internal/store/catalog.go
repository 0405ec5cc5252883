package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/doug-martin/goqu/v9/exp"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/JonMunkholm/bizdir/internal/core"
	"github.com/JonMunkholm/bizdir/internal/logging"
)

// Columns every catalog table carries besides the schema columns.
const (
	idColumn        = "id"
	createdAtColumn = "created_at"
	ownerAlias      = "owner_id"
)

// InsertBatch writes all records in one transaction, in chunks of the configured batch size.
// Any failure rolls back every chunk.
func (s *Store) InsertBatch(ctx context.Context, schema core.ColumnSchema, ownerID string, records []core.Record) ([]core.Record, error) {
	if len(records) == 0 {
		return []core.Record{}, nil
	}

	now := s.now().UTC().Truncate(time.Microsecond)
	persisted := make([]core.Record, len(records))
	for i, rec := range records {
		persisted[i] = assignIdentity(schema, ownerID, rec, now)
	}

	err := pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		for start := 0; start < len(persisted); start += s.batchSize {
			end := min(start+s.batchSize, len(persisted))

			query, args, err := buildInsert(schema, persisted[start:end])
			if err != nil {
				return err
			}
			if _, err := tx.Exec(ctx, query, args...); err != nil {
				return fmt.Errorf("insert %s rows %d-%d: %w", schema.Table, start, end, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logging.FromContext(ctx).Debug("batch inserted", "table", schema.Table, "rows", len(persisted))
	return persisted, nil
}

// Query returns the records of schema matching every filter, newest first.
func (s *Store) Query(ctx context.Context, schema core.ColumnSchema, filters core.FilterSet) ([]core.Record, error) {
	query, args, err := buildSelect(schema, filters)
	if err != nil {
		return nil, err
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", schema.Table, err)
	}
	defer rows.Close()

	columns := selectedColumns(schema)
	records := []core.Record{}
	for rows.Next() {
		rec, err := scanRecord(rows, schema, columns)
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", schema.Table, err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("query %s: %w", schema.Table, err)
	}

	return records, nil
}

// QueryByCategory returns the companies of a category, newest first.
func (s *Store) QueryByCategory(ctx context.Context, categoryID string) ([]core.Record, error) {
	schema, err := core.Lookup(core.KindCompany)
	if err != nil {
		return nil, err
	}
	return s.Query(ctx, schema, core.CategoryFilter(categoryID))
}

// assignIdentity gives a record its id, owner and creation time.
// When the owner column is also an imported column, a non-empty cell wins over ownerID.
func assignIdentity(schema core.ColumnSchema, ownerID string, rec core.Record, now time.Time) core.Record {
	rec.ID = uuid.New().String()
	rec.CreatedAt = now
	rec.OwnerID = ownerID

	if spec, ok := ownerSpec(schema); ok {
		if v := rec.Text[spec.Name]; v != "" {
			rec.OwnerID = v
		} else if ownerID != "" {
			rec.Text = cloneText(rec.Text)
			rec.Text[spec.Name] = ownerID
		}
	}
	return rec
}

func cloneText(m map[string]string) map[string]string {
	out := make(map[string]string, len(m)+1)
	for k, v := range m {
		out[k] = v
	}
	return out
}

// ownerSpec returns the imported column stored in the owner column, if any.
func ownerSpec(schema core.ColumnSchema) (core.ColumnSpec, bool) {
	for _, spec := range schema.Columns {
		if core.ResolveDBColumn(spec) == schema.OwnerColumn {
			return spec, true
		}
	}
	return core.ColumnSpec{}, false
}

// selectedColumns are the schema columns read back individually.
// The column doubling as owner column is read once, through the owner alias.
func selectedColumns(schema core.ColumnSchema) []core.ColumnSpec {
	columns := make([]core.ColumnSpec, 0, len(schema.Columns))
	for _, spec := range schema.Columns {
		if core.ResolveDBColumn(spec) == schema.OwnerColumn {
			continue
		}
		columns = append(columns, spec)
	}
	return columns
}

// buildInsert renders one multi-row INSERT. All values are sent as strings or NULL
// so Postgres parses them into the column types (uuid, numeric, text[]).
func buildInsert(schema core.ColumnSchema, records []core.Record) (string, []any, error) {
	rows := make([]any, len(records))
	for i, rec := range records {
		row := goqu.Record{
			idColumn:        rec.ID,
			createdAtColumn: rec.CreatedAt,
		}
		if schema.OwnerColumn != "" {
			row[schema.OwnerColumn] = nullable(rec.OwnerID)
		}

		for _, spec := range schema.Columns {
			col := core.ResolveDBColumn(spec)
			if col == schema.OwnerColumn {
				continue
			}
			switch spec.Type {
			case core.ColumnDecimal:
				if n, ok := rec.Decimals[spec.Name]; ok {
					v, _ := core.NumericString(n)
					row[col] = nullable(v)
				} else {
					row[col] = nil
				}
			case core.ColumnStringList:
				row[col] = arrayLiteral(rec.Lists[spec.Name])
			default:
				row[col] = nullable(rec.Text[spec.Name])
			}
		}
		rows[i] = row
	}

	query, args, err := dialect.Insert(schema.Table).Prepared(true).Rows(rows...).ToSQL()
	if err != nil {
		return "", nil, fmt.Errorf("build insert %s: %w", schema.Table, err)
	}
	return query, args, nil
}

// buildSelect renders the filtered, newest-first SELECT for a schema.
func buildSelect(schema core.ColumnSchema, filters core.FilterSet) (string, []any, error) {
	cols := []any{
		goqu.Cast(goqu.C(idColumn), "TEXT").As(idColumn),
		ownerExpression(schema),
		goqu.C(createdAtColumn),
	}
	for _, spec := range selectedColumns(schema) {
		col := core.ResolveDBColumn(spec)
		if spec.Format == "uuid" {
			cols = append(cols, goqu.Cast(goqu.C(col), "TEXT").As(col))
			continue
		}
		cols = append(cols, goqu.C(col))
	}

	where := make([]exp.Expression, 0, len(filters.Filters))
	for _, f := range filters.Filters {
		col, ok := core.ResolveFilterColumn(schema, f.Column)
		if !ok {
			return "", nil, fmt.Errorf("build select %s: unknown filter column %q", schema.Table, f.Column)
		}
		switch f.Operator {
		case core.OpEquals:
			where = append(where, goqu.C(col).Eq(f.Value))
		case core.OpContains:
			where = append(where, goqu.C(col).ILike("%"+escapeLike(f.Value)+"%"))
		default:
			return "", nil, fmt.Errorf("build select %s: unsupported operator %q", schema.Table, f.Operator)
		}
	}

	ds := dialect.From(schema.Table).Prepared(true).
		Select(cols...).
		Order(goqu.C(createdAtColumn).Desc(), goqu.C(idColumn).Asc())
	if len(where) > 0 {
		ds = ds.Where(where...)
	}

	query, args, err := ds.ToSQL()
	if err != nil {
		return "", nil, fmt.Errorf("build select %s: %w", schema.Table, err)
	}
	return query, args, nil
}

func ownerExpression(schema core.ColumnSchema) any {
	if schema.OwnerColumn == "" {
		return goqu.L("NULL::TEXT").As(ownerAlias)
	}
	return goqu.Cast(goqu.C(schema.OwnerColumn), "TEXT").As(ownerAlias)
}

// scanRecord reads one row produced by buildSelect.
func scanRecord(rows pgx.Rows, schema core.ColumnSchema, columns []core.ColumnSpec) (core.Record, error) {
	var (
		id, owner pgtype.Text
		createdAt time.Time
	)

	texts := make([]pgtype.Text, len(columns))
	nums := make([]pgtype.Numeric, len(columns))
	lists := make([][]string, len(columns))

	targets := []any{&id, &owner, &createdAt}
	for i, spec := range columns {
		switch spec.Type {
		case core.ColumnDecimal:
			targets = append(targets, &nums[i])
		case core.ColumnStringList:
			targets = append(targets, &lists[i])
		default:
			targets = append(targets, &texts[i])
		}
	}

	if err := rows.Scan(targets...); err != nil {
		return core.Record{}, err
	}

	rec := core.NewRecord(0)
	rec.ID = id.String
	rec.OwnerID = owner.String
	rec.CreatedAt = createdAt

	for i, spec := range columns {
		switch spec.Type {
		case core.ColumnDecimal:
			if nums[i].Valid {
				rec.Decimals[spec.Name] = nums[i]
			}
		case core.ColumnStringList:
			if lists[i] == nil {
				lists[i] = []string{}
			}
			rec.Lists[spec.Name] = lists[i]
		default:
			if texts[i].Valid {
				rec.Text[spec.Name] = texts[i].String
			}
		}
	}

	if spec, ok := ownerSpec(schema); ok && owner.Valid {
		rec.Text[spec.Name] = owner.String
	}

	return rec, nil
}

// nullable maps "" to SQL NULL.
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// arrayLiteral renders a Postgres text[] literal such as {"a","b \"c\""}.
func arrayLiteral(values []string) string {
	var b strings.Builder
	b.WriteByte('{')
	for i, v := range values {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteByte('"')
		for _, r := range v {
			if r == '"' || r == '\\' {
				b.WriteByte('\\')
			}
			b.WriteRune(r)
		}
		b.WriteByte('"')
	}
	b.WriteByte('}')
	return b.String()
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike escapes the LIKE wildcards so user input matches literally.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
