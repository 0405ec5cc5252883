package store

import (
	"context"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/JonMunkholm/bizdir/internal/core"
)

const importsTable = "catalog_imports"

// RecordImport stores an import history entry.
func (s *Store) RecordImport(ctx context.Context, summary core.ImportSummary) error {
	createdAt := summary.CreatedAt
	if createdAt.IsZero() {
		createdAt = s.now().UTC()
	}

	query, args, err := dialect.Insert(importsTable).Prepared(true).Rows(goqu.Record{
		"id":          summary.ImportID,
		"kind":        string(summary.Kind),
		"owner_id":    nullable(summary.OwnerID),
		"file_name":   summary.FileName,
		"total_rows":  summary.TotalRows,
		"inserted":    summary.Inserted,
		"rejected":    summary.Rejected,
		"duration_ms": summary.Duration,
		"ip_address":  nullable(summary.IPAddress),
		"user_agent":  nullable(summary.UserAgent),
		"created_at":  createdAt,
	}).ToSQL()
	if err != nil {
		return fmt.Errorf("build import history insert: %w", err)
	}

	if _, err := s.pool.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("record import %s: %w", summary.ImportID, err)
	}
	return nil
}

// ListImports returns the most recent imports, newest first.
func (s *Store) ListImports(ctx context.Context, limit int) ([]core.ImportSummary, error) {
	query, args, err := buildListImports(limit)
	if err != nil {
		return nil, err
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list imports: %w", err)
	}
	defer rows.Close()

	summaries := []core.ImportSummary{}
	for rows.Next() {
		var (
			sum           core.ImportSummary
			kind          string
			owner, ip, ua pgtype.Text
		)
		if err := rows.Scan(
			&sum.ImportID, &kind, &owner, &sum.FileName,
			&sum.TotalRows, &sum.Inserted, &sum.Rejected, &sum.Duration,
			&ip, &ua, &sum.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan import: %w", err)
		}
		sum.Kind = core.EntityKind(kind)
		sum.OwnerID = owner.String
		sum.IPAddress = ip.String
		sum.UserAgent = ua.String
		summaries = append(summaries, sum)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list imports: %w", err)
	}

	return summaries, nil
}

func buildListImports(limit int) (string, []any, error) {
	if limit <= 0 {
		limit = core.DefaultHistoryLimit
	}

	query, args, err := dialect.From(importsTable).Prepared(true).
		Select(
			goqu.Cast(goqu.C("id"), "TEXT").As("id"),
			goqu.C("kind"),
			goqu.Cast(goqu.C("owner_id"), "TEXT").As("owner_id"),
			goqu.C("file_name"),
			goqu.C("total_rows"),
			goqu.C("inserted"),
			goqu.C("rejected"),
			goqu.C("duration_ms"),
			goqu.C("ip_address"),
			goqu.C("user_agent"),
			goqu.C("created_at"),
		).
		Order(goqu.C("created_at").Desc()).
		Limit(uint(limit)).
		ToSQL()
	if err != nil {
		return "", nil, fmt.Errorf("build list imports: %w", err)
	}
	return query, args, nil
}

// PruneImports deletes history entries created before the cutoff.
func (s *Store) PruneImports(ctx context.Context, before time.Time) (int64, error) {
	query, args, err := buildPruneImports(before)
	if err != nil {
		return 0, err
	}

	tag, err := s.pool.Exec(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("prune imports: %w", err)
	}
	return tag.RowsAffected(), nil
}

func buildPruneImports(before time.Time) (string, []any, error) {
	query, args, err := dialect.Delete(importsTable).Prepared(true).
		Where(goqu.C("created_at").Lt(before.UTC())).
		ToSQL()
	if err != nil {
		return "", nil, fmt.Errorf("build prune imports: %w", err)
	}
	return query, args, nil
}
