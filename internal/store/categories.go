package store

import (
	"context"
	"fmt"

	"github.com/doug-martin/goqu/v9"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/JonMunkholm/bizdir/internal/core"
)

const categoriesTable = "categories"

// ListCategories returns the categories ordered by name.
func (s *Store) ListCategories(ctx context.Context) ([]core.Category, error) {
	query, args, err := dialect.From(categoriesTable).Prepared(true).
		Select(
			goqu.Cast(goqu.C("id"), "TEXT").As("id"),
			goqu.C("name"),
			goqu.C("image"),
		).
		Order(goqu.C("name").Asc()).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list categories: %w", err)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	categories := []core.Category{}
	for rows.Next() {
		var (
			c     core.Category
			image pgtype.Text
		)
		if err := rows.Scan(&c.ID, &c.Name, &image); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		c.Image = image.String
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}

	return categories, nil
}
