package core

// search.go builds directory search filters and runs them against the store.
//
// Filter construction is pure: the same intent always yields the same FilterSet
// and nothing is read or written while building it.

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// Search columns on the company schema.
const (
	CityColumn     = "city"
	NameColumn     = "name"
	CategoryColumn = "categoryId"
)

// BuildFilters turns a search intent into filters on the company schema.
// A non-blank city gives an exact match, a non-blank query a case-insensitive
// name substring match. Both blank yields an empty set.
func BuildFilters(intent SearchIntent) FilterSet {
	var fs FilterSet

	if city := strings.TrimSpace(intent.City); city != "" {
		fs.Filters = append(fs.Filters, ColumnFilter{Column: CityColumn, Operator: OpEquals, Value: city})
	}
	if q := strings.TrimSpace(intent.Query); q != "" {
		fs.Filters = append(fs.Filters, ColumnFilter{Column: NameColumn, Operator: OpContains, Value: q})
	}

	return fs
}

// CategoryFilter selects the companies of one category.
func CategoryFilter(categoryID string) FilterSet {
	return FilterSet{Filters: []ColumnFilter{
		{Column: CategoryColumn, Operator: OpEquals, Value: strings.TrimSpace(categoryID)},
	}}
}

// OwnerFilter selects the records belonging to one owner.
func OwnerFilter(ownerID string) FilterSet {
	return FilterSet{Filters: []ColumnFilter{
		{Column: OwnerField, Operator: OpEquals, Value: strings.TrimSpace(ownerID)},
	}}
}

// IsEmpty reports whether the set has no predicates.
func (fs FilterSet) IsEmpty() bool {
	return len(fs.Filters) == 0
}

// Key returns a canonical representation of the set.
// Sets with the same predicates in any order share a key. Values are quoted so
// separators inside a value cannot make two different sets collide.
func (fs FilterSet) Key() string {
	parts := make([]string, len(fs.Filters))
	for i, f := range fs.Filters {
		parts[i] = f.Column + ":" + string(f.Operator) + ":" + strconv.Quote(f.Value)
	}
	sort.Strings(parts)
	return strings.Join(parts, "|")
}

// Search returns the companies matching the intent.
// No match is an empty slice, not an error.
func (s *Service) Search(ctx context.Context, intent SearchIntent) ([]Record, error) {
	schema, err := Lookup(KindCompany)
	if err != nil {
		return nil, err
	}
	return nonNil(s.catalog.Query(ctx, schema, BuildFilters(intent)))
}

// BrowseCategory returns the companies of a category, bypassing text search.
func (s *Service) BrowseCategory(ctx context.Context, categoryID string) ([]Record, error) {
	categoryID = strings.TrimSpace(categoryID)
	if _, err := uuid.Parse(categoryID); err != nil {
		return nil, fmt.Errorf("%w: category %q", ErrInvalidOwner, categoryID)
	}
	return nonNil(s.catalog.QueryByCategory(ctx, categoryID))
}

// ListProducts returns the products of a company, newest first.
func (s *Service) ListProducts(ctx context.Context, companyID string) ([]Record, error) {
	schema, err := Lookup(KindProduct)
	if err != nil {
		return nil, err
	}
	companyID = strings.TrimSpace(companyID)
	if err := checkOwner(schema, companyID); err != nil {
		return nil, err
	}
	return nonNil(s.catalog.Query(ctx, schema, OwnerFilter(companyID)))
}

func nonNil(records []Record, err error) ([]Record, error) {
	if err != nil {
		return nil, err
	}
	if records == nil {
		return []Record{}, nil
	}
	return records, nil
}
