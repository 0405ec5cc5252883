package core_test

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/JonMunkholm/bizdir/internal/core"
)

// ============================================================================
// Filter Builder Tests
// ============================================================================

func TestBuildFilters(t *testing.T) {
	tests := []struct {
		name   string
		intent core.SearchIntent
		want   []core.ColumnFilter
	}{
		{
			name:   "city only",
			intent: core.SearchIntent{City: "Recife"},
			want:   []core.ColumnFilter{{Column: "city", Operator: core.OpEquals, Value: "Recife"}},
		},
		{
			name:   "query only",
			intent: core.SearchIntent{Query: "pizza"},
			want:   []core.ColumnFilter{{Column: "name", Operator: core.OpContains, Value: "pizza"}},
		},
		{
			name:   "both",
			intent: core.SearchIntent{City: "Recife", Query: "pizza"},
			want: []core.ColumnFilter{
				{Column: "city", Operator: core.OpEquals, Value: "Recife"},
				{Column: "name", Operator: core.OpContains, Value: "pizza"},
			},
		},
		{
			name:   "trimmed values",
			intent: core.SearchIntent{City: "  Recife ", Query: " pizza  "},
			want: []core.ColumnFilter{
				{Column: "city", Operator: core.OpEquals, Value: "Recife"},
				{Column: "name", Operator: core.OpContains, Value: "pizza"},
			},
		},
		{
			name:   "neither",
			intent: core.SearchIntent{},
			want:   nil,
		},
		{
			name:   "whitespace only",
			intent: core.SearchIntent{City: "   ", Query: "\t"},
			want:   nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := core.BuildFilters(tt.intent)
			if !reflect.DeepEqual(got.Filters, tt.want) {
				t.Errorf("BuildFilters(%+v) = %+v, want %+v", tt.intent, got.Filters, tt.want)
			}
			if got.IsEmpty() != (len(tt.want) == 0) {
				t.Errorf("IsEmpty() = %v", got.IsEmpty())
			}
		})
	}
}

func TestBuildFilters_Deterministic(t *testing.T) {
	intent := core.SearchIntent{City: "Recife", Query: "pizza"}

	first := core.BuildFilters(intent)
	for i := 0; i < 10; i++ {
		if got := core.BuildFilters(intent); !reflect.DeepEqual(got, first) {
			t.Fatalf("BuildFilters is not deterministic: %+v vs %+v", got, first)
		}
	}
}

func TestFilterSetKey_OrderIndependent(t *testing.T) {
	a := core.FilterSet{Filters: []core.ColumnFilter{
		{Column: "city", Operator: core.OpEquals, Value: "Recife"},
		{Column: "name", Operator: core.OpContains, Value: "pizza"},
	}}
	b := core.FilterSet{Filters: []core.ColumnFilter{a.Filters[1], a.Filters[0]}}

	if a.Key() != b.Key() {
		t.Errorf("Key() differs by order: %q vs %q", a.Key(), b.Key())
	}
	if a.Key() == core.BuildFilters(core.SearchIntent{City: "Recife"}).Key() {
		t.Error("different sets share a key")
	}
}

func TestFilterSetKey_SeparatorsInValues(t *testing.T) {
	tests := []struct {
		name string
		a, b core.SearchIntent
	}{
		{"pipe joins predicates", core.SearchIntent{City: "x", Query: "y"}, core.SearchIntent{City: "x|name:contains:y"}},
		{"colon in value", core.SearchIntent{City: "a:b"}, core.SearchIntent{City: "a", Query: "b"}},
		{"quote in value", core.SearchIntent{City: `x"|name:contains:"y`}, core.SearchIntent{City: "x", Query: "y"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ka := core.BuildFilters(tt.a).Key()
			kb := core.BuildFilters(tt.b).Key()
			if ka == kb {
				t.Errorf("different intents share key %q", ka)
			}
		})
	}
}

func TestCategoryFilter(t *testing.T) {
	got := core.CategoryFilter(" 2b1e6a3c-1111-4d2e-9f00-123456789abc ")
	want := []core.ColumnFilter{{Column: "categoryId", Operator: core.OpEquals, Value: "2b1e6a3c-1111-4d2e-9f00-123456789abc"}}

	if !reflect.DeepEqual(got.Filters, want) {
		t.Errorf("CategoryFilter() = %+v, want %+v", got.Filters, want)
	}
}

// ============================================================================
// Service Search Tests
// ============================================================================

func TestService_Search(t *testing.T) {
	store := &fakeStore{}
	svc := newTestService(t, store)

	got, err := svc.Search(context.Background(), core.SearchIntent{City: "Recife"})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Errorf("Search() with no matches = %#v, want empty slice", got)
	}
	if len(store.queries) != 1 || store.queries[0].Filters[0].Value != "Recife" {
		t.Errorf("store queries = %+v", store.queries)
	}
}

func TestService_SearchUnfiltered(t *testing.T) {
	store := &fakeStore{queryResult: []core.Record{core.NewRecord(0), core.NewRecord(0)}}
	svc := newTestService(t, store)

	got, err := svc.Search(context.Background(), core.SearchIntent{})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(got) != 2 {
		t.Errorf("Search() returned %d records, want 2", len(got))
	}
	if !store.queries[0].IsEmpty() {
		t.Errorf("empty intent produced filters %+v", store.queries[0])
	}
}

func TestService_BrowseCategory(t *testing.T) {
	store := &fakeStore{}
	svc := newTestService(t, store)

	id := "2b1e6a3c-1111-4d2e-9f00-123456789abc"
	if _, err := svc.BrowseCategory(context.Background(), id); err != nil {
		t.Fatalf("BrowseCategory() error = %v", err)
	}
	if len(store.categoryIDs) != 1 || store.categoryIDs[0] != id {
		t.Errorf("QueryByCategory calls = %v", store.categoryIDs)
	}

	if _, err := svc.BrowseCategory(context.Background(), "bakeries"); !errors.Is(err, core.ErrInvalidOwner) {
		t.Errorf("BrowseCategory(non uuid) error = %v, want ErrInvalidOwner", err)
	}
}

func TestService_ListProducts(t *testing.T) {
	store := &fakeStore{}
	svc := newTestService(t, store)

	if _, err := svc.ListProducts(context.Background(), testCompanyID); err != nil {
		t.Fatalf("ListProducts() error = %v", err)
	}
	want := core.OwnerFilter(testCompanyID)
	if len(store.queries) != 1 || !reflect.DeepEqual(store.queries[0], want) {
		t.Errorf("store queries = %+v, want %+v", store.queries, want)
	}

	if _, err := svc.ListProducts(context.Background(), ""); !errors.Is(err, core.ErrInvalidOwner) {
		t.Errorf("ListProducts(\"\") error = %v, want ErrInvalidOwner", err)
	}
}
