package core_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/JonMunkholm/bizdir/internal/config"
	"github.com/JonMunkholm/bizdir/internal/core"
	_ "github.com/JonMunkholm/bizdir/internal/core/schemas"
	"github.com/xuri/excelize/v2"
)

// workbook builds an in-memory .xlsx whose first sheet holds rows, starting at A1.
func workbook(t *testing.T, rows ...[]any) []byte {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatalf("CoordinatesToCellName: %v", err)
		}
		values := row
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			t.Fatalf("SetSheetRow(%s): %v", cell, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("WriteToBuffer: %v", err)
	}
	return buf.Bytes()
}

var productHeader = []any{"name", "description", "regularPrice", "promotionalPrice", "images"}

func productSchema(t *testing.T) core.ColumnSchema {
	t.Helper()
	schema, ok := core.Get(core.KindProduct)
	if !ok {
		t.Fatal("products schema not registered")
	}
	return schema
}

func companySchema(t *testing.T) core.ColumnSchema {
	t.Helper()
	schema, ok := core.Get(core.KindCompany)
	if !ok {
		t.Fatal("companies schema not registered")
	}
	return schema
}

const testCompanyID = "6f1c2d3e-4a5b-4c6d-8e9f-0a1b2c3d4e5f"

// fakeStore is an in-memory CatalogStore and HistoryStore.
type fakeStore struct {
	mu          sync.Mutex
	insertCalls int
	inserted    []core.Record
	insertErr   error
	queries     []core.FilterSet
	queryResult []core.Record
	categoryIDs []string
	history     []core.ImportSummary
	historyErr  error
}

func (s *fakeStore) InsertBatch(ctx context.Context, schema core.ColumnSchema, ownerID string, records []core.Record) ([]core.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.insertCalls++
	if s.insertErr != nil {
		return nil, s.insertErr
	}

	out := make([]core.Record, len(records))
	for i, rec := range records {
		rec.ID = fmt.Sprintf("id-%d", len(s.inserted)+1)
		rec.OwnerID = ownerID
		rec.CreatedAt = time.Now()
		s.inserted = append(s.inserted, rec)
		out[i] = rec
	}
	return out, nil
}

func (s *fakeStore) Query(ctx context.Context, schema core.ColumnSchema, filters core.FilterSet) ([]core.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queries = append(s.queries, filters)
	return s.queryResult, nil
}

func (s *fakeStore) QueryByCategory(ctx context.Context, categoryID string) ([]core.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.categoryIDs = append(s.categoryIDs, categoryID)
	return s.queryResult, nil
}

func (s *fakeStore) RecordImport(ctx context.Context, summary core.ImportSummary) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = append(s.history, summary)
	return s.historyErr
}

func (s *fakeStore) ListImports(ctx context.Context, limit int) ([]core.ImportSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.history, nil
}

func testConfig() *config.Config {
	return &config.Config{
		Upload: config.UploadConfig{
			MaxConcurrent: 2,
			MaxWaitTime:   time.Second,
			Timeout:       time.Minute,
			BatchSize:     100,
		},
	}
}

func newTestService(t *testing.T, store *fakeStore) *core.Service {
	t.Helper()
	svc, err := core.NewService(core.Stores{Catalog: store, History: store}, testConfig())
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc
}
