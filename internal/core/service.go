package core

import (
	"context"
	"errors"
	"time"

	"github.com/JonMunkholm/bizdir/internal/config"
)

// DefaultImportTimeout bounds a single import when no configuration is given.
const DefaultImportTimeout = 10 * time.Minute

// DefaultHistoryLimit is the number of import history entries returned by default.
const DefaultHistoryLimit = 50

// Stores groups the persistence dependencies of the Service.
// Catalog is required. History and Categories are optional.
type Stores struct {
	Catalog    CatalogStore
	History    HistoryStore
	Categories CategoryLister
}

// Service provides the catalog import and directory search operations.
type Service struct {
	catalog    CatalogStore
	history    HistoryStore
	categories CategoryLister

	limiter       *ImportLimiter
	importTimeout time.Duration
}

// NewService creates a Service from its stores and the upload configuration.
func NewService(stores Stores, cfg *config.Config) (*Service, error) {
	if stores.Catalog == nil {
		return nil, errors.New("new service: catalog store is required")
	}

	s := &Service{
		catalog:       stores.Catalog,
		history:       stores.History,
		categories:    stores.Categories,
		importTimeout: DefaultImportTimeout,
	}

	if cfg != nil {
		s.limiter = NewImportLimiter(cfg.Upload.MaxConcurrent, cfg.Upload.MaxWaitTime)
		if cfg.Upload.Timeout > 0 {
			s.importTimeout = cfg.Upload.Timeout
		}
	} else {
		s.limiter = NewImportLimiter(DefaultMaxConcurrentImports, DefaultMaxWaitTime)
	}

	return s, nil
}

// ListSchemas returns all registered import schemas.
func (s *Service) ListSchemas() []ColumnSchema {
	return All()
}

// ImportLimiterStatus returns the current import concurrency state.
func (s *Service) ImportLimiterStatus() ImportLimiterStatus {
	return s.limiter.Status()
}

// WaitForImports blocks until in-flight imports finish or ctx ends.
func (s *Service) WaitForImports(ctx context.Context) error {
	return s.limiter.WaitForDrain(ctx)
}

// ListImports returns the most recent imports, newest first.
// Returns an empty list when no history store is configured.
func (s *Service) ListImports(ctx context.Context, limit int) ([]ImportSummary, error) {
	if s.history == nil {
		return []ImportSummary{}, nil
	}
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	return s.history.ListImports(ctx, limit)
}

// ListCategories returns the directory categories.
func (s *Service) ListCategories(ctx context.Context) ([]Category, error) {
	if s.categories == nil {
		return []Category{}, nil
	}
	return s.categories.ListCategories(ctx)
}
