package core

// import.go coordinates a spreadsheet import:
//
//	bytes -> RowReader -> ValidateRow -> (Record | RejectedRow) -> InsertBatch -> ImportResult
//
// Every non-blank data row ends up in exactly one of Persisted or RejectedRows.
// The store is called once with all valid records, or not at all.

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/JonMunkholm/bizdir/internal/logging"
	"github.com/google/uuid"
)

// ContextCheckInterval is how many rows are validated between cancellation checks.
const ContextCheckInterval = 500

// Import parses, validates and persists a spreadsheet for the given entity kind.
//
// ownerID names the company (products) or default category (companies) the rows belong to.
// On ErrNoValidRecords the returned error is a *NoValidRecordsError holding the rejected rows.
// Persistence failures wrap ErrPersistenceFailed and nothing is saved.
func (s *Service) Import(ctx context.Context, kind EntityKind, ownerID, fileName string, data []byte) (*ImportResult, error) {
	schema, err := Lookup(kind)
	if err != nil {
		return nil, err
	}

	ownerID = strings.TrimSpace(ownerID)
	if err := checkOwner(schema, ownerID); err != nil {
		return nil, err
	}

	if err := s.limiter.Acquire(ctx); err != nil {
		return nil, err
	}
	defer s.limiter.Release()

	ctx, cancel := context.WithTimeout(ctx, s.importTimeout)
	defer cancel()

	importID := uuid.New().String()
	logger := logging.WithFields(ctx,
		"import_id", importID,
		"kind", kind,
		"owner", ownerID,
		"file", fileName,
	)
	ctx = logging.NewContext(ctx, logger)
	start := time.Now()

	records, rejected, err := readRecords(ctx, schema, fileName, data)
	if err != nil {
		logger.Warn("import rejected", "error", err)
		return nil, err
	}

	if len(records) == 0 {
		logger.Info("import has no valid records", "rejected", len(rejected))
		return nil, &NoValidRecordsError{Rejected: rejected}
	}

	persisted, err := s.catalog.InsertBatch(ctx, schema, ownerID, records)
	if err != nil {
		logger.Error("import persistence failed", "records", len(records), "error", err)
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("%w: %w", ErrPersistenceFailed, ctxErr)
		}
		return nil, fmt.Errorf("%w: %w", ErrPersistenceFailed, err)
	}

	result := &ImportResult{
		ImportID:     importID,
		Kind:         kind,
		OwnerID:      ownerID,
		FileName:     fileName,
		TotalRows:    len(records) + len(rejected),
		Inserted:     len(persisted),
		Rejected:     len(rejected),
		Persisted:    persisted,
		RejectedRows: rejected,
		Duration:     time.Since(start),
	}

	logger.Info("import completed",
		"inserted", result.Inserted,
		"rejected", result.Rejected,
		"duration", result.Duration,
	)

	s.recordHistory(ctx, result)

	return result, nil
}

// readRecords parses the file and partitions its rows, preserving row order.
func readRecords(ctx context.Context, schema ColumnSchema, fileName string, data []byte) ([]Record, []RejectedRow, error) {
	reader, err := OpenRows(fileName, data)
	if err != nil {
		return nil, nil, err
	}
	defer reader.Close()

	if err := ValidateHeader(schema, reader.Header()); err != nil {
		return nil, nil, err
	}

	validator := NewRowValidator(schema)
	records := []Record{}
	rejected := []RejectedRow{}

	for n := 0; ; n++ {
		if n%ContextCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, nil, err
			}
		}

		row, err := reader.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, nil, err
		}

		rec, rej := validator.Validate(row)
		if rej != nil {
			rejected = append(rejected, *rej)
			continue
		}
		records = append(records, rec)
	}

	return records, rejected, nil
}

// checkOwner validates the owner id against the schema's requirements.
func checkOwner(schema ColumnSchema, ownerID string) error {
	if ownerID == "" {
		if schema.OwnerRequired {
			return fmt.Errorf("%w: %s imports require an owner", ErrInvalidOwner, schema.Kind)
		}
		return nil
	}
	if _, err := uuid.Parse(ownerID); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidOwner, ownerID)
	}
	return nil
}

// recordHistory writes the import summary. Failures are logged only.
func (s *Service) recordHistory(ctx context.Context, result *ImportResult) {
	if s.history == nil {
		return
	}

	client := ClientFromContext(ctx)
	summary := ImportSummary{
		ImportID:  result.ImportID,
		Kind:      result.Kind,
		OwnerID:   result.OwnerID,
		FileName:  result.FileName,
		TotalRows: result.TotalRows,
		Inserted:  result.Inserted,
		Rejected:  result.Rejected,
		Duration:  result.Duration.Milliseconds(),
		IPAddress: client.IPAddress,
		UserAgent: client.UserAgent,
		CreatedAt: time.Now(),
	}

	if err := s.history.RecordImport(ctx, summary); err != nil {
		logging.FromContext(ctx).Warn("failed to record import history",
			"import_id", result.ImportID,
			"error", err,
		)
	}
}
