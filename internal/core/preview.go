package core

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/JonMunkholm/bizdir/internal/logging"
)

// Sample limits
const (
	maxValidSamples     = 10
	maxErrorSamples     = 20
	maxDuplicateSamples = 10
)

// PreviewSummary contains the counts of an import dry run.
type PreviewSummary struct {
	TotalRows       int `json:"totalRows"`
	ValidRows       int `json:"validRows"`
	ErrorRows       int `json:"errorRows"`
	DuplicateInFile int `json:"duplicateInFile"`
}

// DuplicatePreview lists the lines sharing a value in a unique column.
type DuplicatePreview struct {
	Column string `json:"column"`
	Value  string `json:"value"`
	Lines  []int  `json:"lines"`
}

// PreviewResponse is the result of validating a spreadsheet without persisting it.
type PreviewResponse struct {
	Kind             EntityKind         `json:"kind"`
	Summary          PreviewSummary     `json:"summary"`
	ValidSamples     []Record           `json:"validSamples"`
	ErrorSamples     []RejectedRow      `json:"errorSamples"`
	DuplicateSamples []DuplicatePreview `json:"duplicateSamples"`
	ProcessingTimeMs int64              `json:"processingTimeMs"`
}

// Preview runs the import pipeline up to validation and reports what an import would do.
// Nothing is written. File level failures are returned exactly as Import returns them.
func (s *Service) Preview(ctx context.Context, kind EntityKind, fileName string, data []byte) (*PreviewResponse, error) {
	start := time.Now()

	schema, err := Lookup(kind)
	if err != nil {
		return nil, err
	}

	records, rejected, err := readRecords(ctx, schema, fileName, data)
	if err != nil {
		return nil, err
	}

	resp := &PreviewResponse{
		Kind: kind,
		Summary: PreviewSummary{
			TotalRows: len(records) + len(rejected),
			ValidRows: len(records),
			ErrorRows: len(rejected),
		},
		ValidSamples:     records[:min(len(records), maxValidSamples)],
		ErrorSamples:     rejected[:min(len(rejected), maxErrorSamples)],
		DuplicateSamples: []DuplicatePreview{},
	}

	for _, dup := range findDuplicates(schema, records) {
		resp.Summary.DuplicateInFile += len(dup.Lines) - 1
		if len(resp.DuplicateSamples) < maxDuplicateSamples {
			resp.DuplicateSamples = append(resp.DuplicateSamples, dup)
		}
	}

	resp.ProcessingTimeMs = time.Since(start).Milliseconds()

	logging.WithFields(ctx, "kind", kind, "file", fileName).Info("import preview",
		"valid", resp.Summary.ValidRows,
		"errors", resp.Summary.ErrorRows,
		"duplicates", resp.Summary.DuplicateInFile,
	)
	return resp, nil
}

// findDuplicates groups valid records sharing a value in any unique column.
// Values are compared case-insensitively. Results are ordered by first line.
func findDuplicates(schema ColumnSchema, records []Record) []DuplicatePreview {
	var dups []DuplicatePreview

	for _, col := range schema.UniqueColumns {
		seen := make(map[string][]int)
		var order []string
		for _, rec := range records {
			v := strings.ToLower(rec.Text[col])
			if v == "" {
				continue
			}
			if _, ok := seen[v]; !ok {
				order = append(order, v)
			}
			seen[v] = append(seen[v], rec.Line)
		}
		for _, v := range order {
			if lines := seen[v]; len(lines) > 1 {
				dups = append(dups, DuplicatePreview{Column: col, Value: v, Lines: lines})
			}
		}
	}

	sort.SliceStable(dups, func(i, j int) bool {
		return dups[i].Lines[0] < dups[j].Lines[0]
	})
	return dups
}
