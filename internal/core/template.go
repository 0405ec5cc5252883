package core

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// DefaultColumnWidth is used for columns that declare no width.
const DefaultColumnWidth = 20

// TemplateFileName returns the download name of a schema's template.
func TemplateFileName(schema ColumnSchema) string {
	return fmt.Sprintf("%s_template.xlsx", schema.Kind)
}

// GenerateTemplate builds a header-only workbook for a schema.
// The single sheet is named after the schema and uses the declared column widths.
func GenerateTemplate(schema ColumnSchema) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := schema.Sheet
	if sheet == "" {
		sheet = schema.Label
	}
	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return nil, fmt.Errorf("generate template %s: %w", schema.Kind, err)
	}

	headers := make([]any, len(schema.Columns))
	for i, col := range schema.Columns {
		headers[i] = col.Name
	}
	if err := f.SetSheetRow(sheet, "A1", &headers); err != nil {
		return nil, fmt.Errorf("generate template %s: header row: %w", schema.Kind, err)
	}

	for i, col := range schema.Columns {
		name, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return nil, fmt.Errorf("generate template %s: %w", schema.Kind, err)
		}
		width := col.Width
		if width <= 0 {
			width = DefaultColumnWidth
		}
		if err := f.SetColWidth(sheet, name, name, width); err != nil {
			return nil, fmt.Errorf("generate template %s: width of %s: %w", schema.Kind, col.Name, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("generate template %s: %w", schema.Kind, err)
	}
	return buf.Bytes(), nil
}
