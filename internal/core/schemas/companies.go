package schemas

import "github.com/JonMunkholm/bizdir/internal/core"

func init() {
	core.Register(Companies())
}

// Companies describes the company onboarding spreadsheet.
// The import owner is a category applied to rows that leave categoryId blank.
func Companies() core.ColumnSchema {
	return core.ColumnSchema{
		Kind:          core.KindCompany,
		Label:         "Companies",
		Sheet:         "Companies",
		Table:         "companies",
		OwnerColumn:   "category_id",
		UniqueColumns: []string{"cnpj", "email"},
		Columns: []core.ColumnSpec{
			{Name: "cnpj", Type: core.ColumnString, Required: true, MaxLength: 18, Width: 20},
			{Name: "name", Type: core.ColumnString, Required: true, MaxLength: 255, Width: 20},
			{Name: "email", Type: core.ColumnString, Required: true, MaxLength: 255, Format: "email", Width: 20},
			{Name: "categoryId", Type: core.ColumnString, Format: "uuid", Width: 20},
			{Name: "logo", Type: core.ColumnString, Format: "url", Width: 20},
			{Name: "tags", Type: core.ColumnStringList, MaxLength: 50, Width: 20},
			{Name: "description", Type: core.ColumnString, Width: 20},
			{Name: "street", Type: core.ColumnString, MaxLength: 255, Width: 20},
			{Name: "number", Type: core.ColumnString, MaxLength: 50, Width: 20},
			{Name: "district", Type: core.ColumnString, MaxLength: 255, Width: 20},
			{Name: "zipCode", Type: core.ColumnString, MaxLength: 10, Width: 20},
			{Name: "city", Type: core.ColumnString, MaxLength: 255, Width: 20},
			{Name: "state", Type: core.ColumnString, MaxLength: 2, Width: 20, Normalizer: NormalizeBrState},
			{Name: "whatsapp", Type: core.ColumnString, MaxLength: 20, Width: 20, Normalizer: NormalizePhone},
		},
	}
}
