package schemas

import "github.com/JonMunkholm/bizdir/internal/core"

func init() {
	core.Register(Products())
}

// Products describes the product spreadsheet. Every import belongs to one company.
func Products() core.ColumnSchema {
	return core.ColumnSchema{
		Kind:          core.KindProduct,
		Label:         "Products",
		Sheet:         "Products",
		Table:         "products",
		OwnerColumn:   "company_id",
		OwnerRequired: true,
		Columns: []core.ColumnSpec{
			{Name: "name", Type: core.ColumnString, Required: true, MaxLength: 100, Width: 30},
			{Name: "description", Type: core.ColumnString, MaxLength: 250, Width: 50},
			{Name: "regularPrice", Type: core.ColumnDecimal, Width: 15},
			{Name: "promotionalPrice", Type: core.ColumnDecimal, Width: 15},
			{Name: "images", DBColumn: "images", Type: core.ColumnStringList, Format: "url", Width: 50},
		},
	}
}
