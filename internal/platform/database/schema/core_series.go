// Copyright (c) 2026 Galleria. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// CoreSeriesTable represents the 'core.series' table
type CoreSeriesTable struct {
	Table     string
	ID        string
	Slug      string
	Name      string
	CreatedAt string
}

// CoreSeries is the schema definition for core.series
var CoreSeries = CoreSeriesTable{
	Table:     "core.series",
	ID:        "id",
	Slug:      "slug",
	Name:      "name",
	CreatedAt: "createdat",
}

func (t CoreSeriesTable) Columns() []string {
	return []string{t.ID, t.Slug, t.Name, t.CreatedAt}
}
