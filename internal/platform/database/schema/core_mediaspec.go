// Copyright (c) 2026 Galleria. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// CoreMediaSpecTable represents the 'core.mediaspec' table
type CoreMediaSpecTable struct {
	Table     string
	ID        string
	Role      string
	MaxWidth  string
	MaxHeight string
	Format    string
	Quality   string
	Active    string
	CreatedAt string
}

// CoreMediaSpec is the schema definition for core.mediaspec
var CoreMediaSpec = CoreMediaSpecTable{
	Table:     "core.mediaspec",
	ID:        "id",
	Role:      "role",
	MaxWidth:  "maxwidth",
	MaxHeight: "maxheight",
	Format:    "format",
	Quality:   "quality",
	Active:    "active",
	CreatedAt: "createdat",
}

func (t CoreMediaSpecTable) Columns() []string {
	return []string{
		t.ID, t.Role, t.MaxWidth, t.MaxHeight, t.Format, t.Quality, t.Active,
		t.CreatedAt,
	}
}
