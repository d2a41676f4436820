// Copyright (c) 2026 Galleria. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// CoreMediaTable represents the 'core.media' table
type CoreMediaTable struct {
	Table     string
	ID        string
	PictureID string
	SpecID    string
	Role      string
	Format    string
	Width     string
	Height    string
	Src       string
	CreatedAt string
}

// CoreMedia is the schema definition for core.media
var CoreMedia = CoreMediaTable{
	Table:     "core.media",
	ID:        "id",
	PictureID: "pictureid",
	SpecID:    "specid",
	Role:      "role",
	Format:    "format",
	Width:     "width",
	Height:    "height",
	Src:       "src",
	CreatedAt: "createdat",
}

func (t CoreMediaTable) Columns() []string {
	return []string{
		t.ID, t.PictureID, t.SpecID, t.Role, t.Format, t.Width, t.Height,
		t.Src, t.CreatedAt,
	}
}
