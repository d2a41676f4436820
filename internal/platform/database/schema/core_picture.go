// Copyright (c) 2026 Galleria. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// CorePictureTable represents the 'core.picture' table
type CorePictureTable struct {
	Table     string
	ID        string
	AlbumID   string
	Slug      string
	Path      string
	Title     string
	SortOrder string
	IsPublic  string
	CreatedAt string
	UpdatedAt string
}

// CorePicture is the schema definition for core.picture
var CorePicture = CorePictureTable{
	Table:     "core.picture",
	ID:        "id",
	AlbumID:   "albumid",
	Slug:      "slug",
	Path:      "path",
	Title:     "title",
	SortOrder: "sortorder",
	IsPublic:  "ispublic",
	CreatedAt: "createdat",
	UpdatedAt: "updatedat",
}

func (t CorePictureTable) Columns() []string {
	return []string{
		t.ID, t.AlbumID, t.Slug, t.Path, t.Title, t.SortOrder, t.IsPublic,
		t.CreatedAt, t.UpdatedAt,
	}
}
