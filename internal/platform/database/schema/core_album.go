// Copyright (c) 2026 Galleria. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package schema centralizes physical table and column names so queries are
// assembled from constants instead of string literals.
package schema

// CoreAlbumTable represents the 'core.album' table
type CoreAlbumTable struct {
	Table            string
	ID               string
	ParentID         string
	Slug             string
	Path             string
	Title            string
	Description      string
	Body             string
	RedirectURL      string
	CoverPictureID   string
	IsPublic         string
	IsVisible        string
	Date             string
	Layout           string
	SeriesID         string
	PreviousInSeries string
	NextInSeries     string
	CreatedAt        string
	UpdatedAt        string
}

// CoreAlbum is the schema definition for core.album
var CoreAlbum = CoreAlbumTable{
	Table:            "core.album",
	ID:               "id",
	ParentID:         "parentid",
	Slug:             "slug",
	Path:             "path",
	Title:            "title",
	Description:      "description",
	Body:             "body",
	RedirectURL:      "redirecturl",
	CoverPictureID:   "coverpictureid",
	IsPublic:         "ispublic",
	IsVisible:        "isvisible",
	Date:             "date",
	Layout:           "layout",
	SeriesID:         "seriesid",
	PreviousInSeries: "previousinseriesid",
	NextInSeries:     "nextinseriesid",
	CreatedAt:        "createdat",
	UpdatedAt:        "updatedat",
}

func (t CoreAlbumTable) Columns() []string {
	return []string{
		t.ID, t.ParentID, t.Slug, t.Path, t.Title, t.Description, t.Body,
		t.RedirectURL, t.CoverPictureID, t.IsPublic, t.IsVisible, t.Date,
		t.Layout, t.SeriesID, t.PreviousInSeries, t.NextInSeries,
		t.CreatedAt, t.UpdatedAt,
	}
}
