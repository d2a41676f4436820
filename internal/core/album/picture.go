// Copyright (c) 2026 Galleria. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package album

import "time"

// # Picture Entity

// Picture is a single photograph owned by exactly one album.
//
// Like albums, pictures carry a materialized Path derived from the owning
// album's path plus their own slug. The path is recomputed whenever the
// owning album is saved.
type Picture struct {
	ID      string `json:"id"`
	AlbumID string `json:"album_id"`
	Slug    string `json:"slug"`
	Path    string `json:"path"`

	Title string `json:"title"`

	// SortOrder positions the picture within its album. Lower comes first;
	// ties break on creation time.
	SortOrder int `json:"sort_order"`

	IsPublic bool `json:"is_public"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
