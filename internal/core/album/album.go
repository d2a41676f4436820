// Copyright (c) 2026 Galleria. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package album defines the core domain entities for the Galleria content tree.

It manages the hierarchy of albums (each containing sub-albums and pictures),
their materialized paths, denormalized cover pictures, inferred dates, and
series chains.

Core Responsibility:

  - Tree: Albums form a forest via single parent links; every album caches
    its absolute path derived from ancestor slugs.
  - Consistency: Structural edits propagate through the family so paths,
    covers, and dates stay coherent.
  - Series: Albums can belong to an ordered series with denormalized
    previous/next pointers.

This package acts as the source of truth for all tree-related data models.
*/
package album

import "time"

// # Domain Enums

// Layout selects the frontend presentation style for an album.
type Layout string

const (
	// LayoutSimple renders sub-albums and pictures as a flat grid.
	LayoutSimple Layout = "simple"

	// LayoutYearly groups sub-albums by year headings.
	LayoutYearly Layout = "yearly"
)

// IsValid reports whether l is a recognised [Layout] value.
func (l Layout) IsValid() bool {
	switch l {
	case LayoutSimple, LayoutYearly:
		return true
	}
	return false
}

// # Core Entities

// Album is the central aggregate of the Galleria domain.
//
// Albums form a forest: an album with a nil ParentID is a root, and Path is
// the materialized absolute path derived from ancestor slugs. Path is
// recomputed on every save and must never be written directly.
type Album struct {
	ID       string  `json:"id"`
	ParentID *string `json:"parent_id,omitempty"`
	Slug     string  `json:"slug"` // URL path segment, unique among siblings
	Path     string  `json:"path"` // Materialized absolute path (derived, cached)

	Title       string `json:"title"`
	Description string `json:"description"`
	Body        string `json:"body"`         // Free-text content shown above sub-albums
	RedirectURL string `json:"redirect_url"` // If set, visitors are redirected here

	// CoverPictureID references a picture owned anywhere in the subtree.
	// It is selected lazily by bubbling up from descendants and cleared by
	// the database when the target picture is deleted.
	CoverPictureID *string `json:"cover_picture_id,omitempty"`

	IsPublic  bool `json:"is_public"`
	IsVisible bool `json:"is_visible"`

	// Date is the album's representative date, either set explicitly or
	// inferred from cover metadata and free text.
	Date *time.Time `json:"date,omitempty"`

	Layout Layout `json:"layout"`

	// # Series Chain (weak references)
	SeriesID           *string `json:"series_id,omitempty"`
	PreviousInSeriesID *string `json:"previous_in_series_id,omitempty"`
	NextInSeriesID     *string `json:"next_in_series_id,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsRoot reports whether the album is the root of its tree.
func (a *Album) IsRoot() bool {
	return a.ParentID == nil
}

// Series is an ordered collection of albums (e.g. a recurring event).
//
// Member ordering is denormalized onto the albums themselves as
// previous/next pointers and rewritten only by the resequencing step.
type Series struct {
	ID        string    `json:"id"`
	Slug      string    `json:"slug"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// # Field Identifiers (validation error reporting)

const (
	FieldTitle  = "title"
	FieldSlug   = "slug"
	FieldParent = "parent_id"
	FieldLayout = "layout"
	FieldPath   = "path"
)
