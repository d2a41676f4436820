// Copyright (c) 2026 Galleria. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package album

import "context"

// # Lookup Criteria

// Filter narrows album lookups. Zero-valued fields are ignored; pointer
// fields distinguish "unset" from "must be false".
type Filter struct {
	ID       string
	Path     string
	ParentID *string

	// HasCover constrains the lookup to albums with (true) or without
	// (false) a denormalized cover picture.
	HasCover *bool

	IsPublic  *bool
	IsVisible *bool
}

// # Album Data Access

// AlbumRepository defines the data access contract for the album tree.
type AlbumRepository interface {

	/*
		FindByID returns the album with the given ID.

		Parameters:
		  - context: context.Context
		  - id: string (UUID)

		Returns:
		  - *Album: The hydrated tree node
		  - error: ErrNotFound if missing
	*/
	FindByID(context context.Context, id string) (*Album, error)

	/*
		FindFirst returns the first album matching the filter, ordered by
		creation time.

		Parameters:
		  - context: context.Context
		  - filter: Filter (Lookup criteria; at least one field must be set)

		Returns:
		  - *Album: The first matching node
		  - error: ErrNotFound if nothing matches
	*/
	FindFirst(context context.Context, filter Filter) (*Album, error)

	/*
		ListChildren returns the direct sub-albums of the given parent,
		ordered by creation time.

		Parameters:
		  - context: context.Context
		  - parentID: string (Owner album UUID)

		Returns:
		  - []*Album: Direct children in stable tree order
		  - error: Database retrieval failures
	*/
	ListChildren(context context.Context, parentID string) ([]*Album, error)

	/*
		ListRoots returns all albums without a parent, ordered by creation
		time.

		Returns:
		  - []*Album: Forest roots
		  - error: Database retrieval failures
	*/
	ListRoots(context context.Context) ([]*Album, error)

	/*
		ListBySeries returns all members of a series ordered by album date
		(dateless members last), with creation time breaking ties.

		Parameters:
		  - context: context.Context
		  - seriesID: string (Series UUID)

		Returns:
		  - []*Album: Members in chronological sequence
		  - error: Database retrieval failures
	*/
	ListBySeries(context context.Context, seriesID string) ([]*Album, error)

	/*
		Create persists a new album.

		Returns:
		  - error: apperr.Conflict on sibling slug collision, or storage failures
	*/
	Create(context context.Context, album *Album) error

	/*
		Update persists changes to an existing album.

		Returns:
		  - error: ErrNotFound if missing, apperr.Conflict on sibling slug
		    collision, or storage failures
	*/
	Update(context context.Context, album *Album) error

	/*
		UpdateSeriesPointers rewrites only the previous/next chain pointers
		of a single album without touching other fields.

		Parameters:
		  - context: context.Context
		  - id: string (Target UUID)
		  - previousID: *string (Predecessor in series, nil at the head)
		  - nextID: *string (Successor in series, nil at the tail)

		Returns:
		  - error: ErrNotFound if missing, or storage failures
	*/
	UpdateSeriesPointers(context context.Context, id string, previousID, nextID *string) error

	/*
		Delete removes an album. The database cascades removal to the whole
		subtree, its pictures, and their media rows.

		Returns:
		  - error: ErrNotFound if missing, or storage failures
	*/
	Delete(context context.Context, id string) error
}

// # Picture Data Access

// PictureRepository defines the data access contract for pictures.
type PictureRepository interface {

	/*
		FindByID returns the picture with the given ID.

		Returns:
		  - *Picture: The hydrated picture
		  - error: ErrNotFound if missing
	*/
	FindByID(context context.Context, id string) (*Picture, error)

	/*
		FindByPath returns the picture with the given materialized path.

		Returns:
		  - *Picture: The hydrated picture
		  - error: ErrNotFound if missing
	*/
	FindByPath(context context.Context, path string) (*Picture, error)

	/*
		ListByAlbum returns all pictures owned by an album, ordered by sort
		order with creation time breaking ties.

		Parameters:
		  - context: context.Context
		  - albumID: string (Owner UUID)
		  - publicOnly: bool (Exclude non-public pictures)

		Returns:
		  - []*Picture: Ordered pictures
		  - error: Database retrieval failures
	*/
	ListByAlbum(context context.Context, albumID string, publicOnly bool) ([]*Picture, error)

	/*
		FirstByAlbum returns the first picture of an album in sort order.

		Returns:
		  - *Picture: The leading picture
		  - error: ErrNotFound if the album has no pictures
	*/
	FirstByAlbum(context context.Context, albumID string) (*Picture, error)

	/*
		Create persists a new picture.

		Returns:
		  - error: apperr.Conflict on sibling slug collision, or storage failures
	*/
	Create(context context.Context, picture *Picture) error

	/*
		Update persists changes to an existing picture.

		Returns:
		  - error: ErrNotFound if missing, or storage failures
	*/
	Update(context context.Context, picture *Picture) error

	/*
		Delete removes a picture. The database cascades removal to its media
		rows and nulls out any album cover references.

		Returns:
		  - error: ErrNotFound if missing, or storage failures
	*/
	Delete(context context.Context, id string) error
}

// # Series Data Access

// SeriesRepository defines the data access contract for series.
type SeriesRepository interface {

	/*
		FindByID returns the series with the given ID.

		Returns:
		  - *Series: The hydrated series
		  - error: ErrNotFound if missing
	*/
	FindByID(context context.Context, id string) (*Series, error)

	/*
		FindBySlug returns the series with the given slug.

		Returns:
		  - *Series: The hydrated series
		  - error: ErrNotFound if missing
	*/
	FindBySlug(context context.Context, slug string) (*Series, error)

	/*
		List returns one page of series ordered by name.

		Returns:
		  - []*Series: The requested page
		  - int: Total number of series across all pages
		  - error: Database retrieval failures
	*/
	List(context context.Context, limit, offset int) ([]*Series, int, error)

	/*
		Create persists a new series.

		Returns:
		  - error: apperr.Conflict on slug collision, or storage failures
	*/
	Create(context context.Context, series *Series) error
}
