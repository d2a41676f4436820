// Copyright (c) 2026 Galleria. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package media

import "context"

// # Media Data Access

// MediaRepository defines the data access contract for media artifacts.
type MediaRepository interface {

	/*
		FindOriginal returns the original artifact of a picture.

		Returns:
		  - *Media: The original row
		  - error: ErrNotFound when the picture has no ingested original
	*/
	FindOriginal(context context.Context, pictureID string) (*Media, error)

	/*
		FindBySpec returns the variant a spec produced for a picture.

		Returns:
		  - *Media: The derived row
		  - error: ErrNotFound when the variant does not exist yet
	*/
	FindBySpec(context context.Context, pictureID, specID string) (*Media, error)

	/*
		ListByPicture returns all artifacts of a picture, original first,
		then derived variants by role.

		Returns:
		  - []*Media: All stored artifacts
		  - error: Database retrieval failures
	*/
	ListByPicture(context context.Context, pictureID string) ([]*Media, error)

	/*
		Create persists a new artifact row.

		Returns:
		  - error: apperr.Conflict when the (picture, spec) pair already
		    exists, or storage failures
	*/
	Create(context context.Context, media *Media) error

	/*
		DeleteByPicture removes all artifact rows of a picture.

		Returns:
		  - error: Storage failures (no rows is not an error)
	*/
	DeleteByPicture(context context.Context, pictureID string) error
}

// # Spec Data Access

// SpecRepository defines the data access contract for derivation specs.
type SpecRepository interface {

	/*
		FindByID returns the spec with the given ID.

		Returns:
		  - *Spec: The hydrated spec
		  - error: ErrNotFound if missing
	*/
	FindByID(context context.Context, id string) (*Spec, error)

	/*
		List returns all specs, active first, ordered by role.

		Returns:
		  - []*Spec: Every registered spec
		  - error: Database retrieval failures
	*/
	List(context context.Context) ([]*Spec, error)

	/*
		ListActive returns the specs applied during import, ordered by role.

		Returns:
		  - []*Spec: Active specs only
		  - error: Database retrieval failures
	*/
	ListActive(context context.Context) ([]*Spec, error)

	/*
		Create persists a new spec.

		Returns:
		  - error: Constraint or storage failures
	*/
	Create(context context.Context, spec *Spec) error

	/*
		Update persists changes to an existing spec.

		Returns:
		  - error: ErrNotFound if missing, or storage failures
	*/
	Update(context context.Context, spec *Spec) error
}
