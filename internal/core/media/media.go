// Copyright (c) 2026 Galleria. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package media implements the derivation engine for picture files.

Every picture owns one original file and any number of derived variants
(thumbnails, previews). Variants are produced by applying an active
[Spec] to the original; both originals and variants live at canonical
storage paths that are reproducible from the picture's content path alone,
so a rebuilt database can always re-locate its files.

Core Responsibilities:

  - Registry: CRUD over derivation specs (role, bounding box, format,
    quality).
  - Ingestion: Idempotent get-or-create of originals from uploaded or
    pre-placed files.
  - Derivation: Idempotent get-or-create of one variant per (picture,
    spec) pair.
  - Bridging: Read-only projections for the album domain (covers,
    thumbnails, date inference).
*/
package media

import (
	"time"

	"github.com/taibuivan/galleria/internal/platform/constants"
)

// # Roles & Formats

const (
	// RoleOriginal marks the ingested source file of a picture.
	RoleOriginal = "original"

	// RoleThumbnail and RolePreview are the conventional derived roles.
	RoleThumbnail = "thumbnail"
	RolePreview   = "preview"
)

// # Core Entities

// Media is one stored artifact of a picture: the original or a derived
// variant produced by a spec.
type Media struct {
	ID        string `json:"id"`
	PictureID string `json:"picture_id"`

	// SpecID links a derived variant to the spec that produced it; the
	// original carries no spec.
	SpecID *string `json:"spec_id,omitempty"`

	Role   string `json:"role"`
	Format string `json:"format"`
	Width  int    `json:"width"`
	Height int    `json:"height"`

	// Src is the canonical storage path of the file.
	Src string `json:"src"`

	CreatedAt time.Time `json:"created_at"`
}

// IsOriginal reports whether the artifact is the picture's source file.
func (m *Media) IsOriginal() bool {
	return m.Role == RoleOriginal
}

// Spec describes how to derive one variant from an original: the target
// role, a bounding box the result must fit inside, and encoding options.
//
// Output formats are limited to jpeg and png. WebP sources decode fine,
// but encoding WebP needs cgo bindings the build intentionally avoids.
type Spec struct {
	ID        string `json:"id"`
	Role      string `json:"role"`
	MaxWidth  int    `json:"max_width"`
	MaxHeight int    `json:"max_height"`
	Format    string `json:"format"`
	Quality   int    `json:"quality"`

	// Active specs are applied during import; retired specs keep their
	// existing variants resolvable.
	Active bool `json:"active"`

	CreatedAt time.Time `json:"created_at"`
}

// # Canonical Paths
//
// Storage paths are pure functions of the picture's content path, never of
// database identity. "pictures/2023/juhlat/dsc-0042.jpeg" can be derived
// again from scratch after a full database rebuild.

// OriginalPath returns the canonical storage path of a picture's original.
func OriginalPath(picturePath string) string {
	return constants.MediaDirPictures + picturePath + ".jpeg"
}

// DerivedPath returns the canonical storage path of a derived variant.
func DerivedPath(picturePath, role, format string) string {
	return constants.MediaDirPreviews + picturePath + "." + role + "." + format
}

// ArchivePath returns the canonical storage path of an album's zip export.
func ArchivePath(albumPath string) string {
	return constants.MediaDirDownloads + albumPath + ".zip"
}

// # Field Identifiers (validation error reporting)

const (
	FieldRole      = "role"
	FieldFormat    = "format"
	FieldMaxWidth  = "max_width"
	FieldMaxHeight = "max_height"
	FieldQuality   = "quality"
)
