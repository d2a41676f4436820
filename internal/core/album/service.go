// Copyright (c) 2026 Galleria. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package album

import (
	"context"
	"log/slog"

	"github.com/taibuivan/galleria/internal/platform/validate"
	"github.com/taibuivan/galleria/pkg/slug"
	"github.com/taibuivan/galleria/pkg/uuid"
)

// # Media Collaboration

// MediaRef is a lightweight projection of a derived media artifact, used
// when assembling album views for the API.
type MediaRef struct {
	Role   string `json:"role"`
	Format string `json:"format"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	URL    string `json:"url"`

	// FileSize is the artifact's byte size, 0 when the file is unreadable.
	FileSize int64 `json:"file_size,omitempty"`
}

// MediaSource is the read-only view of the media domain the album service
// needs. It is satisfied by the media package's album bridge; defining the
// contract here keeps the dependency pointing in one direction.
type MediaSource interface {

	// OriginalSrc returns the storage path of a picture's original file.
	OriginalSrc(context context.Context, pictureID string) (string, error)

	// ListForPicture returns the derived media projections for a picture.
	ListForPicture(context context.Context, pictureID string) ([]MediaRef, error)
}

// MediaPurger removes all media artifacts (files and rows) of a picture.
// It is satisfied by the media derivation engine.
type MediaPurger interface {
	PurgePicture(context context.Context, pictureID string) error
}

// # Service Layer

// Service orchestrates the content tree: album and picture lifecycle,
// materialized paths, cover selection, date inference, save propagation,
// series resequencing, and path resolution.
type Service struct {
	albumRepo   AlbumRepository
	pictureRepo PictureRepository
	seriesRepo  SeriesRepository

	media  MediaSource
	purger MediaPurger

	opener OriginalOpener
	exif   CaptureTimeSource
	logger *slog.Logger
}

// NewService constructs a new [Service] with its required collaborators.
//
// media, purger, opener, and exif may be nil in tests; cover thumbnails,
// media purging, and EXIF date inference are then skipped.
func NewService(
	albumRepo AlbumRepository,
	pictureRepo PictureRepository,
	seriesRepo SeriesRepository,
	media MediaSource,
	purger MediaPurger,
	opener OriginalOpener,
	exif CaptureTimeSource,
	logger *slog.Logger,
) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		albumRepo:   albumRepo,
		pictureRepo: pictureRepo,
		seriesRepo:  seriesRepo,
		media:       media,
		purger:      purger,
		opener:      opener,
		exif:        exif,
		logger:      logger,
	}
}

// # Album Lookups

/*
GetAlbum fetches a single album by UUID.

Returns:
  - *Album: The hydrated tree node
  - error: ErrNotFound if no match is found
*/
func (service *Service) GetAlbum(context context.Context, id string) (*Album, error) {
	return service.albumRepo.FindByID(context, id)
}

/*
GetAlbumByPath fetches a single album by its materialized path.
*/
func (service *Service) GetAlbumByPath(context context.Context, path string) (*Album, error) {
	return service.albumRepo.FindFirst(context, Filter{Path: path})
}

/*
ListChildren returns the direct sub-albums of an album in tree order.
*/
func (service *Service) ListChildren(context context.Context, parentID string) ([]*Album, error) {
	return service.albumRepo.ListChildren(context, parentID)
}

/*
ListPictures returns an album's pictures in presentation order.
*/
func (service *Service) ListPictures(context context.Context, albumID string, publicOnly bool) ([]*Picture, error) {
	return service.pictureRepo.ListByAlbum(context, albumID, publicOnly)
}

// # Tree Traversal

/*
Ancestors returns the chain of albums above the given one, nearest first.

Description: Walks parent links one row at a time. The tree is shallow in
practice (events under years under a root), so the per-level round-trip is
preferred over a recursive CTE that would bypass the repository contract.

Parameters:
  - context: context.Context
  - album: *Album (Starting node, excluded from the result)

Returns:
  - []*Album: Ancestors ordered nearest to root
  - error: Lookup failures while climbing
*/
func (service *Service) Ancestors(context context.Context, album *Album) ([]*Album, error) {

	var ancestors []*Album

	current := album
	for current.ParentID != nil {
		parent, err := service.albumRepo.FindByID(context, *current.ParentID)
		if err != nil {
			return nil, err
		}
		ancestors = append(ancestors, parent)
		current = parent
	}

	return ancestors, nil
}

/*
Descendants returns every album below the given one in breadth-first order.

Description: Uses an explicit queue rather than recursion so arbitrarily
deep trees cannot exhaust the stack. Breadth-first order also guarantees
parents are visited before children, which save propagation relies on when
recomputing paths.

Parameters:
  - context: context.Context
  - album: *Album (Starting node, excluded from the result)

Returns:
  - []*Album: Descendants, parents always before their children
  - error: Lookup failures while expanding the frontier
*/
func (service *Service) Descendants(context context.Context, album *Album) ([]*Album, error) {

	var descendants []*Album

	// Explicit FIFO frontier
	queue := []*Album{album}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		children, err := service.albumRepo.ListChildren(context, current.ID)
		if err != nil {
			return nil, err
		}

		descendants = append(descendants, children...)
		queue = append(queue, children...)
	}

	return descendants, nil
}

/*
Family returns the ancestors and descendants of an album, excluding the
album itself. Ancestors come first, nearest to root, followed by the
breadth-first descendants.
*/
func (service *Service) Family(context context.Context, album *Album) ([]*Album, error) {

	ancestors, err := service.Ancestors(context, album)
	if err != nil {
		return nil, err
	}

	descendants, err := service.Descendants(context, album)
	if err != nil {
		return nil, err
	}

	return append(ancestors, descendants...), nil
}

// # Album Management

/*
CreateAlbum initialises a new album and runs the full save pipeline.

Description: Validates business attributes, generates a stable UUID v7
identity, then delegates to [Service.Save] so the new node immediately
gets a materialized path, cover, and inferred date, and its ancestors are
refreshed.

Parameters:
  - context: context.Context
  - album: *Album (The entity to be persisted)

Returns:
  - error: Validation, conflict, or persistence errors
*/
func (service *Service) CreateAlbum(context context.Context, album *Album) error {

	// Business attribute validation
	validator := &validate.Validator{}
	validator.Required(FieldTitle, album.Title).MaxLen(FieldTitle, album.Title, 500)

	if album.Layout == "" {
		album.Layout = LayoutSimple
	}
	validator.OneOf(FieldLayout, string(album.Layout),
		string(LayoutSimple),
		string(LayoutYearly),
	)

	if err := validator.Err(); err != nil {
		return err
	}

	// Identity generation
	if album.ID == "" {
		album.ID = uuid.New()
	}

	return service.Save(context, album)
}

/*
UpdateAlbum applies modifications to an existing album and re-runs the
save pipeline so derived state stays coherent.

Parameters:
  - context: context.Context
  - album: *Album (Target ID and updated attributes)

Returns:
  - error: Validation, conflict, or persistence errors
*/
func (service *Service) UpdateAlbum(context context.Context, album *Album) error {

	// Integrity validation for updated fields
	validator := &validate.Validator{}
	if album.Title != "" {
		validator.MaxLen(FieldTitle, album.Title, 500)
	}
	if album.Layout != "" {
		validator.OneOf(FieldLayout, string(album.Layout),
			string(LayoutSimple),
			string(LayoutYearly),
		)
	}
	if err := validator.Err(); err != nil {
		return err
	}

	return service.Save(context, album)
}

/*
RefreshAlbum re-runs the full save pipeline on an album by ID.

Description: Used after media ingestion so the owner (and its ancestors)
can absorb a freshly derived cover or EXIF date.
*/
func (service *Service) RefreshAlbum(context context.Context, albumID string) error {

	album, err := service.albumRepo.FindByID(context, albumID)
	if err != nil {
		return err
	}
	return service.Save(context, album)
}

/*
DeleteAlbum removes an album and its entire subtree.

Description: Row removal cascades through the database to sub-albums,
pictures, and media rows. Media files of the subtree's pictures are purged
from storage first so they do not leak when the rows disappear.

Parameters:
  - context: context.Context
  - id: string (UUID)

Returns:
  - error: ErrNotFound if missing, or persistence errors
*/
func (service *Service) DeleteAlbum(context context.Context, id string) error {

	album, err := service.albumRepo.FindByID(context, id)
	if err != nil {
		return err
	}

	// Purge media files for the whole subtree before the rows cascade away.
	if service.purger != nil {
		subtree := append([]*Album{album}, mustDescendants(service, context, album)...)
		for _, member := range subtree {
			pictures, err := service.pictureRepo.ListByAlbum(context, member.ID, false)
			if err != nil {
				return err
			}
			for _, picture := range pictures {
				if err := service.purger.PurgePicture(context, picture.ID); err != nil {
					service.logger.Warn("media purge failed during album delete",
						"picture_id", picture.ID, "error", err)
				}
			}
		}
	}

	return service.albumRepo.Delete(context, id)
}

// mustDescendants returns descendants or an empty slice on lookup failure.
// Delete proceeds either way; missing rows will be cascaded regardless.
func mustDescendants(service *Service, context context.Context, album *Album) []*Album {
	descendants, err := service.Descendants(context, album)
	if err != nil {
		service.logger.Warn("descendant walk failed during album delete",
			"album_id", album.ID, "error", err)
		return nil
	}
	return descendants
}

// # Picture Management

/*
GetPicture fetches a single picture by UUID.
*/
func (service *Service) GetPicture(context context.Context, id string) (*Picture, error) {
	return service.pictureRepo.FindByID(context, id)
}

/*
CreatePicture initialises a new picture under an album.

Description: Generates identity and slug, computes the materialized path
from the owning album, persists the picture, and then re-saves the owning
album without propagation so its cover and date can absorb the new
arrival.

Parameters:
  - context: context.Context
  - picture: *Picture (AlbumID and metadata; slug derived from title if empty)

Returns:
  - error: Validation, conflict, or persistence errors
*/
func (service *Service) CreatePicture(context context.Context, picture *Picture) error {

	validator := &validate.Validator{}
	validator.Required(FieldParent, picture.AlbumID)
	if err := validator.Err(); err != nil {
		return err
	}

	owner, err := service.albumRepo.FindByID(context, picture.AlbumID)
	if err != nil {
		return err
	}

	if picture.ID == "" {
		picture.ID = uuid.New()
	}
	service.preparePicture(picture, owner)

	if err := service.pictureRepo.Create(context, picture); err != nil {
		return err
	}

	// Absorb the new picture into the owner's cover and date.
	return service.save(context, owner, saveOptions{})
}

/*
DeletePicture removes a picture, its media rows, and its media files.

Description: Storage artifacts are purged first, then the row is deleted
(media rows cascade, cover references are nulled). The owning album is
re-saved with propagation afterwards: cover references up the ancestor
chain were nulled too, and the fresh cover must bubble back up.

Parameters:
  - context: context.Context
  - id: string (UUID)

Returns:
  - error: ErrNotFound if missing, or persistence errors
*/
func (service *Service) DeletePicture(context context.Context, id string) error {

	picture, err := service.pictureRepo.FindByID(context, id)
	if err != nil {
		return err
	}

	if service.purger != nil {
		if err := service.purger.PurgePicture(context, id); err != nil {
			return err
		}
	}

	if err := service.pictureRepo.Delete(context, id); err != nil {
		return err
	}

	// Re-select the owner's cover now that the picture is gone. The full
	// propagating save lets ancestors that borrowed the deleted cover
	// re-bubble a replacement.
	owner, err := service.albumRepo.FindByID(context, picture.AlbumID)
	if err != nil {
		return err
	}
	return service.Save(context, owner)
}

// # Series Management

/*
GetSeries fetches a single series by UUID.
*/
func (service *Service) GetSeries(context context.Context, id string) (*Series, error) {
	return service.seriesRepo.FindByID(context, id)
}

/*
ListSeries returns one page of series ordered by name, plus the total count.
*/
func (service *Service) ListSeries(context context.Context, limit, offset int) ([]*Series, int, error) {
	return service.seriesRepo.List(context, limit, offset)
}

/*
CreateSeries initialises a new series.
*/
func (service *Service) CreateSeries(context context.Context, series *Series) error {

	validator := &validate.Validator{}
	validator.Required(FieldTitle, series.Name).MaxLen(FieldTitle, series.Name, 500)
	if err := validator.Err(); err != nil {
		return err
	}

	if series.ID == "" {
		series.ID = uuid.New()
	}
	if series.Slug == "" {
		series.Slug = slug.From(series.Name)
	}

	return service.seriesRepo.Create(context, series)
}
