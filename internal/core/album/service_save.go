// Copyright (c) 2026 Galleria. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package album

import (
	"context"
	"strings"

	"github.com/taibuivan/galleria/internal/platform/apperr"
	"github.com/taibuivan/galleria/internal/platform/constants"
	"github.com/taibuivan/galleria/pkg/slug"
)

// # Save Pipeline

// saveOptions tunes one invocation of the internal save pipeline.
type saveOptions struct {

	// propagate re-saves the album's family after the album itself is
	// persisted. Nested saves never propagate, which bounds the cascade to
	// one level of fan-out.
	propagate bool

	// force persists the album even when the recompute changed nothing.
	// The triggering save always writes; nested family saves skip members
	// whose derived state is already correct.
	force bool
}

/*
Save runs the full save-and-propagate pipeline on an album.

Description: This is the single write path for albums. Every save:

 1. Derives the slug from the title when absent (roots get the fixed
    root slug).
 2. Rejects parent links that would make the album its own ancestor.
 3. Recomputes the materialized path from the parent chain.
 4. Selects a cover picture if none is set, bubbling up from sub-albums
    and falling back to the album's own first picture.
 5. Infers a date if none is set (EXIF, then description, then title).
 6. Persists the album (created or updated by ID presence).
 7. Re-saves owned pictures so their paths follow the album.
 8. Propagates: when the path changed the whole family (ancestors and
    descendants) is re-saved without further propagation; otherwise only
    the ancestors are refreshed. Members whose derived state is already
    correct are skipped to avoid redundant writes.
 9. Resequences the album's series when it belongs to one.

Propagation deliberately runs without a surrounding transaction: a failure
mid-cascade leaves earlier members updated, and the next save of any
member converges the tree again.

Parameters:
  - context: context.Context
  - album: *Album (New entity when ID row is absent, otherwise an update)

Returns:
  - error: Unprocessable on cycles, Conflict on sibling slug collisions,
    or persistence failures
*/
func (service *Service) Save(context context.Context, album *Album) error {
	return service.save(context, album, saveOptions{propagate: true, force: true})
}

// save implements the pipeline described on [Service.Save].
func (service *Service) save(context context.Context, album *Album, options saveOptions) error {

	// Slug derivation. Roots get a fixed marker slug that cannot collide
	// with user-entered titles.
	if album.Slug == "" && album.Title != "" {
		if album.IsRoot() {
			album.Slug = constants.RootAlbumSlug
		} else {
			album.Slug = slug.From(album.Title)
		}
	}
	if album.Layout == "" {
		album.Layout = LayoutSimple
	}

	// Cycle guard before the path walk would loop forever.
	if err := service.guardAgainstCycle(context, album); err != nil {
		return err
	}

	// Path recompute from the parent chain.
	previousPath := album.Path
	newPath, err := service.makePath(context, album)
	if err != nil {
		return err
	}
	album.Path = newPath
	pathChanged := album.Path != previousPath

	// Lazy cover selection.
	coverAssigned := false
	if album.CoverPictureID == nil {
		cover, err := service.selectCoverPicture(context, album)
		if err != nil {
			return err
		}
		if cover != nil {
			album.CoverPictureID = cover
			coverAssigned = true
		}
	}

	// Lazy date inference. Best effort: absence of a date is not an error.
	dateAssigned := false
	if album.Date == nil {
		if inferred := service.inferDate(context, album); inferred != nil {
			album.Date = inferred
			dateAssigned = true
		}
	}

	// Skip rule: a nested family save with nothing to change is a no-op.
	changed := pathChanged || coverAssigned || dateAssigned
	if !options.force && !changed {
		return nil
	}

	// Persist: ID presence in the store decides create vs update.
	if err := service.persistAlbum(context, album); err != nil {
		return err
	}

	// Owned pictures follow the album's path.
	pictures, err := service.pictureRepo.ListByAlbum(context, album.ID, false)
	if err != nil {
		return err
	}
	for _, picture := range pictures {
		if err := service.savePicture(context, picture, album); err != nil {
			return err
		}
	}

	if options.propagate {
		if err := service.propagate(context, album, pathChanged); err != nil {
			return err
		}

		if album.SeriesID != nil {
			if err := service.ResequenceSeries(context, *album.SeriesID); err != nil {
				return err
			}
		}
	}

	return nil
}

// persistAlbum creates or updates the row depending on whether it exists.
func (service *Service) persistAlbum(context context.Context, album *Album) error {

	if _, err := service.albumRepo.FindByID(context, album.ID); err != nil {
		if apperr.IsNotFound(err) {
			return service.albumRepo.Create(context, album)
		}
		return err
	}

	return service.albumRepo.Update(context, album)
}

// propagate re-saves the family after the triggering album is persisted.
//
// A path change invalidates descendant paths and ancestor covers, so the
// whole family is walked. Otherwise only ancestors can be affected (a new
// cover or date may bubble up). Family members are saved without further
// propagation; breadth-first descendant order guarantees each member's
// parent is already at its final path when the member recomputes its own.
func (service *Service) propagate(context context.Context, album *Album, pathChanged bool) error {

	var family []*Album
	var err error
	if pathChanged {
		family, err = service.Family(context, album)
	} else {
		family, err = service.Ancestors(context, album)
	}
	if err != nil {
		return err
	}

	for _, member := range family {
		if err := service.save(context, member, saveOptions{}); err != nil {
			return err
		}
	}

	return nil
}

// # Path Computation

/*
guardAgainstCycle rejects parent links that would corrupt the tree.

Description: Walks the proposed parent chain to the root. Finding the album
itself on the way up means the edit would create a cycle; the path walk and
every traversal after it would never terminate, so the save is refused
before any write happens.

Returns:
  - error: apperr.Unprocessable when the album would become its own ancestor
*/
func (service *Service) guardAgainstCycle(context context.Context, album *Album) error {

	if album.ParentID == nil {
		return nil
	}
	if *album.ParentID == album.ID {
		return apperr.Unprocessable("An album cannot be its own parent")
	}

	currentID := *album.ParentID
	for {
		parent, err := service.albumRepo.FindByID(context, currentID)
		if err != nil {
			if apperr.IsNotFound(err) {
				return apperr.Unprocessable("Parent album does not exist")
			}
			return err
		}
		if parent.ID == album.ID {
			return apperr.Unprocessable("An album cannot be moved under its own descendant")
		}
		if parent.ParentID == nil {
			return nil
		}
		currentID = *parent.ParentID
	}
}

// makePath derives the album's materialized path from its parent chain.
//
// Roots live at "/". Children append their slug to the parent path; the
// root's bare "/" would produce a double slash, which is collapsed so
// first-level albums sit at "/slug".
func (service *Service) makePath(context context.Context, album *Album) (string, error) {

	if album.IsRoot() {
		return "/", nil
	}

	parent, err := service.albumRepo.FindByID(context, *album.ParentID)
	if err != nil {
		return "", err
	}

	return childPath(parent.Path, album.Slug), nil
}

// childPath joins a parent path and a slug, collapsing the root's double
// slash.
func childPath(parentPath, childSlug string) string {
	joined := parentPath + "/" + childSlug
	if strings.HasPrefix(joined, "//") {
		joined = joined[1:]
	}
	return joined
}

// # Cover Selection

/*
selectCoverPicture picks a representative picture for an album.

Description: Sub-albums win over own pictures: the first direct child (in
tree order) that already carries a cover lends it upward, so a year album
shows the cover of its first event. An album with no covered children
falls back to its own first picture. Albums with neither stay coverless
until content arrives.

Returns:
  - *string: Picture UUID to use as cover, or nil when none is available
  - error: Lookup failures (missing pictures are not errors)
*/
func (service *Service) selectCoverPicture(context context.Context, album *Album) (*string, error) {

	// Bubble up from the first covered sub-album.
	children, err := service.albumRepo.ListChildren(context, album.ID)
	if err != nil {
		return nil, err
	}
	for _, child := range children {
		if child.CoverPictureID != nil {
			cover := *child.CoverPictureID
			return &cover, nil
		}
	}

	// Fall back to the album's own leading picture.
	first, err := service.pictureRepo.FirstByAlbum(context, album.ID)
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}

	cover := first.ID
	return &cover, nil
}

// # Picture Path Maintenance

// preparePicture derives the slug and materialized path of a picture from
// its owning album.
func (service *Service) preparePicture(picture *Picture, owner *Album) {
	if picture.Slug == "" && picture.Title != "" {
		picture.Slug = slug.From(picture.Title)
	}
	picture.Path = childPath(owner.Path, picture.Slug)
}

// savePicture re-derives a picture's path and persists it only when the
// path actually moved.
func (service *Service) savePicture(context context.Context, picture *Picture, owner *Album) error {

	previousPath := picture.Path
	service.preparePicture(picture, owner)
	if picture.Path == previousPath {
		return nil
	}

	return service.pictureRepo.Update(context, picture)
}
