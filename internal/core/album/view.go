// Copyright (c) 2026 Galleria. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package album

import (
	"context"
	"time"
)

// # API Projections

// Breadcrumb is one step in the ancestor trail of a view, ordered root
// first.
type Breadcrumb struct {
	Path  string `json:"path"`
	Title string `json:"title"`
}

// SubalbumView is the card projection of a direct child album.
type SubalbumView struct {
	Path        string     `json:"path"`
	Title       string     `json:"title"`
	RedirectURL string     `json:"redirect_url,omitempty"`
	Date        *time.Time `json:"date,omitempty"`
	IsPublic    bool       `json:"is_public"`
	Thumbnail   *MediaRef  `json:"thumbnail,omitempty"`
}

// PictureView is the gallery projection of a picture with its derived
// media variants.
type PictureView struct {
	Path  string     `json:"path"`
	Slug  string     `json:"slug"`
	Title string     `json:"title"`
	Media []MediaRef `json:"media"`
}

// AlbumView is the full API projection of an album: its own fields, the
// breadcrumb trail, sub-album cards, and picture galleries.
type AlbumView struct {
	Slug        string     `json:"slug"`
	Path        string     `json:"path"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Body        string     `json:"body"`
	RedirectURL string     `json:"redirect_url,omitempty"`
	Date        *time.Time `json:"date,omitempty"`
	Layout      Layout     `json:"layout"`

	Breadcrumb []Breadcrumb   `json:"breadcrumb"`
	Subalbums  []SubalbumView `json:"subalbums"`
	Pictures   []PictureView  `json:"pictures"`

	// SeriesSlug is set when the album belongs to a series.
	SeriesSlug string `json:"series_slug,omitempty"`
}

/*
View assembles the full API projection of an album.

Description: The breadcrumb is the reversed ancestor chain (root first, the
album itself excluded). Sub-albums and pictures are filtered to public
entries unless includeHidden is set; hidden sub-albums are additionally
dropped for anonymous views. Each sub-album card borrows the thumbnail
derivative of its cover picture when one exists.

Parameters:
  - context: context.Context
  - album: *Album (The node to project)
  - includeHidden: bool (Admin views see non-public and invisible content)

Returns:
  - *AlbumView: The assembled projection
  - error: Lookup failures while gathering relatives
*/
func (service *Service) View(context context.Context, album *Album, includeHidden bool) (*AlbumView, error) {

	view := &AlbumView{
		Slug:        album.Slug,
		Path:        album.Path,
		Title:       album.Title,
		Description: album.Description,
		Body:        album.Body,
		RedirectURL: album.RedirectURL,
		Date:        album.Date,
		Layout:      album.Layout,
		Breadcrumb:  []Breadcrumb{},
		Subalbums:   []SubalbumView{},
		Pictures:    []PictureView{},
	}

	// Breadcrumb: ancestors come back nearest-first, the trail reads
	// root-first.
	ancestors, err := service.Ancestors(context, album)
	if err != nil {
		return nil, err
	}
	for index := len(ancestors) - 1; index >= 0; index-- {
		view.Breadcrumb = append(view.Breadcrumb, Breadcrumb{
			Path:  ancestors[index].Path,
			Title: ancestors[index].Title,
		})
	}

	// Series slug lookup.
	if album.SeriesID != nil {
		series, err := service.seriesRepo.FindByID(context, *album.SeriesID)
		if err == nil {
			view.SeriesSlug = series.Slug
		}
	}

	// Sub-album cards.
	children, err := service.albumRepo.ListChildren(context, album.ID)
	if err != nil {
		return nil, err
	}
	for _, child := range children {
		if !includeHidden && (!child.IsPublic || !child.IsVisible) {
			continue
		}
		view.Subalbums = append(view.Subalbums, SubalbumView{
			Path:        child.Path,
			Title:       child.Title,
			RedirectURL: child.RedirectURL,
			Date:        child.Date,
			IsPublic:    child.IsPublic,
			Thumbnail:   service.thumbnailFor(context, child.CoverPictureID),
		})
	}

	// Picture galleries.
	pictures, err := service.pictureRepo.ListByAlbum(context, album.ID, !includeHidden)
	if err != nil {
		return nil, err
	}
	for _, picture := range pictures {
		view.Pictures = append(view.Pictures, PictureView{
			Path:  picture.Path,
			Slug:  picture.Slug,
			Title: picture.Title,
			Media: service.mediaFor(context, picture.ID),
		})
	}

	return view, nil
}

// thumbnailFor returns the thumbnail derivative of a cover picture, or nil
// when the cover is unset or not yet derived.
func (service *Service) thumbnailFor(context context.Context, coverPictureID *string) *MediaRef {

	if coverPictureID == nil || service.media == nil {
		return nil
	}

	refs, err := service.media.ListForPicture(context, *coverPictureID)
	if err != nil {
		service.logger.Debug("thumbnail lookup failed",
			"picture_id", *coverPictureID, "error", err)
		return nil
	}

	for _, ref := range refs {
		if ref.Role == "thumbnail" {
			thumbnail := ref
			return &thumbnail
		}
	}
	return nil
}

// mediaFor returns all derived media projections of a picture.
func (service *Service) mediaFor(context context.Context, pictureID string) []MediaRef {

	if service.media == nil {
		return []MediaRef{}
	}

	refs, err := service.media.ListForPicture(context, pictureID)
	if err != nil {
		service.logger.Debug("media lookup failed", "picture_id", pictureID, "error", err)
		return []MediaRef{}
	}
	if refs == nil {
		refs = []MediaRef{}
	}
	return refs
}
