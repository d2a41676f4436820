// Copyright (c) 2026 Galleria. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package album

import (
	"context"
	"strings"

	"github.com/taibuivan/galleria/internal/platform/apperr"
	"github.com/taibuivan/galleria/pkg/pointer"
)

// # Path Resolution

// ResolutionKind tags what a content path resolved to.
type ResolutionKind string

const (
	ResolutionSeries  ResolutionKind = "series"
	ResolutionPicture ResolutionKind = "picture"
	ResolutionAlbum   ResolutionKind = "album"
)

// Resolution is the tagged result of resolving a content path. Exactly the
// fields implied by Kind are populated; a picture hit also carries its
// owning album.
type Resolution struct {
	Kind    ResolutionKind `json:"kind"`
	Series  *Series        `json:"series,omitempty"`
	Album   *Album         `json:"album,omitempty"`
	Picture *Picture       `json:"picture,omitempty"`
}

// seriesPathPrefix namespaces series under the content path space so they
// never collide with album slugs.
const seriesPathPrefix = "/series/"

/*
ResolvePath maps a content path onto the entity living at that address.

Description: Candidates are tried in a fixed priority order:

 1. Series: paths under "/series/" resolve by series slug.
 2. Picture: an exact picture path hit resolves to the picture together
    with its owning album. The owner must already carry a cover; a
    coverless owner means derivation has not caught up yet and the hit is
    reported as not found rather than half-rendered.
 3. Album: an exact album path hit.

Parameters:
  - context: context.Context
  - path: string (Absolute content path, e.g. "/2023/juhlat/dsc-0042")

Returns:
  - *Resolution: The tagged entity at the path
  - error: apperr.NotFound when nothing lives there
*/
func (service *Service) ResolvePath(context context.Context, path string) (*Resolution, error) {

	path = normalizePath(path)

	// 1. Series namespace.
	if slug, ok := strings.CutPrefix(path, seriesPathPrefix); ok {
		series, err := service.seriesRepo.FindBySlug(context, strings.Trim(slug, "/"))
		if err != nil {
			return nil, err
		}
		return &Resolution{Kind: ResolutionSeries, Series: series}, nil
	}

	// 2. Picture with a cover-carrying owner.
	picture, err := service.pictureRepo.FindByPath(context, path)
	if err == nil {
		owner, err := service.albumRepo.FindFirst(context, Filter{
			ID:       picture.AlbumID,
			HasCover: pointer.To(true),
		})
		if err != nil {
			return nil, err
		}
		return &Resolution{Kind: ResolutionPicture, Album: owner, Picture: picture}, nil
	}
	if !apperr.IsNotFound(err) {
		return nil, err
	}

	// 3. Plain album.
	album, err := service.albumRepo.FindFirst(context, Filter{Path: path})
	if err != nil {
		return nil, err
	}
	return &Resolution{Kind: ResolutionAlbum, Album: album}, nil
}

// normalizePath canonicalizes an incoming content path: a leading slash is
// guaranteed and trailing slashes are dropped (except for the bare root).
func normalizePath(path string) string {
	if path == "" {
		return "/"
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	if len(path) > 1 {
		path = strings.TrimRight(path, "/")
		if path == "" {
			path = "/"
		}
	}
	return path
}
