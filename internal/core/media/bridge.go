// Copyright (c) 2026 Galleria. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package media

import (
	"context"

	"github.com/taibuivan/galleria/internal/core/album"
	"github.com/taibuivan/galleria/internal/platform/storage"
)

// # Album Bridge

// AlbumBridge adapts the media store into the read-only [album.MediaSource]
// contract: original locations for date inference and URL-mapped media
// projections for album views.
type AlbumBridge struct {
	repo  MediaRepository
	store storage.Storage
}

// NewAlbumBridge constructs the bridge consumed by the album service.
func NewAlbumBridge(repo MediaRepository, store storage.Storage) *AlbumBridge {
	return &AlbumBridge{repo: repo, store: store}
}

// OriginalSrc returns the storage path of a picture's original file.
func (bridge *AlbumBridge) OriginalSrc(context context.Context, pictureID string) (string, error) {
	original, err := bridge.repo.FindOriginal(context, pictureID)
	if err != nil {
		return "", err
	}
	return original.Src, nil
}

// ListForPicture projects a picture's artifacts into album media refs,
// mapping storage paths onto public URLs.
func (bridge *AlbumBridge) ListForPicture(context context.Context, pictureID string) ([]album.MediaRef, error) {

	artifacts, err := bridge.repo.ListByPicture(context, pictureID)
	if err != nil {
		return nil, err
	}

	refs := make([]album.MediaRef, 0, len(artifacts))
	for _, artifact := range artifacts {
		ref := album.MediaRef{
			Role:   artifact.Role,
			Format: artifact.Format,
			Width:  artifact.Width,
			Height: artifact.Height,
			URL:    bridge.store.URLFor(artifact.Src),
		}
		// Best effort: a missing or unreadable file just reports no size.
		if size, err := bridge.store.Size(artifact.Src); err == nil {
			ref.FileSize = size
		}
		refs = append(refs, ref)
	}
	return refs, nil
}
