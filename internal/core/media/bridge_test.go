// Copyright (c) 2026 Galleria. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package media_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/galleria/internal/core/album"
	"github.com/taibuivan/galleria/internal/core/media"
)

/*
TestAlbumBridge_ListForPicture projects stored artifacts into media refs,
mapping storage paths onto public URLs and reporting file sizes.
*/
func TestAlbumBridge_ListForPicture(t *testing.T) {
	repo := &memoryMedia{}
	store := newMemoryStorage()
	bridge := media.NewAlbumBridge(repo, store)

	specID := "spec-thumb"
	require.NoError(t, repo.Create(context.Background(), &media.Media{
		ID:        "m-1",
		PictureID: "pic-1",
		Role:      media.RoleOriginal,
		Format:    "jpeg",
		Width:     800,
		Height:    600,
		Src:       "pictures/2023/juhlat/dsc-0042.jpeg",
	}))
	require.NoError(t, repo.Create(context.Background(), &media.Media{
		ID:        "m-2",
		PictureID: "pic-1",
		SpecID:    &specID,
		Role:      "thumbnail",
		Format:    "jpeg",
		Width:     240,
		Height:    180,
		Src:       "previews/2023/juhlat/dsc-0042.thumbnail.jpeg",
	}))

	// Only the thumbnail file exists on disk; the original's size stays 0.
	require.NoError(t, store.Write("previews/2023/juhlat/dsc-0042.thumbnail.jpeg", []byte("thumbnail-bytes")))

	refs, err := bridge.ListForPicture(context.Background(), "pic-1")
	require.NoError(t, err)
	require.Len(t, refs, 2)

	assert.Equal(t, album.MediaRef{
		Role:   "original",
		Format: "jpeg",
		Width:  800,
		Height: 600,
		URL:    "/media/pictures/2023/juhlat/dsc-0042.jpeg",
	}, refs[0])

	assert.Equal(t, album.MediaRef{
		Role:     "thumbnail",
		Format:   "jpeg",
		Width:    240,
		Height:   180,
		URL:      "/media/previews/2023/juhlat/dsc-0042.thumbnail.jpeg",
		FileSize: int64(len("thumbnail-bytes")),
	}, refs[1])
}

/*
TestAlbumBridge_OriginalSrc returns the storage path of a picture's
original, or not-found when nothing was ingested.
*/
func TestAlbumBridge_OriginalSrc(t *testing.T) {
	repo := &memoryMedia{}
	bridge := media.NewAlbumBridge(repo, newMemoryStorage())

	require.NoError(t, repo.Create(context.Background(), &media.Media{
		ID:        "m-1",
		PictureID: "pic-1",
		Role:      media.RoleOriginal,
		Format:    "jpeg",
		Src:       "pictures/2023/juhlat/dsc-0042.jpeg",
	}))

	src, err := bridge.OriginalSrc(context.Background(), "pic-1")
	require.NoError(t, err)
	assert.Equal(t, "pictures/2023/juhlat/dsc-0042.jpeg", src)

	_, err = bridge.OriginalSrc(context.Background(), "pic-2")
	assert.Error(t, err)
}
