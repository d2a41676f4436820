// Copyright (c) 2026 Galleria. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package album_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/galleria/internal/core/album"
	"github.com/taibuivan/galleria/internal/platform/apperr"
)

// mapMediaSource serves canned media projections per picture.
type mapMediaSource struct {
	refs map[string][]album.MediaRef
}

func (s mapMediaSource) OriginalSrc(_ context.Context, _ string) (string, error) {
	return "", apperr.NotFound("Media")
}

func (s mapMediaSource) ListForPicture(_ context.Context, pictureID string) ([]album.MediaRef, error) {
	return s.refs[pictureID], nil
}

/*
TestService_View assembles the API projection: root-first breadcrumb,
visibility filtering, cover thumbnails on sub-album cards, and media on
picture galleries.
*/
func TestService_View(t *testing.T) {
	albums := newMemoryAlbums()
	pictures := newMemoryPictures()
	albums.pictures = pictures
	pictures.albums = albums
	series := newMemorySeries()

	source := mapMediaSource{refs: map[string][]album.MediaRef{}}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	service := album.NewService(albums, pictures, series, source, nil, nil, nil, logger)

	create := func(entity *album.Album) *album.Album {
		require.NoError(t, service.CreateAlbum(context.Background(), entity))
		stored, err := service.GetAlbum(context.Background(), entity.ID)
		require.NoError(t, err)
		return stored
	}

	root := create(&album.Album{Title: "Gallery", IsPublic: true, IsVisible: true})
	year := create(&album.Album{Title: "2023", ParentID: &root.ID, IsPublic: true, IsVisible: true})
	event := create(&album.Album{Title: "Juhlat", ParentID: &year.ID, IsPublic: true, IsVisible: true})
	create(&album.Album{Title: "Hidden", ParentID: &year.ID, IsPublic: true, IsVisible: false})
	create(&album.Album{Title: "Private", ParentID: &year.ID, IsPublic: false, IsVisible: true})

	cover := &album.Picture{AlbumID: event.ID, Slug: "dsc-0042", Title: "DSC 0042", IsPublic: true}
	require.NoError(t, service.CreatePicture(context.Background(), cover))
	secret := &album.Picture{AlbumID: year.ID, Slug: "secret", IsPublic: false}
	require.NoError(t, service.CreatePicture(context.Background(), secret))

	thumbnail := album.MediaRef{Role: "thumbnail", Format: "jpeg", Width: 240, Height: 180, URL: "/media/previews/2023/juhlat/dsc-0042.thumbnail.jpeg"}
	preview := album.MediaRef{Role: "preview", Format: "jpeg", Width: 1200, Height: 900, URL: "/media/previews/2023/juhlat/dsc-0042.preview.jpeg"}
	source.refs[cover.ID] = []album.MediaRef{thumbnail, preview}

	// Bubble the event cover up to the year so its card gets a thumbnail.
	require.NoError(t, service.RefreshAlbum(context.Background(), event.ID))
	year, err := service.GetAlbum(context.Background(), year.ID)
	require.NoError(t, err)

	t.Run("anonymous", func(t *testing.T) {
		view, err := service.View(context.Background(), year, false)
		require.NoError(t, err)

		assert.Equal(t, []album.Breadcrumb{{Path: "/", Title: "Gallery"}}, view.Breadcrumb)

		require.Len(t, view.Subalbums, 1, "hidden and private children are dropped")
		card := view.Subalbums[0]
		assert.Equal(t, "/2023/juhlat", card.Path)
		require.NotNil(t, card.Thumbnail)
		assert.Equal(t, thumbnail, *card.Thumbnail)

		assert.Empty(t, view.Pictures, "non-public pictures are dropped")
		assert.NotNil(t, view.Pictures, "empty collections stay serializable arrays")
	})

	t.Run("admin", func(t *testing.T) {
		view, err := service.View(context.Background(), year, true)
		require.NoError(t, err)

		assert.Len(t, view.Subalbums, 3)
		require.Len(t, view.Pictures, 1)
		assert.Equal(t, "secret", view.Pictures[0].Slug)
	})

	t.Run("event_gallery", func(t *testing.T) {
		stored, err := service.GetAlbum(context.Background(), event.ID)
		require.NoError(t, err)

		view, err := service.View(context.Background(), stored, false)
		require.NoError(t, err)

		assert.Equal(t, []album.Breadcrumb{
			{Path: "/", Title: "Gallery"},
			{Path: "/2023", Title: "2023"},
		}, view.Breadcrumb)

		require.Len(t, view.Pictures, 1)
		assert.Equal(t, []album.MediaRef{thumbnail, preview}, view.Pictures[0].Media)
	})
}
