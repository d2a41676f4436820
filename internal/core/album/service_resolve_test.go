// Copyright (c) 2026 Galleria. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package album_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/galleria/internal/core/album"
	"github.com/taibuivan/galleria/internal/platform/apperr"
)

/*
TestService_ResolvePath walks the resolution priority: series namespace
first, then pictures with a covered owner, then plain albums.
*/
func TestService_ResolvePath(t *testing.T) {
	f := newFixture()

	series := &album.Series{Name: "Vuosijuhlat"}
	require.NoError(t, f.service.CreateSeries(context.Background(), series))

	root := f.mustCreateAlbum(t, &album.Album{Title: "Gallery"})
	event := f.mustCreateAlbum(t, &album.Album{Title: "Juhlat", ParentID: &root.ID})
	picture := f.mustCreatePicture(t, &album.Picture{AlbumID: event.ID, Slug: "dsc-0042", IsPublic: true})

	t.Run("series_by_slug", func(t *testing.T) {
		resolution, err := f.service.ResolvePath(context.Background(), "/series/vuosijuhlat")
		require.NoError(t, err)
		assert.Equal(t, album.ResolutionSeries, resolution.Kind)
		require.NotNil(t, resolution.Series)
		assert.Equal(t, series.ID, resolution.Series.ID)
	})

	t.Run("picture_with_covered_owner", func(t *testing.T) {
		resolution, err := f.service.ResolvePath(context.Background(), picture.Path)
		require.NoError(t, err)
		assert.Equal(t, album.ResolutionPicture, resolution.Kind)
		require.NotNil(t, resolution.Picture)
		assert.Equal(t, picture.ID, resolution.Picture.ID)
		require.NotNil(t, resolution.Album)
		assert.Equal(t, event.ID, resolution.Album.ID)
	})

	t.Run("album_by_path", func(t *testing.T) {
		resolution, err := f.service.ResolvePath(context.Background(), "/juhlat")
		require.NoError(t, err)
		assert.Equal(t, album.ResolutionAlbum, resolution.Kind)
		require.NotNil(t, resolution.Album)
		assert.Equal(t, event.ID, resolution.Album.ID)
	})

	t.Run("root_album", func(t *testing.T) {
		resolution, err := f.service.ResolvePath(context.Background(), "/")
		require.NoError(t, err)
		assert.Equal(t, album.ResolutionAlbum, resolution.Kind)
		assert.Equal(t, root.ID, resolution.Album.ID)
	})

	t.Run("normalizes_slashes", func(t *testing.T) {
		for _, path := range []string{"juhlat", "/juhlat/", "juhlat/"} {
			resolution, err := f.service.ResolvePath(context.Background(), path)
			require.NoError(t, err, "path %q", path)
			assert.Equal(t, event.ID, resolution.Album.ID, "path %q", path)
		}
	})

	t.Run("unknown_path", func(t *testing.T) {
		_, err := f.service.ResolvePath(context.Background(), "/no/such/thing")
		assert.True(t, apperr.IsNotFound(err))
	})
}

/*
TestService_ResolvePath_CoverlessOwner hides pictures whose owning album
has no cover yet, which means derivation has not caught up.
*/
func TestService_ResolvePath_CoverlessOwner(t *testing.T) {
	f := newFixture()

	root := f.mustCreateAlbum(t, &album.Album{Title: "Gallery"})
	event := f.mustCreateAlbum(t, &album.Album{Title: "Juhlat", ParentID: &root.ID})

	// Insert the row directly so no save pipeline assigns a cover.
	orphan := &album.Picture{ID: "orphan", AlbumID: event.ID, Slug: "dsc-0001", Path: "/juhlat/dsc-0001"}
	require.NoError(t, f.pictures.Create(context.Background(), orphan))

	_, err := f.service.ResolvePath(context.Background(), "/juhlat/dsc-0001")
	assert.True(t, apperr.IsNotFound(err))
}
