// Copyright (c) 2026 Galleria. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package album_test

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/galleria/internal/core/album"
)

// # Stubs for the EXIF chain

type stubMediaSource struct {
	src string
}

func (s stubMediaSource) OriginalSrc(_ context.Context, _ string) (string, error) {
	return s.src, nil
}

func (s stubMediaSource) ListForPicture(_ context.Context, _ string) ([]album.MediaRef, error) {
	return nil, nil
}

type stubOpener struct{}

func (stubOpener) Open(_ string) (io.ReadCloser, error) {
	return io.NopCloser(strings.NewReader("image-bytes")), nil
}

type stubCaptureTime struct {
	at  time.Time
	err error
}

func (s stubCaptureTime) CaptureTime(_ io.Reader) (time.Time, error) {
	return s.at, s.err
}

/*
TestService_Save_InfersDateFromText covers date extraction from album
titles and descriptions, including the ISO-over-day-first priority and
rejection of impossible calendar dates.
*/
func TestService_Save_InfersDateFromText(t *testing.T) {
	tests := []struct {
		name        string
		title       string
		description string
		want        *time.Time
	}{
		{
			name:  "iso_in_title",
			title: "Juhlat 2023-04-05",
			want:  datePtr(2023, 4, 5),
		},
		{
			name:        "day_first_in_description",
			title:       "Juhlat",
			description: "Pidettiin 14.3.2022 illalla",
			want:        datePtr(2022, 3, 14),
		},
		{
			name:        "description_beats_title",
			title:       "Juhlat 2020-05-06",
			description: "Kuvattu 2021-01-02",
			want:        datePtr(2021, 1, 2),
		},
		{
			name:        "iso_beats_day_first",
			title:       "Juhlat",
			description: "1.2.2020 ja 2023-04-05",
			want:        datePtr(2023, 4, 5),
		},
		{
			name:  "impossible_date_ignored",
			title: "Bileet 2023-13-45",
			want:  nil,
		},
		{
			name:  "no_date_anywhere",
			title: "Juhlat",
			want:  nil,
		},
	}

	f := newFixture()
	root := f.mustCreateAlbum(t, &album.Album{Title: "Gallery"})

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entity := &album.Album{
				Title:       tt.title,
				Description: tt.description,
				Slug:        tt.name,
				ParentID:    &root.ID,
			}
			stored := f.mustCreateAlbum(t, entity)

			if tt.want == nil {
				assert.Nil(t, stored.Date)
			} else {
				require.NotNil(t, stored.Date)
				assert.True(t, tt.want.Equal(*stored.Date), "want %s, got %s", tt.want, stored.Date)
			}
		})
	}
}

/*
TestService_Save_InfersDateFromExif reads the capture time of the cover
picture's original once a cover is assigned.
*/
func TestService_Save_InfersDateFromExif(t *testing.T) {
	albums := newMemoryAlbums()
	pictures := newMemoryPictures()
	albums.pictures = pictures
	pictures.albums = albums

	captured := time.Date(2023, time.April, 5, 15, 4, 5, 0, time.FixedZone("EEST", 3*3600))
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	service := album.NewService(
		albums, pictures, newMemorySeries(),
		stubMediaSource{src: "pictures/juhlat/dsc-0042.jpeg"}, nil,
		stubOpener{}, stubCaptureTime{at: captured},
		logger,
	)

	subject := &album.Album{Title: "Juhlat"}
	require.NoError(t, service.CreateAlbum(context.Background(), subject))

	picture := &album.Picture{AlbumID: subject.ID, Slug: "dsc-0042", IsPublic: true}
	require.NoError(t, service.CreatePicture(context.Background(), picture))

	// The picture save assigned a cover; force a fresh inference pass.
	stored, err := service.GetAlbum(context.Background(), subject.ID)
	require.NoError(t, err)

	require.NotNil(t, stored.Date)
	want := time.Date(2023, time.April, 5, 0, 0, 0, 0, time.UTC)
	assert.True(t, want.Equal(*stored.Date), "want %s, got %s", want, stored.Date)
}

func datePtr(year, month, day int) *time.Time {
	d := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	return &d
}
