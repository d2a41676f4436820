// Copyright (c) 2026 Galleria. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package archive_test

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/galleria/internal/core/album"
	"github.com/taibuivan/galleria/internal/core/archive"
	"github.com/taibuivan/galleria/internal/core/media"
	"github.com/taibuivan/galleria/internal/platform/apperr"
)

// # Fakes

type stubPictures struct {
	rows    []*album.Picture
	listErr error
}

func (s *stubPictures) FindByID(_ context.Context, id string) (*album.Picture, error) {
	for _, row := range s.rows {
		if row.ID == id {
			return row, nil
		}
	}
	return nil, apperr.NotFound("Picture")
}

func (s *stubPictures) FindByPath(_ context.Context, _ string) (*album.Picture, error) {
	return nil, apperr.NotFound("Picture")
}

func (s *stubPictures) ListByAlbum(_ context.Context, albumID string, publicOnly bool) ([]*album.Picture, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	var owned []*album.Picture
	for _, row := range s.rows {
		if row.AlbumID != albumID {
			continue
		}
		if publicOnly && !row.IsPublic {
			continue
		}
		owned = append(owned, row)
	}
	return owned, nil
}

func (s *stubPictures) FirstByAlbum(_ context.Context, _ string) (*album.Picture, error) {
	return nil, apperr.NotFound("Picture")
}

func (s *stubPictures) Create(_ context.Context, _ *album.Picture) error { return nil }
func (s *stubPictures) Update(_ context.Context, _ *album.Picture) error { return nil }
func (s *stubPictures) Delete(_ context.Context, _ string) error         { return nil }

type stubMedia struct {
	originals map[string]*media.Media
	findErr   error
}

func (s *stubMedia) FindOriginal(_ context.Context, pictureID string) (*media.Media, error) {
	if s.findErr != nil {
		return nil, s.findErr
	}
	if row, ok := s.originals[pictureID]; ok {
		return row, nil
	}
	return nil, apperr.NotFound("Media")
}

func (s *stubMedia) FindBySpec(_ context.Context, _, _ string) (*media.Media, error) {
	return nil, apperr.NotFound("Media")
}

func (s *stubMedia) ListByPicture(_ context.Context, _ string) ([]*media.Media, error) {
	return nil, nil
}

func (s *stubMedia) Create(_ context.Context, _ *media.Media) error    { return nil }
func (s *stubMedia) DeleteByPicture(_ context.Context, _ string) error { return nil }

// memoryStorage buffers exclusive writes and commits them on Close, the
// way a real file handle would.
type memoryStorage struct {
	files   map[string][]byte
	pending map[string]bool
}

func newMemoryStorage() *memoryStorage {
	return &memoryStorage{files: map[string][]byte{}, pending: map[string]bool{}}
}

func (s *memoryStorage) Write(path string, data []byte) error {
	s.files[path] = append([]byte{}, data...)
	return nil
}

func (s *memoryStorage) Read(path string) ([]byte, error) {
	data, ok := s.files[path]
	if !ok {
		return nil, io.ErrUnexpectedEOF
	}
	return data, nil
}

func (s *memoryStorage) Open(path string) (io.ReadCloser, error) {
	data, ok := s.files[path]
	if !ok {
		return nil, io.ErrUnexpectedEOF
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (s *memoryStorage) Exists(path string) bool {
	_, ok := s.files[path]
	return ok
}

func (s *memoryStorage) Remove(path string) error {
	delete(s.files, path)
	delete(s.pending, path)
	return nil
}

func (s *memoryStorage) Size(path string) (int64, error) {
	return int64(len(s.files[path])), nil
}

func (s *memoryStorage) URLFor(path string) string {
	return "/media/" + path
}

func (s *memoryStorage) CreateExclusive(path string) (io.WriteCloser, error) {
	if s.pending[path] || s.Exists(path) {
		return nil, os.ErrExist
	}
	s.pending[path] = true
	return &memoryFile{store: s, path: path}, nil
}

func (s *memoryStorage) CopyFrom(_, _ string) error { return nil }
func (s *memoryStorage) MoveFrom(_, _ string) error { return nil }

type memoryFile struct {
	store *memoryStorage
	path  string
	buf   bytes.Buffer
}

func (f *memoryFile) Write(p []byte) (int, error) { return f.buf.Write(p) }

func (f *memoryFile) Close() error {
	f.store.files[f.path] = f.buf.Bytes()
	delete(f.store.pending, f.path)
	return nil
}

// # Fixture

func subjectAlbum() *album.Album {
	date := time.Date(2023, time.June, 17, 0, 0, 0, 0, time.UTC)
	return &album.Album{
		ID:          "album-1",
		Path:        "/2023/juhlat",
		Title:       "Juhlat",
		Description: "Kesän kohokohta",
		Date:        &date,
	}
}

func newExporterFixture() (*archive.Exporter, *stubPictures, *stubMedia, *memoryStorage) {
	pictures := &stubPictures{rows: []*album.Picture{
		{ID: "pic-1", AlbumID: "album-1", Slug: "dsc-0001", Path: "/2023/juhlat/dsc-0001", IsPublic: true},
		{ID: "pic-2", AlbumID: "album-1", Slug: "dsc-0002", Path: "/2023/juhlat/dsc-0002", IsPublic: true},
		{ID: "pic-3", AlbumID: "album-1", Slug: "dsc-0003", Path: "/2023/juhlat/dsc-0003", IsPublic: true},
		{ID: "pic-4", AlbumID: "album-1", Slug: "secret", Path: "/2023/juhlat/secret", IsPublic: false},
	}}

	mediaRepo := &stubMedia{originals: map[string]*media.Media{
		"pic-1": {ID: "m-1", PictureID: "pic-1", Role: media.RoleOriginal, Format: "jpeg", Src: "pictures/2023/juhlat/dsc-0001.jpeg"},
		"pic-2": {ID: "m-2", PictureID: "pic-2", Role: media.RoleOriginal, Format: "png", Src: "pictures/2023/juhlat/dsc-0002.png"},
		// pic-3 has no ingested original and must be skipped.
	}}

	store := newMemoryStorage()
	store.files["pictures/2023/juhlat/dsc-0001.jpeg"] = []byte("one")
	store.files["pictures/2023/juhlat/dsc-0002.png"] = []byte("two")

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return archive.NewExporter(pictures, mediaRepo, store, logger), pictures, mediaRepo, store
}

func readZip(t *testing.T, data []byte) map[string][]byte {
	t.Helper()
	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)

	entries := map[string][]byte{}
	for _, entry := range reader.File {
		file, err := entry.Open()
		require.NoError(t, err)
		content, err := io.ReadAll(file)
		require.NoError(t, err)
		require.NoError(t, file.Close())
		entries[entry.Name] = content
	}
	return entries
}

// # Tests

/*
TestExporter_Export bundles the manifest and every ingested public
original, skipping pictures whose original is missing and non-public
pictures entirely.
*/
func TestExporter_Export(t *testing.T) {
	exporter, _, _, store := newExporterFixture()

	path, err := exporter.Export(context.Background(), subjectAlbum())
	require.NoError(t, err)
	assert.Equal(t, "downloads/2023/juhlat.zip", path)

	entries := readZip(t, store.files[path])
	assert.Len(t, entries, 3, "manifest plus two ingested originals")
	assert.Equal(t, []byte("one"), entries["dsc-0001.jpeg"])
	assert.Equal(t, []byte("two"), entries["dsc-0002.png"])
	assert.NotContains(t, entries, "secret.jpeg")

	readme := string(entries["README.txt"])
	assert.Contains(t, readme, "Juhlat")
	assert.Contains(t, readme, "Kesän kohokohta")
	assert.Contains(t, readme, "Date: 2023-06-17")
	assert.Contains(t, readme, "Pictures: 3")
}

/*
TestExporter_Export_ReusesFinishedArchive returns an existing archive
untouched instead of rebuilding it.
*/
func TestExporter_Export_ReusesFinishedArchive(t *testing.T) {
	exporter, _, _, store := newExporterFixture()

	path, err := exporter.Export(context.Background(), subjectAlbum())
	require.NoError(t, err)
	first := append([]byte{}, store.files[path]...)

	again, err := exporter.Export(context.Background(), subjectAlbum())
	require.NoError(t, err)
	assert.Equal(t, path, again)
	assert.Equal(t, first, store.files[path])
}

/*
TestExporter_Export_ConflictWhileInProgress reports a conflict when a
concurrent exporter holds the exclusive handle.
*/
func TestExporter_Export_ConflictWhileInProgress(t *testing.T) {
	exporter, _, _, store := newExporterFixture()
	store.pending["downloads/2023/juhlat.zip"] = true

	_, err := exporter.Export(context.Background(), subjectAlbum())
	require.Error(t, err)
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "CONFLICT", ae.Code)
}

/*
TestExporter_Export_RemovesPartialOnFailure leaves no half-written archive
behind when streaming fails.
*/
func TestExporter_Export_RemovesPartialOnFailure(t *testing.T) {
	exporter, _, mediaRepo, store := newExporterFixture()
	mediaRepo.findErr = errors.New("connection reset")

	_, err := exporter.Export(context.Background(), subjectAlbum())
	require.Error(t, err)
	assert.False(t, store.Exists("downloads/2023/juhlat.zip"))
}
