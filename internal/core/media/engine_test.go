// Copyright (c) 2026 Galleria. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package media_test

import (
	"bytes"
	"context"
	"image"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/galleria/internal/core/album"
	"github.com/taibuivan/galleria/internal/core/media"
	"github.com/taibuivan/galleria/internal/platform/apperr"
)

// # In-Memory Collaborators

type memoryMedia struct {
	rows []*media.Media
}

func (m *memoryMedia) FindOriginal(_ context.Context, pictureID string) (*media.Media, error) {
	for _, row := range m.rows {
		if row.PictureID == pictureID && row.IsOriginal() {
			copied := *row
			return &copied, nil
		}
	}
	return nil, apperr.NotFound("Media")
}

func (m *memoryMedia) FindBySpec(_ context.Context, pictureID, specID string) (*media.Media, error) {
	for _, row := range m.rows {
		if row.PictureID == pictureID && row.SpecID != nil && *row.SpecID == specID {
			copied := *row
			return &copied, nil
		}
	}
	return nil, apperr.NotFound("Media")
}

func (m *memoryMedia) ListByPicture(_ context.Context, pictureID string) ([]*media.Media, error) {
	var owned []*media.Media
	for _, row := range m.rows {
		if row.PictureID == pictureID {
			copied := *row
			owned = append(owned, &copied)
		}
	}
	return owned, nil
}

func (m *memoryMedia) Create(_ context.Context, entity *media.Media) error {
	for _, row := range m.rows {
		if row.PictureID != entity.PictureID {
			continue
		}
		if entity.Role == media.RoleOriginal && row.IsOriginal() {
			return apperr.Conflict("Original already recorded")
		}
		if entity.SpecID != nil && row.SpecID != nil && *row.SpecID == *entity.SpecID {
			return apperr.Conflict("Variant already recorded")
		}
	}
	copied := *entity
	m.rows = append(m.rows, &copied)
	return nil
}

func (m *memoryMedia) DeleteByPicture(_ context.Context, pictureID string) error {
	kept := m.rows[:0]
	for _, row := range m.rows {
		if row.PictureID != pictureID {
			kept = append(kept, row)
		}
	}
	m.rows = kept
	return nil
}

type memorySpecs struct {
	rows []*media.Spec
}

func (m *memorySpecs) FindByID(_ context.Context, id string) (*media.Spec, error) {
	for _, row := range m.rows {
		if row.ID == id {
			copied := *row
			return &copied, nil
		}
	}
	return nil, apperr.NotFound("Spec")
}

func (m *memorySpecs) List(_ context.Context) ([]*media.Spec, error) {
	return append([]*media.Spec{}, m.rows...), nil
}

func (m *memorySpecs) ListActive(_ context.Context) ([]*media.Spec, error) {
	var active []*media.Spec
	for _, row := range m.rows {
		if row.Active {
			copied := *row
			active = append(active, &copied)
		}
	}
	return active, nil
}

func (m *memorySpecs) Create(_ context.Context, spec *media.Spec) error {
	copied := *spec
	m.rows = append(m.rows, &copied)
	return nil
}

func (m *memorySpecs) Update(_ context.Context, spec *media.Spec) error {
	for index, row := range m.rows {
		if row.ID == spec.ID {
			copied := *spec
			m.rows[index] = &copied
			return nil
		}
	}
	return apperr.NotFound("Spec")
}

// stubPictures satisfies album.PictureRepository with a fixed picture set.
type stubPictures struct {
	rows map[string]*album.Picture
}

func (s *stubPictures) FindByID(_ context.Context, id string) (*album.Picture, error) {
	if row, ok := s.rows[id]; ok {
		copied := *row
		return &copied, nil
	}
	return nil, apperr.NotFound("Picture")
}

func (s *stubPictures) FindByPath(_ context.Context, path string) (*album.Picture, error) {
	for _, row := range s.rows {
		if row.Path == path {
			copied := *row
			return &copied, nil
		}
	}
	return nil, apperr.NotFound("Picture")
}

func (s *stubPictures) ListByAlbum(_ context.Context, albumID string, publicOnly bool) ([]*album.Picture, error) {
	var owned []*album.Picture
	for _, row := range s.rows {
		if row.AlbumID != albumID {
			continue
		}
		if publicOnly && !row.IsPublic {
			continue
		}
		copied := *row
		owned = append(owned, &copied)
	}
	return owned, nil
}

func (s *stubPictures) FirstByAlbum(_ context.Context, _ string) (*album.Picture, error) {
	return nil, apperr.NotFound("Picture")
}

func (s *stubPictures) Create(_ context.Context, picture *album.Picture) error {
	s.rows[picture.ID] = picture
	return nil
}

func (s *stubPictures) Update(_ context.Context, picture *album.Picture) error {
	s.rows[picture.ID] = picture
	return nil
}

func (s *stubPictures) Delete(_ context.Context, id string) error {
	delete(s.rows, id)
	return nil
}

// memoryStorage keeps files in a map and counts byte-moving operations.
type memoryStorage struct {
	files  map[string][]byte
	copies int
	moves  int
	writes int
}

func newMemoryStorage() *memoryStorage {
	return &memoryStorage{files: map[string][]byte{}}
}

func (s *memoryStorage) Write(path string, data []byte) error {
	s.writes++
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
	return nil
}

func (s *memoryStorage) Size(path string) (int64, error) {
	data, ok := s.files[path]
	if !ok {
		return 0, io.ErrUnexpectedEOF
	}
	return int64(len(data)), nil
}

func (s *memoryStorage) URLFor(path string) string {
	return "/media/" + path
}

func (s *memoryStorage) CreateExclusive(path string) (io.WriteCloser, error) {
	s.files[path] = nil
	return nopWriteCloser{}, nil
}

func (s *memoryStorage) CopyFrom(localPath, path string) error {
	s.copies++
	s.files[path] = []byte("copied:" + localPath)
	return nil
}

func (s *memoryStorage) MoveFrom(localPath, path string) error {
	s.moves++
	s.files[path] = []byte("moved:" + localPath)
	return nil
}

type nopWriteCloser struct{}

func (nopWriteCloser) Write(p []byte) (int, error) { return len(p), nil }
func (nopWriteCloser) Close() error                { return nil }

// stubCodec avoids real pixel work: every decode yields an 800x600 image
// and fitting returns an image exactly at the bounding box.
type stubCodec struct {
	decodes int
	encodes int
}

func (c *stubCodec) Decode(_ io.Reader) (image.Image, error) {
	c.decodes++
	return image.NewRGBA(image.Rect(0, 0, 800, 600)), nil
}

func (c *stubCodec) Dimensions(img image.Image) (int, int) {
	bounds := img.Bounds()
	return bounds.Dx(), bounds.Dy()
}

func (c *stubCodec) Fit(_ image.Image, maxWidth, maxHeight int) image.Image {
	return image.NewRGBA(image.Rect(0, 0, maxWidth, maxHeight))
}

func (c *stubCodec) Encode(_ image.Image, format string, _ int) ([]byte, error) {
	c.encodes++
	return []byte("encoded:" + format), nil
}

func (c *stubCodec) CaptureTime(_ io.Reader) (time.Time, error) {
	return time.Time{}, io.ErrUnexpectedEOF
}

// recordingRefresher notes which albums were asked to refresh.
type recordingRefresher struct {
	albumIDs []string
}

func (r *recordingRefresher) RefreshAlbum(_ context.Context, albumID string) error {
	r.albumIDs = append(r.albumIDs, albumID)
	return nil
}

// # Engine Fixture

type engineFixture struct {
	engine    *media.Engine
	mediaRepo *memoryMedia
	specs     *memorySpecs
	pictures  *stubPictures
	store     *memoryStorage
	codec     *stubCodec
	refresher *recordingRefresher
}

func newEngineFixture() *engineFixture {
	mediaRepo := &memoryMedia{}
	specs := &memorySpecs{}
	pictures := &stubPictures{rows: map[string]*album.Picture{
		"pic-1": {ID: "pic-1", AlbumID: "album-1", Slug: "dsc-0042", Path: "/2023/juhlat/dsc-0042", IsPublic: true},
	}}
	store := newMemoryStorage()
	imageCodec := &stubCodec{}
	refresher := &recordingRefresher{}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	engine := media.NewEngine(mediaRepo, specs, pictures, refresher, store, imageCodec, nil, logger)

	return &engineFixture{
		engine:    engine,
		mediaRepo: mediaRepo,
		specs:     specs,
		pictures:  pictures,
		store:     store,
		codec:     imageCodec,
		refresher: refresher,
	}
}

func (f *engineFixture) picture(t *testing.T) *album.Picture {
	t.Helper()
	picture, err := f.pictures.FindByID(context.Background(), "pic-1")
	require.NoError(t, err)
	return picture
}

// # Canonical Paths

/*
TestCanonicalPaths verifies that storage paths derive purely from content
paths.
*/
func TestCanonicalPaths(t *testing.T) {
	assert.Equal(t, "pictures/2023/juhlat/dsc-0042.jpeg", media.OriginalPath("/2023/juhlat/dsc-0042"))
	assert.Equal(t, "previews/2023/juhlat/dsc-0042.thumbnail.jpeg", media.DerivedPath("/2023/juhlat/dsc-0042", "thumbnail", "jpeg"))
	assert.Equal(t, "downloads/2023/juhlat.zip", media.ArchivePath("/2023/juhlat"))
}

// # Original Ingestion

/*
TestEngine_GetOrCreateOriginal_Inplace adopts a pre-placed file without
moving bytes and is idempotent on re-import.
*/
func TestEngine_GetOrCreateOriginal_Inplace(t *testing.T) {
	f := newEngineFixture()
	picture := f.picture(t)

	src := "incoming/batch/DSC_0042.JPG"
	f.store.files[src] = []byte("raw")

	original, created, err := f.engine.GetOrCreateOriginal(context.Background(), picture, src, media.ModeInplace)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, src, original.Src)
	assert.Equal(t, "jpeg", original.Format, "jpg extension normalizes to jpeg")
	assert.Equal(t, 800, original.Width)
	assert.Equal(t, 600, original.Height)
	assert.Zero(t, f.store.copies)
	assert.Zero(t, f.store.moves)

	again, created, err := f.engine.GetOrCreateOriginal(context.Background(), picture, src, media.ModeInplace)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, original.ID, again.ID)
}

/*
TestEngine_GetOrCreateOriginal_CopyAndMove lands local files at the
canonical original path.
*/
func TestEngine_GetOrCreateOriginal_CopyAndMove(t *testing.T) {
	tests := []struct {
		name   string
		mode   media.ImportMode
		copies int
		moves  int
	}{
		{"copy", media.ModeCopy, 1, 0},
		{"move", media.ModeMove, 0, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newEngineFixture()
			picture := f.picture(t)

			original, created, err := f.engine.GetOrCreateOriginal(context.Background(), picture, "/tmp/upload.jpeg", tt.mode)
			require.NoError(t, err)
			assert.True(t, created)
			assert.Equal(t, media.OriginalPath(picture.Path), original.Src)
			assert.Equal(t, tt.copies, f.store.copies)
			assert.Equal(t, tt.moves, f.store.moves)
			assert.True(t, f.store.Exists(original.Src))
		})
	}
}

/*
TestEngine_GetOrCreateOriginal_UnknownMode rejects unrecognized modes
before touching any bytes.
*/
func TestEngine_GetOrCreateOriginal_UnknownMode(t *testing.T) {
	f := newEngineFixture()

	_, _, err := f.engine.GetOrCreateOriginal(context.Background(), f.picture(t), "/tmp/x", media.ImportMode("teleport"))
	require.Error(t, err)
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "VALIDATION_ERROR", ae.Code)
	assert.Empty(t, f.store.files)
}

// # Derivation

/*
TestEngine_GetOrCreateDerived derives one variant per (picture, spec) pair
and returns the cached row on a repeat call without re-encoding.
*/
func TestEngine_GetOrCreateDerived(t *testing.T) {
	f := newEngineFixture()
	picture := f.picture(t)

	src := media.OriginalPath(picture.Path)
	f.store.files[src] = []byte("raw")
	original, _, err := f.engine.GetOrCreateOriginal(context.Background(), picture, src, media.ModeInplace)
	require.NoError(t, err)

	spec := &media.Spec{ID: "spec-thumb", Role: media.RoleThumbnail, MaxWidth: 240, MaxHeight: 240, Format: "jpeg", Quality: 60, Active: true}
	require.NoError(t, f.specs.Create(context.Background(), spec))

	variant, created, err := f.engine.GetOrCreateDerived(context.Background(), picture, original, spec)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, media.RoleThumbnail, variant.Role)
	assert.Equal(t, 240, variant.Width)
	assert.Equal(t, 240, variant.Height)
	require.NotNil(t, variant.SpecID)
	assert.Equal(t, spec.ID, *variant.SpecID)

	target := media.DerivedPath(picture.Path, spec.Role, spec.Format)
	assert.Equal(t, target, variant.Src)
	assert.Equal(t, []byte("encoded:jpeg"), f.store.files[target])

	encodesBefore := f.codec.encodes
	again, created, err := f.engine.GetOrCreateDerived(context.Background(), picture, original, spec)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, variant.ID, again.ID)
	assert.Equal(t, encodesBefore, f.codec.encodes, "cache hit must not re-encode")
}

// # Full Import

/*
TestEngine_ImportSync runs the whole pipeline: original, one variant per
active spec, and an album refresh.
*/
func TestEngine_ImportSync(t *testing.T) {
	f := newEngineFixture()
	picture := f.picture(t)

	require.NoError(t, f.specs.Create(context.Background(), &media.Spec{
		ID: "spec-thumb", Role: media.RoleThumbnail, MaxWidth: 240, MaxHeight: 240, Format: "jpeg", Quality: 60, Active: true,
	}))
	require.NoError(t, f.specs.Create(context.Background(), &media.Spec{
		ID: "spec-preview", Role: media.RolePreview, MaxWidth: 1200, MaxHeight: 1200, Format: "jpeg", Quality: 75, Active: true,
	}))
	require.NoError(t, f.specs.Create(context.Background(), &media.Spec{
		ID: "spec-retired", Role: "banner", MaxWidth: 2000, MaxHeight: 600, Format: "png", Quality: 90, Active: false,
	}))

	src := media.OriginalPath(picture.Path)
	f.store.files[src] = []byte("raw")

	err := f.engine.ImportSync(context.Background(), media.ImportRequest{
		PictureID:    picture.ID,
		InputPath:    src,
		Mode:         media.ModeInplace,
		RefreshAlbum: true,
	})
	require.NoError(t, err)

	artifacts, err := f.mediaRepo.ListByPicture(context.Background(), picture.ID)
	require.NoError(t, err)
	assert.Len(t, artifacts, 3, "original plus one variant per active spec")

	roles := map[string]bool{}
	for _, artifact := range artifacts {
		roles[artifact.Role] = true
	}
	assert.True(t, roles[media.RoleOriginal])
	assert.True(t, roles[media.RoleThumbnail])
	assert.True(t, roles[media.RolePreview])
	assert.False(t, roles["banner"], "retired specs are not applied")

	assert.Equal(t, []string{"album-1"}, f.refresher.albumIDs)

	// Re-import converges without duplicating anything.
	require.NoError(t, f.engine.ImportSync(context.Background(), media.ImportRequest{
		PictureID: picture.ID,
		InputPath: src,
		Mode:      media.ModeInplace,
	}))
	artifacts, err = f.mediaRepo.ListByPicture(context.Background(), picture.ID)
	require.NoError(t, err)
	assert.Len(t, artifacts, 3)
}

/*
TestEngine_ImportSync_SpecSubset derives only the requested specs.
*/
func TestEngine_ImportSync_SpecSubset(t *testing.T) {
	f := newEngineFixture()
	picture := f.picture(t)

	require.NoError(t, f.specs.Create(context.Background(), &media.Spec{
		ID: "spec-thumb", Role: media.RoleThumbnail, MaxWidth: 240, MaxHeight: 240, Format: "jpeg", Quality: 60, Active: true,
	}))
	require.NoError(t, f.specs.Create(context.Background(), &media.Spec{
		ID: "spec-preview", Role: media.RolePreview, MaxWidth: 1200, MaxHeight: 1200, Format: "jpeg", Quality: 75, Active: true,
	}))

	src := media.OriginalPath(picture.Path)
	f.store.files[src] = []byte("raw")

	require.NoError(t, f.engine.ImportSync(context.Background(), media.ImportRequest{
		PictureID: picture.ID,
		InputPath: src,
		Mode:      media.ModeInplace,
		SpecIDs:   []string{"spec-thumb"},
	}))

	artifacts, err := f.mediaRepo.ListByPicture(context.Background(), picture.ID)
	require.NoError(t, err)
	assert.Len(t, artifacts, 2, "original plus the requested variant only")
	assert.Empty(t, f.refresher.albumIDs)
}

/*
TestEngine_ImportOpenFile writes an uploaded stream to the canonical
original path and runs the import against it.
*/
func TestEngine_ImportOpenFile(t *testing.T) {
	f := newEngineFixture()
	picture := f.picture(t)

	require.NoError(t, f.specs.Create(context.Background(), &media.Spec{
		ID: "spec-thumb", Role: media.RoleThumbnail, MaxWidth: 240, MaxHeight: 240, Format: "jpeg", Quality: 60, Active: true,
	}))

	err := f.engine.ImportOpenFile(context.Background(), picture.ID, bytes.NewReader([]byte("upload-bytes")), true)
	require.NoError(t, err)

	target := media.OriginalPath(picture.Path)
	assert.Equal(t, []byte("upload-bytes"), f.store.files[target])

	original, err := f.mediaRepo.FindOriginal(context.Background(), picture.ID)
	require.NoError(t, err)
	assert.Equal(t, target, original.Src)
	assert.Equal(t, []string{"album-1"}, f.refresher.albumIDs)
}

// # Cleanup

/*
TestEngine_PurgePicture removes every file and row of a picture and is
safe to repeat.
*/
func TestEngine_PurgePicture(t *testing.T) {
	f := newEngineFixture()
	picture := f.picture(t)

	require.NoError(t, f.specs.Create(context.Background(), &media.Spec{
		ID: "spec-thumb", Role: media.RoleThumbnail, MaxWidth: 240, MaxHeight: 240, Format: "jpeg", Quality: 60, Active: true,
	}))

	src := media.OriginalPath(picture.Path)
	f.store.files[src] = []byte("raw")
	require.NoError(t, f.engine.ImportSync(context.Background(), media.ImportRequest{
		PictureID: picture.ID, InputPath: src, Mode: media.ModeInplace,
	}))

	require.NoError(t, f.engine.PurgePicture(context.Background(), picture.ID))

	assert.Empty(t, f.store.files)
	artifacts, err := f.mediaRepo.ListByPicture(context.Background(), picture.ID)
	require.NoError(t, err)
	assert.Empty(t, artifacts)

	require.NoError(t, f.engine.PurgePicture(context.Background(), picture.ID))
}
