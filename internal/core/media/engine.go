// Copyright (c) 2026 Galleria. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package media

import (
	"context"
	"io"
	"log/slog"
	"path"
	"strings"

	"github.com/taibuivan/galleria/internal/core/album"
	"github.com/taibuivan/galleria/internal/platform/apperr"
	"github.com/taibuivan/galleria/internal/platform/codec"
	"github.com/taibuivan/galleria/internal/platform/storage"
	"github.com/taibuivan/galleria/pkg/uuid"
)

// # Import Modes

// ImportMode controls how an input file becomes the canonical original.
type ImportMode string

const (
	// ModeInplace treats the input as already sitting at a storage path
	// and adopts it without copying bytes.
	ModeInplace ImportMode = "inplace"

	// ModeCopy copies a local file into the canonical original path.
	ModeCopy ImportMode = "copy"

	// ModeMove moves a local file into the canonical original path.
	ModeMove ImportMode = "move"
)

// JobImport names the queued import job consumed by the worker.
const JobImport = "media.import"

// ImportRequest describes one picture import. It doubles as the queue
// payload, so the field names are part of the job wire format.
type ImportRequest struct {
	PictureID string     `json:"picture_id"`
	InputPath string     `json:"input_path"`
	Mode      ImportMode `json:"mode"`

	// SpecIDs restricts derivation to the named specs. Empty means all
	// active specs.
	SpecIDs []string `json:"spec_ids,omitempty"`

	// RefreshAlbum re-saves the owning album afterwards so its cover and
	// date can absorb the new original.
	RefreshAlbum bool `json:"refresh_album"`
}

// # Collaborator Contracts

// AlbumRefresher re-runs the save pipeline of an album; satisfied by the
// album service.
type AlbumRefresher interface {
	RefreshAlbum(context context.Context, albumID string) error
}

// Enqueuer hands a named job payload to the background queue.
type Enqueuer interface {
	Enqueue(context context.Context, name string, payload any) error
}

// # Derivation Engine

// Engine ingests originals and derives variants according to the spec
// registry. All of its write operations are idempotent: re-importing a
// picture converges on the same rows and files.
type Engine struct {
	mediaRepo MediaRepository
	specRepo  SpecRepository
	pictures  album.PictureRepository

	refresher AlbumRefresher
	store     storage.Storage
	codec     codec.Codec

	// queue defers imports to the worker when set; nil runs them inline.
	queue  Enqueuer
	logger *slog.Logger
}

// NewEngine constructs a derivation [Engine].
//
// Passing a nil queue makes Import run synchronously, which is how the
// worker process and tests use the engine.
func NewEngine(
	mediaRepo MediaRepository,
	specRepo SpecRepository,
	pictures album.PictureRepository,
	refresher AlbumRefresher,
	store storage.Storage,
	imageCodec codec.Codec,
	queue Enqueuer,
	logger *slog.Logger,
) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		mediaRepo: mediaRepo,
		specRepo:  specRepo,
		pictures:  pictures,
		refresher: refresher,
		store:     store,
		codec:     imageCodec,
		queue:     queue,
		logger:    logger,
	}
}

// # Import Entry Points

/*
Import ingests a picture's original and derives its variants.

Description: With a queue configured the request is enqueued and processed
by the worker; otherwise it runs inline via [Engine.ImportSync]. Callers
that need the artifacts before responding (e.g. the upload endpoint in
queueless deployments) get them; queued deployments answer 202-style and
let derivation catch up.

Returns:
  - error: Enqueue or inline import failures
*/
func (engine *Engine) Import(context context.Context, request ImportRequest) error {

	if engine.queue != nil {
		return engine.queue.Enqueue(context, JobImport, request)
	}

	return engine.ImportSync(context, request)
}

/*
ImportSync performs one full import immediately.

Description: Loads the picture, gets-or-creates its original under the
requested mode, derives one variant per requested (or all active) specs,
and optionally re-saves the owning album. Every step is idempotent, so a
crashed or re-delivered import simply resumes where it left off.

Returns:
  - error: Lookup, decode, storage, or persistence failures
*/
func (engine *Engine) ImportSync(context context.Context, request ImportRequest) error {

	picture, err := engine.pictures.FindByID(context, request.PictureID)
	if err != nil {
		return err
	}

	original, created, err := engine.GetOrCreateOriginal(context, picture, request.InputPath, request.Mode)
	if err != nil {
		return err
	}
	engine.logger.Info("original ready",
		"picture_id", picture.ID, "src", original.Src, "created", created)

	specs, err := engine.resolveSpecs(context, request.SpecIDs)
	if err != nil {
		return err
	}

	for _, spec := range specs {
		variant, created, err := engine.GetOrCreateDerived(context, picture, original, spec)
		if err != nil {
			return err
		}
		engine.logger.Info("variant ready",
			"picture_id", picture.ID, "role", spec.Role, "src", variant.Src,
			"created", created)
	}

	if request.RefreshAlbum && engine.refresher != nil {
		return engine.refresher.RefreshAlbum(context, picture.AlbumID)
	}
	return nil
}

/*
ImportOpenFile ingests an uploaded stream as a picture's original.

Description: The stream is written to the canonical original path first,
then the regular import pipeline runs in inplace mode against that path.
Used by the multipart upload endpoint.

Parameters:
  - context: context.Context
  - pictureID: string (Target picture UUID)
  - reader: io.Reader (Raw image bytes)
  - refreshAlbum: bool (Re-save the owner afterwards)

Returns:
  - error: Storage or import failures
*/
func (engine *Engine) ImportOpenFile(context context.Context, pictureID string, reader io.Reader, refreshAlbum bool) error {

	picture, err := engine.pictures.FindByID(context, pictureID)
	if err != nil {
		return err
	}

	data, err := io.ReadAll(reader)
	if err != nil {
		return apperr.ValidationError("Upload stream unreadable")
	}

	target := OriginalPath(picture.Path)
	if err := engine.store.Write(target, data); err != nil {
		return err
	}

	return engine.Import(context, ImportRequest{
		PictureID:    pictureID,
		InputPath:    target,
		Mode:         ModeInplace,
		RefreshAlbum: refreshAlbum,
	})
}

// resolveSpecs loads the requested specs, or all active ones.
func (engine *Engine) resolveSpecs(context context.Context, specIDs []string) ([]*Spec, error) {

	if len(specIDs) == 0 {
		return engine.specRepo.ListActive(context)
	}

	specs := make([]*Spec, 0, len(specIDs))
	for _, id := range specIDs {
		spec, err := engine.specRepo.FindByID(context, id)
		if err != nil {
			return nil, err
		}
		specs = append(specs, spec)
	}
	return specs, nil
}

// # Get-Or-Create Primitives

/*
GetOrCreateOriginal idempotently ingests a picture's original file.

Description: An existing original row wins immediately; nothing is read or
moved. Otherwise the input lands at the canonical original path according
to the mode (inplace adopts, copy and move transfer from the local
filesystem), the image is decoded once for its dimensions, and the row is
recorded. A concurrent import losing the insert race re-reads the winner's
row, so both callers return the same artifact.

Parameters:
  - context: context.Context
  - picture: *album.Picture (Owner, provides the canonical path)
  - inputPath: string (Storage path for inplace, local path for copy/move)
  - mode: ImportMode

Returns:
  - *Media: The original artifact
  - bool: Whether this call created it
  - error: Decode, storage, or persistence failures
*/
func (engine *Engine) GetOrCreateOriginal(context context.Context, picture *album.Picture, inputPath string, mode ImportMode) (*Media, bool, error) {

	existing, err := engine.mediaRepo.FindOriginal(context, picture.ID)
	if err == nil {
		return existing, false, nil
	}
	if !apperr.IsNotFound(err) {
		return nil, false, err
	}

	// Land the bytes at their storage path.
	var src string
	switch mode {
	case ModeInplace:
		src = inputPath
	case ModeCopy:
		src = OriginalPath(picture.Path)
		if err := engine.store.CopyFrom(inputPath, src); err != nil {
			return nil, false, err
		}
	case ModeMove:
		src = OriginalPath(picture.Path)
		if err := engine.store.MoveFrom(inputPath, src); err != nil {
			return nil, false, err
		}
	default:
		return nil, false, apperr.ValidationError("Unknown import mode")
	}

	width, height, err := engine.measure(src)
	if err != nil {
		return nil, false, err
	}

	original := &Media{
		ID:        uuid.New(),
		PictureID: picture.ID,
		Role:      RoleOriginal,
		Format:    formatFromPath(src),
		Width:     width,
		Height:    height,
		Src:       src,
	}

	if err := engine.mediaRepo.Create(context, original); err != nil {
		// Lost the insert race: adopt the winner's row.
		if winner, findErr := engine.mediaRepo.FindOriginal(context, picture.ID); findErr == nil {
			return winner, false, nil
		}
		return nil, false, err
	}

	return original, true, nil
}

/*
GetOrCreateDerived idempotently derives one variant of a picture.

Description: One variant exists per (picture, spec) pair. A cache hit
returns the stored row without touching pixels. On a miss the original is
decoded, shrunk to fit the spec's bounding box (never upscaled), encoded
with the spec's format and quality, written to the canonical derived path,
and recorded. The file is written before the row so a crash between the
two leaves a re-derivable orphan file rather than a row pointing nowhere.

Parameters:
  - context: context.Context
  - picture: *album.Picture (Owner, provides the canonical path)
  - original: *Media (Source artifact)
  - spec: *Spec (Derivation parameters)

Returns:
  - *Media: The derived artifact
  - bool: Whether this call created it
  - error: Decode, encode, storage, or persistence failures
*/
func (engine *Engine) GetOrCreateDerived(context context.Context, picture *album.Picture, original *Media, spec *Spec) (*Media, bool, error) {

	existing, err := engine.mediaRepo.FindBySpec(context, picture.ID, spec.ID)
	if err == nil {
		return existing, false, nil
	}
	if !apperr.IsNotFound(err) {
		return nil, false, err
	}

	reader, err := engine.store.Open(original.Src)
	if err != nil {
		return nil, false, err
	}
	defer reader.Close()

	img, err := engine.codec.Decode(reader)
	if err != nil {
		return nil, false, err
	}

	fitted := engine.codec.Fit(img, spec.MaxWidth, spec.MaxHeight)
	width, height := engine.codec.Dimensions(fitted)

	encoded, err := engine.codec.Encode(fitted, spec.Format, spec.Quality)
	if err != nil {
		return nil, false, err
	}

	target := DerivedPath(picture.Path, spec.Role, spec.Format)
	if err := engine.store.Write(target, encoded); err != nil {
		return nil, false, err
	}

	specID := spec.ID
	variant := &Media{
		ID:        uuid.New(),
		PictureID: picture.ID,
		SpecID:    &specID,
		Role:      spec.Role,
		Format:    spec.Format,
		Width:     width,
		Height:    height,
		Src:       target,
	}

	if err := engine.mediaRepo.Create(context, variant); err != nil {
		// Lost the insert race: the winner wrote an identical file.
		if winner, findErr := engine.mediaRepo.FindBySpec(context, picture.ID, spec.ID); findErr == nil {
			return winner, false, nil
		}
		return nil, false, err
	}

	return variant, true, nil
}

// measure decodes an artifact just far enough to learn its dimensions.
func (engine *Engine) measure(src string) (int, int, error) {

	reader, err := engine.store.Open(src)
	if err != nil {
		return 0, 0, err
	}
	defer reader.Close()

	img, err := engine.codec.Decode(reader)
	if err != nil {
		return 0, 0, err
	}

	width, height := engine.codec.Dimensions(img)
	return width, height, nil
}

// # Cleanup

/*
PurgePicture removes every artifact of a picture: files first, rows after.

Description: File removal tolerates already-missing files, so purging is
idempotent and safe to retry after a partial failure.

Returns:
  - error: Storage or persistence failures
*/
func (engine *Engine) PurgePicture(context context.Context, pictureID string) error {

	artifacts, err := engine.mediaRepo.ListByPicture(context, pictureID)
	if err != nil {
		return err
	}

	for _, artifact := range artifacts {
		if err := engine.store.Remove(artifact.Src); err != nil {
			return err
		}
	}

	return engine.mediaRepo.DeleteByPicture(context, pictureID)
}

// formatFromPath derives the stored format from a file extension,
// normalizing the jpg spelling.
func formatFromPath(src string) string {
	extension := strings.TrimPrefix(path.Ext(src), ".")
	extension = strings.ToLower(extension)
	if extension == "jpg" {
		return "jpeg"
	}
	return extension
}
