// Copyright (c) 2026 Galleria. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package archive builds downloadable zip exports of albums.

An export bundles every public picture's original file plus a generated
README.txt manifest. Archives land at the canonical downloads path derived
from the album's content path and are created exactly once: an existing
archive is reused, and concurrent exporters are serialized by exclusive
file creation.
*/
package archive

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"text/template"
	"time"

	"github.com/taibuivan/galleria/internal/core/album"
	"github.com/taibuivan/galleria/internal/core/media"
	"github.com/taibuivan/galleria/internal/platform/apperr"
	"github.com/taibuivan/galleria/internal/platform/storage"
)

// readmeTemplate is rendered into the archive as README.txt.
var readmeTemplate = template.Must(template.New("readme").Parse(
	`{{.Title}}
{{if .Description}}
{{.Description}}
{{end}}{{if .Date}}Date: {{.Date}}
{{end}}Pictures: {{.Count}}
Exported: {{.ExportedAt}}

This archive was exported from Galleria. File names follow the picture
slugs as shown in the album.
`))

// readmeData feeds the manifest template.
type readmeData struct {
	Title       string
	Description string
	Date        string
	Count       int
	ExportedAt  string
}

// # Exporter

// Exporter assembles album zip archives from stored originals.
type Exporter struct {
	pictures album.PictureRepository
	media    media.MediaRepository
	store    storage.Storage
	logger   *slog.Logger
}

// NewExporter constructs an archive [Exporter].
func NewExporter(
	pictures album.PictureRepository,
	mediaRepo media.MediaRepository,
	store storage.Storage,
	logger *slog.Logger,
) *Exporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Exporter{
		pictures: pictures,
		media:    mediaRepo,
		store:    store,
		logger:   logger,
	}
}

/*
Export builds (or reuses) the zip archive of an album.

Description: The archive path is canonical, so an existing file means a
previous export already succeeded and is returned as-is. Otherwise the
file is opened with exclusive-create semantics: losing that race to a
concurrent exporter is reported as a conflict rather than risking two
writers interleaving into one file. Pictures whose original has not been
ingested yet are skipped with a warning so a half-imported album still
exports what it has. A failure mid-write removes the partial file.

Parameters:
  - context: context.Context
  - subject: *album.Album (The album to export)

Returns:
  - string: Storage path of the finished archive
  - error: Conflict when another export is in flight, or I/O failures
*/
func (exporter *Exporter) Export(context context.Context, subject *album.Album) (string, error) {

	archivePath := media.ArchivePath(subject.Path)

	// A finished archive is reused, never rebuilt.
	if exporter.store.Exists(archivePath) {
		return archivePath, nil
	}

	file, err := exporter.store.CreateExclusive(archivePath)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return "", apperr.Conflict("An export of this album is already in progress")
		}
		return "", err
	}

	if err := exporter.write(context, file, subject, archivePath); err != nil {
		file.Close()
		if removeErr := exporter.store.Remove(archivePath); removeErr != nil {
			exporter.logger.Warn("partial archive left behind",
				"path", archivePath, "error", removeErr)
		}
		return "", err
	}

	if err := file.Close(); err != nil {
		return "", err
	}
	return archivePath, nil
}

// write streams the manifest and all available originals into the archive.
func (exporter *Exporter) write(context context.Context, file io.Writer, subject *album.Album, archivePath string) error {

	zipWriter := zip.NewWriter(file)

	manifest, err := exporter.renderReadme(context, subject)
	if err != nil {
		return err
	}
	entry, err := zipWriter.Create("README.txt")
	if err != nil {
		return err
	}
	if _, err := entry.Write(manifest); err != nil {
		return err
	}

	pictures, err := exporter.pictures.ListByAlbum(context, subject.ID, true)
	if err != nil {
		return err
	}

	for _, picture := range pictures {
		original, err := exporter.media.FindOriginal(context, picture.ID)
		if err != nil {
			if apperr.IsNotFound(err) {
				exporter.logger.Warn("skipping picture without original",
					"picture_id", picture.ID, "archive", archivePath)
				continue
			}
			return err
		}

		if err := exporter.addOriginal(zipWriter, picture, original); err != nil {
			return err
		}
	}

	return zipWriter.Close()
}

// addOriginal copies one original file into the archive under the
// picture's slug.
func (exporter *Exporter) addOriginal(zipWriter *zip.Writer, picture *album.Picture, original *media.Media) error {

	reader, err := exporter.store.Open(original.Src)
	if err != nil {
		return err
	}
	defer reader.Close()

	entry, err := zipWriter.Create(picture.Slug + "." + original.Format)
	if err != nil {
		return err
	}

	_, err = io.Copy(entry, reader)
	return err
}

// renderReadme produces the manifest text for an album.
func (exporter *Exporter) renderReadme(context context.Context, subject *album.Album) ([]byte, error) {

	pictures, err := exporter.pictures.ListByAlbum(context, subject.ID, true)
	if err != nil {
		return nil, err
	}

	data := readmeData{
		Title:       subject.Title,
		Description: subject.Description,
		Count:       len(pictures),
		ExportedAt:  time.Now().UTC().Format(time.RFC3339),
	}
	if subject.Date != nil {
		data.Date = subject.Date.Format("2006-01-02")
	}

	var buffer bytes.Buffer
	if err := readmeTemplate.Execute(&buffer, data); err != nil {
		return nil, err
	}
	return buffer.Bytes(), nil
}
