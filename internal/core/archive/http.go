// Copyright (c) 2026 Galleria. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package archive

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/galleria/internal/core/album"
	requestutil "github.com/taibuivan/galleria/internal/platform/request"
	"github.com/taibuivan/galleria/internal/platform/respond"
	"github.com/taibuivan/galleria/internal/platform/storage"
)

// # Handler Implementation

// Handler implements the HTTP layer for album exports.
type Handler struct {
	exporter *Exporter
	albums   *album.Service
	store    storage.Storage
}

// NewHandler constructs a new archive [Handler].
func NewHandler(exporter *Exporter, albums *album.Service, store storage.Storage) *Handler {
	return &Handler{exporter: exporter, albums: albums, store: store}
}

// Routes returns a [chi.Router] configured with the export endpoints.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	router.Post("/{albumID}", handler.export)
	return router
}

// exportResponse is the outbound schema of the export endpoint.
type exportResponse struct {
	Path string `json:"path"`
	URL  string `json:"url"`
}

/*
POST /api/v1/exports/{albumID}.

Description: Builds the album's zip archive, or returns the existing one.

Response:
  - 200: Path and public URL of the archive
  - 404: Album not found
  - 409: Another export of the same album is in flight
*/
func (handler *Handler) export(writer http.ResponseWriter, request *http.Request) {

	subject, err := handler.albums.GetAlbum(request.Context(), requestutil.ID(request, "albumID"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	archivePath, err := handler.exporter.Export(request.Context(), subject)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, exportResponse{
		Path: archivePath,
		URL:  handler.store.URLFor(archivePath),
	})
}
