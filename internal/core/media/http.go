// Copyright (c) 2026 Galleria. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package media (HTTP layer) exposes the spec registry and picture ingestion.

# Routing Strategy

  - Registry: CRUD over derivation specs.
  - Ingestion: Multipart upload creating a picture and importing its
    original; returns 202 when the import was queued for the worker.
*/
package media

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/galleria/internal/core/album"
	"github.com/taibuivan/galleria/internal/platform/apperr"
	requestutil "github.com/taibuivan/galleria/internal/platform/request"
	"github.com/taibuivan/galleria/internal/platform/respond"
	"github.com/taibuivan/galleria/internal/platform/validate"
	"github.com/taibuivan/galleria/pkg/uuid"
)

// maxUploadBytes bounds a single multipart upload (64 MiB covers raw
// camera JPEGs with headroom).
const maxUploadBytes = 64 << 20

// # Handler Implementation

// Handler implements the HTTP layer for the media domain.
type Handler struct {
	engine *Engine
	specs  SpecRepository
	albums *album.Service

	// queued mirrors whether the engine defers imports to the worker, so
	// uploads can answer 202 instead of 201.
	queued bool
}

// NewHandler constructs a new media [Handler].
func NewHandler(engine *Engine, specs SpecRepository, albums *album.Service, queued bool) *Handler {
	return &Handler{engine: engine, specs: specs, albums: albums, queued: queued}
}

// Routes returns a [chi.Router] configured with the media domain's endpoints.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	// ## Spec Registry
	router.Get("/specs", handler.listSpecs)
	router.Post("/specs", handler.createSpec)
	router.Patch("/specs/{id}", handler.updateSpec)

	// ## Picture Ingestion
	router.Post("/pictures", handler.uploadPicture)

	return router
}

// # Spec Registry Endpoints

/*
GET /api/v1/media/specs.

Response:
  - 200: []Spec: Every registered spec, active first
*/
func (handler *Handler) listSpecs(writer http.ResponseWriter, request *http.Request) {

	specs, err := handler.specs.List(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	if specs == nil {
		specs = []*Spec{}
	}

	respond.OK(writer, specs)
}

// specRequest defines the inbound JSON schema for spec creation and update.
type specRequest struct {
	Role      string `json:"role"`
	MaxWidth  int    `json:"max_width"`
	MaxHeight int    `json:"max_height"`
	Format    string `json:"format"`
	Quality   int    `json:"quality"`
	Active    *bool  `json:"active"`
}

// validateSpec enforces the registry's business rules.
func validateSpec(payload *specRequest) error {
	validator := &validate.Validator{}
	validator.Required(FieldRole, payload.Role)
	validator.OneOf(FieldFormat, payload.Format, "jpeg", "png")
	validator.Range(FieldMaxWidth, payload.MaxWidth, 1, 10000)
	validator.Range(FieldMaxHeight, payload.MaxHeight, 1, 10000)
	validator.Range(FieldQuality, payload.Quality, 1, 100)
	return validator.Err()
}

/*
POST /api/v1/media/specs.

Response:
  - 201: Spec: The persisted spec
  - 400: Validation failure (webp and gif output are rejected here)
*/
func (handler *Handler) createSpec(writer http.ResponseWriter, request *http.Request) {

	var payload specRequest
	if err := requestutil.DecodeJSON(request, &payload); err != nil {
		respond.Error(writer, request, err)
		return
	}
	if err := validateSpec(&payload); err != nil {
		respond.Error(writer, request, err)
		return
	}

	spec := &Spec{
		ID:        uuid.New(),
		Role:      payload.Role,
		MaxWidth:  payload.MaxWidth,
		MaxHeight: payload.MaxHeight,
		Format:    payload.Format,
		Quality:   payload.Quality,
		Active:    payload.Active == nil || *payload.Active,
	}

	if err := handler.specs.Create(request.Context(), spec); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, spec)
}

/*
PATCH /api/v1/media/specs/{id}.

Response:
  - 200: Spec: The updated spec
  - 404: Spec not found
*/
func (handler *Handler) updateSpec(writer http.ResponseWriter, request *http.Request) {

	spec, err := handler.specs.FindByID(request.Context(), requestutil.ID(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var payload specRequest
	if err := requestutil.DecodeJSON(request, &payload); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if payload.Role != "" {
		spec.Role = payload.Role
	}
	if payload.MaxWidth > 0 {
		spec.MaxWidth = payload.MaxWidth
	}
	if payload.MaxHeight > 0 {
		spec.MaxHeight = payload.MaxHeight
	}
	if payload.Format != "" {
		spec.Format = payload.Format
	}
	if payload.Quality > 0 {
		spec.Quality = payload.Quality
	}
	if payload.Active != nil {
		spec.Active = *payload.Active
	}

	reValidate := specRequest{
		Role:      spec.Role,
		MaxWidth:  spec.MaxWidth,
		MaxHeight: spec.MaxHeight,
		Format:    spec.Format,
		Quality:   spec.Quality,
	}
	if err := validateSpec(&reValidate); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.specs.Update(request.Context(), spec); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, spec)
}

// # Ingestion Endpoint

/*
POST /api/v1/media/pictures (multipart/form-data).

Description: Creates a picture under an album and ingests the uploaded
file as its original. In queued deployments the derivation runs on the
worker and the endpoint answers 202; otherwise the variants exist when the
201 returns.

Request:
  - album_id: string (Owning album UUID)
  - title: string (Optional display title; slug derives from it or the filename)
  - sort_order: int (Optional position within the album)
  - file: binary (The image)

Response:
  - 201: Picture: Created and fully derived
  - 202: Picture: Created, derivation queued
  - 400: Missing file or album_id
  - 404: Album not found
*/
func (handler *Handler) uploadPicture(writer http.ResponseWriter, request *http.Request) {

	request.Body = http.MaxBytesReader(writer, request.Body, maxUploadBytes)
	if err := request.ParseMultipartForm(maxUploadBytes); err != nil {
		respond.Error(writer, request, apperr.ValidationError("Multipart payload unreadable"))
		return
	}

	albumID := request.FormValue("album_id")
	if albumID == "" {
		respond.Error(writer, request, apperr.ValidationError("album_id is required"))
		return
	}

	file, header, err := request.FormFile("file")
	if err != nil {
		respond.Error(writer, request, apperr.ValidationError("file is required"))
		return
	}
	defer file.Close()

	title := request.FormValue("title")
	if title == "" {
		title = header.Filename
	}
	sortOrder, _ := strconv.Atoi(request.FormValue("sort_order"))

	picture := &album.Picture{
		AlbumID:   albumID,
		Title:     title,
		SortOrder: sortOrder,
		IsPublic:  true,
	}
	if err := handler.albums.CreatePicture(request.Context(), picture); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.engine.ImportOpenFile(request.Context(), picture.ID, file, true); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if handler.queued {
		respond.Accepted(writer, picture)
		return
	}
	respond.Created(writer, picture)
}
