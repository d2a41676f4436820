// Copyright (c) 2026 Galleria. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package album (HTTP layer) exposes the content tree over REST.

# Routing Strategy

  - Resolution (Public): GET / resolves any content path to the entity
    living there and returns the matching projection.
  - Management: Mutative endpoints for albums, pictures, and series.

The handler translates between the web/JSON layer and the internal domain
[Service].
*/
package album

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/galleria/internal/platform/apperr"
	requestutil "github.com/taibuivan/galleria/internal/platform/request"
	"github.com/taibuivan/galleria/internal/platform/respond"
	"github.com/taibuivan/galleria/pkg/pagination"
)

// # Handler Implementation

// Handler implements the HTTP layer for the content tree.
type Handler struct {
	service *Service
}

// NewHandler constructs a new album [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns a [chi.Router] configured with the album domain's endpoints.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	// ## Resolution & Discovery
	router.Get("/", handler.resolve)
	router.Get("/{id}", handler.getAlbum)

	// ## Album Management
	router.Post("/", handler.createAlbum)
	router.Patch("/{id}", handler.updateAlbum)
	router.Delete("/{id}", handler.deleteAlbum)

	// ## Picture Management
	router.Delete("/pictures/{id}", handler.deletePicture)

	// ## Series Management
	router.Get("/series", handler.listSeries)
	router.Post("/series", handler.createSeries)

	return router
}

// # Resolution Endpoint

/*
GET /api/v1/albums?path=...

Description: Resolves a content path to whatever lives at that address and
returns the matching projection. Album hits return the full album view;
picture hits return the owning album's view plus the picture; series hits
return the series metadata.

Request:
  - path: string (Absolute content path, default "/")
  - all: bool (Include non-public and hidden content)

Response:
  - 200: Resolution-shaped payload
  - 404: Nothing lives at the path
*/
func (handler *Handler) resolve(writer http.ResponseWriter, request *http.Request) {

	path := request.URL.Query().Get("path")
	includeHidden := request.URL.Query().Get("all") == "true"

	resolution, err := handler.service.ResolvePath(request.Context(), path)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	// Album-backed hits are expanded into the full projection.
	switch resolution.Kind {
	case ResolutionAlbum, ResolutionPicture:
		view, err := handler.service.View(request.Context(), resolution.Album, includeHidden)
		if err != nil {
			respond.Error(writer, request, err)
			return
		}
		respond.OK(writer, resolveResponse{
			Kind:    resolution.Kind,
			Album:   view,
			Picture: resolution.Picture,
		})
	case ResolutionSeries:
		respond.OK(writer, resolveResponse{
			Kind:   resolution.Kind,
			Series: resolution.Series,
		})
	default:
		respond.Error(writer, request, apperr.NotFound("Path"))
	}
}

// resolveResponse is the outbound schema of the resolution endpoint.
type resolveResponse struct {
	Kind    ResolutionKind `json:"kind"`
	Album   *AlbumView     `json:"album,omitempty"`
	Picture *Picture       `json:"picture,omitempty"`
	Series  *Series        `json:"series,omitempty"`
}

// # Album Endpoints

/*
GET /api/v1/albums/{id}.

Response:
  - 200: Album: Raw entity (management view)
  - 404: Album not found
*/
func (handler *Handler) getAlbum(writer http.ResponseWriter, request *http.Request) {

	album, err := handler.service.GetAlbum(request.Context(), requestutil.ID(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, album)
}

// albumRequest defines the inbound JSON schema for album creation and update.
type albumRequest struct {
	ParentID    *string    `json:"parent_id"`
	Slug        string     `json:"slug"`
	Title       string     `json:"title"`
	Description *string    `json:"description"`
	Body        *string    `json:"body"`
	RedirectURL *string    `json:"redirect_url"`
	IsPublic    *bool      `json:"is_public"`
	IsVisible   *bool      `json:"is_visible"`
	Date        *time.Time `json:"date"`
	Layout      string     `json:"layout"`
	SeriesID    *string    `json:"series_id"`
}

/*
POST /api/v1/albums.

Description: Creates an album and runs the full save pipeline, so the
response already carries the materialized path and any inferred state.

Response:
  - 201: Album: The persisted entity
  - 400: Validation failure
  - 409: A sibling already owns the slug
  - 422: The parent link would create a cycle
*/
func (handler *Handler) createAlbum(writer http.ResponseWriter, request *http.Request) {

	var payload albumRequest
	if err := requestutil.DecodeJSON(request, &payload); err != nil {
		respond.Error(writer, request, err)
		return
	}

	album := &Album{
		ParentID:  payload.ParentID,
		Slug:      payload.Slug,
		Title:     payload.Title,
		IsPublic:  payload.IsPublic == nil || *payload.IsPublic,
		IsVisible: payload.IsVisible == nil || *payload.IsVisible,
		Date:      payload.Date,
		Layout:    Layout(payload.Layout),
		SeriesID:  payload.SeriesID,
	}
	if payload.Description != nil {
		album.Description = *payload.Description
	}
	if payload.Body != nil {
		album.Body = *payload.Body
	}
	if payload.RedirectURL != nil {
		album.RedirectURL = *payload.RedirectURL
	}

	if err := handler.service.CreateAlbum(request.Context(), album); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, album)
}

/*
PATCH /api/v1/albums/{id}.

Description: Applies a partial update and re-runs the save pipeline.
Moving the album (parent or slug change) cascades fresh paths through the
subtree before the response returns.

Response:
  - 200: Album: The updated entity
  - 404: Album not found
  - 409: A sibling already owns the slug
  - 422: The new parent would create a cycle
*/
func (handler *Handler) updateAlbum(writer http.ResponseWriter, request *http.Request) {

	album, err := handler.service.GetAlbum(request.Context(), requestutil.ID(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var payload albumRequest
	if err := requestutil.DecodeJSON(request, &payload); err != nil {
		respond.Error(writer, request, err)
		return
	}

	// Partial update semantics: only provided fields overwrite.
	if payload.ParentID != nil {
		album.ParentID = payload.ParentID
	}
	if payload.Slug != "" {
		album.Slug = payload.Slug
	}
	if payload.Title != "" {
		album.Title = payload.Title
	}
	if payload.Description != nil {
		album.Description = *payload.Description
	}
	if payload.Body != nil {
		album.Body = *payload.Body
	}
	if payload.RedirectURL != nil {
		album.RedirectURL = *payload.RedirectURL
	}
	if payload.IsPublic != nil {
		album.IsPublic = *payload.IsPublic
	}
	if payload.IsVisible != nil {
		album.IsVisible = *payload.IsVisible
	}
	if payload.Date != nil {
		album.Date = payload.Date
	}
	if payload.Layout != "" {
		album.Layout = Layout(payload.Layout)
	}
	if payload.SeriesID != nil {
		album.SeriesID = payload.SeriesID
	}

	if err := handler.service.UpdateAlbum(request.Context(), album); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, album)
}

/*
DELETE /api/v1/albums/{id}.

Response:
  - 204: Deleted (subtree, pictures, and media removed)
  - 404: Album not found
*/
func (handler *Handler) deleteAlbum(writer http.ResponseWriter, request *http.Request) {

	if err := handler.service.DeleteAlbum(request.Context(), requestutil.ID(request, "id")); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

// # Picture Endpoints

/*
DELETE /api/v1/albums/pictures/{id}.

Response:
  - 204: Deleted (media rows and files removed, owner cover refreshed)
  - 404: Picture not found
*/
func (handler *Handler) deletePicture(writer http.ResponseWriter, request *http.Request) {

	if err := handler.service.DeletePicture(request.Context(), requestutil.ID(request, "id")); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

// # Series Endpoints

/*
GET /api/v1/albums/series.

Request:
  - page: int (1-indexed, default 1)
  - limit: int (Items per page, default 20, max 100)

Response:
  - 200: []Series: One page ordered by name, with pagination metadata
*/
func (handler *Handler) listSeries(writer http.ResponseWriter, request *http.Request) {
	paginationParams := pagination.FromRequest(request)

	collection, total, err := handler.service.ListSeries(request.Context(), paginationParams.Limit, paginationParams.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	if collection == nil {
		collection = []*Series{}
	}

	respond.Paginated(writer, collection, pagination.NewMeta(paginationParams.Page, paginationParams.Limit, total))
}

// seriesRequest defines the inbound JSON schema for series creation.
type seriesRequest struct {
	Slug string `json:"slug"`
	Name string `json:"name"`
}

/*
POST /api/v1/albums/series.

Response:
  - 201: Series: The persisted series
  - 400: Validation failure
  - 409: Slug already taken
*/
func (handler *Handler) createSeries(writer http.ResponseWriter, request *http.Request) {

	var payload seriesRequest
	if err := requestutil.DecodeJSON(request, &payload); err != nil {
		respond.Error(writer, request, err)
		return
	}

	series := &Series{Slug: payload.Slug, Name: payload.Name}
	if err := handler.service.CreateSeries(request.Context(), series); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, series)
}
