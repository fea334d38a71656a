// Copyright (c) 2026 Mangario. All rights reserved.
// Author: p.castro.dev@gmail.com

package manga

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/plcastro/mangario/internal/platform/request"
	"github.com/plcastro/mangario/internal/platform/respond"
	"github.com/plcastro/mangario/pkg/pagination"
)

// # Handler Implementation

// Handler implements the HTTP read surface for the catalogue.
type Handler struct {
	service *Service
}

// NewHandler constructs a new manga [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes attaches the browse endpoints to the root API router.
func (handler *Handler) RegisterRoutes(api chi.Router) {
	api.Get("/mangas", handler.ListMangas)
	api.Get("/mangas/{mangaID}", handler.GetManga)
}

/*
GET /api/v1/mangas.

Description: Returns a paginated roster of the catalogue, newest first.

Request:
  - limit: int
  - page: int

Response:
  - 200: []Manga: Paginated list
*/
func (handler *Handler) ListMangas(writer http.ResponseWriter, request *http.Request) {
	paginationParams := pagination.FromRequest(request)

	mangas, total, err := handler.service.ListMangas(request.Context(), paginationParams.Limit, paginationParams.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, mangas, pagination.NewMeta(paginationParams.Page, paginationParams.Limit, total))
}

/*
GET /api/v1/mangas/{mangaID}.

Description: Returns a single manga's metadata.

Request:
  - mangaID: string (UUID)

Response:
  - 200: Manga
  - 404: NOT_FOUND: Manga not found
*/
func (handler *Handler) GetManga(writer http.ResponseWriter, request *http.Request) {
	mangaID := requestutil.ID(request, "mangaID")

	entity, err := handler.service.GetManga(request.Context(), mangaID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, entity)
}
