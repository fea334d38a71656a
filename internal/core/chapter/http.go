// Copyright (c) 2026 Mangario. All rights reserved.
// Author: p.castro.dev@gmail.com

package chapter

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/plcastro/mangario/internal/platform/request"
	"github.com/plcastro/mangario/internal/platform/respond"
)

// # Handler Implementation

// Handler implements the HTTP read surface for chapters and pages.
type Handler struct {
	service *Service
}

// NewHandler constructs a new chapter [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes attaches chapter and page read endpoints to the root API
// router. Chapter endpoints span both /mangas/{id}/... and /capitulos/...
// prefixes.
func (handler *Handler) RegisterRoutes(api chi.Router) {
	api.Get("/mangas/{mangaID}/capitulos", handler.ListChapters)
	api.Get("/capitulos/{chapterID}", handler.GetChapter)
	api.Get("/capitulos/{chapterID}/paginas", handler.ListPages)
}

/*
GET /api/v1/mangas/{mangaID}/capitulos.

Description: Returns all chapters of a manga in reading order.

Request:
  - mangaID: string (UUID)

Response:
  - 200: []Chapter
*/
func (handler *Handler) ListChapters(writer http.ResponseWriter, request *http.Request) {
	mangaID := requestutil.ID(request, "mangaID")

	chapters, err := handler.service.ListChapters(request.Context(), mangaID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, chapters)
}

/*
GET /api/v1/capitulos/{chapterID}.

Description: Returns a single chapter's metadata.

Request:
  - chapterID: string (UUID)

Response:
  - 200: Chapter
  - 404: NOT_FOUND: Chapter not found
*/
func (handler *Handler) GetChapter(writer http.ResponseWriter, request *http.Request) {
	chapterID := requestutil.ID(request, "chapterID")

	entity, err := handler.service.GetChapter(request.Context(), chapterID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, entity)
}

/*
GET /api/v1/capitulos/{chapterID}/paginas.

Description: Returns the ordered page listing for the reader view.

Request:
  - chapterID: string (UUID)

Response:
  - 200: []Page: Pages numbered 1..N in reading order
*/
func (handler *Handler) ListPages(writer http.ResponseWriter, request *http.Request) {
	chapterID := requestutil.ID(request, "chapterID")

	pages, err := handler.service.ListPages(request.Context(), chapterID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, pages)
}
