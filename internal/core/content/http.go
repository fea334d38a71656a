// Copyright (c) 2026 Mangario. All rights reserved.
// Author: p.castro.dev@gmail.com

package content

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/plcastro/mangario/internal/core/manga"
	requestutil "github.com/plcastro/mangario/internal/platform/request"
	"github.com/plcastro/mangario/internal/platform/respond"
)

// # Request Payloads

type pagePayloadRequest struct {
	Imagem  string  `json:"imagem"`
	Legenda *string `json:"legenda"`
}

type chapterPayloadRequest struct {
	Numero         int                  `json:"numero"`
	Titulo         string               `json:"titulo"`
	DataPublicacao *time.Time           `json:"data_publicacao"`
	Paginas        []pagePayloadRequest `json:"paginas"`
}

type createMangaRequest struct {
	Titulo   string                `json:"titulo"`
	Autor    string                `json:"autor"`
	Generos  []string              `json:"generos"`
	Status   string                `json:"status"`
	Capa     string                `json:"capa"`
	Capitulo chapterPayloadRequest `json:"capitulo"`
}

type reorderRequest struct {
	Ordem []string `json:"ordem"`
}

func (r chapterPayloadRequest) toInput() ChapterInput {
	input := ChapterInput{
		Numero:         r.Numero,
		Titulo:         r.Titulo,
		DataPublicacao: r.DataPublicacao,
		Paginas:        make([]PagePayload, 0, len(r.Paginas)),
	}
	for _, page := range r.Paginas {
		input.Paginas = append(input.Paginas, PagePayload{Imagem: page.Imagem, Legenda: page.Legenda})
	}
	return input
}

// # Handler Implementation

// Handler implements the HTTP write surface of the content subsystem.
type Handler struct {
	service *Service
}

// NewHandler constructs a new content [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes attaches the content mutation endpoints to the root API
// router. These routes carry base64 image payloads and are expected to be
// mounted under the extended write timeout.
func (handler *Handler) RegisterRoutes(api chi.Router) {
	api.Post("/mangas", handler.CreateManga)
	api.Post("/mangas/{mangaID}/capitulos", handler.CreateChapter)
	api.Post("/capitulos/{chapterID}/paginas", handler.AppendPages)
	api.Put("/capitulos/{chapterID}/paginas/ordem", handler.ReorderPages)
	api.Delete("/mangas/{mangaID}", handler.DeleteManga)
	api.Delete("/capitulos/{chapterID}", handler.DeleteChapter)
	api.Delete("/paginas/{pageID}", handler.DeletePage)
}

/*
POST /api/v1/mangas.

Description: Creates a manga with its first chapter and pages. All images
arrive as base64 data URIs in the JSON body.

Request:
  - body: createMangaRequest

Response:
  - 201: Manga
  - 400: INVALID_PAYLOAD: Malformed body or image data
  - 409: DUPLICATE_CHAPTER_NUMBER
*/
func (handler *Handler) CreateManga(writer http.ResponseWriter, request *http.Request) {

	var payload createMangaRequest
	if err := requestutil.DecodeJSON(request, &payload); err != nil {
		respond.Error(writer, request, err)
		return
	}

	entity, err := handler.service.CreateManga(request.Context(), MangaInput{
		Titulo:   payload.Titulo,
		Autor:    payload.Autor,
		Generos:  payload.Generos,
		Status:   manga.Status(payload.Status),
		Capa:     payload.Capa,
		Capitulo: payload.Capitulo.toInput(),
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, entity)
}

/*
POST /api/v1/mangas/{mangaID}/capitulos.

Description: Creates a chapter with its pages inside an existing manga.

Request:
  - mangaID: string (UUID)
  - body: chapterPayloadRequest

Response:
  - 201: Chapter
  - 404: NOT_FOUND: Manga not found
  - 409: DUPLICATE_CHAPTER_NUMBER
*/
func (handler *Handler) CreateChapter(writer http.ResponseWriter, request *http.Request) {
	mangaID := requestutil.ID(request, "mangaID")

	var payload chapterPayloadRequest
	if err := requestutil.DecodeJSON(request, &payload); err != nil {
		respond.Error(writer, request, err)
		return
	}

	entity, err := handler.service.CreateChapter(request.Context(), mangaID, payload.toInput())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, entity)
}

/*
POST /api/v1/capitulos/{chapterID}/paginas.

Description: Appends pages to the end of a chapter. Numbers continue from the
chapter's current maximum.

Request:
  - chapterID: string (UUID)
  - body: {"paginas": []pagePayloadRequest}

Response:
  - 201: []Page: The appended pages with their assigned numbers
  - 404: NOT_FOUND: Chapter not found
  - 409: CONCURRENT_MODIFICATION: Lost the numbering race twice
*/
func (handler *Handler) AppendPages(writer http.ResponseWriter, request *http.Request) {
	chapterID := requestutil.ID(request, "chapterID")

	var payload struct {
		Paginas []pagePayloadRequest `json:"paginas"`
	}
	if err := requestutil.DecodeJSON(request, &payload); err != nil {
		respond.Error(writer, request, err)
		return
	}

	payloads := make([]PagePayload, 0, len(payload.Paginas))
	for _, page := range payload.Paginas {
		payloads = append(payloads, PagePayload{Imagem: page.Imagem, Legenda: page.Legenda})
	}

	pages, err := handler.service.AppendPages(request.Context(), chapterID, payloads)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, pages)
}

/*
PUT /api/v1/capitulos/{chapterID}/paginas/ordem.

Description: Replaces the chapter's reading order. The submitted IDs must be
exactly the chapter's current page set.

Request:
  - chapterID: string (UUID)
  - body: {"ordem": ["pageID", ...]}

Response:
  - 204: No Content
  - 404: NOT_FOUND: Chapter not found
  - 422: REORDER_SET_MISMATCH
*/
func (handler *Handler) ReorderPages(writer http.ResponseWriter, request *http.Request) {
	chapterID := requestutil.ID(request, "chapterID")

	var payload reorderRequest
	if err := requestutil.DecodeJSON(request, &payload); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.ReorderPages(request.Context(), chapterID, payload.Ordem); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

/*
DELETE /api/v1/mangas/{mangaID}.

Description: Deletes a manga with all chapters, pages and images.

Request:
  - mangaID: string (UUID)

Response:
  - 204: No Content
  - 404: NOT_FOUND: Manga not found
*/
func (handler *Handler) DeleteManga(writer http.ResponseWriter, request *http.Request) {
	mangaID := requestutil.ID(request, "mangaID")

	if err := handler.service.DeleteManga(request.Context(), mangaID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

/*
DELETE /api/v1/capitulos/{chapterID}.

Description: Deletes a chapter with its pages and images.

Request:
  - chapterID: string (UUID)

Response:
  - 204: No Content
  - 404: NOT_FOUND: Chapter not found
*/
func (handler *Handler) DeleteChapter(writer http.ResponseWriter, request *http.Request) {
	chapterID := requestutil.ID(request, "chapterID")

	if err := handler.service.DeleteChapter(request.Context(), chapterID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

/*
DELETE /api/v1/paginas/{pageID}.

Description: Deletes a single page; the surviving pages are renumbered so the
chapter keeps a contiguous 1..N sequence.

Request:
  - pageID: string (UUID)

Response:
  - 204: No Content
  - 404: NOT_FOUND: Page not found
*/
func (handler *Handler) DeletePage(writer http.ResponseWriter, request *http.Request) {
	pageID := requestutil.ID(request, "pageID")

	if err := handler.service.DeletePage(request.Context(), pageID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}
