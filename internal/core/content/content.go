// Copyright (c) 2026 Mangario. All rights reserved.
// Author: p.castro.dev@gmail.com

/*
Package content implements the ingestion and page-ordering subsystem: the only
code that writes to both the relational store and the blob store.

# Components

  - Transactional writer ([Service.CreateManga], [Service.CreateChapter],
    [Service.AppendPages]): stores image blobs, then commits the relational
    rows as one transaction, compensating with best-effort blob deletion when
    the transaction fails.
  - Page order manager ([Order]): owns the invariant that page numbers within
    a chapter always form the contiguous sequence 1..N.
  - Deletion coordinator ([Service.DeletePage], [Service.DeleteChapter],
    [Service.DeleteManga]): deletes rows first, commits, then best-effort
    removes the now-orphaned blobs.

# Consistency

Blob writes cannot be rolled back with the database transaction. Failure
handling therefore always prefers transient orphan blobs (invisible: no row
references them) over dangling row references (a committed page whose image
does not exist). A crash between commit and blob cleanup leaves orphan files
recoverable by a periodic sweep; it never leaves a row pointing at nothing.
*/
package content

import (
	"net/http"
	"time"

	"github.com/plcastro/mangario/internal/core/manga"
	"github.com/plcastro/mangario/internal/platform/apperr"
)

// # Error Taxonomy
//
// Every failure mode of the subsystem is a discriminated sentinel so the HTTP
// layer can map it to a stable machine code and status.

var (
	// ErrMangaNotFound signals a referential lookup miss on a manga ID.
	ErrMangaNotFound = apperr.NotFound("Manga")

	// ErrChapterNotFound signals a referential lookup miss on a chapter ID.
	ErrChapterNotFound = apperr.NotFound("Chapter")

	// ErrPageNotFound signals a referential lookup miss on a page ID.
	ErrPageNotFound = apperr.NotFound("Page")

	// ErrDuplicateChapterNumber signals a (manga_id, numero) uniqueness violation.
	ErrDuplicateChapterNumber = apperr.New("DUPLICATE_CHAPTER_NUMBER",
		"A chapter with this number already exists for this manga",
		http.StatusConflict)

	// ErrDuplicatePageNumber signals a (capitulo_id, numero) uniqueness
	// violation. During an append this is a retryable race, not a fatal error.
	ErrDuplicatePageNumber = apperr.New("DUPLICATE_PAGE_NUMBER",
		"A page with this number already exists in this chapter",
		http.StatusConflict)

	// ErrReorderSetMismatch signals a reorder request whose page ID set does
	// not exactly match the chapter's current pages.
	ErrReorderSetMismatch = apperr.New("REORDER_SET_MISMATCH",
		"Page order must reference every page of the chapter exactly once",
		http.StatusUnprocessableEntity)

	// ErrConcurrentModification signals that the append numbering race
	// persisted through its internal retry.
	ErrConcurrentModification = apperr.New("CONCURRENT_MODIFICATION",
		"The chapter was modified concurrently, retry the operation",
		http.StatusConflict)
)

// # Ingestion Inputs

// PagePayload describes one page image to ingest.
type PagePayload struct {
	// Imagem is the full base64 data URI of the page image.
	Imagem string

	// Legenda is an optional caption.
	Legenda *string
}

// ChapterInput describes a chapter to create together with its pages.
//
// Pages are ingested in slice order; their numbers are assigned by the page
// order manager, never by the caller.
type ChapterInput struct {
	Numero         int
	Titulo         string
	DataPublicacao *time.Time
	Paginas        []PagePayload
}

// MangaInput describes a manga to create together with its first chapter.
type MangaInput struct {
	Titulo  string
	Autor   string
	Generos []string
	Status  manga.Status

	// Capa is the base64 data URI of the cover image.
	Capa string

	Capitulo ChapterInput
}
