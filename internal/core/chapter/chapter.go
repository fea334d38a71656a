// Copyright (c) 2026 Mangario. All rights reserved.
// Author: p.castro.dev@gmail.com

/*
Package chapter provides the domain models and read surface for chapters and
their image pages.

# Core Responsibility

  - Serialisation: A [Chapter] is a numbered subdivision of a manga; numbers
    are unique per manga.
  - Content Delivery: A [Page] carries a position number and a blob reference
    resolved by readers against the public uploads base.
  - Caching: Page listings for a chapter are cached in Redis and invalidated
    by every content mutation, so a deleted page's blob reference is never
    served after its row is gone.

Ingestion, reordering, and deletion are orchestrated by the content package.
*/
package chapter

import "time"

// # Chapter Aggregate

// Chapter represents a single numbered chapter of a manga.
// It acts as the container for a contiguous sequence of image pages.
type Chapter struct {
	ID      string `json:"id"`
	MangaID string `json:"manga_id"`

	// Numero is unique per manga, enforced by a relational constraint.
	Numero int `json:"numero"`

	Titulo         string     `json:"titulo"`
	DataPublicacao *time.Time `json:"data_publicacao,omitempty"`
	EditadoPor     *string    `json:"editado_por,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// # Image Delivery

// Page represents a single image within a [Chapter].
//
// Page numbers within a chapter always form the contiguous sequence 1..N:
// creation, append, reorder, and deletion all re-establish this before
// committing.
type Page struct {
	ID         string `json:"id"`
	CapituloID string `json:"capitulo_id"`

	// Numero is the 1-based position within the chapter.
	Numero int `json:"numero"`

	// Imagem is the blob reference of the page image, never empty for a
	// committed row.
	Imagem string `json:"imagem"`

	Legenda    *string   `json:"legenda,omitempty"`
	EditadoPor *string   `json:"editado_por,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
