// Copyright (c) 2026 Mangario. All rights reserved.
// Author: p.castro.dev@gmail.com

/*
Package manga provides the domain model and read surface for the catalogue's
top-level works.

A [Manga] owns an ordered set of chapters (cascade on delete); its cover image
lives in the blob store and is referenced by path. Ingestion and deletion of
mangas are orchestrated by the content package; this package only defines the
aggregate and its browse/read operations.
*/
package manga

import "time"

// # Publication Status

// Status is the publication state of a manga.
type Status string

const (
	StatusInProgress Status = "IN_PROGRESS"
	StatusComplete   Status = "COMPLETE"
	StatusPaused     Status = "PAUSED"
)

// Valid reports whether the status is one of the known publication states.
func (s Status) Valid() bool {
	switch s {
	case StatusInProgress, StatusComplete, StatusPaused:
		return true
	}
	return false
}

// StatusValues returns the allowed status strings for validation messages.
func StatusValues() []string {
	return []string{string(StatusInProgress), string(StatusComplete), string(StatusPaused)}
}

// # Manga Aggregate

// Manga represents a top-level titled work that owns chapters.
type Manga struct {
	ID      string   `json:"id"`
	Titulo  string   `json:"titulo"`
	Slug    string   `json:"slug"`
	Autor   string   `json:"autor,omitempty"`
	Generos []string `json:"generos"`
	Status  Status   `json:"status"`

	// Visualizacoes is a monotonically increasing view counter owned by a
	// separate view-counting collaborator; this service only reads it.
	Visualizacoes int64 `json:"visualizacoes"`

	// Capa is the blob reference of the cover image, relative to the
	// public uploads base (e.g. "capas/{id}/capa_{id}_{ts}.jpg").
	Capa string `json:"capa"`

	DataAdicao time.Time `json:"data_adicao"`
	EditadoPor *string   `json:"editado_por,omitempty"`
	UpdatedAt  time.Time `json:"updated_at"`
}
