// Copyright (c) 2026 Mangario. All rights reserved.
// Author: p.castro.dev@gmail.com

package manga

import "context"

// # Manga Data Access

// Repository defines the read-side data access contract for mangas.
//
// Mutations (creation, deletion) go through the content package's
// transactional store, never through this interface.
type Repository interface {

	/*
		List returns a page of the catalogue ordered by addition date
		(newest first).

		Parameters:
		  - ctx: context.Context
		  - limit: int
		  - offset: int

		Returns:
		  - []*Manga: Hydrated entities
		  - int: Total catalogue size
		  - error: Storage failures
	*/
	List(ctx context.Context, limit, offset int) ([]*Manga, int, error)

	/*
		FindByID returns the manga with the given ID.

		Parameters:
		  - ctx: context.Context
		  - id: string (UUID)

		Returns:
		  - *Manga: Hydrated metadata
		  - error: apperr.NotFound if missing
	*/
	FindByID(ctx context.Context, id string) (*Manga, error)
}
