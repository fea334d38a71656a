// Copyright (c) 2026 Mangario. All rights reserved.
// Author: p.castro.dev@gmail.com

package chapter

import "context"

// # Chapter & Page Data Access

// Repository defines the read-side data access contract for chapters and pages.
//
// Mutations go through the content package's transactional store.
type Repository interface {

	/*
		ListByManga returns all chapters of a manga ordered by numero ascending.

		Parameters:
		  - ctx: context.Context
		  - mangaID: string (Owner ID)

		Returns:
		  - []*Chapter: List of hydrated chapters
		  - error: Storage failures
	*/
	ListByManga(ctx context.Context, mangaID string) ([]*Chapter, error)

	/*
		FindByID returns the chapter with the given ID.

		Parameters:
		  - ctx: context.Context
		  - id: string (UUID)

		Returns:
		  - *Chapter: Hydrated metadata
		  - error: apperr.NotFound if missing
	*/
	FindByID(ctx context.Context, id string) (*Chapter, error)

	/*
		ListPages returns all pages of a chapter ordered by numero ascending.

		Parameters:
		  - ctx: context.Context
		  - chapterID: string (UUID)

		Returns:
		  - []*Page: List of image metadata
		  - error: Retrieval failure
	*/
	ListPages(ctx context.Context, chapterID string) ([]*Page, error)
}
