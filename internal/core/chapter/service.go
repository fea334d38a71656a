// Copyright (c) 2026 Mangario. All rights reserved.
// Author: p.castro.dev@gmail.com

package chapter

import (
	"context"
	"log/slog"
)

// # Service Layer

// Service orchestrates the read-side business logic for chapters and pages.
type Service struct {
	chapterRepo Repository
	pageCache   *PageCache
	logger      *slog.Logger
}

// NewService constructs a new [Service].
//
// pageCache may be nil, in which case page listings always hit the database.
func NewService(chapterRepo Repository, pageCache *PageCache, logger *slog.Logger) *Service {
	return &Service{
		chapterRepo: chapterRepo,
		pageCache:   pageCache,
		logger:      logger,
	}
}

/*
ListChapters retrieves all chapters of a manga in reading order.

Parameters:
  - ctx: context.Context
  - mangaID: string (Owner ID)

Returns:
  - []*Chapter: Metadata for the manga's chapters
  - error: Storage or execution errors
*/
func (service *Service) ListChapters(ctx context.Context, mangaID string) ([]*Chapter, error) {
	return service.chapterRepo.ListByManga(ctx, mangaID)
}

/*
GetChapter retrieves metadata for a single chapter by its ID.

Parameters:
  - ctx: context.Context
  - id: string (UUID)

Returns:
  - *Chapter: The hydrated domain entity
  - error: apperr.NotFound if missing
*/
func (service *Service) GetChapter(ctx context.Context, id string) (*Chapter, error) {
	return service.chapterRepo.FindByID(ctx, id)
}

/*
ListPages retrieves the ordered page listing of a chapter.

Description: Serves from the Redis page cache when possible; on a miss the
listing is loaded from the database and written back to the cache. A missing
chapter yields an empty listing, matching the repository contract.

Parameters:
  - ctx: context.Context
  - chapterID: string (UUID)

Returns:
  - []*Page: Pages ordered by numero ascending
  - error: Storage failures
*/
func (service *Service) ListPages(ctx context.Context, chapterID string) ([]*Page, error) {

	// 1. Cache lookup
	if service.pageCache != nil {
		if pages, hit := service.pageCache.Get(ctx, chapterID); hit {
			return pages, nil
		}
	}

	// 2. Database fallback
	pages, err := service.chapterRepo.ListPages(ctx, chapterID)
	if err != nil {
		return nil, err
	}

	// 3. Populate the cache for subsequent readers
	if service.pageCache != nil {
		service.pageCache.Set(ctx, chapterID, pages)
	}

	return pages, nil
}
