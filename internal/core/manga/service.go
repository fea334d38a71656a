// Copyright (c) 2026 Mangario. All rights reserved.
// Author: p.castro.dev@gmail.com

package manga

import (
	"context"
	"log/slog"
)

// # Service Layer

// Service orchestrates the read-side business logic for the catalogue.
type Service struct {
	mangaRepo Repository
	logger    *slog.Logger
}

// NewService constructs a new [Service] with its required repository.
func NewService(mangaRepo Repository, logger *slog.Logger) *Service {
	return &Service{
		mangaRepo: mangaRepo,
		logger:    logger,
	}
}

/*
ListMangas retrieves a page of the catalogue.

Parameters:
  - ctx: context.Context
  - limit: int
  - offset: int

Returns:
  - []*Manga: Matched entities
  - int: Total catalogue size
  - error: Storage failures
*/
func (service *Service) ListMangas(ctx context.Context, limit, offset int) ([]*Manga, int, error) {
	return service.mangaRepo.List(ctx, limit, offset)
}

/*
GetManga retrieves metadata for a single manga by its ID.

Parameters:
  - ctx: context.Context
  - id: string (UUID)

Returns:
  - *Manga: The hydrated domain entity
  - error: apperr.NotFound if missing
*/
func (service *Service) GetManga(ctx context.Context, id string) (*Manga, error) {
	return service.mangaRepo.FindByID(ctx, id)
}
