// Copyright (c) 2026 Mangario. All rights reserved.
// Author: p.castro.dev@gmail.com

package chapter

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/plcastro/mangario/internal/platform/apperr"
	"github.com/plcastro/mangario/internal/platform/database/schema"
)

// # PostgreSQL Repository

// chapterRepository implements the [Repository] interface using pgx.
type chapterRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL backed chapter store.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &chapterRepository{pool: pool}
}

/*
ListByManga retrieves all chapters linked to a specific manga.

Description: Returns chapter metadata ordered by numero ascending, which is
the natural reading order.

Parameters:
  - ctx: context.Context
  - mangaID: string (Owner ID)

Returns:
  - []*Chapter: Slice of chapters
  - error: Storage execution failures
*/
func (repository *chapterRepository) ListByManga(ctx context.Context, mangaID string) ([]*Chapter, error) {

	// Ordered retrieval query
	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s, %s, %s, %s
		FROM %s
		WHERE %s = $1
		ORDER BY %s ASC
	`,
		schema.Capitulos.ID, schema.Capitulos.MangaID, schema.Capitulos.Numero, schema.Capitulos.Titulo,
		schema.Capitulos.DataPublicacao, schema.Capitulos.EditadoPor, schema.Capitulos.CreatedAt, schema.Capitulos.UpdatedAt,
		schema.Capitulos.Table,
		schema.Capitulos.MangaID,
		schema.Capitulos.Numero,
	)

	// Execution
	rows, err := repository.pool.Query(ctx, query, mangaID)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to list chapters: %w", err)
	}
	defer rows.Close()

	// Row iteration and entity hydration
	var chapters []*Chapter
	for rows.Next() {
		var entity Chapter
		err := rows.Scan(
			&entity.ID,
			&entity.MangaID,
			&entity.Numero,
			&entity.Titulo,
			&entity.DataPublicacao,
			&entity.EditadoPor,
			&entity.CreatedAt,
			&entity.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("postgres: failed to scan chapter: %w", err)
		}

		chapters = append(chapters, &entity)
	}

	return chapters, nil
}

/*
FindByID returns the chapter identified by id.

Parameters:
  - ctx: context.Context
  - id: string (UUID)

Returns:
  - *Chapter: Hydrated entity
  - error: apperr.NotFound on absent rows
*/
func (repository *chapterRepository) FindByID(ctx context.Context, id string) (*Chapter, error) {

	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s, %s, %s, %s
		FROM %s
		WHERE %s = $1
	`,
		schema.Capitulos.ID, schema.Capitulos.MangaID, schema.Capitulos.Numero, schema.Capitulos.Titulo,
		schema.Capitulos.DataPublicacao, schema.Capitulos.EditadoPor, schema.Capitulos.CreatedAt, schema.Capitulos.UpdatedAt,
		schema.Capitulos.Table,
		schema.Capitulos.ID,
	)

	var entity Chapter
	err := repository.pool.QueryRow(ctx, query, id).Scan(
		&entity.ID,
		&entity.MangaID,
		&entity.Numero,
		&entity.Titulo,
		&entity.DataPublicacao,
		&entity.EditadoPor,
		&entity.CreatedAt,
		&entity.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Chapter")
		}
		return nil, fmt.Errorf("postgres: failed to find chapter by id: %w", err)
	}

	return &entity, nil
}

/*
ListPages retrieves the images associated with a specific chapter.

Returns:
  - []*Page: Collection of page records sorted by numero ascending
*/
func (repository *chapterRepository) ListPages(ctx context.Context, chapterID string) ([]*Page, error) {

	// Ordered retrieval query
	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s, %s, %s, %s
		FROM %s
		WHERE %s = $1
		ORDER BY %s ASC
	`,
		schema.Paginas.ID, schema.Paginas.CapituloID, schema.Paginas.Numero, schema.Paginas.Imagem,
		schema.Paginas.Legenda, schema.Paginas.EditadoPor, schema.Paginas.CreatedAt, schema.Paginas.UpdatedAt,
		schema.Paginas.Table,
		schema.Paginas.CapituloID,
		schema.Paginas.Numero,
	)

	rows, err := repository.pool.Query(ctx, query, chapterID)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to list pages: %w", err)
	}
	defer rows.Close()

	var pages []*Page
	for rows.Next() {
		var page Page
		err := rows.Scan(
			&page.ID,
			&page.CapituloID,
			&page.Numero,
			&page.Imagem,
			&page.Legenda,
			&page.EditadoPor,
			&page.CreatedAt,
			&page.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("postgres: failed to scan page: %w", err)
		}
		pages = append(pages, &page)
	}

	return pages, nil
}
