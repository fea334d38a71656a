// Copyright (c) 2026 Mangario. All rights reserved.
// Author: p.castro.dev@gmail.com

package manga

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

// mangaRepository implements the [Repository] interface using pgx.
type mangaRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL backed manga store.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &mangaRepository{pool: pool}
}

/*
List retrieves a page of the catalogue, newest additions first.

Description: Uses a COUNT(*) OVER() window so the total catalogue size comes
back in the same round-trip as the page itself.

Parameters:
  - ctx: context.Context
  - limit: int
  - offset: int

Returns:
  - []*Manga: Slice of hydrated entities
  - int: Total matching rows
  - error: Storage execution failures
*/
func (repository *mangaRepository) List(ctx context.Context, limit, offset int) ([]*Manga, int, error) {

	// Query definition with windowed total
	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s,
			COUNT(*) OVER() AS total_count
		FROM %s
		ORDER BY %s DESC
		LIMIT $1 OFFSET $2
	`,
		schema.Mangas.ID, schema.Mangas.Titulo, schema.Mangas.Slug, schema.Mangas.Autor,
		schema.Mangas.Generos, schema.Mangas.Status, schema.Mangas.Visualizacoes,
		schema.Mangas.Capa, schema.Mangas.DataAdicao, schema.Mangas.EditadoPor, schema.Mangas.UpdatedAt,
		schema.Mangas.Table,
		schema.Mangas.DataAdicao,
	)

	// Execution
	rows, err := repository.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("postgres: failed to list mangas: %w", err)
	}
	defer rows.Close()

	// Row iteration and entity hydration
	var mangas []*Manga
	var totalCount int

	for rows.Next() {
		var entity Manga
		err := rows.Scan(
			&entity.ID,
			&entity.Titulo,
			&entity.Slug,
			&entity.Autor,
			&entity.Generos,
			&entity.Status,
			&entity.Visualizacoes,
			&entity.Capa,
			&entity.DataAdicao,
			&entity.EditadoPor,
			&entity.UpdatedAt,
			&totalCount,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("postgres: failed to scan manga: %w", err)
		}

		mangas = append(mangas, &entity)
	}

	return mangas, totalCount, nil
}

/*
FindByID returns the manga identified by id.

Parameters:
  - ctx: context.Context
  - id: string (UUID)

Returns:
  - *Manga: Hydrated entity
  - error: apperr.NotFound on absent rows
*/
func (repository *mangaRepository) FindByID(ctx context.Context, id string) (*Manga, error) {

	// Single-row retrieval query
	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s
		FROM %s
		WHERE %s = $1
	`,
		schema.Mangas.ID, schema.Mangas.Titulo, schema.Mangas.Slug, schema.Mangas.Autor,
		schema.Mangas.Generos, schema.Mangas.Status, schema.Mangas.Visualizacoes,
		schema.Mangas.Capa, schema.Mangas.DataAdicao, schema.Mangas.EditadoPor, schema.Mangas.UpdatedAt,
		schema.Mangas.Table,
		schema.Mangas.ID,
	)

	var entity Manga
	err := repository.pool.QueryRow(ctx, query, id).Scan(
		&entity.ID,
		&entity.Titulo,
		&entity.Slug,
		&entity.Autor,
		&entity.Generos,
		&entity.Status,
		&entity.Visualizacoes,
		&entity.Capa,
		&entity.DataAdicao,
		&entity.EditadoPor,
		&entity.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Manga")
		}
		return nil, fmt.Errorf("postgres: failed to find manga by id: %w", err)
	}

	return &entity, nil
}
