// Copyright (c) 2026 Mangario. All rights reserved.
// Author: p.castro.dev@gmail.com

package content

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/plcastro/mangario/internal/core/chapter"
	"github.com/plcastro/mangario/internal/core/manga"
	"github.com/plcastro/mangario/internal/platform/database/schema"
	"github.com/plcastro/mangario/internal/platform/dberr"
)

// # PostgreSQL Store

// pgStore implements [Store] on a pgx connection pool.
type pgStore struct {
	pool *pgxpool.Pool
}

// NewStore constructs a PostgreSQL backed transactional content store.
func NewStore(pool *pgxpool.Pool) Store {
	return &pgStore{pool: pool}
}

/*
InTx runs fn inside one database transaction.

Description: Begins a transaction, hands fn a [Tx] bound to it, and commits
when fn succeeds. Rollback is deferred unconditionally; after a successful
commit it is a no-op. Deferred constraint checks fire at commit, so a commit
failure is inspected for the page numbering constraint and mapped to the same
sentinel a mid-transaction violation produces.

Parameters:
  - ctx: context.Context bounding the transaction
  - fn: the unit of work

Returns:
  - error: fn's error untouched, or a classified begin/commit failure
*/
func (store *pgStore) InTx(ctx context.Context, fn func(tx Tx) error) error {

	// 1. Transaction setup
	tx, err := store.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("postgres: failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	// 2. Unit of work
	if err := fn(&pgTx{tx: tx}); err != nil {
		return err
	}

	// 3. Commit, where deferred uniqueness checks surface
	if err := tx.Commit(ctx); err != nil {
		if dberr.IsUniqueViolation(err, schema.UniqueCapituloNumero) {
			return ErrDuplicatePageNumber
		}
		return fmt.Errorf("postgres: failed to commit transaction: %w", err)
	}
	return nil
}

// pgTx implements [Tx] on an open pgx transaction.
type pgTx struct {
	tx pgx.Tx
}

// InsertManga inserts one manga row.
func (t *pgTx) InsertManga(ctx context.Context, m *manga.Manga) error {

	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`,
		schema.Mangas.Table,
		schema.Mangas.ID, schema.Mangas.Titulo, schema.Mangas.Slug, schema.Mangas.Autor,
		schema.Mangas.Generos, schema.Mangas.Status, schema.Mangas.Visualizacoes,
		schema.Mangas.Capa, schema.Mangas.DataAdicao, schema.Mangas.EditadoPor, schema.Mangas.UpdatedAt,
	)

	_, err := t.tx.Exec(ctx, query,
		m.ID, m.Titulo, m.Slug, m.Autor,
		m.Generos, m.Status, m.Visualizacoes,
		m.Capa, m.DataAdicao, m.EditadoPor, m.UpdatedAt,
	)
	if err != nil {
		return dberr.Wrap(err, "insert manga")
	}
	return nil
}

// MangaExists reports whether the manga row exists.
func (t *pgTx) MangaExists(ctx context.Context, mangaID string) (bool, error) {

	query := fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE %s = $1)`,
		schema.Mangas.Table, schema.Mangas.ID,
	)

	var exists bool
	if err := t.tx.QueryRow(ctx, query, mangaID).Scan(&exists); err != nil {
		return false, fmt.Errorf("postgres: failed to check manga existence: %w", err)
	}
	return exists, nil
}

// InsertChapter inserts one chapter row, mapping the (manga_id, numero)
// uniqueness violation to [ErrDuplicateChapterNumber].
func (t *pgTx) InsertChapter(ctx context.Context, c *chapter.Chapter) error {

	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`,
		schema.Capitulos.Table,
		schema.Capitulos.ID, schema.Capitulos.MangaID, schema.Capitulos.Numero, schema.Capitulos.Titulo,
		schema.Capitulos.DataPublicacao, schema.Capitulos.EditadoPor, schema.Capitulos.CreatedAt, schema.Capitulos.UpdatedAt,
	)

	_, err := t.tx.Exec(ctx, query,
		c.ID, c.MangaID, c.Numero, c.Titulo,
		c.DataPublicacao, c.EditadoPor, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		if dberr.IsUniqueViolation(err, schema.UniqueMangaNumero) {
			return ErrDuplicateChapterNumber
		}
		return dberr.Wrap(err, "insert chapter")
	}
	return nil
}

// ChapterExists reports whether the chapter row exists.
func (t *pgTx) ChapterExists(ctx context.Context, chapterID string) (bool, error) {

	query := fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE %s = $1)`,
		schema.Capitulos.Table, schema.Capitulos.ID,
	)

	var exists bool
	if err := t.tx.QueryRow(ctx, query, chapterID).Scan(&exists); err != nil {
		return false, fmt.Errorf("postgres: failed to check chapter existence: %w", err)
	}
	return exists, nil
}

/*
InsertPages bulk-inserts page rows through a single batch round trip.

Description: Queues one INSERT per page on a [pgx.Batch] and drains every
result, so a uniqueness violation on any page aborts the whole lot. The
(capitulo_id, numero) violation maps to [ErrDuplicatePageNumber].

Parameters:
  - ctx: context.Context
  - pages: rows with IDs and numbers already assigned

Returns:
  - error: classified batch execution failures
*/
func (t *pgTx) InsertPages(ctx context.Context, pages []*chapter.Page) error {
	if len(pages) == 0 {
		return nil
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`,
		schema.Paginas.Table,
		schema.Paginas.ID, schema.Paginas.CapituloID, schema.Paginas.Numero, schema.Paginas.Imagem,
		schema.Paginas.Legenda, schema.Paginas.EditadoPor, schema.Paginas.CreatedAt, schema.Paginas.UpdatedAt,
	)

	// 1. Queue all inserts
	batch := &pgx.Batch{}
	for _, page := range pages {
		batch.Queue(query,
			page.ID, page.CapituloID, page.Numero, page.Imagem,
			page.Legenda, page.EditadoPor, page.CreatedAt, page.UpdatedAt,
		)
	}

	// 2. Drain results
	results := t.tx.SendBatch(ctx, batch)
	defer results.Close()

	for range pages {
		if _, err := results.Exec(); err != nil {
			if dberr.IsUniqueViolation(err, schema.UniqueCapituloNumero) {
				return ErrDuplicatePageNumber
			}
			return dberr.Wrap(err, "insert pages")
		}
	}
	return nil
}

// NextPageNumber returns the next free page number for a chapter, which is 1
// for an empty chapter.
func (t *pgTx) NextPageNumber(ctx context.Context, chapterID string) (int, error) {

	query := fmt.Sprintf(`SELECT COALESCE(MAX(%s), 0) + 1 FROM %s WHERE %s = $1`,
		schema.Paginas.Numero, schema.Paginas.Table, schema.Paginas.CapituloID,
	)

	var next int
	if err := t.tx.QueryRow(ctx, query, chapterID).Scan(&next); err != nil {
		return 0, fmt.Errorf("postgres: failed to compute next page number: %w", err)
	}
	return next, nil
}

// ListPages returns the chapter's pages ordered by numero ascending.
func (t *pgTx) ListPages(ctx context.Context, chapterID string) ([]*chapter.Page, error) {

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

	rows, err := t.tx.Query(ctx, query, chapterID)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to list pages: %w", err)
	}
	defer rows.Close()

	var pages []*chapter.Page
	for rows.Next() {
		var entity chapter.Page
		err := rows.Scan(
			&entity.ID,
			&entity.CapituloID,
			&entity.Numero,
			&entity.Imagem,
			&entity.Legenda,
			&entity.EditadoPor,
			&entity.CreatedAt,
			&entity.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("postgres: failed to scan page: %w", err)
		}
		pages = append(pages, &entity)
	}
	return pages, rows.Err()
}

// GetPage returns one page row or [ErrPageNotFound].
func (t *pgTx) GetPage(ctx context.Context, pageID string) (*chapter.Page, error) {

	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s, %s, %s, %s
		FROM %s
		WHERE %s = $1
	`,
		schema.Paginas.ID, schema.Paginas.CapituloID, schema.Paginas.Numero, schema.Paginas.Imagem,
		schema.Paginas.Legenda, schema.Paginas.EditadoPor, schema.Paginas.CreatedAt, schema.Paginas.UpdatedAt,
		schema.Paginas.Table,
		schema.Paginas.ID,
	)

	var entity chapter.Page
	err := t.tx.QueryRow(ctx, query, pageID).Scan(
		&entity.ID,
		&entity.CapituloID,
		&entity.Numero,
		&entity.Imagem,
		&entity.Legenda,
		&entity.EditadoPor,
		&entity.CreatedAt,
		&entity.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPageNotFound
		}
		return nil, fmt.Errorf("postgres: failed to get page: %w", err)
	}
	return &entity, nil
}

// DeferPageNumbering postpones the (capitulo_id, numero) uniqueness check to
// commit time for the remainder of the transaction.
func (t *pgTx) DeferPageNumbering(ctx context.Context) error {

	query := fmt.Sprintf(`SET CONSTRAINTS %s DEFERRED`, schema.UniqueCapituloNumero)

	if _, err := t.tx.Exec(ctx, query); err != nil {
		return fmt.Errorf("postgres: failed to defer page numbering constraint: %w", err)
	}
	return nil
}

/*
RenumberPages rewrites the chapter's page numbers in the given order.

Description: Issues one batched UPDATE per page so orderedIDs[i] ends up with
numero i+1. The chapter ID guard in the WHERE clause keeps a stray page ID
from renumbering another chapter's page.

Parameters:
  - ctx: context.Context
  - chapterID: owning chapter
  - orderedIDs: page IDs in their final reading order

Returns:
  - error: batch execution failures
*/
func (t *pgTx) RenumberPages(ctx context.Context, chapterID string, orderedIDs []string) error {
	if len(orderedIDs) == 0 {
		return nil
	}

	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $1, %s = NOW()
		WHERE %s = $2 AND %s = $3
	`,
		schema.Paginas.Table,
		schema.Paginas.Numero, schema.Paginas.UpdatedAt,
		schema.Paginas.ID, schema.Paginas.CapituloID,
	)

	batch := &pgx.Batch{}
	for position, pageID := range orderedIDs {
		batch.Queue(query, position+1, pageID, chapterID)
	}

	results := t.tx.SendBatch(ctx, batch)
	defer results.Close()

	for range orderedIDs {
		if _, err := results.Exec(); err != nil {
			if dberr.IsUniqueViolation(err, schema.UniqueCapituloNumero) {
				return ErrDuplicatePageNumber
			}
			return dberr.Wrap(err, "renumber pages")
		}
	}
	return nil
}

// DeletePage deletes one page row or returns [ErrPageNotFound].
func (t *pgTx) DeletePage(ctx context.Context, pageID string) error {

	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`,
		schema.Paginas.Table, schema.Paginas.ID,
	)

	tag, err := t.tx.Exec(ctx, query, pageID)
	if err != nil {
		return dberr.Wrap(err, "delete page")
	}
	if tag.RowsAffected() == 0 {
		return ErrPageNotFound
	}
	return nil
}

/*
DeleteChapterCascade deletes a chapter with its pages and reports the blob
references left behind.

Description: Collects the image references of every page first, then deletes
the chapter row; the foreign key cascade drops the page rows with it. The
references are returned so the caller can remove the blobs after commit.

Parameters:
  - ctx: context.Context
  - chapterID: chapter to delete

Returns:
  - []string: blob references of the deleted page images
  - error: [ErrChapterNotFound] or execution failures
*/
func (t *pgTx) DeleteChapterCascade(ctx context.Context, chapterID string) ([]string, error) {

	// 1. Collect the page image references before the cascade erases them
	refs, err := t.pageRefsByChapter(ctx, chapterID)
	if err != nil {
		return nil, err
	}

	// 2. Delete the chapter row; pages follow via ON DELETE CASCADE
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`,
		schema.Capitulos.Table, schema.Capitulos.ID,
	)

	tag, err := t.tx.Exec(ctx, query, chapterID)
	if err != nil {
		return nil, dberr.Wrap(err, "delete chapter")
	}
	if tag.RowsAffected() == 0 {
		return nil, ErrChapterNotFound
	}
	return refs, nil
}

/*
DeleteMangaCascade deletes a manga with all of its chapters and pages.

Description: Collects the cover reference, every page image reference and the
chapter IDs, then deletes the manga row and lets the cascade take the rest.

Parameters:
  - ctx: context.Context
  - mangaID: manga to delete

Returns:
  - []string: blob references of the cover and all page images
  - []string: IDs of the deleted chapters
  - error: [ErrMangaNotFound] or execution failures
*/
func (t *pgTx) DeleteMangaCascade(ctx context.Context, mangaID string) ([]string, []string, error) {

	// 1. Cover reference doubles as the existence check
	coverQuery := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		schema.Mangas.Capa, schema.Mangas.Table, schema.Mangas.ID,
	)

	var cover string
	if err := t.tx.QueryRow(ctx, coverQuery, mangaID).Scan(&cover); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, ErrMangaNotFound
		}
		return nil, nil, fmt.Errorf("postgres: failed to get manga cover: %w", err)
	}

	// 2. Chapter IDs, needed for cache invalidation after commit
	chapterQuery := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		schema.Capitulos.ID, schema.Capitulos.Table, schema.Capitulos.MangaID,
	)

	chapterIDs, err := t.scanStrings(ctx, chapterQuery, mangaID)
	if err != nil {
		return nil, nil, fmt.Errorf("postgres: failed to list chapter ids: %w", err)
	}

	// 3. Page image references across all chapters
	pageQuery := fmt.Sprintf(`
		SELECT p.%s
		FROM %s p
		JOIN %s c ON p.%s = c.%s
		WHERE c.%s = $1
	`,
		schema.Paginas.Imagem,
		schema.Paginas.Table,
		schema.Capitulos.Table, schema.Paginas.CapituloID, schema.Capitulos.ID,
		schema.Capitulos.MangaID,
	)

	refs, err := t.scanStrings(ctx, pageQuery, mangaID)
	if err != nil {
		return nil, nil, fmt.Errorf("postgres: failed to list page references: %w", err)
	}
	refs = append(refs, cover)

	// 4. Delete the manga row; chapters and pages follow via cascade
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`,
		schema.Mangas.Table, schema.Mangas.ID,
	)
	if _, err := t.tx.Exec(ctx, query, mangaID); err != nil {
		return nil, nil, dberr.Wrap(err, "delete manga")
	}
	return refs, chapterIDs, nil
}

// pageRefsByChapter returns the image references of a chapter's pages.
func (t *pgTx) pageRefsByChapter(ctx context.Context, chapterID string) ([]string, error) {

	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		schema.Paginas.Imagem, schema.Paginas.Table, schema.Paginas.CapituloID,
	)

	refs, err := t.scanStrings(ctx, query, chapterID)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to list page references: %w", err)
	}
	return refs, nil
}

// scanStrings runs a single-column query and collects the values.
func (t *pgTx) scanStrings(ctx context.Context, query string, args ...any) ([]string, error) {
	rows, err := t.tx.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var values []string
	for rows.Next() {
		var value string
		if err := rows.Scan(&value); err != nil {
			return nil, err
		}
		values = append(values, value)
	}
	return values, rows.Err()
}
