// Copyright (c) 2026 Mangario. All rights reserved.
// Author: p.castro.dev@gmail.com

package content

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/plcastro/mangario/internal/core/chapter"
	"github.com/plcastro/mangario/internal/core/manga"
	"github.com/plcastro/mangario/internal/platform/validate"
	"github.com/plcastro/mangario/pkg/slug"
	"github.com/plcastro/mangario/pkg/uuidv7"
)

/*
CreateManga ingests a new manga together with its first chapter and pages.

Description: Stores the cover blob first, then runs one transaction inserting
the manga row, the chapter row and the page rows with numbers assigned 1..N
in submission order. When the transaction fails every blob written for this
request is removed as compensation, so a rejected request leaves no visible
trace.

Parameters:
  - ctx: context.Context
  - input: manga metadata, cover and first chapter payload

Returns:
  - *manga.Manga: the created manga
  - error: validation, blob or transaction failures
*/
func (s *Service) CreateManga(ctx context.Context, input MangaInput) (*manga.Manga, error) {

	// 1. Validation
	if input.Status == "" {
		input.Status = manga.StatusInProgress
	}
	err := validate.New().
		Required("titulo", input.Titulo).
		MaxLen("titulo", input.Titulo, 255).
		MaxLen("autor", input.Autor, 255).
		OneOf("status", string(input.Status), manga.StatusValues()...).
		Required("capa", input.Capa).
		Custom("capitulo.numero", input.Capitulo.Numero < 1, "must be at least 1").
		Err()
	if err != nil {
		return nil, err
	}

	mangaID := uuidv7.New()
	chapterID := uuidv7.New()
	now := time.Now().UTC()
	ts := now.UnixMilli()

	// 2. Cover blob, outside the transaction
	coverRef, err := s.blobs.Save(ctx, input.Capa, coverFolder(mangaID), coverName(mangaID, ts))
	if err != nil {
		return nil, err
	}
	written := []string{coverRef}

	entity := &manga.Manga{
		ID:         mangaID,
		Titulo:     input.Titulo,
		Slug:       slug.From(input.Titulo),
		Autor:      input.Autor,
		Generos:    input.Generos,
		Status:     input.Status,
		Capa:       coverRef,
		DataAdicao: now,
		UpdatedAt:  now,
	}
	firstChapter := &chapter.Chapter{
		ID:             chapterID,
		MangaID:        mangaID,
		Numero:         input.Capitulo.Numero,
		Titulo:         input.Capitulo.Titulo,
		DataPublicacao: input.Capitulo.DataPublicacao,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	// 3. Atomic unit: manga, chapter, page blobs and rows
	err = s.store.InTx(ctx, func(tx Tx) error {
		if err := tx.InsertManga(ctx, entity); err != nil {
			return err
		}
		if err := tx.InsertChapter(ctx, firstChapter); err != nil {
			return err
		}

		pages, refs, err := s.storePageBlobs(ctx, chapterID, input.Capitulo.Paginas, ts)
		written = append(written, refs...)
		if err != nil {
			return err
		}

		s.order.AssignSequential(pages)
		return tx.InsertPages(ctx, pages)
	})
	if err != nil {
		s.compensateBlobs(ctx, written)
		return nil, err
	}

	s.logger.InfoContext(ctx, "manga_created",
		slog.String("manga_id", mangaID),
		slog.String("capitulo_id", chapterID),
		slog.Int("paginas", len(input.Capitulo.Paginas)),
	)
	return entity, nil
}

/*
CreateChapter ingests a new chapter with its pages into an existing manga.

Description: Runs one transaction that verifies the manga exists, inserts the
chapter row and the page rows numbered 1..N in submission order. Page blobs
are stored inside the unit of work and compensated when it fails. A chapter
number already taken within the manga rejects the request with
[ErrDuplicateChapterNumber].

Parameters:
  - ctx: context.Context
  - mangaID: owning manga
  - input: chapter metadata and page payloads

Returns:
  - *chapter.Chapter: the created chapter
  - error: [ErrMangaNotFound], [ErrDuplicateChapterNumber], validation, blob
    or transaction failures
*/
func (s *Service) CreateChapter(ctx context.Context, mangaID string, input ChapterInput) (*chapter.Chapter, error) {

	// 1. Validation
	err := validate.New().
		UUID("manga_id", mangaID).
		Custom("numero", input.Numero < 1, "must be at least 1").
		MaxLen("titulo", input.Titulo, 255).
		Err()
	if err != nil {
		return nil, err
	}

	chapterID := uuidv7.New()
	now := time.Now().UTC()

	entity := &chapter.Chapter{
		ID:             chapterID,
		MangaID:        mangaID,
		Numero:         input.Numero,
		Titulo:         input.Titulo,
		DataPublicacao: input.DataPublicacao,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	// 2. Atomic unit
	var written []string
	err = s.store.InTx(ctx, func(tx Tx) error {
		exists, err := tx.MangaExists(ctx, mangaID)
		if err != nil {
			return err
		}
		if !exists {
			return ErrMangaNotFound
		}

		if err := tx.InsertChapter(ctx, entity); err != nil {
			return err
		}

		pages, refs, err := s.storePageBlobs(ctx, chapterID, input.Paginas, now.UnixMilli())
		written = append(written, refs...)
		if err != nil {
			return err
		}

		s.order.AssignSequential(pages)
		return tx.InsertPages(ctx, pages)
	})
	if err != nil {
		s.compensateBlobs(ctx, written)
		return nil, err
	}

	s.logger.InfoContext(ctx, "capitulo_created",
		slog.String("manga_id", mangaID),
		slog.String("capitulo_id", chapterID),
		slog.Int("paginas", len(input.Paginas)),
	)
	return entity, nil
}

/*
AppendPages adds pages to the end of an existing chapter.

Description: Stores the page blobs, then runs a transaction that numbers the
new pages after the chapter's current maximum and inserts them. Two
concurrent appends can race for the same numbers; the losing transaction
fails with a duplicate page number and is retried once against the fresh
numbering. A second loss surfaces as [ErrConcurrentModification]. Blobs are
compensated when the append ultimately fails.

Parameters:
  - ctx: context.Context
  - chapterID: chapter receiving the pages
  - payloads: images in reading order

Returns:
  - []*chapter.Page: the appended pages with their assigned numbers
  - error: [ErrChapterNotFound], [ErrConcurrentModification], validation,
    blob or transaction failures
*/
func (s *Service) AppendPages(ctx context.Context, chapterID string, payloads []PagePayload) ([]*chapter.Page, error) {

	// 1. Validation
	err := validate.New().
		UUID("capitulo_id", chapterID).
		NotEmptySlice("paginas", len(payloads)).
		Err()
	if err != nil {
		return nil, err
	}

	// 2. Blobs first; references survive across the retry
	pages, refs, err := s.storePageBlobs(ctx, chapterID, payloads, time.Now().UnixMilli())
	if err != nil {
		s.compensateBlobs(ctx, refs)
		return nil, err
	}

	attempt := func() error {
		return s.store.InTx(ctx, func(tx Tx) error {
			exists, err := tx.ChapterExists(ctx, chapterID)
			if err != nil {
				return err
			}
			if !exists {
				return ErrChapterNotFound
			}
			return s.order.AppendAfterExisting(ctx, tx, chapterID, pages)
		})
	}

	// 3. One retry on the numbering race, then give up
	err = attempt()
	if errors.Is(err, ErrDuplicatePageNumber) {
		s.logger.WarnContext(ctx, "page_append_retry", slog.String("capitulo_id", chapterID))
		if err = attempt(); errors.Is(err, ErrDuplicatePageNumber) {
			err = ErrConcurrentModification
		}
	}
	if err != nil {
		s.compensateBlobs(ctx, refs)
		return nil, err
	}

	s.invalidatePages(ctx, chapterID)
	s.logger.InfoContext(ctx, "paginas_appended",
		slog.String("capitulo_id", chapterID),
		slog.Int("paginas", len(pages)),
		slog.Int("first_numero", pages[0].Numero),
	)
	return pages, nil
}

/*
ReorderPages applies a new reading order to a chapter's pages.

Description: Runs one transaction that verifies the chapter exists and hands
the submitted ID order to the page order manager, which enforces the exact
set match and renumbers under a deferred uniqueness check. No blobs move; a
reorder only rewrites numbers.

Parameters:
  - ctx: context.Context
  - chapterID: chapter being reordered
  - orderedIDs: the chapter's page IDs in their new reading order

Returns:
  - error: [ErrChapterNotFound], [ErrReorderSetMismatch], validation or
    transaction failures
*/
func (s *Service) ReorderPages(ctx context.Context, chapterID string, orderedIDs []string) error {

	// 1. Validation
	err := validate.New().
		UUID("capitulo_id", chapterID).
		NotEmptySlice("ordem", len(orderedIDs)).
		Err()
	if err != nil {
		return err
	}

	// 2. Atomic renumbering
	err = s.store.InTx(ctx, func(tx Tx) error {
		exists, err := tx.ChapterExists(ctx, chapterID)
		if err != nil {
			return err
		}
		if !exists {
			return ErrChapterNotFound
		}
		return s.order.Reorder(ctx, tx, chapterID, orderedIDs)
	})
	if err != nil {
		return err
	}

	s.invalidatePages(ctx, chapterID)
	s.logger.InfoContext(ctx, "paginas_reordered",
		slog.String("capitulo_id", chapterID),
		slog.Int("paginas", len(orderedIDs)),
	)
	return nil
}
