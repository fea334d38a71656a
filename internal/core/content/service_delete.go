// Copyright (c) 2026 Mangario. All rights reserved.
// Author: p.castro.dev@gmail.com

package content

import (
	"context"
	"log/slog"

	"github.com/plcastro/mangario/internal/platform/validate"
)

// # Deletion Coordinator
//
// Every deletion commits the database transaction before touching the blob
// store. A crash between the two leaves orphan blobs that no row references,
// never a committed row pointing at a missing image.

/*
DeletePage deletes a single page and closes the numbering gap.

Description: Runs one transaction that loads the page, deletes its row and
renumbers the chapter's surviving pages to 1..N. After commit the page's
image blob is removed best effort and the chapter's cached listing is
invalidated.

Parameters:
  - ctx: context.Context
  - pageID: page to delete

Returns:
  - error: [ErrPageNotFound], validation or transaction failures
*/
func (s *Service) DeletePage(ctx context.Context, pageID string) error {

	// 1. Validation
	if err := validate.New().UUID("pagina_id", pageID).Err(); err != nil {
		return err
	}

	// 2. Atomic unit: delete and renumber
	var imageRef, chapterID string
	err := s.store.InTx(ctx, func(tx Tx) error {
		page, err := tx.GetPage(ctx, pageID)
		if err != nil {
			return err
		}
		imageRef = page.Imagem
		chapterID = page.CapituloID

		if err := tx.DeletePage(ctx, pageID); err != nil {
			return err
		}
		return s.order.RenumberAfterDeletion(ctx, tx, chapterID)
	})
	if err != nil {
		return err
	}

	// 3. Post-commit cleanup
	s.invalidatePages(ctx, chapterID)
	s.discardBlobs(ctx, []string{imageRef})

	s.logger.InfoContext(ctx, "pagina_deleted",
		slog.String("pagina_id", pageID),
		slog.String("capitulo_id", chapterID),
	)
	return nil
}

/*
DeleteChapter deletes a chapter with all of its pages.

Description: Runs one transaction that deletes the chapter row and cascades
over its pages, collecting the image references on the way. After commit the
blobs are removed best effort and the chapter's cached listing is invalidated.

Parameters:
  - ctx: context.Context
  - chapterID: chapter to delete

Returns:
  - error: [ErrChapterNotFound], validation or transaction failures
*/
func (s *Service) DeleteChapter(ctx context.Context, chapterID string) error {

	// 1. Validation
	if err := validate.New().UUID("capitulo_id", chapterID).Err(); err != nil {
		return err
	}

	// 2. Atomic unit
	var refs []string
	err := s.store.InTx(ctx, func(tx Tx) error {
		var err error
		refs, err = tx.DeleteChapterCascade(ctx, chapterID)
		return err
	})
	if err != nil {
		return err
	}

	// 3. Post-commit cleanup
	s.invalidatePages(ctx, chapterID)
	s.discardBlobs(ctx, refs)

	s.logger.InfoContext(ctx, "capitulo_deleted",
		slog.String("capitulo_id", chapterID),
		slog.Int("paginas", len(refs)),
	)
	return nil
}

/*
DeleteManga deletes a manga with all of its chapters and pages.

Description: Runs one transaction that deletes the manga row and cascades
over its chapters and pages, collecting the cover and every page image
reference. After commit all blobs are removed best effort and the cached
listing of every deleted chapter is invalidated.

Parameters:
  - ctx: context.Context
  - mangaID: manga to delete

Returns:
  - error: [ErrMangaNotFound], validation or transaction failures
*/
func (s *Service) DeleteManga(ctx context.Context, mangaID string) error {

	// 1. Validation
	if err := validate.New().UUID("manga_id", mangaID).Err(); err != nil {
		return err
	}

	// 2. Atomic unit
	var refs, chapterIDs []string
	err := s.store.InTx(ctx, func(tx Tx) error {
		var err error
		refs, chapterIDs, err = tx.DeleteMangaCascade(ctx, mangaID)
		return err
	})
	if err != nil {
		return err
	}

	// 3. Post-commit cleanup
	for _, chapterID := range chapterIDs {
		s.invalidatePages(ctx, chapterID)
	}
	s.discardBlobs(ctx, refs)

	s.logger.InfoContext(ctx, "manga_deleted",
		slog.String("manga_id", mangaID),
		slog.Int("capitulos", len(chapterIDs)),
		slog.Int("blobs", len(refs)),
	)
	return nil
}
