// Copyright (c) 2026 Mangario. All rights reserved.
// Author: p.castro.dev@gmail.com

package content

import (
	"context"
	"fmt"
	"log/slog"
	"path"
	"time"

	"github.com/plcastro/mangario/internal/core/chapter"
	"github.com/plcastro/mangario/internal/platform/blob"
	"github.com/plcastro/mangario/pkg/uuidv7"
)

// CacheInvalidator drops cached page listings for a chapter after a content
// mutation, so the read path never serves a stale ordering.
type CacheInvalidator interface {
	InvalidateChapter(ctx context.Context, chapterID string)
}

// # Content Service

// Service is the write side of the content subsystem: transactional ingestion,
// page ordering and cascading deletion.
type Service struct {
	store  Store
	blobs  blob.Store
	order  *Order
	cache  CacheInvalidator
	logger *slog.Logger
}

/*
NewService constructs the content service with its dependencies.

Parameters:
  - store: transactional relational store
  - blobs: image blob store
  - cache: page listing invalidator; may be nil when caching is disabled
  - logger: structured logger

Returns:
  - *Service: ready to use instance
*/
func NewService(store Store, blobs blob.Store, cache CacheInvalidator, logger *slog.Logger) *Service {
	return &Service{
		store:  store,
		blobs:  blobs,
		order:  NewOrder(),
		cache:  cache,
		logger: logger,
	}
}

// coverFolder and coverName build the blob location of a manga cover:
// capas/{mangaID}/capa_{mangaID}_{ts}.{ext}.
func coverFolder(mangaID string) string {
	return path.Join("capas", mangaID)
}

func coverName(mangaID string, ts int64) string {
	return fmt.Sprintf("capa_%s_%d", mangaID, ts)
}

// pageFolder and pageName build the blob location of a page image:
// capitulos/{chapterID}/pagina_{chapterID}_{index}_{ts}.{ext}. The index is
// the page's position in its upload batch; together with the timestamp it
// keeps names unique without depending on the final page number.
func pageFolder(chapterID string) string {
	return path.Join("capitulos", chapterID)
}

func pageName(chapterID string, index int, ts int64) string {
	return fmt.Sprintf("pagina_%s_%d_%d", chapterID, index, ts)
}

/*
storePageBlobs persists the images of an upload batch and builds their rows.

Description: Saves each payload to the blob store and assembles a [chapter.Page]
carrying the returned reference. Page numbers stay unset; the order manager
assigns them inside the transaction. On failure the references written so far
are still returned so the caller can compensate.

Parameters:
  - ctx: context.Context
  - chapterID: owning chapter
  - payloads: images in reading order
  - ts: write-time timestamp shared by the batch

Returns:
  - []*chapter.Page: rows for the stored images, numbers unset
  - []string: references written, including on partial failure
  - error: blob store failures
*/
func (s *Service) storePageBlobs(ctx context.Context, chapterID string, payloads []PagePayload, ts int64) ([]*chapter.Page, []string, error) {
	now := time.Now().UTC()

	pages := make([]*chapter.Page, 0, len(payloads))
	refs := make([]string, 0, len(payloads))
	for index, payload := range payloads {
		ref, err := s.blobs.Save(ctx, payload.Imagem, pageFolder(chapterID), pageName(chapterID, index+1, ts))
		if err != nil {
			return nil, refs, err
		}
		refs = append(refs, ref)

		pages = append(pages, &chapter.Page{
			ID:         uuidv7.New(),
			CapituloID: chapterID,
			Imagem:     ref,
			Legenda:    payload.Legenda,
			CreatedAt:  now,
			UpdatedAt:  now,
		})
	}
	return pages, refs, nil
}

// compensateBlobs removes blobs written by a unit of work that did not
// commit. Removal is best effort; the blob store swallows and logs its own
// failures, and leftovers are invisible orphans.
func (s *Service) compensateBlobs(ctx context.Context, refs []string) {
	if len(refs) == 0 {
		return
	}

	// The write may have failed on context cancellation; cleanup still runs.
	ctx = context.WithoutCancel(ctx)

	s.logger.Warn("content_write_compensation", slog.Int("blobs", len(refs)))
	for _, ref := range refs {
		_ = s.blobs.Remove(ctx, ref)
	}
}

// discardBlobs removes blobs orphaned by a committed deletion, best effort.
func (s *Service) discardBlobs(ctx context.Context, refs []string) {
	ctx = context.WithoutCancel(ctx)
	for _, ref := range refs {
		_ = s.blobs.Remove(ctx, ref)
	}
}

// invalidatePages drops the cached page listing of a chapter, if a cache is
// configured.
func (s *Service) invalidatePages(ctx context.Context, chapterID string) {
	if s.cache == nil {
		return
	}
	s.cache.InvalidateChapter(context.WithoutCancel(ctx), chapterID)
}
