// Copyright (c) 2026 Mangario. All rights reserved.
// Author: p.castro.dev@gmail.com

package content

import (
	"context"

	"github.com/plcastro/mangario/internal/core/chapter"
	"github.com/plcastro/mangario/internal/core/manga"
)

// Store opens units of work against the relational content store.
type Store interface {
	/*
		InTx runs fn inside a single database transaction.

		The transaction commits when fn returns nil and rolls back otherwise.
		Errors returned by fn pass through unchanged; a uniqueness violation
		surfacing at commit time (deferred constraints) is mapped to the same
		sentinel it would have produced mid-transaction.

		Parameters:
		  - ctx: context bounding the whole transaction.
		  - fn: the unit of work; must not retain tx after returning.

		Returns:
		  - error: fn's error, or a commit/begin failure.
	*/
	InTx(ctx context.Context, fn func(tx Tx) error) error
}

// Tx is the set of content mutations and reads available inside one
// transaction. All writes in a unit of work see each other and become
// visible atomically at commit.
type Tx interface {
	// # Manga

	// InsertManga inserts a manga row. A slug collision surfaces as a
	// wrapped database error.
	InsertManga(ctx context.Context, m *manga.Manga) (err error)

	// MangaExists reports whether a manga row with the given ID exists.
	MangaExists(ctx context.Context, mangaID string) (exists bool, err error)

	// # Chapter

	// InsertChapter inserts a chapter row. Returns ErrDuplicateChapterNumber
	// when the (manga_id, numero) pair is already taken.
	InsertChapter(ctx context.Context, c *chapter.Chapter) (err error)

	// ChapterExists reports whether a chapter row with the given ID exists.
	ChapterExists(ctx context.Context, chapterID string) (exists bool, err error)

	// # Pages

	// InsertPages bulk-inserts page rows with their numbers already
	// assigned. Returns ErrDuplicatePageNumber when any (capitulo_id,
	// numero) pair is already taken.
	InsertPages(ctx context.Context, pages []*chapter.Page) (err error)

	// NextPageNumber returns max(numero)+1 for the chapter, so 1 for an
	// empty chapter.
	NextPageNumber(ctx context.Context, chapterID string) (next int, err error)

	// ListPages returns the chapter's pages ordered by numero ascending.
	ListPages(ctx context.Context, chapterID string) (pages []*chapter.Page, err error)

	// GetPage returns one page or ErrPageNotFound.
	GetPage(ctx context.Context, pageID string) (page *chapter.Page, err error)

	// DeferPageNumbering defers the per-chapter page number uniqueness
	// check to commit time, so a renumbering pass may move through
	// transient duplicate states.
	DeferPageNumbering(ctx context.Context) (err error)

	// RenumberPages rewrites page numbers so orderedIDs[i] gets numero i+1.
	// Callers are expected to have called DeferPageNumbering first.
	RenumberPages(ctx context.Context, chapterID string, orderedIDs []string) (err error)

	// # Deletion

	// DeletePage deletes one page row or returns ErrPageNotFound.
	DeletePage(ctx context.Context, pageID string) (err error)

	// DeleteChapterCascade deletes a chapter and its pages, returning the
	// blob references of every deleted page image for post-commit cleanup.
	// Returns ErrChapterNotFound when the chapter does not exist.
	DeleteChapterCascade(ctx context.Context, chapterID string) (blobRefs []string, err error)

	// DeleteMangaCascade deletes a manga, its chapters and pages, returning
	// the blob references of the cover and every page image together with
	// the IDs of the deleted chapters (for cache invalidation). Returns
	// ErrMangaNotFound when the manga does not exist.
	DeleteMangaCascade(ctx context.Context, mangaID string) (blobRefs []string, chapterIDs []string, err error)
}
