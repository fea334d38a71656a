// Copyright (c) 2026 Mangario. All rights reserved.
// Author: p.castro.dev@gmail.com

package content_test

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"testing"

	"github.com/plcastro/mangario/internal/core/chapter"
	"github.com/plcastro/mangario/internal/core/content"
	"github.com/plcastro/mangario/internal/core/manga"
	"github.com/plcastro/mangario/internal/platform/blob"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

// dataURI builds a JPEG data URI around an arbitrary body.
func dataURI(body string) string {
	return "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString([]byte(body))
}

// newService wires a content service onto a fresh fake store, a real
// filesystem blob store rooted in a temp dir, and an invalidation recorder.
func newService(t *testing.T) (*content.Service, *fakeStore, *blob.FS, *cacheRecorder, string) {
	t.Helper()

	root := t.TempDir()
	store := newFakeStore()
	blobs := blob.NewFS(root, discard)
	cache := &cacheRecorder{}
	service := content.NewService(store, blobs, cache, discard)
	return service, store, blobs, cache, root
}

// cacheRecorder records which chapters had their page listings invalidated.
type cacheRecorder struct {
	invalidated []string
}

func (recorder *cacheRecorder) InvalidateChapter(_ context.Context, chapterID string) {
	recorder.invalidated = append(recorder.invalidated, chapterID)
}

// # In-Memory Store

// fakeState is one consistent snapshot of the relational content model.
type fakeState struct {
	mangas   map[string]*manga.Manga
	chapters map[string]*chapter.Chapter
	pages    map[string]*chapter.Page
}

func newFakeState() *fakeState {
	return &fakeState{
		mangas:   map[string]*manga.Manga{},
		chapters: map[string]*chapter.Chapter{},
		pages:    map[string]*chapter.Page{},
	}
}

func (state *fakeState) clone() *fakeState {
	next := newFakeState()
	for id, m := range state.mangas {
		copied := *m
		next.mangas[id] = &copied
	}
	for id, c := range state.chapters {
		copied := *c
		next.chapters[id] = &copied
	}
	for id, p := range state.pages {
		copied := *p
		next.pages[id] = &copied
	}
	return next
}

// pagesOf returns the chapter's pages ordered by numero ascending.
func (state *fakeState) pagesOf(chapterID string) []*chapter.Page {
	var pages []*chapter.Page
	for _, page := range state.pages {
		if page.CapituloID == chapterID {
			pages = append(pages, page)
		}
	}
	sort.Slice(pages, func(i, j int) bool { return pages[i].Numero < pages[j].Numero })
	return pages
}

// fakeStore implements [content.Store] with snapshot transactions: each unit
// of work runs on a deep copy of the committed state and the copy is swapped
// in on commit, so a failed unit leaves the committed state untouched.
type fakeStore struct {
	state *fakeState

	// injectOnNext, when set, is called from NextPageNumber after the next
	// number is computed. A returned page is committed as if a concurrent
	// appender had won the race, so the running transaction's insert
	// collides on the page numbering constraint.
	injectOnNext func(chapterID string) *chapter.Page

	// failCommit, when set, fails the commit of every unit of work.
	failCommit error

	// begun counts started units of work.
	begun int
}

func newFakeStore() *fakeStore {
	return &fakeStore{state: newFakeState()}
}

func (store *fakeStore) InTx(_ context.Context, fn func(tx content.Tx) error) error {
	store.begun++
	tx := &fakeTx{store: store, state: store.state.clone()}

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.checkDeferred(); err != nil {
		return err
	}
	if store.failCommit != nil {
		return store.failCommit
	}
	store.state = tx.state
	return nil
}

// seed commits entities directly, bypassing the service under test.
func (store *fakeStore) seed(mangas []*manga.Manga, chapters []*chapter.Chapter, pages []*chapter.Page) {
	for _, m := range mangas {
		store.state.mangas[m.ID] = m
	}
	for _, c := range chapters {
		store.state.chapters[c.ID] = c
	}
	for _, p := range pages {
		store.state.pages[p.ID] = p
	}
}

// fakeTx implements [content.Tx] on a private snapshot.
type fakeTx struct {
	store    *fakeStore
	state    *fakeState
	deferred bool
}

func (tx *fakeTx) InsertManga(_ context.Context, m *manga.Manga) error {
	copied := *m
	tx.state.mangas[m.ID] = &copied
	return nil
}

func (tx *fakeTx) MangaExists(_ context.Context, mangaID string) (bool, error) {
	_, ok := tx.state.mangas[mangaID]
	return ok, nil
}

func (tx *fakeTx) InsertChapter(_ context.Context, c *chapter.Chapter) error {
	for _, existing := range tx.state.chapters {
		if existing.MangaID == c.MangaID && existing.Numero == c.Numero {
			return content.ErrDuplicateChapterNumber
		}
	}
	copied := *c
	tx.state.chapters[c.ID] = &copied
	return nil
}

func (tx *fakeTx) ChapterExists(_ context.Context, chapterID string) (bool, error) {
	_, ok := tx.state.chapters[chapterID]
	return ok, nil
}

func (tx *fakeTx) InsertPages(_ context.Context, pages []*chapter.Page) error {
	for _, page := range pages {
		for _, existing := range tx.state.pages {
			if existing.CapituloID == page.CapituloID && existing.Numero == page.Numero {
				return content.ErrDuplicatePageNumber
			}
		}
		copied := *page
		tx.state.pages[page.ID] = &copied
	}
	return nil
}

func (tx *fakeTx) NextPageNumber(_ context.Context, chapterID string) (int, error) {
	next := 1
	for _, page := range tx.state.pages {
		if page.CapituloID == chapterID && page.Numero >= next {
			next = page.Numero + 1
		}
	}

	// Simulated concurrent append: the competitor's row commits after our
	// read but before our insert, exactly the window the constraint guards.
	if tx.store.injectOnNext != nil {
		if competitor := tx.store.injectOnNext(chapterID); competitor != nil {
			tx.state.pages[competitor.ID] = competitor
			committed := *competitor
			tx.store.state.pages[competitor.ID] = &committed
		}
	}
	return next, nil
}

func (tx *fakeTx) ListPages(_ context.Context, chapterID string) ([]*chapter.Page, error) {
	return tx.state.pagesOf(chapterID), nil
}

func (tx *fakeTx) GetPage(_ context.Context, pageID string) (*chapter.Page, error) {
	page, ok := tx.state.pages[pageID]
	if !ok {
		return nil, content.ErrPageNotFound
	}
	copied := *page
	return &copied, nil
}

func (tx *fakeTx) DeferPageNumbering(_ context.Context) error {
	tx.deferred = true
	return nil
}

func (tx *fakeTx) RenumberPages(_ context.Context, chapterID string, orderedIDs []string) error {
	for position, pageID := range orderedIDs {
		page, ok := tx.state.pages[pageID]
		if !ok || page.CapituloID != chapterID {
			continue
		}
		page.Numero = position + 1
		if !tx.deferred {
			if err := tx.checkDeferred(); err != nil {
				return err
			}
		}
	}
	return nil
}

func (tx *fakeTx) DeletePage(_ context.Context, pageID string) error {
	if _, ok := tx.state.pages[pageID]; !ok {
		return content.ErrPageNotFound
	}
	delete(tx.state.pages, pageID)
	return nil
}

func (tx *fakeTx) DeleteChapterCascade(_ context.Context, chapterID string) ([]string, error) {
	if _, ok := tx.state.chapters[chapterID]; !ok {
		return nil, content.ErrChapterNotFound
	}

	var refs []string
	for id, page := range tx.state.pages {
		if page.CapituloID == chapterID {
			refs = append(refs, page.Imagem)
			delete(tx.state.pages, id)
		}
	}
	delete(tx.state.chapters, chapterID)
	return refs, nil
}

func (tx *fakeTx) DeleteMangaCascade(_ context.Context, mangaID string) ([]string, []string, error) {
	entity, ok := tx.state.mangas[mangaID]
	if !ok {
		return nil, nil, content.ErrMangaNotFound
	}

	var refs, chapterIDs []string
	for chapterID, c := range tx.state.chapters {
		if c.MangaID != mangaID {
			continue
		}
		chapterIDs = append(chapterIDs, chapterID)
		for pageID, page := range tx.state.pages {
			if page.CapituloID == chapterID {
				refs = append(refs, page.Imagem)
				delete(tx.state.pages, pageID)
			}
		}
		delete(tx.state.chapters, chapterID)
	}
	refs = append(refs, entity.Capa)
	delete(tx.state.mangas, mangaID)
	return refs, chapterIDs, nil
}

// checkDeferred enforces per-chapter page number uniqueness, the check the
// database runs at commit when the constraint was deferred.
func (tx *fakeTx) checkDeferred() error {
	seen := map[string]bool{}
	for _, page := range tx.state.pages {
		key := fmt.Sprintf("%s/%d", page.CapituloID, page.Numero)
		if seen[key] {
			return content.ErrDuplicatePageNumber
		}
		seen[key] = true
	}
	return nil
}
