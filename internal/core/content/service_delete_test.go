// Copyright (c) 2026 Mangario. All rights reserved.
// Author: p.castro.dev@gmail.com

package content_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plcastro/mangario/internal/core/content"
	"github.com/plcastro/mangario/pkg/uuidv7"
)

// createFixture ingests one manga with a first chapter of three pages via
// the real write path, so deletions run against blobs that exist on disk.
func createFixture(t *testing.T, service *content.Service, store *fakeStore) (mangaID, chapterID string, pageIDs []string) {
	t.Helper()

	created, err := service.CreateManga(context.Background(), validMangaInput())
	require.NoError(t, err)

	for id := range store.state.chapters {
		chapterID = id
	}
	for _, page := range store.state.pagesOf(chapterID) {
		pageIDs = append(pageIDs, page.ID)
	}
	return created.ID, chapterID, pageIDs
}

func TestDeletePage(t *testing.T) {
	ctx := context.Background()

	t.Run("removes the row, the blob, and closes the gap", func(t *testing.T) {
		service, store, _, cache, root := newService(t)
		_, chapterID, pageIDs := createFixture(t, service, store)
		require.Equal(t, 4, countFiles(t, root))

		err := service.DeletePage(ctx, pageIDs[1])

		require.NoError(t, err)
		assert.NotContains(t, store.state.pages, pageIDs[1])
		survivors := []string{pageIDs[0], pageIDs[2]}
		assert.Equal(t, []int{1, 2}, numbersByID(store, survivors))
		assert.Equal(t, 3, countFiles(t, root), "the deleted page's blob must be gone")
		assert.Contains(t, cache.invalidated, chapterID)
	})

	t.Run("keeps numbering when the last page goes", func(t *testing.T) {
		service, store, _, _, _ := newService(t)
		_, _, pageIDs := createFixture(t, service, store)

		err := service.DeletePage(ctx, pageIDs[2])

		require.NoError(t, err)
		assert.Equal(t, []int{1, 2}, numbersByID(store, pageIDs[:2]))
	})

	t.Run("rejects an unknown page", func(t *testing.T) {
		service, _, _, _, _ := newService(t)

		err := service.DeletePage(ctx, uuidv7.New())

		assert.ErrorIs(t, err, content.ErrPageNotFound)
	})
}

func TestDeleteChapter(t *testing.T) {
	ctx := context.Background()

	t.Run("removes the chapter, its pages and their blobs", func(t *testing.T) {
		service, store, _, cache, root := newService(t)
		_, chapterID, _ := createFixture(t, service, store)

		err := service.DeleteChapter(ctx, chapterID)

		require.NoError(t, err)
		assert.NotContains(t, store.state.chapters, chapterID)
		assert.Empty(t, store.state.pages)
		assert.Equal(t, 1, countFiles(t, root), "only the cover survives")
		assert.Contains(t, cache.invalidated, chapterID)
	})

	t.Run("rejects an unknown chapter", func(t *testing.T) {
		service, _, _, _, _ := newService(t)

		err := service.DeleteChapter(ctx, uuidv7.New())

		assert.ErrorIs(t, err, content.ErrChapterNotFound)
	})

	t.Run("keeps rows when the unit of work cannot commit", func(t *testing.T) {
		service, store, _, _, root := newService(t)
		_, chapterID, _ := createFixture(t, service, store)
		store.failCommit = assert.AnError

		err := service.DeleteChapter(ctx, chapterID)

		assert.Error(t, err)
		assert.Contains(t, store.state.chapters, chapterID)
		assert.Equal(t, 4, countFiles(t, root), "no blob may be removed before commit")
	})
}

func TestDeleteManga(t *testing.T) {
	ctx := context.Background()

	t.Run("cascades over two chapters of three pages each", func(t *testing.T) {
		service, store, _, cache, root := newService(t)
		mangaID, firstChapterID, _ := createFixture(t, service, store)

		second, err := service.CreateChapter(ctx, mangaID, content.ChapterInput{
			Numero: 2,
			Titulo: "Segundo Capitulo",
			Paginas: []content.PagePayload{
				{Imagem: dataURI("c2-p1")},
				{Imagem: dataURI("c2-p2")},
				{Imagem: dataURI("c2-p3")},
			},
		})
		require.NoError(t, err)
		require.Equal(t, 7, countFiles(t, root), "cover plus six pages before deletion")

		err = service.DeleteManga(ctx, mangaID)

		require.NoError(t, err)
		assert.Empty(t, store.state.mangas)
		assert.Empty(t, store.state.chapters)
		assert.Empty(t, store.state.pages)
		assert.Equal(t, 0, countFiles(t, root), "cover and every page blob must be gone")
		assert.Contains(t, cache.invalidated, firstChapterID)
		assert.Contains(t, cache.invalidated, second.ID)
	})

	t.Run("rejects an unknown manga", func(t *testing.T) {
		service, _, _, _, _ := newService(t)

		err := service.DeleteManga(ctx, uuidv7.New())

		assert.ErrorIs(t, err, content.ErrMangaNotFound)
	})
}
