// Copyright (c) 2026 Mangario. All rights reserved.
// Author: p.castro.dev@gmail.com

package content_test

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plcastro/mangario/internal/core/chapter"
	"github.com/plcastro/mangario/internal/core/content"
	"github.com/plcastro/mangario/internal/core/manga"
	"github.com/plcastro/mangario/pkg/pointer"
	"github.com/plcastro/mangario/pkg/uuidv7"
)

// countFiles walks the blob root and counts regular files.
func countFiles(t *testing.T, root string) int {
	t.Helper()

	count := 0
	err := filepath.WalkDir(root, func(_ string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !entry.IsDir() {
			count++
		}
		return nil
	})
	require.NoError(t, err)
	return count
}

// requireBlob asserts that a returned reference resolves to a stored file.
func requireBlob(t *testing.T, root, ref string) {
	t.Helper()

	info, err := os.Stat(filepath.Join(root, ref))
	require.NoError(t, err, "blob %s must exist", ref)
	require.False(t, info.IsDir())
}

func validMangaInput() content.MangaInput {
	return content.MangaInput{
		Titulo:  "Aventura Sem Fim",
		Autor:   "Ana Lima",
		Generos: []string{"acao", "fantasia"},
		Status:  manga.StatusInProgress,
		Capa:    dataURI("cover-bytes"),
		Capitulo: content.ChapterInput{
			Numero: 1,
			Titulo: "O Comeco",
			Paginas: []content.PagePayload{
				{Imagem: dataURI("page-one")},
				{Imagem: dataURI("page-two"), Legenda: pointer.To("splash")},
				{Imagem: dataURI("page-three")},
			},
		},
	}
}

func TestCreateManga(t *testing.T) {
	ctx := context.Background()

	t.Run("persists manga, chapter and numbered pages", func(t *testing.T) {
		service, store, _, _, root := newService(t)

		created, err := service.CreateManga(ctx, validMangaInput())

		require.NoError(t, err)
		require.NotNil(t, created)
		assert.Equal(t, "aventura-sem-fim", created.Slug)
		assert.True(t, strings.HasPrefix(created.Capa, "capas/"+created.ID+"/capa_"), "cover ref: %s", created.Capa)
		requireBlob(t, root, created.Capa)

		require.Len(t, store.state.chapters, 1)
		var chapterID string
		for id, c := range store.state.chapters {
			chapterID = id
			assert.Equal(t, created.ID, c.MangaID)
			assert.Equal(t, 1, c.Numero)
		}

		pages := store.state.pagesOf(chapterID)
		require.Len(t, pages, 3)
		for index, page := range pages {
			assert.Equal(t, index+1, page.Numero)
			assert.True(t, strings.HasPrefix(page.Imagem, "capitulos/"+chapterID+"/pagina_"), "page ref: %s", page.Imagem)
			requireBlob(t, root, page.Imagem)
		}
		assert.Equal(t, "splash", pointer.Val(pages[1].Legenda))
		assert.Equal(t, 4, countFiles(t, root))
	})

	t.Run("defaults the status when omitted", func(t *testing.T) {
		service, store, _, _, _ := newService(t)
		input := validMangaInput()
		input.Status = ""

		created, err := service.CreateManga(ctx, input)

		require.NoError(t, err)
		assert.Equal(t, manga.StatusInProgress, created.Status)
		assert.Equal(t, manga.StatusInProgress, store.state.mangas[created.ID].Status)
	})

	t.Run("rejects invalid metadata before touching storage", func(t *testing.T) {
		service, store, _, _, root := newService(t)

		cases := map[string]func(*content.MangaInput){
			"empty title":            func(input *content.MangaInput) { input.Titulo = "  " },
			"unknown status":         func(input *content.MangaInput) { input.Status = "HIATO" },
			"missing cover":          func(input *content.MangaInput) { input.Capa = "" },
			"chapter number below 1": func(input *content.MangaInput) { input.Capitulo.Numero = 0 },
		}
		for name, mutate := range cases {
			t.Run(name, func(t *testing.T) {
				input := validMangaInput()
				mutate(&input)

				_, err := service.CreateManga(ctx, input)

				assert.Error(t, err)
				assert.Empty(t, store.state.mangas)
				assert.Equal(t, 0, countFiles(t, root))
			})
		}
	})

	t.Run("compensates every blob when a page payload is invalid", func(t *testing.T) {
		service, store, _, _, root := newService(t)
		input := validMangaInput()
		input.Capitulo.Paginas[2].Imagem = "not-a-data-uri"

		_, err := service.CreateManga(ctx, input)

		assert.Error(t, err)
		assert.Empty(t, store.state.mangas)
		assert.Empty(t, store.state.pages)
		assert.Equal(t, 0, countFiles(t, root), "cover and stored pages must be compensated")
	})

	t.Run("compensates every blob when the commit fails", func(t *testing.T) {
		service, store, _, _, root := newService(t)
		store.failCommit = errors.New("connection reset")

		_, err := service.CreateManga(ctx, validMangaInput())

		assert.Error(t, err)
		assert.Empty(t, store.state.mangas)
		assert.Equal(t, 0, countFiles(t, root))
	})
}

func TestCreateChapter(t *testing.T) {
	ctx := context.Background()

	chapterInput := func(numero int) content.ChapterInput {
		return content.ChapterInput{
			Numero: numero,
			Titulo: "Novo Capitulo",
			Paginas: []content.PagePayload{
				{Imagem: dataURI("p1")},
				{Imagem: dataURI("p2")},
			},
		}
	}

	t.Run("persists the chapter with numbered pages", func(t *testing.T) {
		service, store, _, _, root := newService(t)
		created, err := service.CreateManga(ctx, validMangaInput())
		require.NoError(t, err)

		entity, err := service.CreateChapter(ctx, created.ID, chapterInput(2))

		require.NoError(t, err)
		assert.Equal(t, created.ID, entity.MangaID)
		assert.Equal(t, 2, entity.Numero)

		pages := store.state.pagesOf(entity.ID)
		require.Len(t, pages, 2)
		assert.Equal(t, 1, pages[0].Numero)
		assert.Equal(t, 2, pages[1].Numero)
		requireBlob(t, root, pages[0].Imagem)
		requireBlob(t, root, pages[1].Imagem)
	})

	t.Run("rejects an unknown manga and compensates blobs", func(t *testing.T) {
		service, store, _, _, root := newService(t)

		_, err := service.CreateChapter(ctx, uuidv7.New(), chapterInput(1))

		assert.ErrorIs(t, err, content.ErrMangaNotFound)
		assert.Empty(t, store.state.chapters)
		assert.Equal(t, 0, countFiles(t, root))
	})

	t.Run("rejects a duplicate chapter number", func(t *testing.T) {
		service, store, _, _, root := newService(t)
		created, err := service.CreateManga(ctx, validMangaInput())
		require.NoError(t, err)
		before := countFiles(t, root)

		_, err = service.CreateChapter(ctx, created.ID, chapterInput(1))

		assert.ErrorIs(t, err, content.ErrDuplicateChapterNumber)
		require.Len(t, store.state.chapters, 1)
		assert.Equal(t, before, countFiles(t, root), "rejected chapter blobs must be compensated")
	})
}

func TestAppendPages(t *testing.T) {
	ctx := context.Background()

	payloads := []content.PagePayload{
		{Imagem: dataURI("extra-one")},
		{Imagem: dataURI("extra-two")},
	}

	t.Run("continues numbering after the current maximum", func(t *testing.T) {
		service, store, _, cache, root := newService(t)
		chapterID, _ := seedChapter(store, 2)

		appended, err := service.AppendPages(ctx, chapterID, payloads)

		require.NoError(t, err)
		require.Len(t, appended, 2)
		assert.Equal(t, 3, appended[0].Numero)
		assert.Equal(t, 4, appended[1].Numero)
		requireBlob(t, root, appended[0].Imagem)
		requireBlob(t, root, appended[1].Imagem)
		assert.Contains(t, cache.invalidated, chapterID)
	})

	t.Run("rejects an unknown chapter and compensates blobs", func(t *testing.T) {
		service, _, _, _, root := newService(t)

		_, err := service.AppendPages(ctx, uuidv7.New(), payloads)

		assert.ErrorIs(t, err, content.ErrChapterNotFound)
		assert.Equal(t, 0, countFiles(t, root))
	})

	t.Run("rejects an empty batch", func(t *testing.T) {
		service, store, _, _, _ := newService(t)
		chapterID, _ := seedChapter(store, 1)

		_, err := service.AppendPages(ctx, chapterID, nil)

		assert.Error(t, err)
	})

	t.Run("retries once when losing the numbering race", func(t *testing.T) {
		service, store, _, _, _ := newService(t)
		chapterID, _ := seedChapter(store, 3)

		raced := false
		store.injectOnNext = func(id string) *chapter.Page {
			if raced {
				return nil
			}
			raced = true
			return &chapter.Page{ID: uuidv7.New(), CapituloID: id, Numero: 4, Imagem: "capitulos/" + id + "/competitor.jpg"}
		}

		appended, err := service.AppendPages(ctx, chapterID, payloads)

		require.NoError(t, err)
		assert.Equal(t, 2, store.begun, "exactly one retry")
		assert.Equal(t, 5, appended[0].Numero, "numbering must account for the competitor")
		assert.Equal(t, 6, appended[1].Numero)
	})

	t.Run("gives up after the second lost race", func(t *testing.T) {
		service, store, _, _, root := newService(t)
		chapterID, _ := seedChapter(store, 0)

		next := 0
		store.injectOnNext = func(id string) *chapter.Page {
			next++
			return &chapter.Page{ID: uuidv7.New(), CapituloID: id, Numero: next, Imagem: "capitulos/" + id + "/competitor.jpg"}
		}

		_, err := service.AppendPages(ctx, chapterID, payloads)

		assert.ErrorIs(t, err, content.ErrConcurrentModification)
		assert.Equal(t, 2, store.begun)
		assert.Equal(t, 0, countFiles(t, root), "blobs of the failed append must be compensated")
	})
}

func TestReorderPages(t *testing.T) {
	ctx := context.Background()

	t.Run("applies the new order and invalidates the cache", func(t *testing.T) {
		service, store, _, cache, _ := newService(t)
		chapterID, pageIDs := seedChapter(store, 3)
		reversed := []string{pageIDs[2], pageIDs[1], pageIDs[0]}

		err := service.ReorderPages(ctx, chapterID, reversed)

		require.NoError(t, err)
		assert.Equal(t, []int{1, 2, 3}, numbersByID(store, reversed))
		assert.Contains(t, cache.invalidated, chapterID)
	})

	t.Run("rejects an unknown chapter", func(t *testing.T) {
		service, _, _, _, _ := newService(t)

		err := service.ReorderPages(ctx, uuidv7.New(), []string{uuidv7.New()})

		assert.ErrorIs(t, err, content.ErrChapterNotFound)
	})

	t.Run("surfaces set mismatches without renumbering", func(t *testing.T) {
		service, store, _, cache, _ := newService(t)
		chapterID, pageIDs := seedChapter(store, 3)

		err := service.ReorderPages(ctx, chapterID, pageIDs[:2])

		assert.ErrorIs(t, err, content.ErrReorderSetMismatch)
		assert.Equal(t, []int{1, 2, 3}, numbersByID(store, pageIDs))
		assert.Empty(t, cache.invalidated)
	})
}
