// Copyright (c) 2026 Mangario. All rights reserved.
// Author: p.castro.dev@gmail.com

package content_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plcastro/mangario/internal/core/chapter"
	"github.com/plcastro/mangario/internal/core/content"
	"github.com/plcastro/mangario/internal/core/manga"
	"github.com/plcastro/mangario/pkg/uuidv7"
)

// seedChapter commits a chapter with count pages numbered 1..count and
// returns the chapter ID with the page IDs in reading order.
func seedChapter(store *fakeStore, count int) (string, []string) {
	mangaID := uuidv7.New()
	chapterID := uuidv7.New()

	pages := make([]*chapter.Page, 0, count)
	pageIDs := make([]string, 0, count)
	for numero := 1; numero <= count; numero++ {
		page := &chapter.Page{
			ID:         uuidv7.New(),
			CapituloID: chapterID,
			Numero:     numero,
			Imagem:     "capitulos/" + chapterID + "/existing.jpg",
		}
		pages = append(pages, page)
		pageIDs = append(pageIDs, page.ID)
	}

	store.seed(
		[]*manga.Manga{{ID: mangaID, Titulo: "Seeded", Capa: "capas/" + mangaID + "/capa.jpg", Status: manga.StatusInProgress}},
		[]*chapter.Chapter{{ID: chapterID, MangaID: mangaID, Numero: 1}},
		pages,
	)
	return chapterID, pageIDs
}

// numbersByID reads the committed numero of each given page.
func numbersByID(store *fakeStore, pageIDs []string) []int {
	numbers := make([]int, 0, len(pageIDs))
	for _, id := range pageIDs {
		numbers = append(numbers, store.state.pages[id].Numero)
	}
	return numbers
}

func TestAssignSequential(t *testing.T) {
	pages := []*chapter.Page{{ID: "a"}, {ID: "b"}, {ID: "c"}}

	content.NewOrder().AssignSequential(pages)

	assert.Equal(t, 1, pages[0].Numero)
	assert.Equal(t, 2, pages[1].Numero)
	assert.Equal(t, 3, pages[2].Numero)
}

func TestAppendAfterExisting(t *testing.T) {
	ctx := context.Background()
	order := content.NewOrder()

	t.Run("starts at one for an empty chapter", func(t *testing.T) {
		store := newFakeStore()
		chapterID, _ := seedChapter(store, 0)
		pages := []*chapter.Page{
			{ID: uuidv7.New(), CapituloID: chapterID},
			{ID: uuidv7.New(), CapituloID: chapterID},
		}

		err := store.InTx(ctx, func(tx content.Tx) error {
			return order.AppendAfterExisting(ctx, tx, chapterID, pages)
		})

		require.NoError(t, err)
		assert.Equal(t, 1, pages[0].Numero)
		assert.Equal(t, 2, pages[1].Numero)
	})

	t.Run("continues after the current maximum", func(t *testing.T) {
		store := newFakeStore()
		chapterID, _ := seedChapter(store, 3)
		pages := []*chapter.Page{{ID: uuidv7.New(), CapituloID: chapterID}}

		err := store.InTx(ctx, func(tx content.Tx) error {
			return order.AppendAfterExisting(ctx, tx, chapterID, pages)
		})

		require.NoError(t, err)
		assert.Equal(t, 4, pages[0].Numero)
	})
}

func TestReorder(t *testing.T) {
	ctx := context.Background()
	order := content.NewOrder()

	reorder := func(store *fakeStore, chapterID string, orderedIDs []string) error {
		return store.InTx(ctx, func(tx content.Tx) error {
			return order.Reorder(ctx, tx, chapterID, orderedIDs)
		})
	}

	t.Run("applies the submitted order", func(t *testing.T) {
		store := newFakeStore()
		chapterID, pageIDs := seedChapter(store, 3)
		reversed := []string{pageIDs[2], pageIDs[1], pageIDs[0]}

		require.NoError(t, reorder(store, chapterID, reversed))

		assert.Equal(t, []int{1, 2, 3}, numbersByID(store, reversed))
	})

	t.Run("rejects mismatched page sets", func(t *testing.T) {
		store := newFakeStore()
		chapterID, pageIDs := seedChapter(store, 3)

		cases := map[string][]string{
			"missing a page":     {pageIDs[0], pageIDs[1]},
			"repeated page":      {pageIDs[0], pageIDs[1], pageIDs[1]},
			"foreign page":       {pageIDs[0], pageIDs[1], uuidv7.New()},
			"too many entries":   {pageIDs[0], pageIDs[1], pageIDs[2], pageIDs[0]},
			"empty substitution": {},
		}
		for name, orderedIDs := range cases {
			t.Run(name, func(t *testing.T) {
				err := reorder(store, chapterID, orderedIDs)

				assert.ErrorIs(t, err, content.ErrReorderSetMismatch)
				assert.Equal(t, []int{1, 2, 3}, numbersByID(store, pageIDs), "rejection must not renumber")
			})
		}
	})

	t.Run("swap passes through transient duplicates", func(t *testing.T) {
		store := newFakeStore()
		chapterID, pageIDs := seedChapter(store, 2)
		swapped := []string{pageIDs[1], pageIDs[0]}

		require.NoError(t, reorder(store, chapterID, swapped))

		assert.Equal(t, []int{1, 2}, numbersByID(store, swapped))
	})
}

func TestRenumberAfterDeletion(t *testing.T) {
	ctx := context.Background()
	order := content.NewOrder()

	t.Run("closes the gap left by a middle deletion", func(t *testing.T) {
		store := newFakeStore()
		chapterID, pageIDs := seedChapter(store, 4)

		err := store.InTx(ctx, func(tx content.Tx) error {
			if err := tx.DeletePage(ctx, pageIDs[1]); err != nil {
				return err
			}
			return order.RenumberAfterDeletion(ctx, tx, chapterID)
		})

		require.NoError(t, err)
		survivors := []string{pageIDs[0], pageIDs[2], pageIDs[3]}
		assert.Equal(t, []int{1, 2, 3}, numbersByID(store, survivors))
	})

	t.Run("keeps numbers when the last page was deleted", func(t *testing.T) {
		store := newFakeStore()
		chapterID, pageIDs := seedChapter(store, 3)

		err := store.InTx(ctx, func(tx content.Tx) error {
			if err := tx.DeletePage(ctx, pageIDs[2]); err != nil {
				return err
			}
			return order.RenumberAfterDeletion(ctx, tx, chapterID)
		})

		require.NoError(t, err)
		assert.Equal(t, []int{1, 2}, numbersByID(store, pageIDs[:2]))
	})

	t.Run("tolerates an emptied chapter", func(t *testing.T) {
		store := newFakeStore()
		chapterID, pageIDs := seedChapter(store, 1)

		err := store.InTx(ctx, func(tx content.Tx) error {
			if err := tx.DeletePage(ctx, pageIDs[0]); err != nil {
				return err
			}
			return order.RenumberAfterDeletion(ctx, tx, chapterID)
		})

		require.NoError(t, err)
	})
}
