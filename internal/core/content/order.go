// Copyright (c) 2026 Mangario. All rights reserved.
// Author: p.castro.dev@gmail.com

package content

import (
	"context"

	"github.com/plcastro/mangario/internal/core/chapter"
)

// # Page Order Manager

// Order owns page numbering within a chapter. It is the single writer of the
// numero column and guarantees that after any mutation the numbers of a
// chapter's pages form the contiguous sequence 1..N.
//
// Callers never choose page numbers. They submit pages in reading order and
// Order assigns the numbers inside the surrounding transaction.
type Order struct{}

// NewOrder constructs the page order manager.
func NewOrder() *Order {
	return &Order{}
}

// AssignSequential numbers the given pages 1..len(pages) in slice order.
// Used when a chapter is created together with its pages, so no existing
// numbering has to be consulted.
func (o *Order) AssignSequential(pages []*chapter.Page) {
	for index, page := range pages {
		page.Numero = index + 1
	}
}

/*
AppendAfterExisting numbers new pages after the chapter's current maximum and
inserts them.

Description: Reads max(numero)+1 inside the transaction, assigns consecutive
numbers from there in slice order, and bulk-inserts the rows. Two concurrent
appenders can read the same starting number; the loser's insert fails with
[ErrDuplicatePageNumber], which the writer treats as retryable.

Parameters:
  - ctx: context.Context
  - tx: open unit of work
  - chapterID: chapter receiving the pages
  - pages: rows in reading order, numbers unset

Returns:
  - error: [ErrDuplicatePageNumber] on a numbering race, or storage failures
*/
func (o *Order) AppendAfterExisting(ctx context.Context, tx Tx, chapterID string, pages []*chapter.Page) error {

	// 1. Next free number under the current numbering
	next, err := tx.NextPageNumber(ctx, chapterID)
	if err != nil {
		return err
	}

	// 2. Consecutive assignment in submission order
	for index, page := range pages {
		page.Numero = next + index
	}

	// 3. Persist; a concurrent append surfaces here as a duplicate number
	return tx.InsertPages(ctx, pages)
}

/*
Reorder rewrites a chapter's page numbers to match the submitted ID order.

Description: The submitted IDs must be exactly the chapter's current page set,
each ID once: no omissions, no repeats, no foreign pages. A partial reorder
would silently renumber pages the client never saw, so any mismatch rejects
the whole request with [ErrReorderSetMismatch]. The uniqueness check on page
numbers is deferred to commit because positions swap through transient
duplicate states.

Parameters:
  - ctx: context.Context
  - tx: open unit of work
  - chapterID: chapter being reordered
  - orderedIDs: the chapter's page IDs in their new reading order

Returns:
  - error: [ErrReorderSetMismatch] or storage failures
*/
func (o *Order) Reorder(ctx context.Context, tx Tx, chapterID string, orderedIDs []string) error {

	// 1. Current page set
	current, err := tx.ListPages(ctx, chapterID)
	if err != nil {
		return err
	}

	// 2. Exact set comparison
	if len(orderedIDs) != len(current) {
		return ErrReorderSetMismatch
	}
	known := make(map[string]bool, len(current))
	for _, page := range current {
		known[page.ID] = true
	}
	for _, id := range orderedIDs {
		if !known[id] {
			return ErrReorderSetMismatch
		}
		// Consume so a repeated ID fails the second time around.
		known[id] = false
	}

	// 3. Renumber under deferred uniqueness
	if err := tx.DeferPageNumbering(ctx); err != nil {
		return err
	}
	return tx.RenumberPages(ctx, chapterID, orderedIDs)
}

/*
RenumberAfterDeletion closes the numbering gap a page deletion leaves behind.

Description: Lists the surviving pages in their current order and rewrites
their numbers to 1..N, restoring contiguity. Runs in the same transaction as
the deletion so readers never observe the gap.

Parameters:
  - ctx: context.Context
  - tx: open unit of work
  - chapterID: chapter that lost a page

Returns:
  - error: storage failures
*/
func (o *Order) RenumberAfterDeletion(ctx context.Context, tx Tx, chapterID string) error {

	remaining, err := tx.ListPages(ctx, chapterID)
	if err != nil {
		return err
	}
	if len(remaining) == 0 {
		return nil
	}

	orderedIDs := make([]string, len(remaining))
	contiguous := true
	for index, page := range remaining {
		orderedIDs[index] = page.ID
		if page.Numero != index+1 {
			contiguous = false
		}
	}

	// Deleting the last page leaves 1..N-1 intact.
	if contiguous {
		return nil
	}

	if err := tx.DeferPageNumbering(ctx); err != nil {
		return err
	}
	return tx.RenumberPages(ctx, chapterID, orderedIDs)
}
