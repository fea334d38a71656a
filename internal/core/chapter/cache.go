// Copyright (c) 2026 Mangario. All rights reserved.
// Author: p.castro.dev@gmail.com

package chapter

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/plcastro/mangario/internal/platform/constants"
)

// pageCacheTTL bounds staleness for page listings. Mutations invalidate the
// key explicitly; the TTL covers invalidation failures and the read-aside
// race below.
const pageCacheTTL = 10 * time.Minute

// # Page List Cache

// PageCache is a Redis-backed cache of ordered page listings per chapter.
//
// # Invalidation
//
// Every content mutation on a chapter (append, reorder, page/chapter
// deletion) invalidates its entry before the operation returns.
//
// Invalidation is not a lock: a reader that loaded rows before a mutation
// committed can land its Set after that mutation's invalidation, pinning the
// pre-mutation listing until the TTL expires. Writers to one chapter are
// expected to serialize, so the window only ever holds a listing that was
// the committed truth moments earlier.
//
// All cache failures degrade to a miss: Redis being down slows reads but
// never breaks them.
type PageCache struct {
	client *redis.Client
	logger *slog.Logger
}

// NewPageCache constructs a [PageCache] on the shared Redis client.
func NewPageCache(client *redis.Client, logger *slog.Logger) *PageCache {
	return &PageCache{client: client, logger: logger}
}

// key builds the Redis key for a chapter's page listing.
func (cache *PageCache) key(chapterID string) string {
	return constants.RedisPrefixPageList + chapterID
}

// Get returns the cached page listing for a chapter, or (nil, false) on miss.
func (cache *PageCache) Get(ctx context.Context, chapterID string) ([]*Page, bool) {
	raw, err := cache.client.Get(ctx, cache.key(chapterID)).Bytes()
	if err != nil {
		if err != redis.Nil {
			cache.logger.Warn("page_cache_get_failed",
				slog.String("chapter_id", chapterID),
				slog.Any("error", err),
			)
		}
		return nil, false
	}

	var pages []*Page
	if err := json.Unmarshal(raw, &pages); err != nil {
		cache.logger.Warn("page_cache_decode_failed",
			slog.String("chapter_id", chapterID),
			slog.Any("error", err),
		)
		return nil, false
	}

	return pages, true
}

// Set stores the page listing for a chapter with the standard TTL.
func (cache *PageCache) Set(ctx context.Context, chapterID string, pages []*Page) {
	raw, err := json.Marshal(pages)
	if err != nil {
		return
	}

	if err := cache.client.Set(ctx, cache.key(chapterID), raw, pageCacheTTL).Err(); err != nil {
		cache.logger.Warn("page_cache_set_failed",
			slog.String("chapter_id", chapterID),
			slog.Any("error", err),
		)
	}
}

// InvalidateChapter drops the cached page listing for a chapter.
func (cache *PageCache) InvalidateChapter(ctx context.Context, chapterID string) {
	if err := cache.client.Del(ctx, cache.key(chapterID)).Err(); err != nil {
		cache.logger.Warn("page_cache_invalidate_failed",
			slog.String("chapter_id", chapterID),
			slog.Any("error", err),
		)
	}
}
