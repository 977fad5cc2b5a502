// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// listing.go provides a Valkey-backed cache for serialized listing
// responses. Post listings are read far more often than posts change, so
// the JSON payload for each distinct page/filter combination is kept in
// Valkey and dropped wholesale whenever a post is written.
package cache

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// listingKeyPrefix namespaces listing payloads in Valkey.
	listingKeyPrefix = "listing:"

	// DefaultListingTTL bounds staleness even if an invalidation is missed.
	DefaultListingTTL = 2 * time.Minute
)

// ListingCache stores serialized listing responses in Valkey.
type ListingCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewListingCache creates a listing cache backed by the given Valkey client.
func NewListingCache(client *redis.Client, ttl time.Duration) *ListingCache {
	if ttl == 0 {
		ttl = DefaultListingTTL
	}
	return &ListingCache{client: client, ttl: ttl}
}

// Get retrieves a cached payload. The second return reports a hit.
func (lc *ListingCache) Get(ctx context.Context, key string) ([]byte, bool) {
	val, err := lc.client.Get(ctx, listingKeyPrefix+key).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		slog.Warn("listing cache get error", "key", key, "error", err)
		return nil, false
	}
	slog.Debug("listing cache hit", "key", key)
	return val, true
}

// Set stores a serialized payload with the configured TTL.
func (lc *ListingCache) Set(ctx context.Context, key string, payload []byte) {
	if err := lc.client.Set(ctx, listingKeyPrefix+key, payload, lc.ttl).Err(); err != nil {
		slog.Warn("listing cache set error", "key", key, "error", err)
	}
}

// InvalidateAll removes every cached listing by scanning for the prefix.
// Any post write can reorder or reshape any page, so listings are dropped
// together rather than tracked individually.
func (lc *ListingCache) InvalidateAll(ctx context.Context) {
	var cursor uint64
	var deleted int
	for {
		keys, nextCursor, err := lc.client.Scan(ctx, cursor, listingKeyPrefix+"*", 100).Result()
		if err != nil {
			slog.Warn("listing cache scan error", "error", err)
			return
		}
		if len(keys) > 0 {
			if err := lc.client.Del(ctx, keys...).Err(); err != nil {
				slog.Warn("listing cache bulk delete error", "error", err)
			}
			deleted += len(keys)
		}
		cursor = nextCursor
		if cursor == 0 {
			break
		}
	}
	if deleted > 0 {
		slog.Info("listing cache cleared", "deleted", deleted)
	}
}

// PostsKey derives the cache key for a post listing from its query values.
// Only recognized parameters participate, so unknown query noise cannot
// fragment the cache.
func PostsKey(q url.Values) string {
	return fmt.Sprintf("posts:p=%s:s=%s:cat=%s:tag=%s:author=%s:q=%s",
		q.Get("page"), q.Get("pageSize"),
		q.Get("category"), q.Get("tag"), q.Get("author"), q.Get("search"))
}

// CategoryPostsKey derives the cache key for a per-category listing.
func CategoryPostsKey(categorySlug string, q url.Values) string {
	return fmt.Sprintf("category:%s:p=%s:s=%s", categorySlug, q.Get("page"), q.Get("pageSize"))
}

// PillarsKey is the cache key for the pillar listing.
func PillarsKey() string {
	return "pillars"
}

// ClustersKey is the cache key for the full cluster listing.
func ClustersKey() string {
	return "clusters"
}
