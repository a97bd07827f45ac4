// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// published.go provides a Valkey-backed cache for the published template
// library. The library is read by every user but only changes on moderation
// transitions, so cached JSON with a short TTL absorbs most of the traffic.
package cache

import (
	"context"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// publishedKeyPrefix is the Valkey key prefix for library responses.
	publishedKeyPrefix = "published:"

	// DefaultPublishedTTL is how long a cached library response stays valid.
	DefaultPublishedTTL = 1 * time.Minute
)

// PublishedCache stores pre-encoded JSON responses for the published
// library listing and the published page views.
type PublishedCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewPublishedCache creates a cache backed by the given Valkey client.
func NewPublishedCache(client *redis.Client, ttl time.Duration) *PublishedCache {
	if ttl == 0 {
		ttl = DefaultPublishedTTL
	}
	return &PublishedCache{client: client, ttl: ttl}
}

// ListKey returns the cache key for a library listing with the given search
// term (empty term included).
func ListKey(search string) string {
	return "list:" + search
}

// PagesKey returns the cache key for a published template's page views.
func PagesKey(templateID string) string {
	return "pages:" + templateID
}

// Get retrieves a cached response body. Returns false on miss.
func (pc *PublishedCache) Get(ctx context.Context, key string) ([]byte, bool) {
	val, err := pc.client.Get(ctx, publishedKeyPrefix+key).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		slog.Warn("published cache get error", "key", key, "error", err)
		return nil, false
	}
	slog.Debug("published cache hit", "key", key)
	return val, true
}

// Set stores a response body under the configured TTL.
func (pc *PublishedCache) Set(ctx context.Context, key string, body []byte) {
	if err := pc.client.Set(ctx, publishedKeyPrefix+key, body, pc.ttl).Err(); err != nil {
		slog.Warn("published cache set error", "key", key, "error", err)
	}
}

// Flush removes every cached library entry. Called whenever a template
// enters or leaves Published, or a published template is edited or deleted.
func (pc *PublishedCache) Flush(ctx context.Context) {
	var cursor uint64
	var deleted int
	for {
		keys, nextCursor, err := pc.client.Scan(ctx, cursor, publishedKeyPrefix+"*", 100).Result()
		if err != nil {
			slog.Warn("published cache scan error", "error", err)
			return
		}
		if len(keys) > 0 {
			if err := pc.client.Del(ctx, keys...).Err(); err != nil {
				slog.Warn("published cache delete error", "error", err)
			}
			deleted += len(keys)
		}
		cursor = nextCursor
		if cursor == 0 {
			break
		}
	}
	if deleted > 0 {
		slog.Debug("published cache flushed", "deleted", deleted)
	}
}
