// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// response.go provides a Valkey-backed cache for serialized API responses.
// Keys are namespaced per collection so the revalidation webhook can drop a
// single document, a whole collection, or everything.
package cache

import (
	"context"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// keyPrefix is the Valkey key prefix for cached responses.
	keyPrefix = "api:"

	// ListKey is the per-collection key of the collection listing.
	ListKey = "_list"

	// DefaultTTL is how long a response stays cached.
	DefaultTTL = 5 * time.Minute
)

// ResponseCache manages API response caching in Valkey.
type ResponseCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewResponseCache creates a response cache backed by the given Valkey client.
func NewResponseCache(client *redis.Client, ttl time.Duration) *ResponseCache {
	if ttl == 0 {
		ttl = DefaultTTL
	}
	return &ResponseCache{client: client, ttl: ttl}
}

// Get retrieves a cached response. The bool is false on a miss.
func (rc *ResponseCache) Get(ctx context.Context, collection, key string) ([]byte, bool) {
	k := Key(collection, key)
	val, err := rc.client.Get(ctx, k).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		slog.Warn("response cache get error", "key", k, "error", err)
		return nil, false
	}
	slog.Debug("response cache hit", "key", k)
	return val, true
}

// Set stores a response with the configured TTL.
func (rc *ResponseCache) Set(ctx context.Context, collection, key string, body []byte) {
	k := Key(collection, key)
	if err := rc.client.Set(ctx, k, body, rc.ttl).Err(); err != nil {
		slog.Warn("response cache set error", "key", k, "error", err)
	}
}

// Invalidate drops cached responses. With a slug only that document and
// the collection listing go; with only a collection the whole collection
// goes; with neither everything goes. It returns the number of keys removed.
func (rc *ResponseCache) Invalidate(ctx context.Context, collection, slug string) int {
	switch {
	case collection == "":
		return rc.deletePattern(ctx, keyPrefix+"*")
	case slug == "":
		return rc.deletePattern(ctx, keyPrefix+collection+":*")
	}
	n, err := rc.client.Del(ctx, Key(collection, slug), Key(collection, ListKey)).Result()
	if err != nil {
		slog.Warn("response cache invalidate error", "collection", collection, "slug", slug, "error", err)
		return 0
	}
	return int(n)
}

// deletePattern removes all keys matching pattern by scanning.
func (rc *ResponseCache) deletePattern(ctx context.Context, pattern string) int {
	var cursor uint64
	var deleted int
	for {
		keys, nextCursor, err := rc.client.Scan(ctx, cursor, pattern, 100).Result()
		if err != nil {
			slog.Warn("response cache scan error", "pattern", pattern, "error", err)
			return deleted
		}
		if len(keys) > 0 {
			if err := rc.client.Del(ctx, keys...).Err(); err != nil {
				slog.Warn("response cache bulk delete error", "error", err)
			} else {
				deleted += len(keys)
			}
		}
		cursor = nextCursor
		if cursor == 0 {
			break
		}
	}
	if deleted > 0 {
		slog.Info("response cache cleared", "pattern", pattern, "deleted", deleted)
	}
	return deleted
}

// Key returns the Valkey key for a document of a collection.
func Key(collection, key string) string {
	return keyPrefix + collection + ":" + key
}
