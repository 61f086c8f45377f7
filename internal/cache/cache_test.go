// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package cache

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

// testValkeyClient returns a Redis client for tests.
// Skips if Valkey is unavailable.
func testValkeyClient(t *testing.T) *redis.Client {
	t.Helper()

	host := envOr("VALKEY_HOST", "localhost")
	port := envOr("VALKEY_PORT", "6379")
	password := os.Getenv("VALKEY_PASSWORD")

	client := redis.NewClient(&redis.Options{
		Addr:     host + ":" + port,
		Password: password,
		DB:       15, // Use DB 15 for tests.
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		t.Skipf("skipping integration test: Valkey not reachable: %v", err)
	}

	t.Cleanup(func() {
		keys, _ := client.Keys(ctx, keyPrefix+"*").Result()
		if len(keys) > 0 {
			client.Del(ctx, keys...)
		}
		client.Close()
	})

	return client
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func TestConnectValkey(t *testing.T) {
	host := envOr("VALKEY_HOST", "localhost")
	port := envOr("VALKEY_PORT", "6379")

	client, err := ConnectValkey(host, port, "")
	if err != nil {
		t.Skipf("skipping: Valkey not available: %v", err)
	}
	defer client.Close()

	pong, err := client.Ping(context.Background()).Result()
	if err != nil {
		t.Fatalf("Ping: %v", err)
	}
	if pong != "PONG" {
		t.Errorf("expected PONG, got %q", pong)
	}
}

func TestValkeyOptions(t *testing.T) {
	opts := ValkeyOptions("cache.internal", "6380", "s3cret")

	if opts.Addr != "cache.internal:6380" {
		t.Errorf("Addr = %q", opts.Addr)
	}
	if opts.Password != "s3cret" || opts.ClientName != "menscircle-api" {
		t.Errorf("opts = %+v", opts)
	}
	if opts.ReadTimeout > time.Second || opts.WriteTimeout > time.Second {
		t.Errorf("cache timeouts too long: read %v, write %v", opts.ReadTimeout, opts.WriteTimeout)
	}
}

func TestConnectValkeyUnreachable(t *testing.T) {
	// Port 1 on loopback refuses connections.
	client, err := ConnectValkey("127.0.0.1", "1", "")
	if err == nil {
		client.Close()
		t.Fatal("expected an error for an unreachable server")
	}
	if !strings.Contains(err.Error(), "127.0.0.1:1") {
		t.Errorf("error %q should name the address", err)
	}
}

func TestResponseCacheSetAndGet(t *testing.T) {
	rc := NewResponseCache(testValkeyClient(t), time.Minute)
	ctx := context.Background()

	if data, ok := rc.Get(ctx, "pages", "home"); ok || data != nil {
		t.Error("expected cache miss")
	}

	body := []byte(`{"slug":"home"}`)
	rc.Set(ctx, "pages", "home", body)

	data, ok := rc.Get(ctx, "pages", "home")
	if !ok {
		t.Fatal("expected cache hit")
	}
	if string(data) != string(body) {
		t.Errorf("data mismatch: got %q, want %q", data, body)
	}
}

func TestResponseCacheInvalidateSlug(t *testing.T) {
	rc := NewResponseCache(testValkeyClient(t), time.Minute)
	ctx := context.Background()

	rc.Set(ctx, "events", "fruehjahr", []byte("a"))
	rc.Set(ctx, "events", "herbst", []byte("b"))
	rc.Set(ctx, "events", ListKey, []byte("[]"))

	rc.Invalidate(ctx, "events", "fruehjahr")

	if _, ok := rc.Get(ctx, "events", "fruehjahr"); ok {
		t.Error("expected miss for invalidated slug")
	}
	if _, ok := rc.Get(ctx, "events", ListKey); ok {
		t.Error("expected miss for collection listing")
	}
	if _, ok := rc.Get(ctx, "events", "herbst"); !ok {
		t.Error("expected sibling document to stay cached")
	}
}

func TestResponseCacheInvalidateCollection(t *testing.T) {
	rc := NewResponseCache(testValkeyClient(t), time.Minute)
	ctx := context.Background()

	rc.Set(ctx, "pages", "a", []byte("a"))
	rc.Set(ctx, "pages", "b", []byte("b"))
	rc.Set(ctx, "settings", ListKey, []byte("s"))

	if n := rc.Invalidate(ctx, "pages", ""); n != 2 {
		t.Errorf("Invalidate removed %d keys, want 2", n)
	}
	if _, ok := rc.Get(ctx, "settings", ListKey); !ok {
		t.Error("expected other collection to stay cached")
	}
}

func TestResponseCacheInvalidateAll(t *testing.T) {
	rc := NewResponseCache(testValkeyClient(t), time.Minute)
	ctx := context.Background()

	rc.Set(ctx, "pages", "a", []byte("a"))
	rc.Set(ctx, "events", "b", []byte("b"))
	rc.Set(ctx, "settings", ListKey, []byte("c"))

	rc.Invalidate(ctx, "", "")

	for _, k := range [][2]string{{"pages", "a"}, {"events", "b"}, {"settings", ListKey}} {
		if _, ok := rc.Get(ctx, k[0], k[1]); ok {
			t.Errorf("expected miss for %v after full invalidation", k)
		}
	}
}

func TestKey(t *testing.T) {
	if got := Key("pages", "about-us"); got != "api:pages:about-us" {
		t.Errorf("Key = %q, want %q", got, "api:pages:about-us")
	}
}

func TestNewResponseCacheDefaultTTL(t *testing.T) {
	rc := NewResponseCache(nil, 0)
	if rc.ttl != DefaultTTL {
		t.Errorf("expected DefaultTTL (%v), got %v", DefaultTTL, rc.ttl)
	}
}
