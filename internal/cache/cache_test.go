// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package cache

import (
	"context"
	"os"
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
		keys, _ := client.Keys(ctx, "published:*").Result()
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

	ctx := context.Background()
	pong, err := client.Ping(ctx).Result()
	if err != nil {
		t.Fatalf("Ping: %v", err)
	}
	if pong != "PONG" {
		t.Errorf("expected PONG, got %q", pong)
	}
}

func TestPublishedCacheSetAndGet(t *testing.T) {
	client := testValkeyClient(t)
	pc := NewPublishedCache(client, 1*time.Minute)

	ctx := context.Background()
	key := ListKey("portfolio")
	body := []byte(`[{"template_name":"Portfolio"}]`)

	if _, ok := pc.Get(ctx, key); ok {
		t.Fatal("expected miss before Set")
	}

	pc.Set(ctx, key, body)

	got, ok := pc.Get(ctx, key)
	if !ok {
		t.Fatal("expected hit after Set")
	}
	if string(got) != string(body) {
		t.Errorf("cached body: got %q, want %q", got, body)
	}
}

func TestPublishedCacheTTL(t *testing.T) {
	client := testValkeyClient(t)
	pc := NewPublishedCache(client, 1*time.Second)

	ctx := context.Background()
	key := ListKey("ttl-test")
	pc.Set(ctx, key, []byte("[]"))

	if _, ok := pc.Get(ctx, key); !ok {
		t.Fatal("expected hit before expiry")
	}

	time.Sleep(1500 * time.Millisecond)

	if _, ok := pc.Get(ctx, key); ok {
		t.Error("expected miss after TTL expiry")
	}
}

func TestPublishedCacheFlush(t *testing.T) {
	client := testValkeyClient(t)
	pc := NewPublishedCache(client, 1*time.Minute)

	ctx := context.Background()
	pc.Set(ctx, ListKey(""), []byte("[]"))
	pc.Set(ctx, ListKey("search-term"), []byte("[]"))
	pc.Set(ctx, PagesKey("64f1a2b3c4d5e6f708192a3b"), []byte("{}"))

	pc.Flush(ctx)

	for _, key := range []string{ListKey(""), ListKey("search-term"), PagesKey("64f1a2b3c4d5e6f708192a3b")} {
		if _, ok := pc.Get(ctx, key); ok {
			t.Errorf("key %q must be gone after Flush", key)
		}
	}
}

func TestPublishedCacheDefaultTTL(t *testing.T) {
	client := testValkeyClient(t)
	pc := NewPublishedCache(client, 0)
	if pc.ttl != DefaultPublishedTTL {
		t.Errorf("ttl: got %v, want %v", pc.ttl, DefaultPublishedTTL)
	}
}
