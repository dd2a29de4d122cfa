package cache

import (
	"context"
	"os"
	"testing"
	"time"
)

// TREETUI_TEST_REDIS holds a redis:// URL of a disposable server.
func redisURL(t *testing.T) string {
	t.Helper()
	url := os.Getenv("TREETUI_TEST_REDIS")
	if url == "" {
		t.Skip("TREETUI_TEST_REDIS not set")
	}
	return url
}

func TestRedisCacheIntegration(t *testing.T) {
	ctx := context.Background()
	c, err := NewRedisCache(ctx, redisURL(t))
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()
	c.prefix = "treetui-test:" + t.Name() + ":"
	t.Cleanup(func() { _, _ = c.Clear(context.Background()) })

	if _, hit, err := c.Get(ctx, "k"); hit || err != nil {
		t.Fatalf("Get on empty = %v, %v", hit, err)
	}
	if err := c.Set(ctx, "k", []byte("v"), time.Minute); err != nil {
		t.Fatal(err)
	}
	data, hit, err := c.Get(ctx, "k")
	if err != nil || !hit || string(data) != "v" {
		t.Fatalf("Get() = %q, %v, %v", data, hit, err)
	}
	_ = c.Set(ctx, "other", []byte("w"), 0)

	n, err := c.Clear(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Errorf("Clear() = %d, want 2", n)
	}
	if err := c.Delete(ctx, "k"); err != nil {
		t.Errorf("Delete of missing key = %v", err)
	}
}

func TestNewRedisCacheBadURL(t *testing.T) {
	if _, err := NewRedisCache(context.Background(), "http://nope"); err == nil {
		t.Error("NewRedisCache should reject a non-redis URL")
	}
}
