//go:build integration

package cache

import (
	"context"
	"os"
	"testing"
	"time"
)

// Run with: EVOTREE_TEST_REDIS=localhost:6379 go test -tags integration ./pkg/cache/...

func exerciseBackend(t *testing.T, c Cache) {
	t.Helper()
	ctx := context.Background()
	key := "evotree-test:" + time.Now().Format(time.RFC3339Nano)
	t.Cleanup(func() { _ = c.Delete(ctx, key) })

	if _, hit, err := c.Get(ctx, key); err != nil || hit {
		t.Fatalf("initial Get: hit=%v err=%v", hit, err)
	}
	if err := c.Set(ctx, key, []byte("Panthera leo"), time.Minute); err != nil {
		t.Fatalf("Set: %v", err)
	}
	got, hit, err := c.Get(ctx, key)
	if err != nil || !hit || string(got) != "Panthera leo" {
		t.Fatalf("Get = %q, %v, %v", got, hit, err)
	}
	if err := c.Delete(ctx, key); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, hit, _ := c.Get(ctx, key); hit {
		t.Error("hit after Delete")
	}
}

func TestRedisCache(t *testing.T) {
	addr := os.Getenv("EVOTREE_TEST_REDIS")
	if addr == "" {
		t.Skip("EVOTREE_TEST_REDIS not set")
	}
	c, err := NewRedisCache(context.Background(), RedisConfig{Addr: addr})
	if err != nil {
		t.Fatalf("NewRedisCache: %v", err)
	}
	defer c.Close()
	exerciseBackend(t, c)
}

func TestMongoCache(t *testing.T) {
	uri := os.Getenv("EVOTREE_TEST_MONGO")
	if uri == "" {
		t.Skip("EVOTREE_TEST_MONGO not set")
	}
	c, err := NewMongoCache(context.Background(), MongoConfig{URI: uri, Database: "evotree_test"})
	if err != nil {
		t.Fatalf("NewMongoCache: %v", err)
	}
	defer c.Close()
	exerciseBackend(t, c)
}
