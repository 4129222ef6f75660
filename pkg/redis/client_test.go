package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestClient(t *testing.T) (*Client, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	return NewFromRedis(rdb), mr
}

func TestClient_SetGet(t *testing.T) {
	client, _ := newTestClient(t)
	ctx := context.Background()

	if err := client.Set(ctx, "review:product:1", []byte(`{"id":1}`), time.Minute); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	value, found, err := client.Get(ctx, "review:product:1")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !found {
		t.Fatal("Expected cache hit")
	}
	if string(value) != `{"id":1}` {
		t.Errorf("Unexpected value %q", value)
	}
}

func TestClient_GetMiss(t *testing.T) {
	client, _ := newTestClient(t)

	value, found, err := client.Get(context.Background(), "missing")
	if err != nil {
		t.Fatalf("Expected no error on miss, got %v", err)
	}
	if found || value != nil {
		t.Error("Expected cache miss")
	}
}

func TestClient_SetHonoursTTL(t *testing.T) {
	client, mr := newTestClient(t)
	ctx := context.Background()

	_ = client.Set(ctx, "short", []byte("x"), time.Second)
	mr.FastForward(2 * time.Second)

	if _, found, _ := client.Get(ctx, "short"); found {
		t.Error("Expected key to expire")
	}
}

func TestClient_DeleteByPattern(t *testing.T) {
	client, mr := newTestClient(t)
	ctx := context.Background()

	for _, key := range []string{"review:product:1", "review:product:2", "review:all", "other:key"} {
		_ = client.Set(ctx, key, []byte("v"), time.Minute)
	}

	deleted, err := client.DeleteByPattern(ctx, "review:*")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if deleted != 3 {
		t.Errorf("Expected 3 deleted keys, got %d", deleted)
	}
	if !mr.Exists("other:key") {
		t.Error("Expected unrelated key to survive")
	}
	if mr.Exists("review:all") {
		t.Error("Expected review:all to be deleted")
	}
}

func TestClient_DeleteAndExists(t *testing.T) {
	client, _ := newTestClient(t)
	ctx := context.Background()

	_ = client.Set(ctx, "k", []byte("v"), time.Minute)
	if ok, _ := client.Exists(ctx, "k"); !ok {
		t.Fatal("Expected key to exist")
	}
	if err := client.Delete(ctx, "k"); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if ok, _ := client.Exists(ctx, "k"); ok {
		t.Error("Expected key to be gone")
	}
	if err := client.Delete(ctx); err != nil {
		t.Errorf("Expected no-op delete to succeed, got %v", err)
	}
}

func TestClient_Ping(t *testing.T) {
	client, _ := newTestClient(t)

	if err := client.Ping(context.Background()); err != nil {
		t.Errorf("Expected ping to succeed, got %v", err)
	}
}

func TestClient_SetIfVersion(t *testing.T) {
	client, mr := newTestClient(t)
	ctx := context.Background()

	version, err := client.Version(ctx, "version:review:all")
	if err != nil || version != 0 {
		t.Fatalf("Expected unset version 0, got %d (%v)", version, err)
	}

	stored, err := client.SetIfVersion(ctx, "version:review:all", version, "review:all", []byte("fresh"), time.Minute)
	if err != nil || !stored {
		t.Fatalf("Expected write at current version, got stored=%v err=%v", stored, err)
	}

	if err := client.Incr(ctx, "version:review:all", "version:review:product:1"); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if v, _ := client.Version(ctx, "version:review:product:1"); v != 1 {
		t.Errorf("Expected bumped version 1, got %d", v)
	}

	stored, err = client.SetIfVersion(ctx, "version:review:all", version, "review:all", []byte("stale"), time.Minute)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if stored {
		t.Error("Expected write at an old version to be dropped")
	}
	if got, _ := mr.Get("review:all"); got != "fresh" {
		t.Errorf("Expected value to be left alone, got %q", got)
	}
	if ttl := mr.TTL("review:all"); ttl <= 0 {
		t.Errorf("Expected versioned write to carry a ttl, got %s", ttl)
	}
}
