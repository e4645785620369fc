package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
)

func newTestClient(t *testing.T) (*Client, *miniredis.Miniredis) {
	t.Helper()
	srv := miniredis.RunT(t)
	client, err := NewRedisClient("redis://" + srv.Addr() + "/0")
	if err != nil {
		t.Fatalf("new redis client: %v", err)
	}
	t.Cleanup(func() { client.Close() })
	return client, srv
}

func TestNewRedisClientRequiresURL(t *testing.T) {
	if _, err := NewRedisClient(""); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
}

func TestSetGetTTL(t *testing.T) {
	client, srv := newTestClient(t)
	ctx := context.Background()

	if err := client.Set(ctx, "widget:weather:abc", `{"id":"w1"}`, time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}
	got, err := client.Get(ctx, "widget:weather:abc")
	if err != nil || got != `{"id":"w1"}` {
		t.Fatalf("get: %q %v", got, err)
	}
	ttl, err := client.TTL(ctx, "widget:weather:abc")
	if err != nil || ttl <= 0 {
		t.Fatalf("ttl: %v %v", ttl, err)
	}

	srv.FastForward(2 * time.Minute)
	if _, err := client.Get(ctx, "widget:weather:abc"); !errors.Is(err, ErrCacheMiss) {
		t.Fatalf("expected cache miss after expiry, got %v", err)
	}
}

func TestDelPattern(t *testing.T) {
	client, _ := newTestClient(t)
	ctx := context.Background()
	for _, key := range []string{"widget:stock:1", "widget:stock:2", "widget:news:1"} {
		if err := client.Set(ctx, key, "x", time.Minute); err != nil {
			t.Fatalf("set %s: %v", key, err)
		}
	}
	n, err := client.DelPattern(ctx, "widget:stock:*")
	if err != nil {
		t.Fatalf("del pattern: %v", err)
	}
	if n != 2 {
		t.Fatalf("expected 2 deleted keys, got %d", n)
	}
	if _, err := client.Get(ctx, "widget:news:1"); err != nil {
		t.Fatalf("unrelated key removed: %v", err)
	}
}

func TestNilClientErrors(t *testing.T) {
	var c *Client
	if err := c.Set(context.Background(), "k", "v", time.Second); err == nil {
		t.Fatalf("expected error from nil client")
	}
	if err := c.Close(); err != nil {
		t.Fatalf("close on nil client: %v", err)
	}
}
