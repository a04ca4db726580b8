package redisx

import (
	"context"
	"io"
	"log"
	"sort"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
)

func newTestCache(t *testing.T) *Cache {
	t.Helper()
	srv := miniredis.RunT(t)
	return New(Config{Addr: srv.Addr()}, log.New(io.Discard, "", 0))
}

func TestGetMiss(t *testing.T) {
	c := newTestCache(t)
	defer c.Close()

	v, err := c.Get(context.Background(), "absent")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if v != nil {
		t.Fatalf("miss must return nil, got %q", v)
	}
}

func TestSetGetDel(t *testing.T) {
	c := newTestCache(t)
	defer c.Close()
	ctx := context.Background()

	if err := c.Set(ctx, "k", []byte("v"), 60); err != nil {
		t.Fatalf("set: %v", err)
	}
	v, err := c.Get(ctx, "k")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if string(v) != "v" {
		t.Fatalf("get: %q", v)
	}

	if err := c.Del(ctx, "k"); err != nil {
		t.Fatalf("del: %v", err)
	}
	if v, _ := c.Get(ctx, "k"); v != nil {
		t.Fatalf("deleted key still present: %q", v)
	}
}

func TestSetTTLExpires(t *testing.T) {
	srv := miniredis.RunT(t)
	c := New(Config{Addr: srv.Addr()}, log.New(io.Discard, "", 0))
	defer c.Close()
	ctx := context.Background()

	if err := c.Set(ctx, "k", []byte("v"), 30); err != nil {
		t.Fatalf("set: %v", err)
	}

	srv.FastForward(31 * time.Second)
	if v, _ := c.Get(ctx, "k"); v != nil {
		t.Fatalf("key survived ttl: %q", v)
	}
}

func TestKeysByPrefix(t *testing.T) {
	c := newTestCache(t)
	defer c.Close()
	ctx := context.Background()

	for _, k := range []string{"refresh:a", "refresh:b", "blacklist:c"} {
		if err := c.Set(ctx, k, []byte("1"), 0); err != nil {
			t.Fatalf("set %s: %v", k, err)
		}
	}

	keys, err := c.Keys(ctx, "refresh:")
	if err != nil {
		t.Fatalf("keys: %v", err)
	}
	sort.Strings(keys)
	if len(keys) != 2 || keys[0] != "refresh:a" || keys[1] != "refresh:b" {
		t.Fatalf("keys: %v", keys)
	}
}

func TestPing(t *testing.T) {
	c := newTestCache(t)
	defer c.Close()

	if err := c.Ping(context.Background()); err != nil {
		t.Fatalf("ping: %v", err)
	}
}
