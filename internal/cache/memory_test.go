package cache

import (
	"context"
	"testing"
	"time"
)

func TestMemoryCache(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache()

	if _, ok, _ := c.Get(ctx, "list:blog:"); ok {
		t.Fatal("unexpected hit on empty cache")
	}

	if err := c.Set(ctx, "list:blog:", []byte(`[]`), time.Minute); err != nil {
		t.Fatalf("Set returned error: %v", err)
	}
	data, ok, err := c.Get(ctx, "list:blog:")
	if err != nil || !ok {
		t.Fatalf("Get = (%v, %v), want hit", ok, err)
	}
	if string(data) != `[]` {
		t.Errorf("data = %q", data)
	}

	if err := c.Invalidate(ctx); err != nil {
		t.Fatalf("Invalidate returned error: %v", err)
	}
	if _, ok, _ := c.Get(ctx, "list:blog:"); ok {
		t.Error("entry survived invalidation")
	}
}

func TestMemoryCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache()

	if err := c.Set(ctx, "k", []byte("v"), time.Nanosecond); err != nil {
		t.Fatalf("Set returned error: %v", err)
	}
	time.Sleep(5 * time.Millisecond)
	if _, ok, _ := c.Get(ctx, "k"); ok {
		t.Error("expired entry still served")
	}
}
