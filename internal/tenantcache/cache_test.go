package tenantcache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
)

func newTestCache(t *testing.T) *Cache {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return New(client, time.Minute)
}

func TestGet_MissBeforeSet(t *testing.T) {
	c := newTestCache(t)
	if _, err := c.Get(context.Background(), "user-1", "crm:leads"); err != ErrMiss {
		t.Fatalf("Get = %v, want ErrMiss", err)
	}
}

func TestSetGet_RoundTrip(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	if err := c.Set(ctx, "user-1", "crm:leads", "org-a-leads"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	got, err := c.Get(ctx, "user-1", "crm:leads")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != "org-a-leads" {
		t.Errorf("Get = %q, want %q", got, "org-a-leads")
	}
}

func TestInvalidate_OrphansPreviousEpoch(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	if err := c.Set(ctx, "user-1", "crm:leads", "org-b-leads"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := c.Invalidate(ctx, "user-1"); err != nil {
		t.Fatalf("Invalidate: %v", err)
	}
	if _, err := c.Get(ctx, "user-1", "crm:leads"); err != ErrMiss {
		t.Fatalf("Get after Invalidate = %v, want ErrMiss", err)
	}

	// Writes after the switch land under the new epoch.
	if err := c.Set(ctx, "user-1", "crm:leads", "org-a-leads"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	got, err := c.Get(ctx, "user-1", "crm:leads")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != "org-a-leads" {
		t.Errorf("Get = %q, want value written under new epoch", got)
	}
}

func TestInvalidate_IsPerUser(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	if err := c.Set(ctx, "user-2", "crm:leads", "kept"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := c.Invalidate(ctx, "user-1"); err != nil {
		t.Fatalf("Invalidate: %v", err)
	}
	got, err := c.Get(ctx, "user-2", "crm:leads")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != "kept" {
		t.Errorf("Get = %q, another user's switch must not drop this cache", got)
	}
}

func TestEpoch_StartsAtZeroAndIncrements(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	n, err := c.Epoch(ctx, "user-1")
	if err != nil {
		t.Fatalf("Epoch: %v", err)
	}
	if n != 0 {
		t.Errorf("initial epoch = %d, want 0", n)
	}
	for i := 0; i < 3; i++ {
		if err := c.Invalidate(ctx, "user-1"); err != nil {
			t.Fatalf("Invalidate: %v", err)
		}
	}
	n, err = c.Epoch(ctx, "user-1")
	if err != nil {
		t.Fatalf("Epoch: %v", err)
	}
	if n != 3 {
		t.Errorf("epoch = %d, want 3", n)
	}
}
