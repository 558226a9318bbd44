package cache

import (
	"context"
	"testing"
	"time"
)

func TestMemoryGetSet(t *testing.T) {
	c := NewMemory()
	ctx := context.Background()

	if _, ok := c.Get(ctx, "missing"); ok {
		t.Error("Expected miss for unknown key")
	}

	c.Set(ctx, DashboardKey(1, "INR", "3M"), []byte("payload"), time.Minute)

	val, ok := c.Get(ctx, "dashboard:1:INR:3M")
	if !ok || string(val) != "payload" {
		t.Errorf("Get = %q, %v; want payload, true", val, ok)
	}
}

func TestMemoryExpiry(t *testing.T) {
	c := NewMemory()
	ctx := context.Background()

	current := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return current }

	c.Set(ctx, "dashboard:1:INR:3M", []byte("x"), 5*time.Minute)

	current = current.Add(4 * time.Minute)
	if _, ok := c.Get(ctx, "dashboard:1:INR:3M"); !ok {
		t.Error("Entry expired too early")
	}

	current = current.Add(2 * time.Minute)
	if _, ok := c.Get(ctx, "dashboard:1:INR:3M"); ok {
		t.Error("Entry should have expired")
	}
}

func TestMemoryInvalidateUser(t *testing.T) {
	c := NewMemory()
	ctx := context.Background()

	c.Set(ctx, DashboardKey(1, "INR", "3M"), []byte("a"), time.Minute)
	c.Set(ctx, DashboardKey(1, "USD", "1Y"), []byte("b"), time.Minute)
	c.Set(ctx, DashboardKey(2, "INR", "3M"), []byte("c"), time.Minute)

	c.InvalidateUser(ctx, 1)

	if _, ok := c.Get(ctx, DashboardKey(1, "INR", "3M")); ok {
		t.Error("User 1 entry survived invalidation")
	}
	if _, ok := c.Get(ctx, DashboardKey(1, "USD", "1Y")); ok {
		t.Error("User 1 entry survived invalidation")
	}
	if _, ok := c.Get(ctx, DashboardKey(2, "INR", "3M")); !ok {
		t.Error("User 2 entry was wrongly invalidated")
	}
}

func TestMemorySweep(t *testing.T) {
	c := NewMemory()
	ctx := context.Background()

	current := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return current }

	c.Set(ctx, "a", []byte("1"), time.Minute)
	c.Set(ctx, "b", []byte("2"), time.Hour)

	current = current.Add(30 * time.Minute)

	if removed := c.Sweep(); removed != 1 {
		t.Errorf("Sweep removed %d entries, want 1", removed)
	}
	if c.Len() != 1 {
		t.Errorf("Len = %d, want 1", c.Len())
	}
}

func TestDashboardKey(t *testing.T) {
	got := DashboardKey(42, "USD", "ALL")
	if got != "dashboard:42:USD:ALL" {
		t.Errorf("DashboardKey = %q", got)
	}
}
