package cache

import (
	"context"
	"testing"
	"time"
)

func TestMemoryIncrWindowExpiry(t *testing.T) {
	m := NewMemory()
	now := time.Now()
	m.SetClock(func() time.Time { return now })
	ctx := context.Background()

	c1, _, err := m.IncrWindow(ctx, "k", time.Minute)
	if err != nil {
		t.Fatalf("IncrWindow returned error: %v", err)
	}
	c2, remaining, err := m.IncrWindow(ctx, "k", time.Minute)
	if err != nil {
		t.Fatalf("IncrWindow returned error: %v", err)
	}
	if c1 != 1 || c2 != 2 {
		t.Errorf("expected counts 1 and 2, got %d and %d", c1, c2)
	}
	if remaining <= 0 || remaining > time.Minute {
		t.Errorf("expected remaining within the window, got %v", remaining)
	}

	now = now.Add(time.Minute + time.Second)
	c3, _, err := m.IncrWindow(ctx, "k", time.Minute)
	if err != nil {
		t.Fatalf("IncrWindow returned error: %v", err)
	}
	if c3 != 1 {
		t.Errorf("expected fresh window after expiry, got count %d", c3)
	}
}

func TestMemoryTTLExpiry(t *testing.T) {
	m := NewMemory()
	now := time.Now()
	m.SetClock(func() time.Time { return now })
	ctx := context.Background()

	if err := m.SetTTL(ctx, "k", "v", time.Minute); err != nil {
		t.Fatalf("SetTTL returned error: %v", err)
	}
	if remaining, ok, _ := m.RemainingTTL(ctx, "k"); !ok || remaining != time.Minute {
		t.Errorf("expected live key with full TTL, got ok=%v remaining=%v", ok, remaining)
	}

	now = now.Add(2 * time.Minute)
	if _, ok, _ := m.RemainingTTL(ctx, "k"); ok {
		t.Error("expected key to expire")
	}
}

func TestMemoryJSONRoundTrip(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	type payload struct {
		Name string `json:"name"`
		N    int    `json:"n"`
	}

	if err := m.SetJSON(ctx, "k", payload{Name: "x", N: 7}, 0); err != nil {
		t.Fatalf("SetJSON returned error: %v", err)
	}

	var out payload
	found, err := m.GetJSON(ctx, "k", &out)
	if err != nil {
		t.Fatalf("GetJSON returned error: %v", err)
	}
	if !found || out.Name != "x" || out.N != 7 {
		t.Errorf("unexpected round trip: found=%v out=%+v", found, out)
	}

	if found, _ := m.GetJSON(ctx, "missing", &out); found {
		t.Error("expected miss for unknown key")
	}
}

func TestMemoryBumpAndCurrent(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	if v, _ := m.Current(ctx, "ver"); v != 0 {
		t.Errorf("expected 0 for unset counter, got %d", v)
	}
	if v, err := m.Bump(ctx, "ver"); err != nil || v != 1 {
		t.Errorf("expected bump to 1, got %d (%v)", v, err)
	}
	if v, err := m.Bump(ctx, "ver"); err != nil || v != 2 {
		t.Errorf("expected bump to 2, got %d (%v)", v, err)
	}
	if v, _ := m.Current(ctx, "ver"); v != 2 {
		t.Errorf("expected current 2, got %d", v)
	}
}
