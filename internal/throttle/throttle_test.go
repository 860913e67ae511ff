package throttle

import (
	"testing"
	"time"
)

func newTestGate(t *testing.T, cooldown time.Duration, size int) (*Gate, *time.Time) {
	t.Helper()
	g, err := New(cooldown, size)
	if err != nil {
		t.Fatalf("new gate: %v", err)
	}
	now := time.Now()
	g.now = func() time.Time { return now }
	return g, &now
}

func TestSecondCheckinRejected(t *testing.T) {
	g, _ := newTestGate(t, 10*time.Minute, 16)

	if ok, _ := g.Allow("client-a", 1); !ok {
		t.Fatal("first check-in should pass")
	}
	ok, remaining := g.Allow("client-a", 1)
	if ok {
		t.Fatal("second check-in within cooldown should be rejected")
	}
	if remaining <= 0 || remaining > 10*time.Minute {
		t.Errorf("remaining = %v, want within (0, 10m]", remaining)
	}
}

func TestAllowedAfterCooldown(t *testing.T) {
	g, now := newTestGate(t, 10*time.Minute, 16)

	if ok, _ := g.Allow("client-a", 1); !ok {
		t.Fatal("first check-in should pass")
	}
	*now = now.Add(11 * time.Minute)
	if ok, _ := g.Allow("client-a", 1); !ok {
		t.Error("check-in after the cooldown should pass")
	}
}

func TestDistinctKeysIndependent(t *testing.T) {
	g, _ := newTestGate(t, 10*time.Minute, 16)

	if ok, _ := g.Allow("client-a", 1); !ok {
		t.Fatal("first check-in should pass")
	}
	if ok, _ := g.Allow("client-b", 1); !ok {
		t.Error("different client should not be throttled")
	}
	if ok, _ := g.Allow("client-a", 2); !ok {
		t.Error("different restaurant should not be throttled")
	}
}

func TestBoundedState(t *testing.T) {
	g, _ := newTestGate(t, 10*time.Minute, 2)

	g.Allow("a", 1)
	g.Allow("b", 1)
	g.Allow("c", 1) // evicts key a

	if ok, _ := g.Allow("a", 1); !ok {
		t.Error("evicted pair should be allowed again")
	}
}
