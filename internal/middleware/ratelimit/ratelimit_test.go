package ratelimit

import (
	"testing"
	"time"
)

func TestAllowWithinLimit(t *testing.T) {
	l := NewLimiter(Config{RequestsPerMinute: 3, CleanupInterval: time.Hour})
	defer l.Stop()

	for i := 0; i < 3; i++ {
		if !l.Allow("1.2.3.4") {
			t.Fatalf("request %d rejected under limit", i+1)
		}
	}
	if l.Allow("1.2.3.4") {
		t.Fatal("request over limit allowed")
	}
	if l.RejectedTotal() != 1 {
		t.Fatalf("RejectedTotal = %d, want 1", l.RejectedTotal())
	}
}

func TestClientsAreIndependent(t *testing.T) {
	l := NewLimiter(Config{RequestsPerMinute: 1, CleanupInterval: time.Hour})
	defer l.Stop()

	if !l.Allow("1.1.1.1") {
		t.Fatal("first client rejected")
	}
	if !l.Allow("2.2.2.2") {
		t.Fatal("second client should have its own window")
	}
	if l.ActiveClients() != 2 {
		t.Fatalf("ActiveClients = %d, want 2", l.ActiveClients())
	}
}

func TestZeroConfigFallsBackToDefaults(t *testing.T) {
	l := NewLimiter(Config{})
	defer l.Stop()

	if l.limit != DefaultConfig().RequestsPerMinute {
		t.Fatalf("limit = %d, want default", l.limit)
	}
}

func TestStopIsIdempotent(t *testing.T) {
	l := NewLimiter(DefaultConfig())
	l.Stop()
	l.Stop()
}
