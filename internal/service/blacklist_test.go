package service

import (
	"fmt"
	"sync"
	"testing"
	"time"
)

func TestBlacklist_RevokeAndCheck(t *testing.T) {
	b := NewBlacklist()

	if b.IsRevoked("tok") {
		t.Fatal("fresh blacklist should not contain tok")
	}

	b.Revoke("tok", time.Now().Add(time.Hour))
	if !b.IsRevoked("tok") {
		t.Fatal("revoked token not reported as revoked")
	}

	// Idempotent: revoking again is a no-op.
	b.Revoke("tok", time.Now().Add(time.Hour))
	if !b.IsRevoked("tok") || b.Len() != 1 {
		t.Fatalf("expected single entry after double revoke, got %d", b.Len())
	}
}

func TestBlacklist_EmptyToken(t *testing.T) {
	b := NewBlacklist()
	b.Revoke("", time.Now().Add(time.Hour))
	if b.Len() != 0 {
		t.Fatal("empty token should not be stored")
	}
}

func TestBlacklist_EntryExpiresWithToken(t *testing.T) {
	b := NewBlacklist()

	b.Revoke("dead", time.Now().Add(-time.Second))
	if b.IsRevoked("dead") {
		t.Fatal("entry past the token's natural expiry should not count as revoked")
	}

	// The next insertion prunes it.
	b.Revoke("live", time.Now().Add(time.Hour))
	if b.Len() != 1 {
		t.Fatalf("expected expired entry pruned, got %d entries", b.Len())
	}
}

func TestBlacklist_ZeroExpiryPersists(t *testing.T) {
	b := NewBlacklist()
	b.Revoke("forever", time.Time{})
	if !b.IsRevoked("forever") {
		t.Fatal("zero-expiry entry should stay revoked")
	}
}

func TestBlacklist_ConcurrentAccess(t *testing.T) {
	b := NewBlacklist()
	exp := time.Now().Add(time.Hour)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			b.Revoke(fmt.Sprintf("token-%d", i), exp)
		}(i)
		go func(i int) {
			defer wg.Done()
			b.IsRevoked(fmt.Sprintf("token-%d", i))
		}(i)
	}
	wg.Wait()

	for i := 0; i < 50; i++ {
		if !b.IsRevoked(fmt.Sprintf("token-%d", i)) {
			t.Fatalf("token-%d missing after concurrent revokes", i)
		}
	}
}
