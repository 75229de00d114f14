package service

import (
	"sync"
	"time"
)

// Blacklist is the in-memory set of revoked tokens, consulted on every
// authenticated request. Entries survive until process restart or the
// token's natural expiry, whichever comes first. It is process-local
// and not shared across instances; a persistent backend is the known
// production upgrade path.
type Blacklist struct {
	mu      sync.RWMutex
	revoked map[string]time.Time
}

func NewBlacklist() *Blacklist {
	return &Blacklist{revoked: make(map[string]time.Time)}
}

// Revoke adds a token to the set. Idempotent. A zero expiry keeps the
// entry until process restart.
func (b *Blacklist) Revoke(token string, expiresAt time.Time) {
	if token == "" {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	now := time.Now()
	for tok, exp := range b.revoked {
		if !exp.IsZero() && now.After(exp) {
			delete(b.revoked, tok)
		}
	}
	b.revoked[token] = expiresAt
}

func (b *Blacklist) IsRevoked(token string) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()

	exp, ok := b.revoked[token]
	if !ok {
		return false
	}
	if !exp.IsZero() && time.Now().After(exp) {
		return false
	}
	return true
}

func (b *Blacklist) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.revoked)
}
