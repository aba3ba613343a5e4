package auth

import (
	"context"
	"sync"
	"time"
)

// TokenRevoker records signed-out token IDs until the tokens would have
// expired anyway.
type TokenRevoker interface {
	Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
	// Claim revokes tokenID and reports whether this call was the one that
	// did it. Single-use tokens are accepted only when Claim returns true.
	Claim(ctx context.Context, tokenID string, expiresAt time.Time) (bool, error)
}

// MemoryRevoker is a process-local TokenRevoker.
type MemoryRevoker struct {
	mu      sync.RWMutex
	revoked map[string]time.Time
	now     func() time.Time
}

var _ TokenRevoker = (*MemoryRevoker)(nil)

// NewMemoryRevoker creates an empty revocation list.
func NewMemoryRevoker() *MemoryRevoker {
	return &MemoryRevoker{
		revoked: make(map[string]time.Time),
		now:     time.Now,
	}
}

// Revoke implements TokenRevoker. Tokens already past expiresAt are ignored.
func (r *MemoryRevoker) Revoke(_ context.Context, tokenID string, expiresAt time.Time) error {
	now := r.now()
	if !expiresAt.After(now) {
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for id, exp := range r.revoked {
		if !exp.After(now) {
			delete(r.revoked, id)
		}
	}
	r.revoked[tokenID] = expiresAt
	return nil
}

// IsRevoked implements TokenRevoker.
func (r *MemoryRevoker) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	exp, ok := r.revoked[tokenID]
	return ok && exp.After(r.now()), nil
}

// Claim implements TokenRevoker. Expired tokens cannot be claimed.
func (r *MemoryRevoker) Claim(_ context.Context, tokenID string, expiresAt time.Time) (bool, error) {
	now := r.now()
	if !expiresAt.After(now) {
		return false, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if exp, ok := r.revoked[tokenID]; ok && exp.After(now) {
		return false, nil
	}
	r.revoked[tokenID] = expiresAt
	return true, nil
}
