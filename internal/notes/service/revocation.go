package service

import (
	"context"
	"sync"
	"time"

	"github.com/aussiebroadwan/notes/internal/notes/metrics"
	"github.com/aussiebroadwan/notes/pkg/cryptox"
)

// DefaultRevocationSweepInterval is how often expired entries are purged.
const DefaultRevocationSweepInterval = 10 * time.Minute

// sweepBatchSize bounds how many entries one write lock removes.
const sweepBatchSize = 256

// RevocationEntry records when a token was revoked and when it would have
// expired on its own. Past ExpiresAt the entry means nothing.
type RevocationEntry struct {
	RevokedAt time.Time
	ExpiresAt time.Time
}

// RevocationBackend stores revocation entries keyed by token fingerprint.
type RevocationBackend interface {
	Add(ctx context.Context, fingerprint string, entry RevocationEntry) error
	Contains(ctx context.Context, fingerprint string, now time.Time) (bool, error)
	Sweep(ctx context.Context, now time.Time) (int, error)
}

// RevocationRegistry tracks logged-out tokens until they expire. Tokens are
// stored by fingerprint, never raw.
type RevocationRegistry struct {
	Backend RevocationBackend
	Metrics *metrics.Metrics
	Now     func() time.Time
}

func (r *RevocationRegistry) now() time.Time {
	if r.Now != nil {
		return r.Now()
	}
	return time.Now()
}

// Revoke marks token as unusable until expiresAt. A token that has already
// expired is not recorded.
func (r *RevocationRegistry) Revoke(ctx context.Context, token string, expiresAt time.Time) error {
	now := r.now()
	if !expiresAt.After(now) {
		return nil
	}
	return r.Backend.Add(ctx, cryptox.FingerprintToken(token), RevocationEntry{
		RevokedAt: now,
		ExpiresAt: expiresAt,
	})
}

// IsRevoked reports whether token was revoked and has not yet expired.
func (r *RevocationRegistry) IsRevoked(ctx context.Context, token string) (bool, error) {
	return r.Backend.Contains(ctx, cryptox.FingerprintToken(token), r.now())
}

// Sweep drops entries whose tokens have expired and returns how many went.
func (r *RevocationRegistry) Sweep(ctx context.Context) (int, error) {
	n, err := r.Backend.Sweep(ctx, r.now())
	r.Metrics.Swept(n, err)
	return n, err
}

// MemoryRevocationBackend keeps entries in process memory. Suitable for a
// single instance.
type MemoryRevocationBackend struct {
	mu      sync.RWMutex
	entries map[string]RevocationEntry
}

func NewMemoryRevocationBackend() *MemoryRevocationBackend {
	return &MemoryRevocationBackend{entries: make(map[string]RevocationEntry)}
}

func (b *MemoryRevocationBackend) Add(_ context.Context, fp string, entry RevocationEntry) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.entries[fp] = entry
	return nil
}

func (b *MemoryRevocationBackend) Contains(_ context.Context, fp string, now time.Time) (bool, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	entry, ok := b.entries[fp]
	return ok && now.Before(entry.ExpiresAt), nil
}

// Sweep collects expired keys under the read lock, then removes them in
// small batches so lookups are never blocked for long.
func (b *MemoryRevocationBackend) Sweep(ctx context.Context, now time.Time) (int, error) {
	b.mu.RLock()
	var expired []string
	for fp, entry := range b.entries {
		if !now.Before(entry.ExpiresAt) {
			expired = append(expired, fp)
		}
	}
	b.mu.RUnlock()

	removed := 0
	for start := 0; start < len(expired); start += sweepBatchSize {
		if err := ctx.Err(); err != nil {
			return removed, err
		}
		end := min(start+sweepBatchSize, len(expired))

		b.mu.Lock()
		for _, fp := range expired[start:end] {
			// Re-check: the token may have been revoked again meanwhile.
			if entry, ok := b.entries[fp]; ok && !now.Before(entry.ExpiresAt) {
				delete(b.entries, fp)
				removed++
			}
		}
		b.mu.Unlock()
	}
	return removed, nil
}

// Len returns the number of stored entries, expired or not.
func (b *MemoryRevocationBackend) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.entries)
}
