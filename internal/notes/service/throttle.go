package service

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/aussiebroadwan/notes/internal/notes/metrics"
	"github.com/aussiebroadwan/notes/pkg/slogx"
	lru "github.com/hashicorp/golang-lru/v2"
)

const (
	DefaultLoginThrottleMax        = 5
	DefaultLoginThrottleWindow     = 15 * time.Minute
	DefaultLoginThrottleMaxTracked = 10000
)

// ThrottleBackend keeps a sliding log of login attempts per key.
type ThrottleBackend interface {
	// Reserve prunes entries older than window, then either records a new
	// slot (ok=true) or, when limit slots are already taken, reports the
	// oldest one so the caller can compute a retry delay. It must be atomic
	// per key.
	Reserve(ctx context.Context, key string, now time.Time, window time.Duration, limit int) (slot string, oldest time.Time, ok bool, err error)

	// Release removes a slot so it no longer counts.
	Release(ctx context.Context, key, slot string) error
}

// LoginThrottle caps login attempts per client address. Every attempt takes
// a slot up front; a successful login hands its slot back, so only failures
// and in-flight attempts count towards the limit.
type LoginThrottle struct {
	Backend ThrottleBackend
	Max     int
	Window  time.Duration
	Metrics *metrics.Metrics
	Now     func() time.Time
}

// Attempt is one admitted login attempt.
type Attempt struct {
	throttle *LoginThrottle
	key      string
	slot     string
	once     sync.Once
}

func (t *LoginThrottle) now() time.Time {
	if t.Now != nil {
		return t.Now()
	}
	return time.Now()
}

func (t *LoginThrottle) limits() (int, time.Duration) {
	limit, window := t.Max, t.Window
	if limit <= 0 {
		limit = DefaultLoginThrottleMax
	}
	if window <= 0 {
		window = DefaultLoginThrottleWindow
	}
	return limit, window
}

// Admit reserves a slot for addr or fails with *TooManyAttemptsError.
func (t *LoginThrottle) Admit(ctx context.Context, addr string) (*Attempt, error) {
	limit, window := t.limits()
	now := t.now()

	slot, oldest, ok, err := t.Backend.Reserve(ctx, addr, now, window, limit)
	if err != nil {
		return nil, err
	}
	if !ok {
		retry := retryAfter(oldest, now, window)
		slogx.FromContext(ctx).Warn("login throttled",
			"addr", addr,
			"retry_after", retry.String(),
		)
		t.Metrics.AuthEvent(metrics.EventLoginThrottled)
		return nil, &TooManyAttemptsError{RetryAfter: retry}
	}

	return &Attempt{throttle: t, key: addr, slot: slot}, nil
}

// Succeeded releases the attempt's slot. Calling it more than once is safe.
func (a *Attempt) Succeeded(ctx context.Context) error {
	var err error
	a.once.Do(func() {
		err = a.throttle.Backend.Release(ctx, a.key, a.slot)
	})
	return err
}

// retryAfter is the time until the oldest entry leaves the window, rounded
// up to whole seconds and never below one second.
func retryAfter(oldest, now time.Time, window time.Duration) time.Duration {
	d := oldest.Add(window).Sub(now)
	secs := (d + time.Second - 1) / time.Second
	if secs < 1 {
		secs = 1
	}
	return secs * time.Second
}

type throttleEntry struct {
	slot string
	at   time.Time
}

// MemoryThrottleBackend holds the logs in an LRU so the number of tracked
// addresses stays bounded. When it is full the least recently seen address
// is forgotten.
type MemoryThrottleBackend struct {
	mu   sync.Mutex
	logs *lru.Cache[string, []throttleEntry]
	seq  uint64
}

func NewMemoryThrottleBackend(maxTracked int) (*MemoryThrottleBackend, error) {
	if maxTracked <= 0 {
		maxTracked = DefaultLoginThrottleMaxTracked
	}
	logs, err := lru.New[string, []throttleEntry](maxTracked)
	if err != nil {
		return nil, err
	}
	return &MemoryThrottleBackend{logs: logs}, nil
}

func (b *MemoryThrottleBackend) Reserve(_ context.Context, key string, now time.Time, window time.Duration, limit int) (string, time.Time, bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	log, _ := b.logs.Get(key)

	cutoff := now.Add(-window)
	live := log[:0]
	for _, e := range log {
		if e.at.After(cutoff) {
			live = append(live, e)
		}
	}

	if len(live) >= limit {
		b.logs.Add(key, live)
		return "", live[0].at, false, nil
	}

	b.seq++
	slot := strconv.FormatUint(b.seq, 10)
	live = append(live, throttleEntry{slot: slot, at: now})
	b.logs.Add(key, live)
	return slot, time.Time{}, true, nil
}

func (b *MemoryThrottleBackend) Release(_ context.Context, key, slot string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	log, ok := b.logs.Peek(key)
	if !ok {
		return nil
	}
	for i, e := range log {
		if e.slot == slot {
			log = append(log[:i], log[i+1:]...)
			break
		}
	}
	if len(log) == 0 {
		b.logs.Remove(key)
		return nil
	}
	b.logs.Add(key, log)
	return nil
}

// Tracked returns how many addresses currently have a log.
func (b *MemoryThrottleBackend) Tracked() int {
	return b.logs.Len()
}
