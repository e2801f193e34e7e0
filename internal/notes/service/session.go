package service

import (
	"context"
	"errors"
	"time"

	"github.com/aussiebroadwan/notes/internal/notes/metrics"
	"github.com/aussiebroadwan/notes/internal/notes/store"
	"github.com/aussiebroadwan/notes/pkg/slogx"
)

// DefaultSessionIdleTimeout is how long a user may go without an
// authenticated request before their session is considered over.
const DefaultSessionIdleTimeout = 15 * time.Minute

// SessionGate enforces the sliding idle timeout stored on the user record.
type SessionGate struct {
	Store       store.Store
	IdleTimeout time.Duration
	Metrics     *metrics.Metrics
	Now         func() time.Time
}

func (g *SessionGate) now() time.Time {
	if g.Now != nil {
		return g.Now()
	}
	return time.Now()
}

func (g *SessionGate) idleTimeout() time.Duration {
	if g.IdleTimeout > 0 {
		return g.IdleTimeout
	}
	return DefaultSessionIdleTimeout
}

// CheckActivity fails with ErrUserNotFound or ErrSessionExpired, otherwise
// it slides last_active to now. Being idle for exactly the timeout still
// passes.
func (g *SessionGate) CheckActivity(ctx context.Context, userID string) error {
	now := g.now()

	user, err := g.Store.Users().GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	if idle := user.IdleFor(now); idle > g.idleTimeout() {
		slogx.FromContext(ctx).Warn("session expired",
			"user_id", userID,
			"idle", idle.Round(time.Second).String(),
		)
		g.Metrics.AuthEvent(metrics.EventSessionExpired)
		return ErrSessionExpired
	}

	return g.Store.Users().TouchLastActive(ctx, userID, now)
}

// Touch records activity without checking the timeout. Login and logout use
// it.
func (g *SessionGate) Touch(ctx context.Context, userID string) error {
	return g.Store.Users().TouchLastActive(ctx, userID, g.now())
}
