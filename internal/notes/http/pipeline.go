package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/aussiebroadwan/notes/internal/notes/metrics"
	"github.com/aussiebroadwan/notes/internal/notes/service"
	"github.com/aussiebroadwan/notes/pkg/httpx"
	"github.com/aussiebroadwan/notes/pkg/jwtx"
	"github.com/aussiebroadwan/notes/pkg/slogx"
)

// Policy selects which authentication stages guard a route. Stages always
// run in the order the fields are declared.
type Policy struct {
	CSRF           bool
	Throttle       bool
	Token          bool
	HeaderRequired bool
	Revocation     bool
	Session        bool
}

// Pipeline holds everything the authentication stages need.
type Pipeline struct {
	CSRF        *httpx.CSRFGuard
	Throttle    *service.LoginThrottle
	Verifier    jwtx.Verifier
	Revocations *service.RevocationRegistry
	Sessions    *service.SessionGate
	Metrics     *metrics.Metrics

	// ClientKey identifies the caller for the login throttle.
	ClientKey httpx.KeyExtractor
}

// Wrap composes the stages enabled by policy around h as
// CSRF, throttle, token, revocation, session. Each stage writes its own
// error response and stops the chain.
func (p *Pipeline) Wrap(policy Policy, h http.Handler) http.Handler {
	var mws []httpx.Middleware
	if policy.CSRF {
		mws = append(mws, p.csrfStage())
	}
	if policy.Throttle {
		mws = append(mws, p.throttleStage())
	}
	if policy.Token {
		mws = append(mws, httpx.AuthnMiddleware(p.Verifier, httpx.AuthnOptions{
			HeaderRequired: policy.HeaderRequired,
		}))
	}
	if policy.Revocation {
		mws = append(mws, p.revocationStage())
	}
	if policy.Session {
		mws = append(mws, p.sessionStage())
	}
	return httpx.Chain(h, mws...)
}

func (p *Pipeline) csrfStage() httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if err := p.CSRF.Validate(r); err != nil {
				slogx.FromContext(r.Context()).Warn("csrf check failed",
					"method", r.Method,
					"path", r.URL.Path,
				)
				p.Metrics.AuthEvent(metrics.EventCSRFRejected)
				writeError(w, r, err)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

type attemptKey struct{}

func withAttempt(ctx context.Context, a *service.Attempt) context.Context {
	return context.WithValue(ctx, attemptKey{}, a)
}

// attemptFromContext returns the login attempt admitted by the throttle
// stage, or nil on routes without one.
func attemptFromContext(ctx context.Context) *service.Attempt {
	a, _ := ctx.Value(attemptKey{}).(*service.Attempt)
	return a
}

func (p *Pipeline) throttleStage() httpx.Middleware {
	keyOf := p.ClientKey
	if keyOf == nil {
		keyOf = httpx.RemoteAddrKeyExtractor
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			attempt, err := p.Throttle.Admit(ctx, keyOf(r))
			if err != nil {
				writeError(w, r, err)
				return
			}
			next.ServeHTTP(w, r.WithContext(withAttempt(ctx, attempt)))
		})
	}
}

func (p *Pipeline) revocationStage() httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			raw, ok := httpx.TokenFromContext(ctx)
			if !ok {
				httpx.ErrNoToken.WriteError(w)
				return
			}

			revoked, err := p.Revocations.IsRevoked(ctx, raw)
			if err != nil {
				writeError(w, r, err)
				return
			}
			if revoked {
				userID, _ := httpx.UserIDFromContext(ctx)
				slogx.FromContext(ctx).Warn("revoked token presented", "user_id", userID)
				p.Metrics.AuthEvent(metrics.EventRevokedRejected)
				writeError(w, r, &service.UnauthenticatedError{Message: service.MsgTokenRevoked})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func (p *Pipeline) sessionStage() httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			userID, ok := httpx.UserIDFromContext(ctx)
			if !ok {
				httpx.ErrNoToken.WriteError(w)
				return
			}

			if err := p.Sessions.CheckActivity(ctx, userID); err != nil {
				if !errors.Is(err, service.ErrSessionExpired) && !errors.Is(err, service.ErrUserNotFound) {
					slogx.FromContext(ctx).Error("session check failed", "user_id", userID, "err", err)
				}
				writeError(w, r, err)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
