package httpx

import (
	"net/http"
	"strings"

	"github.com/aussiebroadwan/notes/pkg/jwtx"
	"github.com/aussiebroadwan/notes/pkg/slogx"
)

// AuthnOptions tunes AuthnMiddleware.
type AuthnOptions struct {
	// HeaderRequired answers a request with no Authorization header at all
	// with 400 instead of 401.
	HeaderRequired bool
}

// BearerToken pulls the token out of an "Authorization: Bearer <t>" header.
// The scheme match is case-insensitive.
func BearerToken(r *http.Request) (string, bool) {
	authz := r.Header.Get("Authorization")
	scheme, raw, ok := strings.Cut(authz, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	raw = strings.TrimSpace(raw)
	return raw, raw != ""
}

// AuthnMiddleware verifies the bearer token and injects the claims into the
// request context.
func AuthnMiddleware(v jwtx.Verifier, opts AuthnOptions) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			log := slogx.FromContext(ctx)

			if opts.HeaderRequired && r.Header.Get("Authorization") == "" {
				ErrHeaderMissing.WriteError(w)
				return
			}

			raw, ok := BearerToken(r)
			if !ok {
				ErrNoToken.WriteError(w)
				return
			}

			claims, err := v.Verify(raw)
			if err != nil {
				log.Warn("jwt verify failed", "err", err)
				ErrInvalidToken.WriteError(w)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithAuth(ctx, raw, claims)))
		})
	}
}
