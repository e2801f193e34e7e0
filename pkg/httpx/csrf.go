package httpx

import (
	"errors"
	"net/http"
	"time"

	"github.com/aussiebroadwan/notes/pkg/cryptox"
	"github.com/aussiebroadwan/notes/pkg/slogx"
)

// CSRFCookieName is the double-submit cookie.
const CSRFCookieName = "XSRF-TOKEN"

// CSRFCookieMaxAge is how long an issued token stays usable.
const CSRFCookieMaxAge = 15 * time.Minute

// ErrCSRFMismatch covers a missing cookie, a missing header and a mismatch.
var ErrCSRFMismatch = errors.New("httpx: csrf token mismatch")

// csrfHeaders are checked in order; the first one present wins.
var csrfHeaders = []string{"X-CSRF-Token", "CSRF-Token", "X-XSRF-Token", "XSRF-Token"}

// ErrInvalidCSRF is the response for a failed check.
var ErrInvalidCSRF = &APIError{
	StatusCode: http.StatusBadRequest,
	Code:       "invalid_csrf_token",
	Message:    "Invalid CSRF token",
}

// CSRFGuard implements the double-submit cookie pattern. The client fetches a
// token, which lands in an HttpOnly cookie and in the response body, then
// echoes the body value in a header on every unsafe request.
type CSRFGuard struct {
	Secure bool
	MaxAge time.Duration
}

func NewCSRFGuard(secure bool) *CSRFGuard {
	return &CSRFGuard{Secure: secure, MaxAge: CSRFCookieMaxAge}
}

// Issue mints a fresh token, sets the cookie and returns the raw value.
func (g *CSRFGuard) Issue(w http.ResponseWriter) (string, error) {
	token, err := cryptox.GenerateToken(cryptox.TokenSize256)
	if err != nil {
		return "", err
	}

	maxAge := g.MaxAge
	if maxAge <= 0 {
		maxAge = CSRFCookieMaxAge
	}
	http.SetCookie(w, &http.Cookie{
		Name:     CSRFCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(maxAge / time.Second),
		HttpOnly: true,
		Secure:   g.Secure,
		SameSite: http.SameSiteStrictMode,
	})
	return token, nil
}

// Validate checks the header against the cookie. Safe methods always pass.
func (g *CSRFGuard) Validate(r *http.Request) error {
	switch r.Method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return nil
	}

	cookie, err := r.Cookie(CSRFCookieName)
	if err != nil || cookie.Value == "" {
		return ErrCSRFMismatch
	}

	header := ""
	for _, name := range csrfHeaders {
		if v := r.Header.Get(name); v != "" {
			header = v
			break
		}
	}

	if !cryptox.EqualTokens(cookie.Value, header) {
		return ErrCSRFMismatch
	}
	return nil
}

// Clear expires the CSRF cookie.
func (g *CSRFGuard) Clear(w http.ResponseWriter) {
	clearCookie(w, CSRFCookieName, g.Secure)
}

func (g *CSRFGuard) Middleware() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if err := g.Validate(r); err != nil {
				slogx.FromContext(r.Context()).Warn("csrf check failed",
					"method", r.Method,
					"path", r.URL.Path,
				)
				ErrInvalidCSRF.WriteError(w)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
