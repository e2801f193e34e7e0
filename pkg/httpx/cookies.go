package httpx

import (
	"net/http"
	"time"
)

// SessionCookieName carries the bearer token for browser clients.
const SessionCookieName = "session"

// SessionCookieMaxAge matches the access token lifetime.
const SessionCookieMaxAge = 15 * time.Minute

// SetSessionCookie stores token in the session cookie.
func SetSessionCookie(w http.ResponseWriter, token string, secure bool, maxAge time.Duration) {
	if maxAge <= 0 {
		maxAge = SessionCookieMaxAge
	}
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(maxAge / time.Second),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteStrictMode,
	})
}

// ClearSessionCookie expires the session cookie.
func ClearSessionCookie(w http.ResponseWriter, secure bool) {
	clearCookie(w, SessionCookieName, secure)
}

func clearCookie(w http.ResponseWriter, name string, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteStrictMode,
	})
}
