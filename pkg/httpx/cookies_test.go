package httpx_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/aussiebroadwan/notes/pkg/httpx"
	"github.com/stretchr/testify/require"
)

func TestSessionCookie(t *testing.T) {
	rec := httptest.NewRecorder()
	httpx.SetSessionCookie(rec, "tok", false, 0)

	c := rec.Result().Cookies()
	require.Len(t, c, 1)
	require.Equal(t, "session", c[0].Name)
	require.Equal(t, "tok", c[0].Value)
	require.Equal(t, int(httpx.SessionCookieMaxAge/time.Second), c[0].MaxAge)
	require.True(t, c[0].HttpOnly)
	require.False(t, c[0].Secure)

	rec = httptest.NewRecorder()
	httpx.ClearSessionCookie(rec, true)
	c = rec.Result().Cookies()
	require.Len(t, c, 1)
	require.Empty(t, c[0].Value)
	require.True(t, c[0].Secure)
	require.Equal(t, http.SameSiteStrictMode, c[0].SameSite)
}
