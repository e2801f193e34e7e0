package httpx_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/aussiebroadwan/notes/pkg/httpx"
	"github.com/aussiebroadwan/notes/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
})

// hitter sends requests from the given address through h.
func hitter(h http.Handler) func(addr string) *httptest.ResponseRecorder {
	return func(addr string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = addr + ":40000"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec
	}
}

func TestKeyExtractors(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
		trusted string
		direct  string
	}{
		{name: "no headers", trusted: "10.1.1.1", direct: "10.1.1.1"},
		{
			name:    "forwarded for",
			headers: map[string]string{"X-Forwarded-For": "203.0.113.7, 10.0.0.1"},
			trusted: "203.0.113.7",
			direct:  "10.1.1.1",
		},
		{
			name:    "real ip",
			headers: map[string]string{"X-Real-IP": " 198.51.100.2 "},
			trusted: "198.51.100.2",
			direct:  "10.1.1.1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = "10.1.1.1:5555"
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			require.Equal(t, tt.trusted, httpx.IPKeyExtractor(req))
			require.Equal(t, tt.direct, httpx.RemoteAddrKeyExtractor(req))
		})
	}

	t.Run("remote addr without port", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "unix"
		require.Equal(t, "unix", httpx.RemoteAddrKeyExtractor(req))
	})

	t.Run("user key", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "10.1.1.1:5555"
		require.Equal(t, "10.1.1.1", httpx.UserKeyExtractor(req))

		claims := jwtx.NewAccessClaims("u-1", time.Minute, time.Now())
		req = req.WithContext(httpx.WithAuth(req.Context(), "raw", claims))
		require.Equal(t, "user:u-1", httpx.UserKeyExtractor(req))
	})
}

func TestRateLimitMiddleware(t *testing.T) {
	t.Run("blocks once the burst is spent", func(t *testing.T) {
		hit := hitter(httpx.RateLimitMiddleware(httpx.RateLimitConfig{
			RequestsPerWindow: 3,
			Window:            time.Minute,
			Burst:             3,
		}, httpx.RemoteAddrKeyExtractor)(okHandler))

		for i := range 3 {
			require.Equal(t, http.StatusOK, hit("192.168.1.1").Code, "request %d", i+1)
		}

		rec := hit("192.168.1.1")
		require.Equal(t, http.StatusTooManyRequests, rec.Code)
		require.NotEmpty(t, rec.Header().Get("Retry-After"))
		require.Equal(t, "3", rec.Header().Get("X-RateLimit-Limit"))
		require.Equal(t, "1m0s", rec.Header().Get("X-RateLimit-Window"))
		require.Contains(t, rec.Body.String(), `"error":"rate_limit_exceeded"`)
		require.Contains(t, rec.Body.String(), `"retryAfter":`)

		require.Equal(t, http.StatusOK, hit("192.168.1.2").Code, "other address has its own bucket")
	})

	t.Run("empty key is not limited", func(t *testing.T) {
		hit := hitter(httpx.RateLimitMiddleware(httpx.RateLimitConfig{
			RequestsPerWindow: 1,
			Window:            time.Minute,
			Burst:             1,
		}, func(*http.Request) string { return "" })(okHandler))

		for range 3 {
			require.Equal(t, http.StatusOK, hit("192.168.1.1").Code)
		}
	})

	t.Run("evicts least recently seen key", func(t *testing.T) {
		hit := hitter(httpx.RateLimitByIP(httpx.RateLimitConfig{
			RequestsPerWindow: 1,
			Window:            time.Minute,
			Burst:             1,
			MaxKeys:           2,
		})(okHandler))

		require.Equal(t, http.StatusOK, hit("10.0.0.1").Code)
		require.Equal(t, http.StatusTooManyRequests, hit("10.0.0.1").Code)

		require.Equal(t, http.StatusOK, hit("10.0.0.2").Code)
		require.Equal(t, http.StatusOK, hit("10.0.0.3").Code)
		require.Equal(t, http.StatusOK, hit("10.0.0.1").Code, "evicted key starts over")
	})
}

func TestRateLimitByUser(t *testing.T) {
	limited := httpx.RateLimitByUser(httpx.RateLimitConfig{
		RequestsPerWindow: 1,
		Window:            time.Minute,
		Burst:             1,
	})(okHandler)

	hit := func(user string) int {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "10.0.0.9:1234"
		claims := jwtx.NewAccessClaims(user, time.Minute, time.Now())
		req = req.WithContext(httpx.WithAuth(req.Context(), "raw", claims))
		rec := httptest.NewRecorder()
		limited.ServeHTTP(rec, req)
		return rec.Code
	}

	require.Equal(t, http.StatusOK, hit("alice"))
	require.Equal(t, http.StatusTooManyRequests, hit("alice"))
	require.Equal(t, http.StatusOK, hit("bob"), "same address, different user")
}

func TestRateLimitPresets(t *testing.T) {
	require.Less(t, httpx.StrictLimit.RequestsPerWindow, httpx.ModerateLimit.RequestsPerWindow)
	require.Less(t, httpx.ModerateLimit.RequestsPerWindow, httpx.LenientLimit.RequestsPerWindow)
	require.Less(t, httpx.LenientLimit.RequestsPerWindow, httpx.PublicLimit.RequestsPerWindow)
}

func TestParseRateLimitFromEnv(t *testing.T) {
	defaults := httpx.RateLimitConfig{RequestsPerWindow: 10, Window: time.Minute, Burst: 10}

	t.Run("no overrides", func(t *testing.T) {
		require.Equal(t, defaults, httpx.ParseRateLimitFromEnv("TEST_NONE", defaults))
	})

	t.Run("all overrides", func(t *testing.T) {
		t.Setenv("RATELIMIT_TEST_ALL_REQUESTS", "50")
		t.Setenv("RATELIMIT_TEST_ALL_WINDOW_SEC", "30")
		t.Setenv("RATELIMIT_TEST_ALL_BURST", "7")

		got := httpx.ParseRateLimitFromEnv("TEST_ALL", defaults)
		require.Equal(t, httpx.RateLimitConfig{RequestsPerWindow: 50, Window: 30 * time.Second, Burst: 7}, got)
	})

	for _, bad := range []string{"abc", "0", "-3"} {
		t.Run(fmt.Sprintf("ignores %q", bad), func(t *testing.T) {
			t.Setenv("RATELIMIT_TEST_BAD_REQUESTS", bad)
			t.Setenv("RATELIMIT_TEST_BAD_BURST", bad)
			require.Equal(t, defaults, httpx.ParseRateLimitFromEnv("TEST_BAD", defaults))
		})
	}
}

func BenchmarkRateLimitManyIPs(b *testing.B) {
	limited := httpx.RateLimitByIP(httpx.RateLimitConfig{
		RequestsPerWindow: 1_000_000,
		Window:            time.Minute,
		Burst:             1000,
	})(okHandler)

	for i := 0; b.Loop(); i++ {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = fmt.Sprintf("192.168.%d.%d:12345", i%255, (i/255)%255)
		limited.ServeHTTP(httptest.NewRecorder(), req)
	}
}
