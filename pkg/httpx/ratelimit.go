package httpx

import (
	"net"
	"net/http"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/aussiebroadwan/notes/pkg/slogx"
	lru "github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/time/rate"
)

// DefaultMaxTrackedKeys bounds the limiter table when RateLimitConfig.MaxKeys
// is zero.
const DefaultMaxTrackedKeys = 10000

// RateLimitConfig is a token bucket: RequestsPerWindow refill over Window,
// with at most Burst available at once.
type RateLimitConfig struct {
	RequestsPerWindow int
	Window            time.Duration
	Burst             int

	// MaxKeys caps how many distinct keys are tracked at once. The least
	// recently seen key is dropped first.
	MaxKeys int
}

// Presets for the general-purpose limiter. Each can be overridden with
// RATELIMIT_{NAME}_REQUESTS, RATELIMIT_{NAME}_WINDOW_SEC and
// RATELIMIT_{NAME}_BURST, where NAME is STRICT, MODERATE, LENIENT or PUBLIC.
var (
	StrictLimit   = RateLimitConfig{RequestsPerWindow: 5, Window: time.Minute, Burst: 5}
	ModerateLimit = RateLimitConfig{RequestsPerWindow: 20, Window: time.Minute, Burst: 20}
	LenientLimit  = RateLimitConfig{RequestsPerWindow: 100, Window: time.Minute, Burst: 100}
	PublicLimit   = RateLimitConfig{RequestsPerWindow: 1000, Window: time.Minute, Burst: 1000}
)

func init() {
	for name, preset := range map[string]*RateLimitConfig{
		"STRICT":   &StrictLimit,
		"MODERATE": &ModerateLimit,
		"LENIENT":  &LenientLimit,
		"PUBLIC":   &PublicLimit,
	} {
		*preset = ParseRateLimitFromEnv(name, *preset)
	}
}

// ParseRateLimitFromEnv returns defaults with any RATELIMIT_{prefix}_*
// overrides applied. Values that are not positive integers are ignored.
func ParseRateLimitFromEnv(prefix string, defaults RateLimitConfig) RateLimitConfig {
	config := defaults
	if n, ok := positiveEnvInt("RATELIMIT_" + prefix + "_REQUESTS"); ok {
		config.RequestsPerWindow = n
	}
	if n, ok := positiveEnvInt("RATELIMIT_" + prefix + "_WINDOW_SEC"); ok {
		config.Window = time.Duration(n) * time.Second
	}
	if n, ok := positiveEnvInt("RATELIMIT_" + prefix + "_BURST"); ok {
		config.Burst = n
	}
	return config
}

func positiveEnvInt(key string) (int, bool) {
	n, err := strconv.Atoi(os.Getenv(key))
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

// KeyExtractor picks the bucket a request is counted against. An empty key
// means the request is not limited.
type KeyExtractor func(*http.Request) string

// IPKeyExtractor keys on the client address, trusting X-Forwarded-For and
// X-Real-IP. Only use it behind a proxy that sets those headers.
func IPKeyExtractor(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	if xri := strings.TrimSpace(r.Header.Get("X-Real-IP")); xri != "" {
		return xri
	}
	return RemoteAddrKeyExtractor(r)
}

// RemoteAddrKeyExtractor keys on the connection's peer address and ignores
// forwarding headers. Use it when the service is not behind a trusted proxy.
func RemoteAddrKeyExtractor(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// UserKeyExtractor keys on the authenticated user, falling back to the peer
// address for anonymous requests.
func UserKeyExtractor(r *http.Request) string {
	if userID, ok := UserIDFromContext(r.Context()); ok && userID != "" {
		return "user:" + userID
	}
	return RemoteAddrKeyExtractor(r)
}

// limiterTable hands out one token bucket per key. Buckets idle for two
// windows are evicted; they would have refilled by then anyway.
type limiterTable struct {
	mu      sync.Mutex
	buckets *lru.LRU[string, *rate.Limiter]
	limit   rate.Limit
	burst   int
}

func newLimiterTable(config RateLimitConfig) *limiterTable {
	maxKeys := config.MaxKeys
	if maxKeys <= 0 {
		maxKeys = DefaultMaxTrackedKeys
	}
	return &limiterTable{
		buckets: lru.NewLRU[string, *rate.Limiter](maxKeys, nil, 2*config.Window),
		limit:   rate.Limit(float64(config.RequestsPerWindow) / config.Window.Seconds()),
		burst:   config.Burst,
	}
}

func (t *limiterTable) get(key string) *rate.Limiter {
	t.mu.Lock()
	defer t.mu.Unlock()

	if l, ok := t.buckets.Get(key); ok {
		return l
	}
	l := rate.NewLimiter(t.limit, t.burst)
	t.buckets.Add(key, l)
	return l
}

// RateLimitMiddleware rejects requests with 429 once the caller's bucket is
// empty. Retry-After is set to when the next token becomes available.
func RateLimitMiddleware(config RateLimitConfig, keyOf KeyExtractor) Middleware {
	table := newLimiterTable(config)
	limitHeader := strconv.Itoa(config.RequestsPerWindow)
	windowHeader := config.Window.String()

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := keyOf(r)
			if key == "" {
				slogx.FromContext(r.Context()).Warn("rate limit: no key for request, allowing")
				next.ServeHTTP(w, r)
				return
			}

			limiter := table.get(key)
			if limiter.Allow() {
				next.ServeHTTP(w, r)
				return
			}

			res := limiter.Reserve()
			delay := res.Delay()
			res.Cancel()

			apiErr := &APIError{
				StatusCode: http.StatusTooManyRequests,
				Code:       "rate_limit_exceeded",
				Message:    "Too many requests. Please try again later.",
				RetryAfter: delay,
			}
			w.Header().Set("X-RateLimit-Limit", limitHeader)
			w.Header().Set("X-RateLimit-Window", windowHeader)

			slogx.FromContext(r.Context()).Warn("rate limit exceeded",
				"key", key,
				"path", r.URL.Path,
				"retry_after", apiErr.RetryAfterSeconds(),
			)
			apiErr.WriteError(w)
		})
	}
}

// RateLimitByIP limits by client address, trusting proxy headers.
func RateLimitByIP(config RateLimitConfig) Middleware {
	return RateLimitMiddleware(config, IPKeyExtractor)
}

// RateLimitByUser limits by authenticated user. It must run after the
// token stage has put the user id in the context.
func RateLimitByUser(config RateLimitConfig) Middleware {
	return RateLimitMiddleware(config, UserKeyExtractor)
}
