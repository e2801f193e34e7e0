package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/aussiebroadwan/notes/internal/notes/service"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/require"
)

// throttleBackends runs the same behaviour against every backend.
func throttleBackends(t *testing.T) map[string]func(t *testing.T) service.ThrottleBackend {
	return map[string]func(t *testing.T) service.ThrottleBackend{
		"memory": func(t *testing.T) service.ThrottleBackend {
			b, err := service.NewMemoryThrottleBackend(100)
			require.NoError(t, err)
			return b
		},
		"redis": func(t *testing.T) service.ThrottleBackend {
			mr := miniredis.RunT(t)
			client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
			t.Cleanup(func() { _ = client.Close() })
			return service.NewRedisThrottleBackend(client, "")
		},
	}
}

func TestLoginThrottle(t *testing.T) {
	ctx := context.Background()

	for name, newBackend := range throttleBackends(t) {
		t.Run(name, func(t *testing.T) {
			t.Run("sixth failed attempt is rejected", func(t *testing.T) {
				clock := newTestClock()
				th := &service.LoginThrottle{Backend: newBackend(t), Max: 5, Window: 15 * time.Minute, Now: clock.Now}

				for i := range 5 {
					_, err := th.Admit(ctx, "10.0.0.1")
					require.NoError(t, err, "attempt %d", i+1)
					clock.Advance(time.Second)
				}

				_, err := th.Admit(ctx, "10.0.0.1")
				var tooMany *service.TooManyAttemptsError
				require.ErrorAs(t, err, &tooMany)
				// Oldest attempt was 5s ago, so it leaves the window in 14m55s.
				require.Equal(t, 15*time.Minute-5*time.Second, tooMany.RetryAfter)

				_, err = th.Admit(ctx, "10.0.0.2")
				require.NoError(t, err, "other addresses are unaffected")
			})

			t.Run("successful logins do not count", func(t *testing.T) {
				clock := newTestClock()
				th := &service.LoginThrottle{Backend: newBackend(t), Max: 5, Window: 15 * time.Minute, Now: clock.Now}

				for range 20 {
					a, err := th.Admit(ctx, "10.0.0.3")
					require.NoError(t, err)
					require.NoError(t, a.Succeeded(ctx))
					require.NoError(t, a.Succeeded(ctx), "second call is a no-op")
				}
			})

			t.Run("window resets as attempts age out", func(t *testing.T) {
				clock := newTestClock()
				th := &service.LoginThrottle{Backend: newBackend(t), Max: 5, Window: 15 * time.Minute, Now: clock.Now}

				for range 5 {
					_, err := th.Admit(ctx, "10.0.0.4")
					require.NoError(t, err)
				}
				_, err := th.Admit(ctx, "10.0.0.4")
				require.Error(t, err)

				clock.Advance(15 * time.Minute)
				_, err = th.Admit(ctx, "10.0.0.4")
				require.NoError(t, err)
			})

			t.Run("retry after never drops below a second", func(t *testing.T) {
				clock := newTestClock()
				th := &service.LoginThrottle{Backend: newBackend(t), Max: 1, Window: time.Minute, Now: clock.Now}

				_, err := th.Admit(ctx, "10.0.0.5")
				require.NoError(t, err)

				clock.Advance(time.Minute - time.Millisecond)
				_, err = th.Admit(ctx, "10.0.0.5")
				var tooMany *service.TooManyAttemptsError
				require.ErrorAs(t, err, &tooMany)
				require.Equal(t, time.Second, tooMany.RetryAfter)
			})
		})
	}
}

func TestLoginThrottleDefaults(t *testing.T) {
	ctx := context.Background()
	b, err := service.NewMemoryThrottleBackend(0)
	require.NoError(t, err)
	th := &service.LoginThrottle{Backend: b}

	for range service.DefaultLoginThrottleMax {
		_, err := th.Admit(ctx, "addr")
		require.NoError(t, err)
	}
	_, err = th.Admit(ctx, "addr")
	var tooMany *service.TooManyAttemptsError
	require.ErrorAs(t, err, &tooMany)
	require.Greater(t, tooMany.RetryAfter, 14*time.Minute)
}

func TestMemoryThrottleIsBounded(t *testing.T) {
	ctx := context.Background()
	b, err := service.NewMemoryThrottleBackend(2)
	require.NoError(t, err)
	th := &service.LoginThrottle{Backend: b, Max: 1, Window: time.Minute}

	_, err = th.Admit(ctx, "a")
	require.NoError(t, err)
	_, err = th.Admit(ctx, "b")
	require.NoError(t, err)
	_, err = th.Admit(ctx, "c")
	require.NoError(t, err)

	require.Equal(t, 2, b.Tracked())
}
