package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/aussiebroadwan/notes/internal/notes/service"
	"github.com/aussiebroadwan/notes/pkg/slogx"
	"github.com/stretchr/testify/require"
)

func TestHousekeepingSweepsOnStart(t *testing.T) {
	ctx := context.Background()
	clock := newTestClock()
	backend := service.NewMemoryRevocationBackend()
	reg := &service.RevocationRegistry{Backend: backend, Now: clock.Now}

	require.NoError(t, reg.Revoke(ctx, "soon", clock.Now().Add(time.Minute)))
	require.NoError(t, reg.Revoke(ctx, "later", clock.Now().Add(time.Hour)))
	clock.Advance(2 * time.Minute)

	hk := service.NewHousekeepingService(reg, slogx.Discard(), time.Hour)
	hk.Start()

	require.Eventually(t, func() bool { return backend.Len() == 1 }, time.Second, 5*time.Millisecond)
	hk.Stop()

	revoked, err := reg.IsRevoked(ctx, "later")
	require.NoError(t, err)
	require.True(t, revoked)
}

func TestHousekeepingDefaultInterval(t *testing.T) {
	hk := service.NewHousekeepingService(&service.RevocationRegistry{}, slogx.Discard(), 0)
	require.Equal(t, service.DefaultRevocationSweepInterval, hk.Interval)
}
