package service_test

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/aussiebroadwan/notes/internal/notes/domain"
	"github.com/aussiebroadwan/notes/internal/notes/store/drivers/sqlite"
	"github.com/aussiebroadwan/notes/pkg/cryptox"
	"github.com/aussiebroadwan/notes/pkg/idx"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestMain(m *testing.M) {
	restore := cryptox.SetPasswordCostForTesting(bcrypt.MinCost)
	code := m.Run()
	restore()
	os.Exit(code)
}

// testClock is a settable clock shared between a test and the code under
// test.
type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func newTestClock() *testClock {
	return &testClock{now: time.UnixMilli(1_700_000_000_000).UTC()}
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func (c *testClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

func newTestStore(t *testing.T) *sqlite.Store {
	t.Helper()
	s, err := sqlite.Open(filepath.Join(t.TempDir(), "notes.db"))
	require.NoError(t, err)
	require.NoError(t, s.ApplyMigrations())
	t.Cleanup(func() { _ = s.Close() })
	return s
}

// seedUser inserts a user directly, bypassing signup validation.
func seedUser(t *testing.T, s *sqlite.Store, username string, lastActive time.Time) domain.User {
	t.Helper()
	u := domain.User{
		ID:              idx.New().String(),
		Username:        username,
		Name:            username,
		PasswordHash:    "unused",
		EmailCiphertext: []byte("x"),
		EmailIndex:      "idx-" + username,
		LastActive:      lastActive,
		CreatedAt:       lastActive,
		UpdatedAt:       lastActive,
	}
	require.NoError(t, s.Users().CreateUser(context.Background(), u))
	return u
}

var testFieldKey = []byte("service-test-field-key-0123456789abcdef")
var testJWTSecret = []byte("service-test-jwt-secret-0123456789abcdef")
