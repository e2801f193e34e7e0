package cryptox

import (
	"errors"
	"fmt"
	"sync"

	"golang.org/x/crypto/bcrypt"
)

// DefaultPasswordCost is the bcrypt work factor used for stored passwords.
const DefaultPasswordCost = 12

// MaxPasswordBytes is the longest input bcrypt will accept. Anything longer is
// rejected rather than silently truncated.
const MaxPasswordBytes = 72

var (
	ErrPasswordMismatch = errors.New("cryptox: password mismatch")
	ErrPasswordTooLong  = errors.New("cryptox: password exceeds 72 bytes")
)

var (
	costMu       sync.RWMutex
	passwordCost = DefaultPasswordCost

	dummyOnce sync.Once
	dummyHash []byte
)

// HashPassword returns a bcrypt hash of password at the configured cost.
func HashPassword(password string) (string, error) {
	if len(password) > MaxPasswordBytes {
		return "", ErrPasswordTooLong
	}

	costMu.RLock()
	cost := passwordCost
	costMu.RUnlock()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", fmt.Errorf("cryptox: hash password: %w", err)
	}
	return string(hash), nil
}

// VerifyPassword compares a plaintext password against a bcrypt hash.
// Returns ErrPasswordMismatch when they do not match.
func VerifyPassword(password, encodedHash string) error {
	err := bcrypt.CompareHashAndPassword([]byte(encodedHash), []byte(password))
	switch {
	case err == nil:
		return nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return ErrPasswordMismatch
	default:
		return fmt.Errorf("cryptox: verify password: %w", err)
	}
}

// EqualizePasswordTiming burns roughly the same time as a real VerifyPassword
// call. Login calls it when the username does not exist so response latency
// does not reveal which usernames are registered.
func EqualizePasswordTiming(password string) {
	dummyOnce.Do(func() {
		costMu.RLock()
		cost := passwordCost
		costMu.RUnlock()
		dummyHash, _ = bcrypt.GenerateFromPassword([]byte("timing-equalizer"), cost)
	})
	_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
}

// SetPasswordCostForTesting lowers the bcrypt cost so test suites do not spend
// seconds hashing. It returns a func restoring the previous cost.
// This should ONLY be used in tests.
func SetPasswordCostForTesting(cost int) func() {
	costMu.Lock()
	prev := passwordCost
	passwordCost = cost
	costMu.Unlock()

	return func() {
		costMu.Lock()
		passwordCost = prev
		costMu.Unlock()
	}
}
