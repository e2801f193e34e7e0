package service

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/aussiebroadwan/notes/pkg/cryptox"
)

const (
	MinPasswordLength = 8
	passwordSpecials  = "!@#$%^&*"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidatePassword enforces the strength policy: at least eight characters
// with a lowercase letter, an uppercase letter, a digit and one of !@#$%^&*.
// Line breaks are not allowed anywhere. bcrypt only looks at the first 72
// bytes, so longer passwords are refused rather than silently truncated.
func ValidatePassword(pw string) error {
	if len(pw) > cryptox.MaxPasswordBytes {
		return &ValidationError{Message: MsgPasswordTooLong}
	}
	if utf8.RuneCountInString(pw) < MinPasswordLength {
		return &ValidationError{Message: MsgPasswordPolicy}
	}

	var lower, upper, digit, special bool
	for _, r := range pw {
		switch {
		case r == '\n' || r == '\r' || r == '\u2028' || r == '\u2029':
			return &ValidationError{Message: MsgPasswordPolicy}
		case r >= 'a' && r <= 'z':
			lower = true
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= '0' && r <= '9':
			digit = true
		case strings.ContainsRune(passwordSpecials, r):
			special = true
		}
	}

	if !lower || !upper || !digit || !special {
		return &ValidationError{Message: MsgPasswordPolicy}
	}
	return nil
}

// ValidEmail reports whether s looks like an address. It is a shape check
// only.
func ValidEmail(s string) bool {
	return emailPattern.MatchString(s)
}

// NormalizeEmail is the form that gets encrypted and indexed.
func NormalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
