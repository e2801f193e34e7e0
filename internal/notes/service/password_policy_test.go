package service_test

import (
	"strings"
	"testing"

	"github.com/aussiebroadwan/notes/internal/notes/service"
	"github.com/stretchr/testify/require"
)

func TestValidatePassword(t *testing.T) {
	cases := []struct {
		name string
		pw   string
		ok   bool
	}{
		{"valid", "Abcdef1!", true},
		{"valid long with spaces", "Correct Horse 9 Battery^", true},
		{"too short", "Ab1!", false},
		{"abc", "abc", false},
		{"no upper", "abcdef1!", false},
		{"no lower", "ABCDEF1!", false},
		{"no digit", "Abcdefg!", false},
		{"no special", "Abcdefg1", false},
		{"special outside the set", "Abcdef1?", false},
		{"newline", "Abcd\nef1!", false},
		{"over 72 bytes", "Aa1!" + strings.Repeat("x", 69), false},
		{"exactly 72 bytes", "Aa1!" + strings.Repeat("x", 68), true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := service.ValidatePassword(tc.pw)
			if tc.ok {
				require.NoError(t, err)
				return
			}
			var verr *service.ValidationError
			require.ErrorAs(t, err, &verr)
		})
	}
}

func TestPasswordPolicyMessage(t *testing.T) {
	var verr *service.ValidationError
	require.ErrorAs(t, service.ValidatePassword("abc"), &verr)
	require.Equal(t, service.MsgPasswordPolicy, verr.Message)
}

func TestValidEmail(t *testing.T) {
	require.True(t, service.ValidEmail("a@b.co"))
	require.False(t, service.ValidEmail("a@b"))
	require.False(t, service.ValidEmail("a b@c.d"))
	require.False(t, service.ValidEmail("@b.co"))
	require.Equal(t, "mixed@case.com", service.NormalizeEmail("  Mixed@Case.COM "))
}
