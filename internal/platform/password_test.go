package platform

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPassword_ClassesAndUniqueness(t *testing.T) {
	seen := make(map[string]struct{}, 1000)

	for i := 0; i < 1000; i++ {
		pw, err := NewPassword(12)
		require.NoError(t, err)
		require.Len(t, pw, 12)

		assert.True(t, strings.ContainsAny(pw, passwordLower), "missing lowercase: %q", pw)
		assert.True(t, strings.ContainsAny(pw, passwordUpper), "missing uppercase: %q", pw)
		assert.True(t, strings.ContainsAny(pw, passwordDigits), "missing digit: %q", pw)
		assert.True(t, strings.ContainsAny(pw, passwordSymbols), "missing symbol: %q", pw)

		_, dup := seen[pw]
		require.False(t, dup, "duplicate password generated: %q", pw)
		seen[pw] = struct{}{}
	}
}

func TestNewPassword_MinimumLength(t *testing.T) {
	pw, err := NewPassword(4)
	require.NoError(t, err)
	assert.Len(t, pw, 4)

	_, err = NewPassword(3)
	require.Error(t, err)
}

func TestNewPassword_OnlyAlphabetCharacters(t *testing.T) {
	full := passwordLower + passwordUpper + passwordDigits + passwordSymbols
	pw, err := NewPassword(64)
	require.NoError(t, err)
	for _, r := range pw {
		assert.True(t, strings.ContainsRune(full, r), "unexpected character %q", r)
	}
}
