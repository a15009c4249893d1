package cryptox_test

import (
	"regexp"
	"testing"

	"github.com/aussiebroadwan/roster/pkg/cryptox"
	"github.com/stretchr/testify/require"
)

var sixDigits = regexp.MustCompile(`^\d{6}$`)

func TestGenerateLoginCode(t *testing.T) {
	seen := make(map[string]struct{})
	for range 200 {
		code, err := cryptox.GenerateLoginCode()
		require.NoError(t, err)
		require.Regexp(t, sixDigits, code)
		seen[code] = struct{}{}
	}

	// 200 draws from a million values should almost never collide much.
	require.Greater(t, len(seen), 190)
}
