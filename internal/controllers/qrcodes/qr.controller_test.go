package qrController

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRandomCode(t *testing.T) {
	seen := make(map[string]bool)

	for range 100 {
		code, err := randomCode()
		require.NoError(t, err)

		assert.Len(t, code, codeLength)
		for _, r := range code {
			assert.True(t, strings.ContainsRune(codeAlphabet, r), "unexpected character %q", r)
		}

		assert.False(t, seen[code], "duplicate code %s", code)
		seen[code] = true
	}
}

func TestCodeAlphabetOmitsAmbiguousCharacters(t *testing.T) {
	for _, r := range "01IO" {
		assert.NotContains(t, codeAlphabet, string(r))
	}
}
