package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateRandomString(t *testing.T) {
	s := GenerateRandomString(24)
	assert.Len(t, s, 24)

	for _, r := range s {
		assert.True(t, strings.ContainsRune(keyAlphabet, r), "unexpected character %q", r)
	}

	// ambiguous characters never appear
	assert.NotContains(t, s, "0")
	assert.NotContains(t, s, "O")
	assert.NotContains(t, s, "1")
	assert.NotContains(t, s, "I")

	assert.NotEqual(t, GenerateRandomString(24), GenerateRandomString(24))
}
