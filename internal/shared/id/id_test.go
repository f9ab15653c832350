package id

import (
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSessionToken(t *testing.T) {
	token := NewSessionToken()

	require.Len(t, token, SessionTokenLength)
	// A canonical UUID's first hyphen occurs at index 8, so the first 8
	// characters are always lowercase hex.
	assert.Regexp(t, regexp.MustCompile(`^[0-9a-f]{8}$`), token)
}

func TestNewSessionTokenUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		token := NewSessionToken()
		assert.False(t, seen[token], "duplicate token %q", token)
		seen[token] = true
	}
}

func TestNewHandoffID(t *testing.T) {
	id := NewHandoffID()

	assert.True(t, strings.HasPrefix(id.String(), HandoffPrefix+"_"))
	// ULIDs are 26 characters in Crockford base32.
	assert.Len(t, id.String(), len(HandoffPrefix)+1+26)
}

func TestHandoffIDsDistinct(t *testing.T) {
	a := NewHandoffID()
	b := NewHandoffID()
	assert.NotEqual(t, a, b)
}
