package cryptox

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSalt(t *testing.T) {
	a, err := NewSalt()
	require.NoError(t, err)
	b, err := NewSalt()
	require.NoError(t, err)

	assert.Len(t, a, saltSize)
	assert.NotEqual(t, a, b)
}

func TestHashAndVerify(t *testing.T) {
	salt := []byte("0123456789abcdef")
	hash := HashPassword([]byte("hunter2"), salt)

	assert.Len(t, hash, keySize)
	assert.True(t, VerifyPassword([]byte("hunter2"), salt, hash))
	assert.False(t, VerifyPassword([]byte("hunter3"), salt, hash))
	assert.False(t, VerifyPassword([]byte("hunter2"), []byte("other-salt-000000"), hash))
}
