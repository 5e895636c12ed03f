package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("depot-secret-1")
	require.NoError(t, err)
	assert.NotEqual(t, "depot-secret-1", hash)

	assert.True(t, VerifyPassword(hash, "depot-secret-1"))
	assert.False(t, VerifyPassword(hash, "wrong-password"))
}

func TestHashPasswordRejectsOversizedInput(t *testing.T) {
	long := make([]byte, 73)
	for i := range long {
		long[i] = 'a'
	}
	_, err := HashPassword(string(long))
	assert.ErrorIs(t, err, ErrPasswordTooLong)
}
