package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("correct horse", bcrypt.MinCost)
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse", hash)

	assert.True(t, VerifyPassword(hash, "correct horse"))
	assert.False(t, VerifyPassword(hash, "wrong"))
	assert.False(t, VerifyPassword("correct horse", "correct horse"), "plaintext column must not match")
}

func TestHashPasswordRejectsBadCost(t *testing.T) {
	_, err := HashPassword("pw", bcrypt.MaxCost+1)
	assert.Error(t, err)
	_, err = HashPassword("pw", 0)
	assert.Error(t, err)
}

func TestBurnPasswordCheckDoesNotPanic(t *testing.T) {
	assert.NotPanics(t, func() { BurnPasswordCheck("anything") })
}
