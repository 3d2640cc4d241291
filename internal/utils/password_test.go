package utils

import (
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestPasswordHasherRoundTrip(t *testing.T) {
	h := PasswordHasher{Cost: bcrypt.MinCost}

	hash, err := h.Hash("secret")
	require.NoError(t, err)
	require.NotEqual(t, "secret", hash, "the plain text is never stored")

	require.True(t, h.Verify(hash, "secret"))
	require.False(t, h.Verify(hash, "wrong"))
	require.False(t, h.Verify("not a bcrypt hash", "secret"))
}

func TestPasswordHasherZeroValueUsesDefaultCost(t *testing.T) {
	var h PasswordHasher

	hash, err := h.Hash("secret")
	require.NoError(t, err)

	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	require.Equal(t, bcrypt.DefaultCost, cost)
	require.True(t, h.Verify(hash, "secret"))
}
