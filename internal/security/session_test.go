package security

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSession_Roundtrip(t *testing.T) {
	tok, err := MakeSession("secret", "abc123", "alice", time.Hour)
	require.NoError(t, err)

	claims, err := ParseSession("secret", tok)
	require.NoError(t, err)
	assert.Equal(t, "abc123", claims.UID)
	assert.Equal(t, "alice", claims.Username)
}

func TestSession_WrongSecretRejected(t *testing.T) {
	tok, err := MakeSession("secret", "abc123", "alice", time.Hour)
	require.NoError(t, err)

	_, err = ParseSession("other-secret", tok)
	assert.Error(t, err)
}

func TestSession_ExpiredRejected(t *testing.T) {
	tok, err := MakeSession("secret", "abc123", "alice", -time.Minute)
	require.NoError(t, err)

	_, err = ParseSession("secret", tok)
	assert.Error(t, err)
}

func TestSession_GarbageRejected(t *testing.T) {
	_, err := ParseSession("secret", "not.a.jwt")
	assert.Error(t, err)
}

func TestPassword_HashAndCheck(t *testing.T) {
	hash, err := HashPassword("s3cret-pass")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret-pass", hash)

	assert.True(t, CheckPassword(hash, "s3cret-pass"))
	assert.False(t, CheckPassword(hash, "wrong-pass"))
}

func TestNewResetToken_UniqueAndURLSafe(t *testing.T) {
	a, err := NewResetToken()
	require.NoError(t, err)
	b, err := NewResetToken()
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
	assert.NotContains(t, a, "/")
	assert.NotContains(t, a, "+")
}
