package utils

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateShareToken(t *testing.T) {
	seen := map[string]bool{}
	alnum := regexp.MustCompile(`^[A-Za-z0-9]{64}$`)
	for i := 0; i < 200; i++ {
		tok, err := GenerateShareToken()
		require.NoError(t, err)
		assert.Regexp(t, alnum, tok)
		assert.False(t, seen[tok])
		seen[tok] = true
	}
}

func TestPasswordHash(t *testing.T) {
	hash, err := HashPassword("correct horse")
	require.NoError(t, err)
	assert.True(t, CheckPassword(hash, "correct horse"))
	assert.False(t, CheckPassword(hash, "battery staple"))
}

func TestJWTRoundTrip(t *testing.T) {
	secret := []byte("secret")
	now := time.Now()
	tok, err := GenerateJWT(secret, 42, "Ana", "ana@example.com", time.Hour, now)
	require.NoError(t, err)

	id, claims, err := ParseJWT(secret, tok)
	require.NoError(t, err)
	assert.Equal(t, uint(42), id)
	assert.Equal(t, "ana@example.com", claims.Email)

	_, _, err = ParseJWT([]byte("other"), tok)
	assert.Error(t, err)
}

func TestJWTExpired(t *testing.T) {
	secret := []byte("secret")
	tok, err := GenerateJWT(secret, 1, "Ana", "ana@example.com", time.Minute, time.Now().Add(-time.Hour))
	require.NoError(t, err)
	_, _, err = ParseJWT(secret, tok)
	assert.Error(t, err)
}

func TestGenerateJWTWithoutSecret(t *testing.T) {
	_, err := GenerateJWT(nil, 1, "Ana", "ana@example.com", time.Minute, time.Now())
	assert.Error(t, err)
}
