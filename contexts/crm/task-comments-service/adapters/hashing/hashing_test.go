package hashing

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cheapHasher() Argon2idHasher {
	return NewArgon2idHasher(Argon2Params{Time: 1, Memory: 1024, Threads: 1, SaltLen: 16, KeyLen: 32})
}

func TestArgon2idHasherRoundTrip(t *testing.T) {
	hasher := cheapHasher()

	digest, err := hasher.Hash("password123")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(digest, "$argon2id$v=19$m=1024,t=1,p=1$"))
	assert.True(t, hasher.Verify("password123", digest))
	assert.False(t, hasher.Verify("password124", digest))
}

func TestArgon2idHasherSaltsEveryHash(t *testing.T) {
	hasher := cheapHasher()

	first, err := hasher.Hash("same-password")
	require.NoError(t, err)
	second, err := hasher.Hash("same-password")
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
}

func TestArgon2idHasherAcceptsLongPasswords(t *testing.T) {
	hasher := cheapHasher()
	long := strings.Repeat("a", 100)

	digest, err := hasher.Hash(long)
	require.NoError(t, err)
	assert.True(t, hasher.Verify(long, digest))
	assert.False(t, hasher.Verify(strings.Repeat("a", 99)+"b", digest))
}

func TestArgon2idHasherRejectsEmptyPassword(t *testing.T) {
	_, err := cheapHasher().Hash("")
	require.ErrorIs(t, err, ErrEmptyPassword)
}

func TestArgon2idHasherVerifyMalformedDigest(t *testing.T) {
	hasher := cheapHasher()
	cases := []string{
		"",
		"plain",
		"$2b$12$abcdefghijklmnopqrstuu",
		"$argon2id$v=19$m=1024,t=1,p=1$!!!$abc",
		"$argon2id$v=19$m=1024,t=1,p=0$c2FsdA$aGFzaA",
		"$argon2i$v=19$m=1024,t=1,p=1$c2FsdA$aGFzaA",
	}
	for _, digest := range cases {
		assert.False(t, hasher.Verify("password123", digest), digest)
	}
}

func TestNewArgon2idHasherFallsBackToDefaults(t *testing.T) {
	hasher := NewArgon2idHasher(Argon2Params{})
	assert.Equal(t, DefaultArgon2Params(), hasher.Params)
}

func TestSHA256TokenDigester(t *testing.T) {
	digester := SHA256TokenDigester{}

	digest := digester.Digest("token-a")
	assert.Len(t, digest, 64)
	assert.Equal(t, digest, digester.Digest("token-a"))
	assert.True(t, digester.Matches("token-a", digest))
	assert.False(t, digester.Matches("token-b", digest))
	assert.False(t, digester.Matches("token-a", ""))
}
