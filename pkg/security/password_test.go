package security

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestBcryptHasher(t *testing.T) {
	h, err := NewPasswordHasher("bcrypt")
	require.NoError(t, err)

	hash, err := h.Hash("hunter22")
	require.NoError(t, err)

	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	assert.Equal(t, 10, cost)

	ok, err := h.Verify("hunter22", hash)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = h.Verify("hunter23", hash)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHashesAreSalted(t *testing.T) {
	h, _ := NewPasswordHasher("bcrypt")

	a, err := h.Hash("same")
	require.NoError(t, err)
	b, err := h.Hash("same")
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}

func TestArgonHasher(t *testing.T) {
	h, err := NewPasswordHasher("argon2id")
	require.NoError(t, err)

	hash, err := h.Hash("hunter22")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(hash, "$argon2id$v=19$"))

	ok, err := h.Verify("hunter22", hash)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = h.Verify("nope", hash)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestVerifyDetectsAlgorithm(t *testing.T) {
	bc, _ := NewPasswordHasher("bcrypt")
	ar, _ := NewPasswordHasher("argon2id")

	bcHash, err := bc.Hash("pw123456")
	require.NoError(t, err)
	arHash, err := ar.Hash("pw123456")
	require.NoError(t, err)

	// Switching algorithms must not lock out users hashed with the old one
	ok, err := ar.Verify("pw123456", bcHash)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = bc.Verify("pw123456", arHash)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestVerifyMalformedHash(t *testing.T) {
	h, _ := NewPasswordHasher("bcrypt")

	_, err := h.Verify("pw", "garbage")
	assert.Error(t, err)

	_, err = h.Verify("pw", "$argon2id$v=19$broken")
	assert.Error(t, err)
}

func TestUnknownAlgorithm(t *testing.T) {
	_, err := NewPasswordHasher("md5")
	assert.Error(t, err)
}

func TestArgonRejectsOutOfRangeParams(t *testing.T) {
	a := NewArgon()

	hash, err := a.Hash("pw123456")
	require.NoError(t, err)

	tampered := strings.Replace(hash, "m=65536", "m=99999999", 1)
	_, err = a.Verify("pw123456", tampered)
	assert.ErrorIs(t, err, ErrInvalidHash)

	oldVersion := strings.Replace(hash, "v=19", "v=16", 1)
	_, err = a.Verify("pw123456", oldVersion)
	assert.ErrorIs(t, err, ErrInvalidHash)
}
