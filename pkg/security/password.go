// Package security contains everything related to the security of user data
package security

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// BcryptCost is the work factor used for new bcrypt hashes
const BcryptCost = 10

type BcryptHash struct {
	Cost int
}

func (b *BcryptHash) Hash(p string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(p), b.Cost)
	if err != nil {
		return "", err
	}

	return string(h), nil
}

func (b *BcryptHash) Verify(p, e string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(e), []byte(p))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return false, nil
		}

		return false, err
	}

	return true, nil
}

// PasswordHasher hashes new passwords with the configured algorithm and
// verifies stored hashes of either algorithm, so switching algorithms
// doesn't lock out existing users.
type PasswordHasher struct {
	Algorithm string
	Bcrypt    *BcryptHash
	Argon     *ArgonHash
}

func NewPasswordHasher(algorithm string) (*PasswordHasher, error) {
	if algorithm != "bcrypt" && algorithm != "argon2id" {
		return nil, fmt.Errorf("unknown password hash algorithm %q", algorithm)
	}

	return &PasswordHasher{
		Algorithm: algorithm,
		Bcrypt:    &BcryptHash{Cost: BcryptCost},
		Argon:     NewArgon(),
	}, nil
}

func (h *PasswordHasher) Hash(p string) (string, error) {
	if h.Algorithm == "argon2id" {
		return h.Argon.Hash(p)
	}

	return h.Bcrypt.Hash(p)
}

func (h *PasswordHasher) Verify(p, encoded string) (bool, error) {
	if strings.HasPrefix(encoded, argonPrefix) {
		return h.Argon.Verify(p, encoded)
	}

	return h.Bcrypt.Verify(p, encoded)
}
