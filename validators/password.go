package validators

import (
	"errors"
	"unicode/utf8"
)

const (
	MinPasswordLength = 6
	MaxPasswordLength = 72 // bcrypt can't hash anything longer
)

var (
	ErrPasswordTooShort = errors.New("password must be at least 6 characters")
	ErrPasswordTooLong  = errors.New("password must be at most 72 characters")
	ErrPasswordEmpty    = errors.New("no password provided")
)

// PasswordValidator counts the minimum in characters and the maximum in
// bytes, since the bytes are what bcrypt sees
func PasswordValidator(p string) error {
	if p == "" {
		return ErrPasswordEmpty
	}

	if utf8.RuneCountInString(p) < MinPasswordLength {
		return ErrPasswordTooShort
	}

	if len(p) > MaxPasswordLength {
		return ErrPasswordTooLong
	}

	return nil
}
