// Package validators contains validators found throughout the application
// that have been abstracted away from the main code
package validators

import (
	"errors"
	"net/mail"
)

// Longest address allowed by RFC 5321
const MaxEmailLength = 254

var (
	ErrEmailEmpty   = errors.New("no email address provided")
	ErrEmailInvalid = errors.New("invalid email address provided")
)

// EmailValidator accepts bare addresses only. Forms with a display name
// like "Ada <ada@example.com>" are rejected.
func EmailValidator(e string) error {
	if e == "" {
		return ErrEmailEmpty
	}

	if len(e) > MaxEmailLength {
		return ErrEmailInvalid
	}

	addr, err := mail.ParseAddress(e)
	if err != nil || addr.Address != e {
		return ErrEmailInvalid
	}

	return nil
}
