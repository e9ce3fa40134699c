// Package util contains any functions used across the application that don't match
// any other package
package util

import gonanoid "github.com/matoous/go-nanoid/v2"

const (
	idCharset        = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	requestIDCharset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"
)

// NewID returns a random 16 character alphanumeric identifier
func NewID() (string, error) {
	return gonanoid.Generate(idCharset, 16)
}

// NewRequestID returns a 10 letter identifier used to correlate logs and
// error responses of a single request
func NewRequestID() string {
	return gonanoid.MustGenerate(requestIDCharset, 10)
}
