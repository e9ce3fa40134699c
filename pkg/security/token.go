package security

import (
	"errors"
	"fmt"
	"time"

	"giftlink/backend/internal/model"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrTokenInvalid = errors.New("token invalid")
	ErrNoSecret     = errors.New("no signing secret provided")
)

// Claims are the identity claims carried by a session token. They are a
// snapshot of the user at the time the token was issued.
type Claims struct {
	UserID    string `json:"userId"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	jwt.RegisteredClaims
}

// TokenIssuer signs and verifies HS256 session tokens
type TokenIssuer struct {
	secret   []byte
	validity time.Duration
	now      func() time.Time
}

func NewTokenIssuer(secret string, validity time.Duration) (*TokenIssuer, error) {
	if secret == "" {
		return nil, ErrNoSecret
	}

	if validity <= 0 {
		return nil, fmt.Errorf("invalid token validity %s", validity)
	}

	return &TokenIssuer{
		secret:   []byte(secret),
		validity: validity,
		now:      time.Now,
	}, nil
}

// Issue returns a signed token for u that expires after the configured validity
func (t *TokenIssuer) Issue(u *model.User) (string, error) {
	now := t.now()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserID:    u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.validity)),
		},
	})

	return token.SignedString(t.secret)
}

// Parse verifies the signature and expiry of tokenStr and returns its claims.
// Every failure is reported as ErrTokenInvalid.
func (t *TokenIssuer) Parse(tokenStr string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenStr, claims, func(*jwt.Token) (any, error) {
		return t.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w, %w", ErrTokenInvalid, err)
	}

	if !token.Valid || claims.UserID == "" {
		return nil, ErrTokenInvalid
	}

	return claims, nil
}
