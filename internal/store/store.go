// Package store contains the persistence layer for users and gifts.
// Every backend translates its own errors into the sentinel errors
// below so handlers don't need to know which database is in use.
package store

import (
	"context"
	"errors"
	"time"

	"giftlink/backend/internal/model"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("record already exists")
)

type UserStore interface {
	// Create stores a new user and fills in its ID. Returns ErrDuplicate
	// if the email is already taken.
	Create(ctx context.Context, u *model.User) error
	ByEmail(ctx context.Context, email string) (*model.User, error)
	ByID(ctx context.Context, id string) (*model.User, error)
	Update(ctx context.Context, id string, upd UserUpdate) error
}

// UserUpdate holds the fields of a profile update. Nil fields are left untouched.
type UserUpdate struct {
	FirstName    *string
	LastName     *string
	PasswordHash *string
	UpdatedAt    time.Time
}

func (u UserUpdate) Empty() bool {
	return u.FirstName == nil && u.LastName == nil && u.PasswordHash == nil
}

type GiftStore interface {
	All(ctx context.Context) ([]model.Gift, error)
	// ByID looks a gift up by its native ID first and falls back
	// to the application supplied ID.
	ByID(ctx context.Context, id string) (*model.Gift, error)
	Create(ctx context.Context, g *model.Gift) error
	Search(ctx context.Context, f GiftFilter) ([]model.Gift, error)
	Count(ctx context.Context) (int64, error)
	Import(ctx context.Context, gifts []model.Gift) error
}

// GiftFilter is a set of optional filters combined with AND. Zero values
// are ignored.
type GiftFilter struct {
	Name        string // Case-insensitive substring
	Category    string
	Condition   string
	MaxAgeYears *int
}
