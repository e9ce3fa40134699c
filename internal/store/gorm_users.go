package store

import (
	"context"
	"errors"
	"fmt"

	"giftlink/backend/internal/model"
	"giftlink/backend/pkg/util"

	"gorm.io/gorm"
)

type GormUsers struct {
	DB *gorm.DB
}

func NewGormUsers(db *gorm.DB) *GormUsers {
	return &GormUsers{DB: db}
}

func (s *GormUsers) Create(ctx context.Context, u *model.User) error {
	if u.ID == "" {
		id, err := util.NewID()
		if err != nil {
			return fmt.Errorf("failed to generate user ID, %w", err)
		}
		u.ID = id
	}

	err := s.DB.WithContext(ctx).Create(u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicate
		}

		return fmt.Errorf("failed to create user, %w", err)
	}

	return nil
}

func (s *GormUsers) ByEmail(ctx context.Context, email string) (*model.User, error) {
	return s.first(ctx, "email = ?", email)
}

func (s *GormUsers) ByID(ctx context.Context, id string) (*model.User, error) {
	return s.first(ctx, "id = ?", id)
}

func (s *GormUsers) Update(ctx context.Context, id string, upd UserUpdate) error {
	fields := map[string]any{
		"updated_at": upd.UpdatedAt,
	}

	if upd.FirstName != nil {
		fields["first_name"] = *upd.FirstName
	}

	if upd.LastName != nil {
		fields["last_name"] = *upd.LastName
	}

	if upd.PasswordHash != nil {
		fields["password_hash"] = *upd.PasswordHash
	}

	r := s.DB.WithContext(ctx).
		Model(&model.User{}).
		Where("id = ?", id).
		Updates(fields)
	if r.Error != nil {
		return fmt.Errorf("failed to update user, %w", r.Error)
	}

	if r.RowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

func (s *GormUsers) first(ctx context.Context, query string, args ...any) (*model.User, error) {
	var user model.User

	err := s.DB.WithContext(ctx).
		Where(query, args...).
		First(&user).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}

		return nil, fmt.Errorf("failed to fetch user, %w", err)
	}

	return &user, nil
}
