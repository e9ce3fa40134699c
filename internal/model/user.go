package model

import (
	"strings"
	"time"
)

type User struct {
	ID           string     `gorm:"primaryKey" json:"id"`
	FirstName    string     `gorm:"not null" json:"firstName"`
	LastName     string     `gorm:"not null" json:"lastName"`
	Email        string     `gorm:"uniqueIndex;not null" json:"email"` // Always lowercase
	PasswordHash string     `gorm:"not null" json:"-"`
	CreatedAt    time.Time  `gorm:"not null" json:"createdAt"`
	UpdatedAt    *time.Time `gorm:"autoUpdateTime:false" json:"updatedAt,omitempty"`
}

// FullName joins the non-empty name parts with a single space
func (u *User) FullName() string {
	parts := make([]string, 0, 2)

	for _, p := range []string{u.FirstName, u.LastName} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}

	return strings.Join(parts, " ")
}
