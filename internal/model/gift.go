// Package model defines database models
package model

import "time"

type Gift struct {
	ID          string    `gorm:"primaryKey" json:"_id"`
	AppID       string    `gorm:"index" json:"id,omitempty"` // Supplied by whoever created the gift, may be empty
	Name        string    `gorm:"not null" json:"name"`
	Category    string    `gorm:"index" json:"category"`
	Condition   string    `json:"condition"`
	AgeDays     int       `json:"age_days"`
	AgeYears    float64   `json:"age_years"`
	Description string    `json:"description"`
	Image       string    `json:"image"`
	DateAdded   int64     `json:"date_added"` // Unix seconds
	CreatedBy   string    `gorm:"index" json:"createdBy,omitempty"`
	CreatedAt   time.Time `gorm:"not null" json:"createdAt"`
}
