package models

import (
	"time"

	"github.com/google/uuid"
)

type Device struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	UserID   uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	Token    string    `gorm:"size:255;not null;unique" json:"token"`
	Platform string    `gorm:"size:20;not null" json:"platform"`
	IsActive bool      `gorm:"default:true" json:"is_active"`

	User User `gorm:"foreignkey:UserID;constraint:OnDelete:CASCADE" json:"-"`

	RegisteredAt time.Time `gorm:"autoCreateTime" json:"registered_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
