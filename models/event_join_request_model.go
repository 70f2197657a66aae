package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	JoinRequestPending  = "PENDING"
	JoinRequestApproved = "APPROVED"
	JoinRequestRejected = "REJECTED"
)

type EventJoinRequest struct {
	ID      uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	EventID uuid.UUID `gorm:"type:uuid;not null;index:idx_join_request_event_status" json:"event_id"`
	UserID  uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	Status  string    `gorm:"size:20;not null;default:'PENDING';index:idx_join_request_event_status" json:"status"`
	Message string    `gorm:"type:text" json:"message"`

	Event Event `gorm:"foreignkey:EventID;constraint:OnDelete:CASCADE" json:"-"`
	User  User  `gorm:"foreignkey:UserID;constraint:OnDelete:CASCADE" json:"-"`

	CreatedAt   time.Time  `json:"created_at"`
	ProcessedAt *time.Time `json:"processed_at,omitempty"`
}
