package models

import (
	"time"

	"github.com/google/uuid"
)

type EventInvitation struct {
	ID            uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	EventID       uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_invitation_event_user" json:"event_id"`
	UserID        uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_invitation_event_user;index" json:"user_id"`
	IsAutoMatched bool      `gorm:"default:false" json:"is_auto_matched"`

	Event Event `gorm:"foreignkey:EventID;constraint:OnDelete:CASCADE" json:"-"`
	User  User  `gorm:"foreignkey:UserID;constraint:OnDelete:CASCADE" json:"-"`

	CreatedAt time.Time `json:"created_at"`
}

// DeclinedInvitation suppresses an event from the user's invitation feed and
// from auto-match candidate sets. A user holds an EventInvitation xor a
// DeclinedInvitation for the same event, never both.
type DeclinedInvitation struct {
	ID      uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	EventID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_declined_event_user" json:"event_id"`
	UserID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_declined_event_user" json:"user_id"`

	Event Event `gorm:"foreignkey:EventID;constraint:OnDelete:CASCADE" json:"-"`
	User  User  `gorm:"foreignkey:UserID;constraint:OnDelete:CASCADE" json:"-"`

	CreatedAt time.Time `json:"created_at"`
}
