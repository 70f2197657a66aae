package models

import (
	"time"

	"github.com/google/uuid"
)

type EventComment struct {
	ID       uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	EventID  uuid.UUID  `gorm:"type:uuid;not null;index" json:"event_id"`
	AuthorID uuid.UUID  `gorm:"type:uuid;not null" json:"author_id"`
	Text     string     `gorm:"type:text;not null" json:"text"`
	ParentID *uuid.UUID `gorm:"type:uuid" json:"parent_id,omitempty"`

	Event  Event         `gorm:"foreignkey:EventID;constraint:OnDelete:CASCADE" json:"-"`
	Author User          `gorm:"foreignkey:AuthorID;constraint:OnDelete:CASCADE" json:"-"`
	Parent *EventComment `gorm:"foreignkey:ParentID" json:"-"`

	CreatedAt time.Time `json:"created_at"`
}

// EventLike with a nil CommentID is a like on the event itself.
type EventLike struct {
	ID        uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	EventID   uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_like_triple" json:"event_id"`
	UserID    uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_like_triple" json:"user_id"`
	CommentID *uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_like_triple" json:"comment_id,omitempty"`

	Event   Event         `gorm:"foreignkey:EventID;constraint:OnDelete:CASCADE" json:"-"`
	User    User          `gorm:"foreignkey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Comment *EventComment `gorm:"foreignkey:CommentID;constraint:OnDelete:CASCADE" json:"-"`

	CreatedAt time.Time `json:"created_at"`
}

type EventShare struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	EventID  uuid.UUID `gorm:"type:uuid;not null;index" json:"event_id"`
	UserID   uuid.UUID `gorm:"type:uuid;not null" json:"user_id"`
	Platform string    `gorm:"size:50;not null" json:"platform"`

	Event Event `gorm:"foreignkey:EventID;constraint:OnDelete:CASCADE" json:"-"`
	User  User  `gorm:"foreignkey:UserID;constraint:OnDelete:CASCADE" json:"-"`

	CreatedAt time.Time `json:"created_at"`
}
