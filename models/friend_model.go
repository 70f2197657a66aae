package models

import (
	"time"

	"github.com/google/uuid"
)

type FriendRequest struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	FromUserID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_friend_request_pair" json:"from_user_id"`
	ToUserID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_friend_request_pair" json:"to_user_id"`

	FromUser User `gorm:"foreignkey:FromUserID;constraint:OnDelete:CASCADE" json:"-"`
	ToUser   User `gorm:"foreignkey:ToUserID;constraint:OnDelete:CASCADE" json:"-"`

	CreatedAt time.Time `json:"created_at"`
}

// Friendship is one direction of a friend edge. Accepting a friend request
// inserts two rows, one per direction, so the friends set stays symmetric.
type Friendship struct {
	UserID   uuid.UUID `gorm:"type:uuid;primary_key" json:"user_id"`
	FriendID uuid.UUID `gorm:"type:uuid;primary_key" json:"friend_id"`

	User   User `gorm:"foreignkey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Friend User `gorm:"foreignkey:FriendID;constraint:OnDelete:CASCADE" json:"-"`

	CreatedAt time.Time `json:"created_at"`
}
