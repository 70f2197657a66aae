package models

import (
	"time"

	"github.com/google/uuid"
)

type ChatMessage struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	SenderID   uuid.UUID `gorm:"type:uuid;not null;index:idx_chat_pair_time" json:"sender_id"`
	ReceiverID uuid.UUID `gorm:"type:uuid;not null;index:idx_chat_pair_time" json:"receiver_id"`
	Text       string    `gorm:"size:1000;not null" json:"text"`

	Sender   User `gorm:"foreignkey:SenderID;constraint:OnDelete:CASCADE" json:"-"`
	Receiver User `gorm:"foreignkey:ReceiverID;constraint:OnDelete:CASCADE" json:"-"`

	CreatedAt time.Time `gorm:"index:idx_chat_pair_time" json:"created_at"`
}
