package models

import (
	"time"

	"github.com/google/uuid"
)

var EventTypes = []string{
	"study", "party", "business", "cultural", "academic",
	"networking", "social", "language_exchange", "other",
}

func IsValidEventType(t string) bool {
	for _, v := range EventTypes {
		if v == t {
			return true
		}
	}
	return false
}

type Event struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Title       string    `gorm:"size:200;not null" json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	HostID      uuid.UUID `gorm:"type:uuid;not null;index" json:"host_id"`

	Latitude  float64 `gorm:"not null" json:"latitude"`
	Longitude float64 `gorm:"not null" json:"longitude"`

	StartTime time.Time `gorm:"not null;index" json:"start_time"`
	EndTime   time.Time `gorm:"not null" json:"end_time"`

	IsPublic            bool     `gorm:"default:false;index:idx_events_type_public" json:"is_public"`
	EventType           string   `gorm:"size:30;not null;index:idx_events_type_public" json:"event_type"`
	MaxParticipants     int      `gorm:"not null" json:"max_participants"`
	AutoMatchingEnabled bool     `gorm:"default:false" json:"auto_matching_enabled"`
	InterestTags        []string `gorm:"serializer:json" json:"interest_tags"`

	Host      User    `gorm:"foreignkey:HostID;constraint:OnDelete:CASCADE" json:"-"`
	Attendees []*User `gorm:"many2many:event_attendees;constraint:OnDelete:CASCADE" json:"attendees,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
