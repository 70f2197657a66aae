package models

import (
	"time"

	"github.com/google/uuid"
)

type UserRating struct {
	ID         uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	FromUserID uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_rating_unique" json:"from_user_id"`
	ToUserID   uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_rating_unique;index" json:"to_user_id"`
	EventID    *uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_rating_unique" json:"event_id,omitempty"`
	Score      int        `gorm:"not null" json:"score"`
	Reference  string     `gorm:"size:5000" json:"reference"`

	FromUser User   `gorm:"foreignkey:FromUserID;constraint:OnDelete:CASCADE" json:"-"`
	ToUser   User   `gorm:"foreignkey:ToUserID;constraint:OnDelete:CASCADE" json:"-"`
	Event    *Event `gorm:"foreignkey:EventID;constraint:OnDelete:CASCADE" json:"-"`

	CreatedAt time.Time `json:"created_at"`
}

type UserTrustLevel struct {
	Level            int     `gorm:"primary_key" json:"level"`
	Title            string  `gorm:"size:100;not null" json:"title"`
	RequiredRatings  int     `gorm:"not null" json:"required_ratings"`
	MinAverageRating float64 `gorm:"not null" json:"min_average_rating"`
}

type UserReputationStats struct {
	ID     uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;not null;unique" json:"user_id"`

	TotalRatings    int     `gorm:"default:0" json:"total_ratings"`
	AverageRating   float64 `gorm:"default:0" json:"average_rating"`
	PositiveRatings int     `gorm:"default:0" json:"positive_ratings"`
	NegativeRatings int     `gorm:"default:0" json:"negative_ratings"`
	EventsHosted    int     `gorm:"default:0" json:"events_hosted"`
	EventsAttended  int     `gorm:"default:0" json:"events_attended"`
	TrustLevelID    int     `gorm:"default:1" json:"trust_level"`

	User       User           `gorm:"foreignkey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	TrustLevel UserTrustLevel `gorm:"foreignkey:TrustLevelID" json:"-"`

	UpdatedAt time.Time `json:"updated_at"`
}

// EventReviewReminder is an idempotency marker: at most one reminder is ever
// sent per (event, attendee).
type EventReviewReminder struct {
	ID      uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	EventID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_reminder_event_user" json:"event_id"`
	UserID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_reminder_event_user" json:"user_id"`

	Event Event `gorm:"foreignkey:EventID;constraint:OnDelete:CASCADE" json:"-"`
	User  User  `gorm:"foreignkey:UserID;constraint:OnDelete:CASCADE" json:"-"`

	CreatedAt time.Time `json:"created_at"`
}
