package models

import (
	"time"

	"github.com/google/uuid"
)

// Skill proficiency values stored in UserProfile.Skills.
const (
	SkillBeginner     = "BEGINNER"
	SkillIntermediate = "INTERMEDIATE"
	SkillAdvanced     = "ADVANCED"
	SkillExpert       = "EXPERT"
)

type UserProfile struct {
	ID     uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;not null;unique" json:"user_id"`

	FullName   string `gorm:"size:255" json:"full_name"`
	University string `gorm:"size:255" json:"university"`
	Degree     string `gorm:"size:255" json:"degree"`
	Year       string `gorm:"size:50" json:"year"`
	Bio        string `gorm:"type:text" json:"bio"`

	// Interests are free-form tags; Skills map a tag to a proficiency level.
	Interests []string          `gorm:"serializer:json" json:"interests"`
	Skills    map[string]string `gorm:"serializer:json" json:"skills"`

	IsCertified            bool    `gorm:"default:false" json:"is_certified"`
	CertificationRequested bool    `gorm:"default:false" json:"certification_requested"`
	AutoInviteEnabled      bool    `gorm:"default:true" json:"auto_invite_enabled"`
	PreferredRadiusKM      float64 `gorm:"default:10" json:"preferred_radius_km"`

	// Optional home coordinate used by the auto-match radius filter.
	HomeLatitude  *float64 `json:"home_latitude,omitempty"`
	HomeLongitude *float64 `json:"home_longitude,omitempty"`

	ProfileImageURL *string `gorm:"size:512" json:"profile_image_url,omitempty"`

	User User `gorm:"foreignkey:UserID" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
