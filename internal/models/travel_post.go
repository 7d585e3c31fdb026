package models

import (
	"time"

	"gorm.io/gorm"
)

// TravelPost is a trip listing by one user looking for a travel buddy.
// BuddyFound is true iff BuddyID is set; both are written only by the
// matching service when a request is accepted.
type TravelPost struct {
	ID              uint           `gorm:"primaryKey" json:"id"`
	CreatorID       uint           `gorm:"not null;index" json:"creator_id"`
	Destination     string         `gorm:"size:255;not null;index" json:"destination"`
	StartDate       time.Time      `gorm:"not null" json:"start_date"`
	EndDate         time.Time      `gorm:"not null" json:"end_date"`
	BuddyPreference string         `gorm:"type:text" json:"buddy_preference"` // comma-separated category tags
	AdditionalInfo  string         `gorm:"type:text" json:"additional_info"`
	ImageURL        string         `gorm:"size:512" json:"image_url"` // opaque storage URL, never inspected
	BuddyFound      bool           `gorm:"default:false;index" json:"buddy_found"`
	BuddyID         *uint          `gorm:"index" json:"buddy_id"`
	MatchedAt       *time.Time     `json:"matched_at"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`

	Creator  User           `gorm:"foreignKey:CreatorID" json:"-"`
	Buddy    *User          `gorm:"foreignKey:BuddyID" json:"-"`
	Requests []BuddyRequest `gorm:"foreignKey:PostID" json:"-"`
}

func (TravelPost) TableName() string {
	return "travel_posts"
}

func (p *TravelPost) IsMatched() bool { return p.BuddyFound }
