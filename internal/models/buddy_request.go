package models

import (
	"time"

	"hibro/internal/domain"

	"gorm.io/gorm"
)

// BuddyRequest is one user's application to join a travel post.
// Status moves PENDING -> ACCEPTED or PENDING -> REJECTED and never
// leaves a terminal state. Rows live and die with their parent post.
type BuddyRequest struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	PostID      uint           `gorm:"not null;index" json:"post_id"`
	RequesterID uint           `gorm:"not null;index" json:"requester_id"`
	Message     string         `gorm:"type:text" json:"message"`
	Status      string         `gorm:"size:20;not null;index" json:"status"` // PENDING, ACCEPTED, REJECTED
	AcceptedAt  *time.Time     `json:"accepted_at"`
	RejectedAt  *time.Time     `json:"rejected_at"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	Post      TravelPost `gorm:"foreignKey:PostID" json:"-"`
	Requester User       `gorm:"foreignKey:RequesterID" json:"-"`
}

func (BuddyRequest) TableName() string {
	return "buddy_requests"
}

func (r *BuddyRequest) IsPending() bool  { return r.Status == domain.RequestStatusPending }
func (r *BuddyRequest) IsAccepted() bool { return r.Status == domain.RequestStatusAccepted }
