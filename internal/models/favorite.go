package models

import "time"

// Favorite bookmarks a post for a user. Rows are hard-deleted on
// removal so the (user_id, post_id) unique index stays free for a
// later re-add.
type Favorite struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index:idx_fav_user_post,unique" json:"user_id"`
	PostID    uint      `gorm:"not null;index:idx_fav_user_post,unique" json:"post_id"`
	CreatedAt time.Time `json:"created_at"`

	User User       `gorm:"foreignKey:UserID" json:"-"`
	Post TravelPost `gorm:"foreignKey:PostID" json:"-"`
}

func (Favorite) TableName() string {
	return "favorites"
}
