package repository

import (
	"hibro/internal/models"

	"gorm.io/gorm"
)

type FavoriteRepository struct {
	db *gorm.DB
}

func NewFavoriteRepository(db *gorm.DB) *FavoriteRepository {
	return &FavoriteRepository{db: db}
}

func (r *FavoriteRepository) Add(userID, postID uint) error {
	return translate(r.db.Create(&models.Favorite{UserID: userID, PostID: postID}).Error)
}

func (r *FavoriteRepository) Remove(userID, postID uint) error {
	return translate(r.db.Where("user_id = ? AND post_id = ?", userID, postID).Delete(&models.Favorite{}).Error)
}

func (r *FavoriteRepository) IsFavorite(userID, postID uint) (bool, error) {
	var c int64
	err := r.db.Model(&models.Favorite{}).Where("user_id = ? AND post_id = ?", userID, postID).Count(&c).Error
	return c > 0, translate(err)
}

func (r *FavoriteRepository) ListByUserID(userID uint, limit, offset int) ([]models.Favorite, error) {
	var list []models.Favorite
	err := r.db.Where("user_id = ?", userID).Preload("Post").
		Order("created_at DESC").Limit(limit).Offset(offset).Find(&list).Error
	return list, translate(err)
}
