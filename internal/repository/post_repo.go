package repository

import (
	"fmt"
	"strings"

	"hibro/internal/domain"
	"hibro/internal/models"

	"gorm.io/gorm"
)

// PostRepository is the travel post store. Matching state (BuddyFound,
// BuddyID) is never written here; that belongs to the matching service.
type PostRepository struct {
	db *gorm.DB
}

func NewPostRepository(db *gorm.DB) *PostRepository {
	return &PostRepository{db: db}
}

// PostFilter narrows List results. Matched filters on buddy_found;
// Destination is a case-insensitive substring match.
type PostFilter struct {
	Matched     *bool
	Destination string
	CreatorID   uint
}

func validatePost(p *models.TravelPost) error {
	if strings.TrimSpace(p.Destination) == "" {
		return fmt.Errorf("%w: destination is required", domain.ErrValidation)
	}
	if p.EndDate.Before(p.StartDate) {
		return fmt.Errorf("%w: end date before start date", domain.ErrValidation)
	}
	return nil
}

func (r *PostRepository) Create(p *models.TravelPost) error {
	if err := validatePost(p); err != nil {
		return err
	}
	p.BuddyFound = false
	p.BuddyID = nil
	return translate(r.db.Create(p).Error)
}

func (r *PostRepository) GetByID(id uint) (*models.TravelPost, error) {
	var p models.TravelPost
	if err := r.db.First(&p, id).Error; err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

// Update writes the caller-editable fields only.
func (r *PostRepository) Update(p *models.TravelPost) error {
	if err := validatePost(p); err != nil {
		return err
	}
	return translate(r.db.Model(p).Select(
		"destination", "start_date", "end_date", "buddy_preference", "additional_info", "image_url",
	).Updates(p).Error)
}

func (r *PostRepository) List(f PostFilter, limit, offset int) ([]models.TravelPost, error) {
	q := r.db.Model(&models.TravelPost{})
	if f.Matched != nil {
		q = q.Where("buddy_found = ?", *f.Matched)
	}
	if f.Destination != "" {
		q = q.Where("LOWER(destination) LIKE ?", "%"+strings.ToLower(f.Destination)+"%")
	}
	if f.CreatorID != 0 {
		q = q.Where("creator_id = ?", f.CreatorID)
	}
	var list []models.TravelPost
	err := q.Order("created_at DESC").Limit(limit).Offset(offset).Find(&list).Error
	return list, translate(err)
}
