package repository

import (
	"time"

	"hibro/internal/domain"
	"hibro/internal/models"

	"gorm.io/gorm"
)

// RequestRepository reads buddy requests. All status transitions go
// through the matching service so they stay transactional.
type RequestRepository struct {
	db *gorm.DB
}

func NewRequestRepository(db *gorm.DB) *RequestRepository {
	return &RequestRepository{db: db}
}

func (r *RequestRepository) GetByID(id uint) (*models.BuddyRequest, error) {
	var req models.BuddyRequest
	if err := r.db.First(&req, id).Error; err != nil {
		return nil, translate(err)
	}
	return &req, nil
}

func (r *RequestRepository) GetByPostAndRequester(postID, requesterID uint) (*models.BuddyRequest, error) {
	var req models.BuddyRequest
	err := r.db.Where("post_id = ? AND requester_id = ?", postID, requesterID).First(&req).Error
	if err != nil {
		return nil, translate(err)
	}
	return &req, nil
}

func (r *RequestRepository) ListByPostID(postID uint) ([]models.BuddyRequest, error) {
	var list []models.BuddyRequest
	err := r.db.Where("post_id = ?", postID).Order("created_at ASC").Find(&list).Error
	return list, translate(err)
}

func (r *RequestRepository) ListByRequesterID(requesterID uint, limit, offset int) ([]models.BuddyRequest, error) {
	var list []models.BuddyRequest
	err := r.db.Where("requester_id = ?", requesterID).
		Order("created_at DESC").Limit(limit).Offset(offset).Find(&list).Error
	return list, translate(err)
}

// PendingRequestRow is one pending request joined with its post and requester.
type PendingRequestRow struct {
	RequestID     uint      `json:"request_id"`
	PostID        uint      `json:"post_id"`
	Destination   string    `json:"destination"`
	StartDate     time.Time `json:"start_date"`
	EndDate       time.Time `json:"end_date"`
	RequesterID   uint      `json:"requester_id"`
	RequesterName string    `json:"requester_name"`
	AvatarURL     string    `json:"avatar_url"`
	Message       string    `json:"message"`
	CreatedAt     time.Time `json:"created_at"`
}

// ListPendingForOwner returns pending requests against the owner's
// posts with post and requester context. An empty result is not an error.
func (r *RequestRepository) ListPendingForOwner(ownerID uint, limit int) ([]PendingRequestRow, error) {
	var rows []PendingRequestRow
	err := r.db.Table("buddy_requests br").
		Select("br.id AS request_id, br.post_id, p.destination, p.start_date, p.end_date, "+
			"br.requester_id, u.username AS requester_name, u.avatar_url, br.message, br.created_at").
		Joins("INNER JOIN travel_posts p ON p.id = br.post_id AND p.deleted_at IS NULL").
		Joins("INNER JOIN users u ON u.id = br.requester_id").
		Where("p.creator_id = ? AND br.status = ? AND br.deleted_at IS NULL", ownerID, domain.RequestStatusPending).
		Order("br.created_at ASC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, translate(err)
	}
	return rows, nil
}

func (r *RequestRepository) CountPendingByPostID(postID uint) (int64, error) {
	var c int64
	err := r.db.Model(&models.BuddyRequest{}).
		Where("post_id = ? AND status = ?", postID, domain.RequestStatusPending).
		Count(&c).Error
	return c, translate(err)
}
