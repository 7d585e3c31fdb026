package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"hibro/internal/domain"
	"hibro/internal/models"

	"gorm.io/gorm"
)

// MatchingService owns every state transition on a post and its buddy
// requests. Each operation runs in a single transaction: a failure at
// any step rolls back the whole thing, so no half-applied accept is
// ever observable. The status/buddy_found writes are guarded updates
// (WHERE clauses on the expected prior state), so two racing accepts
// produce exactly one winner regardless of isolation level.
type MatchingService struct {
	db *gorm.DB
}

func NewMatchingService(db *gorm.DB) *MatchingService {
	return &MatchingService{db: db}
}

// AcceptResult is the committed outcome of an accept: the matched post
// and the ids of requests that were auto-rejected alongside it.
type AcceptResult struct {
	Post        *models.TravelPost
	Accepted    *models.BuddyRequest
	RejectedIDs []uint
}

func wrapTx(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrNotFound),
		errors.Is(err, domain.ErrConflict),
		errors.Is(err, domain.ErrInvalidState),
		errors.Is(err, domain.ErrForbidden):
		return err
	default:
		return fmt.Errorf("%w: %v", domain.ErrTxFailed, err)
	}
}

func loadPost(tx *gorm.DB, postID uint) (*models.TravelPost, error) {
	var post models.TravelPost
	if err := tx.First(&post, postID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: travel post %d", domain.ErrNotFound, postID)
		}
		return nil, err
	}
	return &post, nil
}

// CreateRequest files a pending request against an open post. Duplicate
// pending/accepted requests from the same requester and requests against
// already-matched posts are conflicts.
func (s *MatchingService) CreateRequest(ctx context.Context, postID, requesterID uint, message string) (*models.BuddyRequest, error) {
	var req *models.BuddyRequest
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		post, err := loadPost(tx, postID)
		if err != nil {
			return err
		}
		if post.BuddyFound {
			return fmt.Errorf("%w: post already matched", domain.ErrConflict)
		}
		if post.CreatorID == requesterID {
			return fmt.Errorf("%w: cannot request to join your own post", domain.ErrValidation)
		}
		var dupes int64
		err = tx.Model(&models.BuddyRequest{}).
			Where("post_id = ? AND requester_id = ? AND status IN ?",
				postID, requesterID, []string{domain.RequestStatusPending, domain.RequestStatusAccepted}).
			Count(&dupes).Error
		if err != nil {
			return err
		}
		if dupes > 0 {
			return fmt.Errorf("%w: request already exists", domain.ErrConflict)
		}
		req = &models.BuddyRequest{
			PostID:      postID,
			RequesterID: requesterID,
			Message:     message,
			Status:      domain.RequestStatusPending,
		}
		return tx.Create(req).Error
	})
	if err != nil {
		return nil, wrapTx(err)
	}
	return req, nil
}

// AcceptRequest marks the post matched with the requester, accepts the
// targeted request and rejects every other pending request, all in one
// transaction.
func (s *MatchingService) AcceptRequest(ctx context.Context, postID, requesterID uint) (*AcceptResult, error) {
	res := &AcceptResult{}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		post, err := loadPost(tx, postID)
		if err != nil {
			return err
		}
		if post.BuddyFound {
			return fmt.Errorf("%w: post already matched", domain.ErrConflict)
		}
		// Newest row for the pair: a rejected requester may re-apply, so
		// older terminal requests can coexist with the live one.
		var req models.BuddyRequest
		err = tx.Where("post_id = ? AND requester_id = ?", postID, requesterID).
			Order("id DESC").First(&req).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: no request from user %d", domain.ErrNotFound, requesterID)
		}
		if err != nil {
			return err
		}
		if req.Status != domain.RequestStatusPending {
			return fmt.Errorf("%w: request is %s", domain.ErrInvalidState, req.Status)
		}

		now := time.Now()
		// Guarded write: only flips an unmatched post. A concurrent
		// accept that committed first leaves zero rows here.
		upd := tx.Model(&models.TravelPost{}).
			Where("id = ? AND buddy_found = ?", postID, false).
			Updates(map[string]interface{}{
				"buddy_found": true,
				"buddy_id":    requesterID,
				"matched_at":  now,
			})
		if upd.Error != nil {
			return upd.Error
		}
		if upd.RowsAffected == 0 {
			return fmt.Errorf("%w: post already matched", domain.ErrConflict)
		}

		upd = tx.Model(&models.BuddyRequest{}).
			Where("id = ? AND status = ?", req.ID, domain.RequestStatusPending).
			Updates(map[string]interface{}{
				"status":      domain.RequestStatusAccepted,
				"accepted_at": now,
			})
		if upd.Error != nil {
			return upd.Error
		}
		if upd.RowsAffected == 0 {
			return fmt.Errorf("%w: request is no longer pending", domain.ErrInvalidState)
		}

		var rejected []uint
		err = tx.Model(&models.BuddyRequest{}).
			Where("post_id = ? AND status = ? AND id != ?", postID, domain.RequestStatusPending, req.ID).
			Pluck("id", &rejected).Error
		if err != nil {
			return err
		}
		if len(rejected) > 0 {
			err = tx.Model(&models.BuddyRequest{}).
				Where("id IN ?", rejected).
				Updates(map[string]interface{}{
					"status":      domain.RequestStatusRejected,
					"rejected_at": now,
				}).Error
			if err != nil {
				return err
			}
		}

		if err := tx.First(post, postID).Error; err != nil {
			return err
		}
		if err := tx.First(&req, req.ID).Error; err != nil {
			return err
		}
		res.Post = post
		res.Accepted = &req
		res.RejectedIDs = rejected
		return nil
	})
	if err != nil {
		return nil, wrapTx(err)
	}
	return res, nil
}

// RejectRequest rejects one pending request. The parent post is never
// touched.
func (s *MatchingService) RejectRequest(ctx context.Context, postID, requesterID uint) (*models.BuddyRequest, error) {
	var req models.BuddyRequest
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Same newest-row rule as AcceptRequest.
		err := tx.Where("post_id = ? AND requester_id = ?", postID, requesterID).
			Order("id DESC").First(&req).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: no request from user %d", domain.ErrNotFound, requesterID)
		}
		if err != nil {
			return err
		}
		if req.Status != domain.RequestStatusPending {
			return fmt.Errorf("%w: request is %s", domain.ErrInvalidState, req.Status)
		}
		now := time.Now()
		upd := tx.Model(&models.BuddyRequest{}).
			Where("id = ? AND status = ?", req.ID, domain.RequestStatusPending).
			Updates(map[string]interface{}{
				"status":      domain.RequestStatusRejected,
				"rejected_at": now,
			})
		if upd.Error != nil {
			return upd.Error
		}
		if upd.RowsAffected == 0 {
			return fmt.Errorf("%w: request is no longer pending", domain.ErrInvalidState)
		}
		return tx.First(&req, req.ID).Error
	})
	if err != nil {
		return nil, wrapTx(err)
	}
	return &req, nil
}

// DeletePost removes a post and cascades to its requests and favorites
// in the same transaction. Only the creator may delete.
func (s *MatchingService) DeletePost(ctx context.Context, postID, callerID uint) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		post, err := loadPost(tx, postID)
		if err != nil {
			return err
		}
		if post.CreatorID != callerID {
			return fmt.Errorf("%w: not the post creator", domain.ErrForbidden)
		}
		if err := tx.Where("post_id = ?", postID).Delete(&models.BuddyRequest{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", postID).Delete(&models.Favorite{}).Error; err != nil {
			return err
		}
		return tx.Delete(post).Error
	})
	return wrapTx(err)
}
