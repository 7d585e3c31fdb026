package service

import (
	"encoding/json"

	"hibro/internal/domain"
	"hibro/internal/models"
	"hibro/internal/repository"
	"hibro/internal/ws"
)

// NotificationService persists notifications and pushes them to any
// live websocket connections of the target user.
type NotificationService struct {
	repo *repository.NotificationRepository
	hub  *ws.Hub
}

func NewNotificationService(repo *repository.NotificationRepository, hub *ws.Hub) *NotificationService {
	return &NotificationService{repo: repo, hub: hub}
}

func (s *NotificationService) Notify(userID uint, notifType, title, body string, data map[string]interface{}) error {
	var dataJSON string
	if data != nil {
		b, _ := json.Marshal(data)
		dataJSON = string(b)
	}
	err := s.repo.Create(&models.Notification{
		UserID: userID,
		Type:   notifType,
		Title:  title,
		Body:   body,
		Data:   dataJSON,
	})
	if err != nil {
		return err
	}
	if s.hub != nil {
		s.hub.BroadcastToUser(userID, map[string]interface{}{
			"type":  notifType,
			"title": title,
			"body":  body,
			"data":  data,
		})
	}
	return nil
}

func (s *NotificationService) NotifyNewRequest(ownerID, postID, requestID uint, requesterName string) error {
	return s.Notify(ownerID, domain.NotifNewRequest, "New buddy request",
		requesterName+" wants to join your trip",
		map[string]interface{}{"post_id": postID, "request_id": requestID})
}

func (s *NotificationService) NotifyAccepted(requesterID, postID uint, destination string) error {
	return s.Notify(requesterID, domain.NotifRequestAccepted, "Request accepted",
		"You're going to "+destination+"!",
		map[string]interface{}{"post_id": postID})
}

func (s *NotificationService) NotifyRejected(requesterID, postID uint, destination string) error {
	return s.Notify(requesterID, domain.NotifRequestRejected, "Request declined",
		"Your request to join the "+destination+" trip was declined",
		map[string]interface{}{"post_id": postID})
}
