package handler

import (
	"net/http"
	"strconv"

	"hibro/internal/middleware"
	"hibro/internal/repository"
	"hibro/internal/service"

	"github.com/gin-gonic/gin"
)

type RequestHandler struct {
	requestRepo *repository.RequestRepository
	postRepo    *repository.PostRepository
	userRepo    *repository.UserRepository
	matchingSvc *service.MatchingService
	notifSvc    *service.NotificationService
}

func NewRequestHandler(
	requestRepo *repository.RequestRepository,
	postRepo *repository.PostRepository,
	userRepo *repository.UserRepository,
	matchingSvc *service.MatchingService,
	notifSvc *service.NotificationService,
) *RequestHandler {
	return &RequestHandler{
		requestRepo: requestRepo,
		postRepo:    postRepo,
		userRepo:    userRepo,
		matchingSvc: matchingSvc,
		notifSvc:    notifSvc,
	}
}

// Create files a buddy request against a travel post.
func (h *RequestHandler) Create(c *gin.Context) {
	userID := middleware.GetUserID(c)
	postID, _ := strconv.ParseUint(c.Param("id"), 10, 64)
	var body struct {
		Message string `json:"message"`
	}
	_ = c.ShouldBindJSON(&body) // message is optional

	req, err := h.matchingSvc.CreateRequest(c.Request.Context(), uint(postID), userID, body.Message)
	if err != nil {
		respondError(c, err)
		return
	}
	if post, err := h.postRepo.GetByID(req.PostID); err == nil {
		requesterName := ""
		if u, err := h.userRepo.GetByID(userID); err == nil {
			requesterName = u.DisplayName()
		}
		_ = h.notifSvc.NotifyNewRequest(post.CreatorID, post.ID, req.ID, requesterName)
	}
	c.JSON(http.StatusCreated, req)
}

// ListForPost returns all requests on a post; only the creator may look.
func (h *RequestHandler) ListForPost(c *gin.Context) {
	userID := middleware.GetUserID(c)
	postID, _ := strconv.ParseUint(c.Param("id"), 10, 64)
	post, err := h.postRepo.GetByID(uint(postID))
	if err != nil {
		respondError(c, err)
		return
	}
	if post.CreatorID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "not the post creator"})
		return
	}
	list, err := h.requestRepo.ListByPostID(post.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"requests": list})
}

// ListPending returns pending requests against the caller's posts with
// post and requester context.
func (h *RequestHandler) ListPending(c *gin.Context) {
	userID := middleware.GetUserID(c)
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	rows, err := h.requestRepo.ListPendingForOwner(userID, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"requests": rows})
}

// ListMine returns requests the caller has sent.
func (h *RequestHandler) ListMine(c *gin.Context) {
	userID := middleware.GetUserID(c)
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	list, err := h.requestRepo.ListByRequesterID(userID, limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"requests": list})
}

// loadOwnedRequest resolves the request in the path and checks the
// caller owns the parent post.
func (h *RequestHandler) loadOwnedRequest(c *gin.Context) (postID, requesterID uint, destination string, ok bool) {
	userID := middleware.GetUserID(c)
	id, _ := strconv.ParseUint(c.Param("id"), 10, 64)
	req, err := h.requestRepo.GetByID(uint(id))
	if err != nil {
		respondError(c, err)
		return 0, 0, "", false
	}
	post, err := h.postRepo.GetByID(req.PostID)
	if err != nil {
		respondError(c, err)
		return 0, 0, "", false
	}
	if post.CreatorID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "not the post creator"})
		return 0, 0, "", false
	}
	return req.PostID, req.RequesterID, post.Destination, true
}

// Accept matches the post with this request's sender. Competing pending
// requests are rejected in the same transaction; their senders and the
// winner are notified after commit.
func (h *RequestHandler) Accept(c *gin.Context) {
	postID, requesterID, destination, ok := h.loadOwnedRequest(c)
	if !ok {
		return
	}
	res, err := h.matchingSvc.AcceptRequest(c.Request.Context(), postID, requesterID)
	if err != nil {
		respondError(c, err)
		return
	}
	_ = h.notifSvc.NotifyAccepted(requesterID, postID, destination)
	for _, rid := range res.RejectedIDs {
		if rej, err := h.requestRepo.GetByID(rid); err == nil {
			_ = h.notifSvc.NotifyRejected(rej.RequesterID, postID, destination)
		}
	}
	c.JSON(http.StatusOK, gin.H{
		"post":         res.Post,
		"request":      res.Accepted,
		"rejected_ids": res.RejectedIDs,
	})
}

// Reject declines one pending request. The post stays open.
func (h *RequestHandler) Reject(c *gin.Context) {
	postID, requesterID, destination, ok := h.loadOwnedRequest(c)
	if !ok {
		return
	}
	req, err := h.matchingSvc.RejectRequest(c.Request.Context(), postID, requesterID)
	if err != nil {
		respondError(c, err)
		return
	}
	_ = h.notifSvc.NotifyRejected(requesterID, postID, destination)
	c.JSON(http.StatusOK, req)
}
