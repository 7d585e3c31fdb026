package handler

import (
	"net/http"
	"strconv"
	"time"

	"hibro/internal/middleware"
	"hibro/internal/models"
	"hibro/internal/repository"
	"hibro/internal/service"

	"github.com/gin-gonic/gin"
)

type PostHandler struct {
	postRepo    *repository.PostRepository
	requestRepo *repository.RequestRepository
	userRepo    *repository.UserRepository
	matchingSvc *service.MatchingService
}

func NewPostHandler(
	postRepo *repository.PostRepository,
	requestRepo *repository.RequestRepository,
	userRepo *repository.UserRepository,
	matchingSvc *service.MatchingService,
) *PostHandler {
	return &PostHandler{
		postRepo:    postRepo,
		requestRepo: requestRepo,
		userRepo:    userRepo,
		matchingSvc: matchingSvc,
	}
}

type postInput struct {
	Destination     string    `json:"destination" binding:"required"`
	StartDate       time.Time `json:"start_date" binding:"required"`
	EndDate         time.Time `json:"end_date" binding:"required"`
	BuddyPreference string    `json:"buddy_preference"`
	AdditionalInfo  string    `json:"additional_info"`
	ImageURL        string    `json:"image_url"`
}

func (h *PostHandler) Create(c *gin.Context) {
	userID := middleware.GetUserID(c)
	var req postInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	post := &models.TravelPost{
		CreatorID:       userID,
		Destination:     req.Destination,
		StartDate:       req.StartDate,
		EndDate:         req.EndDate,
		BuddyPreference: req.BuddyPreference,
		AdditionalInfo:  req.AdditionalInfo,
		ImageURL:        req.ImageURL,
	}
	if err := h.postRepo.Create(post); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, post)
}

func (h *PostHandler) Get(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("id"), 10, 64)
	post, err := h.postRepo.GetByID(uint(id))
	if err != nil {
		respondError(c, err)
		return
	}
	pending, _ := h.requestRepo.CountPendingByPostID(post.ID)
	c.JSON(http.StatusOK, gin.H{"post": post, "pending_requests": pending})
}

func (h *PostHandler) Update(c *gin.Context) {
	userID := middleware.GetUserID(c)
	id, _ := strconv.ParseUint(c.Param("id"), 10, 64)
	post, err := h.postRepo.GetByID(uint(id))
	if err != nil {
		respondError(c, err)
		return
	}
	if post.CreatorID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "not the post creator"})
		return
	}
	var req postInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	post.Destination = req.Destination
	post.StartDate = req.StartDate
	post.EndDate = req.EndDate
	post.BuddyPreference = req.BuddyPreference
	post.AdditionalInfo = req.AdditionalInfo
	if req.ImageURL != "" {
		post.ImageURL = req.ImageURL
	}
	if err := h.postRepo.Update(post); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, post)
}

func (h *PostHandler) Delete(c *gin.Context) {
	userID := middleware.GetUserID(c)
	id, _ := strconv.ParseUint(c.Param("id"), 10, 64)
	if err := h.matchingSvc.DeletePost(c.Request.Context(), uint(id), userID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *PostHandler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	filter := repository.PostFilter{
		Destination: c.Query("destination"),
	}
	if v := c.Query("matched"); v != "" {
		matched := v == "true"
		filter.Matched = &matched
	}
	list, err := h.postRepo.List(filter, limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"posts": list})
}
