package handler

import (
	"net/http"

	"hibro/internal/middleware"
	"hibro/internal/repository"

	"github.com/gin-gonic/gin"
)

type MeHandler struct {
	userRepo *repository.UserRepository
	postRepo *repository.PostRepository
}

func NewMeHandler(userRepo *repository.UserRepository, postRepo *repository.PostRepository) *MeHandler {
	return &MeHandler{userRepo: userRepo, postRepo: postRepo}
}

func (h *MeHandler) GetProfile(c *gin.Context) {
	userID := middleware.GetUserID(c)
	u, err := h.userRepo.GetByID(userID)
	if err != nil {
		respondError(c, err)
		return
	}
	posts, _ := h.postRepo.List(repository.PostFilter{CreatorID: userID}, 50, 0)
	c.JSON(http.StatusOK, gin.H{"user": u, "posts": posts})
}

func (h *MeHandler) UpdateProfile(c *gin.Context) {
	userID := middleware.GetUserID(c)
	var req struct {
		Username  *string `json:"username"`
		Bio       *string `json:"bio"`
		HomeBase  *string `json:"home_base"`
		AvatarURL *string `json:"avatar_url"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	u, err := h.userRepo.GetByID(userID)
	if err != nil {
		respondError(c, err)
		return
	}
	if req.Username != nil && *req.Username != "" {
		u.Username = *req.Username
	}
	if req.Bio != nil {
		u.Bio = *req.Bio
	}
	if req.HomeBase != nil {
		u.HomeBase = *req.HomeBase
	}
	if req.AvatarURL != nil {
		u.AvatarURL = *req.AvatarURL
	}
	if err := h.userRepo.Update(u); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}
