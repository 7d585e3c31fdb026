package handler

import (
	"net/http"
	"strconv"

	"hibro/internal/middleware"
	"hibro/internal/repository"

	"github.com/gin-gonic/gin"
)

type FavoriteHandler struct {
	repo     *repository.FavoriteRepository
	postRepo *repository.PostRepository
}

func NewFavoriteHandler(repo *repository.FavoriteRepository, postRepo *repository.PostRepository) *FavoriteHandler {
	return &FavoriteHandler{repo: repo, postRepo: postRepo}
}

func (h *FavoriteHandler) Add(c *gin.Context) {
	userID := middleware.GetUserID(c)
	postID, _ := strconv.ParseUint(c.Param("id"), 10, 64)
	if _, err := h.postRepo.GetByID(uint(postID)); err != nil {
		respondError(c, err)
		return
	}
	ok, _ := h.repo.IsFavorite(userID, uint(postID))
	if ok {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
		return
	}
	if err := h.repo.Add(userID, uint(postID)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"status": "ok"})
}

func (h *FavoriteHandler) Remove(c *gin.Context) {
	userID := middleware.GetUserID(c)
	postID, _ := strconv.ParseUint(c.Param("id"), 10, 64)
	if err := h.repo.Remove(userID, uint(postID)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *FavoriteHandler) List(c *gin.Context) {
	userID := middleware.GetUserID(c)
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	list, err := h.repo.ListByUserID(userID, limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}
	out := make([]gin.H, len(list))
	for i, f := range list {
		out[i] = gin.H{
			"id":         f.ID,
			"post_id":    f.PostID,
			"created_at": f.CreatedAt,
			"post":       f.Post,
		}
	}
	c.JSON(http.StatusOK, gin.H{"favorites": out})
}
