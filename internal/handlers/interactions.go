package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/inkstream/blog-backend/internal/core/interactions"
	"github.com/inkstream/blog-backend/internal/core/notifications"
	"github.com/inkstream/blog-backend/internal/models"
)

type InteractionHandler struct {
	db           *gorm.DB
	interactions *interactions.Service
	notifier     *notifications.Service
}

func NewInteractionHandler(db *gorm.DB, service *interactions.Service, notifier *notifications.Service) *InteractionHandler {
	return &InteractionHandler{db: db, interactions: service, notifier: notifier}
}

func pathID(c *gin.Context, name string) (int, bool) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "InvalidRequest", "message": "Invalid " + name})
		return 0, false
	}
	return id, true
}

func actorID(c *gin.Context) (int, bool) {
	userID, ok := extractUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized", "message": "User not authenticated"})
		return 0, false
	}
	return userID, true
}

// LikePost likes a post; liking twice is a conflict
func (h *InteractionHandler) LikePost(c *gin.Context) {
	postID, ok := pathID(c, "id")
	if !ok {
		return
	}
	userID, ok := actorID(c)
	if !ok {
		return
	}

	count, events, err := h.interactions.LikePost(postID, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	h.notifier.Dispatch(events)

	c.JSON(http.StatusOK, gin.H{"is_liked": true, "likes_count": count})
}

// UnlikePost removes a like; removing an absent like is a conflict
func (h *InteractionHandler) UnlikePost(c *gin.Context) {
	postID, ok := pathID(c, "id")
	if !ok {
		return
	}
	userID, ok := actorID(c)
	if !ok {
		return
	}

	count, err := h.interactions.UnlikePost(postID, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"is_liked": false, "likes_count": count})
}

// SavePost bookmarks a post
func (h *InteractionHandler) SavePost(c *gin.Context) {
	postID, ok := pathID(c, "id")
	if !ok {
		return
	}
	userID, ok := actorID(c)
	if !ok {
		return
	}

	if err := h.interactions.SavePost(postID, userID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"is_saved": true})
}

// UnsavePost removes a bookmark
func (h *InteractionHandler) UnsavePost(c *gin.Context) {
	postID, ok := pathID(c, "id")
	if !ok {
		return
	}
	userID, ok := actorID(c)
	if !ok {
		return
	}

	if err := h.interactions.UnsavePost(postID, userID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"is_saved": false})
}

// LikeComment likes a comment. Repeated likes return the current state
// instead of erroring.
func (h *InteractionHandler) LikeComment(c *gin.Context) {
	commentID, ok := pathID(c, "commentId")
	if !ok {
		return
	}
	userID, ok := actorID(c)
	if !ok {
		return
	}

	count, events, err := h.interactions.LikeComment(commentID, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	h.notifier.Dispatch(events)

	c.JSON(http.StatusOK, gin.H{"liked": true, "likes_count": count})
}

// UnlikeComment removes a comment like
func (h *InteractionHandler) UnlikeComment(c *gin.Context) {
	commentID, ok := pathID(c, "commentId")
	if !ok {
		return
	}
	userID, ok := actorID(c)
	if !ok {
		return
	}

	count, err := h.interactions.UnlikeComment(commentID, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"liked": false, "likes_count": count})
}

// SharePost records a share event; works with or without an authenticated user
func (h *InteractionHandler) SharePost(c *gin.Context) {
	postID, ok := pathID(c, "id")
	if !ok {
		return
	}
	userID, _ := extractUserID(c) // 0 for anonymous shares

	var input models.ShareRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "InvalidRequest", "message": err.Error()})
		return
	}
	if input.Platform == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "InvalidRequest", "message": "Platform is required"})
		return
	}

	count, events, err := h.interactions.SharePost(postID, userID, input.Platform, input.Message)
	if err != nil {
		respondError(c, err)
		return
	}

	h.notifier.Dispatch(events)

	c.JSON(http.StatusCreated, gin.H{"shares_count": count})
}
