package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/inkstream/blog-backend/internal/core/comments"
	"github.com/inkstream/blog-backend/internal/core/notifications"
	"github.com/inkstream/blog-backend/internal/models"
)

type CommentHandler struct {
	db       *gorm.DB
	comments *comments.Service
	notifier *notifications.Service
}

func NewCommentHandler(db *gorm.DB, service *comments.Service, notifier *notifications.Service) *CommentHandler {
	return &CommentHandler{db: db, comments: service, notifier: notifier}
}

// GetComments returns one page of a post's comment tree: top-level comments
// newest first, replies nested two levels deep in chronological order.
func (h *CommentHandler) GetComments(c *gin.Context) {
	postID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "InvalidRequest", "message": "Invalid post id"})
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	viewerID, _ := extractUserID(c)

	result, err := h.comments.List(postID, viewerID, page, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// CreateComment creates a comment or a reply on a published post
func (h *CommentHandler) CreateComment(c *gin.Context) {
	postID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "InvalidRequest", "message": "Invalid post id"})
		return
	}

	userID, ok := extractUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized", "message": "User not authenticated"})
		return
	}

	var input models.CreateCommentRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "InvalidRequest", "message": err.Error()})
		return
	}

	created, events, err := h.comments.Add(postID, userID, input.Content, input.ParentID)
	if err != nil {
		respondError(c, err)
		return
	}

	// Best effort: the comment is already committed.
	h.notifier.Dispatch(events)

	c.JSON(http.StatusCreated, created)
}

// UpdateComment updates a comment's content (owner or admin only)
func (h *CommentHandler) UpdateComment(c *gin.Context) {
	commentID, err := strconv.Atoi(c.Param("commentId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "InvalidRequest", "message": "Invalid comment id"})
		return
	}

	userID, ok := extractUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized", "message": "User not authenticated"})
		return
	}

	var input struct {
		Content string `json:"content"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "InvalidRequest", "message": err.Error()})
		return
	}

	updated, err := h.comments.Update(commentID, userID, input.Content)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, updated)
}

// DeleteComment deletes a comment and its reply subtree (owner or admin only)
func (h *CommentHandler) DeleteComment(c *gin.Context) {
	commentID, err := strconv.Atoi(c.Param("commentId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "InvalidRequest", "message": "Invalid comment id"})
		return
	}

	userID, ok := extractUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized", "message": "User not authenticated"})
		return
	}

	count, err := h.comments.Delete(commentID, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"comments_count": count})
}
