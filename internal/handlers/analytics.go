package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/inkstream/blog-backend/internal/models"
)

type AnalyticsHandler struct {
	db *gorm.DB
}

func NewAnalyticsHandler(db *gorm.DB) *AnalyticsHandler {
	return &AnalyticsHandler{db: db}
}

// GetStats returns platform-wide entity counts and the most viewed posts
// (admin only)
func (h *AnalyticsHandler) GetStats(c *gin.Context) {
	userID, ok := actorID(c)
	if !ok {
		return
	}

	var user models.User
	if err := h.db.First(&user, userID).Error; err != nil || !user.IsAdmin() {
		c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden", "message": "Admin access required"})
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "5"))
	if limit < 1 || limit > 50 {
		limit = 5
	}

	counts := gin.H{}
	for name, model := range map[string]interface{}{
		"users":    &models.User{},
		"posts":    &models.Post{},
		"comments": &models.Comment{},
		"likes":    &models.Like{},
		"follows":  &models.Follow{},
		"shares":   &models.Share{},
	} {
		var n int64
		if err := h.db.Model(model).Count(&n).Error; err != nil {
			respondError(c, err)
			return
		}
		counts[name] = n
	}

	var topPosts []models.Post
	err := h.db.Where("status = ?", models.PostStatusPublished).
		Order("views desc").
		Limit(limit).
		Find(&topPosts).Error
	if err != nil {
		respondError(c, err)
		return
	}

	top := make([]gin.H, 0, len(topPosts))
	for _, post := range topPosts {
		top = append(top, gin.H{
			"id":    post.ID,
			"title": post.Title,
			"slug":  post.Slug,
			"views": post.Views,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"counts":    counts,
		"top_posts": top,
	})
}
