package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/inkstream/blog-backend/internal/core/interactions"
	"github.com/inkstream/blog-backend/internal/core/notifications"
	"github.com/inkstream/blog-backend/internal/models"
)

type UserHandler struct {
	db           *gorm.DB
	interactions *interactions.Service
	notifier     *notifications.Service
}

func NewUserHandler(db *gorm.DB, service *interactions.Service, notifier *notifications.Service) *UserHandler {
	return &UserHandler{db: db, interactions: service, notifier: notifier}
}

// GetUserProfile returns a user's profile
func (h *UserHandler) GetUserProfile(c *gin.Context) {
	userID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var user models.User
	if err := h.db.First(&user, userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "NotFound", "message": "User not found"})
		return
	}

	// Get user's published posts
	var posts []models.Post
	h.db.Where("author_id = ? AND status = ?", userID, models.PostStatusPublished).
		Preload("User").Order("created_at desc").Find(&posts)
	if posts == nil {
		posts = []models.Post{}
	}

	// Follower/following counts come from the follow rows, never a cached field
	var followerCount, followingCount int64
	h.db.Model(&models.Follow{}).Where("following_id = ?", userID).Count(&followerCount)
	h.db.Model(&models.Follow{}).Where("follower_id = ?", userID).Count(&followingCount)

	isFollowing := false
	if viewerID, exists := extractUserID(c); exists {
		isFollowing, _ = h.interactions.IsFollowing(viewerID, userID)
	}

	c.JSON(http.StatusOK, gin.H{
		"user": gin.H{
			"id":       user.ID,
			"username": user.Username,
			"name":     user.Name,
			"bio":      user.Bio,
			"avatar":   user.Avatar,
			"role":     user.Role,
		},
		"posts":           posts,
		"follower_count":  followerCount,
		"following_count": followingCount,
		"is_following":    isFollowing,
	})
}

// UpdateUserProfile updates the authenticated user's own profile
func (h *UserHandler) UpdateUserProfile(c *gin.Context) {
	userID, ok := pathID(c, "id")
	if !ok {
		return
	}

	authUserID, exists := extractUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized", "message": "User not authenticated"})
		return
	}

	if authUserID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden", "message": "You can only update your own profile"})
		return
	}

	var input struct {
		Name   string `json:"name"`
		Bio    string `json:"bio"`
		Avatar string `json:"avatar"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "InvalidRequest", "message": err.Error()})
		return
	}

	var user models.User
	if err := h.db.First(&user, userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "NotFound", "message": "User not found"})
		return
	}

	if input.Name != "" {
		user.Name = input.Name
	}
	if input.Bio != "" {
		user.Bio = input.Bio
	}
	if input.Avatar != "" {
		user.Avatar = input.Avatar
	}

	if err := h.db.Save(&user).Error; err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":       user.ID,
		"username": user.Username,
		"name":     user.Name,
		"email":    user.Email,
		"bio":      user.Bio,
		"avatar":   user.Avatar,
	})
}

// FollowUser follows a user
func (h *UserHandler) FollowUser(c *gin.Context) {
	followingID, ok := pathID(c, "id")
	if !ok {
		return
	}
	followerID, ok := actorID(c)
	if !ok {
		return
	}

	summary, events, err := h.interactions.Follow(followerID, followingID)
	if err != nil {
		respondError(c, err)
		return
	}

	h.notifier.Dispatch(events)

	c.JSON(http.StatusOK, summary)
}

// UnfollowUser unfollows a user
func (h *UserHandler) UnfollowUser(c *gin.Context) {
	followingID, ok := pathID(c, "id")
	if !ok {
		return
	}
	followerID, ok := actorID(c)
	if !ok {
		return
	}

	summary, err := h.interactions.Unfollow(followerID, followingID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}

// GetFollowers returns a user's followers
func (h *UserHandler) GetFollowers(c *gin.Context) {
	userID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var follows []models.Follow
	h.db.Where("following_id = ?", userID).Preload("Follower").Find(&follows)

	followers := make([]gin.H, 0, len(follows))
	for _, follow := range follows {
		followers = append(followers, gin.H{
			"id":       follow.Follower.ID,
			"username": follow.Follower.Username,
			"name":     follow.Follower.Name,
			"avatar":   follow.Follower.Avatar,
		})
	}

	c.JSON(http.StatusOK, followers)
}

// GetFollowing returns users that a user is following
func (h *UserHandler) GetFollowing(c *gin.Context) {
	userID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var follows []models.Follow
	h.db.Where("follower_id = ?", userID).Preload("Following").Find(&follows)

	following := make([]gin.H, 0, len(follows))
	for _, follow := range follows {
		following = append(following, gin.H{
			"id":       follow.Following.ID,
			"username": follow.Following.Username,
			"name":     follow.Following.Name,
			"avatar":   follow.Following.Avatar,
		})
	}

	c.JSON(http.StatusOK, following)
}
